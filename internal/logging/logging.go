// Package logging carries request-scoped loggers through context.Context so
// that services never reach for a process-wide logger.
package logging

import (
	"context"
	"io"
	"log"
)

type contextKey struct{}

// New returns a logger writing to out with the standard flags and prefix.
func New(out io.Writer, prefix string) *log.Logger {
	return log.New(out, prefix, log.LstdFlags|log.LUTC|log.Lmsgprefix)
}

// With derives a logger that adds prefix after base's own prefix.
func With(base *log.Logger, prefix string) *log.Logger {
	return log.New(base.Writer(), base.Prefix()+prefix, base.Flags())
}

func NewContext(ctx context.Context, logger *log.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or fallback when there is none.
func FromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
		return logger
	}
	return fallback
}

// Discard is a logger for tests and tools that want no output.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}
