package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"task-marketplace.com/task-marketplace/internal/logging"
)

// RequestLogger attaches a logger tagged with the request id to the request
// context and logs one line per finished request. It must run after echo's
// RequestID middleware.
func RequestLogger(base *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			id := c.Response().Header().Get(echo.HeaderXRequestID)
			logger := logging.With(base, fmt.Sprintf("[%s] ", id))
			c.SetRequest(req.WithContext(logging.NewContext(req.Context(), logger)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Printf("%s %s -> %d (%s)", req.Method, req.URL.Path, c.Response().Status, time.Since(start).Round(time.Microsecond))
			return nil
		}
	}
}
