package locks

import (
	"context"
	"errors"
)

// TaskLocker serializes lifecycle operations on one task across requests
// and, for the Redis implementation, across service instances.
type TaskLocker interface {
	Acquire(ctx context.Context, taskID string) (Lease, error)

	Release(ctx context.Context, lease Lease) error
}

// Lease identifies a held lock. Token guards against releasing a lock that
// expired and was taken by someone else.
type Lease struct {
	Key   string
	Token string
}

var ErrLockNotAcquired = errors.New("task lock not acquired")

// WithTaskLock runs fn while holding the lock for taskID.
func WithTaskLock(ctx context.Context, locker TaskLocker, taskID string, fn func() error) error {
	lease, err := locker.Acquire(ctx, taskID)
	if err != nil {
		return err
	}
	defer func() {
		_ = locker.Release(context.WithoutCancel(ctx), lease)
	}()

	return fn()
}
