package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/locks"
	"task-marketplace.com/task-marketplace/internal/logging"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

// engine holds what every lifecycle service needs: the stores, the per-task
// lock and a logger.
type engine struct {
	repos  *repository.Repositories
	locker locks.TaskLocker
	logger *log.Logger
	now    func() time.Time
}

func newEngine(repos *repository.Repositories, locker locks.TaskLocker, logger *log.Logger) engine {
	if logger == nil {
		logger = logging.Discard()
	}
	return engine{
		repos:  repos,
		locker: locker,
		logger: logger,
		now:    time.Now,
	}
}

func (e *engine) log(ctx context.Context) *log.Logger {
	return logging.FromContext(ctx, e.logger)
}

func (e *engine) clock() time.Time {
	return e.now().UTC()
}

// mutateTask runs fn inside one transaction while holding the task lock.
func (e *engine) mutateTask(ctx context.Context, taskID string, fn func(tx *repository.Repositories) error) error {
	err := locks.WithTaskLock(ctx, e.locker, taskID, func() error {
		return e.repos.Transaction(ctx, fn)
	})
	if errors.Is(err, locks.ErrLockNotAcquired) {
		return apperrors.ErrTaskBusy
	}
	return err
}

// storeError maps a repository failure onto the error returned to callers.
// notFound and conflict replace ErrNotFound and ErrOptimisticLock; anything
// else is wrapped as an internal failure.
func storeError(err error, op string, notFound, conflict *apperrors.Exception) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case conflict != nil && errors.Is(err, repository.ErrOptimisticLock):
		return conflict
	default:
		var appErr *apperrors.Exception
		if errors.As(err, &appErr) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
}
