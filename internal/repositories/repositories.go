package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrOptimisticLock = errors.New("optimistic locking conflict")
	ErrDuplicate      = errors.New("duplicate record")
)

// Repositories bundles every store over one gorm handle, which is either the
// root connection pool or an open transaction.
type Repositories struct {
	db       *gorm.DB
	Tasks    *TaskRepository
	Offers   *OfferRepository
	Progress *ProgressRepository
	Feedback *FeedbackRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		Tasks:    NewTaskRepository(db),
		Offers:   NewOfferRepository(db),
		Progress: NewProgressRepository(db),
		Feedback: NewFeedbackRepository(db),
	}
}

// Transaction runs fn against repositories bound to a single database
// transaction. Returning an error from fn rolls back every write made through
// tx.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func versionBump(changes map[string]interface{}, now time.Time) map[string]interface{} {
	changes["version"] = gorm.Expr("version + 1")
	changes["updated_at"] = now
	return changes
}
