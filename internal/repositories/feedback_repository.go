package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	model "task-marketplace.com/task-marketplace/internal/models"
)

// FeedbackRepository stores completion decisions. It is append-only.
type FeedbackRepository struct {
	db *gorm.DB
}

const feedbackNewestFirst = "created_at desc, cycle desc, id desc"

func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, entry *model.TaskCompletionFeedback) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create completion feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepository) ListByTask(ctx context.Context, taskID string) ([]model.TaskCompletionFeedback, error) {
	var entries []model.TaskCompletionFeedback
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order(feedbackNewestFirst).
		Find(&entries).Error
	return entries, err
}

// LatestByTasks returns the newest feedback entry per task, keyed by task id.
// Ties on created_at fall back to the higher cycle, then the higher id.
func (r *FeedbackRepository) LatestByTasks(ctx context.Context, taskIDs []string) (map[string]model.TaskCompletionFeedback, error) {
	latest := make(map[string]model.TaskCompletionFeedback, len(taskIDs))
	if len(taskIDs) == 0 {
		return latest, nil
	}

	var entries []model.TaskCompletionFeedback
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("task_id asc").
		Order(feedbackNewestFirst).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("latest completion feedback: %w", err)
	}

	for _, entry := range entries {
		if _, seen := latest[entry.TaskID]; !seen {
			latest[entry.TaskID] = entry
		}
	}
	return latest, nil
}
