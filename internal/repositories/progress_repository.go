package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	model "task-marketplace.com/task-marketplace/internal/models"
)

// ProgressRepository is append-only: entries are never updated or deleted.
type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(ctx context.Context, entry *model.TaskProgress) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create progress entry: %w", err)
	}
	return nil
}

func (r *ProgressRepository) ListByTask(ctx context.Context, taskID string) ([]model.TaskProgress, error) {
	var entries []model.TaskProgress
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc").Order("id desc").
		Find(&entries).Error
	return entries, err
}
