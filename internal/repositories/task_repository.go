package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

// TaskQuery narrows a task listing. Zero-valued fields do not filter.
type TaskQuery struct {
	RequesterID        string
	AcceptedProviderID string
	Status             *constants.TaskStatus
	Category           constants.Category
	Search             string
	MinRate            *decimal.Decimal
	MaxRate            *decimal.Decimal
	Offset             int
	Limit              int
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", translate(err))
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// FindForUpdate reads a task and holds its row lock until the surrounding
// transaction ends. SQLite ignores the locking clause; its writers are
// serialized by the database lock instead.
func (r *TaskRepository) FindForUpdate(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, q TaskQuery) ([]model.Task, int64, error) {
	base := r.filtered(ctx, q)

	var total int64
	if err := base.Session(&gorm.Session{}).Model(&model.Task{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []model.Task
	query := base.Session(&gorm.Session{}).Order("created_at desc").Order("id desc")
	if q.Limit > 0 {
		query = query.Offset(q.Offset).Limit(q.Limit)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, total, nil
}

func (r *TaskRepository) filtered(ctx context.Context, q TaskQuery) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Task{})

	if q.RequesterID != "" {
		query = query.Where("requester_id = ?", q.RequesterID)
	}
	if q.AcceptedProviderID != "" {
		query = query.Where("accepted_provider_id = ?", q.AcceptedProviderID)
	}
	if q.Status != nil {
		query = query.Where("status = ?", *q.Status)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if q.MinRate != nil {
		query = query.Where("hourly_rate >= ?", *q.MinRate)
	}
	if q.MaxRate != nil {
		query = query.Where("hourly_rate <= ?", *q.MaxRate)
	}

	return query
}

// ListAfter pages through every task ordered by id, starting after afterID.
func (r *TaskRepository) ListAfter(ctx context.Context, afterID string, limit int) ([]model.Task, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id asc").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// Update applies changes if the task still holds the version and status it
// was read with, and bumps the version. A miss returns ErrOptimisticLock.
func (r *TaskRepository) Update(
	ctx context.Context,
	task *model.Task,
	expected constants.TaskStatus,
	changes map[string]interface{},
	now time.Time,
) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ? AND status = ?", task.ID, task.Version, expected).
		Updates(versionBump(changes, now))

	if res.Error != nil {
		return fmt.Errorf("update task %s: %w", task.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}

// Delete removes the task if it is still in the expected status.
func (r *TaskRepository) Delete(ctx context.Context, task *model.Task, expected constants.TaskStatus) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ? AND status = ?", task.ID, task.Version, expected).
		Delete(&model.Task{})

	if res.Error != nil {
		return fmt.Errorf("delete task %s: %w", task.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	return nil
}
