package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/lifecycle"
	"task-marketplace.com/task-marketplace/internal/locks"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

type TaskService struct {
	engine
}

func NewTaskService(
	repos *repository.Repositories,
	locker locks.TaskLocker,
	logger *log.Logger,
) *TaskService {
	return &TaskService{engine: newEngine(repos, locker, logger)}
}

func (s *TaskService) CreateTask(ctx context.Context, ownerID string, fields TaskFields) (*model.Task, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}

	now := s.clock()
	task := &model.Task{
		ID:                uuid.NewString(),
		RequesterID:       ownerID,
		Category:          fields.Category,
		Name:              strings.TrimSpace(fields.Name),
		Description:       fields.Description,
		ExpectedStartDate: datatypes.Date(fields.ExpectedStartDate),
		ExpectedHours:     fields.ExpectedHours.Round(2),
		HourlyRate:        fields.HourlyRate.Round(2),
		RateCurrency:      fields.RateCurrency,
		Status:            constants.TaskStatusOpen,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repos.Tasks.Create(ctx, task); err != nil {
		return nil, storeError(err, "create task", nil, nil)
	}

	s.log(ctx).Printf("task %s created by requester %s", task.ID, ownerID)
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context, actor identity.Actor, filter TaskFilter) (*TaskPage, error) {
	if err := filter.normalize(); err != nil {
		return nil, err
	}

	query := repository.TaskQuery{
		Status:   filter.Status,
		Category: filter.Category,
		Search:   filter.Search,
		MinRate:  filter.MinRate,
		MaxRate:  filter.MaxRate,
		Offset:   (filter.Page - 1) * filter.Limit,
		Limit:    filter.Limit,
	}

	switch {
	case actor.IsRequester():
		query.RequesterID = actor.ID
	case actor.IsProvider() && filter.AssignedToMe:
		query.AcceptedProviderID = actor.ID
	}

	tasks, total, err := s.repos.Tasks.List(ctx, query)
	if err != nil {
		return nil, storeError(err, "list tasks", nil, nil)
	}

	s.log(ctx).Printf("listed %d of %d tasks for %s %s", len(tasks), total, actor.Kind, actor.ID)

	return &TaskPage{
		Tasks:      tasks,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// GetTask returns a task visible to actor: requesters only see their own
// tasks, providers may read any task.
func (s *TaskService) GetTask(ctx context.Context, taskID string, actor identity.Actor) (*model.Task, error) {
	task, err := s.repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "get task", apperrors.ErrTaskNotFound, nil)
	}

	if actor.IsRequester() && task.RequesterID != actor.ID {
		return nil, apperrors.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID, ownerID string, patch TaskPatch) (*model.Task, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	var updated *model.Task
	err := s.mutateTask(ctx, taskID, func(tx *repository.Repositories) error {
		task, err := ownedTaskForUpdate(ctx, tx, taskID, ownerID)
		if err != nil {
			return err
		}

		next, err := lifecycle.NextTaskStatus(task.Status, lifecycle.TaskEdit)
		if err != nil {
			return apperrors.ErrTaskNotEditable
		}

		if changes := patch.changes(); len(changes) > 0 {
			changes["status"] = next
			if err := tx.Tasks.Update(ctx, task, task.Status, changes, s.clock()); err != nil {
				return storeError(err, "update task", nil, apperrors.ErrTaskNotEditable)
			}
		}

		updated, err = tx.Tasks.FindByID(ctx, taskID)
		return storeError(err, "reload task", apperrors.ErrTaskNotFound, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("task %s updated by requester %s", taskID, ownerID)
	return updated, nil
}

// DeleteTask cancels an open task by removing it together with its offers,
// which can only be pending, rejected or withdrawn while the task is open.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	var removedOffers int64
	err := s.mutateTask(ctx, taskID, func(tx *repository.Repositories) error {
		task, err := ownedTaskForUpdate(ctx, tx, taskID, ownerID)
		if err != nil {
			return err
		}

		if _, err := lifecycle.NextTaskStatus(task.Status, lifecycle.TaskDelete); err != nil {
			return apperrors.ErrTaskNotDeletable
		}

		removedOffers, err = tx.Offers.DeleteByTask(ctx, taskID)
		if err != nil {
			return storeError(err, "delete task offers", nil, nil)
		}

		return storeError(tx.Tasks.Delete(ctx, task, task.Status), "delete task", nil, apperrors.ErrTaskNotDeletable)
	})
	if err != nil {
		return err
	}

	s.log(ctx).Printf("task %s cancelled by requester %s, %d offers removed", taskID, ownerID, removedOffers)
	return nil
}

// ownedTaskForUpdate locks the task row and hides tasks owned by someone else.
func ownedTaskForUpdate(ctx context.Context, tx *repository.Repositories, taskID, ownerID string) (*model.Task, error) {
	task, err := tx.Tasks.FindForUpdate(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "find task", apperrors.ErrTaskNotFound, nil)
	}
	if task.RequesterID != ownerID {
		return nil, apperrors.ErrTaskNotFound
	}
	return task, nil
}
