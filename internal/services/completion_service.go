package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/lifecycle"
	"task-marketplace.com/task-marketplace/internal/locks"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

// Decision is the outcome of a requester's completion decision.
type Decision struct {
	Task     *model.Task
	Feedback *model.TaskCompletionFeedback
}

// CompletionService runs the work phase of a task: progress reports and the
// submit, approve or reject handshake between provider and requester.
type CompletionService struct {
	engine
}

func NewCompletionService(
	repos *repository.Repositories,
	locker locks.TaskLocker,
	logger *log.Logger,
) *CompletionService {
	return &CompletionService{engine: newEngine(repos, locker, logger)}
}

func (s *CompletionService) SubmitProgress(ctx context.Context, taskID, providerID, description string) (*model.TaskProgress, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.Validation("description is required")
	}

	var entry *model.TaskProgress
	err := s.mutateTask(ctx, taskID, func(tx *repository.Repositories) error {
		task, err := assignedTaskForUpdate(ctx, tx, taskID, providerID)
		if err != nil {
			return err
		}

		if _, err := lifecycle.NextTaskStatus(task.Status, lifecycle.TaskRecordProgress); err != nil {
			return apperrors.ErrTaskNotInProgress
		}

		entry = &model.TaskProgress{
			ID:          uuid.NewString(),
			TaskID:      task.ID,
			ProviderID:  providerID,
			Description: description,
			CreatedAt:   s.clock(),
		}
		return storeError(tx.Progress.Create(ctx, entry), "append progress", nil, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("progress %s recorded on task %s by provider %s", entry.ID, taskID, providerID)
	return entry, nil
}

// ListProgress returns the task's progress log, newest first. Only the task
// owner and the assigned provider may read it.
func (s *CompletionService) ListProgress(ctx context.Context, taskID string, actor identity.Actor) ([]model.TaskProgress, error) {
	if _, err := s.visibleWorkTask(ctx, taskID, actor); err != nil {
		return nil, err
	}

	entries, err := s.repos.Progress.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "list progress", nil, nil)
	}
	return entries, nil
}

// SubmitForApproval moves the task to PENDING_APPROVAL and the assigned
// provider's offer to PENDING_COMPLETION_APPROVAL together, opening a new
// completion cycle.
func (s *CompletionService) SubmitForApproval(ctx context.Context, taskID, providerID string) (*model.Task, error) {
	var updated *model.Task
	err := s.mutateTask(ctx, taskID, func(tx *repository.Repositories) error {
		task, err := assignedTaskForUpdate(ctx, tx, taskID, providerID)
		if err != nil {
			return err
		}

		next, err := lifecycle.NextTaskStatus(task.Status, lifecycle.TaskSubmitForApproval)
		if err != nil {
			return apperrors.ErrTaskNotInProgress
		}

		now := s.clock()
		if err := s.moveAssignedOffer(ctx, tx, task, lifecycle.OfferSubmitCompletion); err != nil {
			return err
		}

		err = tx.Tasks.Update(ctx, task, task.Status, map[string]interface{}{
			"status":           next,
			"completion_cycle": task.CompletionCycle + 1,
		}, now)
		if err != nil {
			return storeError(err, "submit task", nil, apperrors.ErrTaskNotInProgress)
		}

		updated, err = tx.Tasks.FindByID(ctx, taskID)
		return storeError(err, "reload task", apperrors.ErrTaskNotFound, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("task %s submitted for approval by provider %s (cycle %d)", taskID, providerID, updated.CompletionCycle)
	return updated, nil
}

// DecideCompletion records the owner's verdict on a submitted task. Approval
// completes the task; rejection returns it to IN_PROGRESS so the provider can
// submit again. Either way the cached feedback is overwritten and a new entry
// is appended to the feedback log.
func (s *CompletionService) DecideCompletion(
	ctx context.Context,
	taskID, requesterID string,
	approved bool,
	description string,
) (*Decision, error) {
	if strings.TrimSpace(description) == "" {
		return nil, apperrors.Validation("description is required")
	}

	taskEvent, offerEvent, action := lifecycle.TaskRejectCompletion, lifecycle.OfferCompletionRejected, constants.FeedbackRejected
	if approved {
		taskEvent, offerEvent, action = lifecycle.TaskApproveCompletion, lifecycle.OfferCompletionApproved, constants.FeedbackAccepted
	}

	var decision Decision
	err := s.mutateTask(ctx, taskID, func(tx *repository.Repositories) error {
		task, err := ownedTaskForUpdate(ctx, tx, taskID, requesterID)
		if err != nil {
			return err
		}

		next, err := lifecycle.NextTaskStatus(task.Status, taskEvent)
		if err != nil {
			return apperrors.ErrTaskNotPendingApproval
		}

		if err := s.moveAssignedOffer(ctx, tx, task, offerEvent); err != nil {
			return err
		}

		now := s.clock()
		err = tx.Tasks.Update(ctx, task, task.Status, map[string]interface{}{
			"status":                   next,
			"completion_feedback":      description,
			"completion_feedback_date": now,
		}, now)
		if err != nil {
			return storeError(err, "decide task", nil, apperrors.ErrTaskNotPendingApproval)
		}

		entry := &model.TaskCompletionFeedback{
			ID:          uuid.NewString(),
			TaskID:      task.ID,
			RequesterID: requesterID,
			ActionType:  action,
			Description: description,
			Cycle:       task.CompletionCycle,
			CreatedAt:   now,
		}
		if err := tx.Feedback.Create(ctx, entry); err != nil {
			return storeError(err, "append feedback", nil, nil)
		}

		decision.Feedback = entry
		decision.Task, err = tx.Tasks.FindByID(ctx, taskID)
		return storeError(err, "reload task", apperrors.ErrTaskNotFound, nil)
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("completion of task %s %s by requester %s (cycle %d)", taskID, action, requesterID, decision.Feedback.Cycle)
	return &decision, nil
}

// ListFeedback returns the task's completion feedback history, newest first.
func (s *CompletionService) ListFeedback(ctx context.Context, taskID string, actor identity.Actor) ([]model.TaskCompletionFeedback, error) {
	if _, err := s.visibleWorkTask(ctx, taskID, actor); err != nil {
		return nil, err
	}

	entries, err := s.repos.Feedback.ListByTask(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "list feedback", nil, nil)
	}
	return entries, nil
}

// moveAssignedOffer fires event on the offer held by the task's accepted
// provider. Exactly one offer must move.
func (s *CompletionService) moveAssignedOffer(
	ctx context.Context,
	tx *repository.Repositories,
	task *model.Task,
	event lifecycle.OfferEvent,
) error {
	next, ok := lifecycle.OfferTarget(event)
	if !ok || task.AcceptedProviderID == nil {
		return apperrors.ErrOfferNotEngaged
	}

	moved, err := tx.Offers.TransitionProviderOffer(
		ctx,
		task.ID,
		*task.AcceptedProviderID,
		lifecycle.OfferSourceStatuses(event),
		next,
		s.clock(),
	)
	if err != nil {
		return storeError(err, "move assigned offer", nil, nil)
	}
	if moved != 1 {
		return apperrors.ErrOfferNotEngaged
	}
	return nil
}

// visibleWorkTask loads a task whose work log actor may read: the owning
// requester or the assigned provider.
func (s *CompletionService) visibleWorkTask(ctx context.Context, taskID string, actor identity.Actor) (*model.Task, error) {
	task, err := s.repos.Tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "get task", apperrors.ErrTaskNotFound, nil)
	}

	switch {
	case actor.IsRequester() && task.RequesterID == actor.ID:
		return task, nil
	case actor.IsProvider() && task.AcceptedProviderID != nil && *task.AcceptedProviderID == actor.ID:
		return task, nil
	default:
		return nil, apperrors.ErrTaskNotFound
	}
}

// assignedTaskForUpdate locks the task row and hides tasks the provider is not
// assigned to.
func assignedTaskForUpdate(ctx context.Context, tx *repository.Repositories, taskID, providerID string) (*model.Task, error) {
	task, err := tx.Tasks.FindForUpdate(ctx, taskID)
	if err != nil {
		return nil, storeError(err, "find task", apperrors.ErrTaskNotAssigned, nil)
	}
	if task.AcceptedProviderID == nil || *task.AcceptedProviderID != providerID {
		return nil, apperrors.ErrTaskNotAssigned
	}
	return task, nil
}
