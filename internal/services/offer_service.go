package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/identity"
	"task-marketplace.com/task-marketplace/internal/lifecycle"
	"task-marketplace.com/task-marketplace/internal/locks"
	model "task-marketplace.com/task-marketplace/internal/models"
	repository "task-marketplace.com/task-marketplace/internal/repositories"
)

// TaskSnapshot is the slice of a task shown next to each offer.
type TaskSnapshot struct {
	Name                   string
	Description            string
	Status                 constants.TaskStatus
	CompletionFeedback     *string
	CompletionFeedbackDate *time.Time
	LatestFeedbackAction   *constants.FeedbackAction
}

// OfferView is an offer enriched with its task snapshot. Task is nil when the
// task could not be loaded.
type OfferView struct {
	model.Offer
	Task *TaskSnapshot
}

type OfferService struct {
	engine
}

func NewOfferService(
	repos *repository.Repositories,
	locker locks.TaskLocker,
	logger *log.Logger,
) *OfferService {
	return &OfferService{engine: newEngine(repos, locker, logger)}
}

func (s *OfferService) CreateOffer(ctx context.Context, providerID string, fields OfferFields) (*model.Offer, error) {
	if err := fields.validate(); err != nil {
		return nil, err
	}

	var offer *model.Offer
	err := s.mutateTask(ctx, fields.TaskID, func(tx *repository.Repositories) error {
		task, err := tx.Tasks.FindForUpdate(ctx, fields.TaskID)
		if err != nil {
			return storeError(err, "find task", apperrors.ErrTaskNotFound, nil)
		}

		if task.Status != constants.TaskStatusOpen {
			return apperrors.ErrTaskNotOpen
		}

		_, err = tx.Offers.FindByTaskAndProvider(ctx, task.ID, providerID)
		switch {
		case err == nil:
			return apperrors.ErrDuplicateOffer
		case !errors.Is(err, repository.ErrNotFound):
			return storeError(err, "find existing offer", nil, nil)
		}

		now := s.clock()
		offer = &model.Offer{
			ID:             uuid.NewString(),
			ProviderID:     providerID,
			TaskID:         task.ID,
			ProposedRate:   fields.ProposedRate.Round(2),
			RateCurrency:   fields.RateCurrency,
			EstimatedHours: fields.EstimatedHours.Round(2),
			CoverLetter:    fields.CoverLetter,
			Message:        fields.Message,
			Status:         constants.OfferStatusPending,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := tx.Offers.Create(ctx, offer); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperrors.ErrDuplicateOffer
			}
			return storeError(err, "create offer", nil, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("offer %s created by provider %s on task %s", offer.ID, providerID, offer.TaskID)
	return offer, nil
}

func (s *OfferService) ListOffers(ctx context.Context, actor identity.Actor, filter OfferFilter) ([]OfferView, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.Validation("unknown offer status")
	}

	query := repository.OfferQuery{
		TaskID: filter.TaskID,
		Status: filter.Status,
	}
	if actor.IsProvider() {
		query.ProviderID = actor.ID
	} else {
		query.RequesterID = actor.ID
	}

	offers, err := s.repos.Offers.List(ctx, query)
	if err != nil {
		return nil, storeError(err, "list offers", nil, nil)
	}

	views, err := enrichOffers(ctx, s.repos, offers)
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("listed %d offers for %s %s", len(views), actor.Kind, actor.ID)
	return views, nil
}

// GetOffer returns an offer visible to actor: its provider, or the requester
// owning its task.
func (s *OfferService) GetOffer(ctx context.Context, offerID string, actor identity.Actor) (*OfferView, error) {
	offer, err := s.repos.Offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, storeError(err, "get offer", apperrors.ErrOfferNotFound, nil)
	}

	if actor.IsProvider() && offer.ProviderID != actor.ID {
		return nil, apperrors.ErrOfferNotFound
	}

	if actor.IsRequester() {
		task, err := s.repos.Tasks.FindByID(ctx, offer.TaskID)
		if err != nil {
			return nil, storeError(err, "get offer task", apperrors.ErrOfferNotFound, nil)
		}
		if task.RequesterID != actor.ID {
			return nil, apperrors.ErrOfferNotFound
		}
	}

	views, err := enrichOffers(ctx, s.repos, []model.Offer{*offer})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *OfferService) UpdateOffer(ctx context.Context, offerID, providerID string, patch OfferPatch) (*model.Offer, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	offer, err := s.changeOwnOffer(ctx, offerID, providerID, lifecycle.OfferEdit, patch.changes())
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("offer %s updated by provider %s", offerID, providerID)
	return offer, nil
}

func (s *OfferService) WithdrawOffer(ctx context.Context, offerID, providerID string) (*model.Offer, error) {
	offer, err := s.changeOwnOffer(ctx, offerID, providerID, lifecycle.OfferWithdraw, map[string]interface{}{})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Printf("offer %s withdrawn by provider %s", offerID, providerID)
	return offer, nil
}

// changeOwnOffer fires a provider-side event on a pending offer and applies
// changes together with the resulting status.
func (s *OfferService) changeOwnOffer(
	ctx context.Context,
	offerID, providerID string,
	event lifecycle.OfferEvent,
	changes map[string]interface{},
) (*model.Offer, error) {
	current, err := s.repos.Offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, storeError(err, "find offer", apperrors.ErrOfferNotFound, nil)
	}
	if current.ProviderID != providerID {
		return nil, apperrors.ErrOfferNotFound
	}

	var updated *model.Offer
	err = s.mutateTask(ctx, current.TaskID, func(tx *repository.Repositories) error {
		offer, err := tx.Offers.FindByID(ctx, offerID)
		if err != nil {
			return storeError(err, "find offer", apperrors.ErrOfferNotFound, nil)
		}

		next, err := lifecycle.NextOfferStatus(offer.Status, event)
		if err != nil {
			return apperrors.ErrOfferNotPending
		}

		changes["status"] = next
		if err := tx.Offers.Update(ctx, offer, offer.Status, changes, s.clock()); err != nil {
			return storeError(err, "update offer", nil, apperrors.ErrOfferNotPending)
		}

		updated, err = tx.Offers.FindByID(ctx, offerID)
		return storeError(err, "reload offer", apperrors.ErrOfferNotFound, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RespondToOffer records the task owner's decision on a pending offer.
// Accepting moves the task to IN_PROGRESS with the offer's provider assigned
// and rejects every other pending offer on the task, all in one transaction.
func (s *OfferService) RespondToOffer(ctx context.Context, offerID, requesterID string, decision OfferDecision) (*OfferView, error) {
	event := lifecycle.OfferReject
	switch decision {
	case DecisionAccept:
		event = lifecycle.OfferAccept
	case DecisionReject:
	default:
		return nil, apperrors.Validation("response must be accept or reject")
	}

	current, err := s.repos.Offers.FindByID(ctx, offerID)
	if err != nil {
		return nil, storeError(err, "find offer", apperrors.ErrOfferNotFound, nil)
	}

	var (
		view     *OfferView
		rejected int64
	)
	err = s.mutateTask(ctx, current.TaskID, func(tx *repository.Repositories) error {
		offer, err := tx.Offers.FindByID(ctx, offerID)
		if err != nil {
			return storeError(err, "find offer", apperrors.ErrOfferNotFound, nil)
		}

		task, err := tx.Tasks.FindForUpdate(ctx, offer.TaskID)
		if err != nil {
			return storeError(err, "find task", apperrors.ErrOfferNotFound, nil)
		}

		if task.RequesterID != requesterID {
			return apperrors.ErrNotTaskOwner
		}

		nextOffer, err := lifecycle.NextOfferStatus(offer.Status, event)
		if err != nil {
			return apperrors.ErrOfferNotPending
		}

		if task.Status != constants.TaskStatusOpen {
			return apperrors.ErrTaskNotOpen
		}

		now := s.clock()
		if err := tx.Offers.Update(ctx, offer, offer.Status, map[string]interface{}{"status": nextOffer}, now); err != nil {
			return storeError(err, "update offer", nil, apperrors.ErrOfferNotPending)
		}

		if event == lifecycle.OfferAccept {
			if rejected, err = s.acceptOffer(ctx, tx, task, offer, now); err != nil {
				return err
			}
		}

		reloaded, err := tx.Offers.FindByID(ctx, offerID)
		if err != nil {
			return storeError(err, "reload offer", apperrors.ErrOfferNotFound, nil)
		}

		views, err := enrichOffers(ctx, tx, []model.Offer{*reloaded})
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision == DecisionAccept {
		s.log(ctx).Printf("offer %s accepted on task %s by requester %s, %d sibling offers rejected", offerID, current.TaskID, requesterID, rejected)
	} else {
		s.log(ctx).Printf("offer %s rejected on task %s by requester %s", offerID, current.TaskID, requesterID)
	}
	return view, nil
}

// acceptOffer applies the task side of an acceptance and the sibling
// rejection. The offer itself has already moved to ACCEPTED.
func (s *OfferService) acceptOffer(
	ctx context.Context,
	tx *repository.Repositories,
	task *model.Task,
	offer *model.Offer,
	now time.Time,
) (int64, error) {
	nextTask, err := lifecycle.NextTaskStatus(task.Status, lifecycle.TaskAcceptOffer)
	if err != nil {
		return 0, apperrors.ErrTaskNotOpen
	}

	err = tx.Tasks.Update(ctx, task, task.Status, map[string]interface{}{
		"status":               nextTask,
		"accepted_provider_id": offer.ProviderID,
	}, now)
	if err != nil {
		return 0, storeError(err, "assign task", nil, apperrors.ErrTaskNotOpen)
	}

	siblingTarget, _ := lifecycle.OfferTarget(lifecycle.OfferSiblingAccepted)
	rejected, err := tx.Offers.TransitionSiblings(
		ctx,
		task.ID,
		offer.ID,
		lifecycle.OfferSourceStatuses(lifecycle.OfferSiblingAccepted),
		siblingTarget,
		now,
	)
	if err != nil {
		return 0, storeError(err, "reject sibling offers", nil, nil)
	}
	return rejected, nil
}

// enrichOffers attaches each offer's task snapshot, including the action of
// the task's most recent completion feedback entry.
func enrichOffers(ctx context.Context, repos *repository.Repositories, offers []model.Offer) ([]OfferView, error) {
	views := make([]OfferView, len(offers))
	if len(offers) == 0 {
		return views, nil
	}

	seen := make(map[string]struct{}, len(offers))
	taskIDs := make([]string, 0, len(offers))
	for _, offer := range offers {
		if _, ok := seen[offer.TaskID]; !ok {
			seen[offer.TaskID] = struct{}{}
			taskIDs = append(taskIDs, offer.TaskID)
		}
	}

	tasks, err := repos.Tasks.FindByIDs(ctx, taskIDs)
	if err != nil {
		return nil, storeError(err, "load offer tasks", nil, nil)
	}

	latest, err := repos.Feedback.LatestByTasks(ctx, taskIDs)
	if err != nil {
		return nil, storeError(err, "load latest feedback", nil, nil)
	}

	snapshots := make(map[string]*TaskSnapshot, len(tasks))
	for _, task := range tasks {
		snapshot := &TaskSnapshot{
			Name:                   task.Name,
			Description:            task.Description,
			Status:                 task.Status,
			CompletionFeedback:     task.CompletionFeedback,
			CompletionFeedbackDate: task.CompletionFeedbackDate,
		}
		if entry, ok := latest[task.ID]; ok {
			action := entry.ActionType
			snapshot.LatestFeedbackAction = &action
		}
		snapshots[task.ID] = snapshot
	}

	for i, offer := range offers {
		views[i] = OfferView{Offer: offer, Task: snapshots[offer.TaskID]}
	}
	return views, nil
}
