package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
)

type OfferRepository struct {
	db *gorm.DB
}

// OfferQuery narrows an offer listing. ProviderID limits to one provider's
// offers; RequesterID limits to offers on that requester's tasks.
type OfferQuery struct {
	ProviderID  string
	RequesterID string
	TaskID      string
	Status      *constants.OfferStatus
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create inserts the offer. A second offer for the same (provider, task)
// pair fails with ErrDuplicate.
func (r *OfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	if err := r.db.WithContext(ctx).Create(offer).Error; err != nil {
		return fmt.Errorf("create offer: %w", translate(err))
	}
	return nil
}

func (r *OfferRepository) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

func (r *OfferRepository) FindByTaskAndProvider(ctx context.Context, taskID, providerID string) (*model.Offer, error) {
	var offer model.Offer
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND provider_id = ?", taskID, providerID).
		First(&offer).Error
	if err != nil {
		return nil, translate(err)
	}
	return &offer, nil
}

func (r *OfferRepository) List(ctx context.Context, q OfferQuery) ([]model.Offer, error) {
	query := r.db.WithContext(ctx).Model(&model.Offer{}).Select("offers.*")

	if q.RequesterID != "" {
		query = query.Joins("JOIN tasks ON tasks.id = offers.task_id").
			Where("tasks.requester_id = ?", q.RequesterID)
	}
	if q.ProviderID != "" {
		query = query.Where("offers.provider_id = ?", q.ProviderID)
	}
	if q.TaskID != "" {
		query = query.Where("offers.task_id = ?", q.TaskID)
	}
	if q.Status != nil {
		query = query.Where("offers.status = ?", *q.Status)
	}

	var offers []model.Offer
	if err := query.Order("offers.created_at desc").Order("offers.id desc").Find(&offers).Error; err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

func (r *OfferRepository) ListByTaskIDs(ctx context.Context, taskIDs []string) ([]model.Offer, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}

	var offers []model.Offer
	err := r.db.WithContext(ctx).
		Where("task_id IN ?", taskIDs).
		Order("task_id asc").Order("created_at asc").
		Find(&offers).Error
	return offers, err
}

// Update applies changes if the offer still holds the version and status it
// was read with.
func (r *OfferRepository) Update(
	ctx context.Context,
	offer *model.Offer,
	expected constants.OfferStatus,
	changes map[string]interface{},
	now time.Time,
) error {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ? AND version = ? AND status = ?", offer.ID, offer.Version, expected).
		Updates(versionBump(changes, now))

	if res.Error != nil {
		return fmt.Errorf("update offer %s: %w", offer.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	offer.Version++
	return nil
}

// TransitionSiblings moves every other offer on the task that is in one of
// the from statuses to next, and returns how many rows moved.
func (r *OfferRepository) TransitionSiblings(
	ctx context.Context,
	taskID, exceptID string,
	from []constants.OfferStatus,
	next constants.OfferStatus,
	now time.Time,
) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("task_id = ? AND id <> ? AND status IN ?", taskID, exceptID, from).
		Updates(versionBump(map[string]interface{}{
			"status": next,
		}, now))

	if res.Error != nil {
		return 0, fmt.Errorf("transition sibling offers of task %s: %w", taskID, res.Error)
	}
	return res.RowsAffected, nil
}

// TransitionProviderOffer moves the provider's offer on the task from any of
// the given statuses to next and returns how many rows moved.
func (r *OfferRepository) TransitionProviderOffer(
	ctx context.Context,
	taskID, providerID string,
	from []constants.OfferStatus,
	next constants.OfferStatus,
	now time.Time,
) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("task_id = ? AND provider_id = ? AND status IN ?", taskID, providerID, from).
		Updates(versionBump(map[string]interface{}{
			"status": next,
		}, now))

	if res.Error != nil {
		return 0, fmt.Errorf("transition offer of task %s: %w", taskID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *OfferRepository) DeleteByTask(ctx context.Context, taskID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Offer{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete offers of task %s: %w", taskID, res.Error)
	}
	return res.RowsAffected, nil
}
