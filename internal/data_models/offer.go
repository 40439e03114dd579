package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
	"task-marketplace.com/task-marketplace/internal/services"
)

type CreateOfferRequest struct {
	TaskID         string          `json:"task_id"`
	ProposedRate   decimal.Decimal `json:"proposed_rate"`
	RateCurrency   string          `json:"rate_currency"`
	EstimatedHours decimal.Decimal `json:"estimated_hours"`
	CoverLetter    string          `json:"cover_letter"`
	Message        *string         `json:"message"`
}

type UpdateOfferRequest struct {
	ProposedRate   *decimal.Decimal `json:"proposed_rate"`
	RateCurrency   *string          `json:"rate_currency"`
	EstimatedHours *decimal.Decimal `json:"estimated_hours"`
	CoverLetter    *string          `json:"cover_letter"`
	Message        *string          `json:"message"`
}

type RespondToOfferRequest struct {
	Response string `json:"response"`
}

type OfferResponse struct {
	ID                     string                    `json:"id"`
	ProviderID             string                    `json:"provider_id"`
	TaskID                 string                    `json:"task_id"`
	ProposedRate           decimal.Decimal           `json:"proposed_rate"`
	RateCurrency           constants.Currency        `json:"rate_currency"`
	EstimatedHours         decimal.Decimal           `json:"estimated_hours"`
	CoverLetter            string                    `json:"cover_letter"`
	Message                *string                   `json:"message,omitempty"`
	Status                 constants.OfferStatus     `json:"status"`
	TaskName               string                    `json:"task_name,omitempty"`
	TaskDescription        string                    `json:"task_description,omitempty"`
	TaskStatus             *constants.TaskStatus     `json:"task_status,omitempty"`
	CompletionFeedback     *string                   `json:"completion_feedback,omitempty"`
	CompletionFeedbackDate *time.Time                `json:"completion_feedback_date,omitempty"`
	LatestFeedbackAction   *constants.FeedbackAction `json:"latest_feedback_action,omitempty"`
	CreatedAt              time.Time                 `json:"created_at"`
	UpdatedAt              time.Time                 `json:"updated_at"`
}

func NewOfferResponse(o *model.Offer) OfferResponse {
	return OfferResponse{
		ID:             o.ID,
		ProviderID:     o.ProviderID,
		TaskID:         o.TaskID,
		ProposedRate:   o.ProposedRate,
		RateCurrency:   o.RateCurrency,
		EstimatedHours: o.EstimatedHours,
		CoverLetter:    o.CoverLetter,
		Message:        o.Message,
		Status:         o.Status,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

// NewOfferViewResponse flattens the task snapshot into the offer.
func NewOfferViewResponse(v *services.OfferView) OfferResponse {
	resp := NewOfferResponse(&v.Offer)
	if v.Task != nil {
		status := v.Task.Status
		resp.TaskName = v.Task.Name
		resp.TaskDescription = v.Task.Description
		resp.TaskStatus = &status
		resp.CompletionFeedback = v.Task.CompletionFeedback
		resp.CompletionFeedbackDate = v.Task.CompletionFeedbackDate
		resp.LatestFeedbackAction = v.Task.LatestFeedbackAction
	}
	return resp
}

type OfferListResponse struct {
	Count  int             `json:"count"`
	Offers []OfferResponse `json:"offers"`
}

func NewOfferListResponse(views []services.OfferView) OfferListResponse {
	offers := make([]OfferResponse, len(views))
	for i := range views {
		offers[i] = NewOfferViewResponse(&views[i])
	}
	return OfferListResponse{Count: len(offers), Offers: offers}
}
