package validators

import (
	"strings"

	"task-marketplace.com/task-marketplace/internal/constants"
	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/services"
)

func ValidateCreateOfferRequest(r *dto.CreateOfferRequest) (services.OfferFields, error) {
	if strings.TrimSpace(r.TaskID) == "" {
		return services.OfferFields{}, apperrors.ErrTaskIDRequired
	}

	return services.OfferFields{
		TaskID:         strings.TrimSpace(r.TaskID),
		ProposedRate:   r.ProposedRate,
		RateCurrency:   constants.Currency(r.RateCurrency),
		EstimatedHours: r.EstimatedHours,
		CoverLetter:    r.CoverLetter,
		Message:        r.Message,
	}, nil
}

func ValidateUpdateOfferRequest(r *dto.UpdateOfferRequest) services.OfferPatch {
	patch := services.OfferPatch{
		ProposedRate:   r.ProposedRate,
		EstimatedHours: r.EstimatedHours,
		CoverLetter:    r.CoverLetter,
		Message:        r.Message,
	}
	if r.RateCurrency != nil {
		currency := constants.Currency(*r.RateCurrency)
		patch.RateCurrency = &currency
	}
	return patch
}

func ValidateRespondToOfferRequest(r *dto.RespondToOfferRequest) (services.OfferDecision, error) {
	return services.ParseOfferDecision(strings.ToLower(strings.TrimSpace(r.Response)))
}
