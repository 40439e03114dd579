package validators

import (
	"strings"

	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
)

func ValidateProgressRequest(r *dto.ProgressRequest) (string, error) {
	if strings.TrimSpace(r.ProgressDescription) == "" {
		return "", apperrors.Validation("progress_description is required")
	}
	return r.ProgressDescription, nil
}

func ValidateCompletionRequest(r *dto.CompletionRequest) (string, error) {
	if strings.TrimSpace(r.Description) == "" {
		return "", apperrors.Validation("description is required")
	}
	return r.Description, nil
}
