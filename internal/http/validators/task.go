package validators

import (
	"fmt"
	"strings"
	"time"

	"task-marketplace.com/task-marketplace/internal/constants"
	dto "task-marketplace.com/task-marketplace/internal/data_models"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	"task-marketplace.com/task-marketplace/internal/services"
)

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (services.TaskFields, error) {
	if r.Category == "" {
		return services.TaskFields{}, apperrors.Validation("category is required")
	}
	if strings.TrimSpace(r.TaskName) == "" {
		return services.TaskFields{}, apperrors.Validation("task_name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return services.TaskFields{}, apperrors.Validation("description is required")
	}
	if r.RateCurrency == "" {
		return services.TaskFields{}, apperrors.Validation("rate_currency is required")
	}

	start, err := parseDate("expected_start_date", r.ExpectedStartDate)
	if err != nil {
		return services.TaskFields{}, err
	}

	return services.TaskFields{
		Category:          constants.Category(r.Category),
		Name:              r.TaskName,
		Description:       r.Description,
		ExpectedStartDate: start,
		ExpectedHours:     r.ExpectedWorkingHours,
		HourlyRate:        r.HourlyRate,
		RateCurrency:      constants.Currency(r.RateCurrency),
	}, nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) (services.TaskPatch, error) {
	patch := services.TaskPatch{
		Name:          r.TaskName,
		Description:   r.Description,
		ExpectedHours: r.ExpectedWorkingHours,
		HourlyRate:    r.HourlyRate,
	}

	if r.Category != nil {
		category := constants.Category(*r.Category)
		patch.Category = &category
	}
	if r.RateCurrency != nil {
		currency := constants.Currency(*r.RateCurrency)
		patch.RateCurrency = &currency
	}
	if r.ExpectedStartDate != nil {
		start, err := parseDate("expected_start_date", *r.ExpectedStartDate)
		if err != nil {
			return services.TaskPatch{}, err
		}
		patch.ExpectedStartDate = &start
	}

	return patch, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperrors.Validation(field + " is required")
	}
	if t, err := time.Parse(dto.DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperrors.Validation(fmt.Sprintf("%s must be a date like 2024-01-15", field))
}
