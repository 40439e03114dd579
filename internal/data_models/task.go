package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
	"task-marketplace.com/task-marketplace/internal/services"
)

const DateLayout = "2006-01-02"

type CreateTaskRequest struct {
	Category             string          `json:"category"`
	TaskName             string          `json:"task_name"`
	Description          string          `json:"description"`
	ExpectedStartDate    string          `json:"expected_start_date"`
	ExpectedWorkingHours decimal.Decimal `json:"expected_working_hours"`
	HourlyRate           decimal.Decimal `json:"hourly_rate"`
	RateCurrency         string          `json:"rate_currency"`
}

// UpdateTaskRequest is a partial update; absent fields stay unchanged.
type UpdateTaskRequest struct {
	Category             *string          `json:"category"`
	TaskName             *string          `json:"task_name"`
	Description          *string          `json:"description"`
	ExpectedStartDate    *string          `json:"expected_start_date"`
	ExpectedWorkingHours *decimal.Decimal `json:"expected_working_hours"`
	HourlyRate           *decimal.Decimal `json:"hourly_rate"`
	RateCurrency         *string          `json:"rate_currency"`
}

type TaskResponse struct {
	ID                     string               `json:"id"`
	UserID                 string               `json:"user_id"`
	Category               constants.Category   `json:"category"`
	TaskName               string               `json:"task_name"`
	Description            string               `json:"description"`
	ExpectedStartDate      string               `json:"expected_start_date"`
	ExpectedWorkingHours   decimal.Decimal      `json:"expected_working_hours"`
	HourlyRate             decimal.Decimal      `json:"hourly_rate"`
	RateCurrency           constants.Currency   `json:"rate_currency"`
	Status                 constants.TaskStatus `json:"status"`
	AcceptedProviderID     *string              `json:"accepted_provider_id"`
	CompletionFeedback     *string              `json:"completion_feedback"`
	CompletionFeedbackDate *time.Time           `json:"completion_feedback_date"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

func NewTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:                     t.ID,
		UserID:                 t.RequesterID,
		Category:               t.Category,
		TaskName:               t.Name,
		Description:            t.Description,
		ExpectedStartDate:      time.Time(t.ExpectedStartDate).Format(DateLayout),
		ExpectedWorkingHours:   t.ExpectedHours,
		HourlyRate:             t.HourlyRate,
		RateCurrency:           t.RateCurrency,
		Status:                 t.Status,
		AcceptedProviderID:     t.AcceptedProviderID,
		CompletionFeedback:     t.CompletionFeedback,
		CompletionFeedbackDate: t.CompletionFeedbackDate,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
}

func NewTaskListResponse(page *services.TaskPage) TaskListResponse {
	tasks := make([]TaskResponse, len(page.Tasks))
	for i := range page.Tasks {
		tasks[i] = NewTaskResponse(&page.Tasks[i])
	}
	return TaskListResponse{
		Tasks:      tasks,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
}
