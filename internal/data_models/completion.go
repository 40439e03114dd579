package dto

import (
	"time"

	"task-marketplace.com/task-marketplace/internal/constants"
	model "task-marketplace.com/task-marketplace/internal/models"
	"task-marketplace.com/task-marketplace/internal/services"
)

type ProgressRequest struct {
	ProgressDescription string `json:"progress_description"`
}

// CompletionRequest carries the requester's feedback on a submission.
type CompletionRequest struct {
	Description string `json:"description"`
}

type ProgressResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	ProviderID  string    `json:"provider_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewProgressResponse(p *model.TaskProgress) ProgressResponse {
	return ProgressResponse{
		ID:          p.ID,
		TaskID:      p.TaskID,
		ProviderID:  p.ProviderID,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func NewProgressListResponse(entries []model.TaskProgress) []ProgressResponse {
	out := make([]ProgressResponse, len(entries))
	for i := range entries {
		out[i] = NewProgressResponse(&entries[i])
	}
	return out
}

type FeedbackResponse struct {
	ID          string                   `json:"id"`
	TaskID      string                   `json:"task_id"`
	UserID      string                   `json:"user_id"`
	ActionType  constants.FeedbackAction `json:"action_type"`
	Description string                   `json:"description"`
	Cycle       int                      `json:"cycle"`
	CreatedAt   time.Time                `json:"created_at"`
}

func NewFeedbackResponse(f *model.TaskCompletionFeedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		TaskID:      f.TaskID,
		UserID:      f.RequesterID,
		ActionType:  f.ActionType,
		Description: f.Description,
		Cycle:       f.Cycle,
		CreatedAt:   f.CreatedAt,
	}
}

func NewFeedbackListResponse(entries []model.TaskCompletionFeedback) []FeedbackResponse {
	out := make([]FeedbackResponse, len(entries))
	for i := range entries {
		out[i] = NewFeedbackResponse(&entries[i])
	}
	return out
}

type DecisionResponse struct {
	Task     TaskResponse     `json:"task"`
	Feedback FeedbackResponse `json:"feedback"`
}

func NewDecisionResponse(d *services.Decision) DecisionResponse {
	return DecisionResponse{
		Task:     NewTaskResponse(d.Task),
		Feedback: NewFeedbackResponse(d.Feedback),
	}
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
