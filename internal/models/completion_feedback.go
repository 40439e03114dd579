package model

import (
	"time"

	"task-marketplace.com/task-marketplace/internal/constants"
)

type TaskCompletionFeedback struct {
	ID          string                   `gorm:"primaryKey;size:36"`
	TaskID      string                   `gorm:"size:36;not null;index"`
	RequesterID string                   `gorm:"size:36;not null"`
	ActionType  constants.FeedbackAction `gorm:"type:varchar(20);not null"`
	Description string                   `gorm:"type:text;not null"`
	Cycle       int                      `gorm:"not null"`
	CreatedAt   time.Time
}

func (TaskCompletionFeedback) TableName() string {
	return "task_completion_feedback"
}
