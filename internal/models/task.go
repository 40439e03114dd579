package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"task-marketplace.com/task-marketplace/internal/constants"
)

type Task struct {
	ID                     string               `gorm:"primaryKey;size:36"`
	RequesterID            string               `gorm:"size:36;not null;index"`
	Category               constants.Category   `gorm:"type:varchar(64);not null;index"`
	Name                   string               `gorm:"not null"`
	Description            string               `gorm:"type:text;not null"`
	ExpectedStartDate      datatypes.Date       `gorm:"not null"`
	ExpectedHours          decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	HourlyRate             decimal.Decimal      `gorm:"type:decimal(10,2);not null;index"`
	RateCurrency           constants.Currency   `gorm:"type:varchar(3);not null"`
	Status                 constants.TaskStatus `gorm:"type:varchar(32);not null;index"`
	AcceptedProviderID     *string              `gorm:"size:36;index"`
	CompletionFeedback     *string              `gorm:"type:text"`
	CompletionFeedbackDate *time.Time
	// CompletionCycle counts submissions for approval. Feedback entries carry
	// the cycle they decided.
	CompletionCycle int  `gorm:"not null;default:0"`
	Version         uint `gorm:"not null;default:1"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Task) TableName() string {
	return "tasks"
}
