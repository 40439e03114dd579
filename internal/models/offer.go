package model

import (
	"time"

	"github.com/shopspring/decimal"

	"task-marketplace.com/task-marketplace/internal/constants"
)

// Offer is a provider's bid on a task. A provider holds at most one offer per
// task, enforced by the composite unique index.
type Offer struct {
	ID             string                `gorm:"primaryKey;size:36"`
	ProviderID     string                `gorm:"size:36;not null;uniqueIndex:idx_offers_provider_task"`
	TaskID         string                `gorm:"size:36;not null;uniqueIndex:idx_offers_provider_task;index"`
	ProposedRate   decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	RateCurrency   constants.Currency    `gorm:"type:varchar(3);not null"`
	EstimatedHours decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	CoverLetter    string                `gorm:"type:text"`
	Message        *string               `gorm:"type:text"`
	Status         constants.OfferStatus `gorm:"type:varchar(32);not null;index"`
	Version        uint                  `gorm:"not null;default:1"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Offer) TableName() string {
	return "offers"
}
