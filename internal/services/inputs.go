package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"task-marketplace.com/task-marketplace/internal/constants"
	apperrors "task-marketplace.com/task-marketplace/internal/errors"
	model "task-marketplace.com/task-marketplace/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var (
	minHours = decimal.NewFromInt(1)
	minRate  = decimal.Zero
)

type TaskFields struct {
	Category          constants.Category
	Name              string
	Description       string
	ExpectedStartDate time.Time
	ExpectedHours     decimal.Decimal
	HourlyRate        decimal.Decimal
	RateCurrency      constants.Currency
}

func (f TaskFields) validate() error {
	if !f.Category.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown category %q", f.Category))
	}
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.Validation("task_name is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		return apperrors.Validation("description is required")
	}
	if f.ExpectedStartDate.IsZero() {
		return apperrors.Validation("expected_start_date is required")
	}
	if f.ExpectedHours.LessThan(minHours) {
		return apperrors.Validation("expected_working_hours must be at least 1")
	}
	if f.HourlyRate.LessThan(minRate) {
		return apperrors.Validation("hourly_rate must not be negative")
	}
	if !f.RateCurrency.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown currency %q", f.RateCurrency))
	}
	return nil
}

// TaskPatch carries the fields a requester may edit while the task is open.
// Nil fields are left unchanged.
type TaskPatch struct {
	Category          *constants.Category
	Name              *string
	Description       *string
	ExpectedStartDate *time.Time
	ExpectedHours     *decimal.Decimal
	HourlyRate        *decimal.Decimal
	RateCurrency      *constants.Currency
}

func (p TaskPatch) validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown category %q", *p.Category))
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.Validation("task_name must not be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return apperrors.Validation("description must not be empty")
	}
	if p.ExpectedStartDate != nil && p.ExpectedStartDate.IsZero() {
		return apperrors.Validation("expected_start_date must not be empty")
	}
	if p.ExpectedHours != nil && p.ExpectedHours.LessThan(minHours) {
		return apperrors.Validation("expected_working_hours must be at least 1")
	}
	if p.HourlyRate != nil && p.HourlyRate.LessThan(minRate) {
		return apperrors.Validation("hourly_rate must not be negative")
	}
	if p.RateCurrency != nil && !p.RateCurrency.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown currency %q", *p.RateCurrency))
	}
	return nil
}

func (p TaskPatch) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Category != nil {
		changes["category"] = *p.Category
	}
	if p.Name != nil {
		changes["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		changes["description"] = *p.Description
	}
	if p.ExpectedStartDate != nil {
		changes["expected_start_date"] = datatypes.Date(*p.ExpectedStartDate)
	}
	if p.ExpectedHours != nil {
		changes["expected_hours"] = p.ExpectedHours.Round(2)
	}
	if p.HourlyRate != nil {
		changes["hourly_rate"] = p.HourlyRate.Round(2)
	}
	if p.RateCurrency != nil {
		changes["rate_currency"] = *p.RateCurrency
	}
	return changes
}

// TaskFilter narrows ListTasks. Requesters always see only their own tasks;
// providers see every task unless AssignedToMe is set.
type TaskFilter struct {
	Status       *constants.TaskStatus
	Category     constants.Category
	Search       string
	MinRate      *decimal.Decimal
	MaxRate      *decimal.Decimal
	AssignedToMe bool
	Page         int
	Limit        int
}

func (f *TaskFilter) normalize() error {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Page < 0 {
		return apperrors.ErrInvalidPage
	}
	if f.Limit < 0 || f.Limit > MaxLimit {
		return apperrors.ErrInvalidLimit
	}
	if f.Status != nil && !f.Status.Valid() {
		return apperrors.Validation("unknown task status")
	}
	if f.Category != "" && !f.Category.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown category %q", f.Category))
	}
	if f.MinRate != nil && f.MaxRate != nil && f.MinRate.GreaterThan(*f.MaxRate) {
		return apperrors.Validation("min_rate must not exceed max_rate")
	}
	f.Search = strings.TrimSpace(f.Search)
	return nil
}

type TaskPage struct {
	Tasks      []model.Task
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

type OfferFields struct {
	TaskID         string
	ProposedRate   decimal.Decimal
	RateCurrency   constants.Currency
	EstimatedHours decimal.Decimal
	CoverLetter    string
	Message        *string
}

func (f *OfferFields) validate() error {
	if strings.TrimSpace(f.TaskID) == "" {
		return apperrors.ErrTaskIDRequired
	}
	if f.ProposedRate.LessThan(minRate) {
		return apperrors.Validation("proposed_rate must not be negative")
	}
	if f.RateCurrency == "" {
		f.RateCurrency = constants.DefaultCurrency
	}
	if !f.RateCurrency.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown currency %q", f.RateCurrency))
	}
	if f.EstimatedHours.LessThan(minHours) {
		return apperrors.Validation("estimated_hours must be at least 1")
	}
	return nil
}

type OfferPatch struct {
	ProposedRate   *decimal.Decimal
	RateCurrency   *constants.Currency
	EstimatedHours *decimal.Decimal
	CoverLetter    *string
	Message        *string
}

func (p OfferPatch) validate() error {
	if p.ProposedRate != nil && p.ProposedRate.LessThan(minRate) {
		return apperrors.Validation("proposed_rate must not be negative")
	}
	if p.RateCurrency != nil && !p.RateCurrency.Valid() {
		return apperrors.Validation(fmt.Sprintf("unknown currency %q", *p.RateCurrency))
	}
	if p.EstimatedHours != nil && p.EstimatedHours.LessThan(minHours) {
		return apperrors.Validation("estimated_hours must be at least 1")
	}
	return nil
}

func (p OfferPatch) changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.ProposedRate != nil {
		changes["proposed_rate"] = p.ProposedRate.Round(2)
	}
	if p.RateCurrency != nil {
		changes["rate_currency"] = *p.RateCurrency
	}
	if p.EstimatedHours != nil {
		changes["estimated_hours"] = p.EstimatedHours.Round(2)
	}
	if p.CoverLetter != nil {
		changes["cover_letter"] = *p.CoverLetter
	}
	if p.Message != nil {
		changes["message"] = *p.Message
	}
	return changes
}

// OfferFilter narrows ListOffers. Providers see their own offers, requesters
// see offers on their own tasks.
type OfferFilter struct {
	Status *constants.OfferStatus
	TaskID string
}

// OfferDecision is a requester's answer to a pending offer.
type OfferDecision uint8

const (
	DecisionAccept OfferDecision = iota + 1
	DecisionReject
)

func ParseOfferDecision(raw string) (OfferDecision, error) {
	switch raw {
	case "accept":
		return DecisionAccept, nil
	case "reject":
		return DecisionReject, nil
	default:
		return 0, apperrors.Validation(fmt.Sprintf("response must be accept or reject, got %q", raw))
	}
}

func (d OfferDecision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionReject:
		return "reject"
	default:
		return fmt.Sprintf("OfferDecision(%d)", uint8(d))
	}
}
