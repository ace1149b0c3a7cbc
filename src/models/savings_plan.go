package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusPaused    = "paused"
)

// SavingsPlan doubles as a marketplace template when IsTemplate is set.
type SavingsPlan struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date"`
	Category      string          `json:"category"`
	Priority      string          `json:"priority"`
	Status        string          `json:"status"`
	IsTemplate    bool            `json:"is_template"`
	TemplatePrice decimal.Decimal `json:"template_price"`
	CreatedAt     time.Time       `json:"created_at"`
}
