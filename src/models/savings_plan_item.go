package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SavingsPlanItem struct {
	ID        uuid.UUID       `json:"id"`
	PlanID    uuid.UUID       `json:"plan_id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes"`
	DueDate   *time.Time      `json:"due_date"`
	CreatedAt time.Time       `json:"created_at"`
}
