package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BillStatusPending = "pending"

type Bill struct {
	ID      uuid.UUID       `json:"id"`
	UserID  uuid.UUID       `json:"user_id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate *time.Time      `json:"due_date"`
	Status  string          `json:"status"`
}
