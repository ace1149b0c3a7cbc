package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Account struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	Currency       string          `json:"currency"`
	IsActive       bool            `json:"is_active"`
	PlaidAccountID *string         `json:"plaid_account_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
