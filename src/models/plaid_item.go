package models

import (
	"time"

	"github.com/google/uuid"
)

type PlaidItem struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"-"`
	ItemID      string    `json:"item_id"`
	CreatedAt   time.Time `json:"created_at"`
}
