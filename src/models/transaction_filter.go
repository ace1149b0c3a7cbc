package models

import "time"

// TransactionFilter narrows a transaction listing. Zero values mean "no bound".
type TransactionFilter struct {
	From       time.Time
	To         time.Time
	Type       string
	CategoryID *int64
	Limit      int
}
