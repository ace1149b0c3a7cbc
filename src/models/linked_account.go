package models

import "github.com/shopspring/decimal"

// LinkedAccount is an account as reported by the bank-linking provider.
type LinkedAccount struct {
	ProviderAccountID string
	Name              string
	Type              string
	Currency          string
	Balance           decimal.Decimal
}
