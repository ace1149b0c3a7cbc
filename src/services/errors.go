package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotPurchased    = errors.New("template has not been purchased")
	ErrPriceChanged    = errors.New("template price has changed")
	ErrTemplateOwned   = errors.New("cannot rate your own template")
	ErrLinkingDisabled = errors.New("bank linking is not configured")
)

// PriceChangedError carries the authoritative price when a quoted price no
// longer matches it.
type PriceChangedError struct {
	Current decimal.Decimal
}

func (e *PriceChangedError) Error() string {
	return fmt.Sprintf("%s: current price is %s", ErrPriceChanged, e.Current.StringFixed(2))
}

func (e *PriceChangedError) Unwrap() error {
	return ErrPriceChanged
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
