// Package finance holds the arithmetic behind the dashboard, goals, budgets and
// reports views. Nothing here touches storage.
package finance

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"

	BudgetGood    = "good"
	BudgetWarning = "warning"
	BudgetOver    = "over"
)

var hundred = decimal.NewFromInt(100)

func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Percent returns part/whole*100 uncapped, or 0 when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// ProgressPercent is Percent capped at 100.
func ProgressPercent(current, target decimal.Decimal) decimal.Decimal {
	p := Percent(current, target)
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// RoundedPercent rounds half away from zero to a whole number.
func RoundedPercent(p decimal.Decimal) int64 {
	f, _ := p.Float64()
	return int64(math.Round(f))
}

// PercentChange reports the change from prev to cur. A previous value of zero
// or less yields 0 rather than an infinite change.
func PercentChange(prev, cur decimal.Decimal) decimal.Decimal {
	if !prev.IsPositive() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1)
}

func GoalStatus(current, target decimal.Decimal) string {
	if current.GreaterThanOrEqual(target) {
		return StatusCompleted
	}
	return StatusActive
}

// BudgetStatus classifies an uncapped spend percentage.
func BudgetStatus(percentage decimal.Decimal) string {
	switch {
	case percentage.GreaterThanOrEqual(hundred):
		return BudgetOver
	case percentage.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return BudgetWarning
	default:
		return BudgetGood
	}
}

// DaysLeft counts whole days until deadline, rounding partial days up.
func DaysLeft(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// SavingsRate is net income as a share of income, one decimal place.
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	return Percent(income.Sub(expenses), income).Round(1)
}

// Expense is one categorized spend used by TopCategories.
type Expense struct {
	Category string
	Color    string
	Amount   decimal.Decimal
}

type CategoryTotal struct {
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	Share  decimal.Decimal `json:"share"`
}

// TopCategories groups expenses by category and returns the n largest by
// summed amount. Share is each category's percentage of all expenses given.
// Uncategorized expenses count toward the total but are not listed.
func TopCategories(expenses []Expense, n int) []CategoryTotal {
	byName := make(map[string]*CategoryTotal)
	var order []string
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
		if e.Category == "" {
			continue
		}
		ct, ok := byName[e.Category]
		if !ok {
			ct = &CategoryTotal{Name: e.Category, Color: e.Color, Amount: decimal.Zero}
			byName[e.Category] = ct
			order = append(order, e.Category)
		}
		ct.Amount = ct.Amount.Add(e.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		ct := byName[name]
		ct.Share = Percent(ct.Amount, total).Round(1)
		out = append(out, *ct)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthBounds returns the first instant of month and of the following month.
func MonthBounds(month time.Time) (time.Time, time.Time) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	return start, start.AddDate(0, 1, 0)
}
