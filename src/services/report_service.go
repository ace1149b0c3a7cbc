package services

import (
	"context"
	"fmt"
	"moneywise-server/src/finance"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	monthLayout      = "2006-01"
	topCategoryCount = 5
	noCategoryLabel  = "None"
)

type MonthlyReport struct {
	Month            string                  `json:"month"`
	Income           decimal.Decimal         `json:"income"`
	Expenses         decimal.Decimal         `json:"expenses"`
	PreviousIncome   decimal.Decimal         `json:"previous_income"`
	PreviousExpenses decimal.Decimal         `json:"previous_expenses"`
	IncomeChange     decimal.Decimal         `json:"income_change"`
	ExpenseChange    decimal.Decimal         `json:"expense_change"`
	NetIncome        decimal.Decimal         `json:"net_income"`
	SavingsRate      decimal.Decimal         `json:"savings_rate"`
	TopCategories    []finance.CategoryTotal `json:"top_categories"`
	TopCategory      string                  `json:"top_category"`
	IncomeCount      int                     `json:"income_count"`
	ExpenseCount     int                     `json:"expense_count"`
	LargestExpense   *models.Transaction     `json:"largest_expense"`
}

type ReportService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewReportService(repo repository.Repository) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

type monthTotals struct {
	income, expenses          decimal.Decimal
	incomeCount, expenseCount int
	breakdown                 []finance.Expense
	largest                   *models.Transaction
}

func (s *ReportService) month(ctx context.Context, userID uuid.UUID, from, to time.Time) (*monthTotals, error) {
	txns, err := s.repo.ListTransactions(ctx, userID, models.TransactionFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	m := &monthTotals{income: decimal.Zero, expenses: decimal.Zero}
	for i := range txns {
		t := txns[i]
		switch t.Type {
		case models.TransactionTypeIncome:
			m.income = m.income.Add(t.Amount)
			m.incomeCount++
		case models.TransactionTypeExpense:
			m.expenses = m.expenses.Add(t.Amount)
			m.expenseCount++
			m.breakdown = append(m.breakdown, finance.Expense{Category: t.CategoryName, Color: t.CategoryColor, Amount: t.Amount})
			if m.largest == nil || t.Amount.GreaterThan(m.largest.Amount) {
				m.largest = &t
			}
		}
	}
	return m, nil
}

// Monthly compares month (YYYY-MM, blank for the current month) with the
// month before it.
func (s *ReportService) Monthly(ctx context.Context, userID uuid.UUID, month string) (*MonthlyReport, error) {
	ref := s.now().UTC()
	if month = strings.TrimSpace(month); month != "" {
		parsed, err := time.Parse(monthLayout, month)
		if err != nil {
			return nil, invalid("month must be in YYYY-MM form")
		}
		ref = parsed
	}
	start, end := finance.MonthBounds(ref)
	prevStart, _ := finance.MonthBounds(start.AddDate(0, -1, 0))

	cur, err := s.month(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", start.Format(monthLayout), err)
	}
	prev, err := s.month(ctx, userID, prevStart, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions for %s: %w", prevStart.Format(monthLayout), err)
	}

	report := &MonthlyReport{
		Month:            start.Format(monthLayout),
		Income:           cur.income,
		Expenses:         cur.expenses,
		PreviousIncome:   prev.income,
		PreviousExpenses: prev.expenses,
		IncomeChange:     finance.PercentChange(prev.income, cur.income),
		ExpenseChange:    finance.PercentChange(prev.expenses, cur.expenses),
		NetIncome:        cur.income.Sub(cur.expenses),
		SavingsRate:      finance.SavingsRate(cur.income, cur.expenses),
		TopCategories:    finance.TopCategories(cur.breakdown, topCategoryCount),
		TopCategory:      noCategoryLabel,
		IncomeCount:      cur.incomeCount,
		ExpenseCount:     cur.expenseCount,
		LargestExpense:   cur.largest,
	}
	if len(report.TopCategories) > 0 {
		report.TopCategory = report.TopCategories[0].Name
	}
	return report, nil
}
