package services

import (
	"context"
	"fmt"
	"moneywise-server/src/finance"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundredPercent = decimal.NewFromInt(100)

type BudgetProgress struct {
	models.Budget
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	Status     string          `json:"status"`
	Remaining  decimal.Decimal `json:"remaining"`
}

type BudgetsView struct {
	Budgets     []BudgetProgress `json:"budgets"`
	TotalBudget decimal.Decimal  `json:"total_budget"`
	TotalSpent  decimal.Decimal  `json:"total_spent"`
	OverBudget  int              `json:"over_budget_count"`
}

type BudgetInput struct {
	CategoryID string
	Amount     string
	Period     string
	StartDate  string
	EndDate    string
}

type BudgetService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewBudgetService(repo repository.Repository) *BudgetService {
	return &BudgetService{repo: repo, now: time.Now}
}

func (s *BudgetService) progress(ctx context.Context, userID uuid.UUID, b models.Budget) (BudgetProgress, error) {
	spent, err := s.repo.SumExpenses(ctx, userID, b.CategoryID, b.StartDate, b.EndDate)
	if err != nil {
		return BudgetProgress{}, fmt.Errorf("failed to sum spending for budget %s: %w", b.ID, err)
	}
	pct := finance.Percent(spent, b.Amount)
	shown := pct
	if shown.GreaterThan(hundredPercent) {
		shown = hundredPercent
	}
	return BudgetProgress{
		Budget:     b,
		Spent:      spent,
		Percentage: shown.Round(1),
		Status:     finance.BudgetStatus(pct),
		Remaining:  b.Amount.Sub(spent),
	}, nil
}

// List returns active budgets with spending inside each budget's own window.
func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) (*BudgetsView, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	view := &BudgetsView{
		Budgets:     make([]BudgetProgress, 0, len(budgets)),
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
	}
	for _, b := range budgets {
		bp, err := s.progress(ctx, userID, b)
		if err != nil {
			return nil, err
		}
		view.TotalBudget = view.TotalBudget.Add(b.Amount)
		view.TotalSpent = view.TotalSpent.Add(bp.Spent)
		if bp.Status == finance.BudgetOver {
			view.OverBudget++
		}
		view.Budgets = append(view.Budgets, bp)
	}
	return view, nil
}

// periodEnd is the last day covered by a period starting at start.
func periodEnd(start time.Time, period string) time.Time {
	switch period {
	case "weekly":
		return start.AddDate(0, 0, 6)
	case "yearly":
		return start.AddDate(1, 0, -1)
	default:
		return start.AddDate(0, 1, -1)
	}
}

// Create saves an active budget. Without dates the window starts at the
// current month and spans one period.
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, in BudgetInput) (*BudgetProgress, error) {
	categoryID, err := strconv.ParseInt(strings.TrimSpace(in.CategoryID), 10, 64)
	if err != nil || categoryID <= 0 {
		return nil, invalid("category_id is required")
	}
	amount, err := parseAmount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	period := strings.TrimSpace(in.Period)
	if period == "" {
		period = "monthly"
	}
	if !util.ValidateBudgetPeriod(period) {
		return nil, invalid("period must be weekly, monthly or yearly")
	}

	start, err := parseOptionalDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	if start == nil {
		first, _ := finance.MonthBounds(s.now().UTC())
		start = &first
	}
	end, err := parseOptionalDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if end == nil {
		last := periodEnd(*start, period)
		end = &last
	}
	if end.Before(*start) {
		return nil, invalid("end_date must not be before start_date")
	}

	created, err := s.repo.CreateBudget(ctx, &models.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Amount:     amount,
		Period:     period,
		StartDate:  *start,
		EndDate:    *end,
		IsActive:   true,
	})
	if err != nil {
		return nil, err
	}
	bp, err := s.progress(ctx, userID, *created)
	if err != nil {
		return nil, err
	}
	return &bp, nil
}
