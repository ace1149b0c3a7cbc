package services

import (
	"context"
	"errors"
	"fmt"
	"moneywise-server/src/finance"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	recentTransactionCount = 5
	overviewGoalCount      = 3
)

type TotalsWithProgress struct {
	Count    int             `json:"count"`
	Target   decimal.Decimal `json:"target"`
	Current  decimal.Decimal `json:"current"`
	Progress int64           `json:"progress"`
}

type DashboardSummary struct {
	FullName          string             `json:"full_name"`
	Onboarded         bool               `json:"onboarded"`
	SavingsPlans      TotalsWithProgress `json:"savings_plans"`
	Goals             TotalsWithProgress `json:"goals"`
	PendingBills      int                `json:"pending_bills"`
	PendingBillsTotal decimal.Decimal    `json:"pending_bills_total"`
}

type DashboardOverview struct {
	TotalBalance       decimal.Decimal      `json:"total_balance"`
	AccountCount       int                  `json:"account_count"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
	RecentIncome       decimal.Decimal      `json:"recent_income"`
	RecentExpenses     decimal.Decimal      `json:"recent_expenses"`
	Goals              []GoalProgress       `json:"goals"`
	Budgets            []models.Budget      `json:"budgets"`
}

type DashboardService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewDashboardService(repo repository.Repository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

func totals(targets, currents []decimal.Decimal) TotalsWithProgress {
	t := TotalsWithProgress{
		Count:   len(targets),
		Target:  finance.Sum(targets...),
		Current: finance.Sum(currents...),
	}
	t.Progress = finance.RoundedPercent(finance.ProgressPercent(t.Current, t.Target))
	return t
}

func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID) (*DashboardSummary, error) {
	summary := &DashboardSummary{PendingBillsTotal: decimal.Zero}

	profile, err := s.repo.GetProfile(ctx, userID)
	switch {
	case err == nil:
		summary.FullName = profile.FullName
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	_, err = s.repo.GetOnboarding(ctx, userID)
	switch {
	case err == nil:
		summary.Onboarded = true
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("failed to load onboarding: %w", err)
	}

	plans, err := s.repo.ListSavingsPlans(ctx, userID, models.PlanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings plans: %w", err)
	}
	var targets, currents []decimal.Decimal
	for _, p := range plans {
		targets = append(targets, p.TargetAmount)
		currents = append(currents, p.CurrentAmount)
	}
	summary.SavingsPlans = totals(targets, currents)

	goals, err := s.repo.ListGoals(ctx, userID, models.GoalStatusActive, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	targets, currents = nil, nil
	for _, g := range goals {
		targets = append(targets, g.TargetAmount)
		currents = append(currents, g.CurrentAmount)
	}
	summary.Goals = totals(targets, currents)

	bills, err := s.repo.ListBills(ctx, userID, models.BillStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	summary.PendingBills = len(bills)
	for _, b := range bills {
		summary.PendingBillsTotal = summary.PendingBillsTotal.Add(b.Amount)
	}
	return summary, nil
}

func (s *DashboardService) Overview(ctx context.Context, userID uuid.UUID) (*DashboardOverview, error) {
	overview := &DashboardOverview{
		TotalBalance:   decimal.Zero,
		RecentIncome:   decimal.Zero,
		RecentExpenses: decimal.Zero,
		Goals:          []GoalProgress{},
	}

	accounts, err := s.repo.ListAccounts(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	overview.AccountCount = len(accounts)
	for _, a := range accounts {
		overview.TotalBalance = overview.TotalBalance.Add(a.Balance)
	}

	recent, err := s.repo.ListTransactions(ctx, userID, models.TransactionFilter{Limit: recentTransactionCount})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	overview.RecentTransactions = recent
	if overview.RecentTransactions == nil {
		overview.RecentTransactions = []models.Transaction{}
	}
	for _, t := range recent {
		if t.Type == models.TransactionTypeIncome {
			overview.RecentIncome = overview.RecentIncome.Add(t.Amount)
		} else {
			overview.RecentExpenses = overview.RecentExpenses.Add(t.Amount)
		}
	}

	goals, err := s.repo.ListGoals(ctx, userID, models.GoalStatusActive, overviewGoalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	now := s.now()
	for _, g := range goals {
		overview.Goals = append(overview.Goals, goalProgress(g, now))
	}

	budgets, err := s.repo.ListBudgets(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	overview.Budgets = budgets
	if overview.Budgets == nil {
		overview.Budgets = []models.Budget{}
	}
	return overview, nil
}
