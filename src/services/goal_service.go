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

type GoalProgress struct {
	models.FinancialGoal
	Progress  int64           `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
	DaysLeft  *int            `json:"days_left"`
}

type GoalsView struct {
	Goals          []GoalProgress  `json:"goals"`
	TotalGoals     int             `json:"total_goals"`
	CompletedGoals int             `json:"completed_goals"`
	TotalTarget    decimal.Decimal `json:"total_target"`
	TotalCurrent   decimal.Decimal `json:"total_current"`
	Progress       int64           `json:"progress"`
}

type GoalInput struct {
	Name          string
	Description   string
	TargetAmount  string
	CurrentAmount string
	TargetDate    string
}

type GoalService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewGoalService(repo repository.Repository) *GoalService {
	return &GoalService{repo: repo, now: time.Now}
}

// goalProgress derives display state from amounts. Status follows the amounts,
// not the stored column.
func goalProgress(g models.FinancialGoal, now time.Time) GoalProgress {
	g.Status = finance.GoalStatus(g.CurrentAmount, g.TargetAmount)
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	gp := GoalProgress{
		FinancialGoal: g,
		Progress:      finance.RoundedPercent(finance.ProgressPercent(g.CurrentAmount, g.TargetAmount)),
		Remaining:     remaining,
	}
	if g.TargetDate != nil {
		days := finance.DaysLeft(now, *g.TargetDate)
		gp.DaysLeft = &days
	}
	return gp
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID) (*GoalsView, error) {
	goals, err := s.repo.ListGoals(ctx, userID, "", 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	now := s.now()
	view := &GoalsView{
		Goals:        make([]GoalProgress, 0, len(goals)),
		TotalGoals:   len(goals),
		TotalTarget:  decimal.Zero,
		TotalCurrent: decimal.Zero,
	}
	for _, g := range goals {
		gp := goalProgress(g, now)
		if gp.Status == models.GoalStatusCompleted {
			view.CompletedGoals++
		}
		view.TotalTarget = view.TotalTarget.Add(g.TargetAmount)
		view.TotalCurrent = view.TotalCurrent.Add(g.CurrentAmount)
		view.Goals = append(view.Goals, gp)
	}
	view.Progress = finance.RoundedPercent(finance.ProgressPercent(view.TotalCurrent, view.TotalTarget))
	return view, nil
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, in GoalInput) (*GoalProgress, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	target, err := parseAmount("target_amount", in.TargetAmount)
	if err != nil {
		return nil, err
	}
	if !target.IsPositive() {
		return nil, invalid("target_amount must be greater than zero")
	}
	current, err := parseOptionalAmount("current_amount", in.CurrentAmount)
	if err != nil {
		return nil, err
	}
	targetDate, err := parseOptionalDate("target_date", in.TargetDate)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateGoal(ctx, &models.FinancialGoal{
		UserID:        userID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    targetDate,
		Status:        finance.GoalStatus(current, target),
	})
	if err != nil {
		return nil, err
	}
	gp := goalProgress(*created, s.now())
	return &gp, nil
}
