package services

import (
	"context"
	"fmt"
	"moneywise-server/src/finance"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanInput struct {
	Title        string
	Description  string
	TargetAmount string
	TargetDate   string
	Category     string
	Priority     string
	Items        []ItemInput
}

type ItemInput struct {
	Title   string
	Amount  string
	Notes   string
	DueDate string
}

// blank reports whether the row should be dropped before saving.
func (in ItemInput) blank() bool {
	return strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Amount) == ""
}

type PlanWithItems struct {
	Plan  models.SavingsPlan       `json:"plan"`
	Items []models.SavingsPlanItem `json:"items"`
}

type PlanSummary struct {
	models.SavingsPlan
	Progress int64 `json:"progress"`
}

type PlanDetail struct {
	PlanSummary
	Items []models.SavingsPlanItem `json:"items"`
	Total decimal.Decimal          `json:"items_total"`
}

type SavingsService struct {
	repo repository.Repository
}

func NewSavingsService(repo repository.Repository) *SavingsService {
	return &SavingsService{repo: repo}
}

func (in PlanInput) toPlan(userID uuid.UUID) (*models.SavingsPlan, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("title is required")
	}
	target, err := parseAmount("target_amount", in.TargetAmount)
	if err != nil {
		return nil, err
	}
	targetDate, err := parseOptionalDate("target_date", in.TargetDate)
	if err != nil {
		return nil, err
	}
	priority := strings.TrimSpace(in.Priority)
	if priority == "" {
		priority = "medium"
	}
	if !util.ValidatePriority(priority) {
		return nil, invalid("priority must be low, medium or high")
	}
	return &models.SavingsPlan{
		UserID:        userID,
		Title:         title,
		Description:   strings.TrimSpace(in.Description),
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		TargetDate:    targetDate,
		Category:      strings.TrimSpace(in.Category),
		Priority:      priority,
		Status:        models.PlanStatusActive,
	}, nil
}

// keptItems drops rows missing a title or amount and parses the rest.
func (in PlanInput) keptItems() ([]models.SavingsPlanItem, error) {
	var items []models.SavingsPlanItem
	for i, row := range in.Items {
		if row.blank() {
			continue
		}
		amount, err := parseAmount(fmt.Sprintf("items[%d].amount", i), row.Amount)
		if err != nil {
			return nil, err
		}
		due, err := parseOptionalDate(fmt.Sprintf("items[%d].due_date", i), row.DueDate)
		if err != nil {
			return nil, err
		}
		items = append(items, models.SavingsPlanItem{
			Title:   strings.TrimSpace(row.Title),
			Amount:  amount,
			Notes:   strings.TrimSpace(row.Notes),
			DueDate: due,
		})
	}
	return items, nil
}

// CreatePlan saves a plan and its non-blank items in one transaction. At least
// one item row must be submitted even if every row turns out blank.
func (s *SavingsService) CreatePlan(ctx context.Context, userID uuid.UUID, in PlanInput) (*PlanWithItems, error) {
	plan, err := in.toPlan(userID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, invalid("at least one item is required")
	}
	items, err := in.keptItems()
	if err != nil {
		return nil, err
	}

	out := PlanWithItems{Items: []models.SavingsPlanItem{}}
	err = s.repo.InTx(ctx, func(tx repository.Repository) error {
		created, err := tx.CreateSavingsPlan(ctx, plan)
		if err != nil {
			return err
		}
		out.Plan = *created
		if len(items) == 0 {
			return nil
		}
		createdItems, err := tx.CreateSavingsPlanItems(ctx, created.ID, items)
		if err != nil {
			return err
		}
		out.Items = createdItems
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func summarizePlan(p models.SavingsPlan) PlanSummary {
	return PlanSummary{
		SavingsPlan: p,
		Progress:    finance.RoundedPercent(finance.ProgressPercent(p.CurrentAmount, p.TargetAmount)),
	}
}

func (s *SavingsService) ListPlans(ctx context.Context, userID uuid.UUID) ([]PlanSummary, error) {
	plans, err := s.repo.ListSavingsPlans(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list savings plans: %w", err)
	}
	out := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		out = append(out, summarizePlan(p))
	}
	return out, nil
}

func (s *SavingsService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*PlanDetail, error) {
	plan, err := s.repo.GetSavingsPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListSavingsPlanItems(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan items: %w", err)
	}
	if items == nil {
		items = []models.SavingsPlanItem{}
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return &PlanDetail{PlanSummary: summarizePlan(*plan), Items: items, Total: total}, nil
}
