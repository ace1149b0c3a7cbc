package services

import (
	"context"
	"errors"
	"moneywise-server/src/repository"
	"moneywise-server/src/repository/repotest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

func emergencyFund() PlanInput {
	return PlanInput{
		Title:        "Emergency Fund",
		TargetAmount: "5000",
		TargetDate:   "2025-01-31",
		Category:     "Emergency",
		Priority:     "high",
		Items: []ItemInput{
			{Title: "Three months rent", Amount: "3000", DueDate: "2024-09-01"},
			{Title: "Medical buffer", Amount: "2000", Notes: gofakeit.Sentence(4)},
			{Title: "", Amount: ""},
		},
	}
}

func TestCreatePlanDropsBlankItems(t *testing.T) {
	mem := repotest.NewMemory()
	svc := NewSavingsService(mem)
	user := uuid.New()

	out, err := svc.CreatePlan(context.Background(), user, emergencyFund())
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}
	if out.Plan.Title != "Emergency Fund" || !out.Plan.TargetAmount.Equal(money("5000")) {
		t.Errorf("plan = %+v", out.Plan)
	}
	if plans := mem.Plans(); len(plans) != 1 {
		t.Fatalf("plans stored = %d, want 1", len(plans))
	}
	items := mem.Items()
	if len(items) != 2 {
		t.Fatalf("items stored = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.PlanID != out.Plan.ID {
			t.Errorf("item %q linked to %s, want %s", it.Title, it.PlanID, out.Plan.ID)
		}
	}
}

func TestCreatePlanKeepsOnlyCompleteRows(t *testing.T) {
	mem := repotest.NewMemory()
	svc := NewSavingsService(mem)
	in := emergencyFund()
	in.Items = []ItemInput{
		{Title: "  ", Amount: "10"},
		{Title: "No amount", Amount: " "},
	}

	out, err := svc.CreatePlan(context.Background(), uuid.New(), in)
	if err != nil {
		t.Fatalf("CreatePlan() error = %v", err)
	}
	if len(out.Items) != 0 || len(mem.Items()) != 0 {
		t.Errorf("items = %d, want 0", len(out.Items))
	}
	if len(mem.Plans()) != 1 {
		t.Errorf("plans = %d, want 1", len(mem.Plans()))
	}
}

func TestCreatePlanValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlanInput)
	}{
		{"missing title", func(in *PlanInput) { in.Title = "   " }},
		{"missing target", func(in *PlanInput) { in.TargetAmount = "" }},
		{"bad target", func(in *PlanInput) { in.TargetAmount = "lots" }},
		{"bad date", func(in *PlanInput) { in.TargetDate = "31/01/2025" }},
		{"bad priority", func(in *PlanInput) { in.Priority = "urgent" }},
		{"no item rows", func(in *PlanInput) { in.Items = nil }},
		{"bad item amount", func(in *PlanInput) { in.Items[0].Amount = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := repotest.NewMemory()
			in := emergencyFund()
			tt.mutate(&in)
			_, err := NewSavingsService(mem).CreatePlan(context.Background(), uuid.New(), in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			if len(mem.Plans()) != 0 {
				t.Errorf("plan stored despite invalid input")
			}
		})
	}
}

func TestCreatePlanRollsBackWhenItemsFail(t *testing.T) {
	mem := repotest.NewMemory()
	boom := errors.New("items insert failed")
	mem.Fail("CreateSavingsPlanItems", boom)

	_, err := NewSavingsService(mem).CreatePlan(context.Background(), uuid.New(), emergencyFund())
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if n := len(mem.Plans()); n != 0 {
		t.Errorf("orphaned plans = %d, want 0", n)
	}
}

func TestGetPlanOwnership(t *testing.T) {
	mem := repotest.NewMemory()
	svc := NewSavingsService(mem)
	ctx := context.Background()
	owner := uuid.New()
	out, err := svc.CreatePlan(ctx, owner, emergencyFund())
	if err != nil {
		t.Fatal(err)
	}

	detail, err := svc.GetPlan(ctx, owner, out.Plan.ID)
	if err != nil {
		t.Fatalf("GetPlan() error = %v", err)
	}
	if len(detail.Items) != 2 || !detail.Total.Equal(money("5000")) {
		t.Errorf("detail items = %d total = %s", len(detail.Items), detail.Total)
	}
	if _, err := svc.GetPlan(ctx, uuid.New(), out.Plan.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("other user error = %v, want ErrNotFound", err)
	}

	plans, err := svc.ListPlans(ctx, owner)
	if err != nil || len(plans) != 1 {
		t.Fatalf("ListPlans() = %d, %v", len(plans), err)
	}
	if plans[0].Progress != 0 {
		t.Errorf("progress = %d, want 0", plans[0].Progress)
	}
}
