package services

import (
	"context"
	"moneywise-server/src/models"
	"moneywise-server/src/repository/repotest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

func TestDashboardSummary(t *testing.T) {
	mem := repotest.NewMemory()
	ctx := context.Background()
	user := seedUser(t, mem)
	svc := NewDashboardService(mem)
	svc.now = fixedClock

	summary, err := svc.Summary(ctx, user)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if summary.Onboarded || summary.FullName == "" || summary.SavingsPlans.Count != 0 {
		t.Errorf("empty summary = %+v", summary)
	}

	for _, p := range []models.SavingsPlan{
		{Title: "A", TargetAmount: money("1000"), CurrentAmount: money("250")},
		{Title: "B", TargetAmount: money("2000"), CurrentAmount: money("1000")},
		{Title: "C", TargetAmount: money("500"), CurrentAmount: money("500"), Status: models.PlanStatusCompleted},
	} {
		p.UserID = user
		if _, err := mem.CreateSavingsPlan(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := mem.CreateGoal(ctx, &models.FinancialGoal{UserID: user, Name: "G", TargetAmount: money("400"), CurrentAmount: money("100")}); err != nil {
		t.Fatal(err)
	}
	if _, err := mem.CreateOnboarding(ctx, &models.OnboardingRecord{UserID: user, RiskTolerance: "low"}); err != nil {
		t.Fatal(err)
	}
	mem.SeedBills(
		models.Bill{UserID: user, Name: gofakeit.Company(), Amount: money("80"), Status: models.BillStatusPending},
		models.Bill{UserID: user, Name: gofakeit.Company(), Amount: money("20.5"), Status: models.BillStatusPending},
		models.Bill{UserID: user, Name: gofakeit.Company(), Amount: money("999"), Status: "paid"},
		models.Bill{UserID: uuid.New(), Name: gofakeit.Company(), Amount: money("5"), Status: models.BillStatusPending},
	)

	summary, err = svc.Summary(ctx, user)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if !summary.Onboarded {
		t.Error("onboarding not detected")
	}
	plans := summary.SavingsPlans
	if plans.Count != 2 || !plans.Target.Equal(money("3000")) || !plans.Current.Equal(money("1250")) || plans.Progress != 42 {
		t.Errorf("plans = %+v", plans)
	}
	if summary.Goals.Count != 1 || summary.Goals.Progress != 25 {
		t.Errorf("goals = %+v", summary.Goals)
	}
	if summary.PendingBills != 2 || !summary.PendingBillsTotal.Equal(money("100.5")) {
		t.Errorf("bills = %d %s", summary.PendingBills, summary.PendingBillsTotal)
	}
}

func TestDashboardOverview(t *testing.T) {
	mem := repotest.NewMemory()
	ctx := context.Background()
	user := uuid.New()
	svc := NewDashboardService(mem)
	svc.now = fixedClock

	for _, a := range []models.Account{
		{UserID: user, Name: "Checking", Balance: money("1200"), IsActive: true},
		{UserID: user, Name: "Old", Balance: money("50"), IsActive: false},
		{UserID: user, Name: "Card", Balance: money("-200"), IsActive: true},
	} {
		if _, err := mem.CreateAccount(ctx, &a); err != nil {
			t.Fatal(err)
		}
	}
	for i := 1; i <= 7; i++ {
		addIncome(t, mem, user, "10", "2024-03-0"+string(rune('0'+i)))
	}
	for i := 0; i < 4; i++ {
		if _, err := mem.CreateGoal(ctx, &models.FinancialGoal{UserID: user, Name: gofakeit.Word(), TargetAmount: money("100")}); err != nil {
			t.Fatal(err)
		}
	}

	overview, err := svc.Overview(ctx, user)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if overview.AccountCount != 2 || !overview.TotalBalance.Equal(money("1000")) {
		t.Errorf("accounts = %d balance %s", overview.AccountCount, overview.TotalBalance)
	}
	if len(overview.RecentTransactions) != 5 || !overview.RecentIncome.Equal(money("50")) {
		t.Errorf("recent = %d income %s", len(overview.RecentTransactions), overview.RecentIncome)
	}
	if overview.RecentTransactions[0].Date.Day() != 7 {
		t.Errorf("most recent first: got day %d", overview.RecentTransactions[0].Date.Day())
	}
	if len(overview.Goals) != 3 {
		t.Errorf("goals = %d, want 3", len(overview.Goals))
	}
	if len(overview.Budgets) != 0 {
		t.Errorf("budgets = %d", len(overview.Budgets))
	}
}
