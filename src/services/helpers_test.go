package services

import (
	"context"
	"moneywise-server/src/db"
	"moneywise-server/src/models"
	"moneywise-server/src/repository/repotest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newCache(t *testing.T) *db.Cache {
	t.Helper()
	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedUser(t *testing.T, mem *repotest.Memory) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := mem.UpsertProfile(context.Background(), &models.Profile{
		ID:       id,
		FullName: gofakeit.Name(),
		Email:    gofakeit.Email(),
	})
	if err != nil {
		t.Fatalf("UpsertProfile() error = %v", err)
	}
	return id
}

// seedTemplate lists a template with itemCount items created by creator.
func seedTemplate(t *testing.T, mem *repotest.Memory, creator uuid.UUID, price string, itemCount int) *models.SavingsPlan {
	t.Helper()
	ctx := context.Background()
	plan, err := mem.CreateTemplatePlan(ctx, &models.SavingsPlan{
		UserID:        creator,
		CreatedBy:     &creator,
		Title:         gofakeit.Sentence(3),
		Description:   gofakeit.Sentence(8),
		TargetAmount:  decimal.NewFromInt(int64(gofakeit.Number(500, 20000))),
		Category:      gofakeit.RandomString([]string{"Emergency", "Travel", "Home"}),
		Priority:      "medium",
		TemplatePrice: money(price),
	})
	if err != nil {
		t.Fatalf("CreateTemplatePlan() error = %v", err)
	}
	items := make([]models.SavingsPlanItem, itemCount)
	for i := range items {
		items[i] = models.SavingsPlanItem{
			Title:  gofakeit.Word(),
			Amount: decimal.NewFromInt(int64(gofakeit.Number(10, 500))),
		}
	}
	if _, err := mem.CreateSavingsPlanItems(ctx, plan.ID, items); err != nil {
		t.Fatalf("CreateSavingsPlanItems() error = %v", err)
	}
	return plan
}
