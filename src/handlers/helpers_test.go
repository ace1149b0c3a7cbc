package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"moneywise-server/src/db"
	"moneywise-server/src/middleware"
	"moneywise-server/src/models"
	"moneywise-server/src/repository/repotest"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// serve routes a single request through a chi router with pattern mounted,
// acting as user.
func serve(t *testing.T, method, pattern, target string, h http.HandlerFunc, user uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, &buf)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), middleware.Principal{
		UserID: user,
		Email:  gofakeit.Email(),
		Role:   "authenticated",
	}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func newCache(t *testing.T) *db.Cache {
	t.Helper()
	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	t.Cleanup(cache.Close)
	return cache
}

func publishTemplate(t *testing.T, mem *repotest.Memory, creator uuid.UUID, price string) *models.SavingsPlan {
	t.Helper()
	ctx := context.Background()
	plan, err := mem.CreateTemplatePlan(ctx, &models.SavingsPlan{
		UserID:        creator,
		CreatedBy:     &creator,
		Title:         "Wedding fund",
		TargetAmount:  decimal.NewFromInt(15000),
		Category:      "Life events",
		Priority:      "high",
		TemplatePrice: decimal.RequireFromString(price),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := mem.CreateSavingsPlanItems(ctx, plan.ID, []models.SavingsPlanItem{
		{Title: "Venue", Amount: decimal.NewFromInt(8000)},
		{Title: "Catering", Amount: decimal.NewFromInt(5000)},
	}); err != nil {
		t.Fatal(err)
	}
	return plan
}

func createPlan(t *testing.T, mem *repotest.Memory, owner uuid.UUID) *models.SavingsPlan {
	t.Helper()
	plan, err := mem.CreateSavingsPlan(context.Background(), &models.SavingsPlan{
		UserID:        owner,
		Title:         "Rainy day",
		TargetAmount:  decimal.NewFromInt(2000),
		CurrentAmount: decimal.NewFromInt(500),
	})
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
