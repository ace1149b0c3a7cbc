package handlers

import (
	"context"
	"moneywise-server/src/middleware"
	"moneywise-server/src/models"
	"moneywise-server/src/repository/repotest"
	"moneywise-server/src/services"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestSignOutClearsSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "token"})
	rec := httptest.NewRecorder()

	SignOut(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.SessionCookie || cookies[0].MaxAge >= 0 {
		t.Errorf("cookies = %+v", cookies)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	mem := repotest.NewMemory()
	svc := services.NewProfileService(mem, nil)
	user := uuid.New()

	rec := serve(t, http.MethodPost, "/api/onboarding", "/api/onboarding", CompleteOnboarding(svc), user,
		map[string]interface{}{"monthly_spending": 1200})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing income status = %d", rec.Code)
	}

	rec = serve(t, http.MethodPost, "/api/onboarding", "/api/onboarding", CompleteOnboarding(svc), user, map[string]interface{}{
		"monthly_income":        5000,
		"monthly_spending":      "3200",
		"financial_goals":       []string{"retire early"},
		"risk_tolerance":        "medium",
		"investment_experience": "beginner",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if out := decode(t, rec); out["next"] != "/dashboard" {
		t.Errorf("next = %v", out["next"])
	}

	rec = serve(t, http.MethodGet, "/api/onboarding", "/api/onboarding", GetOnboarding(svc), user, nil)
	if out := decode(t, rec); out["completed"] != true {
		t.Errorf("onboarding = %s", rec.Body.String())
	}
}

func TestProfileRoundTrip(t *testing.T) {
	mem := repotest.NewMemory()
	svc := services.NewProfileService(mem, nil)
	user := uuid.New()

	rec := serve(t, http.MethodPut, "/api/profile", "/api/profile", UpdateProfile(svc), user,
		map[string]interface{}{"full_name": "Ada Lovelace", "email": "not-an-email"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid email status = %d", rec.Code)
	}

	rec = serve(t, http.MethodPut, "/api/profile", "/api/profile", UpdateProfile(svc), user,
		map[string]interface{}{"full_name": "Ada Lovelace", "email": "ada@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/api/profile", "/api/profile", GetProfile(svc), user, nil)
	if out := decode(t, rec); out["full_name"] != "Ada Lovelace" {
		t.Errorf("profile = %s", rec.Body.String())
	}
}

func TestTransactionsAndCategories(t *testing.T) {
	mem := repotest.NewMemory()
	mem.SeedCategories(models.Category{Name: "Groceries", Color: "#0a0"})
	svc := services.NewTransactionService(mem)
	user := uuid.New()

	rec := serve(t, http.MethodPost, "/api/transactions", "/api/transactions", CreateTransaction(svc), user, map[string]interface{}{
		"category_id": 1,
		"type":        "expense",
		"amount":      "82.40",
		"date":        "2024-03-02",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = serve(t, http.MethodGet, "/api/transactions", "/api/transactions?type=expense&from=2024-03-01&to=2024-03-02", ListTransactions(svc), user, nil)
	out := decode(t, rec)
	if txns, _ := out["transactions"].([]interface{}); len(txns) != 1 || out["total_expenses"] != "82.4" {
		t.Errorf("list = %s", rec.Body.String())
	}

	rec = serve(t, http.MethodGet, "/api/transactions", "/api/transactions?limit=zero", ListTransactions(svc), user, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}

	rec = serve(t, http.MethodGet, "/api/categories", "/api/categories", ListCategories(svc), user, nil)
	if cats, _ := decode(t, rec)["categories"].([]interface{}); len(cats) != 1 {
		t.Errorf("categories = %s", rec.Body.String())
	}
}

func TestBudgetsReportSpending(t *testing.T) {
	mem := repotest.NewMemory()
	mem.SeedCategories(models.Category{Name: "Dining"})
	svc := services.NewBudgetService(mem)
	user := uuid.New()

	rec := serve(t, http.MethodPost, "/api/budgets", "/api/budgets", CreateBudget(svc), user, map[string]interface{}{
		"category_id": "1",
		"amount":      200,
		"start_date":  "2024-03-01",
		"end_date":    "2024-03-31",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	category := int64(1)
	if _, err := mem.CreateTransaction(context.Background(), &models.Transaction{
		UserID:     user,
		CategoryID: &category,
		Type:       models.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(170),
		Date:       mustDate(t, "2024-03-10"),
	}); err != nil {
		t.Fatal(err)
	}

	rec = serve(t, http.MethodGet, "/api/budgets", "/api/budgets", GetAllBudgetsForUser(svc), user, nil)
	out := decode(t, rec)
	budgets, _ := out["budgets"].([]interface{})
	if len(budgets) != 1 {
		t.Fatalf("budgets = %s", rec.Body.String())
	}
	if b := budgets[0].(map[string]interface{}); b["status"] != "warning" || b["spent"] != "170" {
		t.Errorf("budget = %v", b)
	}
}

func TestBankLinkingDisabled(t *testing.T) {
	svc := services.NewAccountService(repotest.NewMemory(), nil)
	rec := serve(t, http.MethodPost, "/api/accounts/link-token", "/api/accounts/link-token", CreateLinkToken(svc), uuid.New(), nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateAccountDefaultsCurrency(t *testing.T) {
	mem := repotest.NewMemory()
	svc := services.NewAccountService(mem, nil)
	user := uuid.New()

	rec := serve(t, http.MethodPost, "/api/accounts", "/api/accounts", CreateAccount(svc), user,
		map[string]interface{}{"name": "Everyday", "type": "checking", "balance": 250})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if out := decode(t, rec); out["currency"] != "USD" {
		t.Errorf("account = %s", rec.Body.String())
	}

	rec = serve(t, http.MethodGet, "/api/accounts", "/api/accounts", ListAccounts(svc), user, nil)
	if out := decode(t, rec); out["total_balance"] != "250" || out["active_count"] != float64(1) {
		t.Errorf("accounts = %s", rec.Body.String())
	}
}
