package repository

import (
	"context"
	db "moneywise-server/src/db/sql"
	"moneywise-server/src/models"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by single-row lookups that match nothing, including
// rows owned by another user.
var ErrNotFound = db.ErrNotFound

type Repository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	GetOnboarding(ctx context.Context, userID uuid.UUID) (*models.OnboardingRecord, error)
	CreateOnboarding(ctx context.Context, rec *models.OnboardingRecord) (*models.OnboardingRecord, error)

	CreateSavingsPlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error)
	CreateSavingsPlanItems(ctx context.Context, planID uuid.UUID, items []models.SavingsPlanItem) ([]models.SavingsPlanItem, error)
	GetSavingsPlan(ctx context.Context, userID, planID uuid.UUID) (*models.SavingsPlan, error)
	ListSavingsPlans(ctx context.Context, userID uuid.UUID, status string) ([]models.SavingsPlan, error)
	ListSavingsPlanItems(ctx context.Context, planID uuid.UUID) ([]models.SavingsPlanItem, error)
	CreateTemplatePlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error)

	ListTemplates(ctx context.Context) ([]models.Template, error)
	GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, error)
	UpsertTemplateRating(ctx context.Context, rating *models.TemplateRating) (*models.TemplateRating, error)
	GetTemplatePurchase(ctx context.Context, buyerID, templateID uuid.UUID) (*models.TemplatePurchase, error)
	CreateTemplatePurchase(ctx context.Context, purchase *models.TemplatePurchase) (*models.TemplatePurchase, error)

	ListGoals(ctx context.Context, userID uuid.UUID, status string, limit int) ([]models.FinancialGoal, error)
	CreateGoal(ctx context.Context, goal *models.FinancialGoal) (*models.FinancialGoal, error)
	ListBills(ctx context.Context, userID uuid.UUID, status string) ([]models.Bill, error)

	ListAccounts(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)
	SavePlaidItem(ctx context.Context, userID uuid.UUID, itemID, accessToken string) error
	ListPlaidItems(ctx context.Context, userID uuid.UUID) ([]models.PlaidItem, error)
	UpsertLinkedAccounts(ctx context.Context, userID uuid.UUID, accounts []models.LinkedAccount) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error)
	SumExpenses(ctx context.Context, userID uuid.UUID, categoryID int64, from, to time.Time) (decimal.Decimal, error)

	ListBudgets(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Budget, error)
	CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error)

	// InTx runs fn against a repository bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Repository) error) error
}
