package repository

import (
	"context"
	db "moneywise-server/src/db/sql"
	"moneywise-server/src/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type querier interface {
	db.Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresRepository struct {
	q querier
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{q: pool}
}

func (r *PostgresRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{q: tx})
	})
}

func (r *PostgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return db.GetProfile(ctx, r.q, userID)
}

func (r *PostgresRepository) UpsertProfile(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	return db.UpsertProfile(ctx, r.q, profile)
}

func (r *PostgresRepository) GetOnboarding(ctx context.Context, userID uuid.UUID) (*models.OnboardingRecord, error) {
	return db.GetOnboarding(ctx, r.q, userID)
}

func (r *PostgresRepository) CreateOnboarding(ctx context.Context, rec *models.OnboardingRecord) (*models.OnboardingRecord, error) {
	return db.CreateOnboarding(ctx, r.q, rec)
}

func (r *PostgresRepository) CreateSavingsPlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	return db.CreateSavingsPlan(ctx, r.q, plan)
}

func (r *PostgresRepository) CreateSavingsPlanItems(ctx context.Context, planID uuid.UUID, items []models.SavingsPlanItem) ([]models.SavingsPlanItem, error) {
	return db.CreateSavingsPlanItems(ctx, r.q, planID, items)
}

func (r *PostgresRepository) GetSavingsPlan(ctx context.Context, userID, planID uuid.UUID) (*models.SavingsPlan, error) {
	return db.GetSavingsPlan(ctx, r.q, userID, planID)
}

func (r *PostgresRepository) ListSavingsPlans(ctx context.Context, userID uuid.UUID, status string) ([]models.SavingsPlan, error) {
	return db.ListSavingsPlans(ctx, r.q, userID, status)
}

func (r *PostgresRepository) ListSavingsPlanItems(ctx context.Context, planID uuid.UUID) ([]models.SavingsPlanItem, error) {
	return db.ListSavingsPlanItems(ctx, r.q, planID)
}

func (r *PostgresRepository) CreateTemplatePlan(ctx context.Context, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	return db.CreateTemplatePlan(ctx, r.q, plan)
}

func (r *PostgresRepository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	return db.ListTemplates(ctx, r.q)
}

func (r *PostgresRepository) GetTemplate(ctx context.Context, templateID uuid.UUID) (*models.Template, error) {
	return db.GetTemplate(ctx, r.q, templateID)
}

func (r *PostgresRepository) UpsertTemplateRating(ctx context.Context, rating *models.TemplateRating) (*models.TemplateRating, error) {
	return db.UpsertTemplateRating(ctx, r.q, rating)
}

func (r *PostgresRepository) GetTemplatePurchase(ctx context.Context, buyerID, templateID uuid.UUID) (*models.TemplatePurchase, error) {
	return db.GetTemplatePurchase(ctx, r.q, buyerID, templateID)
}

func (r *PostgresRepository) CreateTemplatePurchase(ctx context.Context, purchase *models.TemplatePurchase) (*models.TemplatePurchase, error) {
	return db.CreateTemplatePurchase(ctx, r.q, purchase)
}

func (r *PostgresRepository) ListGoals(ctx context.Context, userID uuid.UUID, status string, limit int) ([]models.FinancialGoal, error) {
	return db.ListGoals(ctx, r.q, userID, status, limit)
}

func (r *PostgresRepository) CreateGoal(ctx context.Context, goal *models.FinancialGoal) (*models.FinancialGoal, error) {
	return db.CreateGoal(ctx, r.q, goal)
}

func (r *PostgresRepository) ListBills(ctx context.Context, userID uuid.UUID, status string) ([]models.Bill, error) {
	return db.ListBills(ctx, r.q, userID, status)
}

func (r *PostgresRepository) ListAccounts(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Account, error) {
	return db.ListAccounts(ctx, r.q, userID, activeOnly)
}

func (r *PostgresRepository) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	return db.CreateAccount(ctx, r.q, account)
}

func (r *PostgresRepository) SavePlaidItem(ctx context.Context, userID uuid.UUID, itemID, accessToken string) error {
	return db.SavePlaidItem(ctx, r.q, userID, itemID, accessToken)
}

func (r *PostgresRepository) ListPlaidItems(ctx context.Context, userID uuid.UUID) ([]models.PlaidItem, error) {
	return db.GetPlaidItemsSQL(ctx, r.q, userID)
}

func (r *PostgresRepository) UpsertLinkedAccounts(ctx context.Context, userID uuid.UUID, accounts []models.LinkedAccount) error {
	return db.UpsertLinkedAccounts(ctx, r.q, userID, accounts)
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	return db.ListCategories(ctx, r.q)
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.Transaction, error) {
	return db.ListTransactions(ctx, r.q, userID, filter)
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) (*models.Transaction, error) {
	return db.CreateTransaction(ctx, r.q, txn)
}

func (r *PostgresRepository) SumExpenses(ctx context.Context, userID uuid.UUID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	return db.SumExpenses(ctx, r.q, userID, categoryID, from, to)
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Budget, error) {
	return db.GetAllBudgetsForUser(ctx, r.q, userID, activeOnly)
}

func (r *PostgresRepository) CreateBudget(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	return db.CreateBudget(ctx, r.q, budget)
}
