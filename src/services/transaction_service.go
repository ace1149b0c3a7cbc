package services

import (
	"context"
	"fmt"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultTransactionLimit = 100

type TransactionQuery struct {
	Type       string
	CategoryID string
	From       string
	To         string
	Limit      string
}

type TransactionsView struct {
	Transactions  []models.Transaction `json:"transactions"`
	TotalIncome   decimal.Decimal      `json:"total_income"`
	TotalExpenses decimal.Decimal      `json:"total_expenses"`
}

type TransactionInput struct {
	AccountID   string
	CategoryID  string
	Type        string
	Amount      string
	Description string
	Date        string
}

type TransactionService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewTransactionService(repo repository.Repository) *TransactionService {
	return &TransactionService{repo: repo, now: time.Now}
}

func optionalCategory(raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, invalid("category_id must be a positive integer")
	}
	return &id, nil
}

func (q TransactionQuery) filter() (models.TransactionFilter, error) {
	f := models.TransactionFilter{Type: strings.TrimSpace(q.Type), Limit: defaultTransactionLimit}
	if f.Type != "" && !util.ValidateTransactionType(f.Type) {
		return f, invalid("type must be income or expense")
	}
	category, err := optionalCategory(q.CategoryID)
	if err != nil {
		return f, err
	}
	f.CategoryID = category

	from, err := parseOptionalDate("from", q.From)
	if err != nil {
		return f, err
	}
	if from != nil {
		f.From = *from
	}
	to, err := parseOptionalDate("to", q.To)
	if err != nil {
		return f, err
	}
	if to != nil {
		// the query bound is exclusive, the parameter is an inclusive day
		f.To = to.AddDate(0, 0, 1)
	}
	if raw := strings.TrimSpace(q.Limit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return f, invalid("limit must be a positive integer")
		}
		f.Limit = limit
	}
	return f, nil
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, q TransactionQuery) (*TransactionsView, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	view := &TransactionsView{Transactions: txns, TotalIncome: decimal.Zero, TotalExpenses: decimal.Zero}
	if view.Transactions == nil {
		view.Transactions = []models.Transaction{}
	}
	for _, t := range txns {
		switch t.Type {
		case models.TransactionTypeIncome:
			view.TotalIncome = view.TotalIncome.Add(t.Amount)
		case models.TransactionTypeExpense:
			view.TotalExpenses = view.TotalExpenses.Add(t.Amount)
		}
	}
	return view, nil
}

func (s *TransactionService) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// Create records a transaction. An account, when given, must belong to the
// user. The date defaults to today.
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, in TransactionInput) (*models.Transaction, error) {
	txnType := strings.TrimSpace(in.Type)
	if !util.ValidateTransactionType(txnType) {
		return nil, invalid("type must be income or expense")
	}
	amount, err := parseAmount("amount", in.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, invalid("amount must be greater than zero")
	}
	category, err := optionalCategory(in.CategoryID)
	if err != nil {
		return nil, err
	}
	date, err := parseOptionalDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		now := s.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		date = &today
	}

	var accountID *uuid.UUID
	if raw := strings.TrimSpace(in.AccountID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, invalid("account_id is not a valid id")
		}
		if err := s.ownsAccount(ctx, userID, id); err != nil {
			return nil, err
		}
		accountID = &id
	}

	return s.repo.CreateTransaction(ctx, &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		CategoryID:  category,
		Type:        txnType,
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
		Date:        *date,
	})
}

func (s *TransactionService) ownsAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	accounts, err := s.repo.ListAccounts(ctx, userID, false)
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return nil
		}
	}
	return invalid("account_id does not match any of your accounts")
}
