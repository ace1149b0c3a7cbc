package services

import (
	"context"
	"fmt"
	"moneywise-server/src/models"
	"moneywise-server/src/repository"
	"moneywise-server/src/util"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankLinker is the bank-account aggregation provider.
type BankLinker interface {
	CreateLinkToken(ctx context.Context, userID string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	GetAccounts(ctx context.Context, accessToken string) ([]models.LinkedAccount, error)
}

type AccountsView struct {
	Accounts     []models.Account `json:"accounts"`
	TotalBalance decimal.Decimal  `json:"total_balance"`
	ActiveCount  int              `json:"active_count"`
}

type AccountInput struct {
	Name     string
	Type     string
	Balance  string
	Currency string
}

type AccountService struct {
	repo   repository.Repository
	linker BankLinker
}

// NewAccountService builds the service. linker may be nil when bank linking is
// not configured.
func NewAccountService(repo repository.Repository, linker BankLinker) *AccountService {
	return &AccountService{repo: repo, linker: linker}
}

// List returns every account; the balance total covers active accounts only.
func (s *AccountService) List(ctx context.Context, userID uuid.UUID) (*AccountsView, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	view := &AccountsView{Accounts: accounts, TotalBalance: decimal.Zero}
	if view.Accounts == nil {
		view.Accounts = []models.Account{}
	}
	for _, a := range accounts {
		if a.IsActive {
			view.ActiveCount++
			view.TotalBalance = view.TotalBalance.Add(a.Balance)
		}
	}
	return view, nil
}

func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, in AccountInput) (*models.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	accountType := strings.TrimSpace(in.Type)
	if !util.ValidateAccountType(accountType) {
		return nil, invalid("type %q is not a supported account type", accountType)
	}
	balance := decimal.Zero
	if strings.TrimSpace(in.Balance) != "" {
		var err error
		// credit and loan balances may be negative
		balance, err = decimal.NewFromString(strings.TrimSpace(in.Balance))
		if err != nil {
			return nil, invalid("balance must be a number")
		}
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, invalid("currency must be a three-letter code")
	}

	return s.repo.CreateAccount(ctx, &models.Account{
		UserID:   userID,
		Name:     name,
		Type:     accountType,
		Balance:  balance,
		Currency: currency,
		IsActive: true,
	})
}

func (s *AccountService) LinkingEnabled() bool {
	return s.linker != nil
}

func (s *AccountService) CreateLinkToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.linker == nil {
		return "", ErrLinkingDisabled
	}
	return s.linker.CreateLinkToken(ctx, userID.String())
}

// ExchangePublicToken stores the item behind a completed link session and
// imports its accounts. It returns the number of accounts imported.
func (s *AccountService) ExchangePublicToken(ctx context.Context, userID uuid.UUID, publicToken string) (int, error) {
	if s.linker == nil {
		return 0, ErrLinkingDisabled
	}
	if strings.TrimSpace(publicToken) == "" {
		return 0, invalid("public_token is required")
	}
	accessToken, itemID, err := s.linker.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return 0, fmt.Errorf("failed to exchange public token: %w", err)
	}
	if err := s.repo.SavePlaidItem(ctx, userID, itemID, accessToken); err != nil {
		return 0, fmt.Errorf("failed to save linked item: %w", err)
	}
	linked, err := s.linker.GetAccounts(ctx, accessToken)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch linked accounts: %w", err)
	}
	if err := s.repo.UpsertLinkedAccounts(ctx, userID, linked); err != nil {
		return 0, fmt.Errorf("failed to save linked accounts: %w", err)
	}
	return len(linked), nil
}

// Sync refreshes balances for every linked item the user has, all or nothing.
func (s *AccountService) Sync(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.linker == nil {
		return 0, ErrLinkingDisabled
	}
	items, err := s.repo.ListPlaidItems(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to load linked items: %w", err)
	}

	var linked []models.LinkedAccount
	for _, item := range items {
		accounts, err := s.linker.GetAccounts(ctx, item.AccessToken)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch accounts for item %s: %w", item.ItemID, err)
		}
		linked = append(linked, accounts...)
	}
	err = s.repo.InTx(ctx, func(tx repository.Repository) error {
		return tx.UpsertLinkedAccounts(ctx, userID, linked)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to save linked accounts: %w", err)
	}
	return len(linked), nil
}
