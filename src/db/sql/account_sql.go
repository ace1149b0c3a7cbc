package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

const accountColumns = `id, user_id, name, type, balance, COALESCE(currency, 'USD'), is_active, plaid_account_id, created_at`

func scanAccount(row scanner) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Currency, &a.IsActive, &a.PlaidAccountID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func ListAccounts(ctx context.Context, q Querier, userID uuid.UUID, activeOnly bool) ([]models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND (NOT $2 OR is_active)
		ORDER BY created_at DESC
	`
	rows, err := q.Query(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

func CreateAccount(ctx context.Context, q Querier, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO accounts (user_id, name, type, balance, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + accountColumns
	return scanAccount(q.QueryRow(ctx, query, account.UserID, account.Name, account.Type, account.Balance,
		account.Currency, account.IsActive))
}
