package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

func GetPlaidItemsSQL(ctx context.Context, q Querier, userID uuid.UUID) ([]models.PlaidItem, error) {
	query := `SELECT id, user_id, access_token, item_id, created_at FROM plaid_items WHERE user_id = $1`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.PlaidItem
	for rows.Next() {
		var item models.PlaidItem
		err := rows.Scan(&item.ID, &item.UserID, &item.AccessToken, &item.ItemID, &item.CreatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func SavePlaidItem(ctx context.Context, q Querier, userID uuid.UUID, itemID string, accessToken string) error {
	query := `
		INSERT INTO plaid_items (user_id, item_id, access_token)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO UPDATE SET access_token = EXCLUDED.access_token
	`

	_, err := q.Exec(ctx, query, userID, itemID, accessToken)
	return err
}

// UpsertLinkedAccounts stores provider accounts for the user, refreshing the
// balance of accounts that were linked before.
func UpsertLinkedAccounts(ctx context.Context, q Querier, userID uuid.UUID, accounts []models.LinkedAccount) error {
	for _, acc := range accounts {
		query := `
			INSERT INTO accounts (user_id, name, type, balance, currency, is_active, plaid_account_id)
			VALUES ($1, $2, $3, $4, $5, true, $6)
			ON CONFLICT (plaid_account_id) DO UPDATE SET
				name = EXCLUDED.name,
				balance = EXCLUDED.balance,
				currency = EXCLUDED.currency
		`

		_, err := q.Exec(ctx, query,
			userID,
			acc.Name,
			acc.Type,
			acc.Balance,
			acc.Currency,
			acc.ProviderAccountID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
