package db

import (
	"context"
	"fmt"
	"moneywise-server/src/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func ListTransactions(ctx context.Context, q Querier, userID uuid.UUID, filter models.TransactionFilter) ([]models.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.user_id, t.account_id, t.category_id, COALESCE(c.name, ''), COALESCE(c.color, ''),
			t.type, t.amount, COALESCE(t.description, ''), t.date, t.created_at
		FROM transactions t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1`)
	args := []interface{}{userID}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, " AND t.date >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&sb, " AND t.date < $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND t.type = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		fmt.Fprintf(&sb, " AND t.category_id = $%d", len(args))
	}
	sb.WriteString(" ORDER BY t.date DESC, t.created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.CategoryName, &t.CategoryColor,
			&t.Type, &t.Amount, &t.Description, &t.Date, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func CreateTransaction(ctx context.Context, q Querier, txn *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, account_id, category_id, type, amount, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, account_id, category_id, type, amount, COALESCE(description, ''), date, created_at
	`
	var t models.Transaction
	err := q.QueryRow(ctx, query, txn.UserID, txn.AccountID, txn.CategoryID, txn.Type, txn.Amount, txn.Description, txn.Date).
		Scan(&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Type, &t.Amount, &t.Description, &t.Date, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SumExpenses totals expense transactions in a category between from and to,
// both inclusive.
func SumExpenses(ctx context.Context, q Querier, userID uuid.UUID, categoryID int64, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'expense' AND date >= $3 AND date <= $4
	`
	var total decimal.Decimal
	err := q.QueryRow(ctx, query, userID, categoryID, from, to).Scan(&total)
	return total, err
}
