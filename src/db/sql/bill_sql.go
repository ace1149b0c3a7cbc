package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

func ListBills(ctx context.Context, q Querier, userID uuid.UUID, status string) ([]models.Bill, error) {
	query := `
		SELECT id, user_id, name, amount, due_date, status
		FROM bills
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY due_date NULLS LAST
	`
	rows, err := q.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Status); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}
