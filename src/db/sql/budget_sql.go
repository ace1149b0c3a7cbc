package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

const budgetColumns = `
	b.id, b.user_id, b.category_id, COALESCE(c.name, ''), COALESCE(c.color, ''), b.amount,
	COALESCE(b.period, 'monthly'), b.start_date, b.end_date, b.is_active, b.created_at`

func scanBudget(row scanner) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.CategoryColor, &b.Amount,
		&b.Period, &b.StartDate, &b.EndDate, &b.IsActive, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func CreateBudget(ctx context.Context, q Querier, budget *models.Budget) (*models.Budget, error) {
	query := `
		WITH b AS (
			INSERT INTO budgets (user_id, category_id, amount, period, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING *
		)
		SELECT ` + budgetColumns + `
		FROM b
		LEFT JOIN categories c ON c.id = b.category_id
	`
	return scanBudget(q.QueryRow(ctx, query, budget.UserID, budget.CategoryID, budget.Amount, budget.Period,
		budget.StartDate, budget.EndDate, budget.IsActive))
}

func GetAllBudgetsForUser(ctx context.Context, q Querier, userID uuid.UUID, activeOnly bool) ([]models.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = $1 AND (NOT $2 OR b.is_active)
		ORDER BY b.created_at DESC
	`
	rows, err := q.Query(ctx, query, userID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}
