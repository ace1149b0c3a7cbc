package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

const goalColumns = `
	id, user_id, name, COALESCE(description, ''), target_amount, current_amount, target_date, status, created_at`

func scanGoal(row scanner) (*models.FinancialGoal, error) {
	var g models.FinancialGoal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Description, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.Status, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGoals returns the user's goals, newest first. An empty status matches all,
// limit <= 0 means no limit.
func ListGoals(ctx context.Context, q Querier, userID uuid.UUID, status string, limit int) ([]models.FinancialGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM financial_goals
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT NULLIF($3, 0)
	`
	rows, err := q.Query(ctx, query, userID, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.FinancialGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func CreateGoal(ctx context.Context, q Querier, goal *models.FinancialGoal) (*models.FinancialGoal, error) {
	query := `
		INSERT INTO financial_goals (user_id, name, description, target_amount, current_amount, target_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + goalColumns
	return scanGoal(q.QueryRow(ctx, query, goal.UserID, goal.Name, goal.Description, goal.TargetAmount,
		goal.CurrentAmount, goal.TargetDate, goal.Status))
}
