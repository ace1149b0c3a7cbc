package db

import (
	"context"
	"fmt"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

const planColumns = `
	sp.id, sp.user_id, sp.created_by, sp.title, COALESCE(sp.description, ''),
	sp.target_amount, sp.current_amount, sp.target_date, COALESCE(sp.category, ''),
	COALESCE(sp.priority, ''), sp.status, sp.is_template, sp.template_price, sp.created_at`

func scanPlan(row scanner, extra ...interface{}) (*models.SavingsPlan, error) {
	var p models.SavingsPlan
	dest := []interface{}{
		&p.ID, &p.UserID, &p.CreatedBy, &p.Title, &p.Description,
		&p.TargetAmount, &p.CurrentAmount, &p.TargetDate, &p.Category,
		&p.Priority, &p.Status, &p.IsTemplate, &p.TemplatePrice, &p.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func CreateSavingsPlan(ctx context.Context, q Querier, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	query := `
		INSERT INTO savings_plans AS sp (user_id, created_by, title, description, target_amount, current_amount,
			target_date, category, priority, status, is_template, template_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, 0)
		RETURNING ` + planColumns
	status := plan.Status
	if status == "" {
		status = models.PlanStatusActive
	}
	p, err := scanPlan(q.QueryRow(ctx, query,
		plan.UserID, plan.CreatedBy, plan.Title, plan.Description, plan.TargetAmount, plan.CurrentAmount,
		plan.TargetDate, plan.Category, plan.Priority, status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create savings plan: %w", err)
	}
	return p, nil
}

func CreateSavingsPlanItems(ctx context.Context, q Querier, planID uuid.UUID, items []models.SavingsPlanItem) ([]models.SavingsPlanItem, error) {
	query := `
		INSERT INTO savings_plan_items (plan_id, title, amount, notes, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, plan_id, title, amount, COALESCE(notes, ''), due_date, created_at
	`
	created := make([]models.SavingsPlanItem, 0, len(items))
	for _, item := range items {
		var it models.SavingsPlanItem
		err := q.QueryRow(ctx, query, planID, item.Title, item.Amount, item.Notes, item.DueDate).
			Scan(&it.ID, &it.PlanID, &it.Title, &it.Amount, &it.Notes, &it.DueDate, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create savings plan item %q: %w", item.Title, err)
		}
		created = append(created, it)
	}
	return created, nil
}

func GetSavingsPlan(ctx context.Context, q Querier, userID, planID uuid.UUID) (*models.SavingsPlan, error) {
	query := `SELECT ` + planColumns + ` FROM savings_plans sp WHERE sp.id = $1 AND sp.user_id = $2 AND NOT sp.is_template`
	p, err := scanPlan(q.QueryRow(ctx, query, planID, userID))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ListSavingsPlans returns the user's own plans, newest first. Published
// templates are excluded. An empty status
// matches every plan.
func ListSavingsPlans(ctx context.Context, q Querier, userID uuid.UUID, status string) ([]models.SavingsPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM savings_plans sp
		WHERE sp.user_id = $1 AND NOT sp.is_template AND ($2 = '' OR sp.status = $2)
		ORDER BY sp.created_at DESC
	`
	rows, err := q.Query(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []models.SavingsPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func ListSavingsPlanItems(ctx context.Context, q Querier, planID uuid.UUID) ([]models.SavingsPlanItem, error) {
	query := `
		SELECT id, plan_id, title, amount, COALESCE(notes, ''), due_date, created_at
		FROM savings_plan_items
		WHERE plan_id = $1
		ORDER BY created_at, id
	`
	rows, err := q.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.SavingsPlanItem
	for rows.Next() {
		var it models.SavingsPlanItem
		if err := rows.Scan(&it.ID, &it.PlanID, &it.Title, &it.Amount, &it.Notes, &it.DueDate, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateTemplatePlan inserts a marketplace template. Templates never show up
// among the owner's own plans.
func CreateTemplatePlan(ctx context.Context, q Querier, plan *models.SavingsPlan) (*models.SavingsPlan, error) {
	query := `
		INSERT INTO savings_plans AS sp (user_id, created_by, title, description, target_amount, current_amount,
			target_date, category, priority, status, is_template, template_price)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, true, $10)
		RETURNING ` + planColumns
	status := plan.Status
	if status == "" {
		status = models.PlanStatusActive
	}
	p, err := scanPlan(q.QueryRow(ctx, query,
		plan.UserID, plan.CreatedBy, plan.Title, plan.Description, plan.TargetAmount,
		plan.TargetDate, plan.Category, plan.Priority, status, plan.TemplatePrice,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return p, nil
}
