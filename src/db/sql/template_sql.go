package db

import (
	"context"
	"fmt"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

func ListTemplates(ctx context.Context, q Querier) ([]models.Template, error) {
	query := `
		SELECT ` + planColumns + `, COALESCE(p.full_name, '')
		FROM savings_plans sp
		LEFT JOIN profiles p ON p.id = sp.created_by
		WHERE sp.is_template = true
		ORDER BY sp.created_at DESC
	`
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var creator string
		plan, err := scanPlan(rows, &creator)
		if err != nil {
			return nil, err
		}
		templates = append(templates, models.Template{SavingsPlan: *plan, CreatorName: creator})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	ratings, err := ListRatingsForTemplates(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range templates {
		templates[i].Ratings = ratings[templates[i].ID]
	}
	return templates, nil
}

// GetTemplate loads one template with its items and ratings. Plans that are not
// templates are reported as not found.
func GetTemplate(ctx context.Context, q Querier, templateID uuid.UUID) (*models.Template, error) {
	query := `
		SELECT ` + planColumns + `, COALESCE(p.full_name, '')
		FROM savings_plans sp
		LEFT JOIN profiles p ON p.id = sp.created_by
		WHERE sp.id = $1 AND sp.is_template = true
	`
	var creator string
	plan, err := scanPlan(q.QueryRow(ctx, query, templateID), &creator)
	if err != nil {
		return nil, notFound(err)
	}

	items, err := ListSavingsPlanItems(ctx, q, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to load template items: %w", err)
	}
	ratings, err := ListRatingsForTemplates(ctx, q, []uuid.UUID{templateID})
	if err != nil {
		return nil, fmt.Errorf("failed to load template ratings: %w", err)
	}

	return &models.Template{
		SavingsPlan: *plan,
		CreatorName: creator,
		Items:       items,
		Ratings:     ratings[templateID],
	}, nil
}

func ListRatingsForTemplates(ctx context.Context, q Querier, templateIDs []uuid.UUID) (map[uuid.UUID][]models.TemplateRating, error) {
	out := make(map[uuid.UUID][]models.TemplateRating)
	if len(templateIDs) == 0 {
		return out, nil
	}
	ids := make([]string, len(templateIDs))
	for i, id := range templateIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT r.id, r.template_id, r.user_id, r.rating, COALESCE(r.review, ''), COALESCE(p.full_name, ''), r.created_at
		FROM template_ratings r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE r.template_id = ANY($1::uuid[])
		ORDER BY r.created_at DESC
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var r models.TemplateRating
		if err := rows.Scan(&r.ID, &r.TemplateID, &r.UserID, &r.Rating, &r.Review, &r.ReviewerName, &r.CreatedAt); err != nil {
			return nil, err
		}
		out[r.TemplateID] = append(out[r.TemplateID], r)
	}
	return out, rows.Err()
}

// UpsertTemplateRating stores a user's rating, replacing any earlier one for
// the same template.
func UpsertTemplateRating(ctx context.Context, q Querier, rating *models.TemplateRating) (*models.TemplateRating, error) {
	query := `
		INSERT INTO template_ratings (template_id, user_id, rating, review)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (template_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, created_at = now()
		RETURNING id, template_id, user_id, rating, COALESCE(review, ''), created_at
	`
	var r models.TemplateRating
	err := q.QueryRow(ctx, query, rating.TemplateID, rating.UserID, rating.Rating, rating.Review).
		Scan(&r.ID, &r.TemplateID, &r.UserID, &r.Rating, &r.Review, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetTemplatePurchase returns the buyer's earliest purchase of a template.
func GetTemplatePurchase(ctx context.Context, q Querier, buyerID, templateID uuid.UUID) (*models.TemplatePurchase, error) {
	query := `
		SELECT id, buyer_id, template_id, purchase_price, created_at
		FROM template_purchases
		WHERE buyer_id = $1 AND template_id = $2
		ORDER BY created_at
		LIMIT 1
	`
	var p models.TemplatePurchase
	err := q.QueryRow(ctx, query, buyerID, templateID).
		Scan(&p.ID, &p.BuyerID, &p.TemplateID, &p.PurchasePrice, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func CreateTemplatePurchase(ctx context.Context, q Querier, purchase *models.TemplatePurchase) (*models.TemplatePurchase, error) {
	query := `
		INSERT INTO template_purchases (buyer_id, template_id, purchase_price)
		VALUES ($1, $2, $3)
		RETURNING id, buyer_id, template_id, purchase_price, created_at
	`
	var p models.TemplatePurchase
	err := q.QueryRow(ctx, query, purchase.BuyerID, purchase.TemplateID, purchase.PurchasePrice).
		Scan(&p.ID, &p.BuyerID, &p.TemplateID, &p.PurchasePrice, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
