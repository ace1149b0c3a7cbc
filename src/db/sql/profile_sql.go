package db

import (
	"context"
	"moneywise-server/src/models"

	"github.com/google/uuid"
)

func GetProfile(ctx context.Context, q Querier, userID uuid.UUID) (*models.Profile, error) {
	query := `
		SELECT id, COALESCE(full_name, ''), COALESCE(email, ''), created_at
		FROM profiles
		WHERE id = $1
	`
	var p models.Profile
	err := q.QueryRow(ctx, query, userID).Scan(&p.ID, &p.FullName, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func UpsertProfile(ctx context.Context, q Querier, profile *models.Profile) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, full_name, email)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email
		RETURNING id, COALESCE(full_name, ''), COALESCE(email, ''), created_at
	`
	var p models.Profile
	err := q.QueryRow(ctx, query, profile.ID, profile.FullName, profile.Email).
		Scan(&p.ID, &p.FullName, &p.Email, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
