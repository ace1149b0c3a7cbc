package db

import (
	"context"
	"moneywise-server/src/models"
)

func ListCategories(ctx context.Context, q Querier) ([]models.Category, error) {
	rows, err := q.Query(ctx, `SELECT id, name, COALESCE(color, '') FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
