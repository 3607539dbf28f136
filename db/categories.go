package db

import (
	"context"
	"database/sql"
	"fmt"

	"careerpath_portal/models"
)

// CategoryStore lists the category facets. Without a database it serves
// DefaultCategories.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	if s.db == nil {
		out := make([]models.Category, len(DefaultCategories))
		copy(out, DefaultCategories)
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, label
		FROM journey_categories
		ORDER BY position, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("error fetching categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Slug, &c.Label); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
