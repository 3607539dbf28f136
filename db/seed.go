package db

import (
	"context"
	"database/sql"
	"fmt"

	"careerpath_portal/models"

	"github.com/lib/pq"
)

// DefaultCategories are the category facets offered when no database is
// configured, and the rows SeedData writes.
var DefaultCategories = []models.Category{
	{Slug: "software-engineering", Label: "Software Engineering"},
	{Slug: "data-science", Label: "Data Science"},
	{Slug: "product-management", Label: "Product Management"},
	{Slug: "design", Label: "Design"},
	{Slug: "consulting", Label: "Consulting"},
	{Slug: "finance", Label: "Finance"},
	{Slug: "research", Label: "Research"},
	{Slug: "entrepreneurship", Label: "Entrepreneurship"},
	{Slug: "other", Label: "Other"},
}

// SeedData populates the database with initial data
func SeedData(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	slugs := make([]string, len(DefaultCategories))
	labels := make([]string, len(DefaultCategories))
	for i, c := range DefaultCategories {
		slugs[i] = c.Slug
		labels[i] = c.Label
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO journey_categories (slug, label, position)
		SELECT s.slug, s.label, s.position
		FROM unnest($1::text[], $2::text[]) WITH ORDINALITY AS s(slug, label, position)
		ON CONFLICT (slug) DO NOTHING
	`, pq.Array(slugs), pq.Array(labels))
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("error seeding categories: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}
