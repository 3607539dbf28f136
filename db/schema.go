package db

import (
	"context"
	"database/sql"
	"fmt"
)

const Schema = `
-- Portal sessions: one row per logged in browser
CREATE TABLE IF NOT EXISTS portal_sessions (
    id VARCHAR(36) PRIMARY KEY,
    token VARCHAR(255) NOT NULL,
    user_data JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS portal_sessions_expires_at_idx ON portal_sessions (expires_at);

-- Labels for the category facet
CREATE TABLE IF NOT EXISTS journey_categories (
    slug VARCHAR(200) PRIMARY KEY,
    label VARCHAR(255) NOT NULL,
    position INTEGER NOT NULL DEFAULT 0
);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}
	return nil
}
