package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careerpath_portal/models"
)

// PGStore keeps sessions in the portal_sessions table. Rows older than ttl
// are treated as absent.
type PGStore struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPGStore(db *sql.DB, ttl time.Duration) *PGStore {
	return &PGStore{db: db, ttl: ttl}
}

func (s *PGStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess     Session
		userData []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, token, user_data, created_at, updated_at
		FROM portal_sessions
		WHERE id = $1 AND expires_at > NOW()
	`, id).Scan(&sess.ID, &sess.Token, &userData, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if len(userData) > 0 {
		var user models.User
		if err := json.Unmarshal(userData, &user); err != nil {
			return nil, fmt.Errorf("error decoding session user: %w", err)
		}
		sess.User = &user
	}
	return &sess, nil
}

func (s *PGStore) Save(ctx context.Context, sess *Session) error {
	var userData sql.NullString
	if sess.User != nil {
		data, err := json.Marshal(sess.User)
		if err != nil {
			return fmt.Errorf("error encoding session user: %w", err)
		}
		userData = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO portal_sessions (id, token, user_data, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET token = EXCLUDED.token,
		    user_data = EXCLUDED.user_data,
		    updated_at = EXCLUDED.updated_at,
		    expires_at = EXCLUDED.expires_at
	`, sess.ID, sess.Token, userData, sess.CreatedAt, sess.UpdatedAt, sess.UpdatedAt.Add(s.ttl))
	if err != nil {
		return fmt.Errorf("error saving session: %w", err)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("error deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes rows past their expiry and reports how many went.
func (s *PGStore) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM portal_sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}
