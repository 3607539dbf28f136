// Package session keeps the principal of a client: the opaque forum API
// token and the cached user record. A session lives from login or
// registration until logout or the first 401 from the forum API.
package session

import (
	"context"
	"errors"
	"time"

	"careerpath_portal/models"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string       `json:"id" yaml:"id"`
	Token     string       `json:"-" yaml:"token"`
	User      *models.User `json:"user" yaml:"user,omitempty"`
	CreatedAt time.Time    `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" yaml:"updated_at"`
}

// Store persists sessions. Get returns ErrNotFound for unknown or expired
// ids; Delete of an unknown id is not an error.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
