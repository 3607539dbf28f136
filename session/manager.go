package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careerpath_portal/apiclient"
	"careerpath_portal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upstream is the part of the forum API that drives the session lifecycle.
type Upstream interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, token string) (*models.User, error)
}

// Manager moves sessions through their lifecycle:
// unauthenticated -> authenticated (login, registration, validated cache)
// -> unauthenticated (logout, 401, explicit clear).
type Manager struct {
	store  Store
	api    Upstream
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(store Store, api Upstream, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, api: api, logger: logger, now: time.Now}
}

func (m *Manager) Store() Store { return m.store }

func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*Session, error) {
	resp, err := m.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.open(ctx, resp)
}

func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*Session, error) {
	resp, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return m.open(ctx, resp)
}

// open stores a session for resp. A reply without a user record is
// completed from the profile endpoint; without a user no session is kept.
func (m *Manager) open(ctx context.Context, resp *models.AuthResponse) (*Session, error) {
	user := resp.User
	if user == nil {
		profile, err := m.api.Profile(ctx, resp.Token)
		if err != nil {
			return nil, fmt.Errorf("error reading profile after login: %w", err)
		}
		if profile == nil {
			return nil, errors.New("login response carried no user")
		}
		user = profile
	}

	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.Token,
		User:      user,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("session opened", zap.String("session", s.ID), zap.String("username", username(s)))
	return s, nil
}

// Load returns the stored session with the given id.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Refresh re-reads the principal from the profile endpoint. A 401 ends the
// session and the error is returned.
func (m *Manager) Refresh(ctx context.Context, s *Session) (*Session, error) {
	user, err := m.api.Profile(ctx, s.Token)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			m.Invalidate(ctx, s)
		}
		return nil, err
	}
	return m.SetUser(ctx, s, user)
}

// SetUser replaces the cached principal.
func (m *Manager) SetUser(ctx context.Context, s *Session, user *models.User) (*Session, error) {
	next := *s
	next.User = user
	next.UpdatedAt = m.now()
	if err := m.store.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// SetToken replaces the forum API token, e.g. after a password change.
func (m *Manager) SetToken(ctx context.Context, s *Session, token string) (*Session, error) {
	if token == "" {
		return s, nil
	}
	next := *s
	next.Token = token
	next.UpdatedAt = m.now()
	if err := m.store.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Logout tells the forum API and always clears the session locally, even
// when the remote call fails.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if err := m.api.Logout(ctx, s.Token); err != nil {
		m.logger.Warn("forum logout failed", zap.String("session", s.ID), zap.Error(err))
	}
	if err := m.store.Delete(ctx, s.ID); err != nil {
		return fmt.Errorf("error clearing session: %w", err)
	}
	m.logger.Info("session closed", zap.String("session", s.ID), zap.String("username", username(s)))
	return nil
}

// Invalidate drops a session whose token was rejected.
func (m *Manager) Invalidate(ctx context.Context, s *Session) {
	if err := m.store.Delete(ctx, s.ID); err != nil {
		m.logger.Error("failed to clear rejected session", zap.String("session", s.ID), zap.Error(err))
		return
	}
	m.logger.Info("session invalidated", zap.String("session", s.ID), zap.String("username", username(s)))
}

func username(s *Session) string {
	if s.User == nil {
		return ""
	}
	return s.User.Username
}
