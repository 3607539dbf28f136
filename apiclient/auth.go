package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"careerpath_portal/models"
)

const authPath = "/api/auth/"

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, authPath+"login/", "", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("login response carried no token")
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, authPath+"register/", "", nil, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.New("registration response carried no token")
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, authPath+"logout/", token, nil, nil, nil)
}

func (c *Client) Profile(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, authPath+"profile/", token, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile accepts both the wrapped {"user": ...} response and a bare
// user object.
func (c *Client) UpdateProfile(ctx context.Context, token string, req models.UpdateProfileRequest) (*models.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPut, authPath+"profile/", token, nil, req, &raw); err != nil {
		return nil, err
	}
	var wrapped struct {
		User *models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &user, nil
}

// ChangePassword returns the replacement token issued by the API, which may
// be empty.
func (c *Client) ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error) {
	var resp models.ChangePasswordResponse
	if err := c.do(ctx, http.MethodPost, authPath+"change-password/", token, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CheckAuth(ctx context.Context, token string) (*models.CheckAuthResponse, error) {
	var resp models.CheckAuthResponse
	if err := c.do(ctx, http.MethodGet, authPath+"check/", token, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
