package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"careerpath_portal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, srv.Client(), nil)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8000", nil, nil)
	assert.Error(t, err)
	_, err = New("://", nil, nil)
	assert.Error(t, err)
}

func TestListPosts_SendsTokenAndCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/posts/", r.URL.Path)
		assert.Equal(t, "design", r.URL.Query().Get("category"))
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []models.Post{{ID: 2, Category: "design"}})
	})

	posts, err := c.ListPosts(context.Background(), "abc", "design")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 2, posts[0].ID)
}

func TestListPosts_AnonymousAllCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []models.Post{})
	})

	posts, err := c.ListPosts(context.Background(), "", "all")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCreateComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/posts/7/comments/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req models.CommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alumni", req.AuthorRole)
		writeJSON(w, http.StatusCreated, models.Comment{ID: 3, PostID: 7, Content: req.Content, IsOwner: true})
	})

	comment, err := c.CreateComment(context.Background(), "tok", 7, models.CommentRequest{AuthorRole: "alumni", Content: "Thanks for sharing"})
	require.NoError(t, err)
	assert.Equal(t, 3, comment.ID)
	assert.True(t, comment.IsOwner)
}

func TestDeleteComment_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/posts/7/comments/3/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.DeleteComment(context.Background(), "tok", 7, 3))
}

func TestLikePost(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/5/like/", r.URL.Path)
		writeJSON(w, http.StatusOK, models.LikeResponse{Likes: 12})
	})
	likes, err := c.LikePost(context.Background(), "", 5)
	require.NoError(t, err)
	assert.Equal(t, 12, likes)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Invalid token."}`, ErrUnauthorized, "Invalid token."},
		{"forbidden", http.StatusForbidden, `{"error":"You can only edit your own comments."}`, ErrForbidden, "You can only edit your own comments."},
		{"not found", http.StatusNotFound, `not json`, ErrNotFound, ""},
		{"bad request list", http.StatusBadRequest, `{"error":["Invalid username/email or password."]}`, nil, "Invalid username/email or password."},
		{"server error", http.StatusInternalServerError, ``, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Profile(context.Background(), "tok")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			} else {
				assert.NotErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}

func TestErrorMapping_FieldErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"email":    []string{"A user with this email already exists."},
			"password": []string{"Password fields didn't match."},
		})
	})
	_, err := c.Register(context.Background(), models.RegisterRequest{Username: "asha"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, []string{"A user with this email already exists."}, apiErr.Fields["email"])
	assert.Len(t, apiErr.Fields, 2)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, nil, nil)
	require.NoError(t, err)
	srv.Close()

	_, err = c.ListPosts(context.Background(), "", "")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.AuthResponse{
			Message: "Login successful",
			Token:   "tok-1",
			User:    &models.User{Username: "asha", Role: "alumni"},
		})
	})
	resp, err := c.Login(context.Background(), models.LoginRequest{Username: "asha", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, "alumni", resp.User.Role)
}

func TestLogin_MissingToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	_, err := c.Login(context.Background(), models.LoginRequest{Username: "a", Password: "b"})
	assert.Error(t, err)
}

func TestUpdateProfile_WrappedAndBare(t *testing.T) {
	wrapped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Profile updated successfully",
			"user":    models.User{Username: "asha", Bio: "new"},
		})
	})
	u, err := wrapped.UpdateProfile(context.Background(), "tok", models.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "new", u.Bio)

	bare := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.User{Username: "ben"})
	})
	u, err = bare.UpdateProfile(context.Background(), "tok", models.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ben", u.Username)
}

func TestChangePassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, body["new_password"], body["new_password2"])
		writeJSON(w, http.StatusOK, models.ChangePasswordResponse{Message: "ok", Token: "tok-2"})
	})
	resp, err := c.ChangePassword(context.Background(), "tok", models.ChangePasswordRequest{
		OldPassword: "old-pass", NewPassword: "new-pass-1", NewPassword2: "new-pass-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-2", resp.Token)
}
