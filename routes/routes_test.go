package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"careerpath_portal/apiclient"
	"careerpath_portal/db"
	"careerpath_portal/explore"
	"careerpath_portal/handlers"
	"careerpath_portal/middleware"
	"careerpath_portal/models"
	"careerpath_portal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// forum is a small stand-in for the forum REST API.
type forum struct {
	mu       sync.Mutex
	users    map[string]*models.User // by token
	posts    []models.Post
	comments map[int][]models.Comment
	nextID   int
}

func newForum() *forum {
	ben := 7
	return &forum{
		nextID: 100,
		users: map[string]*models.User{
			"asha-tok": {ID: 3, Username: "asha", Email: "asha@example.org", Role: "student"},
			"ben-tok":  {ID: 7, Username: "ben", Email: "ben@example.org", Role: "alumni"},
		},
		posts: []models.Post{
			{ID: 1, UserID: &ben, Name: "Ben Ode", Role: "Backend Engineer", Company: "Acme", Category: "software-engineering", Experience: "Joined Acme after graduating and grew into platform work over five years.", Skills: "Go, Postgres, Kubernetes, gRPC, Terraform", Likes: 4},
			{ID: 2, Name: "Cara Lim", Role: "Data Analyst", Category: "data-science", CategoryDisplay: "Data Science", Experience: "Started in finance before switching to analytics.", SkillsList: []string{"SQL"}, Likes: 1},
		},
		comments: map[int][]models.Comment{
			1: {{ID: 10, PostID: 1, UserID: 7, AuthorName: "ben", AuthorRole: "alumni", Content: "Happy to answer questions"}},
		},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *forum) principal(r *http.Request) *models.User {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
	return f.users[token]
}

// view sets the ownership flags for u, as the forum does per request.
func view(u *models.User, list []models.Comment) []models.Comment {
	out := make([]models.Comment, len(list))
	for i, c := range list {
		c.IsOwner = u != nil && c.UserID == u.ID
		c.CanDelete = c.IsOwner || (u != nil && u.IsStaff)
		out[i] = c
	}
	return out
}

func (f *forum) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login/{$}", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		token := req.Username + "-tok"
		if u, ok := f.users[token]; ok && req.Password == "secret12" {
			writeJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: u})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]any{"non_field_errors": []string{"Unable to log in with provided credentials."}})
	})
	mux.HandleFunc("POST /api/auth/register/{$}", func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		u := &models.User{ID: f.nextID, Username: req.Username, Email: req.Email, Role: req.Role}
		f.users[req.Username+"-tok"] = u
		writeJSON(w, http.StatusCreated, models.AuthResponse{Message: "User registered successfully", Token: req.Username + "-tok", User: u})
	})
	mux.HandleFunc("POST /api/auth/logout/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	})
	mux.HandleFunc("GET /api/auth/profile/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u := f.principal(r)
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		writeJSON(w, http.StatusOK, u)
	})
	mux.HandleFunc("POST /api/auth/change-password/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Token ")
		u := f.users[token]
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid token."})
			return
		}
		delete(f.users, token)
		f.users[token+"2"] = u
		writeJSON(w, http.StatusOK, models.ChangePasswordResponse{Message: "Password changed successfully", Token: token + "2"})
	})
	mux.HandleFunc("GET /api/posts/{$}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		u := f.principal(r)
		out := make([]models.Post, len(f.posts))
		for i, p := range f.posts {
			p.Comments = view(u, f.comments[p.ID])
			out[i] = p
		}
		writeJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("POST /api/posts/{$}", func(w http.ResponseWriter, r *http.Request) {
		var req models.CreatePostRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		var owner *int
		if u := f.principal(r); u != nil {
			owner = &u.ID
		}
		p := models.Post{ID: f.nextID, UserID: owner, Name: req.Name, Role: req.Role, Category: req.Category, Experience: req.Experience, Skills: req.Skills, CreatedAt: time.Now()}
		f.posts = append(f.posts, p)
		writeJSON(w, http.StatusCreated, p)
	})
	mux.HandleFunc("POST /api/posts/{id}/like/{$}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.posts {
			if f.posts[i].ID == id {
				f.posts[i].Likes += 10
				writeJSON(w, http.StatusOK, models.LikeResponse{Likes: f.posts[i].Likes})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	mux.HandleFunc("GET /api/posts/{id}/comments/{$}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, view(f.principal(r), f.comments[id]))
	})
	mux.HandleFunc("POST /api/posts/{id}/comments/{$}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		var req models.CommentRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		u := f.principal(r)
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		f.nextID++
		c := models.Comment{ID: f.nextID, PostID: id, UserID: u.ID, AuthorName: u.Username, AuthorRole: req.AuthorRole, Content: req.Content}
		f.comments[id] = append(f.comments[id], c)
		writeJSON(w, http.StatusCreated, c)
	})
	mux.HandleFunc("DELETE /api/posts/{id}/comments/{cid}/{$}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		cid, _ := strconv.Atoi(r.PathValue("cid"))
		f.mu.Lock()
		defer f.mu.Unlock()
		f.comments[id] = slices.DeleteFunc(f.comments[id], func(c models.Comment) bool { return c.ID == cid })
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/posts/my-comments/{$}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
	})
	return mux
}

type harness struct {
	forum  *forum
	router http.Handler
	store  *session.MemStore
	tokens *middleware.TokenService
	pages  *explore.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	f := newForum()
	upstream := httptest.NewServer(f.handler())
	t.Cleanup(upstream.Close)

	api, err := apiclient.New(upstream.URL, upstream.Client(), nil)
	require.NoError(t, err)

	store := session.NewMemStore()
	p := &handlers.Portal{
		Sessions:   session.NewManager(store, api, nil),
		Pages:      explore.NewRegistry(api, nil),
		Tokens:     middleware.NewTokenService([]byte("test-secret"), time.Hour),
		Account:    api,
		Categories: db.NewCategoryStore(nil),
		Logger:     zap.NewNop(),
	}
	r := gin.New()
	SetupRoutes(r, p, nil)
	return &harness{forum: f, router: r, store: store, tokens: p.Tokens, pages: p.Pages}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

func (h *harness) login(t *testing.T, username string) string {
	t.Helper()
	status, body := h.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": "secret12"})
	require.Equal(t, http.StatusOK, status, body)
	return body["access_token"].(string)
}

func TestHealthAndCategories(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])

	status, body = h.do(t, http.MethodGet, "/categories", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Len(t, body["categories"], len(db.DefaultCategories))
}

func TestExplore_Anonymous(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/explore?q=ACME", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["count"])
	card := body["posts"].([]any)[0].(map[string]any)
	assert.Equal(t, "Software-engineering", card["category_display"])
	assert.Len(t, card["skills"], 4)
	assert.EqualValues(t, 1, card["more_skills"])
	assert.EqualValues(t, 1, card["comments_count"])

	_, body = h.do(t, http.MethodGet, "/explore?category=data-science", "", nil)
	assert.EqualValues(t, 1, body["count"])

	_, body = h.do(t, http.MethodGet, "/explore?category=Data-Science", "", nil)
	assert.EqualValues(t, 0, body["count"])
	assert.Empty(t, body["posts"])
}

func TestGetPost(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodGet, "/posts/1", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["can_comment"])
	comments := body["comments"].([]any)
	require.Len(t, comments, 1)
	assert.Equal(t, false, comments[0].(map[string]any)["can_edit"])

	status, body = h.do(t, http.MethodGet, "/posts/999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Post not found", body["error"])

	status, _ = h.do(t, http.MethodGet, "/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogin(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/login", "", map[string]string{"username": "asha", "password": "abc"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "password")

	status, body = h.do(t, http.MethodPost, "/login", "", map[string]string{"username": "asha", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unable to log in with provided credentials.", body["error"])

	status, body = h.do(t, http.MethodPost, "/login", "", map[string]string{"username": "ben", "password": "secret12"})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["access_token"])
	perms := body["permissions"].(map[string]any)
	assert.Equal(t, true, perms["can_post_journey"])
	assert.Equal(t, "Alumni", perms["display_role"])
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": "dee", "email": "not-an-email", "password": "longenough", "password2": "different", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password2")
	assert.Contains(t, fields, "role")

	status, body = h.do(t, http.MethodPost, "/register", "", map[string]any{
		"username": "dee", "email": "dee@example.org", "password": "longenough", "password2": "longenough", "role": "Student",
	})
	require.Equal(t, http.StatusCreated, status, body)
	token := body["access_token"].(string)

	status, body = h.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "dee", body["user"].(map[string]any)["username"])
	assert.Equal(t, true, body["permissions"].(map[string]any)["is_student"])
}

func TestCommentLifecycle(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "asha")

	status, body := h.do(t, http.MethodPost, "/posts/1/comments", token, map[string]string{"content": " hey "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "content")

	status, body = h.do(t, http.MethodPost, "/posts/1/comments", token, map[string]string{"content": "How did you prepare for interviews?"})
	require.Equal(t, http.StatusCreated, status, body)
	comments := body["comments"].([]any)
	require.Len(t, comments, 2)
	assert.EqualValues(t, 2, body["comments_count"])
	mine := comments[1].(map[string]any)
	assert.Equal(t, true, mine["can_edit"])
	assert.Equal(t, "student", mine["author_role"])

	// ben's comment may not be touched
	status, _ = h.do(t, http.MethodDelete, "/posts/1/comments/10", token, nil)
	assert.Equal(t, http.StatusForbidden, status)

	id := int(mine["id"].(float64))
	status, body = h.do(t, http.MethodDelete, "/posts/1/comments/"+strconv.Itoa(id), token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.EqualValues(t, 1, body["comments_count"])
	assert.Len(t, body["comments"], 1)

	status, body = h.do(t, http.MethodGet, "/posts/1", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["comments_count"])
	assert.Equal(t, true, body["can_comment"])
}

func TestLike_AuthoritativeCount(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "asha")

	status, _ := h.do(t, http.MethodPost, "/posts/1/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := h.do(t, http.MethodPost, "/posts/1/like", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 14, body["likes"])
}

func TestSubmitJourney(t *testing.T) {
	h := newHarness(t)
	journey := map[string]string{
		"name": "Ben Ode", "role": "Staff Engineer", "category": "software-engineering",
		"experience": "Ten years of backend work across three startups.",
	}

	status, body := h.do(t, http.MethodPost, "/journeys", h.login(t, "asha"), journey)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["error"], "alumni")

	ben := h.login(t, "ben")
	status, body = h.do(t, http.MethodPost, "/journeys", ben, journey)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = h.do(t, http.MethodGet, "/dashboard", ben, nil)
	require.Equal(t, http.StatusOK, status)
	stats := body["stats"].(map[string]any)
	assert.EqualValues(t, 2, stats["posts"])
	assert.EqualValues(t, 4, stats["total_likes"])
	// my-comments is missing upstream, so comments come from the posts
	assert.EqualValues(t, 1, stats["comments"])
}

func TestUpstreamUnauthorizedEndsSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.store.Save(ctx, &session.Session{ID: "stale", Token: "revoked", User: &models.User{Username: "asha", Role: "student"}}))
	token, _, err := h.tokens.GenerateToken("stale")
	require.NoError(t, err)

	status, body := h.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Session expired. Please login again.", body["error"])

	_, err = h.store.Get(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Zero(t, h.pages.Len())

	status, _ = h.do(t, http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChangePasswordKeepsSession(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "asha")

	status, body := h.do(t, http.MethodPost, "/me/password", token, map[string]string{
		"old_password": "secret12", "new_password": "evenlonger", "new_password2": "evenlonger",
	})
	require.Equal(t, http.StatusOK, status, body)

	// the forum revoked the old token; the session carries the new one
	status, _ = h.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "asha")

	status, _ := h.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body := h.do(t, http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Session expired. Please login again.", body["error"])
}

func TestDeletedSessionReleasesPage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		token := h.login(t, "asha")
		status, _ := h.do(t, http.MethodGet, "/explore", token, nil)
		require.Equal(t, http.StatusOK, status)

		claims, err := h.tokens.ParseToken(token)
		require.NoError(t, err)
		require.NoError(t, h.store.Delete(ctx, claims.SessionID))

		status, _ = h.do(t, http.MethodGet, "/dashboard", token, nil)
		require.Equal(t, http.StatusUnauthorized, status)
	}
	assert.Zero(t, h.pages.Len())
}

func TestPageLoadPicksUpRoleChange(t *testing.T) {
	h := newHarness(t)
	token := h.login(t, "asha")

	_, body := h.do(t, http.MethodGet, "/dashboard", token, nil)
	assert.Equal(t, false, body["permissions"].(map[string]any)["can_post_journey"])

	h.forum.mu.Lock()
	h.forum.users["asha-tok"].Role = "alumni"
	h.forum.mu.Unlock()

	status, body := h.do(t, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["permissions"].(map[string]any)["can_post_journey"])

	status, body = h.do(t, http.MethodPost, "/journeys", token, map[string]string{
		"name": "Asha Rao", "role": "Analyst", "category": "data-science",
		"experience": "Switched from a student job to a full time analyst role.",
	})
	assert.Equal(t, http.StatusCreated, status, body)
}
