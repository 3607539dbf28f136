package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"careerpath_portal/apiclient"
	"careerpath_portal/db"
	"careerpath_portal/explore"
	"careerpath_portal/middleware"
	"careerpath_portal/models"
	"careerpath_portal/session"
	"careerpath_portal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountAPI is the profile half of the forum API.
type AccountAPI interface {
	UpdateProfile(ctx context.Context, token string, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, token string, req models.ChangePasswordRequest) (*models.ChangePasswordResponse, error)
}

// Portal is shared by all handlers.
type Portal struct {
	Sessions   *session.Manager
	Pages      *explore.Registry
	Tokens     *middleware.TokenService
	Account    AccountAPI
	Categories *db.CategoryStore
	Logger     *zap.Logger
}

func (p *Portal) page(c *gin.Context) *explore.Page {
	if s, ok := middleware.CurrentSession(c); ok {
		return p.Pages.Open(s.ID, s.Token, s.User)
	}
	return p.Pages.Open("", "", nil)
}

// attach re-attaches an updated session to the request and its page.
func (p *Portal) attach(c *gin.Context, s *session.Session) {
	middleware.SetSession(c, s)
	p.Pages.Open(s.ID, s.Token, s.User)
}

// refresh re-reads the principal at the start of an authenticated page
// load, so role changes show up without logging in again. A 401 ends the
// session and is written as the response; other failures keep the cached
// principal. It reports whether the handler should go on.
func (p *Portal) refresh(c *gin.Context) bool {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return true
	}
	refreshed, err := p.Sessions.Refresh(c.Request.Context(), s)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			p.fail(c, err)
			return false
		}
		p.Logger.Warn("profile refresh failed, using cached user", zap.String("session", s.ID), zap.Error(err))
		return true
	}
	p.attach(c, refreshed)
	return true
}

// fail writes the response for err. A 401 from the forum API ends the
// current session.
func (p *Portal) fail(c *gin.Context, err error) {
	var (
		fields validation.FieldErrors
		apiErr *apiclient.APIError
	)
	switch {
	case errors.As(err, &fields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please correct the highlighted fields", "fields": fields})
	case errors.Is(err, apiclient.ErrUnauthorized):
		if s, ok := middleware.CurrentSession(c); ok {
			p.Sessions.Invalidate(c.Request.Context(), s)
			p.Pages.Drop(s.ID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired. Please login again."})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": apiMessage(apiErr, err, "Invalid credentials")})
	case errors.Is(err, explore.ErrLoginRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please login to continue."})
	case errors.Is(err, apiclient.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, explore.ErrNotPermitted):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, explore.ErrPostNotFound), errors.Is(err, apiclient.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, explore.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	case errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError:
		body := gin.H{"error": apiMessage(apiErr, err, http.StatusText(apiErr.Status))}
		if len(apiErr.Fields) > 0 {
			body["fields"] = apiErr.Fields
		}
		c.JSON(apiErr.Status, body)
	default:
		p.Logger.Error("forum request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not reach the forum. Please try again."})
	}
}

func apiMessage(apiErr *apiclient.APIError, err error, fallback string) string {
	if apiErr != nil || errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return fallback
}

func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}
