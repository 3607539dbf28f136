package handlers

import (
	"net/http"

	"careerpath_portal/middleware"
	"careerpath_portal/models"
	"careerpath_portal/policy"
	"careerpath_portal/session"
	"careerpath_portal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	*Portal
}

func NewAuthHandler(p *Portal) *AuthHandler {
	return &AuthHandler{Portal: p}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.Register(&req); err != nil {
		h.fail(c, err)
		return
	}

	s, err := h.Sessions.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, http.StatusCreated, s)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.Login(&req); err != nil {
		h.fail(c, err)
		return
	}

	s, err := h.Sessions.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.issue(c, http.StatusOK, s)
}

func (h *AuthHandler) issue(c *gin.Context, status int, s *session.Session) {
	token, expiresAt, err := h.Tokens.GenerateToken(s.ID)
	if err != nil {
		h.Logger.Error("error generating token", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, models.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        s.User,
		Permissions: policy.Permissions(s.User),
	})
}

// Logout always succeeds locally; the forum logout is best effort.
func (h *AuthHandler) Logout(c *gin.Context) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}
	if err := h.Sessions.Logout(c.Request.Context(), s); err != nil {
		h.Logger.Error("error clearing session", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	h.Pages.Drop(s.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
