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

type ProfileHandler struct {
	*Portal
}

func NewProfileHandler(p *Portal) *ProfileHandler {
	return &ProfileHandler{Portal: p}
}

func (h *ProfileHandler) current(c *gin.Context) (*session.Session, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
	}
	return s, ok
}

// Me re-reads the principal from the forum.
func (h *ProfileHandler) Me(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	refreshed, err := h.Sessions.Refresh(c.Request.Context(), s)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.attach(c, refreshed)
	c.JSON(http.StatusOK, models.MeResponse{User: refreshed.User, Permissions: policy.Permissions(refreshed.User)})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.UpdateProfile(&req); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.Account.UpdateProfile(c.Request.Context(), s.Token, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.Sessions.SetUser(c.Request.Context(), s, user)
	if err != nil {
		h.Logger.Error("error saving session", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	h.attach(c, updated)
	c.JSON(http.StatusOK, models.MeResponse{User: updated.User, Permissions: policy.Permissions(updated.User)})
}

// ChangePassword keeps the session alive by adopting the token the forum
// issues with the new password.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	s, ok := h.current(c)
	if !ok {
		return
	}
	var req models.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.ChangePassword(&req); err != nil {
		h.fail(c, err)
		return
	}

	resp, err := h.Account.ChangePassword(c.Request.Context(), s.Token, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.Sessions.SetToken(c.Request.Context(), s, resp.Token)
	if err != nil {
		h.Logger.Error("error saving session", zap.String("session", s.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	h.attach(c, updated)

	message := resp.Message
	if message == "" {
		message = "Password changed successfully"
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}
