package handlers

import (
	"net/http"

	"careerpath_portal/explore"
	"careerpath_portal/models"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	*Portal
}

func NewCommentHandler(p *Portal) *CommentHandler {
	return &CommentHandler{Portal: p}
}

type commentsResponse struct {
	Message       string               `json:"message"`
	Comments      []models.CommentView `json:"comments"`
	CommentsCount int                  `json:"comments_count"`
}

func (h *CommentHandler) respond(c *gin.Context, page *explore.Page, status int, message string, comments []models.Comment) {
	views := commentViews(page.User(), comments)
	c.JSON(status, commentsResponse{Message: message, Comments: views, CommentsCount: len(views)})
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	postID, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	page := h.page(c)
	comments, err := page.AddComment(c.Request.Context(), postID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, page, http.StatusCreated, "Comment posted!", comments)
}

func (h *CommentHandler) UpdateComment(c *gin.Context) {
	postID, ok := intParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := intParam(c, "commentId")
	if !ok {
		return
	}
	var req models.CommentRequest
	if !bindJSON(c, &req) {
		return
	}

	page := h.page(c)
	if err := page.Ensure(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	comments, err := page.EditComment(c.Request.Context(), postID, commentID, req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, page, http.StatusOK, "Comment updated!", comments)
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	postID, ok := intParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := intParam(c, "commentId")
	if !ok {
		return
	}

	page := h.page(c)
	if err := page.Ensure(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	comments, err := page.DeleteComment(c.Request.Context(), postID, commentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respond(c, page, http.StatusOK, "Comment deleted.", comments)
}
