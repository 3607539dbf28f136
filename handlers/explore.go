package handlers

import (
	"net/http"
	"strings"

	"careerpath_portal/filter"
	"careerpath_portal/models"

	"github.com/gin-gonic/gin"
)

type ExploreHandler struct {
	*Portal
}

func NewExploreHandler(p *Portal) *ExploreHandler {
	return &ExploreHandler{Portal: p}
}

// Explore is a page load: the cache is refetched, then filtered.
func (h *ExploreHandler) Explore(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	category := c.DefaultQuery("category", filter.AllCategories)

	if !h.refresh(c) {
		return
	}
	page := h.page(c)
	if err := page.Load(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}

	results := page.Results(query, category)
	cards := make([]models.PostCard, 0, len(results))
	for _, post := range results {
		cards = append(cards, postCard(post))
	}
	c.JSON(http.StatusOK, models.ExploreResponse{
		Query:    query,
		Category: category,
		Count:    len(cards),
		Posts:    cards,
	})
}

func (h *ExploreHandler) GetPost(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok || !h.refresh(c) {
		return
	}
	page := h.page(c)
	if err := page.Ensure(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	post, err := page.Post(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, postDetail(page.User(), post))
}

func (h *ExploreHandler) LikePost(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	likes, err := h.page(c).Like(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LikeResponse{Likes: likes})
}

func (h *ExploreHandler) SubmitJourney(c *gin.Context) {
	var req models.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.page(c).SubmitJourney(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *ExploreHandler) Dashboard(c *gin.Context) {
	if !h.refresh(c) {
		return
	}
	dash, err := h.page(c).Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
