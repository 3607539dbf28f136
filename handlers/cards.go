package handlers

import (
	"strings"

	"careerpath_portal/filter"
	"careerpath_portal/models"
	"careerpath_portal/policy"
)

const (
	excerptLength = 140
	cardSkills    = 4
)

func categoryDisplay(p models.Post) string {
	if p.CategoryDisplay != "" {
		return p.CategoryDisplay
	}
	return policy.Capitalize(p.Category)
}

func excerpt(text string, n int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n])) + "..."
}

func postCard(p models.Post) models.PostCard {
	skills := filter.Skills(p)
	card := models.PostCard{
		ID:              p.ID,
		Name:            p.Name,
		Company:         p.Company,
		Role:            p.Role,
		Category:        p.Category,
		CategoryDisplay: categoryDisplay(p),
		Excerpt:         excerpt(p.Experience, excerptLength),
		Skills:          []string{},
		Likes:           p.Likes,
		CommentsCount:   len(p.Comments),
	}
	if len(skills) > cardSkills {
		card.Skills = skills[:cardSkills]
		card.MoreSkills = len(skills) - cardSkills
	} else if skills != nil {
		card.Skills = skills
	}
	return card
}

func postDetail(u *models.User, p models.Post) models.PostDetailResponse {
	skills := filter.Skills(p)
	if skills == nil {
		skills = []string{}
	}
	views := commentViews(u, p.Comments)
	return models.PostDetailResponse{
		Post:            p,
		CategoryDisplay: categoryDisplay(p),
		Skills:          skills,
		Comments:        views,
		CommentsCount:   len(views),
		CanComment:      u != nil,
	}
}

func commentViews(u *models.User, comments []models.Comment) []models.CommentView {
	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, policy.CommentView(u, c))
	}
	return views
}
