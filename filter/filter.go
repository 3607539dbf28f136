// Package filter narrows a list of journey posts by free-text query and
// category facet.
package filter

import (
	"strings"

	"careerpath_portal/models"
)

// AllCategories disables the category facet.
const AllCategories = "all"

// Filter returns the posts that satisfy both the category facet and the
// text query, in their original order. The input slice is never modified.
//
// The facet is an exact, case-sensitive match on the post category; an
// empty facet or AllCategories keeps every post. The query is trimmed and
// matched case-insensitively as a substring of the author name, role,
// company, experience or any single skill. An empty query matches all.
func Filter(posts []models.Post, query, category string) []models.Post {
	q := normalizeQuery(query)
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if MatchesCategory(p, category) && MatchesQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Count is the size of Filter(posts, query, category).
func Count(posts []models.Post, query, category string) int {
	q := normalizeQuery(query)
	n := 0
	for _, p := range posts {
		if MatchesCategory(p, category) && MatchesQuery(p, q) {
			n++
		}
	}
	return n
}

// MatchesCategory reports whether p passes the category facet.
func MatchesCategory(p models.Post, category string) bool {
	if category == "" || category == AllCategories {
		return true
	}
	return p.Category == category
}

// MatchesQuery reports whether p contains q. q must already be lower-cased
// and trimmed; use Filter for raw input.
func MatchesQuery(p models.Post, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{p.Name, p.Role, p.Company, p.Experience} {
		if contains(field, q) {
			return true
		}
	}
	for _, skill := range Skills(p) {
		if contains(skill, q) {
			return true
		}
	}
	return false
}

// Skills returns the structured skill list when present, otherwise the
// comma separated source field split and trimmed, with empty entries
// dropped.
func Skills(p models.Post) []string {
	if len(p.SkillsList) > 0 {
		return p.SkillsList
	}
	if strings.TrimSpace(p.Skills) == "" {
		return nil
	}
	var skills []string
	for _, s := range strings.Split(p.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(strings.ToLower(field), q)
}
