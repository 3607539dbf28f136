package models

import "time"

// Post is a career journey as served by the forum API. Skills is the comma
// separated source field; SkillsList wins when set.
type Post struct {
	ID              int       `json:"id"`
	UserID          *int      `json:"user,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email,omitempty"`
	Role            string    `json:"role"`
	Category        string    `json:"category"`
	CategoryDisplay string    `json:"category_display,omitempty"`
	Company         string    `json:"company,omitempty"`
	Experience      string    `json:"experience"`
	Skills          string    `json:"skills,omitempty"`
	SkillsList      []string  `json:"skills_list,omitempty"`
	GraduationYear  *int      `json:"graduation_year,omitempty"`
	LinkedInURL     string    `json:"linkedin_url,omitempty"`
	Likes           int       `json:"likes"`
	CreatedAt       time.Time `json:"created_at"`
	Comments        []Comment `json:"comments"`
	CommentsCount   int       `json:"comments_count"`
}

type CreatePostRequest struct {
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required"`
	Company    string `json:"company"`
	Category   string `json:"category" validate:"required"`
	Skills     string `json:"skills"`
	Experience string `json:"experience" validate:"required,min=20,max=2000"`
}

type LikeResponse struct {
	Likes int `json:"likes"`
}

// PostCard is the condensed form used by list views.
type PostCard struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Company         string   `json:"company,omitempty"`
	Role            string   `json:"role"`
	Category        string   `json:"category"`
	CategoryDisplay string   `json:"category_display"`
	Excerpt         string   `json:"excerpt"`
	Skills          []string `json:"skills"`
	MoreSkills      int      `json:"more_skills"`
	Likes           int      `json:"likes"`
	CommentsCount   int      `json:"comments_count"`
}

type ExploreResponse struct {
	Query    string     `json:"query"`
	Category string     `json:"category"`
	Count    int        `json:"count"`
	Posts    []PostCard `json:"posts"`
}

type PostDetailResponse struct {
	Post            Post          `json:"post"`
	CategoryDisplay string        `json:"category_display"`
	Skills          []string      `json:"skills"`
	Comments        []CommentView `json:"comments"`
	CommentsCount   int           `json:"comments_count"`
	CanComment      bool          `json:"can_comment"`
}
