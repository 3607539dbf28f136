package models

import "time"

// Comment carries the ownership flags computed by the forum API for the
// requesting principal. They are trusted as-is.
type Comment struct {
	ID         int       `json:"id"`
	PostID     int       `json:"post"`
	UserID     int       `json:"user,omitempty"`
	AuthorName string    `json:"author_name"`
	AuthorRole string    `json:"author_role"`
	Content    string    `json:"content"`
	IsEdited   bool      `json:"is_edited"`
	IsOwner    bool      `json:"is_owner"`
	CanDelete  bool      `json:"can_delete"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommentRequest struct {
	AuthorRole string `json:"author_role"`
	Content    string `json:"content" validate:"required,min=5"`
}

// UserComment is a comment listed on the author's dashboard.
type UserComment struct {
	Comment
	PostTitle  string `json:"post_title,omitempty"`
	PostAuthor string `json:"post_author,omitempty"`
}

type CommentView struct {
	Comment
	AuthorRoleDisplay string `json:"author_role_display"`
	CanEdit           bool   `json:"can_edit"`
	AdminDelete       bool   `json:"admin_delete"`
}
