package models

type DashboardStats struct {
	Posts      int `json:"posts"`
	Comments   int `json:"comments"`
	TotalLikes int `json:"total_likes"`
}

type DashboardResponse struct {
	User        *User          `json:"user"`
	Permissions Permissions    `json:"permissions"`
	Posts       []Post         `json:"posts"`
	Comments    []UserComment  `json:"comments"`
	Stats       DashboardStats `json:"stats"`
	// Set when one half could not be loaded; the other half is still filled.
	PostsError    string `json:"posts_error,omitempty"`
	CommentsError string `json:"comments_error,omitempty"`
}
