package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"careerpath_portal/models"
)

const postsPath = "/api/posts/"

// ListPosts fetches every post. A category other than "" or "all" is sent
// as the server side facet.
func (c *Client) ListPosts(ctx context.Context, token, category string) ([]models.Post, error) {
	var query url.Values
	if category != "" && category != "all" {
		query = url.Values{"category": {category}}
	}
	var posts []models.Post
	if err := c.do(ctx, http.MethodGet, postsPath, token, query, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, token string, req models.CreatePostRequest) (*models.Post, error) {
	var post models.Post
	if err := c.do(ctx, http.MethodPost, postsPath, token, nil, req, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// LikePost returns the authoritative like count.
func (c *Client) LikePost(ctx context.Context, token string, postID int) (int, error) {
	var resp models.LikeResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s%d/like/", postsPath, postID), token, nil, nil, &resp); err != nil {
		return 0, err
	}
	return resp.Likes, nil
}

func commentsPath(postID int) string {
	return fmt.Sprintf("%s%d/comments/", postsPath, postID)
}

func commentPath(postID, commentID int) string {
	return fmt.Sprintf("%s%d/comments/%d/", postsPath, postID, commentID)
}

func (c *Client) ListComments(ctx context.Context, token string, postID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := c.do(ctx, http.MethodGet, commentsPath(postID), token, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) CreateComment(ctx context.Context, token string, postID int, req models.CommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPost, commentsPath(postID), token, nil, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, token string, postID, commentID int, req models.CommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := c.do(ctx, http.MethodPut, commentPath(postID, commentID), token, nil, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, token string, postID, commentID int) error {
	return c.do(ctx, http.MethodDelete, commentPath(postID, commentID), token, nil, nil, nil)
}

// MyComments lists the comments written by the principal behind token.
func (c *Client) MyComments(ctx context.Context, token string) ([]models.UserComment, error) {
	comments := []models.UserComment{}
	if err := c.do(ctx, http.MethodGet, postsPath+"my-comments/", token, nil, nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
