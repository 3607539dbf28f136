package explore

import (
	"context"
	"errors"
	"strings"

	"careerpath_portal/apiclient"
	"careerpath_portal/models"
	"careerpath_portal/policy"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard gathers the principal's own posts and comments. Posts and the
// my-comments listing are fetched concurrently and fail independently: a
// failed half is reported in the response while the other half is still
// shown. When the listing fails, comments are collected from the posts
// instead. A 401 from either call ends the dashboard.
func (p *Page) Dashboard(ctx context.Context) (*models.DashboardResponse, error) {
	token, user := p.principal()
	if user == nil {
		return nil, ErrLoginRequired
	}

	var (
		comments    []models.UserComment
		postsErr    error
		commentsErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		if err := p.Load(ctx); err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return err
			}
			postsErr = err
		}
		return nil
	})
	g.Go(func() error {
		list, err := p.api.MyComments(ctx, token)
		if err != nil {
			if errors.Is(err, apiclient.ErrUnauthorized) {
				return err
			}
			commentsErr = err
			return nil
		}
		comments = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if postsErr != nil && commentsErr != nil {
		return nil, postsErr
	}

	dash := &models.DashboardResponse{
		User:        user,
		Permissions: policy.Permissions(user),
	}

	posts := p.Posts()
	if postsErr != nil {
		p.logger.Warn("dashboard posts unavailable", zap.Error(postsErr))
		dash.PostsError = "Could not load your journeys."
	}
	if commentsErr != nil {
		if postsErr == nil || p.Loaded() {
			p.logger.Info("my-comments unavailable, scanning posts", zap.Error(commentsErr))
			comments = CommentsBy(posts, user.Username)
		} else {
			dash.CommentsError = "Could not load your comments."
		}
	}
	if comments == nil {
		comments = []models.UserComment{}
	}

	mine := []models.Post{}
	if policy.CanPostJourney(user) {
		mine = PostsBy(posts, user)
	}

	dash.Posts = mine
	dash.Comments = comments
	dash.Stats = models.DashboardStats{Posts: len(mine), Comments: len(comments)}
	for _, post := range mine {
		dash.Stats.TotalLikes += post.Likes
	}
	return dash, nil
}

// PostsBy returns the posts owned by u: by user id when the post carries
// one, otherwise by author name equal to the username.
func PostsBy(posts []models.Post, u *models.User) []models.Post {
	out := []models.Post{}
	if u == nil {
		return out
	}
	for _, post := range posts {
		if post.UserID != nil && *post.UserID == u.ID {
			out = append(out, post)
			continue
		}
		if post.Name != "" && strings.EqualFold(post.Name, u.Username) {
			out = append(out, post)
		}
	}
	return out
}

// CommentsBy collects the comments written under username across posts.
func CommentsBy(posts []models.Post, username string) []models.UserComment {
	out := []models.UserComment{}
	if username == "" {
		return out
	}
	for _, post := range posts {
		for _, c := range post.Comments {
			if c.AuthorName == "" || !strings.EqualFold(c.AuthorName, username) {
				continue
			}
			c.PostID = post.ID
			out = append(out, models.UserComment{Comment: c, PostTitle: post.Role, PostAuthor: post.Name})
		}
	}
	return out
}
