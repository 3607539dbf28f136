// Package explore holds the post cache of a page load and the operations
// that read and mutate it.
package explore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"careerpath_portal/filter"
	"careerpath_portal/models"
	"careerpath_portal/policy"
	"careerpath_portal/validation"

	"go.uber.org/zap"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrLoginRequired   = errors.New("please login to continue")
	ErrNotPermitted    = errors.New("permission denied")
)

// Upstream is the posts half of the forum API.
type Upstream interface {
	ListPosts(ctx context.Context, token, category string) ([]models.Post, error)
	CreatePost(ctx context.Context, token string, req models.CreatePostRequest) (*models.Post, error)
	LikePost(ctx context.Context, token string, postID int) (int, error)
	ListComments(ctx context.Context, token string, postID int) ([]models.Comment, error)
	CreateComment(ctx context.Context, token string, postID int, req models.CommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, token string, postID, commentID int, req models.CommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, token string, postID, commentID int) error
	MyComments(ctx context.Context, token string) ([]models.UserComment, error)
}

// Page is the read-only copy of the forum posts seen by one principal.
// Responses are applied in arrival order; when two requests overlap the
// later response wins.
type Page struct {
	api    Upstream
	logger *zap.Logger

	mu     sync.RWMutex
	token  string
	user   *models.User
	posts  []models.Post
	loaded bool
}

func NewPage(api Upstream, token string, user *models.User, logger *zap.Logger) *Page {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Page{api: api, token: token, user: user, logger: logger}
}

// SetPrincipal swaps the credentials used for subsequent calls.
func (p *Page) SetPrincipal(token string, user *models.User) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.user = user
}

func (p *Page) principal() (string, *models.User) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token, p.user
}

func (p *Page) User() *models.User {
	_, u := p.principal()
	return u
}

// Load replaces the cache with a fresh copy of every post.
func (p *Page) Load(ctx context.Context) error {
	token, _ := p.principal()
	posts, err := p.api.ListPosts(ctx, token, "")
	if err != nil {
		return fmt.Errorf("error fetching posts: %w", err)
	}
	// The count always follows the list; a missing list is an empty one.
	for i := range posts {
		if posts[i].Comments == nil {
			posts[i].Comments = []models.Comment{}
		}
		posts[i].CommentsCount = len(posts[i].Comments)
	}

	p.mu.Lock()
	p.posts = posts
	p.loaded = true
	p.mu.Unlock()

	p.logger.Debug("posts loaded", zap.Int("count", len(posts)))
	return nil
}

// Ensure loads the cache unless an earlier Load succeeded.
func (p *Page) Ensure(ctx context.Context) error {
	if p.Loaded() {
		return nil
	}
	return p.Load(ctx)
}

func (p *Page) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

func (p *Page) Posts() []models.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.posts)
}

// Results runs the filter over the cached posts.
func (p *Page) Results(query, category string) []models.Post {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return filter.Filter(p.posts, query, category)
}

// Post returns a copy of the cached post with the given id.
func (p *Page) Post(id int) (models.Post, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.index(id)
	if i < 0 {
		return models.Post{}, ErrPostNotFound
	}
	post := p.posts[i]
	post.Comments = slices.Clone(post.Comments)
	return post, nil
}

// index must be called with mu held.
func (p *Page) index(id int) int {
	return slices.IndexFunc(p.posts, func(post models.Post) bool { return post.ID == id })
}

func (p *Page) comment(postID, commentID int) (models.Comment, error) {
	post, err := p.Post(postID)
	if err != nil {
		return models.Comment{}, err
	}
	i := slices.IndexFunc(post.Comments, func(c models.Comment) bool { return c.ID == commentID })
	if i < 0 {
		return models.Comment{}, ErrCommentNotFound
	}
	return post.Comments[i], nil
}

// Like records a like and stores the count the server answers with. The
// cached count is never incremented locally.
func (p *Page) Like(ctx context.Context, postID int) (int, error) {
	token, _ := p.principal()
	likes, err := p.api.LikePost(ctx, token, postID)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	if i := p.index(postID); i >= 0 {
		p.posts[i].Likes = likes
	}
	p.mu.Unlock()
	return likes, nil
}

// AddComment posts a comment as the current principal and returns the
// refetched comment list.
func (p *Page) AddComment(ctx context.Context, postID int, content string) ([]models.Comment, error) {
	token, user := p.principal()
	if user == nil {
		return nil, ErrLoginRequired
	}
	req := models.CommentRequest{AuthorRole: policy.CommentRole(user), Content: content}
	if err := validation.Comment(&req); err != nil {
		return nil, err
	}
	if _, err := p.api.CreateComment(ctx, token, postID, req); err != nil {
		return nil, err
	}
	return p.RefreshComments(ctx, postID)
}

func (p *Page) EditComment(ctx context.Context, postID, commentID int, content string) ([]models.Comment, error) {
	token, user := p.principal()
	if user == nil {
		return nil, ErrLoginRequired
	}
	c, err := p.comment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditComment(user, c) {
		return nil, fmt.Errorf("you can only edit your own comments: %w", ErrNotPermitted)
	}
	req := models.CommentRequest{AuthorRole: policy.CommentRole(user), Content: content}
	if err := validation.Comment(&req); err != nil {
		return nil, err
	}
	if _, err := p.api.UpdateComment(ctx, token, postID, commentID, req); err != nil {
		return nil, err
	}
	return p.RefreshComments(ctx, postID)
}

func (p *Page) DeleteComment(ctx context.Context, postID, commentID int) ([]models.Comment, error) {
	token, user := p.principal()
	if user == nil {
		return nil, ErrLoginRequired
	}
	c, err := p.comment(postID, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDeleteComment(user, c) {
		return nil, ErrNotPermitted
	}
	if err := p.api.DeleteComment(ctx, token, postID, commentID); err != nil {
		return nil, err
	}
	return p.RefreshComments(ctx, postID)
}

// RefreshComments replaces the cached comments of a post with the server's
// list and derives the count from it.
func (p *Page) RefreshComments(ctx context.Context, postID int) ([]models.Comment, error) {
	token, _ := p.principal()
	comments, err := p.api.ListComments(ctx, token, postID)
	if err != nil {
		return nil, fmt.Errorf("error fetching comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	p.mu.Lock()
	if i := p.index(postID); i >= 0 {
		p.posts[i].Comments = comments
		p.posts[i].CommentsCount = len(comments)
	}
	p.mu.Unlock()
	return slices.Clone(comments), nil
}

// SubmitJourney creates a career journey post and reloads the cache.
func (p *Page) SubmitJourney(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	token, user := p.principal()
	if user == nil {
		return nil, ErrLoginRequired
	}
	if !policy.CanPostJourney(user) {
		return nil, fmt.Errorf("only alumni and admins can post career journeys: %w", ErrNotPermitted)
	}
	if err := validation.JourneyPost(&req); err != nil {
		return nil, err
	}
	post, err := p.api.CreatePost(ctx, token, req)
	if err != nil {
		return nil, err
	}
	if err := p.Load(ctx); err != nil {
		p.logger.Warn("reload after journey post failed", zap.Int("post", post.ID), zap.Error(err))
	}
	return post, nil
}
