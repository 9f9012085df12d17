package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/simp-lee/folio/internal/domain"
)

// CommentInput is a reader comment. Website is optional.
type CommentInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Website string `json:"website,omitempty" validate:"omitempty,url"`
	Comment string `json:"comment" validate:"required,max=5000"`
}

// Comment is an approved comment as the public API returns it.
type Comment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

func postPath(postID, action string) string {
	return "/posts/" + url.PathEscape(postID) + "/" + action
}

// PostBySlug returns a published post. Each call counts as one view.
func (c *Client) PostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := c.do(ctx, http.MethodGet, "/posts/slug/"+url.PathEscape(slug), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ToggleLike flips the like of userID on a post.
func (c *Client) ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error) {
	var res domain.LikeResult
	if err := c.do(ctx, http.MethodPost, postPath(postID, "like"), map[string]string{"userId": userID}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Share counts one share of a post.
func (c *Client) Share(ctx context.Context, postID string) (*domain.ShareResult, error) {
	var res domain.ShareResult
	if err := c.do(ctx, http.MethodPost, postPath(postID, "share"), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddComment submits a comment. It stays hidden until an admin approves it.
func (c *Client) AddComment(ctx context.Context, postID string, in CommentInput) error {
	return c.do(ctx, http.MethodPost, postPath(postID, "comments"), in, nil)
}

// Comments returns the approved comments of a post.
func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, postPath(postID, "comments"), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
