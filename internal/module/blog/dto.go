package blog

import (
	"time"

	"github.com/simp-lee/folio/internal/domain"
)

// CommentRequest is the reader comment form.
type CommentRequest struct {
	Name    string `json:"name" form:"name" binding:"required,max=200"`
	Email   string `json:"email" form:"email" binding:"required,email"`
	Website string `json:"website" form:"website" binding:"omitempty,url"`
	Comment string `json:"comment" form:"comment" binding:"required,max=5000"`
}

// LikeRequest carries the pseudo-user ID of the reader.
type LikeRequest struct {
	UserID string `json:"userId" binding:"required,max=64"`
}

// ModerateRequest approves or hides a comment.
type ModerateRequest struct {
	Approved *bool `json:"approved" binding:"required"`
}

// PublicComment is a comment as shown to readers; the e-mail stays private.
type PublicComment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPublicComment(c domain.Comment) PublicComment {
	return PublicComment{
		ID:        c.ID,
		Name:      c.Name,
		Website:   c.Website,
		Comment:   c.Body,
		Approved:  c.Approved,
		CreatedAt: c.CreatedAt,
	}
}

func toPublicComments(comments []domain.Comment) []PublicComment {
	out := make([]PublicComment, len(comments))
	for i, c := range comments {
		out[i] = toPublicComment(c)
	}
	return out
}
