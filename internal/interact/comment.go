package interact

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/folio/internal/client"
	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

// Commenter submits and lists comments of a post.
type Commenter interface {
	AddComment(ctx context.Context, postID string, in client.CommentInput) error
	Comments(ctx context.Context, postID string) ([]client.Comment, error)
}

// CommentForm is the comment section of one post.
type CommentForm struct {
	remote   Commenter
	postID   string
	validate *validator.Validate
}

func NewCommentForm(remote Commenter, postID string) *CommentForm {
	return &CommentForm{remote: remote, postID: postID, validate: validator.New()}
}

// Submit checks name, email and comment before sending. A stored comment is
// not shown until it is approved.
func (f *CommentForm) Submit(ctx context.Context, in client.CommentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Website = strings.TrimSpace(in.Website)
	in.Comment = strings.TrimSpace(in.Comment)
	if err := f.validate.Struct(in); err != nil {
		if fields := pkg.FieldErrors(err, in); fields != nil {
			return domain.NewValidationError(fields)
		}
		return err
	}
	return f.remote.AddComment(ctx, f.postID, in)
}

// Visible returns the approved comments, oldest first.
func (f *CommentForm) Visible(ctx context.Context) ([]client.Comment, error) {
	all, err := f.remote.Comments(ctx, f.postID)
	if err != nil {
		return nil, err
	}
	approved := make([]client.Comment, 0, len(all))
	for _, c := range all {
		if c.Approved {
			approved = append(approved, c)
		}
	}
	return approved, nil
}
