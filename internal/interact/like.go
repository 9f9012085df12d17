package interact

import (
	"context"
	"sync"

	"github.com/simp-lee/folio/internal/domain"
)

// Liker toggles the like of one user on a post.
type Liker interface {
	ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error)
}

// IDSource provides the pseudo-user ID.
type IDSource interface {
	ID() (string, error)
}

// LikeToggle is the like button of one post. It shows exactly what the
// server last answered.
type LikeToggle struct {
	remote Liker
	user   IDSource
	postID string

	mu    sync.Mutex
	state domain.LikeResult
}

// NewLikeToggle starts from the post's current count, not liked.
func NewLikeToggle(remote Liker, user IDSource, postID string, likes int64) *LikeToggle {
	return &LikeToggle{remote: remote, user: user, postID: postID, state: domain.LikeResult{LikesCount: likes}}
}

// State returns the displayed liked flag and count.
func (l *LikeToggle) State() domain.LikeResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Toggle flips the like. On error the displayed state is unchanged.
func (l *LikeToggle) Toggle(ctx context.Context) (domain.LikeResult, error) {
	userID, err := l.user.ID()
	if err != nil {
		return l.State(), err
	}
	res, err := l.remote.ToggleLike(ctx, l.postID, userID)
	if err != nil {
		return l.State(), err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = *res
	return l.state, nil
}
