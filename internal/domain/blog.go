package domain

import (
	"context"
	"time"

	"github.com/simp-lee/pagination"
)

// BlogPost is an article. Slug is derived from Title when left empty and is
// unique across posts. PublishedAt is set the first time Published becomes true.
type BlogPost struct {
	OrderedModel
	Title         string     `gorm:"size:300;not null" json:"title" binding:"required,max=300"`
	Slug          string     `gorm:"size:320;uniqueIndex;not null" json:"slug" binding:"omitempty,max=320"`
	Excerpt       string     `gorm:"size:1000" json:"excerpt" binding:"max=1000"`
	Content       string     `gorm:"type:text;not null" json:"content" binding:"required"`
	Category      string     `gorm:"size:100;index" json:"category" binding:"max=100"`
	Tags          []string   `gorm:"serializer:json" json:"tags"`
	CoverImageURL string     `gorm:"size:500" json:"coverImageUrl"`
	Published     bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt   *time.Time `json:"publishedAt,omitempty"`
	Featured      bool       `gorm:"not null;default:false" json:"featured"`
	Views         int64      `gorm:"not null;default:0" json:"views"`
	LikesCount    int64      `gorm:"not null;default:0" json:"likesCount"`
	SharesCount   int64      `gorm:"not null;default:0" json:"sharesCount"`
}

// Comment is a reader comment on a post. Only approved comments are public.
type Comment struct {
	BaseModel
	PostID   string `gorm:"size:36;not null;index" json:"postId"`
	Name     string `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Email    string `gorm:"size:255;not null" json:"email" binding:"required,email"`
	Website  string `gorm:"size:500" json:"website,omitempty" binding:"omitempty,url"`
	Body     string `gorm:"type:text;not null" json:"comment" binding:"required,max=5000"`
	Approved bool   `gorm:"not null;default:false;index" json:"approved"`
}

// PostLike records one pseudo-user's like on a post. The pair is unique, so
// toggling twice returns the post to its original count.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_post_like" json:"postId"`
	UserKey   string    `gorm:"size:64;not null;uniqueIndex:idx_post_like" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeResult is the authoritative state returned by a like toggle.
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likesCount"`
}

// ShareResult is returned after a share is recorded.
type ShareResult struct {
	SharesCount int64 `json:"sharesCount"`
}

// BlogRepository holds the post queries that go beyond the shared collection
// contract.
type BlogRepository interface {
	GetBySlug(ctx context.Context, slug string) (*BlogPost, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	MarkPublished(ctx context.Context, id string, at time.Time) error
	IncrementViews(ctx context.Context, id string) error
	ToggleLike(ctx context.Context, postID, userKey string) (*LikeResult, error)
	IncrementShares(ctx context.Context, postID string) (*ShareResult, error)
	DeletePost(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID string, approvedOnly bool) ([]Comment, error)
	ListAllComments(ctx context.Context, req PageRequest) (*pagination.Pagination[Comment], error)
	SetCommentApproved(ctx context.Context, id string, approved bool) (*Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// BlogService is the post collection plus reader interactions and comment
// moderation.
type BlogService interface {
	CollectionService[BlogPost]

	// GetPublishedBySlug returns a published post and counts one view.
	GetPublishedBySlug(ctx context.Context, slug string) (*BlogPost, error)
	ToggleLike(ctx context.Context, postID, userID string) (*LikeResult, error)
	Share(ctx context.Context, postID string) (*ShareResult, error)

	AddComment(ctx context.Context, postID string, comment *Comment) (*Comment, error)
	// ApprovedComments returns the approved comments of a published post.
	ApprovedComments(ctx context.Context, postID string) ([]Comment, error)
	ListComments(ctx context.Context, req PageRequest) (*pagination.Pagination[Comment], error)
	ModerateComment(ctx context.Context, id string, approved bool) (*Comment, error)
	DeleteComment(ctx context.Context, id string) error
}
