package blog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/pkg"
)

var (
	allowedCommentSortFields   = []string{"created_at", "name"}
	allowedCommentFilterFields = []string{"post_id", "approved", "email"}
)

// blogRepository implements domain.BlogRepository using GORM.
type blogRepository struct {
	db *gorm.DB
}

// NewRepository creates a BlogRepository backed by db.
func NewRepository(db *gorm.DB) domain.BlogRepository {
	return &blogRepository{db: db}
}

// GetBySlug returns the published post with the given slug.
func (r *blogRepository) GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	err := r.db.WithContext(ctx).
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &post, nil
}

// SlugTaken reports whether another post already uses slug.
func (r *blogRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.BlogPost{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, pkg.MapDBError(err)
	}
	return n > 0, nil
}

// MarkPublished sets published_at unless the post already has one.
func (r *blogRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&domain.BlogPost{}).
		Where("id = ? AND published_at IS NULL", id).
		UpdateColumn("published_at", at).Error
	return pkg.MapDBError(err)
}

// IncrementViews adds one view without touching updated_at.
func (r *blogRepository) IncrementViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Model(&domain.BlogPost{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	return pkg.MapDBError(err)
}

// ToggleLike adds the like of userKey on a published post, or removes it when
// present, and stores the resulting count. The count is recomputed from the
// like rows, so repeated toggles can never drift.
func (r *blogRepository) ToggleLike(ctx context.Context, postID, userKey string) (*domain.LikeResult, error) {
	var res domain.LikeResult
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := requirePublished(tx, postID); err != nil {
			return err
		}

		var like domain.PostLike
		err := tx.Where("post_id = ? AND user_key = ?", postID, userKey).First(&like).Error
		switch {
		case err == nil:
			if err := tx.Delete(&like).Error; err != nil {
				return err
			}
			res.Liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&domain.PostLike{PostID: postID, UserKey: userKey}).Error; err != nil {
				return err
			}
			res.Liked = true
		default:
			return err
		}

		if err := tx.Model(&domain.PostLike{}).Where("post_id = ?", postID).Count(&res.LikesCount).Error; err != nil {
			return err
		}
		return tx.Model(&domain.BlogPost{}).Where("id = ?", postID).
			UpdateColumn("likes_count", res.LikesCount).Error
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &res, nil
}

// IncrementShares counts one share of a published post.
func (r *blogRepository) IncrementShares(ctx context.Context, postID string) (*domain.ShareResult, error) {
	var res domain.ShareResult
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		result := tx.Model(&domain.BlogPost{}).
			Where("id = ? AND published = ?", postID, true).
			UpdateColumn("shares_count", gorm.Expr("shares_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Model(&domain.BlogPost{}).Where("id = ?", postID).
			Select("shares_count").Row().Scan(&res.SharesCount)
	})
	if err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &res, nil
}

// DeletePost removes a post together with its comments and likes. Either
// all of them go or none does.
func (r *blogRepository) DeletePost(ctx context.Context, id string) error {
	err := pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostLike{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.BlogPost{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	return pkg.MapDBError(err)
}

// CreateComment stores a comment on a published post.
func (r *blogRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	comment.ID = uuid.NewString()
	return pkg.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := requirePublished(tx, comment.PostID); err != nil {
			return pkg.MapDBError(err)
		}
		return pkg.MapDBError(tx.Create(comment).Error)
	})
}

// ListComments returns the comments of a post, oldest first.
func (r *blogRepository) ListComments(ctx context.Context, postID string, approvedOnly bool) ([]domain.Comment, error) {
	q := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if approvedOnly {
		q = q.Where("approved = ?", true)
	}
	var comments []domain.Comment
	if err := q.Order("created_at asc").Order("id asc").Find(&comments).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}

// ListAllComments returns a page of comments across posts for moderation.
func (r *blogRepository) ListAllComments(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.Comment], error) {
	if req.Sort == "" || req.Sort == "sort_order:asc" {
		req.Sort = "created_at:desc"
	}
	base := r.db.WithContext(ctx).Model(&domain.Comment{}).Scopes(
		pkg.Filter(req, allowedCommentFilterFields),
		pkg.Search(req, []string{"name", "body"}),
		pkg.DateRange(req, "created_at"),
	)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}

	var comments []domain.Comment
	if err := base.Scopes(
		pkg.Sort(req, allowedCommentSortFields),
		pkg.Paginate(req),
	).Find(&comments).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return pkg.NewPageResult(comments, total, req), nil
}

// SetCommentApproved approves or hides a comment.
func (r *blogRepository) SetCommentApproved(ctx context.Context, id string, approved bool) (*domain.Comment, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&domain.Comment{}).Where("id = ?", id).Update("approved", approved)
	if result.Error != nil {
		return nil, pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	var comment domain.Comment
	if err := db.First(&comment, "id = ?", id).Error; err != nil {
		return nil, pkg.MapDBError(err)
	}
	return &comment, nil
}

// DeleteComment removes a comment by ID.
func (r *blogRepository) DeleteComment(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Comment{})
	if result.Error != nil {
		return pkg.MapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// requirePublished returns domain.ErrNotFound unless postID is a published post.
func requirePublished(tx *gorm.DB, postID string) error {
	var n int64
	err := tx.Model(&domain.BlogPost{}).
		Where("id = ? AND published = ?", postID, true).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
