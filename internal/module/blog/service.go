package blog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ettle/strcase"
	"github.com/google/uuid"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
)

const (
	maxSlugLen      = 200
	maxSlugAttempts = 50
	maxUserKeyLen   = 64
)

// blogService implements domain.BlogService on top of the generic post
// collection service.
type blogService struct {
	domain.CollectionService[domain.BlogPost]
	repo domain.BlogRepository
	now  func() time.Time
}

// NewService creates a BlogService. posts is the generic collection service
// for domain.BlogPost.
func NewService(posts domain.CollectionService[domain.BlogPost], repo domain.BlogRepository) domain.BlogService {
	return &blogService{CollectionService: posts, repo: repo, now: time.Now}
}

// Create derives a unique slug and stamps published_at for posts created as
// published.
func (s *blogService) Create(ctx context.Context, post *domain.BlogPost) (*domain.BlogPost, error) {
	slug, err := s.uniqueSlug(ctx, firstNonBlank(post.Slug, post.Title), "")
	if err != nil {
		return nil, err
	}
	post.Slug = slug
	post.PublishedAt = nil
	if post.Published {
		at := s.now().UTC()
		post.PublishedAt = &at
	}
	return s.CollectionService.Create(ctx, post)
}

// Update keeps the slug unique. Publication state and counters are not
// changed by an update.
func (s *blogService) Update(ctx context.Context, id string, post *domain.BlogPost) (*domain.BlogPost, error) {
	slug, err := s.uniqueSlug(ctx, firstNonBlank(post.Slug, post.Title), id)
	if err != nil {
		return nil, err
	}
	post.Slug = slug
	return s.CollectionService.Update(ctx, id, post)
}

// SetFlag stamps published_at the first time a post is published.
func (s *blogService) SetFlag(ctx context.Context, id, flag string, value bool) (*domain.BlogPost, error) {
	post, err := s.CollectionService.SetFlag(ctx, id, flag, value)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(flag) != "published" || !value || post.PublishedAt != nil {
		return post, nil
	}
	if err := s.repo.MarkPublished(ctx, post.ID, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.CollectionService.Get(ctx, post.ID, false)
}

// Delete removes the post with its comments and likes in one transaction.
func (s *blogService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return postNotFound(err)
	}
	slog.InfoContext(ctx, "post deleted", slog.String("post_id", id))
	return nil
}

func (s *blogService) GetPublishedBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, postNotFound(err)
	}
	if err := s.repo.IncrementViews(ctx, post.ID); err != nil {
		slog.WarnContext(ctx, "count post view failed", slog.String("post_id", post.ID), slog.Any("error", err))
	} else {
		post.Views++
	}
	return post, nil
}

// ToggleLike flips the like of one pseudo-user. The identity is
// self-asserted, so the count is an engagement signal only.
func (s *blogService) ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || utf8.RuneCountInString(userID) > maxUserKeyLen {
		return nil, domain.NewValidationError(map[string]string{"userId": "required,max=64"})
	}
	res, err := s.repo.ToggleLike(ctx, strings.TrimSpace(postID), userID)
	if err != nil {
		return nil, postNotFound(err)
	}
	return res, nil
}

func (s *blogService) Share(ctx context.Context, postID string) (*domain.ShareResult, error) {
	res, err := s.repo.IncrementShares(ctx, strings.TrimSpace(postID))
	if err != nil {
		return nil, postNotFound(err)
	}
	return res, nil
}

// AddComment stores a reader comment. It stays hidden until approved.
func (s *blogService) AddComment(ctx context.Context, postID string, comment *domain.Comment) (*domain.Comment, error) {
	comment.PostID = strings.TrimSpace(postID)
	comment.Name = strings.TrimSpace(comment.Name)
	comment.Email = strings.ToLower(strings.TrimSpace(comment.Email))
	comment.Website = strings.TrimSpace(comment.Website)
	comment.Body = strings.TrimSpace(comment.Body)
	comment.Approved = false

	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, postNotFound(err)
	}
	slog.InfoContext(ctx, "comment received",
		slog.String("post_id", comment.PostID),
		slog.String("comment_id", comment.ID),
	)
	return comment, nil
}

func (s *blogService) ApprovedComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	post, err := s.CollectionService.Get(ctx, postID, true)
	if err != nil {
		return nil, err
	}
	return s.repo.ListComments(ctx, post.ID, true)
}

func (s *blogService) ListComments(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[domain.Comment], error) {
	return s.repo.ListAllComments(ctx, req)
}

func (s *blogService) ModerateComment(ctx context.Context, id string, approved bool) (*domain.Comment, error) {
	comment, err := s.repo.SetCommentApproved(ctx, strings.TrimSpace(id), approved)
	if err != nil {
		return nil, commentNotFound(err)
	}
	return comment, nil
}

func (s *blogService) DeleteComment(ctx context.Context, id string) error {
	return commentNotFound(s.repo.DeleteComment(ctx, strings.TrimSpace(id)))
}

// uniqueSlug slugifies base and appends -2, -3, ... until no other post uses it.
func (s *blogService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	slug := Slugify(base)
	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := slug
		if i > 1 {
			candidate = slug + "-" + strconv.Itoa(i)
		}
		taken, err := s.repo.SlugTaken(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return slug + "-" + uuid.NewString()[:8], nil
}

// Slugify turns a title into a lowercase, hyphen separated URL segment.
// Punctuation separates words; an empty result becomes "post".
func Slugify(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, title)
	slug := strcase.ToKebab(strings.Join(strings.Fields(cleaned), " "))
	if slug == "" {
		return "post"
	}
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(truncate(slug, maxSlugLen), "-")
	}
	return slug
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func postNotFound(err error) error {
	if domain.IsNotFound(err) {
		return domain.NewAppError(domain.CodeNotFound, "post not found", err)
	}
	return err
}

func commentNotFound(err error) error {
	if domain.IsNotFound(err) {
		return domain.NewAppError(domain.CodeNotFound, "comment not found", err)
	}
	return err
}
