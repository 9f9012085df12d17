// Package upload stores admin uploads on disk or in S3 and returns their URL.
package upload

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/simp-lee/folio/internal/domain"
)

// allowedTypes maps accepted content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Result is returned for a stored upload.
type Result struct {
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// Options tune image handling. A zero ResizeWidth keeps images as uploaded.
type Options struct {
	MaxBytes    int64
	ResizeWidth uint
	JPEGQuality int
}

// Service validates uploads and writes them to a Storage.
type Service struct {
	store Storage
	opts  Options
	now   func() time.Time
}

// NewService creates a Service.
func NewService(store Storage, opts Options) *Service {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 10 << 20
	}
	if opts.JPEGQuality == 0 {
		opts.JPEGQuality = 80
	}
	return &Service{store: store, opts: opts, now: time.Now}
}

// Upload reads r, checks its size and detected type, shrinks large images
// and stores the result under a random name.
func (s *Service) Upload(ctx context.Context, r io.Reader) (*Result, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.opts.MaxBytes+1))
	if err != nil {
		return nil, domain.NewAppError(domain.CodeValidation, "could not read upload", err)
	}
	if len(data) == 0 {
		return nil, domain.NewValidationError(map[string]string{"file": "required"})
	}
	if int64(len(data)) > s.opts.MaxBytes {
		return nil, s.tooLarge()
	}

	contentType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, domain.NewValidationError(map[string]string{"file": "oneof=jpeg png gif webp pdf"})
	}

	data, err = shrink(data, contentType, s.opts.ResizeWidth, s.opts.JPEGQuality)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeValidation, "invalid image", err)
	}

	key := s.now().UTC().Format("2006/01") + "/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, contentType, data)
	if err != nil {
		slog.ErrorContext(ctx, "store upload failed", slog.String("key", key), slog.Any("error", err))
		return nil, domain.NewAppError(domain.CodeInternal, "upload failed", err)
	}

	slog.InfoContext(ctx, "upload stored",
		slog.String("url", url),
		slog.String("content_type", contentType),
		slog.Int("size", len(data)),
	)
	return &Result{URL: url, ContentType: contentType, Size: len(data)}, nil
}

func (s *Service) tooLarge() error {
	return domain.NewValidationError(map[string]string{"file": "max=" + humanize.IBytes(uint64(s.opts.MaxBytes))})
}
