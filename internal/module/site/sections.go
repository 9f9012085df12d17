package site

import (
	"context"
	"log/slog"

	"github.com/simp-lee/folio/internal/domain"
)

// Section is one independently loaded block of a page. A failed section
// carries a message instead of items; the rest of the page still renders.
type Section[T any] struct {
	Items []T
	Total int64
	Error string
}

func (s Section[T]) Empty() bool { return s.Error == "" && len(s.Items) == 0 }

const sectionError = "This section could not be loaded right now."

// loadSection lists the public items of one collection.
func loadSection[T any](ctx context.Context, name string, svc domain.CollectionService[T], req domain.PageRequest) Section[T] {
	if svc == nil {
		return Section[T]{}
	}
	req.VisibleOnly = true
	if req.Page == 0 {
		req.Page = 1
	}
	res, err := svc.List(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "load page section failed", slog.String("section", name), slog.Any("error", err))
		return Section[T]{Error: sectionError}
	}
	return Section[T]{Items: res.Items, Total: res.TotalItems}
}

// loadList wraps a non-paged loader the same way.
func loadList[T any](ctx context.Context, name string, load func(context.Context) ([]T, error)) Section[T] {
	items, err := load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "load page section failed", slog.String("section", name), slog.Any("error", err))
		return Section[T]{Error: sectionError}
	}
	return Section[T]{Items: items, Total: int64(len(items))}
}
