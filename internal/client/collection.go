package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
)

// Collection is the admin API of one ordered collection, e.g. "projects".
type Collection[T any] struct {
	c    *Client
	name string
}

// NewCollection returns the admin API of the named collection.
func NewCollection[T any](c *Client, name string) *Collection[T] {
	return &Collection[T]{c: c, name: name}
}

// Name returns the collection's URL segment.
func (col *Collection[T]) Name() string {
	return col.name
}

func (col *Collection[T]) path(id string) string {
	p := "/admin/" + col.name
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

// List returns one page of the collection in display order.
func (col *Collection[T]) List(ctx context.Context, q ListQuery) (*pagination.Pagination[T], error) {
	var page pagination.Pagination[T]
	if err := col.c.do(ctx, http.MethodGet, withQuery(col.path(""), q.values()), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// All fetches every page of the collection.
func (col *Collection[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	for page := 1; ; page++ {
		res, err := col.List(ctx, ListQuery{Page: page, Limit: 200})
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if page >= res.TotalPages || len(res.Items) == 0 {
			return items, nil
		}
	}
}

// Get returns one entity.
func (col *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := col.c.do(ctx, http.MethodGet, col.path(id), nil, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create stores a new entity. The server assigns its ID and order.
func (col *Collection[T]) Create(ctx context.Context, entity *T) (*T, error) {
	var created T
	if err := col.c.do(ctx, http.MethodPost, col.path(""), entity, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the payload of the entity with the given ID.
func (col *Collection[T]) Update(ctx context.Context, id string, entity *T) (*T, error) {
	var updated T
	if err := col.c.do(ctx, http.MethodPut, col.path(id), entity, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetFlag sets one boolean flag, e.g. "featured".
func (col *Collection[T]) SetFlag(ctx context.Context, id, flag string, value bool) (*T, error) {
	var updated T
	body := domain.FlagRequest{Flag: flag, Value: &value}
	if err := col.c.do(ctx, http.MethodPatch, col.path(id)+"/flags", body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the entity with the given ID.
func (col *Collection[T]) Delete(ctx context.Context, id string) error {
	return col.c.do(ctx, http.MethodDelete, col.path(id), nil, nil)
}

// Reorder sends the full ordered ID list of the collection.
func (col *Collection[T]) Reorder(ctx context.Context, ids []string) error {
	return col.c.do(ctx, http.MethodPut, col.path("")+"/order", domain.ReorderRequest{OrderedIDs: ids}, nil)
}
