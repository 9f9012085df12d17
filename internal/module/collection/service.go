package collection

import (
	"context"
	"log/slog"
	"strings"

	"github.com/simp-lee/pagination"

	"github.com/simp-lee/folio/internal/domain"
)

// service implements domain.CollectionService.
type service[T any, P domain.OrderedPtr[T]] struct {
	repo domain.CollectionRepository[T]
	def  Definition[T]
}

// NewService creates a CollectionService over repo.
func NewService[T any, P domain.OrderedPtr[T]](repo domain.CollectionRepository[T], def Definition[T]) domain.CollectionService[T] {
	return &service[T, P]{repo: repo, def: def}
}

// Create persists a new entity. Any client supplied ID or order is replaced.
func (s *service[T, P]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := s.def.prepare(entity); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, entity); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "entity created",
		slog.String("collection", s.def.Name),
		slog.String("id", P(entity).GetID()),
	)
	return entity, nil
}

// Get returns one entity. With visibleOnly, hidden entities are reported as
// not found.
func (s *service[T, P]) Get(ctx context.Context, id string, visibleOnly bool) (*T, error) {
	entity, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, s.wrapNotFound(err)
	}
	if visibleOnly && !s.def.isPublic(entity) {
		return nil, domain.NewAppError(domain.CodeNotFound, s.def.notFound(), nil)
	}
	return entity, nil
}

// List returns a page of the collection in display order.
func (s *service[T, P]) List(ctx context.Context, req domain.PageRequest) (*pagination.Pagination[T], error) {
	return s.repo.List(ctx, req)
}

// Update replaces the payload of the entity identified by id and returns the
// stored result.
func (s *service[T, P]) Update(ctx context.Context, id string, entity *T) (*T, error) {
	id = strings.TrimSpace(id)
	P(entity).Base().ID = id
	if err := s.def.prepare(entity); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entity); err != nil {
		return nil, s.wrapNotFound(err)
	}
	return s.Get(ctx, id, false)
}

// SetFlag sets one boolean flag and returns the stored result.
func (s *service[T, P]) SetFlag(ctx context.Context, id, flag string, value bool) (*T, error) {
	id = strings.TrimSpace(id)
	if err := s.repo.SetFlag(ctx, id, strings.TrimSpace(flag), value); err != nil {
		return nil, s.wrapNotFound(err)
	}
	return s.Get(ctx, id, false)
}

// Delete removes the entity identified by id.
func (s *service[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return s.wrapNotFound(err)
	}
	slog.InfoContext(ctx, "entity deleted",
		slog.String("collection", s.def.Name),
		slog.String("id", id),
	)
	return nil
}

// Reorder assigns positions 0..n-1 following ids.
func (s *service[T, P]) Reorder(ctx context.Context, ids []string) error {
	if ids == nil {
		return domain.NewValidationError(map[string]string{"orderedIds": "required"})
	}
	if err := s.repo.Reorder(ctx, ids); err != nil {
		return err
	}
	slog.InfoContext(ctx, "collection reordered",
		slog.String("collection", s.def.Name),
		slog.Int("count", len(ids)),
	)
	return nil
}

func (s *service[T, P]) wrapNotFound(err error) error {
	if domain.IsNotFound(err) {
		return domain.NewAppError(domain.CodeNotFound, s.def.notFound(), err)
	}
	return err
}
