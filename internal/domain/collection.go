package domain

import (
	"context"

	"github.com/simp-lee/pagination"
)

// CollectionRepository is the data access contract shared by every ordered
// collection. Reorder rewrites sort_order to 0..n-1 following ids, which must
// be a permutation of the collection's IDs.
type CollectionRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, req PageRequest) (*pagination.Pagination[T], error)
	Update(ctx context.Context, entity *T) error
	SetFlag(ctx context.Context, id, flag string, value bool) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// CollectionService is the business logic contract shared by every ordered
// collection.
type CollectionService[T any] interface {
	Create(ctx context.Context, entity *T) (*T, error)
	Get(ctx context.Context, id string, visibleOnly bool) (*T, error)
	List(ctx context.Context, req PageRequest) (*pagination.Pagination[T], error)
	Update(ctx context.Context, id string, entity *T) (*T, error)
	SetFlag(ctx context.Context, id, flag string, value bool) (*T, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// ReorderRequest is the body of a reorder call.
type ReorderRequest struct {
	OrderedIDs []string `json:"orderedIds" binding:"required"`
}

// FlagRequest toggles one boolean flag of an entity.
type FlagRequest struct {
	Flag  string `json:"flag" binding:"required"`
	Value *bool  `json:"value" binding:"required"`
}
