// Package orderable keeps a locally displayed, remotely persisted ordered
// collection: loading it, moving items by drag and drop, and committing the
// new order with optimistic apply and rollback.
package orderable

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/simp-lee/folio/internal/domain"
)

// State is the lifecycle of a View.
type State int

const (
	Loading State = iota
	Ready
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader fetches every item of a collection.
type Loader[T any] func(ctx context.Context) ([]T, error)

// View holds one fetched collection sorted by display order.
type View[T domain.Ordered] struct {
	load Loader[T]

	mu    sync.RWMutex
	state State
	items []T
	err   error
}

// NewView creates a View in the Loading state. Call Load to fetch.
func NewView[T domain.Ordered](load Loader[T]) *View[T] {
	return &View[T]{load: load}
}

// Load fetches the collection. On failure the previous items are dropped and
// the view enters Failed with the error kept for display.
func (v *View[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	v.state = Loading
	v.err = nil
	v.mu.Unlock()

	items, err := v.load(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.state, v.items, v.err = Failed, nil, err
		return err
	}
	v.items = Sorted(items)
	v.state = Ready
	if len(v.items) == 0 {
		v.state = Empty
	}
	return nil
}

// Retry reloads after a failure.
func (v *View[T]) Retry(ctx context.Context) error {
	return v.Load(ctx)
}

func (v *View[T]) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Err returns the error of the last failed load.
func (v *View[T]) Err() error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.err
}

// Items returns a copy of the loaded items in display order.
func (v *View[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.items)
}

// Sorted returns a copy of items ordered by GetOrder. Equal orders keep their
// incoming sequence, which the server already breaks by creation time and ID.
func Sorted[T domain.Ordered](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(a.GetOrder(), b.GetOrder())
	})
	return out
}

// IDs returns the IDs of items in sequence.
func IDs[T domain.Ordered](items []T) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.GetID()
	}
	return ids
}
