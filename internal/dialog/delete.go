package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/toast"
)

// ErrNoTarget is returned by Confirm when nothing was requested.
var ErrNoTarget = errors.New("dialog: no delete target")

// Deleter removes an entity remotely.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// DeleteGate holds a delete until it is confirmed.
type DeleteGate[T domain.Ordered] struct {
	remote Deleter
	notify toast.Notifier
	label  func(T) string

	target *T
}

// NewDeleteGate creates a gate. label names an entity in the prompt; nil
// uses its ID.
func NewDeleteGate[T domain.Ordered](remote Deleter, notify toast.Notifier, label func(T) string) *DeleteGate[T] {
	if label == nil {
		label = func(e T) string { return e.GetID() }
	}
	return &DeleteGate[T]{remote: remote, notify: notify, label: label}
}

// Request names the entity to delete. Nothing is sent yet.
func (g *DeleteGate[T]) Request(entity T) {
	g.target = &entity
}

// Pending returns the requested entity.
func (g *DeleteGate[T]) Pending() (T, bool) {
	if g.target == nil {
		var zero T
		return zero, false
	}
	return *g.target, true
}

// Prompt is the confirmation question for the requested entity.
func (g *DeleteGate[T]) Prompt() string {
	if g.target == nil {
		return ""
	}
	return fmt.Sprintf("Delete %q? This cannot be undone.", g.label(*g.target))
}

// Cancel drops the request.
func (g *DeleteGate[T]) Cancel() {
	g.target = nil
}

// Confirm deletes the requested entity and returns list without it. An entity
// the server no longer has counts as deleted. On failure list is returned
// unchanged and the request stays open.
func (g *DeleteGate[T]) Confirm(ctx context.Context, list []T) ([]T, error) {
	if g.target == nil {
		return list, ErrNoTarget
	}
	id := (*g.target).GetID()
	if err := g.remote.Delete(ctx, id); err != nil && !domain.IsNotFound(err) {
		toast.Send(ctx, g.notify, "Could not delete: "+toast.Message(err))
		return list, err
	}

	slog.DebugContext(ctx, "entity deleted", slog.String("id", id))
	g.target = nil
	toast.Send(ctx, g.notify, "Deleted")
	return slices.DeleteFunc(slices.Clone(list), func(e T) bool { return e.GetID() == id }), nil
}
