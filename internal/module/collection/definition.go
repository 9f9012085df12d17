// Package collection provides the repository, service, handler and routes
// shared by every ordered collection of the site.
package collection

import (
	"maps"
	"slices"
	"strings"
)

// Definition describes one ordered collection.
type Definition[T any] struct {
	// Name is the URL segment, e.g. "projects".
	Name string
	// Singular is used in error messages, e.g. "project".
	Singular string

	SortFields    []string
	FilterFields  []string
	SearchColumns []string

	// Flags maps a flag name accepted by SetFlag to its column.
	Flags map[string]string
	// ReadOnly columns are never written by Update.
	ReadOnly []string

	// PublicColumn is the boolean column that makes an entity visible on the
	// public API. Collections without one have no public routes.
	PublicColumn string
	// Public reports whether an already loaded entity is publicly visible.
	Public func(*T) bool

	// Normalize runs before Create and Update.
	Normalize func(*T)
	// Validate runs after Normalize and checks rules that struct tags cannot
	// express. It should return a domain validation error.
	Validate func(*T) error
}

func (d Definition[T]) sortFields() []string {
	return append([]string{"sort_order", "created_at", "updated_at"}, d.SortFields...)
}

func (d Definition[T]) flagNames() string {
	names := slices.Sorted(maps.Keys(d.Flags))
	return strings.Join(names, " ")
}

func (d Definition[T]) prepare(entity *T) error {
	if d.Normalize != nil {
		d.Normalize(entity)
	}
	if d.Validate != nil {
		return d.Validate(entity)
	}
	return nil
}

func (d Definition[T]) notFound() string {
	if d.Singular == "" {
		return "not found"
	}
	return d.Singular + " not found"
}

func (d Definition[T]) isPublic(entity *T) bool {
	if d.PublicColumn == "" {
		return false
	}
	return d.Public == nil || d.Public(entity)
}
