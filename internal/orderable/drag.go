package orderable

import "slices"

// Move returns a copy of items with the element at from removed and inserted
// at to. Both indices are clamped to the list. Elements between the two
// positions shift by one toward the vacated slot.
func Move[T any](items []T, from, to int) []T {
	out := slices.Clone(items)
	if len(out) < 2 {
		return out
	}
	from, to = clamp(from, len(out)), clamp(to, len(out))
	if from == to {
		return out
	}
	item := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, item)
}

// Positioned is the pointer side of an entity whose position can be
// rewritten.
type Positioned[T any] interface {
	*T
	SetOrder(order int)
}

// Renumber sets the order of every item to its index and returns items.
func Renumber[T any, P Positioned[T]](items []T) []T {
	for i := range items {
		P(&items[i]).SetOrder(i)
	}
	return items
}

func clamp(i, n int) int {
	return max(0, min(i, n-1))
}

// Drag tracks one drag gesture over a list.
type Drag[T any] struct {
	items  []T
	source int
	over   int
	active bool
}

// NewDrag starts tracking gestures over items.
func NewDrag[T any](items []T) *Drag[T] {
	return &Drag[T]{items: items, source: -1, over: -1}
}

// Start picks up the item at index. It reports false for an index outside the
// list.
func (d *Drag[T]) Start(index int) bool {
	if index < 0 || index >= len(d.items) {
		return false
	}
	d.source, d.over, d.active = index, index, true
	return true
}

// Over records the position the item is hovering over and returns it clamped.
func (d *Drag[T]) Over(index int) int {
	if !d.active {
		return -1
	}
	d.over = clamp(index, len(d.items))
	return d.over
}

// Source returns the picked index, or -1 with no gesture in progress.
func (d *Drag[T]) Source() int {
	if !d.active {
		return -1
	}
	return d.source
}

// Drop ends the gesture at index. It returns the moved copy and true, or the
// unchanged list and false when nothing moves.
func (d *Drag[T]) Drop(index int) ([]T, bool) {
	if !d.active {
		return d.items, false
	}
	from, to := d.source, clamp(index, len(d.items))
	d.Cancel()
	if from == to {
		return d.items, false
	}
	return Move(d.items, from, to), true
}

// Cancel abandons the gesture.
func (d *Drag[T]) Cancel() {
	d.source, d.over, d.active = -1, -1, false
}
