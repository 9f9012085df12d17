package orderable

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/toast"
)

var (
	// ErrSuperseded is returned by a queued commit whose base state was rolled
	// back before it could be sent.
	ErrSuperseded = errors.New("orderable: reorder superseded by an earlier failure")
	// ErrClosed is returned once the committer is closed.
	ErrClosed = errors.New("orderable: committer closed")
)

// Reorderer persists the full ordered ID list of a collection.
type Reorderer interface {
	Reorder(ctx context.Context, orderedIDs []string) error
}

// Committer applies reorders to the displayed list at once and persists them
// one at a time in call order. A failed commit restores the last list the
// server accepted and drops every commit queued behind it. Every committed
// list carries a contiguous 0..n-1 order.
type Committer[T domain.Ordered, P Positioned[T]] struct {
	remote Reorderer
	notify toast.Notifier

	mu        sync.Mutex
	displayed []T
	confirmed []T
	queue     []*pending[T]
	tail      chan struct{}
	closed    bool
}

// pending is one commit waiting for or holding the remote call.
type pending[T any] struct {
	base    []T // displayed list before the move
	dropped bool
}

// NewCommitter starts from items, taken as the server's current order.
func NewCommitter[T domain.Ordered, P Positioned[T]](remote Reorderer, notify toast.Notifier, items []T) *Committer[T, P] {
	done := make(chan struct{})
	close(done)
	return &Committer[T, P]{
		remote:    remote,
		notify:    notify,
		displayed: slices.Clone(items),
		confirmed: slices.Clone(items),
		tail:      done,
	}
}

// Displayed returns the list as the user currently sees it.
func (c *Committer[T, P]) Displayed() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.displayed)
}

// Confirmed returns the last list the server accepted.
func (c *Committer[T, P]) Confirmed() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.confirmed)
}

// Reset replaces both lists, e.g. after a reload. Queued commits based on the
// old list are superseded.
func (c *Committer[T, P]) Reset(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.displayed = slices.Clone(items)
	c.confirmed = slices.Clone(items)
	c.dropFrom(0)
}

// Reorder moves the item at from to to. The displayed list changes before
// Reorder blocks; it then waits for earlier commits and sends the full ID list.
// Moving an item onto itself is a no-op and sends nothing.
//
// Cancelling ctx while earlier commits are still running withdraws this one:
// the display returns to the list before the move and later moves built on
// it are superseded. Earlier commits are unaffected.
func (c *Committer[T, P]) Reorder(ctx context.Context, from, to int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if len(c.displayed) < 2 || clamp(from, len(c.displayed)) == clamp(to, len(c.displayed)) {
		c.mu.Unlock()
		return nil
	}
	p := &pending[T]{base: c.displayed}
	next := Renumber[T, P](Move(c.displayed, from, to))
	c.displayed = next
	c.queue = append(c.queue, p)
	prev, done := c.tail, make(chan struct{})
	c.tail = done
	c.mu.Unlock()

	select {
	case <-prev:
	case <-ctx.Done():
		// Later commits still wait for prev through done.
		go func() {
			<-prev
			close(done)
		}()
		return c.withdraw(p, ctx.Err())
	}
	defer close(done)

	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return ErrClosed
	case p.dropped:
		c.dequeue(p)
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.mu.Unlock()

	err := ctx.Err()
	if err == nil {
		err = c.remote.Reorder(ctx, IDs(next))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.dequeue(p)
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.displayed = slices.Clone(c.confirmed)
		c.dropFrom(0)
		slog.WarnContext(ctx, "reorder rolled back", slog.Int("items", len(next)), slog.Any("error", err))
		toast.Send(ctx, c.notify, "Could not save the new order: "+toast.Message(err))
		return err
	}
	if !p.dropped {
		c.confirmed = next
	}
	return nil
}

// withdraw removes a queued commit whose caller gave up waiting.
func (c *Committer[T, P]) withdraw(p *pending[T], err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if p.dropped {
		c.dequeue(p)
		return ErrSuperseded
	}
	c.dropFrom(slices.Index(c.queue, p))
	c.dequeue(p)
	c.displayed = slices.Clone(p.base)
	return err
}

// dropFrom supersedes the queued commits from index i on. Callers hold mu.
func (c *Committer[T, P]) dropFrom(i int) {
	for _, p := range c.queue[i:] {
		p.dropped = true
	}
}

func (c *Committer[T, P]) dequeue(p *pending[T]) {
	if i := slices.Index(c.queue, p); i >= 0 {
		c.queue = slices.Delete(c.queue, i, i+1)
	}
}

// Close detaches the committer. Results of commits still in flight are
// discarded.
func (c *Committer[T, P]) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
