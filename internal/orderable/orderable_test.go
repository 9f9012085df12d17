package orderable

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/folio/internal/domain"
	"github.com/simp-lee/folio/internal/toast"
)

type item struct {
	id    string
	order int
}

func (i item) GetID() string { return i.id }
func (i item) GetOrder() int { return i.order }

func (i *item) SetOrder(order int) { i.order = order }

func items(ids ...string) []item {
	out := make([]item, len(ids))
	for i, id := range ids {
		out[i] = item{id: id, order: i}
	}
	return out
}

// fakeRemote records every reorder call. When gate is set, each call waits
// for one value from it.
type fakeRemote struct {
	mu    sync.Mutex
	calls [][]string
	err   func(call int) error
	gate  chan struct{}
	sent  chan []string
}

func (f *fakeRemote) Reorder(ctx context.Context, ids []string) error {
	f.mu.Lock()
	f.calls = append(f.calls, ids)
	n := len(f.calls)
	f.mu.Unlock()
	if f.sent != nil {
		f.sent <- ids
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return f.err(n)
	}
	return nil
}

func (f *fakeRemote) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingNotifier) Notify(_ context.Context, message string) {
	r.mu.Lock()
	r.messages = append(r.messages, message)
	r.mu.Unlock()
}

func (r *recordingNotifier) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"last to first", 3, 0, []string{"d", "a", "b", "c"}},
		{"first to last", 0, 3, []string{"b", "c", "d", "a"}},
		{"forward by one", 1, 2, []string{"a", "c", "b", "d"}},
		{"backward across", 2, 0, []string{"c", "a", "b", "d"}},
		{"past the end clamps", 0, 99, []string{"b", "c", "d", "a"}},
		{"before the start clamps", 2, -5, []string{"c", "a", "b", "d"}},
		{"onto itself", 2, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []string{"a", "b", "c", "d"}
			got := Move(in, tt.from, tt.to)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"a", "b", "c", "d"}, in, "input must not be modified")
		})
	}
}

func TestMove_IsSpliceNotSwap(t *testing.T) {
	const n = 6
	base := make([]int, n)
	for i := range base {
		base[i] = i
	}
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if from == to {
				continue
			}
			t.Run(fmt.Sprintf("%d->%d", from, to), func(t *testing.T) {
				got := Move(base, from, to)
				require.Equal(t, from, got[to])
				lo, hi := min(from, to), max(from, to)
				for i := 0; i < n; i++ {
					switch {
					case i < lo || i > hi:
						assert.Equal(t, i, got[i], "outside the range stays put")
					case from < to && i >= from && i < to:
						assert.Equal(t, i+1, got[i], "shifts back by one")
					case from > to && i > to && i <= from:
						assert.Equal(t, i-1, got[i], "shifts forward by one")
					}
				}
			})
		}
	}
}

func TestDrag(t *testing.T) {
	d := NewDrag(items("1", "2", "3"))

	_, moved := d.Drop(0)
	assert.False(t, moved, "drop without a gesture")
	assert.False(t, d.Start(3))

	require.True(t, d.Start(1))
	assert.Equal(t, 1, d.Source())
	assert.Equal(t, 2, d.Over(10))
	assert.Equal(t, 0, d.Over(-1))

	got, moved := d.Drop(1)
	assert.False(t, moved, "dropping on itself")
	assert.Equal(t, items("1", "2", "3"), got)
	assert.Equal(t, -1, d.Source())

	require.True(t, d.Start(2))
	got, moved = d.Drop(0)
	require.True(t, moved)
	assert.Equal(t, []string{"3", "1", "2"}, IDs(got))
}

func TestView_States(t *testing.T) {
	ctx := context.Background()
	var result []item
	var err error
	v := NewView(func(context.Context) ([]item, error) { return result, err })
	assert.Equal(t, Loading, v.State())

	err = errors.New("boom")
	require.Error(t, v.Load(ctx))
	assert.Equal(t, Failed, v.State())
	assert.EqualError(t, v.Err(), "boom")

	err = nil
	require.NoError(t, v.Retry(ctx))
	assert.Equal(t, Empty, v.State())

	result = []item{{"c", 5}, {"a", 1}, {"b", 1}}
	require.NoError(t, v.Load(ctx))
	assert.Equal(t, Ready, v.State())
	assert.Equal(t, []string{"a", "b", "c"}, IDs(v.Items()))
	assert.Nil(t, v.Err())
}

func TestCommitter_SamePositionSendsNothing(t *testing.T) {
	remote := &fakeRemote{}
	c := NewCommitter(remote, nil, items("1", "2", "3"))

	require.NoError(t, c.Reorder(context.Background(), 1, 1))
	assert.Empty(t, remote.Calls())
	assert.Equal(t, items("1", "2", "3"), c.Displayed())
}

func TestCommitter_ThirdToFirst(t *testing.T) {
	remote := &fakeRemote{}
	c := NewCommitter(remote, nil, items("1", "2", "3"))

	require.NoError(t, c.Reorder(context.Background(), 2, 0))
	assert.Equal(t, [][]string{{"3", "1", "2"}}, remote.Calls())
	assert.Equal(t, []string{"3", "1", "2"}, IDs(c.Confirmed()))
	assert.Equal(t, []string{"3", "1", "2"}, IDs(c.Displayed()))

	want := []item{{"3", 0}, {"1", 1}, {"2", 2}}
	assert.Equal(t, want, c.Confirmed())
	assert.Equal(t, want, Sorted(c.Confirmed()), "sorting by order keeps the new sequence")
}

func TestCommitter_RenumbersGappedOrders(t *testing.T) {
	remote := &fakeRemote{}
	c := NewCommitter(remote, nil, []item{{"a", 0}, {"b", 4}, {"c", 9}})

	require.NoError(t, c.Reorder(context.Background(), 0, 2))
	assert.Equal(t, []item{{"b", 0}, {"c", 1}, {"a", 2}}, c.Displayed())
}

func TestCommitter_OptimisticThenRollback(t *testing.T) {
	remote := &fakeRemote{
		gate: make(chan struct{}),
		sent: make(chan []string, 1),
		err:  func(int) error { return domain.NewAppError(domain.CodeUnavailable, "network error, please try again", nil) },
	}
	notes := &recordingNotifier{}
	before := items("a", "b", "c", "d")
	c := NewCommitter(remote, notes, before)

	errc := make(chan error, 1)
	go func() { errc <- c.Reorder(context.Background(), 0, 3) }()

	<-remote.sent
	assert.Equal(t, []string{"b", "c", "d", "a"}, IDs(c.Displayed()), "applied before the call returns")
	assert.Equal(t, before, c.Confirmed())

	close(remote.gate)
	err := <-errc
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.Equal(t, before, c.Displayed())
	assert.Equal(t, []string{"Could not save the new order: network error, please try again"}, notes.Messages())
}

func TestCommitter_QueuesInCallOrder(t *testing.T) {
	remote := &fakeRemote{gate: make(chan struct{}), sent: make(chan []string, 2)}
	c := NewCommitter(remote, nil, items("a", "b", "c"))
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- c.Reorder(ctx, 2, 0) }()
	<-remote.sent

	second := make(chan error, 1)
	go func() { second <- c.Reorder(ctx, 2, 0) }()
	require.Eventually(t, func() bool {
		return len(IDs(c.Displayed())) == 3 && IDs(c.Displayed())[0] == "b"
	}, time.Second, time.Millisecond)
	assert.Len(t, remote.Calls(), 1, "second commit waits for the first")

	remote.gate <- struct{}{}
	require.NoError(t, <-first)
	<-remote.sent
	remote.gate <- struct{}{}
	require.NoError(t, <-second)

	assert.Equal(t, [][]string{{"c", "a", "b"}, {"b", "c", "a"}}, remote.Calls())
	assert.Equal(t, []string{"b", "c", "a"}, IDs(c.Confirmed()))
}

func TestCommitter_FailureSupersedesQueued(t *testing.T) {
	remote := &fakeRemote{
		gate: make(chan struct{}),
		sent: make(chan []string, 2),
		err:  func(int) error { return errors.New("server down") },
	}
	notes := &recordingNotifier{}
	before := items("a", "b", "c")
	c := NewCommitter(remote, notes, before)
	ctx := context.Background()

	first := make(chan error, 1)
	go func() { first <- c.Reorder(ctx, 0, 2) }()
	<-remote.sent

	second := make(chan error, 1)
	go func() { second <- c.Reorder(ctx, 0, 1) }()
	require.Eventually(t, func() bool { return IDs(c.Displayed())[0] == "c" }, time.Second, time.Millisecond)

	close(remote.gate)
	require.EqualError(t, <-first, "server down")
	assert.ErrorIs(t, <-second, ErrSuperseded)
	assert.Len(t, remote.Calls(), 1)
	assert.Equal(t, before, c.Displayed())
	assert.Equal(t, []string{"Could not save the new order: something went wrong, please try again"}, notes.Messages())

	remote.err = nil
	require.NoError(t, c.Reorder(ctx, 1, 0))
	assert.Equal(t, []string{"b", "a", "c"}, IDs(c.Displayed()))
}

func TestCommitter_CloseDiscardsLateResult(t *testing.T) {
	remote := &fakeRemote{
		gate: make(chan struct{}),
		sent: make(chan []string, 1),
		err:  func(int) error { return errors.New("late failure") },
	}
	notes := &recordingNotifier{}
	c := NewCommitter(remote, notes, items("a", "b"))

	errc := make(chan error, 1)
	go func() { errc <- c.Reorder(context.Background(), 1, 0) }()
	<-remote.sent
	c.Close()
	close(remote.gate)

	assert.ErrorIs(t, <-errc, ErrClosed)
	assert.Empty(t, notes.Messages())
	assert.Equal(t, []string{"b", "a"}, IDs(c.Displayed()))
	assert.ErrorIs(t, c.Reorder(context.Background(), 0, 1), ErrClosed)
}

func TestCommitter_CancelledContextRollsBack(t *testing.T) {
	remote := &fakeRemote{}
	c := NewCommitter(remote, toast.Func(func(context.Context, string) {}), items("a", "b"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Reorder(ctx, 1, 0), context.Canceled)
	assert.Empty(t, remote.Calls())
	assert.Equal(t, items("a", "b"), c.Displayed())
}

func TestCommitter_CancelWhileQueued(t *testing.T) {
	remote := &fakeRemote{gate: make(chan struct{}), sent: make(chan []string, 2)}
	c := NewCommitter(remote, nil, items("a", "b", "c"))

	first := make(chan error, 1)
	go func() { first <- c.Reorder(context.Background(), 2, 0) }()
	<-remote.sent
	afterFirst := c.Displayed()

	ctx, cancel := context.WithCancel(context.Background())
	second := make(chan error, 1)
	go func() { second <- c.Reorder(ctx, 0, 2) }()
	require.Eventually(t, func() bool { return IDs(c.Displayed())[0] == "a" }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-second:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("queued reorder ignored cancellation")
	}
	assert.Equal(t, afterFirst, c.Displayed(), "display returns to the list before the withdrawn move")

	third := make(chan error, 1)
	go func() { third <- c.Reorder(context.Background(), 1, 0) }()
	require.Eventually(t, func() bool { return IDs(c.Displayed())[0] == "a" }, time.Second, time.Millisecond)
	assert.Len(t, remote.Calls(), 1, "later commits still wait for the one in flight")

	remote.gate <- struct{}{}
	require.NoError(t, <-first)
	<-remote.sent
	remote.gate <- struct{}{}
	require.NoError(t, <-third)

	assert.Equal(t, [][]string{{"c", "a", "b"}, {"a", "c", "b"}}, remote.Calls())
	assert.Equal(t, []item{{"a", 0}, {"c", 1}, {"b", 2}}, c.Confirmed())
}
