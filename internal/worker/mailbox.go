package worker

import (
	"sync"
	"sync/atomic"
)

// Slot holds the latest value put into it. Older values are overwritten.
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	pending atomic.Bool
}

// Put stores v and marks the slot pending.
func (s *Slot[T]) Put(v T) {
	s.mu.Lock()
	s.value = v
	s.pending.Store(true)
	s.mu.Unlock()
}

// Take returns the stored value and clears the pending mark. The second
// result is false if nothing was pending.
func (s *Slot[T]) Take() (T, bool) {
	var zero T
	if !s.pending.Load() {
		return zero, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.pending.Load() {
		return zero, false
	}
	s.pending.Store(false)
	return s.value, true
}

// Pending reports whether a value is waiting.
func (s *Slot[T]) Pending() bool {
	return s.pending.Load()
}

// Queue is an unbounded FIFO drained all at once.
type Queue[T any] struct {
	mu      sync.Mutex
	items   []T
	pending atomic.Bool
}

// Push appends v and marks the queue pending.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items = append(q.items, v)
	q.pending.Store(true)
	q.mu.Unlock()
}

// Drain removes and returns every queued item in arrival order.
func (q *Queue[T]) Drain() []T {
	if !q.pending.Load() {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	q.pending.Store(false)
	return items
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops every queued item.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	q.items = nil
	q.pending.Store(false)
	q.mu.Unlock()
}

// Pending reports whether items are waiting.
func (q *Queue[T]) Pending() bool {
	return q.pending.Load()
}

// Flag is a pending signal without payload.
type Flag struct {
	pending atomic.Bool
}

// Raise marks the flag.
func (f *Flag) Raise() { f.pending.Store(true) }

// Take clears the flag and reports whether it was raised.
func (f *Flag) Take() bool { return f.pending.CompareAndSwap(true, false) }

// Pending reports whether the flag is raised.
func (f *Flag) Pending() bool { return f.pending.Load() }
