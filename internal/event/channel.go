// Package event provides a typed publish/subscribe channel used to connect
// the game workers. Emit is synchronous: callbacks run on the emitting
// goroutine, in registration order, and receive their own copy of the value.
package event

import "sync"

// Channel is a typed event source with any number of subscribers.
// The zero value is ready to use.
type Channel[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a handle that removes it again.
func (c *Channel[T]) Subscribe(fn func(T)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	return &Subscription{cancel: func() { c.remove(id) }}
}

// Emit delivers v to every live subscriber. The subscriber list is copied
// under the lock and callbacks run outside it, so a callback may subscribe
// or unsubscribe without deadlocking.
func (c *Channel[T]) Emit(v T) {
	c.mu.Lock()
	if len(c.subs) == 0 {
		c.mu.Unlock()
		return
	}
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of live subscribers.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *Channel[T]) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, s := range c.subs {
		if s.id == id {
			c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
			return
		}
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// Signal is the payload of events that carry no data.
type Signal struct{}
