package event

import "sync"

// Binder collects subscriptions so they can be released together.
type Binder struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add keeps s until Close.
func (b *Binder) Add(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

// Bind subscribes fn to ch and keeps the subscription.
func Bind[T any](b *Binder, ch *Channel[T], fn func(T)) {
	b.Add(ch.Subscribe(fn))
}

// Len returns the number of held subscriptions.
func (b *Binder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everything bound so far.
func (b *Binder) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
