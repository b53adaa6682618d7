package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel_EmitWithoutSubscribers(t *testing.T) {
	var ch Channel[int]
	assert.NotPanics(t, func() { ch.Emit(1) })
	assert.Equal(t, 0, ch.Len())
}

func TestChannel_RegistrationOrder(t *testing.T) {
	var ch Channel[string]
	var got []string

	ch.Subscribe(func(s string) { got = append(got, "a:"+s) })
	ch.Subscribe(func(s string) { got = append(got, "b:"+s) })
	ch.Subscribe(func(s string) { got = append(got, "c:"+s) })

	ch.Emit("x")
	assert.Equal(t, []string{"a:x", "b:x", "c:x"}, got)
}

func TestChannel_ValueIsCopied(t *testing.T) {
	type payload struct{ N int }
	var ch Channel[payload]

	ch.Subscribe(func(p payload) { p.N = 100 })
	var seen int
	ch.Subscribe(func(p payload) { seen = p.N })

	ch.Emit(payload{N: 7})
	assert.Equal(t, 7, seen)
}

func TestSubscription_Close(t *testing.T) {
	var ch Channel[int]
	calls := 0
	sub := ch.Subscribe(func(int) { calls++ })

	ch.Emit(1)
	sub.Close()
	sub.Close()
	ch.Emit(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, ch.Len())
}

func TestSubscription_CloseOnNil(t *testing.T) {
	var sub *Subscription
	assert.NotPanics(t, sub.Close)
}

func TestChannel_CallbackUnsubscribesItself(t *testing.T) {
	var ch Channel[int]
	var sub *Subscription
	calls := 0
	sub = ch.Subscribe(func(int) {
		calls++
		sub.Close()
	})
	other := 0
	ch.Subscribe(func(int) { other++ })

	ch.Emit(1)
	ch.Emit(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, other)
	assert.Equal(t, 1, ch.Len())
}

func TestChannel_CloseMiddleKeepsOrder(t *testing.T) {
	var ch Channel[int]
	var got []int
	ch.Subscribe(func(int) { got = append(got, 1) })
	mid := ch.Subscribe(func(int) { got = append(got, 2) })
	ch.Subscribe(func(int) { got = append(got, 3) })

	mid.Close()
	ch.Emit(0)
	assert.Equal(t, []int{1, 3}, got)
}

func TestChannel_ConcurrentEmit(t *testing.T) {
	var ch Channel[int]
	var mu sync.Mutex
	sum := 0
	ch.Subscribe(func(v int) {
		mu.Lock()
		sum += v
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ch.Emit(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 5000, sum)
}

func TestBinder_Close(t *testing.T) {
	var a Channel[int]
	var b Channel[string]
	var binder Binder

	hits := 0
	Bind(&binder, &a, func(int) { hits++ })
	Bind(&binder, &b, func(string) { hits++ })
	require.Equal(t, 2, binder.Len())

	a.Emit(1)
	b.Emit("x")
	binder.Close()
	a.Emit(1)
	b.Emit("x")

	assert.Equal(t, 2, hits)
	assert.Equal(t, 0, binder.Len())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 0, b.Len())
}
