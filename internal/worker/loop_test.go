package worker

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterHooks counts every value pushed to its queue.
type counterHooks struct {
	in       Queue[int]
	sum      atomic.Int64
	started  atomic.Bool
	stopped  atomic.Bool
	startErr error
	panicOn  int
}

func (h *counterHooks) OnStart() error {
	h.started.Store(true)
	return h.startErr
}

func (h *counterHooks) OnStop() { h.stopped.Store(true) }

func (h *counterHooks) ShouldProcess() bool { return h.in.Pending() }

func (h *counterHooks) ProcessOnce() {
	for _, v := range h.in.Drain() {
		if h.panicOn != 0 && v == h.panicOn {
			panic("boom")
		}
		h.sum.Add(int64(v))
	}
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestLoop_Lifecycle(t *testing.T) {
	h := &counterHooks{}
	lp := New("counter", h, WithLogger(quietLogger()))
	assert.Equal(t, Idle, lp.State())

	require.NoError(t, lp.Launch())
	assert.Equal(t, Running, lp.State())
	assert.ErrorIs(t, lp.Launch(), ErrAlreadyLaunched)

	for i := 1; i <= 10; i++ {
		h.in.Push(i)
		lp.Interrupt()
	}

	require.Eventually(t, func() bool { return h.sum.Load() == 55 }, time.Second, time.Millisecond)

	lp.Stop()
	lp.Stop()
	assert.Equal(t, Stopped, lp.State())
	assert.True(t, h.started.Load())
	assert.True(t, h.stopped.Load())
	assert.NoError(t, lp.Err())
}

func TestLoop_StopIdle(t *testing.T) {
	h := &counterHooks{}
	lp := New("idle", h, WithLogger(quietLogger()))
	lp.Stop()
	assert.Equal(t, Stopped, lp.State())
	assert.False(t, h.started.Load())
	assert.ErrorIs(t, lp.Launch(), ErrAlreadyLaunched)

	select {
	case <-lp.Done():
	default:
		t.Fatal("Done is not closed after stopping an idle loop")
	}
	lp.Stop()
}

// gatedHooks blocks inside its first drain until release is closed.
type gatedHooks struct {
	in      Flag
	drains  atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (h *gatedHooks) OnStart() error      { return nil }
func (h *gatedHooks) OnStop()             {}
func (h *gatedHooks) ShouldProcess() bool { return h.in.Pending() }

func (h *gatedHooks) ProcessOnce() {
	h.in.Take()
	if h.drains.Add(1) == 1 {
		close(h.entered)
		<-h.release
	}
}

func TestLoop_InterruptsCollapse(t *testing.T) {
	h := &gatedHooks{entered: make(chan struct{}), release: make(chan struct{})}
	obs := &countingObserver{}
	lp := New("gated", h, WithLogger(quietLogger()), WithObserver(obs))
	require.NoError(t, lp.Launch())
	defer lp.Stop()

	for i := 0; i < 5; i++ {
		lp.Interrupt()
	}
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, h.drains.Load(), "interrupts without input must not drain")

	h.in.Raise()
	lp.Interrupt()
	<-h.entered

	for i := 0; i < 10; i++ {
		h.in.Raise()
		lp.Interrupt()
	}
	close(h.release)

	require.Eventually(t, func() bool { return h.drains.Load() == 2 }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(2), h.drains.Load(), "queued interrupts collapse into one drain")
	assert.False(t, h.ShouldProcess())

	_, drains, _ := obs.snapshot()
	assert.Equal(t, 2, drains)
}

func TestLoop_StartError(t *testing.T) {
	h := &counterHooks{startErr: errors.New("no device")}
	lp := New("broken", h, WithLogger(quietLogger()))
	require.NoError(t, lp.Launch())

	select {
	case <-lp.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after start error")
	}
	assert.Equal(t, Stopped, lp.State())
	require.Error(t, lp.Err())
	assert.Contains(t, lp.Err().Error(), "no device")
	assert.False(t, h.stopped.Load(), "OnStop must not run when OnStart failed")
	lp.Stop()
}

type countingObserver struct {
	mu     sync.Mutex
	wakes  int
	drains int
	panics int
}

func (o *countingObserver) Wake(string) {
	o.mu.Lock()
	o.wakes++
	o.mu.Unlock()
}

func (o *countingObserver) Drain(string) {
	o.mu.Lock()
	o.drains++
	o.mu.Unlock()
}

func (o *countingObserver) Panic(string) {
	o.mu.Lock()
	o.panics++
	o.mu.Unlock()
}

func (o *countingObserver) snapshot() (int, int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.wakes, o.drains, o.panics
}

func TestLoop_PanicIsRecovered(t *testing.T) {
	h := &counterHooks{panicOn: 13}
	obs := &countingObserver{}
	lp := New("panicky", h, WithLogger(quietLogger()), WithObserver(obs))
	require.NoError(t, lp.Launch())
	defer lp.Stop()

	h.in.Push(13)
	lp.Interrupt()
	require.Eventually(t, func() bool {
		_, _, p := obs.snapshot()
		return p == 1
	}, time.Second, time.Millisecond)

	h.in.Push(5)
	lp.Interrupt()
	require.Eventually(t, func() bool { return h.sum.Load() == 5 }, time.Second, time.Millisecond)
	assert.Equal(t, Running, lp.State())

	wakes, drains, _ := obs.snapshot()
	assert.GreaterOrEqual(t, wakes, 1)
	assert.GreaterOrEqual(t, drains, 1)
}

func TestLoop_ConcurrentProducers(t *testing.T) {
	h := &counterHooks{}
	lp := New("busy", h, WithLogger(quietLogger()))
	require.NoError(t, lp.Launch())
	defer lp.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 250; j++ {
				h.in.Push(1)
				lp.Interrupt()
			}
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return h.sum.Load() == 2000 }, 2*time.Second, time.Millisecond)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "stopped", Stopped.String())
}
