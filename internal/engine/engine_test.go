package engine

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/render"
	"github.com/vovakirdan/arkanoid/internal/sound"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

func quiet() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

type counter struct {
	mu     sync.Mutex
	wakes  map[string]int
	panics int
}

func (c *counter) Wake(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.wakes == nil {
		c.wakes = make(map[string]int)
	}
	c.wakes[name]++
}

func (c *counter) Drain(string) {}

func (c *counter) Panic(string) {
	c.mu.Lock()
	c.panics++
	c.mu.Unlock()
}

func (c *counter) woke(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wakes[name] > 0
}

var _ worker.Observer = (*counter)(nil)

func newEngine(t *testing.T, obs worker.Observer) *Engine {
	t.Helper()
	e, err := New(Options{
		Logger:     quiet(),
		Observer:   obs,
		Seed:       7,
		FrameDelay: time.Millisecond,
		Sound:      sound.Options{Outputs: sound.NewSilentOutputs(2)},
	})
	require.NoError(t, err)
	return e
}

func TestEngine_BindsEveryEdge(t *testing.T) {
	e := newEngine(t, nil)
	defer e.Stop()

	// One binding per source channel.
	assert.Equal(t, 27, e.Bindings())
	assert.Equal(t, 1, e.Physics.Events.BlockImpact.Len())
	assert.Equal(t, 1, e.Render.Events.Frame.Len())
	assert.Equal(t, 1, e.Prizes.Caught.Len())

	e.Stop()
	assert.Zero(t, e.Bindings())
	assert.Zero(t, e.Physics.Events.BlockImpact.Len())
}

func TestEngine_LaunchTwiceFails(t *testing.T) {
	e := newEngine(t, nil)
	defer e.Stop()

	require.NoError(t, e.Launch())
	err := e.Launch()
	require.ErrorIs(t, err, worker.ErrAlreadyLaunched)
	assert.Equal(t, worker.Running, e.Physics.Loop().State(), "the first launch keeps running")
	assert.Equal(t, worker.Running, e.Render.Loop().State())

	e.Stop()
	assert.Equal(t, worker.Stopped, e.Render.Loop().State())
}

func TestEngine_LoadLevelReachesScreen(t *testing.T) {
	obs := &counter{}
	e := newEngine(t, obs)
	require.NoError(t, e.Launch())
	defer e.Stop()

	lines := level.FromStrings([]string{"TVB", "BBB"}, nil).Strings()
	e.SurfaceReady(core.Surface{Width: 80, Height: 40, Aspect: 2})
	e.LoadLevel(lines)

	require.Eventually(t, func() bool { return len(e.LevelState()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, lines, e.LevelState())
	assert.Eventually(t, func() bool { return obs.woke("physics") }, 2*time.Second, 5*time.Millisecond,
		"the level is handed over to physics")

	f := e.LastFrame()
	assert.InDelta(t, core.BallSize*2, f.Ball.Height, 1e-12)
	assert.Equal(t, 2, f.Dimens.Rows)
}

func TestEngine_ThrowMovesBall(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.Launch())
	defer e.Stop()

	var mu sync.Mutex
	var ys []float64
	sub := e.Subscribe(func(f render.Frame) {
		mu.Lock()
		ys = append(ys, f.Ball.Y)
		mu.Unlock()
	})
	defer sub.Close()

	e.SurfaceReady(core.Surface{Width: 100, Height: 100, Aspect: 1})
	e.LoadLevel([]string{"BBBB"})
	require.Eventually(t, func() bool { return e.LevelState() != nil }, 2*time.Second, 5*time.Millisecond)

	rest := e.LastFrame().Ball.Y
	e.Throw()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, y := range ys {
			if y > rest+0.05 {
				return true
			}
		}
		return false
	}, 2*time.Second, 5*time.Millisecond, "the thrown ball rises")
}

func TestEngine_ShiftMovesBite(t *testing.T) {
	e := newEngine(t, nil)
	require.NoError(t, e.Launch())
	defer e.Stop()

	e.SurfaceReady(core.Surface{Width: 100, Height: 100, Aspect: 1})
	e.Shift(0.1)
	assert.Eventually(t, func() bool {
		f := e.LastFrame()
		return f.Bite.X > 0.09 && f.Ball.X > 0.09
	}, 2*time.Second, 5*time.Millisecond)
}

func TestEngine_LevelStateBeforeLevel(t *testing.T) {
	e := newEngine(t, nil)
	defer e.Stop()
	assert.Nil(t, e.LevelState())
}
