package render

import (
	"bytes"
	"image/png"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recorder struct {
	frames   []Frame
	bites    []core.Bite
	located  []core.PrizePackage
	gone     []int
	beams    []core.LaserPackage
	pulses   int
	levels   []*level.Level
	dimens   []core.LevelDimens
	throws   []float64
	initBall []core.Ball
}

func record(c *Context) *recorder {
	r := &recorder{}
	c.Events.Frame.Subscribe(func(f Frame) { r.frames = append(r.frames, f) })
	c.Events.BiteMoved.Subscribe(func(b core.Bite) { r.bites = append(r.bites, b) })
	c.Events.PrizeLocated.Subscribe(func(p core.PrizePackage) { r.located = append(r.located, p) })
	c.Events.PrizeGone.Subscribe(func(id int) { r.gone = append(r.gone, id) })
	c.Events.LaserBeam.Subscribe(func(l core.LaserPackage) { r.beams = append(r.beams, l) })
	c.Events.LaserPulse.Subscribe(func(event.Signal) { r.pulses++ })
	c.Events.LoadLevel.Subscribe(func(l *level.Level) { r.levels = append(r.levels, l) })
	c.Events.LevelDimens.Subscribe(func(d core.LevelDimens) { r.dimens = append(r.dimens, d) })
	c.Events.ThrowBall.Subscribe(func(a float64) { r.throws = append(r.throws, a) })
	c.Events.InitBall.Subscribe(func(b core.Ball) { r.initBall = append(r.initBall, b) })
	return r
}

func (r *recorder) last() Frame { return r.frames[len(r.frames)-1] }

func newContext(t *testing.T) (*Context, *recorder, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Unix(1000, 0)}
	c := New(Options{
		Logger: log.NewWithOptions(io.Discard, log.Options{}),
		Seed:   1,
		Now:    clk.now,
	})
	r := record(c)
	c.SurfaceReady(core.Surface{Width: 100, Height: 100, Aspect: 1})
	c.ProcessOnce()
	require.Len(t, r.frames, 1)
	return c, r, clk
}

func TestContext_WaitsForSurface(t *testing.T) {
	c := New(Options{Logger: log.NewWithOptions(io.Discard, log.Options{})})
	r := record(c)

	c.Shift(0.1)
	assert.False(t, c.ShouldProcess(), "input before the surface must wait")

	c.SurfaceReady(core.Surface{})
	require.True(t, c.ShouldProcess())
	c.ProcessOnce()
	assert.Empty(t, r.frames, "an empty surface is rejected")
	assert.False(t, c.ShouldProcess())

	c.SurfaceReady(core.Surface{Width: 80, Height: 24, Aspect: 2})
	c.ProcessOnce()
	require.Len(t, r.frames, 1)
	require.Len(t, r.initBall, 1)
	assert.InDelta(t, core.BallSize*2, r.initBall[0].Height, 1e-12)
	assert.InDelta(t, 0.1, r.last().Bite.X, 1e-12, "the waiting shift ran after the surface")
	assert.False(t, c.ShouldProcess())
}

func TestContext_Shift(t *testing.T) {
	tests := []struct {
		name  string
		moves []float64
		want  float64
	}{
		{"within touch area", []float64{0.1}, 0.1},
		{"too far", []float64{0.5}, 0},
		{"walks to the wall", []float64{0.14, 0.28, 0.42, 0.56, 0.7, 0.84}, 1 - 0.5*core.BiteNormalWidth},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, r, _ := newContext(t)
			for _, x := range tc.moves {
				c.Shift(x)
				c.ProcessOnce()
			}
			assert.InDelta(t, tc.want, r.last().Bite.X, 1e-12)
		})
	}
}

func TestContext_LoadLevelHandsOverCopy(t *testing.T) {
	c, r, _ := newContext(t)
	lvl := level.FromStrings([]string{"BBB", "S.S"}, nil)
	c.LoadLevel(lvl)
	c.ProcessOnce()

	require.Len(t, r.levels, 1)
	assert.NotSame(t, lvl, r.levels[0])
	assert.Equal(t, lvl.Strings(), r.levels[0].Strings())
	require.Len(t, r.dimens, 1)
	assert.Equal(t, 2, r.dimens[0].Rows)
	assert.Equal(t, 3, r.dimens[0].Cols)
	assert.Equal(t, level.Brick, r.last().Grid[0][1])
}

func TestContext_BlockImpact(t *testing.T) {
	c, r, _ := newContext(t)
	c.LoadLevel(level.FromStrings([]string{"BBB"}, nil))
	c.ProcessOnce()

	c.BlockImpact(level.RowCol{Row: 0, Col: 1, Block: level.Brick, After: level.Simple})
	c.BlockImpact(level.RowCol{Row: 5, Col: 9, After: level.None})
	c.BlockImpact(level.RowCol{Row: 0, Col: 2, Block: level.Brick, After: level.None})
	c.ProcessOnce()

	grid := r.last().Grid
	assert.Equal(t, level.Simple, grid[0][1])
	assert.Equal(t, level.None, grid[0][2], "an out-of-range impact drops only itself")
}

func TestContext_StaleImpactFirst(t *testing.T) {
	c, r, _ := newContext(t)
	c.LoadLevel(level.FromStrings([]string{"SS"}, nil))
	c.ProcessOnce()

	c.BlockImpact(level.RowCol{Row: 9, Col: 9, After: level.None})
	c.BlockImpact(level.RowCol{Row: 0, Col: 0, Block: level.Simple, After: level.None})
	c.ProcessOnce()

	assert.Equal(t, []level.Block{level.None, level.Simple}, r.last().Grid[0])
}

func TestContext_ImpactsBeforeNewLevel(t *testing.T) {
	c, r, _ := newContext(t)
	old := level.FromStrings([]string{"BB"}, nil)
	c.LoadLevel(old)
	c.ProcessOnce()

	c.BlockImpact(level.RowCol{Row: 0, Col: 0, After: level.None})
	c.LoadLevel(level.FromStrings([]string{"II"}, nil))
	c.ProcessOnce()

	assert.Equal(t, level.None, old.Block(0, 0))
	assert.Equal(t, []level.Block{level.Iron, level.Iron}, r.last().Grid[0])
}

func TestContext_ThrowIsForwarded(t *testing.T) {
	c, r, _ := newContext(t)
	c.ThrowBall(1.2)
	c.ProcessOnce()
	assert.Equal(t, []float64{1.2}, r.throws)
}

func TestContext_PrizeFalls(t *testing.T) {
	c, r, clk := newContext(t)
	c.PrizeSpawned(core.PrizePackage{ID: 4, X: 0.3, Y: 0.5, Prize: core.PrizeSlow})
	c.ProcessOnce()
	require.Len(t, r.located, 1)
	assert.InDelta(t, 0.5, r.located[0].Y, 1e-9)

	clk.advance(time.Second)
	c.Tick()
	c.ProcessOnce()
	require.Len(t, r.located, 2)
	assert.InDelta(t, 0.5-core.PrizeSpeed, r.located[1].Y, 1e-9)
	require.Len(t, r.last().Prizes, 1)

	// Below the bite: reported gone once.
	clk.advance(900 * time.Millisecond)
	c.Tick()
	c.ProcessOnce()
	c.Tick()
	c.ProcessOnce()
	assert.Equal(t, []int{4}, r.gone)
	assert.Len(t, r.located, 2)

	// Out of the field: dropped.
	clk.advance(300 * time.Millisecond)
	c.Tick()
	c.ProcessOnce()
	assert.Empty(t, r.last().Prizes)
}

func TestContext_PrizeCaught(t *testing.T) {
	c, r, _ := newContext(t)
	c.PrizeSpawned(core.PrizePackage{ID: 1, X: -0.2, Y: 0.1, Prize: core.PrizeGoo})
	c.ProcessOnce()
	c.PrizeCaught(core.PrizePackage{ID: 1, Prize: core.PrizeGoo, Caught: true})
	c.ProcessOnce()

	f := r.last()
	assert.Empty(t, f.Prizes)
	assert.Equal(t, []float64{-0.2}, f.Catches)
	assert.Equal(t, core.EffectGoo, f.Appearance)

	c.DropBallAppearance()
	c.ProcessOnce()
	assert.Equal(t, core.EffectNone, r.last().Appearance)
}

func TestContext_Laser(t *testing.T) {
	c, r, clk := newContext(t)
	c.LaserVisibility(true)
	c.ProcessOnce()
	assert.Equal(t, 1, r.pulses, "arming fires the first pulse")
	require.Len(t, r.beams, 1)
	assert.InDelta(t, core.UpperBorder, r.beams[0].Y, 1e-9)

	clk.advance(100 * time.Millisecond)
	c.Tick()
	c.ProcessOnce()
	require.Len(t, r.beams, 2)
	assert.InDelta(t, core.UpperBorder+0.1*core.LaserSpeed, r.beams[1].Y, 1e-9)

	c.LaserBlockImpact()
	c.ProcessOnce()
	assert.Len(t, r.beams, 2, "a hit beam stops reporting")
	assert.False(t, r.last().LaserLive)

	clk.advance(core.LaserCycle)
	c.Tick()
	c.ProcessOnce()
	assert.Equal(t, 2, r.pulses)
	assert.Len(t, r.beams, 3)

	c.BallStopped()
	c.ProcessOnce()
	assert.False(t, r.last().Laser)
}

func TestContext_FullWidthBiteCenters(t *testing.T) {
	c, r, _ := newContext(t)
	c.Shift(0.1)
	c.ProcessOnce()
	c.BiteWidthChanged(core.BiteFull)
	c.ProcessOnce()
	assert.Zero(t, r.last().Bite.X)
	assert.Equal(t, core.BiteFullWidth, r.last().Bite.Width)

	c.BiteWidthChanged(core.BiteNone)
	c.ProcessOnce()
	assert.Equal(t, core.BiteNormalWidth, r.last().Bite.Width)
}

func TestContext_LostBallResets(t *testing.T) {
	c, r, _ := newContext(t)
	c.Shift(0.1)
	c.PrizeSpawned(core.PrizePackage{ID: 1, Y: 0.5})
	c.ProcessOnce()
	c.BallLost()
	c.ProcessOnce()

	f := r.last()
	assert.Empty(t, f.Prizes)
	assert.Zero(t, f.Bite.X)
	assert.Zero(t, f.Ball.X)
	assert.InDelta(t, core.UpperBorder+0.5*core.BallSize, f.Ball.Y, 1e-12)
}

func TestFrame_SeqIncreases(t *testing.T) {
	c, r, _ := newContext(t)
	c.Tick()
	c.ProcessOnce()
	require.Len(t, r.frames, 2)
	assert.Less(t, r.frames[0].Seq, r.frames[1].Seq)
}

func TestCell(t *testing.T) {
	col, row, ok := Cell(-1, 1, 10, 5)
	assert.True(t, ok)
	assert.Equal(t, [2]int{0, 0}, [2]int{col, row})

	col, row, ok = Cell(1, -1, 10, 5)
	assert.True(t, ok)
	assert.Equal(t, [2]int{9, 4}, [2]int{col, row})

	_, _, ok = Cell(0, math.Inf(1), 10, 5)
	assert.False(t, ok)
}

func TestWritePNG(t *testing.T) {
	lvl := level.FromStrings([]string{"BIS.", "TTGG"}, nil)
	f := LevelFrame(lvl, 1)
	f.Prizes = []core.PrizePackage{{X: 0, Y: 0}}
	f.Explosions = []core.ExplosionPackage{{X: 0.2, Y: 0.5, Color: core.Red}}

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, f, 64))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 64, img.Bounds().Dy())

	assert.ErrorIs(t, WritePNG(io.Discard, f, 0), ErrNoSurface)
}

func TestContext_Worker(t *testing.T) {
	got := make(chan Frame, 16)
	c := New(Options{
		Logger:  log.NewWithOptions(io.Discard, log.Options{}),
		Surface: SurfaceFunc(func(f Frame) { got <- f }),
	})
	require.NoError(t, c.Launch())
	defer c.Stop()

	c.SurfaceReady(core.Surface{Width: 10, Height: 10, Aspect: 1})
	select {
	case f := <-got:
		assert.Equal(t, uint64(1), f.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame")
	}
}
