package tui

import (
	"io"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/engine"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/metrics"
	"github.com/vovakirdan/arkanoid/internal/sound"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

func testLevels() []level.Info {
	return []level.Info{
		{Name: "one", Title: "One", Lines: []string{"BBBB", "SSSS"}},
		{Name: "two", Title: "Two", Lines: []string{"TTTT"}},
		{Name: "three", Title: "Three", Lines: []string{"BSBS"}},
	}
}

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.Physics.Seed = 7
	cfg.Physics.FrameDelay = time.Millisecond
	cfg.Levels.Start = "two"
	cfg.Difficulty.Progression.MaxAt = 2
	return cfg
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newGame(t *testing.T, store *storage.Store) *Game {
	t.Helper()
	g, err := NewGame(GameOptions{
		Config:  testConfig(),
		Levels:  testLevels(),
		Store:   store,
		Metrics: metrics.New(),
		Player:  "ann",
		Logger:  log.NewWithOptions(io.Discard, log.Options{}),
		Outputs: sound.NewSilentOutputs(2),
	})
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func rows(lines ...string) []string { return level.FromStrings(lines, nil).Strings() }

// showField announces a surface and ticks until a frame with a level
// arrives.
func showField(t *testing.T, g *Game) {
	t.Helper()
	g.Engine.SurfaceReady(FieldSurface(40, 22))
	require.Eventually(t, func() bool {
		g.Engine.Tick()
		return g.Engine.LevelState() != nil
	}, 2*time.Second, 5*time.Millisecond)
}

func TestGame_StartsAtConfiguredLevel(t *testing.T) {
	g := newGame(t, nil)
	require.NoError(t, g.Start(false))
	st := g.Session.Stats()
	assert.Equal(t, 1, st.Level)
	assert.Equal(t, "Two", st.Title)

	showField(t, g)
	assert.Equal(t, rows("TTTT"), g.Engine.LevelState())
}

func TestGame_UnknownStartFallsBack(t *testing.T) {
	g := newGame(t, nil)
	g.cfg.Levels.Start = "missing"
	require.NoError(t, g.Start(false))
	assert.Zero(t, g.Session.Stats().Level)
}

func TestGame_SaveWithoutStore(t *testing.T) {
	g := newGame(t, nil)
	assert.ErrorIs(t, g.Save(), ErrNoStore)
}

func TestGame_SaveAndResume(t *testing.T) {
	store := openStore(t)
	g := newGame(t, store)
	require.NoError(t, g.Start(false))
	showField(t, g)
	g.Session.AddScore(40)
	require.NoError(t, g.Save())
	g.Close()

	saved, err := store.LoadGame("ann")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.Level)
	assert.Equal(t, 40, saved.Score)
	assert.Equal(t, rows("TTTT"), saved.State)

	r := newGame(t, store)
	require.NoError(t, r.Start(true))
	assert.Equal(t, engine.Stats{Lives: engine.InitialLives, Level: 1, Score: 40, Title: "Two"}, r.Session.Stats())
}

func TestGame_GameOverSavesScore(t *testing.T) {
	store := openStore(t)
	g := newGame(t, store)
	require.NoError(t, g.Start(false))

	g.Session.GameOver.Emit(engine.Stats{Lives: -1, Level: 2, Score: 120})
	g.Session.GameOver.Emit(engine.Stats{Lives: -1, Level: 0, Score: 0})

	top, err := store.TopScores(10)
	require.NoError(t, err)
	require.Len(t, top, 1, "zero scores are not kept")
	assert.Equal(t, "ann", top[0].Player)
	assert.Equal(t, 120, top[0].Score)
	assert.Equal(t, "three", top[0].LevelName)
}

func TestGame_Pace(t *testing.T) {
	g := newGame(t, nil)
	require.NoError(t, g.Start(false))
	assert.True(t, g.Pace(), "level two of three sits halfway")
	ms := time.Millisecond
	assert.Equal(t, time.Duration(float64(ms)/1.5), g.Delay())
	assert.False(t, g.Pace())

	require.NoError(t, g.Session.Start(0))
	assert.True(t, g.Pace())
	assert.Equal(t, time.Millisecond, g.Delay())
}

func TestGame_Screenshot(t *testing.T) {
	g := newGame(t, nil)
	require.NoError(t, g.Start(false))
	showField(t, g)

	path, err := g.Screenshot(t.TempDir())
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestGame_CloseTwice(t *testing.T) {
	g := newGame(t, nil)
	g.Close()
	g.Close()
	assert.Zero(t, g.Engine.Bindings())
}

func TestModel_Resize(t *testing.T) {
	g := newGame(t, nil)
	require.NoError(t, g.Start(false))
	m := NewModel(g, 30)
	assert.Contains(t, m.View(), "waiting")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 22})
	m = next.(Model)
	assert.Equal(t, 40, m.canvas.w)
	assert.Equal(t, 20, m.canvas.h)

	require.Eventually(t, func() bool {
		g.Engine.Tick()
		return g.Engine.LastFrame().Surface.Width == 40
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, m.View(), "Score 0")
}

func TestModel_Keys(t *testing.T) {
	store := openStore(t)
	g := newGame(t, store)
	require.NoError(t, g.Start(false))
	m := NewModel(g, 30)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = next.(Model)
	assert.True(t, m.help.ShowAll)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = next.(Model)
	assert.Equal(t, 2, g.Session.Stats().Level)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())

	saved, err := store.LoadGame("ann")
	require.NoError(t, err)
	require.NotNil(t, saved, "quitting autosaves")
	assert.Equal(t, 2, saved.Level)
}

func TestFieldSurface(t *testing.T) {
	s := FieldSurface(80, 22)
	assert.Equal(t, 80, s.Width)
	assert.Equal(t, 20, s.Height)
	assert.InDelta(t, 2.0, s.Aspect, 1e-9)
	assert.False(t, FieldSurface(80, 2).Valid())
}

func TestGate(t *testing.T) {
	g := newGate(0, 0, 2)
	_, ok := g.enter()
	assert.True(t, ok)
	_, ok = g.enter()
	assert.True(t, ok)
	reason, ok := g.enter()
	assert.False(t, ok)
	assert.Equal(t, metrics.ReasonFull, reason)
	g.leave()
	_, ok = g.enter()
	assert.True(t, ok)

	limited := newGate(0.001, 1, 0)
	_, ok = limited.enter()
	assert.True(t, ok)
	reason, ok = limited.enter()
	assert.False(t, ok)
	assert.Equal(t, metrics.ReasonRateLimit, reason)
}
