package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/engine"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/metrics"
	"github.com/vovakirdan/arkanoid/internal/render"
	"github.com/vovakirdan/arkanoid/internal/sound"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

// ErrNoStore is returned by Save when the game has no store or player.
var ErrNoStore = errors.New("tui: no store to save to")

// ScreenshotSize is the side of saved PNG screenshots in pixels.
const ScreenshotSize = 640

// GameOptions configures a Game.
type GameOptions struct {
	Config  config.Config
	Levels  []level.Info     // nil means the built-in levels
	Store   *storage.Store   // Optional, enables scores and saves
	Metrics *metrics.Metrics // Optional
	Player  string
	Logger  *log.Logger
	Outputs []sound.Output // Empty means silent channels
}

// Game is one running engine with its session, wired to storage and
// metrics.
type Game struct {
	Engine  *engine.Engine
	Session *engine.Session

	cfg        config.Config
	levels     []level.Info
	store      *storage.Store
	metrics    *metrics.Metrics
	player     string
	logger     *log.Logger
	difficulty *config.DifficultyManager
	delay      time.Duration

	binder event.Binder
	once   sync.Once
}

// NewGame builds and launches the engine. Nothing is loaded until Start.
func NewGame(opts GameOptions) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	cfg := opts.Config
	levels := opts.Levels
	if len(levels) == 0 {
		var err error
		if levels, err = level.Builtins(); err != nil {
			return nil, err
		}
	}

	seed := cfg.Physics.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eopts := engine.Options{
		Logger:     logger,
		Seed:       seed,
		FrameDelay: cfg.Physics.FrameDelay,
		Sound:      sound.Options{Outputs: opts.Outputs},
	}
	if opts.Metrics != nil {
		eopts.Observer = opts.Metrics
	}
	if cfg.Sound.Enabled && cfg.Sound.Dir != "" {
		eopts.Sound.Resources = os.DirFS(cfg.Sound.Dir)
		eopts.Sound.Dir = "."
	}
	eng, err := engine.New(eopts)
	if err != nil {
		return nil, err
	}
	sess, err := engine.NewSession(eng, levels, logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		Engine:     eng,
		Session:    sess,
		cfg:        cfg,
		levels:     levels,
		store:      opts.Store,
		metrics:    opts.Metrics,
		player:     opts.Player,
		logger:     logger.WithPrefix("game"),
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
		delay:      cfg.Physics.FrameDelay,
	}
	sess.Bind(eng)
	g.bind()

	if g.store != nil && g.player != "" {
		if err := g.store.TouchPlayer(g.player); err != nil {
			g.logger.Warn("could not record player", "player", g.player, "err", err)
		}
	}
	if err := eng.Launch(); err != nil {
		g.Close()
		return nil, fmt.Errorf("tui: launch engine: %w", err)
	}
	eng.LoadResources()
	return g, nil
}

func (g *Game) bind() {
	event.Bind(&g.binder, &g.Session.GameOver, g.gameOver)
	if g.metrics == nil {
		return
	}
	m := g.metrics
	event.Bind(&g.binder, &g.Engine.Physics.Events.BallLost, func(event.Signal) { m.BallLost() })
	event.Bind(&g.binder, &g.Engine.Physics.Events.LevelFinished, func(event.Signal) { m.LevelFinished() })
	event.Bind(&g.binder, &g.Engine.Render.Events.Frame, func(render.Frame) { m.FramePublished() })
}

func (g *Game) gameOver(st engine.Stats) {
	g.logger.Info("game over", "player", g.player, "score", st.Score, "level", st.Level)
	if g.metrics != nil {
		g.metrics.GameOver(st.Score)
	}
	if g.store == nil || g.player == "" || st.Score <= 0 {
		return
	}
	entry := storage.ScoreEntry{Player: g.player, Level: st.Level, Score: st.Score}
	if st.Level >= 0 && st.Level < len(g.levels) {
		entry.LevelName = g.levels[st.Level].Name
	}
	if _, err := g.store.SaveScore(entry); err != nil {
		g.logger.Warn("could not save score", "err", err)
	}
}

// Start begins at the configured start level, or resumes the player's
// saved game when resume is set and one exists.
func (g *Game) Start(resume bool) error {
	if resume && g.store != nil && g.player != "" {
		saved, err := g.store.LoadGame(g.player)
		switch {
		case err != nil:
			g.logger.Warn("could not load saved game", "err", err)
		case saved != nil:
			err = g.Session.Resume(engine.SavedGame{
				Lives: saved.Lives,
				Level: saved.Level,
				Score: saved.Score,
				State: saved.State,
			})
			if err == nil {
				g.logger.Info("resumed", "player", g.player, "level", saved.Level)
				return nil
			}
			g.logger.Warn("saved game rejected", "err", err)
		}
	}
	idx, ok := level.Find(g.levels, g.cfg.Levels.Start)
	if !ok {
		idx = 0
	}
	return g.Session.Start(idx)
}

// Save stores the current session for the player.
func (g *Game) Save() error {
	if g.store == nil || g.player == "" {
		return ErrNoStore
	}
	snap := g.Session.Snapshot(g.Engine.LevelState())
	return g.store.SaveGame(storage.SavedGame{
		Player: g.player,
		Lives:  snap.Lives,
		Level:  snap.Level,
		Score:  snap.Score,
		State:  snap.State,
	})
}

// Screenshot writes the last frame as a PNG into dir and returns its
// path.
func (g *Game) Screenshot(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: screenshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("arkanoid_%s.png", time.Now().Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("tui: screenshot: %w", err)
	}
	defer f.Close()
	if err := render.WritePNG(f, g.Engine.LastFrame(), ScreenshotSize); err != nil {
		return "", err
	}
	return path, nil
}

// Pace applies the difficulty frame delay for the current stats. It
// reports whether the delay changed.
func (g *Game) Pace() bool {
	st := g.Session.Stats()
	d := g.difficulty.FrameDelay(g.cfg.Physics.FrameDelay, st.Score, st.Level)
	if d == g.delay {
		return false
	}
	g.delay = d
	g.Engine.SetFrameDelay(d)
	return true
}

// Delay returns the last frame delay sent to the engine.
func (g *Game) Delay() time.Duration { return g.delay }

// Close stops the engine and releases every binding. It is idempotent.
func (g *Game) Close() {
	g.once.Do(func() {
		g.binder.Close()
		g.Session.Close()
		g.Engine.Stop()
	})
}
