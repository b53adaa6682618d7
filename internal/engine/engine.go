// Package engine builds the four game workers, connects their events and
// exposes the small input surface a shell needs.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/physics"
	"github.com/vovakirdan/arkanoid/internal/prize"
	"github.com/vovakirdan/arkanoid/internal/render"
	"github.com/vovakirdan/arkanoid/internal/sound"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

// Options configures an Engine.
type Options struct {
	Logger     *log.Logger
	Observer   worker.Observer
	Seed       int64
	FrameDelay time.Duration
	Now        func() time.Time
	Surface    render.Surface
	Sound      sound.Options
}

// Engine owns the game workers.
type Engine struct {
	Physics *physics.Processor
	Prizes  *prize.Tracker
	Sound   *sound.Dispatcher
	Render  *render.Context

	logger *log.Logger
	binder event.Binder

	mu       sync.Mutex
	last     render.Frame
	launched []runner
}

type runner interface {
	Launch() error
	Stop()
}

// New builds the workers and binds their events. Nothing runs until
// Launch.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	sopts := opts.Sound
	sopts.Logger = logger
	sopts.Observer = opts.Observer
	sopts.Seed = opts.Seed + 3
	snd, err := sound.NewDispatcher(sopts)
	if err != nil {
		return nil, fmt.Errorf("engine: sound: %w", err)
	}

	e := &Engine{
		Physics: physics.New(physics.Options{
			Seed:       opts.Seed,
			FrameDelay: opts.FrameDelay,
			Logger:     logger,
			Observer:   opts.Observer,
		}),
		Prizes: prize.New(prize.Options{Logger: logger, Observer: opts.Observer}),
		Sound:  snd,
		Render: render.New(render.Options{
			Logger:   logger,
			Observer: opts.Observer,
			Seed:     opts.Seed + 1,
			Now:      opts.Now,
			Surface:  opts.Surface,
		}),
		logger: logger.WithPrefix("engine"),
	}
	e.bind()
	return e, nil
}

func (e *Engine) bind() {
	b := &e.binder
	ph, pr, snd, rd := e.Physics, e.Prizes, e.Sound, e.Render

	// Presentation side.
	event.Bind(b, &rd.Events.Aspect, func(a float64) {
		ph.AspectMeasured(a)
		pr.AspectMeasured(a)
	})
	event.Bind(b, &rd.Events.InitBall, ph.InitBall)
	event.Bind(b, &rd.Events.InitBite, func(bite core.Bite) {
		ph.InitBite(bite)
		pr.InitBite(bite)
	})
	event.Bind(b, &rd.Events.LevelDimens, ph.LevelDimens)
	event.Bind(b, &rd.Events.BiteMoved, func(bite core.Bite) {
		ph.BiteMoved(bite)
		pr.BiteMoved(bite)
	})
	event.Bind(b, &rd.Events.PrizeLocated, pr.PrizeLocated)
	event.Bind(b, &rd.Events.PrizeGone, pr.PrizeGone)
	event.Bind(b, &rd.Events.LaserBeam, ph.LaserBeam)
	event.Bind(b, &rd.Events.LaserPulse, func(event.Signal) { snd.LaserPulse() })
	event.Bind(b, &rd.Events.ThrowBall, ph.ThrowBall)
	event.Bind(b, &rd.Events.LoadLevel, ph.LoadLevel)
	event.Bind(b, &rd.Events.Frame, e.keepFrame)

	// Game logic.
	event.Bind(b, &ph.Events.BallMoved, rd.BallMoved)
	event.Bind(b, &ph.Events.BallLost, func(event.Signal) {
		rd.BallLost()
		snd.BallLost()
	})
	event.Bind(b, &ph.Events.BallStopped, func(event.Signal) { rd.BallStopped() })
	event.Bind(b, &ph.Events.BiteImpact, func(event.Signal) { snd.BiteImpact() })
	event.Bind(b, &ph.Events.BlockImpact, func(rc level.RowCol) {
		rd.BlockImpact(rc)
		snd.BlockImpact(rc)
	})
	event.Bind(b, &ph.Events.WallImpact, func(event.Signal) { snd.WallImpact() })
	event.Bind(b, &ph.Events.LevelFinished, func(event.Signal) {
		rd.LevelFinished()
		snd.LevelFinished()
	})
	event.Bind(b, &ph.Events.Explosion, func(pkg core.ExplosionPackage) {
		rd.Explosion(pkg)
		snd.Explosion(pkg)
	})
	event.Bind(b, &ph.Events.PrizeSpawned, func(pkg core.PrizePackage) {
		rd.PrizeSpawned(pkg)
		pr.PrizeSpawned(pkg)
	})
	event.Bind(b, &ph.Events.DropBallAppearance, func(event.Signal) { rd.DropBallAppearance() })
	event.Bind(b, &ph.Events.BiteWidthChanged, rd.BiteWidthChanged)
	event.Bind(b, &ph.Events.LaserBeamVisibility, func(on bool) {
		rd.LaserVisibility(on)
		snd.LaserVisibility(on)
	})
	event.Bind(b, &ph.Events.LaserBlockImpact, func(event.Signal) {
		rd.LaserBlockImpact()
		snd.LaserBlockImpact()
	})
	event.Bind(b, &ph.Events.BallEffectChanged, snd.BallEffectChanged)

	// Prize tracker.
	event.Bind(b, &pr.Caught, func(pkg core.PrizePackage) {
		rd.PrizeCaught(pkg)
		ph.PrizeCaught(pkg)
		snd.PrizeCaught(pkg)
	})
}

// Bindings returns the number of bound event edges.
func (e *Engine) Bindings() int { return e.binder.Len() }

// Launch starts every worker. If one fails to start, the workers started
// by this call are stopped again.
func (e *Engine) Launch() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var started []runner
	for _, w := range []runner{e.Physics, e.Prizes, e.Sound, e.Render} {
		if err := w.Launch(); err != nil {
			for _, s := range started {
				s.Stop()
			}
			return fmt.Errorf("engine: launch: %w", err)
		}
		started = append(started, w)
	}
	e.launched = append(e.launched, started...)
	e.logger.Debug("launched", "workers", len(started), "bindings", e.binder.Len())
	return nil
}

// Stop stops every worker and releases the bindings.
func (e *Engine) Stop() {
	e.mu.Lock()
	launched := e.launched
	e.launched = nil
	e.mu.Unlock()

	// Producers first so nothing feeds a stopped worker for long.
	for i := len(launched) - 1; i >= 0; i-- {
		launched[i].Stop()
	}
	e.binder.Close()
	e.logger.Debug("stopped")
}

// SurfaceReady announces the drawing surface.
func (e *Engine) SurfaceReady(s core.Surface) { e.Render.SurfaceReady(s) }

// LoadResources loads sounds and picks a background.
func (e *Engine) LoadResources() {
	e.Render.LoadResources()
	e.Sound.LoadResources()
}

// Shift moves the bite towards x.
func (e *Engine) Shift(x float64) { e.Render.Shift(x) }

// Throw launches a resting ball at the default angle.
func (e *Engine) Throw() { e.ThrowAt(core.DefaultBallAng) }

// ThrowAt launches a resting ball at angle.
func (e *Engine) ThrowAt(angle float64) { e.Render.ThrowBall(angle) }

// LoadLevel starts a level from text rows.
func (e *Engine) LoadLevel(lines []string) {
	e.LoadInfo(level.Info{Lines: lines})
}

// LoadInfo starts a level. Bonus levels release a Block prize from every
// destroyed block.
func (e *Engine) LoadInfo(info level.Info) {
	lvl := info.Build(nil)
	e.logger.Info("loading level", "name", info.Name, "bonus", info.Bonus)
	e.Render.LoadLevel(lvl)
}

// SetBonusBlocks switches bonus prizes for the current level.
func (e *Engine) SetBonusBlocks(on bool) { e.Physics.SetBonusBlocks(on) }

// SetFrameDelay changes the ball pace.
func (e *Engine) SetFrameDelay(d time.Duration) { e.Physics.SetFrameDelay(d) }

// Tick advances animations while nothing else happens.
func (e *Engine) Tick() { e.Render.Tick() }

// Subscribe calls fn with every published frame.
func (e *Engine) Subscribe(fn func(render.Frame)) *event.Subscription {
	return e.Render.Events.Frame.Subscribe(fn)
}

func (e *Engine) keepFrame(f render.Frame) {
	e.mu.Lock()
	e.last = f
	e.mu.Unlock()
}

// LastFrame returns the most recent frame.
func (e *Engine) LastFrame() render.Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// LevelState returns the on-screen level as text rows, or nil before the
// first level.
func (e *Engine) LevelState() []string {
	f := e.LastFrame()
	if f.Grid == nil {
		return nil
	}
	out := make([]string, len(f.Grid))
	for r, row := range f.Grid {
		runes := make([]rune, len(row))
		for c, b := range row {
			runes[c] = level.Rune(b)
		}
		out[r] = string(runes)
	}
	return out
}
