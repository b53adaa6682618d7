package sound

import (
	"errors"
	"io/fs"
	"math/rand"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

// Options configures a Dispatcher.
type Options struct {
	Logger   *log.Logger
	Observer worker.Observer
	Seed     int64

	// Outputs are the pool channels. Empty means DefaultChannels silent
	// channels.
	Outputs []Output

	// Resources and Dir locate the WAV clips read on LoadResources.
	Resources fs.FS
	Dir       string
}

// Dispatcher is the sound worker. It maps game events to cues and plays a
// random clip of each cue through the channel pool.
type Dispatcher struct {
	// Cue fires for every cue selected, whether or not a clip exists.
	Cue event.Channel[string]
	// ResourceError fires for every clip that failed to load.
	ResourceError event.Channel[*DecodeError]

	loop   *worker.Loop
	logger *log.Logger
	pool   *Pool
	bank   *Bank
	rng    *rand.Rand
	res    fs.FS
	dir    string

	failures atomic.Int64
	clips    atomic.Int64

	loadIn         worker.Flag
	explosionIn    worker.Flag
	prizeIn        worker.Queue[core.Prize]
	biteIn         worker.Flag
	blockIn        worker.Queue[level.Block]
	wallIn         worker.Flag
	lostIn         worker.Flag
	finishedIn     worker.Flag
	laserVisibleIn worker.Slot[bool]
	laserBlockIn   worker.Flag
	laserPulseIn   worker.Flag
	effectIn       worker.Slot[core.BallEffect]
}

// NewDispatcher creates an idle dispatcher.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	outs := opts.Outputs
	if len(outs) == 0 {
		outs = NewSilentOutputs(DefaultChannels)
	}
	pool, err := NewPool(outs...)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	d := &Dispatcher{
		pool: pool,
		bank: NewBank(rng),
		rng:  rng,
		res:  opts.Resources,
		dir:  opts.Dir,
	}
	wopts := []worker.Option{worker.WithLogger(opts.Logger)}
	if opts.Observer != nil {
		wopts = append(wopts, worker.WithObserver(opts.Observer))
	}
	d.loop = worker.New("sound", d, wopts...)
	d.logger = d.loop.Logger()
	return d, nil
}

// Launch starts the worker goroutine.
func (d *Dispatcher) Launch() error { return d.loop.Launch() }

// Stop stops the worker and waits for it.
func (d *Dispatcher) Stop() { d.loop.Stop() }

// Failures returns how many clips failed to load.
func (d *Dispatcher) Failures() int { return int(d.failures.Load()) }

// Clips returns how many clips are loaded.
func (d *Dispatcher) Clips() int { return int(d.clips.Load()) }

func (d *Dispatcher) raise(f *worker.Flag) {
	f.Raise()
	d.loop.Interrupt()
}

// LoadResources reads the clips.
func (d *Dispatcher) LoadResources() { d.raise(&d.loadIn) }

// Explosion reports an explosion. It has no cue of its own.
func (d *Dispatcher) Explosion(core.ExplosionPackage) { d.raise(&d.explosionIn) }

// PrizeCaught plays the cue of a caught prize.
func (d *Dispatcher) PrizeCaught(pkg core.PrizePackage) {
	d.prizeIn.Push(pkg.Prize)
	d.loop.Interrupt()
}

// BiteImpact plays the bite cue.
func (d *Dispatcher) BiteImpact() { d.raise(&d.biteIn) }

// BlockImpact plays the cue of the block that was hit.
func (d *Dispatcher) BlockImpact(rc level.RowCol) {
	d.blockIn.Push(rc.Block)
	d.loop.Interrupt()
}

// WallImpact reports a wall bounce.
func (d *Dispatcher) WallImpact() { d.raise(&d.wallIn) }

// BallLost plays the lose cue.
func (d *Dispatcher) BallLost() { d.raise(&d.lostIn) }

// LevelFinished plays the win cue.
func (d *Dispatcher) LevelFinished() { d.raise(&d.finishedIn) }

// LaserVisibility reports the laser being armed or disarmed.
func (d *Dispatcher) LaserVisibility(on bool) {
	d.laserVisibleIn.Put(on)
	d.loop.Interrupt()
}

// LaserBlockImpact reports a laser hit on a block.
func (d *Dispatcher) LaserBlockImpact() { d.raise(&d.laserBlockIn) }

// LaserPulse plays the laser cue.
func (d *Dispatcher) LaserPulse() { d.raise(&d.laserPulseIn) }

// BallEffectChanged plays the cue of a new ball effect.
func (d *Dispatcher) BallEffectChanged(e core.BallEffect) {
	d.effectIn.Put(e)
	d.loop.Interrupt()
}

// OnStart implements worker.Hooks.
func (d *Dispatcher) OnStart() error {
	d.logger.Debug("ready", "channels", d.pool.Len())
	return nil
}

// OnStop implements worker.Hooks.
func (d *Dispatcher) OnStop() { d.pool.Clear() }

// ShouldProcess implements worker.Hooks.
func (d *Dispatcher) ShouldProcess() bool {
	return d.loadIn.Pending() ||
		d.explosionIn.Pending() ||
		d.prizeIn.Pending() ||
		d.biteIn.Pending() ||
		d.blockIn.Pending() ||
		d.wallIn.Pending() ||
		d.lostIn.Pending() ||
		d.finishedIn.Pending() ||
		d.laserVisibleIn.Pending() ||
		d.laserBlockIn.Pending() ||
		d.laserPulseIn.Pending() ||
		d.effectIn.Pending()
}

// ProcessOnce implements worker.Hooks.
func (d *Dispatcher) ProcessOnce() {
	if d.loadIn.Take() {
		d.load()
	}
	d.explosionIn.Take()
	for _, p := range d.prizeIn.Drain() {
		d.play(PrizeCategory(p))
	}
	if d.biteIn.Take() {
		d.play(CueBite)
	}
	for _, b := range d.blockIn.Drain() {
		d.play(BlockCategory(b))
	}
	d.wallIn.Take()
	if d.lostIn.Take() {
		d.play(CueLose)
	}
	if d.finishedIn.Take() {
		d.play(CueWin)
	}
	d.laserVisibleIn.Take()
	d.laserBlockIn.Take()
	if d.laserPulseIn.Take() {
		d.play(CueLaser)
	}
	if e, ok := d.effectIn.Take(); ok {
		d.play(EffectCategory(e))
	}
}

func (d *Dispatcher) load() {
	if d.res == nil {
		d.logger.Debug("no sound resources")
		return
	}
	bank, errs := LoadDir(d.res, d.dir, d.rng)
	for _, err := range errs {
		d.failures.Add(1)
		d.logger.Warn("clip skipped", "err", err)
		var de *DecodeError
		if errors.As(err, &de) {
			d.ResourceError.Emit(de)
		}
	}
	d.bank.Merge(bank)
	d.clips.Store(int64(d.bank.Len()))
	d.logger.Info("clips loaded", "count", d.bank.Len(), "failed", len(errs))
}

func (d *Dispatcher) play(cue string) {
	if cue == "" {
		return
	}
	d.Cue.Emit(cue)
	clip, err := d.bank.Random(cue)
	if err != nil {
		d.logger.Debug("cue skipped", "cue", cue, "err", err)
		return
	}
	if _, err := d.pool.Enqueue(clip); err != nil {
		d.logger.Error("play failed", "clip", clip.Name, "err", err)
	}
}
