// Package prize tracks falling prizes and detects when the bite catches
// one.
package prize

import (
	"sort"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

// Options configures a Tracker.
type Options struct {
	Logger   *log.Logger
	Observer worker.Observer
}

// Tracker is the prize worker. It learns about prizes from the game logic,
// follows their positions as the presentation side moves them, and emits
// Caught when one lands on the bite.
type Tracker struct {
	// Caught fires once per caught prize, on the tracker goroutine.
	Caught event.Channel[core.PrizePackage]

	loop   *worker.Loop
	logger *log.Logger

	aspectIn    worker.Slot[float64]
	initBiteIn  worker.Slot[core.Bite]
	biteMovedIn worker.Slot[core.Bite]
	spawnedIn   worker.Queue[core.PrizePackage]
	locatedIn   worker.Queue[core.PrizePackage]
	goneIn      worker.Queue[int]

	aspect  float64
	bite    core.Bite
	upper   float64
	prizes  map[int]core.PrizePackage
	removed map[int]struct{}
	retired map[int]struct{}
	tracked atomic.Int32
}

// New creates an idle tracker.
func New(opts Options) *Tracker {
	t := &Tracker{
		aspect:  1,
		bite:    core.Bite{Width: core.BiteNormalWidth, Height: core.BiteHeight},
		upper:   core.UpperBorder,
		prizes:  make(map[int]core.PrizePackage),
		removed: make(map[int]struct{}),
		retired: make(map[int]struct{}),
	}
	wopts := []worker.Option{worker.WithLogger(opts.Logger)}
	if opts.Observer != nil {
		wopts = append(wopts, worker.WithObserver(opts.Observer))
	}
	t.loop = worker.New("prize", t, wopts...)
	t.logger = t.loop.Logger()
	return t
}

// Launch starts the worker goroutine.
func (t *Tracker) Launch() error { return t.loop.Launch() }

// Stop stops the worker and waits for it.
func (t *Tracker) Stop() { t.loop.Stop() }

// AspectMeasured stores the surface aspect ratio.
func (t *Tracker) AspectMeasured(aspect float64) {
	t.aspectIn.Put(aspect)
	t.loop.Interrupt()
}

// InitBite resets the bite.
func (t *Tracker) InitBite(b core.Bite) {
	t.initBiteIn.Put(b)
	t.loop.Interrupt()
}

// BiteMoved reports the bite position.
func (t *Tracker) BiteMoved(b core.Bite) {
	t.biteMovedIn.Put(b)
	t.loop.Interrupt()
}

// PrizeSpawned registers a new prize.
func (t *Tracker) PrizeSpawned(pkg core.PrizePackage) {
	t.spawnedIn.Push(pkg)
	t.loop.Interrupt()
}

// PrizeLocated reports the current position of a prize.
func (t *Tracker) PrizeLocated(pkg core.PrizePackage) {
	t.locatedIn.Push(pkg)
	t.loop.Interrupt()
}

// PrizeGone reports a prize that fell out of the field.
func (t *Tracker) PrizeGone(id int) {
	t.goneIn.Push(id)
	t.loop.Interrupt()
}

// Len returns the number of prizes tracked after the last drain.
func (t *Tracker) Len() int { return int(t.tracked.Load()) }

// OnStart implements worker.Hooks.
func (t *Tracker) OnStart() error { return nil }

// OnStop implements worker.Hooks.
func (t *Tracker) OnStop() {}

// ShouldProcess implements worker.Hooks.
func (t *Tracker) ShouldProcess() bool {
	return t.aspectIn.Pending() ||
		t.initBiteIn.Pending() ||
		t.biteMovedIn.Pending() ||
		t.spawnedIn.Pending() ||
		t.locatedIn.Pending() ||
		t.goneIn.Pending()
}

// ProcessOnce implements worker.Hooks.
func (t *Tracker) ProcessOnce() {
	if v, ok := t.aspectIn.Take(); ok {
		t.aspect = v
	}
	if b, ok := t.initBiteIn.Take(); ok {
		t.bite = b
		t.upper = core.UpperBorder
		t.reset()
	}
	if b, ok := t.biteMovedIn.Take(); ok {
		t.bite = b
	}
	for _, pkg := range t.spawnedIn.Drain() {
		t.track(pkg)
	}
	if gone := t.goneIn.Drain(); len(gone) > 0 {
		for _, id := range gone {
			t.retire(id)
		}
		t.purge()
	}
	if located := t.locatedIn.Drain(); len(located) > 0 {
		t.purge()
		for _, pkg := range located {
			t.track(pkg)
		}
		t.detectCatches()
	}
	t.tracked.Store(int32(len(t.prizes)))
}

// reset forgets every prize. A fresh bite means the falling prizes were
// cleared from the screen, so positions still queued for them are stale.
func (t *Tracker) reset() {
	clear(t.prizes)
	clear(t.removed)
	clear(t.retired)
	t.locatedIn.Clear()
}

func (t *Tracker) track(pkg core.PrizePackage) {
	if _, ok := t.retired[pkg.ID]; ok {
		return
	}
	t.prizes[pkg.ID] = pkg
}

func (t *Tracker) retire(id int) {
	t.removed[id] = struct{}{}
	t.retired[id] = struct{}{}
}

func (t *Tracker) purge() {
	for id := range t.removed {
		delete(t.prizes, id)
	}
	clear(t.removed)
}

// inBand reports whether pkg lies inside the catch band of the bite.
func (t *Tracker) inBand(pkg core.PrizePackage) bool {
	half := 0.5 * core.PrizeSize
	reach := t.bite.HalfWidth() + half
	band := core.Rect{
		Left:   t.bite.X - reach,
		Right:  t.bite.X + reach,
		Top:    t.upper + half*t.aspect,
		Bottom: t.upper - (core.BiteHeight+half)*t.aspect,
	}
	return band.Contains(pkg.X, pkg.Y)
}

func (t *Tracker) detectCatches() {
	ids := make([]int, 0, len(t.prizes))
	for id := range t.prizes {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		pkg := t.prizes[id]
		if pkg.Gone || !t.inBand(pkg) {
			continue
		}
		t.retire(id)
		pkg.Caught = true
		t.logger.Debug("caught", "id", id, "prize", pkg.Prize)
		t.Caught.Emit(pkg)
	}
}
