// Package render is the presentation worker. It owns the on-screen copy of
// the level, the bite as the player moves it, falling prizes, explosions
// and the laser, and publishes an immutable Frame after every drain.
package render

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

// ErrNoSurface is logged when a zero or negative surface is announced.
var ErrNoSurface = errors.New("render: no usable surface")

// Animation lengths.
const (
	explosionLife = time.Second
	catchLife     = time.Second
)

// Backgrounds are picked at random on resource load and on every finished
// level.
var Backgrounds = []core.Color{
	core.RGB(0.05, 0.05, 0.1),
	core.RGB(0.08, 0.04, 0.06),
	core.RGB(0.03, 0.07, 0.05),
	core.RGB(0.06, 0.06, 0.06),
}

// Events are the outbound channels of the context.
type Events struct {
	Aspect       event.Channel[float64]
	InitBall     event.Channel[core.Ball]
	InitBite     event.Channel[core.Bite]
	LevelDimens  event.Channel[core.LevelDimens]
	BiteMoved    event.Channel[core.Bite]
	PrizeLocated event.Channel[core.PrizePackage]
	PrizeGone    event.Channel[int]
	LaserBeam    event.Channel[core.LaserPackage]
	LaserPulse   event.Channel[event.Signal]
	ThrowBall    event.Channel[float64]
	LoadLevel    event.Channel[*level.Level]
	Frame        event.Channel[Frame]
}

// Options configures a Context.
type Options struct {
	Logger   *log.Logger
	Observer worker.Observer
	Seed     int64
	Now      func() time.Time
	Surface  Surface
}

type fallingPrize struct {
	pkg      core.PrizePackage
	start    time.Time
	y        float64
	reported bool // gone already reported
}

// Context is the presentation worker.
type Context struct {
	Events Events

	loop    *worker.Loop
	logger  *log.Logger
	rng     *rand.Rand
	now     func() time.Time
	surface Surface

	surfaceIn     worker.Slot[core.Surface]
	resourcesIn   worker.Flag
	shiftIn       worker.Slot[float64]
	throwIn       worker.Slot[float64]
	levelIn       worker.Slot[*level.Level]
	moveIn        worker.Slot[core.Ball]
	lostIn        worker.Flag
	stopIn        worker.Flag
	impactIn      worker.Queue[level.RowCol]
	finishedIn    worker.Flag
	explosionIn   worker.Queue[core.ExplosionPackage]
	prizeIn       worker.Queue[core.PrizePackage]
	caughtIn      worker.Queue[core.PrizePackage]
	dropIn        worker.Flag
	widthIn       worker.Slot[core.BiteEffect]
	laserIn       worker.Slot[bool]
	laserImpactIn worker.Flag
	tickIn        worker.Flag

	// Owned by the worker goroutine.
	ready      bool
	screen     core.Surface
	aspect     float64
	background core.Color
	lvl        *level.Level
	dimens     core.LevelDimens
	ball       core.Ball
	bite       core.Bite
	appearance core.BallEffect

	prizes     map[int]*fallingPrize
	catches    []float64
	catchStart time.Time
	explosions []core.ExplosionPackage
	explStart  time.Time

	laser       bool
	laserStart  time.Time
	laserHead   core.LaserPackage
	interrupted bool

	seq uint64
}

// New creates an idle context.
func New(opts Options) *Context {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	c := &Context{
		rng:        rand.New(rand.NewSource(opts.Seed)),
		now:        now,
		surface:    opts.Surface,
		aspect:     1,
		background: Backgrounds[0],
		prizes:     make(map[int]*fallingPrize),
	}
	wopts := []worker.Option{worker.WithLogger(opts.Logger)}
	if opts.Observer != nil {
		wopts = append(wopts, worker.WithObserver(opts.Observer))
	}
	c.loop = worker.New("render", c, wopts...)
	c.logger = c.loop.Logger()
	return c
}

// Launch starts the worker goroutine.
func (c *Context) Launch() error { return c.loop.Launch() }

// Stop stops the worker and waits for it.
func (c *Context) Stop() { c.loop.Stop() }

// Loop exposes the underlying worker loop.
func (c *Context) Loop() *worker.Loop { return c.loop }

// SurfaceReady announces the drawing surface. Nothing else is handled
// until a valid surface arrives.
func (c *Context) SurfaceReady(s core.Surface) {
	c.surfaceIn.Put(s)
	c.loop.Interrupt()
}

// LoadResources picks a background.
func (c *Context) LoadResources() {
	c.resourcesIn.Raise()
	c.loop.Interrupt()
}

// Shift moves the bite towards x when x is within the touch area.
func (c *Context) Shift(x float64) {
	c.shiftIn.Put(x)
	c.loop.Interrupt()
}

// ThrowBall forwards a throw at angle to the game logic.
func (c *Context) ThrowBall(angle float64) {
	c.throwIn.Put(angle)
	c.loop.Interrupt()
}

// LoadLevel replaces the level. The context keeps lvl and hands a copy to
// the game logic.
func (c *Context) LoadLevel(lvl *level.Level) {
	c.levelIn.Put(lvl)
	c.loop.Interrupt()
}

// BallMoved reports the ball position.
func (c *Context) BallMoved(b core.Ball) {
	c.moveIn.Put(b)
	c.loop.Interrupt()
}

// BallLost resets the board after a lost ball.
func (c *Context) BallLost() {
	c.lostIn.Raise()
	c.loop.Interrupt()
}

// BallStopped turns the laser off.
func (c *Context) BallStopped() {
	c.stopIn.Raise()
	c.loop.Interrupt()
}

// BlockImpact applies a cell change to the on-screen level.
func (c *Context) BlockImpact(rc level.RowCol) {
	c.impactIn.Push(rc)
	c.loop.Interrupt()
}

// LevelFinished resets the board after a finished level.
func (c *Context) LevelFinished() {
	c.finishedIn.Raise()
	c.loop.Interrupt()
}

// Explosion starts an explosion animation.
func (c *Context) Explosion(pkg core.ExplosionPackage) {
	c.explosionIn.Push(pkg)
	c.loop.Interrupt()
}

// PrizeSpawned starts a prize falling.
func (c *Context) PrizeSpawned(pkg core.PrizePackage) {
	c.prizeIn.Push(pkg)
	c.loop.Interrupt()
}

// PrizeCaught removes a prize and flashes the catch.
func (c *Context) PrizeCaught(pkg core.PrizePackage) {
	c.caughtIn.Push(pkg)
	c.loop.Interrupt()
}

// DropBallAppearance restores the plain ball look.
func (c *Context) DropBallAppearance() {
	c.dropIn.Raise()
	c.loop.Interrupt()
}

// BiteWidthChanged resizes the bite.
func (c *Context) BiteWidthChanged(e core.BiteEffect) {
	c.widthIn.Put(e)
	c.loop.Interrupt()
}

// LaserVisibility arms or disarms the laser.
func (c *Context) LaserVisibility(on bool) {
	c.laserIn.Put(on)
	c.loop.Interrupt()
}

// LaserBlockImpact stops the current beam.
func (c *Context) LaserBlockImpact() {
	c.laserImpactIn.Raise()
	c.loop.Interrupt()
}

// Tick advances time-based animation without any other input.
func (c *Context) Tick() {
	c.tickIn.Raise()
	c.loop.Interrupt()
}

// OnStart implements worker.Hooks.
func (c *Context) OnStart() error { return nil }

// OnStop implements worker.Hooks.
func (c *Context) OnStop() {}

// ShouldProcess implements worker.Hooks. Until a surface is set only the
// surface mailbox wakes the worker; other input waits for it.
func (c *Context) ShouldProcess() bool {
	if c.surfaceIn.Pending() {
		return true
	}
	if !c.ready {
		return false
	}
	return c.resourcesIn.Pending() ||
		c.shiftIn.Pending() ||
		c.throwIn.Pending() ||
		c.levelIn.Pending() ||
		c.moveIn.Pending() ||
		c.lostIn.Pending() ||
		c.stopIn.Pending() ||
		c.impactIn.Pending() ||
		c.finishedIn.Pending() ||
		c.explosionIn.Pending() ||
		c.prizeIn.Pending() ||
		c.caughtIn.Pending() ||
		c.dropIn.Pending() ||
		c.widthIn.Pending() ||
		c.laserIn.Pending() ||
		c.laserImpactIn.Pending() ||
		c.tickIn.Pending()
}

// ProcessOnce implements worker.Hooks.
func (c *Context) ProcessOnce() {
	if s, ok := c.surfaceIn.Take(); ok {
		c.setSurface(s)
	}
	if !c.ready {
		return
	}
	if c.resourcesIn.Take() {
		c.background = c.randomBackground()
	}
	if x, ok := c.shiftIn.Take(); ok {
		c.moveBite(x)
	}
	if pkgs := c.explosionIn.Drain(); len(pkgs) > 0 {
		c.explosions = append(c.explosions, pkgs...)
		c.explStart = c.now()
	}
	for _, pkg := range c.prizeIn.Drain() {
		c.prizes[pkg.ID] = &fallingPrize{pkg: pkg, start: c.now(), y: pkg.Y}
	}
	for _, pkg := range c.caughtIn.Drain() {
		c.catchPrize(pkg)
	}
	if c.laserImpactIn.Take() {
		c.interrupted = true
	}
	// Impacts belong to the level they were made on, so they go before
	// any new level.
	c.applyImpacts(c.impactIn.Drain())
	if lvl, ok := c.levelIn.Take(); ok && lvl != nil {
		c.loadLevel(lvl)
	}
	if angle, ok := c.throwIn.Take(); ok {
		c.logger.Debug("ball thrown")
		c.Events.ThrowBall.Emit(angle)
	}
	if b, ok := c.moveIn.Take(); ok {
		c.ball = b
	}
	if c.lostIn.Take() {
		c.clearPrizes()
		c.initGame()
	}
	if c.stopIn.Take() {
		c.laser = false
	}
	if c.finishedIn.Take() {
		c.clearPrizes()
		c.background = c.randomBackground()
		c.initGame()
	}
	if c.dropIn.Take() {
		c.appearance = core.EffectNone
	}
	if e, ok := c.widthIn.Take(); ok {
		c.changeBiteWidth(e)
	}
	if on, ok := c.laserIn.Take(); ok {
		c.setLaser(on)
	}
	c.tickIn.Take()

	c.animate()
	c.publish()
}

func (c *Context) setSurface(s core.Surface) {
	if !s.Valid() {
		c.ready = false
		c.logger.Error("surface rejected", "err", ErrNoSurface, "width", s.Width, "height", s.Height)
		return
	}
	c.screen = s
	c.aspect = s.Aspect
	c.ready = true
	c.logger.Debug("surface set", "width", s.Width, "height", s.Height, "aspect", s.Aspect)
	c.initGame()
}

// initGame puts a fresh bite in the middle and rests the ball on it.
func (c *Context) initGame() {
	c.Events.Aspect.Emit(c.aspect)

	c.bite = core.Bite{Width: core.BiteNormalWidth, Height: core.BiteHeight * c.aspect}
	c.moveBite(0)

	c.ball = core.Ball{
		Width:  core.BallSize,
		Height: core.BallSize * c.aspect,
		X:      c.bite.X,
		Angle:  core.DefaultBallAng,
	}
	c.ball.Y = core.UpperBorder + c.ball.HalfHeight()
	c.appearance = core.EffectNone

	c.Events.InitBall.Emit(c.ball)
	c.Events.InitBite.Emit(c.bite)
}

// moveBite follows a gesture at x. Positions farther than the touch area
// from the bite are ignored.
func (c *Context) moveBite(x float64) {
	if math.Abs(x-c.bite.X) >= core.BiteTouchArea {
		return
	}
	hw := c.bite.HalfWidth()
	c.bite.X = core.ClampF(x, core.FieldMin+hw, core.FieldMax-hw)
	c.Events.BiteMoved.Emit(c.bite)
}

func (c *Context) changeBiteWidth(e core.BiteEffect) {
	c.bite.Width = e.Width()
	if e == core.BiteFull {
		c.bite.X = 0
		c.Events.BiteMoved.Emit(c.bite)
		return
	}
	c.moveBite(c.bite.X)
}

func (c *Context) loadLevel(lvl *level.Level) {
	c.initGame()
	c.lvl = lvl
	c.dimens = core.NewLevelDimens(lvl.Rows(), lvl.Cols(), c.aspect)
	c.logger.Info("level loaded", "rows", lvl.Rows(), "cols", lvl.Cols())
	c.Events.LoadLevel.Emit(lvl.Clone())
	c.Events.LevelDimens.Emit(c.dimens)
}

func (c *Context) applyImpacts(impacts []level.RowCol) {
	for _, rc := range impacts {
		if c.lvl == nil || !c.lvl.InBounds(rc.Row, rc.Col) {
			c.logger.Warn("impacted block is outside the level", "row", rc.Row, "col", rc.Col)
			continue
		}
		_ = c.lvl.SetBlock(rc.Row, rc.Col, rc.After)
	}
}

func (c *Context) catchPrize(pkg core.PrizePackage) {
	fp, ok := c.prizes[pkg.ID]
	if !ok {
		c.logger.Debug("caught prize is not falling", "id", pkg.ID)
		return
	}
	delete(c.prizes, pkg.ID)
	c.catches = append(c.catches, fp.pkg.X)
	c.catchStart = c.now()
	if e, ok := appearanceOf(pkg.Prize); ok {
		c.appearance = e
	}
}

// appearanceOf returns the ball look a caught prize switches to.
func appearanceOf(p core.Prize) (core.BallEffect, bool) {
	switch p {
	case core.PrizeEasy, core.PrizeEasyT:
		return core.EffectEasy, true
	case core.PrizeExplode, core.PrizeJump:
		return core.EffectExplode, true
	case core.PrizeGoo:
		return core.EffectGoo, true
	case core.PrizeMirror:
		return core.EffectMirror, true
	case core.PrizePierce:
		return core.EffectPierce, true
	case core.PrizeProtect:
		return core.EffectProtect, true
	case core.PrizeRandom:
		return core.EffectRandom, true
	case core.PrizeUpgrade:
		return core.EffectUpgrade, true
	case core.PrizeDegrade:
		return core.EffectDegrade, true
	default:
		return core.EffectNone, false
	}
}

func (c *Context) setLaser(on bool) {
	c.laser = on
	if !on {
		return
	}
	c.laserStart = c.now()
	c.interrupted = false
	c.Events.LaserPulse.Emit(event.Signal{})
}

func (c *Context) clearPrizes() {
	clear(c.prizes)
	c.catches = nil
}

func (c *Context) randomBackground() core.Color {
	return Backgrounds[c.rng.Intn(len(Backgrounds))]
}

// animate advances every clock-driven animation to now.
func (c *Context) animate() {
	now := c.now()

	if len(c.explosions) > 0 && now.Sub(c.explStart) >= explosionLife {
		c.explosions = nil
	}
	if len(c.catches) > 0 && now.Sub(c.catchStart) >= catchLife {
		c.catches = nil
	}

	ids := make([]int, 0, len(c.prizes))
	for id := range c.prizes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		c.fall(c.prizes[id], now)
	}

	if c.laser {
		c.fireLaser(now)
	}
}

// fall moves a prize down. Above the bite its position is reported; below
// the bite it is reported gone once; out of the field it is dropped.
func (c *Context) fall(fp *fallingPrize, now time.Time) {
	elapsed := now.Sub(fp.start)
	if elapsed >= core.PrizeLifetime {
		delete(c.prizes, fp.pkg.ID)
		return
	}
	fp.y = fp.pkg.Y - elapsed.Seconds()*core.PrizeSpeed
	switch {
	case fp.y >= core.UpperBorder:
		moved := fp.pkg
		moved.Y = fp.y
		c.Events.PrizeLocated.Emit(moved)
	case fp.y > core.FieldMin:
		if !fp.reported {
			fp.reported = true
			c.Events.PrizeGone.Emit(fp.pkg.ID)
		}
	default:
		delete(c.prizes, fp.pkg.ID)
	}
}

// fireLaser advances the beam. Every cycle starts a new pulse; the beam
// head is reported until it hits a block or leaves the field.
func (c *Context) fireLaser(now time.Time) {
	t := now.Sub(c.laserStart)
	if t >= core.LaserCycle {
		c.laserStart = now
		t = 0
		c.interrupted = false
		c.Events.LaserPulse.Emit(event.Signal{})
	}
	c.laserHead = core.LaserPackage{X: c.bite.X, Y: core.UpperBorder + t.Seconds()*core.LaserSpeed}
	if !c.interrupted && c.laserHead.Y <= core.FieldMax+0.5*core.LaserSize {
		c.Events.LaserBeam.Emit(c.laserHead)
	}
}

func (c *Context) publish() {
	c.seq++
	f := Frame{
		Seq:        c.seq,
		Surface:    c.screen,
		Background: c.background,
		Dimens:     c.dimens,
		Ball:       c.ball,
		Bite:       c.bite,
		Appearance: c.appearance,
		Laser:      c.laser,
		LaserHead:  c.laserHead,
		LaserLive:  c.laser && !c.interrupted,
	}
	if c.lvl != nil {
		f.Grid = c.lvl.Grid()
	}
	if len(c.prizes) > 0 {
		f.Prizes = make([]core.PrizePackage, 0, len(c.prizes))
		for _, fp := range c.prizes {
			pkg := fp.pkg
			pkg.Y = fp.y
			f.Prizes = append(f.Prizes, pkg)
		}
		sort.Slice(f.Prizes, func(i, j int) bool { return f.Prizes[i].ID < f.Prizes[j].ID })
	}
	if len(c.catches) > 0 {
		f.Catches = append([]float64(nil), c.catches...)
	}
	if len(c.explosions) > 0 {
		f.Explosions = append([]core.ExplosionPackage(nil), c.explosions...)
	}

	c.Events.Frame.Emit(f)
	if c.surface != nil {
		c.surface.Present(f)
	}
}
