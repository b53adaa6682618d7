// Package physics is the game-logic worker. It owns the authoritative level
// and ball, advances the ball one step per drain while it flies, and
// reports every collision through its Events.
package physics

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/worker"
)

// Events are the outbound channels of the processor. Emits happen on the
// processor goroutine.
type Events struct {
	BallMoved           event.Channel[core.Ball]
	BallLost            event.Channel[event.Signal]
	BallStopped         event.Channel[event.Signal]
	BiteImpact          event.Channel[event.Signal]
	BlockImpact         event.Channel[level.RowCol]
	WallImpact          event.Channel[event.Signal]
	LevelFinished       event.Channel[event.Signal]
	Explosion           event.Channel[core.ExplosionPackage]
	PrizeSpawned        event.Channel[core.PrizePackage]
	DropBallAppearance  event.Channel[event.Signal]
	BiteWidthChanged    event.Channel[core.BiteEffect]
	LaserBeamVisibility event.Channel[bool]
	LaserBlockImpact    event.Channel[event.Signal]
	BallEffectChanged   event.Channel[core.BallEffect]
	ScoreUpdated        event.Channel[int]
	CardinalityChanged  event.Channel[int]
	AngleChanged        event.Channel[float64]
}

// Options configures a Processor.
type Options struct {
	Seed       int64
	FrameDelay time.Duration // sleep after every ball step
	Logger     *log.Logger
	Observer   worker.Observer
}

// DefaultOptions returns the production options.
func DefaultOptions() Options {
	return Options{Seed: time.Now().UnixNano(), FrameDelay: core.FrameDelay}
}

// Processor is the game-logic worker.
type Processor struct {
	Events Events

	loop   *worker.Loop
	logger *log.Logger
	rng    *rand.Rand
	delay  time.Duration

	aspectIn    worker.Slot[float64]
	levelIn     worker.Slot[*level.Level]
	bonusIn     worker.Slot[bool]
	ballIn      worker.Slot[core.Ball]
	biteIn      worker.Slot[core.Bite]
	dimensIn    worker.Slot[core.LevelDimens]
	biteMovedIn worker.Slot[core.Bite]
	throwIn     worker.Slot[float64]
	prizeIn     worker.Queue[core.PrizePackage]
	laserIn     worker.Queue[core.LaserPackage]
	delayIn     worker.Slot[time.Duration]

	// Owned by the worker goroutine.
	aspect     float64
	lvl        *level.Level
	ball       core.Ball
	bite       core.Bite
	dimens     core.LevelDimens
	upper      float64
	throwAngle float64

	flying    bool
	lost      bool
	death     bool
	finished  bool
	corrected bool

	effectTicks int
	speedTicks  int
	widthTicks  int
	laserTicks  int

	explosionID int
	prizeID     int
}

// New creates an idle processor.
func New(opts Options) *Processor {
	p := &Processor{
		rng:        rand.New(rand.NewSource(opts.Seed)),
		delay:      opts.FrameDelay,
		aspect:     1,
		upper:      core.UpperBorder,
		throwAngle: core.DefaultBallAng,
		ball: core.Ball{
			Width:  core.BallSize,
			Height: core.BallSize,
			Y:      core.UpperBorder + 0.5*core.BallSize,
			Angle:  core.DefaultBallAng,
		},
		bite: core.Bite{Width: core.BiteNormalWidth, Height: core.BiteHeight},
	}
	wopts := []worker.Option{worker.WithLogger(opts.Logger)}
	if opts.Observer != nil {
		wopts = append(wopts, worker.WithObserver(opts.Observer))
	}
	p.loop = worker.New("physics", p, wopts...)
	p.logger = p.loop.Logger()
	return p
}

// Launch starts the worker goroutine.
func (p *Processor) Launch() error { return p.loop.Launch() }

// Stop stops the worker and waits for it.
func (p *Processor) Stop() { p.loop.Stop() }

// Loop exposes the underlying worker loop.
func (p *Processor) Loop() *worker.Loop { return p.loop }

// AspectMeasured stores the surface aspect ratio.
func (p *Processor) AspectMeasured(aspect float64) {
	p.aspectIn.Put(aspect)
	p.loop.Interrupt()
}

// LoadLevel hands a level to the processor. The processor takes ownership
// of lvl and reseeds its generators from its own source.
func (p *Processor) LoadLevel(lvl *level.Level) {
	p.levelIn.Put(lvl)
	p.loop.Interrupt()
}

// SetBonusBlocks makes every destroyed block of the current level release
// a Block prize. It applies after any level handed over before it.
func (p *Processor) SetBonusBlocks(on bool) {
	p.bonusIn.Put(on)
	p.loop.Interrupt()
}

// InitBall resets the ball and stops it.
func (p *Processor) InitBall(b core.Ball) {
	p.ballIn.Put(b)
	p.loop.Interrupt()
}

// InitBite resets the bite.
func (p *Processor) InitBite(b core.Bite) {
	p.biteIn.Put(b)
	p.loop.Interrupt()
}

// LevelDimens stores the measured level geometry.
func (p *Processor) LevelDimens(d core.LevelDimens) {
	p.dimensIn.Put(d)
	p.loop.Interrupt()
}

// BiteMoved reports a new bite position. A resting ball follows it.
func (p *Processor) BiteMoved(b core.Bite) {
	p.biteMovedIn.Put(b)
	p.loop.Interrupt()
}

// ThrowBall launches a resting ball at angle.
func (p *Processor) ThrowBall(angle float64) {
	p.throwIn.Put(angle)
	p.loop.Interrupt()
}

// PrizeCaught applies the effect of a caught prize.
func (p *Processor) PrizeCaught(pkg core.PrizePackage) {
	p.prizeIn.Push(pkg)
	p.loop.Interrupt()
}

// LaserBeam reports the head of a laser beam inside the block area.
func (p *Processor) LaserBeam(pkg core.LaserPackage) {
	p.laserIn.Push(pkg)
	p.loop.Interrupt()
}

// SetFrameDelay changes the pause after every ball step. Shorter delays
// make the ball faster.
func (p *Processor) SetFrameDelay(d time.Duration) {
	p.delayIn.Put(d)
	p.loop.Interrupt()
}

// OnStart implements worker.Hooks.
func (p *Processor) OnStart() error {
	p.logger.Debug("ready", "delay", p.delay)
	return nil
}

// OnStop implements worker.Hooks.
func (p *Processor) OnStop() {}

// ShouldProcess implements worker.Hooks. A flying ball keeps the loop busy.
func (p *Processor) ShouldProcess() bool {
	return p.aspectIn.Pending() ||
		p.levelIn.Pending() ||
		p.bonusIn.Pending() ||
		p.ballIn.Pending() ||
		p.biteIn.Pending() ||
		p.dimensIn.Pending() ||
		p.biteMovedIn.Pending() ||
		p.throwIn.Pending() ||
		p.prizeIn.Pending() ||
		p.laserIn.Pending() ||
		p.delayIn.Pending() ||
		p.flying
}

// ProcessOnce implements worker.Hooks.
func (p *Processor) ProcessOnce() {
	if v, ok := p.aspectIn.Take(); ok {
		p.aspect = v
	}
	if d, ok := p.delayIn.Take(); ok {
		p.delay = max(0, d)
	}
	if lvl, ok := p.levelIn.Take(); ok && lvl != nil {
		lvl.SetRand(p.rng)
		p.lvl = lvl
		p.finished = false
		p.logger.Info("level loaded", "rows", lvl.Rows(), "cols", lvl.Cols(), "cardinality", lvl.Cardinality())
		p.Events.CardinalityChanged.Emit(lvl.Cardinality())
	}
	if on, ok := p.bonusIn.Take(); ok {
		if p.lvl == nil {
			p.logger.Error("cannot set bonus blocks: no level loaded")
		} else {
			p.lvl.PrizeGenerator().SetBonusBlocks(on)
			p.logger.Debug("bonus blocks", "on", on)
		}
	}
	if b, ok := p.ballIn.Take(); ok {
		p.ball = b
		p.stopBall()
	}
	if b, ok := p.biteIn.Take(); ok {
		p.bite = b
		p.upper = core.UpperBorder
	}
	if d, ok := p.dimensIn.Take(); ok {
		p.dimens = d
	}
	if b, ok := p.biteMovedIn.Take(); ok {
		p.bite = b
		if !p.flying {
			p.shiftBall(p.bite.X, p.ball.Y)
		}
	}
	if angle, ok := p.throwIn.Take(); ok {
		p.throwAngle = angle
		p.throw()
	}
	for _, pkg := range p.prizeIn.Drain() {
		p.applyPrize(pkg.Prize)
	}
	for _, pkg := range p.laserIn.Drain() {
		p.laserImpact(pkg)
	}

	if p.flying {
		p.moveBall()
		p.effectTicks++
		p.speedTicks++
		p.widthTicks++
		p.laserTicks++
	}
	p.expireTimers()
}

func (p *Processor) throw() {
	if p.flying {
		return
	}
	p.ball.Angle = core.NormalizeAngle(p.throwAngle)
	p.finished = false
	p.flying = true
	p.lost = false
	p.death = false
	p.corrected = false
	p.logger.Debug("ball thrown", "angle", p.ball.Angle)
	p.angleChanged()
}

func (p *Processor) expireTimers() {
	if p.effectTicks >= core.EffectTicks {
		p.dropTimedEffect()
		p.effectTicks = 0
	}
	if p.speedTicks >= core.SpeedTicks {
		p.ball.Speed = core.SpeedNormal
		p.speedTicks = 0
	}
	if p.widthTicks >= core.WidthTicks {
		p.Events.BiteWidthChanged.Emit(core.BiteNone)
		p.widthTicks = 0
	}
	if p.laserTicks >= core.LaserTicks {
		p.Events.LaserBeamVisibility.Emit(false)
		p.laserTicks = 0
	}
}

func (p *Processor) stopBall() {
	p.flying = false
	p.Events.BallStopped.Emit(event.Signal{})
}

func (p *Processor) shiftBall(x, y float64) {
	p.ball.X = x
	p.ball.Y = y
	p.Events.BallMoved.Emit(p.ball)
}

func (p *Processor) correctBall(x, y float64) {
	p.shiftBall(x, y)
	p.corrected = true
}

func (p *Processor) shiftBallIntoBlock(row, col int) {
	p.correctBall(p.dimens.BlockCenter(row, col))
}

func (p *Processor) teleport() {
	if p.lvl == nil {
		return
	}
	cells := p.lvl.FindBlocks(p.lvl.GeneratePresentBlock())
	if len(cells) == 0 {
		return
	}
	rc := cells[p.rng.Intn(len(cells))]
	p.shiftBallIntoBlock(rc.Row, rc.Col)
}

func (p *Processor) angleChanged() {
	p.Events.AngleChanged.Emit(p.ball.Angle)
}

func (p *Processor) cardinalityChanged() {
	if p.lvl != nil {
		p.Events.CardinalityChanged.Emit(p.lvl.Cardinality())
	}
}

func (p *Processor) explode(x, y float64, c core.Color, kind core.Kind) {
	pkg := core.ExplosionPackage{ID: p.explosionID, X: x, Y: y, Color: c, Kind: kind}
	p.explosionID++
	p.Events.Explosion.Emit(pkg)
}

func (p *Processor) explodeBlock(row, col int, c core.Color, kind core.Kind) {
	x, y := p.dimens.BlockCenter(row, col)
	p.explode(x, y, c, kind)
}

func (p *Processor) spawnPrizeAtBlock(row, col int, prize core.Prize) {
	if prize == core.PrizeNone {
		return
	}
	x, y := p.dimens.BlockCenter(row, col)
	pkg := core.PrizePackage{ID: p.prizeID, X: x, Y: y, Prize: prize}
	p.prizeID++
	p.Events.PrizeSpawned.Emit(pkg)
}

func (p *Processor) spawnRandomPrizeAtBlock(row, col int) {
	p.spawnPrizeAtBlock(row, col, p.lvl.PrizeGenerator().Generate())
}

func (p *Processor) coin() bool {
	return p.rng.Float64() < core.CoinProbability
}
