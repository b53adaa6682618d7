package core

import "fmt"

// Prize identifies a falling bonus released from a destroyed block.
type Prize int

// Prize values. The numbering is part of the generator contract:
// Score1..Score5 and Win are consecutive and Win is last.
const (
	PrizeNone Prize = iota
	PrizeBlock
	PrizeClimb
	PrizeDestroy
	PrizeDragon
	PrizeEasy
	PrizeEasyT
	PrizeEvaporate
	PrizeExplode
	PrizeExtend
	PrizeFast
	PrizeFog
	PrizeGoo
	PrizeHyper
	PrizeInit
	PrizeJump
	PrizeLaser
	PrizeMirror
	PrizePierce
	PrizeProtect
	PrizeRandom
	PrizeShort
	PrizeSlow
	PrizeUpgrade
	PrizeDegrade
	PrizeVitality
	PrizeZygote
	PrizeScore1
	PrizeScore2
	PrizeScore3
	PrizeScore4
	PrizeScore5
	PrizeWin
)

// TotalPrizes is the number of prizes the generator may draw, Win excluded.
const TotalPrizes = int(PrizeWin)

var prizeNames = [...]string{
	"none", "block", "climb", "destroy", "dragon", "easy", "easy_t",
	"evaporate", "explode", "extend", "fast", "fog", "goo", "hyper", "init",
	"jump", "laser", "mirror", "pierce", "protect", "random", "short", "slow",
	"upgrade", "degrade", "vitality", "zygote", "score_1", "score_2",
	"score_3", "score_4", "score_5", "win",
}

// String returns the lower-case prize name.
func (p Prize) String() string {
	if p < 0 || int(p) >= len(prizeNames) {
		return fmt.Sprintf("prize(%d)", int(p))
	}
	return prizeNames[p]
}

// BallEffect is a modifier carried by the ball.
type BallEffect int

// Ball effects.
const (
	EffectNone BallEffect = iota
	EffectEasy
	EffectEasyT
	EffectExplode
	EffectGoo
	EffectJump
	EffectMirror
	EffectPierce
	EffectProtect
	EffectRandom
	EffectUpgrade
	EffectDegrade
	EffectZygote
)

var effectNames = [...]string{
	"none", "easy", "easy_t", "explode", "goo", "jump", "mirror", "pierce",
	"protect", "random", "upgrade", "degrade", "zygote",
}

// String returns the lower-case effect name.
func (e BallEffect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectNames[e]
}

// Timed reports whether the effect expires on the effect timer rather than
// after its first block hit.
func (e BallEffect) Timed() bool {
	switch e {
	case EffectEasyT, EffectGoo, EffectJump, EffectMirror, EffectPierce, EffectProtect, EffectRandom:
		return true
	default:
		return false
	}
}

// BiteEffect changes the bite width.
type BiteEffect int

// Bite effects.
const (
	BiteNone BiteEffect = iota
	BiteExtend
	BiteShort
	BiteFull
)

// String returns the lower-case bite effect name.
func (b BiteEffect) String() string {
	switch b {
	case BiteNone:
		return "none"
	case BiteExtend:
		return "extend"
	case BiteShort:
		return "short"
	case BiteFull:
		return "full"
	default:
		return fmt.Sprintf("bite(%d)", int(b))
	}
}

// Width returns the bite width the effect selects.
func (b BiteEffect) Width() float64 {
	switch b {
	case BiteExtend:
		return BiteExtendWidth
	case BiteShort:
		return BiteShortWidth
	case BiteFull:
		return BiteFullWidth
	default:
		return BiteNormalWidth
	}
}

// Direction is a movement or collision direction on the grid.
type Direction int

// Directions.
const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns the lower-case direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Kind selects the explosion animation.
type Kind int

// Explosion kinds.
const (
	Diverge Kind = iota
	Converge
)

// Speed is the ball speed class.
type Speed int

// Speed classes.
const (
	SpeedNormal Speed = iota
	SpeedSlow
	SpeedFast
)

// Velocity returns the distance covered per tick.
func (s Speed) Velocity() float64 {
	switch s {
	case SpeedSlow:
		return BallSpeedSlow
	case SpeedFast:
		return BallSpeedFast
	default:
		return BallSpeedNorm
	}
}
