package core

import "time"

// Bite (paddle) geometry.
const (
	BiteNormalWidth  = 0.5
	BiteExtendWidth  = 0.8
	BiteShortWidth   = 0.3
	BiteFullWidth    = 2.0
	BiteHeight       = 0.08
	BiteElevation    = 0.2
	BiteTouchArea    = 0.15
	BiteRadiusFactor = 0.64
)

// UpperBorder is the Y coordinate of the top of the bite.
const UpperBorder = FieldMin + BiteElevation

// Ball geometry and speeds, in field units per tick.
const (
	BallSize       = 0.05
	BallSpeedFast  = 0.003
	BallSpeedNorm  = 0.002
	BallSpeedSlow  = 0.001
	DefaultBallAng = Pi4
)

// Laser and prize motion.
const (
	LaserSpeed  = 4.0
	LaserSize   = 0.3
	LaserOffset = 0.15
	PrizeSpeed  = 0.7
	PrizeSize   = 0.1
)

// Block cell size before the aspect correction of the height.
const (
	BlockWidth  = 0.2
	BlockHeight = 0.1
)

// Timer thresholds, counted in game ticks while the ball flies.
const (
	EffectTicks = 1900
	SpeedTicks  = 2718
	WidthTicks  = 2718
	LaserTicks  = 3600
)

// Wall-clock periods of the presentation side.
const (
	FrameDelay    = time.Millisecond
	PrizeLifetime = 3 * time.Second
	LaserCycle    = 600 * time.Millisecond
)

// Random distributions of the collision engine.
const (
	AngleMean       = Pi12
	AngleDeviation  = Pi30
	CoinProbability = 0.25
	PrizeChance     = 0.415
	WinChance       = 0.0025
)
