// Package core provides the value types shared by every worker of the game:
// ball and bite state, event payloads, prize and effect enums, fixed
// physical parameters and the angle helpers used by the collision engine.
// It has no dependencies outside the standard library so that payloads can
// be passed between workers by value without pulling in any of them.
package core

import "math"

// Field bounds. Every position in the game lives in [-1, 1] on both axes.
const (
	FieldMin = -1.0
	FieldMax = 1.0
)

// Angle constants used by reflections.
const (
	Pi      = math.Pi
	TwoPi   = 2 * math.Pi
	ThreePi = 3 * math.Pi
	HalfPi  = math.Pi / 2
	Pi3_2   = 3 * math.Pi / 2
	Pi4     = math.Pi / 4
	Pi12    = math.Pi / 12
	Pi16    = math.Pi / 16
	Pi30    = math.Pi / 30
)

// NormalizeAngle maps any angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Rect is an axis-aligned box in normalized field coordinates.
// Top is the larger Y since the field grows upwards.
type Rect struct {
	Left, Right float64
	Top, Bottom float64
}

// Contains reports whether the point lies inside the box, borders included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y <= r.Top && y >= r.Bottom
}

