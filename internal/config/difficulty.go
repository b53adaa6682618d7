package config

import (
	"math"
	"time"
)

// DifficultyManager calculates the ball pace from score or level progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the current difficulty (0.0 to 1.0) for a score and a
// level index.
func (d *DifficultyManager) Level(score, levelIndex int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "level":
		progress = float64(levelIndex) / maxAt
	default:
		return d.initialLevel
	}

	progress = clampF(progress, 0.0, 1.0)
	return d.initialLevel + progress*(1.0-d.initialLevel)
}

// Speed returns the ball speed factor, from 1 up to 1 + speed_multiplier.
func (d *DifficultyManager) Speed(score, levelIndex int) float64 {
	return 1.0 + d.Level(score, levelIndex)*d.cfg.Scaling.SpeedMultiplier
}

// FrameDelay scales the pause after every ball step by the inverse of the
// speed factor.
func (d *DifficultyManager) FrameDelay(base time.Duration, score, levelIndex int) time.Duration {
	speed := d.Speed(score, levelIndex)
	if speed <= 0 {
		return base
	}
	return time.Duration(float64(base) / speed)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
