package core

import "time"

// RuntimeConfig contains the settings passed to the engine at start.
type RuntimeConfig struct {
	ScreenW    int           // Surface width in cells or pixels
	ScreenH    int           // Surface height in cells or pixels
	FPS        int           // Frames published per second by the shell
	Seed       int64         // RNG seed, 0 means derive from the clock
	FrameDelay time.Duration // Pause after every ball tick
	Channels   int           // Sound channels
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:    80,
		ScreenH:    24,
		FPS:        30,
		Seed:       0,
		FrameDelay: FrameDelay,
		Channels:   8,
	}
}

// Aspect returns the width to height ratio of the configured screen.
// A terminal cell is about twice as tall as it is wide.
func (c RuntimeConfig) Aspect() float64 {
	if c.ScreenW <= 0 || c.ScreenH <= 0 {
		return 1
	}
	return float64(c.ScreenW) / float64(2*c.ScreenH)
}

// Surface returns the surface description for the configured screen.
func (c RuntimeConfig) Surface() Surface {
	return Surface{Width: c.ScreenW, Height: c.ScreenH, Aspect: c.Aspect()}
}
