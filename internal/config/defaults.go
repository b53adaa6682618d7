package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/arkanoid/internal/core"
)

//go:embed defaults/arkanoid.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration used when even the
// embedded YAML cannot be parsed.
func DefaultConfig() Config {
	return Config{
		Screen: ScreenConfig{FPS: 30},
		Physics: PhysicsConfig{
			FrameDelay: core.FrameDelay,
		},
		Sound: SoundConfig{
			Channels: 8,
		},
		Levels: LevelsConfig{
			Start: "01_bricks",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        2323,
			HostKeyPath: ".ssh/arkanoid_ed25519",
			MaxSessions: 16,
			IdleTimeout: 10 * time.Minute,
			RatePerSec:  1,
			RateBurst:   5,
		},
		Log: LogConfig{Level: "info"},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "level",
				MaxAt: 6,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
			},
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
