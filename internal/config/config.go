// Package config provides YAML-based game configuration loading and
// difficulty management for the arkanoid engine.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/arkanoid/internal/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config contains all configuration for the game and its shells.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Sound      SoundConfig      `yaml:"sound"`
	Levels     LevelsConfig     `yaml:"levels"`
	Storage    StorageConfig    `yaml:"storage"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// ScreenConfig defines the terminal surface.
type ScreenConfig struct {
	Width  int `yaml:"width"`  // Cells, 0 means use the terminal size
	Height int `yaml:"height"` // Cells, 0 means use the terminal size
	FPS    int `yaml:"fps"`
}

// PhysicsConfig defines game-logic pacing.
type PhysicsConfig struct {
	Seed       int64         `yaml:"seed"` // 0 = derive from the clock
	FrameDelay time.Duration `yaml:"frame_delay"`
}

// SoundConfig defines the cue dispatcher.
type SoundConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Channels int    `yaml:"channels"`
	Dir      string `yaml:"dir"` // Directory of WAV clips
}

// LevelsConfig defines where levels come from.
type LevelsConfig struct {
	Dir   string `yaml:"dir"`   // Extra level files, empty = built-ins only
	Start string `yaml:"start"` // Name of the first level
}

// StorageConfig defines the sqlite database.
type StorageConfig struct {
	Path string `yaml:"path"` // Empty = ~/.arkanoid/arkanoid.db
}

// ServerConfig defines the SSH server and its metrics endpoint.
type ServerConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	HostKeyPath string        `yaml:"host_key_path"`
	MaxSessions int           `yaml:"max_sessions"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	RatePerSec  float64       `yaml:"rate_per_sec"` // New connections per second
	RateBurst   int           `yaml:"rate_burst"`
	MetricsAddr string        `yaml:"metrics_addr"` // Empty disables /metrics
}

// LogConfig defines logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "level", or "none"
	MaxAt int    `yaml:"max_at"` // Score or level index at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Speed added at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}

// Validate reports the first setting the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.Screen.Width < 0 || c.Screen.Height < 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalid, c.Screen.FPS)
	case c.Physics.FrameDelay < 0:
		return fmt.Errorf("%w: frame_delay %s", ErrInvalid, c.Physics.FrameDelay)
	case c.Sound.Channels <= 0:
		return fmt.Errorf("%w: sound channels %d", ErrInvalid, c.Sound.Channels)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Server.Port)
	case c.Server.MaxSessions < 0:
		return fmt.Errorf("%w: max_sessions %d", ErrInvalid, c.Server.MaxSessions)
	}
	switch c.Difficulty.Progression.Type {
	case "", "none", "score", "level":
	default:
		return fmt.Errorf("%w: progression %q", ErrInvalid, c.Difficulty.Progression.Type)
	}
	return nil
}

// Runtime returns the engine settings for a w x h surface. Zero sizes fall
// back to the configured screen.
func (c Config) Runtime(w, h int) core.RuntimeConfig {
	rc := core.DefaultConfig()
	if c.Screen.Width > 0 {
		rc.ScreenW = c.Screen.Width
	}
	if c.Screen.Height > 0 {
		rc.ScreenH = c.Screen.Height
	}
	if w > 0 && h > 0 {
		rc.ScreenW, rc.ScreenH = w, h
	}
	rc.FPS = c.Screen.FPS
	rc.Seed = c.Physics.Seed
	rc.FrameDelay = c.Physics.FrameDelay
	rc.Channels = c.Sound.Channels
	return rc
}
