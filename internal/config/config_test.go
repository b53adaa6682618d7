package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// isolate points the user and local search directories at empty temp
// directories.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home, work = t.TempDir(), t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home, work
}

func TestEmbeddedMatchesBuiltin(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_SearchOrder(t *testing.T) {
	home, work := isolate(t)

	cfg, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)
	assert.Equal(t, 30, cfg.Screen.FPS)

	writeConfig(t, filepath.Join(work, "configs", FileName), "screen:\n  fps: 20\n")
	cfg, src, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, 20, cfg.Screen.FPS)
	assert.Equal(t, 8, cfg.Sound.Channels, "missing keys keep their defaults")

	writeConfig(t, filepath.Join(home, ".arkanoid", "configs", FileName), "screen:\n  fps: 15\n")
	_, src, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceUser, src)

	custom := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, custom, "physics:\n  frame_delay: 3ms\n  seed: 42\n")
	cfg, src, err = Load(custom)
	require.NoError(t, err)
	assert.Equal(t, SourceCustom, src)
	assert.Equal(t, 3*time.Millisecond, cfg.Physics.FrameDelay)
	assert.Equal(t, int64(42), cfg.Physics.Seed)
}

func TestLoad_BrokenFilesAreSkipped(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, "configs", FileName), "screen: [")

	_, src, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, SourceEmbedded, src)
}

func TestLoad_CustomErrors(t *testing.T) {
	isolate(t)
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	writeConfig(t, bad, "sound:\n  channels: 0\n")
	_, _, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps", func(c *Config) { c.Screen.FPS = 0 }},
		{"screen", func(c *Config) { c.Screen.Width = -1 }},
		{"delay", func(c *Config) { c.Physics.FrameDelay = -time.Millisecond }},
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"sessions", func(c *Config) { c.Server.MaxSessions = -1 }},
		{"progression", func(c *Config) { c.Difficulty.Progression.Type = "time" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	cfg.Server.MetricsAddr = ":9100"
	path := filepath.Join(t.TempDir(), "nested", FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestRuntime(t *testing.T) {
	cfg := DefaultConfig()
	rc := cfg.Runtime(0, 0)
	assert.Equal(t, 80, rc.ScreenW)
	assert.Equal(t, 24, rc.ScreenH)

	rc = cfg.Runtime(120, 30)
	assert.Equal(t, 120, rc.ScreenW)
	assert.InDelta(t, 2.0, rc.Aspect(), 1e-12)
	assert.Equal(t, cfg.Physics.FrameDelay, rc.FrameDelay)
}

func TestApplyPreset(t *testing.T) {
	cfg := DefaultConfig()
	ApplyPreset(&cfg, DifficultyHard)
	assert.True(t, cfg.Difficulty.Enabled)
	assert.InDelta(t, 0.7, cfg.Difficulty.InitialLevel, 1e-12)

	ApplyPreset(&cfg, DifficultyFixed)
	assert.False(t, cfg.Difficulty.Enabled)
}

func TestDifficultyManager(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "level", MaxAt: 4},
		Scaling:     ScalingConfig{SpeedMultiplier: 1},
	})
	assert.InDelta(t, 0.0, dm.Level(1000, 0), 1e-12)
	assert.InDelta(t, 0.5, dm.Level(0, 2), 1e-12)
	assert.InDelta(t, 1.0, dm.Level(0, 9), 1e-12)
	assert.Equal(t, 4*time.Millisecond, dm.FrameDelay(8*time.Millisecond, 0, 4))

	dm.SetInitialLevel(2)
	assert.InDelta(t, 1.0, dm.Level(0, 0), 1e-12)

	fixed := NewDifficultyManager(DifficultyConfig{InitialLevel: 0.3})
	assert.False(t, fixed.IsEnabled())
	assert.InDelta(t, 0.3, fixed.Level(500, 5), 1e-12)

	score := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
	})
	assert.InDelta(t, 0.25, score.Level(25, 0), 1e-12)
}
