// arkanoid plays Arkanoid in the terminal, locally or over SSH.
//
// Usage:
//
//	arkanoid play [level]      - Play, starting at a level
//	arkanoid menu              - Start menu with continue, levels and scores
//	arkanoid levels            - List levels
//	arkanoid levels show <l>   - Print a level grid
//	arkanoid levels png <l>    - Render a level preview
//	arkanoid scores [player]   - Show high scores
//	arkanoid serve             - Start the SSH server
//
// Global flags:
//
//	--config <path>    - Config file (default: search ~/.arkanoid/configs, ./configs)
//	--fps <rate>       - Frame rate
//	--seed <value>     - RNG seed for reproducible games
//	--db <path>        - Database path (default: ~/.arkanoid/arkanoid.db)
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

var (
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arkanoid",
	Short: "Arkanoid - break blocks in your terminal",
	Long: `Arkanoid runs the classic block breaker in the terminal.

Physics, prizes, sound and rendering each run on their own worker and
talk through events. Levels are plain text grids; drop extra ones into
the levels directory from the config.

Examples:
  arkanoid play
  arkanoid play 03_armour --difficulty hard
  arkanoid menu
  arkanoid levels png 07_fortress -o fortress.png
  arkanoid serve --metrics :9090`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to config YAML")
	pf.IntVar(&flagFPS, "fps", 0, "Frames per second (0 = from config)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = from config, then random)")
	pf.StringVar(&flagDBPath, "db", "", "Path to the database (empty = from config)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config and applies the global flags over it.
func loadConfig() (config.Config, error) {
	cfg, src, err := config.Load(flagConfig)
	if err != nil {
		return cfg, fmt.Errorf("config (%s): %w", src, err)
	}
	if flagFPS > 0 {
		cfg.Screen.FPS = flagFPS
	}
	if flagSeed != 0 {
		cfg.Physics.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "arkanoid",
	})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// fileLogger logs to ~/.arkanoid/arkanoid.log so the alt screen stays
// clean. The returned close func is never nil.
func fileLogger(cfg config.Config) (*log.Logger, func()) {
	dir := config.DataDir()
	if err := os.MkdirAll(dir, 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join(dir, "arkanoid.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err == nil {
			return newLogger(cfg, f), func() { f.Close() }
		}
	}
	return newLogger(cfg, io.Discard), func() {}
}

func dbPath(cfg config.Config) string {
	if cfg.Storage.Path != "" {
		return cfg.Storage.Path
	}
	return filepath.Join(config.DataDir(), "arkanoid.db")
}

func openStore(cfg config.Config) (*storage.Store, error) {
	return storage.Open(dbPath(cfg))
}

// loadLevels returns the built-in levels merged with the configured level
// directory.
func loadLevels(cfg config.Config) ([]level.Info, error) {
	var fsys fs.FS
	if cfg.Levels.Dir != "" {
		fsys = os.DirFS(cfg.Levels.Dir)
	}
	return level.Catalog(fsys, ".")
}

func playerName() string {
	for _, k := range []string{"ARKANOID_PLAYER", "USER", "USERNAME"} {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return "player"
}
