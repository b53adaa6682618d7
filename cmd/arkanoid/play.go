package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/platform/tui"
	"github.com/vovakirdan/arkanoid/internal/sound"
)

var (
	flagDifficulty string
	flagResume     bool
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a game",
	Long: `Start playing, at the given level or the configured start level.

Controls:
  Left/Right, A/D, mouse  - Move the bite
  Space/Up, click         - Throw the ball
  Ctrl+S                  - Save the game
  N                       - Skip the level (score penalty)
  R                       - Restart the level
  Ctrl+P                  - PNG screenshot
  ?                       - Help
  Q/Esc                   - Save and quit

Difficulty options:
  easy   - Start at the base pace, speed up with progress
  normal - Start 30% faster
  hard   - Start 70% faster
  fixed  - No progression

Examples:
  arkanoid play
  arkanoid play 05_labyrinth
  arkanoid play --resume
  arkanoid play --difficulty hard`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagResume, "resume", false, "Continue the saved game")
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for scores and saves")
}

// gameOptions builds the shared options of a local game. The returned
// cleanup releases the logger and audio device.
func gameOptions(cfg config.Config) (tui.GameOptions, func(), error) {
	levels, err := loadLevels(cfg)
	if err != nil {
		return tui.GameOptions{}, nil, err
	}
	logger, closeLog := fileLogger(cfg)
	cleanup := []func(){closeLog}

	opts := tui.GameOptions{
		Config: cfg,
		Levels: levels,
		Player: flagPlayer,
		Logger: logger,
	}
	if opts.Player == "" {
		opts.Player = playerName()
	}
	if store, err := openStore(cfg); err != nil {
		logger.Warn("could not open database", "err", err)
	} else {
		opts.Store = store
		cleanup = append(cleanup, func() { store.Close() })
	}
	if cfg.Sound.Enabled {
		if spk, err := sound.NewSpeaker(cfg.Sound.Channels); err != nil {
			logger.Warn("no audio", "err", err)
		} else {
			opts.Outputs = spk.Outputs()
			cleanup = append(cleanup, spk.Close)
		}
	}
	return opts, func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}, nil
}

func runPlay(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, config.DifficultyPreset(flagDifficulty))
	}

	opts, cleanup, err := gameOptions(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		if _, ok := level.Find(opts.Levels, args[0]); !ok {
			return fmt.Errorf("unknown level %q, run 'arkanoid levels' to list them", args[0])
		}
		opts.Config.Levels.Start = args[0]
	}

	game, err := tui.NewGame(opts)
	if err != nil {
		return err
	}
	defer game.Close()
	if err := game.Start(flagResume); err != nil {
		return err
	}
	return tui.Run(game, cfg.Screen.FPS)
}
