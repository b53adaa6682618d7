package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a menu of levels and scores",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. Leaving a game saves
it and returns to the menu, where Continue picks it up again.

Examples:
  arkanoid menu
  arkanoid menu --fps 60`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagPlayer, "player", "", "Player name for scores and saves")
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, cleanup, err := gameOptions(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return tui.RunSession(tui.SessionOptions{Game: opts, FPS: cfg.Screen.FPS})
}
