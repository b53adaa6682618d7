package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/arkanoid/internal/platform/tui"
	"github.com/vovakirdan/arkanoid/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresTable bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [player]",
	Short: "Show high scores",
	Long: `Display the top scores of everyone, or of one player.

Examples:
  arkanoid scores
  arkanoid scores ann --limit 20
  arkanoid scores --table
  arkanoid scores ann --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTable, "table", false, "Browse scores in an interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the scores (of the player, or all)")
}

func runScores(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	player := ""
	if len(args) == 1 {
		player = args[0]
	}

	if flagScoresClear {
		if err := store.ClearScores(player); err != nil {
			return err
		}
		fmt.Println("Scores cleared.")
		return nil
	}

	if flagScoresTable {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	}

	var scores []storage.ScoreEntry
	if player == "" {
		fmt.Println("High Scores")
		scores, err = store.TopScores(flagScoresLimit)
	} else {
		fmt.Printf("High Scores - %s\n", player)
		scores, err = store.PlayerScores(player, flagScoresLimit)
	}
	if err != nil {
		return err
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'arkanoid play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-14s  %s\n", "Rank", "Player", "Score", "Level", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-14s  %s\n", "----", "------", "-----", "-----", "----")
	for i, row := range tui.ScoreRows(scores) {
		fmt.Printf("  %-4d  %-12s  %-8s  %-14s  %s\n", i+1, row[1], row[2], row[3], scores[i].CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if player != "" {
		if st, err := store.GetPlayerStats(player); err == nil && st != nil {
			fmt.Printf("Games: %d  Best: %d  Average: %.0f  Furthest level: %d\n",
				st.GamesCount, st.HighScore, st.AvgScore, st.BestLevel+1)
		}
	} else if best, err := store.HighScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
