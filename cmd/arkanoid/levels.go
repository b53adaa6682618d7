package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/platform/tui"
	"github.com/vovakirdan/arkanoid/internal/render"
)

var (
	flagPNGOut    string
	flagPNGSize   int
	flagPNGAspect float64
	flagPlain     bool
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the levels",
	Long: `Shows the built-in levels and those found in the configured levels
directory. A level file with a built-in name replaces it.`,
	Args: cobra.NoArgs,
	RunE: runLevelsList,
}

var levelsShowCmd = &cobra.Command{
	Use:   "show <level>",
	Short: "Print a level grid",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevelsShow,
}

var levelsPNGCmd = &cobra.Command{
	Use:   "png <level>",
	Short: "Render a level preview as PNG",
	Long: `Renders the level with the bite and ball at rest.

Examples:
  arkanoid levels png 01_bricks
  arkanoid levels png 07_fortress -o fortress.png --size 1024`,
	Args: cobra.ExactArgs(1),
	RunE: runLevelsPNG,
}

func init() {
	levelsShowCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print letters without colors")
	levelsPNGCmd.Flags().StringVarP(&flagPNGOut, "output", "o", "", "Output file (default: <level>.png)")
	levelsPNGCmd.Flags().IntVar(&flagPNGSize, "size", 512, "Image side in pixels")
	levelsPNGCmd.Flags().Float64Var(&flagPNGAspect, "aspect", 1, "Field aspect ratio")

	levelsCmd.AddCommand(levelsShowCmd)
	levelsCmd.AddCommand(levelsPNGCmd)
}

func runLevelsList(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	levels, err := loadLevels(cfg)
	if err != nil {
		return err
	}

	fmt.Println("Levels:")
	fmt.Println()

	maxName := 4
	for _, l := range levels {
		maxName = max(maxName, len(l.Name))
	}
	fmt.Printf("  %-3s  %-*s  %-5s  %s\n", "#", maxName, "Name", "Bonus", "Title")
	fmt.Printf("  %-3s  %-*s  %-5s  %s\n", "-", maxName, "----", "-----", "-----")
	for i, l := range levels {
		bonus := ""
		if l.Bonus {
			bonus = "yes"
		}
		fmt.Printf("  %-3d  %-*s  %-5s  %s\n", i+1, maxName, l.Name, bonus, l.Title)
	}

	fmt.Println()
	fmt.Println("Run 'arkanoid play <name>' to start at a level.")
	return nil
}

func findLevel(name string) (level.Info, error) {
	cfg, err := loadConfig()
	if err != nil {
		return level.Info{}, err
	}
	levels, err := loadLevels(cfg)
	if err != nil {
		return level.Info{}, err
	}
	i, ok := level.Find(levels, name)
	if !ok {
		return level.Info{}, fmt.Errorf("unknown level %q", name)
	}
	return levels[i], nil
}

func runLevelsShow(_ *cobra.Command, args []string) error {
	info, err := findLevel(args[0])
	if err != nil {
		return err
	}
	lvl := info.Build(nil)

	fmt.Printf("%s - %s (%dx%d, %d to break)\n\n", info.Name, info.Title, lvl.Rows(), lvl.Cols(), lvl.Cardinality())
	for _, row := range lvl.Grid() {
		var sb strings.Builder
		for _, b := range row {
			r := level.Rune(b)
			if flagPlain || b == level.None {
				sb.WriteRune(r)
				continue
			}
			st := lipgloss.NewStyle().Foreground(lipgloss.Color(tui.Hex(level.FillColor(b))))
			sb.WriteString(st.Render(string(r)))
		}
		fmt.Println("  " + sb.String())
	}
	return nil
}

func runLevelsPNG(_ *cobra.Command, args []string) error {
	info, err := findLevel(args[0])
	if err != nil {
		return err
	}
	out := flagPNGOut
	if out == "" {
		out = info.Name + ".png"
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	frame := render.LevelFrame(info.Build(nil), flagPNGAspect)
	if err := render.WritePNG(f, frame, flagPNGSize); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", out)
	return nil
}
