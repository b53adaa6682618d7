package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
	"github.com/vovakirdan/arkanoid/internal/render"
)

const (
	glyphBlock = '█'
	glyphBite  = '▀'
	glyphBall  = '●'
	glyphBoom  = '*'
	glyphLaser = '│'
	glyphCatch = '+'
)

type cell struct {
	r  rune
	fg core.Color
	bg core.Color
}

// Canvas is a grid of colored terminal cells covering the field.
type Canvas struct {
	w, h  int
	cells []cell
}

// NewCanvas allocates a w x h canvas.
func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	return &Canvas{w: w, h: h, cells: make([]cell, w*h)}
}

// Rune returns the glyph at col, row.
func (c *Canvas) Rune(col, row int) rune {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return 0
	}
	return c.cells[row*c.w+col].r
}

func (c *Canvas) clear(bg core.Color) {
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', fg: bg, bg: bg}
	}
}

func (c *Canvas) set(col, row int, r rune, fg core.Color) {
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	i := row*c.w + col
	c.cells[i].r = r
	c.cells[i].fg = fg
}

// plot draws r at a field point.
func (c *Canvas) plot(x, y float64, r rune, fg core.Color) {
	if col, row, ok := render.Cell(x, y, c.w, c.h); ok {
		c.set(col, row, r, fg)
	}
}

// center returns the field point at the middle of a cell.
func (c *Canvas) center(col, row int) (x, y float64) {
	x = core.FieldMin + (float64(col)+0.5)*(core.FieldMax-core.FieldMin)/float64(c.w)
	y = core.FieldMax - (float64(row)+0.5)*(core.FieldMax-core.FieldMin)/float64(c.h)
	return x, y
}

// Draw paints f over the whole canvas.
func (c *Canvas) Draw(f render.Frame) {
	c.clear(f.Background)
	c.drawGrid(f)
	c.drawBite(f)

	for _, e := range f.Explosions {
		c.plot(e.X, e.Y, glyphBoom, e.Color)
	}
	if f.LaserLive {
		c.drawLaser(f.LaserHead)
	}
	for _, p := range f.Prizes {
		c.plot(p.X, p.Y, prizeGlyph(p.Prize), core.Yellow)
	}
	for _, x := range f.Catches {
		c.plot(x, core.UpperBorder, glyphCatch, level.FillColor(level.Midas))
	}

	fill, _ := render.BallColors(f.Appearance)
	c.plot(f.Ball.X, f.Ball.Y, glyphBall, fill)
}

func (c *Canvas) drawGrid(f render.Frame) {
	d := f.Dimens
	if len(f.Grid) == 0 || d.BlockWidth <= 0 || d.BlockHeight <= 0 {
		return
	}
	for row := 0; row < c.h; row++ {
		for col := 0; col < c.w; col++ {
			x, y := c.center(col, row)
			r := int(math.Floor((core.FieldMax - y) / d.BlockHeight))
			k := int(math.Floor((x - core.FieldMin) / d.BlockWidth))
			if r < 0 || r >= len(f.Grid) || k < 0 || k >= len(f.Grid[r]) {
				continue
			}
			if b := f.Grid[r][k]; b != level.None {
				c.set(col, row, glyphBlock, level.FillColor(b))
			}
		}
	}
}

func (c *Canvas) drawBite(f render.Frame) {
	b := f.Bite
	fill, _ := render.BiteColors(f.Appearance)
	_, row, ok := render.Cell(b.X, core.UpperBorder-0.5*b.Height, c.w, c.h)
	if !ok {
		return
	}
	for col := 0; col < c.w; col++ {
		x, _ := c.center(col, row)
		if math.Abs(x-b.X) <= b.HalfWidth() {
			c.set(col, row, glyphBite, fill)
		}
	}
	c.plot(b.X, core.UpperBorder-0.5*b.Height, glyphBite, fill)
}

func (c *Canvas) drawLaser(head core.LaserPackage) {
	tail := math.Max(head.Y-core.LaserSize, core.FieldMin)
	col, bottom, ok := render.Cell(head.X, tail, c.w, c.h)
	if !ok {
		return
	}
	top := 0
	if _, row, ok := render.Cell(head.X, head.Y, c.w, c.h); ok {
		top = row
	}
	for row := top; row <= bottom; row++ {
		c.set(col, row, glyphLaser, core.Red)
	}
}

func prizeGlyph(p core.Prize) rune {
	name := p.String()
	if name == "" {
		return '?'
	}
	return unicode.ToUpper(rune(name[0]))
}

// Hex returns c as a #rrggbb string.
func Hex(c core.Color) string {
	ch := func(v float64) int { return int(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return fmt.Sprintf("#%02x%02x%02x", ch(c.R), ch(c.G), ch(c.B))
}

type colorPair struct{ fg, bg core.Color }

// String converts the canvas to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func (c *Canvas) String() string {
	styles := make(map[colorPair]lipgloss.Style)
	styleFor := func(p colorPair) lipgloss.Style {
		st, ok := styles[p]
		if !ok {
			st = lipgloss.NewStyle().
				Foreground(lipgloss.Color(Hex(p.fg))).
				Background(lipgloss.Color(Hex(p.bg)))
			styles[p] = st
		}
		return st
	}

	var sb strings.Builder
	sb.Grow(c.w*c.h*2 + c.h)
	for row := 0; row < c.h; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}
		col := 0
		for col < c.w {
			start := c.cells[row*c.w+col]
			pair := colorPair{start.fg, start.bg}

			var run strings.Builder
			for col < c.w {
				cl := c.cells[row*c.w+col]
				if cl.fg != pair.fg || cl.bg != pair.bg {
					break
				}
				run.WriteRune(cl.r)
				col++
			}
			sb.WriteString(styleFor(pair).Render(run.String()))
		}
	}
	return sb.String()
}

var (
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd700"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#87ceeb"))
)

// StatusLine renders lives, score and level.
func StatusLine(lives, score, levelIndex, blocks int, title, note string, width int) string {
	left := statusStyle.Render(fmt.Sprintf("♥ %d  Score %d", max(lives, 0), score))
	mid := dimStyle.Render(fmt.Sprintf("  Level %d %s  Blocks %d", levelIndex+1, title, blocks))
	line := left + mid
	if note != "" {
		line += "  " + noteStyle.Render(note)
	}
	return lipgloss.NewStyle().MaxWidth(max(width, 1)).Render(line)
}
