package tui

import (
	"errors"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arkanoid/internal/config"
	"github.com/vovakirdan/arkanoid/internal/core"
)

// chromeRows are the terminal rows below the field: status and help.
const chromeRows = 2

// Model is the Bubble Tea model for one game.
type Model struct {
	game     *Game
	keys     KeyMap
	help     help.Model
	canvas   *Canvas
	fps      int
	width    int
	height   int
	shotDir  string
	note     string
	quitting bool
}

// NewModel creates a model over a started game. fps is the frame rate.
func NewModel(g *Game, fps int) Model {
	return Model{
		game:    g,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		canvas:  NewCanvas(1, 1),
		fps:     fps,
		shotDir: filepath.Join(config.DataDir(), "screenshots"),
	}
}

// FieldSurface returns the field surface for a terminal of w x h cells.
func FieldSurface(w, h int) core.Surface {
	rows := h - chromeRows
	if w <= 0 || rows <= 0 {
		return core.Surface{}
	}
	return core.Surface{Width: w, Height: rows, Aspect: float64(w) / float64(2*rows)}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.game.Engine
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		if err := m.game.Save(); err != nil && !errors.Is(err, ErrNoStore) {
			m.game.logger.Warn("autosave failed", "err", err)
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		e.Shift(e.LastFrame().Bite.X - shiftStep)
	case key.Matches(msg, m.keys.Right):
		e.Shift(e.LastFrame().Bite.X + shiftStep)
	case key.Matches(msg, m.keys.Throw):
		e.Throw()
	case key.Matches(msg, m.keys.Save):
		m.note = "saved"
		if err := m.game.Save(); err != nil {
			m.note = "save failed: " + err.Error()
		}
	case key.Matches(msg, m.keys.Skip):
		m.game.Session.Skip()
	case key.Matches(msg, m.keys.Restart):
		m.game.Session.Restart()
	case key.Matches(msg, m.keys.Shot):
		path, err := m.game.Screenshot(m.shotDir)
		m.note = path
		if err != nil {
			m.note = "screenshot failed"
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handleMouse drags the bite toward the pointer. Each step stays inside
// the touch area.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionMotion && msg.Action != tea.MouseActionPress {
		return m, nil
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.game.Engine.Throw()
		return m, nil
	}
	if m.width <= 0 {
		return m, nil
	}
	target := core.FieldMin + (float64(msg.X)+0.5)*(core.FieldMax-core.FieldMin)/float64(m.width)
	x := m.game.Engine.LastFrame().Bite.X
	step := math.Max(-core.BiteTouchArea*0.9, math.Min(core.BiteTouchArea*0.9, target-x))
	m.game.Engine.Shift(x + step)
	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width, m.height = msg.Width, msg.Height
	m.help.Width = msg.Width
	s := FieldSurface(msg.Width, msg.Height)
	if !s.Valid() {
		return m, nil
	}
	m.canvas = NewCanvas(s.Width, s.Height)
	m.game.Engine.SurfaceReady(s)
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	m.game.Engine.Tick()
	m.game.Pace()
	return m, tickCmd(m.fps)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width <= 0 || m.height <= chromeRows {
		return "waiting for terminal size..."
	}

	m.canvas.Draw(m.game.Engine.LastFrame())
	st := m.game.Session.Stats()

	var sb strings.Builder
	sb.WriteString(m.canvas.String())
	sb.WriteRune('\n')
	sb.WriteString(StatusLine(st.Lives, st.Score, st.Level, st.Blocks, st.Title, m.note, m.width))
	sb.WriteRune('\n')
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Quitting reports whether the player left the game.
func (m Model) Quitting() bool { return m.quitting }

// Run plays g in the terminal until the player quits.
func Run(g *Game, fps int) error {
	p := tea.NewProgram(
		NewModel(g, fps),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
