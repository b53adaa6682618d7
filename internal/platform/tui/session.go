package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/arkanoid/internal/level"
)

// SessionOptions configures a SessionModel.
type SessionOptions struct {
	Game GameOptions // Template for every game started from the menu
	FPS  int
}

// gameSlot holds the running game of a session. It is shared by every
// copy of the model so the owner can close whatever runs last.
type gameSlot struct {
	mu sync.Mutex
	g  *Game
}

func (s *gameSlot) swap(g *Game) {
	s.mu.Lock()
	old := s.g
	s.g = g
	s.mu.Unlock()
	if old != nil && old != g {
		old.Close()
	}
}

// SessionModel runs the full flow: menu, then a game or the score table,
// then back to the menu.
type SessionModel struct {
	opts   SessionOptions
	slot   *gameSlot
	menu   MenuModel
	game   *Model
	scores *ScoreboardModel
	width  int
	height int
	note   string
}

// NewSessionModel creates a session that starts at the menu.
func NewSessionModel(opts SessionOptions, width, height int) (SessionModel, error) {
	if len(opts.Game.Levels) == 0 {
		levels, err := level.Builtins()
		if err != nil {
			return SessionModel{}, err
		}
		opts.Game.Levels = levels
	}
	m := SessionModel{opts: opts, slot: &gameSlot{}, width: width, height: height}
	m.menu = m.newMenu()
	return m, nil
}

func (m SessionModel) newMenu() MenuModel {
	return NewMenuModel(m.opts.Game.Levels, m.hasSave(), m.width, m.height)
}

func (m SessionModel) hasSave() bool {
	store, player := m.opts.Game.Store, m.opts.Game.Player
	if store == nil || player == "" {
		return false
	}
	saved, err := store.LoadGame(player)
	return err == nil && saved != nil
}

// Close stops the running game, if any.
func (m SessionModel) Close() { m.slot.swap(nil) }

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.scores != nil:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}
	if m.menu.IsQuitting() {
		return m, tea.Quit
	}
	item, ok := m.menu.Chosen()
	if !ok {
		return m, cmd
	}

	m.note = ""
	if item.Action == MenuScores {
		if m.opts.Game.Store == nil {
			m.note = "no score database"
			m.menu = m.newMenu()
			return m, nil
		}
		sb := NewScoreboardModel(m.opts.Game.Store, m.width, m.height)
		m.scores = &sb
		return m, nil
	}
	return m.startGame(item)
}

func (m SessionModel) startGame(item MenuItem) (tea.Model, tea.Cmd) {
	g, err := NewGame(m.opts.Game)
	if err == nil {
		switch item.Action {
		case MenuContinue:
			err = g.Start(true)
		case MenuLevel:
			err = g.Session.Start(item.Level)
		default:
			err = g.Start(false)
		}
		if err != nil {
			g.Close()
		}
	}
	if err != nil {
		m.note = "could not start: " + err.Error()
		m.menu = m.newMenu()
		return m, nil
	}

	m.slot.swap(g)
	gm := NewModel(g, m.opts.FPS)
	next, _ := gm.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	gm = next.(Model)
	m.game = &gm
	return m, gm.Init()
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(Model)
	m.game = &gm
	if gm.Quitting() {
		m.slot.swap(nil)
		m.game = nil
		m.menu = m.newMenu()
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	sb := next.(ScoreboardModel)
	m.scores = &sb
	if sb.quitting {
		m.scores = nil
		m.menu = m.newMenu()
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	switch {
	case m.game != nil:
		return m.game.View()
	case m.scores != nil:
		return m.scores.View()
	}
	v := m.menu.View()
	if m.note != "" {
		v += "\n" + centerText(noteStyle.Render(m.note), m.width)
	}
	return v
}

// RunSession runs the menu flow in the local terminal.
func RunSession(opts SessionOptions) error {
	m, err := NewSessionModel(opts, 0, 0)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
