package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/arkanoid/internal/level"
)

// MenuAction is what a menu item does.
type MenuAction int

const (
	MenuContinue MenuAction = iota // Resume the saved game
	MenuNewGame                    // Start at the configured level
	MenuLevel                      // Start at MenuItem.Level
	MenuScores
	MenuQuit
)

// MenuItem represents a selectable menu entry.
type MenuItem struct {
	Title  string
	Action MenuAction
	Level  int
}

type menuKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Scores key.Binding
	Quit   key.Binding
}

func defaultMenuKeys() menuKeys {
	return menuKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:   key.NewBinding(key.WithKeys("down", "j", "s")),
		Select: key.NewBinding(key.WithKeys("enter", " ")),
		Scores: key.NewBinding(key.WithKeys("tab")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// MenuModel is the Bubble Tea model for the start menu.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	height   int
	keys     menuKeys
	chosen   *MenuItem
	quitting bool
}

// NewMenuModel lists the start options: continue when a save exists, a
// new game, one entry per level, the score table and quit.
func NewMenuModel(levels []level.Info, hasSave bool, width, height int) MenuModel {
	var items []MenuItem
	if hasSave {
		items = append(items, MenuItem{Title: "Continue", Action: MenuContinue})
	}
	items = append(items, MenuItem{Title: "New game", Action: MenuNewGame})
	for i, info := range levels {
		title := info.Title
		if title == "" {
			title = info.Name
		}
		items = append(items, MenuItem{Title: fmt.Sprintf("Level %d: %s", i+1, title), Action: MenuLevel, Level: i})
	}
	items = append(items,
		MenuItem{Title: "High scores", Action: MenuScores},
		MenuItem{Title: "Quit", Action: MenuQuit},
	)
	return MenuModel{items: items, width: width, height: height, keys: defaultMenuKeys()}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Scores):
		m.chosen = &MenuItem{Title: "High scores", Action: MenuScores}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Select):
		item := m.items[m.cursor]
		m.chosen = &item
		if item.Action == MenuQuit {
			m.quitting = true
		}
		return m, tea.Quit
	}
	return m, nil
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff8c00"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the menu. Long level lists scroll around the cursor.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  A R K A N O I D  "), m.width))
	b.WriteString("\n\n")

	first, last := 0, len(m.items)
	if room := m.height - 8; room > 0 && len(m.items) > room {
		first = min(max(m.cursor-room/2, 0), len(m.items)-room)
		last = first + room
	}
	for i := first; i < last; i++ {
		line := "  " + m.items[i].Title
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + m.items[i].Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuHintStyle.Render("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Chosen returns the selected item, if any.
func (m MenuModel) Chosen() (MenuItem, bool) {
	if m.chosen == nil {
		return MenuItem{}, false
	}
	return *m.chosen, true
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
