package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/sound"
)

func press(m tea.Model, k tea.KeyMsg) (tea.Model, tea.Cmd) { return m.Update(k) }

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyQ     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestMenu_Items(t *testing.T) {
	m := NewMenuModel(testLevels(), true, 80, 24)
	require.Len(t, m.items, 7)
	assert.Equal(t, MenuContinue, m.items[0].Action)
	assert.Equal(t, MenuNewGame, m.items[1].Action)
	assert.Equal(t, MenuItem{Title: "Level 2: Two", Action: MenuLevel, Level: 1}, m.items[3])
	assert.Equal(t, MenuQuit, m.items[6].Action)

	fresh := NewMenuModel(testLevels(), false, 80, 24)
	assert.Equal(t, MenuNewGame, fresh.items[0].Action)
}

func TestMenu_Select(t *testing.T) {
	var next tea.Model = NewMenuModel(testLevels(), false, 80, 24)
	next, _ = press(next, keyDown)
	next, _ = press(next, keyDown)
	next, cmd := press(next, keyEnter)
	assert.NotNil(t, cmd)

	item, ok := next.(MenuModel).Chosen()
	require.True(t, ok)
	assert.Equal(t, MenuLevel, item.Action)
	assert.Equal(t, 1, item.Level)
	assert.False(t, next.(MenuModel).IsQuitting())
}

func TestMenu_Quit(t *testing.T) {
	next, cmd := press(NewMenuModel(nil, false, 80, 24), keyQ)
	assert.NotNil(t, cmd)
	assert.True(t, next.(MenuModel).IsQuitting())
	assert.Empty(t, next.View())
}

func TestSession_Flow(t *testing.T) {
	store := openStore(t)
	sm, err := NewSessionModel(SessionOptions{
		Game: GameOptions{
			Config:  testConfig(),
			Levels:  testLevels(),
			Store:   store,
			Player:  "ann",
			Logger:  log.NewWithOptions(io.Discard, log.Options{}),
			Outputs: sound.NewSilentOutputs(2),
		},
		FPS: 30,
	}, 40, 22)
	require.NoError(t, err)
	t.Cleanup(sm.Close)
	assert.Contains(t, sm.View(), "New game")

	next, cmd := press(sm, keyEnter)
	s := next.(SessionModel)
	require.NotNil(t, s.game, "new game starts")
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, s.game.game.Session.Stats().Level)
	assert.Same(t, s.game.game, s.slot.g)

	next, cmd = press(s, keyQ)
	s = next.(SessionModel)
	assert.Nil(t, cmd, "leaving a game returns to the menu")
	assert.Nil(t, s.game)
	assert.Nil(t, s.slot.g)
	assert.Equal(t, MenuContinue, s.menu.items[0].Action, "quitting saved the game")

	next, _ = press(s, keyTab)
	s = next.(SessionModel)
	require.NotNil(t, s.scores)
	assert.Contains(t, s.View(), "HIGH SCORES")

	next, _ = press(s, keyQ)
	s = next.(SessionModel)
	assert.Nil(t, s.scores)

	_, cmd = press(s, keyQ)
	assert.NotNil(t, cmd)
}

func TestSession_ScoresWithoutStore(t *testing.T) {
	sm, err := NewSessionModel(SessionOptions{Game: GameOptions{Levels: testLevels()}}, 40, 22)
	require.NoError(t, err)
	next, _ := press(sm, keyTab)
	s := next.(SessionModel)
	assert.Nil(t, s.scores)
	assert.Contains(t, s.View(), "no score database")
}
