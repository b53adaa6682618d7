package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/storage"
)

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store := openStore(t)
	for _, e := range []storage.ScoreEntry{
		{Player: "ann", Score: 300, Level: 2, LevelName: "03_armour"},
		{Player: "bob", Score: 120, Level: 0},
		{Player: "ann", Score: 50, Level: 0, LevelName: "01_bricks"},
	} {
		require.NoError(t, store.TouchPlayer(e.Player))
		_, err := store.SaveScore(e)
		require.NoError(t, err)
	}
	return store
}

func TestScoreRows(t *testing.T) {
	rows := ScoreRows([]storage.ScoreEntry{
		{Player: "ann", Score: 300, LevelName: "03_armour"},
		{Player: "bob", Score: 7, Level: 4},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "#1", rows[0][0])
	assert.Equal(t, "03_armour", rows[0][3])
	assert.Equal(t, "#5", rows[1][3])
}

func TestScoreboard_Filters(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), 100, 30)
	assert.Equal(t, []string{allPlayers, "ann", "bob"}, m.filters)
	assert.Len(t, m.scores, 3)
	assert.Contains(t, m.View(), "HIGH SCORES")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(ScoreboardModel)
	require.Len(t, m.scores, 2)
	assert.Equal(t, 300, m.scores[0].Score)
	assert.Contains(t, m.View(), "HIGH SCORES - ann")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(ScoreboardModel)
	assert.Equal(t, "bob", m.filter())
	assert.Len(t, m.scores, 1)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
	assert.Empty(t, next.View())
}

func TestScoreboard_Empty(t *testing.T) {
	m := NewScoreboardModel(openStore(t), 60, 20)
	assert.Contains(t, m.View(), "No scores recorded yet.")
}
