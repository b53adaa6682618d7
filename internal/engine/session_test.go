package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/level"
)

type fakeLoader struct{ loaded []level.Info }

func (f *fakeLoader) LoadInfo(info level.Info) { f.loaded = append(f.loaded, info) }

func (f *fakeLoader) last() level.Info { return f.loaded[len(f.loaded)-1] }

func testLevels() []level.Info {
	return []level.Info{
		{Name: "a", Title: "A", Lines: []string{"BB"}},
		{Name: "b", Title: "B", Lines: []string{"SS"}, Bonus: true},
		{Name: "c", Title: "C", Lines: []string{"TT"}},
	}
}

func newSession(t *testing.T) (*Session, *fakeLoader) {
	t.Helper()
	ld := &fakeLoader{}
	s, err := NewSession(ld, testLevels(), quiet())
	require.NoError(t, err)
	require.NoError(t, s.Start(0))
	return s, ld
}

func TestNewSession_NoLevels(t *testing.T) {
	_, err := NewSession(&fakeLoader{}, nil, nil)
	assert.ErrorIs(t, err, ErrNoLevels)
}

func TestSession_Start(t *testing.T) {
	s, ld := newSession(t)
	require.Len(t, ld.loaded, 1)
	assert.Equal(t, "a", ld.last().Name)
	assert.Equal(t, Stats{Lives: InitialLives, Title: "A"}, s.Stats())
	assert.Error(t, s.Start(3))
}

func TestSession_ScoreNeverNegative(t *testing.T) {
	s, _ := newSession(t)
	s.AddScore(3)
	s.AddScore(-10)
	assert.Zero(t, s.Stats().Score)
}

func TestSession_BallLost(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Start(2))
	s.AddScore(100)

	s.BallLost()
	st := s.Stats()
	assert.Equal(t, InitialLives-1, st.Lives)
	assert.Equal(t, 100-2*9, st.Score)
}

func TestSession_GameOver(t *testing.T) {
	s, ld := newSession(t)
	s.AddScore(50)
	var finals []Stats
	s.GameOver.Subscribe(func(st Stats) { finals = append(finals, st) })

	for i := 0; i < InitialLives; i++ {
		s.BallLost()
	}
	assert.Empty(t, finals)
	assert.Zero(t, s.Stats().Lives)
	loads := len(ld.loaded)

	s.BallLost()
	require.Len(t, finals, 1)
	assert.Equal(t, -1, finals[0].Lives)
	assert.Equal(t, 50-4*2, finals[0].Score)

	st := s.Stats()
	assert.Equal(t, InitialLives, st.Lives)
	assert.Equal(t, 50-4*2, st.Score, "the score survives a game over")
	require.Len(t, ld.loaded, loads+1)
	assert.Equal(t, "a", ld.last().Name)
}

func TestSession_LevelFinishedWraps(t *testing.T) {
	s, ld := newSession(t)
	s.LevelFinished()
	assert.Equal(t, "b", ld.last().Name)
	assert.True(t, ld.last().Bonus)
	s.LevelFinished()
	s.LevelFinished()
	assert.Equal(t, "a", ld.last().Name)
	assert.Zero(t, s.Stats().Level)
	assert.Equal(t, "A", s.Stats().Title)
}

func TestSession_Skip(t *testing.T) {
	s, ld := newSession(t)
	s.AddScore(25)
	s.Skip()
	assert.Equal(t, 15, s.Stats().Score)
	assert.Equal(t, 1, s.Stats().Level)
	assert.Equal(t, "b", ld.last().Name)
}

func TestSession_PrizeCaught(t *testing.T) {
	tests := []struct {
		prize core.Prize
		lives int
		score int
	}{
		{core.PrizeExtend, InitialLives, 35},
		{core.PrizeDragon, InitialLives, 90},
		{core.PrizeVitality, InitialLives + 1, 45},
		{core.PrizeDestroy, InitialLives - 1, 0},
		{core.PrizeWin, InitialLives, 400},
		{core.PrizeZygote, InitialLives, 15},
		{core.PrizeScore1, InitialLives, 20},
		{core.PrizeScore3, InitialLives, 105},
		{core.PrizeScore5, InitialLives, 275},
	}
	for _, tt := range tests {
		t.Run(tt.prize.String(), func(t *testing.T) {
			s, _ := newSession(t)
			s.PrizeCaught(tt.prize)
			st := s.Stats()
			assert.Equal(t, tt.lives, st.Lives)
			assert.Equal(t, tt.score, st.Score)
		})
	}
}

func TestSession_InitPrizeReloads(t *testing.T) {
	s, ld := newSession(t)
	s.AddScore(10)
	s.PrizeCaught(core.PrizeInit)
	require.Len(t, ld.loaded, 2)
	assert.Equal(t, "a", ld.last().Name)
	assert.Equal(t, 10, s.Stats().Score)
}

func TestSession_SnapshotResume(t *testing.T) {
	s, _ := newSession(t)
	s.LevelFinished()
	s.AddScore(70)
	s.BallLost()

	saved := s.Snapshot([]string{"S0"})
	assert.Equal(t, SavedGame{Lives: 2, Level: 1, Score: 70 - 8, State: []string{"S0"}}, saved)

	ld := &fakeLoader{}
	r, err := NewSession(ld, testLevels(), quiet())
	require.NoError(t, err)
	require.NoError(t, r.Resume(saved))
	require.Len(t, ld.loaded, 1)
	assert.Equal(t, []string{"S0"}, ld.last().Lines)
	assert.True(t, ld.last().Bonus)
	assert.Equal(t, Stats{Lives: 2, Level: 1, Score: 62, Title: "B"}, r.Stats())

	assert.Error(t, r.Resume(SavedGame{Level: 9}))
}

func TestSession_ChangedFires(t *testing.T) {
	s, _ := newSession(t)
	var got []Stats
	s.Changed.Subscribe(func(st Stats) { got = append(got, st) })
	s.SetBlocks(4)
	s.AddScore(5)
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[1].Blocks)
	assert.Equal(t, 5, got[1].Score)
}

func TestSession_BindsEngine(t *testing.T) {
	e := newEngine(t, nil)
	defer e.Stop()
	s, err := NewSession(e, testLevels(), quiet())
	require.NoError(t, err)
	s.Bind(e)
	defer s.Close()

	e.Physics.Events.ScoreUpdated.Emit(12)
	e.Physics.Events.CardinalityChanged.Emit(3)
	e.Prizes.Caught.Emit(core.PrizePackage{Prize: core.PrizeZygote})
	st := s.Stats()
	assert.Equal(t, 27, st.Score)
	assert.Equal(t, 3, st.Blocks)
}
