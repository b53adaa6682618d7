package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arkanoid/internal/core"
	"github.com/vovakirdan/arkanoid/internal/event"
	"github.com/vovakirdan/arkanoid/internal/level"
)

// InitialLives is the number of spare balls a new game starts with.
const InitialLives = 3

// ErrNoLevels is returned when a session is built without levels.
var ErrNoLevels = errors.New("engine: session has no levels")

// Loader starts a level. Engine implements it.
type Loader interface {
	LoadInfo(level.Info)
}

// Stats is the visible state of a session.
type Stats struct {
	Lives  int
	Level  int
	Score  int
	Blocks int    // blocks left to finish the level
	Title  string // title of the current level
}

// SavedGame is everything needed to resume a session.
type SavedGame struct {
	Lives int
	Level int
	Score int
	State []string // level grid at save time
}

// Session keeps lives, score and level progression. Its handlers are
// bound to worker events and may run on any worker goroutine.
type Session struct {
	// Changed fires after every stats change, outside the session lock.
	Changed event.Channel[Stats]
	// GameOver fires with the final stats when the last ball is lost.
	GameOver event.Channel[Stats]

	loader Loader
	levels []level.Info
	logger *log.Logger

	mu     sync.Mutex
	stats  Stats
	binder event.Binder
}

// NewSession creates a session over levels. Nothing is loaded until
// Start or Resume.
func NewSession(loader Loader, levels []level.Info, logger *log.Logger) (*Session, error) {
	if len(levels) == 0 {
		return nil, ErrNoLevels
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		loader: loader,
		levels: levels,
		logger: logger.WithPrefix("session"),
		stats:  Stats{Lives: InitialLives},
	}, nil
}

// Bind connects the session to the engine's events.
func (s *Session) Bind(e *Engine) {
	event.Bind(&s.binder, &e.Physics.Events.ScoreUpdated, s.AddScore)
	event.Bind(&s.binder, &e.Physics.Events.CardinalityChanged, s.SetBlocks)
	event.Bind(&s.binder, &e.Physics.Events.BallLost, func(event.Signal) { s.BallLost() })
	event.Bind(&s.binder, &e.Physics.Events.LevelFinished, func(event.Signal) { s.LevelFinished() })
	event.Bind(&s.binder, &e.Prizes.Caught, func(pkg core.PrizePackage) { s.PrizeCaught(pkg.Prize) })
}

// Close releases the event bindings.
func (s *Session) Close() { s.binder.Close() }

// Stats returns the current stats.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Levels returns the number of levels in rotation.
func (s *Session) Levels() int { return len(s.levels) }

// Start begins a fresh game at level index.
func (s *Session) Start(index int) error {
	if index < 0 || index >= len(s.levels) {
		return fmt.Errorf("engine: level %d of %d: %w", index, len(s.levels), ErrNoLevels)
	}
	s.mu.Lock()
	s.stats = Stats{Lives: InitialLives, Level: index, Title: s.levels[index].Title}
	info := s.levels[index]
	st := s.stats
	s.mu.Unlock()

	s.load(info, st)
	return nil
}

// Resume continues a saved game. An empty saved state reloads the level
// from scratch.
func (s *Session) Resume(g SavedGame) error {
	if g.Level < 0 || g.Level >= len(s.levels) {
		return fmt.Errorf("engine: saved level %d of %d: %w", g.Level, len(s.levels), ErrNoLevels)
	}
	info := s.levels[g.Level]
	if len(g.State) > 0 {
		info.Lines = g.State
	}
	s.mu.Lock()
	s.stats = Stats{Lives: g.Lives, Level: g.Level, Score: max(0, g.Score), Title: info.Title}
	st := s.stats
	s.mu.Unlock()

	s.load(info, st)
	return nil
}

// Snapshot captures the session with the given on-screen level state.
func (s *Session) Snapshot(state []string) SavedGame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SavedGame{
		Lives: s.stats.Lives,
		Level: s.stats.Level,
		Score: s.stats.Score,
		State: append([]string(nil), state...),
	}
}

// Restart reloads the current level without touching the score.
func (s *Session) Restart() {
	s.mu.Lock()
	info := s.levels[s.stats.Level]
	st := s.stats
	s.mu.Unlock()
	s.load(info, st)
}

// Skip moves on to the next level at a score penalty of 10·(level+1)².
func (s *Session) Skip() {
	s.mu.Lock()
	s.addScore(-10 * square(s.stats.Level+1))
	info, st := s.advance()
	s.mu.Unlock()
	s.load(info, st)
}

// AddScore adds points from a hit block.
func (s *Session) AddScore(points int) {
	s.mu.Lock()
	s.addScore(points)
	st := s.stats
	s.mu.Unlock()
	s.Changed.Emit(st)
}

// SetBlocks records how many blocks are left.
func (s *Session) SetBlocks(n int) {
	s.mu.Lock()
	s.stats.Blocks = n
	st := s.stats
	s.mu.Unlock()
	s.Changed.Emit(st)
}

// BallLost costs a life and 2·(level+1)² points. Losing the ball with no
// lives left ends the game: lives are refilled and the level restarts
// with the score kept.
func (s *Session) BallLost() {
	s.mu.Lock()
	s.addScore(-2 * square(s.stats.Level+1))
	over := s.loseLife()
	st := s.stats
	info := s.levels[s.stats.Level]
	s.mu.Unlock()

	if over.Lives < 0 {
		s.gameOver(over, info, st)
		return
	}
	s.Changed.Emit(st)
}

// LevelFinished moves to the next level, wrapping after the last one.
func (s *Session) LevelFinished() {
	s.mu.Lock()
	info, st := s.advance()
	s.mu.Unlock()
	s.logger.Info("level finished", "next", st.Level, "score", st.Score)
	s.load(info, st)
}

// PrizeCaught applies the score and life rules of a caught prize.
func (s *Session) PrizeCaught(p core.Prize) {
	s.mu.Lock()
	var over Stats
	reload := false
	switch p {
	case core.PrizeDestroy:
		over = s.loseLife()
	case core.PrizeVitality:
		s.stats.Lives++
		s.addScore(45)
	case core.PrizeInit:
		reload = true
	default:
		s.addScore(PrizeScore(p))
	}
	st := s.stats
	info := s.levels[s.stats.Level]
	s.mu.Unlock()

	switch {
	case over.Lives < 0:
		s.gameOver(over, info, st)
	case reload:
		s.load(info, st)
	default:
		s.Changed.Emit(st)
	}
}

// PrizeScore returns the points a prize is worth on its own. Lives are not
// included.
func PrizeScore(p core.Prize) int {
	switch p {
	case core.PrizeNone, core.PrizeDestroy, core.PrizeInit:
		return 0
	case core.PrizeDragon:
		return 90
	case core.PrizeVitality:
		return 45
	case core.PrizeWin:
		return 400
	case core.PrizeZygote:
		return 15
	case core.PrizeScore1:
		return 20
	case core.PrizeScore2:
		return 20 + 35
	case core.PrizeScore3:
		return 20 + 35 + 50
	case core.PrizeScore4:
		return 20 + 35 + 50 + 75
	case core.PrizeScore5:
		return 20 + 35 + 50 + 75 + 95
	default:
		return 35
	}
}

// loseLife takes a life. When none is left it refills them and returns
// the stats as they were at the end of the game, with negative lives.
func (s *Session) loseLife() Stats {
	s.stats.Lives--
	if s.stats.Lives >= 0 {
		return Stats{}
	}
	over := s.stats
	s.stats.Lives = InitialLives
	return over
}

func (s *Session) gameOver(final Stats, info level.Info, st Stats) {
	s.logger.Info("game over", "level", final.Level, "score", final.Score)
	s.GameOver.Emit(final)
	s.load(info, st)
}

// advance must be called with the lock held.
func (s *Session) advance() (level.Info, Stats) {
	s.stats.Level = (s.stats.Level + 1) % len(s.levels)
	info := s.levels[s.stats.Level]
	s.stats.Title = info.Title
	return info, s.stats
}

func (s *Session) addScore(points int) {
	s.stats.Score = max(0, s.stats.Score+points)
}

func (s *Session) load(info level.Info, st Stats) {
	s.logger.Debug("loading", "level", st.Level, "title", info.Title)
	s.loader.LoadInfo(info)
	s.Changed.Emit(st)
}

func square(n int) int { return n * n }
