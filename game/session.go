package game

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"othello-engine/engine"
	mg "othello-engine/othellomg"
)

const (
	DefaultThinkTime    = 1800 * time.Millisecond
	DefaultStepTime     = 800 * time.Millisecond
	DefaultSpectateTime = 600 * time.Millisecond
	DefaultRunTime      = 500 * time.Millisecond

	// runSafety bounds RunToEnd in plies, passes included.
	runSafety = 200
)

// Record is one entry of the move history. Move is PassMove for a pass.
type Record struct {
	Move  mg.Move
	Black bool
}

func (r Record) String() string {
	if r.Black {
		return "X:" + r.Move.String()
	}
	return "O:" + r.Move.String()
}

// Settings are the user-facing knobs of a session.
type Settings struct {
	HumanIsBlack bool
	Spectate     bool
	ThinkTime    time.Duration
}

// Snapshot is a self-contained copy of a session, safe to hand to observers.
type Snapshot struct {
	Board        string   `json:"board"`
	BlackToMove  bool     `json:"blackToMove"`
	Black        int      `json:"black"`
	White        int      `json:"white"`
	Legal        []string `json:"legal"`
	Over         bool     `json:"over"`
	Winner       string   `json:"winner,omitempty"`
	HumansTurn   bool     `json:"humansTurn"`
	HumanIsBlack bool     `json:"humanIsBlack"`
	Spectate     bool     `json:"spectate"`
	ThinkMs      int64    `json:"thinkMs"`
	Moves        []string `json:"moves"`
}

type SessionOption func(*Session)

// WithBudgets overrides the fixed search budgets of StepAI, spectating
// AIMove and RunToEnd.
func WithBudgets(step, spectate, run time.Duration) SessionOption {
	return func(s *Session) {
		s.stepTime, s.spectateTime, s.runTime = step, spectate, run
	}
}

/*
Session is one local game between a human and the engine, or between the
engine and itself when spectating. All methods are safe for concurrent use;
engine searches run while the session lock is held, so callers see either the
position before or after an engine move.
*/
type Session struct {
	mu       sync.Mutex
	engine   *engine.Engine
	state    State
	settings Settings
	moves    []Record

	stepTime     time.Duration
	spectateTime time.Duration
	runTime      time.Duration

	nextSub     int
	subscribers map[int]func(Snapshot)
}

// NewSession starts a game from the opening position. A nil engine gets one
// with default weights.
func NewSession(e *engine.Engine, opts ...SessionOption) *Session {
	if e == nil {
		e = engine.New()
	}
	s := &Session{
		engine:       e,
		state:        NewState(),
		settings:     Settings{HumanIsBlack: true, ThinkTime: DefaultThinkTime},
		stepTime:     DefaultStepTime,
		spectateTime: DefaultSpectateTime,
		runTime:      DefaultRunTime,
		subscribers:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the session's engine for weight changes between moves.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Subscribe registers fn to receive a snapshot after every change and
// returns a function that removes it.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// update runs f under the lock and notifies subscribers when it succeeds.
func (s *Session) update(f func() error) error {
	s.mu.Lock()
	err := f()
	var snap Snapshot
	var subs []func(Snapshot)
	if err == nil {
		snap = s.snapshotLocked()
		subs = lo.Values(s.subscribers)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return err
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Configure replaces the settings; the think time is clamped to the engine's
// accepted range.
func (s *Session) Configure(settings Settings) {
	_ = s.update(func() error {
		settings.ThinkTime = engine.ClampThinkTime(settings.ThinkTime)
		s.settings = settings
		return nil
	})
}

// Moves returns the moves played since the last reset.
func (s *Session) Moves() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.moves...)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// HumansTurn reports whether the human is to move. Never true while
// spectating.
func (s *Session) HumansTurn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.humansTurnLocked()
}

func (s *Session) humansTurnLocked() bool {
	return !s.settings.Spectate && s.settings.HumanIsBlack == s.state.BlackToMove
}

// Reset returns to the opening position and clears the transposition table.
func (s *Session) Reset() {
	_ = s.update(func() error {
		s.engine.Clear()
		s.state = NewState()
		s.moves = s.moves[:0]
		log.Info().Msg("game reset")
		return nil
	})
}

// Load replaces the position and forgets the move history. The table is kept.
func (s *Session) Load(st State) {
	_ = s.update(func() error {
		s.state = st
		s.moves = s.moves[:0]
		return nil
	})
}

// PlayHuman plays m for the human. Illegal moves come back as
// *othellomg.InvalidMoveError and leave the game unchanged.
func (s *Session) PlayHuman(m mg.Move) error {
	return s.update(func() error {
		if s.state.Over() {
			return ErrGameOver
		}
		if !s.humansTurnLocked() {
			return ErrNotHumansTurn
		}
		return s.playLocked(m)
	})
}

// AutoPass passes for the side to move when it has no move and reports
// whether it did.
func (s *Session) AutoPass() (bool, error) {
	passed := false
	err := s.update(func() error {
		if s.state.Over() {
			return ErrGameOver
		}
		if s.state.Legal() != 0 {
			passed = false
			return nil
		}
		passed = true
		return s.playLocked(mg.PassMove)
	})
	return passed, err
}

// StepAI plays one engine move for the side to move with the fixed step
// budget, passing when there is nothing to play.
func (s *Session) StepAI() (mg.Move, error) {
	return s.engineMove(func() time.Duration { return s.stepTime })
}

// AIMove plays the engine's move for the side to move with the configured
// think time, or the spectate budget while spectating.
func (s *Session) AIMove() (mg.Move, error) {
	return s.engineMove(func() time.Duration {
		if s.settings.Spectate {
			return engine.ClampThinkTime(s.spectateTime)
		}
		return engine.ClampThinkTime(s.settings.ThinkTime)
	})
}

func (s *Session) engineMove(budget func() time.Duration) (mg.Move, error) {
	move := mg.PassMove
	err := s.update(func() error {
		if s.state.Over() {
			return ErrGameOver
		}
		move = s.engine.SearchBestMove(s.state.Position, s.state.BlackToMove, budget())
		return s.playLocked(move)
	})
	return move, err
}

// RunToEnd clears the table and lets the engine play both sides until the
// game ends. Observers see only the final position.
func (s *Session) RunToEnd() error {
	return s.update(func() error {
		s.engine.Clear()
		for ply := 0; ply < runSafety && !s.state.Over(); ply++ {
			move := s.engine.SearchBestMove(s.state.Position, s.state.BlackToMove, s.runTime)
			if err := s.playLocked(move); err != nil {
				return err
			}
		}
		black, white := s.state.Counts()
		log.Info().Int("black", black).Int("white", white).Str("winner", s.state.Winner().String()).Msg("run to end finished")
		return nil
	})
}

func (s *Session) playLocked(m mg.Move) error {
	black := s.state.BlackToMove
	if err := s.state.Play(m); err != nil {
		return err
	}
	s.moves = append(s.moves, Record{Move: m, Black: black})
	log.Debug().Str("move", m.String()).Bool("black", black).Msg("move played")
	return nil
}

func (s *Session) snapshotLocked() Snapshot {
	black, white := s.state.Counts()
	return Snapshot{
		Board:        s.state.String(),
		BlackToMove:  s.state.BlackToMove,
		Black:        black,
		White:        white,
		Legal:        lo.Map(mg.MoveList(s.state.Legal()), func(m mg.Move, _ int) string { return m.String() }),
		Over:         s.state.Over(),
		Winner:       s.state.Winner().String(),
		HumansTurn:   s.humansTurnLocked(),
		HumanIsBlack: s.settings.HumanIsBlack,
		Spectate:     s.settings.Spectate,
		ThinkMs:      s.settings.ThinkTime.Milliseconds(),
		Moves:        lo.Map(s.moves, func(r Record, _ int) string { return r.String() }),
	}
}
