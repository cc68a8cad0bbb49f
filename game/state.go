package game

import (
	"errors"

	mg "othello-engine/othellomg"
)

var (
	ErrPassNotAllowed = errors.New("game: pass is only allowed without a legal move")
	ErrNotHumansTurn  = errors.New("game: not the human's turn")
	ErrGameOver       = errors.New("game: game is over")
)

// Outcome of a finished game.
type Outcome int

const (
	Undecided Outcome = iota
	BlackWins
	WhiteWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case BlackWins:
		return "black"
	case WhiteWins:
		return "white"
	case Draw:
		return "draw"
	}
	return ""
}

// State is a position together with the colour of the side to move.
type State struct {
	Position    mg.Position
	BlackToMove bool
}

func NewState() State {
	return State{Position: mg.StartPosition(), BlackToMove: true}
}

// Black returns the absolute black discs.
func (s State) Black() mg.Bitboard {
	b, _ := s.Position.Colors(s.BlackToMove)
	return b
}

// White returns the absolute white discs.
func (s State) White() mg.Bitboard {
	_, w := s.Position.Colors(s.BlackToMove)
	return w
}

func (s State) Counts() (black, white int) {
	return s.Black().Count(), s.White().Count()
}

// Legal returns the moves of the side to move.
func (s State) Legal() mg.Bitboard {
	return s.Position.LegalMoves()
}

func (s State) Over() bool {
	return s.Position.IsTerminal()
}

// Winner reports the result by disc count once the game is over.
func (s State) Winner() Outcome {
	if !s.Over() {
		return Undecided
	}
	black, white := s.Counts()
	switch {
	case black > white:
		return BlackWins
	case white > black:
		return WhiteWins
	}
	return Draw
}

// Play validates and plays m for the side to move. PassMove is routed to Pass.
func (s *State) Play(m mg.Move) error {
	if s.Over() {
		return ErrGameOver
	}
	if m.IsPass() {
		return s.Pass()
	}
	next, err := mg.ApplyMove(s.Position, m)
	if err != nil {
		return err
	}
	s.Position = next
	s.BlackToMove = !s.BlackToMove
	return nil
}

// Pass hands the turn over. It fails while the side to move has a move.
func (s *State) Pass() error {
	if s.Over() {
		return ErrGameOver
	}
	if s.Position.HasLegalMoves() {
		return ErrPassNotAllowed
	}
	s.Position = s.Position.Swap()
	s.BlackToMove = !s.BlackToMove
	return nil
}

func (s State) String() string {
	return mg.FormatBoard(s.Position, s.BlackToMove)
}
