package othellomg

import "fmt"

// InvalidMoveError is returned when a move is not legal in the position it is
// applied to. The position is left untouched.
type InvalidMoveError struct {
	Move     Move
	Position Position
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("othellomg: illegal move %s", e.Move)
}

// Flips returns the opponent discs flanked by placing a disc on move. A run
// only counts when it ends on a mover disc; a run ending on an empty square or
// the board edge contributes nothing.
func Flips(mover, opponent Bitboard, move Move) Bitboard {
	if move == PassMove {
		return 0
	}
	var flips Bitboard
	for _, d := range Directions {
		var run Bitboard
		cur := Shift(Bitboard(move), d)
		for cur&opponent != 0 {
			run |= cur
			cur = Shift(cur, d)
		}
		if cur&mover != 0 {
			flips |= run
		}
	}
	return flips
}

// Play applies m without checking legality and returns the successor seen
// from the new side to move. The search only calls it with generated moves.
func (p Position) Play(m Move) Position {
	if m == PassMove {
		return p.Swap()
	}
	f := Flips(p.Mover, p.Opponent, m)
	return Position{
		Mover:    p.Opponent ^ f,
		Opponent: p.Mover | f | Bitboard(m),
	}
}

// ApplyMove validates m against the legal moves of p and plays it. A pass is
// always accepted and only swaps the sides.
func ApplyMove(p Position, m Move) (Position, error) {
	if m == PassMove {
		return p.Swap(), nil
	}
	if m.Square() == NoSquare || Bitboard(m)&(Bitboard(m)-1) != 0 || p.LegalMoves()&Bitboard(m) == 0 {
		return p, &InvalidMoveError{Move: m, Position: p}
	}
	return p.Play(m), nil
}
