package othellomg

import (
	"fmt"
	"math/bits"
	"strings"
)

// Move is a single-bit mask naming the square a disc is placed on. The zero
// value is the pass move.
type Move Bitboard

const PassMove Move = 0

// MoveAt returns the move placing a disc on sq.
func MoveAt(sq Square) Move { return Move(SquareBB(sq)) }

// IsPass reports whether m is the pass move.
func (m Move) IsPass() bool { return m == PassMove }

// Square returns the target square, or NoSquare for a pass.
func (m Move) Square() Square {
	if m == PassMove {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(m)))
}

// IsCorner reports whether m takes one of the four corners.
func (m Move) IsCorner() bool { return Bitboard(m)&Corners != 0 }

// String renders the move as "d3", or "pass".
func (m Move) String() string {
	if m == PassMove {
		return "pass"
	}
	return m.Square().String()
}

// ParseMove parses "d3", "D3", "pass" or "--".
func ParseMove(s string) (Move, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "pass", "--", "ps":
		return PassMove, nil
	}
	if len(s) != 2 {
		return PassMove, fmt.Errorf("othellomg: invalid move %q", s)
	}
	col := int(s[0]) - 'a'
	row := int(s[1]) - '1'
	if col < 0 || col > 7 || row < 0 || row > 7 {
		return PassMove, fmt.Errorf("othellomg: invalid move %q", s)
	}
	return MoveAt(SquareAt(row, col)), nil
}
