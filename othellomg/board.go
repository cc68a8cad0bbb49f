package othellomg

import (
	"errors"
	"math/bits"
)

// Bitboard is a 64-bit disc mask. Bit i is Square i.
type Bitboard uint64

// Square indexes a cell. a1 (top-left) is 63, h8 (bottom-right) is 0; rows are
// counted top-down, so square = 63 - (row*8 + col).
type Square uint8

const NoSquare Square = 64

// File and edge masks.
const (
	FileA   Bitboard = 0x8080808080808080
	FileH   Bitboard = 0x0101010101010101
	NotFileA         = ^FileA
	NotFileH         = ^FileH
	// Inner six columns; a horizontal or diagonal flank never runs over a or h.
	InnerFiles Bitboard = 0x7E7E7E7E7E7E7E7E
	Full       Bitboard = 0xFFFFFFFFFFFFFFFF

	Corners Bitboard = 1<<63 | 1<<56 | 1<<7 | 1<<0
)

// Standard opening layout, black to move first.
const (
	StartBlack Bitboard = 0x0000000810000000 // d5, e4
	StartWhite Bitboard = 0x0000001008000000 // d4, e5
)

var ErrOverlappingDiscs = errors.New("othellomg: mover and opponent share a square")

// Position is an immutable board seen from the side to move.
type Position struct {
	Mover    Bitboard
	Opponent Bitboard
}

// NewPosition builds a Position, rejecting masks that overlap.
func NewPosition(mover, opponent Bitboard) (Position, error) {
	if mover&opponent != 0 {
		return Position{}, ErrOverlappingDiscs
	}
	return Position{Mover: mover, Opponent: opponent}, nil
}

// StartPosition returns the opening position with black as the mover.
func StartPosition() Position {
	return Position{Mover: StartBlack, Opponent: StartWhite}
}

func (p Position) Empty() Bitboard { return ^(p.Mover | p.Opponent) }

func (p Position) MoverCount() int    { return bits.OnesCount64(uint64(p.Mover)) }
func (p Position) OpponentCount() int { return bits.OnesCount64(uint64(p.Opponent)) }
func (p Position) EmptyCount() int    { return 64 - bits.OnesCount64(uint64(p.Mover|p.Opponent)) }

// Swap hands the turn over without playing a disc.
func (p Position) Swap() Position { return Position{Mover: p.Opponent, Opponent: p.Mover} }

// Validate reports whether the disjointness invariant holds.
func (p Position) Validate() bool { return p.Mover&p.Opponent == 0 }

// Count returns the number of set bits.
func (b Bitboard) Count() int { return bits.OnesCount64(uint64(b)) }

// Has reports whether sq is set.
func (b Bitboard) Has(sq Square) bool { return b&SquareBB(sq) != 0 }

// SquareBB returns the single-bit mask for sq.
func SquareBB(sq Square) Bitboard { return 1 << uint64(sq) }

// SquareAt maps a (row, col) pair, both in [0,7] counted from a1, to a Square.
func SquareAt(row, col int) Square { return Square(63 - (row*8 + col)) }

// Row returns the 0-based row counted from the top (row 0 is "1").
func (sq Square) Row() int { return (63 - int(sq)) / 8 }

// Col returns the 0-based column counted from the left (col 0 is "a").
func (sq Square) Col() int { return (63 - int(sq)) % 8 }

func (sq Square) String() string {
	if sq >= NoSquare {
		return "--"
	}
	return string([]byte{byte('a' + sq.Col()), byte('1' + sq.Row())})
}

// popLSB clears and returns the lowest set bit of mask.
func popLSB(mask *Bitboard) Bitboard {
	b := *mask & -*mask
	*mask ^= b
	return b
}
