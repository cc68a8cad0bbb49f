package othellomg

// Direction is one of the eight compass directions a flank can run in.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

var Directions = [8]Direction{North, South, East, West, NorthEast, NorthWest, SouthEast, SouthWest}

// Shift moves every disc of b one step in d, dropping discs that would wrap
// around a file edge or fall off the board.
func Shift(b Bitboard, d Direction) Bitboard {
	switch d {
	case North:
		return b << 8
	case South:
		return b >> 8
	case East:
		return (b >> 1) & NotFileA
	case West:
		return (b << 1) & NotFileH
	case NorthEast:
		return (b << 7) & NotFileA
	case NorthWest:
		return (b << 9) & NotFileH
	case SouthEast:
		return (b >> 9) & NotFileA
	case SouthWest:
		return (b >> 7) & NotFileH
	}
	return 0
}

/*
LegalMoves returns every empty square where mover would flank at least one
opponent run. Each direction is a kogge-stone style fill: seed from mover onto
adjacent opponent discs, extend five more times over opponent discs (an 8-wide
board cannot hold a longer run) and take one final step onto an empty square.
Horizontal and diagonal fills only travel over the inner six files, so nothing
wraps from one row into the next.
*/
func LegalMoves(mover, opponent Bitboard) Bitboard {
	empty := ^(mover | opponent)
	inner := opponent & InnerFiles

	var moves Bitboard
	moves |= fillUp(mover, opponent, 8)
	moves |= fillDown(mover, opponent, 8)
	moves |= fillUp(mover, inner, 1)
	moves |= fillDown(mover, inner, 1)
	moves |= fillUp(mover, inner, 7)
	moves |= fillUp(mover, inner, 9)
	moves |= fillDown(mover, inner, 7)
	moves |= fillDown(mover, inner, 9)
	return moves & empty
}

func fillUp(mover, mask Bitboard, s uint) Bitboard {
	x := mask & (mover << s)
	x |= mask & (x << s)
	x |= mask & (x << s)
	x |= mask & (x << s)
	x |= mask & (x << s)
	x |= mask & (x << s)
	return x << s
}

func fillDown(mover, mask Bitboard, s uint) Bitboard {
	x := mask & (mover >> s)
	x |= mask & (x >> s)
	x |= mask & (x >> s)
	x |= mask & (x >> s)
	x |= mask & (x >> s)
	x |= mask & (x >> s)
	return x >> s
}

// LegalMoves returns the legal-move mask for the side to move.
func (p Position) LegalMoves() Bitboard { return LegalMoves(p.Mover, p.Opponent) }

// HasLegalMoves reports whether the side to move can place a disc.
func (p Position) HasLegalMoves() bool { return LegalMoves(p.Mover, p.Opponent) != 0 }

// IsTerminal reports whether neither side has a legal move.
func (p Position) IsTerminal() bool {
	return LegalMoves(p.Mover, p.Opponent) == 0 && LegalMoves(p.Opponent, p.Mover) == 0
}

// FinalResult is sign(moverDiscs - opponentDiscs): 1 win, 0 draw, -1 loss.
func (p Position) FinalResult() int {
	diff := p.MoverCount() - p.OpponentCount()
	switch {
	case diff > 0:
		return 1
	case diff < 0:
		return -1
	}
	return 0
}

// MoveList splits a move mask into single-square moves, lowest bit first.
func MoveList(moves Bitboard) []Move {
	list := make([]Move, 0, moves.Count())
	for moves != 0 {
		list = append(list, Move(popLSB(&moves)))
	}
	return list
}

// GenerateMoves returns the legal moves of p as a list.
func (p Position) GenerateMoves() []Move { return MoveList(p.LegalMoves()) }
