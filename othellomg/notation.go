package othellomg

import (
	"errors"
	"fmt"
	"strings"
)

// StartBoard is the opening position in board notation.
const StartBoard = "---------------------------OX------XO--------------------------- X"

// Orient builds the mover-relative Position from absolute colour masks.
func Orient(black, white Bitboard, blackToMove bool) Position {
	if blackToMove {
		return Position{Mover: black, Opponent: white}
	}
	return Position{Mover: white, Opponent: black}
}

// Colors returns the absolute (black, white) masks of p.
func (p Position) Colors(blackToMove bool) (black, white Bitboard) {
	if blackToMove {
		return p.Mover, p.Opponent
	}
	return p.Opponent, p.Mover
}

/*
ParseBoard reads 64 cells in a1..h8 order followed by an optional side token.
Black discs are X, * or B; white discs are O or W; empty cells are - or '.'.
Whitespace between cells is ignored. The side token is X/B/black or O/W/white;
black moves when it is missing.
*/
func ParseBoard(s string) (Position, bool, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Position{}, false, errors.New("othellomg: empty board string")
	}

	blackToMove := true
	cells := strings.Join(fields, "")
	// The last field is a side token only when the fields before it already
	// hold 64 cells; otherwise a lone x/o is the h8 disc.
	if rest := strings.Join(fields[:len(fields)-1], ""); len(fields) > 1 && len(rest) == 64 {
		switch strings.ToLower(fields[len(fields)-1]) {
		case "x", "b", "*", "black":
		case "o", "w", "white":
			blackToMove = false
		default:
			return Position{}, false, fmt.Errorf("othellomg: invalid side to move %q", fields[len(fields)-1])
		}
		cells = rest
	} else if len(cells) == 65 {
		switch strings.ToLower(cells[64:]) {
		case "x", "b", "*":
		case "o", "w":
			blackToMove = false
		default:
			return Position{}, false, fmt.Errorf("othellomg: invalid side to move %q", cells[64:])
		}
		cells = cells[:64]
	}

	if len(cells) != 64 {
		return Position{}, false, fmt.Errorf("othellomg: board has %d cells, want 64", len(cells))
	}

	var black, white Bitboard
	for i := 0; i < 64; i++ {
		sq := SquareBB(Square(63 - i))
		switch cells[i] {
		case 'X', 'x', '*', 'B', 'b':
			black |= sq
		case 'O', 'o', 'W', 'w':
			white |= sq
		case '-', '.':
		default:
			return Position{}, false, fmt.Errorf("othellomg: invalid cell %q at %s", cells[i], Square(63-i))
		}
	}

	o := Orient(black, white, blackToMove)
	pos, err := NewPosition(o.Mover, o.Opponent)
	if err != nil {
		return Position{}, false, err
	}
	return pos, blackToMove, nil
}

// FormatBoard writes p in the notation read by ParseBoard.
func FormatBoard(p Position, blackToMove bool) string {
	black, white := p.Colors(blackToMove)

	var sb strings.Builder
	sb.Grow(66)
	for i := 0; i < 64; i++ {
		sq := SquareBB(Square(63 - i))
		switch {
		case black&sq != 0:
			sb.WriteByte('X')
		case white&sq != 0:
			sb.WriteByte('O')
		default:
			sb.WriteByte('-')
		}
	}
	sb.WriteByte(' ')
	if blackToMove {
		sb.WriteByte('X')
	} else {
		sb.WriteByte('O')
	}
	return sb.String()
}

// Diagram renders p as an 8x8 grid with coordinates, marking legal moves with
// '*' when showMoves is set.
func Diagram(p Position, blackToMove bool, showMoves bool) string {
	black, white := p.Colors(blackToMove)
	var legal Bitboard
	if showMoves {
		legal = p.LegalMoves()
	}

	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")
	for row := 0; row < 8; row++ {
		sb.WriteByte(byte('1' + row))
		for col := 0; col < 8; col++ {
			sq := SquareBB(SquareAt(row, col))
			sb.WriteByte(' ')
			switch {
			case black&sq != 0:
				sb.WriteByte('X')
			case white&sq != 0:
				sb.WriteByte('O')
			case legal&sq != 0:
				sb.WriteByte('*')
			default:
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
