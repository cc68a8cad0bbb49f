package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"othello-engine/game"
	mg "othello-engine/othellomg"
)

// renderer draws the board with colours when the terminal supports them.
type renderer struct {
	out       *termenv.Output
	showMoves bool
}

func (r *renderer) disc(s string, color string) termenv.Style {
	return r.out.String(s).Foreground(r.out.Color(color)).Bold()
}

func (r *renderer) board(st game.State, last mg.Move) string {
	black, white := st.Black(), st.White()
	var legal mg.Bitboard
	if r.showMoves {
		legal = st.Legal()
	}

	var sb strings.Builder
	sb.WriteString("   a b c d e f g h\n")
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, " %d", row+1)
		for col := 0; col < 8; col++ {
			sq := mg.SquareAt(row, col)
			bb := mg.SquareBB(sq)
			sb.WriteByte(' ')
			var cell termenv.Style
			switch {
			case black&bb != 0:
				cell = r.disc("X", "9")
			case white&bb != 0:
				cell = r.disc("O", "15")
			case legal&bb != 0:
				cell = r.out.String("*").Foreground(r.out.Color("10")).Faint()
			default:
				cell = r.out.String("-").Faint()
			}
			if !last.IsPass() && mg.Bitboard(last) == bb {
				cell = cell.Underline()
			}
			sb.WriteString(cell.String())
		}
		sb.WriteByte('\n')
	}
	b, w := st.Counts()
	fmt.Fprintf(&sb, " X %d  O %d", b, w)
	return sb.String()
}

func (r *renderer) status(st game.State, humansTurn bool) string {
	if st.Over() {
		switch st.Winner() {
		case game.BlackWins:
			return r.disc("Black wins", "9").String()
		case game.WhiteWins:
			return r.disc("White wins", "15").String()
		}
		return r.out.String("Draw").Bold().String()
	}
	side := "Black (X)"
	if !st.BlackToMove {
		side = "White (O)"
	}
	if humansTurn {
		return side + " to move - your turn"
	}
	return side + " to move - thinking"
}
