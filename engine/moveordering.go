package engine

import (
	mg "othello-engine/othellomg"
)

// orderMoves appends corner moves first and then the rest, each group lowest
// square first.
func orderMoves(moves mg.Bitboard, dst []mg.Move) []mg.Move {
	corners := moves & mg.Corners
	rest := moves &^ mg.Corners
	for corners != 0 {
		b := corners & -corners
		corners ^= b
		dst = append(dst, mg.Move(b))
	}
	for rest != 0 {
		b := rest & -rest
		rest ^= b
		dst = append(dst, mg.Move(b))
	}
	return dst
}

// donatesCorner reports whether the position after a move hands the new side
// to move a corner capture.
func donatesCorner(next mg.Position) bool {
	return next.LegalMoves()&mg.Corners != 0
}
