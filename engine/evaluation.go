package engine

import (
	"math"

	mg "othello-engine/othellomg"
)

// Weights holds the evaluation and search tuning values.
type Weights struct {
	Corner    int32   // per corner owned
	XSquare   int32   // diagonal neighbour of an open corner
	CSquare   int32   // orthogonal neighbours of an open corner
	Mobility  int32   // per legal move of difference
	Stability int32   // per anchored edge disc of difference
	Frontier  float64 // scale of the normalised frontier term
	Material  float64 // disc difference, scaled by how full the board is

	// Search side: subtracted from a move that lets the opponent take a
	// corner on the next ply, and the multiplier for final disc counts.
	CornerDonation int32
	Terminal       int32
}

var DefaultWeights = Weights{
	Corner:         100,
	XSquare:        35,
	CSquare:        15,
	Mobility:       2,
	Stability:      4,
	Frontier:       0.25,
	Material:       4,
	CornerDonation: 200,
	Terminal:       10000,
}

type cornerRegion struct {
	corner mg.Bitboard
	x      mg.Bitboard
	c      mg.Bitboard
}

// Corners with their X square and C squares.
var cornerRegions = [4]cornerRegion{
	{corner: 1 << 63, x: 1 << 54, c: 1<<62 | 1<<55}, // a1: b2, b1 a2
	{corner: 1 << 56, x: 1 << 49, c: 1<<57 | 1<<48}, // h1: g2, g1 h2
	{corner: 1 << 7, x: 1 << 14, c: 1<<6 | 1<<15},   // a8: b7, b8 a7
	{corner: 1 << 0, x: 1 << 9, c: 1<<1 | 1<<8},     // h8: g7, g8 h7
}

// Board edges, each listed from one corner to the other.
var edges = [4][8]mg.Square{
	{63, 62, 61, 60, 59, 58, 57, 56}, // row 1
	{7, 6, 5, 4, 3, 2, 1, 0},         // row 8
	{63, 55, 47, 39, 31, 23, 15, 7},  // file a
	{56, 48, 40, 32, 24, 16, 8, 0},   // file h
}

// Evaluate scores p for the side to move with DefaultWeights.
func Evaluate(p mg.Position) int {
	return DefaultWeights.Evaluate(p)
}

/*
Evaluate scores p from the mover's point of view; positive favours the mover.
Every term is antisymmetric in (mover, opponent) and the sum is rounded half
away from zero, so Evaluate(p) == -Evaluate(p.Swap()).
*/
func (w *Weights) Evaluate(p mg.Position) int {
	me, opp := p.Mover, p.Opponent
	empties := p.EmptyCount()
	phase := float64(empties) / 64

	score := float64(w.Corner) * float64((me&mg.Corners).Count()-(opp&mg.Corners).Count())
	score += float64(cornerDanger(me, opp, w.XSquare, w.CSquare))

	myMob := mg.LegalMoves(me, opp).Count()
	opMob := mg.LegalMoves(opp, me).Count()
	score += float64(w.Mobility) * float64(myMob-opMob)

	sMe, sOpp := edgeStability(me, opp)
	score += float64(w.Stability) * float64(sMe-sOpp)

	score += w.Frontier * frontierDiff(me, opp)
	score += float64(me.Count()-opp.Count()) * (1 - phase) * w.Material

	return int(math.Round(score))
}

// cornerDanger penalises discs next to corners nobody owns yet.
func cornerDanger(me, opp mg.Bitboard, xWeight, cWeight int32) int32 {
	var score int32
	for _, r := range cornerRegions {
		if (me|opp)&r.corner != 0 {
			continue
		}
		score -= xWeight*int32((me&r.x).Count()) + cWeight*int32((me&r.c).Count())
		score += xWeight*int32((opp&r.x).Count()) + cWeight*int32((opp&r.c).Count())
	}
	return score
}

// edgeStability counts, for each edge and each of its two ends, the run of
// same-coloured discs anchored at that end.
func edgeStability(me, opp mg.Bitboard) (sMe, sOpp int) {
	for _, edge := range edges {
		a, b := anchoredRun(me, opp, edge, 0, 1)
		sMe, sOpp = sMe+a, sOpp+b
		a, b = anchoredRun(me, opp, edge, 7, -1)
		sMe, sOpp = sMe+a, sOpp+b
	}
	return sMe, sOpp
}

func anchoredRun(me, opp mg.Bitboard, edge [8]mg.Square, from, step int) (runMe, runOpp int) {
	owner := 0
	for i := from; i >= 0 && i < 8; i += step {
		sq := edge[i]
		switch {
		case me.Has(sq) && owner != 2:
			owner = 1
			runMe++
		case opp.Has(sq) && owner != 1:
			owner = 2
			runOpp++
		default:
			return runMe, runOpp
		}
	}
	return runMe, runOpp
}

// frontierDiff is -100*(myF-opF)/(myF+opF+1), where a frontier disc touches
// at least one empty square.
func frontierDiff(me, opp mg.Bitboard) float64 {
	empty := ^(me | opp)
	var adj mg.Bitboard
	for _, d := range mg.Directions {
		adj |= mg.Shift(empty, d)
	}
	myF := (me & adj).Count()
	opF := (opp & adj).Count()
	return -100 * float64(myF-opF) / float64(myF+opF+1)
}
