package othellomg

// Perft counts the leaf nodes of the move tree to the given depth. A pass is
// a ply of its own; a finished game is a leaf regardless of depth left.
func Perft(p Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := p.LegalMoves()
	if moves == 0 {
		if LegalMoves(p.Opponent, p.Mover) == 0 {
			return 1
		}
		return Perft(p.Swap(), depth-1)
	}
	if depth == 1 {
		return uint64(moves.Count())
	}
	var nodes uint64
	for moves != 0 {
		m := Move(popLSB(&moves))
		nodes += Perft(p.Play(m), depth-1)
	}
	return nodes
}

// PerftDivide returns the perft count below each root move.
func PerftDivide(p Position, depth int) map[Move]uint64 {
	out := make(map[Move]uint64)
	if depth <= 0 {
		return out
	}
	moves := p.GenerateMoves()
	if len(moves) == 0 && !p.IsTerminal() {
		out[PassMove] = Perft(p.Swap(), depth-1)
		return out
	}
	for _, m := range moves {
		out[m] = Perft(p.Play(m), depth-1)
	}
	return out
}
