package engine

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	mg "othello-engine/othellomg"
)

// fullWidth is a plain negamax with no pruning and no table, using the same
// pass, terminal and corner-donation rules as the engine.
func fullWidth(w *Weights, p mg.Position, depth int8) int32 {
	moves := p.LegalMoves()
	if moves == 0 {
		if mg.LegalMoves(p.Opponent, p.Mover) == 0 {
			return int32(p.MoverCount()-p.OpponentCount()) * w.Terminal
		}
		return -fullWidth(w, p.Swap(), depth)
	}
	if depth == 0 {
		return int32(w.Evaluate(p))
	}
	best := -MaxScore
	for _, m := range mg.MoveList(moves) {
		child := p.Play(m)
		s := -fullWidth(w, child, depth-1)
		if donatesCorner(child) {
			s -= w.CornerDonation
		}
		best = Max(best, s)
	}
	return best
}

// randomPositions plays random games from the start and samples positions
// with the given number of plies played.
func randomPositions(seed int64, plies ...int) []mg.Position {
	rng := rand.New(rand.NewSource(seed))
	var out []mg.Position
	for _, n := range plies {
		p := mg.StartPosition()
		for i := 0; i < n && !p.IsTerminal(); i++ {
			moves := p.GenerateMoves()
			if len(moves) == 0 {
				p = p.Swap()
				continue
			}
			p = p.Play(moves[rng.Intn(len(moves))])
		}
		if !p.IsTerminal() && p.HasLegalMoves() {
			out = append(out, p)
		}
	}
	return out
}

func mustBoard(t *testing.T, rows ...string) (mg.Position, bool) {
	t.Helper()
	p, black, err := mg.ParseBoard(strings.Join(rows, " "))
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	return p, black
}

func TestAlphaBetaMatchesFullWidth(t *testing.T) {
	positions := randomPositions(42, 6, 14, 22, 30, 40, 50)
	if len(positions) < 4 {
		t.Fatalf("only %d sample positions", len(positions))
	}
	for i, p := range positions {
		for depth := 1; depth <= 4; depth++ {
			e := New()
			got := e.SearchDepth(p, i%2 == 0, depth)
			want := fullWidth(&e.Weights, p, int8(depth))
			if int32(got.Score) != want {
				t.Fatalf("position %d depth %d: alpha-beta %d, full width %d\n%s",
					i, depth, got.Score, want, mg.Diagram(p, true, true))
			}
			if p.LegalMoves()&mg.Bitboard(got.Move) == 0 {
				t.Fatalf("position %d depth %d: illegal best move %s", i, depth, got.Move)
			}
		}
	}
}

func TestTinyDeadlineStillReturnsLegalMove(t *testing.T) {
	positions := append([]mg.Position{mg.StartPosition()}, randomPositions(3, 10, 20, 30, 40)...)
	e := New()
	for i, p := range positions {
		m := e.SearchBestMove(p, true, time.Millisecond)
		if m.IsPass() {
			t.Fatalf("position %d: got pass with legal moves available", i)
		}
		if p.LegalMoves()&mg.Bitboard(m) == 0 {
			t.Fatalf("position %d: illegal move %s", i, m)
		}
	}
}

func TestSearchHonoursDeadline(t *testing.T) {
	if testing.Short() {
		t.Skip("timed search")
	}
	const slack = 50 * time.Millisecond
	budget := MinThinkTime
	e := New()
	for i, p := range randomPositions(19, 16, 24, 32) {
		if len(p.GenerateMoves()) < 2 {
			continue
		}
		e.Clear()
		res := e.Search(p, true, budget)
		if res.Elapsed > budget+slack {
			t.Fatalf("position %d: search ran %v on a %v budget", i, res.Elapsed, budget)
		}
		if res.Depth < startDepth {
			t.Fatalf("position %d: completed depth %d, want at least %d", i, res.Depth, startDepth)
		}
	}
}

func TestSearchLimitedStopsAtMaxDepth(t *testing.T) {
	var depths []int
	e := New(WithInfo(func(si SearchInfo) { depths = append(depths, si.Depth) }))
	res := e.SearchLimited(mg.StartPosition(), true, MaxThinkTime, 4)
	if res.Depth != 4 {
		t.Fatalf("completed depth %d, want 4", res.Depth)
	}
	if len(depths) == 0 || depths[len(depths)-1] != 4 {
		t.Fatalf("iterations %v should end at depth 4", depths)
	}
	if res.Elapsed > time.Second {
		t.Fatalf("depth 4 search ran %v", res.Elapsed)
	}

	// A cap below the start depth still completes one iteration.
	if res := e.SearchLimited(mg.StartPosition(), true, MaxThinkTime, 1); res.Depth != 1 {
		t.Fatalf("completed depth %d, want 1", res.Depth)
	}
}

func TestSearchForcedAndPass(t *testing.T) {
	e := New()

	// Neither side can flank anything: no move to return.
	p, black := mustBoard(t,
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"XXXXXXXX", "XXXXXXXX", "XXXXXXX-", "XXXXXXOO", "O")
	if m := e.SearchBestMove(p, black, time.Second); !m.IsPass() {
		t.Fatalf("expected pass, got %s", m)
	}

	// Black has exactly one move: h8 flanking h7.
	p, black = mustBoard(t,
		"OOOOOOOO", "OOOOOOOO", "OOOOOOOO", "OOOOOOOO",
		"OOOOOOOO", "OOOOOOOX", "OOOOOOOO", "OOOOOOO-", "X")
	start := time.Now()
	res := e.Search(p, black, 5*time.Second)
	if res.Move.String() != "h8" {
		t.Fatalf("expected forced h8, got %s", res.Move)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("forced move should return immediately")
	}
}

func TestCornerDonationPenaltyDecidesTie(t *testing.T) {
	// All positional weights off: every leaf scores zero, so only the
	// donation penalty separates b1 (white answers a1) from the rest.
	w := Weights{CornerDonation: 200, Terminal: 10000}
	p, black := mustBoard(t,
		"--OXO---",
		"--------",
		"--------",
		"--------",
		"---X----",
		"---O----",
		"--------",
		"--------",
		"X")
	b1, _ := mg.ParseMove("b1")
	if p.LegalMoves()&mg.Bitboard(b1) == 0 {
		t.Fatalf("b1 should be legal in the test position")
	}
	if !donatesCorner(p.Play(b1)) {
		t.Fatalf("b1 should hand white a1")
	}

	e := New(WithWeights(w))
	res := e.SearchDepth(p, black, 1)
	if res.Move == b1 {
		t.Fatalf("search chose the corner-donating move b1")
	}
	if res.Score != 0 {
		t.Fatalf("expected score 0 for the safe move, got %d", res.Score)
	}

	// b1 alone is worth exactly the penalty less.
	score, err := e.searchMove(p.Play(b1), !black, 0, -MaxScore, MaxScore)
	if err != nil {
		t.Fatalf("searchMove: %v", err)
	}
	if score != -200 {
		t.Fatalf("b1 score: got %d want -200", score)
	}
}

func TestEndgameSearchStopsAtGameEnd(t *testing.T) {
	p, black := mustBoard(t,
		"XXXXXXXX", "XXXXOOOO", "XXXOXOOO", "XXOOXXOO",
		"XOOXOXOO", "XOXOOOXO", "XXOOOO--", "XXXXXO--", "X")
	var infos []SearchInfo
	e := New(WithInfo(func(si SearchInfo) { infos = append(infos, si) }))
	res := e.Search(p, black, 5*time.Second)
	if res.Elapsed > 2*time.Second {
		t.Fatalf("endgame search ran %v; it should stop once the game end is reached", res.Elapsed)
	}
	if res.Depth < p.EmptyCount() {
		t.Fatalf("completed depth %d, want at least %d", res.Depth, p.EmptyCount())
	}
	if len(infos) == 0 {
		t.Fatalf("info callback never ran")
	}
	if p.LegalMoves()&mg.Bitboard(res.Move) == 0 {
		t.Fatalf("illegal move %s", res.Move)
	}
}

func TestTerminalScoreDominates(t *testing.T) {
	// Black wins the game outright with h8 whatever the heuristics say.
	p, black := mustBoard(t,
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXX", "XXXXXXXX",
		"XXXXXXXX", "XXXXXXXX", "XXXXXXXO", "OOOOOOO-", "X")
	e := New()
	res := e.SearchDepth(p, black, 2)
	if res.Move.String() != "h8" {
		t.Fatalf("expected h8, got %s", res.Move)
	}
	if res.Score < 10000 {
		t.Fatalf("terminal win should score at least one disc times 10000, got %d", res.Score)
	}
}

func TestIterativeDeepeningUsesTable(t *testing.T) {
	e := New()
	p := randomPositions(11, 20)[0]
	e.Search(p, true, 300*time.Millisecond)
	if e.TT.Len() == 0 {
		t.Fatalf("search stored nothing in the transposition table")
	}
	e.Clear()
	if e.TT.Len() != 0 {
		t.Fatalf("Clear left %d entries", e.TT.Len())
	}
}

func TestClampThinkTime(t *testing.T) {
	cases := []struct {
		in, want time.Duration
	}{
		{time.Millisecond, MinThinkTime},
		{1800 * time.Millisecond, 1800 * time.Millisecond},
		{time.Minute, MaxThinkTime},
	}
	for _, c := range cases {
		if got := ClampThinkTime(c.in); got != c.want {
			t.Errorf("ClampThinkTime(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
