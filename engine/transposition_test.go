package engine

import (
	"testing"

	mg "othello-engine/othellomg"
)

func TestTTStoreKeepsDeeperEntry(t *testing.T) {
	tt := newTransTable()
	key := TTKey{Mover: mg.StartBlack, Opponent: mg.StartWhite, BlackToMove: true}

	tt.Store(key, TTEntry{Depth: 5, Score: 40, Flag: ExactFlag})
	tt.Store(key, TTEntry{Depth: 3, Score: -10, Flag: ExactFlag})
	if e, ok := tt.Probe(key); !ok || e.Depth != 5 || e.Score != 40 {
		t.Fatalf("shallower store replaced deeper entry: %+v", e)
	}

	tt.Store(key, TTEntry{Depth: 5, Score: 12, Flag: BetaFlag})
	if e, _ := tt.Probe(key); e.Score != 12 || e.Flag != BetaFlag {
		t.Fatalf("equal-depth store should replace: %+v", e)
	}

	// The side to move is part of the key.
	other := key
	other.BlackToMove = false
	if _, ok := tt.Probe(other); ok {
		t.Fatalf("entry leaked across side to move")
	}

	tt.Clear()
	if tt.Len() != 0 {
		t.Fatalf("Clear left %d entries", tt.Len())
	}
}

func TestUseEntryBounds(t *testing.T) {
	cases := []struct {
		name        string
		entry       TTEntry
		depth       int8
		alpha, beta int32
		usable      bool
		score       int32
	}{
		{"exact", TTEntry{Depth: 4, Score: 7, Flag: ExactFlag}, 4, -100, 100, true, 7},
		{"too shallow", TTEntry{Depth: 2, Score: 7, Flag: ExactFlag}, 4, -100, 100, false, 0},
		{"lower meets beta", TTEntry{Depth: 4, Score: 150, Flag: BetaFlag}, 3, -100, 100, true, 150},
		{"lower below beta", TTEntry{Depth: 4, Score: 50, Flag: BetaFlag}, 3, -100, 100, false, 0},
		{"upper under alpha", TTEntry{Depth: 4, Score: -150, Flag: AlphaFlag}, 3, -100, 100, true, -150},
		{"upper above alpha", TTEntry{Depth: 4, Score: -50, Flag: AlphaFlag}, 3, -100, 100, false, 0},
	}
	for _, c := range cases {
		usable, score := useEntry(c.entry, c.depth, c.alpha, c.beta)
		if usable != c.usable || score != c.score {
			t.Errorf("%s: got (%v,%d) want (%v,%d)", c.name, usable, score, c.usable, c.score)
		}
	}
}

func TestBoundFlag(t *testing.T) {
	if f := boundFlag(-10, -10, 10); f != AlphaFlag {
		t.Errorf("fail low: got %d", f)
	}
	if f := boundFlag(10, -10, 10); f != BetaFlag {
		t.Errorf("fail high: got %d", f)
	}
	if f := boundFlag(0, -10, 10); f != ExactFlag {
		t.Errorf("inside window: got %d", f)
	}
}
