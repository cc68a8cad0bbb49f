package engine

import (
	mg "othello-engine/othellomg"
)

const (
	// Flags
	AlphaFlag = iota // upper bound: the search failed low
	BetaFlag         // lower bound: the search failed high
	ExactFlag
)

// TTKey identifies a node exactly; no hashing, so no collisions.
type TTKey struct {
	Mover       mg.Bitboard
	Opponent    mg.Bitboard
	BlackToMove bool
}

type TTEntry struct {
	Depth int8
	Score int32
	Flag  int8
}

/*
TransTable caches search results for one game session. It never evicts: it
grows until Clear is called on a game reset. An existing entry is only
replaced by a result from an equal or deeper search.
*/
type TransTable struct {
	entries map[TTKey]TTEntry
	probes  uint64
	hits    uint64
	stores  uint64
}

func newTransTable() TransTable {
	return TransTable{entries: make(map[TTKey]TTEntry, 1<<16)}
}

func (TT *TransTable) Clear() {
	TT.entries = make(map[TTKey]TTEntry, 1<<16)
	TT.probes, TT.hits, TT.stores = 0, 0, 0
}

func (TT *TransTable) Len() int { return len(TT.entries) }

func (TT *TransTable) Probe(key TTKey) (TTEntry, bool) {
	TT.probes++
	entry, ok := TT.entries[key]
	if ok {
		TT.hits++
	}
	return entry, ok
}

func (TT *TransTable) Store(key TTKey, entry TTEntry) {
	if TT.entries == nil {
		TT.entries = make(map[TTKey]TTEntry, 1<<16)
	}
	if old, ok := TT.entries[key]; ok && old.Depth > entry.Depth {
		return
	}
	TT.stores++
	TT.entries[key] = entry
}

// useEntry reports whether a cached result settles the node. Bounds are
// returned as stored (fail-soft).
func useEntry(entry TTEntry, depth int8, alpha int32, beta int32) (usable bool, score int32) {
	if entry.Depth < depth {
		return false, 0
	}
	switch entry.Flag {
	case ExactFlag:
		return true, entry.Score
	case BetaFlag:
		if entry.Score >= beta {
			return true, entry.Score
		}
	case AlphaFlag:
		if entry.Score <= alpha {
			return true, entry.Score
		}
	}
	return false, 0
}

// boundFlag classifies a finished node against the window it was searched with.
func boundFlag(best, alpha0, beta int32) int8 {
	switch {
	case best <= alpha0:
		return AlphaFlag
	case best >= beta:
		return BetaFlag
	}
	return ExactFlag
}
