package engine

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	mg "othello-engine/othellomg"
)

// =============================================================================
// SCORE CONSTANTS
// =============================================================================
const (
	MaxScore int32 = 1_000_000_000
	MaxDepth       = 64

	startDepth     = 2
	endgameEmpties = 14
)

// errSearchTimeout unwinds the search once the deadline passes. It never
// leaves this package.
var errSearchTimeout = errors.New("engine: search deadline exceeded")

// SearchInfo describes one completed iterative-deepening iteration.
type SearchInfo struct {
	Depth   int
	Score   int
	Move    mg.Move
	Nodes   uint64
	Elapsed time.Duration
}

type InfoFunc func(SearchInfo)

// SearchResult is the outcome of a search. Depth is the deepest fully completed
// iteration; zero when none completed or the move was forced.
type SearchResult struct {
	Move    mg.Move
	Score   int
	Depth   int
	Nodes   uint64
	Elapsed time.Duration
	Stats   CutStatistics
}

// Engine owns the transposition table and tuning for one game session. It is
// single-threaded; use one Engine per concurrent game.
type Engine struct {
	TT          TransTable
	Weights     Weights
	timeHandler TimeHandler
	info        InfoFunc

	nodesChecked uint64
	cutStats     CutStatistics
}

type Option func(*Engine)

func WithWeights(w Weights) Option {
	return func(e *Engine) { e.Weights = w }
}

// WithInfo registers a callback run after every completed iteration.
func WithInfo(f InfoFunc) Option {
	return func(e *Engine) { e.info = f }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		TT:      newTransTable(),
		Weights: DefaultWeights,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clear empties the transposition table; call it when a game is reset.
func (e *Engine) Clear() {
	e.TT.Clear()
}

// SetInfo replaces the per-iteration callback.
func (e *Engine) SetInfo(f InfoFunc) {
	e.info = f
}

// Evaluate scores p with the engine's weights.
func (e *Engine) Evaluate(p mg.Position) int {
	return e.Weights.Evaluate(p)
}

// SearchBestMove returns the move to play within budget, or PassMove when the
// side to move has none.
func (e *Engine) SearchBestMove(p mg.Position, blackToMove bool, budget time.Duration) mg.Move {
	return e.Search(p, blackToMove, budget).Move
}

/*
Search runs iterative deepening from depth 2 until the deadline. Every
completed iteration replaces the answer; an interrupted one is discarded. With
14 or fewer empties the depth grows by two per iteration, and the loop ends
early once an iteration has reached the end of the game.
*/
func (e *Engine) Search(p mg.Position, blackToMove bool, budget time.Duration) SearchResult {
	return e.SearchLimited(p, blackToMove, budget, MaxDepth)
}

// SearchLimited is Search with iterative deepening stopped at maxDepth.
func (e *Engine) SearchLimited(p mg.Position, blackToMove bool, budget time.Duration, maxDepth int) SearchResult {
	e.resetSearch()
	e.timeHandler.StartTime(budget)

	var buf [32]mg.Move
	moves := orderMoves(p.LegalMoves(), buf[:0])
	result := SearchResult{Move: mg.PassMove}
	switch len(moves) {
	case 0:
		return e.finish(result)
	case 1:
		result.Move = moves[0]
		return e.finish(result)
	}

	maxDepth = Clamp(maxDepth, 1, MaxDepth)
	empties := p.EmptyCount()
	for depth := Min(startDepth, maxDepth); ; {
		move, score, err := e.rootSearch(p, blackToMove, moves, int8(depth))
		if err != nil {
			log.Debug().Int("depth", depth).Uint64("nodes", e.nodesChecked).Msg("search interrupted")
			break
		}
		result.Move, result.Score, result.Depth = move, int(score), depth
		e.report(result)

		if depth >= empties || depth >= maxDepth {
			break
		}
		depth++
		if e.timeHandler.TimeStatus() {
			break
		}
		if empties <= endgameEmpties {
			depth = Min(depth+1, maxDepth)
		}
	}

	if result.Move == mg.PassMove {
		result.Move = moves[0]
	}
	return e.finish(result)
}

// SearchDepth searches exactly to depth with no deadline.
func (e *Engine) SearchDepth(p mg.Position, blackToMove bool, depth int) SearchResult {
	e.resetSearch()
	e.timeHandler.StartDepth()

	var buf [32]mg.Move
	moves := orderMoves(p.LegalMoves(), buf[:0])
	result := SearchResult{Move: mg.PassMove}
	if len(moves) == 0 {
		return e.finish(result)
	}
	depth = Clamp(depth, 1, MaxDepth)
	move, score, err := e.rootSearch(p, blackToMove, moves, int8(depth))
	if err != nil {
		result.Move = moves[0]
		return e.finish(result)
	}
	result.Move, result.Score, result.Depth = move, int(score), depth
	e.report(result)
	return e.finish(result)
}

func (e *Engine) resetSearch() {
	e.nodesChecked = 0
	resetCutStats(&e.cutStats)
}

func (e *Engine) finish(r SearchResult) SearchResult {
	r.Nodes = e.nodesChecked
	r.Elapsed = e.timeHandler.Elapsed()
	r.Stats = e.cutStats
	r.Stats.TTSize = e.TT.Len()
	return r
}

func (e *Engine) report(r SearchResult) {
	info := SearchInfo{
		Depth:   r.Depth,
		Score:   r.Score,
		Move:    r.Move,
		Nodes:   e.nodesChecked,
		Elapsed: e.timeHandler.Elapsed(),
	}
	log.Debug().
		Int("depth", info.Depth).
		Int("score", info.Score).
		Str("move", info.Move.String()).
		Uint64("nodes", info.Nodes).
		Dur("elapsed", info.Elapsed).
		Msg("iteration complete")
	if e.info != nil {
		e.info(info)
	}
}

// rootSearch evaluates the root moves in order and returns the best one.
func (e *Engine) rootSearch(p mg.Position, blackToMove bool, moves []mg.Move, depth int8) (mg.Move, int32, error) {
	alpha, beta := -MaxScore, MaxScore
	bestScore := -MaxScore
	bestMove := mg.PassMove
	for _, move := range moves {
		score, err := e.searchMove(p.Play(move), !blackToMove, depth-1, alpha, beta)
		if err != nil {
			return mg.PassMove, 0, err
		}
		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		if alpha >= beta {
			break
		}
	}
	return bestMove, bestScore, nil
}

/*
searchMove scores the move that produced child from the parent's point of
view. A move that leaves the opponent a corner capture costs CornerDonation;
the child is searched with a window shifted by that penalty so its fail-soft
bounds still hold once the penalty is subtracted.
*/
func (e *Engine) searchMove(child mg.Position, childBlack bool, depth int8, alpha, beta int32) (int32, error) {
	var penalty int32
	if donatesCorner(child) {
		penalty = e.Weights.CornerDonation
		e.cutStats.CornerDonations++
	}
	score, err := e.negamax(child, childBlack, depth, -(beta + penalty), -(alpha + penalty))
	if err != nil {
		return 0, err
	}
	return -score - penalty, nil
}

func (e *Engine) negamax(p mg.Position, blackToMove bool, depth int8, alpha int32, beta int32) (int32, error) {
	e.nodesChecked++
	if e.timeHandler.TimeStatus() {
		return 0, errSearchTimeout
	}

	/*
		TRANSPOSITION TABLE LOOKUP
	*/
	key := TTKey{Mover: p.Mover, Opponent: p.Opponent, BlackToMove: blackToMove}
	if entry, ok := e.TT.Probe(key); ok {
		if usable, score := useEntry(entry, depth, alpha, beta); usable {
			e.cutStats.TTCutoffs++
			return score, nil
		}
	}

	moves := p.LegalMoves()
	if moves == 0 {
		if mg.LegalMoves(p.Opponent, p.Mover) == 0 {
			e.cutStats.Terminals++
			return int32(p.MoverCount()-p.OpponentCount()) * e.Weights.Terminal, nil
		}
		// Pass: same depth, sides and window swapped.
		e.cutStats.Passes++
		score, err := e.negamax(p.Swap(), !blackToMove, depth, -beta, -alpha)
		return -score, err
	}

	if depth <= 0 {
		return int32(e.Weights.Evaluate(p)), nil
	}

	alpha0 := alpha
	bestScore := -MaxScore
	var buf [32]mg.Move
	for _, move := range orderMoves(moves, buf[:0]) {
		score, err := e.searchMove(p.Play(move), !blackToMove, depth-1, alpha, beta)
		if err != nil {
			return 0, err
		}
		if score > bestScore {
			bestScore = score
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		// Beta cutoff
		if alpha >= beta {
			e.cutStats.BetaCutoffs++
			break
		}
	}

	e.TT.Store(key, TTEntry{Depth: depth, Score: bestScore, Flag: boundFlag(bestScore, alpha0, beta)})
	return bestScore, nil
}
