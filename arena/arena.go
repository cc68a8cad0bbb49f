package arena

/*
Self-play arena: plays a series of games between two engine configurations.
Games are spread over worker goroutines; every game builds its own engines so
no transposition table is shared between games or players.
*/

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"othello-engine/engine"
	"othello-engine/game"
	mg "othello-engine/othellomg"
)

// Player is one side of the match. A positive Depth searches to that fixed
// depth; otherwise ThinkTime is the per-move budget.
type Player struct {
	Name      string
	ThinkTime time.Duration
	Depth     int
	Weights   engine.Weights
}

// weights falls back to the defaults when none were given.
func (p Player) weights() engine.Weights {
	if lo.IsEmpty(p.Weights) {
		return engine.DefaultWeights
	}
	return p.Weights
}

type Config struct {
	Games       int
	Workers     int
	RandomPlies int
	Player1     Player
	Player2     Player
}

// GameResult is the record of one finished game.
type GameResult struct {
	Index        int
	Player1Black bool
	Opening      []mg.Move
	Plies        int
	Black        int
	White        int
	Outcome      game.Outcome
}

// Player1Discs returns the final disc count of player 1.
func (r GameResult) Player1Discs() int {
	if r.Player1Black {
		return r.Black
	}
	return r.White
}

func (r GameResult) Player2Discs() int {
	if r.Player1Black {
		return r.White
	}
	return r.Black
}

// Player1Won reports whether player 1 won the game.
func (r GameResult) Player1Won() bool {
	return r.Player1Discs() > r.Player2Discs()
}

func (r GameResult) Player2Won() bool {
	return r.Player2Discs() > r.Player1Discs()
}

type Summary struct {
	Games     int
	BlackWins int
	WhiteWins int
	Draws     int
	P1Wins    int
	P2Wins    int
	P1Discs   int
	P2Discs   int
	Elapsed   time.Duration
	Results   []GameResult
}

func (s Summary) String() string {
	return fmt.Sprintf("games %d  p1 %d  p2 %d  draws %d  (black %d white %d)  discs %d-%d  in %v",
		s.Games, s.P1Wins, s.P2Wins, s.Draws, s.BlackWins, s.WhiteWins, s.P1Discs, s.P2Discs, s.Elapsed.Round(time.Millisecond))
}

var ErrNoGames = errors.New("arena: no games requested")

// Run plays cfg.Games games and summarises them. On cancellation it returns
// the summary of the games that finished together with the context error.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if cfg.Games <= 0 {
		return Summary{}, ErrNoGames
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = engine.Min(workers, cfg.Games)

	start := time.Now()
	log.Info().Int("games", cfg.Games).Int("workers", workers).
		Str("p1", cfg.Player1.Name).Str("p2", cfg.Player2.Name).Msg("arena starting")

	results := make([]GameResult, cfg.Games)
	done := make([]bool, cfg.Games)
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := range jobs {
				res, err := playGame(gctx, cfg, i)
				if err != nil {
					return err
				}
				results[i], done[i] = res, true
				log.Info().Int("worker", w).Int("game", i).Bool("p1Black", res.Player1Black).
					Int("black", res.Black).Int("white", res.White).Str("winner", res.Outcome.String()).
					Msg("game finished")
			}
			return nil
		})
	}
	err := g.Wait()

	finished := lo.Filter(results, func(_ GameResult, i int) bool { return done[i] })
	summary := summarise(finished)
	summary.Elapsed = time.Since(start)
	log.Info().Str("summary", summary.String()).Msg("arena finished")
	return summary, err
}

func summarise(results []GameResult) Summary {
	return Summary{
		Games:     len(results),
		BlackWins: lo.CountBy(results, func(r GameResult) bool { return r.Outcome == game.BlackWins }),
		WhiteWins: lo.CountBy(results, func(r GameResult) bool { return r.Outcome == game.WhiteWins }),
		Draws:     lo.CountBy(results, func(r GameResult) bool { return r.Outcome == game.Draw }),
		P1Wins:    lo.CountBy(results, GameResult.Player1Won),
		P2Wins:    lo.CountBy(results, GameResult.Player2Won),
		P1Discs:   lo.SumBy(results, GameResult.Player1Discs),
		P2Discs:   lo.SumBy(results, GameResult.Player2Discs),
		Results:   results,
	}
}

// playGame plays game index. Player 1 takes black in even games.
func playGame(ctx context.Context, cfg Config, index int) (GameResult, error) {
	res := GameResult{Index: index, Player1Black: index%2 == 0}
	black, white := cfg.Player1, cfg.Player2
	if !res.Player1Black {
		black, white = white, black
	}
	engines := map[bool]*engine.Engine{
		true:  engine.New(engine.WithWeights(black.weights())),
		false: engine.New(engine.WithWeights(white.weights())),
	}
	players := map[bool]Player{true: black, false: white}

	st := game.NewState()
	res.Opening = randomOpening(&st, cfg.RandomPlies)
	res.Plies = len(res.Opening)

	for !st.Over() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		p := players[st.BlackToMove]
		e := engines[st.BlackToMove]
		var move mg.Move
		if p.Depth > 0 {
			move = e.SearchDepth(st.Position, st.BlackToMove, p.Depth).Move
		} else {
			move = e.SearchBestMove(st.Position, st.BlackToMove, p.ThinkTime)
		}
		if err := st.Play(move); err != nil {
			return res, fmt.Errorf("arena: game %d ply %d: %w", index, res.Plies, err)
		}
		res.Plies++
	}

	res.Black, res.White = st.Counts()
	res.Outcome = st.Winner()
	return res, nil
}

// randomOpening plays up to plies uniformly random moves, passing when forced.
func randomOpening(st *game.State, plies int) []mg.Move {
	var opening []mg.Move
	for len(opening) < plies && !st.Over() {
		moves := mg.MoveList(st.Legal())
		move := mg.PassMove
		if len(moves) > 0 {
			move = moves[frand.Intn(len(moves))]
		}
		_ = st.Play(move)
		opening = append(opening, move)
	}
	return opening
}
