package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"othello-engine/arena"
	"othello-engine/engine"
	"othello-engine/logging"
)

func main() {
	games := flag.Int("games", 20, "number of games")
	workers := flag.Int("workers", 0, "worker goroutines (0 = number of CPUs)")
	randomPlies := flag.Int("random", 6, "random opening plies per game")
	think1 := flag.Duration("think1", 0, "player 1 think time per move")
	think2 := flag.Duration("think2", 0, "player 2 think time per move")
	depth1 := flag.Int("depth1", 4, "player 1 fixed depth (used when -think1 is 0)")
	depth2 := flag.Int("depth2", 4, "player 2 fixed depth (used when -think2 is 0)")
	corner2 := flag.Int("corner2", int(engine.DefaultWeights.Corner), "player 2 corner weight")
	level := flag.String("loglevel", "info", "log level")
	flag.Parse()

	if err := logging.Setup(os.Stderr, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	p1 := arena.Player{Name: "p1", Weights: engine.DefaultWeights}
	p2 := arena.Player{Name: "p2", Weights: engine.DefaultWeights}
	p2.Weights.Corner = int32(*corner2)
	if *think1 > 0 {
		p1.ThinkTime = engine.ClampThinkTime(*think1)
	} else {
		p1.Depth = *depth1
	}
	if *think2 > 0 {
		p2.ThinkTime = engine.ClampThinkTime(*think2)
	} else {
		p2.Depth = *depth2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := arena.Run(ctx, arena.Config{
		Games:       *games,
		Workers:     *workers,
		RandomPlies: *randomPlies,
		Player1:     p1,
		Player2:     p2,
	})
	fmt.Println(summary)
	if err != nil {
		log.Error().Err(err).Msg("arena stopped early")
		os.Exit(1)
	}
}
