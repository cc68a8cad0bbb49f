package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"othello-engine/game"
	"othello-engine/logging"
	"othello-engine/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	white := flag.Bool("white", false, "human plays white")
	think := flag.Duration("think", game.DefaultThinkTime, "engine think time per move")
	level := flag.String("loglevel", "info", "log level")
	flag.Parse()

	if err := logging.Setup(os.Stderr, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	session := game.NewSession(nil)
	session.Configure(game.Settings{HumanIsBlack: !*white, ThinkTime: *think})
	srv := server.New(session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, *addr); err != nil {
		log.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
