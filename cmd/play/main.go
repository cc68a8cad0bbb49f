package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"othello-engine/game"
	"othello-engine/logging"
	mg "othello-engine/othellomg"
)

const help = `commands: <square> (e.g. d3), pass, hint, reset, run, help, quit`

func main() {
	white := flag.Bool("white", false, "play white instead of black")
	think := flag.Duration("think", game.DefaultThinkTime, "engine think time per move")
	spectate := flag.Bool("spectate", false, "watch the engine play itself")
	hideMoves := flag.Bool("hide-moves", false, "do not mark legal moves")
	level := flag.String("loglevel", "warn", "log level")
	flag.Parse()

	if err := logging.Setup(os.Stderr, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	session := game.NewSession(nil)
	session.Configure(game.Settings{HumanIsBlack: !*white, Spectate: *spectate, ThinkTime: *think})
	r := &renderer{out: termenv.NewOutput(os.Stdout), showMoves: !*hideMoves}
	play(session, r, os.Stdin, os.Stdout)
}

// play runs the game loop until the input ends or the user quits.
func play(session *game.Session, r *renderer, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	last := mg.PassMove
	for {
		last = engineTurns(session, r, out, last)
		st := session.State()
		fmt.Fprintln(out, r.board(st, last))
		fmt.Fprintln(out, r.status(st, session.HumansTurn()))
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "":
			continue
		case "quit", "exit", "q":
			return
		case "help", "?":
			fmt.Fprintln(out, help)
		case "reset":
			session.Reset()
			last = mg.PassMove
		case "run":
			if err := session.RunToEnd(); err != nil {
				fmt.Fprintln(out, err)
			}
			last = mg.PassMove
		case "hint":
			res := session.Engine().Search(st.Position, st.BlackToMove, 500*time.Millisecond)
			fmt.Fprintf(out, "hint: %s (score %d, depth %d)\n", res.Move, res.Score, res.Depth)
		default:
			m, err := mg.ParseMove(cmd)
			if err != nil {
				fmt.Fprintln(out, "unknown command;", help)
				continue
			}
			if err := session.PlayHuman(m); err != nil {
				var invalid *mg.InvalidMoveError
				switch {
				case errors.As(err, &invalid):
					fmt.Fprintf(out, "%s is not legal here\n", m)
				default:
					fmt.Fprintln(out, err)
				}
				continue
			}
			last = m
		}
	}
}

// engineTurns lets the engine move until it is the human's turn or the game
// ends. A human with no legal move passes automatically.
func engineTurns(session *game.Session, r *renderer, out io.Writer, last mg.Move) mg.Move {
	for !session.State().Over() {
		if session.HumansTurn() {
			passed, err := session.AutoPass()
			if err != nil || !passed {
				return last
			}
			fmt.Fprintln(out, "no legal move, you pass")
			last = mg.PassMove
			continue
		}
		m, err := session.AIMove()
		if err != nil {
			log.Error().Err(err).Msg("engine move failed")
			return last
		}
		if m.IsPass() {
			fmt.Fprintln(out, "engine passes")
		} else {
			fmt.Fprintf(out, "engine plays %s\n", m)
		}
		if session.Settings().Spectate {
			st := session.State()
			fmt.Fprintln(out, r.board(st, m))
		}
		last = m
	}
	return last
}
