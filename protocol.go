package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"othello-engine/engine"
	"othello-engine/game"
	"othello-engine/logging"
	mg "othello-engine/othellomg"
)

const defaultMoveTime = 1800 * time.Millisecond

func main() {
	level := flag.String("loglevel", "warn", "log level (trace, debug, info, warn, error)")
	stats := flag.Bool("stats", false, "print cut statistics after every search")
	flag.Parse()

	if err := logging.Setup(os.Stderr, *level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	p := newProtocol(os.Stdout)
	p.printStats = *stats
	p.loop(os.Stdin)
}

type protocol struct {
	out        io.Writer
	eng        *engine.Engine
	state      game.State
	printStats bool
}

func newProtocol(out io.Writer) *protocol {
	p := &protocol{out: out, eng: engine.New(), state: game.NewState()}
	p.eng.SetInfo(func(si engine.SearchInfo) {
		p.println(fmt.Sprintf("info depth %d score %d nodes %d time %d pv %s",
			si.Depth, si.Score, si.Nodes, si.Elapsed.Milliseconds(), si.Move))
	})
	return p
}

func (p *protocol) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *protocol) loop(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		tokens := strings.Fields(line)
		if len(tokens) == 0 { // ignore blank lines
			continue
		}
		switch strings.ToLower(tokens[0]) {
		case "otp", "uci":
			p.println("id name Othello Engine")
			p.println("id author othello-engine")
			for _, name := range engine.WeightNames {
				v, _ := p.eng.Weights.Get(name)
				p.println("option name", name, "type string default", strconv.FormatFloat(v, 'g', -1, 64))
			}
			p.println(strings.ToLower(tokens[0]) + "ok")
		case "isready":
			p.println("readyok")
		case "newgame", "ucinewgame":
			p.state = game.NewState()
			p.eng.Clear()
		case "quit":
			return
		case "position":
			p.position(tokens[1:])
		case "go":
			p.search(tokens[1:])
		case "legal":
			moves := mg.MoveList(p.state.Legal())
			p.println("legal " + strings.Join(lo.Map(moves, func(m mg.Move, _ int) string { return m.String() }), " "))
		case "eval":
			p.println("info string eval", p.eng.Evaluate(p.state.Position))
		case "board", "d":
			for _, row := range strings.Split(strings.TrimRight(mg.Diagram(p.state.Position, p.state.BlackToMove, true), "\n"), "\n") {
				p.println("info string " + row)
			}
			p.println("info string board " + p.state.String())
		case "setoption":
			p.setOption(tokens[1:])
		default:
			p.println("info string Unknown command:", line)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("reading input")
	}
}

// position handles "startpos [moves ...]" and "board <cells> [side] [moves ...]".
// The current position is replaced only when the whole command is valid.
func (p *protocol) position(args []string) {
	if len(args) == 0 {
		p.println("info string Malformed position command")
		return
	}
	var st game.State
	rest := args[1:]
	switch strings.ToLower(args[0]) {
	case "startpos":
		st = game.NewState()
	case "board":
		idx := lo.IndexOf(lo.Map(rest, func(s string, _ int) string { return strings.ToLower(s) }), "moves")
		boardArgs := rest
		if idx >= 0 {
			boardArgs, rest = rest[:idx], rest[idx:]
		} else {
			rest = nil
		}
		pos, black, err := mg.ParseBoard(strings.Join(boardArgs, " "))
		if err != nil {
			p.println("info string Invalid board:", err)
			return
		}
		st = game.State{Position: pos, BlackToMove: black}
	default:
		p.println("info string Invalid position subcommand")
		return
	}

	if len(rest) > 0 {
		if strings.ToLower(rest[0]) != "moves" {
			p.println("info string Malformed position command")
			return
		}
		for _, tok := range rest[1:] {
			m, err := mg.ParseMove(tok)
			if err != nil {
				p.println("info string Move", tok, "could not be parsed")
				return
			}
			if err := st.Play(m); err != nil {
				p.println("info string Move", tok, "not legal in", st.String())
				return
			}
		}
	}
	p.state = st
}

func (p *protocol) search(args []string) {
	moveTime := defaultMoveTime
	depth := 0
	for i := 0; i < len(args); i++ {
		switch strings.ToLower(args[i]) {
		case "movetime":
			if i+1 >= len(args) {
				p.println("info string Malformed go command option movetime")
				continue
			}
			i++
			ms, err := strconv.Atoi(args[i])
			if err != nil {
				p.println("info string Malformed go command option; could not convert movetime")
				continue
			}
			moveTime = time.Duration(ms) * time.Millisecond
		case "depth":
			if i+1 >= len(args) {
				p.println("info string Malformed go command option depth")
				continue
			}
			i++
			d, err := strconv.Atoi(args[i])
			if err != nil {
				p.println("info string Malformed go command option; could not convert depth")
				continue
			}
			depth = d
		default:
			p.println("info string Unknown go subcommand", args[i])
		}
	}

	var res engine.SearchResult
	if depth > 0 {
		res = p.eng.SearchDepth(p.state.Position, p.state.BlackToMove, depth)
	} else {
		res = p.eng.Search(p.state.Position, p.state.BlackToMove, engine.ClampThinkTime(moveTime))
	}
	log.Debug().Str("move", res.Move.String()).Int("depth", res.Depth).Uint64("nodes", res.Nodes).Msg("search done")
	if p.printStats {
		for _, l := range res.Stats.Lines() {
			p.println(l)
		}
	}
	p.println("bestmove " + res.Move.String())
}

// setOption handles "name <Weight> value <n>".
func (p *protocol) setOption(args []string) {
	if len(args) != 4 || strings.ToLower(args[0]) != "name" || strings.ToLower(args[2]) != "value" {
		p.println("info string Malformed setoption command")
		return
	}
	v, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		p.println("info string Malformed setoption value", args[3])
		return
	}
	if err := p.eng.Weights.Set(args[1], v); err != nil {
		p.println("info string", err)
	}
}
