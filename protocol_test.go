package main

import (
	"bytes"
	"strings"
	"testing"

	mg "othello-engine/othellomg"
)

func run(t *testing.T, p *protocol, input ...string) []string {
	t.Helper()
	var buf bytes.Buffer
	p.out = &buf
	p.loop(strings.NewReader(strings.Join(input, "\n") + "\n"))
	out := strings.TrimRight(buf.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func last(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestHandshake(t *testing.T) {
	p := newProtocol(nil)
	out := run(t, p, "otp", "isready", "uci")
	if out[0] != "id name Othello Engine" {
		t.Fatalf("unexpected first line %q", out[0])
	}
	if !strings.Contains(strings.Join(out, "\n"), "option name CornerDonation type string default 200") {
		t.Fatalf("weights not advertised:\n%s", strings.Join(out, "\n"))
	}
	want := []string{"otpok", "readyok"}
	found := 0
	for _, l := range out {
		if found < len(want) && l == want[found] {
			found++
		}
	}
	if found != len(want) || last(out) != "uciok" {
		t.Fatalf("handshake replies missing:\n%s", strings.Join(out, "\n"))
	}
}

func TestPositionAndLegal(t *testing.T) {
	p := newProtocol(nil)
	if out := run(t, p, "legal"); last(out) != "legal e6 f5 c4 d3" {
		t.Fatalf("opening moves: got %q", last(out))
	}

	run(t, p, "position startpos moves d3 c3")
	if !p.state.BlackToMove {
		t.Fatalf("black should be to move after two plies")
	}
	if b, w := p.state.Counts(); b != 3 || w != 3 {
		t.Fatalf("after d3 c3: got %d/%d want 3/3", b, w)
	}

	// An illegal move leaves the previous position in place.
	before := p.state
	out := run(t, p, "position startpos moves d3 a1")
	if !strings.HasPrefix(last(out), "info string Move a1 not legal") {
		t.Fatalf("expected illegal move report, got %q", last(out))
	}
	if p.state != before {
		t.Fatalf("rejected position command changed the state")
	}
}

func TestPositionBoard(t *testing.T) {
	p := newProtocol(nil)
	run(t, p, "position board "+mg.StartBoard+" moves f5")
	if p.state.BlackToMove {
		t.Fatalf("white should be to move after f5")
	}
	out := run(t, p, "board")
	if last(out) != "info string board "+p.state.String() {
		t.Fatalf("unexpected board output %q", last(out))
	}

	out = run(t, p, "position board XO-")
	if !strings.HasPrefix(last(out), "info string Invalid board") {
		t.Fatalf("short board accepted: %q", last(out))
	}
	out = run(t, p, "position fen whatever")
	if last(out) != "info string Invalid position subcommand" {
		t.Fatalf("got %q", last(out))
	}
}

func TestGoDepth(t *testing.T) {
	p := newProtocol(nil)
	out := run(t, p, "go depth 3")
	if !strings.HasPrefix(out[0], "info depth 3 score ") {
		t.Fatalf("expected an info line first, got %q", out[0])
	}
	best := strings.TrimPrefix(last(out), "bestmove ")
	m, err := mg.ParseMove(best)
	if err != nil || p.state.Legal()&mg.Bitboard(m) == 0 {
		t.Fatalf("bestmove %q is not a legal opening move", best)
	}
}

func TestGoMovetimeAndPass(t *testing.T) {
	p := newProtocol(nil)
	p.printStats = true
	run(t, p, "position board OX------ -------- -------- -------- -------- -------- -------- -------- X")
	out := run(t, p, "go movetime 10")
	if last(out) != "bestmove pass" {
		t.Fatalf("blocked side should pass, got %q", last(out))
	}
	if !strings.Contains(strings.Join(out, "\n"), "info string Cut statistics:") {
		t.Fatalf("statistics not printed")
	}

	out = run(t, p, "go movetime soon")
	if out[0] != "info string Malformed go command option; could not convert movetime" {
		t.Fatalf("got %q", out[0])
	}
}

func TestSetOptionAndEval(t *testing.T) {
	p := newProtocol(nil)
	run(t, p, "setoption name Corner value 150")
	if p.eng.Weights.Corner != 150 {
		t.Fatalf("Corner: got %d want 150", p.eng.Weights.Corner)
	}
	out := run(t, p, "setoption name Parity value 3")
	if !strings.Contains(last(out), "unknown weight") {
		t.Fatalf("got %q", last(out))
	}
	out = run(t, p, "setoption name Terminal value 2147483647")
	if !strings.Contains(last(out), "out of range") || p.eng.Weights.Terminal != 10000 {
		t.Fatalf("got %q, Terminal %d", last(out), p.eng.Weights.Terminal)
	}
	out = run(t, p, "setoption Corner 3")
	if last(out) != "info string Malformed setoption command" {
		t.Fatalf("got %q", last(out))
	}

	if out := run(t, p, "eval"); last(out) != "info string eval 0" {
		t.Fatalf("start position eval: got %q", last(out))
	}
}

func TestNewGameAndUnknown(t *testing.T) {
	p := newProtocol(nil)
	run(t, p, "position startpos moves f5", "go depth 2")
	if p.eng.TT.Len() == 0 {
		t.Fatalf("search stored nothing")
	}
	out := run(t, p, "newgame", "frobnicate", "quit", "isready")
	if p.eng.TT.Len() != 0 || p.state.String() != mg.StartBoard {
		t.Fatalf("newgame did not reset the game")
	}
	if len(out) != 1 || out[0] != "info string Unknown command: frobnicate" {
		t.Fatalf("unexpected output after quit: %q", out)
	}
}
