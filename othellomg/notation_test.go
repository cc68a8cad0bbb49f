package othellomg_test

import (
	"strings"
	"testing"

	mg "othello-engine/othellomg"
)

func TestParseBoardStart(t *testing.T) {
	p, blackToMove, err := mg.ParseBoard(mg.StartBoard)
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if !blackToMove {
		t.Fatalf("expected black to move")
	}
	if p != mg.StartPosition() {
		t.Fatalf("parsed start position differs: %#x %#x", uint64(p.Mover), uint64(p.Opponent))
	}
	if got := mg.FormatBoard(p, true); got != mg.StartBoard {
		t.Fatalf("FormatBoard: got %q want %q", got, mg.StartBoard)
	}
}

func TestParseBoardRows(t *testing.T) {
	rows := []string{
		"--------",
		"--------",
		"--------",
		"---OX---",
		"---XO---",
		"--------",
		"--------",
		"--------",
		"white",
	}
	p, blackToMove, err := mg.ParseBoard(strings.Join(rows, "\n"))
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if blackToMove {
		t.Fatalf("expected white to move")
	}
	if p.Mover != mg.StartWhite || p.Opponent != mg.StartBlack {
		t.Fatalf("white-to-move position not oriented to the mover")
	}
}

func TestParseBoardSingleCellFields(t *testing.T) {
	h8 := mg.SquareBB(0)
	cells := strings.Split(strings.Repeat("-", 63)+"x", "")
	p, blackToMove, err := mg.ParseBoard(strings.Join(cells, " "))
	if err != nil {
		t.Fatalf("ParseBoard: %v", err)
	}
	if !blackToMove || p.Mover != h8 || p.Opponent != 0 {
		t.Fatalf("h8 disc misread: mover %x opponent %x black %v", p.Mover, p.Opponent, blackToMove)
	}

	cells[63] = "o"
	p, blackToMove, err = mg.ParseBoard(strings.Join(cells, " ") + " w")
	if err != nil {
		t.Fatalf("ParseBoard with side: %v", err)
	}
	if blackToMove || p.Mover != h8 {
		t.Fatalf("white h8 disc misread: mover %x black %v", p.Mover, blackToMove)
	}
}

func TestParseBoardErrors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"short":      "----",
		"bad cell":   strings.Repeat("-", 63) + "Q",
		"bad side":   strings.Repeat("-", 64) + "Z",
		"extra cell": strings.Repeat("-", 66) + " X",
		"bad token":  strings.Repeat("-", 64) + " Z",
	}
	for name, in := range cases {
		if _, _, err := mg.ParseBoard(in); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseMoveRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			m := mg.MoveAt(mg.SquareAt(row, col))
			back, err := mg.ParseMove(strings.ToUpper(m.String()))
			if err != nil || back != m {
				t.Fatalf("%s: round trip gave %s, %v", m, back, err)
			}
		}
	}
	if m, err := mg.ParseMove("pass"); err != nil || !m.IsPass() {
		t.Fatalf("pass: got %s, %v", m, err)
	}
	for _, bad := range []string{"i1", "a9", "a", "abc"} {
		if _, err := mg.ParseMove(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestCornerSquares(t *testing.T) {
	for _, s := range []string{"a1", "h1", "a8", "h8"} {
		m, _ := mg.ParseMove(s)
		if !m.IsCorner() {
			t.Errorf("%s should be a corner", s)
		}
	}
	if m, _ := mg.ParseMove("b2"); m.IsCorner() {
		t.Errorf("b2 is not a corner")
	}
	if mg.MoveAt(63).String() != "a1" || mg.MoveAt(0).String() != "h8" {
		t.Errorf("square numbering changed: 63=%s 0=%s", mg.MoveAt(63), mg.MoveAt(0))
	}
}

func TestDiagramMarksMoves(t *testing.T) {
	d := mg.Diagram(mg.StartPosition(), true, true)
	if got := strings.Count(d, "*"); got != 4 {
		t.Fatalf("diagram shows %d move markers, want 4:\n%s", got, d)
	}
}
