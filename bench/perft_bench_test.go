package bench

import (
	"testing"

	mg "othello-engine/othellomg"
)

const midgame = "--XXXO----XXOO---OXXXOO-OOXOXO--OOOXXX---OXXO-----XO------------ X"

func benchPerft(b *testing.B, board string, depth int) {
	p, _, err := mg.ParseBoard(board)
	if err != nil {
		b.Fatalf("ParseBoard: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = mg.Perft(p, depth)
	}
}

func BenchmarkPerft_Initial_D6(b *testing.B) {
	benchPerft(b, mg.StartBoard, 6)
}

func BenchmarkPerft_Midgame_D4(b *testing.B) {
	benchPerft(b, midgame, 4)
}
