package variantmg_test

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/stretchr/testify/require"

	"chess-variant/variantmg"
)

// referencePerft walks the same tree with dragontoothmg.
func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		unapply := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		unapply()
	}
	return nodes
}

func TestPerftKnownCounts(t *testing.T) {
	cases := []struct {
		name   string
		fen    string
		counts []uint64
	}{
		{"start", startFEN, []uint64{20, 400, 8902}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039}},
		{"position3", position3FEN, []uint64{14, 191, 2812}},
		{"position4", position4FEN, []uint64{6, 264}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := fromFEN(t, tc.fen)
			for i, want := range tc.counts {
				depth := i + 1
				if got := variantmg.Perft(e, depth); got != want {
					t.Fatalf("%s: perft(%d) = %d, want %d", tc.name, depth, got, want)
				}
			}
		})
	}
}

func TestPerftMatchesReferenceGenerator(t *testing.T) {
	fens := []string{
		startFEN,
		kiwipeteFEN,
		position3FEN,
		position4FEN,
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	}
	depth := 2
	if testing.Short() {
		depth = 1
	}
	for _, fen := range fens {
		e, _ := fromFEN(t, fen)
		ref := dragontoothmg.ParseFen(fen)
		require.Equal(t, referencePerft(&ref, depth), variantmg.Perft(e, depth), fen)
	}
}

func TestPerftDivideSumsToPerft(t *testing.T) {
	e, _ := fromFEN(t, kiwipeteFEN)
	div := variantmg.PerftDivide(e, 2)
	require.Len(t, div, 48)
	var total uint64
	for _, n := range div {
		total += n
	}
	require.Equal(t, uint64(2039), total)
	require.Contains(t, div, "e1g1")
	require.Contains(t, div, "e1c1")
}

func BenchmarkPerftStart(b *testing.B) {
	set := newStandard()
	e := variantmg.New()
	if err := e.LoadFEN(startFEN, fenPieces(set)); err != nil {
		b.Fatalf("LoadFEN: %v", err)
	}
	for i := 0; i < b.N; i++ {
		variantmg.Perft(e, 3)
	}
}
