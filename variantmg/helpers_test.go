package variantmg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chess-variant/generator"
	mg "chess-variant/movegrammar"
	"chess-variant/variantmg"
)

const (
	startFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	kiwipeteFEN  = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	position3FEN = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	position4FEN = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
)

// at parses an algebraic square such as "e4".
func at(s string) variantmg.Square {
	return variantmg.SquareAt(8-int(s[1]-'0'), int(s[0]-'a'))
}

func targets(moves []variantmg.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.To.String())
	}
	return out
}

func fromFEN(t *testing.T, fen string) (*variantmg.Engine, generator.PieceSet) {
	t.Helper()
	set := generator.Standard()
	e := variantmg.New()
	require.NoError(t, e.LoadFEN(fen, generator.FENPieces(set)))
	return e, set
}

func king() *variantmg.Piece {
	return variantmg.MustPiece(variantmg.Piece{
		Name:   "King",
		Symbol: 'K',
		Royal:  true,
		Rules: []mg.MoveRule{
			{Step: mg.Vector{DX: 1, DY: 0}, Symmetry: mg.SymmetryFourWay, Distance: 1},
			{Step: mg.Vector{DX: 1, DY: 1}, Symmetry: mg.SymmetryFourWay, Distance: 1},
		},
	})
}

// emptyWithKings returns a board holding only the two royal pieces, both
// marked as moved.
func emptyWithKings(white, black string) (*variantmg.Engine, *variantmg.Piece) {
	k := king()
	e := variantmg.New()
	e.ClearBoard()
	e.Place(at(white), k, variantmg.White, true)
	e.Place(at(black), k, variantmg.Black, true)
	return e, k
}

func newStandard() generator.PieceSet { return generator.Standard() }

func fenPieces(set generator.PieceSet) map[rune]*variantmg.Piece { return generator.FENPieces(set) }
