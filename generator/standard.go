package generator

import (
	mg "chess-variant/movegrammar"
	"chess-variant/variantmg"
)

func orthogonal(distance int) mg.MoveRule {
	return mg.MoveRule{Step: mg.Vector{DX: 1, DY: 0}, Symmetry: mg.SymmetryFourWay, Distance: distance}
}

func diagonal(distance int) mg.MoveRule {
	return mg.MoveRule{Step: mg.Vector{DX: 1, DY: 1}, Symmetry: mg.SymmetryFourWay, Distance: distance}
}

func leap(dx, dy int) mg.MoveRule {
	return mg.MoveRule{Step: mg.Vector{DX: dx, DY: dy}, Symmetry: mg.SymmetryEightWay, Distance: 1, Jump: mg.Teleport}
}

func pawnRules() []mg.MoveRule {
	return []mg.MoveRule{
		{Step: mg.Vector{DX: 0, DY: 1}, Distance: 1, Capture: mg.CaptureProhibited},
		{Step: mg.Vector{DX: 0, DY: 1}, Distance: 2, Capture: mg.CaptureProhibited, RequiresUnmoved: true},
		{Step: mg.Vector{DX: 1, DY: 1}, Symmetry: mg.SymmetryMirror, Distance: 1, Capture: mg.CaptureRequired},
	}
}

func kingRules() []mg.MoveRule {
	return []mg.MoveRule{orthogonal(1), diagonal(1)}
}

// Standard returns the classical chess armies expressed in the movement
// grammar. Archetypes are ordered queen, rook, bishop, knight, which is also
// the pawn's promotion choice order.
func Standard() PieceSet {
	queen := variantmg.MustPiece(variantmg.Piece{Name: "Queen", Symbol: 'Q', Rules: []mg.MoveRule{orthogonal(mg.Unlimited), diagonal(mg.Unlimited)}})
	rook := variantmg.MustPiece(variantmg.Piece{Name: "Rook", Symbol: 'R', Rules: []mg.MoveRule{orthogonal(mg.Unlimited)}})
	bishop := variantmg.MustPiece(variantmg.Piece{Name: "Bishop", Symbol: 'B', Rules: []mg.MoveRule{diagonal(mg.Unlimited)}})
	knight := variantmg.MustPiece(variantmg.Piece{Name: "Knight", Symbol: 'N', Rules: []mg.MoveRule{leap(1, 2)}})
	king := variantmg.MustPiece(variantmg.Piece{Name: "King", Symbol: 'K', Rules: kingRules(), Royal: true, Flags: variantmg.FlagCastling})
	pawn := variantmg.MustPiece(variantmg.Piece{
		Name:             "Pawn",
		Symbol:           'P',
		Rules:            pawnRules(),
		Flags:            variantmg.FlagEnPassant,
		PromotionStyle:   variantmg.PromoteChoice,
		PromotionRank:    7,
		PromotionChoices: []*variantmg.Piece{queen, rook, bishop, knight},
	})
	return PieceSet{Royal: king, Archetypes: []*variantmg.Piece{queen, rook, bishop, knight}, Pawn: pawn}
}

// StandardPlacement is the classical starting position for set.
func StandardPlacement(set PieceSet) variantmg.Placement {
	q, r, b, n := set.Archetypes[0], set.Archetypes[1], set.Archetypes[2], set.Archetypes[3]
	rank := [8]*variantmg.Piece{r, n, b, q, set.Royal, b, n, r}
	return variantmg.Placement{White: rank, Black: rank, Pawn: set.Pawn}
}

// FENPieces maps FEN letters to the classical set.
func FENPieces(set PieceSet) map[rune]*variantmg.Piece {
	out := map[rune]*variantmg.Piece{
		set.Royal.Symbol: set.Royal,
		set.Pawn.Symbol:  set.Pawn,
	}
	for _, p := range set.Archetypes {
		out[p.Symbol] = p
	}
	return out
}

// NewStandardGame returns an engine at the classical start position.
func NewStandardGame() (*variantmg.Engine, PieceSet) {
	set := Standard()
	e := variantmg.New(variantmg.WithRuleSource(Upgrader{}))
	if err := e.Initialize(StandardPlacement(set)); err != nil {
		panic(err)
	}
	return e, set
}
