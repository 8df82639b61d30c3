package variantmg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	mg "chess-variant/movegrammar"
	"chess-variant/variantmg"
)

func TestRookDeliversMate(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("h6", "h8")
	e.Place(at("a1"), set.Archetypes[1], variantmg.White, true)

	require.Contains(t, targets(e.LegalMoves(at("a1"))), "a8")
	require.True(t, e.ApplyMove(at("a1"), at("a8")))
	require.True(t, e.IsInCheck(variantmg.Black))
	require.Empty(t, e.AllLegalMoves(variantmg.Black))
	require.True(t, e.GameOver())
	winner, ok := e.Winner()
	require.True(t, ok)
	require.Equal(t, variantmg.White, winner)
	require.Equal(t, variantmg.WhiteWins, e.Result())

	// terminal: nothing else is accepted
	require.False(t, e.ApplyMove(at("h8"), at("g8")))
	require.False(t, e.ApplyMove(at("a8"), at("a1")))
}

func TestStalemateIsADraw(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("f7", "h8")
	e.Place(at("g5"), set.Archetypes[0], variantmg.White, true)

	require.True(t, e.ApplyMove(at("g5"), at("g6")))
	require.False(t, e.IsInCheck(variantmg.Black))
	require.True(t, e.GameOver())
	require.Equal(t, variantmg.Draw, e.Result())
	_, ok := e.Winner()
	require.False(t, ok)
}

func TestIsInCheckMatchesRawReach(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("e1", "e8")
	require.False(t, e.IsInCheck(variantmg.White))

	// a pinned attacker still gives check
	e.Place(at("e4"), set.Archetypes[1], variantmg.Black, true)
	e.Place(at("e6"), set.Archetypes[1], variantmg.White, true)
	require.True(t, e.IsInCheck(variantmg.White))
	require.True(t, e.IsSquareAttacked(at("e1"), variantmg.Black))

	// pawn pushes never attack
	e.ClearBoard()
	e.Place(at("e1"), king(), variantmg.White, true)
	e.Place(at("e2"), set.Pawn, variantmg.Black, true)
	require.False(t, e.IsInCheck(variantmg.White))
	e.Place(at("d2"), set.Pawn, variantmg.Black, true)
	require.True(t, e.IsInCheck(variantmg.White))

	// no royal, no check
	e.ClearBoard()
	e.Place(at("e4"), set.Archetypes[1], variantmg.Black, true)
	require.False(t, e.IsInCheck(variantmg.White))
}

func TestAttackFootprint(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("h1", "h8")
	e.Place(at("a1"), set.Archetypes[1], variantmg.White, true)
	e.Place(at("a3"), set.Pawn, variantmg.White, true)
	e.Place(at("d4"), set.Pawn, variantmg.White, true)

	fp := make([]string, 0)
	for _, sq := range e.AttackFootprint(at("a1")) {
		fp = append(fp, sq.String())
	}
	require.ElementsMatch(t, []string{"a2", "a3", "b1", "c1", "d1", "e1", "f1", "g1", "h1"}, fp)

	fp = fp[:0]
	for _, sq := range e.AttackFootprint(at("d4")) {
		fp = append(fp, sq.String())
	}
	require.ElementsMatch(t, []string{"c5", "e5"}, fp)
	require.Nil(t, e.AttackFootprint(at("e4")))
}

func TestCastling(t *testing.T) {
	e, _ := fromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	moves := e.LegalMoves(at("e1"))
	require.Contains(t, targets(moves), "g1")
	require.Contains(t, targets(moves), "c1")

	require.True(t, e.ApplyMove(at("e1"), at("g1")))
	require.Equal(t, "Rook", e.At(at("f1")).Piece.Name)
	require.True(t, e.At(at("f1")).HasMoved)
	require.True(t, e.At(at("h1")).Empty())

	require.True(t, e.ApplyMove(at("e8"), at("c8")))
	require.Equal(t, "Rook", e.At(at("d8")).Piece.Name)
	require.True(t, e.At(at("a8")).Empty())
	require.True(t, e.At(at("b8")).Empty())
}

func TestCastlingWinsOverPlainTwoStep(t *testing.T) {
	marshal := variantmg.MustPiece(variantmg.Piece{
		Name:   "Marshal",
		Symbol: 'K',
		Royal:  true,
		Flags:  variantmg.FlagCastling,
		Rules: []mg.MoveRule{
			{Step: mg.Vector{DX: 1, DY: 0}, Symmetry: mg.SymmetryFourWay, Distance: 2},
		},
	})
	rook := newStandard().Archetypes[1]
	require.Equal(t, "Rook", rook.Name)

	e := variantmg.New()
	e.ClearBoard()
	e.Place(at("e1"), marshal, variantmg.White, false)
	e.Place(at("h1"), rook, variantmg.White, false)
	e.Place(at("a8"), king(), variantmg.Black, true)
	e.RefreshStatus()

	var castle variantmg.Move
	count := 0
	for _, m := range e.LegalMoves(at("e1")) {
		if m.To == at("g1") {
			castle = m
			count++
		}
	}
	require.Equal(t, 1, count)
	require.Equal(t, variantmg.Castle, castle.Kind)

	require.True(t, e.ApplyMove(at("e1"), at("g1")))
	require.True(t, e.At(at("h1")).Empty())
	require.Equal(t, "Rook", e.At(at("f1")).Piece.Name)
	require.Equal(t, "Marshal", e.At(at("g1")).Piece.Name)

	// once the rook has moved the same square is an ordinary step again
	e.ClearBoard()
	e.Place(at("e1"), marshal, variantmg.White, false)
	e.Place(at("h1"), rook, variantmg.White, true)
	e.Place(at("a8"), king(), variantmg.Black, true)
	e.RefreshStatus()
	require.True(t, e.ApplyMove(at("e1"), at("g1")))
	require.Equal(t, "Rook", e.At(at("h1")).Piece.Name)
	require.True(t, e.At(at("f1")).Empty())
}

func TestCastlingThroughAttackIsRefused(t *testing.T) {
	e, _ := fromFEN(t, "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
	got := targets(e.LegalMoves(at("e1")))
	require.NotContains(t, got, "g1")
	require.Contains(t, got, "c1")

	// no rights, no castling
	e, _ = fromFEN(t, "r3k2r/8/8/8/8/8/8/R3K2R w kq - 0 1")
	got = targets(e.LegalMoves(at("e1")))
	require.NotContains(t, got, "g1")
	require.NotContains(t, got, "c1")
}

func TestEnPassant(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("e1", "e8")
	e.Place(at("e5"), set.Pawn, variantmg.White, true)
	e.Place(at("d7"), set.Pawn, variantmg.Black, false)
	e.SetTurn(variantmg.Black)

	require.True(t, e.ApplyMove(at("d7"), at("d5")))
	var ep variantmg.Move
	for _, m := range e.PseudoLegalMoves(at("e5")) {
		if m.Kind == variantmg.EnPassant {
			ep = m
		}
	}
	require.Equal(t, at("d6"), ep.To)

	require.True(t, e.ApplyMove(at("e5"), at("d6")))
	require.True(t, e.At(at("d5")).Empty())
	require.Equal(t, variantmg.White, e.At(at("d6")).Color)
}

func TestEnPassantOnlyRightAfterTheDoubleStep(t *testing.T) {
	set := newStandard()
	e, _ := emptyWithKings("e1", "e8")
	e.Place(at("e5"), set.Pawn, variantmg.White, true)
	e.Place(at("d7"), set.Pawn, variantmg.Black, false)
	e.Place(at("a2"), set.Pawn, variantmg.White, false)
	e.SetTurn(variantmg.Black)

	require.True(t, e.ApplyMove(at("d7"), at("d5")))
	require.True(t, e.ApplyMove(at("a2"), at("a3")))
	require.True(t, e.ApplyMove(at("e8"), at("f8")))
	require.NotContains(t, targets(e.LegalMoves(at("e5"))), "d6")
}

func TestChoicePromotionFreezesTurn(t *testing.T) {
	e, set := fromFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	require.True(t, e.ApplyMove(at("a7"), at("a8")))

	pending, ok := e.PendingPromotion()
	require.True(t, ok)
	require.Equal(t, at("a8"), pending.Square)
	require.Equal(t, variantmg.White, pending.Color)
	require.Equal(t, variantmg.White, e.Turn())

	// frozen until resolved
	require.False(t, e.ApplyMove(at("a1"), at("a2")))
	require.False(t, e.ApplyMove(at("h7"), at("h6")))
	require.False(t, e.ResolvePromotion(-1))
	require.False(t, e.ResolvePromotion(len(set.Pawn.PromotionChoices)))
	_, ok = e.PendingPromotion()
	require.True(t, ok)

	require.True(t, e.ResolvePromotion(1))
	require.Same(t, set.Archetypes[1], e.At(at("a8")).Piece)
	require.Equal(t, variantmg.Black, e.Turn())
	_, ok = e.PendingPromotion()
	require.False(t, ok)
	require.False(t, e.ResolvePromotion(0))
}

func lance(upgrade []mg.MoveRule) *variantmg.Piece {
	return variantmg.MustPiece(variantmg.Piece{
		Name:           "Lance",
		Symbol:         'L',
		Rules:          []mg.MoveRule{{Step: mg.Vector{DX: 0, DY: 1}, Distance: mg.Unlimited}},
		PromotionStyle: variantmg.PromoteUpgrade,
		PromotionRank:  7,
		UpgradeRules:   upgrade,
	})
}

func TestUpgradeUsesPrecomputedRules(t *testing.T) {
	wazir := mg.MoveRule{Step: mg.Vector{DX: 1, DY: 0}, Symmetry: mg.SymmetryFourWay, Distance: 1}
	l := lance([]mg.MoveRule{wazir})

	e, _ := emptyWithKings("h1", "h6")
	e.Place(at("a2"), l, variantmg.White, true)
	before := e.At(at("a2")).Piece
	require.True(t, e.ApplyMove(at("a2"), at("a8")))
	_, pending := e.PendingPromotion()
	require.False(t, pending)
	require.Equal(t, variantmg.Black, e.Turn())

	up := e.At(at("a8")).Piece
	require.Equal(t, "Lance+", up.Name)
	require.Len(t, up.Rules, 2)
	require.Equal(t, variantmg.PromoteNone, up.PromotionStyle)
	require.Len(t, l.Rules, 1, "template must not change")
	require.Same(t, l, before)

	// a second upgrade of the same template shares the upgraded piece
	e2, _ := emptyWithKings("h1", "h6")
	e2.Place(at("b2"), l, variantmg.White, true)
	require.True(t, e2.ApplyMove(at("b2"), at("b8")))
	require.Same(t, up, e2.At(at("b8")).Piece)
}

type recordingSource struct {
	seeds []int64
}

func (r *recordingSource) UpgradeRules(p *variantmg.Piece, seed int64) []mg.MoveRule {
	r.seeds = append(r.seeds, seed)
	return []mg.MoveRule{{Step: mg.Vector{DX: 1, DY: 1}, Symmetry: mg.SymmetryFourWay, Distance: 1}}
}

func TestUpgradeFallsBackToRuleSource(t *testing.T) {
	src := &recordingSource{}
	e := variantmg.New(variantmg.WithRuleSource(src), variantmg.WithSeed(3))
	e.ClearBoard()
	e.Place(at("h1"), king(), variantmg.White, true)
	e.Place(at("h6"), king(), variantmg.Black, true)
	e.Place(at("a2"), lance(nil), variantmg.White, true)

	require.True(t, e.ApplyMove(at("a2"), at("a8")))
	require.Equal(t, []int64{3*64 + int64(at("a8"))}, src.seeds)
	up := e.At(at("a8")).Piece
	require.Len(t, up.Rules, 2)
	require.Contains(t, targets(e.PseudoLegalMoves(at("a8"))), "b7")
}

func TestUpgradeWithoutRuleSourceKeepsRules(t *testing.T) {
	e, _ := emptyWithKings("h1", "h6")
	e.Place(at("a2"), lance(nil), variantmg.White, true)
	require.True(t, e.ApplyMove(at("a2"), at("a8")))
	up := e.At(at("a8")).Piece
	require.Equal(t, "Lance+", up.Name)
	require.Len(t, up.Rules, 1)
	require.Equal(t, variantmg.PromoteNone, up.PromotionStyle)
}

func TestApplyMessageIsAtomic(t *testing.T) {
	idx := func(i int) *int { return &i }
	cases := []struct {
		name string
		msg  variantmg.MoveMessage
		ok   bool
	}{
		{"missing choice", variantmg.MoveMessage{FromRow: 1, FromCol: 0, ToRow: 0, ToCol: 0}, false},
		{"choice out of range", variantmg.MoveMessage{FromRow: 1, FromCol: 0, ToRow: 0, ToCol: 0, Promotion: idx(4)}, false},
		{"choice on a plain move", variantmg.MoveMessage{FromRow: 7, FromCol: 0, ToRow: 6, ToCol: 0, Promotion: idx(0)}, false},
		{"off the board", variantmg.MoveMessage{FromRow: 8, FromCol: 0, ToRow: 7, ToCol: 0}, false},
		{"illegal destination", variantmg.MoveMessage{FromRow: 7, FromCol: 0, ToRow: 5, ToCol: 0}, false},
		{"promotion with choice", variantmg.MoveMessage{FromRow: 1, FromCol: 0, ToRow: 0, ToCol: 0, Promotion: idx(3)}, true},
		{"plain move", variantmg.MoveMessage{FromRow: 7, FromCol: 0, ToRow: 6, ToCol: 0}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, set := fromFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
			before := e.Board()
			require.Equal(t, tc.ok, e.ApplyMessage(tc.msg))
			if !tc.ok {
				require.Equal(t, before, e.Board())
				require.Equal(t, variantmg.White, e.Turn())
				_, pending := e.PendingPromotion()
				require.False(t, pending)
				return
			}
			require.Equal(t, variantmg.Black, e.Turn())
			if tc.msg.Promotion != nil {
				require.Same(t, set.Archetypes[*tc.msg.Promotion], e.At(at("a8")).Piece)
			}
		})
	}
}

func TestApplySearchMoveRoundTrip(t *testing.T) {
	e, set := fromFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	var knight variantmg.Move
	for _, m := range e.GenerateMoves() {
		if m.From == at("a7") && m.Promotion == 3 {
			knight = m
		}
	}
	msg := variantmg.MessageFor(knight)
	require.NotNil(t, msg.Promotion)
	require.True(t, e.ApplySearchMove(knight))
	require.Same(t, set.Archetypes[3], e.At(at("a8")).Piece)
}

func TestCloneReplaysIdentically(t *testing.T) {
	e, _ := fromFEN(t, startFEN)
	c := e.Clone()
	line := [][2]string{{"e2", "e4"}, {"e7", "e5"}, {"g1", "f3"}, {"b8", "c6"}, {"f1", "c4"}, {"g8", "f6"}, {"e1", "g1"}}
	for _, mv := range line {
		require.True(t, e.ApplyMove(at(mv[0]), at(mv[1])), "%v", mv)
		require.True(t, c.ApplyMove(at(mv[0]), at(mv[1])), "%v", mv)
	}
	require.Equal(t, e.Board(), c.Board())
	require.Equal(t, e.Turn(), c.Turn())
	require.Equal(t, e.GameOver(), c.GameOver())
	require.Equal(t, e.Signature(), c.Signature())

	// the clone is independent
	require.True(t, c.ApplyMove(at("d7"), at("d6")))
	require.NotEqual(t, e.Board(), c.Board())
	require.Equal(t, variantmg.Black, e.Turn())
}

func TestSignatureIgnoresMoveOrder(t *testing.T) {
	play := func(line [][2]string) *variantmg.Engine {
		e, _ := fromFEN(t, startFEN)
		for _, mv := range line {
			require.True(t, e.ApplyMove(at(mv[0]), at(mv[1])), "%v", mv)
		}
		return e
	}
	a := play([][2]string{{"g1", "f3"}, {"b8", "c6"}, {"b1", "c3"}, {"g8", "f6"}})
	b := play([][2]string{{"b1", "c3"}, {"g8", "f6"}, {"g1", "f3"}, {"b8", "c6"}})
	require.Equal(t, a.Signature(), b.Signature())

	start, _ := fromFEN(t, startFEN)
	require.NotEqual(t, start.Signature(), a.Signature())

	// side to move is part of the key
	a.SetTurn(variantmg.Black)
	require.NotEqual(t, a.Signature(), b.Signature())
}

func TestLoadFENErrors(t *testing.T) {
	cases := map[string]string{
		"too few fields":   "8/8/8/8/8/8/8/8 w",
		"seven ranks":      "8/8/8/8/8/8/8 w - -",
		"short rank":       "7/8/8/8/8/8/8/8 w - -",
		"long rank":        "9/8/8/8/8/8/8/8 w - -",
		"unknown piece":    "8/8/8/8/8/8/8/7Z w - -",
		"bad side":         "8/8/8/8/8/8/8/8 x - -",
		"bad castling":     "8/8/8/8/8/8/8/4K3 w X -",
		"missing partner":  "8/8/8/8/8/8/8/4K3 w K -",
		"bad en passant":   "8/8/8/8/8/8/8/4K3 w - z9",
		"empty en passant": "8/8/8/8/8/8/8/4K3 w - e6",
	}
	for name, fen := range cases {
		t.Run(name, func(t *testing.T) {
			e := variantmg.New()
			err := e.LoadFEN(fen, fenPieces(newStandard()))
			require.ErrorIs(t, err, variantmg.ErrInvalidFEN)
		})
	}
}

func TestInitializeRejectsBadPlacement(t *testing.T) {
	set := newStandard()
	e := variantmg.New()
	good := [8]*variantmg.Piece{set.Archetypes[1], set.Archetypes[3], set.Archetypes[2], set.Archetypes[0], set.Royal, set.Archetypes[2], set.Archetypes[3], set.Archetypes[1]}

	noRoyal := good
	noRoyal[4] = set.Archetypes[0]
	require.ErrorIs(t, e.Initialize(variantmg.Placement{White: noRoyal, Black: good, Pawn: set.Pawn}), variantmg.ErrInvalidPlacement)

	twoRoyals := good
	twoRoyals[3] = set.Royal
	require.ErrorIs(t, e.Initialize(variantmg.Placement{White: good, Black: twoRoyals, Pawn: set.Pawn}), variantmg.ErrInvalidPlacement)

	hole := good
	hole[0] = nil
	require.ErrorIs(t, e.Initialize(variantmg.Placement{White: hole, Black: good, Pawn: set.Pawn}), variantmg.ErrInvalidPlacement)

	require.ErrorIs(t, e.Initialize(variantmg.Placement{White: good, Black: good, Pawn: set.Royal}), variantmg.ErrInvalidPlacement)

	require.NoError(t, e.Initialize(variantmg.Placement{White: good, Black: good, Pawn: set.Pawn}))
	first := e.Board()
	require.NoError(t, e.Initialize(variantmg.Placement{White: good, Black: good, Pawn: set.Pawn}))
	require.Equal(t, first, e.Board())
}
