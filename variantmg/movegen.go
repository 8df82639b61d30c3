package variantmg

import (
	mg "chess-variant/movegrammar"
)

// PseudoLegalMoves walks every rule of the occupant of from. Moves that leave
// the mover's royal piece attacked are included.
func (e *Engine) PseudoLegalMoves(from Square) []Move {
	return e.pseudoLegalInto(make([]Move, 0, 32), from)
}

func (e *Engine) pseudoLegalInto(dst []Move, from Square) []Move {
	if !from.Valid() {
		return dst
	}
	occ := e.board[from]
	if occ.Empty() {
		return dst
	}
	start := len(dst)
	p := occ.Piece
	for i, rule := range p.Rules {
		if rule.RequiresUnmoved && occ.HasMoved {
			continue
		}
		for _, v := range p.RuleVectors(i) {
			dst = e.walk(dst, start, from, occ.Color, rule, v)
		}
	}
	if p.HasFlag(FlagCastling) && !occ.HasMoved {
		dst = e.castlingMoves(dst, start, from, occ.Color)
	}
	if p.HasFlag(FlagEnPassant) {
		dst = e.enPassantMove(dst, start, from, occ.Color)
	}
	return dst
}

// walk appends the targets of one vector. Each destination is emitted once per
// occupant even when several rules reach it.
func (e *Engine) walk(dst []Move, start int, from Square, us Color, rule mg.MoveRule, v mg.Vector) []Move {
	if rule.Jump == mg.Teleport {
		to := offset(from, v, rule.Reach(), us)
		if to == NoSquare {
			return dst
		}
		target := e.board[to]
		switch {
		case target.Empty():
			if rule.Capture != mg.CaptureRequired {
				dst = appendUnique(dst, start, Move{From: from, To: to, Kind: Quiet, Promotion: NoPromotion})
			}
		case target.Color != us:
			if rule.Capture != mg.CaptureProhibited {
				dst = appendUnique(dst, start, Move{From: from, To: to, Kind: Capture, Promotion: NoPromotion})
			}
		}
		return dst
	}

	for n := 1; n <= rule.Reach(); n++ {
		to := offset(from, v, n, us)
		if to == NoSquare {
			break
		}
		target := e.board[to]
		if target.Empty() {
			if rule.Capture != mg.CaptureRequired {
				dst = appendUnique(dst, start, Move{From: from, To: to, Kind: Quiet, Promotion: NoPromotion})
			}
			continue
		}
		if target.Color != us && rule.Capture != mg.CaptureProhibited {
			dst = appendUnique(dst, start, Move{From: from, To: to, Kind: Capture, Promotion: NoPromotion})
		}
		break
	}
	return dst
}

// appendUnique keeps one move per destination. A castle or en passant capture
// replaces a plain step to the same square, since from and to alone must
// identify the special move.
func appendUnique(dst []Move, start int, m Move) []Move {
	for i, have := range dst[start:] {
		if have.To == m.To {
			if have.Kind == Quiet && (m.Kind == Castle || m.Kind == EnPassant) {
				dst[start+i] = m
			}
			return dst
		}
	}
	return append(dst, m)
}

// castlingMoves looks for unmoved corner partners at least three columns away.
func (e *Engine) castlingMoves(dst []Move, start int, from Square, us Color) []Move {
	row := from.Row()
	if row != backRankRow(us) {
		return dst
	}
	them := us.Other()
	for _, dir := range [2]int{1, -1} {
		cornerCol := 7
		if dir < 0 {
			cornerCol = 0
		}
		if abs(cornerCol-from.Col()) < 3 {
			continue
		}
		partner := e.board[SquareAt(row, cornerCol)]
		if partner.Empty() || partner.Color != us || partner.HasMoved || partner.Piece.Royal {
			continue
		}
		clear := true
		for col := from.Col() + dir; col != cornerCol; col += dir {
			if !e.board[SquareAt(row, col)].Empty() {
				clear = false
				break
			}
		}
		if !clear {
			continue
		}
		transit := SquareAt(row, from.Col()+dir)
		landing := SquareAt(row, from.Col()+2*dir)
		if e.IsSquareAttacked(from, them) || e.IsSquareAttacked(transit, them) || e.IsSquareAttacked(landing, them) {
			continue
		}
		dst = appendUnique(dst, start, Move{From: from, To: landing, Kind: Castle, Promotion: NoPromotion})
	}
	return dst
}

// enPassantMove requires the previous move to be an enemy double step ending
// beside from on the same row.
func (e *Engine) enPassantMove(dst []Move, start int, from Square, us Color) []Move {
	lm := e.lastMove
	if !lm.valid() || lm.Color == us || !lm.Piece.HasFlag(FlagEnPassant) {
		return dst
	}
	if lm.From.Col() != lm.To.Col() || abs(lm.From.Row()-lm.To.Row()) != 2 {
		return dst
	}
	if lm.To.Row() != from.Row() || abs(lm.To.Col()-from.Col()) != 1 {
		return dst
	}
	victim := e.board[lm.To]
	if victim.Empty() || victim.Color == us || victim.Piece != lm.Piece {
		return dst
	}
	to := SquareAt((lm.From.Row()+lm.To.Row())/2, lm.To.Col())
	if to == NoSquare || !e.board[to].Empty() {
		return dst
	}
	return appendUnique(dst, start, Move{From: from, To: to, Kind: EnPassant, Promotion: NoPromotion})
}

// LegalMoves filters the pseudo-legal moves of from by simulating each one on
// the live grid and reverting it.
func (e *Engine) LegalMoves(from Square) []Move {
	return e.legalInto(make([]Move, 0, 32), from)
}

func (e *Engine) legalInto(dst []Move, from Square) []Move {
	start := len(dst)
	dst = e.pseudoLegalInto(dst, from)
	if len(dst) == start {
		return dst
	}
	us := e.board[from].Color
	kept := start
	for i := start; i < len(dst); i++ {
		m := dst[i]
		undo := e.simulate(m)
		inCheck := e.IsInCheck(us)
		e.revert(&undo)
		if !inCheck {
			dst[kept] = m
			kept++
		}
	}
	return dst[:kept]
}

// AllLegalMoves lists the legal moves of every occupant of color c. Choice
// promotions appear once, without a choice.
func (e *Engine) AllLegalMoves(c Color) []Move {
	moves := make([]Move, 0, 64)
	for sq := Square(0); sq < 64; sq++ {
		o := e.board[sq]
		if o.Empty() || o.Color != c {
			continue
		}
		moves = e.legalInto(moves, sq)
	}
	return moves
}

// HasLegalMoves stops at the first legal move found.
func (e *Engine) HasLegalMoves(c Color) bool {
	var buf [48]Move
	for sq := Square(0); sq < 64; sq++ {
		o := e.board[sq]
		if o.Empty() || o.Color != c {
			continue
		}
		if len(e.legalInto(buf[:0], sq)) > 0 {
			return true
		}
	}
	return false
}

// GenerateMoves lists the legal moves of the side to move with every choice
// promotion expanded into one move per choice. This is the search's move list.
func (e *Engine) GenerateMoves() []Move {
	return e.GenerateMovesInto(make([]Move, 0, 64))
}

func (e *Engine) GenerateMovesInto(dst []Move) []Move {
	for sq := Square(0); sq < 64; sq++ {
		o := e.board[sq]
		if o.Empty() || o.Color != e.turn {
			continue
		}
		start := len(dst)
		dst = e.legalInto(dst, sq)
		if !choicePromoter(o.Piece) {
			continue
		}
		end := len(dst)
		for i := start; i < end; i++ {
			m := dst[i]
			if !reachesPromotion(o.Piece, o.Color, m.To) {
				continue
			}
			dst[i].Promotion = 0
			for c := 1; c < len(o.Piece.PromotionChoices); c++ {
				m.Promotion = int8(c)
				dst = append(dst, m)
			}
		}
	}
	return dst
}

func choicePromoter(p *Piece) bool {
	return p.PromotionStyle == PromoteChoice && len(p.PromotionChoices) > 0
}

func reachesPromotion(p *Piece, c Color, to Square) bool {
	if p.PromotionStyle == PromoteNone || p.PromotionRank == NoPromotionRank {
		return false
	}
	return RelativeRank(to, c) >= p.PromotionRank
}

// Promotes reports whether m would promote the moving piece.
func (e *Engine) Promotes(m Move) bool {
	o := e.At(m.From)
	return !o.Empty() && reachesPromotion(o.Piece, o.Color, m.To)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
