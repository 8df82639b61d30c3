package variantmg

import (
	"github.com/rs/zerolog/log"

	mg "chess-variant/movegrammar"
)

// gridUndo remembers the prior occupant of every square a move touched.
type gridUndo struct {
	squares [4]Square
	prior   [4]Occupant
	n       int
}

func (u *gridUndo) save(e *Engine, sq Square) {
	u.squares[u.n] = sq
	u.prior[u.n] = e.board[sq]
	u.n++
}

// MoveState holds what UnmakeMove needs to restore the engine in O(1).
type MoveState struct {
	grid         gridUndo
	prevLastMove LastMove
	prevTurn     Color
	prevPending  *PendingPromotion
	prevGameOver bool
	prevResult   Result
}

// simulate moves pieces on the grid only: the mover, a captured piece, the
// castling partner or the en passant victim.
func (e *Engine) simulate(m Move) gridUndo {
	var u gridUndo
	mover := e.board[m.From]
	u.save(e, m.From)
	u.save(e, m.To)

	switch m.Kind {
	case EnPassant:
		victim := SquareAt(m.From.Row(), m.To.Col())
		u.save(e, victim)
		e.board[victim] = Occupant{}
	case Castle:
		dir := 1
		corner := 7
		if m.To.Col() < m.From.Col() {
			dir, corner = -1, 0
		}
		rookFrom := SquareAt(m.From.Row(), corner)
		rookTo := SquareAt(m.From.Row(), m.From.Col()+dir)
		u.save(e, rookFrom)
		u.save(e, rookTo)
		partner := e.board[rookFrom]
		partner.HasMoved = true
		e.board[rookFrom] = Occupant{}
		e.board[rookTo] = partner
	}

	mover.HasMoved = true
	e.board[m.From] = Occupant{}
	e.board[m.To] = mover
	return u
}

func (e *Engine) revert(u *gridUndo) {
	for i := u.n - 1; i >= 0; i-- {
		e.board[u.squares[i]] = u.prior[i]
	}
}

// MakeMove applies m without checking legality. A choice promotion with
// m.Promotion set is resolved at once; without it the turn freezes on a
// pending promotion. Move-upgrade promotion always resolves here.
func (e *Engine) MakeMove(m Move) MoveState {
	st := MoveState{
		prevLastMove: e.lastMove,
		prevTurn:     e.turn,
		prevPending:  e.pending,
		prevGameOver: e.gameOver,
		prevResult:   e.result,
	}
	mover := e.board[m.From]
	st.grid = e.simulate(m)
	e.lastMove = LastMove{From: m.From, To: m.To, Piece: mover.Piece, Color: mover.Color}

	if reachesPromotion(mover.Piece, mover.Color, m.To) {
		switch mover.Piece.PromotionStyle {
		case PromoteChoice:
			if m.Promotion >= 0 && int(m.Promotion) < len(mover.Piece.PromotionChoices) {
				e.board[m.To].Piece = mover.Piece.PromotionChoices[m.Promotion]
			} else {
				e.pending = &PendingPromotion{Square: m.To, Color: mover.Color, Choices: mover.Piece.PromotionChoices}
				return st
			}
		case PromoteUpgrade:
			e.board[m.To].Piece = e.upgrade(mover.Piece, m.To)
		}
	}
	e.turn = e.turn.Other()
	return st
}

// UnmakeMove restores the state saved by MakeMove.
func (e *Engine) UnmakeMove(st *MoveState) {
	e.revert(&st.grid)
	e.lastMove = st.prevLastMove
	e.turn = st.prevTurn
	e.pending = st.prevPending
	e.gameOver = st.prevGameOver
	e.result = st.prevResult
}

// upgrade builds the piece granted by move-upgrade promotion. Pre-computed
// rules win; otherwise the rule source regenerates them from a per-square seed.
func (e *Engine) upgrade(p *Piece, sq Square) *Piece {
	if len(p.UpgradeRules) > 0 {
		if np, err := p.upgradedTemplate(); err == nil {
			return np
		}
	}
	var extra []mg.MoveRule
	if e.rules != nil {
		seed := e.seed*64 + int64(sq)
		extra = e.rules.UpgradeRules(p, seed)
		log.Debug().Str("piece", p.Name).Stringer("square", sq).Int64("seed", seed).
			Int("rules", len(extra)).Msg("regenerated upgrade rules")
	}
	np, err := p.Upgraded(extra)
	if err != nil {
		log.Warn().Err(err).Str("piece", p.Name).Msg("refusing regenerated upgrade rules")
		np, _ = p.Upgraded(nil)
	}
	return np
}
