package variantmg

import (
	"github.com/rs/zerolog/log"
)

// ApplyMove plays from->to for the side to move. It returns false, changing
// nothing, when the game is over, a promotion is pending, or the move is not
// in LegalMoves(from). A choice promotion leaves the turn frozen until
// ResolvePromotion.
func (e *Engine) ApplyMove(from, to Square) bool {
	m, ok := e.findLegal(from, to)
	if !ok {
		return false
	}
	e.MakeMove(m)
	if e.pending == nil {
		e.RefreshStatus()
	}
	return true
}

func (e *Engine) findLegal(from, to Square) (Move, bool) {
	if e.gameOver || e.pending != nil || !from.Valid() || !to.Valid() {
		return NullMove, false
	}
	o := e.board[from]
	if o.Empty() || o.Color != e.turn {
		log.Debug().Stringer("from", from).Stringer("to", to).Msg("no piece of the side to move")
		return NullMove, false
	}
	for _, m := range e.LegalMoves(from) {
		if m.To == to {
			return m, true
		}
	}
	log.Debug().Stringer("from", from).Stringer("to", to).Msg("illegal move rejected")
	return NullMove, false
}

// ResolvePromotion swaps in the chosen piece, unfreezes and passes the turn.
func (e *Engine) ResolvePromotion(choice int) bool {
	if e.pending == nil || choice < 0 || choice >= len(e.pending.Choices) {
		return false
	}
	sq := e.pending.Square
	e.board[sq].Piece = e.pending.Choices[choice]
	e.pending = nil
	e.turn = e.turn.Other()
	e.RefreshStatus()
	return true
}

// RefreshStatus ends the game when the side to move has no legal move:
// checkmate if it is in check, stalemate otherwise.
func (e *Engine) RefreshStatus() {
	if e.pending != nil {
		return
	}
	if e.HasLegalMoves(e.turn) {
		e.gameOver = false
		e.result = Ongoing
		return
	}
	e.gameOver = true
	switch {
	case !e.IsInCheck(e.turn):
		e.result = Draw
	case e.turn == White:
		e.result = BlackWins
	default:
		e.result = WhiteWins
	}
	log.Debug().Stringer("result", e.result).Msg("game over")
}
