package variantmg

import (
	mg "chess-variant/movegrammar"
)

// IsSquareAttacked reports whether any occupant of color by could land on sq by
// its movement rules alone. It never calls back into legal move generation and
// ignores castling and en passant, neither of which can capture on sq.
func (e *Engine) IsSquareAttacked(sq Square, by Color) bool {
	if !sq.Valid() {
		return false
	}
	for from := Square(0); from < 64; from++ {
		o := e.board[from]
		if o.Empty() || o.Color != by || from == sq {
			continue
		}
		if e.reaches(from, o, sq) {
			return true
		}
	}
	return false
}

func (e *Engine) reaches(from Square, o Occupant, target Square) bool {
	p := o.Piece
	for i, rule := range p.Rules {
		if rule.Capture == mg.CaptureProhibited {
			continue
		}
		if rule.RequiresUnmoved && o.HasMoved {
			continue
		}
		for _, v := range p.RuleVectors(i) {
			if rule.Jump == mg.Teleport {
				if offset(from, v, rule.Reach(), o.Color) == target {
					return true
				}
				continue
			}
			for n := 1; n <= rule.Reach(); n++ {
				to := offset(from, v, n, o.Color)
				if to == NoSquare {
					break
				}
				if to == target {
					return true
				}
				if !e.board[to].Empty() {
					break
				}
			}
		}
	}
	return false
}

// IsInCheck is false when c has no royal piece left.
func (e *Engine) IsInCheck(c Color) bool {
	king, ok := e.RoyalSquare(c)
	if !ok {
		return false
	}
	return e.IsSquareAttacked(king, c.Other())
}

// AttackFootprint lists every square the occupant of sq threatens, whether
// empty or occupied, for threat overlays.
func (e *Engine) AttackFootprint(sq Square) []Square {
	o := e.At(sq)
	if o.Empty() {
		return nil
	}
	out := make([]Square, 0, 16)
	for to := Square(0); to < 64; to++ {
		if to != sq && e.reaches(sq, o, to) {
			out = append(out, to)
		}
	}
	return out
}
