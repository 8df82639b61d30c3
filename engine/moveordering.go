package engine

import (
	"slices"

	"chess-variant/variantmg"
)

type move struct {
	move  variantmg.Move
	score int32
}

/*
	Move ordering offsets.
	- The TT move goes first; it is the best move of the previous iteration or
	  of an earlier visit at this depth.
	- Promotions are rare and usually decisive.
	- Captures come next, ranked by victim value minus attacker value, so a pawn
	  taking a queen is tried before a queen taking a pawn.
	- Quiet moves are ranked by how central their destination is.
*/
const (
	pvOffset        int32 = 4_000_000
	promotionOffset int32 = 3_000_000
	captureOffset   int32 = 2_000_000
	captureBand     int32 = 500_000
)

// orderValue counts royal pieces as zero so captures stay inside the capture
// band.
func (s *Searcher) orderValue(p *variantmg.Piece) int32 {
	if p.Royal {
		return 0
	}
	return s.eval.value(p)
}

func (s *Searcher) promotionGain(o variantmg.Occupant, m variantmg.Move) int32 {
	p := o.Piece
	if p.PromotionStyle == variantmg.PromoteChoice && m.Promotion >= 0 && int(m.Promotion) < len(p.PromotionChoices) {
		return s.eval.value(p.PromotionChoices[m.Promotion])
	}
	return 0
}

// scoreMovesList scores every move and sorts the list in place, best first.
// The sort is stable so equal scores keep generation order.
func (s *Searcher) scoreMovesList(e *variantmg.Engine, moves []variantmg.Move, ttMove variantmg.Move, dst []move) []move {
	dst = dst[:0]
	for _, m := range moves {
		mover := e.At(m.From)
		var score int32
		switch {
		case !ttMove.IsNull() && m == ttMove:
			score = pvOffset
		case e.Promotes(m):
			score = promotionOffset + s.promotionGain(mover, m)
			if m.IsCapture() {
				score += s.victimValue(e, m)
			}
		case m.IsCapture():
			diff := s.victimValue(e, m) - s.orderValue(mover.Piece)
			score = captureOffset + clamp(diff, -captureBand, captureBand)
		default:
			score = centrality(m.To)
		}
		dst = append(dst, move{move: m, score: score})
	}
	slices.SortStableFunc(dst, func(a, b move) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})
	return dst
}

func (s *Searcher) victimValue(e *variantmg.Engine, m variantmg.Move) int32 {
	victim := m.To
	if m.Kind == variantmg.EnPassant {
		victim = variantmg.SquareAt(m.From.Row(), m.To.Col())
	}
	o := e.At(victim)
	if o.Empty() {
		return 0
	}
	return s.orderValue(o.Piece)
}
