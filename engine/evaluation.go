package engine

import (
	mg "chess-variant/movegrammar"
	"chess-variant/variantmg"
)

// Score constants. Mate scores lie above Checkmate and shrink with the ply
// they are found at.
const (
	MaxScore   int32 = 1_100_000
	Checkmate  int32 = 1_000_000
	DrawScore  int32 = 0
	RoyalValue int32 = 50_000

	infinity int32 = MaxScore + 1
)

// Evaluation weights.
var (
	PieceBaseValue = 40.0
	VectorValue    = 15.0
	ReachValue     = 10.0
	PromotionBonus = 120.0
	CenterWeight   = int32(2)
	MobilityWeight = int32(3)
	CaptureFactors = [3]float64{mg.CaptureAllowed: 1.0, mg.CaptureProhibited: 0.4, mg.CaptureRequired: 0.6}
	OneShotFactor  = 0.25
	TeleportFactor = 1.2
)

// EvaluationFn scores a position from the side to move's point of view.
type EvaluationFn func(e *variantmg.Engine) int32

type pieceTraits struct {
	value int32
}

// Evaluator caches per-template values derived from movement rules. It is not
// safe for concurrent use.
type Evaluator struct {
	traits map[*variantmg.Piece]pieceTraits
}

func NewEvaluator() *Evaluator {
	return &Evaluator{traits: make(map[*variantmg.Piece]pieceTraits)}
}

// Evaluate is a one-off evaluation with a fresh cache.
func Evaluate(e *variantmg.Engine) int32 {
	return NewEvaluator().Evaluate(e)
}

// PieceValue is the material value of a template, derived only from its rule
// shapes: directions times reach, weighted by capture ability.
func PieceValue(p *variantmg.Piece) int32 {
	if p.Royal {
		return RoyalValue
	}
	v := PieceBaseValue
	for i, rule := range p.Rules {
		n := float64(len(p.RuleVectors(i)))
		rv := n * (VectorValue + ReachValue*float64(rule.Reach()))
		if int(rule.Capture) < len(CaptureFactors) {
			rv *= CaptureFactors[rule.Capture]
		}
		if rule.RequiresUnmoved {
			rv *= OneShotFactor
		}
		if rule.Jump == mg.Teleport {
			rv *= TeleportFactor
		}
		v += rv
	}
	return int32(v)
}

func (ev *Evaluator) value(p *variantmg.Piece) int32 {
	t, ok := ev.traits[p]
	if !ok {
		t = pieceTraits{value: PieceValue(p)}
		ev.traits[p] = t
	}
	return t.value
}

// Material sums piece values, white minus black.
func (ev *Evaluator) Material(e *variantmg.Engine) int32 {
	var score int32
	for sq := variantmg.Square(0); sq < 64; sq++ {
		o := e.At(sq)
		if o.Empty() {
			continue
		}
		v := ev.value(o.Piece)
		if o.Color == variantmg.Black {
			v = -v
		}
		score += v
	}
	return score
}

// Evaluate is O(pieces): material, promotion proximity, centrality and a
// mobility estimate taken from the first step of every rule vector.
func (ev *Evaluator) Evaluate(e *variantmg.Engine) int32 {
	var score [2]int32
	var mobility [2]int32
	for sq := variantmg.Square(0); sq < 64; sq++ {
		o := e.At(sq)
		if o.Empty() {
			continue
		}
		side := o.Color
		score[side] += ev.value(o.Piece)
		score[side] += promotionProximity(o.Piece, sq, side)
		if !o.Piece.Royal {
			score[side] += CenterWeight * centrality(sq)
		}
		mobility[side] += firstSteps(e, o, sq)
	}
	total := score[variantmg.White] - score[variantmg.Black]
	total += MobilityWeight * (mobility[variantmg.White] - mobility[variantmg.Black])
	if e.Turn() == variantmg.Black {
		return -total
	}
	return total
}

func promotionProximity(p *variantmg.Piece, sq variantmg.Square, c variantmg.Color) int32 {
	if p.PromotionStyle == variantmg.PromoteNone || p.PromotionRank <= 0 {
		return 0
	}
	rel := clamp(variantmg.RelativeRank(sq, c), 0, p.PromotionRank)
	return int32(PromotionBonus * float64(rel*rel) / float64(p.PromotionRank*p.PromotionRank))
}

// centrality is 12 on the four center squares and 0 in the corners.
func centrality(sq variantmg.Square) int32 {
	return int32(14 - (abs(2*sq.Col()-7) + abs(2*sq.Row()-7)))
}

// firstSteps counts rule vectors whose first landing square is on the board
// and not held by a friendly piece.
func firstSteps(e *variantmg.Engine, o variantmg.Occupant, sq variantmg.Square) int32 {
	var n int32
	forward := -1
	if o.Color == variantmg.Black {
		forward = 1
	}
	for i, rule := range o.Piece.Rules {
		if rule.RequiresUnmoved && o.HasMoved {
			continue
		}
		scale := 1
		if rule.Jump == mg.Teleport {
			scale = rule.Reach()
		}
		for _, v := range o.Piece.RuleVectors(i) {
			to := variantmg.SquareAt(sq.Row()+forward*v.DY*scale, sq.Col()+v.DX*scale)
			if to == variantmg.NoSquare {
				continue
			}
			if t := e.At(to); t.Empty() || t.Color != o.Color {
				n++
			}
		}
	}
	return n
}
