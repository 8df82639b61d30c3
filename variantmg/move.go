package variantmg

import "fmt"

type MoveKind uint8

const (
	Quiet MoveKind = iota
	Capture
	Castle
	EnPassant
)

func (k MoveKind) String() string {
	switch k {
	case Capture:
		return "capture"
	case Castle:
		return "castle"
	case EnPassant:
		return "en-passant"
	}
	return "quiet"
}

// NoPromotion marks a move that does not pick a promotion choice.
const NoPromotion int8 = -1

// Move is a candidate produced by move generation.
type Move struct {
	From      Square
	To        Square
	Kind      MoveKind
	Promotion int8 // index into PromotionChoices, NoPromotion otherwise
}

var NullMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPromotion}

func (m Move) IsNull() bool { return m.From == NoSquare }

func (m Move) IsCapture() bool { return m.Kind == Capture || m.Kind == EnPassant }

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	return fmt.Sprintf("%s%s", m.From, m.To)
}

// Notation is the long algebraic form with the promotion choice's symbol, as
// other engines print it ("e7e8q").
func (e *Engine) Notation(m Move) string {
	s := m.String()
	if m.Promotion == NoPromotion {
		return s
	}
	o := e.board[m.From]
	if o.Empty() || int(m.Promotion) >= len(o.Piece.PromotionChoices) {
		return s
	}
	return s + string(toLower(o.Piece.PromotionChoices[m.Promotion].Symbol))
}
