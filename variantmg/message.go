package variantmg

// MoveMessage is a move as it travels between peers. Remote input is always
// re-validated through LegalMoves.
type MoveMessage struct {
	FromRow   int  `json:"fromRow"`
	FromCol   int  `json:"fromCol"`
	ToRow     int  `json:"toRow"`
	ToCol     int  `json:"toCol"`
	Promotion *int `json:"promotionChoiceIndex,omitempty"`
}

// MessageFor encodes a search or generated move.
func MessageFor(m Move) MoveMessage {
	msg := MoveMessage{FromRow: m.From.Row(), FromCol: m.From.Col(), ToRow: m.To.Row(), ToCol: m.To.Col()}
	if m.Promotion != NoPromotion {
		idx := int(m.Promotion)
		msg.Promotion = &idx
	}
	return msg
}

// ApplyMessage applies a whole message or nothing. A move that would freeze
// on a choice promotion needs a valid choice index; any other move must not
// carry one.
func (e *Engine) ApplyMessage(msg MoveMessage) bool {
	from := SquareAt(msg.FromRow, msg.FromCol)
	to := SquareAt(msg.ToRow, msg.ToCol)
	if from == NoSquare || to == NoSquare {
		return false
	}
	m, ok := e.findLegal(from, to)
	if !ok {
		return false
	}
	mover := e.board[from].Piece
	needsChoice := mover.PromotionStyle == PromoteChoice && e.Promotes(m)
	if needsChoice != (msg.Promotion != nil) {
		return false
	}
	if needsChoice && (*msg.Promotion < 0 || *msg.Promotion >= len(mover.PromotionChoices)) {
		return false
	}
	if !e.ApplyMove(from, to) {
		return false
	}
	if needsChoice {
		return e.ResolvePromotion(*msg.Promotion)
	}
	return true
}

// ApplySearchMove plays a move produced by GenerateMoves, including its
// promotion choice.
func (e *Engine) ApplySearchMove(m Move) bool {
	msg := MessageFor(m)
	if m.Promotion == NoPromotion || !e.Promotes(m) {
		msg.Promotion = nil
	}
	return e.ApplyMessage(msg)
}
