package variantmg

import (
	"fmt"
	"strings"
	"unicode"
)

// LoadFEN sets up a position from a FEN string. pieces maps upper-case letters
// to templates; lower-case letters are the same pieces for black. Castling
// rights decide the moved flags of royal pieces and corner partners, and the
// en passant field synthesizes the double step that allowed it.
func (e *Engine) LoadFEN(fen string, pieces map[rune]*Piece) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("%w: not enough fields", ErrInvalidFEN)
	}

	var board [64]Occupant
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: incorrect number of ranks", ErrInvalidFEN)
	}
	for row, rankStr := range ranks {
		col := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			p, ok := pieces[unicode.ToUpper(ch)]
			if !ok || p == nil {
				return fmt.Errorf("%w: unrecognized piece character %q", ErrInvalidFEN, ch)
			}
			if col >= 8 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, 8-row)
			}
			c := White
			if unicode.IsLower(ch) {
				c = Black
			}
			board[SquareAt(row, col)] = Occupant{Piece: p, Color: c, HasMoved: row != pawnRow(c)}
			col++
		}
		if col != 8 {
			return fmt.Errorf("%w: rank %d does not have 8 columns", ErrInvalidFEN, 8-row)
		}
	}

	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return fmt.Errorf("%w: side to move must be 'w' or 'b'", ErrInvalidFEN)
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			var c Color
			var corner int
			switch ch {
			case 'K':
				c, corner = White, 7
			case 'Q':
				c, corner = White, 0
			case 'k':
				c, corner = Black, 7
			case 'q':
				c, corner = Black, 0
			default:
				return fmt.Errorf("%w: invalid castling rights character %q", ErrInvalidFEN, ch)
			}
			row := backRankRow(c)
			for col := 0; col < 8; col++ {
				o := &board[SquareAt(row, col)]
				if !o.Empty() && o.Color == c && o.Piece.Royal {
					o.HasMoved = false
				}
			}
			partner := &board[SquareAt(row, corner)]
			if partner.Empty() || partner.Color != c {
				return fmt.Errorf("%w: castling right %q without a corner piece", ErrInvalidFEN, ch)
			}
			partner.HasMoved = false
		}
	}
	// a castling piece without any right has moved
	for sq := range board {
		o := &board[sq]
		if !o.Empty() && o.Piece.HasFlag(FlagCastling) && !hasRight(fields[2], o.Color) {
			o.HasMoved = true
		}
	}

	lastMove := LastMove{From: NoSquare, To: NoSquare}
	if fields[3] != "-" {
		f := fields[3]
		if len(f) != 2 || f[0] < 'a' || f[0] > 'h' || f[1] < '1' || f[1] > '8' {
			return fmt.Errorf("%w: invalid en passant square %q", ErrInvalidFEN, f)
		}
		target := SquareAt(8-int(f[1]-'0'), int(f[0]-'a'))
		mover := turn.Other()
		from := SquareAt(target.Row()-forward(mover), target.Col())
		to := SquareAt(target.Row()+forward(mover), target.Col())
		o := board[to]
		if from == NoSquare || to == NoSquare || o.Empty() || o.Color != mover || !o.Piece.HasFlag(FlagEnPassant) {
			return fmt.Errorf("%w: no double step behind en passant square %q", ErrInvalidFEN, f)
		}
		lastMove = LastMove{From: from, To: to, Piece: o.Piece, Color: mover}
	}

	e.board = board
	e.turn = turn
	e.lastMove = lastMove
	e.pending = nil
	e.gameOver = false
	e.result = Ongoing
	e.RefreshStatus()
	return nil
}

func hasRight(rights string, c Color) bool {
	if c == White {
		return strings.ContainsAny(rights, "KQ")
	}
	return strings.ContainsAny(rights, "kq")
}
