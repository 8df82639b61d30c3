package variantmg

import (
	"fmt"
	"strings"

	mg "chess-variant/movegrammar"
)

type Color uint8

const (
	White Color = 0
	Black Color = 1
)

func (c Color) Other() Color { return c ^ 1 }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Square is a board index, row*8 + col. Row 0 is black's back rank.
type Square int8

const NoSquare Square = -1

// SquareAt returns NoSquare for coordinates off the board.
func SquareAt(row, col int) Square {
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return NoSquare
	}
	return Square(row*8 + col)
}

func (s Square) Row() int { return int(s) / 8 }
func (s Square) Col() int { return int(s) % 8 }

func (s Square) Valid() bool { return s >= 0 && s < 64 }

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return fmt.Sprintf("%c%d", 'a'+s.Col(), 8-s.Row())
}

// forward returns the row delta of one step "forward" for c.
func forward(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// offset applies v to s from c's point of view.
func offset(s Square, v mg.Vector, n int, c Color) Square {
	return SquareAt(s.Row()+forward(c)*v.DY*n, s.Col()+v.DX*n)
}

// RelativeRank counts from c's back rank (0) to the opposing back rank (7).
func RelativeRank(s Square, c Color) int {
	if c == White {
		return 7 - s.Row()
	}
	return s.Row()
}

func backRankRow(c Color) int {
	if c == White {
		return 7
	}
	return 0
}

func pawnRow(c Color) int {
	if c == White {
		return 6
	}
	return 1
}

// Occupant is a piece standing on a square. The zero value is an empty square.
type Occupant struct {
	Piece    *Piece
	Color    Color
	HasMoved bool
}

func (o Occupant) Empty() bool { return o.Piece == nil }

// LastMove is what en passant eligibility looks at.
type LastMove struct {
	From  Square
	To    Square
	Piece *Piece
	Color Color
}

func (l LastMove) valid() bool { return l.Piece != nil }

// PendingPromotion freezes the turn until ResolvePromotion is called.
type PendingPromotion struct {
	Square  Square
	Color   Color
	Choices []*Piece
}

type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "white wins"
	case BlackWins:
		return "black wins"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// RuleSource regenerates upgrade rules when a piece carries none pre-computed.
type RuleSource interface {
	UpgradeRules(p *Piece, seed int64) []mg.MoveRule
}

type Option func(e *Engine)

func WithRuleSource(rs RuleSource) Option {
	return func(e *Engine) { e.rules = rs }
}

func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// Engine owns the grid and turn state of one game. It is not safe for
// concurrent use; searches work on a Clone.
type Engine struct {
	board    [64]Occupant
	turn     Color
	gameOver bool
	result   Result
	lastMove LastMove
	pending  *PendingPromotion

	seed  int64
	rules RuleSource
}

func New(options ...Option) *Engine {
	e := &Engine{}
	for _, option := range options {
		option(e)
	}
	e.lastMove.From, e.lastMove.To = NoSquare, NoSquare
	return e
}

// Placement is the starting arrangement handed over by the generator.
type Placement struct {
	White [8]*Piece // white back rank, col 0..7
	Black [8]*Piece // black back rank, col 0..7
	Pawn  *Piece    // fills row 6 for white and row 1 for black; nil leaves them empty
	Seed  int64
}

func (pl Placement) validate() error {
	for _, side := range []struct {
		c    Color
		rank [8]*Piece
	}{{White, pl.White}, {Black, pl.Black}} {
		royals := 0
		for col, p := range side.rank {
			if p == nil {
				return fmt.Errorf("%w: %s back rank col %d is empty", ErrInvalidPlacement, side.c, col)
			}
			if err := mg.ValidateAll(p.Rules); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidPlacement, p.Name, err)
			}
			if p.Royal {
				royals++
			}
		}
		if royals != 1 {
			return fmt.Errorf("%w: %s has %d royal pieces", ErrInvalidPlacement, side.c, royals)
		}
	}
	if pl.Pawn != nil {
		if pl.Pawn.Royal {
			return fmt.Errorf("%w: pawn rank piece is royal", ErrInvalidPlacement)
		}
		if err := mg.ValidateAll(pl.Pawn.Rules); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPlacement, pl.Pawn.Name, err)
		}
	}
	return nil
}

// Initialize resets the game and sets up the placement. Invalid placements
// leave the engine untouched.
func (e *Engine) Initialize(pl Placement) error {
	if err := pl.validate(); err != nil {
		return err
	}
	e.ClearBoard()
	e.seed = pl.Seed
	for col := 0; col < 8; col++ {
		e.board[SquareAt(backRankRow(White), col)] = Occupant{Piece: pl.White[col], Color: White}
		e.board[SquareAt(backRankRow(Black), col)] = Occupant{Piece: pl.Black[col], Color: Black}
		if pl.Pawn != nil {
			e.board[SquareAt(pawnRow(White), col)] = Occupant{Piece: pl.Pawn, Color: White}
			e.board[SquareAt(pawnRow(Black), col)] = Occupant{Piece: pl.Pawn, Color: Black}
		}
	}
	return nil
}

// ClearBoard empties the grid and resets turn and game state.
func (e *Engine) ClearBoard() {
	e.board = [64]Occupant{}
	e.turn = White
	e.gameOver = false
	e.result = Ongoing
	e.lastMove = LastMove{From: NoSquare, To: NoSquare}
	e.pending = nil
}

// Place puts a piece on sq, replacing whatever stood there. Meant for setting
// up positions; call RefreshStatus afterwards.
func (e *Engine) Place(sq Square, p *Piece, c Color, hasMoved bool) {
	if !sq.Valid() {
		return
	}
	e.board[sq] = Occupant{Piece: p, Color: c, HasMoved: hasMoved && p != nil}
}

func (e *Engine) SetTurn(c Color) { e.turn = c }

func (e *Engine) At(sq Square) Occupant {
	if !sq.Valid() {
		return Occupant{}
	}
	return e.board[sq]
}

// Board returns a copy of the grid.
func (e *Engine) Board() [64]Occupant { return e.board }

func (e *Engine) Turn() Color    { return e.turn }
func (e *Engine) GameOver() bool { return e.gameOver }
func (e *Engine) Result() Result { return e.result }
func (e *Engine) Seed() int64    { return e.seed }

// Winner reports the winning color, ok is false while ongoing or drawn.
func (e *Engine) Winner() (Color, bool) {
	switch e.result {
	case WhiteWins:
		return White, true
	case BlackWins:
		return Black, true
	}
	return White, false
}

func (e *Engine) LastMove() (LastMove, bool) { return e.lastMove, e.lastMove.valid() }

func (e *Engine) PendingPromotion() (PendingPromotion, bool) {
	if e.pending == nil {
		return PendingPromotion{}, false
	}
	return *e.pending, true
}

// Clone deep-copies the grid and scalar state. Piece templates are shared.
func (e *Engine) Clone() *Engine {
	c := *e
	if e.pending != nil {
		p := *e.pending
		c.pending = &p
	}
	return &c
}

// RoyalSquare returns the square of c's royal piece.
func (e *Engine) RoyalSquare(c Color) (Square, bool) {
	for sq := Square(0); sq < 64; sq++ {
		o := e.board[sq]
		if !o.Empty() && o.Color == c && o.Piece.Royal {
			return sq, true
		}
	}
	return NoSquare, false
}

// String draws the board with white pieces upper case.
func (e *Engine) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		fmt.Fprintf(&sb, "%d ", 8-row)
		for col := 0; col < 8; col++ {
			o := e.board[SquareAt(row, col)]
			ch := '.'
			if !o.Empty() {
				ch = pieceRune(o.Piece, o.Color)
			}
			sb.WriteRune(ch)
			if col < 7 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}

func pieceRune(p *Piece, c Color) rune {
	r := p.Symbol
	if r == 0 {
		r = '?'
	}
	if c == White {
		return toUpper(r)
	}
	return toLower(r)
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}
