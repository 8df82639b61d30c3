package variantmg

import "golang.org/x/exp/rand"

// Zobrist keys for colored squares, moved flags, side to move and en passant.
var zobristSquare [2][64]uint64
var zobristMoved [64]uint64
var zobristEnPassant [64]uint64
var zobristSide uint64
var zobristPending uint64

func init() {
	initZobrist()
}

func initZobrist() {
	// Fixed seed keeps signatures reproducible between runs
	rnd := rand.New(rand.NewSource(0xC0DE))

	for c := 0; c < 2; c++ {
		for sq := 0; sq < 64; sq++ {
			zobristSquare[c][sq] = rnd.Uint64()
		}
	}
	for sq := 0; sq < 64; sq++ {
		zobristMoved[sq] = rnd.Uint64()
		zobristEnPassant[sq] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
	zobristPending = rnd.Uint64()
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Signature hashes everything that influences the moves available from this
// position: piece identity per square, moved flags, side to move, an en
// passant-eligible double step and a pending promotion.
func (e *Engine) Signature() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		o := e.board[sq]
		if o.Empty() {
			continue
		}
		key ^= splitmix64(o.Piece.key ^ zobristSquare[o.Color][sq])
		if o.HasMoved {
			key ^= zobristMoved[sq]
		}
	}
	if e.turn == Black {
		key ^= zobristSide
	}
	if lm := e.lastMove; lm.valid() && lm.Piece.HasFlag(FlagEnPassant) && abs(lm.From.Row()-lm.To.Row()) == 2 {
		key ^= zobristEnPassant[lm.To]
	}
	if e.pending != nil {
		key ^= zobristPending
	}
	return key
}
