package variantmg

// Perft counts leaf nodes of the legal move tree, promotion choices included.
func Perft(e *Engine, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := e.GenerateMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		st := e.MakeMove(m)
		nodes += Perft(e, depth-1)
		e.UnmakeMove(&st)
	}
	return nodes
}

// PerftDivide reports the perft count below each root move, keyed by notation.
func PerftDivide(e *Engine, depth int) map[string]uint64 {
	out := make(map[string]uint64)
	if depth <= 0 {
		return out
	}
	for _, m := range e.GenerateMoves() {
		name := e.Notation(m)
		st := e.MakeMove(m)
		out[name] = Perft(e, depth-1)
		e.UnmakeMove(&st)
	}
	return out
}
