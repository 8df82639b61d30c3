package movegrammar

// Expand returns the deduplicated step vectors implied by the rule's symmetry.
// The result depends only on Step and Symmetry.
func Expand(r MoveRule) []Vector {
	dx, dy := r.Step.DX, r.Step.DY
	out := make([]Vector, 0, 8)
	add := func(v Vector) {
		for _, seen := range out {
			if seen == v {
				return
			}
		}
		out = append(out, v)
	}

	add(Vector{dx, dy})
	switch r.Symmetry {
	case SymmetryMirror:
		add(Vector{-dx, dy})
	case SymmetryFourWay:
		add(Vector{-dx, dy})
		add(Vector{dx, -dy})
		add(Vector{-dx, -dy})
		// orthogonal steps also turn by 90 degrees
		if dx == 0 || dy == 0 {
			add(Vector{dy, dx})
			add(Vector{-dy, dx})
			add(Vector{dy, -dx})
			add(Vector{-dy, -dx})
		}
	case SymmetryEightWay:
		add(Vector{-dx, dy})
		add(Vector{dx, -dy})
		add(Vector{-dx, -dy})
		add(Vector{dy, dx})
		add(Vector{-dy, dx})
		add(Vector{dy, -dx})
		add(Vector{-dy, -dx})
	}
	return out
}
