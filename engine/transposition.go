package engine

import (
	"unsafe"

	"chess-variant/variantmg"
)

const (
	// Flags
	AlphaFlag = iota
	BetaFlag
	ExactFlag

	// In MB
	DefaultTTSize = 8
	clusterSize   = 4
)

// TransTable memoizes scores by (board signature, remaining depth). Entries
// are only reused at the exact depth they were stored at, and the table is
// cleared before every top-level search.
type TransTable struct {
	entries      []TTEntry
	clusterCount uint64
}

type TTEntry struct {
	Hash  uint64
	Score int32
	Move  variantmg.Move
	Depth int8
	Flag  int8
	used  bool
}

func (TT *TransTable) init(sizeMB int) {
	if sizeMB <= 0 {
		sizeMB = DefaultTTSize
	}
	entrySize := uint64(unsafe.Sizeof(TTEntry{}))
	totalBytes := uint64(sizeMB) * 1024 * 1024
	clusterCount := totalBytes / (entrySize * clusterSize)
	if clusterCount == 0 {
		clusterCount = 1
	}
	TT.clusterCount = clusterCount
	TT.entries = make([]TTEntry, clusterCount*clusterSize)
}

func (TT *TransTable) clear() {
	clear(TT.entries)
}

func (TT *TransTable) cluster(hash uint64) int {
	return int(hash%TT.clusterCount) * clusterSize
}

func (TT *TransTable) getEntry(hash uint64, depth int8) (entry *TTEntry, found bool) {
	if TT.clusterCount == 0 {
		return nil, false
	}
	base := TT.cluster(hash)
	for i := 0; i < clusterSize; i++ {
		next := &TT.entries[base+i]
		if next.used && next.Hash == hash && next.Depth == depth {
			return next, true
		}
	}
	return nil, false
}

func (TT *TransTable) useEntry(entry *TTEntry, alpha, beta int32, ply int) (usable bool, score int32) {
	if entry == nil {
		return false, 0
	}
	norm := entry.Score
	if norm > Checkmate {
		norm -= int32(ply)
	} else if norm < -Checkmate {
		norm += int32(ply)
	}
	switch entry.Flag {
	case ExactFlag:
		return true, norm
	case AlphaFlag:
		if norm <= alpha {
			return true, alpha
		}
	case BetaFlag:
		if norm >= beta {
			return true, beta
		}
	}
	return false, 0
}

// bestMove returns the stored move at depth, or failing that one ply shallower
// from the previous iteration.
func (TT *TransTable) bestMove(hash uint64, depth int8) variantmg.Move {
	for _, d := range [2]int8{depth, depth - 1} {
		if entry, ok := TT.getEntry(hash, d); ok && !entry.Move.IsNull() {
			return entry.Move
		}
	}
	return variantmg.NullMove
}

// storeEntry prefers the slot of the same key, then an empty slot, then the
// shallowest entry in the cluster.
func (TT *TransTable) storeEntry(hash uint64, depth int8, ply int, move variantmg.Move, score int32, flag int8) {
	if TT.clusterCount == 0 {
		return
	}
	base := TT.cluster(hash)

	// mate scores are stored relative to this node
	if score > Checkmate {
		score += int32(ply)
	}
	if score < -Checkmate {
		score -= int32(ply)
	}

	target := -1
	for i := 0; i < clusterSize; i++ {
		e := &TT.entries[base+i]
		if e.used && e.Hash == hash && e.Depth == depth {
			target = base + i
			break
		}
	}
	if target == -1 {
		for i := 0; i < clusterSize; i++ {
			if !TT.entries[base+i].used {
				target = base + i
				break
			}
		}
	}
	if target == -1 {
		target = base
		for i := 1; i < clusterSize; i++ {
			if TT.entries[base+i].Depth < TT.entries[target].Depth {
				target = base + i
			}
		}
	}

	TT.entries[target] = TTEntry{Hash: hash, Score: score, Move: move, Depth: depth, Flag: flag, used: true}
}
