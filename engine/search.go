package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"chess-variant/variantmg"
)

// SearchResult is the outcome of one top-level search. Score is from the
// point of view of the side to move at the root.
type SearchResult struct {
	Move    variantmg.Move
	Score   int32
	Depth   int // last fully completed depth
	Nodes   uint64
	TTHits  uint64
	Elapsed time.Duration
	Found   bool
}

// Searcher is an iterative deepening negamax searcher. One Searcher runs one
// search at a time; it searches a private clone of the engine it is given.
type Searcher struct {
	difficulty Difficulty
	maxDepth   int
	budget     time.Duration
	ceiling    time.Duration
	adaptive   bool
	evaluate   EvaluationFn
	yieldEvery int
	yield      func()
	ttSize     int

	eval  *Evaluator
	tt    TransTable
	timer TimeHandler
	ctx   context.Context

	nodes  uint64
	ttHits uint64
	stop   bool

	moveBuf  [][]variantmg.Move
	orderBuf [][]move
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{eval: NewEvaluator()}
	for _, option := range append(defaultOptions(), options...) {
		option(s)
	}
	if s.evaluate == nil {
		s.evaluate = s.eval.Evaluate
	}
	s.tt.init(s.ttSize)
	return s
}

func (s *Searcher) Difficulty() Difficulty { return s.difficulty }

// ChooseMove searches e with a new Searcher. ok is false only when the side to
// move has nothing to play or the search was cancelled before any move was
// searched.
func ChooseMove(ctx context.Context, e *variantmg.Engine, options ...Option) (variantmg.Move, bool) {
	return NewSearcher(options...).ChooseMove(ctx, e)
}

func (s *Searcher) ChooseMove(ctx context.Context, e *variantmg.Engine) (variantmg.Move, bool) {
	r := s.Search(ctx, e)
	return r.Move, r.Found
}

// Search runs iterative deepening up to the configured depth. When the budget
// runs out or ctx is cancelled mid-depth, the move of the last completed depth
// is returned. The caller's engine is never modified.
func (s *Searcher) Search(ctx context.Context, e *variantmg.Engine) SearchResult {
	var result SearchResult
	if e.GameOver() {
		return result
	}
	if _, pending := e.PendingPromotion(); pending {
		return result
	}

	work := e.Clone()
	rootMoves := work.GenerateMoves()
	switch len(rootMoves) {
	case 0:
		return result
	case 1:
		log.Debug().Str("move", work.Notation(rootMoves[0])).Msg("single legal move")
		result.Move, result.Found = rootMoves[0], true
		return result
	}

	s.ctx = ctx
	s.nodes, s.ttHits, s.stop = 0, 0, false
	s.tt.clear()

	budget := s.budget
	if s.adaptive && s.ceiling > s.budget {
		deficit := -s.evaluate(work)
		budget = AdaptiveBudget(s.budget, s.ceiling, deficit)
		if budget > s.budget {
			log.Debug().Int32("deficit", deficit).Dur("budget", budget).Msg("extending search budget")
		}
	}
	s.timer.StartTime(budget)

	root := s.scoreMovesList(work, rootMoves, variantmg.NullMove, s.ordering(0))
	fallback := root[0].move
	best := variantmg.NullMove

	for depth := 1; depth <= s.maxDepth; depth++ {
		root = s.scoreMovesList(work, rootMoves, best, root)
		s.orderBuf[0] = root

		score, move, completed := s.rootsearch(work, root, depth)
		if !completed {
			// a partial first iteration still beats an unsearched move
			if !result.Found && !move.IsNull() {
				result.Move, result.Score, result.Found = move, score, true
			}
			log.Debug().Int("depth", depth).Uint64("nodes", s.nodes).Dur("elapsed", s.timer.Elapsed()).Msg("search depth abandoned")
			break
		}

		best = move
		result.Move, result.Score, result.Depth, result.Found = move, score, depth, true
		log.Debug().
			Int("depth", depth).
			Int32("score", score).
			Uint64("nodes", s.nodes).
			Uint64("tthits", s.ttHits).
			Dur("elapsed", s.timer.Elapsed()).
			Str("move", work.Notation(move)).
			Msg("search depth completed")

		if score > Checkmate || score < -Checkmate || s.shouldStop() {
			break
		}
	}

	if !result.Found && ctx.Err() == nil {
		result.Move, result.Found = fallback, true
	}
	result.Nodes = s.nodes
	result.TTHits = s.ttHits
	result.Elapsed = s.timer.Elapsed()
	return result
}

// rootsearch searches every root move with a full window. It yields every
// yieldEvery moves and reports completed=false when it had to stop, along with
// the best fully searched move so far.
func (s *Searcher) rootsearch(e *variantmg.Engine, root []move, depth int) (int32, variantmg.Move, bool) {
	alpha, beta := -infinity, infinity
	bestScore := -infinity
	bestMove := variantmg.NullMove

	for i, rm := range root {
		if i > 0 && i%s.yieldEvery == 0 {
			s.yield()
			if s.shouldStop() {
				s.stop = true
			}
		}
		if s.stop {
			return bestScore, bestMove, false
		}

		st := e.MakeMove(rm.move)
		score := -s.alphabeta(e, depth-1, 1, -beta, -alpha)
		e.UnmakeMove(&st)
		if s.stop {
			return bestScore, bestMove, false
		}

		if score > bestScore {
			bestScore, bestMove = score, rm.move
		}
		if score > alpha {
			alpha = score
		}
	}
	s.tt.storeEntry(e.Signature(), int8(depth), 0, bestMove, bestScore, ExactFlag)
	return bestScore, bestMove, true
}

// alphabeta is fail-soft negamax. Scores are from the side to move's view.
func (s *Searcher) alphabeta(e *variantmg.Engine, depth int, ply int, alpha int32, beta int32) int32 {
	s.nodes++
	if s.nodes&1023 == 0 && s.shouldStop() {
		s.stop = true
	}
	if s.stop {
		return 0
	}

	if depth <= 0 {
		if !e.HasLegalMoves(e.Turn()) {
			return s.terminal(e, ply)
		}
		return s.evaluate(e)
	}

	hash := e.Signature()
	if entry, ok := s.tt.getEntry(hash, int8(depth)); ok {
		if usable, score := s.tt.useEntry(entry, alpha, beta, ply); usable {
			s.ttHits++
			return score
		}
	}

	moves := e.GenerateMovesInto(s.moves(ply))
	s.moveBuf[ply] = moves
	if len(moves) == 0 {
		return s.terminal(e, ply)
	}
	ordered := s.scoreMovesList(e, moves, s.tt.bestMove(hash, int8(depth)), s.ordering(ply))
	s.orderBuf[ply] = ordered

	var flag int8 = AlphaFlag
	bestScore := -infinity
	bestMove := variantmg.NullMove
	for _, om := range ordered {
		st := e.MakeMove(om.move)
		score := -s.alphabeta(e, depth-1, ply+1, -beta, -alpha)
		e.UnmakeMove(&st)
		if s.stop {
			return 0
		}

		if score > bestScore {
			bestScore, bestMove = score, om.move
		}
		if score > alpha {
			alpha = score
			flag = ExactFlag
		}
		if alpha >= beta {
			flag = BetaFlag
			break
		}
	}

	s.tt.storeEntry(hash, int8(depth), ply, bestMove, bestScore, flag)
	return bestScore
}

// terminal scores a position without legal moves: mated, shorter mates
// scoring worse, or stalemate.
func (s *Searcher) terminal(e *variantmg.Engine, ply int) int32 {
	if e.IsInCheck(e.Turn()) {
		return -(MaxScore - int32(ply))
	}
	return DrawScore
}

func (s *Searcher) shouldStop() bool {
	return (s.ctx != nil && s.ctx.Err() != nil) || s.timer.TimeStatus()
}

func (s *Searcher) moves(ply int) []variantmg.Move {
	for len(s.moveBuf) <= ply {
		s.moveBuf = append(s.moveBuf, make([]variantmg.Move, 0, 64))
	}
	return s.moveBuf[ply][:0]
}

func (s *Searcher) ordering(ply int) []move {
	for len(s.orderBuf) <= ply {
		s.orderBuf = append(s.orderBuf, make([]move, 0, 64))
	}
	return s.orderBuf[ply][:0]
}
