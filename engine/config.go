package engine

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

type Difficulty uint8

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

type difficultySettings struct {
	maxDepth int
	budget   time.Duration
	ceiling  time.Duration
}

var difficulties = [...]difficultySettings{
	Easy:   {maxDepth: 2, budget: 300 * time.Millisecond, ceiling: 600 * time.Millisecond},
	Medium: {maxDepth: 3, budget: 800 * time.Millisecond, ceiling: 2000 * time.Millisecond},
	Hard:   {maxDepth: 4, budget: 2000 * time.Millisecond, ceiling: 5000 * time.Millisecond},
	Expert: {maxDepth: 6, budget: 4000 * time.Millisecond, ceiling: 10000 * time.Millisecond},
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	case Expert:
		return "expert"
	}
	return fmt.Sprintf("Difficulty(%d)", uint8(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	for d := Easy; d <= Expert; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

const defaultYieldEvery = 4

type Option func(s *Searcher)

// WithDifficulty sets depth, budget and ceiling from the difficulty table.
// Later options override individual values.
func WithDifficulty(d Difficulty) Option {
	return func(s *Searcher) {
		if int(d) >= len(difficulties) {
			return
		}
		cfg := difficulties[d]
		s.difficulty = d
		s.maxDepth = cfg.maxDepth
		s.budget = cfg.budget
		s.ceiling = cfg.ceiling
	}
}

func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

func WithTimeBudget(budget time.Duration) Option {
	return func(s *Searcher) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithCeiling caps how far the adaptive budget may grow.
func WithCeiling(ceiling time.Duration) Option {
	return func(s *Searcher) {
		if ceiling > 0 {
			s.ceiling = ceiling
		}
	}
}

func WithAdaptiveBudget(enabled bool) Option {
	return func(s *Searcher) {
		s.adaptive = enabled
	}
}

// WithEvaluationFn replaces the static evaluation used at the leaves and for
// the adaptive budget.
func WithEvaluationFn(fn EvaluationFn) Option {
	return func(s *Searcher) {
		if fn != nil {
			s.evaluate = fn
		}
	}
}

// WithYieldEvery sets how many root moves are searched between yield points.
func WithYieldEvery(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.yieldEvery = n
		}
	}
}

// WithYield replaces runtime.Gosched as the yield hook.
func WithYield(yield func()) Option {
	return func(s *Searcher) {
		if yield != nil {
			s.yield = yield
		}
	}
}

// WithTTSize sets the transposition table size in MB.
func WithTTSize(mb int) Option {
	return func(s *Searcher) {
		if mb > 0 {
			s.ttSize = mb
		}
	}
}

func defaultOptions() []Option {
	return []Option{
		WithDifficulty(Medium),
		WithAdaptiveBudget(true),
		WithYieldEvery(defaultYieldEvery),
		WithYield(runtime.Gosched),
		WithTTSize(DefaultTTSize),
	}
}
