package engine

import (
	"math"
	"time"
)

// Adaptive budget knobs: the ramp is centered DeficitMidpoint below equality
// and DeficitSpread wide.
var (
	DeficitMidpoint = 300.0
	DeficitSpread   = 100.0
)

type TimeHandler struct {
	start       time.Time
	timeForMove time.Time
	budget      time.Duration
}

func (th *TimeHandler) StartTime(budget time.Duration) {
	th.start = time.Now()
	th.budget = budget
	th.timeForMove = th.start.Add(budget)
}

// TimeStatus is true once the budget is spent.
func (th *TimeHandler) TimeStatus() bool {
	return th.timeForMove.Before(time.Now())
}

func (th *TimeHandler) Elapsed() time.Duration { return time.Since(th.start) }

func (th *TimeHandler) Budget() time.Duration { return th.budget }

// AdaptiveBudget scales base up toward ceiling as the searching side falls
// behind. deficit is how far behind it is in evaluation units; the ramp is a
// sigmoid so small deficits change almost nothing.
func AdaptiveBudget(base, ceiling time.Duration, deficit int32) time.Duration {
	if ceiling <= base {
		return base
	}
	x := (float64(deficit) - DeficitMidpoint) / DeficitSpread
	ramp := 1 / (1 + math.Exp(-x))
	return base + time.Duration(float64(ceiling-base)*ramp)
}
