package movegrammar

import (
	"errors"
	"fmt"
)

// Vector is a board step. DY > 0 points towards the opponent's back rank.
type Vector struct {
	DX int
	DY int
}

// Symmetry selects which reflections/rotations of a step are usable.
type Symmetry uint8

const (
	SymmetryNone     Symmetry = 0
	SymmetryMirror   Symmetry = 1 // horizontal mirror (x-flip)
	SymmetryFourWay  Symmetry = 2
	SymmetryEightWay Symmetry = 3
)

// Jump tells the walker whether intervening squares matter.
type Jump uint8

const (
	Slide    Jump = 0
	Teleport Jump = 1
)

// Capture constrains what a rule may land on.
type Capture uint8

const (
	CaptureAllowed    Capture = 0
	CaptureProhibited Capture = 1
	CaptureRequired   Capture = 2
)

// Unlimited marks a rule that slides until an edge or obstacle.
const Unlimited = -1

// MaxReach is the furthest a step can be repeated on an 8x8 board.
const MaxReach = 7

var ErrInvalidRule = errors.New("invalid move rule")

// MoveRule is one entry of a piece's movement grammar.
type MoveRule struct {
	Step            Vector
	Symmetry        Symmetry
	Distance        int
	Jump            Jump
	RequiresUnmoved bool
	Capture         Capture
}

// Reach returns how many times the step may be repeated.
// Teleport rules have a single nominal distance, unlimited counts as 1 for them.
func (r MoveRule) Reach() int {
	if r.Distance == Unlimited {
		if r.Jump == Teleport {
			return 1
		}
		return MaxReach
	}
	return r.Distance
}

func (r MoveRule) IsUnlimited() bool { return r.Distance == Unlimited }

// Validate rejects data that the walker must never see.
func (r MoveRule) Validate() error {
	if r.Step.DX == 0 && r.Step.DY == 0 {
		return fmt.Errorf("%w: zero step", ErrInvalidRule)
	}
	if abs(r.Step.DX) > MaxReach || abs(r.Step.DY) > MaxReach {
		return fmt.Errorf("%w: step (%d,%d) leaves the board", ErrInvalidRule, r.Step.DX, r.Step.DY)
	}
	if r.Distance != Unlimited && (r.Distance < 1 || r.Distance > MaxReach) {
		return fmt.Errorf("%w: distance %d", ErrInvalidRule, r.Distance)
	}
	if r.Symmetry > SymmetryEightWay {
		return fmt.Errorf("%w: symmetry %d", ErrInvalidRule, r.Symmetry)
	}
	if r.Jump > Teleport {
		return fmt.Errorf("%w: jump %d", ErrInvalidRule, r.Jump)
	}
	if r.Capture > CaptureRequired {
		return fmt.Errorf("%w: capture %d", ErrInvalidRule, r.Capture)
	}
	return nil
}

// ValidateAll validates every rule, reporting the index of the first bad one.
func ValidateAll(rules []MoveRule) error {
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return nil
}

func (s Symmetry) String() string {
	switch s {
	case SymmetryNone:
		return "none"
	case SymmetryMirror:
		return "mirror"
	case SymmetryFourWay:
		return "four-way"
	case SymmetryEightWay:
		return "eight-way"
	}
	return fmt.Sprintf("Symmetry(%d)", uint8(s))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
