package generator

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	mg "chess-variant/movegrammar"
	"chess-variant/variantmg"
)

// PieceSet is one generated army, shared by both sides.
type PieceSet struct {
	Royal      *variantmg.Piece
	Archetypes []*variantmg.Piece // Archetypes[0] is the strongest
	Pawn       *variantmg.Piece
}

type atom struct {
	step     mg.Vector
	teleport bool
}

// Movement atoms: wazir, ferz, knight, dabbaba, alfil, camel, zebra.
var atoms = []atom{
	{mg.Vector{DX: 1, DY: 0}, false},
	{mg.Vector{DX: 1, DY: 1}, false},
	{mg.Vector{DX: 1, DY: 2}, true},
	{mg.Vector{DX: 2, DY: 0}, true},
	{mg.Vector{DX: 2, DY: 2}, true},
	{mg.Vector{DX: 1, DY: 3}, true},
	{mg.Vector{DX: 2, DY: 3}, true},
}

var symbolPool = []rune("ACDEFGHIJLMOSTUVWXYZ")

const archetypeCount = 4

// GeneratePieceSet builds a royal, four non-royal archetypes and a pawn from
// seed. The same seed always yields the same movement data.
func GeneratePieceSet(seed int64) (PieceSet, error) {
	r := rand.New(rand.NewSource(uint64(seed)))

	symbols := append([]rune(nil), symbolPool...)
	r.Shuffle(len(symbols), func(i, j int) { symbols[i], symbols[j] = symbols[j], symbols[i] })

	archetypes := make([]*variantmg.Piece, 0, archetypeCount)
	for i := 0; i < archetypeCount; i++ {
		def := randomArchetype(r)
		def.Name = fmt.Sprintf("Archetype-%c", symbols[i])
		def.Symbol = symbols[i]
		p, err := variantmg.NewPiece(def)
		if err != nil {
			return PieceSet{}, fmt.Errorf("generating archetype %d: %w", i, err)
		}
		archetypes = append(archetypes, p)
	}
	// strongest first
	best := 0
	for i, p := range archetypes {
		if Strength(p) > Strength(archetypes[best]) {
			best = i
		}
	}
	archetypes[0], archetypes[best] = archetypes[best], archetypes[0]

	royal, err := variantmg.NewPiece(variantmg.Piece{Name: "King", Symbol: 'K', Rules: kingRules(), Royal: true, Flags: variantmg.FlagCastling})
	if err != nil {
		return PieceSet{}, err
	}
	pawn, err := variantmg.NewPiece(variantmg.Piece{
		Name:             "Pawn",
		Symbol:           'P',
		Rules:            pawnRules(),
		Flags:            variantmg.FlagEnPassant,
		PromotionStyle:   variantmg.PromoteChoice,
		PromotionRank:    7,
		PromotionChoices: archetypes,
	})
	if err != nil {
		return PieceSet{}, err
	}

	set := PieceSet{Royal: royal, Archetypes: archetypes, Pawn: pawn}
	for _, p := range archetypes {
		log.Debug().Int64("seed", seed).Str("piece", p.Name).Int("rules", len(p.Rules)).
			Int("strength", Strength(p)).Uint8("promotion", uint8(p.PromotionStyle)).Msg("generated archetype")
	}
	return set, nil
}

func randomArchetype(r *rand.Rand) variantmg.Piece {
	var def variantmg.Piece
	n := 1 + r.Intn(2)
	directional := false
	for i := 0; i < n; i++ {
		a := atoms[r.Intn(len(atoms))]
		rule := mg.MoveRule{Step: a.step, Distance: 1}
		if a.teleport {
			rule.Jump = mg.Teleport
		} else if r.Float64() < 0.5 {
			rule.Distance = mg.Unlimited
		} else {
			rule.Distance = 1 + r.Intn(3)
		}

		switch {
		case r.Float64() < 0.2:
			// forward-only; the step must point forward to be usable
			if rule.Step.DY == 0 {
				rule.Step = mg.Vector{DX: 0, DY: rule.Step.DX}
			}
			rule.Symmetry = mg.SymmetryMirror
			directional = true
		case rule.Step.DX == rule.Step.DY || rule.Step.DY == 0:
			rule.Symmetry = mg.SymmetryFourWay
		default:
			rule.Symmetry = mg.SymmetryEightWay
		}

		// an extra rule is sometimes movement only
		if i > 0 && r.Float64() < 0.3 {
			rule.Capture = mg.CaptureProhibited
		}
		def.Rules = append(def.Rules, rule)
	}

	if directional {
		def.PromotionStyle = variantmg.PromoteUpgrade
		def.PromotionRank = farthestRank(def.Rules)
		// some pieces leave the upgrade to live regeneration
		if r.Float64() >= 0.25 {
			def.UpgradeRules = widen(def.Rules)
		}
	}
	return def
}

// farthestRank is the highest relative rank the rules reach from the own back
// rank on an empty board. Forward-only leapers often stop short of rank 7.
func farthestRank(rules []mg.MoveRule) int {
	var seen [8][8]bool
	queue := make([][2]int, 0, 64)
	for col := 0; col < 8; col++ {
		seen[0][col] = true
		queue = append(queue, [2]int{0, col})
	}
	best := 0
	for len(queue) > 0 {
		rank, col := queue[0][0], queue[0][1]
		queue = queue[1:]
		best = max(best, rank)
		for _, rule := range rules {
			if rule.Capture == mg.CaptureRequired {
				continue
			}
			low := 1
			if rule.Jump == mg.Teleport {
				low = rule.Reach()
			}
			for _, v := range mg.Expand(rule) {
				for n := low; n <= rule.Reach(); n++ {
					r, c := rank+v.DY*n, col+v.DX*n
					if r < 0 || r > 7 || c < 0 || c > 7 {
						break
					}
					if !seen[r][c] {
						seen[r][c] = true
						queue = append(queue, [2]int{r, c})
					}
				}
			}
		}
	}
	return best
}

// widen returns the backward-capable copies of every forward-only rule.
func widen(rules []mg.MoveRule) []mg.MoveRule {
	var out []mg.MoveRule
	for _, rule := range rules {
		if rule.Symmetry != mg.SymmetryNone && rule.Symmetry != mg.SymmetryMirror {
			continue
		}
		w := rule
		w.Symmetry = mg.SymmetryFourWay
		if w.Step.DX != 0 && w.Step.DY != 0 && w.Step.DX != w.Step.DY {
			w.Symmetry = mg.SymmetryEightWay
		}
		out = append(out, w)
	}
	return out
}

// Strength is the generator's own ranking: directions times reach, with
// capture-capable rules counting double.
func Strength(p *variantmg.Piece) int {
	total := 0
	for i, rule := range p.Rules {
		v := len(p.RuleVectors(i)) * rule.Reach()
		if rule.Capture != mg.CaptureProhibited {
			v *= 2
		}
		total += v
	}
	return total
}

// GeneratePlacement arranges set symmetrically: paired archetypes on columns
// 0/7, 1/6 and 2/5, the royal and the strongest archetype in the middle. Each
// side independently places its royal on column 3 or 4.
func GeneratePlacement(set PieceSet, seed int64) (variantmg.Placement, error) {
	if set.Royal == nil || set.Pawn == nil || len(set.Archetypes) != archetypeCount {
		return variantmg.Placement{}, fmt.Errorf("%w: incomplete piece set", variantmg.ErrInvalidPlacement)
	}
	r := rand.New(rand.NewSource(uint64(seed) ^ 0x5eed))
	pairs := append([]*variantmg.Piece(nil), set.Archetypes[1:]...)
	r.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	side := func() [8]*variantmg.Piece {
		var rank [8]*variantmg.Piece
		for i, p := range pairs {
			rank[i], rank[7-i] = p, p
		}
		kingCol := 4
		if r.Intn(2) == 1 {
			kingCol = 3
		}
		rank[kingCol] = set.Royal
		rank[7-kingCol] = set.Archetypes[0]
		return rank
	}
	pl := variantmg.Placement{White: side(), Black: side(), Pawn: set.Pawn, Seed: seed}
	return pl, nil
}

// Upgrader regenerates upgrade rules for pieces generated without them.
type Upgrader struct{}

func (Upgrader) UpgradeRules(p *variantmg.Piece, seed int64) []mg.MoveRule {
	r := rand.New(rand.NewSource(uint64(seed)))
	out := widen(p.Rules)
	if len(out) == 0 || r.Float64() < 0.5 {
		a := atoms[r.Intn(2)] // wazir or ferz
		out = append(out, mg.MoveRule{Step: a.step, Symmetry: mg.SymmetryFourWay, Distance: 1})
	}
	return out
}

// NewGame generates a piece set and placement from seed and sets up an engine.
func NewGame(seed int64) (*variantmg.Engine, PieceSet, error) {
	set, err := GeneratePieceSet(seed)
	if err != nil {
		return nil, PieceSet{}, err
	}
	pl, err := GeneratePlacement(set, seed)
	if err != nil {
		return nil, PieceSet{}, err
	}
	e := variantmg.New(variantmg.WithRuleSource(Upgrader{}), variantmg.WithSeed(seed))
	if err := e.Initialize(pl); err != nil {
		return nil, PieceSet{}, err
	}
	return e, set, nil
}
