package variantmg

import (
	"fmt"
	"sync"
	"sync/atomic"

	mg "chess-variant/movegrammar"
)

// SpecialFlag marks the special moves an occupant may make.
type SpecialFlag uint8

const (
	FlagEnPassant SpecialFlag = 1 << iota
	FlagCastling
)

// PromotionStyle selects what happens when a piece reaches its promotion rank.
type PromotionStyle uint8

const (
	PromoteNone    PromotionStyle = 0
	PromoteChoice  PromotionStyle = 1
	PromoteUpgrade PromotionStyle = 2
)

// NoPromotionRank disables promotion regardless of style.
const NoPromotionRank = -1

var pieceIDs atomic.Uint64

// Piece is a shared movement template. Pieces are never mutated once built by
// NewPiece; promotion and upgrades swap the occupant's reference instead.
type Piece struct {
	Name   string
	Symbol rune

	Rules []mg.MoveRule
	Royal bool
	Flags SpecialFlag

	PromotionChoices []*Piece
	PromotionRank    int // relative rank, 0 = own back rank
	PromotionStyle   PromotionStyle
	UpgradeRules     []mg.MoveRule

	id      uint64
	key     uint64
	vectors [][]mg.Vector
	upgrade *upgradeCache
}

type upgradeCache struct {
	once  sync.Once
	piece *Piece
	err   error
}

// NewPiece validates def and returns an immutable template with its rule
// expansions precomputed.
func NewPiece(def Piece) (*Piece, error) {
	if err := mg.ValidateAll(def.Rules); err != nil {
		return nil, fmt.Errorf("piece %q: %w", def.Name, err)
	}
	if err := mg.ValidateAll(def.UpgradeRules); err != nil {
		return nil, fmt.Errorf("piece %q upgrade: %w", def.Name, err)
	}
	if def.PromotionStyle > PromoteUpgrade {
		return nil, fmt.Errorf("piece %q: %w: promotion style %d", def.Name, ErrInvalidPiece, def.PromotionStyle)
	}
	if def.PromotionStyle != PromoteNone && (def.PromotionRank < 1 || def.PromotionRank > 7) {
		return nil, fmt.Errorf("piece %q: %w: promotion rank %d", def.Name, ErrInvalidPiece, def.PromotionRank)
	}
	if def.PromotionStyle == PromoteChoice {
		if len(def.PromotionChoices) == 0 {
			return nil, fmt.Errorf("piece %q: %w: choice promotion without choices", def.Name, ErrInvalidPiece)
		}
		for _, c := range def.PromotionChoices {
			if c == nil || c.Royal {
				return nil, fmt.Errorf("piece %q: %w: promotion choice must be a non-royal piece", def.Name, ErrInvalidPiece)
			}
		}
	}
	if def.PromotionStyle == PromoteNone {
		def.PromotionRank = NoPromotionRank
	}

	p := def
	p.Rules = append([]mg.MoveRule(nil), def.Rules...)
	p.UpgradeRules = append([]mg.MoveRule(nil), def.UpgradeRules...)
	p.PromotionChoices = append([]*Piece(nil), def.PromotionChoices...)
	p.id = pieceIDs.Add(1)
	p.key = splitmix64(p.id * 0x9e3779b97f4a7c15)
	p.vectors = make([][]mg.Vector, len(p.Rules))
	for i, r := range p.Rules {
		p.vectors[i] = mg.Expand(r)
	}
	p.upgrade = &upgradeCache{}
	return &p, nil
}

// MustPiece is NewPiece for static tables; it panics on invalid data.
func MustPiece(def Piece) *Piece {
	p, err := NewPiece(def)
	if err != nil {
		panic(err)
	}
	return p
}

// ID is unique per template within the process.
func (p *Piece) ID() uint64 { return p.id }

// RuleVectors returns the expanded vectors of rule i. Callers must not modify the slice.
func (p *Piece) RuleVectors(i int) []mg.Vector {
	if p.vectors != nil {
		return p.vectors[i]
	}
	return mg.Expand(p.Rules[i])
}

func (p *Piece) HasFlag(f SpecialFlag) bool { return p.Flags&f != 0 }

// Upgraded returns a new template carrying the extra rules. The result never
// promotes again.
func (p *Piece) Upgraded(extra []mg.MoveRule) (*Piece, error) {
	def := Piece{
		Name:           p.Name + "+",
		Symbol:         p.Symbol,
		Rules:          append(append([]mg.MoveRule(nil), p.Rules...), extra...),
		Royal:          p.Royal,
		Flags:          p.Flags,
		PromotionStyle: PromoteNone,
	}
	return NewPiece(def)
}

// upgradedTemplate memoizes the upgrade built from pre-computed UpgradeRules so
// repeated promotions share one template.
func (p *Piece) upgradedTemplate() (*Piece, error) {
	if p.upgrade == nil {
		return p.Upgraded(p.UpgradeRules)
	}
	p.upgrade.once.Do(func() {
		p.upgrade.piece, p.upgrade.err = p.Upgraded(p.UpgradeRules)
	})
	return p.upgrade.piece, p.upgrade.err
}

func (p *Piece) String() string {
	if p == nil {
		return "-"
	}
	return p.Name
}
