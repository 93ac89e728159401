// Package ai implements the per-archetype decision policies that drive
// computer-controlled combatants.
//
// Each tick the Controller observes both fighters into a Situation, runs the
// shared reactive-block layer, then the archetype's Policy. Policies are pure
// functions of the Situation and a dice.Roller, so every branch is testable
// without a running match.
package ai

import (
	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Override is a script's verdict on the special-ability gate.
type Override int

const (
	// OverrideNone leaves the built-in gate in charge.
	OverrideNone Override = iota
	// OverrideCast casts the special whenever it is ready.
	OverrideCast
	// OverrideHold never casts the special.
	OverrideHold
)

// Situation captures everything a policy may consider for one decision.
//
// Invariant: Direction and DirectDirection are +1 or -1.
type Situation struct {
	NowMs int64
	Kind  archetype.SpecialKind
	Speed float64
	// RangePx is the attack range in pixels.
	RangePx float64
	// Distance is the shortest distance between centers, wrapping across the seam.
	Distance float64
	// Direction is +1 when the opponent lies rightward along the shortest path.
	Direction int
	// DirectDistance ignores the seam.
	DirectDistance  float64
	DirectDirection int

	SpecialReady   bool
	AttackCooldown int
	CurseCaster    bool
	Exhausted      bool
	Stamina        int

	Warned    bool
	ReactAtMs int64

	OpponentRooted    bool
	OpponentAttacking bool

	Special Override
}

// Observe builds a Situation for self facing opponent.
//
// Precondition: self and opponent must not be nil.
func Observe(self, opponent *combat.Combatant) Situation {
	from, to := self.CenterX(), opponent.CenterX()
	d := self.Arena().Shortest(from, to)
	direct := to - from
	directDir := -1
	if direct > 0 {
		directDir = 1
	}
	warned, reactAt := self.AttackWarning()
	stats := self.Stats()
	return Situation{
		NowMs:             self.NowMs(),
		Kind:              stats.Special.Kind,
		Speed:             float64(stats.Speed),
		RangePx:           self.AttackRangePx(),
		Distance:          float64(d.Distance),
		Direction:         d.Direction,
		DirectDistance:    float64(abs(direct)),
		DirectDirection:   directDir,
		SpecialReady:      self.SpecialReady(),
		AttackCooldown:    self.AttackCooldown(),
		CurseCaster:       self.IsCurseCaster(),
		Exhausted:         self.BlockExhausted(),
		Stamina:           self.BlockStamina(),
		Warned:            warned,
		ReactAtMs:         reactAt,
		OpponentRooted:    opponent.Rooted(),
		OpponentAttacking: opponent.Attacking(),
	}
}

// OptimalRange is the distance the policy tries to hold: just beyond attack
// range for ranged casters and an active curse caster, just inside it otherwise.
func (s Situation) OptimalRange() float64 {
	switch {
	case s.Kind == archetype.SpecialGlobalAttack, s.Kind == archetype.SpecialHealthSteal:
		return s.RangePx * 1.2
	case s.Kind == archetype.SpecialCurse && s.CurseCaster:
		return s.RangePx * 1.2
	default:
		return s.RangePx * 0.9
	}
}

// CanAttack reports whether a basic attack is off recovery.
func (s Situation) CanAttack() bool { return s.AttackCooldown == 0 }

// WantsSpecial applies the script override to the built-in gate. The special
// is never requested while it is on cooldown.
func (s Situation) WantsSpecial(builtin bool) bool {
	if !s.SpecialReady {
		return false
	}
	switch s.Special {
	case OverrideCast:
		return true
	case OverrideHold:
		return false
	default:
		return builtin
	}
}

// ShouldReact reports whether a scheduled reaction window has opened and the
// guard can still absorb damage.
func (s Situation) ShouldReact() bool {
	return s.Warned && s.NowMs >= s.ReactAtMs && !s.Exhausted && s.Stamina > 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
