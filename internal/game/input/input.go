// Package input turns held controls into combat intents for human-controlled sides.
// Device polling lives outside this package; providers hand over one Snapshot
// per side per tick.
package input

import "github.com/cory-johannsen/duel/internal/game/combat"

// Snapshot is the set of controls held during one tick.
type Snapshot struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool
	Block     bool
	Attack1   bool
	Attack2   bool
	Special   bool
}

// Provider supplies the held controls for a side.
type Provider interface {
	Snapshot(side combat.Side) Snapshot
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(side combat.Side) Snapshot

// Snapshot calls f.
func (f ProviderFunc) Snapshot(side combat.Side) Snapshot { return f(side) }

// Controller maps a Provider's snapshots onto combat intents. It implements combat.Controller.
type Controller struct {
	provider Provider
}

// NewController returns a Controller reading from p.
//
// Precondition: p must not be nil.
func NewController(p Provider) *Controller {
	return &Controller{provider: p}
}

// Intent maps held controls in priority order. A block held while the guard
// is intact suppresses everything else; otherwise the special suppresses
// movement and basic attacks. Right wins over left, and Attack1 over Attack2.
func (c *Controller) Intent(self, _ *combat.Combatant) combat.Intent {
	return Map(c.provider.Snapshot(self.Side()), float64(self.Stats().Speed), self.BlockExhausted(), self.Rooted())
}

// Map is the pure mapping behind Controller.Intent.
func Map(s Snapshot, speed float64, exhausted, rooted bool) combat.Intent {
	var in combat.Intent
	switch {
	case s.Block && !exhausted:
		in.Block = true
		return in
	case s.Special:
		in.Attack = combat.AttackSpecial
		return in
	}
	if !rooted {
		if s.MoveLeft {
			in.MoveX = -speed
		}
		if s.MoveRight {
			in.MoveX = speed
		}
	}
	in.Jump = s.Jump && !rooted
	switch {
	case s.Attack1:
		in.Attack = combat.AttackPrimary
	case s.Attack2:
		in.Attack = combat.AttackSecondary
	}
	return in
}
