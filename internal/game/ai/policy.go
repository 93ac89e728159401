package ai

import (
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Policy decides an archetype's intent for one tick. in carries what the
// reactive layer already chose; a policy never moves while in.Block is set.
type Policy func(s Situation, in combat.Intent, r *dice.Roller) combat.Intent

func approach(s Situation, factor float64) float64 {
	return s.Speed * float64(s.Direction) * factor
}

func retreat(s Situation, factor float64) float64 {
	return -approach(s, factor)
}

func basicAttack(r *dice.Roller, primaryChance float64) combat.AttackKind {
	return dice.Pick(r, primaryChance, combat.AttackPrimary, combat.AttackSecondary)
}

// standoff is the shape shared by the Knight, Mage and Ranger: open with the
// special from distance, trade basic attacks up close, otherwise hold range.
type standoff struct {
	specialBeyond  float64
	primaryChance  float64
	approachBeyond float64
	approachSpeed  float64
}

func (p standoff) decide(s Situation, in combat.Intent, r *dice.Roller) combat.Intent {
	opt := s.OptimalRange()
	switch {
	case s.WantsSpecial(s.Distance > s.RangePx*p.specialBeyond):
		in.Attack = combat.AttackSpecial
	case s.Distance < s.RangePx*1.1 && s.CanAttack():
		in.Attack = basicAttack(r, p.primaryChance)
	case in.Block:
	case s.Distance > opt*p.approachBeyond:
		in.MoveX = approach(s, p.approachSpeed)
	case s.Distance < opt*0.8:
		in.MoveX = retreat(s, 1)
	}
	return in
}

// Knight stuns from afar and closes to melee.
var Knight Policy = standoff{specialBeyond: 1.5, primaryChance: 0.7, approachBeyond: 1, approachSpeed: 1}.decide

// Mage fires its screen-wide attack from afar and drifts in slowly.
var Mage Policy = standoff{specialBeyond: 1.5, primaryChance: 0.6, approachBeyond: 1.2, approachSpeed: 0.8}.decide

// Ranger dashes across the screen when far away.
var Ranger Policy = standoff{specialBeyond: 2, primaryChance: 0.7, approachBeyond: 1, approachSpeed: 1}.decide

// Warlock kites at its optimal range and drains when the opponent sits on it.
func Warlock(s Situation, in combat.Intent, r *dice.Roller) combat.Intent {
	opt := s.OptimalRange()
	special := s.WantsSpecial(opt*0.9 < s.Distance && s.Distance < opt*1.1)
	if special {
		in.Attack = combat.AttackSpecial
	}
	switch {
	case s.Distance < s.RangePx*1.1 && s.CanAttack():
		if !special {
			in.Attack = basicAttack(r, 0.6)
		}
	case in.Block:
	case s.Distance > opt*1.1:
		in.MoveX = approach(s, 0.7)
	case s.Distance < opt*0.9:
		in.MoveX = retreat(s, 0.7)
	}
	return in
}

// Guardian keeps its distance until the pull lands, then punishes the rooted
// opponent. While the pull recharges it guards against anyone close.
func Guardian(s Situation, in combat.Intent, r *dice.Roller) combat.Intent {
	if !s.SpecialReady && s.DirectDistance < s.RangePx*1.5 {
		in.Block = true
	}
	switch {
	case s.OpponentRooted:
		if s.Distance < s.RangePx*1.1 {
			if s.CanAttack() {
				in.Attack = basicAttack(r, 0.8)
			}
		} else if !in.Block {
			in.MoveX = approach(s, 1)
		}
	case s.WantsSpecial(true):
		in.Attack = combat.AttackSpecial
	case in.Block:
	case s.Distance < s.RangePx*2:
		in.MoveX = retreat(s, 1)
	case s.Distance > s.RangePx*3:
		in.MoveX = approach(s, 0.5)
	}
	return in
}

// Sage turns aggressive while its own curse is active and plays defensively otherwise.
func Sage(s Situation, in combat.Intent, r *dice.Roller) combat.Intent {
	if s.CurseCaster {
		return sageAggressive(s, in, r)
	}
	if s.DirectDistance < s.RangePx*1.5 {
		if s.OpponentAttacking {
			in.Block = true
		} else if !in.Block {
			in.MoveX = -s.Speed * float64(s.DirectDirection)
		}
	}
	if !s.SpecialReady {
		if s.Distance < s.RangePx*1.1 && s.CanAttack() {
			in.Attack = basicAttack(r, 0.6)
		}
		return in
	}
	switch {
	case s.WantsSpecial(s.Distance > s.RangePx*2.5):
		in.Attack = combat.AttackSpecial
	case s.OpponentAttacking:
		in.Block = true
	case !in.Block:
		in.MoveX = retreat(s, 1)
	}
	return in
}

func sageAggressive(s Situation, in combat.Intent, r *dice.Roller) combat.Intent {
	opt := s.OptimalRange()
	switch {
	case s.Distance < s.RangePx*1.2 && s.CanAttack():
		if r.Chance(0.8) {
			in.Attack = basicAttack(r, 0.7)
		}
	case in.Block:
	case s.Distance > opt*1.1:
		in.MoveX = approach(s, 1.2)
	case s.Distance < opt*0.7:
		in.MoveX = retreat(s, 0.8)
	}
	return in
}
