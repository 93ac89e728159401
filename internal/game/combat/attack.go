package combat

import (
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/condition"
)

// InitiateAttack starts an attack of the given kind against target and reports
// whether it started. It is rejected while paused, hit, stunned, dead, or already
// attacking; a special is rejected while on cooldown and a basic attack while
// recovering. An AI target is warned and schedules its reaction window before
// the cooldown gates are checked.
//
// A special with zero cast time resolves immediately; a basic attack whose
// damage frame is 1 connects immediately.
func (c *Combatant) InitiateAttack(kind AttackKind, target *Combatant) bool {
	if kind == AttackNone || target == nil {
		return false
	}
	if c.paused() || c.hit || !c.alive || c.attacking ||
		c.conds.Restricts(condition.ActionAttack) {
		return false
	}
	now := c.NowMs()
	if target.ai {
		rt := target.stats.ReactionTimeMs
		target.attackDetected = true
		target.blockAttemptMs = now + int64(c.env.Roller.Between(rt[0], rt[1]))
	}

	switch kind {
	case AttackSpecial:
		if !c.SpecialReady() {
			return false
		}
		c.beginAttack(kind, target, now)
		// The cooldown restarts when the effect resolves; a cancelled cast leaves it ready.
		c.specialUsed = false
		c.emit(CueSpecialCast, target.side, 0)
		if c.stats.Special.CastTimeMs == 0 {
			c.ApplySpecialEffect()
		}
	case AttackPrimary, AttackSecondary:
		if c.attackCooldown != 0 {
			return false
		}
		c.beginAttack(kind, target, now)
		c.emit(CueAttackStarted, target.side, 0)
		if c.damageFrame(kind) == 1 {
			c.ApplyAttackDamage()
		}
	default:
		return false
	}
	return true
}

func (c *Combatant) beginAttack(kind AttackKind, target *Combatant, now int64) {
	c.attacking = true
	c.attackKind = kind
	c.attackStart = now
	c.damageApplied = false
	c.attackCancelled = false
	c.target = target
}

func (c *Combatant) damageFrame(kind AttackKind) int {
	switch kind {
	case AttackPrimary:
		return c.stats.DamageFrames.Primary
	case AttackSecondary:
		return c.stats.DamageFrames.Secondary
	default:
		return 0
	}
}

// rawDamage returns the damage for kind, doubled (or otherwise scaled) while
// this combatant's curse is active.
func (c *Combatant) rawDamage(kind AttackKind) int {
	var base int
	switch kind {
	case AttackPrimary:
		base = c.stats.Damage.Primary
	case AttackSecondary:
		base = c.stats.Damage.Secondary
	case AttackSpecial:
		base = c.stats.Damage.Special
	}
	if c.IsCurseCaster() {
		return ScaleDamage(base, c.stats.CurseMultiplier())
	}
	return base
}

// Hitbox returns the attack area: attack range times body width, extending
// from the body's center in the facing direction, full body height.
func (c *Combatant) Hitbox() arena.Rect {
	w := int(c.AttackRangePx())
	x := c.body.CenterX()
	if c.flip {
		x -= w
	}
	return arena.Rect{X: x, Y: c.body.Y, W: w, H: c.body.H}
}

// ApplyAttackDamage resolves the current basic attack against its target.
// It lands only if the hitbox overlaps the target's body and runs at most once
// per attack.
//
// Postcondition: the damage-applied guard is set.
func (c *Combatant) ApplyAttackDamage() {
	if c.damageApplied {
		return
	}
	c.damageApplied = true
	if c.attackCancelled || c.target == nil {
		return
	}
	if !c.Hitbox().Overlaps(c.target.body) {
		return
	}
	c.strike(c.target, c.rawDamage(c.attackKind))
}

// strike resolves raw damage against target through its block and clears its stun.
func (c *Combatant) strike(target *Combatant, raw int) HitResult {
	res := ResolveHit(raw, target.defense())
	target.receive(res)
	target.conds.Remove(condition.Stunned)
	c.emitHit(target, res)
	return res
}

func (c *Combatant) emitHit(target *Combatant, res HitResult) {
	switch {
	case res.BrokeBlock:
		c.emit(CueBlockBroken, target.side, res.HealthDamage)
	case res.Blocked:
		c.emit(CueBlocked, target.side, res.Absorbed)
	case res.Hit:
		c.emit(CueHitLanded, target.side, res.HealthDamage)
	}
}
