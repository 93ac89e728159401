package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/condition"
)

// specialFunc resolves one special kind and reports whether it took effect.
// A special that does not take effect leaves the cooldown untouched.
type specialFunc func(caster, target *Combatant, now int64) bool

var specialEffects = map[archetype.SpecialKind]specialFunc{
	archetype.SpecialGlobalStun:   globalStun,
	archetype.SpecialGlobalAttack: globalAttack,
	archetype.SpecialHealthSteal:  healthSteal,
	archetype.SpecialCurse:        curse,
	archetype.SpecialScreenDash:   screenDash,
	archetype.SpecialPullRoot:     pullRoot,
}

// ApplySpecialEffect resolves the archetype's special against the attack target.
// A cancelled cast never resolves.
//
// Postcondition: on success the damage-applied guard is set and the cooldown restarts now.
func (c *Combatant) ApplySpecialEffect() {
	if c.attackCancelled || c.target == nil {
		return
	}
	fn, ok := specialEffects[c.stats.Special.Kind]
	if !ok {
		return
	}
	now := c.NowMs()
	if !fn(c, c.target, now) {
		return
	}
	c.damageApplied = true
	c.specialUsed = true
	c.specialLastUsed = now
	c.env.Logger.Debug("special resolved",
		zap.Stringer("side", c.side),
		zap.String("archetype", c.stats.Name),
		zap.Stringer("kind", c.stats.Special.Kind),
		zap.Int64("at_ms", now),
	)
}

// globalStun stuns a target that is not already stunned, cancelling its attack.
func globalStun(c, t *Combatant, _ int64) bool {
	if t.Stunned() {
		return false
	}
	t.applyCondition(condition.Stunned, 0)
	if t.attacking {
		t.cancelAttack()
	}
	c.emit(CueStunned, t.side, 0)
	return true
}

// globalAttack strikes the target wherever it stands.
func globalAttack(c, t *Combatant, _ int64) bool {
	res := ResolveHit(c.rawDamage(AttackSpecial), t.defense())
	t.receive(res)
	c.emitHit(t, res)
	return true
}

// healthSteal drains the target if it stands inside the hitbox. A miss still
// spends the special.
func healthSteal(c, t *Combatant, _ int64) bool {
	if !c.Hitbox().Overlaps(t.body) {
		return true
	}
	res, heal := ResolveSteal(c.stats.Special.Steal.Amount, t.defense(), t.health)
	t.receive(res)
	c.Heal(heal)
	c.emitHit(t, res)
	return true
}

func curse(c, t *Combatant, now int64) bool {
	c.env.Effects.CastCurse(c, t, now)
	return true
}

// screenDash launches the caster in its facing direction; contact resolves in Move.
func screenDash(c, _ *Combatant, _ int64) bool {
	c.dashing = true
	c.dashContact = false
	c.dashTraveled = 0
	c.dashDirection = 1
	if c.flip {
		c.dashDirection = -1
	}
	return true
}

// pullRoot drags the target to a point pull-distance beyond the caster's center,
// on the target's side, then roots it on arrival.
func pullRoot(c, t *Combatant, _ int64) bool {
	p := c.stats.Special.Pull
	dir := -1
	if c.body.CenterX() < t.body.CenterX() {
		dir = 1
	}
	t.beingPulled = true
	t.pullTargetX = c.body.CenterX() + p.Distance*dir
	t.pullSpeed = p.Speed
	t.pullRootMs = p.RootDurationMs
	t.hit = true
	if t.attacking {
		t.cancelAttack()
	}
	c.emit(CuePulled, t.side, p.Distance)
	return true
}
