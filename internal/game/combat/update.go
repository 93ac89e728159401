package combat

import "github.com/cory-johannsen/duel/internal/game/condition"

// Update selects the action for this tick, fires attack damage on its frame,
// advances the animation, and finalizes completed cycles.
//
// Action precedence: hit > death > dash > attack > block > jump > run > idle.
// Being hit mid-attack cancels the attack for good.
func (c *Combatant) Update() {
	if c.paused() {
		return
	}
	now := c.NowMs()
	if c.hit && c.attacking {
		c.cancelAttack()
		c.setAction(ActionHit, now)
		return
	}

	switch {
	case !c.alive:
		c.setAction(ActionDeath, now)
	case c.hit:
		c.setAction(ActionHit, now)
		c.conds.Remove(condition.Stunned)
	case c.dashing:
		c.setAction(ActionSpecial, now)
	case c.attacking:
		c.updateAttack(now)
	case c.blocking:
		c.setAction(ActionBlock, now)
	case c.jumpCount > 0 && c.velY < 0:
		c.setAction(ActionJump, now)
	case c.running:
		c.setAction(ActionRun, now)
	default:
		c.setAction(ActionIdle, now)
	}

	if !c.castHolding(now) && now-c.frameTime > c.stats.AnimationSpeedMs {
		c.frameIndex++
		c.frameTime = now
	}
	frames := c.stats.Frames[c.action]
	if c.frameIndex < frames {
		return
	}
	if !c.alive {
		c.frameIndex = frames - 1
		return
	}
	c.frameIndex = 0
	c.finishCycle(now)
}

func (c *Combatant) updateAttack(now int64) {
	switch c.attackKind {
	case AttackPrimary:
		c.setAction(ActionAttack1, now)
		if c.frameIndex+1 == c.stats.DamageFrames.Primary && !c.damageApplied {
			c.ApplyAttackDamage()
		}
	case AttackSecondary:
		c.setAction(ActionAttack2, now)
		if c.frameIndex+1 == c.stats.DamageFrames.Secondary && !c.damageApplied {
			c.ApplyAttackDamage()
		}
	case AttackSpecial:
		c.setAction(ActionSpecial, now)
		if c.damageApplied || c.attackCancelled {
			return
		}
		if now-c.attackStart < c.stats.Special.CastTimeMs {
			if c.frameIndex >= c.stats.Frames[ActionSpecial]-1 {
				c.frameIndex = 0
			}
			return
		}
		c.ApplySpecialEffect()
	}
}

// castHolding reports whether the cast animation is frozen waiting for the cast time.
func (c *Combatant) castHolding(now int64) bool {
	return c.attacking && c.attackKind == AttackSpecial && !c.damageApplied &&
		now-c.attackStart < c.stats.Special.CastTimeMs
}

// finishCycle runs when an animation cycle completes.
func (c *Combatant) finishCycle(now int64) {
	switch c.action {
	case ActionAttack1, ActionAttack2:
		if !c.damageApplied && !c.attackCancelled {
			c.ApplyAttackDamage()
		}
		c.attacking = false
		c.damageApplied = true
		c.attackCooldown = RecoveryTicks
	case ActionSpecial:
		if !c.damageApplied && !c.attackCancelled && now-c.attackStart >= c.stats.Special.CastTimeMs {
			c.ApplySpecialEffect()
		}
		c.attacking = false
		c.damageApplied = true
	case ActionHit:
		c.hit = false
		c.attackCooldown = RecoveryTicks
	case ActionBlock:
		c.blocking = false
	}
}

func (c *Combatant) setAction(a Action, now int64) {
	if a == c.action {
		return
	}
	c.action = a
	c.frameIndex = 0
	c.frameTime = now
	if a == ActionDeath {
		c.emit(CueDied, c.side, 0)
	}
}
