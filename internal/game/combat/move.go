package combat

import "github.com/cory-johannsen/duel/internal/game/condition"

// Move advances spatial state for one tick: timed overlay expiry, forced pull
// motion, controller intent, dash travel, gravity, wrap, ground clamp, facing,
// and recovery countdown.
//
// Precondition: opponent must be non-nil.
// Postcondition: the body rests on or above the ground line.
func (c *Combatant) Move(opponent *Combatant, roundOver bool) {
	if c.paused() {
		return
	}
	now := c.NowMs()
	dx, dy := 0, 0
	c.running = false
	c.blocking = false

	if c.conds.Has(condition.Stunned) {
		c.conds.ExpireIfDue(condition.Stunned, now)
		return
	}
	c.conds.ExpireIfDue(condition.Rooted, now)
	if c.conds.ExpireIfDue(condition.BlockExhausted, now) {
		c.blockStamina = c.stats.BlockStamina
	}

	if c.beingPulled {
		center := c.body.CenterX()
		if abs(center-c.pullTargetX) > c.pullSpeed {
			if center < c.pullTargetX {
				c.body.X += c.pullSpeed
			} else {
				c.body.X -= c.pullSpeed
			}
			c.hit = true
			return
		}
		c.beingPulled = false
		c.applyCondition(condition.Rooted, c.pullRootMs)
		c.hit = true
		c.emit(CueRooted, c.side, 0)
	}

	if c.controller != nil && !c.attacking && c.alive && !roundOver && !c.hit {
		dx = c.applyIntent(c.controller.Intent(c, opponent), opponent)
	}

	if c.dashing && !c.hit {
		c.dashStep(opponent)
	} else {
		c.velY += Gravity
		dy += c.velY
	}

	c.env.Arena.Wrap(&c.body)
	ground := c.env.Arena.GroundY()
	if c.body.Bottom()+dy > ground {
		c.velY = 0
		dy = ground - c.body.Bottom()
		c.jumpCount = 0
	}
	c.flip = c.env.Arena.FacingLeft(c.body.CenterX(), opponent.body.CenterX())
	if c.attackCooldown > 0 {
		c.attackCooldown--
	}
	if !c.conds.Has(condition.Rooted) && !c.beingPulled && !c.dashing {
		c.body.X += dx
	}
	c.body.Y += dy
}

// applyIntent turns a controller's intent into flags and returns the requested dx.
func (c *Combatant) applyIntent(in Intent, opponent *Combatant) int {
	dx := 0
	if in.Block && !c.conds.Restricts(condition.ActionBlock) {
		c.blocking = true
	}
	if in.MoveX != 0 && !c.conds.Restricts(condition.ActionMove) {
		dx = int(in.MoveX)
		c.running = true
	}
	if in.Jump && c.jumpCount < 1 && !c.conds.Restricts(condition.ActionJump) {
		c.velY = JumpVelocity
		c.jumpCount++
	}
	if in.Attack != AttackNone {
		c.InitiateAttack(in.Attack, opponent)
	}
	return dx
}

// dashStep advances a dash and resolves contact damage on the first overlap.
func (c *Combatant) dashStep(opponent *Combatant) {
	dash := c.stats.Special.Dash
	if dash == nil {
		c.dashing = false
		return
	}
	step := dash.Speed * c.dashDirection * dashStepScale
	c.body.X += step
	c.dashTraveled += abs(step)
	if !c.dashContact && c.body.Overlaps(opponent.body) {
		c.dashContact = true
		c.strike(opponent, c.stats.Damage.Special)
	}
	if c.dashTraveled >= dash.Distance {
		c.dashing = false
		c.dashContact = false
		c.dashTraveled = 0
	}
}
