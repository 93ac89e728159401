package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/condition"
)

// Options configures a new Combatant.
type Options struct {
	Side       Side
	X          int
	FacingLeft bool
	// AI marks the combatant as computer-controlled; attackers schedule a
	// reaction window on AI targets.
	AI         bool
	Controller Controller
}

// Combatant is one fighter for the duration of a round.
//
// Invariant: 0 <= health <= stats.Health; once alive is false it stays false.
// Invariant: 0 <= blockStamina <= stats.BlockStamina.
type Combatant struct {
	side       Side
	stats      *archetype.Stats
	env        *Env
	controller Controller
	ai         bool

	body      arena.Rect
	velY      int
	jumpCount int
	running   bool
	flip      bool

	health int
	alive  bool

	blockStamina int
	blocking     bool

	// conds holds the timed overlays: stunned, rooted, block_exhausted.
	conds *condition.ActiveSet

	action     Action
	frameIndex int
	frameTime  int64

	attacking       bool
	attackKind      AttackKind
	attackCooldown  int
	attackStart     int64
	damageApplied   bool
	attackCancelled bool
	target          *Combatant

	hit bool

	beingPulled bool
	pullTargetX int
	pullSpeed   int
	pullRootMs  int64

	dashing       bool
	dashDirection int
	dashTraveled  int
	dashContact   bool

	specialUsed     bool
	specialLastUsed int64

	attackDetected bool
	blockAttemptMs int64
}

// NewCombatant creates a combatant standing on the ground at opts.X.
//
// Precondition: stats must be valid; env must carry a clock, conditions, effects and roller.
// Postcondition: the combatant is alive at full health and full block stamina, idle.
func NewCombatant(stats *archetype.Stats, env *Env, opts Options) (*Combatant, error) {
	if stats == nil {
		return nil, fmt.Errorf("NewCombatant: stats must not be nil")
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("NewCombatant: %w", err)
	}
	if env == nil {
		return nil, fmt.Errorf("NewCombatant: env must not be nil")
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	if opts.Side != SideOne && opts.Side != SideTwo {
		return nil, fmt.Errorf("NewCombatant: invalid side %d", opts.Side)
	}
	c := &Combatant{
		side:         opts.Side,
		stats:        stats,
		env:          env,
		controller:   opts.Controller,
		ai:           opts.AI,
		body:         arena.Rect{X: opts.X, Y: SpawnY, W: BodyWidth, H: BodyHeight},
		flip:         opts.FacingLeft,
		health:       stats.Health,
		alive:        true,
		blockStamina: stats.BlockStamina,
		conds:        condition.NewActiveSet(),
		action:       ActionIdle,
		frameTime:    env.Clock.NowMs(),
	}
	return c, nil
}

// SetController replaces the intent source.
func (c *Combatant) SetController(ctrl Controller) { c.controller = ctrl }

// Side returns the combatant's slot.
func (c *Combatant) Side() Side { return c.side }

// Stats returns the archetype definition.
func (c *Combatant) Stats() *archetype.Stats { return c.stats }

// IsAI reports whether the combatant is computer-controlled.
func (c *Combatant) IsAI() bool { return c.ai }

// Body returns the body rectangle.
func (c *Combatant) Body() arena.Rect { return c.body }

// CenterX returns the horizontal center of the body.
func (c *Combatant) CenterX() int { return c.body.CenterX() }

// FacingLeft reports whether the combatant faces left.
func (c *Combatant) FacingLeft() bool { return c.flip }

// Health returns current health.
func (c *Combatant) Health() int { return c.health }

// MaxHealth returns the archetype's starting health.
func (c *Combatant) MaxHealth() int { return c.stats.Health }

// Alive reports whether the combatant is still standing.
func (c *Combatant) Alive() bool { return c.alive }

// BlockStamina returns the remaining block stamina.
func (c *Combatant) BlockStamina() int { return c.blockStamina }

// Blocking reports whether the combatant is holding a block this tick.
func (c *Combatant) Blocking() bool { return c.blocking }

// BlockExhausted reports whether the guard is broken.
func (c *Combatant) BlockExhausted() bool { return c.conds.Has(condition.BlockExhausted) }

// Stunned reports whether the combatant is stunned.
func (c *Combatant) Stunned() bool { return c.conds.Has(condition.Stunned) }

// Rooted reports whether the combatant is rooted.
func (c *Combatant) Rooted() bool { return c.conds.Has(condition.Rooted) }

// BeingPulled reports whether a pull is dragging the combatant.
func (c *Combatant) BeingPulled() bool { return c.beingPulled }

// Dashing reports whether a dash is in progress.
func (c *Combatant) Dashing() bool { return c.dashing }

// Hit reports whether the combatant is staggered.
func (c *Combatant) Hit() bool { return c.hit }

// Attacking reports whether an attack or cast is in progress.
func (c *Combatant) Attacking() bool { return c.attacking }

// AttackKind returns the kind of the current or most recent attack.
func (c *Combatant) AttackKind() AttackKind { return c.attackKind }

// AttackCooldown returns the remaining recovery ticks.
func (c *Combatant) AttackCooldown() int { return c.attackCooldown }

// Action returns the current animation row.
func (c *Combatant) Action() Action { return c.action }

// FrameIndex returns the current animation frame.
func (c *Combatant) FrameIndex() int { return c.frameIndex }

// JumpCount returns the number of jumps since last landing.
func (c *Combatant) JumpCount() int { return c.jumpCount }

// AttackRangePx returns the hitbox width in pixels.
func (c *Combatant) AttackRangePx() float64 {
	return c.stats.AttackRange * float64(c.body.W)
}

// NowMs returns the match clock.
func (c *Combatant) NowMs() int64 { return c.env.Clock.NowMs() }

// Arena returns the arena the combatant fights in.
func (c *Combatant) Arena() arena.Arena { return c.env.Arena }

// IsCurseCaster reports whether this combatant cast the active curse.
func (c *Combatant) IsCurseCaster() bool { return c.env.Effects.IsCurseCaster(c) }

// SpecialReady reports whether the special ability is off cooldown.
// The cooldown runs from the moment the previous special resolved.
func (c *Combatant) SpecialReady() bool {
	return !c.specialUsed || c.NowMs()-c.specialLastUsed >= c.stats.Special.CooldownMs
}

// SpecialCooldownRemaining returns milliseconds until the special is ready, clamped at 0.
func (c *Combatant) SpecialCooldownRemaining() int64 {
	if !c.specialUsed {
		return 0
	}
	left := c.stats.Special.CooldownMs - (c.NowMs() - c.specialLastUsed)
	if left < 0 {
		return 0
	}
	return left
}

// StunRemaining returns milliseconds of stun left, clamped at 0.
func (c *Combatant) StunRemaining() int64 { return c.conds.Remaining(condition.Stunned, c.NowMs()) }

// RootRemaining returns milliseconds of root left, clamped at 0.
func (c *Combatant) RootRemaining() int64 { return c.conds.Remaining(condition.Rooted, c.NowMs()) }

// BlockExhaustRemaining returns milliseconds until block stamina refills, clamped at 0.
func (c *Combatant) BlockExhaustRemaining() int64 {
	return c.conds.Remaining(condition.BlockExhausted, c.NowMs())
}

// AttackWarning reports a pending reaction window scheduled by an attacker.
func (c *Combatant) AttackWarning() (detected bool, reactAtMs int64) {
	return c.attackDetected, c.blockAttemptMs
}

// ClearAttackWarning consumes the pending reaction window.
func (c *Combatant) ClearAttackWarning() { c.attackDetected = false }

// ApplyDamage removes amount health directly, bypassing any block.
// Reaching zero health kills the combatant.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= Health(); returns the health actually removed.
func (c *Combatant) ApplyDamage(amount int) int {
	if amount <= 0 || c.health == 0 {
		return 0
	}
	if amount > c.health {
		amount = c.health
	}
	c.health -= amount
	if c.health == 0 {
		c.alive = false
	}
	return amount
}

// Heal restores amount health up to the archetype maximum. The dead are not healed.
//
// Postcondition: Health() <= MaxHealth(); returns the health actually restored.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.alive {
		return 0
	}
	gained := min(amount, c.stats.Health-c.health)
	c.health += gained
	return gained
}

// Snapshot is a read-only copy of a combatant's observable state.
type Snapshot struct {
	Side              Side
	Archetype         string
	X, Y              int
	CenterX           int
	FacingLeft        bool
	Health            int
	MaxHealth         int
	Alive             bool
	BlockStamina      int
	Blocking          bool
	BlockExhausted    bool
	Stunned           bool
	Rooted            bool
	BeingPulled       bool
	Dashing           bool
	Hit               bool
	Attacking         bool
	Attack            AttackKind
	Action            Action
	Frame             int
	SpecialReady      bool
	SpecialCooldownMs int64
}

// Snapshot captures the combatant's current state.
func (c *Combatant) Snapshot() Snapshot {
	return Snapshot{
		Side:              c.side,
		Archetype:         c.stats.Name,
		X:                 c.body.X,
		Y:                 c.body.Y,
		CenterX:           c.body.CenterX(),
		FacingLeft:        c.flip,
		Health:            c.health,
		MaxHealth:         c.stats.Health,
		Alive:             c.alive,
		BlockStamina:      c.blockStamina,
		Blocking:          c.blocking,
		BlockExhausted:    c.BlockExhausted(),
		Stunned:           c.Stunned(),
		Rooted:            c.Rooted(),
		BeingPulled:       c.beingPulled,
		Dashing:           c.dashing,
		Hit:               c.hit,
		Attacking:         c.attacking,
		Attack:            c.attackKind,
		Action:            c.action,
		Frame:             c.frameIndex,
		SpecialReady:      c.SpecialReady(),
		SpecialCooldownMs: c.SpecialCooldownRemaining(),
	}
}

func (c *Combatant) paused() bool {
	return c.env.Paused != nil && c.env.Paused()
}

func (c *Combatant) defense() Defense {
	return Defense{Blocking: c.blocking, Exhausted: c.BlockExhausted(), Stamina: c.blockStamina}
}

// applyCondition starts or restarts a timed overlay. durationMs <= 0 uses the definition.
func (c *Combatant) applyCondition(id string, durationMs int64) {
	def, ok := c.env.Conditions.Get(id)
	if !ok {
		return
	}
	if err := c.conds.Apply(def, c.NowMs(), durationMs); err != nil {
		c.env.Logger.Warn("applying condition", zap.String("condition", id), zap.Error(err))
	}
}

// receive applies a resolved hit to this combatant as defender.
func (c *Combatant) receive(res HitResult) {
	if res.Blocked {
		c.blockStamina = res.StaminaAfter
		if res.BrokeBlock {
			c.blocking = false
			c.applyCondition(condition.BlockExhausted, 0)
		}
	}
	c.ApplyDamage(res.HealthDamage)
	if res.Hit {
		c.hit = true
	}
}

// cancelAttack interrupts any attack, cast, or dash in progress.
func (c *Combatant) cancelAttack() {
	if !c.attacking && !c.dashing {
		return
	}
	c.attacking = false
	c.attackCancelled = true
	c.dashing = false
	c.dashContact = false
	c.dashTraveled = 0
}

func (c *Combatant) emit(kind CueKind, target Side, amount int) {
	cue := Cue{Kind: kind, Source: c.side, Target: target, Amount: amount, AtMs: c.NowMs(), Sound: c.stats.Sound}
	c.env.Cues.Cue(cue)
	if ce := c.env.Logger.Check(zap.DebugLevel, "combat cue"); ce != nil {
		ce.Write(
			zap.Stringer("cue", kind),
			zap.Stringer("source", c.side),
			zap.Stringer("target", target),
			zap.Int("amount", amount),
			zap.Int64("at_ms", cue.AtMs),
		)
	}
}
