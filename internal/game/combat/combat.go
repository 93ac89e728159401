// Package combat implements the fighter state machine and the rules that
// resolve hits, blocks, and special abilities between two combatants.
//
// All operations are driven by the match loop on a single goroutine; nothing
// here blocks or returns errors. Invalid requests are rejected silently.
package combat

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Body and motion constants in world pixels and ticks.
const (
	BodyWidth     = 80
	BodyHeight    = 180
	SpawnY        = 310
	Gravity       = 2
	JumpVelocity  = -30
	RecoveryTicks = 20
	// dashStepScale multiplies dash speed into px per tick.
	dashStepScale = 3
)

// Side identifies which slot a combatant occupies.
type Side int

const (
	SideOne Side = 1
	SideTwo Side = 2
)

// String returns "player1" or "player2".
func (s Side) String() string {
	switch s {
	case SideOne:
		return "player1"
	case SideTwo:
		return "player2"
	default:
		return "unknown"
	}
}

// Action is the animation row a combatant is playing. Values index archetype.Frames.
type Action int

const (
	ActionIdle Action = iota
	ActionRun
	ActionJump
	ActionAttack1
	ActionAttack2
	ActionHit
	ActionDeath
	ActionBlock
	ActionSpecial
)

var actionNames = [...]string{"idle", "run", "jump", "attack1", "attack2", "hit", "death", "block", "special"}

// String returns a lower-case action label.
func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// AttackKind selects which attack a combatant performs.
type AttackKind int

const (
	AttackNone AttackKind = iota
	AttackPrimary
	AttackSecondary
	AttackSpecial
)

// String returns a lower-case attack label.
func (k AttackKind) String() string {
	switch k {
	case AttackNone:
		return "none"
	case AttackPrimary:
		return "primary"
	case AttackSecondary:
		return "secondary"
	case AttackSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Intent is what a controller wants its combatant to do this tick.
type Intent struct {
	Block  bool
	Attack AttackKind
	// MoveX is the signed horizontal velocity in px per tick. Fractions are truncated.
	MoveX float64
	Jump  bool
}

// Controller produces a combatant's intent. It is consulted at most once per
// tick, and only while the combatant is alive, not attacking, not hit, and the
// round is still running.
type Controller interface {
	Intent(self, opponent *Combatant) Intent
}

// ControllerFunc adapts a function into a Controller.
type ControllerFunc func(self, opponent *Combatant) Intent

// Intent calls f.
func (f ControllerFunc) Intent(self, opponent *Combatant) Intent { return f(self, opponent) }

// Env holds the collaborators shared by both combatants in a match.
type Env struct {
	Clock      clock.Clock
	Arena      arena.Arena
	Conditions *condition.Registry
	Effects    *condition.GlobalEffects
	Roller     *dice.Roller
	// Cues receives discrete events for render and audio sinks. Optional.
	Cues CueSink
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Paused reports whether the match is paused. Optional.
	Paused func() bool
}

func (e *Env) validate() error {
	if e.Clock == nil || e.Conditions == nil || e.Effects == nil || e.Roller == nil {
		return fmt.Errorf("combat.Env: Clock, Conditions, Effects and Roller are required")
	}
	if e.Arena.Width <= 0 || e.Arena.GroundY() <= 0 {
		return fmt.Errorf("combat.Env: arena %dx%d has no playable area", e.Arena.Width, e.Arena.Height)
	}
	for _, id := range []string{condition.Stunned, condition.Rooted, condition.BlockExhausted} {
		if _, ok := e.Conditions.Get(id); !ok {
			return fmt.Errorf("combat.Env: condition %q not registered", id)
		}
	}
	if e.Cues == nil {
		e.Cues = CueSinkFunc(func(Cue) {})
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
