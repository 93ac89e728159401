package ai

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// SpecialHook is the Lua function consulted before the built-in special gate.
// It receives (distance, range_px, health, opponent_health) and may return a
// boolean: true casts whenever ready, false never casts. Any other result
// leaves the built-in gate in charge.
const SpecialHook = "should_cast_special"

// ScriptCaller is the interface required by the Controller to evaluate Lua hooks.
type ScriptCaller interface {
	// CallHook calls a named Lua function in the given scope's VM.
	// Returns (LNil, nil) if the function is not defined.
	CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error)
}

// Controller drives one computer-controlled combatant. It implements combat.Controller.
type Controller struct {
	policy Policy
	roller *dice.Roller
	caller ScriptCaller
	scope  string
	logger *zap.Logger
}

// NewController builds the controller for stats using the policy registered
// for its special kind. caller may be nil.
//
// Precondition: reg, stats, roller and logger must not be nil.
// Postcondition: returns an error when no policy handles stats.Special.Kind.
func NewController(reg *Registry, stats *archetype.Stats, roller *dice.Roller, caller ScriptCaller, logger *zap.Logger) (*Controller, error) {
	p, ok := reg.PolicyFor(stats.Special.Kind)
	if !ok {
		return nil, fmt.Errorf("ai.NewController: no policy for %s (%s)", stats.Name, stats.Special.Kind)
	}
	return &Controller{
		policy: p,
		roller: roller,
		caller: caller,
		scope:  strings.ToLower(stats.Name),
		logger: logger,
	}, nil
}

// Intent observes the pair, runs the reactive-block layer, then the policy.
// A reaction that fires consumes the attacker's warning.
func (c *Controller) Intent(self, opponent *combat.Combatant) combat.Intent {
	s := Observe(self, opponent)
	if s.SpecialReady {
		s.Special = c.override(self, opponent, s)
	}

	var in combat.Intent
	if s.ShouldReact() {
		in.Block = true
		self.ClearAttackWarning()
	}
	in = c.policy(s, in, c.roller)

	if ce := c.logger.Check(zap.DebugLevel, "ai decision"); ce != nil && in != (combat.Intent{}) {
		ce.Write(
			zap.Stringer("side", self.Side()),
			zap.String("archetype", self.Stats().Name),
			zap.Float64("distance", s.Distance),
			zap.Bool("block", in.Block),
			zap.Stringer("attack", in.Attack),
			zap.Float64("move_x", in.MoveX),
		)
	}
	return in
}

func (c *Controller) override(self, opponent *combat.Combatant, s Situation) Override {
	if c.caller == nil {
		return OverrideNone
	}
	ret, err := c.caller.CallHook(c.scope, SpecialHook,
		lua.LNumber(s.Distance),
		lua.LNumber(s.RangePx),
		lua.LNumber(self.Health()),
		lua.LNumber(opponent.Health()),
	)
	if err != nil {
		c.logger.Warn("ai hook failed", zap.String("scope", c.scope), zap.Error(err))
		return OverrideNone
	}
	switch ret {
	case lua.LTrue:
		return OverrideCast
	case lua.LFalse:
		return OverrideHold
	default:
		return OverrideNone
	}
}
