package ai_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/ai"
	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

type hookCall struct {
	scope, hook string
	args        []lua.LValue
}

// stubCaller answers every hook with ret and err, recording each call.
type stubCaller struct {
	ret   lua.LValue
	err   error
	calls []hookCall
}

func (s *stubCaller) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	s.calls = append(s.calls, hookCall{scope: scope, hook: hook, args: args})
	if s.ret == nil {
		return lua.LNil, s.err
	}
	return s.ret, s.err
}

type bench struct {
	clock  *clock.Manual
	env    *combat.Env
	roller *dice.Roller
}

func newBench(t *testing.T) *bench {
	t.Helper()
	conds := condition.Builtin()
	effects, err := condition.NewGlobalEffects(conds.MustGet(condition.Curse))
	require.NoError(t, err)
	b := &bench{
		clock:  clock.NewManual(10_000),
		roller: dice.NewLoggedRoller(dice.NewSeededSource(7), zap.NewNop()),
	}
	b.env = &combat.Env{
		Clock:      b.clock,
		Arena:      arena.Default(),
		Conditions: conds,
		Effects:    effects,
		Roller:     b.roller,
	}
	return b
}

func (b *bench) fighter(t *testing.T, name string, side combat.Side, x int, isAI bool) *combat.Combatant {
	t.Helper()
	stats, err := archetype.Builtin().Get(name)
	require.NoError(t, err)
	c, err := combat.NewCombatant(stats, b.env, combat.Options{Side: side, X: x, AI: isAI})
	require.NoError(t, err)
	return c
}

func (b *bench) controller(t *testing.T, name string, caller ai.ScriptCaller) *ai.Controller {
	t.Helper()
	stats, err := archetype.Builtin().Get(name)
	require.NoError(t, err)
	ctrl, err := ai.NewController(ai.DefaultRegistry(), stats, b.roller, caller, zap.NewNop())
	require.NoError(t, err)
	return ctrl
}

func TestNewController_UnknownKind(t *testing.T) {
	b := newBench(t)
	stats, err := archetype.Builtin().Get("Knight")
	require.NoError(t, err)
	_, err = ai.NewController(ai.NewRegistry(), stats, b.roller, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestObserve(t *testing.T) {
	b := newBench(t)
	self := b.fighter(t, "Knight", combat.SideOne, 20, true)
	opp := b.fighter(t, "Mage", combat.SideTwo, 860, false)

	s := ai.Observe(self, opp)
	assert.Equal(t, archetype.SpecialGlobalStun, s.Kind)
	assert.Equal(t, 160.0, s.RangePx)
	assert.Equal(t, 9.0, s.Speed)
	assert.Equal(t, 160.0, s.Distance, "shortest path crosses the seam")
	assert.Equal(t, -1, s.Direction)
	assert.Equal(t, 840.0, s.DirectDistance)
	assert.Equal(t, 1, s.DirectDirection)
	assert.True(t, s.SpecialReady)
	assert.False(t, s.OpponentAttacking)
	assert.Equal(t, 60, s.Stamina)
}

func TestController_ReactiveBlock(t *testing.T) {
	b := newBench(t)
	human := b.fighter(t, "Knight", combat.SideOne, 100, false)
	guardian := b.fighter(t, "Guardian", combat.SideTwo, 600, true)
	ctrl := b.controller(t, "Guardian", nil)

	require.True(t, human.InitiateAttack(combat.AttackPrimary, guardian))
	in := ctrl.Intent(guardian, human)
	assert.False(t, in.Block, "reaction window not open yet")
	warned, _ := guardian.AttackWarning()
	assert.True(t, warned)

	b.clock.Advance(200)
	in = ctrl.Intent(guardian, human)
	assert.True(t, in.Block)
	warned, _ = guardian.AttackWarning()
	assert.False(t, warned, "a reaction consumes the warning")
}

func TestController_HookOverridesSpecialGate(t *testing.T) {
	t.Run("cast", func(t *testing.T) {
		b := newBench(t)
		knight := b.fighter(t, "Knight", combat.SideOne, 300, true)
		mage := b.fighter(t, "Mage", combat.SideTwo, 400, false)
		caller := &stubCaller{ret: lua.LTrue}
		in := b.controller(t, "Knight", caller).Intent(knight, mage)
		assert.Equal(t, combat.AttackSpecial, in.Attack)
		require.Len(t, caller.calls, 1)
		assert.Equal(t, "knight", caller.calls[0].scope)
		assert.Equal(t, ai.SpecialHook, caller.calls[0].hook)
		assert.Equal(t, []lua.LValue{lua.LNumber(100), lua.LNumber(160), lua.LNumber(100), lua.LNumber(80)}, caller.calls[0].args)
	})
	t.Run("hold", func(t *testing.T) {
		b := newBench(t)
		knight := b.fighter(t, "Knight", combat.SideOne, 300, true)
		mage := b.fighter(t, "Mage", combat.SideTwo, 700, false)
		in := b.controller(t, "Knight", &stubCaller{ret: lua.LFalse}).Intent(knight, mage)
		assert.Equal(t, combat.AttackNone, in.Attack)
		assert.Equal(t, 9.0, in.MoveX)
	})
	t.Run("non-boolean falls back", func(t *testing.T) {
		b := newBench(t)
		knight := b.fighter(t, "Knight", combat.SideOne, 300, true)
		mage := b.fighter(t, "Mage", combat.SideTwo, 700, false)
		in := b.controller(t, "Knight", &stubCaller{ret: lua.LString("maybe")}).Intent(knight, mage)
		assert.Equal(t, combat.AttackSpecial, in.Attack)
	})
	t.Run("error falls back", func(t *testing.T) {
		b := newBench(t)
		knight := b.fighter(t, "Knight", combat.SideOne, 300, true)
		mage := b.fighter(t, "Mage", combat.SideTwo, 700, false)
		in := b.controller(t, "Knight", &stubCaller{ret: lua.LFalse, err: errors.New("boom")}).Intent(knight, mage)
		assert.Equal(t, combat.AttackSpecial, in.Attack)
	})
}

func TestController_DrivesCombatant(t *testing.T) {
	b := newBench(t)
	mage := b.fighter(t, "Mage", combat.SideOne, 100, true)
	knight := b.fighter(t, "Knight", combat.SideTwo, 590, false)
	mage.SetController(b.controller(t, "Mage", nil))

	b.clock.Advance(16)
	mage.Move(knight, false)
	assert.True(t, mage.Attacking(), "opens with the global attack from range")
	assert.Equal(t, combat.AttackSpecial, mage.AttackKind())
}
