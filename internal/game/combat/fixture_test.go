package combat

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

const tickMs = 16

type fixture struct {
	clock   *clock.Manual
	env     *Env
	effects *condition.GlobalEffects
	reg     *archetype.Registry
	cues    []Cue
	paused  bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conds := condition.Builtin()
	effects, err := condition.NewGlobalEffects(conds.MustGet(condition.Curse))
	require.NoError(t, err)
	f := &fixture{
		clock:   clock.NewManual(10_000),
		effects: effects,
		reg:     archetype.Builtin(),
	}
	f.env = &Env{
		Clock:      f.clock,
		Arena:      arena.Default(),
		Conditions: conds,
		Effects:    effects,
		Roller:     dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop()),
		Cues:       CueSinkFunc(func(c Cue) { f.cues = append(f.cues, c) }),
		Paused:     func() bool { return f.paused },
	}
	return f
}

func (f *fixture) fighter(t *testing.T, name string, side Side, x int) *Combatant {
	t.Helper()
	stats, err := f.reg.Get(name)
	require.NoError(t, err)
	c, err := NewCombatant(stats, f.env, Options{Side: side, X: x, FacingLeft: side == SideTwo})
	require.NoError(t, err)
	return c
}

// face points c toward o without moving either.
func face(c, o *Combatant) {
	c.flip = c.env.Arena.FacingLeft(c.CenterX(), o.CenterX())
}

func (f *fixture) advance(ms int64) { f.clock.Advance(ms) }

// tick runs one full match step for the pair.
func (f *fixture) tick(a, b *Combatant) {
	f.clock.Advance(tickMs)
	a.Move(b, false)
	b.Move(a, false)
	a.Update()
	b.Update()
}

// updateUntil advances the clock and calls Update on c until done reports true.
func (f *fixture) updateUntil(t *testing.T, c *Combatant, done func() bool) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if done() {
			return
		}
		f.clock.Advance(tickMs)
		c.Update()
	}
	t.Fatalf("condition not reached within 1000 updates")
}

func (f *fixture) countCues(kind CueKind) int {
	n := 0
	for _, c := range f.cues {
		if c.Kind == kind {
			n++
		}
	}
	return n
}
