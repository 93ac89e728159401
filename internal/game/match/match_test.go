package match_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/duel/internal/game/ai"
	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/match"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type table struct {
	clock *clock.Manual
	deps  match.Deps
	cues  []combat.Cue
}

func newTable(t *testing.T, seed uint64) *table {
	t.Helper()
	tb := &table{clock: clock.NewManual(0)}
	tb.deps = match.Deps{
		Clock:      tb.clock,
		Arena:      arena.Default(),
		Conditions: condition.Builtin(),
		Roller:     dice.NewLoggedRoller(dice.NewSeededSource(seed), zaptest.NewLogger(t)),
		Cues:       combat.CueSinkFunc(func(c combat.Cue) { tb.cues = append(tb.cues, c) }),
		Logger:     zaptest.NewLogger(t),
		Now:        func() time.Time { return fixedNow },
	}
	return tb
}

func stats(t *testing.T, name string) *archetype.Stats {
	t.Helper()
	s, err := archetype.Builtin().Get(name)
	require.NoError(t, err)
	return s
}

func quickConfig(mode match.Mode) match.Config {
	cfg := match.DefaultConfig()
	cfg.Mode = mode
	cfg.IntroSeconds = 0
	return cfg
}

func (tb *table) idle(t *testing.T, cfg match.Config, one, two string) *match.Match {
	t.Helper()
	m, err := match.New(cfg, tb.deps,
		match.Fighter{Stats: stats(t, one)},
		match.Fighter{Stats: stats(t, two)},
	)
	require.NoError(t, err)
	return m
}

func (tb *table) aiMatch(t *testing.T, cfg match.Config, one, two string) *match.Match {
	t.Helper()
	reg := ai.DefaultRegistry()
	fighter := func(name string) match.Fighter {
		s := stats(t, name)
		ctrl, err := ai.NewController(reg, s, tb.deps.Roller, nil, tb.deps.Logger)
		require.NoError(t, err)
		return match.Fighter{Stats: s, Controller: ctrl, AI: true}
	}
	m, err := match.New(cfg, tb.deps, fighter(one), fighter(two))
	require.NoError(t, err)
	return m
}

func tickUntil(t *testing.T, m *match.Match, done func() bool) {
	t.Helper()
	for i := 0; i < 10_000; i++ {
		if done() {
			return
		}
		m.Tick()
	}
	t.Fatalf("condition not reached within 10000 ticks")
}

func TestNew_Spawns(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, match.DefaultConfig(), "Knight", "Mage")
	assert.Equal(t, match.SpawnOneX, m.One().Body().X)
	assert.Equal(t, match.SpawnTwoX, m.Two().Body().X)
	assert.False(t, m.One().FacingLeft())
	assert.True(t, m.Two().FacingLeft())
	assert.Equal(t, 3, m.Intro())
	assert.Equal(t, match.OutcomeNone, m.Outcome())
}

func TestNew_RejectsBadInput(t *testing.T) {
	tb := newTable(t, 1)
	cfg := match.DefaultConfig()
	cfg.TickMs = 0
	_, err := match.New(cfg, tb.deps, match.Fighter{Stats: stats(t, "Knight")}, match.Fighter{Stats: stats(t, "Mage")})
	assert.Error(t, err)

	_, err = match.New(match.DefaultConfig(), tb.deps, match.Fighter{Stats: stats(t, "Knight")}, match.Fighter{})
	assert.Error(t, err)

	deps := tb.deps
	deps.Conditions = condition.NewRegistry()
	_, err = match.New(match.DefaultConfig(), deps, match.Fighter{Stats: stats(t, "Knight")}, match.Fighter{Stats: stats(t, "Mage")})
	assert.Error(t, err)
}

func TestTick_IntroHoldsFightersInPlace(t *testing.T) {
	tb := newTable(t, 1)
	right := combat.ControllerFunc(func(_, _ *combat.Combatant) combat.Intent { return combat.Intent{MoveX: 5} })
	m, err := match.New(match.DefaultConfig(), tb.deps,
		match.Fighter{Stats: stats(t, "Knight"), Controller: right},
		match.Fighter{Stats: stats(t, "Mage")},
	)
	require.NoError(t, err)

	tickUntil(t, m, func() bool { return m.Intro() == 2 })
	assert.GreaterOrEqual(t, tb.clock.NowMs(), int64(1000))
	assert.Less(t, tb.clock.NowMs(), int64(1000+match.DefaultConfig().TickMs))
	assert.Equal(t, match.SpawnOneX, m.One().Body().X)

	tickUntil(t, m, func() bool { return m.Intro() == 0 })
	assert.Equal(t, match.SpawnOneX, m.One().Body().X)
	m.Tick()
	assert.Equal(t, match.SpawnOneX+5, m.One().Body().X)
}

func TestTogglePause_FreezesClock(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, quickConfig(match.ModePVP), "Knight", "Mage")
	m.Tick()
	before := tb.clock.NowMs()

	assert.True(t, m.TogglePause())
	for i := 0; i < 10; i++ {
		m.Tick()
	}
	assert.Equal(t, before, tb.clock.NowMs())
	assert.Equal(t, 1, m.Ticks())

	assert.False(t, m.TogglePause())
	m.Tick()
	assert.Equal(t, before+m.Config().TickMs, tb.clock.NowMs())
}

func TestRoundEnd_UnilateralWin(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, quickConfig(match.ModePVE), "Knight", "Mage")
	m.Two().ApplyDamage(m.Two().Health())

	m.Tick()
	assert.True(t, m.RoundOver())
	assert.Equal(t, match.OutcomePlayer1, m.Outcome())
	assert.Equal(t, "VICTORY", m.Label())
	assert.False(t, m.TogglePause(), "pausing is refused once the round is over")

	tickUntil(t, m, m.Done)
	rec := m.Record()
	assert.Equal(t, match.OutcomePlayer1, rec.Winner)
	assert.Equal(t, "Knight", rec.Archetype1)
	assert.Equal(t, "Mage", rec.Archetype2)
	assert.Equal(t, match.ModePVE, rec.Mode)
	assert.False(t, rec.Premature)
	assert.Equal(t, fixedNow, rec.RecordedAt)
	assert.Equal(t, m.ID(), rec.ID)
}

func TestRoundEnd_SideOneFalls(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, quickConfig(match.ModePVE), "Knight", "Mage")
	m.One().ApplyDamage(1000)
	m.Tick()
	assert.Equal(t, match.OutcomePlayer2, m.Outcome())
	assert.Equal(t, "DEFEAT", m.Label())
}

// Both fighters are drained by the same curse tick.
func TestRoundEnd_SimultaneousDeath(t *testing.T) {
	cases := []struct {
		policy match.DeathPolicy
		want   match.Outcome
	}{
		{match.DeathDraw, match.OutcomeDraw},
		{match.DeathPriority, match.OutcomePlayer2},
	}
	for _, tc := range cases {
		t.Run(string(tc.policy), func(t *testing.T) {
			tb := newTable(t, 1)
			cfg := quickConfig(match.ModeEVE)
			cfg.SimultaneousDeath = tc.policy
			m := tb.idle(t, cfg, "Sage", "Knight")
			m.One().ApplyDamage(m.One().Health() - 5)
			m.Two().ApplyDamage(m.Two().Health() - 15)
			m.Effects().CastCurse(m.One(), m.Two(), tb.clock.NowMs())

			tickUntil(t, m, m.RoundOver)
			assert.False(t, m.One().Alive())
			assert.False(t, m.Two().Alive())
			assert.Equal(t, tc.want, m.Outcome())
			assert.False(t, m.Effects().CurseActive())
		})
	}
}

func TestTick_CurseCues(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, quickConfig(match.ModeEVE), "Guardian", "Sage")
	m.Effects().CastCurse(m.Two(), m.One(), tb.clock.NowMs())

	tickUntil(t, m, func() bool { return !m.Effects().CurseActive() })
	var ticks, ended int
	for _, c := range tb.cues {
		switch c.Kind {
		case combat.CueCurseTick:
			ticks++
			assert.Equal(t, combat.SideTwo, c.Source)
			assert.Equal(t, combat.SideOne, c.Target)
			assert.Equal(t, 15, c.Amount)
		case combat.CueCurseEnded:
			ended++
		}
	}
	assert.Equal(t, 7, ticks, "ticks at 1s..7s, expiry at 8s")
	assert.Equal(t, 1, ended)
	assert.Equal(t, 110-7*15, m.One().Health())
	assert.Equal(t, 85-7*5, m.Two().Health())
}

func TestAbort(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, quickConfig(match.ModePVP), "Knight", "Mage")
	m.Tick()
	m.Abort()
	assert.True(t, m.Done())
	assert.Equal(t, match.OutcomePremature, m.Outcome())
	assert.True(t, m.Record().Premature)
	assert.Equal(t, "GAME CLOSED", m.Label())

	decided := tb.idle(t, quickConfig(match.ModePVP), "Knight", "Mage")
	decided.Two().ApplyDamage(1000)
	decided.Tick()
	decided.Abort()
	assert.Equal(t, match.OutcomePlayer1, decided.Outcome(), "a decided round keeps its outcome")
}

func TestSimulate_IsDeterministic(t *testing.T) {
	run := func() (match.Record, int, int) {
		tb := newTable(t, 42)
		m := tb.aiMatch(t, match.DefaultConfig(), "Knight", "Warlock")
		rec, err := match.Simulate(context.Background(), m, 20_000)
		require.NoError(t, err)
		return rec, m.One().Health(), m.Two().Health()
	}
	a, a1, a2 := run()
	b, b1, b2 := run()
	assert.Equal(t, a.Winner, b.Winner)
	assert.Equal(t, a.Ticks, b.Ticks)
	assert.Equal(t, a1, b1)
	assert.Equal(t, a2, b2)
}

func TestSimulate_TickLimitIsPremature(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, match.DefaultConfig(), "Knight", "Mage")
	rec, err := match.Simulate(context.Background(), m, 10)
	require.NoError(t, err)
	assert.Equal(t, match.OutcomePremature, rec.Winner)
	assert.Equal(t, 10, rec.Ticks)
}

func TestSimulate_Cancelled(t *testing.T) {
	tb := newTable(t, 1)
	m := tb.idle(t, match.DefaultConfig(), "Knight", "Mage")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec, err := match.Simulate(ctx, m, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, rec.Premature)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, match.DefaultConfig().Validate())

	bad := []func(*match.Config){
		func(c *match.Config) { c.Mode = 0 },
		func(c *match.Config) { c.TickMs = -1 },
		func(c *match.Config) { c.IntroSeconds = -1 },
		func(c *match.Config) { c.RoundOverCooldownMs = -5 },
		func(c *match.Config) { c.SimultaneousDeath = "coin_flip" },
	}
	for i, mutate := range bad {
		cfg := match.DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}
