// Package match runs a single round between two combatants: the fixed-order
// tick, intro countdown, pause, round outcome, and the record it produces.
package match

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
)

// Spawn positions of the two sides.
const (
	SpawnOneX = 300
	SpawnTwoX = 600
)

const countdownStepMs = 1000

// Config tunes a round.
type Config struct {
	Mode Mode
	// TickMs is the simulated time per tick.
	TickMs              int64
	IntroSeconds        int
	RoundOverCooldownMs int64
	SimultaneousDeath   DeathPolicy
}

// DefaultConfig returns a PVE round at 60 ticks per second with a 3 second intro.
func DefaultConfig() Config {
	return Config{
		Mode:                ModePVE,
		TickMs:              1000 / 60,
		IntroSeconds:        3,
		RoundOverCooldownMs: 2000,
		SimultaneousDeath:   DeathDraw,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := ParseMode(c.Mode.String()); err != nil {
		return err
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("match: tick must be positive, got %dms", c.TickMs)
	}
	if c.IntroSeconds < 0 {
		return fmt.Errorf("match: intro seconds must not be negative")
	}
	if c.RoundOverCooldownMs < 0 {
		return fmt.Errorf("match: round-over cooldown must not be negative")
	}
	switch c.SimultaneousDeath {
	case DeathDraw, DeathPriority:
	default:
		return fmt.Errorf("match: unknown simultaneous death policy %q", c.SimultaneousDeath)
	}
	return nil
}

// Fighter describes one side before the round starts.
type Fighter struct {
	Stats      *archetype.Stats
	Controller combat.Controller
	AI         bool
}

// Deps are the collaborators a round runs against.
type Deps struct {
	Clock      *clock.Manual
	Arena      arena.Arena
	Conditions *condition.Registry
	Roller     *dice.Roller
	// Cues is optional.
	Cues   combat.CueSink
	Logger *zap.Logger
	// Now stamps records; defaults to time.Now.
	Now func() time.Time
}

// Match is one round. It is driven from a single goroutine.
type Match struct {
	id      uuid.UUID
	cfg     Config
	clock   *clock.Manual
	env     *combat.Env
	effects *condition.GlobalEffects
	logger  *zap.Logger
	now     func() time.Time

	one, two *combat.Combatant

	paused      bool
	intro       int
	lastCount   int64
	roundOver   bool
	roundOverAt int64
	outcome     Outcome
	done        bool
	ticks       int
}

// New builds a round with both fighters standing at their spawn points.
//
// Precondition: deps.Clock, deps.Conditions, deps.Roller and deps.Logger must not be nil.
// Postcondition: the intro countdown is armed; nothing moves until it reaches zero.
func New(cfg Config, deps Deps, one, two Fighter) (*Match, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Clock == nil || deps.Conditions == nil {
		return nil, fmt.Errorf("match.New: clock and conditions are required")
	}
	curse, ok := deps.Conditions.Get(condition.Curse)
	if !ok {
		return nil, fmt.Errorf("match.New: condition %q not registered", condition.Curse)
	}
	effects, err := condition.NewGlobalEffects(curse)
	if err != nil {
		return nil, fmt.Errorf("match.New: %w", err)
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	m := &Match{
		id:        uuid.New(),
		cfg:       cfg,
		clock:     deps.Clock,
		effects:   effects,
		logger:    deps.Logger,
		now:       deps.Now,
		intro:     cfg.IntroSeconds,
		lastCount: deps.Clock.NowMs(),
	}
	m.env = &combat.Env{
		Clock:      deps.Clock,
		Arena:      deps.Arena,
		Conditions: deps.Conditions,
		Effects:    effects,
		Roller:     deps.Roller,
		Cues:       deps.Cues,
		Logger:     deps.Logger,
		Paused:     func() bool { return m.paused },
	}
	if m.one, err = spawn(m.env, one, combat.SideOne, SpawnOneX, false); err != nil {
		return nil, err
	}
	if m.two, err = spawn(m.env, two, combat.SideTwo, SpawnTwoX, true); err != nil {
		return nil, err
	}
	m.logger.Info("round starting",
		zap.String("match_id", m.id.String()),
		zap.Stringer("mode", cfg.Mode),
		zap.String("player1", one.Stats.Name),
		zap.String("player2", two.Stats.Name),
	)
	return m, nil
}

func spawn(env *combat.Env, f Fighter, side combat.Side, x int, facingLeft bool) (*combat.Combatant, error) {
	c, err := combat.NewCombatant(f.Stats, env, combat.Options{
		Side:       side,
		X:          x,
		FacingLeft: facingLeft,
		AI:         f.AI,
		Controller: f.Controller,
	})
	if err != nil {
		return nil, fmt.Errorf("match.New: %s: %w", side, err)
	}
	return c, nil
}

// ID returns the round's identifier.
func (m *Match) ID() uuid.UUID { return m.id }

// Config returns the round's settings.
func (m *Match) Config() Config { return m.cfg }

// One returns side one's combatant.
func (m *Match) One() *combat.Combatant { return m.one }

// Two returns side two's combatant.
func (m *Match) Two() *combat.Combatant { return m.two }

// Effects returns the match-wide status effects.
func (m *Match) Effects() *condition.GlobalEffects { return m.effects }

// Paused reports whether the round is paused.
func (m *Match) Paused() bool { return m.paused }

// Intro returns the seconds left on the countdown.
func (m *Match) Intro() int { return m.intro }

// RoundOver reports whether a winner has been decided.
func (m *Match) RoundOver() bool { return m.roundOver }

// Done reports whether the round and its cooldown have finished, or it was aborted.
func (m *Match) Done() bool { return m.done }

// Outcome returns the result so far.
func (m *Match) Outcome() Outcome { return m.outcome }

// Ticks returns how many unpaused ticks have run.
func (m *Match) Ticks() int { return m.ticks }

// Label returns the result banner, empty while undecided.
func (m *Match) Label() string { return Label(m.cfg.Mode, m.outcome) }

// TogglePause flips the pause state. Pausing is refused once the round is over.
func (m *Match) TogglePause() bool {
	if m.roundOver || m.done {
		return m.paused
	}
	m.paused = !m.paused
	m.logger.Info("round pause toggled",
		zap.String("match_id", m.id.String()),
		zap.Bool("paused", m.paused),
		zap.Int64("at_ms", m.clock.NowMs()),
	)
	return m.paused
}

// Tick advances the round by one fixed step: countdown or Move for both
// sides, Update for both sides, the round-end check, then global effects.
// While paused nothing runs and the clock stands still.
func (m *Match) Tick() {
	if m.done || m.paused {
		return
	}
	now := m.clock.Advance(m.cfg.TickMs)
	m.ticks++

	if m.intro > 0 {
		if now-m.lastCount >= countdownStepMs {
			m.intro--
			m.lastCount = now
			m.logger.Debug("countdown", zap.Int("remaining", m.intro))
		}
	} else {
		m.one.Move(m.two, m.roundOver)
		m.two.Move(m.one, m.roundOver)
	}
	m.one.Update()
	m.two.Update()

	if !m.roundOver {
		m.checkRoundEnd(now)
	} else if now-m.roundOverAt > m.cfg.RoundOverCooldownMs {
		m.done = true
	}
	m.tickEffects(now)
}

func (m *Match) checkRoundEnd(now int64) {
	oneDown, twoDown := !m.one.Alive(), !m.two.Alive()
	switch {
	case oneDown && twoDown:
		if m.cfg.SimultaneousDeath == DeathPriority {
			m.outcome = OutcomePlayer2
		} else {
			m.outcome = OutcomeDraw
		}
	case oneDown:
		m.outcome = OutcomePlayer2
	case twoDown:
		m.outcome = OutcomePlayer1
	default:
		return
	}
	m.roundOver = true
	m.roundOverAt = now
	m.logger.Info("round over",
		zap.String("match_id", m.id.String()),
		zap.Stringer("outcome", m.outcome),
		zap.String("label", m.Label()),
		zap.Int("ticks", m.ticks),
		zap.Int("player1_health", m.one.Health()),
		zap.Int("player2_health", m.two.Health()),
	)
}

func (m *Match) tickEffects(now int64) {
	if !m.effects.CurseActive() {
		return
	}
	caster, target := m.one, m.two
	if m.effects.IsCurseCaster(m.two) {
		caster, target = m.two, m.one
	}
	res := m.effects.Tick(now)
	switch {
	case res.Ticked:
		m.env.Cues.Cue(combat.Cue{
			Kind: combat.CueCurseTick, Source: caster.Side(), Target: target.Side(),
			Amount: res.TargetDamage, AtMs: now,
		})
		m.logger.Debug("curse tick",
			zap.Int("target_damage", res.TargetDamage),
			zap.Int("caster_damage", res.CasterDamage),
			zap.Int("tick", m.effects.Curse().TickCount),
		)
	case res.Ended:
		m.env.Cues.Cue(combat.Cue{Kind: combat.CueCurseEnded, Source: caster.Side(), Target: target.Side(), AtMs: now})
		m.logger.Debug("curse ended", zap.String("reason", res.Reason))
	}
}

// Abort ends the round early. A round still in progress is scored premature;
// a decided round keeps its outcome.
//
// Postcondition: Done() is true.
func (m *Match) Abort() {
	if m.done {
		return
	}
	m.done = true
	if m.roundOver {
		return
	}
	m.outcome = OutcomePremature
	m.logger.Info("round aborted",
		zap.String("match_id", m.id.String()),
		zap.Int("ticks", m.ticks),
	)
}

// Record returns the round's history entry.
//
// Precondition: the outcome is decided.
func (m *Match) Record() Record {
	return Record{
		ID:         m.id,
		Winner:     m.outcome,
		Archetype1: m.one.Stats().Name,
		Archetype2: m.two.Stats().Name,
		Mode:       m.cfg.Mode,
		Premature:  m.outcome == OutcomePremature,
		Ticks:      m.ticks,
		RecordedAt: m.now().UTC(),
	}
}
