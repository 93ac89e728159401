// Package app assembles a runnable round from configuration: content
// registries, Lua hooks, per-side controllers, the match itself and the
// record sink.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/ai"
	"github.com/cory-johannsen/duel/internal/game/archetype"
	"github.com/cory-johannsen/duel/internal/game/arena"
	"github.com/cory-johannsen/duel/internal/game/clock"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/condition"
	"github.com/cory-johannsen/duel/internal/game/dice"
	"github.com/cory-johannsen/duel/internal/game/input"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/scripting"
)

// DefaultMaxTicks bounds a headless round when the configuration leaves it open:
// five minutes of simulated time at 60 ticks per second.
const DefaultMaxTicks = 5 * 60 * 60

// Options are the collaborators Build cannot derive from configuration.
type Options struct {
	Config config.Config
	Logger *zap.Logger
	// Input feeds human-controlled sides; nil leaves them idle.
	Input input.Provider
	// Cues receives combat events; may be nil.
	Cues combat.CueSink
	// Sink stores the finished round; nil stores nothing.
	Sink match.RecordSink
}

// App is one assembled round.
type App struct {
	cfg     config.Config
	logger  *zap.Logger
	match   *match.Match
	scripts *scripting.Manager
	sink    match.RecordSink
}

// Build loads content and wires a round ready to tick.
//
// Precondition: opts.Config must be valid; opts.Logger must not be nil.
// Postcondition: the caller must Close the returned App.
func Build(opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger
	start := time.Now()

	archetypes, err := loadArchetypes(cfg.Content.ArchetypesDir)
	if err != nil {
		return nil, err
	}
	conditions, err := loadConditions(cfg.Content.ConditionsDir)
	if err != nil {
		return nil, err
	}
	one, err := archetypes.Get(cfg.Match.Player1)
	if err != nil {
		return nil, fmt.Errorf("player1: %w", err)
	}
	two, err := archetypes.Get(cfg.Match.Player2)
	if err != nil {
		return nil, fmt.Errorf("player2: %w", err)
	}

	mcfg, err := MatchConfig(cfg.Match)
	if err != nil {
		return nil, err
	}

	roller := dice.NewLoggedRoller(source(cfg.Match.Seed), logger)

	a := &App{cfg: cfg, logger: logger, sink: opts.Sink}
	if cfg.Content.ScriptsDir != "" {
		a.scripts = scripting.NewManager(roller, logger)
		if _, err := a.scripts.LoadTree(cfg.Content.ScriptsDir, cfg.Content.ScriptInstructionLimit); err != nil {
			a.scripts.Close()
			return nil, err
		}
	}

	provider := opts.Input
	if provider == nil {
		provider = input.ProviderFunc(func(combat.Side) input.Snapshot { return input.Snapshot{} })
	}
	fighters := [2]match.Fighter{}
	for i, stats := range []*archetype.Stats{one, two} {
		side := combat.SideOne
		if i == 1 {
			side = combat.SideTwo
		}
		ctrl, err := a.controller(mcfg.Mode, side, stats, roller, provider)
		if err != nil {
			a.Close()
			return nil, err
		}
		fighters[i] = match.Fighter{Stats: stats, Controller: ctrl, AI: mcfg.Mode.AI(side)}
	}

	a.match, err = match.New(mcfg, match.Deps{
		Clock:      clock.NewManual(0),
		Arena:      arena.Arena{Width: cfg.Match.WorldWidth, Height: cfg.Match.WorldHeight, GroundOffset: cfg.Match.GroundOffset},
		Conditions: conditions,
		Roller:     roller,
		Cues:       opts.Cues,
		Logger:     logger,
	}, fighters[0], fighters[1])
	if err != nil {
		a.Close()
		return nil, err
	}

	logger.Info("round assembled",
		zap.Stringer("mode", mcfg.Mode),
		zap.Uint64("seed", cfg.Match.Seed),
		zap.Bool("scripts", a.scripts != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return a, nil
}

func (a *App) controller(mode match.Mode, side combat.Side, stats *archetype.Stats, roller *dice.Roller, provider input.Provider) (combat.Controller, error) {
	if !mode.AI(side) {
		return input.NewController(provider), nil
	}
	var caller ai.ScriptCaller
	if a.scripts != nil {
		caller = a.scripts
	}
	ctrl, err := ai.NewController(ai.DefaultRegistry(), stats, roller, caller, a.logger.With(zap.Stringer("side", side)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", side, err)
	}
	return ctrl, nil
}

// Match returns the assembled round.
func (a *App) Match() *match.Match { return a.match }

// Simulate runs the round headlessly and stores the record.
//
// Postcondition: the record is returned even when storing it fails.
func (a *App) Simulate(ctx context.Context) (match.Record, error) {
	limit := a.cfg.Match.MaxTicks
	if limit == 0 {
		limit = DefaultMaxTicks
	}
	rec, simErr := match.Simulate(ctx, a.match, limit)
	if a.sink == nil {
		return rec, simErr
	}
	// Store the aborted round even if ctx was the reason it stopped.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.sink.Record(storeCtx, rec); err != nil {
		return rec, errors.Join(simErr, fmt.Errorf("recording match %s: %w", rec.ID, err))
	}
	return rec, simErr
}

// Runner returns a real-time driver for the round at the configured tick rate.
func (a *App) Runner() *match.Runner {
	return match.NewRunner(a.match, a.sink, a.cfg.Match.TickInterval(), a.logger)
}

// Close releases the Lua VMs.
func (a *App) Close() {
	if a.scripts != nil {
		a.scripts.Close()
	}
}

// MatchConfig converts the file configuration into round settings.
func MatchConfig(m config.MatchConfig) (match.Config, error) {
	mode, err := match.ParseMode(m.Mode)
	if err != nil {
		return match.Config{}, err
	}
	out := match.Config{
		Mode:                mode,
		TickMs:              m.TickMs(),
		IntroSeconds:        m.IntroSeconds,
		RoundOverCooldownMs: m.RoundOverCooldown.Milliseconds(),
		SimultaneousDeath:   match.DeathPolicy(m.SimultaneousDeath),
	}
	return out, out.Validate()
}

func source(seed uint64) dice.Source {
	if seed == 0 {
		return dice.NewCryptoSource()
	}
	return dice.NewSeededSource(seed)
}

func loadArchetypes(dir string) (*archetype.Registry, error) {
	if dir == "" {
		return archetype.Builtin(), nil
	}
	reg, err := archetype.LoadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("loading archetypes: %w", err)
	}
	return reg, nil
}

func loadConditions(dir string) (*condition.Registry, error) {
	if dir == "" {
		return condition.Builtin(), nil
	}
	reg, err := condition.LoadDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("loading conditions: %w", err)
	}
	return reg, nil
}
