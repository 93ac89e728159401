// Package main provides the arena binary: it runs one round between two
// archetypes, either headless at full speed or in real time, and stores the
// result in the configured history backend.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/app"
	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/input"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/observability"
	"github.com/cory-johannsen/duel/internal/server"
	"github.com/cory-johannsen/duel/internal/storage/history"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file; empty = defaults and environment only")
	mode := flag.String("mode", "", "override match.mode: pvp, pve or eve")
	p1 := flag.String("p1", "", "override match.player1 archetype")
	p2 := flag.String("p2", "", "override match.player2 archetype")
	seed := flag.Uint64("seed", 0, "override match.seed; 0 keeps the configured seed")
	storage := flag.String("storage", "", "override storage.backend: none, memory, local or postgres")
	realtime := flag.Bool("realtime", false, "tick on the wall clock instead of as fast as possible")
	scriptPath := flag.String("input", "", "input script for human sides: one line of held keys per tick")
	showHistory := flag.Bool("history", false, "print the stored match history and exit")
	music := flag.String("music", "", "save the music setting (on|off) to local storage")
	sound := flag.String("sound", "", "save the sound setting (on|off) to local storage")
	flag.Parse()

	ctx := context.Background()

	v := config.NewViper()
	if *configPath != "" {
		v.SetConfigFile(*configPath)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("reading config: %v", err)
		}
	}
	overrides := map[string]string{
		"match.mode":      *mode,
		"match.player1":   *p1,
		"match.player2":   *p2,
		"storage.backend": *storage,
	}
	for key, val := range overrides {
		if val != "" {
			v.Set(key, val)
		}
	}
	if *seed != 0 {
		v.Set("match.seed", *seed)
	}
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger("arena", cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	sink, release, err := app.OpenSink(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
	}
	defer release()

	if store, ok := sink.(*history.Store); ok {
		if err := applySettings(store, *music, *sound, logger); err != nil {
			logger.Fatal("saving settings", zap.Error(err))
		}
	}

	if *showHistory {
		printHistory(ctx, sink, logger)
		return
	}

	provider, err := loadInput(*scriptPath)
	if err != nil {
		logger.Fatal("loading input script", zap.String("path", *scriptPath), zap.Error(err))
	}

	tally := app.NewTally()
	a, err := app.Build(app.Options{
		Config: cfg,
		Logger: logger,
		Input:  provider,
		Cues:   tally,
		Sink:   sink,
	})
	if err != nil {
		logger.Fatal("assembling round", zap.Error(err))
	}
	defer a.Close()

	logger.Info("arena initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("player1", cfg.Match.Player1),
		zap.String("player2", cfg.Match.Player2),
		zap.Bool("realtime", *realtime),
	)

	var rec match.Record
	if *realtime {
		runner := a.Runner()
		lifecycle := server.NewLifecycle(logger)
		lifecycle.Add("match", runner)
		if err := lifecycle.Run(ctx); err != nil {
			logger.Fatal("match error", zap.Error(err))
		}
		<-runner.Finished()
		rec, _ = runner.Result()
	} else {
		rec, err = a.Simulate(ctx)
		if err != nil {
			logger.Error("simulation stopped", zap.Error(err))
		}
	}

	m := a.Match()
	fmt.Fprintf(os.Stdout, "%s\n%s\n", match.Label(rec.Mode, rec.Winner), rec.Summary())
	fmt.Fprintf(os.Stdout, "P1 %-8s hp=%-3d %s\n", m.One().Stats().Name, m.One().Health(), tally.Line(combat.SideOne))
	fmt.Fprintf(os.Stdout, "P2 %-8s hp=%-3d %s\n", m.Two().Stats().Name, m.Two().Health(), tally.Line(combat.SideTwo))
	fmt.Fprintf(os.Stdout, "ticks=%d [%s]\n", rec.Ticks, time.Since(start))
}

// loadInput reads a shared input script. Each side picks out its own keys
// through its default bindings.
func loadInput(path string) (input.Provider, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ticks := make(map[combat.Side][]input.Snapshot, 2)
	for _, side := range []combat.Side{combat.SideOne, combat.SideTwo} {
		snaps, err := input.ReadScript(bytes.NewReader(data), input.DefaultBindings(side))
		if err != nil {
			return nil, err
		}
		ticks[side] = snaps
	}
	return input.NewScripted(ticks), nil
}

func applySettings(store *history.Store, music, sound string, logger *zap.Logger) error {
	st := store.Settings()
	changed := false
	for _, s := range []struct {
		val string
		dst *bool
	}{{music, &st.MusicOn}, {sound, &st.SoundOn}} {
		switch s.val {
		case "":
		case "on":
			*s.dst, changed = true, true
		case "off":
			*s.dst, changed = false, true
		default:
			return fmt.Errorf("audio setting must be on or off, got %q", s.val)
		}
	}
	if changed {
		if err := store.SaveSettings(st); err != nil {
			return err
		}
	}
	logger.Info("audio settings",
		zap.Bool("music_on", st.MusicOn),
		zap.Bool("sound_on", st.SoundOn),
	)
	return nil
}

func printHistory(ctx context.Context, sink match.RecordSink, logger *zap.Logger) {
	recs, err := app.Recent(ctx, sink, history.Limit)
	if err != nil {
		logger.Fatal("reading history", zap.Error(err))
	}
	if len(recs) == 0 {
		fmt.Fprintln(os.Stdout, "No matches played yet")
		return
	}
	for i, r := range recs {
		fmt.Fprintf(os.Stdout, "%2d. %s\n", i+1, r.Summary())
	}
}
