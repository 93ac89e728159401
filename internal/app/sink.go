package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/game/match"
	"github.com/cory-johannsen/duel/internal/storage/history"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
)

// ErrNoHistory is returned by Recent for sinks that cannot be read back.
var ErrNoHistory = errors.New("storage backend keeps no history")

// OpenSink returns the record sink selected by cfg.Storage and a function
// releasing it. The "none" backend yields a nil sink.
func OpenSink(ctx context.Context, cfg config.Config, logger *zap.Logger) (match.RecordSink, func(), error) {
	noop := func() {}
	switch cfg.Storage.Backend {
	case config.StorageNone:
		return nil, noop, nil
	case config.StorageMemory:
		return &match.MemorySink{}, noop, nil
	case config.StorageLocal:
		store, err := history.Open(cfg.Storage.AppName, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.StoragePostgres:
		pool, err := postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, err
		}
		return postgres.NewMatchRepository(pool), pool.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// Recent returns up to n stored rounds from sink, newest first.
func Recent(ctx context.Context, sink match.RecordSink, n int) ([]match.Record, error) {
	var recs []match.Record
	switch s := sink.(type) {
	case *history.Store:
		recs = s.Recent()
	case *postgres.MatchRepository:
		return s.Recent(ctx, n)
	case *match.MemorySink:
		all := s.Records()
		for i := len(all) - 1; i >= 0; i-- {
			recs = append(recs, all[i])
		}
	default:
		return nil, ErrNoHistory
	}
	if len(recs) > n {
		recs = recs[:n]
	}
	return recs, nil
}
