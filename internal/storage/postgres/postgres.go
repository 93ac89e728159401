// Package postgres persists match records in PostgreSQL using pgx v5 and
// owns the schema migrations for them.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
)

// PingTimeout bounds the reachability check Connect performs.
const PingTimeout = 5 * time.Second

// Connect opens a connection pool sized by cfg and checks that the server
// answers before handing it out.
//
// Precondition: cfg passes config.Config validation for the postgres backend.
// Postcondition: Returns a live pool the caller must Close, or a non-nil error
// with no resources held.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("postgres: opening pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: %s:%d unreachable: %w", cfg.Host, cfg.Port, err)
	}

	if logger != nil {
		logger.Info("database connected",
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port),
			zap.String("database", cfg.Name),
			zap.Int32("max_conns", cfg.MaxConns),
		)
	}
	return pool, nil
}
