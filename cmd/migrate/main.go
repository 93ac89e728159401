// Command migrate brings the match history schema up or down.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/observability"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrationsDir := flag.String("migrations", "migrations", "directory holding the *.sql migrations")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	if err := run(*configPath, *migrationsDir, *direction, *steps); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(configPath, migrationsDir, direction string, steps int) error {
	began := time.Now()

	d, err := postgres.ParseDirection(direction)
	if err != nil {
		return err
	}

	v := config.NewViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config %q: %w", configPath, err)
	}
	v.Set("storage.backend", config.StoragePostgres)
	cfg, err := config.LoadFromViper(v)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger("migrate", cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	st, err := postgres.Migrate(cfg.Database.DSN(), migrationsDir, d, steps)
	if err != nil {
		return err
	}
	logger.Info("schema migrated",
		zap.String("direction", string(d)),
		zap.Int("steps", steps),
		zap.Bool("changed", st.Changed),
		zap.Uint("version", st.Version),
		zap.Bool("dirty", st.Dirty),
		zap.Duration("elapsed", time.Since(began)),
	)
	return nil
}
