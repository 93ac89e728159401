// Package testutil starts throwaway PostgreSQL servers for integration tests.
package testutil

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/duel/internal/config"
	"github.com/cory-johannsen/duel/internal/storage/postgres"
)

const (
	pgImage    = "postgres:16-alpine"
	pgCreds    = "duel_test"
	pgReadyLog = "database system is ready to accept connections"
)

// StartPostgres runs a PostgreSQL container for the lifetime of t and returns
// the settings to reach it. The test is skipped under -short.
//
// Precondition: a Docker daemon is reachable.
// Postcondition: the container is terminated by t.Cleanup.
func StartPostgres(t *testing.T) config.DatabaseConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in -short mode")
	}
	ctx := context.Background()
	began := time.Now()

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgCreds,
				"POSTGRES_PASSWORD": pgCreds,
				"POSTGRES_DB":       pgCreds,
			},
			// The server logs readiness once for the init pass and once for real.
			WaitingFor: wait.ForLog(pgReadyLog).WithOccurrence(2).WithStartupTimeout(45 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("starting %s: %v", pgImage, err)
	}
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := ctr.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	t.Logf("%s ready at %s:%s in %s", pgImage, host, port.Port(), time.Since(began).Round(time.Millisecond))

	return config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            pgCreds,
		Password:        pgCreds,
		Name:            pgCreds,
		SSLMode:         "disable",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: time.Minute,
	}
}

// NewPool starts a container, brings its schema to the latest migration and
// returns a pool closed by t.Cleanup.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	db := StartPostgres(t)
	if _, err := postgres.Migrate(db.DSN(), MigrationsDir(t), postgres.Up, 0); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	pool, err := postgres.Connect(context.Background(), db, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// MigrationsDir is the absolute path of the repository's migrations directory.
func MigrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("locating testutil source file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
