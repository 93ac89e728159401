package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Direction selects which way Migrate walks the schema history.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case Up, Down:
		return d, nil
	default:
		return "", fmt.Errorf("postgres: invalid migration direction %q (want up or down)", s)
	}
}

// SchemaState reports where the schema stands after Migrate.
type SchemaState struct {
	Version uint
	Dirty   bool
	// Changed is false when there was nothing to apply.
	Changed bool
}

// Migrate applies the *.sql migrations found in dir to the database at dsn.
// steps limits how many migrations run; 0 runs all of them in direction d.
//
// Postcondition: On success the returned state reflects the schema version
// now recorded in the database.
func Migrate(dsn, dir string, d Direction, steps int) (SchemaState, error) {
	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return SchemaState{}, fmt.Errorf("postgres: opening migrations in %q: %w", dir, err)
	}
	defer m.Close()

	switch {
	case steps > 0 && d == Down:
		err = m.Steps(-steps)
	case steps > 0:
		err = m.Steps(steps)
	case d == Down:
		err = m.Down()
	default:
		err = m.Up()
	}

	st := SchemaState{Changed: true}
	if errors.Is(err, migrate.ErrNoChange) {
		st.Changed = false
	} else if err != nil {
		return SchemaState{}, fmt.Errorf("postgres: migrating %s: %w", d, err)
	}

	st.Version, st.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return SchemaState{}, fmt.Errorf("postgres: reading schema version: %w", err)
	}
	return st, nil
}
