package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/duel/internal/game/match"
)

// ErrMatchNotFound is returned when a match lookup yields no results.
var ErrMatchNotFound = errors.New("match not found")

// MatchRepository persists finished rounds. It implements match.RecordSink.
type MatchRepository struct {
	db *pgxpool.Pool
}

// NewMatchRepository creates a MatchRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Record inserts r. Recording the same match twice keeps the first row.
//
// Precondition: r.ID must be set.
// Postcondition: Returns nil once the row exists.
func (r *MatchRepository) Record(ctx context.Context, rec match.Record) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO matches
			(id, winner, archetype1, archetype2, mode, premature, ticks, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Winner.String(), rec.Archetype1, rec.Archetype2,
		rec.Mode.String(), rec.Premature, rec.Ticks, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}
	return nil
}

// Recent returns up to limit matches, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *MatchRepository) Recent(ctx context.Context, limit int) ([]match.Record, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, winner, archetype1, archetype2, mode, premature, ticks, recorded_at
		FROM matches ORDER BY recorded_at DESC, id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	out := make([]match.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get retrieves a match by ID.
//
// Postcondition: Returns the Record or ErrMatchNotFound.
func (r *MatchRepository) Get(ctx context.Context, id uuid.UUID) (match.Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx, `
		SELECT id, winner, archetype1, archetype2, mode, premature, ticks, recorded_at
		FROM matches WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Record{}, ErrMatchNotFound
		}
		return match.Record{}, err
	}
	return rec, nil
}

// Wins returns the number of decided rounds won by each archetype.
// Draws and premature rounds count for nobody.
func (r *MatchRepository) Wins(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT CASE winner WHEN $1 THEN archetype1 ELSE archetype2 END AS archetype, COUNT(*)
		FROM matches WHERE winner IN ($1, $2)
		GROUP BY 1`,
		match.OutcomePlayer1.String(), match.OutcomePlayer2.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("counting wins: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning win row: %w", err)
		}
		wins[name] += n
	}
	return wins, rows.Err()
}

func scanRecord(row pgx.Row) (match.Record, error) {
	var (
		rec          match.Record
		winner, mode string
	)
	if err := row.Scan(
		&rec.ID, &winner, &rec.Archetype1, &rec.Archetype2,
		&mode, &rec.Premature, &rec.Ticks, &rec.RecordedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.Record{}, err
		}
		return match.Record{}, fmt.Errorf("scanning match row: %w", err)
	}
	var err error
	if rec.Winner, err = match.ParseOutcome(winner); err != nil {
		return match.Record{}, fmt.Errorf("match %s: %w", rec.ID, err)
	}
	if rec.Mode, err = match.ParseMode(mode); err != nil {
		return match.Record{}, fmt.Errorf("match %s: %w", rec.ID, err)
	}
	return rec, nil
}
