package match

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one finished round as kept in match history.
type Record struct {
	ID         uuid.UUID `yaml:"id"`
	Winner     Outcome   `yaml:"winner"`
	Archetype1 string    `yaml:"archetype1"`
	Archetype2 string    `yaml:"archetype2"`
	Mode       Mode      `yaml:"mode"`
	Premature  bool      `yaml:"premature"`
	Ticks      int       `yaml:"ticks"`
	RecordedAt time.Time `yaml:"recorded_at"`
}

// Summary returns a one-line description in the history screen's wording.
func (r Record) Summary() string {
	var result string
	switch r.Winner {
	case OutcomePremature:
		result = "Game closed"
	case OutcomePlayer1:
		result = r.Archetype1 + " won"
	case OutcomePlayer2:
		result = r.Archetype2 + " won"
	default:
		result = "Draw"
	}
	return r.Mode.String() + ": " + r.Archetype1 + " vs " + r.Archetype2 + " - " + result
}

// RecordSink stores finished rounds.
type RecordSink interface {
	Record(ctx context.Context, r Record) error
}

// MemorySink keeps records in memory. It is safe for concurrent use.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// Record appends r.
func (s *MemorySink) Record(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

// Records returns a copy of everything recorded, oldest first.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
