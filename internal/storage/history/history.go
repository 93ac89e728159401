// Package history keeps the local match history and audio settings in the
// per-user data directory managed by quasilyte/gdata.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/quasilyte/gdata"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/match"
)

// Limit is the number of rounds kept in history.
const Limit = 10

const (
	historyKey  = "history"
	settingsKey = "settings"
)

// Items is the key/value blob store the Store persists through.
// *gdata.Manager satisfies it. LoadItem returns nil data for a missing key.
type Items interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// Settings are the persisted audio toggles.
type Settings struct {
	MusicOn bool
	SoundOn bool
}

// DefaultSettings has both music and sound on.
func DefaultSettings() Settings {
	return Settings{MusicOn: true, SoundOn: true}
}

// settingsFile leaves absent keys nil so they fall back to the defaults.
type settingsFile struct {
	MusicOn *bool `yaml:"music_on,omitempty"`
	SoundOn *bool `yaml:"sound_on,omitempty"`
}

// Store is a match.RecordSink backed by Items. It is safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	items  Items
	logger *zap.Logger
}

// Open opens the data directory for appName.
//
// Precondition: appName must be non-empty.
func Open(appName string, logger *zap.Logger) (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("opening data directory for %q: %w", appName, err)
	}
	return New(m, logger), nil
}

// New returns a Store over items.
//
// Precondition: items and logger must be non-nil.
func New(items Items, logger *zap.Logger) *Store {
	return &Store{items: items, logger: logger}
}

// Record appends r to the history, dropping the oldest entries beyond Limit.
func (s *Store) Record(_ context.Context, r match.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.load()
	recs = append(recs, r)
	if len(recs) > Limit {
		recs = recs[len(recs)-Limit:]
	}
	data, err := yaml.Marshal(recs)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := s.items.SaveItem(historyKey, data); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	s.logger.Debug("history updated",
		zap.String("match_id", r.ID.String()),
		zap.Int("entries", len(recs)),
	)
	return nil
}

// Recent returns the stored rounds, newest first.
func (s *Store) Recent() []match.Record {
	s.mu.Lock()
	recs := s.load()
	s.mu.Unlock()

	out := make([]match.Record, len(recs))
	for i, r := range recs {
		out[len(recs)-1-i] = r
	}
	return out
}

// load reads the history. An unreadable history is treated as empty.
func (s *Store) load() []match.Record {
	data, err := s.items.LoadItem(historyKey)
	if err != nil {
		s.logger.Warn("could not load history", zap.Error(err))
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var recs []match.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		s.logger.Warn("could not parse history", zap.Error(err))
		return nil
	}
	return recs
}

// Settings returns the saved audio settings. Missing or unreadable settings
// yield DefaultSettings.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := DefaultSettings()
	data, err := s.items.LoadItem(settingsKey)
	if err != nil {
		s.logger.Warn("could not load settings", zap.Error(err))
		return out
	}
	if len(data) == 0 {
		return out
	}
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		s.logger.Warn("could not parse settings", zap.Error(err))
		return out
	}
	if f.MusicOn != nil {
		out.MusicOn = *f.MusicOn
	}
	if f.SoundOn != nil {
		out.SoundOn = *f.SoundOn
	}
	return out
}

// SaveSettings persists st.
func (s *Store) SaveSettings(st Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(settingsFile{MusicOn: &st.MusicOn, SoundOn: &st.SoundOn})
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := s.items.SaveItem(settingsKey, data); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
