// Package config provides Viper-based configuration loading for the duel runner.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StorageNone     = "none"
	StorageMemory   = "memory"
	StorageLocal    = "local"
	StoragePostgres = "postgres"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output is "stdout", "stderr" or a file path.
	Output string `mapstructure:"output"`
}

// MatchConfig holds the settings of a round.
type MatchConfig struct {
	// Mode is "pvp", "pve" or "eve".
	Mode string `mapstructure:"mode"`
	// TickRate is the number of simulation ticks per second.
	TickRate          int           `mapstructure:"tick_rate"`
	WorldWidth        int           `mapstructure:"world_width"`
	WorldHeight       int           `mapstructure:"world_height"`
	GroundOffset      int           `mapstructure:"ground_offset"`
	RoundOverCooldown time.Duration `mapstructure:"round_over_cooldown"`
	IntroSeconds      int           `mapstructure:"intro_seconds"`
	// SimultaneousDeath is "draw" or "priority".
	SimultaneousDeath string `mapstructure:"simultaneous_death"`
	// Seed drives every random draw; 0 selects a crypto source.
	Seed uint64 `mapstructure:"seed"`
	// MaxTicks bounds a headless round; 0 means unbounded.
	MaxTicks int    `mapstructure:"max_ticks"`
	Player1  string `mapstructure:"player1"`
	Player2  string `mapstructure:"player2"`
}

// TickMs returns the simulated milliseconds per tick.
//
// Precondition: TickRate > 0.
func (m MatchConfig) TickMs() int64 {
	return int64(1000 / m.TickRate)
}

// TickInterval returns the wall-clock interval between ticks.
//
// Precondition: TickRate > 0.
func (m MatchConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(m.TickRate)
}

// ContentConfig locates the data files loaded at startup. An empty directory
// falls back to the built-in definitions.
type ContentConfig struct {
	ArchetypesDir string `mapstructure:"archetypes_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	ScriptsDir    string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit caps Lua opcodes per hook call.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// StorageConfig selects where match records and settings go.
type StorageConfig struct {
	// Backend is one of "none", "memory", "local", "postgres".
	Backend string `mapstructure:"backend"`
	// AppName names the local data directory.
	AppName string `mapstructure:"app_name"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Match    MatchConfig    `mapstructure:"match"`
	Content  ContentConfig  `mapstructure:"content"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	for _, err := range []error{
		validateLogging(c.Logging),
		validateMatch(c.Match),
		validateContent(c.Content),
		validateStorage(c.Storage),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if c.Storage.Backend == StoragePostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateMatch(m MatchConfig) error {
	var errs []string
	validModes := map[string]bool{"pvp": true, "pve": true, "eve": true}
	if !validModes[strings.ToLower(m.Mode)] {
		errs = append(errs, fmt.Sprintf("match.mode must be one of [pvp, pve, eve], got %q", m.Mode))
	}
	if m.TickRate < 1 || m.TickRate > 1000 {
		errs = append(errs, fmt.Sprintf("match.tick_rate must be 1-1000, got %d", m.TickRate))
	}
	if m.WorldWidth < 1 || m.WorldHeight < 1 {
		errs = append(errs, fmt.Sprintf("match world must be positive, got %dx%d", m.WorldWidth, m.WorldHeight))
	}
	if m.GroundOffset < 0 || m.GroundOffset >= m.WorldHeight {
		errs = append(errs, fmt.Sprintf("match.ground_offset must be within the world height, got %d", m.GroundOffset))
	}
	if m.RoundOverCooldown < 0 {
		errs = append(errs, "match.round_over_cooldown must not be negative")
	}
	if m.IntroSeconds < 0 {
		errs = append(errs, fmt.Sprintf("match.intro_seconds must be >= 0, got %d", m.IntroSeconds))
	}
	if m.SimultaneousDeath != "draw" && m.SimultaneousDeath != "priority" {
		errs = append(errs, fmt.Sprintf("match.simultaneous_death must be one of [draw, priority], got %q", m.SimultaneousDeath))
	}
	if m.MaxTicks < 0 {
		errs = append(errs, fmt.Sprintf("match.max_ticks must be >= 0, got %d", m.MaxTicks))
	}
	if m.Player1 == "" || m.Player2 == "" {
		errs = append(errs, "match.player1 and match.player2 must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	if c.ScriptInstructionLimit < 0 {
		return fmt.Errorf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit)
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	switch s.Backend {
	case StorageNone, StorageMemory, StoragePostgres:
	case StorageLocal:
		if s.AppName == "" {
			return errors.New("storage.app_name must not be empty for the local backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of [none, memory, local, postgres], got %q", s.Backend)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and DUEL_ environment
// overrides installed.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")

	v.SetDefault("match.mode", "pve")
	v.SetDefault("match.tick_rate", 60)
	v.SetDefault("match.world_width", 1000)
	v.SetDefault("match.world_height", 600)
	v.SetDefault("match.ground_offset", 110)
	v.SetDefault("match.round_over_cooldown", "2s")
	v.SetDefault("match.intro_seconds", 3)
	v.SetDefault("match.simultaneous_death", "draw")
	v.SetDefault("match.seed", 0)
	v.SetDefault("match.max_ticks", 0)
	v.SetDefault("match.player1", "Knight")
	v.SetDefault("match.player2", "Mage")

	v.SetDefault("content.archetypes_dir", "")
	v.SetDefault("content.conditions_dir", "")
	v.SetDefault("content.scripts_dir", "")
	v.SetDefault("content.script_instruction_limit", 100000)

	v.SetDefault("storage.backend", "none")
	v.SetDefault("storage.app_name", "duel")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "duel")
	v.SetDefault("database.password", "duel")
	v.SetDefault("database.name", "duel")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
