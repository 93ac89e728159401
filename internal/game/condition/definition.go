// Package condition tracks the timed status overlays a fighter can carry
// (stunned, rooted, block exhausted) and the match-wide curse effect.
package condition

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known condition IDs.
const (
	Stunned        = "stunned"
	Rooted         = "rooted"
	BlockExhausted = "block_exhausted"
	Curse          = "curse"
)

// Action names used in RestrictActions.
const (
	ActionMove   = "move"
	ActionJump   = "jump"
	ActionBlock  = "block"
	ActionAttack = "attack"
)

// ConditionDef is the static definition of a condition, loaded from YAML.
type ConditionDef struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	DurationMs      int64    `yaml:"duration_ms"`
	RestrictActions []string `yaml:"restrict_actions"`
	// Periodic fields are only meaningful for match-wide effects.
	TickIntervalMs   int64 `yaml:"tick_interval_ms"`
	MaxTicks         int   `yaml:"max_ticks"`
	TickDamage       int   `yaml:"tick_damage"`
	CasterTickDamage int   `yaml:"caster_tick_damage"`
}

// Validate reports the first structural problem with def.
func (d *ConditionDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("condition id must not be empty")
	}
	if d.DurationMs <= 0 {
		return fmt.Errorf("condition %q: duration_ms must be positive, got %d", d.ID, d.DurationMs)
	}
	if d.TickIntervalMs < 0 || d.MaxTicks < 0 || d.TickDamage < 0 || d.CasterTickDamage < 0 {
		return fmt.Errorf("condition %q: periodic fields must not be negative", d.ID)
	}
	return nil
}

// Registry holds all known ConditionDefs keyed by ID.
type Registry struct {
	defs map[string]*ConditionDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*ConditionDef)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *ConditionDef) {
	r.defs[def.ID] = def
}

// Get returns the ConditionDef for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*ConditionDef, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// MustGet returns the ConditionDef for id and panics if it is missing.
func (r *Registry) MustGet(id string) *ConditionDef {
	d, ok := r.defs[id]
	if !ok {
		panic("condition: unknown condition " + id)
	}
	return d
}

// All returns a snapshot slice of all registered ConditionDefs ordered by ID.
func (r *Registry) All() []*ConditionDef {
	out := make([]*ConditionDef, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Builtin returns a Registry holding the four conditions every match requires.
//
// Postcondition: Get succeeds for Stunned, Rooted, BlockExhausted and Curse.
func Builtin() *Registry {
	reg := NewRegistry()
	reg.Register(&ConditionDef{
		ID:              Stunned,
		Name:            "Stunned",
		Description:     "Cannot act until the stun wears off or a hit lands.",
		DurationMs:      2000,
		RestrictActions: []string{ActionMove, ActionJump, ActionBlock, ActionAttack},
	})
	reg.Register(&ConditionDef{
		ID:              Rooted,
		Name:            "Rooted",
		Description:     "Held in place after being pulled.",
		DurationMs:      2000,
		RestrictActions: []string{ActionMove, ActionJump},
	})
	reg.Register(&ConditionDef{
		ID:              BlockExhausted,
		Name:            "Block Exhausted",
		Description:     "Guard broken; block stamina refills when this ends.",
		DurationMs:      2000,
		RestrictActions: []string{ActionBlock},
	})
	reg.Register(&ConditionDef{
		ID:               Curse,
		Name:             "Curse",
		Description:      "Drains both fighters while the caster hits harder.",
		DurationMs:       8000,
		TickIntervalMs:   1000,
		MaxTicks:         8,
		TickDamage:       15,
		CasterTickDamage: 5,
	})
	return reg
}

// LoadDirectory reads every *.yaml file in dir, parses each as a ConditionDef,
// and returns a Registry seeded with Builtin and overlaid with the loaded files.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := Builtin()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def ConditionDef
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
