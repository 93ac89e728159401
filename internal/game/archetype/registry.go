package archetype

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Registry indexes archetypes by name, preserving registration order.
//
// Invariant: each name is registered at most once.
type Registry struct {
	byName map[string]*Stats
	order  []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Stats)}
}

// Register validates and stores s.
//
// Precondition: s must not be nil.
// Postcondition: returns error on validation failure or name collision.
func (r *Registry) Register(s *Stats) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, exists := r.byName[s.Name]; exists {
		return fmt.Errorf("archetype.Registry: %q already registered", s.Name)
	}
	r.byName[s.Name] = s
	r.order = append(r.order, s.Name)
	return nil
}

// Get returns the archetype named name. Lookup is case-insensitive.
func (r *Registry) Get(name string) (*Stats, error) {
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	for n, s := range r.byName {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
}

// Names returns archetype names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Builtin returns a Registry holding Knight, Mage, Ranger, Warlock, Guardian and Sage.
func Builtin() *Registry {
	reg := NewRegistry()
	for _, s := range builtinStats() {
		if err := reg.Register(s); err != nil {
			panic("archetype: invalid builtin: " + err.Error())
		}
	}
	return reg
}

// LoadDirectory reads every *.yaml file in dir, sorted by file name, parses each
// as Stats and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading archetype dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var s Stats
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := reg.Register(&s); err != nil {
			return nil, fmt.Errorf("registering %q: %w", path, err)
		}
	}
	return reg, nil
}
