package ai

import (
	"fmt"

	"github.com/cory-johannsen/duel/internal/game/archetype"
)

// Registry indexes Policies by special-ability kind.
//
// Invariant: each kind is registered at most once.
type Registry struct {
	policies map[archetype.SpecialKind]Policy
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{policies: make(map[archetype.SpecialKind]Policy)}
}

// DefaultRegistry returns a Registry holding the built-in policy for every special kind.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for kind, p := range map[archetype.SpecialKind]Policy{
		archetype.SpecialGlobalStun:   Knight,
		archetype.SpecialGlobalAttack: Mage,
		archetype.SpecialScreenDash:   Ranger,
		archetype.SpecialHealthSteal:  Warlock,
		archetype.SpecialPullRoot:     Guardian,
		archetype.SpecialCurse:        Sage,
	} {
		r.policies[kind] = p
	}
	return r
}

// Register stores p for kind.
//
// Precondition: p must not be nil.
// Postcondition: returns error on kind collision.
func (r *Registry) Register(kind archetype.SpecialKind, p Policy) error {
	if p == nil {
		return fmt.Errorf("ai.Registry: policy for %s must not be nil", kind)
	}
	if _, exists := r.policies[kind]; exists {
		return fmt.Errorf("ai.Registry: policy for %s already registered", kind)
	}
	r.policies[kind] = p
	return nil
}

// PolicyFor returns the Policy for kind, or false if not registered.
func (r *Registry) PolicyFor(kind archetype.SpecialKind) (Policy, bool) {
	p, ok := r.policies[kind]
	return p, ok
}
