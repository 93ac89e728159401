package condition

import (
	"fmt"
	"slices"
	"sort"
)

// ActiveCondition tracks one applied condition on a fighter.
type ActiveCondition struct {
	Def         *ConditionDef
	AppliedAtMs int64
	DurationMs  int64
}

// Remaining returns the milliseconds left before the condition expires, clamped at 0.
//
// Postcondition: 0 <= result <= DurationMs.
func (a *ActiveCondition) Remaining(nowMs int64) int64 {
	left := a.DurationMs - (nowMs - a.AppliedAtMs)
	if left < 0 {
		return 0
	}
	if left > a.DurationMs {
		return a.DurationMs
	}
	return left
}

// Expired reports whether the full duration has elapsed at nowMs.
func (a *ActiveCondition) Expired(nowMs int64) bool {
	return nowMs-a.AppliedAtMs >= a.DurationMs
}

// ActiveSet tracks all conditions currently applied to one fighter.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	conditions map[string]*ActiveCondition
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conditions: make(map[string]*ActiveCondition)}
}

// Apply adds a condition, or restarts its timer if already present.
// durationMs <= 0 uses def.DurationMs.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true and the timer starts at nowMs.
func (s *ActiveSet) Apply(def *ConditionDef, nowMs, durationMs int64) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if durationMs <= 0 {
		durationMs = def.DurationMs
	}
	s.conditions[def.ID] = &ActiveCondition{
		Def:         def,
		AppliedAtMs: nowMs,
		DurationMs:  durationMs,
	}
	return nil
}

// Remove deletes the condition with the given ID from the set.
// If the condition is not present, Remove is a no-op.
//
// Postcondition: Has(id) is false.
func (s *ActiveSet) Remove(id string) {
	delete(s.conditions, id)
}

// Has reports whether the condition with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.conditions[id]
	return ok
}

// Get returns the active condition with id.
func (s *ActiveSet) Get(id string) (*ActiveCondition, bool) {
	ac, ok := s.conditions[id]
	return ac, ok
}

// Remaining returns the milliseconds left on id, or 0 if it is not active.
func (s *ActiveSet) Remaining(id string, nowMs int64) int64 {
	if ac, ok := s.conditions[id]; ok {
		return ac.Remaining(nowMs)
	}
	return 0
}

// ExpireIfDue removes id when its duration has elapsed and reports whether it did.
func (s *ActiveSet) ExpireIfDue(id string, nowMs int64) bool {
	ac, ok := s.conditions[id]
	if !ok || !ac.Expired(nowMs) {
		return false
	}
	delete(s.conditions, id)
	return true
}

// Sweep removes every expired condition and returns their IDs in sorted order.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Sweep(nowMs int64) []string {
	var expired []string
	for id, ac := range s.conditions {
		if ac.Expired(nowMs) {
			expired = append(expired, id)
			delete(s.conditions, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Clear removes every condition.
func (s *ActiveSet) Clear() {
	clear(s.conditions)
}

// All returns the active conditions ordered by ID.
// The pointed-to ActiveCondition values are shared; callers must not modify them.
func (s *ActiveSet) All() []*ActiveCondition {
	out := make([]*ActiveCondition, 0, len(s.conditions))
	for _, ac := range s.conditions {
		out = append(out, ac)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}

// Restricts reports whether any active condition forbids action.
func (s *ActiveSet) Restricts(action string) bool {
	for _, ac := range s.conditions {
		if slices.Contains(ac.Def.RestrictActions, action) {
			return true
		}
	}
	return false
}
