package app

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Tally counts cues per side and kind. It is a combat.CueSink and is safe
// to read from another goroutine.
type Tally struct {
	mu     sync.Mutex
	counts map[combat.Side]map[combat.CueKind]int
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[combat.Side]map[combat.CueKind]int)}
}

// Cue counts c against its source side.
func (t *Tally) Cue(c combat.Cue) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.counts[c.Source]
	if !ok {
		m = make(map[combat.CueKind]int)
		t.counts[c.Source] = m
	}
	m[c.Kind]++
}

// Count returns how many cues of kind side produced.
func (t *Tally) Count(side combat.Side, kind combat.CueKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[side][kind]
}

// Line renders side's counts as "kind=n" pairs sorted by kind name.
func (t *Tally) Line(side combat.Side) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	parts := make([]string, 0, len(t.counts[side]))
	for kind, n := range t.counts[side] {
		parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
