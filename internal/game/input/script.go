package input

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

// ReadScript parses one tick of held keys per line from r using b.
//
// Postcondition: the result has one Snapshot per line read.
func ReadScript(r io.Reader, b *Bindings) ([]Snapshot, error) {
	var out []Snapshot
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, b.Snapshot(ParseLine(sc.Text())))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("input.ReadScript: %w", err)
	}
	return out, nil
}

// Scripted replays a fixed sequence of snapshots per side, one per call.
// Once a side's script runs out it holds nothing.
type Scripted struct {
	ticks  map[combat.Side][]Snapshot
	cursor map[combat.Side]int
}

// NewScripted returns a Provider replaying ticks.
func NewScripted(ticks map[combat.Side][]Snapshot) *Scripted {
	return &Scripted{ticks: ticks, cursor: make(map[combat.Side]int)}
}

// Snapshot returns the side's next scripted tick.
func (s *Scripted) Snapshot(side combat.Side) Snapshot {
	i := s.cursor[side]
	seq := s.ticks[side]
	if i >= len(seq) {
		return Snapshot{}
	}
	s.cursor[side] = i + 1
	return seq[i]
}

// Remaining returns how many scripted ticks are left for side.
func (s *Scripted) Remaining(side combat.Side) int {
	return max(len(s.ticks[side])-s.cursor[side], 0)
}
