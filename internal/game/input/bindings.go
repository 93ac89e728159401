package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Control is one logical button.
type Control int

const (
	ControlLeft Control = iota + 1
	ControlRight
	ControlJump
	ControlBlock
	ControlAttack1
	ControlAttack2
	ControlSpecial
)

var controlNames = map[Control]string{
	ControlLeft:    "left",
	ControlRight:   "right",
	ControlJump:    "jump",
	ControlBlock:   "block",
	ControlAttack1: "attack1",
	ControlAttack2: "attack2",
	ControlSpecial: "special",
}

// String returns the control's lower-case name.
func (c Control) String() string {
	if n, ok := controlNames[c]; ok {
		return n
	}
	return fmt.Sprintf("control(%d)", int(c))
}

// Bindings maps key names to controls.
//
// Invariant: every key is bound to exactly one control.
type Bindings struct {
	keys map[string]Control
}

// NewBindings builds Bindings from key → control pairs. Key names are case-insensitive.
//
// Postcondition: returns an error on empty or duplicate key names.
func NewBindings(pairs map[string]Control) (*Bindings, error) {
	b := &Bindings{keys: make(map[string]Control, len(pairs))}
	for key, ctrl := range pairs {
		k := strings.ToLower(strings.TrimSpace(key))
		if k == "" {
			return nil, fmt.Errorf("input.Bindings: empty key for %s", ctrl)
		}
		if _, ok := controlNames[ctrl]; !ok {
			return nil, fmt.Errorf("input.Bindings: key %q bound to unknown %s", k, ctrl)
		}
		if existing, dup := b.keys[k]; dup {
			return nil, fmt.Errorf("input.Bindings: key %q bound to both %s and %s", k, existing, ctrl)
		}
		b.keys[k] = ctrl
	}
	return b, nil
}

// DefaultBindings returns the classic two-players-one-keyboard layout:
// player 1 on a/d/w/s with r, t, y; player 2 on the arrows with the keypad.
func DefaultBindings(side combat.Side) *Bindings {
	var pairs map[string]Control
	if side == combat.SideTwo {
		pairs = map[string]Control{
			"left": ControlLeft, "right": ControlRight, "up": ControlJump, "down": ControlBlock,
			"kp1": ControlAttack1, "kp2": ControlAttack2, "kp3": ControlSpecial,
		}
	} else {
		pairs = map[string]Control{
			"a": ControlLeft, "d": ControlRight, "w": ControlJump, "s": ControlBlock,
			"r": ControlAttack1, "t": ControlAttack2, "y": ControlSpecial,
		}
	}
	b, err := NewBindings(pairs)
	if err != nil {
		panic(fmt.Sprintf("building default bindings: %v", err))
	}
	return b
}

// Keys returns the bound key names in sorted order.
func (b *Bindings) Keys() []string {
	out := make([]string, 0, len(b.keys))
	for k := range b.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns the controls held by the given key names. Unbound keys are ignored.
func (b *Bindings) Snapshot(held []string) Snapshot {
	var s Snapshot
	for _, key := range held {
		switch b.keys[strings.ToLower(key)] {
		case ControlLeft:
			s.MoveLeft = true
		case ControlRight:
			s.MoveRight = true
		case ControlJump:
			s.Jump = true
		case ControlBlock:
			s.Block = true
		case ControlAttack1:
			s.Attack1 = true
		case ControlAttack2:
			s.Attack2 = true
		case ControlSpecial:
			s.Special = true
		}
	}
	return s
}

// ParseLine splits a line of held key names. Blank lines and lines starting
// with '#' hold nothing; "-" is an explicit empty tick.
func ParseLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" || line == "-" || strings.HasPrefix(line, "#") {
		return nil
	}
	return strings.Fields(strings.ToLower(line))
}
