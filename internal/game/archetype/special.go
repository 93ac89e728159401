package archetype

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SpecialKind identifies an archetype's special ability. The set is closed.
type SpecialKind int

const (
	// SpecialGlobalStun stuns the opponent wherever they are.
	SpecialGlobalStun SpecialKind = iota + 1
	// SpecialGlobalAttack damages the opponent wherever they are.
	SpecialGlobalAttack
	// SpecialHealthSteal drains health from an opponent inside the hitbox.
	SpecialHealthSteal
	// SpecialCurse starts the match-wide curse.
	SpecialCurse
	// SpecialScreenDash dashes across the arena, striking on first contact.
	SpecialScreenDash
	// SpecialPullRoot drags the opponent in and roots them.
	SpecialPullRoot
)

var specialKindNames = map[SpecialKind]string{
	SpecialGlobalStun:   "global_stun",
	SpecialGlobalAttack: "global_attack",
	SpecialHealthSteal:  "health_steal",
	SpecialCurse:        "curse_effect",
	SpecialScreenDash:   "screen_dash",
	SpecialPullRoot:     "pull_root",
}

// String returns the content name of the kind, e.g. "global_stun".
func (k SpecialKind) String() string {
	if s, ok := specialKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("special(%d)", int(k))
}

// ParseSpecialKind converts a content name into a SpecialKind.
func ParseSpecialKind(s string) (SpecialKind, error) {
	for k, name := range specialKindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown special kind %q", s)
}

// UnmarshalYAML decodes a SpecialKind from its content name.
func (k *SpecialKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseSpecialKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes a SpecialKind as its content name.
func (k SpecialKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// StealParams configures SpecialHealthSteal.
type StealParams struct {
	Amount int `yaml:"amount"`
}

// CurseParams configures SpecialCurse.
type CurseParams struct {
	DamageMultiplier float64 `yaml:"damage_multiplier"`
}

// DashParams configures SpecialScreenDash.
type DashParams struct {
	Speed    int `yaml:"speed"`
	Distance int `yaml:"distance"`
}

// PullParams configures SpecialPullRoot.
type PullParams struct {
	RootDurationMs int64 `yaml:"root_duration_ms"`
	Distance       int   `yaml:"distance"`
	Speed          int   `yaml:"speed"`
}

// Special describes an archetype's special ability. Exactly the parameter block
// matching Kind is set; kinds without parameters carry none.
type Special struct {
	Kind       SpecialKind  `yaml:"kind"`
	CooldownMs int64        `yaml:"cooldown_ms"`
	CastTimeMs int64        `yaml:"cast_time_ms"`
	Steal      *StealParams `yaml:"steal,omitempty"`
	Curse      *CurseParams `yaml:"curse,omitempty"`
	Dash       *DashParams  `yaml:"dash,omitempty"`
	Pull       *PullParams  `yaml:"pull,omitempty"`
}

// Validate reports whether the parameter blocks agree with Kind.
func (s *Special) Validate() error {
	if _, ok := specialKindNames[s.Kind]; !ok {
		return fmt.Errorf("special kind must be set")
	}
	if s.CooldownMs < 0 || s.CastTimeMs < 0 {
		return fmt.Errorf("special %s: cooldown_ms and cast_time_ms must not be negative", s.Kind)
	}
	want := map[SpecialKind]bool{
		SpecialHealthSteal: s.Steal != nil,
		SpecialCurse:       s.Curse != nil,
		SpecialScreenDash:  s.Dash != nil,
		SpecialPullRoot:    s.Pull != nil,
	}
	for kind, present := range want {
		if kind == s.Kind && !present {
			return fmt.Errorf("special %s: missing parameter block", s.Kind)
		}
		if kind != s.Kind && present {
			return fmt.Errorf("special %s: unexpected parameter block for %s", s.Kind, kind)
		}
	}
	switch s.Kind {
	case SpecialHealthSteal:
		if s.Steal.Amount <= 0 {
			return fmt.Errorf("special %s: steal.amount must be positive", s.Kind)
		}
	case SpecialCurse:
		if s.Curse.DamageMultiplier < 1 {
			return fmt.Errorf("special %s: curse.damage_multiplier must be >= 1", s.Kind)
		}
	case SpecialScreenDash:
		if s.Dash.Speed <= 0 || s.Dash.Distance <= 0 {
			return fmt.Errorf("special %s: dash.speed and dash.distance must be positive", s.Kind)
		}
	case SpecialPullRoot:
		if s.Pull.Speed <= 0 || s.Pull.Distance < 0 || s.Pull.RootDurationMs <= 0 {
			return fmt.Errorf("special %s: pull parameters out of range", s.Kind)
		}
	}
	return nil
}
