// Package archetype holds the immutable character definitions fighters are built from.
package archetype

import (
	"errors"
	"fmt"
)

// ErrUnknownArchetype is returned when a name is not registered.
var ErrUnknownArchetype = errors.New("unknown archetype")

// FrameCount is the number of animation rows every sheet provides.
const FrameCount = 9

// Frames holds the frame count per action row, in the order
// idle, run, jump, attack1, attack2, hit, death, block, special.
type Frames [FrameCount]int

// Damage is the raw damage per attack kind.
type Damage struct {
	Primary   int `yaml:"primary"`
	Secondary int `yaml:"secondary"`
	Special   int `yaml:"special"`
}

// DamageFrames are the 1-based animation frames on which the basic attacks connect.
type DamageFrames struct {
	Primary   int `yaml:"primary"`
	Secondary int `yaml:"secondary"`
}

// Stats is the immutable definition of an archetype.
type Stats struct {
	Name             string       `yaml:"name"`
	Description      string       `yaml:"description"`
	Sheet            string       `yaml:"sheet"`
	Sound            string       `yaml:"sound"`
	Health           int          `yaml:"health"`
	Speed            int          `yaml:"speed"`
	AttackRange      float64      `yaml:"attack_range"`
	AnimationSpeedMs int64        `yaml:"animation_speed_ms"`
	Frames           Frames       `yaml:"frames"`
	Damage           Damage       `yaml:"damage"`
	DamageFrames     DamageFrames `yaml:"damage_frames"`
	BlockStamina     int          `yaml:"block_stamina"`
	Special          Special      `yaml:"special"`
	ReactionTimeMs   [2]int       `yaml:"reaction_time_ms"`
}

// Validate reports the first inconsistency in s.
//
// Postcondition: a nil return guarantees every field a combatant reads is usable.
func (s *Stats) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("archetype name must not be empty")
	}
	if s.Health <= 0 {
		return fmt.Errorf("archetype %q: health must be positive", s.Name)
	}
	if s.Speed < 0 || s.AttackRange <= 0 || s.AnimationSpeedMs <= 0 {
		return fmt.Errorf("archetype %q: speed, attack_range and animation_speed_ms out of range", s.Name)
	}
	for i, n := range s.Frames {
		if n <= 0 {
			return fmt.Errorf("archetype %q: frames[%d] must be positive", s.Name, i)
		}
	}
	if s.Damage.Primary < 0 || s.Damage.Secondary < 0 || s.Damage.Special < 0 {
		return fmt.Errorf("archetype %q: damage must not be negative", s.Name)
	}
	if s.DamageFrames.Primary < 1 || s.DamageFrames.Secondary < 1 {
		return fmt.Errorf("archetype %q: damage frames are 1-based", s.Name)
	}
	if s.BlockStamina < 0 {
		return fmt.Errorf("archetype %q: block_stamina must not be negative", s.Name)
	}
	if s.ReactionTimeMs[0] < 0 || s.ReactionTimeMs[1] < s.ReactionTimeMs[0] {
		return fmt.Errorf("archetype %q: reaction_time_ms must be [min, max] with 0 <= min <= max", s.Name)
	}
	if err := s.Special.Validate(); err != nil {
		return fmt.Errorf("archetype %q: %w", s.Name, err)
	}
	return nil
}

// CurseMultiplier returns the damage multiplier applied while this archetype's curse is active.
func (s *Stats) CurseMultiplier() float64 {
	if s.Special.Kind == SpecialCurse && s.Special.Curse != nil {
		return s.Special.Curse.DamageMultiplier
	}
	return 1
}
