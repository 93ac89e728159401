package combat

// CueKind identifies a discrete combat event.
type CueKind int

const (
	CueAttackStarted CueKind = iota + 1
	CueSpecialCast
	CueHitLanded
	CueBlocked
	CueBlockBroken
	CueStunned
	CuePulled
	CueRooted
	CueDied
	CueCurseTick
	CueCurseEnded
)

var cueNames = map[CueKind]string{
	CueAttackStarted: "attack_started",
	CueSpecialCast:   "special_cast",
	CueHitLanded:     "hit_landed",
	CueBlocked:       "blocked",
	CueBlockBroken:   "block_broken",
	CueStunned:       "stunned",
	CuePulled:        "pulled",
	CueRooted:        "rooted",
	CueDied:          "died",
	CueCurseTick:     "curse_tick",
	CueCurseEnded:    "curse_ended",
}

// String returns a snake_case cue name.
func (k CueKind) String() string {
	if s, ok := cueNames[k]; ok {
		return s
	}
	return "unknown"
}

// Cue is one event emitted for render and audio sinks.
type Cue struct {
	Kind   CueKind
	Source Side
	Target Side
	// Amount is damage, stamina or health involved, when meaningful.
	Amount int
	AtMs   int64
	// Sound is the archetype's sound key for attack cues.
	Sound string
}

// CueSink receives cues. Implementations must not call back into the combatant.
type CueSink interface {
	Cue(Cue)
}

// CueSinkFunc adapts a function into a CueSink.
type CueSinkFunc func(Cue)

// Cue calls f.
func (f CueSinkFunc) Cue(c Cue) { f(c) }
