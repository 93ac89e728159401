package match

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/duel/internal/game/combat"
)

// Mode selects which sides are computer-controlled.
type Mode int

const (
	// ModePVP puts a human on both sides.
	ModePVP Mode = iota + 1
	// ModePVE puts the computer on side two.
	ModePVE
	// ModeEVE is an exhibition between two computer fighters.
	ModeEVE
)

// String returns "PVP", "PVE" or "EVE".
func (m Mode) String() string {
	switch m {
	case ModePVP:
		return "PVP"
	case ModePVE:
		return "PVE"
	case ModeEVE:
		return "EVE"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PVP":
		return ModePVP, nil
	case "PVE":
		return ModePVE, nil
	case "EVE":
		return ModeEVE, nil
	default:
		return 0, fmt.Errorf("unknown match mode %q", s)
	}
}

// AI reports whether side is computer-controlled in this mode.
func (m Mode) AI(side combat.Side) bool {
	switch m {
	case ModeEVE:
		return true
	case ModePVE:
		return side == combat.SideTwo
	default:
		return false
	}
}

// MarshalYAML encodes the mode by name.
func (m Mode) MarshalYAML() (interface{}, error) { return m.String(), nil }

// UnmarshalYAML decodes a mode name.
func (m *Mode) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseMode(n.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Outcome is how a round ended.
type Outcome int

const (
	// OutcomeNone means the round is still undecided.
	OutcomeNone Outcome = iota
	OutcomePlayer1
	OutcomePlayer2
	OutcomeDraw
	// OutcomePremature marks a round abandoned before anyone fell.
	OutcomePremature
)

var outcomeNames = map[Outcome]string{
	OutcomeNone:      "none",
	OutcomePlayer1:   "player1",
	OutcomePlayer2:   "player2",
	OutcomeDraw:      "draw",
	OutcomePremature: "premature",
}

// String returns the stored outcome name.
func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// ParseOutcome parses a stored outcome name.
func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return OutcomeNone, fmt.Errorf("unknown outcome %q", s)
}

// MarshalYAML encodes the outcome by name.
func (o Outcome) MarshalYAML() (interface{}, error) { return o.String(), nil }

// UnmarshalYAML decodes an outcome name.
func (o *Outcome) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseOutcome(n.Value)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Label returns the banner shown for an outcome. In PVE the human on side one
// sees VICTORY or DEFEAT.
func Label(mode Mode, o Outcome) string {
	switch o {
	case OutcomePlayer1:
		if mode == ModePVE {
			return "VICTORY"
		}
		return "PLAYER 1 WINS"
	case OutcomePlayer2:
		if mode == ModePVE {
			return "DEFEAT"
		}
		return "PLAYER 2 WINS"
	case OutcomeDraw:
		return "DRAW"
	case OutcomePremature:
		return "GAME CLOSED"
	default:
		return ""
	}
}

// DeathPolicy resolves a tick on which both fighters fall.
type DeathPolicy string

const (
	// DeathDraw scores a simultaneous knockout as a draw.
	DeathDraw DeathPolicy = "draw"
	// DeathPriority checks side one first, so side two wins a simultaneous knockout.
	DeathPriority DeathPolicy = "priority"
)
