package input_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/game/combat"
	"github.com/cory-johannsen/duel/internal/game/input"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name      string
		snap      input.Snapshot
		exhausted bool
		rooted    bool
		want      combat.Intent
	}{
		{"nothing", input.Snapshot{}, false, false, combat.Intent{}},
		{"block wins", input.Snapshot{Block: true, Special: true, MoveLeft: true, Attack1: true}, false, false, combat.Intent{Block: true}},
		{"exhausted block falls through", input.Snapshot{Block: true, MoveLeft: true}, true, false, combat.Intent{MoveX: -9}},
		{"special suppresses the rest", input.Snapshot{Special: true, MoveRight: true, Attack1: true}, false, false, combat.Intent{Attack: combat.AttackSpecial}},
		{"right wins over left", input.Snapshot{MoveLeft: true, MoveRight: true}, false, false, combat.Intent{MoveX: 9}},
		{"attack1 wins over attack2", input.Snapshot{Attack1: true, Attack2: true}, false, false, combat.Intent{Attack: combat.AttackPrimary}},
		{"attack2", input.Snapshot{Attack2: true, Jump: true}, false, false, combat.Intent{Attack: combat.AttackSecondary, Jump: true}},
		{"rooted cannot move or jump", input.Snapshot{MoveRight: true, Jump: true, Attack1: true}, false, true, combat.Intent{Attack: combat.AttackPrimary}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, input.Map(tc.snap, 9, tc.exhausted, tc.rooted))
		})
	}
}

func TestMap_BlockIsExclusive_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := input.Snapshot{
			MoveLeft:  rapid.Bool().Draw(rt, "left"),
			MoveRight: rapid.Bool().Draw(rt, "right"),
			Jump:      rapid.Bool().Draw(rt, "jump"),
			Block:     true,
			Attack1:   rapid.Bool().Draw(rt, "a1"),
			Attack2:   rapid.Bool().Draw(rt, "a2"),
			Special:   rapid.Bool().Draw(rt, "special"),
		}
		rooted := rapid.Bool().Draw(rt, "rooted")
		assert.Equal(rt, combat.Intent{Block: true}, input.Map(s, 7, false, rooted))
	})
}

func TestDefaultBindings(t *testing.T) {
	p1 := input.DefaultBindings(combat.SideOne)
	assert.Equal(t, []string{"a", "d", "r", "s", "t", "w", "y"}, p1.Keys())
	assert.Equal(t, input.Snapshot{MoveLeft: true, Attack1: true}, p1.Snapshot([]string{"A", "r", "up"}))

	p2 := input.DefaultBindings(combat.SideTwo)
	assert.Equal(t, input.Snapshot{Jump: true, Special: true}, p2.Snapshot([]string{"up", "kp3", "w"}))
}

func TestNewBindings_Rejects(t *testing.T) {
	_, err := input.NewBindings(map[string]input.Control{" ": input.ControlJump})
	assert.Error(t, err)
	_, err = input.NewBindings(map[string]input.Control{"x": input.Control(99)})
	assert.Error(t, err)
	_, err = input.NewBindings(map[string]input.Control{"X": input.ControlJump, "x": input.ControlBlock})
	assert.Error(t, err)
}

func TestParseLine(t *testing.T) {
	assert.Nil(t, input.ParseLine(""))
	assert.Nil(t, input.ParseLine("  -  "))
	assert.Nil(t, input.ParseLine("# comment"))
	assert.Equal(t, []string{"a", "w"}, input.ParseLine(" A  w "))
}

func TestScripted(t *testing.T) {
	script := "d\nd r\n-\n# idle\ny\n"
	ticks, err := input.ReadScript(strings.NewReader(script), input.DefaultBindings(combat.SideOne))
	require.NoError(t, err)
	require.Len(t, ticks, 5)

	p := input.NewScripted(map[combat.Side][]input.Snapshot{combat.SideOne: ticks})
	assert.Equal(t, 5, p.Remaining(combat.SideOne))
	assert.Equal(t, input.Snapshot{MoveRight: true}, p.Snapshot(combat.SideOne))
	assert.Equal(t, input.Snapshot{MoveRight: true, Attack1: true}, p.Snapshot(combat.SideOne))
	assert.Equal(t, input.Snapshot{}, p.Snapshot(combat.SideOne))
	assert.Equal(t, input.Snapshot{}, p.Snapshot(combat.SideOne))
	assert.Equal(t, input.Snapshot{Special: true}, p.Snapshot(combat.SideOne))
	assert.Equal(t, 0, p.Remaining(combat.SideOne))
	assert.Equal(t, input.Snapshot{}, p.Snapshot(combat.SideOne))
	assert.Equal(t, input.Snapshot{}, p.Snapshot(combat.SideTwo), "unscripted sides hold nothing")
}
