package condition_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/game/condition"
)

func TestRegistry_Get_Found(t *testing.T) {
	reg := condition.NewRegistry()
	def := &condition.ConditionDef{ID: "slowed", Name: "Slowed", DurationMs: 500}
	reg.Register(def)
	got, ok := reg.Get("slowed")
	require.True(t, ok)
	assert.Equal(t, def, got)
}

func TestRegistry_Get_NotFound(t *testing.T) {
	reg := condition.NewRegistry()
	_, ok := reg.Get("nonexistent")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.MustGet("nonexistent") })
}

func TestRegistry_All_SortedCopy(t *testing.T) {
	reg := condition.NewRegistry()
	reg.Register(&condition.ConditionDef{ID: "b", DurationMs: 1})
	reg.Register(&condition.ConditionDef{ID: "a", DurationMs: 1})
	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID)
	all[0] = nil
	for _, d := range reg.All() {
		assert.NotNil(t, d, "registry must not be corrupted by mutating the returned slice")
	}
}

func TestBuiltin_HasRequiredConditions(t *testing.T) {
	reg := condition.Builtin()
	for _, id := range []string{condition.Stunned, condition.Rooted, condition.BlockExhausted, condition.Curse} {
		def, ok := reg.Get(id)
		require.True(t, ok, id)
		assert.NoError(t, def.Validate(), id)
	}
	curse := reg.MustGet(condition.Curse)
	assert.Equal(t, int64(8000), curse.DurationMs)
	assert.Equal(t, int64(1000), curse.TickIntervalMs)
	assert.Equal(t, 8, curse.MaxTicks)
	assert.Equal(t, 15, curse.TickDamage)
	assert.Equal(t, 5, curse.CasterTickDamage)
}

func TestLoadDirectory_OverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	yaml := `
id: stunned
name: Stunned
description: "Dazed."
duration_ms: 1500
restrict_actions:
  - attack
  - move
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stunned.yaml"), []byte(yaml), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	reg, err := condition.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get("stunned")
	require.True(t, ok)
	assert.Equal(t, int64(1500), got.DurationMs)
	assert.Equal(t, []string{"attack", "move"}, got.RestrictActions)
	_, ok = reg.Get(condition.Rooted)
	assert.True(t, ok, "builtins not overridden must remain")
}

func TestLoadDirectory_EmptyDirYieldsBuiltins(t *testing.T) {
	reg, err := condition.LoadDirectory(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, reg.All(), 4)
}

func TestLoadDirectory_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nduration_ms: 5\nbogus: 1\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_InvalidDurationRejected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nduration_ms: 0\n"), 0644))
	_, err := condition.LoadDirectory(dir)
	assert.ErrorContains(t, err, "duration_ms")
}

func TestLoadDirectory_MissingDir(t *testing.T) {
	_, err := condition.LoadDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestLoadDirectory_ShippedContent(t *testing.T) {
	reg, err := condition.LoadDirectory("../../../content/conditions")
	require.NoError(t, err)
	builtin := condition.Builtin()
	for _, def := range builtin.All() {
		got, ok := reg.Get(def.ID)
		require.True(t, ok, def.ID)
		assert.Equal(t, def.DurationMs, got.DurationMs, def.ID)
		assert.ElementsMatch(t, def.RestrictActions, got.RestrictActions, def.ID)
	}
}
