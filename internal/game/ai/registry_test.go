package ai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/duel/internal/game/ai"
	"github.com/cory-johannsen/duel/internal/game/archetype"
)

func TestDefaultRegistry_CoversEveryBuiltinArchetype(t *testing.T) {
	reg := ai.DefaultRegistry()
	builtin := archetype.Builtin()
	for _, name := range builtin.Names() {
		stats, err := builtin.Get(name)
		require.NoError(t, err)
		_, ok := reg.PolicyFor(stats.Special.Kind)
		assert.True(t, ok, "no policy for %s", name)
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := ai.NewRegistry()
	_, ok := reg.PolicyFor(archetype.SpecialGlobalStun)
	assert.False(t, ok)

	require.NoError(t, reg.Register(archetype.SpecialGlobalStun, ai.Knight))
	_, ok = reg.PolicyFor(archetype.SpecialGlobalStun)
	assert.True(t, ok)

	assert.Error(t, reg.Register(archetype.SpecialGlobalStun, ai.Mage), "duplicate kind")
	assert.Error(t, reg.Register(archetype.SpecialGlobalAttack, nil))
}
