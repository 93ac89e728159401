package scripting_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duel/internal/scripting"
)

func runScript(t *testing.T, mgr *scripting.Manager, luaSrc, hook string, args ...lua.LValue) lua.LValue {
	t.Helper()
	dir := writeTempLua(t, "test.lua", luaSrc)
	scope := "modtest_" + t.Name()
	require.NoError(t, mgr.LoadScope(scope, dir, 0))
	ret, err := mgr.CallHook(scope, hook, args...)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, `
		function do_all_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_all_logs")

	seen := map[string]bool{}
	for _, e := range logs.FilterField(zap.String("source", "lua")).All() {
		seen[e.Message] = true
	}
	for _, msg := range []string{"d", "i", "w", "e"} {
		assert.True(t, seen[msg], "expected lua log %q", msg)
	}
}

func TestEngineLog_TaggedWithScope(t *testing.T) {
	mgr, logs := newTestManager(t)
	runScript(t, mgr, `
		function do_log()
			engine.log.info("hello from lua")
		end
	`, "do_log")
	entries := logs.FilterMessage("hello from lua").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "modtest_"+t.Name(), entries[0].ContextMap()["scope"])
}

func TestEngineDice_Chance_Extremes(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret := runScript(t, mgr, `
		function extremes()
			return engine.dice.chance(1) and not engine.dice.chance(0)
		end
	`, "extremes")
	assert.Equal(t, lua.LTrue, ret)
}

func TestEngineDice_Between_InRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "between.lua", `
		function pick(lo, hi)
			return engine.dice.between(lo, hi)
		end
	`)
	require.NoError(t, mgr.LoadScope("between", dir, 0))
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+100).Draw(rt, "hi")
		ret, err := mgr.CallHook("between", "pick", lua.LNumber(lo), lua.LNumber(hi))
		if err != nil {
			rt.Fatal(err)
		}
		n, ok := ret.(lua.LNumber)
		if !ok {
			rt.Fatalf("expected number, got %s", ret.Type())
		}
		if int(n) < lo || int(n) > hi {
			rt.Fatalf("%d outside [%d, %d]", int(n), lo, hi)
		}
	})
}

func TestEngineDice_Between_BadArgs_WarnsAndReturnsNil(t *testing.T) {
	mgr, logs := newTestManager(t)
	ret := runScript(t, mgr, `
		function bad()
			return engine.dice.between("x", 2)
		end
	`, "bad")
	assert.Equal(t, lua.LNil, ret)
	assert.True(t, hasLevel(logs, zap.WarnLevel))
}
