// Package scripting runs archetype AI hooks in sandboxed GopherLua states.
// It knows nothing about combat; callers pass plain Lua values in and read
// plain Lua values out.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps the opcodes one load or hook call may execute
// when no limit is configured.
const DefaultInstructionLimit = 100_000

// safeLibs are the only standard libraries a sandboxed state opens.
var safeLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// strippedGlobals are base-library functions that reach the filesystem, the
// loader or the collector.
var strippedGlobals = []string{"dofile", "loadfile", "load", "collectgarbage", "require"}

// budgetContext cancels itself once Done has been polled `left` times.
// GopherLua polls Done once per opcode while a context is set.
type budgetContext struct {
	context.Context
	left   atomic.Int64
	cancel context.CancelFunc
}

func (b *budgetContext) Done() <-chan struct{} {
	if b.left.Add(-1) < 0 {
		b.cancel()
	}
	return b.Context.Done()
}

func newBudget(ops int) (*budgetContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	b := &budgetContext{Context: ctx, cancel: cancel}
	b.left.Store(int64(ops))
	return b, cancel
}

// NewSandboxedState returns an LState limited to the base, table, string and
// math libraries, with the loader and collector globals removed.
// The caller owns the state and must Close it.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range safeLibs {
		open(L)
	}
	for _, name := range strippedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Budgeted runs fn while L is bound to a fresh budget of instLimit opcodes;
// Lua code that exceeds it raises an error inside fn. A non-positive limit
// means DefaultInstructionLimit.
//
// Postcondition: L carries no context when Budgeted returns.
func Budgeted(L *lua.LState, instLimit int, fn func() error) error {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	ctx, cancel := newBudget(instLimit)
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()
	return fn()
}
