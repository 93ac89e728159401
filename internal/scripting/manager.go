package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duel/internal/game/dice"
)

// GlobalScope is the reserved key for shared scripts loaded via LoadGlobal.
// CallHook falls back to this VM when no scope VM is found.
const GlobalScope = "__global__"

// vm is one sandboxed LState plus the lock that serializes access to it.
type vm struct {
	mu        sync.Mutex
	L         *lua.LState
	instLimit int
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
// A scope is usually a lowercase archetype name.
//
// Manager is safe for concurrent CallHook. Calls into the same scope are
// serialized; different scopes run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with an empty scope map.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for scope, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: Scope VM is registered, replacing any previous one; returns
// error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string, instLimit int) error {
	if scope == "" {
		return fmt.Errorf("scripting: scope must not be empty")
	}
	return m.loadInto(scope, scriptDir, instLimit)
}

// LoadGlobal creates the GlobalScope VM, used as a CallHook fallback from
// any scope.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: Global VM is registered; returns error on Lua load failure.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(GlobalScope, scriptDir, instLimit)
}

// LoadTree loads a script tree: *.lua files directly under root go to the
// global VM and every subdirectory becomes a scope named after it, lowercased.
//
// Precondition: root must be a readable directory.
// Postcondition: Returns the names of the scopes loaded, sorted.
func (m *Manager) LoadTree(root string, instLimit int) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	if err := m.LoadGlobal(root, instLimit); err != nil {
		return nil, err
	}
	var scopes []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		scope := strings.ToLower(e.Name())
		if err := m.LoadScope(scope, filepath.Join(root, e.Name()), instLimit); err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	sort.Strings(scopes)
	m.logger.Info("scripts loaded",
		zap.String("root", root),
		zap.Strings("scopes", scopes),
	)
	return scopes, nil
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L := NewSandboxedState()
	m.RegisterModules(L, key)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := Budgeted(L, instLimit, func() error { return L.DoFile(path) }); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L, instLimit: instLimit}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	return nil
}

// Scopes returns the loaded scope names, sorted, excluding GlobalScope.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		if k != GlobalScope {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Close shuts down every VM and forgets all scopes.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()

	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}

// CallHook calls the named Lua global function in scope's VM. If the scope has
// no VM, or its VM does not define the hook, the GlobalScope VM is tried.
// Returns (LNil, nil) if the hook is not defined or no VM exists. Lua runtime
// errors, including an exhausted instruction budget, are logged at Warn level
// and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	candidates := make([]*vm, 0, 2)
	if v, ok := m.vms[scope]; ok {
		candidates = append(candidates, v)
	}
	if v, ok := m.vms[GlobalScope]; ok && scope != GlobalScope {
		candidates = append(candidates, v)
	}
	m.mu.RUnlock()

	if len(candidates) == 0 {
		m.logger.Info("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	for _, v := range candidates {
		ret, found := m.call(v, scope, hook, args)
		if found {
			return ret, nil
		}
	}
	return lua.LNil, nil
}

// call runs hook on v. found is false when v does not define the hook.
func (m *Manager) call(v *vm, scope, hook string, args []lua.LValue) (ret lua.LValue, found bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, false
	}

	err := Budgeted(v.L, v.instLimit, func() error {
		return v.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, args...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, true
	}

	ret = v.L.Get(-1)
	v.L.Pop(1)
	return ret, true
}
