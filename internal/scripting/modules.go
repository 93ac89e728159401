package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine.* Lua tables into L for scope:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.chance(p) -> bool
//	engine.dice.between(low, high) -> number
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	engine := L.NewTable()

	logTbl := L.NewTable()
	logger := m.logger.With(zap.String("scope", scope))
	for name, write := range map[string]func(string, ...zap.Field){
		"debug": logger.Debug,
		"info":  logger.Info,
		"warn":  logger.Warn,
		"error": logger.Error,
	} {
		write := write
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			write(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	diceTbl := L.NewTable()
	L.SetField(diceTbl, "chance", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.roller.Chance(float64(L.CheckNumber(1)))))
		return 1
	}))
	L.SetField(diceTbl, "between", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.Between(L.CheckInt(1), L.CheckInt(2))))
		return 1
	}))
	L.SetField(engine, "dice", diceTbl)

	L.SetGlobal("engine", engine)
}
