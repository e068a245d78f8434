package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// RegisterModules registers the engine.log and engine.dice tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	level := func(log func(string, ...zap.Field)) lua.LGFunction {
		return func(L *lua.LState) int {
			log("lua: "+L.CheckString(1), zap.String("source", "script"))
			return 0
		}
	}
	L.SetField(mod, "debug", L.NewFunction(level(m.logger.Debug)))
	L.SetField(mod, "info", L.NewFunction(level(m.logger.Info)))
	L.SetField(mod, "warn", L.NewFunction(level(m.logger.Warn)))
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// engine.dice.roll("2d6+1") -> {total=, modifier=, dice={...}} or nil, err
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		expr, err := dice.Parse(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		res := m.roller.Roll(expr)
		tbl := L.NewTable()
		rolled := L.NewTable()
		for _, d := range res.Dice {
			rolled.Append(lua.LNumber(d))
		}
		L.SetField(tbl, "total", lua.LNumber(res.Total()))
		L.SetField(tbl, "modifier", lua.LNumber(res.Modifier))
		L.SetField(tbl, "dice", rolled)
		L.Push(tbl)
		return 1
	}))
	// engine.dice.percent(25) -> true on a successful d100 check
	L.SetField(mod, "percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(m.roller.Percent("lua", L.CheckInt(1))))
		return 1
	}))
	return mod
}
