package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the engine.* tables into L:
//
//	engine.log.debug|info|warn|error(msg)
//	engine.dice.roll(expr)            -> {total, dice, modifier} or nil
//	engine.types.effectiveness(a, d)  -> multiplier (1 without a callback)
//
// Precondition: L must come from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTbl := L.NewTable()
	for name, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		fn := fn
		L.SetField(logTbl, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	diceTbl := L.NewTable()
	L.SetField(diceTbl, "roll", L.NewFunction(m.luaRoll))
	L.SetField(engine, "dice", diceTbl)

	typesTbl := L.NewTable()
	L.SetField(typesTbl, "effectiveness", L.NewFunction(func(L *lua.LState) int {
		a, d := L.CheckString(1), L.CheckString(2)
		mult := 1.0
		if m.Effectiveness != nil {
			mult = m.Effectiveness(a, d)
		}
		L.Push(lua.LNumber(mult))
		return 1
	}))
	L.SetField(engine, "types", typesTbl)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		m.logger.Warn("scripting: bad dice expression", zap.Error(err))
		L.Push(lua.LNil)
		return 1
	}
	sum := 0
	for _, d := range res.Dice {
		sum += d
	}
	t := L.NewTable()
	L.SetField(t, "total", lua.LNumber(res.Total()))
	L.SetField(t, "dice", lua.LNumber(sum))
	L.SetField(t, "modifier", lua.LNumber(res.Modifier))
	L.Push(t)
	return 1
}
