package scripting

import lua "github.com/yuin/gopher-lua"

// CallHook exposes generic hook dispatch to the external test package.
func (m *Manager) CallHook(scopeName, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.callHook(scopeName, hook, args...)
}
