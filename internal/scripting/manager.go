package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// globalScope is the reserved key for shared scripts loaded via LoadGlobal.
// Hook calls fall back to this VM when no scope VM is found.
const globalScope = "__global__"

// ShouldFleeHook is the global Lua function consulted before a defender's
// flee check. It receives a defender table and returns a boolean to decide,
// or nil to defer to the built-in bravery rule.
const ShouldFleeHook = "should_flee"

// DefenderInfo is a snapshot of a defender passed to Lua hooks.
type DefenderInfo struct {
	Name    string
	HP      int
	MaxHP   int
	Armor   int
	Bravery int
	Round   int
}

type scope struct {
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per scope (a land type name) and exposes
// hook dispatch. LStates are single-threaded, so every call is serialised.
type Manager struct {
	mu     sync.Mutex
	scopes map[string]*scope
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil {
		panic("scripting: NewManager requires a roller")
	}
	if logger == nil {
		panic("scripting: NewManager requires a logger")
	}
	return &Manager{
		scopes: make(map[string]*scope),
		roller: roller,
		logger: logger,
	}
}

// LoadScope creates a sandboxed VM for name, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: name must be non-empty; scriptDir must be a readable directory.
// Postcondition: The scope VM replaces any previous one; returns error on Lua load failure.
func (m *Manager) LoadScope(name, scriptDir string, instLimit int) error {
	return m.loadInto(name, scriptDir, instLimit)
}

// LoadGlobal creates the fallback VM shared by every scope without its own scripts.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.loadInto(globalScope, scriptDir, instLimit)
}

func (m *Manager) loadInto(key, scriptDir string, instLimit int) error {
	L := NewSandboxedState(instLimit)
	m.RegisterModules(L)

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
		if err := L.DoFile(path); err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.scopes[key]; ok {
		old.L.Close()
	}
	m.scopes[key] = &scope{L: L, limit: instLimit}
	m.mu.Unlock()
	return nil
}

// callHook calls the named Lua global function in the scope's VM, falling
// back to the global VM. Returns (LNil, nil) if the hook is not defined or no
// VM exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) callHook(scopeName, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.resolve(scopeName)
	if s == nil {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scopeName),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	return m.call(s, scopeName, hook, args...), nil
}

// ShouldFlee asks the should_flee hook whether the defender runs this round.
//
// Postcondition: decided is false when no hook exists or the hook returned a
// non-boolean; flee is only meaningful when decided is true.
func (m *Manager) ShouldFlee(scopeName string, d DefenderInfo) (flee, decided bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.resolve(scopeName)
	if s == nil {
		return false, false
	}
	tbl := s.L.NewTable()
	s.L.SetField(tbl, "name", lua.LString(d.Name))
	s.L.SetField(tbl, "hp", lua.LNumber(d.HP))
	s.L.SetField(tbl, "max_hp", lua.LNumber(d.MaxHP))
	s.L.SetField(tbl, "armor", lua.LNumber(d.Armor))
	s.L.SetField(tbl, "bravery", lua.LNumber(d.Bravery))
	s.L.SetField(tbl, "round", lua.LNumber(d.Round))

	b, ok := m.call(s, scopeName, ShouldFleeHook, tbl).(lua.LBool)
	if !ok {
		return false, false
	}
	return bool(b), true
}

// resolve returns the VM for scopeName or the global fallback.
// Precondition: m.mu is held.
func (m *Manager) resolve(scopeName string) *scope {
	if s, ok := m.scopes[scopeName]; ok {
		return s
	}
	return m.scopes[globalScope]
}

// call runs hook in s under a fresh instruction budget.
// Precondition: m.mu is held.
func (m *Manager) call(s *scope, scopeName, hook string, args ...lua.LValue) lua.LValue {
	fn := s.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}

	cancel := armLimit(s.L, s.limit)
	defer cancel()
	if err := s.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scopeName),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil
	}

	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret
}

// Close releases every VM. The Manager is empty afterwards and may be reloaded.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, s := range m.scopes {
		s.L.Close()
		delete(m.scopes, key)
	}
}
