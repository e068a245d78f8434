// Package scripting provides a sandboxed GopherLua execution environment for
// content scripts that tune defender behaviour. It has no dependency on the
// combat package; combat reaches in through Manager hooks.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// load or hook call when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's mainLoopWithContext calls Done() once
// per opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done returns the underlying cancellation channel. Each call decrements the
// remaining counter; when it reaches zero the cancel function fires.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{
		Context:   base,
		cancel:    cancel,
		remaining: rem,
	}, cancel
}

func effectiveLimit(instLimit int) int {
	if instLimit <= 0 {
		return DefaultInstructionLimit
	}
	return instLimit
}

// armLimit installs a fresh instruction budget on L. The returned cancel
// releases the budget's context and must be called once the execution ends.
func armLimit(L *lua.LState, instLimit int) context.CancelFunc {
	ctx, cancel := newCountingContext(effectiveLimit(instLimit))
	L.SetContext(ctx)
	return cancel
}

// NewSandboxedState creates a GopherLua LState with:
//   - Only safe stdlib loaded: base, table, string, math
//   - Dangerous globals removed: dofile, loadfile, load, collectgarbage, require
//   - Execution limited to at most instLimit Lua opcodes
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: Returns a non-nil LState whose current budget covers loading.
// The caller owns the LState and must call L.Close() when done.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	armLimit(L, instLimit) //nolint:govet // cancel fires automatically when the budget is spent
	return L
}
