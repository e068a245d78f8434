package scripting_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/conquest/internal/scripting"
)

func TestNewSandboxedState_OnlyCombatSafeGlobals(t *testing.T) {
	L := scripting.NewSandboxedState(0)
	require.NotNil(t, L)
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "require", "dofile", "loadfile", "load", "collectgarbage"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "%s must not be reachable from content scripts", name)
	}
	assert.NoError(t, L.DoString(`assert(math.floor(string.len("wolf") / 3) == 1)`))
}

func TestManager_LoadScope_RunawayTopLevelFails(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "runaway.lua", `while true do end`)
	assert.Error(t, mgr.LoadScope("Swamp", dir, 500))

	_, decided := mgr.ShouldFlee("Swamp", scripting.DefenderInfo{Name: "Bog Troll", HP: 1, MaxHP: 40})
	assert.False(t, decided, "a scope that failed to load has no hooks")
}

// Each iteration of the loops below costs two opcodes, so one call fits in
// the budget of 2000 while any two together do not.
const heavyFleeScript = `
	local warmup = 0
	for i = 1, %d do warmup = warmup + i end

	function should_flee(d)
		local s = 0
		for i = 1, 600 do s = s + i end
		return d.hp * 2 < d.max_hp
	end
`

func TestManager_ShouldFlee_BudgetRearmedEveryCall(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "heavy.lua", fmt.Sprintf(heavyFleeScript, 1))
	require.NoError(t, mgr.LoadScope("Marsh", dir, 2000))

	for round := 1; round <= 20; round++ {
		flee, decided := mgr.ShouldFlee("Marsh", scripting.DefenderInfo{Name: "Lizardman", HP: 5, MaxHP: 30, Round: round})
		require.True(t, decided, "round %d", round)
		assert.True(t, flee, "round %d", round)
	}
}

func TestManager_ShouldFlee_HeavyLoadDoesNotStarveHooks(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "heavy.lua", fmt.Sprintf(heavyFleeScript, 600))
	require.NoError(t, mgr.LoadScope("Marsh", dir, 2000))

	flee, decided := mgr.ShouldFlee("Marsh", scripting.DefenderInfo{Name: "Lizardman", HP: 30, MaxHP: 30, Round: 1})
	require.True(t, decided)
	assert.False(t, flee)
}

func TestProperty_RunawayHookIsUndecidedAndRecovers(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(50, 500).Draw(rt, "limit")
		mgr, _ := newTestManager(t)
		defer mgr.Close()
		dir := writeTempLua(t, "ai.lua", `
			function should_flee(d)
				if d.name == "Berserker" then
					while true do end
				end
				return true
			end
		`)
		require.NoError(rt, mgr.LoadScope("Forest", dir, limit))

		_, decided := mgr.ShouldFlee("Forest", scripting.DefenderInfo{Name: "Berserker"})
		if decided {
			rt.Fatalf("runaway hook decided with limit=%d", limit)
		}
		flee, decided := mgr.ShouldFlee("Forest", scripting.DefenderInfo{Name: "Goblin"})
		if !decided || !flee {
			rt.Fatalf("hook after runaway call not decided with limit=%d", limit)
		}
	})
}
