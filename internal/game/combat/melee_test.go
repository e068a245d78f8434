package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

func TestCritWeights(t *testing.T) {
	cases := []struct {
		dt           catalog.DamageType
		str, dex, td int
		a, d         int
	}{
		{catalog.Pierce, 3, 7, 2, 7, 7},
		{catalog.Slash, 4, 5, 1, 6, 4},
		{catalog.Crush, 3, 0, 2, 6, 10},
		{catalog.Crush, 0, 9, 0, 0, 2},
		{catalog.Pierce, 0, -3, 0, 0, 5},
	}
	for _, tc := range cases {
		a, d := combat.CritWeights(tc.dt, tc.str, tc.dex, tc.td)
		assert.Equal(t, tc.a, a, "%s attacker weight", tc.dt)
		assert.Equal(t, tc.d, d, "%s defender weight", tc.dt)
	}
}

func TestResolveStrike(t *testing.T) {
	t.Run("plain hit", func(t *testing.T) {
		r := combat.ResolveStrike(6, 2, catalog.Pierce, false)
		assert.Equal(t, 4, r.Damage)
		assert.Equal(t, 2, r.ArmorUsed)
	})
	t.Run("armor floors at zero", func(t *testing.T) {
		assert.Equal(t, 0, combat.ResolveStrike(1, 5, catalog.Slash, false).Damage)
	})
	t.Run("pierce critical ignores armor", func(t *testing.T) {
		r := combat.ResolveStrike(6, 4, catalog.Pierce, true)
		assert.Equal(t, 6, r.Damage)
		assert.Equal(t, 0, r.ArmorUsed)
	})
	t.Run("slash critical bleeds above 3", func(t *testing.T) {
		assert.Equal(t, 4, combat.ResolveStrike(10, 2, catalog.Slash, true).Bleed)
		assert.Equal(t, 0, combat.ResolveStrike(5, 2, catalog.Slash, true).Bleed)
	})
	t.Run("crush critical stuns above 5", func(t *testing.T) {
		assert.True(t, combat.ResolveStrike(8, 2, catalog.Crush, true).Stun)
		assert.False(t, combat.ResolveStrike(7, 2, catalog.Crush, true).Stun)
	})
}

// fixed always returns the same draw, clamped into range.
type fixed int

func (f fixed) Intn(n int) int { return min(int(f), n-1) }

func TestRollCritical_ZeroWeightConsumesNothing(t *testing.T) {
	src := &script{}
	assert.False(t, combat.RollCritical(src, catalog.Crush, 0, 10, 0))
	assert.Equal(t, 0, src.used)
}

func TestRollCritical_ProbabilityMatchesWeights(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dt := rapid.SampledFrom([]catalog.DamageType{catalog.Pierce, catalog.Slash, catalog.Crush}).Draw(rt, "type")
		str := rapid.IntRange(0, 20).Draw(rt, "str")
		dex := rapid.IntRange(0, 20).Draw(rt, "dex")
		td := rapid.IntRange(0, 6).Draw(rt, "targetDex")

		a, d := combat.CritWeights(dt, str, dex, td)
		hits := 0
		for r := 0; r < a+d; r++ {
			if combat.RollCritical(fixed(r), dt, str, dex, td) {
				hits++
			}
		}
		if a == 0 {
			assert.Equal(rt, 0, hits)
			return
		}
		assert.Equal(rt, a, hits, "criticals over every draw equal the attacker weight")
	})
}

func slasher(t *testing.T, w *world, bleedImmunity int) *combat.Encounter {
	alice := hero()
	alice.Stats.Strength = 4
	alice.Weapon = party.Weapon{Damage: dice.MustParse("1d8"), Type: catalog.Slash}
	enc := start(t, w, alice, 0)
	enc.Defender.Immunities.Bleeding = bleedImmunity
	return enc
}

func TestMelee_SlashCriticalBleeds(t *testing.T) {
	w := newWorld(t, []*catalog.Creature{goblin()}, lone("bob"))
	enc := slasher(t, w, 0)

	// die 8, critical draw 0 against weights 4 vs 3.
	w.src.push(7, 0)
	entries := w.eng.ResolveRound(enc)

	crits := only(entries, "Alice", combat.ActionCritical)
	require.Len(t, crits, 1)
	assert.Contains(t, crits[0].Message, "bleeding for 3/round")
	assert.Equal(t, 3, enc.DefenderStatus.Bleed)

	next := w.eng.ResolveRound(enc)
	assert.Equal(t, combat.ActionBleeding, next[0].Action)
	assert.Equal(t, 3, *next[0].Damage)
}

func TestMelee_BleedImmunity(t *testing.T) {
	t.Run("full immunity never rolls", func(t *testing.T) {
		w := newWorld(t, []*catalog.Creature{goblin()}, lone("bob"))
		enc := slasher(t, w, 100)
		w.src.push(7, 0)
		entries := w.eng.ResolveRound(enc)

		crits := only(entries, "Alice", combat.ActionCritical)
		require.Len(t, crits, 1)
		assert.Contains(t, crits[0].Message, "immunity protected")
		assert.Zero(t, enc.DefenderStatus.Bleed)
	})
	t.Run("partial immunity resists on a low draw", func(t *testing.T) {
		w := newWorld(t, []*catalog.Creature{goblin()}, lone("bob"))
		enc := slasher(t, w, 50)
		w.src.push(7, 0, 10)
		w.eng.ResolveRound(enc)
		assert.Zero(t, enc.DefenderStatus.Bleed)
	})
	t.Run("partial immunity fails on a high draw", func(t *testing.T) {
		w := newWorld(t, []*catalog.Creature{goblin()}, lone("bob"))
		enc := slasher(t, w, 50)
		w.src.push(7, 0, 60)
		w.eng.ResolveRound(enc)
		assert.Equal(t, 3, enc.DefenderStatus.Bleed)
	})
}
