package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/combat"
)

func TestShouldFlee(t *testing.T) {
	cases := []struct {
		name               string
		bravery, hp, maxHP int
		want               bool
	}{
		{"fearless", 10, 1, 100, false},
		{"coward unhurt", 0, 100, 100, false},
		{"coward scratched", 0, 99, 100, true},
		{"steady above half", 5, 50, 100, false},
		{"steady below half", 5, 49, 100, true},
		{"brave at one tenth", 9, 10, 100, false},
		{"brave below one tenth", 9, 9, 100, true},
		{"no max hp", 0, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, combat.ShouldFlee(tc.bravery, tc.hp, tc.maxHP))
		})
	}
}

func TestSelectSpell(t *testing.T) {
	cat := catalog.New()
	for _, sp := range []*catalog.Spell{
		{Name: "Spark", Kind: catalog.SpellDamage, ManaType: catalog.ManaFire, ManaCost: 1, BasePower: 1},
		{Name: "Firebolt", Kind: catalog.SpellDamage, ManaType: catalog.ManaFire, ManaCost: 5, BasePower: 3},
		{Name: "Inferno", Kind: catalog.SpellDamage, ManaType: catalog.ManaFire, ManaCost: 50, BasePower: 9},
		{Name: "Frostbolt", Kind: catalog.SpellDamage, ManaType: catalog.ManaWater, ManaCost: 1, BasePower: 3},
	} {
		require.NoError(t, cat.AddSpell(sp))
	}
	mana := catalog.ManaPool{catalog.ManaFire: 10, catalog.ManaWater: 1}

	got := combat.SelectSpell([]string{"Spark", "Firebolt", "Inferno", "Unknown"}, mana, cat)
	require.NotNil(t, got)
	assert.Equal(t, "Firebolt", got.Name)

	got = combat.SelectSpell([]string{"Frostbolt", "Firebolt"}, mana, cat)
	require.NotNil(t, got)
	assert.Equal(t, "Frostbolt", got.Name, "ties keep the first known spell")

	assert.Nil(t, combat.SelectSpell([]string{"Inferno"}, mana, cat))
	assert.Nil(t, combat.SelectSpell(nil, mana, cat))
}
