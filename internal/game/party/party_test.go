package party_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

type evolutions map[string]*catalog.Evolution

func (e evolutions) Evolution(name string) (*catalog.Evolution, bool) {
	evo, ok := e[name]
	return evo, ok
}

func wolfPup() *party.Companion {
	return &party.Companion{
		Name:        "Wolf Pup",
		HP:          6,
		MaxHP:       10,
		Armor:       1,
		Attacks:     1,
		Damage:      dice.New(1, 4, 0),
		DamageType:  catalog.Pierce,
		Stats:       catalog.Stats{Strength: 1, Dexterity: 2},
		IsPet:       true,
		EvolvesInto: "Wolf",
	}
}

func TestPlayer_ApplyDamageClampsAndKills(t *testing.T) {
	p := &party.Player{Name: "Ada", Alive: true, HP: 5, MaxHP: 10}
	assert.Equal(t, 3, p.ApplyDamage(3))
	assert.False(t, p.Dead())
	assert.Equal(t, 2, p.ApplyDamage(9))
	assert.Equal(t, 0, p.HP)
	assert.False(t, p.Alive)
	assert.True(t, p.Dead())
	assert.Equal(t, 0, p.ApplyDamage(-4))
}

func TestProperty_DamageNeverDropsBelowZero(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		hp := rapid.IntRange(0, 100).Draw(rt, "hp")
		c := &party.Companion{HP: hp, MaxHP: 100}
		m := &party.Mercenary{HP: hp, MaxHP: 100}
		hits := rapid.SliceOfN(rapid.IntRange(-10, 50), 0, 10).Draw(rt, "hits")
		for _, h := range hits {
			c.ApplyDamage(h)
			m.ApplyDamage(h)
		}
		if c.HP < 0 || m.HP < 0 || c.HP > hp || m.HP > hp {
			rt.Fatalf("hp out of range: companion %d mercenary %d start %d", c.HP, m.HP, hp)
		}
	})
}

func TestPlayer_FirstLivingAndPrune(t *testing.T) {
	p := &party.Player{
		Companions:  []*party.Companion{{Name: "A", HP: 0}, {Name: "B", HP: 3}, {Name: "C", HP: 0}},
		Mercenaries: []*party.Mercenary{{Name: "X", HP: 0}, {Name: "Y", HP: 2}},
	}
	assert.Equal(t, "B", p.FirstLivingCompanion().Name)
	assert.Equal(t, "Y", p.FirstLivingMercenary().Name)

	comps, mercs := p.PruneDead()
	assert.Equal(t, []string{"A", "C"}, comps)
	assert.Equal(t, []string{"X"}, mercs)
	require.Len(t, p.Companions, 1)
	require.Len(t, p.Mercenaries, 1)

	p.Companions[0].HP = 0
	p.Mercenaries[0].HP = 0
	assert.Nil(t, p.FirstLivingCompanion())
	assert.Nil(t, p.FirstLivingMercenary())
}

func TestPlayer_LearnSpell(t *testing.T) {
	p := &party.Player{}
	assert.Equal(t, 1, p.LearnSpell("Bite"))
	assert.Equal(t, 2, p.LearnSpell("Bite"))
}

func TestNewCompanion_FromCreature(t *testing.T) {
	cr := &catalog.Creature{Name: "Imp", HP: 8, Armor: 1, Attacks: 2, Damage: dice.New(1, 3, 0),
		DamageType: catalog.Slash, EvolvesInto: "Demon"}
	summon := party.NewCompanion(cr, false)
	assert.Equal(t, 8, summon.HP)
	assert.Equal(t, 8, summon.MaxHP)
	assert.Empty(t, summon.EvolvesInto)

	pet := party.NewCompanion(cr, true)
	assert.Equal(t, "Demon", pet.EvolvesInto)

	merc := party.NewMercenary(&catalog.Creature{Name: "Sellsword", HP: 12, Attacks: 1, MercTier: 2, Damage: dice.New(1, 8, 0)})
	assert.Equal(t, 12, merc.MaxHP)
	assert.Equal(t, 2, merc.Tier)
}

func TestAdvancePets_EvolvesAndCarriesOver(t *testing.T) {
	pup := wolfPup()
	pup.EvolutionProgress = 7
	p := &party.Player{Companions: []*party.Companion{pup}, SpellKnowledge: map[string]int{"Howl": 1}}
	evos := evolutions{"Wolf": {
		Name:         "Wolf",
		EvolvesInto:  "Dire Wolf",
		HPBonus:      5,
		AttacksBonus: 1,
		DamageBonus:  catalog.DiceBonus{Count: 1, Sides: 2},
		StatBonuses:  catalog.Stats{Strength: 2},
		ArmorBonus:   1,
		LearnsSpells: []string{"Howl", "Bite"},
		Resistances:  catalog.Immunities{Cold: 50},
	}}

	got := p.AdvancePets(4, evos)
	require.Equal(t, []party.Evolved{{From: "Wolf Pup", To: "Wolf"}}, got)
	assert.Equal(t, "Wolf", pup.Name)
	assert.Equal(t, "Dire Wolf", pup.EvolvesInto)
	assert.Equal(t, 1, pup.EvolutionProgress)
	assert.Equal(t, 15, pup.MaxHP)
	assert.Equal(t, 11, pup.HP)
	assert.Equal(t, 2, pup.Attacks)
	assert.Equal(t, dice.New(2, 6, 0), pup.Damage)
	assert.Equal(t, 3, pup.Stats.Strength)
	assert.Equal(t, 2, pup.Armor)
	assert.Equal(t, 50, pup.Immunities.Cold)
	assert.Equal(t, 2, p.SpellKnowledge["Howl"])
	assert.Equal(t, 1, p.SpellKnowledge["Bite"])
}

func TestAdvancePets_MultipleEvolutions(t *testing.T) {
	pup := wolfPup()
	pup.EvolutionProgress = 18
	p := &party.Player{Companions: []*party.Companion{pup}}
	evos := evolutions{
		"Wolf":      {Name: "Wolf", EvolvesInto: "Dire Wolf"},
		"Dire Wolf": {Name: "Dire Wolf"},
	}
	got := p.AdvancePets(3, evos)
	assert.Equal(t, []party.Evolved{{From: "Wolf Pup", To: "Wolf"}, {From: "Wolf", To: "Dire Wolf"}}, got)
	assert.Equal(t, 1, pup.EvolutionProgress)
	assert.Empty(t, pup.EvolvesInto)
}

func TestAdvancePets_Skips(t *testing.T) {
	dead := wolfPup()
	dead.HP = 0
	summon := wolfPup()
	summon.IsPet = false
	missing := wolfPup()
	missing.EvolvesInto = "Unknown"
	p := &party.Player{Companions: []*party.Companion{dead, summon, missing}}

	got := p.AdvancePets(12, evolutions{"Wolf": {Name: "Wolf"}})
	assert.Empty(t, got)
	assert.Equal(t, 0, dead.EvolutionProgress)
	assert.Equal(t, 0, summon.EvolutionProgress)
	assert.Equal(t, 12, missing.EvolutionProgress)
	assert.Nil(t, p.AdvancePets(0, evolutions{}))
}
