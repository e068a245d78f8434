package catalog

import (
	"fmt"

	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// Creature is a reusable monster template loaded from YAML. It serves as a
// territory defender, a reinforcement, a summon, a companion or a mercenary.
type Creature struct {
	Name            string          `yaml:"name"`
	HP              int             `yaml:"hp"`
	Armor           int             `yaml:"armor"`
	Attacks         int             `yaml:"attacks_per_round"`
	Damage          dice.Expression `yaml:"damage"`
	DamageType      DamageType      `yaml:"damage_type"`
	Stats           Stats           `yaml:"stats"`
	AI              AIBehavior      `yaml:"ai"`
	Mana            ManaPool        `yaml:"mana"`
	ManaRegen       ManaPool        `yaml:"mana_regen"`
	Spells          []string        `yaml:"spells"`
	SpellLevelBonus int             `yaml:"spell_level_bonus"`
	Elemental       Elemental       `yaml:"elemental"`
	Immunities      Immunities      `yaml:"immunities"`
	MercTier        int             `yaml:"merc_tier"`
	EvolvesInto     string          `yaml:"evolves_into"`
}

// Validate checks that the template satisfies basic invariants.
//
// Postcondition: Returns nil iff Name is non-empty, HP >= 1, Armor >= 0,
// Attacks >= 1, SpellLevelBonus >= 0, Damage is set and DamageType is valid.
// A missing damage type defaults to crush.
func (c *Creature) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("creature: name must not be empty")
	}
	if c.HP < 1 {
		return fmt.Errorf("creature %q: hp must be >= 1", c.Name)
	}
	if c.Armor < 0 {
		return fmt.Errorf("creature %q: armor must be >= 0", c.Name)
	}
	if c.Attacks < 1 {
		return fmt.Errorf("creature %q: attacks_per_round must be >= 1", c.Name)
	}
	if c.Damage.Count < 1 || c.Damage.Sides < 1 {
		return fmt.Errorf("creature %q: damage dice must be set", c.Name)
	}
	if c.DamageType == "" {
		c.DamageType = Crush
	}
	if !c.DamageType.Valid() {
		return fmt.Errorf("creature %q: unknown damage_type %q", c.Name, c.DamageType)
	}
	if c.SpellLevelBonus < 0 {
		return fmt.Errorf("creature %q: spell_level_bonus must be >= 0", c.Name)
	}
	if c.AI.Bravery < 0 || c.AI.Bravery > 10 {
		return fmt.Errorf("creature %q: ai.bravery must be 0-10", c.Name)
	}
	if err := c.Mana.validate(); err != nil {
		return fmt.Errorf("creature %q: mana: %w", c.Name, err)
	}
	if err := c.ManaRegen.validate(); err != nil {
		return fmt.Errorf("creature %q: mana_regen: %w", c.Name, err)
	}
	return nil
}
