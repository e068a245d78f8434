package catalog

import "fmt"

// SpellKind is the catalog-level spell category.
type SpellKind string

const (
	SpellDamage  SpellKind = "damage"
	SpellBuff    SpellKind = "buff"
	SpellSummon  SpellKind = "summon"
	SpellUtility SpellKind = "utility"
)

// SummonTier maps a knowledge level to the creature and count a summon produces.
// Tier i (0-based) applies at knowledge i+1.
type SummonTier struct {
	Creature string `yaml:"creature"`
	Count    int    `yaml:"count"`
}

// Spell is a spell definition loaded from YAML.
type Spell struct {
	Name            string       `yaml:"name"`
	Kind            SpellKind    `yaml:"type"`
	ManaType        ManaType     `yaml:"mana_type"`
	ManaCost        int          `yaml:"mana_cost"`
	BasePower       int          `yaml:"base_power"`
	VampiricPercent int          `yaml:"vampiric_percent"`
	Heals           bool         `yaml:"heals"`
	SummonTiers     []SummonTier `yaml:"summon_tiers"`
}

// Effect is the resolved combat effect of a spell. Exactly one of
// DamageEffect, HealEffect, SummonEffect or UtilityEffect.
type Effect interface {
	effect()
}

// DamageEffect hurts the target and optionally drains life back to the caster.
type DamageEffect struct {
	BasePower       int
	VampiricPercent int
}

// HealEffect restores the caster's HP.
type HealEffect struct {
	BasePower int
}

// SummonEffect calls additional creatures into the fight.
type SummonEffect struct {
	Tiers []SummonTier
}

// UtilityEffect has no combat resolution.
type UtilityEffect struct{}

func (DamageEffect) effect()  {}
func (HealEffect) effect()    {}
func (SummonEffect) effect()  {}
func (UtilityEffect) effect() {}

// Effect maps the spell's kind and fields onto its combat effect variant.
// Damage spells without base power fall through to healing when they heal.
func (s *Spell) Effect() Effect {
	switch {
	case s.Kind == SpellDamage && s.BasePower > 0:
		return DamageEffect{BasePower: s.BasePower, VampiricPercent: s.VampiricPercent}
	case s.Kind == SpellBuff || s.Heals:
		return HealEffect{BasePower: s.BasePower}
	case s.Kind == SpellSummon && len(s.SummonTiers) > 0:
		return SummonEffect{Tiers: s.SummonTiers}
	default:
		return UtilityEffect{}
	}
}

// Validate checks that the definition satisfies basic invariants.
func (s *Spell) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("spell: name must not be empty")
	}
	switch s.Kind {
	case SpellDamage, SpellBuff, SpellSummon, SpellUtility:
	default:
		return fmt.Errorf("spell %q: unknown type %q", s.Name, s.Kind)
	}
	if !s.ManaType.Valid() {
		return fmt.Errorf("spell %q: unknown mana_type %q", s.Name, s.ManaType)
	}
	if s.ManaCost < 0 {
		return fmt.Errorf("spell %q: mana_cost must be >= 0", s.Name)
	}
	if s.VampiricPercent < 0 {
		return fmt.Errorf("spell %q: vampiric_percent must be >= 0", s.Name)
	}
	for i, tier := range s.SummonTiers {
		if tier.Creature == "" || tier.Count < 1 {
			return fmt.Errorf("spell %q: summon tier %d needs a creature and count >= 1", s.Name, i+1)
		}
	}
	return nil
}
