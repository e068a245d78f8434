package catalog

import (
	"fmt"

	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// MaxTier is the highest defender tier a territory can be upgraded to.
const MaxTier = 4

// LandType describes one kind of territory and the defenders it fields per tier.
type LandType struct {
	ID        int      `yaml:"id"`
	Name      string   `yaml:"name"`
	Defenders []string `yaml:"defenders"`
	IsUtility bool     `yaml:"utility"`
	ManaType  ManaType `yaml:"mana_type"`
}

// Validate checks that the land type satisfies basic invariants.
func (l *LandType) Validate() error {
	if l.ID < 0 {
		return fmt.Errorf("land type: id must be >= 0")
	}
	if l.Name == "" {
		return fmt.Errorf("land type %d: name must not be empty", l.ID)
	}
	if len(l.Defenders) > MaxTier {
		return fmt.Errorf("land type %q: at most %d defender tiers", l.Name, MaxTier)
	}
	if l.ManaType != "" && !l.ManaType.Valid() {
		return fmt.Errorf("land type %q: unknown mana_type %q", l.Name, l.ManaType)
	}
	return nil
}

// DefenderForTier returns the defender listed for tier (1-4), falling back to
// the first listed defender when the tier has none.
func (l *LandType) DefenderForTier(tier int) (string, bool) {
	if tier >= 1 && tier <= len(l.Defenders) && l.Defenders[tier-1] != "" {
		return l.Defenders[tier-1], true
	}
	if len(l.Defenders) > 0 && l.Defenders[0] != "" {
		return l.Defenders[0], true
	}
	return "", false
}

// DiceBonus grows a companion's damage dice on evolution.
type DiceBonus struct {
	Count int `yaml:"count"`
	Sides int `yaml:"sides"`
}

// Apply returns expr grown by the bonus.
func (b DiceBonus) Apply(expr dice.Expression) dice.Expression {
	return dice.New(expr.Count+b.Count, expr.Sides+b.Sides, expr.Modifier)
}

// Evolution is the level-up record a pet reaches when its progress crosses
// the evolution threshold.
type Evolution struct {
	Name         string     `yaml:"name"`
	EvolvesInto  string     `yaml:"evolves_into"`
	HPBonus      int        `yaml:"hp_bonus"`
	AttacksBonus int        `yaml:"attacks_bonus"`
	DamageBonus  DiceBonus  `yaml:"damage_bonus"`
	StatBonuses  Stats      `yaml:"stat_bonuses"`
	ArmorBonus   int        `yaml:"armor_bonus"`
	LearnsSpells []string   `yaml:"learns_spells"`
	Resistances  Immunities `yaml:"resistances"`
}

// Validate checks that the evolution record satisfies basic invariants.
func (e *Evolution) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("evolution: name must not be empty")
	}
	if e.EvolvesInto == e.Name {
		return fmt.Errorf("evolution %q: evolves_into must differ from name", e.Name)
	}
	return nil
}
