package combat

import (
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/scripting"
)

// Decision is a defender's choice for its action. Exactly one of
// FleeDecision, SpellDecision or MeleeDecision.
type Decision interface {
	decision()
}

// FleeDecision attempts to leave the battle.
type FleeDecision struct{}

// SpellDecision casts Spell.
type SpellDecision struct {
	Spell *catalog.Spell
}

// MeleeDecision swings with the defender's natural weapons.
type MeleeDecision struct{}

func (FleeDecision) decision()  {}
func (SpellDecision) decision() {}
func (MeleeDecision) decision() {}

// SpellLookup resolves spells by name.
type SpellLookup interface {
	Spell(name string) (*catalog.Spell, bool)
}

// ShouldFlee is the built-in flee trigger. Bravery 10 or more never flees;
// otherwise the defender flees while its HP percentage is below 100 - bravery*10.
func ShouldFlee(bravery, hp, maxHP int) bool {
	if bravery >= 10 || maxHP <= 0 {
		return false
	}
	return hp*100 < (100-bravery*10)*maxHP
}

// SelectSpell returns the affordable known spell with the highest base power.
// Ties keep the order of known; unknown spell names are skipped.
//
// Postcondition: Returns nil when nothing is affordable.
func SelectSpell(known []string, mana catalog.ManaPool, spells SpellLookup) *catalog.Spell {
	var best *catalog.Spell
	for _, name := range known {
		sp, ok := spells.Spell(name)
		if !ok {
			continue
		}
		if mana[sp.ManaType] < sp.ManaCost {
			continue
		}
		if best == nil || sp.BasePower > best.BasePower {
			best = sp
		}
	}
	return best
}

// decide runs the defender decision policy for the current round.
func (e *Engine) decide(enc *Encounter) Decision {
	d := enc.Defender
	flee := ShouldFlee(d.AI.Bravery, d.HP, d.MaxHP)
	if e.scripts != nil {
		if scripted, ok := e.scripts.ShouldFlee(enc.LandType, scripting.DefenderInfo{
			Name:    d.Name,
			HP:      d.HP,
			MaxHP:   d.MaxHP,
			Armor:   d.Armor,
			Bravery: d.AI.Bravery,
			Round:   enc.Round,
		}); ok {
			flee = scripted
		}
	}
	if flee {
		return FleeDecision{}
	}
	if sp := SelectSpell(d.Spells, d.Mana, e.catalog); sp != nil {
		return SpellDecision{Spell: sp}
	}
	return MeleeDecision{}
}
