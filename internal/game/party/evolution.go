package party

import "github.com/cory-johannsen/conquest/internal/game/catalog"

// EvolutionThreshold is the progress a pet needs to evolve once.
const EvolutionThreshold = 10

// EvolutionLookup resolves an evolution record by the name of the form it produces.
type EvolutionLookup interface {
	Evolution(name string) (*catalog.Evolution, bool)
}

// Evolved records one pet evolution.
type Evolved struct {
	From string
	To   string
}

// AdvancePets grants rounds of evolution progress to every living pet with an
// evolution target and evolves each pet as many times as its progress allows.
//
// Postcondition: Every evolving pet keeps progress - 10 per evolution. A pet
// whose evolution record is missing keeps its progress and stops evolving.
// Returns the evolutions in the order they happened.
func (p *Player) AdvancePets(rounds int, evolutions EvolutionLookup) []Evolved {
	if rounds <= 0 {
		return nil
	}
	var out []Evolved
	for _, c := range p.Companions {
		if !c.IsPet || c.EvolvesInto == "" || c.HP <= 0 {
			continue
		}
		c.EvolutionProgress += rounds
		for c.EvolutionProgress >= EvolutionThreshold && c.EvolvesInto != "" {
			evo, ok := evolutions.Evolution(c.EvolvesInto)
			if !ok {
				break
			}
			from := c.Name
			p.Evolve(c, evo)
			c.EvolutionProgress -= EvolutionThreshold
			out = append(out, Evolved{From: from, To: c.Name})
		}
	}
	return out
}

// Evolve applies evo to c. Learned spells go to the owning player.
//
// Precondition: c and evo must not be nil.
// Postcondition: c takes evo's name and next evolution target; HP is raised by
// the HP bonus but never above the new MaxHP.
func (p *Player) Evolve(c *Companion, evo *catalog.Evolution) {
	c.MaxHP += evo.HPBonus
	c.HP = min(c.HP+evo.HPBonus, c.MaxHP)
	c.Attacks += evo.AttacksBonus
	c.Damage = evo.DamageBonus.Apply(c.Damage)
	c.Stats = c.Stats.Add(evo.StatBonuses)
	c.Armor += evo.ArmorBonus
	c.Immunities = c.Immunities.Merge(evo.Resistances)
	for _, spell := range evo.LearnsSpells {
		p.LearnSpell(spell)
	}
	c.Name = evo.Name
	c.EvolvesInto = evo.EvolvesInto
}
