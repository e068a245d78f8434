// Package party defines the attacking side of an encounter: the player and
// the companions and mercenaries that fight alongside them.
package party

import (
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// Weapon is the player's equipped damage profile. The expression's modifier
// is the flat damage bonus added to every swing.
type Weapon struct {
	Damage dice.Expression    `json:"damage"`
	Type   catalog.DamageType `json:"type"`
}

// Player is the attacking participant. Stats, Armor, Strikes and Weapon are
// already totalled by the caller (training, equipment and titles included).
//
// ID is assigned by the session; an empty ID is an unsaved player.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Alive  bool   `json:"alive"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"max_hp"`
	Armor  int    `json:"armor"`
	// Strikes is the number of melee swings per round.
	Strikes    int                `json:"strikes"`
	Weapon     Weapon             `json:"weapon"`
	Stats      catalog.Stats      `json:"stats"`
	Immunities catalog.Immunities `json:"immunities"`

	Companions  []*Companion `json:"companions"`
	Mercenaries []*Mercenary `json:"mercenaries"`

	// SpellKnowledge maps spell name to knowledge level.
	SpellKnowledge map[string]int `json:"spell_knowledge"`
}

// ApplyDamage lowers HP by n, flooring at 0.
//
// Postcondition: HP >= 0; Alive is false iff HP == 0. Returns the HP actually lost.
func (p *Player) ApplyDamage(n int) int {
	lost := applyDamage(&p.HP, n)
	if p.HP == 0 {
		p.Alive = false
	}
	return lost
}

// Dead reports whether the player has fallen.
func (p *Player) Dead() bool {
	return p.HP <= 0 || !p.Alive
}

// LearnSpell raises the knowledge of spell by one level, learning it at level 1
// when unknown.
func (p *Player) LearnSpell(spell string) int {
	if p.SpellKnowledge == nil {
		p.SpellKnowledge = make(map[string]int)
	}
	p.SpellKnowledge[spell]++
	return p.SpellKnowledge[spell]
}

// FirstLivingCompanion returns the first companion with HP > 0, or nil.
func (p *Player) FirstLivingCompanion() *Companion {
	for _, c := range p.Companions {
		if c.HP > 0 {
			return c
		}
	}
	return nil
}

// FirstLivingMercenary returns the first mercenary with HP > 0, or nil.
func (p *Player) FirstLivingMercenary() *Mercenary {
	for _, m := range p.Mercenaries {
		if m.HP > 0 {
			return m
		}
	}
	return nil
}

// PruneDead removes fallen companions and mercenaries, preserving order.
//
// Postcondition: Every remaining companion and mercenary has HP > 0.
// Returns the names removed.
func (p *Player) PruneDead() (companions, mercenaries []string) {
	keptC := p.Companions[:0]
	for _, c := range p.Companions {
		if c.HP > 0 {
			keptC = append(keptC, c)
			continue
		}
		companions = append(companions, c.Name)
	}
	p.Companions = keptC

	keptM := p.Mercenaries[:0]
	for _, m := range p.Mercenaries {
		if m.HP > 0 {
			keptM = append(keptM, m)
			continue
		}
		mercenaries = append(mercenaries, m.Name)
	}
	p.Mercenaries = keptM
	return companions, mercenaries
}

// Companion is a summoned creature or pet that fights for the player.
type Companion struct {
	Name       string             `json:"name"`
	HP         int                `json:"hp"`
	MaxHP      int                `json:"max_hp"`
	Armor      int                `json:"armor"`
	Attacks    int                `json:"attacks"`
	Damage     dice.Expression    `json:"damage"`
	DamageType catalog.DamageType `json:"damage_type"`
	Stats      catalog.Stats      `json:"stats"`
	Immunities catalog.Immunities `json:"immunities"`
	// IsPet marks a companion that persists between battles and can evolve.
	IsPet             bool   `json:"is_pet"`
	EvolutionProgress int    `json:"evolution_progress"`
	EvolvesInto       string `json:"evolves_into,omitempty"`
}

// NewCompanion builds a full-HP companion from a creature template.
//
// Precondition: cr must not be nil.
func NewCompanion(cr *catalog.Creature, pet bool) *Companion {
	c := &Companion{
		Name:       cr.Name,
		HP:         cr.HP,
		MaxHP:      cr.HP,
		Armor:      cr.Armor,
		Attacks:    cr.Attacks,
		Damage:     cr.Damage,
		DamageType: cr.DamageType,
		Stats:      cr.Stats,
		Immunities: cr.Immunities,
		IsPet:      pet,
	}
	if pet {
		c.EvolvesInto = cr.EvolvesInto
	}
	return c
}

// ApplyDamage lowers HP by n, flooring at 0. Returns the HP actually lost.
func (c *Companion) ApplyDamage(n int) int {
	return applyDamage(&c.HP, n)
}

// Mercenary is a hired fighter. Mercenaries never evolve.
type Mercenary struct {
	Name       string             `json:"name"`
	HP         int                `json:"hp"`
	MaxHP      int                `json:"max_hp"`
	Armor      int                `json:"armor"`
	Attacks    int                `json:"attacks"`
	Damage     dice.Expression    `json:"damage"`
	DamageType catalog.DamageType `json:"damage_type"`
	Stats      catalog.Stats      `json:"stats"`
	Tier       int                `json:"tier"`
}

// NewMercenary builds a full-HP mercenary from a creature template.
//
// Precondition: cr must not be nil.
func NewMercenary(cr *catalog.Creature) *Mercenary {
	return &Mercenary{
		Name:       cr.Name,
		HP:         cr.HP,
		MaxHP:      cr.HP,
		Armor:      cr.Armor,
		Attacks:    cr.Attacks,
		Damage:     cr.Damage,
		DamageType: cr.DamageType,
		Stats:      cr.Stats,
		Tier:       cr.MercTier,
	}
}

// ApplyDamage lowers HP by n, flooring at 0. Returns the HP actually lost.
func (m *Mercenary) ApplyDamage(n int) int {
	return applyDamage(&m.HP, n)
}

func applyDamage(hp *int, n int) int {
	if n <= 0 {
		return 0
	}
	lost := min(n, *hp)
	*hp -= lost
	return lost
}
