// Package catalog holds the immutable Stat & Data tables the combat engine
// reads: creature templates, spell definitions, land types and pet evolutions.
package catalog

import "fmt"

// DamageType selects the critical-hit contest and critical effect of a melee swing.
type DamageType string

const (
	Pierce DamageType = "pierce"
	Slash  DamageType = "slash"
	Crush  DamageType = "crush"
)

// Valid reports whether d is one of the three physical damage types.
func (d DamageType) Valid() bool {
	switch d {
	case Pierce, Slash, Crush:
		return true
	}
	return false
}

// Stats are the three trainable attributes shared by players and creatures.
type Stats struct {
	Strength  int `yaml:"strength" json:"strength"`
	Dexterity int `yaml:"dexterity" json:"dexterity"`
	Power     int `yaml:"power" json:"power"`
}

// Add returns the field-wise sum of s and o.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Strength:  s.Strength + o.Strength,
		Dexterity: s.Dexterity + o.Dexterity,
		Power:     s.Power + o.Power,
	}
}

// Elemental is the flat per-element damage a creature adds after melee.
type Elemental struct {
	Fire   int `yaml:"fire" json:"fire"`
	Cold   int `yaml:"cold" json:"cold"`
	Poison int `yaml:"poison" json:"poison"`
	Air    int `yaml:"air" json:"air"`
}

// Total is the combined elemental damage.
func (e Elemental) Total() int {
	return e.Fire + e.Cold + e.Poison + e.Air
}

// Immunities are resist percentages (0-100) against status effects and elements.
// 0 never resists, 100 always resists, anything between resists on a d100 roll.
type Immunities struct {
	Fire      int `yaml:"fire" json:"fire"`
	Lightning int `yaml:"lightning" json:"lightning"`
	Cold      int `yaml:"cold" json:"cold"`
	Poison    int `yaml:"poison" json:"poison"`
	Bleeding  int `yaml:"bleeding" json:"bleeding"`
	Stun      int `yaml:"stun" json:"stun"`
}

// Merge keeps the stronger resistance of each pair.
func (i Immunities) Merge(o Immunities) Immunities {
	return Immunities{
		Fire:      max(i.Fire, o.Fire),
		Lightning: max(i.Lightning, o.Lightning),
		Cold:      max(i.Cold, o.Cold),
		Poison:    max(i.Poison, o.Poison),
		Bleeding:  max(i.Bleeding, o.Bleeding),
		Stun:      max(i.Stun, o.Stun),
	}
}

// AIBehavior weights drive the defender decision policy.
// Bravery is on a 0-10 scale; 10 never flees.
type AIBehavior struct {
	Gallantry int `yaml:"gallantry" json:"gallantry"`
	Obedience int `yaml:"obedience" json:"obedience"`
	Bravery   int `yaml:"bravery" json:"bravery"`
}

// ManaType names one of the seven mana pools.
type ManaType string

const (
	ManaFire   ManaType = "fire"
	ManaEarth  ManaType = "earth"
	ManaAir    ManaType = "air"
	ManaWater  ManaType = "water"
	ManaDeath  ManaType = "death"
	ManaLife   ManaType = "life"
	ManaArcane ManaType = "arcane"
)

// ManaTypes lists every mana type in display order.
var ManaTypes = []ManaType{ManaFire, ManaEarth, ManaAir, ManaWater, ManaDeath, ManaLife, ManaArcane}

// Valid reports whether m is a known mana type.
func (m ManaType) Valid() bool {
	for _, t := range ManaTypes {
		if m == t {
			return true
		}
	}
	return false
}

// ManaPool is an amount per mana type. Missing keys are zero.
type ManaPool map[ManaType]int

// Clone returns an independent copy so encounter state never aliases catalog data.
func (p ManaPool) Clone() ManaPool {
	out := make(ManaPool, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p ManaPool) validate() error {
	for k, v := range p {
		if !k.Valid() {
			return fmt.Errorf("unknown mana type %q", k)
		}
		if v < 0 {
			return fmt.Errorf("mana %q must be >= 0, got %d", k, v)
		}
	}
	return nil
}
