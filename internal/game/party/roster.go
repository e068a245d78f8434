package party

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// CreatureLookup resolves companion and mercenary templates by name.
type CreatureLookup interface {
	Creature(name string) (*catalog.Creature, bool)
}

// rosterEntry is one player profile as written in a roster file.
type rosterEntry struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	HP          int                `yaml:"hp"`
	Armor       int                `yaml:"armor"`
	Strikes     int                `yaml:"strikes"`
	Weapon      dice.Expression    `yaml:"weapon"`
	WeaponType  catalog.DamageType `yaml:"weapon_type"`
	Stats       catalog.Stats      `yaml:"stats"`
	Immunities  catalog.Immunities `yaml:"immunities"`
	Pets        []string           `yaml:"pets"`
	Companions  []string           `yaml:"companions"`
	Mercenaries []string           `yaml:"mercenaries"`
	Spells      map[string]int     `yaml:"spells"`
}

type rosterFile struct {
	Players []rosterEntry `yaml:"players"`
}

// LoadRoster reads the player profiles in path.
//
// Precondition: creatures must resolve every pet, companion and mercenary named.
// Postcondition: Returns full-HP players in file order or a non-nil error.
func LoadRoster(path string, creatures CreatureLookup) ([]*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	return DecodeRoster(data, creatures)
}

// DecodeRoster parses roster YAML. Unknown fields are rejected.
func DecodeRoster(data []byte, creatures CreatureLookup) ([]*Player, error) {
	var file rosterFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	if len(file.Players) == 0 {
		return nil, fmt.Errorf("roster: at least one player is required")
	}

	seen := make(map[string]bool, len(file.Players))
	players := make([]*Player, 0, len(file.Players))
	for i := range file.Players {
		p, err := file.Players[i].build(creatures)
		if err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("roster: duplicate player id %q", p.ID)
		}
		seen[p.ID] = true
		players = append(players, p)
	}
	return players, nil
}

func (r *rosterEntry) build(creatures CreatureLookup) (*Player, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("roster: player id must not be empty")
	}
	if r.Name == "" {
		r.Name = r.ID
	}
	if r.HP < 1 {
		return nil, fmt.Errorf("roster: player %q: hp must be >= 1", r.ID)
	}
	if r.Armor < 0 {
		return nil, fmt.Errorf("roster: player %q: armor must be >= 0", r.ID)
	}
	if r.Strikes == 0 {
		r.Strikes = 1
	}
	if r.Strikes < 1 {
		return nil, fmt.Errorf("roster: player %q: strikes must be >= 1", r.ID)
	}
	if r.Weapon.Count < 1 {
		r.Weapon = dice.New(1, 2, 0)
	}
	if r.WeaponType == "" {
		r.WeaponType = catalog.Crush
	}
	if !r.WeaponType.Valid() {
		return nil, fmt.Errorf("roster: player %q: unknown weapon_type %q", r.ID, r.WeaponType)
	}

	p := &Player{
		ID:         r.ID,
		Name:       r.Name,
		Alive:      true,
		HP:         r.HP,
		MaxHP:      r.HP,
		Armor:      r.Armor,
		Strikes:    r.Strikes,
		Weapon:     Weapon{Damage: r.Weapon, Type: r.WeaponType},
		Stats:      r.Stats,
		Immunities: r.Immunities,
	}
	lookup := func(name string) (*catalog.Creature, error) {
		cr, ok := creatures.Creature(name)
		if !ok {
			return nil, fmt.Errorf("roster: player %q: unknown creature %q", r.ID, name)
		}
		return cr, nil
	}
	for _, name := range r.Pets {
		cr, err := lookup(name)
		if err != nil {
			return nil, err
		}
		p.Companions = append(p.Companions, NewCompanion(cr, true))
	}
	for _, name := range r.Companions {
		cr, err := lookup(name)
		if err != nil {
			return nil, err
		}
		p.Companions = append(p.Companions, NewCompanion(cr, false))
	}
	for _, name := range r.Mercenaries {
		cr, err := lookup(name)
		if err != nil {
			return nil, err
		}
		p.Mercenaries = append(p.Mercenaries, NewMercenary(cr))
	}
	if len(r.Spells) > 0 {
		p.SpellKnowledge = make(map[string]int, len(r.Spells))
		for name, level := range r.Spells {
			if level < 1 {
				return nil, fmt.Errorf("roster: player %q: spell %q level must be >= 1", r.ID, name)
			}
			p.SpellKnowledge[name] = level
		}
	}
	return p, nil
}
