package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the read-only lookup of creatures, spells, land types and
// evolutions. It is populated once at startup and never mutated by combat.
type Catalog struct {
	creatures  map[string]*Creature
	spells     map[string]*Spell
	lands      map[int]*LandType
	evolutions map[string]*Evolution
}

// New creates an empty Catalog.
func New() *Catalog {
	return &Catalog{
		creatures:  make(map[string]*Creature),
		spells:     make(map[string]*Spell),
		lands:      make(map[int]*LandType),
		evolutions: make(map[string]*Evolution),
	}
}

// AddCreature registers cr, overwriting any template with the same name.
//
// Precondition: cr must not be nil.
func (c *Catalog) AddCreature(cr *Creature) error {
	if err := cr.Validate(); err != nil {
		return err
	}
	c.creatures[cr.Name] = cr
	return nil
}

// AddSpell registers s, overwriting any spell with the same name.
func (c *Catalog) AddSpell(s *Spell) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.spells[s.Name] = s
	return nil
}

// AddLandType registers l, overwriting any land type with the same id.
func (c *Catalog) AddLandType(l *LandType) error {
	if err := l.Validate(); err != nil {
		return err
	}
	c.lands[l.ID] = l
	return nil
}

// AddEvolution registers e, overwriting any evolution with the same name.
func (c *Catalog) AddEvolution(e *Evolution) error {
	if err := e.Validate(); err != nil {
		return err
	}
	c.evolutions[e.Name] = e
	return nil
}

// Creature returns the template named name, or (nil, false).
func (c *Catalog) Creature(name string) (*Creature, bool) {
	cr, ok := c.creatures[name]
	return cr, ok
}

// Spell returns the spell named name, or (nil, false).
func (c *Catalog) Spell(name string) (*Spell, bool) {
	s, ok := c.spells[name]
	return s, ok
}

// LandType returns the land type with id, or (nil, false).
func (c *Catalog) LandType(id int) (*LandType, bool) {
	l, ok := c.lands[id]
	return l, ok
}

// Evolution returns the evolution record named name, or (nil, false).
func (c *Catalog) Evolution(name string) (*Evolution, bool) {
	e, ok := c.evolutions[name]
	return e, ok
}

// DefenderFor returns the defender creature name fielded by landTypeID at tier.
//
// Postcondition: Returns ("", false) when the land type is unknown or lists no defenders.
func (c *Catalog) DefenderFor(landTypeID, tier int) (string, bool) {
	l, ok := c.lands[landTypeID]
	if !ok {
		return "", false
	}
	return l.DefenderForTier(tier)
}

// Verify cross-checks references between tables: every land defender, known
// spell, summon target and evolution target must resolve.
//
// Postcondition: Returns nil when every reference resolves; otherwise all
// violations joined with "; ".
func (c *Catalog) Verify() error {
	var errs []string
	for _, l := range c.lands {
		for _, d := range l.Defenders {
			if _, ok := c.creatures[d]; !ok {
				errs = append(errs, fmt.Sprintf("land type %q: unknown defender %q", l.Name, d))
			}
		}
	}
	for _, cr := range c.creatures {
		for _, s := range cr.Spells {
			if _, ok := c.spells[s]; !ok {
				errs = append(errs, fmt.Sprintf("creature %q: unknown spell %q", cr.Name, s))
			}
		}
	}
	for _, s := range c.spells {
		for _, t := range s.SummonTiers {
			if _, ok := c.creatures[t.Creature]; !ok {
				errs = append(errs, fmt.Sprintf("spell %q: unknown summon %q", s.Name, t.Creature))
			}
		}
	}
	for _, e := range c.evolutions {
		for _, s := range e.LearnsSpells {
			if _, ok := c.spells[s]; !ok {
				errs = append(errs, fmt.Sprintf("evolution %q: unknown spell %q", e.Name, s))
			}
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Dirs names the directories each table is loaded from. Empty entries are skipped.
type Dirs struct {
	Creatures  string
	Spells     string
	Lands      string
	Evolutions string
}

// Load reads every table from dirs and verifies cross references.
//
// Precondition: each non-empty entry of dirs must be a readable directory.
// Postcondition: Returns a populated Catalog, or an error on the first
// parse or validate failure.
func Load(dirs Dirs) (*Catalog, error) {
	c := New()
	if err := loadDir(dirs.Creatures, c.AddCreature); err != nil {
		return nil, fmt.Errorf("loading creatures: %w", err)
	}
	if err := loadDir(dirs.Spells, c.AddSpell); err != nil {
		return nil, fmt.Errorf("loading spells: %w", err)
	}
	if err := loadDir(dirs.Lands, c.AddLandType); err != nil {
		return nil, fmt.Errorf("loading land types: %w", err)
	}
	if err := loadDir(dirs.Evolutions, c.AddEvolution); err != nil {
		return nil, fmt.Errorf("loading evolutions: %w", err)
	}
	if err := c.Verify(); err != nil {
		return nil, fmt.Errorf("verifying catalog: %w", err)
	}
	return c, nil
}

// Decode parses every YAML document in data as a T and hands it to add.
// Unknown fields are rejected.
func Decode[T any](data []byte, add func(*T) error) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	for {
		var v T
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parsing YAML: %w", err)
		}
		if err := add(&v); err != nil {
			return err
		}
	}
}

func loadDir[T any](dir string, add func(*T) error) error {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || !(strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %q: %w", path, err)
		}
		if err := Decode(data, add); err != nil {
			return fmt.Errorf("loading %q: %w", path, err)
		}
	}
	return nil
}
