package combat

import (
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/condition"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

// Defender is the live snapshot of the creature holding the contested square.
// Mana and Spells are copies; the catalog template is never mutated.
type Defender struct {
	Name            string             `json:"name"`
	HP              int                `json:"hp"`
	MaxHP           int                `json:"max_hp"`
	Armor           int                `json:"armor"`
	Attacks         int                `json:"attacks"`
	Damage          dice.Expression    `json:"damage"`
	DamageType      catalog.DamageType `json:"damage_type"`
	Stats           catalog.Stats      `json:"stats"`
	Elemental       catalog.Elemental  `json:"elemental"`
	Immunities      catalog.Immunities `json:"immunities"`
	AI              catalog.AIBehavior `json:"ai"`
	Mana            catalog.ManaPool   `json:"mana"`
	ManaRegen       catalog.ManaPool   `json:"mana_regen"`
	Spells          []string           `json:"spells"`
	SpellLevelBonus int                `json:"spell_level_bonus"`
}

// newDefender snapshots cr with hp current hit points.
//
// Postcondition: 0 <= HP <= MaxHP.
func newDefender(cr *catalog.Creature, hp int) *Defender {
	spells := make([]string, len(cr.Spells))
	copy(spells, cr.Spells)
	return &Defender{
		Name:            cr.Name,
		HP:              min(max(hp, 0), cr.HP),
		MaxHP:           cr.HP,
		Armor:           cr.Armor,
		Attacks:         cr.Attacks,
		Damage:          cr.Damage,
		DamageType:      cr.DamageType,
		Stats:           cr.Stats,
		Elemental:       cr.Elemental,
		Immunities:      cr.Immunities,
		AI:              cr.AI,
		Mana:            cr.Mana.Clone(),
		ManaRegen:       cr.ManaRegen.Clone(),
		Spells:          spells,
		SpellLevelBonus: cr.SpellLevelBonus,
	}
}

// ApplyDamage lowers HP by n, flooring at 0. Returns the HP actually lost.
func (d *Defender) ApplyDamage(n int) int {
	if n <= 0 {
		return 0
	}
	lost := min(n, d.HP)
	d.HP -= lost
	return lost
}

// Heal raises HP by n, capped at MaxHP. Returns the HP actually restored.
func (d *Defender) Heal(n int) int {
	if n <= 0 {
		return 0
	}
	gained := min(n, d.MaxHP-d.HP)
	d.HP += gained
	return gained
}

// Alive reports whether HP > 0.
func (d *Defender) Alive() bool {
	return d.HP > 0
}

// ReinforcementMob is a defender that joined from another square or was
// summoned. Only HP changes after it is created.
type ReinforcementMob struct {
	Defender
	FromSquare     int    `json:"from_square"`
	FromSquareName string `json:"from_square_name"`
}

// Encounter is one contested square. It is owned by the Engine while Active.
type Encounter struct {
	ID         uuid.UUID  `json:"id"`
	Square     int        `json:"square"`
	SquareName string     `json:"square_name"`
	LandType   string     `json:"land_type"`
	Round      int        `json:"round"`
	Active     bool       `json:"active"`
	Outcome    Outcome    `json:"outcome"`
	Log        []LogEntry `json:"log"`

	Attacker       *party.Player    `json:"attacker"`
	Defender       *Defender        `json:"defender"`
	AttackerStatus condition.Status `json:"attacker_status"`
	DefenderStatus condition.Status `json:"defender_status"`
	FleeAttempted  bool             `json:"flee_attempted"`
	HasFled        bool             `json:"has_fled"`

	// Reinforcements act in FIFO order; Pending joins them next round.
	Reinforcements []*ReinforcementMob `json:"reinforcements"`
	Pending        []*ReinforcementMob `json:"pending"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitzero"`
}

// promote replaces the fallen defender with the head of the reinforcement
// queue. Reports false when the queue is empty.
//
// Postcondition: on true the defender bleed and stun counters are cleared.
func (enc *Encounter) promote() (*ReinforcementMob, bool) {
	if len(enc.Reinforcements) == 0 {
		return nil, false
	}
	next := enc.Reinforcements[0]
	enc.Reinforcements = enc.Reinforcements[1:]
	d := next.Defender
	enc.Defender = &d
	enc.DefenderStatus.ResetForNewDefender()
	return next, true
}
