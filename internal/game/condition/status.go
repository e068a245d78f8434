// Package condition tracks the per-side status effects of a combat encounter.
package condition

// Fixed effect magnitudes.
const (
	BurnDamage     = 3
	BurnDuration   = 3
	StunDuration   = 2
	FreezeDuration = 1
)

// Status holds the damage-over-time and action-denial counters for one side
// of an encounter. Bleed and Poison are damage per round and persist until
// cleared; the *Turns fields count down as they are consumed.
//
// A Status is not safe for concurrent use; the owning encounter serialises access.
type Status struct {
	Bleed       int `json:"bleed"`
	Poison      int `json:"poison"`
	BurnTurns   int `json:"burn_turns"`
	StunTurns   int `json:"stun_turns"`
	FreezeTurns int `json:"freeze_turns"`
}

// AddBleed stacks n onto the bleed counter.
//
// Postcondition: Bleed increases by max(n, 0).
func (s *Status) AddBleed(n int) {
	if n > 0 {
		s.Bleed += n
	}
}

// SetPoison replaces the poison damage per round.
func (s *Status) SetPoison(n int) {
	s.Poison = max(n, 0)
}

// Stun overwrites the stun counter with StunDuration.
func (s *Status) Stun() {
	s.StunTurns = StunDuration
}

// Ignite overwrites the burn counter with BurnDuration.
func (s *Status) Ignite() {
	s.BurnTurns = BurnDuration
}

// Freeze overwrites the freeze counter with FreezeDuration.
func (s *Status) Freeze() {
	s.FreezeTurns = FreezeDuration
}

// Burning reports whether burn turns remain.
func (s *Status) Burning() bool { return s.BurnTurns > 0 }

// Stunned reports whether stun turns remain.
func (s *Status) Stunned() bool { return s.StunTurns > 0 }

// Frozen reports whether freeze turns remain.
func (s *Status) Frozen() bool { return s.FreezeTurns > 0 }

// Poisoned reports whether poison damage is being applied.
func (s *Status) Poisoned() bool { return s.Poison > 0 }

// TickBurn consumes one burn turn.
//
// Postcondition: Returns BurnDamage and decrements BurnTurns when burning;
// returns 0 and leaves the counter untouched otherwise.
func (s *Status) TickBurn() int {
	if s.BurnTurns <= 0 {
		return 0
	}
	s.BurnTurns--
	return BurnDamage
}

// ConsumeStun spends one stunned turn. Reports whether the side was stunned.
func (s *Status) ConsumeStun() bool {
	if s.StunTurns <= 0 {
		return false
	}
	s.StunTurns--
	return true
}

// ConsumeFreeze spends one frozen turn. Reports whether the side was frozen.
func (s *Status) ConsumeFreeze() bool {
	if s.FreezeTurns <= 0 {
		return false
	}
	s.FreezeTurns--
	return true
}

// ResetForNewDefender clears the effects that belong to a fallen defender
// when a reinforcement takes its place.
func (s *Status) ResetForNewDefender() {
	s.Bleed = 0
	s.StunTurns = 0
}
