package combat

import (
	"github.com/cory-johannsen/conquest/internal/game/condition"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

// ResolveRound executes one round of enc and returns the entries it appended
// to the encounter log, in order.
//
// Precondition: enc was returned by StartEncounter on this Engine.
// Postcondition: Returns nil without mutating anything when enc is inactive,
// not owned by this Engine, or the engine is not in the combat phase.
// Otherwise Round advances by exactly 1 unless the encounter terminated.
func (e *Engine) ResolveRound(enc *Encounter) []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(enc) {
		return nil
	}
	start := len(enc.Log)
	e.resolveRound(enc)
	out := make([]LogEntry, len(enc.Log)-start)
	copy(out, enc.Log[start:])
	return out
}

// resolveRound runs the round steps in order. Any termination returns early.
func (e *Engine) resolveRound(enc *Encounter) {
	if e.damageOverTime(enc) {
		return
	}

	defenderFrozen := e.freezeMarker(enc, enc.Defender.Name, &enc.DefenderStatus)
	attackerFrozen := e.freezeMarker(enc, enc.Attacker.Name, &enc.AttackerStatus)

	enc.Reinforcements = append(enc.Reinforcements, enc.Pending...)
	enc.Pending = nil

	if e.attackerAction(enc, attackerFrozen) {
		return
	}
	if e.defenderAction(enc, defenderFrozen) {
		return
	}

	if e.reinforcementsAttack(enc) {
		e.emit(enc, SystemActor, ActionDefeat, nil, "%s has been slain!", enc.Attacker.Name)
		e.end(enc, OutcomeDefeat)
		return
	}

	enc.Attacker.PruneDead()
	e.detectReinforcements(enc)

	enc.Round++
	enc.FleeAttempted = false

	if enc.Round >= RoundLimit && enc.Active {
		e.emit(enc, SystemActor, ActionTimeout, nil, "Night falls. Combat ends - land not captured.")
		e.end(enc, OutcomeTimeout)
	}
}

// damageOverTime ticks bleed, poison and burn on the defender, then the
// attacker. Reports whether the encounter ended.
func (e *Engine) damageOverTime(enc *Encounter) bool {
	d := enc.Defender
	if e.tickStatus(enc, d.Name, &enc.DefenderStatus, d.ApplyDamage, d.Alive) {
		e.emit(enc, SystemActor, ActionVictory, nil, "%s succumbs! %s claims the land!", d.Name, enc.Attacker.Name)
		e.end(enc, OutcomeVictory)
		return true
	}
	p := enc.Attacker
	if e.tickStatus(enc, p.Name, &enc.AttackerStatus, p.ApplyDamage, func() bool { return !p.Dead() }) {
		e.emit(enc, SystemActor, ActionDefeat, nil, "%s succumbs!", p.Name)
		e.end(enc, OutcomeDefeat)
		return true
	}
	return false
}

// tickStatus applies one side's bleed, poison and burn in order, checking for
// death after each. Reports whether the side died.
func (e *Engine) tickStatus(enc *Encounter, name string, s *condition.Status, hit func(int) int, alive func() bool) bool {
	if s.Bleed > 0 {
		hit(s.Bleed)
		e.emit(enc, SystemActor, ActionBleeding, amount(s.Bleed), "%s takes %d bleeding damage!", name, s.Bleed)
		if !alive() {
			return true
		}
	}
	if s.Poison > 0 {
		hit(s.Poison)
		e.emit(enc, SystemActor, ActionPoison, amount(s.Poison), "%s takes %d poison damage!", name, s.Poison)
		if !alive() {
			return true
		}
	}
	if burn := s.TickBurn(); burn > 0 {
		hit(burn)
		e.emit(enc, SystemActor, ActionBurning, amount(burn), "%s burns for %d damage! (%d turns left)", name, burn, s.BurnTurns)
		if !alive() {
			return true
		}
	}
	return false
}

// freezeMarker consumes one frozen turn. Reports whether the side is frozen this round.
func (e *Engine) freezeMarker(enc *Encounter, name string, s *condition.Status) bool {
	if !s.ConsumeFreeze() {
		return false
	}
	e.emit(enc, SystemActor, ActionFrozen, amount(0), "%s is frozen and cannot act! (%d turns left)", name, s.FreezeTurns)
	return true
}

// attackerAction resolves the player's, companions' and mercenaries' swings.
// Reports whether the encounter ended.
func (e *Engine) attackerAction(enc *Encounter, frozen bool) bool {
	p := enc.Attacker
	switch {
	case enc.AttackerStatus.ConsumeStun():
		e.emit(enc, p.Name, ActionStunned, nil, "%s is stunned and cannot attack!", p.Name)
		return false
	case frozen:
		e.emit(enc, p.Name, ActionSkip, amount(0), "%s is frozen and cannot attack!", p.Name)
		return false
	}

	target := e.defenderVictim(enc)
	e.meleeExchange(enc, playerStriker(p), target)
	for _, c := range p.Companions {
		if c.HP <= 0 {
			continue
		}
		e.meleeExchange(enc, companionStriker(c), target)
	}
	for _, m := range p.Mercenaries {
		if m.HP <= 0 {
			continue
		}
		e.meleeExchange(enc, mercenaryStriker(m), target)
	}

	if enc.Defender.Alive() {
		return false
	}
	return e.defenderFell(enc)
}

// defenderFell promotes the next reinforcement or ends the encounter in victory.
// Reports whether the encounter ended.
func (e *Engine) defenderFell(enc *Encounter) bool {
	fallen := enc.Defender.Name
	if next, ok := enc.promote(); ok {
		e.emit(enc, SystemActor, ActionDefenderDefeated, nil, "%s defeated! %s steps forward to defend!", fallen, next.Name)
		return false
	}
	e.emit(enc, SystemActor, ActionVictory, nil, "%s defeated! %s claims the land!", fallen, enc.Attacker.Name)
	e.end(enc, OutcomeVictory)
	return true
}

// defenderAction resolves the defender's turn. Reports whether the encounter ended.
func (e *Engine) defenderAction(enc *Encounter, frozen bool) bool {
	d := enc.Defender
	p := enc.Attacker
	switch {
	case enc.DefenderStatus.ConsumeStun():
		e.emit(enc, d.Name, ActionStunned, nil, "%s is stunned and cannot attack!", d.Name)
		return false
	case frozen:
		e.emit(enc, d.Name, ActionSkip, amount(0), "%s is frozen and cannot attack!", d.Name)
		return false
	case enc.HasFled:
		e.emit(enc, d.Name, ActionSkip, amount(0), "%s has fled the battle!", d.Name)
		return false
	}

	switch dec := e.decide(enc).(type) {
	case FleeDecision:
		res := FleeContest(d.Stats.Dexterity, p.Stats.Dexterity, e.roller)
		if res.Success {
			enc.HasFled = true
			e.emit(enc, d.Name, ActionFlee, nil, "%s flees the battle! (rolled %d, needed %d)", d.Name, res.Roll, res.Needed)
			e.emit(enc, SystemActor, ActionVictory, nil, "%s claims the land as the defender flees!", p.Name)
			e.end(enc, OutcomeVictory)
			return true
		}
		e.emit(enc, d.Name, ActionFleeFail, nil, "%s tries to flee but is caught! (rolled %d, needed %d)", d.Name, res.Roll, res.Needed)
		_, dmg := e.freeStrike(p.Weapon.Damage, d.Armor)
		d.ApplyDamage(dmg)
		e.emit(enc, p.Name, ActionAttack, amount(dmg), "%s strikes the fleeing %s for %d damage!", p.Name, d.Name, dmg)
		if !d.Alive() {
			return e.defenderFell(enc)
		}
		return false

	case SpellDecision:
		e.castSpell(enc, dec.Spell)
		return e.attackerFell(enc)

	case MeleeDecision:
		e.meleeExchange(enc, defenderStriker(d), e.attackerVictim(enc))
		if e.attackerFell(enc) {
			return true
		}
		e.applyElemental(enc)
		return e.attackerFell(enc)
	}
	return false
}

// attackerFell ends the encounter in defeat when the player is dead.
func (e *Engine) attackerFell(enc *Encounter) bool {
	if !enc.Attacker.Dead() {
		return false
	}
	e.emit(enc, SystemActor, ActionDefeat, nil, "%s has been slain!", enc.Attacker.Name)
	e.end(enc, OutcomeDefeat)
	return true
}

// defenderVictim targets whoever currently holds the primary defender slot.
func (e *Engine) defenderVictim(enc *Encounter) victim {
	return victim{
		name:       enc.Defender.Name,
		armor:      enc.Defender.Armor,
		dexterity:  enc.Defender.Stats.Dexterity,
		immunities: enc.Defender.Immunities,
		status:     &enc.DefenderStatus,
		hit:        enc.Defender.ApplyDamage,
		alive:      enc.Defender.Alive,
	}
}

func (e *Engine) attackerVictim(enc *Encounter) victim {
	p := enc.Attacker
	return victim{
		name:       p.Name,
		armor:      p.Armor,
		dexterity:  p.Stats.Dexterity,
		immunities: p.Immunities,
		status:     &enc.AttackerStatus,
		hit:        p.ApplyDamage,
		alive:      func() bool { return !p.Dead() },
	}
}

func playerStriker(p *party.Player) striker {
	return striker{name: p.Name, damage: p.Weapon.Damage, damageType: p.Weapon.Type, stats: p.Stats, attacks: p.Strikes}
}

func companionStriker(c *party.Companion) striker {
	return striker{name: c.Name, damage: c.Damage, damageType: c.DamageType, stats: c.Stats, attacks: c.Attacks}
}

func mercenaryStriker(m *party.Mercenary) striker {
	return striker{name: m.Name + " (mercenary)", damage: m.Damage, damageType: m.DamageType, stats: m.Stats, attacks: m.Attacks}
}

func defenderStriker(d *Defender) striker {
	return striker{name: d.Name, damage: d.Damage, damageType: d.DamageType, stats: d.Stats, attacks: d.Attacks}
}
