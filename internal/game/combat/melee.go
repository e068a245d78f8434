package combat

import (
	"fmt"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/condition"
	"github.com/cory-johannsen/conquest/internal/game/dice"
)

// Critical-effect thresholds on applied damage.
const (
	bleedThreshold = 3
	stunThreshold  = 5
)

// CritWeights returns the attacker and defender weights of the critical-hit
// contest for damageType. Negative weights are floored at 0.
//
//   - pierce: dexterity vs targetDex+5
//   - slash:  strength+dexterity/2 vs targetDex+3
//   - crush:  strength*2 vs targetDex^3+2
func CritWeights(damageType catalog.DamageType, strength, dexterity, targetDex int) (attacker, defender int) {
	switch damageType {
	case catalog.Pierce:
		attacker, defender = dexterity, targetDex+5
	case catalog.Slash:
		attacker, defender = strength+dexterity/2, targetDex+3
	case catalog.Crush:
		attacker, defender = strength*2, targetDex*targetDex*targetDex+2
	}
	return max(attacker, 0), max(defender, 0)
}

// RollCritical resolves the critical-hit contest: a draw in
// [0, attacker+defender) below the attacker weight is a critical.
//
// Postcondition: never consumes randomness when the attacker weight is 0.
func RollCritical(src dice.Source, damageType catalog.DamageType, strength, dexterity, targetDex int) bool {
	a, d := CritWeights(damageType, strength, dexterity, targetDex)
	if a == 0 {
		return false
	}
	return src.Intn(a+d) < a
}

// StrikeResult is the damage outcome of one swing before status immunities.
type StrikeResult struct {
	Raw       int
	Damage    int
	ArmorUsed int
	Critical  bool
	// Bleed is the bleed a slash critical would inflict; 0 when none.
	Bleed int
	// Stun is set when a crush critical would stun.
	Stun bool
}

// ResolveStrike applies armor and the critical effect of damageType to raw.
//
// Postcondition: Damage >= 0. A pierce critical ignores armor.
func ResolveStrike(raw, armor int, damageType catalog.DamageType, critical bool) StrikeResult {
	r := StrikeResult{Raw: raw, ArmorUsed: armor, Critical: critical}
	if critical && damageType == catalog.Pierce {
		r.ArmorUsed = 0
	}
	r.Damage = max(0, raw-r.ArmorUsed)
	if !critical {
		return r
	}
	switch damageType {
	case catalog.Slash:
		if r.Damage > bleedThreshold {
			r.Bleed = r.Damage / 2
		}
	case catalog.Crush:
		r.Stun = r.Damage > stunThreshold
	}
	return r
}

// striker is one actor's melee profile.
type striker struct {
	name       string
	damage     dice.Expression
	damageType catalog.DamageType
	stats      catalog.Stats
	attacks    int
}

// victim is the receiving side of a melee exchange.
type victim struct {
	name       string
	armor      int
	dexterity  int
	immunities catalog.Immunities
	status     *condition.Status
	hit        func(int) int
	alive      func() bool
}

// meleeExchange resolves every swing of s against v, stopping once v falls.
func (e *Engine) meleeExchange(enc *Encounter, s striker, v victim) {
	for i := 0; i < s.attacks; i++ {
		if !v.alive() {
			return
		}
		raw := e.roller.Roll(s.damage).Total()
		crit := RollCritical(e.roller, s.damageType, s.stats.Strength, s.stats.Dexterity, v.dexterity)
		r := ResolveStrike(raw, v.armor, s.damageType, crit)
		v.hit(r.Damage)

		note := ""
		if r.Critical {
			note = e.criticalEffect(s.damageType, r, v)
		}
		action := ActionAttack
		if r.Critical {
			action = ActionCritical
		}
		e.emit(enc, s.name, action, amount(r.Damage), "%s hits %s for %d damage (%d - %d armor)%s",
			s.name, v.name, r.Damage, r.Raw, r.ArmorUsed, note)
	}
}

// criticalEffect applies bleed or stun to v and returns the log annotation.
func (e *Engine) criticalEffect(damageType catalog.DamageType, r StrikeResult, v victim) string {
	switch damageType {
	case catalog.Pierce:
		return " (CRITICAL: armor pierced!)"
	case catalog.Slash:
		if r.Bleed == 0 {
			return " (CRITICAL: but damage too low for bleeding)"
		}
		if e.resists(v.immunities.Bleeding) {
			return " (CRITICAL: but immunity protected!)"
		}
		v.status.AddBleed(r.Bleed)
		return fmt.Sprintf(" (CRITICAL: bleeding for %d/round!)", r.Bleed)
	case catalog.Crush:
		if !r.Stun {
			return " (CRITICAL: but damage too low for stun)"
		}
		if e.resists(v.immunities.Stun) {
			return " (CRITICAL: but immunity protected!)"
		}
		v.status.Stun()
		return fmt.Sprintf(" (CRITICAL: stunned for %d turns!)", condition.StunDuration)
	}
	return ""
}

// resists rolls an immunity percentage: <= 0 never resists, >= 100 always does.
func (e *Engine) resists(pct int) bool {
	return e.roller.Percent("immunity", pct)
}

// freeStrike is a single swing with dice only: no bonus, no critical.
func (e *Engine) freeStrike(expr dice.Expression, armor int) (raw, damage int) {
	for _, d := range e.roller.Roll(expr).Dice {
		raw += d
	}
	return raw, max(0, raw-armor)
}
