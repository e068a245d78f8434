package combat

import "github.com/cory-johannsen/conquest/internal/game/condition"

// Elemental proc chances, in percent.
const (
	burnChance   = 20
	freezeChance = 15
	poisonChance = 25
)

// applyElemental deals the defender's elemental profile to the attacker as a
// single hit, attempting each element's secondary effect once.
func (e *Engine) applyElemental(enc *Encounter) {
	d := enc.Defender
	p := enc.Attacker
	elem := d.Elemental
	status := &enc.AttackerStatus

	if elem.Fire > 0 && !status.Burning() && e.roller.Percent("burn proc", burnChance) && !e.resists(p.Immunities.Fire) {
		status.Ignite()
		e.emit(enc, d.Name, ActionBurnApply, amount(0), "%s is set on fire for %d turns!", p.Name, condition.BurnDuration)
	}
	if elem.Cold > 0 && !status.Frozen() && e.roller.Percent("freeze proc", freezeChance) && !e.resists(p.Immunities.Cold) {
		status.Freeze()
		e.emit(enc, d.Name, ActionFreezeApply, amount(0), "%s is frozen solid!", p.Name)
	}
	if elem.Poison > 0 && !status.Poisoned() && e.roller.Percent("poison proc", poisonChance) && !e.resists(p.Immunities.Poison) {
		status.SetPoison(elem.Poison / 2)
		e.emit(enc, d.Name, ActionPoisonApply, amount(0), "%s is poisoned for %d damage per round!", p.Name, status.Poison)
	}

	total := elem.Total()
	if total <= 0 {
		return
	}
	p.ApplyDamage(total)
	e.emit(enc, d.Name, ActionElemental, amount(total), "%s deals %d elemental damage", d.Name, total)
}
