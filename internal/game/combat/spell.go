package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/catalog"
)

// castSpell resolves sp cast by the defender against the attacker.
//
// Precondition: the defender can afford sp.
// Postcondition: mana is deducted before resolution and the whole pool
// regenerates by ManaRegen afterwards.
func (e *Engine) castSpell(enc *Encounter, sp *catalog.Spell) {
	d := enc.Defender
	p := enc.Attacker
	d.Mana[sp.ManaType] -= sp.ManaCost
	knowledge := max(1, 1+d.SpellLevelBonus)

	e.emit(enc, d.Name, ActionSpell, nil, "%s casts %s!", d.Name, sp.Name)

	switch eff := sp.Effect().(type) {
	case catalog.DamageEffect:
		casterPower := max(d.Stats.Power, 0)
		targetPower := max(p.Stats.Power, 1)
		bonus := e.roller.Uniform("spell bonus", 0, casterPower/2)
		base := knowledge*eff.BasePower + bonus
		resistance := e.roller.Uniform("spell resistance", 0, targetPower)
		damage := max(0, base*casterPower/targetPower-resistance)
		p.ApplyDamage(damage)
		e.emit(enc, d.Name, ActionSpellDamage, amount(damage), "%s deals %d damage to %s!", sp.Name, damage, p.Name)

		if eff.VampiricPercent > 0 && damage > 0 {
			heal := (eff.VampiricPercent + 25*knowledge) * damage / 100
			if restored := d.Heal(heal); restored > 0 {
				e.emit(enc, d.Name, ActionHeal, amount(-restored), "%s drains %d life from %s!", d.Name, restored, p.Name)
			}
		}

	case catalog.HealEffect:
		restored := d.Heal(knowledge * eff.BasePower / 2)
		if restored > 0 {
			e.emit(enc, d.Name, ActionHeal, amount(-restored), "%s heals for %d!", d.Name, restored)
		} else {
			e.emit(enc, d.Name, ActionHeal, amount(0), "%s is already at full health", d.Name)
		}

	case catalog.SummonEffect:
		tier := eff.Tiers[min(knowledge, len(eff.Tiers))-1]
		cr, ok := e.catalog.Creature(tier.Creature)
		if !ok {
			e.logger.Warn("summoned creature missing from catalog",
				zap.String("spell", sp.Name),
				zap.String("creature", tier.Creature),
			)
			e.emit(enc, SystemActor, ActionSkip, nil, "%s fizzles: %s does not answer", sp.Name, tier.Creature)
			break
		}
		for i := 0; i < tier.Count; i++ {
			enc.Pending = append(enc.Pending, &ReinforcementMob{
				Defender:       *newDefender(cr, cr.HP),
				FromSquare:     enc.Square,
				FromSquareName: enc.SquareName,
			})
		}
		e.emit(enc, d.Name, ActionSummon, nil, "%s summons %d %s!", d.Name, tier.Count, cr.Name)

	case catalog.UtilityEffect:
		e.emit(enc, d.Name, ActionSkip, nil, "%s has no effect in combat", sp.Name)
	}

	for t, regen := range d.ManaRegen {
		d.Mana[t] += regen
	}
}
