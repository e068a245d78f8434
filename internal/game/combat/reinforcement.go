package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/board"
)

// detectReinforcements queues a defender from each qualifying neighbour of the
// contested square. A neighbour qualifies when it shares the contested land
// type and owner and has not reinforced this turn.
//
// Postcondition: each triggering square is marked ReinforcedThisTurn and its
// defender waits in Pending until the next round.
func (e *Engine) detectReinforcements(enc *Encounter) {
	contested, ok := e.board.Square(enc.Square)
	if !ok || !contested.Owned() {
		return
	}
	for _, adj := range e.board.Adjacent(enc.Square) {
		if !qualifies(contested, adj) {
			continue
		}
		land, ok := e.catalog.LandType(adj.LandTypeID)
		if !ok {
			continue
		}
		name, ok := land.DefenderForTier(adj.DefenderTier)
		if !ok {
			continue
		}
		cr, ok := e.catalog.Creature(name)
		if !ok {
			e.logger.Warn("reinforcement creature missing from catalog",
				zap.String("square", adj.Name),
				zap.String("creature", name),
			)
			continue
		}
		adj.ReinforcedThisTurn = true
		enc.Pending = append(enc.Pending, &ReinforcementMob{
			Defender:       *newDefender(cr, cr.HP),
			FromSquare:     adj.Index,
			FromSquareName: adj.Name,
		})
		e.emit(enc, SystemActor, ActionReinforcement, nil, "%s from %s joins the battle!", cr.Name, adj.Name)
	}
}

func qualifies(contested, adj *board.Square) bool {
	return adj.LandTypeID == contested.LandTypeID &&
		adj.Owned() &&
		adj.OwnerID == contested.OwnerID &&
		!adj.ReinforcedThisTurn
}

// reinforcementsAttack lets every living reinforcement swing at the attacker's
// side: the first living companion, else the first living mercenary, else the
// player. Reinforcements never land criticals.
//
// Postcondition: Returns true when the player fell.
func (e *Engine) reinforcementsAttack(enc *Encounter) bool {
	p := enc.Attacker
	for _, mob := range enc.Reinforcements {
		if !mob.Alive() {
			continue
		}
		for i := 0; i < mob.Attacks; i++ {
			raw := e.roller.Roll(mob.Damage).Total()
			if c := p.FirstLivingCompanion(); c != nil {
				dmg := max(0, raw-c.Armor)
				c.ApplyDamage(dmg)
				e.emit(enc, mob.Name, ActionAttack, amount(dmg), "%s attacks %s for %d damage", mob.Name, c.Name, dmg)
				if c.HP == 0 {
					e.emit(enc, SystemActor, ActionCompanionDefeated, nil, "%s has been slain!", c.Name)
				}
				continue
			}
			if m := p.FirstLivingMercenary(); m != nil {
				dmg := max(0, raw-m.Armor)
				m.ApplyDamage(dmg)
				e.emit(enc, mob.Name, ActionAttack, amount(dmg), "%s attacks %s for %d damage", mob.Name, m.Name, dmg)
				if m.HP == 0 {
					e.emit(enc, SystemActor, ActionMercenaryDefeated, nil, "%s has been slain!", m.Name)
				}
				continue
			}
			dmg := max(0, raw-p.Armor)
			p.ApplyDamage(dmg)
			e.emit(enc, mob.Name, ActionAttack, amount(dmg), "%s (reinforcement) hits %s for %d damage", mob.Name, p.Name, dmg)
			if p.Dead() {
				return true
			}
		}
	}
	return false
}
