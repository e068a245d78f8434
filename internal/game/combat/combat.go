// Package combat resolves territory encounters: one attacker (with companions
// and mercenaries) against a territory's defender and any reinforcements that
// arrive from adjacent squares. Rounds are resolved one at a time by the Engine.
package combat

import "fmt"

// RoundLimit is the round number at which an unresolved encounter times out.
const RoundLimit = 4

// SystemActor is the actor name used for engine-generated log entries.
const SystemActor = "System"

// Action tags a log entry. The set is stable; presentation layers switch on it.
type Action string

const (
	ActionStart             Action = "start"
	ActionAttack            Action = "attack"
	ActionCritical          Action = "critical"
	ActionBleeding          Action = "bleeding"
	ActionPoison            Action = "poison"
	ActionBurning           Action = "burning"
	ActionFrozen            Action = "frozen"
	ActionStunned           Action = "stunned"
	ActionSkip              Action = "skip"
	ActionVictory           Action = "victory"
	ActionDefeat            Action = "defeat"
	ActionDefenderDefeated  Action = "defender_defeated"
	ActionFlee              Action = "flee"
	ActionFleeFail          Action = "flee_fail"
	ActionFleeOdds          Action = "flee_odds"
	ActionFleeBlocked       Action = "flee_blocked"
	ActionOpportunityAttack Action = "opportunity_attack"
	ActionSpell             Action = "spell"
	ActionSpellDamage       Action = "spell_damage"
	ActionHeal              Action = "heal"
	ActionSummon            Action = "summon"
	ActionElemental         Action = "elemental"
	ActionBurnApply         Action = "burn_apply"
	ActionFreezeApply       Action = "freeze_apply"
	ActionPoisonApply       Action = "poison_apply"
	ActionCompanionDefeated Action = "companion_defeated"
	ActionMercenaryDefeated Action = "mercenary_defeated"
	ActionReinforcement     Action = "reinforcement"
	ActionTimeout           Action = "timeout"
	ActionEvolution         Action = "evolution"
)

// LogEntry is one human-readable event. Heals carry a negative Damage equal
// to the HP actually restored.
type LogEntry struct {
	Round   int    `json:"round"`
	Actor   string `json:"actor"`
	Action  Action `json:"action"`
	Damage  *int   `json:"damage,omitempty"`
	Message string `json:"message"`
}

func amount(n int) *int {
	return &n
}

// Outcome is how an encounter ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
	OutcomeTimeout
	OutcomeAutoWin
)

// String returns the outcome's stable name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeFled:
		return "fled"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeAutoWin:
		return "auto_win"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Victory reports whether the attacker took the territory.
func (o Outcome) Victory() bool {
	return o == OutcomeVictory || o == OutcomeAutoWin
}

// Phase is the game-session phase as seen by the engine.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseCombat
	PhaseFinished
)

// String returns the phase's stable name.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseCombat:
		return "combat"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}
