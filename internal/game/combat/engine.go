package combat

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/board"
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
	"github.com/cory-johannsen/conquest/internal/scripting"
)

// Catalog is the read-only content the engine resolves against.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Creature(name string) (*catalog.Creature, bool)
	Spell(name string) (*catalog.Spell, bool)
	LandType(id int) (*catalog.LandType, bool)
	Evolution(name string) (*catalog.Evolution, bool)
}

// EndHook observes a finished encounter. Hooks run while the engine lock is
// held and must not call back into the Engine.
type EndHook func(enc *Encounter)

// Engine owns the board-level combat state for one game session: the active
// encounter per contested square and the session phase.
//
// All exported methods are safe for concurrent use; rounds never overlap.
type Engine struct {
	mu         sync.Mutex
	catalog    Catalog
	board      *board.Board
	roller     *dice.Roller
	logger     *zap.Logger
	scripts    *scripting.Manager
	phase      Phase
	encounters map[int]*Encounter
	players    []*party.Player
	hooks      []EndHook
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. The dice roller logs through it as well.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithScripts enables Lua defender hooks.
func WithScripts(m *scripting.Manager) Option {
	return func(e *Engine) { e.scripts = m }
}

// WithPlayers registers the session's players for game-over detection.
func WithPlayers(players ...*party.Player) Option {
	return func(e *Engine) { e.players = append(e.players, players...) }
}

// WithEndHook registers h to observe every finished encounter.
func WithEndHook(h EndHook) Option {
	return func(e *Engine) {
		if h != nil {
			e.hooks = append(e.hooks, h)
		}
	}
}

// WithClock overrides the time source used for encounter timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an Engine in the playing phase.
//
// Precondition: cat, b and src must be non-nil.
func NewEngine(cat Catalog, b *board.Board, src dice.Source, opts ...Option) *Engine {
	if cat == nil || b == nil || src == nil {
		panic("combat.NewEngine: catalog, board and dice source must not be nil")
	}
	e := &Engine{
		catalog:    cat,
		board:      b,
		logger:     zap.NewNop(),
		phase:      PhasePlaying,
		encounters: make(map[int]*Encounter),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.roller = dice.NewLoggedRoller(src, e.logger)
	return e
}

// Phase returns the current session phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// RegisterPlayer adds p to game-over detection.
func (e *Engine) RegisterPlayer(p *party.Player) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.players = append(e.players, p)
}

// OnEnd registers h to observe every finished encounter.
func (e *Engine) OnEnd(h EndHook) {
	if h == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hooks = append(e.hooks, h)
}

// Encounter returns the active encounter on square, if any.
func (e *Engine) Encounter(square int) (*Encounter, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	enc, ok := e.encounters[square]
	return enc, ok
}

// BeginTurn starts a new player turn: every square may be attacked and may
// reinforce again. Returns the number of squares whose flags were cleared.
func (e *Engine) BeginTurn() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board.ResetTurnFlags()
}

// StartEncounter opens an encounter for attacker on square.
//
// Precondition: the engine is in the playing phase.
// Postcondition: Returns (nil, false) without mutation when the attack is not
// allowed. Returns (nil, true) when the square's defender creature is unknown:
// the attacker takes the square outright. Otherwise returns the new active
// encounter at round 1 and switches the engine to the combat phase.
func (e *Engine) StartEncounter(attacker *party.Player, square int) (*Encounter, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhasePlaying || attacker == nil || attacker.Dead() {
		return nil, false
	}
	sq, ok := e.board.Square(square)
	if !ok || sq.AttackedThisTurn {
		return nil, false
	}
	if sq.Owned() && sq.OwnerID == attacker.ID {
		return nil, false
	}
	land, ok := e.catalog.LandType(sq.LandTypeID)
	if !ok || land.IsUtility {
		return nil, false
	}
	name, ok := land.DefenderForTier(sq.DefenderTier)
	if !ok {
		return nil, false
	}

	cr, ok := e.catalog.Creature(name)
	if !ok {
		sq.OwnerID = attacker.ID
		sq.ClearDefenderHP()
		e.logger.Warn("auto_win",
			zap.String("square", sq.Name),
			zap.String("creature", name),
			zap.String("attacker", attacker.Name),
		)
		return nil, true
	}

	hp := cr.HP
	if sq.DefenderHP != nil {
		hp = *sq.DefenderHP
	}
	enc := &Encounter{
		ID:         uuid.New(),
		Square:     sq.Index,
		SquareName: sq.Name,
		LandType:   land.Name,
		Round:      1,
		Active:     true,
		Attacker:   attacker,
		Defender:   newDefender(cr, hp),
		StartedAt:  e.now(),
	}
	sq.AttackedThisTurn = true
	e.encounters[sq.Index] = enc
	e.phase = PhaseCombat

	enc.Log = append(enc.Log, LogEntry{
		Round:   0,
		Actor:   SystemActor,
		Action:  ActionStart,
		Message: fmt.Sprintf("Combat begins: %s vs %s at %s", attacker.Name, enc.Defender.Name, sq.Name),
	})
	e.logger.Info("encounter started",
		zap.String("encounter_id", enc.ID.String()),
		zap.String("square", sq.Name),
		zap.String("attacker", attacker.Name),
		zap.String("defender", enc.Defender.Name),
		zap.Int("defender_hp", enc.Defender.HP),
	)
	return enc, true
}

// AttemptFlee lets the attacker try to leave enc. At most one attempt is
// allowed per round.
//
// Postcondition: Returns true only when the attacker escaped and the encounter ended.
func (e *Engine) AttemptFlee(enc *Encounter) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.owns(enc) {
		return false
	}
	p := enc.Attacker
	d := enc.Defender
	if enc.FleeAttempted {
		e.emit(enc, p.Name, ActionFleeBlocked, nil, "%s already tried to flee this round!", p.Name)
		return false
	}
	enc.FleeAttempted = true

	res := FleeContest(p.Stats.Dexterity, d.Stats.Dexterity, e.roller)
	e.emit(enc, SystemActor, ActionFleeOdds, nil, "Flee odds: %d%% (Runner %d vs Chaser %d)",
		res.Percent(), res.RunnerBonus, res.ChaserBonus)
	if res.Success {
		e.emit(enc, p.Name, ActionFlee, nil, "%s escapes from %s! (rolled %d, needed %d)", p.Name, d.Name, res.Roll, res.Needed)
		e.end(enc, OutcomeFled)
		return true
	}

	e.emit(enc, p.Name, ActionFleeFail, nil, "%s fails to escape! (rolled %d, needed %d)", p.Name, res.Roll, res.Needed)
	_, dmg := e.freeStrike(d.Damage, p.Armor)
	p.ApplyDamage(dmg)
	e.emit(enc, d.Name, ActionOpportunityAttack, amount(dmg), "%s strikes %s as they try to flee for %d damage!", d.Name, p.Name, dmg)
	if p.Dead() {
		e.emit(enc, SystemActor, ActionDefeat, nil, "%s has been slain while fleeing!", p.Name)
		e.end(enc, OutcomeDefeat)
	}
	return false
}

// owns reports whether enc is an active encounter of this engine in the combat phase.
func (e *Engine) owns(enc *Encounter) bool {
	if enc == nil || !enc.Active || e.phase != PhaseCombat {
		return false
	}
	return e.encounters[enc.Square] == enc
}

// emit appends a log entry for the current round.
func (e *Engine) emit(enc *Encounter, actor string, action Action, damage *int, format string, args ...any) {
	enc.Log = append(enc.Log, LogEntry{
		Round:   enc.Round,
		Actor:   actor,
		Action:  action,
		Damage:  damage,
		Message: fmt.Sprintf(format, args...),
	})
}

// roundsFought is the number of rounds enc lasted. A timeout fires after the
// round counter has already moved past the last round fought.
func roundsFought(enc *Encounter, outcome Outcome) int {
	if outcome == OutcomeTimeout {
		return enc.Round - 1
	}
	return enc.Round
}

// end terminates enc exactly once: writes the result back to the board,
// advances pets, detaches the encounter and notifies hooks.
func (e *Engine) end(enc *Encounter, outcome Outcome) {
	if !enc.Active {
		return
	}
	if sq, ok := e.board.Square(enc.Square); ok {
		if outcome.Victory() {
			sq.OwnerID = enc.Attacker.ID
			sq.ClearDefenderHP()
		} else {
			sq.PersistDefenderHP(enc.Defender.HP)
		}
	}

	if !enc.Attacker.Dead() {
		for _, ev := range enc.Attacker.AdvancePets(roundsFought(enc, outcome), e.catalog) {
			e.emit(enc, SystemActor, ActionEvolution, nil, "%s evolved into %s!", ev.From, ev.To)
		}
	}

	enc.Active = false
	enc.Outcome = outcome
	enc.EndedAt = e.now()
	delete(e.encounters, enc.Square)
	e.phase = PhasePlaying
	if e.gameOver() {
		e.phase = PhaseFinished
	}

	e.logger.Info("encounter ended",
		zap.String("encounter_id", enc.ID.String()),
		zap.String("square", enc.SquareName),
		zap.Stringer("outcome", outcome),
		zap.Int("rounds", enc.Round),
		zap.Duration("duration", enc.EndedAt.Sub(enc.StartedAt)),
	)
	for _, h := range e.hooks {
		h(enc)
	}
}

// gameOver reports whether at most one of two or more registered players is alive.
func (e *Engine) gameOver() bool {
	if len(e.players) < 2 {
		return false
	}
	alive := 0
	for _, p := range e.players {
		if !p.Dead() {
			alive++
		}
	}
	return alive <= 1
}
