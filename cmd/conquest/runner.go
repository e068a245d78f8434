package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/game/board"
	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

// snapshotStore keeps the state of encounters that are still being fought.
type snapshotStore interface {
	Save(ctx context.Context, enc *combat.Encounter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// territoryStore persists a square after its ownership or defender HP changes.
type territoryStore interface {
	Save(ctx context.Context, sq *board.Square) error
}

// encounterRecorder archives finished encounters.
type encounterRecorder interface {
	Record(ctx context.Context, enc *combat.Encounter) error
}

// runner plays one attacker through a number of turns, attacking each target
// square once per turn and fighting every encounter to its end.
type runner struct {
	engine   *combat.Engine
	board    *board.Board
	attacker *party.Player
	logger   *zap.Logger
	out      io.Writer

	// targets lists square indices to attack each turn; empty attacks every square.
	targets []int
	turns   int
	// fleeBelow is the HP percentage under which the attacker tries to flee; 0 never flees.
	fleeBelow int
	asJSON    bool

	snapshots   snapshotStore
	territories territoryStore
	encounters  encounterRecorder
}

// Run satisfies server.Service.
func (r *runner) Run(ctx context.Context) error {
	r.engine.OnEnd(r.persist(ctx))

	for turn := 1; turn <= r.turns; turn++ {
		if ctx.Err() != nil {
			r.logger.Info("simulation interrupted", zap.Int("turn", turn))
			return nil
		}
		reset := r.engine.BeginTurn()
		r.logger.Info("turn begins",
			zap.Int("turn", turn),
			zap.String("attacker", r.attacker.Name),
			zap.Int("squares_reset", reset),
		)
		for _, idx := range r.targetSquares() {
			if r.done() || ctx.Err() != nil {
				break
			}
			if err := r.fight(ctx, idx); err != nil {
				return err
			}
		}
		r.summarise(turn)
		if r.done() {
			break
		}
	}
	return nil
}

func (r *runner) done() bool {
	return r.attacker.Dead() || r.engine.Phase() == combat.PhaseFinished
}

func (r *runner) targetSquares() []int {
	if len(r.targets) > 0 {
		return r.targets
	}
	all := make([]int, r.board.Len())
	for i := range all {
		all[i] = i
	}
	return all
}

// fight runs one encounter on square idx until it ends or ctx is cancelled.
func (r *runner) fight(ctx context.Context, idx int) error {
	enc, ok := r.engine.StartEncounter(r.attacker, idx)
	if !ok {
		r.logger.Debug("square not attackable", zap.Int("square", idx))
		return nil
	}
	if enc == nil {
		sq, _ := r.board.Square(idx)
		if _, err := fmt.Fprintf(r.out, "%s takes %s unopposed\n", r.attacker.Name, sq.Name); err != nil {
			return err
		}
		if r.territories != nil {
			if err := r.territories.Save(ctx, sq); err != nil {
				r.logger.Error("saving territory", zap.Int("square", idx), zap.Error(err))
			}
		}
		return nil
	}

	if err := r.print(enc.Log); err != nil {
		return err
	}
	for enc.Active {
		if ctx.Err() != nil {
			r.logger.Warn("encounter left unfinished",
				zap.String("encounter_id", enc.ID.String()),
				zap.Int("round", enc.Round),
			)
			return nil
		}
		if r.wantsToFlee(enc) {
			before := len(enc.Log)
			r.engine.AttemptFlee(enc)
			if err := r.print(enc.Log[before:]); err != nil {
				return err
			}
			if !enc.Active {
				break
			}
		}
		if err := r.print(r.engine.ResolveRound(enc)); err != nil {
			return err
		}
		if enc.Active && r.snapshots != nil {
			if err := r.snapshots.Save(ctx, enc); err != nil {
				r.logger.Error("saving encounter snapshot", zap.Error(err))
			}
		}
	}
	return nil
}

func (r *runner) wantsToFlee(enc *combat.Encounter) bool {
	p := enc.Attacker
	return r.fleeBelow > 0 && !enc.FleeAttempted && p.HP*100 < r.fleeBelow*p.MaxHP
}

// persist returns the end hook that writes finished encounters to the stores.
// It runs under the engine lock, so it only touches the encounter and board.
func (r *runner) persist(ctx context.Context) combat.EndHook {
	return func(enc *combat.Encounter) {
		fields := []zap.Field{zap.String("encounter_id", enc.ID.String())}
		if r.encounters != nil {
			if err := r.encounters.Record(ctx, enc); err != nil {
				r.logger.Error("recording encounter", append(fields, zap.Error(err))...)
			}
		}
		if r.territories != nil {
			if sq, ok := r.board.Square(enc.Square); ok {
				if err := r.territories.Save(ctx, sq); err != nil {
					r.logger.Error("saving territory", append(fields, zap.Error(err))...)
				}
			}
		}
		if r.snapshots != nil {
			if err := r.snapshots.Delete(ctx, enc.ID); err != nil {
				r.logger.Error("deleting encounter snapshot", append(fields, zap.Error(err))...)
			}
		}
	}
}

func (r *runner) print(entries []combat.LogEntry) error {
	if r.asJSON {
		enc := json.NewEncoder(r.out)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				return fmt.Errorf("writing log entry: %w", err)
			}
		}
		return nil
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(r.out, "[%d] %-20s %-18s %s\n", e.Round, e.Actor, e.Action, e.Message); err != nil {
			return fmt.Errorf("writing log entry: %w", err)
		}
	}
	return nil
}

func (r *runner) summarise(turn int) {
	held := len(r.board.OwnedBy(r.attacker.ID))
	r.logger.Info("turn complete",
		zap.Int("turn", turn),
		zap.String("attacker", r.attacker.Name),
		zap.Int("hp", r.attacker.HP),
		zap.Int("squares_held", held),
		zap.Int("squares_total", r.board.Len()),
		zap.Stringer("phase", r.engine.Phase()),
	)
}
