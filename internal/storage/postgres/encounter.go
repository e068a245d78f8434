package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/conquest/internal/game/combat"
)

// ErrEncounterNotFound is returned when an encounter lookup yields no results.
var ErrEncounterNotFound = errors.New("encounter not found")

// ErrEncounterExists is returned when a finished encounter is recorded twice.
var ErrEncounterExists = errors.New("encounter already recorded")

// EncounterRecord is the stored summary of a finished encounter.
type EncounterRecord struct {
	ID         uuid.UUID
	Square     int
	SquareName string
	AttackerID string
	Defender   string
	Outcome    string
	Rounds     int
	Log        []combat.LogEntry
	StartedAt  time.Time
	EndedAt    time.Time
}

// EncounterRepository stores finished encounters and their combat logs.
type EncounterRepository struct {
	db *pgxpool.Pool
}

// NewEncounterRepository creates an EncounterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewEncounterRepository(db *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{db: db}
}

// Record stores a finished encounter.
//
// Precondition: enc must have terminated.
// Postcondition: Returns ErrEncounterExists if enc.ID is already stored.
func (r *EncounterRepository) Record(ctx context.Context, enc *combat.Encounter) error {
	if enc.Active {
		return fmt.Errorf("recording encounter %s: still active", enc.ID)
	}
	logJSON, err := json.Marshal(enc.Log)
	if err != nil {
		return fmt.Errorf("encoding encounter log: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO encounters
			(id, square_index, square_name, attacker_id, defender, outcome, rounds, log, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		enc.ID.String(), enc.Square, enc.SquareName, enc.Attacker.ID, enc.Defender.Name,
		enc.Outcome.String(), enc.Round, logJSON, enc.StartedAt, enc.EndedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrEncounterExists
		}
		return fmt.Errorf("inserting encounter: %w", err)
	}
	return nil
}

const selectEncounter = `
	SELECT id::text, square_index, square_name, attacker_id, defender, outcome, rounds, log, started_at, ended_at
	FROM encounters`

// Get retrieves the encounter with the given id.
//
// Postcondition: Returns the record or ErrEncounterNotFound.
func (r *EncounterRepository) Get(ctx context.Context, id uuid.UUID) (*EncounterRecord, error) {
	rec, err := scanEncounter(r.db.QueryRow(ctx, selectEncounter+` WHERE id = $1`, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEncounterNotFound
		}
		return nil, fmt.Errorf("querying encounter %s: %w", id, err)
	}
	return rec, nil
}

// ListBySquare returns up to limit encounters fought over square, newest first.
//
// Precondition: limit must be > 0.
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *EncounterRepository) ListBySquare(ctx context.Context, square, limit int) ([]*EncounterRecord, error) {
	rows, err := r.db.Query(ctx, selectEncounter+`
		WHERE square_index = $1 ORDER BY ended_at DESC LIMIT $2`, square, limit)
	if err != nil {
		return nil, fmt.Errorf("listing encounters: %w", err)
	}
	defer rows.Close()

	var out []*EncounterRecord
	for rows.Next() {
		rec, err := scanEncounter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning encounter: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounters: %w", err)
	}
	return out, nil
}

func scanEncounter(row pgx.Row) (*EncounterRecord, error) {
	var (
		rec     EncounterRecord
		id      string
		logJSON []byte
	)
	err := row.Scan(&id, &rec.Square, &rec.SquareName, &rec.AttackerID, &rec.Defender,
		&rec.Outcome, &rec.Rounds, &logJSON, &rec.StartedAt, &rec.EndedAt)
	if err != nil {
		return nil, err
	}
	if rec.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing encounter id: %w", err)
	}
	if err := json.Unmarshal(logJSON, &rec.Log); err != nil {
		return nil, fmt.Errorf("decoding encounter log: %w", err)
	}
	return &rec, nil
}
