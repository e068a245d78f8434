package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/conquest/internal/game/board"
)

// ErrTerritoryNotFound is returned when a territory lookup yields no results.
var ErrTerritoryNotFound = errors.New("territory not found")

// TerritoryRepository persists board squares: ownership, defender tier and
// carried-over defender HP. Per-turn flags are not stored.
type TerritoryRepository struct {
	db *pgxpool.Pool
}

// NewTerritoryRepository creates a TerritoryRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewTerritoryRepository(db *pgxpool.Pool) *TerritoryRepository {
	return &TerritoryRepository{db: db}
}

const upsertTerritory = `
	INSERT INTO territories (square_index, name, land_type_id, owner_id, defender_tier, defender_hp, updated_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW())
	ON CONFLICT (square_index) DO UPDATE SET
		name          = EXCLUDED.name,
		land_type_id  = EXCLUDED.land_type_id,
		owner_id      = EXCLUDED.owner_id,
		defender_tier = EXCLUDED.defender_tier,
		defender_hp   = EXCLUDED.defender_hp,
		updated_at    = NOW()`

// Save upserts sq.
//
// Precondition: sq must not be nil.
func (r *TerritoryRepository) Save(ctx context.Context, sq *board.Square) error {
	_, err := r.db.Exec(ctx, upsertTerritory,
		sq.Index, sq.Name, sq.LandTypeID, sq.OwnerID, sq.DefenderTier, sq.DefenderHP,
	)
	if err != nil {
		return fmt.Errorf("saving territory %d: %w", sq.Index, err)
	}
	return nil
}

// SaveBoard upserts every square of b in one transaction.
//
// Postcondition: Either all squares are stored or none are.
func (r *TerritoryRepository) SaveBoard(ctx context.Context, b *board.Board) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, sq := range b.Squares() {
		batch.Queue(upsertTerritory,
			sq.Index, sq.Name, sq.LandTypeID, sq.OwnerID, sq.DefenderTier, sq.DefenderHP,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing board: %w", err)
	}
	return nil
}

// Get retrieves the territory at index.
//
// Postcondition: Returns the square or ErrTerritoryNotFound.
func (r *TerritoryRepository) Get(ctx context.Context, index int) (*board.Square, error) {
	row := r.db.QueryRow(ctx, `
		SELECT square_index, name, land_type_id, COALESCE(owner_id, ''), defender_tier, defender_hp
		FROM territories WHERE square_index = $1`, index)
	sq, err := scanTerritory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTerritoryNotFound
		}
		return nil, fmt.Errorf("querying territory %d: %w", index, err)
	}
	return sq, nil
}

// LoadBoard rebuilds the board from every stored territory in index order.
//
// Postcondition: Returns ErrTerritoryNotFound when nothing is stored.
func (r *TerritoryRepository) LoadBoard(ctx context.Context) (*board.Board, error) {
	rows, err := r.db.Query(ctx, `
		SELECT square_index, name, land_type_id, COALESCE(owner_id, ''), defender_tier, defender_hp
		FROM territories ORDER BY square_index ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing territories: %w", err)
	}
	defer rows.Close()

	var squares []*board.Square
	for rows.Next() {
		sq, err := scanTerritory(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning territory: %w", err)
		}
		squares = append(squares, sq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating territories: %w", err)
	}
	if len(squares) == 0 {
		return nil, ErrTerritoryNotFound
	}
	return board.New(squares)
}

func scanTerritory(row pgx.Row) (*board.Square, error) {
	var sq board.Square
	if err := row.Scan(&sq.Index, &sq.Name, &sq.LandTypeID, &sq.OwnerID, &sq.DefenderTier, &sq.DefenderHP); err != nil {
		return nil, err
	}
	return &sq, nil
}
