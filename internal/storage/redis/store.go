// Package redis keeps JSON snapshots of active encounters so an interrupted
// session can be inspected or resumed.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/conquest/internal/config"
	"github.com/cory-johannsen/conquest/internal/game/combat"
)

// ErrSnapshotNotFound is returned when no snapshot exists for an encounter.
var ErrSnapshotNotFound = errors.New("encounter snapshot not found")

const keyPrefix = "encounter:"

// EncounterStore stores one snapshot per encounter under encounter:<id>.
type EncounterStore struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient builds a go-redis client from cfg and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: cfg.Addr, DB: cfg.DB})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewEncounterStore wraps client. Snapshots expire ttl after their last save.
//
// Precondition: client must be non-nil and ttl > 0.
func NewEncounterStore(client *goredis.Client, ttl time.Duration, logger *zap.Logger) *EncounterStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EncounterStore{client: client, ttl: ttl, logger: logger}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// Save writes the current state of enc, replacing any earlier snapshot.
func (s *EncounterStore) Save(ctx context.Context, enc *combat.Encounter) error {
	data, err := json.Marshal(enc)
	if err != nil {
		return fmt.Errorf("encoding encounter %s: %w", enc.ID, err)
	}
	if err := s.client.Set(ctx, key(enc.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	s.logger.Debug("encounter snapshot saved",
		zap.String("encounter_id", enc.ID.String()),
		zap.Int("round", enc.Round),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load returns the snapshot for id.
//
// Postcondition: Returns ErrSnapshotNotFound when no snapshot exists.
func (s *EncounterStore) Load(ctx context.Context, id uuid.UUID) (*combat.Encounter, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	var enc combat.Encounter
	if err := json.Unmarshal(data, &enc); err != nil {
		return nil, fmt.Errorf("decoding encounter %s: %w", id, err)
	}
	return &enc, nil
}

// Delete drops the snapshot for id. Deleting a missing snapshot is not an error.
func (s *EncounterStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	s.logger.Debug("encounter snapshot deleted", zap.String("encounter_id", id.String()))
	return nil
}

// Active lists the ids of every stored snapshot.
func (s *EncounterStore) Active(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := uuid.Parse(iter.Val()[len(keyPrefix):])
		if err != nil {
			s.logger.Warn("skipping malformed snapshot key", zap.String("key", iter.Val()))
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return ids, nil
}
