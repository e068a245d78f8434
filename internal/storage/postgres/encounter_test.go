package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/party"
	"github.com/cory-johannsen/conquest/internal/storage/postgres"
	"github.com/cory-johannsen/conquest/internal/testutil"
)

func finished(square int, ended time.Time) *combat.Encounter {
	dmg := 4
	return &combat.Encounter{
		ID:         uuid.New(),
		Square:     square,
		SquareName: "Greenwood",
		Round:      2,
		Outcome:    combat.OutcomeVictory,
		Attacker:   &party.Player{ID: "alice", Name: "Alice"},
		Defender:   &combat.Defender{Name: "Goblin"},
		Log: []combat.LogEntry{
			{Round: 0, Actor: combat.SystemActor, Action: combat.ActionStart, Message: "Combat begins"},
			{Round: 1, Actor: "Alice", Action: combat.ActionAttack, Damage: &dmg, Message: "Alice hits Goblin"},
		},
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
}

func TestEncounterRepository(t *testing.T) {
	repo := postgres.NewEncounterRepository(testutil.NewPool(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, postgres.ErrEncounterNotFound)
	})

	older := finished(0, now.Add(-time.Hour))
	newer := finished(0, now)
	other := finished(1, now)

	t.Run("record and get", func(t *testing.T) {
		for _, enc := range []*combat.Encounter{older, newer, other} {
			require.NoError(t, repo.Record(ctx, enc))
		}

		got, err := repo.Get(ctx, newer.ID)
		require.NoError(t, err)
		assert.Equal(t, newer.ID, got.ID)
		assert.Equal(t, "alice", got.AttackerID)
		assert.Equal(t, "Goblin", got.Defender)
		assert.Equal(t, "victory", got.Outcome)
		assert.Equal(t, 2, got.Rounds)
		require.Len(t, got.Log, 2)
		assert.Nil(t, got.Log[0].Damage)
		require.NotNil(t, got.Log[1].Damage)
		assert.Equal(t, 4, *got.Log[1].Damage)
		assert.True(t, now.Equal(got.EndedAt))
	})

	t.Run("duplicate record", func(t *testing.T) {
		assert.ErrorIs(t, repo.Record(ctx, newer), postgres.ErrEncounterExists)
	})

	t.Run("active encounters are rejected", func(t *testing.T) {
		enc := finished(2, now)
		enc.Active = true
		assert.Error(t, repo.Record(ctx, enc))
	})

	t.Run("list by square newest first", func(t *testing.T) {
		recs, err := repo.ListBySquare(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, newer.ID, recs[0].ID)
		assert.Equal(t, older.ID, recs[1].ID)

		recs, err = repo.ListBySquare(ctx, 0, 1)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})
}
