package combat_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/conquest/internal/game/board"
	"github.com/cory-johannsen/conquest/internal/game/catalog"
	"github.com/cory-johannsen/conquest/internal/game/combat"
	"github.com/cory-johannsen/conquest/internal/game/dice"
	"github.com/cory-johannsen/conquest/internal/game/party"
)

// script replays queued Intn results, clamped into [0, n). Once the queue is
// empty it returns n-1: dice roll their maximum, criticals miss and percent
// checks fail.
type script struct {
	vals []int
	used int
}

func (s *script) Intn(n int) int {
	s.used++
	if len(s.vals) == 0 {
		return n - 1
	}
	v := s.vals[0]
	s.vals = s.vals[1:]
	return min(max(v, 0), n-1)
}

func (s *script) push(vals ...int) {
	s.vals = append(s.vals, vals...)
}

const (
	forest = 1
	plains = 2
	shrine = 3
)

// goblin is a defender that never crits (strength 0 with crush) and never flees.
func goblin() *catalog.Creature {
	return &catalog.Creature{
		Name:       "Goblin",
		HP:         10,
		Armor:      2,
		Attacks:    1,
		Damage:     dice.MustParse("1d4"),
		DamageType: catalog.Crush,
		AI:         catalog.AIBehavior{Bravery: 10},
	}
}

// hero is an attacker whose pierce strikes never crit (dexterity 0).
func hero() *party.Player {
	return &party.Player{
		ID:      "alice",
		Name:    "Alice",
		Alive:   true,
		HP:      100,
		MaxHP:   100,
		Armor:   10,
		Strikes: 1,
		Weapon:  party.Weapon{Damage: dice.MustParse("1d6"), Type: catalog.Pierce},
	}
}

type world struct {
	cat   *catalog.Catalog
	board *board.Board
	src   *script
	eng   *combat.Engine
	ended []*combat.Encounter
}

// newWorld builds a catalog with the given creatures, lands Forest (defended by
// the first creature), Plains and a utility Shrine, and a board of squares.
func newWorld(t *testing.T, creatures []*catalog.Creature, squares []*board.Square, opts ...combat.Option) *world {
	t.Helper()
	cat := catalog.New()
	for _, cr := range creatures {
		require.NoError(t, cat.AddCreature(cr))
	}
	defender := "Goblin"
	if len(creatures) > 0 {
		defender = creatures[0].Name
	}
	require.NoError(t, cat.AddLandType(&catalog.LandType{ID: forest, Name: "Forest", Defenders: []string{defender}}))
	require.NoError(t, cat.AddLandType(&catalog.LandType{ID: plains, Name: "Plains", Defenders: []string{"Phantom"}}))
	require.NoError(t, cat.AddLandType(&catalog.LandType{ID: shrine, Name: "Shrine", IsUtility: true}))

	b, err := board.New(squares)
	require.NoError(t, err)

	w := &world{cat: cat, board: b, src: &script{}}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	opts = append([]combat.Option{
		combat.WithLogger(zaptest.NewLogger(t)),
		combat.WithClock(func() time.Time { return clock }),
		combat.WithEndHook(func(enc *combat.Encounter) { w.ended = append(w.ended, enc) }),
	}, opts...)
	w.eng = combat.NewEngine(cat, b, w.src, opts...)
	return w
}

// lone returns a three-square board whose only Forest square is index 0.
func lone(owner string) []*board.Square {
	return []*board.Square{
		{Name: "Greenwood", LandTypeID: forest, OwnerID: owner},
		{Name: "Meadow", LandTypeID: plains},
		{Name: "Altar", LandTypeID: shrine},
	}
}

func start(t *testing.T, w *world, p *party.Player, square int) *combat.Encounter {
	t.Helper()
	enc, ok := w.eng.StartEncounter(p, square)
	require.True(t, ok)
	require.NotNil(t, enc)
	return enc
}

func actions(entries []combat.LogEntry) []combat.Action {
	out := make([]combat.Action, len(entries))
	for i, e := range entries {
		out[i] = e.Action
	}
	return out
}

func only(entries []combat.LogEntry, actor string, action combat.Action) []combat.LogEntry {
	var out []combat.LogEntry
	for _, e := range entries {
		if e.Actor == actor && e.Action == action {
			out = append(out, e)
		}
	}
	return out
}

// terminal counts the entries that end an encounter from inside a round.
func terminal(entries []combat.LogEntry) int {
	n := 0
	for _, e := range entries {
		switch e.Action {
		case combat.ActionVictory, combat.ActionDefeat, combat.ActionTimeout:
			n++
		}
	}
	return n
}
