package board_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/conquest/internal/game/board"
)

func ring(t *testing.T, n int) *board.Board {
	t.Helper()
	squares := make([]*board.Square, n)
	for i := range squares {
		squares[i] = &board.Square{Name: "sq", LandTypeID: 1}
	}
	b, err := board.New(squares)
	require.NoError(t, err)
	return b
}

func indexes(squares []*board.Square) []int {
	out := make([]int, 0, len(squares))
	for _, s := range squares {
		out = append(out, s.Index)
	}
	return out
}

func TestNew_RejectsEmpty(t *testing.T) {
	_, err := board.New(nil)
	assert.Error(t, err)
}

func TestNew_JoinsErrors(t *testing.T) {
	_, err := board.New([]*board.Square{{}, nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "square 0: name must not be empty")
	assert.Contains(t, err.Error(), "square 1: nil")
}

func TestNew_DefaultsTier(t *testing.T) {
	b := ring(t, 1)
	sq, ok := b.Square(0)
	require.True(t, ok)
	assert.Equal(t, 1, sq.DefenderTier)
}

func TestAdjacent_WrapsAround(t *testing.T) {
	b := ring(t, 5)
	assert.Equal(t, []int{4, 1}, indexes(b.Adjacent(0)))
	assert.Equal(t, []int{3, 0}, indexes(b.Adjacent(4)))
	assert.Equal(t, []int{1, 3}, indexes(b.Adjacent(2)))
}

func TestAdjacent_SmallBoards(t *testing.T) {
	assert.Empty(t, ring(t, 1).Adjacent(0))
	assert.Equal(t, []int{1}, indexes(ring(t, 2).Adjacent(0)))
	assert.Nil(t, ring(t, 3).Adjacent(7))
}

func TestProperty_AdjacentNeverSelfOrDuplicate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		i := rapid.IntRange(0, n-1).Draw(rt, "i")
		squares := make([]*board.Square, n)
		for k := range squares {
			squares[k] = &board.Square{Name: "sq"}
		}
		b, err := board.New(squares)
		if err != nil {
			rt.Fatal(err)
		}
		seen := map[int]bool{}
		for _, sq := range b.Adjacent(i) {
			if sq.Index == i || seen[sq.Index] {
				rt.Fatalf("bad neighbour %d of %d on board of %d", sq.Index, i, n)
			}
			seen[sq.Index] = true
		}
	})
}

func TestResetTurnFlags(t *testing.T) {
	b := ring(t, 3)
	for i, owner := range []string{"alice", "bob", "alice"} {
		sq, _ := b.Square(i)
		sq.OwnerID = owner
		sq.ReinforcedThisTurn = true
		sq.AttackedThisTurn = true
	}
	neutral, _ := b.Square(1)
	neutral.OwnerID = ""
	neutral.ReinforcedThisTurn = false

	assert.Equal(t, 3, b.ResetTurnFlags())
	for i := 0; i < 3; i++ {
		sq, _ := b.Square(i)
		assert.False(t, sq.ReinforcedThisTurn, "square %d", i)
		assert.False(t, sq.AttackedThisTurn, "square %d", i)
	}
	assert.Equal(t, 0, b.ResetTurnFlags())
}

func TestSquare_DefenderHP(t *testing.T) {
	var sq board.Square
	assert.False(t, sq.Owned())
	sq.PersistDefenderHP(7)
	require.NotNil(t, sq.DefenderHP)
	assert.Equal(t, 7, *sq.DefenderHP)
	sq.ClearDefenderHP()
	assert.Nil(t, sq.DefenderHP)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	body := `squares:
  - name: Greenwood
    land_type: 1
    owner: alice
    tier: 2
    defender_hp: 4
  - name: Stonepass
    land_type: 2
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	b, err := board.LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, b.Len())

	sq, _ := b.Square(0)
	assert.Equal(t, "Greenwood", sq.Name)
	assert.Equal(t, "alice", sq.OwnerID)
	assert.Equal(t, 2, sq.DefenderTier)
	require.NotNil(t, sq.DefenderHP)
	assert.Equal(t, 4, *sq.DefenderHP)

	sq, _ = b.Square(1)
	assert.Equal(t, 1, sq.Index)
	assert.False(t, sq.Owned())
}

func TestLoadFromBytes_RejectsUnknownField(t *testing.T) {
	_, err := board.LoadFromBytes([]byte("squares:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := board.LoadFromFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}
