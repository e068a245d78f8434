// Package board models the ring of territory squares that encounters are
// fought over: ownership, defender tier, persisted defender HP and the
// per-turn reinforcement and attack flags.
package board

import (
	"errors"
	"fmt"
	"strings"
)

// Square is one territory on the board.
type Square struct {
	Index        int    `json:"index"`
	Name         string `json:"name"`
	LandTypeID   int    `json:"land_type_id"`
	OwnerID      string `json:"owner_id,omitempty"`
	DefenderTier int    `json:"defender_tier"`
	// DefenderHP is the HP carried over from an undefeated defender.
	// nil means the next defender starts at full HP.
	DefenderHP         *int `json:"defender_hp,omitempty"`
	ReinforcedThisTurn bool `json:"reinforced_this_turn"`
	AttackedThisTurn   bool `json:"attacked_this_turn"`
}

// Owned reports whether any player owns the square.
func (s *Square) Owned() bool {
	return s.OwnerID != ""
}

// PersistDefenderHP records hp as the defender's carried-over HP.
func (s *Square) PersistDefenderHP(hp int) {
	v := hp
	s.DefenderHP = &v
}

// ClearDefenderHP discards any carried-over HP.
func (s *Square) ClearDefenderHP() {
	s.DefenderHP = nil
}

// Board is an ordered ring of squares. The last square is adjacent to the first.
//
// A Board is not safe for concurrent use; the combat engine serialises access.
type Board struct {
	squares []*Square
}

// New builds a Board from squares, renumbering each square's Index to its position.
//
// Precondition: len(squares) >= 1.
// Postcondition: Returns a Board or the joined validation errors.
func New(squares []*Square) (*Board, error) {
	if len(squares) == 0 {
		return nil, fmt.Errorf("board: at least one square is required")
	}
	var errs []string
	for i, sq := range squares {
		if sq == nil {
			errs = append(errs, fmt.Sprintf("square %d: nil", i))
			continue
		}
		sq.Index = i
		if sq.Name == "" {
			errs = append(errs, fmt.Sprintf("square %d: name must not be empty", i))
		}
		if sq.DefenderTier < 1 {
			sq.DefenderTier = 1
		}
	}
	if len(errs) > 0 {
		return nil, errors.New("board: " + strings.Join(errs, "; "))
	}
	return &Board{squares: squares}, nil
}

// Len returns the number of squares.
func (b *Board) Len() int {
	return len(b.squares)
}

// Square returns the square at index, or (nil, false) when out of range.
func (b *Board) Square(index int) (*Square, bool) {
	if index < 0 || index >= len(b.squares) {
		return nil, false
	}
	return b.squares[index], true
}

// Squares returns the squares in board order. The slice is a copy; the
// squares themselves are shared.
func (b *Board) Squares() []*Square {
	out := make([]*Square, len(b.squares))
	copy(out, b.squares)
	return out
}

// Adjacent returns the squares at (index-1+n)%n and (index+1)%n.
//
// Postcondition: On boards of one or two squares the same square is returned
// at most once, and a square is never adjacent to itself.
func (b *Board) Adjacent(index int) []*Square {
	n := len(b.squares)
	if index < 0 || index >= n {
		return nil
	}
	var out []*Square
	for _, pos := range []int{(index - 1 + n) % n, (index + 1) % n} {
		if pos == index {
			continue
		}
		if len(out) == 1 && out[0].Index == pos {
			continue
		}
		out = append(out, b.squares[pos])
	}
	return out
}

// OwnedBy returns every square owned by ownerID.
func (b *Board) OwnedBy(ownerID string) []*Square {
	var out []*Square
	for _, sq := range b.squares {
		if ownerID != "" && sq.OwnerID == ownerID {
			out = append(out, sq)
		}
	}
	return out
}

// ResetTurnFlags clears the reinforcement and attack flags on every square of
// the board. Called whenever a new player turn begins.
//
// Postcondition: No square is flagged. Returns the number of squares that had
// at least one flag set.
func (b *Board) ResetTurnFlags() int {
	n := 0
	for _, sq := range b.squares {
		if sq.ReinforcedThisTurn || sq.AttackedThisTurn {
			n++
		}
		sq.ReinforcedThisTurn = false
		sq.AttackedThisTurn = false
	}
	return n
}
