// Package dice provides the randomness abstraction and roll-result types
// used by the conquest combat engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
func (r RollResult) String() string {
	expr := r.Expression
	if expr == "" {
		expr = "?"
	}
	return fmt.Sprintf("%s → %v %+d = %d", expr, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for every roll the engine makes.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
