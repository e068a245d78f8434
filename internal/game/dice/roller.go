package dice

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse or New; src must be non-nil.
// Postcondition: len(result.Dice) == expr.Count and
// result.Total() == sum(result.Dice) + result.Modifier.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	return RollResult{
		Expression: expr.String(),
		Dice:       rolled,
		Modifier:   expr.Modifier,
	}
}

// RollExpr parses expr and rolls it using src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}

// Uniform returns an integer drawn uniformly from the closed range [lo, hi].
// A degenerate range (hi <= lo) returns lo without consuming randomness.
func Uniform(src Source, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Percent reports whether a d100 draw in [0, 100) falls below pct.
// pct <= 0 never succeeds and pct >= 100 always does; neither consumes randomness.
func Percent(src Source, pct int) bool {
	switch {
	case pct <= 0:
		return false
	case pct >= 100:
		return true
	}
	return src.Intn(100) < pct
}
