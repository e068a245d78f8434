package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged dice rolling.
// Every draw is logged at debug level so a round can be audited after the fact.
//
// Roller itself satisfies Source, so it can be handed to code that only needs Intn.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger disables logging.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Roll evaluates expr and logs the result.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// Uniform draws from [lo, hi] and logs the draw with its purpose.
func (r *Roller) Uniform(purpose string, lo, hi int) int {
	v := Uniform(r.src, lo, hi)
	r.logger.Debug("uniform draw",
		zap.String("purpose", purpose),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("value", v),
	)
	return v
}

// Percent performs a percentage check and logs the outcome with its purpose.
func (r *Roller) Percent(purpose string, pct int) bool {
	ok := Percent(r.src, pct)
	r.logger.Debug("percent check",
		zap.String("purpose", purpose),
		zap.Int("pct", pct),
		zap.Bool("success", ok),
	)
	return ok
}
