package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random decisions.
// All draws are logged at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Between returns a uniformly distributed int in [low, high], inclusive on both ends.
// Arguments given in the wrong order are swapped.
//
// Postcondition: low <= result <= high.
func (r *Roller) Between(low, high int) int {
	if high < low {
		low, high = high, low
	}
	v := low + r.src.Intn(high-low+1)
	r.log(Draw{Kind: "between", Value: v, Low: low, High: high})
	return v
}

// Chance reports whether an event with probability p occurs.
// p <= 0 never occurs; p >= 1 always occurs.
func (r *Roller) Chance(p float64) bool {
	threshold := int(p * chanceResolution)
	v := r.src.Intn(chanceResolution)
	r.log(Draw{Kind: "chance", Value: v, Low: 0, High: threshold})
	return v < threshold
}

// Pick returns a when Chance(p) succeeds and b otherwise.
func Pick[T any](r *Roller, p float64, a, b T) T {
	if r.Chance(p) {
		return a
	}
	return b
}

func (r *Roller) log(d Draw) {
	if ce := r.logger.Check(zap.DebugLevel, "dice draw"); ce != nil {
		ce.Write(zap.Stringer("draw", d))
	}
}
