// Package dice provides the randomness abstraction used by fighter AI and
// reaction scheduling. Every random decision in a match flows through a
// Source so seeded runs replay identically.
package dice

import "fmt"

// Source is the randomness provider for all match decisions.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// chanceResolution is the number of buckets a probability is quantised into.
const chanceResolution = 10000

// Draw records a single random decision for audit logging.
type Draw struct {
	Kind  string // "between", "chance" or "pick"
	Value int
	Low   int
	High  int
}

// String returns a compact audit line, e.g. "between[50,250] = 117".
func (d Draw) String() string {
	return fmt.Sprintf("%s[%d,%d] = %d", d.Kind, d.Low, d.High, d.Value)
}
