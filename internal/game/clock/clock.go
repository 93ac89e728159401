// Package clock provides the millisecond time source that drives every
// timer in a match. Simulation code never reads wall time directly.
package clock

import "sync"

// Clock reports the current simulation time in milliseconds.
type Clock interface {
	NowMs() int64
}

// Manual is a Clock advanced explicitly by the match loop.
// Time only moves when Advance is called, so a paused match freezes every timer.
//
// Invariant: NowMs is monotonically non-decreasing.
type Manual struct {
	mu  sync.RWMutex
	now int64
}

// NewManual returns a Manual clock starting at startMs.
func NewManual(startMs int64) *Manual {
	return &Manual{now: startMs}
}

// NowMs returns the current simulation time.
func (m *Manual) NowMs() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by deltaMs and returns the new time.
// Negative deltas are ignored.
//
// Postcondition: NowMs() >= previous NowMs().
func (m *Manual) Advance(deltaMs int64) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if deltaMs > 0 {
		m.now += deltaMs
	}
	return m.now
}

// Set jumps the clock to ms if ms is not in the past.
func (m *Manual) Set(ms int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ms > m.now {
		m.now = ms
	}
}
