package match

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Simulate drives m headlessly until it finishes, maxTicks run out, or ctx is
// cancelled. A round cut short is aborted and scored premature.
//
// Precondition: maxTicks > 0.
// Postcondition: m.Done() is true; the returned record reflects the final outcome.
func Simulate(ctx context.Context, m *Match, maxTicks int) (Record, error) {
	for i := 0; i < maxTicks && !m.Done(); i++ {
		if err := ctx.Err(); err != nil {
			m.Abort()
			return m.Record(), err
		}
		m.Tick()
	}
	if !m.Done() {
		m.Abort()
	}
	return m.Record(), nil
}

// Runner drives a Match in real time on a ticker and stores the record when
// the round ends. It implements server.Service.
type Runner struct {
	match    *Match
	sink     RecordSink
	interval time.Duration
	logger   *zap.Logger

	pauseReq atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	finished chan struct{}
	result   atomic.Pointer[Record]
}

// NewRunner returns a Runner firing one tick per interval. sink may be nil.
//
// Precondition: m and logger must not be nil; interval > 0.
func NewRunner(m *Match, sink RecordSink, interval time.Duration, logger *zap.Logger) *Runner {
	return &Runner{
		match:    m,
		sink:     sink,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// TogglePause requests a pause toggle at the next tick boundary. Safe to call
// from any goroutine.
func (r *Runner) TogglePause() { r.pauseReq.Store(true) }

// Result returns the stored record once the runner has finished.
func (r *Runner) Result() (Record, bool) {
	rec := r.result.Load()
	if rec == nil {
		return Record{}, false
	}
	return *rec, true
}

// Finished is closed once Run has stored the result.
func (r *Runner) Finished() <-chan struct{} { return r.finished }

// Run ticks the match until it finishes, ctx is cancelled, or Stop is called.
// A round interrupted while in progress is recorded as premature.
//
// Precondition: Run is called at most once.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.finished)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for !r.match.Done() {
		select {
		case <-ctx.Done():
			r.match.Abort()
		case <-r.stop:
			r.match.Abort()
		case <-ticker.C:
			if r.pauseReq.Swap(false) {
				r.match.TogglePause()
			}
			r.match.Tick()
		}
	}
	return r.finish()
}

func (r *Runner) finish() error {
	rec := r.match.Record()
	r.result.Store(&rec)
	r.logger.Info("match finished",
		zap.String("match_id", rec.ID.String()),
		zap.Stringer("winner", rec.Winner),
		zap.String("summary", rec.Summary()),
	)
	if r.sink == nil {
		return nil
	}
	// The run context may already be cancelled; storing the result must not depend on it.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.sink.Record(ctx, rec); err != nil {
		return fmt.Errorf("recording match %s: %w", rec.ID, err)
	}
	return nil
}

// Start runs the match until it ends or Stop is called.
func (r *Runner) Start() error { return r.Run(context.Background()) }

// Stop interrupts a running match. It is safe to call more than once.
func (r *Runner) Stop() { r.stopOnce.Do(func() { close(r.stop) }) }
