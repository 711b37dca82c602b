package orchestrator

import "time"

// Progress is a point-in-time snapshot emitted when a component begins
// processing. Counters cover fully processed components only, so
// Succeeded + Failed + Skipped always equals Index − 1.
type Progress struct {
	// Index is the 1-based position of the component now starting.
	Index int
	Total int

	Component string

	Elapsed time.Duration

	// Remaining is an estimate from the mean per-component time so far;
	// HasEstimate is false until at least one component has finished.
	Remaining   time.Duration
	HasEstimate bool

	Succeeded int
	Failed    int
	Skipped   int
}

// tracker accumulates run counters and derives progress snapshots.
type tracker struct {
	total   int
	started time.Time
	clock   func() time.Time

	succeeded int
	failed    int
	skipped   int
}

func newTracker(total int, clock func() time.Time) *tracker {
	return &tracker{total: total, started: clock(), clock: clock}
}

func (t *tracker) processed() int {
	return t.succeeded + t.failed + t.skipped
}

// snapshot builds the Progress for the component about to start.
func (t *tracker) snapshot(name string) Progress {
	elapsed := t.clock().Sub(t.started)
	processed := t.processed()

	p := Progress{
		Index:     processed + 1,
		Total:     t.total,
		Component: name,
		Elapsed:   elapsed,
		Succeeded: t.succeeded,
		Failed:    t.failed,
		Skipped:   t.skipped,
	}

	if processed > 0 {
		mean := elapsed / time.Duration(processed)
		p.Remaining = mean * time.Duration(t.total-processed)
		p.HasEstimate = true
	}

	return p
}
