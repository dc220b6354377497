// Package observer collects per-item execution records and derives run
// summaries from them. Records carry the explicit context identity each item
// ran on, which is how callers prove whether a run was actually concurrent.
package observer

import (
	"sort"
	"sync"
	"time"
)

// Record is a single observed item execution. Records are never mutated after
// creation; their lifetime is scoped to one run.
type Record struct {
	// ItemID identifies the processed item
	ItemID string

	// Lane is the routing bucket the item was assigned to
	Lane int

	// ContextIdentity is the identity of the execution context the item
	// actually ran on
	ContextIdentity string

	// StartTime is when the item's transform began
	StartTime time.Time

	// EndTime is when the item's transform finished
	EndTime time.Time
}

// Summary is derived from a run's records at completion. It is a value, not
// stored state.
type Summary struct {
	// TotalItems is the number of records observed
	TotalItems int

	// DistinctContexts holds the sorted set of context identities used
	DistinctContexts []string

	// WallClock is the span from the earliest start to the latest end
	WallClock time.Duration
}

// Parallel reports whether the run used more than one execution context.
func (s Summary) Parallel() bool {
	return len(s.DistinctContexts) >= 2
}

// Observer taps a run's item completions without altering them. Safe for
// concurrent use by multiple lanes.
type Observer struct {
	mu      sync.Mutex
	records []Record
}

// New creates an empty Observer.
func New() *Observer {
	return &Observer{}
}

// Observe appends one record.
func (o *Observer) Observe(r Record) {
	o.mu.Lock()
	o.records = append(o.records, r)
	o.mu.Unlock()
}

// Records returns a copy of everything observed so far.
func (o *Observer) Records() []Record {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]Record, len(o.records))
	copy(out, o.records)
	return out
}

// Reset discards all records so the Observer can tap another run.
func (o *Observer) Reset() {
	o.mu.Lock()
	o.records = nil
	o.mu.Unlock()
}

// Summary derives the summary of everything observed so far.
func (o *Observer) Summary() Summary {
	return Summarize(o.Records())
}

// Summarize aggregates records into a Summary. Pure, side-effect-free.
func Summarize(records []Record) Summary {
	s := Summary{TotalItems: len(records)}
	if len(records) == 0 {
		return s
	}

	identities := make(map[string]struct{})
	earliest := records[0].StartTime
	latest := records[0].EndTime

	for _, r := range records {
		identities[r.ContextIdentity] = struct{}{}
		if r.StartTime.Before(earliest) {
			earliest = r.StartTime
		}
		if r.EndTime.After(latest) {
			latest = r.EndTime
		}
	}

	s.DistinctContexts = make([]string, 0, len(identities))
	for id := range identities {
		s.DistinctContexts = append(s.DistinctContexts, id)
	}
	sort.Strings(s.DistinctContexts)

	s.WallClock = latest.Sub(earliest)
	return s
}
