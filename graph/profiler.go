// Profiler: optional begin/end event recording bracketing stepper phases.
// Purely observational — attaching or detaching a profiler never changes
// results or random-stream consumption.

package graph

import (
	"fmt"
	"time"
)

// Event identifies a profiled phase.
type Event uint8

const (
	// EventStepDirichlet brackets one full Dirichlet-via-Gamma sweep.
	EventStepDirichlet Event = iota

	// EventBuildProposerDirichlet brackets one proposer construction over the
	// Markov blanket.
	EventBuildProposerDirichlet
)

// String implements fmt.Stringer for Event.
func (e Event) String() string {
	switch e {
	case EventStepDirichlet:
		return "step-dirichlet"
	case EventBuildProposerDirichlet:
		return "build-proposer-dirichlet"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// EventStats aggregates one event's observations.
type EventStats struct {
	// Calls is the number of completed Begin/End pairs.
	Calls int

	// Total is the cumulative wall time between pairs.
	Total time.Duration
}

// Profiler records cumulative durations per event. Begin/End pairs may nest
// across different events but not within the same event. Not safe for
// concurrent use, matching the single-threaded execution model.
type Profiler struct {
	stats  map[Event]EventStats
	starts map[Event]time.Time
	now    func() time.Time // test seam
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{
		stats:  make(map[Event]EventStats),
		starts: make(map[Event]time.Time),
		now:    time.Now,
	}
}

// Begin marks the start of an event. Nil-safe.
func (p *Profiler) Begin(e Event) {
	if p == nil {
		return
	}
	p.starts[e] = p.now()
}

// End marks the end of an event and folds the elapsed time into its stats.
// An End without a matching Begin is ignored. Nil-safe.
func (p *Profiler) End(e Event) {
	if p == nil {
		return
	}
	start, ok := p.starts[e]
	if !ok {
		return
	}
	delete(p.starts, e)

	s := p.stats[e]
	s.Calls++
	s.Total += p.now().Sub(start)
	p.stats[e] = s
}

// Stats returns the aggregated observations for an event.
func (p *Profiler) Stats(e Event) EventStats {
	if p == nil {
		return EventStats{}
	}

	return p.stats[e]
}
