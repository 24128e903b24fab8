// White-box test: drives the profiler through its clock seam.

package graph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfilerAggregatesEvents(t *testing.T) {
	clock := time.Unix(0, 0)
	p := NewProfiler()
	p.now = func() time.Time { return clock }

	p.Begin(EventStepDirichlet)
	clock = clock.Add(5 * time.Millisecond)
	p.Begin(EventBuildProposerDirichlet) // nests inside the sweep
	clock = clock.Add(2 * time.Millisecond)
	p.End(EventBuildProposerDirichlet)
	clock = clock.Add(3 * time.Millisecond)
	p.End(EventStepDirichlet)

	require.Equal(t, EventStats{Calls: 1, Total: 10 * time.Millisecond}, p.Stats(EventStepDirichlet))
	require.Equal(t, EventStats{Calls: 1, Total: 2 * time.Millisecond}, p.Stats(EventBuildProposerDirichlet))

	// Repeated pairs accumulate.
	p.Begin(EventBuildProposerDirichlet)
	clock = clock.Add(4 * time.Millisecond)
	p.End(EventBuildProposerDirichlet)
	require.Equal(t, EventStats{Calls: 2, Total: 6 * time.Millisecond}, p.Stats(EventBuildProposerDirichlet))
}

func TestProfilerIgnoresUnmatchedEnd(t *testing.T) {
	p := NewProfiler()
	p.End(EventStepDirichlet) // no Begin
	require.Equal(t, EventStats{}, p.Stats(EventStepDirichlet))
}

func TestProfilerNilSafe(t *testing.T) {
	var p *Profiler
	p.Begin(EventStepDirichlet)
	p.End(EventStepDirichlet)
	require.Equal(t, EventStats{}, p.Stats(EventStepDirichlet))
}

func TestEventString(t *testing.T) {
	require.Equal(t, "step-dirichlet", EventStepDirichlet.String())
	require.Equal(t, "build-proposer-dirichlet", EventBuildProposerDirichlet.String())
}
