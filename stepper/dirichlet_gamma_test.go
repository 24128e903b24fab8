package stepper_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/nmcgraph/dualval"
	"github.com/katalvlaran/nmcgraph/graph"
	"github.com/katalvlaran/nmcgraph/proposer"
	"github.com/katalvlaran/nmcgraph/stepper"
	"github.com/stretchr/testify/require"
)

// scriptedSampler returns pre-recorded draws and records the call sequence,
// so tests can assert exactly how many random draws a sweep consumes and in
// what order.
type scriptedSampler struct {
	t         *testing.T
	proposals []float64
	accepts   []bool
	calls     []string
	logaccs   []float64
}

func (s *scriptedSampler) DrawFromProposer(_ proposer.Proposer) float64 {
	s.calls = append(s.calls, "draw")
	require.NotEmpty(s.t, s.proposals, "unexpected proposal draw")
	v := s.proposals[0]
	s.proposals = s.proposals[1:]

	return v
}

func (s *scriptedSampler) AcceptLogProb(logacc float64) bool {
	s.calls = append(s.calls, "accept")
	s.logaccs = append(s.logaccs, logacc)
	require.NotEmpty(s.t, s.accepts, "unexpected accept/reject draw")
	v := s.accepts[0]
	s.accepts = s.accepts[1:]

	return v
}

// countingSampler wraps a real Sampler and tallies its draws.
type countingSampler struct {
	inner     stepper.Sampler
	proposals int
	accepts   int
}

func (s *countingSampler) DrawFromProposer(p proposer.Proposer) float64 {
	s.proposals++

	return s.inner.DrawFromProposer(p)
}

func (s *countingSampler) AcceptLogProb(logacc float64) bool {
	s.accepts++

	return s.inner.AcceptLogProb(logacc)
}

// priorModel builds concentration → dirichlet → sample and returns the graph
// and the sample's ID.
func priorModel(t *testing.T, alphas []float64) (*graph.Graph, graph.NodeID) {
	t.Helper()
	g := graph.New()
	conc, err := g.AddConstantVector(alphas)
	require.NoError(t, err)
	dirichlet, err := g.AddDirichlet(conc)
	require.NoError(t, err)
	target, err := g.AddSample(dirichlet)
	require.NoError(t, err)

	return g, target
}

func TestNewDirichletGammaValidatesInputs(t *testing.T) {
	g, _ := priorModel(t, []float64{1, 1})

	_, err := stepper.NewDirichletGamma(nil, stepper.NewRandSampler(1))
	require.ErrorIs(t, err, stepper.ErrNilGraph)

	_, err = stepper.NewDirichletGamma(g, nil)
	require.ErrorIs(t, err, stepper.ErrNilSampler)
}

func TestIsApplicableTo(t *testing.T) {
	g, target := priorModel(t, []float64{1, 1})
	st, err := stepper.NewDirichletGamma(g, stepper.NewRandSampler(1))
	require.NoError(t, err)

	n, err := g.Node(target)
	require.NoError(t, err)
	require.True(t, st.IsApplicableTo(n))

	// Scalar samples are out of scope.
	mu := g.AddConstant(0)
	sigma := g.AddConstant(1)
	normal, err := g.AddNormal(mu, sigma)
	require.NoError(t, err)
	scalar, err := g.AddSample(normal)
	require.NoError(t, err)
	sn, err := g.Node(scalar)
	require.NoError(t, err)
	require.False(t, st.IsApplicableTo(sn))

	// Constants are not stochastic at all.
	cn, err := g.Node(mu)
	require.NoError(t, err)
	require.False(t, st.IsApplicableTo(cn))

	// Observed simplex samples are conditioned, not stepped.
	obs, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	obs.Observed = true
	require.False(t, st.IsApplicableTo(obs))
	require.ErrorIs(t, st.Step(target), stepper.ErrNotApplicable)
	obs.Observed = false

	require.ErrorIs(t, st.Step(scalar), stepper.ErrNotApplicable)
	require.ErrorIs(t, st.Step(mu), graph.ErrNotStochastic)
}

// TestSweepDrawOrder checks the per-coordinate draw discipline. Every
// scripted proposal re-draws the current point, so the old and new proposer
// builds are the same computation on the same state and the acceptance log
// probability is exactly zero at every coordinate: never short-circuited,
// one proposal draw plus one accept/reject draw per coordinate, in that
// order.
func TestSweepDrawOrder(t *testing.T) {
	g, target := priorModel(t, []float64{2, 3, 5})
	s := &scriptedSampler{t: t, proposals: []float64{1, 1, 1}, accepts: []bool{true, false, true}}
	st, err := stepper.NewDirichletGamma(g, s)
	require.NoError(t, err)

	require.NoError(t, st.Step(target))
	require.Equal(t, []string{"draw", "accept", "draw", "accept", "draw", "accept"}, s.calls)
	require.Equal(t, []float64{0, 0, 0}, s.logaccs)

	// Null moves leave the latent draws in place whichever way the coin lands.
	n, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	u, err := n.Unconstrained.Array()
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1, 1}, u)

	// Y stays a normalized simplex point.
	y, err := n.Value.Array()
	require.NoError(t, err)
	sum := 0.0
	for _, v := range y {
		require.Positive(t, v)
		require.InDelta(t, 1.0/3, v, 1e-15)
		sum += v
	}
	require.InDelta(t, 1, sum, 1e-12)

	// Accumulators are clean after the sweep.
	require.Zero(t, n.ScalarGrad1)
	require.Zero(t, n.ScalarGrad2)
}

// TestRejectionRestoresStateExactly forces every proposal to be rejected and
// requires the sample state and the deterministic closure to come back
// bit-identical, with all gradient buffers cleared.
//
// Concentrations below one make the local log density convex, so both sweep
// phases fall back to the exponential proposal; a far-out candidate then has
// a log-acceptance ratio of −1.5·ln(100) + 0.99 ≈ −5.9 at each coordinate,
// comfortably negative, so the scripted false on the accept/reject draw is
// always what decides.
func TestRejectionRestoresStateExactly(t *testing.T) {
	g, target := priorModel(t, []float64{0.5, 0.5})
	idx, err := g.AddIndex(target, 0)
	require.NoError(t, err)

	n, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	uBefore := append([]float64(nil), mustArray(t, n.Unconstrained)...)
	yBefore := append([]float64(nil), mustArray(t, n.Value)...)
	op, err := g.OperatorNodeAt(idx)
	require.NoError(t, err)
	vBefore := op.Value()

	s := &scriptedSampler{t: t, proposals: []float64{100, 100}, accepts: []bool{false, false}}
	st, err := stepper.NewDirichletGamma(g, s)
	require.NoError(t, err)
	require.NoError(t, st.Step(target))

	require.Equal(t, []string{"draw", "accept", "draw", "accept"}, s.calls)
	for _, la := range s.logaccs {
		require.Negative(t, la)
	}
	require.Equal(t, uBefore, mustArray(t, n.Unconstrained)) // latent draws reverted
	require.Equal(t, yBefore, mustArray(t, n.Value))         // simplex value reverted
	require.Equal(t, vBefore, op.Value())                    // closure restored

	// End-of-coordinate hygiene: accumulators and closure buffers are zero.
	require.Zero(t, n.ScalarGrad1)
	require.Zero(t, n.ScalarGrad2)
	g1, g2 := op.Grad()
	require.Zero(t, g1)
	require.Zero(t, g2)
}

// TestAcceptShortCircuit verifies a strictly positive acceptance log
// probability skips the accept/reject draw entirely. The model observes
// Y[0] tightly at 0.8; the scripted first proposal lands exactly on the
// observation, making the move overwhelmingly favorable, while the second
// proposal re-draws the current point so its log acceptance is exactly zero
// and the draw is consumed.
func TestAcceptShortCircuit(t *testing.T) {
	g, target := priorModel(t, []float64{2, 2})
	idx, err := g.AddIndex(target, 0)
	require.NoError(t, err)
	sigma := g.AddConstant(0.05)
	normal, err := g.AddNormal(idx, sigma)
	require.NoError(t, err)
	obs, err := g.AddSample(normal)
	require.NoError(t, err)
	require.NoError(t, g.Observe(obs, dualval.NewScalar(0.8)))

	s := &scriptedSampler{t: t, proposals: []float64{4, 1}, accepts: []bool{false}}
	st, err := stepper.NewDirichletGamma(g, s)
	require.NoError(t, err)
	require.NoError(t, st.Step(target))

	require.Equal(t, []string{"draw", "draw", "accept"}, s.calls)
	require.Equal(t, []float64{0}, s.logaccs) // only the null move was drawn on

	// The favorable move stuck even though the scripted accept said no: the
	// short-circuit never consulted it.
	n, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 1}, mustArray(t, n.Unconstrained))
	y, err := n.Value.Coeff(0)
	require.NoError(t, err)
	require.InDelta(t, 0.8, y, 1e-15)
}

// TestSweepDrawBudget runs a real generator through one sweep of a
// 3-dimensional Dirichlet and checks the draw budget: exactly K proposal
// draws, at most K accept draws.
func TestSweepDrawBudget(t *testing.T) {
	g, target := priorModel(t, []float64{2, 3, 5})
	cs := &countingSampler{inner: stepper.NewRandSampler(11)}
	st, err := stepper.NewDirichletGamma(g, cs)
	require.NoError(t, err)

	require.NoError(t, st.Step(target))
	require.Equal(t, 3, cs.proposals)
	require.LessOrEqual(t, cs.accepts, 3)

	n, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	sum := 0.0
	for _, v := range mustArray(t, n.Value) {
		require.Greater(t, v, 0.0)
		require.Less(t, v, 1.0)
		sum += v
	}
	require.InDelta(t, 1, sum, 1e-12)
}

// TestChainStaysOnSimplex advances a chain with a real generator and checks
// the invariants hold at every step: positive coordinates, unit sum, and
// unconstrained draws that never leave (0, ∞).
func TestChainStaysOnSimplex(t *testing.T) {
	g, target := priorModel(t, []float64{2, 3, 5})
	st, err := stepper.NewDirichletGamma(g, stepper.NewRandSampler(7))
	require.NoError(t, err)

	n, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	for i := 0; i < 200; i++ {
		require.NoError(t, st.Step(target))

		sum := 0.0
		for _, v := range mustArray(t, n.Value) {
			require.Positive(t, v)
			sum += v
		}
		require.InDelta(t, 1, sum, 1e-9)
		for _, x := range mustArray(t, n.Unconstrained) {
			require.Positive(t, x)
			require.False(t, math.IsInf(x, 0))
		}
	}
}

// TestSeedDeterminism runs two identical chains from the same seed and
// requires bit-identical trajectories; seed zero maps onto the default seed.
func TestSeedDeterminism(t *testing.T) {
	run := func(seed uint64) []float64 {
		g, target := priorModel(t, []float64{2, 3, 5})
		st, err := stepper.NewDirichletGamma(g, stepper.NewRandSampler(seed))
		require.NoError(t, err)
		for i := 0; i < 25; i++ {
			require.NoError(t, st.Step(target))
		}
		n, err := g.SampleNodeAt(target)
		require.NoError(t, err)

		return append([]float64(nil), mustArray(t, n.Value)...)
	}

	require.Equal(t, run(42), run(42))
	require.Equal(t, run(0), run(1)) // zero-seed policy
}

// TestStepNodesWithExplicitLists mirrors Step through the explicit-list entry
// point used by dispatchers that resolve affected nodes once up front.
func TestStepNodesWithExplicitLists(t *testing.T) {
	g, target := priorModel(t, []float64{2, 3, 5})
	det, sto, err := g.AffectedNodes(target)
	require.NoError(t, err)

	st, err := stepper.NewDirichletGamma(g, stepper.NewRandSampler(42))
	require.NoError(t, err)
	require.NoError(t, st.StepNodes(target, det, sto))

	h, htarget := priorModel(t, []float64{2, 3, 5})
	st2, err := stepper.NewDirichletGamma(h, stepper.NewRandSampler(42))
	require.NoError(t, err)
	require.NoError(t, st2.Step(htarget))

	a, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	b, err := h.SampleNodeAt(htarget)
	require.NoError(t, err)
	require.Equal(t, mustArray(t, a.Value), mustArray(t, b.Value))
}

// TestProfilerBrackets counts the profiled phases of one sweep: one step
// event and two proposer builds per coordinate.
func TestProfilerBrackets(t *testing.T) {
	prof := graph.NewProfiler()
	g := graph.New(graph.WithProfiler(prof))
	conc, err := g.AddConstantVector([]float64{2, 3, 5})
	require.NoError(t, err)
	dirichlet, err := g.AddDirichlet(conc)
	require.NoError(t, err)
	target, err := g.AddSample(dirichlet)
	require.NoError(t, err)

	st, err := stepper.NewDirichletGamma(g, stepper.NewRandSampler(3))
	require.NoError(t, err)
	require.NoError(t, st.Step(target))

	require.Equal(t, 1, prof.Stats(graph.EventStepDirichlet).Calls)
	require.Equal(t, 6, prof.Stats(graph.EventBuildProposerDirichlet).Calls)
}

// mustArray reads the live flat view of a matrix-kinded value.
func mustArray(t *testing.T, v dualval.Value) []float64 {
	t.Helper()
	arr, err := v.Array()
	require.NoError(t, err)

	return arr
}
