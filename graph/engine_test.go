package graph_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/nmcgraph/dualval"
	"github.com/katalvlaran/nmcgraph/graph"
	"github.com/stretchr/testify/require"
)

// observedModel builds the richer fixture used by engine tests:
//
//	0: constant vector [2,3,5]     (concentration)
//	1: dirichlet(0)
//	2: sample(1)                   (simplex target)
//	3: index(2, 0)                 (Y[0])
//	4: constant 0.05               (sigma)
//	5: normal(3, 4)
//	6: sample(5), observed
//
// Returns the graph, the target ID, the index-node ID, and the observed ID.
func observedModel(t *testing.T, observed float64) (*graph.Graph, graph.NodeID, graph.NodeID, graph.NodeID) {
	t.Helper()
	g := graph.New()

	conc, err := g.AddConstantVector([]float64{2, 3, 5})
	require.NoError(t, err)
	dirichlet, err := g.AddDirichlet(conc)
	require.NoError(t, err)
	target, err := g.AddSample(dirichlet)
	require.NoError(t, err)

	idx, err := g.AddIndex(target, 0)
	require.NoError(t, err)
	sigma := g.AddConstant(0.05)
	normal, err := g.AddNormal(idx, sigma)
	require.NoError(t, err)
	obs, err := g.AddSample(normal)
	require.NoError(t, err)
	require.NoError(t, g.Observe(obs, dualval.NewScalar(observed)))

	return g, target, idx, obs
}

// TestAffectedNodes verifies discovery of the deterministic closure and the
// Markov blanket, in ascending order with the target leading the blanket.
func TestAffectedNodes(t *testing.T) {
	g, target, idx, obs := observedModel(t, 0.8)

	det, sto, err := g.AffectedNodes(target)
	require.NoError(t, err)
	require.Equal(t, []graph.NodeID{idx}, det)
	require.Equal(t, []graph.NodeID{target, obs}, sto)

	// A model with no deterministic descendants yields an empty closure and a
	// singleton blanket.
	g2 := graph.New()
	conc, err := g2.AddConstantVector([]float64{1, 1})
	require.NoError(t, err)
	d, err := g2.AddDirichlet(conc)
	require.NoError(t, err)
	lone, err := g2.AddSample(d)
	require.NoError(t, err)

	det, sto, err = g2.AffectedNodes(lone)
	require.NoError(t, err)
	require.Empty(t, det)
	require.Equal(t, []graph.NodeID{lone}, sto)

	_, _, err = g.AffectedNodes(idx) // deterministic nodes have no blanket
	require.ErrorIs(t, err, graph.ErrNotStochastic)
}

// TestEvalAndCheckpoint exercises the save / mutate / eval / restore cycle.
func TestEvalAndCheckpoint(t *testing.T) {
	g, target, idx, _ := observedModel(t, 0.8)
	det := []graph.NodeID{idx}

	n, err := g.OperatorNodeAt(idx)
	require.NoError(t, err)
	require.InDelta(t, 1.0/3, n.Value(), 1e-15) // evaluated at insertion

	require.NoError(t, g.SaveCheckpoint(det))

	// Move the latent draws and re-evaluate the closure.
	s, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	require.NoError(t, s.SetUnconstrained([]float64{3, 1, 1}))
	require.NoError(t, g.Eval(det))
	require.InDelta(t, 0.6, n.Value(), 1e-15)

	// Restore brings the deterministic value back without touching the sample.
	require.NoError(t, g.RestoreCheckpoint(det))
	require.InDelta(t, 1.0/3, n.Value(), 1e-15)
}

// TestGradientChainThroughIndex propagates seeded reparameterization gradients
// through an OpIndex node and on through add/mul/log operators.
func TestGradientChainThroughIndex(t *testing.T) {
	g, target, idx, _ := observedModel(t, 0.8)

	two := g.AddConstant(2)
	sum, err := g.AddOperator(graph.OpAdd, idx, two)
	require.NoError(t, err)
	prod, err := g.AddOperator(graph.OpMul, sum, idx)
	require.NoError(t, err)
	lg, err := g.AddOperator(graph.OpLog, prod)
	require.NoError(t, err)
	det := []graph.NodeID{idx, sum, prod, lg}

	s, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	// Seed the reparameterization derivative of coordinate 0 by hand.
	require.NoError(t, s.Grad1.SetCoeff(0, 0.25))
	require.NoError(t, s.Grad2.SetCoeff(0, -0.25))
	s.ScalarGrad1, s.ScalarGrad2 = 1, 0

	require.NoError(t, g.ComputeGradients(det))

	y := 1.0 / 3 // current value of idx
	checkGrad := func(id graph.NodeID, want1, want2 float64) {
		n, err := g.OperatorNodeAt(id)
		require.NoError(t, err)
		g1, g2 := n.Grad()
		require.InDelta(t, want1, g1, 1e-12)
		require.InDelta(t, want2, g2, 1e-12)
	}

	checkGrad(idx, 0.25, -0.25) // copied from the sample buffers
	checkGrad(sum, 0.25, -0.25) // constant operand contributes zero
	p1 := 0.25*y + (y+2)*0.25   // product rule
	p2 := -0.25*y + 2*0.25*0.25 + (y+2)*(-0.25)
	checkGrad(prod, p1, p2)
	pv := (y + 2) * y
	checkGrad(lg, p1/pv, p2/pv-(p1*p1)/(pv*pv))

	// ClearGradients zeroes every buffer in the closure.
	require.NoError(t, g.ClearGradients(det))
	for _, id := range det {
		n, err := g.OperatorNodeAt(id)
		require.NoError(t, err)
		g1, g2 := n.Grad()
		require.Zero(t, g1)
		require.Zero(t, g2)
	}
}

// TestIndexGradientWithoutInFlightUpdate verifies an OpIndex node stays at
// zero gradient when its source sample has no seeded buffers.
func TestIndexGradientWithoutInFlightUpdate(t *testing.T) {
	g, target, idx, _ := observedModel(t, 0.5)

	sn, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	// Force scalar-kinded gradient buffers to simulate a cleared state.
	sn.Grad1 = dualval.NewScalar(0)
	sn.Grad2 = dualval.NewScalar(0)

	require.NoError(t, g.ComputeGradients([]graph.NodeID{idx}))
	n, err := g.OperatorNodeAt(idx)
	require.NoError(t, err)
	g1v, g2v := n.Grad()
	require.Zero(t, g1v)
	require.Zero(t, g2v)
}

// TestLogProb checks the closed-form densities against hand computations.
func TestLogProb(t *testing.T) {
	g, target, _, obs := observedModel(t, 0.8)

	// Normal: logp = -(x-mu)^2/(2 sigma^2) - log(sigma sqrt(2 pi)); mu = 1/3.
	n, err := g.SampleNodeAt(obs)
	require.NoError(t, err)
	lp, err := n.LogProb()
	require.NoError(t, err)
	mu, sigma := 1.0/3, 0.05
	want := -(0.8-mu)*(0.8-mu)/(2*sigma*sigma) - math.Log(sigma*math.Sqrt(2*math.Pi))
	require.InDelta(t, want, lp, 1e-12)

	// Dirichlet at the uniform point.
	s, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	lp, err = s.LogProb()
	require.NoError(t, err)
	// log B(alpha)^-1 + sum (alpha_i - 1) log y_i with alpha = [2,3,5].
	lgamma := func(x float64) float64 { v, _ := math.Lgamma(x); return v }
	logB := lgamma(2) + lgamma(3) + lgamma(5) - lgamma(10)
	want = -logB + (1+2+4)*math.Log(1.0/3)
	require.InDelta(t, want, lp, 1e-12)
}

// TestGradientLogProbNormalChain verifies the blanket gradient of a Normal
// observation chained through its mean parent.
func TestGradientLogProbNormalChain(t *testing.T) {
	g, target, idx, obs := observedModel(t, 0.8)
	det := []graph.NodeID{idx}

	s, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	require.NoError(t, s.Grad1.SetCoeff(0, 0.25))
	require.NoError(t, s.Grad2.SetCoeff(0, -0.25))
	s.ScalarGrad1, s.ScalarGrad2 = 1, 0
	require.NoError(t, g.ComputeGradients(det))

	n, err := g.SampleNodeAt(obs)
	require.NoError(t, err)
	var g1, g2 float64
	require.NoError(t, n.GradientLogProb(target, &g1, &g2))

	mu, sigma, x := 1.0/3, 0.05, 0.8
	dmu := (x - mu) / (sigma * sigma)
	d2mu := -1 / (sigma * sigma)
	require.InDelta(t, dmu*0.25, g1, 1e-9)
	require.InDelta(t, d2mu*0.25*0.25+dmu*(-0.25), g2, 1e-9)

	// A node never differentiates with respect to itself.
	require.ErrorIs(t, n.GradientLogProb(obs, &g1, &g2), graph.ErrGradientUnsupported)
}

// TestGradientLogProbDirichletConcentration covers the Dirichlet blanket
// contribution: zero for a constant concentration, refused when the
// concentration is a node carrying in-flight gradients.
func TestGradientLogProbDirichletConcentration(t *testing.T) {
	g, target, _, _ := observedModel(t, 0.5)

	// Chain a second Dirichlet off the target: the target's simplex value is
	// the concentration, so the child's density depends on the target.
	d2, err := g.AddDirichlet(target)
	require.NoError(t, err)
	child, err := g.AddSample(d2)
	require.NoError(t, err)

	s, err := g.SampleNodeAt(target)
	require.NoError(t, err)
	s.ScalarGrad1 = 1 // target is mid-update

	cn, err := g.SampleNodeAt(child)
	require.NoError(t, err)
	var g1, g2 float64
	require.ErrorIs(t, cn.GradientLogProb(target, &g1, &g2), graph.ErrGradientUnsupported)
	s.ScalarGrad1 = 0

	// With no update in flight the same dependency contributes nothing.
	require.NoError(t, cn.GradientLogProb(target, &g1, &g2))
	require.Zero(t, g1)
	require.Zero(t, g2)
}

// TestGradientLogProbGammaRate verifies the Gamma rate chain rule and the
// unsupported shape dependency.
func TestGradientLogProbGammaRate(t *testing.T) {
	g := graph.New()
	shape := g.AddConstant(2)
	mu := g.AddConstant(1)
	sigma := g.AddConstant(0.5)
	normal, err := g.AddNormal(mu, sigma)
	require.NoError(t, err)
	rate, err := g.AddSample(normal) // rate depends on a latent real
	require.NoError(t, err)

	gamma, err := g.AddGamma(shape, rate)
	require.NoError(t, err)
	x, err := g.AddSample(gamma)
	require.NoError(t, err)

	rn, err := g.SampleNodeAt(rate)
	require.NoError(t, err)
	rn.Value.SetScalar(1.5)
	rn.ScalarGrad1, rn.ScalarGrad2 = 1, 0 // rate is itself the target

	xn, err := g.SampleNodeAt(x)
	require.NoError(t, err)
	var g1, g2 float64
	require.NoError(t, xn.GradientLogProb(rate, &g1, &g2))
	// d/db log p = a/b - x ; d2/db2 log p = -a/b^2 at a=2, b=1.5, x=1.
	require.InDelta(t, 2/1.5-1, g1, 1e-12)
	require.InDelta(t, -2/(1.5*1.5), g2, 1e-12)

	// Shape dependency is refused.
	h := graph.New()
	mu2 := h.AddConstant(1)
	sigma2 := h.AddConstant(0.5)
	normal2, err := h.AddNormal(mu2, sigma2)
	require.NoError(t, err)
	shapeNode, err := h.AddSample(normal2)
	require.NoError(t, err)
	rate2 := h.AddConstant(1)
	gamma2, err := h.AddGamma(shapeNode, rate2)
	require.NoError(t, err)
	x2, err := h.AddSample(gamma2)
	require.NoError(t, err)

	sn, err := h.SampleNodeAt(shapeNode)
	require.NoError(t, err)
	sn.Value.SetScalar(2)
	sn.ScalarGrad1 = 1

	x2n, err := h.SampleNodeAt(x2)
	require.NoError(t, err)
	var a, b float64
	require.ErrorIs(t, x2n.GradientLogProb(shapeNode, &a, &b), graph.ErrGradientUnsupported)
}
