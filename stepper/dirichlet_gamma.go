// DirichletGamma: the NMC Dirichlet-via-Gamma single-site stepper.

package stepper

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/nmcgraph/dualval"
	"github.com/katalvlaran/nmcgraph/graph"
	"github.com/katalvlaran/nmcgraph/proposer"
)

// DirichletGamma updates a simplex-constrained sample one coordinate at a
// time. With X the sample's unconstrained Gamma draws and Y = X / sum(X) its
// simplex value, each coordinate X_k receives a Metropolis-Hastings move with
// a second-order (gradient + curvature) Gamma proposal fitted at the current
// point.
type DirichletGamma struct {
	g       *graph.Graph
	sampler Sampler
}

// NewDirichletGamma creates the stepper over g, drawing through sampler.
func NewDirichletGamma(g *graph.Graph, sampler Sampler) (*DirichletGamma, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if sampler == nil {
		return nil, ErrNilSampler
	}

	return &DirichletGamma{g: g, sampler: sampler}, nil
}

// IsApplicableTo reports whether this stepper can update n: an unobserved
// sample node declared as a simplex-constrained (normalized) vector. The
// dispatcher choosing between steppers consults this predicate; Step itself
// re-checks it defensively and fails with ErrNotApplicable.
func (st *DirichletGamma) IsApplicableTo(n graph.Node) bool {
	s, ok := n.(*graph.SampleNode)

	return ok && s.Kind() == graph.KindSimplex && !s.Observed
}

// Step performs one full sweep over the target's coordinates, resolving the
// deterministic closure and Markov blanket from the graph.
func (st *DirichletGamma) Step(target graph.NodeID) error {
	det, sto, err := st.g.AffectedNodes(target)
	if err != nil {
		return err
	}

	return st.StepNodes(target, det, sto)
}

// StepNodes performs one full sweep with an explicitly supplied deterministic
// closure and Markov blanket (both in index order, blanket starting with the
// target). Coordinates are swept in index order 0..K-1; later coordinates see
// the accepted or rejected state of earlier ones. The caller invokes this
// repeatedly to advance the chain.
func (st *DirichletGamma) StepNodes(target graph.NodeID, det, sto []graph.NodeID) error {
	prof := st.g.Profiler()
	prof.Begin(graph.EventStepDirichlet)
	defer prof.End(graph.EventStepDirichlet)

	src, err := st.g.SampleNodeAt(target)
	if err != nil {
		return err
	}
	if !st.IsApplicableTo(src) {
		return fmt.Errorf("node %d (%s): %w", target, src.Kind(), ErrNotApplicable)
	}
	alphas, err := src.Concentration()
	if err != nil {
		return err
	}
	k, err := src.Unconstrained.Size()
	if err != nil {
		return err
	}

	for coord := 0; coord < k; coord++ {
		if err = st.stepCoordinate(src, alphas[coord], coord, det, sto); err != nil {
			return fmt.Errorf("coordinate %d: %w", coord, err)
		}
	}

	return nil
}

// stepCoordinate runs one Metropolis-Hastings move on X_k.
func (st *DirichletGamma) stepCoordinate(src *graph.SampleNode, alphaK float64, k int, det, sto []graph.NodeID) error {
	// Read the current point.
	oldXk, err := src.Unconstrained.Coeff(k)
	if err != nil {
		return err
	}

	// Derivatives of the reparameterization Y = X/sum(X) with respect to X_k,
	// and the seed of the target's own chain-rule accumulators.
	if err = st.refreshReparamGrads(src, k); err != nil {
		return err
	}
	src.ScalarGrad1 = 1
	src.ScalarGrad2 = 0

	// Checkpoint the deterministic closure, then propagate gradients through
	// it at the current point.
	if err = st.g.SaveCheckpoint(det); err != nil {
		return err
	}
	if err = st.g.ComputeGradients(det); err != nil {
		return err
	}

	oldProp, oldLogProb, err := st.buildProposer(sto, src, alphaK, oldXk)
	if err != nil {
		return err
	}

	newXk := st.sampler.DrawFromProposer(oldProp)

	// Move to the candidate point: write X_k, renormalize Y, refresh the
	// reparameterization derivatives, re-evaluate and re-propagate.
	if err = st.writeCoordinate(src, k, newXk); err != nil {
		return err
	}
	if err = st.g.Eval(det); err != nil {
		return err
	}
	if err = st.g.ComputeGradients(det); err != nil {
		return err
	}

	newProp, newLogProb, err := st.buildProposer(sto, src, alphaK, newXk)
	if err != nil {
		return err
	}

	logacc := newLogProb - oldLogProb + newProp.LogDensity(oldXk) - oldProp.LogDensity(newXk)

	// logacc > 0 accepts without consuming the accept/reject draw; the
	// short-circuit keeps random-stream consumption reproducible.
	accepted := logacc > 0 || st.sampler.AcceptLogProb(logacc)
	if !accepted {
		if err = st.g.RestoreCheckpoint(det); err != nil {
			return err
		}
		if err = st.writeCoordinate(src, k, oldXk); err != nil {
			return err
		}
	}

	// Gradients must be cleared (equal to 0) at the end of each coordinate.
	// The engine relies on that to decide whether a node is the one gradients
	// are currently taken with respect to.
	if err = st.g.ClearGradients(det); err != nil {
		return err
	}
	src.ScalarGrad1 = 0
	src.ScalarGrad2 = 0

	return nil
}

// writeCoordinate assigns X_k and renormalizes Y and the reparameterization
// derivatives at the new point.
func (st *DirichletGamma) writeCoordinate(src *graph.SampleNode, k int, xk float64) error {
	if err := src.Unconstrained.SetCoeff(k, xk); err != nil {
		return err
	}
	if err := src.RefreshSimplex(); err != nil {
		return err
	}

	return st.refreshReparamGrads(src, k)
}

// refreshReparamGrads recomputes the derivative buffers of Y = X/sum(X) with
// respect to X_k at the current X:
//
//	Grad1[j] = −X[j]/S²  for all j, with Grad1[k] += 1/S
//	Grad2    = Grad1 × (−2/S)
//
// The Grad2 formula is the elementwise rescale the acceptance ratio is
// calibrated against, not the analytic Hessian; keep it exactly as written.
func (st *DirichletGamma) refreshReparamGrads(src *graph.SampleNode, k int) error {
	u, err := src.Unconstrained.Matrix()
	if err != nil {
		return err
	}
	sum := u.Sum()

	g1 := u.Scaled(-1 / (sum * sum))
	gk, err := g1.Coeff(k)
	if err != nil {
		return err
	}
	if err = g1.SetCoeff(k, gk+1/sum); err != nil {
		return err
	}
	if err = src.Grad1.SetMatrix(g1); err != nil {
		return err
	}
	src.Grad2 = dualval.MulScalar(src.Grad1, -2/sum)

	return nil
}

// buildProposer aggregates log density and derivatives over the Markov
// blanket at X_k = x and fits the quadratic proposer.
//
// For the target itself, X_k is a draw from Gamma(alphaK, 1) in closed form:
//
//	log p(x) = (alphaK−1)·ln x − x − lnΓ(alphaK)
//	d log p  = (alphaK−1)/x − 1
//	d² log p = (1−alphaK)/x²
//
// Every other blanket member contributes its log density plus its chain-rule
// gradient through the deterministic nodes propagated beforehand. The
// accumulated log weight is returned as the affected log probability.
func (st *DirichletGamma) buildProposer(sto []graph.NodeID, src *graph.SampleNode, alphaK, x float64) (proposer.Proposer, float64, error) {
	prof := st.g.Profiler()
	prof.Begin(graph.EventBuildProposerDirichlet)
	defer prof.End(graph.EventBuildProposerDirichlet)

	var logweight, grad1, grad2 float64
	for _, id := range sto {
		if id == src.ID() {
			logweight += distuv.Gamma{Alpha: alphaK, Beta: 1}.LogProb(x)
			grad1 += (alphaK-1)/x - 1
			grad2 += (1 - alphaK) / (x * x)
			continue
		}

		n, err := st.g.SampleNodeAt(id)
		if err != nil {
			return nil, 0, err
		}
		lp, err := n.LogProb()
		if err != nil {
			return nil, 0, err
		}
		logweight += lp
		if err = n.GradientLogProb(src.ID(), &grad1, &grad2); err != nil {
			return nil, 0, err
		}
	}

	return proposer.PositiveReal(x, grad1, grad2), logweight, nil
}
