// SampleNode: the stochastic node state record and its log-density /
// gradient-log-density contract.

package graph

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/nmcgraph/dualval"
)

// SampleNode is a stochastic draw from its parent distribution, carrying the
// per-node mutable state the stepper works on.
//
// For a simplex-kinded sample of dimension K, Value holds the constrained
// K-vector on the simplex and Unconstrained the K positive Gamma variates it
// is normalized from (Value = Unconstrained / sum(Unconstrained)). Grad1 and
// Grad2 buffer the first and second derivative of that reparameterization map
// with respect to the coordinate currently being updated; ScalarGrad1 and
// ScalarGrad2 are the chain-rule accumulators seeded by the stepper.
//
// The engine relies on every gradient field being zero whenever no update is
// in flight: a non-zero accumulator marks the node gradients are currently
// taken with respect to.
type SampleNode struct {
	id   NodeID
	g    *Graph
	dist NodeID
	kind VariableKind

	// Value is the constrained value of the draw.
	Value dualval.Value

	// Unconstrained is the reparameterized value (the latent Gamma draws for a
	// simplex sample). Scalar samples leave it equal to Value.
	Unconstrained dualval.Value

	// Grad1 and Grad2 hold the first/second derivative of the
	// reparameterization map with respect to the in-flight coordinate.
	Grad1 dualval.Value
	Grad2 dualval.Value

	// ScalarGrad1 and ScalarGrad2 are the chain-rule gradient accumulators.
	ScalarGrad1 float64
	ScalarGrad2 float64

	// Observed marks the sample as conditioned on an observed value; observed
	// samples are never stepped, only contribute log density.
	Observed bool
}

// ID returns the node's arena index.
func (n *SampleNode) ID() NodeID { return n.id }

// Parents returns the single parent: the distribution node.
func (n *SampleNode) Parents() []NodeID { return []NodeID{n.dist} }

// Kind returns the sample's variable kind (KindSimplex for Dirichlet draws).
func (n *SampleNode) Kind() VariableKind { return n.kind }

// Distribution returns the parent distribution node.
func (n *SampleNode) Distribution() (*DistributionNode, error) {
	return n.g.distributionNode(n.dist)
}

// Concentration returns a live view of the concentration-parameter vector of
// a simplex sample: the sample's parent is the Dirichlet distribution node,
// whose first parent is the K-dimensional concentration node.
func (n *SampleNode) Concentration() ([]float64, error) {
	if n.kind != KindSimplex {
		return nil, fmt.Errorf("sample node %d (%s): %w", n.id, n.kind, ErrNotSimplex)
	}
	d, err := n.g.distributionNode(n.dist)
	if err != nil {
		return nil, err
	}

	return n.g.vectorValue(d.parents[0])
}

// SetUnconstrained seeds a simplex sample's latent Gamma draws, zeroes the
// derivative buffers, and renormalizes Value onto the simplex. Only valid for
// simplex-kinded samples.
func (n *SampleNode) SetUnconstrained(vals []float64) error {
	if n.kind != KindSimplex {
		return fmt.Errorf("sample node %d (%s): %w", n.id, n.kind, ErrNotSimplex)
	}
	u, err := dualval.NewVector(vals)
	if err != nil {
		return err
	}
	n.Unconstrained = u
	if err = n.Grad1.SetZero(len(vals), 1); err != nil {
		return err
	}
	if err = n.Grad2.SetZero(len(vals), 1); err != nil {
		return err
	}

	return n.RefreshSimplex()
}

// RefreshSimplex recomputes Value = Unconstrained / sum(Unconstrained)
// elementwise. A zero sum is not guarded and propagates as ±Inf/NaN, matching
// the stepper's documented numeric policy.
func (n *SampleNode) RefreshSimplex() error {
	u, err := n.Unconstrained.Matrix()
	if err != nil {
		return fmt.Errorf("sample node %d: %w", n.id, err)
	}

	return n.Value.SetMatrix(u.Scaled(1 / u.Sum()))
}

// LogProb returns the log density of the current Value under the parent
// distribution.
func (n *SampleNode) LogProb() (float64, error) {
	d, err := n.g.distributionNode(n.dist)
	if err != nil {
		return 0, err
	}

	switch d.dist {
	case DistDirichlet:
		alphas, err := n.g.vectorValue(d.parents[0])
		if err != nil {
			return 0, err
		}
		y, err := n.Value.Array()
		if err != nil {
			return 0, err
		}
		return distmv.NewDirichlet(alphas, nil).LogProb(y), nil

	case DistNormal:
		mu, sigma, err := n.scalarParams(d)
		if err != nil {
			return 0, err
		}
		x, err := n.Value.Scalar()
		if err != nil {
			return 0, err
		}
		return distuv.Normal{Mu: mu, Sigma: sigma}.LogProb(x), nil

	case DistGamma:
		shape, rate, err := n.scalarParams(d)
		if err != nil {
			return 0, err
		}
		x, err := n.Value.Scalar()
		if err != nil {
			return 0, err
		}
		return distuv.Gamma{Alpha: shape, Beta: rate}.LogProb(x), nil

	default:
		return 0, fmt.Errorf("sample node %d: %w", n.id, ErrParentKind)
	}
}

// GradientLogProb accumulates into g1/g2 the derivative of this node's log
// density with respect to the in-flight coordinate of wrt, chained through
// the parameter parents' propagated gradient buffers.
//
// Supported dependencies: Normal through mean and sigma (taken independently;
// a model where both depend on the same target is not differentiated), and
// Gamma through the rate. A Gamma shape or a Dirichlet concentration that
// carries in-flight gradients returns ErrGradientUnsupported.
func (n *SampleNode) GradientLogProb(wrt NodeID, g1, g2 *float64) error {
	if n.id == wrt {
		// The target's own contribution is closed-form in the stepper.
		return fmt.Errorf("sample node %d: gradient with respect to itself: %w", n.id, ErrGradientUnsupported)
	}
	d, err := n.g.distributionNode(n.dist)
	if err != nil {
		return err
	}

	switch d.dist {
	case DistNormal:
		return n.gradNormal(d, g1, g2)
	case DistGamma:
		return n.gradGamma(d, g1, g2)
	case DistDirichlet:
		return n.gradDirichlet(d)
	default:
		return fmt.Errorf("sample node %d: %w", n.id, ErrParentKind)
	}
}

// gradDirichlet contributes zero when the concentration parent carries no
// in-flight gradient (a constant, or an untouched node). The score with
// respect to the concentration itself is not differentiated here.
func (n *SampleNode) gradDirichlet(d *DistributionNode) error {
	concG1, concG2, err := n.g.gradOf(d.parents[0])
	if err != nil {
		return err
	}
	if concG1 != 0 || concG2 != 0 {
		return fmt.Errorf("sample node %d: dirichlet concentration dependency: %w", n.id, ErrGradientUnsupported)
	}

	return nil
}

// gradNormal chains d log N(x; mu, sigma) through the mean and sigma parents.
func (n *SampleNode) gradNormal(d *DistributionNode, g1, g2 *float64) error {
	mu, sigma, err := n.scalarParams(d)
	if err != nil {
		return err
	}
	x, err := n.Value.Scalar()
	if err != nil {
		return err
	}

	muG1, muG2, err := n.g.gradOf(d.parents[0])
	if err != nil {
		return err
	}
	if muG1 != 0 || muG2 != 0 {
		// d/dmu log p = (x-mu)/sigma^2 ; d2/dmu2 log p = -1/sigma^2
		dmu := (x - mu) / (sigma * sigma)
		d2mu := -1 / (sigma * sigma)
		*g1 += dmu * muG1
		*g2 += d2mu*muG1*muG1 + dmu*muG2
	}

	sigG1, sigG2, err := n.g.gradOf(d.parents[1])
	if err != nil {
		return err
	}
	if sigG1 != 0 || sigG2 != 0 {
		// d/dsigma log p = (x-mu)^2/sigma^3 - 1/sigma
		// d2/dsigma2 log p = -3(x-mu)^2/sigma^4 + 1/sigma^2
		sq := (x - mu) * (x - mu)
		dsig := sq/(sigma*sigma*sigma) - 1/sigma
		d2sig := -3*sq/(sigma*sigma*sigma*sigma) + 1/(sigma*sigma)
		*g1 += dsig * sigG1
		*g2 += d2sig*sigG1*sigG1 + dsig*sigG2
	}

	return nil
}

// gradGamma chains d log Gamma(x; shape, rate) through the rate parent.
func (n *SampleNode) gradGamma(d *DistributionNode, g1, g2 *float64) error {
	shape, rate, err := n.scalarParams(d)
	if err != nil {
		return err
	}
	x, err := n.Value.Scalar()
	if err != nil {
		return err
	}

	shapeG1, shapeG2, err := n.g.gradOf(d.parents[0])
	if err != nil {
		return err
	}
	if shapeG1 != 0 || shapeG2 != 0 {
		return fmt.Errorf("sample node %d: gamma shape dependency: %w", n.id, ErrGradientUnsupported)
	}

	rateG1, rateG2, err := n.g.gradOf(d.parents[1])
	if err != nil {
		return err
	}
	if rateG1 != 0 || rateG2 != 0 {
		// d/db log p = a/b - x ; d2/db2 log p = -a/b^2
		db := shape/rate - x
		d2b := -shape / (rate * rate)
		*g1 += db * rateG1
		*g2 += d2b*rateG1*rateG1 + db*rateG2
	}

	return nil
}

// scalarParams reads the two scalar parameter parents of a Normal or Gamma.
func (n *SampleNode) scalarParams(d *DistributionNode) (float64, float64, error) {
	a, err := n.g.scalarValue(d.parents[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := n.g.scalarValue(d.parents[1])
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}
