// Package graph: shared identifiers, kinds, and the node contracts.

package graph

import "fmt"

// NodeID indexes a node inside the arena. IDs are assigned sequentially at
// insertion, so a node's parents always carry smaller IDs than the node itself.
type NodeID int

// VariableKind classifies the value a stochastic node draws.
type VariableKind uint8

const (
	// KindReal marks an unconstrained scalar real variable.
	KindReal VariableKind = iota

	// KindPositiveReal marks a scalar variable constrained to (0, ∞).
	KindPositiveReal

	// KindSimplex marks a simplex-constrained (normalized) vector variable:
	// non-negative coordinates summing to one. The Dirichlet-via-Gamma stepper
	// applies exactly to this kind.
	KindSimplex
)

// String implements fmt.Stringer for VariableKind.
func (k VariableKind) String() string {
	switch k {
	case KindReal:
		return "real"
	case KindPositiveReal:
		return "positive-real"
	case KindSimplex:
		return "simplex"
	default:
		return fmt.Sprintf("variable-kind(%d)", uint8(k))
	}
}

// DistKind identifies a distribution node's family.
type DistKind uint8

const (
	// DistDirichlet is a Dirichlet over a K-simplex; one parent, the
	// K-dimensional concentration vector.
	DistDirichlet DistKind = iota

	// DistNormal is a scalar normal; parents are mean and standard deviation.
	DistNormal

	// DistGamma is a scalar gamma; parents are shape and rate.
	DistGamma
)

// String implements fmt.Stringer for DistKind.
func (d DistKind) String() string {
	switch d {
	case DistDirichlet:
		return "dirichlet"
	case DistNormal:
		return "normal"
	case DistGamma:
		return "gamma"
	default:
		return fmt.Sprintf("dist-kind(%d)", uint8(d))
	}
}

// Op identifies a deterministic operator node's operation.
type Op uint8

const (
	// OpAdd is binary scalar addition.
	OpAdd Op = iota

	// OpMul is binary scalar multiplication.
	OpMul

	// OpLog is the natural logarithm of a scalar parent.
	OpLog

	// OpIndex extracts one coordinate of a vector-valued sample parent as a
	// scalar, bridging a simplex sample into scalar downstream nodes.
	OpIndex
)

// String implements fmt.Stringer for Op.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMul:
		return "mul"
	case OpLog:
		return "log"
	case OpIndex:
		return "index"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Node is the common contract of every arena entry.
type Node interface {
	// ID returns the node's arena index.
	ID() NodeID

	// Parents returns the node's parent IDs in declaration order. All parent
	// IDs are strictly smaller than ID().
	Parents() []NodeID
}

// Stochastic is the polymorphic per-node contract stochastic nodes expose to
// the stepper: a log density at the current value and a chain-rule gradient
// contribution with respect to a target node.
type Stochastic interface {
	Node

	// LogProb returns the node's log density at its current value.
	LogProb() (float64, error)

	// GradientLogProb accumulates into g1 and g2 the first and second
	// derivative of this node's log density with respect to the coordinate of
	// wrt currently carrying seeded gradients, chained through deterministic
	// nodes already propagated by ComputeGradients. Callers never pass the
	// node itself as wrt; the target's own contribution is computed in closed
	// form by the stepper.
	GradientLogProb(wrt NodeID, g1, g2 *float64) error
}
