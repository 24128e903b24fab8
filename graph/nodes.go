// Constant and distribution nodes.

package graph

import (
	"fmt"

	"github.com/katalvlaran/nmcgraph/dualval"
)

// ConstantNode holds a fixed value (scalar or vector). Constants carry no
// gradient: their contribution to any chain-rule propagation is zero.
type ConstantNode struct {
	id NodeID

	// Value is the held constant. Scalar constants feed scalar parameters
	// (means, deviations, shapes, rates); vector constants feed concentration
	// parameters.
	Value dualval.Value
}

// ID returns the node's arena index.
func (n *ConstantNode) ID() NodeID { return n.id }

// Parents returns nil: constants have no parents.
func (n *ConstantNode) Parents() []NodeID { return nil }

// DistributionNode declares a distribution over its child samples. It holds
// no sampled state itself; SampleNode carries the draw.
type DistributionNode struct {
	id      NodeID
	g       *Graph
	dist    DistKind
	parents []NodeID
}

// ID returns the node's arena index.
func (n *DistributionNode) ID() NodeID { return n.id }

// Parents returns the distribution's parameter node IDs:
// Dirichlet → [concentration vector]; Normal → [mean, sigma]; Gamma → [shape, rate].
func (n *DistributionNode) Parents() []NodeID { return n.parents }

// Dist returns the distribution family.
func (n *DistributionNode) Dist() DistKind { return n.dist }

// dimension returns K for a Dirichlet distribution (its concentration
// vector's length) and 1 for scalar families.
func (n *DistributionNode) dimension() (int, error) {
	if n.dist != DistDirichlet {
		return 1, nil
	}
	alphas, err := n.g.vectorValue(n.parents[0])
	if err != nil {
		return 0, fmt.Errorf("dirichlet node %d: %w", n.id, err)
	}

	return len(alphas), nil
}
