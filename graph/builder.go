// Graph: the append-only node arena and its validating factory methods.
//
// Nodes are stored in insertion order and addressed by integer NodeID; since
// a new node always receives the next index, parents necessarily precede
// children, and the "refer only to earlier indices" invariant is enforced at
// insertion time rather than via pointer validity.

package graph

import (
	"fmt"

	"github.com/katalvlaran/nmcgraph/dualval"
)

// Graph is the arena of nodes plus the child index used for affected-node
// discovery. Not safe for concurrent mutation; the engine assumes exclusive
// access for the duration of a call.
type Graph struct {
	nodes    []Node
	children [][]NodeID
	prof     *Profiler
}

// Option configures a Graph at construction.
type Option func(*Graph)

// WithProfiler attaches an event profiler. A nil profiler (the default)
// disables profiling with no overhead beyond a nil check.
func WithProfiler(p *Profiler) Option {
	return func(g *Graph) { g.prof = p }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int { return len(g.nodes) }

// Profiler returns the attached profiler, or nil.
func (g *Graph) Profiler() *Profiler { return g.prof }

// Node returns the node with the given ID, or ErrNodeNotFound.
func (g *Graph) Node(id NodeID) (Node, error) {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}

	return g.nodes[id], nil
}

// append inserts a node, indexes it under its parents, and returns its ID.
func (g *Graph) append(n Node) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.children = append(g.children, nil)
	for _, p := range n.Parents() {
		g.children[p] = append(g.children[p], id)
	}

	return id
}

// checkParents validates that every parent ID refers to an existing (and
// therefore earlier) node.
func (g *Graph) checkParents(parents ...NodeID) error {
	for _, p := range parents {
		if p < 0 || int(p) >= len(g.nodes) {
			return fmt.Errorf("parent %d: %w", p, ErrNodeNotFound)
		}
	}

	return nil
}

// AddConstant appends a scalar constant node and returns its ID.
func (g *Graph) AddConstant(d float64) NodeID {
	return g.append(&ConstantNode{id: NodeID(len(g.nodes)), Value: dualval.NewScalar(d)})
}

// AddConstantVector appends a column-vector constant node. Returns
// dualval.ErrBadShape for an empty slice.
func (g *Graph) AddConstantVector(vals []float64) (NodeID, error) {
	v, err := dualval.NewVector(vals)
	if err != nil {
		return 0, err
	}

	return g.append(&ConstantNode{id: NodeID(len(g.nodes)), Value: v}), nil
}

// AddDirichlet appends a Dirichlet distribution node whose single parent is
// the concentration vector node.
func (g *Graph) AddDirichlet(concentration NodeID) (NodeID, error) {
	if err := g.checkParents(concentration); err != nil {
		return 0, err
	}
	if _, err := g.vectorValue(concentration); err != nil {
		return 0, fmt.Errorf("dirichlet concentration %d: %w", concentration, ErrParentKind)
	}

	return g.appendDistribution(DistDirichlet, concentration), nil
}

// AddNormal appends a Normal distribution node with mean and sigma parents.
func (g *Graph) AddNormal(mu, sigma NodeID) (NodeID, error) {
	if err := g.checkScalarParents(mu, sigma); err != nil {
		return 0, err
	}

	return g.appendDistribution(DistNormal, mu, sigma), nil
}

// AddGamma appends a Gamma distribution node with shape and rate parents.
func (g *Graph) AddGamma(shape, rate NodeID) (NodeID, error) {
	if err := g.checkScalarParents(shape, rate); err != nil {
		return 0, err
	}

	return g.appendDistribution(DistGamma, shape, rate), nil
}

// checkScalarParents validates existence and scalar-valuedness of parents.
func (g *Graph) checkScalarParents(parents ...NodeID) error {
	if err := g.checkParents(parents...); err != nil {
		return err
	}
	for _, p := range parents {
		if _, err := g.scalarValue(p); err != nil {
			return fmt.Errorf("parent %d: %w", p, ErrParentKind)
		}
	}

	return nil
}

func (g *Graph) appendDistribution(dist DistKind, parents ...NodeID) NodeID {
	n := &DistributionNode{id: NodeID(len(g.nodes)), g: g, dist: dist, parents: parents}

	return g.append(n)
}

// AddSample appends a stochastic sample node drawn from the given
// distribution node and initializes its state:
//
//   - Dirichlet: simplex kind; Unconstrained seeded to ones so that
//     Value = 1/K in every coordinate; Grad1/Grad2 zeroed K-vectors.
//   - Normal: real kind, value 0.
//   - Gamma: positive-real kind, value 1.
func (g *Graph) AddSample(dist NodeID) (NodeID, error) {
	if err := g.checkParents(dist); err != nil {
		return 0, err
	}
	d, err := g.distributionNode(dist)
	if err != nil {
		return 0, err
	}

	n := &SampleNode{id: NodeID(len(g.nodes)), g: g, dist: dist}
	switch d.dist {
	case DistDirichlet:
		k, err := d.dimension()
		if err != nil {
			return 0, err
		}
		n.kind = KindSimplex
		ones := make([]float64, k)
		for i := range ones {
			ones[i] = 1
		}
		if err = n.SetUnconstrained(ones); err != nil {
			return 0, err
		}

	case DistNormal:
		n.kind = KindReal
		n.Value = dualval.NewScalar(0)
		n.Unconstrained = dualval.NewScalar(0)

	case DistGamma:
		n.kind = KindPositiveReal
		n.Value = dualval.NewScalar(1)
		n.Unconstrained = dualval.NewScalar(1)
	}

	return g.append(n), nil
}

// AddOperator appends a deterministic binary or unary operator node.
// OpIndex nodes are created through AddIndex instead.
func (g *Graph) AddOperator(op Op, parents ...NodeID) (NodeID, error) {
	var want int
	switch op {
	case OpAdd, OpMul:
		want = 2
	case OpLog:
		want = 1
	default:
		return 0, fmt.Errorf("operator %s: %w", op, ErrParentKind)
	}
	if len(parents) != want {
		return 0, fmt.Errorf("operator %s: got %d parents, want %d: %w", op, len(parents), want, ErrArity)
	}
	if err := g.checkScalarParents(parents...); err != nil {
		return 0, err
	}

	n := &OperatorNode{id: NodeID(len(g.nodes)), g: g, op: op, parents: parents}
	id := g.append(n)
	if err := n.eval(); err != nil {
		return 0, err
	}

	return id, nil
}

// AddIndex appends an OpIndex node extracting coordinate i of a vector-valued
// sample node.
func (g *Graph) AddIndex(sample NodeID, i int) (NodeID, error) {
	if err := g.checkParents(sample); err != nil {
		return 0, err
	}
	src, err := g.sampleNode(sample)
	if err != nil {
		return 0, err
	}
	size, err := src.Value.Size()
	if err != nil {
		return 0, fmt.Errorf("index of %d: %w", sample, ErrParentKind)
	}
	if i < 0 || i >= size {
		return 0, fmt.Errorf("index %d of node %d (size %d): %w", i, sample, size, dualval.ErrOutOfRange)
	}

	n := &OperatorNode{id: NodeID(len(g.nodes)), g: g, op: OpIndex, parents: []NodeID{sample}, index: i}
	id := g.append(n)
	if err = n.eval(); err != nil {
		return 0, err
	}

	return id, nil
}

// Observe conditions a sample node on an observed value: the value is
// assigned (switching to the source's alternative) and the node is marked
// observed.
func (g *Graph) Observe(sample NodeID, v dualval.Value) error {
	n, err := g.sampleNode(sample)
	if err != nil {
		return err
	}
	n.Value.Set(v)
	n.Unconstrained.Set(v)
	n.Observed = true

	return nil
}

// SampleNodeAt returns the sample node with the given ID, or ErrNotStochastic.
func (g *Graph) SampleNodeAt(id NodeID) (*SampleNode, error) {
	return g.sampleNode(id)
}

// OperatorNodeAt returns the operator node with the given ID, or ErrNotDeterministic.
func (g *Graph) OperatorNodeAt(id NodeID) (*OperatorNode, error) {
	return g.operatorNode(id)
}

// Typed lookups and value helpers shared across the package.

func (g *Graph) sampleNode(id NodeID) (*SampleNode, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	s, ok := n.(*SampleNode)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNotStochastic)
	}

	return s, nil
}

func (g *Graph) operatorNode(id NodeID) (*OperatorNode, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	o, ok := n.(*OperatorNode)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNotDeterministic)
	}

	return o, nil
}

func (g *Graph) distributionNode(id NodeID) (*DistributionNode, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	d, ok := n.(*DistributionNode)
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrParentKind)
	}

	return d, nil
}

// scalarValue returns the current scalar value of a constant, operator, or
// scalar-valued sample node.
func (g *Graph) scalarValue(id NodeID) (float64, error) {
	n, err := g.Node(id)
	if err != nil {
		return 0, err
	}
	switch node := n.(type) {
	case *ConstantNode:
		v, err := node.Value.Scalar()
		if err != nil {
			return 0, fmt.Errorf("node %d: %w", id, ErrNotScalarValued)
		}
		return v, nil
	case *OperatorNode:
		return node.value, nil
	case *SampleNode:
		v, err := node.Value.Scalar()
		if err != nil {
			return 0, fmt.Errorf("node %d: %w", id, ErrNotScalarValued)
		}
		return v, nil
	default:
		return 0, fmt.Errorf("node %d: %w", id, ErrNotScalarValued)
	}
}

// vectorValue returns a live view of the flat storage of a vector-valued
// constant or sample node.
func (g *Graph) vectorValue(id NodeID) ([]float64, error) {
	n, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	switch node := n.(type) {
	case *ConstantNode:
		arr, err := node.Value.Array()
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, ErrParentKind)
		}
		return arr, nil
	case *SampleNode:
		arr, err := node.Value.Array()
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", id, ErrParentKind)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("node %d: %w", id, ErrParentKind)
	}
}

// gradOf returns the in-flight gradient buffers of a node usable as an
// operand: zero for constants, the propagated buffers for operators, and the
// chain-rule accumulators for sample nodes.
func (g *Graph) gradOf(id NodeID) (grad1, grad2 float64, err error) {
	n, err := g.Node(id)
	if err != nil {
		return 0, 0, err
	}
	switch node := n.(type) {
	case *ConstantNode:
		return 0, 0, nil
	case *OperatorNode:
		return node.grad1, node.grad2, nil
	case *SampleNode:
		return node.ScalarGrad1, node.ScalarGrad2, nil
	default:
		return 0, 0, fmt.Errorf("node %d: %w", id, ErrParentKind)
	}
}
