// JSON round-trip of the arena. Decoding rebuilds the graph through the
// validating factory methods, so a malformed payload (forward references,
// wrong arities, unknown kinds, out-of-sequence nodes) is rejected with the
// same sentinels the factory uses.

package graph

import (
	"encoding/json"
	"fmt"

	"github.com/katalvlaran/nmcgraph/dualval"
)

// graphJSON is the serialized envelope.
type graphJSON struct {
	Nodes []nodeJSON `json:"nodes"`
}

// nodeJSON is one serialized arena entry. Exactly the fields relevant to the
// node's kind are populated.
type nodeJSON struct {
	Sequence int      `json:"sequence"`
	Kind     string   `json:"kind"`
	Parents  []NodeID `json:"parents,omitempty"`

	// constant
	Scalar *float64  `json:"scalar,omitempty"`
	Vector []float64 `json:"vector,omitempty"`

	// distribution
	Dist string `json:"dist,omitempty"`

	// sample
	Observed      bool      `json:"observed,omitempty"`
	Value         []float64 `json:"value,omitempty"`
	Unconstrained []float64 `json:"unconstrained,omitempty"`

	// operator
	Op    string `json:"op,omitempty"`
	Index *int   `json:"index,omitempty"`
}

const (
	kindConstant     = "constant"
	kindDistribution = "distribution"
	kindSample       = "sample"
	kindOperator     = "operator"
)

// distKindFromName is the inverse of DistKind.String.
func distKindFromName(name string) (DistKind, error) {
	switch name {
	case "dirichlet":
		return DistDirichlet, nil
	case "normal":
		return DistNormal, nil
	case "gamma":
		return DistGamma, nil
	default:
		return 0, fmt.Errorf("distribution %q: %w", name, ErrBadPayload)
	}
}

// opFromName is the inverse of Op.String.
func opFromName(name string) (Op, error) {
	switch name {
	case "add":
		return OpAdd, nil
	case "mul":
		return OpMul, nil
	case "log":
		return OpLog, nil
	case "index":
		return OpIndex, nil
	default:
		return 0, fmt.Errorf("operator %q: %w", name, ErrBadPayload)
	}
}

// MarshalJSON serializes the arena in insertion order.
func (g *Graph) MarshalJSON() ([]byte, error) {
	env := graphJSON{Nodes: make([]nodeJSON, 0, len(g.nodes))}
	for i, n := range g.nodes {
		j := nodeJSON{Sequence: i}
		switch node := n.(type) {
		case *ConstantNode:
			j.Kind = kindConstant
			if node.Value.IsScalar() {
				s, err := node.Value.Scalar()
				if err != nil {
					return nil, err
				}
				j.Scalar = &s
			} else {
				arr, err := node.Value.Array()
				if err != nil {
					return nil, err
				}
				j.Vector = arr
			}

		case *DistributionNode:
			j.Kind = kindDistribution
			j.Dist = node.dist.String()
			j.Parents = node.parents

		case *SampleNode:
			j.Kind = kindSample
			j.Parents = node.Parents()
			j.Observed = node.Observed
			val, unc, err := sampleStateJSON(node)
			if err != nil {
				return nil, err
			}
			j.Value, j.Unconstrained = val, unc

		case *OperatorNode:
			j.Kind = kindOperator
			j.Op = node.op.String()
			j.Parents = node.parents
			if node.op == OpIndex {
				idx := node.index
				j.Index = &idx
			}

		default:
			return nil, fmt.Errorf("node %d (%T): %w", i, n, ErrBadPayload)
		}
		env.Nodes = append(env.Nodes, j)
	}

	return json.Marshal(env)
}

// sampleStateJSON flattens a sample's value and unconstrained value into
// slices (length 1 for scalar samples).
func sampleStateJSON(n *SampleNode) (val, unc []float64, err error) {
	if n.Value.IsScalar() {
		v, err := n.Value.Scalar()
		if err != nil {
			return nil, nil, err
		}
		u, err := n.Unconstrained.Scalar()
		if err != nil {
			return nil, nil, err
		}
		return []float64{v}, []float64{u}, nil
	}

	varr, err := n.Value.Array()
	if err != nil {
		return nil, nil, err
	}
	uarr, err := n.Unconstrained.Array()
	if err != nil {
		return nil, nil, err
	}
	val = append(val, varr...)
	unc = append(unc, uarr...)

	return val, unc, nil
}

// UnmarshalJSON rebuilds the arena through the validating factory and
// restores sample state. The receiver is replaced wholesale; an attached
// profiler is preserved.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var env graphJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	out := New(WithProfiler(g.prof))
	for i, j := range env.Nodes {
		if j.Sequence != i {
			return fmt.Errorf("node %d has sequence %d: %w", i, j.Sequence, ErrSequence)
		}
		if err := out.decodeNode(j); err != nil {
			return err
		}
	}
	*g = *out

	return nil
}

// decodeNode appends one serialized node through the factory.
func (g *Graph) decodeNode(j nodeJSON) error {
	switch j.Kind {
	case kindConstant:
		switch {
		case j.Scalar != nil:
			g.AddConstant(*j.Scalar)
		case len(j.Vector) > 0:
			if _, err := g.AddConstantVector(j.Vector); err != nil {
				return err
			}
		default:
			return fmt.Errorf("constant node %d has no value: %w", j.Sequence, ErrBadPayload)
		}

	case kindDistribution:
		dist, err := distKindFromName(j.Dist)
		if err != nil {
			return err
		}
		switch dist {
		case DistDirichlet:
			if len(j.Parents) != 1 {
				return fmt.Errorf("dirichlet node %d: %w", j.Sequence, ErrArity)
			}
			_, err = g.AddDirichlet(j.Parents[0])
		case DistNormal:
			if len(j.Parents) != 2 {
				return fmt.Errorf("normal node %d: %w", j.Sequence, ErrArity)
			}
			_, err = g.AddNormal(j.Parents[0], j.Parents[1])
		case DistGamma:
			if len(j.Parents) != 2 {
				return fmt.Errorf("gamma node %d: %w", j.Sequence, ErrArity)
			}
			_, err = g.AddGamma(j.Parents[0], j.Parents[1])
		}
		if err != nil {
			return err
		}

	case kindSample:
		if len(j.Parents) != 1 {
			return fmt.Errorf("sample node %d: %w", j.Sequence, ErrArity)
		}
		id, err := g.AddSample(j.Parents[0])
		if err != nil {
			return err
		}
		return g.restoreSampleState(id, j)

	case kindOperator:
		op, err := opFromName(j.Op)
		if err != nil {
			return err
		}
		if op == OpIndex {
			if len(j.Parents) != 1 || j.Index == nil {
				return fmt.Errorf("index node %d: %w", j.Sequence, ErrArity)
			}
			_, err = g.AddIndex(j.Parents[0], *j.Index)
		} else {
			_, err = g.AddOperator(op, j.Parents...)
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("node %d kind %q: %w", j.Sequence, j.Kind, ErrBadPayload)
	}

	return nil
}

// restoreSampleState reapplies a decoded sample's value and observation flag.
func (g *Graph) restoreSampleState(id NodeID, j nodeJSON) error {
	n, err := g.sampleNode(id)
	if err != nil {
		return err
	}
	if len(j.Value) == 0 || len(j.Unconstrained) == 0 {
		return fmt.Errorf("sample node %d has no state: %w", j.Sequence, ErrBadPayload)
	}

	if n.kind == KindSimplex {
		if err = n.SetUnconstrained(j.Unconstrained); err != nil {
			return err
		}
	} else {
		n.Value = dualval.NewScalar(j.Value[0])
		n.Unconstrained = dualval.NewScalar(j.Unconstrained[0])
	}
	n.Observed = j.Observed

	return nil
}
