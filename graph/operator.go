// OperatorNode: deterministic scalar nodes with forward value and gradient
// propagation.

package graph

import (
	"fmt"
	"math"
)

// OperatorNode is a deterministic scalar node. Its value is recomputed from
// its parents by Eval, its (grad1, grad2) buffers are filled by
// ComputeGradients via the forward chain rule and must be cleared by
// ClearGradients once a coordinate update completes, and its saved slot backs
// the checkpoint/restore cycle of a Metropolis-Hastings rejection.
type OperatorNode struct {
	id      NodeID
	g       *Graph
	op      Op
	parents []NodeID
	index   int // coordinate for OpIndex

	value float64
	saved float64
	grad1 float64
	grad2 float64
}

// ID returns the node's arena index.
func (n *OperatorNode) ID() NodeID { return n.id }

// Parents returns the operand node IDs in declaration order.
func (n *OperatorNode) Parents() []NodeID { return n.parents }

// Operation returns the node's operator.
func (n *OperatorNode) Operation() Op { return n.op }

// Index returns the extracted coordinate for OpIndex nodes.
func (n *OperatorNode) Index() int { return n.index }

// Value returns the node's current scalar value.
func (n *OperatorNode) Value() float64 { return n.value }

// Grad returns the node's current gradient buffers.
func (n *OperatorNode) Grad() (grad1, grad2 float64) { return n.grad1, n.grad2 }

// eval recomputes the node's value from its parents.
func (n *OperatorNode) eval() error {
	switch n.op {
	case OpAdd:
		a, b, err := n.operands()
		if err != nil {
			return err
		}
		n.value = a + b

	case OpMul:
		a, b, err := n.operands()
		if err != nil {
			return err
		}
		n.value = a * b

	case OpLog:
		a, err := n.g.scalarValue(n.parents[0])
		if err != nil {
			return err
		}
		n.value = math.Log(a)

	case OpIndex:
		src, err := n.g.sampleNode(n.parents[0])
		if err != nil {
			return err
		}
		v, err := src.Value.Coeff(n.index)
		if err != nil {
			return fmt.Errorf("operator node %d: %w", n.id, err)
		}
		n.value = v

	default:
		return fmt.Errorf("operator node %d: unknown op %s: %w", n.id, n.op, ErrBadPayload)
	}

	return nil
}

// computeGradient fills (grad1, grad2) from the parents' buffers via the
// forward chain rule. For OpIndex the parent sample's Grad1/Grad2 vectors are
// the local Jacobian and curvature of the in-flight coordinate.
func (n *OperatorNode) computeGradient() error {
	switch n.op {
	case OpAdd:
		a1, a2, b1, b2, err := n.operandGrads()
		if err != nil {
			return err
		}
		n.grad1 = a1 + b1
		n.grad2 = a2 + b2

	case OpMul:
		a, b, err := n.operands()
		if err != nil {
			return err
		}
		a1, a2, b1, b2, err := n.operandGrads()
		if err != nil {
			return err
		}
		n.grad1 = a1*b + a*b1
		n.grad2 = a2*b + 2*a1*b1 + a*b2

	case OpLog:
		a, err := n.g.scalarValue(n.parents[0])
		if err != nil {
			return err
		}
		a1, a2, err := n.g.gradOf(n.parents[0])
		if err != nil {
			return err
		}
		n.grad1 = a1 / a
		n.grad2 = a2/a - (a1*a1)/(a*a)

	case OpIndex:
		src, err := n.g.sampleNode(n.parents[0])
		if err != nil {
			return err
		}
		if !src.Grad1.IsMatrix() {
			// No update in flight on the source: gradients stay zero.
			n.grad1, n.grad2 = 0, 0
			return nil
		}
		g1, err := src.Grad1.Coeff(n.index)
		if err != nil {
			return fmt.Errorf("operator node %d: %w", n.id, err)
		}
		g2, err := src.Grad2.Coeff(n.index)
		if err != nil {
			return fmt.Errorf("operator node %d: %w", n.id, err)
		}
		n.grad1, n.grad2 = g1, g2

	default:
		return fmt.Errorf("operator node %d: unknown op %s: %w", n.id, n.op, ErrBadPayload)
	}

	return nil
}

// operands reads the two scalar operand values of a binary node.
func (n *OperatorNode) operands() (float64, float64, error) {
	a, err := n.g.scalarValue(n.parents[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := n.g.scalarValue(n.parents[1])
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

// operandGrads reads the gradient buffers of the two operands.
func (n *OperatorNode) operandGrads() (a1, a2, b1, b2 float64, err error) {
	a1, a2, err = n.g.gradOf(n.parents[0])
	if err != nil {
		return 0, 0, 0, 0, err
	}
	b1, b2, err = n.g.gradOf(n.parents[1])
	if err != nil {
		return 0, 0, 0, 0, err
	}

	return a1, a2, b1, b2, nil
}
