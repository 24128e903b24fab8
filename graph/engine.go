// Engine operations the stepper drives: checkpointing, re-evaluation,
// gradient propagation and reset, and affected-node discovery.
//
// Every operation takes the deterministic node list explicitly and processes
// it in index order; the arena ordering guarantees parents are up to date
// before a child is touched.

package graph

import (
	"fmt"
	"sort"
)

// SaveCheckpoint snapshots the current value of every listed deterministic
// node so a later RestoreCheckpoint can roll a rejected proposal back.
func (g *Graph) SaveCheckpoint(det []NodeID) error {
	for _, id := range det {
		n, err := g.operatorNode(id)
		if err != nil {
			return err
		}
		n.saved = n.value
	}

	return nil
}

// RestoreCheckpoint rolls every listed deterministic node back to its last
// saved value.
func (g *Graph) RestoreCheckpoint(det []NodeID) error {
	for _, id := range det {
		n, err := g.operatorNode(id)
		if err != nil {
			return err
		}
		n.value = n.saved
	}

	return nil
}

// Eval recomputes the value of every listed deterministic node, in index
// order, from its (already up-to-date) parents.
func (g *Graph) Eval(det []NodeID) error {
	for _, id := range det {
		n, err := g.operatorNode(id)
		if err != nil {
			return err
		}
		if err = n.eval(); err != nil {
			return err
		}
	}

	return nil
}

// ComputeGradients forward-propagates (grad1, grad2) through the listed
// deterministic nodes, in index order, using the seeded buffers of the target
// sample node as the local Jacobian and curvature.
func (g *Graph) ComputeGradients(det []NodeID) error {
	for _, id := range det {
		n, err := g.operatorNode(id)
		if err != nil {
			return err
		}
		if err = n.computeGradient(); err != nil {
			return err
		}
	}

	return nil
}

// ClearGradients zeroes the gradient buffers of every listed deterministic
// node. The engine relies on cleared buffers to detect that no update is in
// flight, so this must run at the end of every coordinate update regardless
// of acceptance.
func (g *Graph) ClearGradients(det []NodeID) error {
	for _, id := range det {
		n, err := g.operatorNode(id)
		if err != nil {
			return err
		}
		n.grad1, n.grad2 = 0, 0
	}

	return nil
}

// AffectedNodes discovers, for a stochastic target node, the deterministic
// closure (operator nodes reachable from the target without crossing another
// stochastic node) and the Markov blanket (the target plus every stochastic
// node whose log density depends on it through that closure). Both lists are
// returned in ascending index order; the blanket always starts with the
// target.
func (g *Graph) AffectedNodes(target NodeID) (det, sto []NodeID, err error) {
	if _, err = g.sampleNode(target); err != nil {
		return nil, nil, err
	}

	detSet := make(map[NodeID]bool)
	stoSet := make(map[NodeID]bool)
	stoSet[target] = true

	// Breadth-first walk over child edges, expanding only through
	// deterministic nodes.
	queue := []NodeID{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range g.children[cur] {
			switch n := g.nodes[child].(type) {
			case *OperatorNode:
				if !detSet[child] {
					detSet[child] = true
					queue = append(queue, child)
				}
			case *DistributionNode:
				// A distribution parameterized by an affected node makes each
				// of its samples an affected stochastic node.
				for _, grandchild := range g.children[child] {
					if _, ok := g.nodes[grandchild].(*SampleNode); ok {
						stoSet[grandchild] = true
					}
				}
			case *SampleNode:
				stoSet[child] = true
			default:
				return nil, nil, fmt.Errorf("node %d (%T): %w", child, n, ErrParentKind)
			}
		}
	}

	det = make([]NodeID, 0, len(detSet))
	for id := range detSet {
		det = append(det, id)
	}
	sto = make([]NodeID, 0, len(stoSet))
	for id := range stoSet {
		sto = append(sto, id)
	}
	sort.Slice(det, func(i, j int) bool { return det[i] < det[j] })
	sort.Slice(sto, func(i, j int) bool { return sto[i] < sto[j] })

	// The target leads the blanket; it is the smallest stochastic index in
	// any well-formed model, but make the contract explicit regardless.
	for i, id := range sto {
		if id == target && i != 0 {
			copy(sto[1:i+1], sto[:i])
			sto[0] = target
			break
		}
	}

	return det, sto, nil
}
