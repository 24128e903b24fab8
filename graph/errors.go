// Package graph: sentinel error set (unified, consistent).
// All factory and engine operations MUST return these sentinels and tests
// MUST check them via errors.Is. Wrap with fmt.Errorf("ctx: %w", ErrX) only
// to add context at the boundary.

package graph

import "errors"

var (
	// ErrNodeNotFound indicates a NodeID outside the arena. Because new nodes
	// always receive the next index, this also rejects forward references:
	// a node may only refer to earlier indices.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrArity indicates the wrong number of parents for a node kind.
	ErrArity = errors.New("graph: wrong number of parents")

	// ErrParentKind indicates a parent node of an unexpected kind, e.g. a
	// sample whose parent is not a distribution, or a Dirichlet whose
	// concentration parent is not a vector constant.
	ErrParentKind = errors.New("graph: unexpected parent node kind")

	// ErrNotDeterministic indicates an engine operation received a node that
	// is not a deterministic operator node.
	ErrNotDeterministic = errors.New("graph: node is not deterministic")

	// ErrNotStochastic indicates an engine operation received a node that is
	// not a stochastic sample node.
	ErrNotStochastic = errors.New("graph: node is not stochastic")

	// ErrNotScalarValued indicates a scalar value was required of a node that
	// holds a vector (or vice versa).
	ErrNotScalarValued = errors.New("graph: node is not scalar-valued")

	// ErrNotSimplex indicates a simplex-only operation was invoked on a sample
	// of a different variable kind.
	ErrNotSimplex = errors.New("graph: sample is not simplex-kinded")

	// ErrGradientUnsupported indicates a gradient contribution was requested
	// along a dependency this graph does not differentiate (e.g. through a
	// Gamma shape parameter, or of one vector sample with respect to another).
	ErrGradientUnsupported = errors.New("graph: gradient not supported for this dependency")

	// ErrBadPayload indicates a malformed serialized graph.
	ErrBadPayload = errors.New("graph: malformed graph payload")

	// ErrSequence indicates a serialized node whose sequence number does not
	// match its position in the arena.
	ErrSequence = errors.New("graph: node out of sequence")
)
