// Package stepper: sentinel error set.

package stepper

import "errors"

var (
	// ErrNotApplicable indicates the target node is not one this stepper can
	// update (for DirichletGamma: not an unobserved simplex-kinded sample).
	ErrNotApplicable = errors.New("stepper: stepper not applicable to node")

	// ErrNilGraph indicates a nil *graph.Graph was supplied.
	ErrNilGraph = errors.New("stepper: graph is nil")

	// ErrNilSampler indicates a nil Sampler was supplied.
	ErrNilSampler = errors.New("stepper: sampler is nil")
)
