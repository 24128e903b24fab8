// Package graph provides the probabilistic computation graph the NMC stepper
// operates on: an append-only arena of numbered nodes, per-kind log-density
// and gradient contracts, and the checkpoint/evaluation/gradient engine.
//
// The graph package provides:
//
//   - Graph — an arena (append-only slice) of nodes addressed by integer
//     NodeID. Factory methods validate arity and parent kinds at insertion,
//     and the arena ordering enforces that nodes refer only to earlier
//     indices, so the graph is cycle-free by construction.
//   - Node kinds: ConstantNode (fixed values), DistributionNode (Dirichlet,
//     Normal, Gamma), SampleNode (stochastic state: constrained value,
//     unconstrained reparameterization, derivative buffers and chain-rule
//     accumulators), OperatorNode (deterministic scalar ops: add, mul, log,
//     and coordinate extraction from vector samples).
//   - Engine operations over explicit node lists: SaveCheckpoint /
//     RestoreCheckpoint, Eval, ComputeGradients, ClearGradients, and
//     AffectedNodes (deterministic closure + Markov blanket of a target).
//   - Profiler — an optional begin/end event recorder bracketing stepper
//     phases; purely observational.
//   - JSON round-trip of the arena with full re-validation on decode.
//
// Execution is single-threaded and synchronous: the engine mutates node state
// in place and assumes exclusive access for the duration of a call. Scalar
// log densities are computed through gonum's stat/distuv and the Dirichlet
// through stat/distmv; the closed-form derivatives the proposers need are
// spelled out per distribution.
package graph
