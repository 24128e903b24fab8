// Package stepper provides single-site MCMC transition kernels over the
// computation graph. Its centerpiece is DirichletGamma, the Newtonian Monte
// Carlo (NMC) stepper for simplex-constrained sample nodes.
//
// A K-dimensional Dirichlet sample is treated as K independent Gamma samples
// divided by their sum: with X_k ~ Gamma(alpha_k, 1) and Y = X / sum(X),
// Y is Dirichlet(alpha)-distributed. Y lives in the sample node's Value and
// X in its Unconstrained value. One Step performs a full sweep, updating each
// coordinate X_k in turn with a Metropolis-Hastings move whose proposal is
// fitted from the blanket's log density, gradient and curvature at the
// current point.
//
// Determinism: every random draw flows through a single Sampler — one
// proposal draw per coordinate, then at most one accept/reject draw. A
// log-acceptance ratio greater than zero accepts without consuming the
// accept/reject draw, so under a fixed seed the random stream, and hence the
// chain, is bit-reproducible.
//
// Concurrency: single-threaded and synchronous. A step assumes exclusive
// access to the target node, its blanket and its deterministic closure, runs
// to completion for all K coordinates, and propagates the first error it
// meets, leaving checkpoint responsibility with the caller on mid-sweep
// failure.
//
// Numerics: non-positive proposal draws or a zero unconstrained sum are not
// guarded; they propagate as NaN/Inf through the subsequent arithmetic rather
// than raising a distinguished error.
package stepper
