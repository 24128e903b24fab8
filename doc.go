// Package nmcgraph is a library-level Newtonian-Monte-Carlo (NMC) kernel for
// probabilistic computation graphs: dual scalar/matrix values, an arena
// graph, second-order proposers, and a single-site Dirichlet-via-Gamma
// stepper.
//
// 🚀 What is nmcgraph?
//
//	A compact, deterministic inference kernel that brings together:
//		• Dual values: one tagged type for scalars and dense real matrices,
//		  with a strict, typed arithmetic rule table
//		• Arena graph: append-only node storage with integer indices, factory
//		  validation, checkpoint/restore and forward gradient propagation
//		• Proposers: gradient+curvature (quadratic) Metropolis-Hastings
//		  proposals for real and positive-real variables
//		• Stepper: the NMC Dirichlet-via-Gamma single-site transition kernel,
//		  sweeping one simplex coordinate at a time
//
// ✨ Why choose nmcgraph?
//
//   - Reproducible – one explicit RNG threaded through every draw; a fixed
//     seed yields a bit-identical chain
//   - Rock-solid guarantees – typed sentinel errors, no panics on
//     user-triggered conditions, gradient buffers provably clean between steps
//   - Minimal surface – a computational kernel invoked by your driver loop;
//     no CLI, no network, no files
//
// Under the hood, everything is organized under four subpackages:
//
//	dualval/  — the scalar|matrix sum type and its dense backing matrix
//	graph/    — nodes, arena factory, evaluation & gradient engine, profiler
//	proposer/ — quadratic (NMC) proposal distributions
//	stepper/  — the Dirichlet-via-Gamma single-site MCMC stepper
//
// Quick sketch of one step:
//
//	alphas ──► Dirichlet ──► Y (simplex sample)
//	                           │ Y = X/sum(X), X_k ~ Gamma(alpha_k, 1)
//	                           ▼
//	per coordinate k: fit a Gamma proposal from (log p, ∂, ∂²),
//	draw, accept/reject, roll back on rejection.
//
// Dive into each package's doc.go for the full contracts.
//
//	go get github.com/katalvlaran/nmcgraph
package nmcgraph
