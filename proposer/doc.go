// Package proposer provides the quadratic (Newtonian Monte Carlo) proposal
// distributions used by the single-site steppers.
//
// A proposer is built from a triple (value, grad1, grad2): the current value
// of the variable being updated and the first and second derivative of the
// joint log density of its Markov blanket at that value. The quadratic
// approximation log p(x) ≈ log p(x₀) + g₁·(x−x₀) + ½·g₂·(x−x₀)² is matched
// against a distribution family suited to the variable's support:
//
//   - positive reals — a Gamma with shape 1 − x₀²·g₂ and rate −x₀·g₂ − g₁
//     (the family whose log density has exactly that local expansion);
//   - reals — a Normal with mean x₀ − g₁/g₂ and variance −1/g₂.
//
// When the local density is not concave (g₂ ≥ 0) or the matched parameters
// leave the family's domain, a heavy fallback centered at the current value
// is used instead; the Metropolis-Hastings ratio stays exact because the
// same construction is applied at both the old and the proposed point.
//
// Sampling draws through the caller's random source so the consuming chain
// remains reproducible under a fixed seed.
package proposer
