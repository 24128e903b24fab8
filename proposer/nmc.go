// NMC constructors: match the local quadratic expansion of the blanket's log
// density against a proposal family suited to the variable's support.

package proposer

import "math"

// PositiveReal builds the NMC proposal for a positive-real variable at x with
// blanket log-density derivatives (grad1, grad2).
//
// A Gamma(a, b) log density is (a−1)·ln x − b·x + const, with first
// derivative (a−1)/x − b and second derivative −(a−1)/x². Matching those to
// (grad1, grad2) at x gives
//
//	a = 1 − x²·grad2
//	b = −x·grad2 − grad1
//
// which is used whenever the local density is concave (grad2 < 0) and the
// matched parameters lie in the Gamma domain. Otherwise the fallback is an
// Exponential with mean x, positive-supported and centered at the current
// point; the MH ratio remains exact because both sweep phases build through
// this same constructor.
func PositiveReal(x, grad1, grad2 float64) Proposer {
	if grad2 < 0 {
		alpha := 1 - x*x*grad2
		beta := -x*grad2 - grad1
		if alpha > 0 && beta > 0 {
			return Gamma{Alpha: alpha, Beta: beta}
		}
	}

	return Exponential{Rate: 1 / x}
}

// Real builds the NMC proposal for an unconstrained real variable at x:
// a Normal with mean x − grad1/grad2 and variance −1/grad2 when the local
// density is concave, else a unit-variance Normal at the current point.
func Real(x, grad1, grad2 float64) Proposer {
	if grad2 < 0 {
		return Normal{Mu: x - grad1/grad2, Sigma: math.Sqrt(-1 / grad2)}
	}

	return Normal{Mu: x, Sigma: 1}
}
