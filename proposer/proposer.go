// Proposer: the proposal-distribution contract and its distuv-backed
// implementations.

package proposer

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Proposer is a one-dimensional proposal distribution. Sample draws one
// candidate through the supplied source; LogDensity evaluates the proposal's
// log density, used on both sides of the Metropolis-Hastings ratio.
type Proposer interface {
	Sample(rng *rand.Rand) float64
	LogDensity(x float64) float64
}

// Gamma is a Gamma(Alpha, Beta) proposal (Beta is the rate).
type Gamma struct {
	Alpha float64
	Beta  float64
}

// Sample draws one Gamma variate through rng.
func (p Gamma) Sample(rng *rand.Rand) float64 {
	return distuv.Gamma{Alpha: p.Alpha, Beta: p.Beta, Src: rng}.Rand()
}

// LogDensity evaluates the Gamma log density at x.
func (p Gamma) LogDensity(x float64) float64 {
	return distuv.Gamma{Alpha: p.Alpha, Beta: p.Beta}.LogProb(x)
}

// Normal is a Normal(Mu, Sigma) proposal.
type Normal struct {
	Mu    float64
	Sigma float64
}

// Sample draws one Normal variate through rng.
func (p Normal) Sample(rng *rand.Rand) float64 {
	return distuv.Normal{Mu: p.Mu, Sigma: p.Sigma, Src: rng}.Rand()
}

// LogDensity evaluates the Normal log density at x.
func (p Normal) LogDensity(x float64) float64 {
	return distuv.Normal{Mu: p.Mu, Sigma: p.Sigma}.LogProb(x)
}

// Exponential is an Exponential(Rate) proposal, the positive-real fallback.
type Exponential struct {
	Rate float64
}

// Sample draws one Exponential variate through rng.
func (p Exponential) Sample(rng *rand.Rand) float64 {
	return distuv.Exponential{Rate: p.Rate, Src: rng}.Rand()
}

// LogDensity evaluates the Exponential log density at x.
func (p Exponential) LogDensity(x float64) float64 {
	return distuv.Exponential{Rate: p.Rate}.LogProb(x)
}
