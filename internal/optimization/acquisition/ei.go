package acquisition

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// ExpectedImprovement implements the Expected Improvement acquisition function
// for minimization. Score returns -EI so that, like LCB, lower is better.
type ExpectedImprovement struct {
	// Best observed value so far
	bestObserved float64
	// Exploration-exploitation trade-off parameter (xi)
	xi float64
}

// NewExpectedImprovement creates a new ExpectedImprovement acquisition function
func NewExpectedImprovement(bestObserved, xi float64) *ExpectedImprovement {
	return &ExpectedImprovement{
		bestObserved: bestObserved,
		xi:           xi,
	}
}

// Compute computes the Expected Improvement for a prediction with mean mu
// and standard deviation sigma. The result is never negative.
func (ei *ExpectedImprovement) Compute(mu, sigma float64) float64 {
	improvement := ei.bestObserved - mu - ei.xi

	// Certain prediction: EI collapses to the plain improvement
	if sigma <= 1e-10 {
		return math.Max(improvement, 0)
	}

	z := improvement / sigma
	value := improvement*distuv.UnitNormal.CDF(z) + sigma*distuv.UnitNormal.Prob(z)
	return math.Max(value, 0)
}

// Score implements Function.
func (ei *ExpectedImprovement) Score(p optimization.Prediction) float64 {
	return -ei.Compute(p.Mean, math.Sqrt(p.Variance))
}

// UpdateBest updates the best observed value
func (ei *ExpectedImprovement) UpdateBest(best float64) {
	ei.bestObserved = best
}

// BestObserved returns the best observed value
func (ei *ExpectedImprovement) BestObserved() float64 {
	return ei.bestObserved
}
