package acquisition

import (
	"math"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// Function scores a surrogate prediction. Lower scores are better: the
// guided search evaluates the candidate with the smallest score next.
type Function interface {
	Score(p optimization.Prediction) float64
}

// LowerConfidenceBound implements mean - κ·sqrt(variance) for minimization
type LowerConfidenceBound struct {
	// Exploration weight
	Kappa float64
}

// NewLowerConfidenceBound creates an LCB acquisition function with weight kappa
func NewLowerConfidenceBound(kappa float64) *LowerConfidenceBound {
	return &LowerConfidenceBound{Kappa: kappa}
}

// Score returns the lower confidence bound of p
func (l *LowerConfidenceBound) Score(p optimization.Prediction) float64 {
	return p.Mean - l.Kappa*math.Sqrt(p.Variance)
}
