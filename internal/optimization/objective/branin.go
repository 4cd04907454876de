// Package objective holds the benchmark functions the optimizers minimize.
package objective

import (
	"math"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// Branin constants.
const (
	braninA = 1.0
	braninB = 5.1 / (4 * math.Pi * math.Pi)
	braninC = 5 / math.Pi
	braninR = 6.0
	braninS = 10.0
	braninT = 1 / (8 * math.Pi)
)

// GlobalMinimum is the minimal value of the Branin function.
const GlobalMinimum = 0.39788735772973816

// Minimizers returns the three global minimizers of the Branin function.
func Minimizers() []optimization.Point {
	return []optimization.Point{
		{X: -math.Pi, Y: 12.275},
		{X: math.Pi, Y: 2.275},
		{X: 9.42478, Y: 2.475},
	}
}

// Branin evaluates the Branin-Hoo function at (x, y).
func Branin(x, y float64) float64 {
	t := float64(braninT)
	q := y - braninB*x*x + braninC*x - braninR
	return braninA*q*q + braninS*(1-t)*math.Cos(x) + braninS
}

// BraninObjective adapts Branin to the optimizer's objective signature.
func BraninObjective(p optimization.Point) float64 {
	return Branin(p.X, p.Y)
}
