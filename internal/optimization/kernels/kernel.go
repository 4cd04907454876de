// Package kernels provides the covariance functions of the GP surrogate.
package kernels

import (
	"fmt"
	"math"

	"github.com/copyleftdev/labbench/internal/optimization"
)

// Fixed hyperparameters of the surrogate kernel.
const (
	DefaultLengthScale = 2.0
	DefaultSigma       = 1.0
)

// Kernel represents a covariance function between two points of the
// search space
type Kernel interface {
	// Eval computes the kernel value between p and q
	Eval(p, q optimization.Point) float64
}

// RBFKernel implements the isotropic Radial Basis Function (squared
// exponential) kernel k(p,q) = σ²·exp(-‖p-q‖²/(2ℓ²))
type RBFKernel struct {
	// Length scale parameter (larger = smoother function)
	lengthScale float64
	// Signal standard deviation σ
	sigma float64
}

// NewRBFKernel creates a new RBF kernel with the given parameters
func NewRBFKernel(lengthScale, sigma float64) *RBFKernel {
	if lengthScale <= 0 {
		panic(fmt.Sprintf("lengthScale must be positive, got %v", lengthScale))
	}
	if sigma <= 0 {
		panic(fmt.Sprintf("sigma must be positive, got %v", sigma))
	}
	return &RBFKernel{
		lengthScale: lengthScale,
		sigma:       sigma,
	}
}

// NewDefaultRBFKernel returns the RBF kernel with ℓ=2 and σ=1.
func NewDefaultRBFKernel() *RBFKernel {
	return NewRBFKernel(DefaultLengthScale, DefaultSigma)
}

// Eval computes the RBF kernel value between p and q
func (k *RBFKernel) Eval(p, q optimization.Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	d2 := dx*dx + dy*dy
	return k.sigma * k.sigma * math.Exp(-0.5*d2/(k.lengthScale*k.lengthScale))
}

// LengthScale returns ℓ.
func (k *RBFKernel) LengthScale() float64 { return k.lengthScale }

// Sigma returns σ.
func (k *RBFKernel) Sigma() float64 { return k.sigma }
