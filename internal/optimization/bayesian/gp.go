package bayesian

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/kernels"
	"github.com/copyleftdev/labbench/internal/optimization/linalg"
)

const (
	// predictJitter is added to the prior variance k(q,q) at query time
	predictJitter = 1e-8
	// VarianceFloor is the smallest variance Predict ever returns
	VarianceFloor = 1e-10
)

// GP implements a zero-mean Gaussian Process regression model
type GP struct {
	// Kernel function
	kernel kernels.Kernel

	// Noise variance added to the Gram diagonal
	noiseVar float64

	// Logger for structured logging
	logger *zap.Logger
}

// Model is the read-only snapshot produced by a fit: the training points,
// the inverted Gram matrix K⁻¹ and the coefficients α = K⁻¹·y. It is rebuilt
// from scratch on every fit and is not safe for concurrent use because
// predictions share scratch vectors.
type Model struct {
	kernel kernels.Kernel
	points []optimization.Point
	kInv   *mat.Dense
	alpha  *mat.VecDense

	// scratch vectors reused across Predict calls
	pool *VecPool
}

// NewGP creates a new Gaussian Process model. A nil logger disables logging.
func NewGP(kernel kernels.Kernel, noiseVar float64, logger *zap.Logger) *GP {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GP{
		kernel:   kernel,
		noiseVar: noiseVar,
		logger:   logger.Named("gaussian_process"),
	}
}

// Fit fits a GP with the default RBF kernel and no logging.
func Fit(points []optimization.Point, values []float64, noise float64) *Model {
	return NewGP(kernels.NewDefaultRBFKernel(), noise, nil).Fit(points, values)
}

// Fit builds the Gram matrix of points, inverts it and solves for α.
//
// points and values must be non-empty and of equal length; violating this is
// a programming error and panics.
func (gp *GP) Fit(points []optimization.Point, values []float64) *Model {
	const op = "GP.Fit"

	n := len(points)
	if n == 0 || n != len(values) {
		panic(optimization.NewErrorf("need matching non-empty points and values, got %d points and %d values",
			n, len(values)).WithOperation(op).WithComponent("gaussian_process"))
	}

	gp.logger.Debug("Fitting GP model",
		zap.Int("samples", n),
		zap.Float64("noise_var", gp.noiseVar),
	)

	K := gp.computeKernelMatrix(points)
	kInv := linalg.Invert(K)
	alpha := linalg.MatVec(kInv, mat.NewVecDense(n, append([]float64(nil), values...)))

	return &Model{
		kernel: gp.kernel,
		points: append([]optimization.Point(nil), points...),
		kInv:   kInv,
		alpha:  alpha,
		pool:   NewVecPool(),
	}
}

// computeKernelMatrix computes K[i][j] = k(p_i, p_j) + noise·δij
func (gp *GP) computeKernelMatrix(points []optimization.Point) *mat.SymDense {
	n := len(points)
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := gp.kernel.Eval(points[i], points[j])
			if i == j {
				v += gp.noiseVar
			}
			K.SetSym(i, j, v)
		}
	}
	return K
}

// Len returns the number of training points.
func (m *Model) Len() int {
	return len(m.points)
}

// Alpha returns a copy of the coefficient vector α.
func (m *Model) Alpha() []float64 {
	return mat.Col(nil, 0, m.alpha)
}

// Predict returns the posterior mean and variance at q. The variance is
// floored at VarianceFloor, which also replaces any non-finite value.
func (m *Model) Predict(q optimization.Point) optimization.Prediction {
	n := len(m.points)

	k := m.pool.Get(n)
	defer m.pool.Put(k)
	for i, p := range m.points {
		k.SetVec(i, m.kernel.Eval(q, p))
	}

	mean := linalg.Dot(k, m.alpha)

	v := m.pool.Get(n)
	defer m.pool.Put(v)
	v.MulVec(m.kInv, k)

	variance := m.kernel.Eval(q, q) + predictJitter - linalg.Dot(k, v)
	if math.IsNaN(variance) || math.IsInf(variance, 0) || variance < VarianceFloor {
		variance = VarianceFloor
	}

	return optimization.Prediction{Mean: mean, Variance: variance}
}
