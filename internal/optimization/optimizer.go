package optimization

import (
	"context"
)

// Optimizer defines the interface for the search strategies
type Optimizer interface {
	// Optimize runs the strategy for config.Iterations evaluations. The
	// context is only consulted before the first evaluation: a run that has
	// started always completes.
	Optimize(ctx context.Context, config OptimizerConfig) (*RunResult, error)

	// Strategy names the search loop
	Strategy() Strategy
}

// ObjectiveFunction is the deterministic function being minimized
type ObjectiveFunction func(Point) float64

// Defaults for the surrogate-guided search.
const (
	DefaultWarmUp        = 5
	DefaultCandidatePool = 600
	DefaultKappa         = 2.0
	DefaultNoise         = 1e-6
)

// AcquisitionKind selects the acquisition rule of the guided search
type AcquisitionKind string

const (
	AcquisitionLCB AcquisitionKind = "lcb"
	AcquisitionEI  AcquisitionKind = "ei"
)

// OptimizerConfig contains configuration for a single run
type OptimizerConfig struct {
	// Objective function to minimize
	Objective ObjectiveFunction

	// Bounds of the sampling rectangle
	Bounds Bounds

	// Total number of objective evaluations (T)
	Iterations int

	// Seed for the deterministic RNG
	Seed int64

	// Number of uniform warm-up points before the surrogate is used
	WarmUp int

	// Number of random candidates scored per guided iteration
	CandidatePool int

	// Exploration weight of the lower confidence bound
	Kappa float64

	// Diagonal noise added to the Gram matrix
	Noise float64

	// Acquisition rule, LCB unless set otherwise
	Acquisition AcquisitionKind
}

// WithDefaults fills zero-valued tuning fields with their defaults.
func (c OptimizerConfig) WithDefaults() OptimizerConfig {
	if c.WarmUp <= 0 {
		c.WarmUp = DefaultWarmUp
	}
	if c.CandidatePool <= 0 {
		c.CandidatePool = DefaultCandidatePool
	}
	if c.Kappa <= 0 {
		c.Kappa = DefaultKappa
	}
	if c.Noise <= 0 {
		c.Noise = DefaultNoise
	}
	if c.Acquisition == "" {
		c.Acquisition = AcquisitionLCB
	}
	return c
}

// Validate checks the structural preconditions of a run.
func (c OptimizerConfig) Validate() error {
	if c.Objective == nil {
		return InvalidInputf("objective function is required").WithOperation("Validate").WithComponent("optimizer")
	}
	if c.Iterations <= 0 {
		return InvalidInputf("iterations must be positive, got %d", c.Iterations).WithOperation("Validate").WithComponent("optimizer")
	}
	switch c.Acquisition {
	case "", AcquisitionLCB, AcquisitionEI:
	default:
		return InvalidInputf("unknown acquisition %q", c.Acquisition).WithOperation("Validate").WithComponent("optimizer")
	}
	return nil
}
