package bayesian

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/acquisition"
	"github.com/copyleftdev/labbench/internal/optimization/kernels"
	"github.com/copyleftdev/labbench/internal/optimization/rng"
)

// eiXi is the exploration margin of the expected-improvement rule
const eiXi = 0.01

// BayesianOptimizer implements the GP-LCB search: a uniform warm-up followed
// by surrogate-guided candidate selection. It holds no per-run state, so a
// single instance may serve concurrent runs.
type BayesianOptimizer struct {
	// Default configuration used when Optimize is given no objective
	config optimization.OptimizerConfig

	// Surrogate kernel
	kernel kernels.Kernel

	logger *zap.Logger
}

// NewBayesianOptimizer creates a new GP-LCB optimizer
func NewBayesianOptimizer(config optimization.OptimizerConfig, logger *zap.Logger) *BayesianOptimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BayesianOptimizer{
		config: config.WithDefaults(),
		kernel: kernels.NewDefaultRBFKernel(),
		logger: logger.Named("gp_lcb"),
	}
}

// Strategy implements optimization.Optimizer.
func (bo *BayesianOptimizer) Strategy() optimization.Strategy {
	return optimization.StrategyGPLCB
}

// Optimize runs exactly config.Iterations evaluations. The first
// min(WarmUp, Iterations) points are uniform draws; every later point is the
// best-scoring of CandidatePool uniform candidates under a GP refit on the
// whole history.
func (bo *BayesianOptimizer) Optimize(ctx context.Context, config optimization.OptimizerConfig) (*optimization.RunResult, error) {
	// Update config if provided
	cfg := bo.config
	if config.Objective != nil {
		cfg = config.WithDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := cfg.Bounds
	if !bounds.Valid() {
		bounds = bounds.Sanitize()
	}

	stream := rng.New(cfg.Seed)
	history := make(optimization.History, 0, cfg.Iterations)
	gp := NewGP(bo.kernel, cfg.Noise, bo.logger)

	warmUp := min(cfg.WarmUp, cfg.Iterations)
	for i := 0; i < warmUp; i++ {
		p := stream.Point(bounds)
		history.Append(p, cfg.Objective(p))
	}

	for t := warmUp; t < cfg.Iterations; t++ {
		model := gp.Fit(history.Points(), history.Values())
		acq := bo.acquisitionFor(cfg, history)

		next, score := selectCandidate(model, acq, stream, bounds, cfg.CandidatePool)
		value := cfg.Objective(next)
		history.Append(next, value)

		bo.logger.Debug("Guided evaluation",
			zap.Int("iteration", t),
			zap.Float64("x", next.X),
			zap.Float64("y", next.Y),
			zap.Float64("acquisition", score),
			zap.Float64("value", value),
		)
	}

	result := optimization.NewRunResult(optimization.StrategyGPLCB, cfg.Seed, bounds, history)
	bo.logger.Debug("GP-LCB run finished",
		zap.Int("iterations", cfg.Iterations),
		zap.Int64("seed", cfg.Seed),
		zap.Float64("best", result.FinalBest()),
	)
	return result, nil
}

func (bo *BayesianOptimizer) acquisitionFor(cfg optimization.OptimizerConfig, history optimization.History) acquisition.Function {
	if cfg.Acquisition == optimization.AcquisitionEI {
		best := math.Inf(1)
		for _, e := range history {
			best = math.Min(best, e.Value)
		}
		return acquisition.NewExpectedImprovement(best, eiXi)
	}
	return acquisition.NewLowerConfidenceBound(cfg.Kappa)
}

// selectCandidate draws n candidates and returns the one with the strictly
// smallest score, so the earliest draw wins ties. All candidates are drawn
// even after a winner is known to keep the stream position independent of
// the scores. If no score beats +Inf (all NaN) the first candidate is used.
func selectCandidate(model *Model, acq acquisition.Function, stream *rng.LCG, bounds optimization.Bounds, n int) (optimization.Point, float64) {
	bestScore := math.Inf(1)
	var best, first optimization.Point
	found := false

	for i := 0; i < n; i++ {
		p := stream.Point(bounds)
		if i == 0 {
			first = p
		}
		score := acq.Score(model.Predict(p))
		if score < bestScore {
			bestScore = score
			best = p
			found = true
		}
	}

	if !found {
		return first, bestScore
	}
	return best, bestScore
}
