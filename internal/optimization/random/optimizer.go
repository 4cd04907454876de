// Package random implements the pure random-sampling baseline.
package random

import (
	"context"

	"go.uber.org/zap"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/rng"
)

// Optimizer draws every point uniformly at random within the bounds.
type Optimizer struct {
	config optimization.OptimizerConfig
	logger *zap.Logger
}

// NewOptimizer creates a random-search optimizer
func NewOptimizer(config optimization.OptimizerConfig, logger *zap.Logger) *Optimizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimizer{config: config, logger: logger.Named("random")}
}

// Strategy implements optimization.Optimizer.
func (o *Optimizer) Strategy() optimization.Strategy {
	return optimization.StrategyRandom
}

// Optimize evaluates config.Iterations independent uniform points.
func (o *Optimizer) Optimize(ctx context.Context, config optimization.OptimizerConfig) (*optimization.RunResult, error) {
	cfg := o.config
	if config.Objective != nil {
		cfg = config
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
	for i := 0; i < cfg.Iterations; i++ {
		p := stream.Point(bounds)
		history.Append(p, cfg.Objective(p))
	}

	result := optimization.NewRunResult(optimization.StrategyRandom, cfg.Seed, bounds, history)
	o.logger.Debug("Random run finished",
		zap.Int("iterations", cfg.Iterations),
		zap.Int64("seed", cfg.Seed),
		zap.Float64("best", result.FinalBest()),
	)
	return result, nil
}
