// Package runner is the entry point into the optimization core. It validates
// a run request at the boundary, picks the strategy and returns the full
// evaluation history with its best-so-far sequence.
package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/bayesian"
	"github.com/copyleftdev/labbench/internal/optimization/objective"
	"github.com/copyleftdev/labbench/internal/optimization/random"
)

// Request describes one run.
type Request struct {
	Strategy   optimization.Strategy
	Iterations int
	Seed       int64
	// Bounds of the sampling rectangle; the zero value means the default
	// domain and degenerate rectangles are replaced axis by axis.
	Bounds optimization.Bounds

	// Optional overrides of the guided-search tuning
	Acquisition   optimization.AcquisitionKind
	CandidatePool int
	Kappa         float64
}

// Runner executes run requests. It is safe for concurrent use: every run
// builds its own RNG and history.
type Runner struct {
	defaults  optimization.OptimizerConfig
	objective optimization.ObjectiveFunction
	logger    *zap.Logger

	optimizers map[optimization.Strategy]optimization.Optimizer
}

// New creates a Runner over the Branin objective. defaults supplies the
// guided-search tuning used when a request leaves it unset.
func New(defaults optimization.OptimizerConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults = defaults.WithDefaults()
	defaults.Objective = objective.BraninObjective

	r := &Runner{
		defaults:  defaults,
		objective: objective.BraninObjective,
		logger:    logger.Named("runner"),
	}
	r.optimizers = map[optimization.Strategy]optimization.Optimizer{
		optimization.StrategyRandom: random.NewOptimizer(defaults, logger),
		optimization.StrategyGPLCB:  bayesian.NewBayesianOptimizer(defaults, logger),
	}
	return r
}

// Run executes req. Errors are returned only for contract violations
// (non-positive iterations, unknown strategy) and for a context that is
// already done before the run starts.
func (r *Runner) Run(ctx context.Context, req Request) (*optimization.RunResult, error) {
	const op = "Runner.Run"

	opt, ok := r.optimizers[req.Strategy]
	if !ok {
		return nil, optimization.InvalidInputf("unknown strategy %q", req.Strategy).
			WithOperation(op).WithComponent("runner")
	}
	if req.Iterations <= 0 {
		return nil, optimization.InvalidInputf("iterations must be positive, got %d", req.Iterations).
			WithOperation(op).WithComponent("runner")
	}

	cfg := r.configFor(req)

	start := time.Now()
	result, err := opt.Optimize(ctx, cfg)
	if err != nil {
		return nil, err
	}

	best, _ := result.Best()
	r.logger.Info("Run completed",
		zap.String("strategy", string(req.Strategy)),
		zap.Int("iterations", req.Iterations),
		zap.Int64("seed", req.Seed),
		zap.Stringer("bounds", cfg.Bounds),
		zap.Float64("best_value", best.Value),
		zap.Float64("best_x", best.Point.X),
		zap.Float64("best_y", best.Point.Y),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (r *Runner) configFor(req Request) optimization.OptimizerConfig {
	cfg := r.defaults
	cfg.Iterations = req.Iterations
	cfg.Seed = req.Seed
	cfg.Bounds = SanitizeBounds(req.Bounds)
	if req.Acquisition != "" {
		cfg.Acquisition = req.Acquisition
	}
	if req.CandidatePool > 0 {
		cfg.CandidatePool = req.CandidatePool
	}
	if req.Kappa > 0 {
		cfg.Kappa = req.Kappa
	}
	return cfg
}

// SanitizeBounds maps caller-supplied bounds onto a usable rectangle: the
// zero value becomes the default domain, anything else goes through
// Bounds.Sanitize.
func SanitizeBounds(b optimization.Bounds) optimization.Bounds {
	if b.IsZero() {
		return optimization.DefaultBounds
	}
	return b.Sanitize()
}

// CompareRequest runs both strategies on each seed.
type CompareRequest struct {
	Iterations int
	Seeds      []int64
	Bounds     optimization.Bounds
}

// Trial is the outcome of both strategies on one seed.
type Trial struct {
	Seed       int64                   `json:"seed"`
	RandomBest optimization.Evaluation `json:"random_best"`
	GuidedBest optimization.Evaluation `json:"guided_best"`
}

// GuidedWon reports whether the guided search did at least as well.
func (t Trial) GuidedWon() bool {
	return t.GuidedBest.Value <= t.RandomBest.Value
}

// CompareReport summarizes a comparison.
type CompareReport struct {
	Iterations   int                 `json:"iterations"`
	Bounds       optimization.Bounds `json:"bounds"`
	Trials       []Trial             `json:"trials"`
	GuidedWins   int                 `json:"guided_wins"`
	MeanRandom   float64             `json:"mean_random_best"`
	MeanGuided   float64             `json:"mean_guided_best"`
	StdDevRandom float64             `json:"stddev_random_best"`
	StdDevGuided float64             `json:"stddev_guided_best"`
}

// Compare runs random and GP-LCB on every seed of req and reports the final
// best value of each.
func (r *Runner) Compare(ctx context.Context, req CompareRequest) (*CompareReport, error) {
	const op = "Runner.Compare"

	if len(req.Seeds) == 0 {
		return nil, optimization.InvalidInputf("at least one seed is required").
			WithOperation(op).WithComponent("runner")
	}

	report := &CompareReport{
		Iterations: req.Iterations,
		Bounds:     SanitizeBounds(req.Bounds),
		Trials:     make([]Trial, 0, len(req.Seeds)),
	}
	randomBests := make([]float64, 0, len(req.Seeds))
	guidedBests := make([]float64, 0, len(req.Seeds))

	for _, seed := range req.Seeds {
		trial := Trial{Seed: seed}
		for _, strategy := range optimization.Strategies {
			res, err := r.Run(ctx, Request{
				Strategy:   strategy,
				Iterations: req.Iterations,
				Seed:       seed,
				Bounds:     req.Bounds,
			})
			if err != nil {
				return nil, optimization.WrapErrorf(err, "seed %d", seed).WithOperation(op).WithComponent("runner")
			}
			best, _ := res.Best()
			if strategy == optimization.StrategyRandom {
				trial.RandomBest = best
			} else {
				trial.GuidedBest = best
			}
		}

		if trial.GuidedWon() {
			report.GuidedWins++
		}
		randomBests = append(randomBests, trial.RandomBest.Value)
		guidedBests = append(guidedBests, trial.GuidedBest.Value)
		report.Trials = append(report.Trials, trial)
	}

	report.MeanRandom, report.StdDevRandom = stat.MeanStdDev(randomBests, nil)
	report.MeanGuided, report.StdDevGuided = stat.MeanStdDev(guidedBests, nil)
	if len(req.Seeds) == 1 {
		report.StdDevRandom, report.StdDevGuided = 0, 0
	}
	return report, nil
}

// SeedRange returns n consecutive seeds starting at start.
func SeedRange(start int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = start + int64(i)
	}
	return seeds
}
