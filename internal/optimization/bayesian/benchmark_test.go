package bayesian

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/kernels"
	"github.com/copyleftdev/labbench/internal/optimization/objective"
)

func benchmarkData(n int) ([]optimization.Point, []float64) {
	rng := rand.New(rand.NewSource(42))
	points := make([]optimization.Point, n)
	values := make([]float64, n)
	for i := range points {
		points[i] = optimization.Point{X: -5 + 15*rng.Float64(), Y: 15 * rng.Float64()}
		values[i] = objective.BraninObjective(points[i])
	}
	return points, values
}

// BenchmarkGPFit measures fitting a surrogate on a full-size history
func BenchmarkGPFit(b *testing.B) {
	points, values := benchmarkData(30)
	gp := NewGP(kernels.NewDefaultRBFKernel(), optimization.DefaultNoise, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gp.Fit(points, values)
	}
}

// BenchmarkGPPredict measures one candidate-pool scoring pass
func BenchmarkGPPredict(b *testing.B) {
	points, values := benchmarkData(30)
	model := Fit(points, values, optimization.DefaultNoise)
	queries, _ := benchmarkData(optimization.DefaultCandidatePool)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, q := range queries {
			_ = model.Predict(q)
		}
	}
}

// BenchmarkBayesianOptimizer measures a complete 30-evaluation run
func BenchmarkBayesianOptimizer(b *testing.B) {
	logger := zap.NewNop()
	if testing.Verbose() {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		var err error
		logger, err = cfg.Build()
		require.NoError(b, err)
	}

	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, logger)
	cfg := optimization.OptimizerConfig{
		Objective:  objective.BraninObjective,
		Bounds:     optimization.DefaultBounds,
		Iterations: 30,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cfg.Seed = int64(i)
		_, err := bo.Optimize(context.Background(), cfg)
		require.NoError(b, err)
	}
}
