package bayesian

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/labbench/internal/optimization"
	"github.com/copyleftdev/labbench/internal/optimization/acquisition"
	"github.com/copyleftdev/labbench/internal/optimization/objective"
	"github.com/copyleftdev/labbench/internal/optimization/rng"
)

func braninConfig(iterations int, seed int64) optimization.OptimizerConfig {
	return optimization.OptimizerConfig{
		Objective:  objective.BraninObjective,
		Bounds:     optimization.DefaultBounds,
		Iterations: iterations,
		Seed:       seed,
	}
}

func TestNewBayesianOptimizerDefaults(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	require.NotNil(t, bo)

	assert.Equal(t, optimization.StrategyGPLCB, bo.Strategy())
	assert.Equal(t, optimization.DefaultWarmUp, bo.config.WarmUp)
	assert.Equal(t, optimization.DefaultCandidatePool, bo.config.CandidatePool)
	assert.Equal(t, optimization.DefaultKappa, bo.config.Kappa)
	assert.Equal(t, optimization.DefaultNoise, bo.config.Noise)
	assert.Equal(t, optimization.AcquisitionLCB, bo.config.Acquisition)
	assert.NotNil(t, bo.kernel)
}

func TestBayesianOptimizerBudget(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)

	for _, iterations := range []int{1, 3, 5, 6, 12} {
		result, err := bo.Optimize(context.Background(), braninConfig(iterations, 1))
		require.NoError(t, err)
		require.Len(t, result.History, iterations)
		require.Len(t, result.BestSoFar, iterations)

		for i, e := range result.History {
			assert.Equal(t, i, e.Iteration, "history should be in order")
			assert.Equal(t, objective.BraninObjective(e.Point), e.Value)
		}
	}
}

func TestBayesianOptimizerWarmUpMatchesUniformDraws(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	result, err := bo.Optimize(context.Background(), braninConfig(8, 0))
	require.NoError(t, err)

	stream := rng.New(0)
	for i := 0; i < optimization.DefaultWarmUp; i++ {
		assert.Equal(t, stream.Point(optimization.DefaultBounds), result.History[i].Point)
	}

	assert.InDelta(t, -1.4531671209260821, result.History[0].Point.X, 1e-12)
	assert.InDelta(t, 5.539060105802491, result.History[0].Point.Y, 1e-12)
	assert.InDelta(t, 0.557964479085058, result.History[5].Point.X, 1e-9)
	assert.InDelta(t, 4.365568648790941, result.History[5].Point.Y, 1e-9)
}

func TestBayesianOptimizerGuidedPointIsPoolArgmin(t *testing.T) {
	cfg := braninConfig(6, 11).WithDefaults()
	bo := NewBayesianOptimizer(cfg, nil)
	result, err := bo.Optimize(context.Background(), cfg)
	require.NoError(t, err)

	// Replay the stream: five warm-up draws, then the candidate pool.
	stream := rng.New(11)
	for i := 0; i < cfg.WarmUp; i++ {
		stream.Point(cfg.Bounds)
	}
	model := Fit(result.History[:cfg.WarmUp].Points(), result.History[:cfg.WarmUp].Values(), cfg.Noise)
	lcb := acquisition.NewLowerConfidenceBound(cfg.Kappa)

	best := math.Inf(1)
	var want optimization.Point
	for i := 0; i < cfg.CandidatePool; i++ {
		p := stream.Point(cfg.Bounds)
		if s := lcb.Score(model.Predict(p)); s < best {
			best, want = s, p
		}
	}
	assert.Equal(t, want, result.History[5].Point)
}

func TestBayesianOptimizerDeterministic(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)

	a, err := bo.Optimize(context.Background(), braninConfig(15, 42))
	require.NoError(t, err)
	b, err := bo.Optimize(context.Background(), braninConfig(15, 42))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := bo.Optimize(context.Background(), braninConfig(15, 43))
	require.NoError(t, err)
	assert.NotEqual(t, a.History, c.History)
}

func TestBayesianOptimizerFindsBraninMinimum(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	result, err := bo.Optimize(context.Background(), braninConfig(30, 0))
	require.NoError(t, err)

	best, ok := result.Best()
	require.True(t, ok)
	assert.Less(t, best.Value, 1.0)
	assert.Equal(t, best.Value, result.FinalBest())
}

func TestBayesianOptimizerRespectsBounds(t *testing.T) {
	cfg := braninConfig(12, 3)
	cfg.Bounds = optimization.Bounds{XMin: -4, XMax: 0, YMin: 8, YMax: 14}

	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	result, err := bo.Optimize(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.Bounds, result.Bounds)

	for _, e := range result.History {
		assert.GreaterOrEqual(t, e.Point.X, -4.0)
		assert.Less(t, e.Point.X, 0.0)
		assert.GreaterOrEqual(t, e.Point.Y, 8.0)
		assert.Less(t, e.Point.Y, 14.0)
	}
}

func TestBayesianOptimizerDegenerateBounds(t *testing.T) {
	cfg := braninConfig(7, 2)
	cfg.Bounds = optimization.Bounds{XMin: 1, XMax: 1, YMin: 3, YMax: 3}

	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	result, err := bo.Optimize(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, optimization.DefaultBounds, result.Bounds)
	assert.Len(t, result.History, 7)
}

func TestBayesianOptimizerExpectedImprovement(t *testing.T) {
	cfg := braninConfig(20, 4)
	cfg.Acquisition = optimization.AcquisitionEI

	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)
	result, err := bo.Optimize(context.Background(), cfg)
	require.NoError(t, err)
	assert.Len(t, result.History, 20)

	lcb, err := bo.Optimize(context.Background(), braninConfig(20, 4))
	require.NoError(t, err)
	// Warm-up is shared, guided points differ
	assert.Equal(t, lcb.History[:5], result.History[:5])
	assert.NotEqual(t, lcb.History[5:], result.History[5:])
}

func TestBayesianOptimizerErrors(t *testing.T) {
	bo := NewBayesianOptimizer(optimization.OptimizerConfig{}, nil)

	_, err := bo.Optimize(context.Background(), braninConfig(0, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, optimization.ErrInvalidInput)

	_, err = bo.Optimize(context.Background(), optimization.OptimizerConfig{})
	require.Error(t, err, "no objective configured")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := bo.Optimize(ctx, braninConfig(10, 1))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, result)
}

type constantScore struct{ value float64 }

func (c constantScore) Score(optimization.Prediction) float64 { return c.value }

func TestSelectCandidateTieBreak(t *testing.T) {
	model := Fit([]optimization.Point{{X: 0, Y: 0}}, []float64{1}, optimization.DefaultNoise)
	b := optimization.DefaultBounds

	// Every candidate ties: the first draw wins
	got, score := selectCandidate(model, constantScore{value: 1}, rng.New(9), b, 50)
	assert.Equal(t, rng.New(9).Point(b), got)
	assert.Equal(t, 1.0, score)

	// No candidate beats +Inf: fall back to the first draw
	got, _ = selectCandidate(model, constantScore{value: math.NaN()}, rng.New(9), b, 50)
	assert.Equal(t, rng.New(9).Point(b), got)

	// The stream always advances by the full pool
	stream := rng.New(9)
	selectCandidate(model, constantScore{value: 1}, stream, b, 50)
	ref := rng.New(9)
	for i := 0; i < 50; i++ {
		ref.Point(b)
	}
	assert.Equal(t, ref.State(), stream.State())
}
