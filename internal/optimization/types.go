package optimization

import (
	"fmt"
	"math"
	"strings"
)

// MinBoundsWidth is the narrowest interval a Bounds axis may have before it
// is replaced by the default domain.
const MinBoundsWidth = 1e-6

// Point is a location in the 2-D search space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned rectangle [XMin,XMax] x [YMin,YMax].
type Bounds struct {
	XMin float64 `json:"x_min"`
	XMax float64 `json:"x_max"`
	YMin float64 `json:"y_min"`
	YMax float64 `json:"y_max"`
}

// DefaultBounds is the Branin domain x in [-5,10], y in [0,15].
var DefaultBounds = Bounds{XMin: -5, XMax: 10, YMin: 0, YMax: 15}

// Valid reports whether both intervals are finite, ordered and wider than
// MinBoundsWidth.
func (b Bounds) Valid() bool {
	return validAxis(b.XMin, b.XMax) && validAxis(b.YMin, b.YMax)
}

// Sanitize returns a rectangle that is safe to sample from. Endpoints are
// clamped to the default domain and ordered; an axis that is non-finite or
// narrower than MinBoundsWidth falls back to the default axis.
func (b Bounds) Sanitize() Bounds {
	xMin, xMax := sanitizeAxis(b.XMin, b.XMax, DefaultBounds.XMin, DefaultBounds.XMax)
	yMin, yMax := sanitizeAxis(b.YMin, b.YMax, DefaultBounds.YMin, DefaultBounds.YMax)
	return Bounds{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

// IsZero reports whether b is the zero rectangle, which callers use to mean
// "not supplied".
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

func (b Bounds) String() string {
	return fmt.Sprintf("x in [%g, %g], y in [%g, %g]", b.XMin, b.XMax, b.YMin, b.YMax)
}

func validAxis(lo, hi float64) bool {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return false
	}
	return hi-lo > MinBoundsWidth
}

func sanitizeAxis(lo, hi, defLo, defHi float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return defLo, defHi
	}
	lo = math.Min(math.Max(lo, defLo), defHi)
	hi = math.Min(math.Max(hi, defLo), defHi)
	if lo > hi {
		lo, hi = hi, lo
	}
	if math.Abs(hi-lo) < MinBoundsWidth {
		return defLo, defHi
	}
	return lo, hi
}

// Evaluation is one observed (point, value) pair of a run.
type Evaluation struct {
	Iteration int     `json:"iteration"`
	Point     Point   `json:"point"`
	Value     float64 `json:"value"`
}

// History is the ordered, append-only record of a run's evaluations.
type History []Evaluation

// Append records an evaluation at the next iteration index.
func (h *History) Append(p Point, value float64) {
	*h = append(*h, Evaluation{Iteration: len(*h), Point: p, Value: value})
}

// Points returns the evaluated points in iteration order.
func (h History) Points() []Point {
	out := make([]Point, len(h))
	for i, e := range h {
		out[i] = e.Point
	}
	return out
}

// Values returns the observed values in iteration order.
func (h History) Values() []float64 {
	out := make([]float64, len(h))
	for i, e := range h {
		out[i] = e.Value
	}
	return out
}

// BestSoFar returns the running minimum of the observed values.
func (h History) BestSoFar() []float64 {
	out := make([]float64, len(h))
	best := math.Inf(1)
	for i, e := range h {
		best = math.Min(best, e.Value)
		out[i] = best
	}
	return out
}

// Strategy selects the search loop of a run.
type Strategy string

const (
	// StrategyRandom samples uniformly at random.
	StrategyRandom Strategy = "random"
	// StrategyGPLCB is the surrogate-guided search.
	StrategyGPLCB Strategy = "gp_lcb"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyRandom, StrategyGPLCB}

// ParseStrategy maps a user-supplied name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "random", "rand":
		return StrategyRandom, nil
	case "gp_lcb", "gp-lcb", "gplcb", "gp", "bo", "lcb":
		return StrategyGPLCB, nil
	default:
		return "", InvalidInputf("unknown strategy %q", s).WithOperation("ParseStrategy")
	}
}

// RunResult is the outcome of one run.
type RunResult struct {
	Strategy  Strategy  `json:"strategy"`
	Seed      int64     `json:"seed"`
	Bounds    Bounds    `json:"bounds"`
	History   History   `json:"history"`
	BestSoFar []float64 `json:"best_so_far"`
}

// NewRunResult derives the best-so-far sequence from h.
func NewRunResult(strategy Strategy, seed int64, bounds Bounds, h History) *RunResult {
	return &RunResult{
		Strategy:  strategy,
		Seed:      seed,
		Bounds:    bounds,
		History:   h,
		BestSoFar: h.BestSoFar(),
	}
}

// Best returns the first evaluation holding the minimal value. ok is false
// for an empty history.
func (r *RunResult) Best() (best Evaluation, ok bool) {
	for i, e := range r.History {
		if i == 0 || e.Value < best.Value {
			best = e
		}
	}
	return best, len(r.History) > 0
}

// Values returns the observed values in iteration order.
func (r *RunResult) Values() []float64 { return r.History.Values() }

// Points returns the evaluated points in iteration order.
func (r *RunResult) Points() []Point { return r.History.Points() }

// FinalBest returns the last best-so-far entry, +Inf for an empty run.
func (r *RunResult) FinalBest() float64 {
	if len(r.BestSoFar) == 0 {
		return math.Inf(1)
	}
	return r.BestSoFar[len(r.BestSoFar)-1]
}

// Prediction is the surrogate's posterior mean and variance at a point.
type Prediction struct {
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
}
