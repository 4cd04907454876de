// Package rng provides the seeded pseudo-random stream that drives every
// run. The generator is a 32-bit linear congruential generator so that a
// given seed yields the same draws on every platform.
package rng

import "github.com/copyleftdev/labbench/internal/optimization"

const (
	multiplier = 1664525
	increment  = 1013904223
	modulus    = 1 << 32
)

// LCG is a linear congruential generator over a 32-bit unsigned state.
// It is not safe for concurrent use; every run owns its own stream.
type LCG struct {
	state uint32
}

// New seeds a stream. The state is seed mod 2^32 plus one so that seed 0
// does not start from a zero state.
func New(seed int64) *LCG {
	return &LCG{state: uint32(seed) + 1}
}

// Next advances the stream and returns a draw in [0,1).
func (g *LCG) Next() float64 {
	g.state = multiplier*g.state + increment
	return float64(g.state) / modulus
}

// Uniform returns a draw in [lo,hi).
func (g *LCG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*g.Next()
}

// Point draws x then y uniformly within b.
func (g *LCG) Point(b optimization.Bounds) optimization.Point {
	x := g.Uniform(b.XMin, b.XMax)
	y := g.Uniform(b.YMin, b.YMax)
	return optimization.Point{X: x, Y: y}
}

// State exposes the current 32-bit state.
func (g *LCG) State() uint32 {
	return g.state
}
