// Package linalg holds the dense linear algebra used by the GP surrogate.
package linalg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// pivotTolerance is the pivot magnitude below which the diagonal is
	// nudged by pivotJitter.
	pivotTolerance = 1e-12
	pivotJitter    = 1e-6
	// eliminationSkip is the factor magnitude below which a row is left
	// untouched during elimination.
	eliminationSkip = 1e-14
)

// Invert returns the inverse of the square matrix a using Gauss-Jordan
// elimination with partial pivoting.
//
// When the largest available pivot is smaller than 1e-12, 1e-6 is added to
// the diagonal entry of the current row and elimination continues with it.
// Results for genuinely singular input are undefined.
//
// Invert panics if a is not square.
func Invert(a mat.Matrix) *mat.Dense {
	r, c := a.Dims()
	if r != c {
		panic(mat.ErrShape)
	}
	n := r

	m := make([][]float64, n)
	inv := make([][]float64, n)
	for i := 0; i < n; i++ {
		m[i] = make([]float64, n)
		inv[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			m[i][j] = a.At(i, j)
		}
		inv[i][i] = 1
	}

	for i := 0; i < n; i++ {
		pivot := m[i][i]
		pivotRow := i
		for r := i + 1; r < n; r++ {
			if math.Abs(m[r][i]) > math.Abs(pivot) {
				pivot = m[r][i]
				pivotRow = r
			}
		}
		if math.Abs(pivot) < pivotTolerance {
			m[i][i] += pivotJitter
			pivot = m[i][i]
		}
		if pivotRow != i {
			m[i], m[pivotRow] = m[pivotRow], m[i]
			inv[i], inv[pivotRow] = inv[pivotRow], inv[i]
		}

		scale := 1.0 / pivot
		for j := 0; j < n; j++ {
			m[i][j] *= scale
			inv[i][j] *= scale
		}

		for r := 0; r < n; r++ {
			if r == i {
				continue
			}
			factor := m[r][i]
			if math.Abs(factor) < eliminationSkip {
				continue
			}
			for j := 0; j < n; j++ {
				m[r][j] -= factor * m[i][j]
				inv[r][j] -= factor * inv[i][j]
			}
		}
	}

	out := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		out.SetRow(i, inv[i])
	}
	return out
}

// MatVec returns a·x.
func MatVec(a mat.Matrix, x mat.Vector) *mat.VecDense {
	r, _ := a.Dims()
	out := mat.NewVecDense(r, nil)
	out.MulVec(a, x)
	return out
}

// Dot returns the inner product of a and b.
func Dot(a, b mat.Vector) float64 {
	return mat.Dot(a, b)
}
