package bayesian

import "gonum.org/v1/gonum/mat"

// VecPool keeps reusable vectors so the candidate scoring loop does not
// allocate two vectors per prediction. It is owned by a single Model.
type VecPool struct {
	vecs []*mat.VecDense
}

// NewVecPool creates an empty VecPool
func NewVecPool() *VecPool {
	return &VecPool{vecs: make([]*mat.VecDense, 0, 2)}
}

// Get returns a vector of length n from the pool or creates a new one.
// Its contents are unspecified.
func (p *VecPool) Get(n int) *mat.VecDense {
	for len(p.vecs) > 0 {
		v := p.vecs[len(p.vecs)-1]
		p.vecs = p.vecs[:len(p.vecs)-1]
		if v.Len() == n {
			return v
		}
	}
	return mat.NewVecDense(n, nil)
}

// Put returns a vector to the pool
func (p *VecPool) Put(v *mat.VecDense) {
	p.vecs = append(p.vecs, v)
}
