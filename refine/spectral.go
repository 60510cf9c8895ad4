package refine

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// eigenFloor is the smallest eigenvalue magnitude kept, relative to the
// largest one (and never below the absolute floor itself).
const eigenFloor = 1e-8

// spectral replaces a Hessian by V·diag(max(|λ|, floor))·Vᵀ. Negative
// curvature directions are flipped instead of being damped by a diagonal
// shift, so the matrix handed to Newton is always positive definite and its
// Cholesky factorization succeeds on the first try.
type spectral struct {
	hess func(*mat.SymDense, []float64)

	eig  mat.EigenSym
	vecs mat.Dense
	vals []float64
}

// Hess evaluates the wrapped Hessian at x into h and modifies it in place.
// If the eigendecomposition fails h is left unmodified and Newton falls
// back to its own identity shift.
func (s *spectral) Hess(h *mat.SymDense, x []float64) {
	s.hess(h, x)
	if !s.eig.Factorize(h, true) {
		return
	}
	s.vals = s.eig.Values(s.vals)
	s.eig.VectorsTo(&s.vecs)

	// 1) Floor relative to the spectral radius.
	scale := 1.0
	for _, v := range s.vals {
		scale = math.Max(scale, math.Abs(v))
	}
	floor := eigenFloor * scale

	// 2) Reassemble from rank-one terms.
	h.Zero()
	for k, v := range s.vals {
		h.SymRankOne(h, math.Max(math.Abs(v), floor), s.vecs.ColView(k))
	}
}
