package refine

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/curvex/cost"
)

// penaltyWeight scales the quadratic exterior penalty of the box.
const penaltyWeight = 1e4

// Finite-difference steps for first and second derivatives.
var (
	gradSettings = &fd.Settings{Formula: fd.Central, Step: 1e-7}
	hessSettings = &fd.Settings{Formula: fd.Central, Step: 1e-4}
)

// slot is one free coordinate: a point index and an axis.
type slot struct {
	point, axis int
	lo, hi      float64
}

// term is one energy window of n consecutive points starting at first.
type term struct {
	first, n int
	vars     []int // free variables touched, in point-major order
}

// objective is the energy of a point path as a function of its free
// coordinates, with the box enforced by clamping plus an exterior penalty.
type objective struct {
	model cost.Model
	base  []cost.Vec
	slots []slot
	index [][3]int // point, axis -> variable, or -1
	terms []term
}

// newObjective fixes the first two and last two points and every axis of
// extent one, and frees the rest inside [margin, dim-1-margin].
func newObjective(model cost.Model, pts []cost.Vec, dims [3]int, margin float64) *objective {
	ob := &objective{
		model: model,
		base:  append([]cost.Vec(nil), pts...),
		index: make([][3]int, len(pts)),
	}
	for i := range pts {
		for a := 0; a < 3; a++ {
			ob.index[i][a] = -1
			if i < 2 || i >= len(pts)-2 || dims[a] <= 1 {
				continue
			}
			ob.index[i][a] = len(ob.slots)
			ob.slots = append(ob.slots, slot{
				point: i,
				axis:  a,
				lo:    margin,
				hi:    float64(dims[a]-1) - margin,
			})
		}
	}

	add := func(first, n int) {
		t := term{first: first, n: n}
		for i := first; i < first+n; i++ {
			for a := 0; a < 3; a++ {
				if v := ob.index[i][a]; v >= 0 {
					t.vars = append(t.vars, v)
				}
			}
		}
		ob.terms = append(ob.terms, t)
	}
	for i := 1; i < len(pts); i++ {
		add(i-1, 2)
	}
	if model.Curvature.Penalty > 0 {
		for i := 2; i < len(pts); i++ {
			add(i-2, 3)
		}
	}
	if model.Torsion.Penalty > 0 {
		for i := 3; i < len(pts); i++ {
			add(i-3, 4)
		}
	}

	return ob
}

// dim is the number of free variables.
func (ob *objective) dim() int { return len(ob.slots) }

// start returns the seed projected into the box.
func (ob *objective) start() []float64 {
	x := make([]float64, len(ob.slots))
	for v, s := range ob.slots {
		x[v] = clamp(ob.base[s.point][s.axis], s.lo, s.hi)
	}

	return x
}

// points writes the clamped path for x.
func (ob *objective) points(x []float64) []cost.Vec {
	pts := append([]cost.Vec(nil), ob.base...)
	for v, s := range ob.slots {
		pts[s.point][s.axis] = clamp(x[v], s.lo, s.hi)
	}

	return pts
}

// eval prices one term on its window w.
func (ob *objective) eval(w []cost.Vec) float64 {
	switch len(w) {
	case 2:
		return ob.model.Segment(w[0], w[1])
	case 3:
		return ob.model.Triple(w[0], w[1], w[2])
	default:
		return ob.model.Quad(w[0], w[1], w[2], w[3])
	}
}

// energy is the path energy without the box penalty.
func (ob *objective) energy(x []float64) float64 {
	pts := ob.points(x)
	var total float64
	for _, t := range ob.terms {
		total += ob.eval(pts[t.first : t.first+t.n])
	}

	return total
}

// Func is energy plus penalty.
func (ob *objective) Func(x []float64) float64 {
	f := ob.energy(x)
	for v, s := range ob.slots {
		if d := excess(x[v], s.lo, s.hi); d != 0 {
			f += penaltyWeight * d * d
		}
	}

	return f
}

// local returns term t as a function of its free variables only, with
// every other coordinate taken from pts.
func (ob *objective) local(t term, pts []cost.Vec) func(y []float64) float64 {
	window := append([]cost.Vec(nil), pts[t.first:t.first+t.n]...)

	return func(y []float64) float64 {
		for j, v := range t.vars {
			s := ob.slots[v]
			window[s.point-t.first][s.axis] = clamp(y[j], s.lo, s.hi)
		}

		return ob.eval(window)
	}
}

// gather copies the term's variables out of x.
func gather(t term, x []float64) []float64 {
	y := make([]float64, len(t.vars))
	for j, v := range t.vars {
		y[j] = x[v]
	}

	return y
}

// Grad differentiates each term locally and scatters into grad.
func (ob *objective) Grad(grad, x []float64) {
	for i := range grad {
		grad[i] = 0
	}
	pts := ob.points(x)
	for _, t := range ob.terms {
		if len(t.vars) == 0 {
			continue
		}
		g := fd.Gradient(nil, ob.local(t, pts), gather(t, x), gradSettings)
		for j, v := range t.vars {
			grad[v] += g[j]
		}
	}
	for v, s := range ob.slots {
		grad[v] += 2 * penaltyWeight * excess(x[v], s.lo, s.hi)
	}
}

// Hess assembles the block-sparse Hessian from local term Hessians.
func (ob *objective) Hess(hess *mat.SymDense, x []float64) {
	n := len(x)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			hess.SetSym(i, j, 0)
		}
	}
	pts := ob.points(x)
	for _, t := range ob.terms {
		k := len(t.vars)
		if k == 0 {
			continue
		}
		h := mat.NewSymDense(k, nil)
		fd.Hessian(h, ob.local(t, pts), gather(t, x), hessSettings)
		for a := 0; a < k; a++ {
			for b := a; b < k; b++ {
				i, j := t.vars[a], t.vars[b]
				hess.SetSym(i, j, hess.At(i, j)+h.At(a, b))
			}
		}
	}
	for v, s := range ob.slots {
		if excess(x[v], s.lo, s.hi) != 0 {
			hess.SetSym(v, v, hess.At(v, v)+2*penaltyWeight)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// excess is the signed distance of v outside [lo, hi], zero inside.
func excess(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return v - lo
	case v > hi:
		return v - hi
	}

	return 0
}
