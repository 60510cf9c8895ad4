package cost

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// physical maps a voxel position to physical space.
func physical(p Vec, s Scale) r3.Vec {
	return r3.Vec{X: p[0] * s[0], Y: p[1] * s[1], Z: p[2] * s[2]}
}

// CurvatureEstimate returns the Menger curvature of three physical points,
// 2‖u×v‖ / (‖u‖‖v‖‖u+v‖) with u = b−a and v = c−b.
// Zero for colinear points and for any vanishing denominator factor.
func CurvatureEstimate(a, b, c r3.Vec) float64 {
	u := r3.Sub(b, a)
	v := r3.Sub(c, b)
	den := r3.Norm(u) * r3.Norm(v) * r3.Norm(r3.Add(u, v))
	if den == 0 {
		return 0
	}

	return 2 * r3.Norm(r3.Cross(u, v)) / den
}

// TorsionEstimate returns |u·(v×w)| / (‖u×v‖‖v×w‖) for the three segments
// u, v, w of a physical quadruple. Zero for coplanar points and when either
// consecutive triple is colinear.
func TorsionEstimate(a, b, c, d r3.Vec) float64 {
	u := r3.Sub(b, a)
	v := r3.Sub(c, b)
	w := r3.Sub(d, c)
	n1 := r3.Cross(u, v)
	n2 := r3.Cross(v, w)
	den := r3.Norm(n1) * r3.Norm(n2)
	if den == 0 {
		return 0
	}
	t := r3.Dot(u, n2) / den
	if t < 0 {
		t = -t
	}

	return t
}
