package cost

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Length charges penalty per unit of physical arc length.
type Length struct {
	Penalty float64
	Scale   Scale
}

// Cost returns Penalty · ‖Scale∘(a−b)‖.
func (l Length) Cost(a, b Vec) float64 {
	if l.Penalty == 0 {
		return 0
	}

	return l.Penalty * r3.Norm(r3.Sub(physical(a, l.Scale), physical(b, l.Scale)))
}

// Curvature charges penalty · κ^Power on a point triple.
type Curvature struct {
	Penalty float64
	Power   float64
	Scale   Scale
}

// Cost returns the curvature term of (a, b, c).
func (c Curvature) Cost(a, b, d Vec) float64 {
	if c.Penalty == 0 {
		return 0
	}
	k := CurvatureEstimate(physical(a, c.Scale), physical(b, c.Scale), physical(d, c.Scale))
	if k == 0 {
		return 0
	}

	return c.Penalty * math.Pow(k, c.Power)
}

// Torsion charges penalty · τ^Power on a point quadruple.
type Torsion struct {
	Penalty float64
	Power   float64
	Scale   Scale
}

// Cost returns the torsion term of (a, b, c, d).
func (t Torsion) Cost(a, b, c, d Vec) float64 {
	if t.Penalty == 0 {
		return 0
	}
	tau := TorsionEstimate(physical(a, t.Scale), physical(b, t.Scale), physical(c, t.Scale), physical(d, t.Scale))
	if tau == 0 {
		return 0
	}

	return t.Penalty * math.Pow(tau, t.Power)
}
