package cost

import (
	"github.com/katalvlaran/curvex/grid"
)

// Model bundles the data term and the three regularizers of one query.
// A zero penalty disables its term.
type Model struct {
	Data      DataTerm
	Length    Length
	Curvature Curvature
	Torsion   Torsion
}

// NewModel builds the piecewise-constant model used by both the discrete
// search and the continuous refinement.
func NewModel(vol *grid.Volume, scale Scale, reg Regularization) Model {
	return Model{
		Data:      NewPiecewiseConstant(vol, scale),
		Length:    Length{Penalty: reg.Length, Scale: scale},
		Curvature: Curvature{Penalty: reg.Curvature, Power: reg.CurvaturePower, Scale: scale},
		Torsion:   Torsion{Penalty: reg.Torsion, Power: reg.TorsionPower, Scale: scale},
	}
}

// Segment is the data integral plus the length term of ab.
func (m Model) Segment(a, b Vec) float64 {
	return m.Data.LineIntegral(a, b) + m.Length.Cost(a, b)
}

// Triple is the curvature term of abc.
func (m Model) Triple(a, b, c Vec) float64 {
	return m.Curvature.Cost(a, b, c)
}

// Quad is the torsion term of abcd.
func (m Model) Quad(a, b, c, d Vec) float64 {
	return m.Torsion.Cost(a, b, c, d)
}

// PathCost sums every term over the consecutive windows of pts.
func (m Model) PathCost(pts []Vec) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += m.Segment(pts[i-1], pts[i])
	}
	for i := 2; i < len(pts); i++ {
		total += m.Triple(pts[i-2], pts[i-1], pts[i])
	}
	for i := 3; i < len(pts); i++ {
		total += m.Quad(pts[i-3], pts[i-2], pts[i-1], pts[i])
	}

	return total
}
