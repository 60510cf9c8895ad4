package cost

import (
	"math"
	"slices"

	"github.com/katalvlaran/curvex/grid"
)

// DataTerm integrates a scalar field along a straight segment.
type DataTerm interface {
	LineIntegral(a, b Vec) float64
}

// PiecewiseConstant treats each voxel value as constant over the unit cube
// centred on its integer coordinates.
type PiecewiseConstant struct {
	vol   *grid.Volume
	scale Scale
}

// NewPiecewiseConstant binds a volume and its voxel dimensions.
func NewPiecewiseConstant(vol *grid.Volume, scale Scale) *PiecewiseConstant {
	return &PiecewiseConstant{vol: vol, scale: scale}
}

// LineIntegral returns Σ value(cell) · physical length of the part of
// segment ab inside that cell.
//
// Behavior:
//  1. Parametrise the segment as a + t·(b−a), t ∈ [0,1].
//  2. Collect every t where an axis crosses a cell face (half-integer).
//  3. Sample each piece at its midpoint; pieces leaving the volume read the
//     nearest border cell.
//
// Complexity: O(C log C) where C is the number of crossed faces.
func (pc *PiecewiseConstant) LineIntegral(a, b Vec) float64 {
	d := Vec{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	length := math.Sqrt(sq(d[0]*pc.scale[0]) + sq(d[1]*pc.scale[1]) + sq(d[2]*pc.scale[2]))
	if length == 0 {
		return 0
	}

	ts := make([]float64, 0, 8)
	ts = append(ts, 0, 1)
	for axis := 0; axis < 3; axis++ {
		if d[axis] == 0 {
			continue
		}
		lo, hi := a[axis], b[axis]
		if lo > hi {
			lo, hi = hi, lo
		}
		// Faces sit at k+0.5; walk those strictly inside (lo, hi).
		for f := math.Floor(lo+0.5) + 0.5; f < hi; f++ {
			if f <= lo {
				continue
			}
			ts = append(ts, (f-a[axis])/d[axis])
		}
	}
	slices.Sort(ts)

	var sum float64
	for i := 1; i < len(ts); i++ {
		dt := ts[i] - ts[i-1]
		if dt <= 0 {
			continue
		}
		mid := 0.5 * (ts[i] + ts[i-1])
		x := cell(a[0] + mid*d[0])
		y := cell(a[1] + mid*d[1])
		z := cell(a[2] + mid*d[2])
		sum += pc.vol.Clamped(x, y, z) * dt * length
	}

	return sum
}

// cell returns the index of the voxel containing coordinate v.
func cell(v float64) int {
	return int(math.Floor(v + 0.5))
}

func sq(v float64) float64 { return v * v }
