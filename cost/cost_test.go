package cost_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
)

const eps = 1e-12

func volume(t *testing.T, m, n, o int, fill func(p grid.Point) float64) *grid.Volume {
	t.Helper()
	g, err := grid.New(m, n, o)
	require.NoError(t, err)
	data := make([]float64, g.Size())
	for i := range data {
		data[i] = fill(g.Point(i))
	}
	v, err := grid.NewVolume(g, data)
	require.NoError(t, err)

	return v
}

//----------------------------------------------------------------------------//
// Line integral
//----------------------------------------------------------------------------//

func TestLineIntegral_Uniform(t *testing.T) {
	vol := volume(t, 5, 5, 1, func(grid.Point) float64 { return 1 })
	dt := cost.NewPiecewiseConstant(vol, cost.UnitScale())

	cases := []struct {
		name string
		a, b cost.Vec
		want float64
	}{
		{"UnitStep", cost.Vec{0, 0, 0}, cost.Vec{1, 0, 0}, 1},
		{"Diagonal", cost.Vec{1, 1, 0}, cost.Vec{2, 2, 0}, math.Sqrt2},
		{"KnightMove", cost.Vec{0, 0, 0}, cost.Vec{2, 1, 0}, math.Sqrt(5)},
		{"Degenerate", cost.Vec{3, 3, 0}, cost.Vec{3, 3, 0}, 0},
		{"Fractional", cost.Vec{0.2, 0.4, 0}, cost.Vec{3.1, 2.7, 0}, math.Hypot(2.9, 2.3)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, dt.LineIntegral(tc.a, tc.b), eps)
			require.InDelta(t, tc.want, dt.LineIntegral(tc.b, tc.a), eps)
		})
	}
}

// TestLineIntegral_SplitsAtFaces checks that half of a unit step is charged
// to each of the two voxels it touches.
func TestLineIntegral_SplitsAtFaces(t *testing.T) {
	vol := volume(t, 3, 1, 1, func(p grid.Point) float64 { return float64(1 + 2*p.X) })
	dt := cost.NewPiecewiseConstant(vol, cost.UnitScale())

	require.InDelta(t, 0.5*1+0.5*3, dt.LineIntegral(cost.Vec{0, 0, 0}, cost.Vec{1, 0, 0}), eps)
	require.InDelta(t, 0.5*1+3+0.5*5, dt.LineIntegral(cost.Vec{0, 0, 0}, cost.Vec{2, 0, 0}), eps)
	// Quarter steps inside one voxel read only that voxel.
	require.InDelta(t, 0.25*3, dt.LineIntegral(cost.Vec{0.75, 0, 0}, cost.Vec{1, 0, 0}), eps)
}

func TestLineIntegral_VoxelScale(t *testing.T) {
	vol := volume(t, 3, 3, 3, func(grid.Point) float64 { return 2 })
	dt := cost.NewPiecewiseConstant(vol, cost.Scale{1, 1, 3})
	require.InDelta(t, 2*3.0, dt.LineIntegral(cost.Vec{1, 1, 0}, cost.Vec{1, 1, 1}), eps)
	require.InDelta(t, 2*math.Sqrt(1+9), dt.LineIntegral(cost.Vec{0, 1, 0}, cost.Vec{1, 1, 1}), eps)
}

func TestLineIntegral_ClampsOutside(t *testing.T) {
	vol := volume(t, 2, 1, 1, func(p grid.Point) float64 { return float64(p.X + 1) })
	dt := cost.NewPiecewiseConstant(vol, cost.UnitScale())
	// From x=-1 to x=0: half in the clamped border cell, half in cell 0.
	require.InDelta(t, 1.0, dt.LineIntegral(cost.Vec{-1, 0, 0}, cost.Vec{0, 0, 0}), eps)
}

//----------------------------------------------------------------------------//
// Geometry
//----------------------------------------------------------------------------//

func TestCurvatureEstimate(t *testing.T) {
	o := r3.Vec{}
	x := r3.Vec{X: 1}
	require.Zero(t, cost.CurvatureEstimate(o, x, r3.Vec{X: 2}), "colinear")
	require.Zero(t, cost.CurvatureEstimate(o, o, x), "coincident")
	// Right angle with unit legs: circumradius is half the hypotenuse.
	require.InDelta(t, math.Sqrt2, cost.CurvatureEstimate(o, x, r3.Vec{X: 1, Y: 1}), eps)
	// Three points on a circle of radius 5.
	k := cost.CurvatureEstimate(r3.Vec{X: 5}, r3.Vec{Y: 5}, r3.Vec{X: -5})
	require.InDelta(t, 0.2, k, eps)
}

func TestTorsionEstimate(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 1}
	c := r3.Vec{X: 1, Y: 1}
	require.Zero(t, cost.TorsionEstimate(a, b, c, r3.Vec{X: 2, Y: 1}), "planar")
	require.Zero(t, cost.TorsionEstimate(a, b, r3.Vec{X: 2}, r3.Vec{X: 2, Z: 1}), "colinear head")
	require.InDelta(t, 1.0, cost.TorsionEstimate(a, b, c, r3.Vec{X: 1, Y: 1, Z: 1}), eps)
	require.InDelta(t, 1.0, cost.TorsionEstimate(a, b, c, r3.Vec{X: 1, Y: 1, Z: -1}), eps)
}

//----------------------------------------------------------------------------//
// Regularizers and model
//----------------------------------------------------------------------------//

func TestRegularizers(t *testing.T) {
	s := cost.Scale{2, 1, 1}
	l := cost.Length{Penalty: 3, Scale: s}
	require.InDelta(t, 3*2.0, l.Cost(cost.Vec{0, 0, 0}, cost.Vec{1, 0, 0}), eps)
	require.Zero(t, cost.Length{Scale: s}.Cost(cost.Vec{}, cost.Vec{1, 1, 1}))

	c := cost.Curvature{Penalty: 2, Power: 2, Scale: cost.UnitScale()}
	require.InDelta(t, 2*2.0, c.Cost(cost.Vec{0, 0, 0}, cost.Vec{1, 0, 0}, cost.Vec{1, 1, 0}), eps)
	require.Zero(t, c.Cost(cost.Vec{0, 0, 0}, cost.Vec{1, 0, 0}, cost.Vec{2, 0, 0}))

	tr := cost.Torsion{Penalty: 0.5, Power: 3, Scale: cost.UnitScale()}
	require.InDelta(t, 0.5, tr.Cost(cost.Vec{}, cost.Vec{1, 0, 0}, cost.Vec{1, 1, 0}, cost.Vec{1, 1, 1}), eps)
}

func TestRegularization_Validate(t *testing.T) {
	ok := cost.DefaultRegularization()
	require.NoError(t, ok.Validate())

	cases := []struct {
		name string
		mut  func(*cost.Regularization)
		err  error
	}{
		{"NegativeLength", func(r *cost.Regularization) { r.Length = -1 }, cost.ErrNegativePenalty},
		{"NegativeCurvature", func(r *cost.Regularization) { r.Curvature = -1 }, cost.ErrNegativePenalty},
		{"NegativeTorsion", func(r *cost.Regularization) { r.Torsion = -0.1 }, cost.ErrNegativePenalty},
		{"ZeroCurvaturePower", func(r *cost.Regularization) { r.Curvature, r.CurvaturePower = 1, 0 }, cost.ErrBadPower},
		{"ZeroTorsionPower", func(r *cost.Regularization) { r.Torsion, r.TorsionPower = 1, 0 }, cost.ErrBadPower},
		{"ZeroRadius", func(r *cost.Regularization) { r.Radius = 0 }, cost.ErrBadRadius},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := cost.DefaultRegularization()
			tc.mut(&r)
			require.ErrorIs(t, r.Validate(), tc.err)
		})
	}

	require.ErrorIs(t, cost.Scale{1, 0, 1}.Validate(), cost.ErrBadScale)
	require.NoError(t, cost.UnitScale().Validate())
}

// TestPathCost_Monotone raises one penalty at a time on a fixed bent path and
// checks that the total never decreases.
func TestPathCost_Monotone(t *testing.T) {
	vol := volume(t, 4, 4, 4, func(p grid.Point) float64 { return float64(p.X+p.Y+p.Z) / 10 })
	path := cost.FromPoints([]grid.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1}, {X: 2, Y: 2, Z: 1}})

	base := cost.DefaultRegularization()
	base.Length, base.Curvature, base.Torsion = 1, 1, 1
	bumps := []func(*cost.Regularization){
		func(r *cost.Regularization) { r.Length += 0.5 },
		func(r *cost.Regularization) { r.Curvature += 0.5 },
		func(r *cost.Regularization) { r.Torsion += 0.5 },
	}
	before := cost.NewModel(vol, cost.UnitScale(), base).PathCost(path)
	for i, bump := range bumps {
		r := base
		bump(&r)
		after := cost.NewModel(vol, cost.UnitScale(), r).PathCost(path)
		require.Greater(t, after, before, "bump %d", i)
	}
}

func TestPathCost_Sums(t *testing.T) {
	vol := volume(t, 3, 3, 1, func(grid.Point) float64 { return 1 })
	reg := cost.DefaultRegularization()
	reg.Length, reg.Curvature = 1, 1
	m := cost.NewModel(vol, cost.UnitScale(), reg)
	path := cost.FromPoints([]grid.Point{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}})
	// Two unit steps of data and length, one right-angle turn (κ²=2).
	require.InDelta(t, 2+2+2.0, m.PathCost(path), eps)
	require.Zero(t, m.PathCost(path[:1]))
}
