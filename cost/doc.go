// Package cost evaluates the energy of a curve through a voxel volume.
//
// The energy of a polyline p₁…pₙ is
//
//	Σ data(pᵢ,pᵢ₊₁) + Σ length(pᵢ,pᵢ₊₁) + Σ curvature(pᵢ,pᵢ₊₁,pᵢ₊₂) + Σ torsion(pᵢ…pᵢ₊₃)
//
// where every term is computed in physical units, i.e. after scaling
// coordinates by the voxel dimensions.
//
//   - PiecewiseConstant.LineIntegral walks the voxel crossings of a straight
//     segment and sums value × physical sub-segment length. Voxels are
//     centred on integer coordinates.
//   - Length is penalty · ‖scale∘(a−b)‖.
//   - Curvature is penalty · κ^power with κ the Menger curvature, the
//     inverse radius of the circle through three points.
//   - Torsion is penalty · τ^power with τ = |u·(v×w)| / (‖u×v‖‖v×w‖), the
//     sine of the dihedral angle between the two osculating planes divided
//     by the middle segment length.
//
// Curvature vanishes on colinear points and torsion on coplanar ones. Both
// are defined as zero where the estimator degenerates (coincident points,
// an exact reversal, a colinear triple inside a quadruple).
//
// Every function works on float64 coordinates; callers needing derivatives
// differentiate numerically (see package refine).
package cost
