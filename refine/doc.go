// Package refine turns a discrete lattice path into a smooth continuous one
// by minimizing the path energy with gonum's optimize package.
//
// The objective is the sum, over consecutive windows, of the data line
// integral and the length, curvature and torsion terms of the same
// cost.Model the discrete search used. The first two and last two points
// are anchors; every other coordinate is free within
// [Margin, dim-1-Margin] on each axis whose extent exceeds one voxel, so 2D
// paths keep their z.
//
// The box is enforced by clamping inside the objective plus a quadratic
// exterior penalty. Gradients and Hessians are assembled term by term from
// local central finite differences (gonum diff/fd), so each evaluation is
// linear in the number of points.
//
// Supported minimizers are L-BFGS and Newton. Newton copes with indefinite
// Hessians either by an iteratively shifted Cholesky factorization or, with
// FactorizationBKP, by replacing each eigenvalue with its magnitude.
// Nelder-Mead and the trilinear data term are rejected with ErrUnsupported
// before any work.
package refine
