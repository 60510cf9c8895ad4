// Package grid indexes the regular voxel lattice that curve extraction
// searches over.
//
// What:
//
//   - Grid holds the M×N×O dimensions and the bijective mapping between
//     integer points and linear indices (id = x + y·M + z·M·N).
//   - Connectivity is the ordered stencil of legal one-hop offsets.
//   - Mesh stores the per-cell label (Disallowed, Allowed, Start, End).
//   - Volume stores a per-cell scalar such as the unary data cost.
//   - Region is a dense point set used for start and end constraints.
//   - Reachable answers whether any target cell can be reached from a
//     source cell through traversable cells.
//
// A 2D problem is a grid with O == 1; every offset must then have DZ == 0
// to ever produce an in-bounds move, but that is not enforced here.
//
// All types are immutable after construction (Region excepted, which is
// filled once by its owner before use) and safe for concurrent reads.
//
// Complexity:
//
//   - Index, Point, InBounds, Label, At: O(1).
//   - Reachable: O(M·N·O·K) time, O(M·N·O) memory.
//
// Errors:
//
//   - ErrEmptyGrid: a dimension is not positive.
//   - ErrDimensionMismatch: a flat array does not match M·N·O.
//   - ErrBadLabel: a mesh value outside 0..3.
//   - ErrEmptyConnectivity, ErrZeroOffset, ErrDuplicateOffset: bad stencil.
//   - ErrOutOfBounds: a point outside the grid.
//   - ErrUnknownStencil: an unknown preset name.
package grid
