package grid

import "fmt"

// Grid is an immutable M×N×O lattice. Points are addressed by x ∈ [0,M),
// y ∈ [0,N), z ∈ [0,O), and linearised with x varying fastest.
type Grid struct {
	M, N, O int
}

// New validates the dimensions and returns a Grid.
// Returns ErrEmptyGrid if any dimension is not positive.
func New(m, n, o int) (*Grid, error) {
	if m <= 0 || n <= 0 || o <= 0 {
		return nil, fmt.Errorf("%w: got %d×%d×%d", ErrEmptyGrid, m, n, o)
	}

	return &Grid{M: m, N: n, O: o}, nil
}

// Size is the number of cells, M·N·O.
func (g *Grid) Size() int {
	return g.M * g.N * g.O
}

// Is2D reports whether the grid is a single plane.
func (g *Grid) Is2D() bool {
	return g.O == 1
}

// InBounds reports whether p lies inside the grid.
// Complexity: O(1).
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.M &&
		p.Y >= 0 && p.Y < g.N &&
		p.Z >= 0 && p.Z < g.O
}

// Index maps p to its linear index x + y·M + z·M·N.
// The caller must ensure InBounds(p).
func (g *Grid) Index(p Point) int {
	return p.X + p.Y*g.M + p.Z*g.M*g.N
}

// Point converts a linear index back to coordinates.
// Complexity: O(1).
func (g *Grid) Point(idx int) Point {
	plane := g.M * g.N
	z := idx / plane
	rem := idx - z*plane
	y := rem / g.M

	return Point{X: rem - y*g.M, Y: y, Z: z}
}

// Check returns ErrOutOfBounds wrapped with p if p is outside the grid.
func (g *Grid) Check(p Point) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v not in %d×%d×%d", ErrOutOfBounds, p, g.M, g.N, g.O)
	}

	return nil
}
