package grid

import (
	"errors"
	"fmt"
)

// Sentinel errors for grid construction and lookups.
var (
	// ErrEmptyGrid indicates a non-positive dimension.
	ErrEmptyGrid = errors.New("grid: every dimension must be positive")
	// ErrDimensionMismatch indicates a flat array whose length is not M·N·O.
	ErrDimensionMismatch = errors.New("grid: array size does not match grid dimensions")
	// ErrBadLabel indicates a mesh value outside the known labels.
	ErrBadLabel = errors.New("grid: mesh label must be 0, 1, 2 or 3")
	// ErrEmptyConnectivity indicates a stencil without offsets.
	ErrEmptyConnectivity = errors.New("grid: connectivity must contain at least one offset")
	// ErrZeroOffset indicates a (0,0,0) offset, which would be a self loop.
	ErrZeroOffset = errors.New("grid: connectivity offset must not be zero")
	// ErrDuplicateOffset indicates the same offset listed twice.
	ErrDuplicateOffset = errors.New("grid: duplicate connectivity offset")
	// ErrOutOfBounds indicates a point outside the grid.
	ErrOutOfBounds = errors.New("grid: point out of bounds")
	// ErrUnknownStencil indicates an unknown stencil preset.
	ErrUnknownStencil = errors.New("grid: unknown stencil")
)

// Point is an integer lattice position.
type Point struct {
	X, Y, Z int
}

// Add returns p displaced by o.
func (p Point) Add(o Offset) Point {
	return Point{X: p.X + o.DX, Y: p.Y + o.DY, Z: p.Z + o.DZ}
}

// Sub returns the offset leading from q to p.
func (p Point) Sub(q Point) Offset {
	return Offset{DX: p.X - q.X, DY: p.Y - q.Y, DZ: p.Z - q.Z}
}

// String formats p as "(x,y,z)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Offset is one legal step of a connectivity stencil.
type Offset struct {
	DX, DY, DZ int
}

// Neg returns the opposite step.
func (o Offset) Neg() Offset {
	return Offset{DX: -o.DX, DY: -o.DY, DZ: -o.DZ}
}

// IsZero reports whether o does not move.
func (o Offset) IsZero() bool {
	return o.DX == 0 && o.DY == 0 && o.DZ == 0
}

// Label classifies a cell for traversal and seeding.
type Label int8

const (
	// Disallowed cells are never entered.
	Disallowed Label = iota
	// Allowed cells may be traversed.
	Allowed
	// Start cells may begin a path.
	Start
	// End cells may terminate a path.
	End
)

// String returns the label name.
func (l Label) String() string {
	switch l {
	case Disallowed:
		return "disallowed"
	case Allowed:
		return "allowed"
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// StencilKind names a preset connectivity.
type StencilKind int

const (
	// Conn4 is the planar von Neumann stencil: ±x, ±y.
	Conn4 StencilKind = iota
	// Conn8 adds the four planar diagonals to Conn4.
	Conn8
	// Conn6 is the volumetric face stencil: ±x, ±y, ±z.
	Conn6
	// Conn18 adds the twelve edge diagonals to Conn6.
	Conn18
	// Conn26 is the full 3×3×3 neighborhood without the centre.
	Conn26
)
