package grid

import "fmt"

// Mesh is an immutable per-cell label map over a Grid.
type Mesh struct {
	grid   *Grid
	labels []Label
}

// NewMesh copies the flat label array (x fastest) into a Mesh.
// Returns ErrDimensionMismatch or ErrBadLabel on invalid input.
func NewMesh(g *Grid, values []int) (*Mesh, error) {
	if len(values) != g.Size() {
		return nil, fmt.Errorf("%w: mesh has %d cells, grid %d", ErrDimensionMismatch, len(values), g.Size())
	}
	labels := make([]Label, len(values))
	for i, v := range values {
		if v < int(Disallowed) || v > int(End) {
			return nil, fmt.Errorf("%w: %d at %v", ErrBadLabel, v, g.Point(i))
		}
		labels[i] = Label(v)
	}

	return &Mesh{grid: g, labels: labels}, nil
}

// Grid returns the underlying lattice.
func (m *Mesh) Grid() *Grid { return m.grid }

// Label returns the label at p; out-of-bounds points are Disallowed.
func (m *Mesh) Label(p Point) Label {
	if !m.grid.InBounds(p) {
		return Disallowed
	}

	return m.labels[m.grid.Index(p)]
}

// Traversable reports whether a path may occupy p.
func (m *Mesh) Traversable(p Point) bool {
	return m.Label(p) != Disallowed
}

// Collect returns every point carrying label l, in index order.
func (m *Mesh) Collect(l Label) []Point {
	var out []Point
	for i, v := range m.labels {
		if v == l {
			out = append(out, m.grid.Point(i))
		}
	}

	return out
}

// Volume is an immutable scalar field sampled once per cell.
type Volume struct {
	grid *Grid
	data []float64
}

// NewVolume copies data (x fastest) into a Volume.
func NewVolume(g *Grid, data []float64) (*Volume, error) {
	if len(data) != g.Size() {
		return nil, fmt.Errorf("%w: volume has %d cells, grid %d", ErrDimensionMismatch, len(data), g.Size())
	}
	cp := make([]float64, len(data))
	copy(cp, data)

	return &Volume{grid: g, data: cp}, nil
}

// Grid returns the underlying lattice.
func (v *Volume) Grid() *Grid { return v.grid }

// At returns the value at p, which must be in bounds.
func (v *Volume) At(p Point) float64 {
	return v.data[v.grid.Index(p)]
}

// Clamped returns the value of the cell nearest to p inside the grid.
func (v *Volume) Clamped(x, y, z int) float64 {
	x = clamp(x, 0, v.grid.M-1)
	y = clamp(y, 0, v.grid.N-1)
	z = clamp(z, 0, v.grid.O-1)

	return v.data[x+y*v.grid.M+z*v.grid.M*v.grid.N]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// Region is a dense membership set of grid points.
type Region struct {
	grid  *Grid
	in    []bool
	count int
}

// NewRegion returns an empty region over g.
func NewRegion(g *Grid) *Region {
	return &Region{grid: g, in: make([]bool, g.Size())}
}

// Add inserts p. Returns ErrOutOfBounds if p is outside the grid.
func (r *Region) Add(p Point) error {
	if err := r.grid.Check(p); err != nil {
		return err
	}
	i := r.grid.Index(p)
	if !r.in[i] {
		r.in[i] = true
		r.count++
	}

	return nil
}

// Has reports membership; out-of-bounds points are never members.
func (r *Region) Has(p Point) bool {
	return r.grid.InBounds(p) && r.in[r.grid.Index(p)]
}

// HasIndex reports membership by linear index.
func (r *Region) HasIndex(i int) bool {
	return r.in[i]
}

// Len is the number of members.
func (r *Region) Len() int { return r.count }

// Points lists members in ascending index order.
func (r *Region) Points() []Point {
	out := make([]Point, 0, r.count)
	for i, ok := range r.in {
		if ok {
			out = append(out, r.grid.Point(i))
		}
	}

	return out
}
