package stategraph

import (
	"fmt"
	"math"

	"github.com/katalvlaran/curvex/grid"
)

// Codec is the injective mapping between state ids and point windows.
//
// Layout, with G = M·N·O and K = len(conn):
//
//	node:     id = idx(p)
//	edge:     id = idx(p1)·K + e             window (p1, p1+c[e])
//	edgepair: id = idx(p1)·K² + e1·K + e2    window (p1, p2=p1+c[e1], p2+c[e2])
//
// The super source of edge modes is id = NumStates().
type Codec struct {
	grid *grid.Grid
	conn grid.Connectivity
	mode Mode
	k    int64
	per  int64 // states per root point: K^d
}

// NewCodec validates the mode and that ids fit in an int64.
func NewCodec(g *grid.Grid, conn grid.Connectivity, mode Mode) (*Codec, error) {
	if mode < ModeNode || mode > ModeEdgePair {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(mode))
	}
	if len(conn) == 0 {
		return nil, grid.ErrEmptyConnectivity
	}
	k := int64(len(conn))
	per := int64(1)
	for i := 0; i < int(mode); i++ {
		per *= k
	}
	if int64(g.Size()) > (math.MaxInt64-1)/per {
		return nil, fmt.Errorf("%w: %d cells × %d", ErrTooManyStates, g.Size(), per)
	}

	return &Codec{grid: g, conn: conn, mode: mode, k: k, per: per}, nil
}

// Mode returns the encoded history depth.
func (c *Codec) Mode() Mode { return c.mode }

// NumStates is M·N·O·K^d.
func (c *Codec) NumStates() int64 {
	return int64(c.grid.Size()) * c.per
}

// SuperSource returns the sentinel origin id, or -1 in node mode.
func (c *Codec) SuperSource() int64 {
	if c.mode == ModeNode {
		return -1
	}

	return c.NumStates()
}

// edgeID composes an edge state id.
func (c *Codec) edgeID(root int, e int) int64 {
	return int64(root)*c.k + int64(e)
}

// pairID composes an edgepair state id.
func (c *Codec) pairID(root int, e1, e2 int) int64 {
	return int64(root)*c.per + int64(e1)*c.k + int64(e2)
}

// unpack splits an id into its root index and edge indices (unused edges
// are returned as -1). The id must be in range.
func (c *Codec) unpack(id int64) (root int, e1, e2 int) {
	switch c.mode {
	case ModeEdge:
		return int(id / c.k), int(id % c.k), -1
	case ModeEdgePair:
		rest := id % c.per
		return int(id / c.per), int(rest / c.k), int(rest % c.k)
	default:
		return int(id), -1, -1
	}
}

// window decodes id into dst without validation and returns the number of
// points written.
func (c *Codec) window(id int64, dst *[3]grid.Point) int {
	root, e1, e2 := c.unpack(id)
	dst[0] = c.grid.Point(root)
	if e1 < 0 {
		return 1
	}
	dst[1] = dst[0].Add(c.conn[e1])
	if e2 < 0 {
		return 2
	}
	dst[2] = dst[1].Add(c.conn[e2])

	return 3
}

// Window returns the points encoded by id, oldest first.
// Returns ErrInvalidState if id is out of range or leaves the grid, and
// ErrSuperSourceInPath for the super source.
func (c *Codec) Window(id int64) ([]grid.Point, error) {
	if c.mode != ModeNode && id == c.SuperSource() {
		return nil, ErrSuperSourceInPath
	}
	if id < 0 || id >= c.NumStates() {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidState, id, c.NumStates())
	}
	var w [3]grid.Point
	n := c.window(id, &w)
	for i := 0; i < n; i++ {
		if !c.grid.InBounds(w[i]) {
			return nil, fmt.Errorf("%w: %d reaches %v", ErrInvalidState, id, w[i])
		}
	}
	out := make([]grid.Point, n)
	copy(out, w[:n])

	return out, nil
}

// Decode converts a raw state path (super source already stripped) into the
// ordered point sequence: the whole first window, then the newly introduced
// trailing point of every following state.
func (c *Codec) Decode(path []int64) ([]grid.Point, error) {
	if len(path) == 0 {
		return nil, nil
	}
	var prev []grid.Point
	var out []grid.Point
	for i, id := range path {
		w, err := c.Window(id)
		if err != nil {
			return nil, fmt.Errorf("state %d of path: %w", i, err)
		}
		if i == 0 {
			out = append(out, w...)
		} else {
			// The new window must be the previous one shifted by one point.
			for j := 1; j < len(prev); j++ {
				if prev[j] != w[j-1] {
					return nil, fmt.Errorf("%w: states %d and %d", ErrBrokenPath, i-1, i)
				}
			}
			out = append(out, w[len(w)-1])
		}
		prev = w
	}

	return out, nil
}

// Encode converts a point sequence into the state path that Decode maps
// back to it. Consecutive points must differ by a connectivity offset.
func (c *Codec) Encode(points []grid.Point) ([]int64, error) {
	if len(points) < c.mode.Window() {
		return nil, fmt.Errorf("%w: %d points, %s needs %d", ErrShortPath, len(points), c.mode, c.mode.Window())
	}
	for _, p := range points {
		if err := c.grid.Check(p); err != nil {
			return nil, err
		}
	}
	edges := make([]int, len(points)-1)
	for i := 1; i < len(points); i++ {
		e := c.conn.IndexOf(points[i].Sub(points[i-1]))
		if e < 0 {
			return nil, fmt.Errorf("%w: %v→%v", ErrNotOnStencil, points[i-1], points[i])
		}
		edges[i-1] = e
	}

	n := len(points) - c.mode.Window() + 1
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		root := c.grid.Index(points[i])
		switch c.mode {
		case ModeNode:
			out[i] = int64(root)
		case ModeEdge:
			out[i] = c.edgeID(root, edges[i])
		case ModeEdgePair:
			out[i] = c.pairID(root, edges[i], edges[i+1])
		}
	}

	return out, nil
}
