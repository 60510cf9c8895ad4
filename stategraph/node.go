package stategraph

import (
	"fmt"

	"github.com/katalvlaran/curvex/search"
)

// nodeGraph is the point-state provider: only data and length are priced.
type nodeGraph struct {
	*base
}

// Sources returns every traversable start point.
func (g *nodeGraph) Sources() []int64 {
	pts := g.startPoints()
	out := make([]int64, len(pts))
	for i, p := range pts {
		out[i] = int64(g.grid.Index(p))
	}

	return out
}

// Expand emits one arc per open neighbour of the state's point.
func (g *nodeGraph) Expand(id int64, dst []search.Arc) ([]search.Arc, error) {
	if id < 0 || id >= g.codec.NumStates() {
		return dst, fmt.Errorf("%w: %d", ErrInvalidState, id)
	}
	p := g.grid.Point(int(id))

	// 1) Collect one move per in-bounds, non-Disallowed neighbour.
	moves := make([]move, 0, len(g.conn))
	for e, off := range g.conn {
		q := p.Add(off)
		if !g.open(q) {
			continue
		}
		m := move{to: int64(g.grid.Index(q)), e: e, n: 2}
		m.win[0], m.win[1] = p, q
		moves = append(moves, m)
	}

	// 2) Price each step as data term plus length.
	return g.price(moves, func(m *move) float64 {
		return g.segment(m.win[0], m.e)
	}, dst)
}

// IsTerminal reports whether the point lies in the end region.
func (g *nodeGraph) IsTerminal(id int64) bool {
	return id >= 0 && id < g.codec.NumStates() && g.end.HasIndex(int(id))
}
