package stategraph

import (
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
)

// edgeGraph is the directed-edge provider: a state (p1, p2) knows the
// previous point, so the curvature of every new triple can be priced.
type edgeGraph struct {
	*base
}

// Sources returns the super source.
func (g *edgeGraph) Sources() []int64 {
	return []int64{g.codec.SuperSource()}
}

// Expand emits the arcs of id. The super source fans out to every first
// edge leaving the start region, priced as one segment.
func (g *edgeGraph) Expand(id int64, dst []search.Arc) ([]search.Arc, error) {
	if id == g.codec.SuperSource() {
		return g.expandSuper(dst)
	}

	// 1) Decode the window (p1, p2); ErrInvalidState for foreign ids.
	w, err := g.codec.Window(id)
	if err != nil {
		return dst, err
	}
	p1, p2 := w[0], w[1]
	root := g.grid.Index(p2)

	// 2) Extend by every offset whose endpoint is open and not p1.
	moves := make([]move, 0, len(g.conn))
	for e, off := range g.conn {
		p3 := p2.Add(off)
		// An immediate reversal has undefined curvature.
		if p3 == p1 || !g.open(p3) {
			continue
		}
		m := move{to: g.codec.edgeID(root, e), e: e, n: 3}
		m.win[0], m.win[1], m.win[2] = p1, p2, p3
		moves = append(moves, m)
	}

	// 3) Price the new segment and the triple it completes.
	return g.price(moves, func(m *move) float64 {
		v := m.vecs()
		return g.segment(m.win[1], m.e) + g.model.Triple(v[0], v[1], v[2])
	}, dst)
}

// expandSuper emits one arc per open first edge of every start point.
func (g *edgeGraph) expandSuper(dst []search.Arc) ([]search.Arc, error) {
	var moves []move
	for _, p1 := range g.startPoints() {
		root := g.grid.Index(p1)
		for e, off := range g.conn {
			p2 := p1.Add(off)
			if !g.open(p2) {
				continue
			}
			m := move{to: g.codec.edgeID(root, e), e: e, n: 2}
			m.win[0], m.win[1] = p1, p2
			moves = append(moves, m)
		}
	}

	return g.price(moves, func(m *move) float64 {
		return g.segment(m.win[0], m.e)
	}, dst)
}

// IsTerminal reports whether the edge ends in the end region.
func (g *edgeGraph) IsTerminal(id int64) bool {
	if id < 0 || id >= g.codec.NumStates() {
		return false
	}
	var w [3]grid.Point
	g.codec.window(id, &w)

	return g.end.Has(w[1])
}
