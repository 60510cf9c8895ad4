package stategraph

import (
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
)

// edgePairGraph is the two-edge provider: a state (p1, p2, p3) carries
// enough history to price torsion of the next quadruple.
type edgePairGraph struct {
	*base
}

// Sources returns the super source.
func (g *edgePairGraph) Sources() []int64 {
	return []int64{g.codec.SuperSource()}
}

// Expand emits the arcs of id. The super source fans out to every
// non-reversing edge pair leaving the start region, priced as two segments
// and one curvature term.
func (g *edgePairGraph) Expand(id int64, dst []search.Arc) ([]search.Arc, error) {
	if id == g.codec.SuperSource() {
		return g.expandSuper(dst)
	}

	// 1) Decode the window (p1, p2, p3); the new state keeps e2 as its
	// first offset and is rooted at p2.
	w, err := g.codec.Window(id)
	if err != nil {
		return dst, err
	}
	p1, p2, p3 := w[0], w[1], w[2]
	_, _, e2 := g.codec.unpack(id)
	root := g.grid.Index(p2)

	// 2) Extend by every offset whose endpoint is open and revisits
	// neither p1 nor p2.
	moves := make([]move, 0, len(g.conn))
	for e, off := range g.conn {
		p4 := p3.Add(off)
		if p4 == p1 || p4 == p2 || !g.open(p4) {
			continue
		}
		m := move{to: g.codec.pairID(root, e2, e), e: e, n: 4}
		m.win = [4]grid.Point{p1, p2, p3, p4}
		moves = append(moves, m)
	}

	// 3) Price the new segment, the triple and the quadruple it completes.
	return g.price(moves, func(m *move) float64 {
		v := m.vecs()
		return g.segment(m.win[2], m.e) +
			g.model.Triple(v[1], v[2], v[3]) +
			g.model.Quad(v[0], v[1], v[2], v[3])
	}, dst)
}

// expandSuper emits one arc per open, non-reversing first edge pair of
// every start point.
func (g *edgePairGraph) expandSuper(dst []search.Arc) ([]search.Arc, error) {
	var moves []move
	for _, p1 := range g.startPoints() {
		root := g.grid.Index(p1)
		for e1, o1 := range g.conn {
			p2 := p1.Add(o1)
			if !g.open(p2) {
				continue
			}
			for e2, o2 := range g.conn {
				p3 := p2.Add(o2)
				if p3 == p1 || !g.open(p3) {
					continue
				}
				// e carries e1; the second segment offset is recovered from to.
				m := move{to: g.codec.pairID(root, e1, e2), e: e1, n: 3}
				m.win[0], m.win[1], m.win[2] = p1, p2, p3
				moves = append(moves, m)
			}
		}
	}

	return g.price(moves, func(m *move) float64 {
		_, _, e2 := g.codec.unpack(m.to)
		v := m.vecs()
		return g.segment(m.win[0], m.e) +
			g.segment(m.win[1], e2) +
			g.model.Triple(v[0], v[1], v[2])
	}, dst)
}

// IsTerminal reports whether the pair ends in the end region.
func (g *edgePairGraph) IsTerminal(id int64) bool {
	if id < 0 || id >= g.codec.NumStates() {
		return false
	}
	var w [3]grid.Point
	g.codec.window(id, &w)

	return g.end.Has(w[2])
}
