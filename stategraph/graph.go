package stategraph

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
)

// parallelMin is the smallest arc count worth fanning out to workers.
const parallelMin = 16

// New validates cfg and returns the Provider for mode.
//
// Preconditions and validation (in order):
//  1. Mesh, Model.Data, Start and End are non-nil (ErrNilInput).
//  2. Connectivity is non-empty and ids fit in int64 (NewCodec).
//  3. Start and End regions are non-empty (ErrNoStart, ErrNoEnd).
func New(mode Mode, cfg Config) (Provider, error) {
	if cfg.Mesh == nil || cfg.Model.Data == nil || cfg.Start == nil || cfg.End == nil {
		return nil, ErrNilInput
	}
	codec, err := NewCodec(cfg.Mesh.Grid(), cfg.Conn, mode)
	if err != nil {
		return nil, err
	}
	if cfg.Start.Len() == 0 {
		return nil, ErrNoStart
	}
	if cfg.End.Len() == 0 {
		return nil, ErrNoEnd
	}

	b := &base{
		codec:   codec,
		grid:    cfg.Mesh.Grid(),
		mesh:    cfg.Mesh,
		conn:    cfg.Conn,
		model:   cfg.Model,
		start:   cfg.Start,
		end:     cfg.End,
		workers: cfg.Workers,
	}
	if cfg.SegmentCacheSize > 0 {
		b.cache, err = lru.New[int64, float64](cfg.SegmentCacheSize)
		if err != nil {
			return nil, fmt.Errorf("stategraph: segment cache: %w", err)
		}
	}

	switch mode {
	case ModeNode:
		return &nodeGraph{b}, nil
	case ModeEdge:
		return &edgeGraph{b}, nil
	default:
		return &edgePairGraph{b}, nil
	}
}

// base holds what every mode shares: the read-only inputs and the helpers
// that price segments.
type base struct {
	codec   *Codec
	grid    *grid.Grid
	mesh    *grid.Mesh
	conn    grid.Connectivity
	model   cost.Model
	start   *grid.Region
	end     *grid.Region
	workers int
	cache   *lru.Cache[int64, float64]
}

func (b *base) Codec() *Codec { return b.codec }

func (b *base) Mode() Mode { return b.codec.mode }

// open reports whether a path may step onto p.
func (b *base) open(p grid.Point) bool {
	return b.grid.InBounds(p) && b.mesh.Traversable(p)
}

// startPoints lists traversable start cells in index order.
func (b *base) startPoints() []grid.Point {
	pts := b.start.Points()
	out := pts[:0]
	for _, p := range pts {
		if b.mesh.Traversable(p) {
			out = append(out, p)
		}
	}

	return out
}

// segment returns data + length for the step from p along offset e.
func (b *base) segment(p grid.Point, e int) float64 {
	if b.cache == nil {
		return b.model.Segment(cost.FromPoint(p), cost.FromPoint(p.Add(b.conn[e])))
	}
	key := int64(b.grid.Index(p))*b.codec.k + int64(e)
	if v, ok := b.cache.Get(key); ok {
		return v
	}
	v := b.model.Segment(cost.FromPoint(p), cost.FromPoint(p.Add(b.conn[e])))
	b.cache.Add(key, v)

	return v
}

// move is a candidate transition whose cost is computed by price.
type move struct {
	to  int64
	e   int           // offset of the newest segment
	win [4]grid.Point // oldest first; only the first n are meaningful
	n   int
}

// price appends one arc per move, in move order, costing each with fn.
// With workers > 1 the costs are computed concurrently into fixed slots.
// A negative or NaN cost fails the whole expansion with
// search.ErrNegativeCost and leaves dst unchanged.
func (b *base) price(moves []move, fn func(m *move) float64, dst []search.Arc) ([]search.Arc, error) {
	costs := make([]float64, len(moves))
	one := func(i int) error {
		c := fn(&moves[i])
		if !(c >= 0) {
			return fmt.Errorf("%w: arc to state %d cost=%g", search.ErrNegativeCost, moves[i].to, c)
		}
		costs[i] = c
		return nil
	}

	// 1) Cost every move, concurrently for large fan-outs.
	if b.workers > 1 && len(moves) >= parallelMin {
		var eg errgroup.Group
		eg.SetLimit(b.workers)
		for i := range moves {
			eg.Go(func() error { return one(i) })
		}
		if err := eg.Wait(); err != nil {
			return dst, err
		}
	} else {
		for i := range moves {
			if err := one(i); err != nil {
				return dst, err
			}
		}
	}

	// 2) Emit arcs in move order so the result never depends on scheduling.
	for i := range moves {
		dst = append(dst, search.Arc{To: moves[i].to, Cost: costs[i]})
	}

	return dst, nil
}

// vecs converts the meaningful part of a move window.
func (m *move) vecs() [4]cost.Vec {
	var v [4]cost.Vec
	for i := 0; i < m.n; i++ {
		v[i] = cost.FromPoint(m.win[i])
	}

	return v
}
