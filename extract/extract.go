package extract

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
	"github.com/katalvlaran/curvex/stategraph"
)

// Extract finds the minimum-energy curve from the start region to the end
// region of in.
//
// Steps:
//  1. Validate (torsion on a 2D grid is zeroed and logged at Warn).
//  2. Build grid, mesh, volume, stencil, regions and cost model.
//  3. Select the mode from the enabled penalties.
//  4. Short-circuit to ErrSearchExhausted when the end region is empty or
//     no end cell is reachable at all through traversable cells. An empty
//     start region is ErrInvalidInput.
//  5. Search the state graph and decode the state path into points.
//
// On ErrSearchExhausted and ErrResourceLimit the returned Result is non-nil
// and carries Mode, Connectivity, Evaluations and RunTime.
func Extract(in Input, s Settings, opts ...Option) (*Result, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log

	// 1) Validate
	adjusted, err := Validate(in, s)
	if err != nil {
		return nil, err
	}
	if adjusted.Regularization.Torsion != s.Regularization.Torsion {
		log.Warn("torsion is not defined on a 2D grid; ignoring torsion penalty",
			zap.Float64("torsion", s.Regularization.Torsion))
	}
	s = adjusted

	// 2) Build
	began := time.Now()
	q, err := build(in, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	mode := stategraph.SelectMode(s.Regularization)
	k := q.conn.Len()
	reg := s.Regularization
	log.Debug("curve extraction",
		zap.Stringer("mode", mode),
		zap.Int("connectivity", k),
		zap.Float64("length_penalty", reg.Length),
		zap.Float64("curvature_penalty", reg.Curvature),
		zap.Float64("curvature_power", reg.CurvaturePower),
		zap.Float64("torsion_penalty", reg.Torsion),
		zap.Float64("torsion_power", reg.TorsionPower),
		zap.Int("start_cells", q.start.Len()),
		zap.Int("end_cells", q.end.Len()),
	)

	res, err := run(q, s, mode)
	res.RunTime = time.Since(began)
	if o.observer != nil {
		o.observer.ObserveExtract(mode, outcomeOf(err), res.Evaluations, res.RunTime)
	}
	if err != nil {
		log.Debug("curve extraction failed",
			zap.Error(err),
			zap.Int("evaluations", res.Evaluations),
			zap.Duration("run_time", res.RunTime))
		return res, err
	}
	log.Debug("curve extraction finished",
		zap.Int("points", len(res.Path)),
		zap.Float64("cost", res.Cost),
		zap.Int("evaluations", res.Evaluations),
		zap.Duration("run_time", res.RunTime))

	return res, nil
}

// run performs steps 4 and 5 of Extract. The returned Result is never nil.
func run(q *query, s Settings, mode stategraph.Mode) (*Result, error) {
	out := failed(mode, q.conn.Len())

	if q.start.Len() == 0 {
		return out, fmt.Errorf("%w: %w", ErrInvalidInput, stategraph.ErrNoStart)
	}
	// An empty end region is a query without a solution, not a bad input.
	if q.end.Len() == 0 {
		return out, fmt.Errorf("%w: %w", ErrSearchExhausted, stategraph.ErrNoEnd)
	}
	if !grid.Reachable(q.mesh, q.conn, q.start, q.end) {
		return out, fmt.Errorf("%w: end region unreachable from start region", ErrSearchExhausted)
	}

	provider, err := stategraph.New(mode, stategraph.Config{
		Mesh:             q.mesh,
		Conn:             q.conn,
		Model:            q.model,
		Start:            q.start,
		End:              q.end,
		Workers:          s.Threads,
		SegmentCacheSize: s.SegmentCacheSize,
	})
	if err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	sopts := []search.Option{search.WithMaxQueueSize(s.MaxQueueSize)}
	if mode != stategraph.ModeNode {
		sopts = append(sopts, search.WithStripSource(provider.Codec().SuperSource()))
	}
	sr, err := search.ShortestPath(provider, provider.Sources(), sopts...)
	if sr != nil {
		out.Evaluations = sr.Evaluations
	}
	if err != nil {
		return out, err
	}

	path, err := provider.Codec().Decode(sr.Path)
	if err != nil {
		return out, err
	}
	out.Path = path
	out.Cost = sr.Cost

	return out, nil
}

// PathCost evaluates the energy of path under the model of in and s, with
// the same torsion adjustment as Extract.
func PathCost(in Input, s Settings, path []grid.Point) (float64, error) {
	s, err := Validate(in, s)
	if err != nil {
		return 0, err
	}
	q, err := build(in, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return q.model.PathCost(cost.FromPoints(path)), nil
}
