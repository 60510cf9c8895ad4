package extract

import (
	"fmt"
	"math"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
)

// Validate checks in and s eagerly and returns the settings that will
// actually run. The only adjustment is torsion on a 2D grid, which is
// zeroed because four planar points have no torsion.
//
// Errors wrap ErrInvalidInput (with the grid or cost sentinel underneath)
// or ErrUnsupported.
func Validate(in Input, s Settings) (Settings, error) {
	if s.StoreVisitTime {
		return s, fmt.Errorf("%w: visit-time recording", ErrUnsupported)
	}
	g, err := grid.New(in.Dims[0], in.Dims[1], in.Dims[2])
	if err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := grid.NewMesh(g, in.Mesh); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if len(in.Unary) != g.Size() {
		return s, fmt.Errorf("%w: %w: unary has %d cells, grid %d",
			ErrInvalidInput, grid.ErrDimensionMismatch, len(in.Unary), g.Size())
	}
	for i, v := range in.Unary {
		if !(v >= 0) || math.IsInf(v, 1) {
			return s, fmt.Errorf("%w: unary %g at %v must be finite and non-negative", ErrInvalidInput, v, g.Point(i))
		}
	}
	if _, err := grid.NewConnectivity(in.Connectivity); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.VoxelDims.Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.Regularization.Validate(); err != nil {
		return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if s.MaxQueueSize <= 0 {
		return s, fmt.Errorf("%w: maximum queue size %d", ErrInvalidInput, s.MaxQueueSize)
	}
	if s.Threads < 0 {
		return s, fmt.Errorf("%w: threads %d", ErrInvalidInput, s.Threads)
	}
	for _, sets := range [][][]grid.Point{s.StartSets, s.EndSets} {
		for _, set := range sets {
			for _, p := range set {
				if err := g.Check(p); err != nil {
					return s, fmt.Errorf("%w: %w", ErrInvalidInput, err)
				}
			}
		}
	}

	if g.Is2D() && s.Regularization.Torsion > 0 {
		s.Regularization.Torsion = 0
	}

	return s, nil
}

// query is the per-call context built from validated input.
type query struct {
	grid  *grid.Grid
	mesh  *grid.Mesh
	vol   *grid.Volume
	conn  grid.Connectivity
	start *grid.Region
	end   *grid.Region
	model cost.Model
}

// build assembles the query context. in and s must be valid.
func build(in Input, s Settings) (*query, error) {
	g, err := grid.New(in.Dims[0], in.Dims[1], in.Dims[2])
	if err != nil {
		return nil, err
	}
	mesh, err := grid.NewMesh(g, in.Mesh)
	if err != nil {
		return nil, err
	}
	vol, err := grid.NewVolume(g, in.Unary)
	if err != nil {
		return nil, err
	}
	conn, err := grid.NewConnectivity(in.Connectivity)
	if err != nil {
		return nil, err
	}
	start, err := region(g, mesh.Collect(grid.Start), s.StartSets)
	if err != nil {
		return nil, err
	}
	end, err := region(g, mesh.Collect(grid.End), s.EndSets)
	if err != nil {
		return nil, err
	}

	return &query{
		grid:  g,
		mesh:  mesh,
		vol:   vol,
		conn:  conn,
		start: start,
		end:   end,
		model: cost.NewModel(vol, s.VoxelDims, s.Regularization),
	}, nil
}

// region is the union of labelled cells and explicit point sets.
func region(g *grid.Grid, labelled []grid.Point, sets [][]grid.Point) (*grid.Region, error) {
	r := grid.NewRegion(g)
	for _, p := range labelled {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	for _, set := range sets {
		for _, p := range set {
			if err := r.Add(p); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}
