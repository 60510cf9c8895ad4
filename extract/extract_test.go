package extract_test

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/curvex/extract"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/stategraph"
)

// problem builds an m×n×o input with every cell Allowed, the given unary
// field and stencil, start at the origin and end at the far corner.
func problem(t *testing.T, m, n, o int, kind grid.StencilKind, unary func(grid.Point) float64) extract.Input {
	t.Helper()
	g, err := grid.New(m, n, o)
	require.NoError(t, err)
	conn, err := grid.Stencil(kind)
	require.NoError(t, err)
	in := extract.Input{
		Dims:         [3]int{m, n, o},
		Mesh:         make([]int, g.Size()),
		Unary:        make([]float64, g.Size()),
		Connectivity: conn.Triples(),
	}
	for i := range in.Mesh {
		in.Mesh[i] = int(grid.Allowed)
		in.Unary[i] = unary(g.Point(i))
	}
	in.Mesh[0] = int(grid.Start)
	in.Mesh[g.Size()-1] = int(grid.End)

	return in
}

func ones(grid.Point) float64 { return 1 }

func settings(length, curvature, torsion float64) extract.Settings {
	s := extract.DefaultSettings()
	s.Regularization.Length = length
	s.Regularization.Curvature = curvature
	s.Regularization.Torsion = torsion

	return s
}

// TestScenarioManhattan: 5×5, unit unary, 4-neighbourhood, no penalties.
func TestScenarioManhattan(t *testing.T) {
	in := problem(t, 5, 5, 1, grid.Conn4, ones)

	res, err := extract.Extract(in, settings(0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, stategraph.ModeNode, res.Mode)
	require.Equal(t, 4, res.Connectivity)
	require.Len(t, res.Path, 9)
	require.Equal(t, grid.Point{}, res.Path[0])
	require.Equal(t, grid.Point{X: 4, Y: 4}, res.Path[8])
	require.InDelta(t, 8.0, res.Cost, 1e-9)

	// A unit length penalty adds one per unit step.
	res, err = extract.Extract(in, settings(1, 0, 0))
	require.NoError(t, err)
	require.Len(t, res.Path, 9)
	require.InDelta(t, 16.0, res.Cost, 1e-9)
}

// TestScenarioDiagonal: with diagonals and curvature the straight diagonal
// beats the Manhattan staircase.
func TestScenarioDiagonal(t *testing.T) {
	in := problem(t, 5, 5, 1, grid.Conn8, ones)
	s := settings(1, 1, 0)

	res, err := extract.Extract(in, s)
	require.NoError(t, err)
	require.Equal(t, stategraph.ModeEdge, res.Mode)

	manhattan := []grid.Point{{}, {X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 4, Y: 1}, {X: 4, Y: 2}, {X: 4, Y: 3}, {X: 4, Y: 4}}
	ref, err := extract.PathCost(in, s, manhattan)
	require.NoError(t, err)
	require.LessOrEqual(t, res.Cost, ref)

	diagonal := []grid.Point{{}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}, {X: 4, Y: 4}}
	if diff := cmp.Diff(diagonal, res.Path); diff != "" {
		t.Fatalf("path (-want +got):\n%s", diff)
	}
	require.InDelta(t, 8*math.Sqrt2, res.Cost, 1e-9)
}

// TestScenarioQueueLimit: a cap of one state fails before any end is found.
func TestScenarioQueueLimit(t *testing.T) {
	in := problem(t, 5, 5, 1, grid.Conn4, ones)
	for _, s := range []extract.Settings{settings(0, 0, 0), settings(1, 1, 0)} {
		s.MaxQueueSize = 1
		res, err := extract.Extract(in, s)
		require.ErrorIs(t, err, extract.ErrResourceLimit)
		require.NotErrorIs(t, err, extract.ErrSearchExhausted)
		require.NotNil(t, res)
		require.Nil(t, res.Path)
	}
}

// TestAllDisallowed: a lone start cell and a walled-off end.
func TestAllDisallowed(t *testing.T) {
	in := problem(t, 4, 4, 1, grid.Conn8, ones)
	for i := range in.Mesh {
		in.Mesh[i] = int(grid.Disallowed)
	}
	in.Mesh[5] = int(grid.Start)
	s := settings(1, 1, 0)
	s.EndSets = [][]grid.Point{{{X: 3, Y: 3}}}

	res, err := extract.Extract(in, s)
	require.ErrorIs(t, err, extract.ErrSearchExhausted)
	require.NotNil(t, res)
	require.Empty(t, res.Path)
	require.True(t, math.IsInf(res.Cost, 1))
}

// TestAllDisallowed_NoEnd: every cell Disallowed except one Start cell and
// no end anywhere; the query has no solution.
func TestAllDisallowed_NoEnd(t *testing.T) {
	in := extract.Input{
		Dims:         [3]int{3, 3, 1},
		Mesh:         []int{0, 0, 0, 0, 2, 0, 0, 0, 0},
		Unary:        make([]float64, 9),
		Connectivity: mustStencil(t, grid.Conn8),
	}
	for _, s := range []extract.Settings{extract.DefaultSettings(), settings(1, 1, 0)} {
		res, err := extract.Extract(in, s)
		require.ErrorIs(t, err, extract.ErrSearchExhausted)
		require.NotErrorIs(t, err, extract.ErrInvalidInput)
		require.NotNil(t, res)
		require.Empty(t, res.Path)
	}

	// A missing start stays an input error.
	in.Mesh[4] = int(grid.Disallowed)
	_, err := extract.Extract(in, extract.DefaultSettings())
	require.ErrorIs(t, err, extract.ErrInvalidInput)
	require.ErrorIs(t, err, stategraph.ErrNoStart)
}

func mustStencil(t *testing.T, kind grid.StencilKind) [][3]int {
	t.Helper()
	conn, err := grid.Stencil(kind)
	require.NoError(t, err)

	return conn.Triples()
}

// TestExhaustedByReversal: in a three-cell corridor the only way back to
// the start is an immediate reversal, which edge mode forbids.
func TestExhaustedByReversal(t *testing.T) {
	in := extract.Input{
		Dims:         [3]int{3, 1, 1},
		Mesh:         []int{1, 2, 1},
		Unary:        []float64{1, 1, 1},
		Connectivity: [][3]int{{-1, 0, 0}, {1, 0, 0}},
	}
	s := settings(0, 1, 0)
	s.EndSets = [][]grid.Point{{{X: 1}}}

	res, err := extract.Extract(in, s)
	require.ErrorIs(t, err, extract.ErrSearchExhausted)
	require.Positive(t, res.Evaluations)

	// Node mode never re-enters a settled source.
	s = settings(0, 0, 0)
	s.EndSets = [][]grid.Point{{{X: 1}}}
	_, err = extract.Extract(in, s)
	require.ErrorIs(t, err, extract.ErrSearchExhausted)

	// Without EndSets the mesh has no end cell at all.
	res, err = extract.Extract(in, settings(0, 0, 0))
	require.ErrorIs(t, err, extract.ErrSearchExhausted)
	require.NotErrorIs(t, err, extract.ErrInvalidInput)
	require.NotNil(t, res)
	require.Empty(t, res.Path)
}

// TestNodeModeMatchesReference compares node mode with a plain relaxation
// over the explicit grid graph on random unary fields.
func TestNodeModeMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 5; trial++ {
		in := problem(t, 7, 6, 1, grid.Conn8, func(grid.Point) float64 { return rng.Float64() * 5 })
		s := settings(0.5, 0, 0)
		res, err := extract.Extract(in, s)
		require.NoError(t, err)

		want := referenceCost(t, in, s)
		require.InDelta(t, want, res.Cost, 1e-9, "trial %d", trial)

		got, err := extract.PathCost(in, s, res.Path)
		require.NoError(t, err)
		require.InDelta(t, res.Cost, got, 1e-9)
	}
}

// referenceCost runs Bellman-Ford over every grid edge, pricing each edge
// with PathCost of its two endpoints.
func referenceCost(t *testing.T, in extract.Input, s extract.Settings) float64 {
	t.Helper()
	g, err := grid.New(in.Dims[0], in.Dims[1], in.Dims[2])
	require.NoError(t, err)
	conn, err := grid.NewConnectivity(in.Connectivity)
	require.NoError(t, err)

	dist := make([]float64, g.Size())
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[0] = 0
	for changed := true; changed; {
		changed = false
		for i := range dist {
			if math.IsInf(dist[i], 1) {
				continue
			}
			p := g.Point(i)
			for _, off := range conn {
				q := p.Add(off)
				if !g.InBounds(q) {
					continue
				}
				w, err := extract.PathCost(in, s, []grid.Point{p, q})
				require.NoError(t, err)
				if j := g.Index(q); dist[i]+w < dist[j]-1e-12 {
					dist[j] = dist[i] + w
					changed = true
				}
			}
		}
	}

	return dist[g.Size()-1]
}

// TestReportedCostMatchesPathCost holds in every mode, 3D included.
func TestReportedCostMatchesPathCost(t *testing.T) {
	unary := func(p grid.Point) float64 { return 1 + float64((p.X*7+p.Y*3+p.Z*5)%4) }
	in := problem(t, 4, 4, 3, grid.Conn26, unary)
	for _, s := range []extract.Settings{settings(1, 0, 0), settings(1, 2, 0), settings(1, 2, 1)} {
		res, err := extract.Extract(in, s)
		require.NoError(t, err)
		require.Equal(t, stategraph.SelectMode(s.Regularization), res.Mode)
		got, err := extract.PathCost(in, s, res.Path)
		require.NoError(t, err)
		require.InDelta(t, got, res.Cost, 1e-9, res.Mode.String())
	}
}

func TestDeterminism(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	in := problem(t, 8, 8, 1, grid.Conn8, func(grid.Point) float64 { return float64(rng.Intn(3)) })
	s := settings(1, 1, 0)
	first, err := extract.Extract(in, s)
	require.NoError(t, err)

	s.Threads = 4
	s.SegmentCacheSize = 128
	for i := 0; i < 3; i++ {
		again, err := extract.Extract(in, s)
		require.NoError(t, err)
		require.Equal(t, first.Path, again.Path)
		require.Equal(t, first.Cost, again.Cost)
		require.Equal(t, first.Evaluations, again.Evaluations)
	}
}

// TestPenaltyMonotone: raising one weight never lowers the optimum.
func TestPenaltyMonotone(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	in := problem(t, 6, 6, 1, grid.Conn8, func(grid.Point) float64 { return rng.Float64() })
	prev := 0.0
	for _, c := range []float64{0.1, 0.5, 1, 4} {
		res, err := extract.Extract(in, settings(1, c, 0))
		require.NoError(t, err)
		require.GreaterOrEqual(t, res.Cost, prev-1e-12)
		prev = res.Cost
	}
}

func TestValidate(t *testing.T) {
	in := problem(t, 3, 3, 1, grid.Conn4, ones)

	cases := []struct {
		name  string
		edit  func(*extract.Input, *extract.Settings)
		want  error
		under error
	}{
		{"visit time", func(_ *extract.Input, s *extract.Settings) { s.StoreVisitTime = true }, extract.ErrUnsupported, nil},
		{"dims", func(in *extract.Input, _ *extract.Settings) { in.Dims = [3]int{3, 0, 1} }, extract.ErrInvalidInput, grid.ErrEmptyGrid},
		{"mesh size", func(in *extract.Input, _ *extract.Settings) { in.Mesh = in.Mesh[:4] }, extract.ErrInvalidInput, grid.ErrDimensionMismatch},
		{"unary size", func(in *extract.Input, _ *extract.Settings) { in.Unary = nil }, extract.ErrInvalidInput, grid.ErrDimensionMismatch},
		{"unary negative", func(in *extract.Input, _ *extract.Settings) { in.Unary = []float64{1, 1, 1, 1, -1, 1, 1, 1, 1} }, extract.ErrInvalidInput, nil},
		{"zero offset", func(in *extract.Input, _ *extract.Settings) { in.Connectivity = [][3]int{{0, 0, 0}} }, extract.ErrInvalidInput, grid.ErrZeroOffset},
		{"voxel", func(_ *extract.Input, s *extract.Settings) { s.VoxelDims[2] = 0 }, extract.ErrInvalidInput, nil},
		{"penalty", func(_ *extract.Input, s *extract.Settings) { s.Regularization.Length = -1 }, extract.ErrInvalidInput, nil},
		{"queue", func(_ *extract.Input, s *extract.Settings) { s.MaxQueueSize = 0 }, extract.ErrInvalidInput, nil},
		{"start set", func(_ *extract.Input, s *extract.Settings) { s.StartSets = [][]grid.Point{{{X: 3}}} }, extract.ErrInvalidInput, grid.ErrOutOfBounds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cin := in
			cin.Mesh = append([]int(nil), in.Mesh...)
			s := extract.DefaultSettings()
			tc.edit(&cin, &s)
			_, err := extract.Validate(cin, s)
			require.ErrorIs(t, err, tc.want)
			if tc.under != nil {
				require.ErrorIs(t, err, tc.under)
			}
			_, err = extract.Extract(cin, s)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// TestTorsion2DDowngrade zeroes torsion on planar grids and logs it.
func TestTorsion2DDowngrade(t *testing.T) {
	in := problem(t, 4, 4, 1, grid.Conn8, ones)
	s := settings(1, 1, 3)

	adjusted, err := extract.Validate(in, s)
	require.NoError(t, err)
	require.Zero(t, adjusted.Regularization.Torsion)

	core, logs := observer.New(zapcore.WarnLevel)
	res, err := extract.Extract(in, s, extract.WithLogger(zap.New(core)))
	require.NoError(t, err)
	require.Equal(t, stategraph.ModeEdge, res.Mode)
	require.Equal(t, 1, logs.FilterMessageSnippet("torsion").Len())
}

type recorder struct {
	modes    []stategraph.Mode
	outcomes []extract.Outcome
}

func (r *recorder) ObserveExtract(mode stategraph.Mode, outcome extract.Outcome, _ int, _ time.Duration) {
	r.modes = append(r.modes, mode)
	r.outcomes = append(r.outcomes, outcome)
}

func TestObserver(t *testing.T) {
	in := problem(t, 5, 5, 1, grid.Conn4, ones)
	rec := &recorder{}

	_, err := extract.Extract(in, settings(1, 0, 0), extract.WithObserver(rec))
	require.NoError(t, err)
	s := settings(1, 1, 0)
	s.MaxQueueSize = 1
	_, err = extract.Extract(in, s, extract.WithObserver(rec))
	require.Error(t, err)

	require.Equal(t, []stategraph.Mode{stategraph.ModeNode, stategraph.ModeEdge}, rec.modes)
	require.Equal(t, []extract.Outcome{extract.OutcomeSuccess, extract.OutcomeQueueLimit}, rec.outcomes)
	require.Panics(t, func() { extract.WithLogger(nil) })
}
