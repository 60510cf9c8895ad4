package extract

import (
	"errors"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
	"github.com/katalvlaran/curvex/stategraph"
)

// Sentinel errors for query validation and outcome.
var (
	// ErrInvalidInput wraps any malformed array, stencil, region or weight.
	ErrInvalidInput = errors.New("extract: invalid input")
	// ErrUnsupported indicates a requested feature that is rejected before
	// any search work.
	ErrUnsupported = errors.New("extract: unsupported configuration")
	// ErrSearchExhausted indicates no end cell is reachable under the rules
	// of the selected mode.
	ErrSearchExhausted = search.ErrExhausted
	// ErrResourceLimit indicates the queue cap was reached.
	ErrResourceLimit = search.ErrQueueLimit
)

// DefaultMaxQueueSize bounds the number of labelled states per query.
const DefaultMaxQueueSize = 1_000_000_000

// Input holds the flat arrays of one query, x fastest.
type Input struct {
	// Dims is (M, N, O); O == 1 for 2D problems.
	Dims [3]int
	// Mesh holds one label per cell: 0 disallowed, 1 allowed, 2 start, 3 end.
	Mesh []int
	// Unary is the non-negative data cost of each cell.
	Unary []float64
	// Connectivity lists the legal one-hop (dx, dy, dz) offsets.
	Connectivity [][3]int
}

// Settings are the tunables of one query.
type Settings struct {
	Regularization cost.Regularization
	VoxelDims      cost.Scale
	// StartSets and EndSets add points to the regions given by the mesh.
	StartSets [][]grid.Point
	EndSets   [][]grid.Point
	// Threads > 1 prices arcs concurrently; the result is unchanged.
	Threads        int
	MaxQueueSize   int
	StoreVisitTime bool
	Verbose        bool
	// SegmentCacheSize > 0 memoises segment costs.
	SegmentCacheSize int
}

// DefaultSettings returns unit voxels, squared curvature and torsion, no
// penalties and a queue cap of DefaultMaxQueueSize.
func DefaultSettings() Settings {
	return Settings{
		Regularization: cost.DefaultRegularization(),
		VoxelDims:      cost.UnitScale(),
		Threads:        1,
		MaxQueueSize:   DefaultMaxQueueSize,
	}
}

// Result is the outcome of one discrete search.
type Result struct {
	Path        []grid.Point
	Cost        float64
	RunTime     time.Duration
	Evaluations int
	Mode        stategraph.Mode
	// Connectivity is the stencil size K.
	Connectivity int
}

func failed(mode stategraph.Mode, k int) *Result {
	return &Result{Cost: math.Inf(1), Mode: mode, Connectivity: k}
}

// Outcome classifies a finished query for observers.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeExhausted  Outcome = "exhausted"
	OutcomeQueueLimit Outcome = "queue_limit"
	OutcomeError      Outcome = "error"
)

// outcomeOf maps a search error to its Outcome.
func outcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrSearchExhausted):
		return OutcomeExhausted
	case errors.Is(err, ErrResourceLimit):
		return OutcomeQueueLimit
	default:
		return OutcomeError
	}
}

// Observer receives one call per finished search.
type Observer interface {
	ObserveExtract(mode stategraph.Mode, outcome Outcome, evaluations int, elapsed time.Duration)
}

// Option configures Extract.
type Option func(*options)

type options struct {
	log      *zap.Logger
	observer Observer
}

// WithLogger sets the logger; nil panics.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("extract: WithLogger(nil)")
	}

	return func(o *options) { o.log = l }
}

// WithObserver registers o to receive the query outcome.
func WithObserver(o Observer) Option {
	return func(opts *options) { opts.observer = o }
}
