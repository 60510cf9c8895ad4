package stategraph

import (
	"errors"

	"github.com/katalvlaran/curvex/cost"
	"github.com/katalvlaran/curvex/grid"
	"github.com/katalvlaran/curvex/search"
)

// Sentinel errors for state-graph construction and decoding.
var (
	// ErrNilInput indicates a missing mesh, model data term or region.
	ErrNilInput = errors.New("stategraph: mesh, data term, start and end regions are required")
	// ErrNoStart indicates an empty start region.
	ErrNoStart = errors.New("stategraph: start region is empty")
	// ErrNoEnd indicates an empty end region.
	ErrNoEnd = errors.New("stategraph: end region is empty")
	// ErrTooManyStates indicates M·N·O·K^d does not fit in an int64 id.
	ErrTooManyStates = errors.New("stategraph: state space exceeds int64 ids")
	// ErrInvalidState indicates an id outside [0, NumStates) or whose window
	// leaves the grid.
	ErrInvalidState = errors.New("stategraph: invalid state id")
	// ErrSuperSourceInPath indicates Decode was given the super source.
	ErrSuperSourceInPath = errors.New("stategraph: super source must be stripped before decoding")
	// ErrBrokenPath indicates consecutive states whose windows do not overlap.
	ErrBrokenPath = errors.New("stategraph: consecutive states do not share their window")
	// ErrShortPath indicates too few points to encode in the requested mode.
	ErrShortPath = errors.New("stategraph: path too short for mode")
	// ErrNotOnStencil indicates a step that is not a connectivity offset.
	ErrNotOnStencil = errors.New("stategraph: step is not a connectivity offset")
	// ErrUnknownMode indicates a Mode value outside the defined set.
	ErrUnknownMode = errors.New("stategraph: unknown mode")
)

// Mode selects how much trailing path history a state encodes.
type Mode int

const (
	// ModeNode states are single points (length regularization only).
	ModeNode Mode = iota
	// ModeEdge states are directed edges, enabling curvature.
	ModeEdge
	// ModeEdgePair states are two consecutive edges, enabling torsion.
	ModeEdgePair
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeNode:
		return "node"
	case ModeEdge:
		return "edge"
	case ModeEdgePair:
		return "edgepair"
	default:
		return "unknown"
	}
}

// Window is the number of points a state of this mode encodes.
func (m Mode) Window() int {
	return int(m) + 1
}

// SelectMode picks the cheapest mode able to evaluate every enabled term:
// torsion needs edge pairs, curvature needs edges, length needs nodes.
func SelectMode(reg cost.Regularization) Mode {
	switch {
	case reg.Torsion > 0:
		return ModeEdgePair
	case reg.Curvature > 0:
		return ModeEdge
	default:
		return ModeNode
	}
}

// Config carries the read-only inputs of one query.
type Config struct {
	Mesh  *grid.Mesh
	Conn  grid.Connectivity
	Model cost.Model
	Start *grid.Region
	End   *grid.Region
	// Workers > 1 prices the arcs of one expansion concurrently. The arc
	// list is identical to the serial one.
	Workers int
	// SegmentCacheSize > 0 memoises segment costs in an LRU cache.
	SegmentCacheSize int
}

// Provider is the neighbour generator of one mode. It is a search.Graph
// whose ids are decoded by its Codec.
type Provider interface {
	search.Graph
	// Mode reports the history depth.
	Mode() Mode
	// Codec maps ids to point windows and back.
	Codec() *Codec
	// Sources returns the search origins: start points in node mode, the
	// super source otherwise.
	Sources() []int64
}
