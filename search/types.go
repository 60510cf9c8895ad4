// Package search defines the graph contract, options and sentinel errors
// for the label-setting shortest-path engine.
package search

import (
	"errors"
	"math"
)

// Sentinel errors returned by ShortestPath.
var (
	// ErrNilGraph indicates that a nil Graph was passed.
	ErrNilGraph = errors.New("search: graph is nil")

	// ErrNoSources indicates an empty source list.
	ErrNoSources = errors.New("search: no source states")

	// ErrExhausted indicates the frontier emptied before any terminal state
	// was popped: no feasible path exists.
	ErrExhausted = errors.New("search: no feasible path, frontier exhausted")

	// ErrQueueLimit indicates the number of distinct labelled states would
	// exceed MaxQueueSize.
	ErrQueueLimit = errors.New("search: maximum queue size exceeded")

	// ErrNegativeCost indicates an arc with a negative or NaN cost.
	ErrNegativeCost = errors.New("search: negative arc cost encountered")

	// ErrBadQueueSize indicates MaxQueueSize was set to a non-positive value.
	ErrBadQueueSize = errors.New("search: MaxQueueSize must be positive")
)

// Arc is one outgoing transition of an expanded state.
type Arc struct {
	To   int64   // destination state id
	Cost float64 // non-negative transition cost
}

// Graph is an implicit directed graph whose arcs are generated on demand.
//
// Expand appends the arcs leaving id to dst and returns the extended slice;
// the engine reuses dst between calls. IsTerminal reports whether reaching
// id completes a path.
type Graph interface {
	Expand(id int64, dst []Arc) ([]Arc, error)
	IsTerminal(id int64) bool
}

// Options configures ShortestPath.
//
// MaxQueueSize – cap on distinct states that ever receive a tentative
//
//	distance. Default math.MaxInt (no cap).
//
// VisitOrder   – record the order in which states are first reached.
// StripSource  – state id removed from the head of the returned path
//
//	(the super source of edge-based graphs). Negative disables.
type Options struct {
	MaxQueueSize int
	VisitOrder   bool
	StripSource  int64
}

// Option represents a functional option for configuring ShortestPath.
type Option func(*Options)

// WithMaxQueueSize caps the number of distinct labelled states.
// Panics on a non-positive value.
func WithMaxQueueSize(n int) Option {
	return func(o *Options) {
		if n <= 0 {
			panic(ErrBadQueueSize.Error())
		}
		o.MaxQueueSize = n
	}
}

// WithVisitOrder enables Result.VisitOrder.
func WithVisitOrder() Option {
	return func(o *Options) {
		o.VisitOrder = true
	}
}

// WithStripSource removes id from the head of the returned path.
func WithStripSource(id int64) Option {
	return func(o *Options) {
		o.StripSource = id
	}
}

// DefaultOptions returns Options with no queue cap, no visit recording and
// no source stripping.
func DefaultOptions() Options {
	return Options{
		MaxQueueSize: math.MaxInt,
		VisitOrder:   false,
		StripSource:  -1,
	}
}

// Result is the outcome of one query.
//
// Path runs from a source to the terminal that was popped first. On
// failure Path is nil but Evaluations (and VisitOrder) describe the work
// done before stopping.
type Result struct {
	Path        []int64
	Cost        float64
	Evaluations int
	// VisitOrder maps each reached state to the rank at which it first
	// received a distance. Nil unless WithVisitOrder was given.
	VisitOrder map[int64]int
}
