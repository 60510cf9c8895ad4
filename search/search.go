package search

import (
	"container/heap"
	"fmt"
	"math"
)

// ShortestPath runs a uniform-cost search from every id in sources until a
// terminal state of g is popped.
//
// Returns:
//
//   - res: path, cost and evaluation count on success. On ErrExhausted and
//     ErrQueueLimit res is still non-nil and carries Evaluations.
//   - err: ErrNilGraph, ErrNoSources, ErrExhausted, ErrQueueLimit,
//     ErrNegativeCost, or an error returned by g.Expand.
//
// Preconditions and validation (in order):
//  1. g must be non-nil (ErrNilGraph).
//  2. sources must be non-empty (ErrNoSources).
//  3. distinct sources must fit under MaxQueueSize (ErrQueueLimit).
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func ShortestPath(g Graph, sources []int64, opts ...Option) (*Result, error) {
	// 1) Build Options
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate call
	if g == nil {
		return nil, ErrNilGraph
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	// 3) Per-query state; nothing outlives this call.
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make(map[int64]float64, 1024),
		prev:    make(map[int64]int64, 1024),
		visited: make(map[int64]struct{}, 1024),
		sources: make(map[int64]struct{}, len(sources)),
		pq:      make(stateQueue, 0, 1024),
	}
	if cfg.VisitOrder {
		r.order = make(map[int64]int, 1024)
	}

	// 4) Seed and run
	if err := r.init(sources); err != nil {
		return r.partial(), err
	}
	target, err := r.process()
	if err != nil {
		return r.partial(), err
	}

	// 5) Reconstruct, strip the super source, return source-to-terminal.
	res := r.partial()
	res.Path = r.path(target)
	res.Cost = r.dist[target]

	return res, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	g           Graph
	options     Options
	dist        map[int64]float64  // best tentative distance per labelled state
	prev        map[int64]int64    // predecessor on the best path
	visited     map[int64]struct{} // settled states
	sources     map[int64]struct{}
	order       map[int64]int // first-reached rank, nil unless requested
	pq          stateQueue
	arcs        []Arc
	evaluations int
}

// label records a new tentative distance for id, enforcing the queue cap
// when id has never been labelled before.
func (r *runner) label(id int64, d float64) error {
	if _, seen := r.dist[id]; !seen {
		if len(r.dist) >= r.options.MaxQueueSize {
			return fmt.Errorf("%w: %d states", ErrQueueLimit, r.options.MaxQueueSize)
		}
		if r.order != nil {
			r.order[id] = len(r.order)
		}
	}
	r.dist[id] = d
	heap.Push(&r.pq, stateItem{id: id, dist: d})

	return nil
}

// init labels every distinct source with distance zero.
func (r *runner) init(sources []int64) error {
	heap.Init(&r.pq)
	for _, s := range sources {
		if _, dup := r.sources[s]; dup {
			continue
		}
		r.sources[s] = struct{}{}
		if err := r.label(s, 0); err != nil {
			return err
		}
	}

	return nil
}

// process pops states in order of increasing distance until a terminal is
// popped (returned) or the frontier empties (ErrExhausted).
func (r *runner) process() (int64, error) {
	for r.pq.Len() > 0 {
		// 1) Pop the minimum; skip stale entries of settled states.
		item := heap.Pop(&r.pq).(stateItem)
		u := item.id
		if _, done := r.visited[u]; done {
			continue
		}
		if item.dist > r.dist[u] {
			continue
		}
		r.visited[u] = struct{}{}

		// 2) A terminal popped with at least one step behind it is optimal.
		if _, isSource := r.sources[u]; !isSource && r.g.IsTerminal(u) {
			return u, nil
		}

		// 3) Expand and relax.
		if err := r.relax(u); err != nil {
			return -1, err
		}
	}

	return -1, ErrExhausted
}

// relax expands u once and improves the labels of its successors.
func (r *runner) relax(u int64) error {
	r.evaluations++

	var err error
	r.arcs, err = r.g.Expand(u, r.arcs[:0])
	if err != nil {
		return fmt.Errorf("search: expanding state %d: %w", u, err)
	}

	du := r.dist[u]
	for _, a := range r.arcs {
		// NaN fails every comparison, so test the positive form.
		if !(a.Cost >= 0) {
			return fmt.Errorf("%w: %d→%d cost=%g", ErrNegativeCost, u, a.To, a.Cost)
		}
		if _, done := r.visited[a.To]; done {
			continue
		}
		nd := du + a.Cost
		if old, ok := r.dist[a.To]; ok && nd >= old {
			continue
		}
		if err := r.label(a.To, nd); err != nil {
			return err
		}
		r.prev[a.To] = u
	}

	return nil
}

// path follows predecessors from target back to its source, drops the
// configured super source and returns the ids in forward order.
func (r *runner) path(target int64) []int64 {
	var rev []int64
	for at := target; ; {
		rev = append(rev, at)
		p, ok := r.prev[at]
		if !ok {
			break
		}
		at = p
	}
	if n := len(rev); n > 0 && rev[n-1] == r.options.StripSource {
		rev = rev[:n-1]
	}
	out := make([]int64, len(rev))
	for i, id := range rev {
		out[len(rev)-1-i] = id
	}

	return out
}

// partial returns the bookkeeping visible even on failure.
func (r *runner) partial() *Result {
	return &Result{
		Cost:        math.Inf(1),
		Evaluations: r.evaluations,
		VisitOrder:  r.order,
	}
}

// stateItem is one heap entry; stale entries stay until popped.
type stateItem struct {
	id   int64
	dist float64
}

// stateQueue is a min-heap of stateItem ordered by distance, then id.
type stateQueue []stateItem

func (pq stateQueue) Len() int { return len(pq) }

func (pq stateQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}

	return pq[i].id < pq[j].id
}

func (pq stateQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *stateQueue) Push(x interface{}) { *pq = append(*pq, x.(stateItem)) }

func (pq *stateQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
