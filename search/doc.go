// Package search implements a uniform-cost (Dijkstra) search over implicit,
// lazily expanded graphs with non-negative arc costs.
//
// Overview:
//
//   - The graph is never materialised: the engine asks Graph.Expand for the
//     arcs of each state as it is settled.
//   - Several sources start at distance zero (or a single super source is
//     used by the caller and stripped from the returned path).
//   - The search stops the instant a terminal state is popped as the
//     current minimum, which is optimal because every arc cost is ≥ 0.
//     Sources themselves are never accepted as terminals, so a returned
//     path always holds at least two states.
//   - MaxQueueSize bounds the number of distinct states that ever receive a
//     tentative distance; crossing it fails with ErrQueueLimit, which is
//     distinct from ErrExhausted (no terminal reachable).
//
// Determinism:
//
//   - Heap ties are broken by state id, so for a deterministic Graph the
//     path, the cost and the evaluation count are identical across runs.
//   - Evaluations counts states popped and expanded, once each.
//
// Performance and complexity:
//
//   - Time:  O((V + E) log V) over the states actually reached.
//   - Space: O(V + E) for the sparse distance, predecessor and visited maps
//     and the lazy heap.
//
// Error handling (sentinel errors):
//
//   - ErrNilGraph, ErrNoSources: invalid call.
//   - ErrExhausted: the frontier emptied.
//   - ErrQueueLimit: resource cap hit.
//   - ErrNegativeCost: the graph produced a negative or NaN arc.
//   - ErrBadQueueSize: raised via panic by WithMaxQueueSize.
//
// Thread safety:
//
//   - Every call owns its own labels and frontier; concurrent calls over the
//     same read-only Graph are safe if the Graph's Expand is.
package search
