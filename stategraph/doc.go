// Package stategraph builds the implicit, state-expanded graph that turns
// curvature- and torsion-regularized curve extraction into a plain
// shortest-path problem.
//
// What:
//
//   - A state encodes the last 1, 2 or 3 points of a partial path (Mode).
//     With that history every arc can be priced exactly: data and length in
//     all modes, curvature from ModeEdge on, torsion in ModeEdgePair.
//   - Codec maps state ids to point windows and back; Decode turns the
//     state path found by package search into a point sequence.
//   - Provider implements search.Graph for one mode. Edge modes add a super
//     source whose arcs enter every valid first window at the start region.
//
// Rules shared by every mode:
//
//   - A move may only land on in-bounds, non-Disallowed cells.
//   - Edge modes reject immediate reversals (p, q, p), and ModeEdgePair
//     also rejects p4 == p2.
//   - A state is terminal when its newest point lies in the end region.
//
// Concurrency:
//
//   - A Provider is read-only after New. With Config.Workers > 1 the arcs
//     of a large expansion are priced by an errgroup; arc order is fixed by
//     slot, so results match the serial provider exactly.
//   - Config.SegmentCacheSize enables a thread-safe LRU of segment costs
//     keyed by (start index, offset).
//
// Errors:
//
//   - ErrNilInput, ErrNoStart, ErrNoEnd: New validation.
//   - ErrTooManyStates, ErrUnknownMode: codec construction.
//   - ErrInvalidState, ErrSuperSourceInPath, ErrBrokenPath: decoding.
//   - ErrShortPath, ErrNotOnStencil: encoding.
package stategraph
