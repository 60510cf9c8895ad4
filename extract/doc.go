// Package extract is the discrete entry point: it validates one query,
// assembles grid, cost model and state graph, runs the search and decodes
// the winning state path into grid points.
//
// Start and end regions are the union of the cells labelled Start/End in
// the mesh and the explicit StartSets/EndSets. The mode is chosen from the
// enabled penalties (see stategraph.SelectMode); torsion on a 2D grid is
// zeroed with a warning.
//
// Errors:
//
//   - ErrInvalidInput: malformed arrays, stencil or weights, out-of-bounds
//     set points, or an empty start region; the underlying grid, cost or
//     stategraph sentinel is wrapped as well.
//   - ErrUnsupported: visit-time recording.
//   - ErrSearchExhausted: no path exists under the selected mode, including
//     an empty end region.
//   - ErrResourceLimit: MaxQueueSize was reached.
//
// Logging goes to the *zap.Logger given by WithLogger (a no-op logger by
// default): Debug for the query summary and timings, Warn for adjusted
// settings.
package extract
