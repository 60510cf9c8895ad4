// Package curvex extracts curvature- and torsion-regularized curves from 2D
// and 3D cost volumes.
//
// A query asks for the curve from a Start region to an End region that
// minimizes the data cost integrated along the curve plus length, curvature
// and torsion penalties. The discrete stage finds the global optimum over
// grid polylines by running a shortest-path search on a state-expanded
// graph whose states carry the last one, two or three steps. The optional
// continuous stage then moves the interior points off the lattice to lower
// the same energy.
//
// Packages, leaves first:
//
//	grid/        dimensions, connectivity stencils, label meshes, regions
//	cost/        data term line integrals and length/curvature/torsion penalties
//	search/      Dijkstra over an implicit graph with a queue-size cap
//	stategraph/  node, edge and edge-pair state graphs and their id codec
//	extract/     validation and orchestration of one discrete query
//	refine/      continuous refinement on top of gonum/optimize
//	config/      YAML problem and result documents
//	metrics/     Prometheus collectors for queries and refinements
//	cmd/curvex   command-line front end
//
// Quick start:
//
//	res, err := extract.Extract(in, extract.DefaultSettings())
//	if err != nil {
//		// errors.Is(err, extract.ErrSearchExhausted), ...
//	}
//	ref, err := refine.Refine(cost.FromPoints(res.Path), vol, scale, reg)
package curvex
