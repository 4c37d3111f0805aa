// Package tiling enumerates the points of a flat lattice tiling of a
// bounded parameter space.
//
// A Tiling session owns a metric G, a mismatch μ, a lower-triangular lattice
// generator L and a Bounds provider. Setup derives the increment matrix
//
//	increment = D × L × √μ
//
// where the columns of D are the coordinate axes made orthonormal under G
// (see lattice.MetricDirections). Because D and L are both lower triangular,
// increment column j only moves coordinates j and above, which is what lets
// Next treat the point like an odometer: the last dimension turns fastest,
// and each carry into dimension i re-queries the bounds of every dimension
// above i and pulls it back to its lower edge.
//
// Typical use:
//
//	t, _ := tiling.New(2, tiling.WithLogger(logger))
//	_ = t.SetMetric(metric)
//	_ = t.SetMismatch(0.01)
//	_ = t.SetGenerator(generator)
//	_ = t.SetBox(0, 1, 0, 1)
//	if err := t.Setup(); err != nil { ... }
//	for t.Next() {
//		p := t.Point()
//		...
//	}
//	if err := t.Err(); err != nil { ... }
//
// Bounds may depend on the coordinates already fixed (a triangle, an
// ellipse); BoundsFunc adapts a plain function. Box is the axis-aligned case
// and also describes itself for reports (Describer).
//
// Errors: all configuration failures wrap ErrInvalidArgument. A failed Setup
// is permanent for the session.
package tiling
