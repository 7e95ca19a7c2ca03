// Package figures locates non-raster figure references in normalized
// markup, rasterizes them through an external rasterizer, and rewrites
// each reference to point at the produced asset.
//
// Materialization is content-addressed: two references with the same
// (source path, region, resolution) resolve to the same asset within a
// run, so repeated figures are rasterized once and stay visually
// identical. Failures are per-reference — an unreadable or unsupported
// source substitutes a placeholder image and the run continues.
//
//	m := figures.NewMaterializer(rasterizer, baseDir, workDir)
//	out, failures := m.Materialize(ctx, markup)
//
// Independent references are pure functions of their own inputs and are
// processed concurrently, bounded by WithWorkers.
package figures
