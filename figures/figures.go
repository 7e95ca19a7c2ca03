package figures

import (
	"fmt"

	"github.com/tsawler/texword/format"
)

// Region is an optional bounding region within a multi-figure source,
// in source points (1/72 inch).
type Region struct {
	X0, Y0, X1, Y1 float64
}

// String returns a stable textual form used in cache keys.
func (r *Region) String() string {
	if r == nil {
		return "full"
	}
	return fmt.Sprintf("%g,%g,%g,%g", r.X0, r.Y0, r.X1, r.Y1)
}

// Ref is a single figure reference found in the markup.
type Ref struct {
	Path   string  // resolved source file path
	Region *Region // nil for the whole first page
	DPI    int
}

// cacheKey is the content address of a materialized figure.
func (r Ref) cacheKey() string {
	return r.Path + "|" + r.Region.String() + "|" + fmt.Sprint(r.DPI)
}

// RasterError reports a reference that could not be materialized. It is
// recoverable: the reference is rewritten to a placeholder and the run
// continues.
type RasterError struct {
	Source string
	Err    error
}

func (e *RasterError) Error() string {
	return fmt.Sprintf("rasterizing %s: %v", e.Source, e.Err)
}

func (e *RasterError) Unwrap() error { return e.Err }

// isRaster reports whether the path points at an already-raster source
// that only needs copying into the work directory.
func isRaster(path string) bool {
	return format.Detect(path).IsRaster()
}
