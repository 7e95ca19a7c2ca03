package texword

import (
	"fmt"
	"strings"
)

// Warning describes a non-fatal problem encountered during conversion.
// The pipeline degrades rather than aborts where it can: a figure that
// fails to rasterize becomes a placeholder, a missing include is left in
// place for the converter. Each such decision is reported as a Warning.
type Warning struct {
	// Stage names the pipeline stage that produced the warning, e.g.
	// "resolve", "figures", "classify".
	Stage string

	// Code is a short machine-readable identifier, e.g. "missing-input",
	// "raster-failed".
	Code string

	// Message is the human-readable description.
	Message string

	// Err is the underlying error, when one exists.
	Err error
}

// String returns a single-line rendering of the warning.
func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", w.Stage, w.Code, w.Message, w.Err)
	}
	return fmt.Sprintf("[%s/%s] %s", w.Stage, w.Code, w.Message)
}

// FormatWarnings renders a warning list one per line for display.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
