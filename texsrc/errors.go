package texsrc

import (
	"fmt"
	"strings"
)

// CyclicInclusionError reports a cycle in the inclusion graph. Resolution
// cannot produce a stream when the graph is cyclic.
type CyclicInclusionError struct {
	// Cycle lists the unit names along the cycle, ending with the unit
	// that closed it.
	Cycle []string
}

func (e *CyclicInclusionError) Error() string {
	return fmt.Sprintf("cyclic inclusion: %s", strings.Join(e.Cycle, " -> "))
}

// InclusionDepthError reports an inclusion chain deeper than the
// resolver's limit. The graph may still be acyclic; true cycles are
// reported as CyclicInclusionError instead.
type InclusionDepthError struct {
	// Chain lists the unit names from the root to the unit that exceeded
	// the limit.
	Chain []string
	Limit int
}

func (e *InclusionDepthError) Error() string {
	return fmt.Sprintf("inclusion depth exceeds %d: %s", e.Limit, strings.Join(e.Chain, " -> "))
}

// MissingSourceError reports an include directive whose target could not
// be read. It is recoverable: the directive is left in place and
// resolution continues.
type MissingSourceError struct {
	Unit   string // the including unit
	Target string // the unresolved include target
	Err    error
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%s: include target %q not found", e.Unit, e.Target)
}

func (e *MissingSourceError) Unwrap() error { return e.Err }
