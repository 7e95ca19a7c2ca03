// Package texsrc provides LaTeX source inclusion resolution.
//
// LaTeX documents reference other source files through \input and
// \include directives. This package flattens such a file graph into a
// single normalized markup stream, following chains of inclusions and
// detecting circular dependencies.
//
// # Basic Usage
//
// Create a resolver rooted at the main file's directory and resolve:
//
//	r := texsrc.NewResolver(texsrc.NewLoader(baseDir))
//	stream, missing, err := r.Resolve("paper.tex")
//
// A non-nil err means resolution produced no usable stream (for example a
// cyclic inclusion). Missing include targets are not fatal: the directive
// is left in place, resolution of sibling includes continues, and all
// misses are returned together so the user sees every missing file in one
// pass.
//
// # Provenance
//
// The returned NormalizedStream carries a position-to-origin map. Given an
// offset into the flattened text, OriginAt reports which source unit the
// text came from and the offset within that unit, for error reporting by
// later stages.
//
// # Cycle Detection
//
// The resolver tracks a visitation stack and fails fast with a
// CyclicInclusionError naming the cycle rather than entering an infinite
// expansion. The maximum inclusion depth is configurable; an acyclic
// chain deeper than the limit fails with an InclusionDepthError:
//
//	r := texsrc.NewResolver(loader, texsrc.WithMaxDepth(30))
package texsrc
