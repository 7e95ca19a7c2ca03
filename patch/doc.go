// Package patch rewrites known-incompatible LaTeX constructs into forms
// the external markup converter can process.
//
// Rewriting is deny-list only: a construct is touched only when it matches
// an explicit rule, so valid markup the patcher does not understand passes
// through unchanged. Rules are data — an ordered list of pattern/action
// pairs, more specific constructs before generic ones — and each rule is
// idempotent: re-applying it to already-rewritten text is a no-op.
//
// The patcher iterates the rule list to a fixed point, because a rewrite
// may produce text matching an earlier rule's pattern. Iteration is
// bounded; a rule set that keeps producing new matches fails with a
// DivergenceError instead of looping.
//
//	p := patch.New(patch.DefaultRules())
//	fixed, err := p.Apply(stream.Text)
//
// Custom rule sets can be loaded from YAML with LoadRules, since which
// constructs a converter mishandles varies by converter version.
package patch
