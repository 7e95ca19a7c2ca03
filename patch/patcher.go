package patch

import "fmt"

// DivergenceError reports a rule set that kept producing new matches past
// the iteration cap. It is fatal: the rule set is looping.
type DivergenceError struct {
	Passes   int
	LastRule string
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("compatibility patching did not converge after %d passes (last rewrite by rule %q)", e.Passes, e.LastRule)
}

// Patcher applies an ordered rule list to markup text.
type Patcher struct {
	rules     []Rule
	maxPasses int
	citations bool
}

// Option configures the patcher.
type Option func(*Patcher)

// WithMaxPasses sets the fixed-point iteration cap (default: 10).
func WithMaxPasses(n int) Option {
	return func(p *Patcher) {
		p.maxPasses = n
	}
}

// WithoutCitationResolution disables the natbib citation rewrite.
func WithoutCitationResolution() Option {
	return func(p *Patcher) {
		p.citations = false
	}
}

// New creates a patcher with the given ordered rule list.
func New(rules []Rule, opts ...Option) *Patcher {
	p := &Patcher{
		rules:     rules,
		maxPasses: 10,
		citations: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply rewrites every deny-listed construct in text exactly once per
// matched occurrence, iterating the rule list until a full pass makes no
// change. Text containing no deny-listed construct is returned unchanged.
func (p *Patcher) Apply(text string) (string, error) {
	if p.citations {
		text, _ = ResolveCitations(text)
	}

	for pass := 0; pass < p.maxPasses; pass++ {
		out, lastRule := p.applyOnce(text)
		if out == text {
			return out, nil
		}
		text = out
		if pass == p.maxPasses-1 {
			return "", &DivergenceError{Passes: p.maxPasses, LastRule: lastRule}
		}
	}
	return text, nil
}

// applyOnce runs every rule once, in priority order, and reports the name
// of the last rule that changed the text.
func (p *Patcher) applyOnce(text string) (string, string) {
	var lastRule string
	for _, r := range p.rules {
		out := r.apply(text)
		if out != text {
			lastRule = r.Name
			text = out
		}
	}
	return text, lastRule
}
