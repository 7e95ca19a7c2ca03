package texsrc

import (
	"path"
	"regexp"
)

// includeRe matches \input{...} and \include{...} directives.
var includeRe = regexp.MustCompile(`\\(?:input|include)\{([^}]+)\}`)

// Resolver flattens an inclusion graph of source units into a single
// normalized stream.
type Resolver struct {
	loader   *Loader
	maxDepth int
}

// Option configures the resolver.
type Option func(*Resolver)

// WithMaxDepth sets the maximum inclusion depth (default: 50).
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a resolver reading units through the given loader.
func NewResolver(loader *Loader, opts ...Option) *Resolver {
	r := &Resolver{
		loader:   loader,
		maxDepth: 50,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve flattens the inclusion graph rooted at root into one normalized
// stream. Missing include targets are returned in missing and leave the
// directive text in place; a cyclic graph or an unreadable root returns a
// non-nil err and no stream.
//
// Resolution is deterministic and idempotent: resolving the same acyclic
// graph twice yields identical streams.
func (r *Resolver) Resolve(root string) (stream *NormalizedStream, missing []*MissingSourceError, err error) {
	name := CanonicalName(".", root)
	unit, err := r.loader.Load(name)
	if err != nil {
		return nil, nil, err
	}

	b := &streamBuilder{}
	stack := []string{unit.Name}
	if err := r.expand(b, unit, stack, &missing); err != nil {
		return nil, nil, err
	}
	return b.stream(), missing, nil
}

// expand performs the depth-first expansion of one unit into the builder.
// stack holds the names of units currently being expanded, for cycle
// detection.
func (r *Resolver) expand(b *streamBuilder, unit *SourceUnit, stack []string, missing *[]*MissingSourceError) error {
	if len(stack) > r.maxDepth {
		return &InclusionDepthError{
			Chain: append([]string(nil), stack...),
			Limit: r.maxDepth,
		}
	}

	dir := path.Dir(unit.Name)
	text := unit.Text
	last := 0
	for _, m := range includeRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		target := text[m[2]:m[3]]

		b.appendFrom(unit.Name, last, text[last:start])
		last = end

		childName := CanonicalName(dir, target)
		if i := indexOf(stack, childName); i >= 0 {
			cycle := append(append([]string(nil), stack[i:]...), childName)
			return &CyclicInclusionError{Cycle: cycle}
		}

		child, err := r.loader.Load(childName)
		if err != nil {
			// Non-fatal: leave the directive in place and keep going so
			// every missing file is reported in one pass.
			*missing = append(*missing, &MissingSourceError{
				Unit:   unit.Name,
				Target: target,
				Err:    err,
			})
			b.appendFrom(unit.Name, start, text[start:end])
			continue
		}

		if err := r.expand(b, child, append(stack, childName), missing); err != nil {
			return err
		}
	}
	b.appendFrom(unit.Name, last, text[last:])
	return nil
}

func indexOf(ss []string, s string) int {
	for i, v := range ss {
		if v == s {
			return i
		}
	}
	return -1
}
