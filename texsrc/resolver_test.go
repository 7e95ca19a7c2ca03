package texsrc

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func mapLoader(files map[string]string) *Loader {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return NewLoaderFS(fsys)
}

func TestResolveFlattensIncludes(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex":  "before\n\\input{intro}\nafter\n",
		"intro.tex": "intro text\n",
	})

	stream, missing, err := NewResolver(loader).Resolve("main.tex")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing: %v", missing)
	}

	want := "before\nintro text\n\nafter\n"
	if stream.Text != want {
		t.Errorf("Text = %q, want %q", stream.Text, want)
	}
}

func TestResolveNestedAndRelative(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex":         "\\input{sections/one}",
		"sections/one.tex": "one \\input{two}",
		"sections/two.tex": "two",
	})

	stream, _, err := NewResolver(loader).Resolve("main.tex")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if stream.Text != "one two" {
		t.Errorf("Text = %q, want %q", stream.Text, "one two")
	}
}

func TestResolveIdempotent(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex": "a\\input{b}c\\input{b}d",
		"b.tex":    "B",
	})

	r := NewResolver(loader)
	first, _, err := r.Resolve("main.tex")
	if err != nil {
		t.Fatalf("first Resolve() error: %v", err)
	}
	second, _, err := r.Resolve("main.tex")
	if err != nil {
		t.Fatalf("second Resolve() error: %v", err)
	}
	if first.Text != second.Text {
		t.Errorf("resolution not idempotent: %q vs %q", first.Text, second.Text)
	}
}

func TestResolveSelfInclusion(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex": "\\input{main}",
	})

	_, _, err := NewResolver(loader).Resolve("main.tex")
	var cycErr *CyclicInclusionError
	if !errors.As(err, &cycErr) {
		t.Fatalf("want CyclicInclusionError, got %v", err)
	}
	if len(cycErr.Cycle) < 2 || cycErr.Cycle[0] != "main.tex" {
		t.Errorf("cycle = %v", cycErr.Cycle)
	}
}

func TestResolveMutualCycle(t *testing.T) {
	loader := mapLoader(map[string]string{
		"a.tex": "\\input{b}",
		"b.tex": "\\input{a}",
	})

	_, _, err := NewResolver(loader).Resolve("a.tex")
	var cycErr *CyclicInclusionError
	if !errors.As(err, &cycErr) {
		t.Fatalf("want CyclicInclusionError, got %v", err)
	}
	if !strings.Contains(cycErr.Error(), "a.tex -> b.tex -> a.tex") {
		t.Errorf("cycle message = %q", cycErr.Error())
	}
}

func TestResolveDepthLimitOnAcyclicChain(t *testing.T) {
	// A deep chain with no repeated unit must be reported as a depth
	// problem, not as a cycle.
	files := map[string]string{
		"u0.tex": "\\input{u1}",
		"u1.tex": "\\input{u2}",
		"u2.tex": "\\input{u3}",
		"u3.tex": "\\input{u4}",
		"u4.tex": "end",
	}
	loader := mapLoader(files)

	_, _, err := NewResolver(loader, WithMaxDepth(3)).Resolve("u0.tex")
	var depthErr *InclusionDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("want InclusionDepthError, got %v", err)
	}
	var cycErr *CyclicInclusionError
	if errors.As(err, &cycErr) {
		t.Fatal("deep acyclic chain misreported as a cycle")
	}
	if depthErr.Limit != 3 || depthErr.Chain[0] != "u0.tex" {
		t.Errorf("limit = %d, chain = %v", depthErr.Limit, depthErr.Chain)
	}
	if !strings.Contains(depthErr.Error(), "depth exceeds 3") {
		t.Errorf("message = %q", depthErr.Error())
	}

	// The same chain resolves once the limit is raised.
	if _, _, err := NewResolver(loader, WithMaxDepth(10)).Resolve("u0.tex"); err != nil {
		t.Fatalf("Resolve() with a higher limit: %v", err)
	}
}

func TestResolveMissingTargetsAggregated(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex": "\\input{gone}\nmiddle\n\\input{alsogone}\n\\input{here}",
		"here.tex": "present",
	})

	stream, missing, err := NewResolver(loader).Resolve("main.tex")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if len(missing) != 2 {
		t.Fatalf("got %d missing errors, want 2", len(missing))
	}
	if missing[0].Target != "gone" || missing[1].Target != "alsogone" {
		t.Errorf("missing targets = %q, %q", missing[0].Target, missing[1].Target)
	}
	// The unresolved directives stay in place; the resolvable sibling is
	// still expanded.
	if !strings.Contains(stream.Text, `\input{gone}`) {
		t.Error("unresolved directive should remain in the stream")
	}
	if !strings.Contains(stream.Text, "present") {
		t.Error("sibling include was not resolved")
	}
}

func TestOriginAt(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex":  "AB\\input{other}YZ",
		"other.tex": "cd",
	})

	stream, _, err := NewResolver(loader).Resolve("main.tex")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	// Flattened text: "ABcdYZ"
	tests := []struct {
		pos        int
		wantUnit   string
		wantOffset int
	}{
		{0, "main.tex", 0},
		{1, "main.tex", 1},
		{2, "other.tex", 0},
		{3, "other.tex", 1},
		{4, "main.tex", 15},
		{5, "main.tex", 16},
	}
	for _, tt := range tests {
		unit, offset, ok := stream.OriginAt(tt.pos)
		if !ok {
			t.Errorf("OriginAt(%d) not ok", tt.pos)
			continue
		}
		if unit != tt.wantUnit || offset != tt.wantOffset {
			t.Errorf("OriginAt(%d) = (%s, %d), want (%s, %d)",
				tt.pos, unit, offset, tt.wantUnit, tt.wantOffset)
		}
	}

	if _, _, ok := stream.OriginAt(100); ok {
		t.Error("OriginAt past end should not be ok")
	}
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain comment", "text % comment", "text "},
		{"full line", "% all comment\nkeep", "\nkeep"},
		{"escaped percent", `50\% of cases`, `50\% of cases`},
		{"escaped then comment", `50\% real % gone`, `50\% real `},
		{"no comment", "nothing here", "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripComments(tt.input); got != tt.want {
				t.Errorf("StripComments(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadStripsCommentsAndNormalizes(t *testing.T) {
	loader := mapLoader(map[string]string{
		"main.tex": "body % note\n\\input{x} % include x\n",
		"x.tex":    "X",
	})

	stream, _, err := NewResolver(loader).Resolve("main.tex")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if strings.Contains(stream.Text, "note") || strings.Contains(stream.Text, "include x") {
		t.Errorf("comments leaked into stream: %q", stream.Text)
	}
	if !strings.Contains(stream.Text, "X") {
		t.Errorf("include after comment strip not resolved: %q", stream.Text)
	}
}
