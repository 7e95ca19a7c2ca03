package patch

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestApplyIdentityOnCleanInput(t *testing.T) {
	inputs := []string{
		"",
		"plain paragraph text",
		`\section{Intro} with $x^2$ math and \emph{emphasis}`,
		`\begin{tabular}{ll} a & b \\ \end{tabular}`,
	}

	p := New(DefaultRules())
	for _, in := range inputs {
		out, err := p.Apply(in)
		if err != nil {
			t.Fatalf("Apply(%q) error: %v", in, err)
		}
		if out != in {
			t.Errorf("Apply(%q) = %q, want unchanged", in, out)
		}
	}
}

func TestDefaultRuleRewrites(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mathbb digit", `$\mathbb{1}$`, `$\mathbf{1}$`},
		{"mathbb letter untouched", `$\mathbb{R}$`, `$\mathbb{R}$`},
		{"boldsymbol", `$\boldsymbol{\mu}$`, `$\mathbf{\mu}$`},
		{"old em", `{\em word}`, `\emph{word}`},
		{"old bf", `{\bf word}`, `\textbf{word}`},
		{"old it", `{\it word}`, `\textit{word}`},
		{
			"threeparttable unwrapped",
			"\\begin{threeparttable}\\begin{tabular}{l}x\\end{tabular}\\end{threeparttable}",
			"\\begin{tabular}{l}x\\end{tabular}",
		},
		{
			"tablenotes stripped",
			"before\\begin{tablenotes}\nnote a\nnote b\n\\end{tablenotes}after",
			"beforeafter",
		},
		{
			"fancyhdr lines",
			"\\usepackage{fancyhdr}\n\\pagestyle{fancy}\nbody",
			"\n\nbody",
		},
	}

	p := New(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Apply(tt.input)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if out != tt.want {
				t.Errorf("Apply() = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestEnsureAmsmath(t *testing.T) {
	p := New(DefaultRules())

	out, err := p.Apply("\\documentclass{article}\n\\begin{document}\nbody\n\\end{document}")
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if !strings.Contains(out, "\\usepackage{amsmath}\n\\begin{document}") {
		t.Errorf("amsmath not inserted: %q", out)
	}

	// Already-loaded amsmath must not be duplicated.
	in := "\\usepackage{amsmath}\n\\begin{document}\nbody\n\\end{document}"
	out, err = p.Apply(in)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if strings.Count(out, "amsmath") != 1 {
		t.Errorf("amsmath duplicated: %q", out)
	}
}

func TestApplyIdempotent(t *testing.T) {
	p := New(DefaultRules())
	in := `{\bf bold} and $\boldsymbol{x}$ inside \begin{threeparttable}t\end{threeparttable}`

	once, err := p.Apply(in)
	if err != nil {
		t.Fatalf("first Apply() error: %v", err)
	}
	twice, err := p.Apply(once)
	if err != nil {
		t.Fatalf("second Apply() error: %v", err)
	}
	if once != twice {
		t.Errorf("patching not idempotent: %q vs %q", once, twice)
	}
}

func TestApplyDivergence(t *testing.T) {
	// A rewrite whose output matches its own pattern never converges.
	rules := []Rule{{
		Name:    "grows",
		Pattern: regexp.MustCompile(`AA`),
		Action:  ActionSubstitute,
		Replace: "AAA",
	}}

	p := New(rules, WithMaxPasses(5))
	_, err := p.Apply("AA")
	var divErr *DivergenceError
	if !errors.As(err, &divErr) {
		t.Fatalf("want DivergenceError, got %v", err)
	}
	if divErr.LastRule != "grows" {
		t.Errorf("LastRule = %q", divErr.LastRule)
	}
}

func TestInsideOutRewrite(t *testing.T) {
	// A nested incompatible construct inside another one: the specific
	// inner rule fires, and the re-scan lets the outer rule see the
	// rewritten content.
	rules := []Rule{
		{
			Name:    "inner",
			Pattern: regexp.MustCompile(`\\inner\{([^}]*)\}`),
			Action:  ActionSubstitute,
			Replace: "<$1>",
		},
		{
			Name:    "outer",
			Pattern: regexp.MustCompile(`\\outer\{<([^}]*)>\}`),
			Action:  ActionSubstitute,
			Replace: "[$1]",
		},
	}

	p := New(rules)
	out, err := p.Apply(`\outer{\inner{x}}`)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if out != "[x]" {
		t.Errorf("Apply() = %q, want %q", out, "[x]")
	}
}

func TestLoadRules(t *testing.T) {
	src := `
rules:
  - name: strip-foo
    pattern: '\\foo\{[^}]*\}'
    action: strip
  - name: wrap-bar
    pattern: 'bar'
    action: wrap
    prefix: "<<"
    suffix: ">>"
    unless: '<<bar>>'
`
	rules, err := LoadRules(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}

	p := New(rules, WithoutCitationResolution())
	out, err := p.Apply(`\foo{gone} bar`)
	if err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	if out != " <<bar>>" {
		t.Errorf("Apply() = %q", out)
	}
}

func TestLoadRulesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing name", "rules:\n  - pattern: 'x'\n    action: strip\n"},
		{"bad action", "rules:\n  - name: r\n    pattern: 'x'\n    action: explode\n"},
		{"bad pattern", "rules:\n  - name: r\n    pattern: '['\n    action: strip\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadRules(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
