package patch

import "regexp"

// DefaultRules returns the built-in rule list for pandoc-style converters,
// ordered most specific first. Each rule targets a construct the converter
// is known to drop or mis-render.
func DefaultRules() []Rule {
	return []Rule{
		// amssymb's \mathbb rejects digits; the bold form renders the
		// intended blackboard numeral acceptably.
		{
			Name:    "mathbb-digit",
			Pattern: regexp.MustCompile(`\\mathbb\{(\d)\}`),
			Action:  ActionSubstitute,
			Replace: `\mathbf{$1}`,
		},
		// OMML output has no \boldsymbol.
		{
			Name:    "boldsymbol",
			Pattern: regexp.MustCompile(`\\boldsymbol\{([^}]+)\}`),
			Action:  ActionSubstitute,
			Replace: `\mathbf{$1}`,
		},
		// Old-style font switches are dropped silently by the converter.
		{
			Name:    "old-style-em",
			Pattern: regexp.MustCompile(`\{\\em\s+([^}]+)\}`),
			Action:  ActionSubstitute,
			Replace: `\emph{$1}`,
		},
		{
			Name:    "old-style-bf",
			Pattern: regexp.MustCompile(`\{\\bf\s+([^}]+)\}`),
			Action:  ActionSubstitute,
			Replace: `\textbf{$1}`,
		},
		{
			Name:    "old-style-it",
			Pattern: regexp.MustCompile(`\{\\it\s+([^}]+)\}`),
			Action:  ActionSubstitute,
			Replace: `\textit{$1}`,
		},
		// threeparttable machinery: the notes body goes away entirely, the
		// wrapper environment is unwrapped around the contained tabular.
		{
			Name:    "tablenotes",
			Pattern: regexp.MustCompile(`(?s)\\begin\{tablenotes\}.*?\\end\{tablenotes\}`),
			Action:  ActionStrip,
		},
		{
			Name:    "threeparttable-begin",
			Pattern: regexp.MustCompile(`\\begin\{threeparttable\}`),
			Action:  ActionStrip,
		},
		{
			Name:    "threeparttable-end",
			Pattern: regexp.MustCompile(`\\end\{threeparttable\}`),
			Action:  ActionStrip,
		},
		// fancyhdr directives have no converter equivalent; page headers
		// are re-applied by the layout pass on the output side.
		{
			Name:    "fancyhdr-package",
			Pattern: regexp.MustCompile(`\\usepackage\{fancyhdr\}[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		{
			Name:    "fancyhdr-pagestyle",
			Pattern: regexp.MustCompile(`\\pagestyle\{fancy\}[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		{
			Name:    "fancyhdr-fancyhf",
			Pattern: regexp.MustCompile(`\\fancyhf\{\}[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		{
			Name:    "fancyhdr-headrule",
			Pattern: regexp.MustCompile(`\\renewcommand\{\\headrulewidth\}[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		{
			Name:    "fancyhdr-lrhead",
			Pattern: regexp.MustCompile(`\\[rl]head\{[^\n]*\}\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		// titlesec customizations likewise.
		{
			Name:    "titlesec-titleformat",
			Pattern: regexp.MustCompile(`\\titleformat\{[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		{
			Name:    "titlesec-package",
			Pattern: regexp.MustCompile(`\\usepackage\{titlesec\}[^\n]*\n`),
			Action:  ActionSubstitute,
			Replace: "\n",
		},
		// Math conversion needs amsmath loaded. The Unless guard keeps the
		// insertion from re-firing once the package is present.
		{
			Name:    "ensure-amsmath",
			Pattern: regexp.MustCompile(`\\begin\{document\}`),
			Action:  ActionSubstitute,
			Replace: "\\usepackage{amsmath}\n\\begin{document}",
			Unless:  regexp.MustCompile(`\\usepackage(\[[^\]]*\])?\{amsmath`),
		},
	}
}
