package patch

import (
	"regexp"
	"strings"
)

// Converters that understand neither natbib commands nor their combination
// with a hand-written thebibliography silently drop every citation. The
// functions here resolve \citet, \citep, \citealt, and \cite into plain
// text using a lookup table built from the document's \bibitem labels.

var (
	bibitemRe    = regexp.MustCompile(`\\bibitem\[([^\]]+)\]\{([^}]+)\}`)
	parenLabelRe = regexp.MustCompile(`^(.+?)\((\d{4}[a-z]?)\)$`)

	citetRe   = regexp.MustCompile(`\\citet\{([^}]+)\}`)
	citepRe   = regexp.MustCompile(`\\citep\{([^}]+)\}`)
	citealtRe = regexp.MustCompile(`\\citealt\{([^}]+)\}`)
	citeRe    = regexp.MustCompile(`\\cite\{([^}]+)\}`)
)

// citation is one resolved bibliography label.
type citation struct {
	author string
	year   string
}

// ResolveCitations rewrites natbib citation commands as plain text and
// returns the rewritten markup with the number of commands resolved. Text
// without \bibitem labels is returned unchanged.
func ResolveCitations(text string) (string, int) {
	bib := collectBibitems(text)
	if len(bib) == 0 {
		return text, 0
	}

	lookup := func(key string) citation {
		key = strings.TrimSpace(key)
		if c, ok := bib[key]; ok {
			return c
		}
		return citation{author: key}
	}

	count := 0
	sub := func(re *regexp.Regexp, text string, f func(keys string) string) string {
		return re.ReplaceAllStringFunc(text, func(m string) string {
			count++
			return f(re.FindStringSubmatch(m)[1])
		})
	}

	// \citet{key} -> Author (Year); multiple keys joined with "; ".
	// Must run before the bare \cite rule, which shares its prefix.
	text = sub(citetRe, text, func(keys string) string {
		var parts []string
		for _, k := range strings.Split(keys, ",") {
			c := lookup(k)
			if c.year != "" {
				parts = append(parts, c.author+" ("+c.year+")")
			} else {
				parts = append(parts, c.author)
			}
		}
		return strings.Join(parts, "; ")
	})

	parenthetical := func(keys string) string {
		var parts []string
		for _, k := range strings.Split(keys, ",") {
			c := lookup(k)
			if c.year != "" {
				parts = append(parts, c.author+", "+c.year)
			} else {
				parts = append(parts, c.author)
			}
		}
		return "(" + strings.Join(parts, "; ") + ")"
	}

	// \citep{key} -> (Author, Year)
	text = sub(citepRe, text, parenthetical)

	// \citealt{key} -> Author, Year (no parentheses)
	text = sub(citealtRe, text, func(keys string) string {
		c := lookup(keys)
		if c.year != "" {
			return c.author + ", " + c.year
		}
		return c.author
	})

	// Bare \cite{} falls back to parenthetical form.
	text = sub(citeRe, text, parenthetical)

	return text, count
}

// collectBibitems builds the key -> (author, year) table from
// \bibitem[label]{key} entries. Both "Author(Year)" and "Author, Year"
// label forms are recognized.
func collectBibitems(text string) map[string]citation {
	bib := make(map[string]citation)
	for _, m := range bibitemRe.FindAllStringSubmatch(text, -1) {
		label := strings.TrimSpace(m[1])
		key := strings.TrimSpace(m[2])

		var c citation
		if pm := parenLabelRe.FindStringSubmatch(label); pm != nil {
			c = citation{author: strings.TrimSpace(pm[1]), year: pm[2]}
		} else if i := strings.LastIndex(label, ","); i >= 0 {
			c = citation{
				author: strings.TrimSpace(label[:i]),
				year:   strings.TrimSpace(label[i+1:]),
			}
		} else {
			c = citation{author: label}
		}
		c.author = strings.ReplaceAll(c.author, "et~al.", "et al.")
		c.author = strings.ReplaceAll(c.author, "et~al", "et al.")
		bib[key] = c
	}
	return bib
}
