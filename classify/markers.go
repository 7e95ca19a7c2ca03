package classify

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"go.yaml.in/yaml/v3"
)

// Markers holds the text patterns that drive classification. The defaults
// cover common manuscript conventions; a YAML file can override any of
// them for house styles.
type Markers struct {
	// Caption matches a caption lead-in such as "Figure 1" or "Table 2:".
	Caption *regexp.Regexp

	// ReferencesHeading matches headings that open the references section.
	ReferencesHeading *regexp.Regexp

	// AbstractHeading matches headings or styles that open the abstract.
	AbstractHeading *regexp.Regexp

	// AbstractLead matches a front-matter paragraph that carries the
	// abstract inline, such as "Abstract: We present ...". The paragraph
	// and everything up to the next heading become the abstract.
	AbstractLead *regexp.Regexp

	// ReferenceEntry matches a bibliography line when no references
	// heading exists; it is the fallback for converters that drop the
	// heading.
	ReferenceEntry *regexp.Regexp

	// AuthorLine matches a plausible author line in front matter.
	AuthorLine *regexp.Regexp
}

// markersYAML is the file form of Markers. Omitted fields keep their
// default patterns.
type markersYAML struct {
	Caption           string `yaml:"caption"`
	ReferencesHeading string `yaml:"references_heading"`
	AbstractHeading   string `yaml:"abstract_heading"`
	AbstractLead      string `yaml:"abstract_lead"`
	ReferenceEntry    string `yaml:"reference_entry"`
	AuthorLine        string `yaml:"author_line"`
}

// nameGroup matches one person's name: capitalized words and initials,
// as in "Jane Smith" or "J. Smith".
const nameGroup = `[A-Z][\w'.\-]*(?:\s+[A-Z][\w'.\-]*){0,4}`

// DefaultMarkers returns the built-in patterns.
func DefaultMarkers() *Markers {
	return &Markers{
		Caption:           regexp.MustCompile(`(?i)^(figure|fig\.|table|tab\.)\s*\d`),
		ReferencesHeading: regexp.MustCompile(`(?i)^(references|bibliography|works cited)\s*$`),
		AbstractHeading:   regexp.MustCompile(`(?i)^abstract\s*$`),
		AbstractLead:      regexp.MustCompile(`(?i)^abstract\b`),
		ReferenceEntry:    regexp.MustCompile(`^[A-Z][\w'-]*,\s.*\(\d{4}[a-z]?\)`),
		AuthorLine:        regexp.MustCompile(`^` + nameGroup + `(?:\s*(?:,|;|\band\b|&)\s*` + nameGroup + `)*$`),
	}
}

// LoadMarkers reads marker overrides from YAML. Patterns not present in
// the file keep their defaults.
func LoadMarkers(r io.Reader) (*Markers, error) {
	var raw markersYAML
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing markers: %w", err)
	}

	m := DefaultMarkers()
	fields := []struct {
		name    string
		pattern string
		dst     **regexp.Regexp
	}{
		{"caption", raw.Caption, &m.Caption},
		{"references_heading", raw.ReferencesHeading, &m.ReferencesHeading},
		{"abstract_heading", raw.AbstractHeading, &m.AbstractHeading},
		{"abstract_lead", raw.AbstractLead, &m.AbstractLead},
		{"reference_entry", raw.ReferenceEntry, &m.ReferenceEntry},
		{"author_line", raw.AuthorLine, &m.AuthorLine},
	}
	for _, f := range fields {
		if f.pattern == "" {
			continue
		}
		re, err := regexp.Compile(f.pattern)
		if err != nil {
			return nil, fmt.Errorf("marker %s: invalid pattern %q: %w", f.name, f.pattern, err)
		}
		*f.dst = re
	}
	return m, nil
}

// LoadMarkersFile reads marker overrides from a YAML file.
func LoadMarkersFile(path string) (*Markers, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening markers file: %w", err)
	}
	defer f.Close()
	return LoadMarkers(f)
}
