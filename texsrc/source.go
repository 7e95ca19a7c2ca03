package texsrc

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SourceUnit is a named markup fragment read from disk. Units exist only
// during resolution; the normalized stream does not retain them.
type SourceUnit struct {
	Name string // path relative to the loader root
	Text string // comment-stripped, NFC-normalized markup
}

// Loader reads source units from a file system. Tests use an fstest.MapFS;
// production code uses os.DirFS of the main file's directory.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir)}
}

// NewLoaderFS creates a loader reading from the given file system.
func NewLoaderFS(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads and normalizes the unit with the given name.
func (l *Loader) Load(name string) (*SourceUnit, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading source unit %s: %w", name, err)
	}
	text := norm.NFC.String(string(data))
	text = StripComments(text)
	return &SourceUnit{Name: name, Text: text}, nil
}

// CanonicalName normalizes an include target relative to the directory of
// the including unit. A missing .tex extension is added, matching LaTeX
// \input semantics.
func CanonicalName(fromDir, target string) string {
	if path.Ext(target) == "" {
		target += ".tex"
	}
	return path.Join(fromDir, target)
}

// commentRe matches a % comment to end of line, but not an escaped \%.
var commentRe = regexp.MustCompile(`(^|[^\\])%.*`)

// StripComments removes LaTeX % comments while preserving escaped \% and
// the line structure of the input.
func StripComments(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = commentRe.ReplaceAllString(line, "$1")
	}
	return strings.Join(lines, "\n")
}
