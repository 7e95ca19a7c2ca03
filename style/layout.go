package style

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tsawler/texword/model"
)

// headerMaxLen is the longest running header the layout will emit.
const headerMaxLen = 60

// FormatReferences gives every reference entry a hanging indent and the
// reference font size. The role rule already sets these for classified
// entries; this pass also pins the alignment so justified body defaults
// never bleed into the bibliography.
func (s *Styler) FormatReferences(doc *model.Document) {
	for _, b := range doc.BlocksByRole(model.RoleReferenceEntry) {
		b.Format.LeftIndent = s.cfg.HangingIndent
		b.Format.FirstLineIndent = -s.cfg.HangingIndent
		b.Format.Alignment = model.AlignLeft
		b.Format.LineSpacing = s.cfg.ReferenceSpacing
		b.Format.WidowOrphan = true
		for _, r := range b.Runs {
			if r.Format.FontSize == 0 {
				r.Format.FontSize = s.cfg.ReferenceSize
			}
		}
	}
}

// LayoutPages sets the page geometry and the running header: the
// uppercased title, truncated to fit, with an automatic page number.
func (s *Styler) LayoutPages(doc *model.Document) {
	doc.Layout.PageWidth = s.cfg.PageWidth
	doc.Layout.PageHeight = s.cfg.PageHeight
	doc.Layout.MarginTop = s.cfg.MarginTop
	doc.Layout.MarginBottom = s.cfg.MarginBottom
	doc.Layout.MarginLeft = s.cfg.MarginLeft
	doc.Layout.MarginRight = s.cfg.MarginRight

	title := doc.Metadata.Title
	if title == "" {
		title = doc.Title()
	}
	doc.Layout.HeaderText = headerText(title)
	doc.Layout.HeaderPageField = true
}

// headerText uppercases and truncates a title for use as a running
// header. Truncation counts runes, not bytes, and marks the cut with an
// ellipsis.
func headerText(title string) string {
	upper := cases.Upper(language.Und).String(strings.TrimSpace(title))
	runes := []rune(upper)
	if len(runes) <= headerMaxLen {
		return upper
	}
	return string(runes[:headerMaxLen-3]) + "..."
}
