// Package classify assigns semantic roles to document blocks. The
// classifier is a forward-only state machine over the block sequence:
// front matter, abstract, body, references. The state only ever advances,
// so a stray abstract-looking line deep in the body can never drag
// later blocks back into front matter.
package classify

import (
	"strings"

	"github.com/tsawler/texword/model"
)

// section is the classifier's position within the document.
type section int

const (
	inFrontMatter section = iota
	inAbstract
	inBody
	inReferences
)

// Classifier assigns a role to every block of a document.
type Classifier struct {
	markers *Markers
}

// New creates a classifier. A nil markers argument uses DefaultMarkers.
func New(markers *Markers) *Classifier {
	if markers == nil {
		markers = DefaultMarkers()
	}
	return &Classifier{markers: markers}
}

// Classify walks the document once, assigning a role to each block and to
// each table cell. Blocks no heuristic matches stay unclassified.
func (c *Classifier) Classify(doc *model.Document) {
	state := inFrontMatter
	titleSeen := false
	sawReferences := false
	prevObject := false

	for _, b := range doc.Blocks {
		wasObject := prevObject
		prevObject = b.Kind == model.KindTable || b.Kind == model.KindFigure

		switch b.Kind {
		case model.KindTable:
			c.classifyTable(b.Table)
			if state == inAbstract {
				state = inBody
			}
			continue
		case model.KindFigure:
			if state == inAbstract {
				state = inBody
			}
			continue
		case model.KindEquation:
			if state == inAbstract {
				state = inBody
			} else if state == inFrontMatter {
				state = inBody
			}
			b.Role = model.RoleBody
			continue
		case model.KindHeading:
			state = c.classifyHeading(b, state)
			if state == inReferences {
				sawReferences = true
			}
			continue
		}

		text := strings.TrimSpace(b.Text())
		if text == "" && !b.HasMath() {
			// Blank paragraphs do not separate an object from its caption.
			prevObject = wasObject
			continue
		}

		// Converter style hints take priority over position.
		if role, next, ok := c.roleFromStyle(b.Style, state); ok {
			b.Role = role
			state = next
			if role == model.RoleTitle {
				titleSeen = true
			}
			continue
		}

		switch state {
		case inFrontMatter:
			switch {
			case c.markers.AbstractLead.MatchString(text):
				b.Role = model.RoleAbstract
				state = inAbstract
			case !titleSeen && c.titleCandidate(b, text):
				b.Role = model.RoleTitle
				titleSeen = true
			case c.markers.AuthorLine.MatchString(text):
				b.Role = model.RoleAuthor
			default:
				b.Role = model.RoleBody
				state = inBody
			}
		case inAbstract:
			b.Role = model.RoleAbstract
		case inBody:
			if wasObject && c.markers.Caption.MatchString(text) {
				b.Role = model.RoleCaption
			} else {
				b.Role = model.RoleBody
			}
		case inReferences:
			b.Role = model.RoleReferenceEntry
		}
	}

	if !sawReferences {
		c.reclassifyTrailingReferences(doc)
	}
	if title := doc.Title(); title != "" && doc.Metadata.Title == "" {
		doc.Metadata.Title = title
	}
}

// titleSizeHint is the run size, in points, above which a front-matter
// paragraph counts as display text.
const titleSizeHint = 14.0

// titleCandidate reports whether a front-matter paragraph looks like the
// manuscript title: centered or oversized per converter formatting, or a
// short line free of sentence punctuation. A body-sized opening paragraph
// fails the check and ends the front matter instead.
func (c *Classifier) titleCandidate(b *model.Block, text string) bool {
	if b.Format.Alignment == model.AlignCenter {
		return true
	}
	for _, r := range b.Runs {
		if r.Format.FontSize >= titleSizeHint {
			return true
		}
	}
	return len(text) <= 200 && !strings.ContainsAny(text, ".!?")
}

// classifyHeading assigns the heading role and decides the section it
// opens. The state machine never moves backward.
func (c *Classifier) classifyHeading(b *model.Block, state section) section {
	b.Role = model.HeadingRole(b.Level)
	text := strings.TrimSpace(b.Text())
	switch {
	case c.markers.ReferencesHeading.MatchString(text):
		return inReferences
	case c.markers.AbstractHeading.MatchString(text) && state <= inAbstract:
		return inAbstract
	case state == inReferences:
		return inReferences
	default:
		return inBody
	}
}

// roleFromStyle maps converter paragraph style identifiers to roles.
func (c *Classifier) roleFromStyle(style string, state section) (model.Role, section, bool) {
	switch style {
	case "Title":
		return model.RoleTitle, state, true
	case "Author", "Date":
		return model.RoleAuthor, state, true
	case "Abstract":
		return model.RoleAbstract, maxSection(state, inAbstract), true
	case "AbstractTitle":
		return model.RoleHeading1, maxSection(state, inAbstract), true
	case "ImageCaption", "TableCaption", "Caption", "CaptionedFigure":
		return model.RoleCaption, state, true
	case "Bibliography", "BiblioEntry":
		return model.RoleReferenceEntry, inReferences, true
	}
	return model.RoleUnclassified, state, false
}

func maxSection(a, b section) section {
	if a > b {
		return a
	}
	return b
}

// classifyTable assigns cell roles. Rows the converter marked as header
// rows win; when none is marked, the first row is the header.
func (c *Classifier) classifyTable(t *model.Table) {
	if t == nil || len(t.Rows) == 0 {
		return
	}
	marked := false
	for _, row := range t.Rows {
		if row.Header == model.TriOn {
			marked = true
			break
		}
	}
	for i, row := range t.Rows {
		header := row.Header == model.TriOn || (!marked && i == 0)
		if header && row.Header == model.TriUnset {
			row.Header = model.TriOn
		}
		for _, cell := range row.Cells {
			if header {
				cell.Role = model.RoleCellHeader
			} else {
				cell.Role = model.RoleCellBody
			}
			for _, b := range cell.Blocks {
				if b.Role == model.RoleUnclassified {
					b.Role = model.RoleBody
				}
			}
		}
	}
}

// reclassifyTrailingReferences handles converters that drop the
// references heading. A contiguous run of at least two entry-shaped
// paragraphs at the end of the document is treated as the bibliography.
func (c *Classifier) reclassifyTrailingReferences(doc *model.Document) {
	end := len(doc.Blocks)
	start := end
	for i := end - 1; i >= 0; i-- {
		b := doc.Blocks[i]
		if b.IsEmpty() {
			continue
		}
		if b.Kind != model.KindParagraph || b.Role != model.RoleBody {
			break
		}
		if !c.markers.ReferenceEntry.MatchString(strings.TrimSpace(b.Text())) {
			break
		}
		start = i
	}
	if end-start < 2 {
		return
	}
	for _, b := range doc.Blocks[start:end] {
		if b.Role == model.RoleBody {
			b.Role = model.RoleReferenceEntry
		}
	}
}
