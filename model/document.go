package model

import "strings"

// Document represents a converted document with extracted structure.
type Document struct {
	Metadata Metadata
	Blocks   []*Block
	Layout   PageLayout
}

// Metadata contains document-level information.
type Metadata struct {
	Title  string
	Author string
}

// PageLayout holds document-wide page settings. All lengths are in
// centimeters; the output writer converts to the target unit.
type PageLayout struct {
	PageWidth    float64
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// Running header: text plus an automatic page number field.
	HeaderText      string
	HeaderPageField bool
}

// NewDocument creates a new empty document.
func NewDocument() *Document {
	return &Document{
		Blocks: make([]*Block, 0),
	}
}

// AddBlock appends a block to the document.
func (d *Document) AddBlock(b *Block) {
	d.Blocks = append(d.Blocks, b)
}

// BlockCount returns the total number of top-level blocks.
func (d *Document) BlockCount() int {
	return len(d.Blocks)
}

// Title returns the text of the first block classified as Title, or "".
func (d *Document) Title() string {
	for _, b := range d.Blocks {
		if b.Role == RoleTitle {
			return b.Text()
		}
	}
	return ""
}

// BlocksByRole returns all top-level blocks with the given role, in
// document order.
func (d *Document) BlocksByRole(role Role) []*Block {
	var out []*Block
	for _, b := range d.Blocks {
		if b.Role == role {
			out = append(out, b)
		}
	}
	return out
}

// Tables returns all top-level table blocks in document order.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if b.Kind == KindTable && b.Table != nil {
			tables = append(tables, b.Table)
		}
	}
	return tables
}

// ExtractText returns all text content concatenated, one block per line.
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		sb.WriteString(b.Text())
		sb.WriteString("\n")
	}
	return sb.String()
}
