package model

import "strings"

// BlockKind identifies the structural kind of a block, as reported by the
// upstream converter.
type BlockKind int

const (
	// KindParagraph is a narrative text block.
	KindParagraph BlockKind = iota
	// KindHeading is a block the converter tagged as a heading.
	KindHeading
	// KindTable is a table block.
	KindTable
	// KindFigure is an embedded image block.
	KindFigure
	// KindEquation is a display math block holding a native math object.
	KindEquation
)

// String returns the string representation of the kind.
func (k BlockKind) String() string {
	switch k {
	case KindParagraph:
		return "Paragraph"
	case KindHeading:
		return "Heading"
	case KindTable:
		return "Table"
	case KindFigure:
		return "Figure"
	case KindEquation:
		return "Equation"
	default:
		return "Unknown"
	}
}

// Block is a single element of the document tree. Exactly one of Runs,
// Table, Figure, or Equation is populated, according to Kind.
type Block struct {
	Kind BlockKind

	// Level is the heading level (1-9) for KindHeading blocks, 0 otherwise.
	Level int

	// Style is the converter's paragraph style identifier (e.g. "Title",
	// "Abstract", "BodyText"). Used as a classification hint; may be empty.
	Style string

	// Role is the semantic role assigned by classification. Blocks start
	// out Unclassified.
	Role Role

	Runs     []*Run
	Table    *Table
	Figure   *Figure
	Equation *Equation

	Format BlockFormat
}

// Run is a styled span of text within a block. Math is non-empty when the
// run carries an inline native math object instead of plain text.
type Run struct {
	Text   string
	Math   string // raw native math markup, preserved verbatim
	Format RunFormat
}

// Figure is an embedded raster image reference.
type Figure struct {
	Path    string  // asset path, resolved by the figure materializer
	WidthCm float64 // display width; 0 means natural size
	AltText string
}

// Equation holds a display math object in the converter's native editable
// format. The markup is treated as opaque and round-tripped unchanged.
type Equation struct {
	Math string
}

// NewParagraph creates a paragraph block with a single plain run.
func NewParagraph(text string) *Block {
	return &Block{
		Kind: KindParagraph,
		Runs: []*Run{{Text: text}},
	}
}

// NewHeading creates a heading block at the given level.
func NewHeading(level int, text string) *Block {
	return &Block{
		Kind:  KindHeading,
		Level: level,
		Runs:  []*Run{{Text: text}},
	}
}

// Text returns the concatenated text of the block's runs. For tables it
// returns the tab-separated cell text, one row per line.
func (b *Block) Text() string {
	if b.Kind == KindTable && b.Table != nil {
		return b.Table.Text()
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsEmpty reports whether the block has no text, table, figure, or math
// content.
func (b *Block) IsEmpty() bool {
	switch b.Kind {
	case KindTable:
		return b.Table == nil || len(b.Table.Rows) == 0
	case KindFigure:
		return b.Figure == nil
	case KindEquation:
		return b.Equation == nil || b.Equation.Math == ""
	}
	for _, r := range b.Runs {
		if strings.TrimSpace(r.Text) != "" || r.Math != "" {
			return false
		}
	}
	return true
}

// HasMath reports whether any run of the block carries inline math.
func (b *Block) HasMath() bool {
	for _, r := range b.Runs {
		if r.Math != "" {
			return true
		}
	}
	return false
}
