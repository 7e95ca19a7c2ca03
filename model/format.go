package model

// Tri is a three-valued formatting flag. Unset means "inherit / leave as
// the author wrote it"; styling rules only overwrite flags they explicitly
// set, which is how deliberate emphasis survives restyling.
type Tri int

const (
	TriUnset Tri = iota
	TriOn
	TriOff
)

// Bool reports whether the flag is effectively on.
func (t Tri) Bool() bool { return t == TriOn }

// Alignment represents horizontal paragraph alignment.
type Alignment int

const (
	AlignUnset Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

// String returns the OOXML justification value for the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "both"
	default:
		return ""
	}
}

// VerticalAlignment represents vertical alignment within a table cell.
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignMiddle
	VAlignBottom
)

// RunFormat holds character-level formatting for a run. A zero FontSize or
// empty FontFamily means the attribute is unset and inherits from the
// document default.
type RunFormat struct {
	FontFamily string
	FontSize   float64 // points
	Bold       Tri
	Italic     Tri
	Underline  Tri
}

// BlockFormat holds paragraph-level formatting. Lengths are in
// centimeters, sizes and spacing gaps in points. Zero values mean unset.
type BlockFormat struct {
	Alignment   Alignment
	LineSpacing float64 // multiple of single spacing
	SpaceBefore float64 // points
	SpaceAfter  float64 // points

	FirstLineIndent float64 // cm; negative produces a hanging indent
	LeftIndent      float64 // cm
	RightIndent     float64 // cm

	// WidowOrphan asks the renderer to keep a minimum number of lines of
	// the paragraph together at a page boundary.
	WidowOrphan bool
}

// Border is a single table border line. A zero Width with Style "none"
// suppresses the border.
type Border struct {
	Style string  // "single", "none"
	Width float64 // points
}

// BorderNone is the absent border.
var BorderNone = Border{Style: "none"}

// BorderSet holds the six borders of a table.
type BorderSet struct {
	Top     Border
	Bottom  Border
	Left    Border
	Right   Border
	InsideH Border
	InsideV Border
}
