package docx

import "encoding/xml"

// XML namespaces used in DOCX files.
const (
	nsW  = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsM  = "http://schemas.openxmlformats.org/officeDocument/2006/math"
	nsR  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
)

// paragraphXML represents a paragraph element (<w:p>). Runs, hyperlinks,
// and math objects are collected in child order by the ordered decoder.
type paragraphXML struct {
	Properties paragraphPropsXML
	Content    []paragraphChild
}

// paragraphChild is one ordered child of a paragraph.
type paragraphChild struct {
	Run  *runXML
	Math *mathXML // inline <m:oMath> or display <m:oMathPara>
}

// mathXML captures a native math object with its inner markup verbatim.
type mathXML struct {
	Display bool   // true for <m:oMathPara>
	Inner   string // raw OMML
}

// innerXML is the decode target for verbatim capture.
type innerXML struct {
	Inner string `xml:",innerxml"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Style         styleRefXML      `xml:"pStyle"`
	Justification justificationXML `xml:"jc"`
	Spacing       spacingXML       `xml:"spacing"`
	Indent        indentXML        `xml:"ind"`
}

// styleRefXML represents a style reference.
type styleRefXML struct {
	Val string `xml:"val,attr"`
}

// justificationXML represents text justification.
type justificationXML struct {
	Val string `xml:"val,attr"` // left, center, right, both
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before string `xml:"before,attr"` // twips
	After  string `xml:"after,attr"`  // twips
	Line   string `xml:"line,attr"`
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left      string `xml:"left,attr"`
	Right     string `xml:"right,attr"`
	FirstLine string `xml:"firstLine,attr"`
	Hanging   string `xml:"hanging,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties runPropsXML  `xml:"rPr"`
	Text       []textXML    `xml:"t"`
	Tabs       []tabXML     `xml:"tab"`
	Breaks     []breakXML   `xml:"br"`
	Drawing    []drawingXML `xml:"drawing"`
}

// runPropsXML represents run properties (<w:rPr>).
type runPropsXML struct {
	Bold     *boolXML `xml:"b"`
	Italic   *boolXML `xml:"i"`
	Under    *valXML  `xml:"u"`
	FontSize sizeXML  `xml:"sz"`
	Font     fontXML  `xml:"rFonts"`
}

// boolXML represents an on/off toggle element. Presence with no val (or a
// truthy val) means on; val "false"/"0" means explicitly off.
type boolXML struct {
	Val string `xml:"val,attr"`
}

// valXML represents a simple valued element.
type valXML struct {
	Val string `xml:"val,attr"`
}

// sizeXML represents font size in half-points.
type sizeXML struct {
	Val string `xml:"val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII string `xml:"ascii,attr"`
	HAnsi string `xml:"hAnsi,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"space,attr"`
	Value string `xml:",chardata"`
}

// tabXML represents a tab character.
type tabXML struct{}

// breakXML represents a line or page break.
type breakXML struct {
	Type string `xml:"type,attr"`
}

// drawingXML represents an embedded image. The blip path works for both
// inline and anchored placements.
type drawingXML struct {
	Inline *placementXML `xml:"inline"`
	Anchor *placementXML `xml:"anchor"`
}

// placementXML holds the parts of a drawing placement we care about.
type placementXML struct {
	Extent extentXML `xml:"extent"`
	DocPr  docPrXML  `xml:"docPr"`
	Blip   *blipXML  `xml:"graphic>graphicData>pic>blipFill>blip"`
}

// extentXML represents image dimensions in EMUs.
type extentXML struct {
	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
}

// docPrXML represents document properties of an image.
type docPrXML struct {
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

// blipXML represents an image reference by relationship ID.
type blipXML struct {
	Embed string `xml:"embed,attr"`
}

// rowPropsXML represents row properties (<w:trPr>).
type rowPropsXML struct {
	Header *boolXML `xml:"tblHeader"`
}

// cellPropsXML represents cell properties (<w:tcPr>).
type cellPropsXML struct {
	VAlign valXML `xml:"vAlign"`
}

// relationshipsXML represents _rels/*.rels files.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship entry.
type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}
