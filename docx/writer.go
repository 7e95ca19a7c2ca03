package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/texword/model"
)

// Write renders a document tree into a DOCX file at the given path. Page
// geometry, the running header, and all block formatting are emitted as
// direct formatting so the result is independent of template styles.
func Write(doc *model.Document, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := &writer{doc: doc, zw: zip.NewWriter(f)}
	if err := w.write(); err != nil {
		w.zw.Close()
		return err
	}
	return w.zw.Close()
}

// mediaRef is one image scheduled for inclusion in the archive.
type mediaRef struct {
	relID  string
	name   string // archive name under word/media/
	source string // filesystem path
}

type writer struct {
	doc    *model.Document
	zw     *zip.Writer
	media  []mediaRef
	nextID int
}

func (w *writer) write() error {
	body, err := w.bodyXML()
	if err != nil {
		return err
	}
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", w.contentTypesXML()},
		{"_rels/.rels", rootRelsXML},
		{"word/document.xml", body},
		{"word/_rels/document.xml.rels", w.documentRelsXML()},
		{"word/styles.xml", stylesXML},
	}
	if w.hasHeader() {
		parts = append(parts, struct {
			name    string
			content string
		}{"word/header1.xml", w.headerXML()})
	}
	for _, p := range parts {
		if err := w.writePart(p.name, []byte(p.content)); err != nil {
			return err
		}
	}
	for _, m := range w.media {
		data, err := os.ReadFile(m.source)
		if err != nil {
			return fmt.Errorf("reading figure %s: %w", m.source, err)
		}
		if err := w.writePart("word/media/"+m.name, data); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writePart(name string, data []byte) error {
	zf, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	_, err = zf.Write(data)
	return err
}

func (w *writer) hasHeader() bool {
	return w.doc.Layout.HeaderText != "" || w.doc.Layout.HeaderPageField
}

// bodyXML builds word/document.xml.
func (w *writer) bodyXML() (string, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:document xmlns:w="` + nsW + `" xmlns:m="` + nsM + `" xmlns:r="` + nsR + `" xmlns:wp="` + nsWP + `" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	sb.WriteString("<w:body>")
	for _, b := range w.doc.Blocks {
		if err := w.blockXML(&sb, b); err != nil {
			return "", err
		}
	}
	w.sectPrXML(&sb)
	sb.WriteString("</w:body></w:document>")
	return sb.String(), nil
}

func (w *writer) blockXML(sb *strings.Builder, b *model.Block) error {
	switch b.Kind {
	case model.KindTable:
		return w.tableXML(sb, b.Table)
	case model.KindFigure:
		return w.figureXML(sb, b)
	case model.KindEquation:
		sb.WriteString("<w:p>")
		paragraphPropsOut(sb, b.Format)
		sb.WriteString("<m:oMathPara>")
		sb.WriteString(b.Equation.Math)
		sb.WriteString("</m:oMathPara></w:p>")
		return nil
	default:
		w.paragraphOut(sb, b)
		return nil
	}
}

func (w *writer) paragraphOut(sb *strings.Builder, b *model.Block) {
	sb.WriteString("<w:p>")
	paragraphPropsOut(sb, b.Format)
	for _, r := range b.Runs {
		if r.Math != "" {
			sb.WriteString("<m:oMath>")
			sb.WriteString(r.Math)
			sb.WriteString("</m:oMath>")
			continue
		}
		runOut(sb, r)
	}
	sb.WriteString("</w:p>")
}

func paragraphPropsOut(sb *strings.Builder, f model.BlockFormat) {
	var props strings.Builder
	if f.WidowOrphan {
		props.WriteString(`<w:widowControl/>`)
	}
	if f.SpaceBefore != 0 || f.SpaceAfter != 0 || f.LineSpacing != 0 {
		props.WriteString(`<w:spacing`)
		if f.SpaceBefore != 0 {
			fmt.Fprintf(&props, ` w:before="%d"`, ptToTwips(f.SpaceBefore))
		}
		if f.SpaceAfter != 0 {
			fmt.Fprintf(&props, ` w:after="%d"`, ptToTwips(f.SpaceAfter))
		}
		if f.LineSpacing != 0 {
			fmt.Fprintf(&props, ` w:line="%d" w:lineRule="auto"`, lineSpacingToTwips(f.LineSpacing))
		}
		props.WriteString("/>")
	}
	if f.LeftIndent != 0 || f.RightIndent != 0 || f.FirstLineIndent != 0 {
		props.WriteString(`<w:ind`)
		if f.LeftIndent != 0 {
			fmt.Fprintf(&props, ` w:left="%d"`, cmToTwips(f.LeftIndent))
		}
		if f.RightIndent != 0 {
			fmt.Fprintf(&props, ` w:right="%d"`, cmToTwips(f.RightIndent))
		}
		switch {
		case f.FirstLineIndent > 0:
			fmt.Fprintf(&props, ` w:firstLine="%d"`, cmToTwips(f.FirstLineIndent))
		case f.FirstLineIndent < 0:
			fmt.Fprintf(&props, ` w:hanging="%d"`, cmToTwips(-f.FirstLineIndent))
		}
		props.WriteString("/>")
	}
	if f.Alignment != model.AlignUnset {
		fmt.Fprintf(&props, `<w:jc w:val="%s"/>`, f.Alignment)
	}
	if props.Len() > 0 {
		sb.WriteString("<w:pPr>")
		sb.WriteString(props.String())
		sb.WriteString("</w:pPr>")
	}
}

func runOut(sb *strings.Builder, r *model.Run) {
	sb.WriteString("<w:r>")
	runPropsOut(sb, r.Format)
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			sb.WriteString("<w:br/>")
		}
		if line != "" {
			sb.WriteString(`<w:t xml:space="preserve">`)
			sb.WriteString(escape(line))
			sb.WriteString("</w:t>")
		}
	}
	sb.WriteString("</w:r>")
}

func runPropsOut(sb *strings.Builder, f model.RunFormat) {
	var props strings.Builder
	if f.FontFamily != "" {
		fmt.Fprintf(&props, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, escape(f.FontFamily), escape(f.FontFamily))
	}
	switch f.Bold {
	case model.TriOn:
		props.WriteString("<w:b/>")
	case model.TriOff:
		props.WriteString(`<w:b w:val="false"/>`)
	}
	switch f.Italic {
	case model.TriOn:
		props.WriteString("<w:i/>")
	case model.TriOff:
		props.WriteString(`<w:i w:val="false"/>`)
	}
	if f.Underline == model.TriOn {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	if f.FontSize != 0 {
		fmt.Fprintf(&props, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, ptToHalfPoints(f.FontSize), ptToHalfPoints(f.FontSize))
	}
	if props.Len() > 0 {
		sb.WriteString("<w:rPr>")
		sb.WriteString(props.String())
		sb.WriteString("</w:rPr>")
	}
}

func (w *writer) tableXML(sb *strings.Builder, t *model.Table) error {
	sb.WriteString("<w:tbl><w:tblPr>")
	if t.Alignment != model.AlignUnset {
		fmt.Fprintf(sb, `<w:jc w:val="%s"/>`, t.Alignment)
	}
	sb.WriteString(`<w:tblW w:w="0" w:type="auto"/>`)
	sb.WriteString("<w:tblBorders>")
	borderOut(sb, "top", t.Borders.Top)
	borderOut(sb, "left", t.Borders.Left)
	borderOut(sb, "bottom", t.Borders.Bottom)
	borderOut(sb, "right", t.Borders.Right)
	borderOut(sb, "insideH", t.Borders.InsideH)
	borderOut(sb, "insideV", t.Borders.InsideV)
	sb.WriteString("</w:tblBorders></w:tblPr>")

	for _, row := range t.Rows {
		sb.WriteString("<w:tr>")
		if row.Header == model.TriOn {
			sb.WriteString("<w:trPr><w:tblHeader/></w:trPr>")
		}
		for _, cell := range row.Cells {
			if err := w.cellXML(sb, cell, row.Header == model.TriOn, t.HeaderSep); err != nil {
				return err
			}
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return nil
}

func (w *writer) cellXML(sb *strings.Builder, cell *model.Cell, header bool, sep model.Border) error {
	sb.WriteString("<w:tc><w:tcPr>")
	if header && sep.Style != "" && sep.Style != "none" {
		sb.WriteString("<w:tcBorders>")
		borderOut(sb, "bottom", sep)
		sb.WriteString("</w:tcBorders>")
	}
	switch cell.VAlign {
	case model.VAlignMiddle:
		sb.WriteString(`<w:vAlign w:val="center"/>`)
	case model.VAlignBottom:
		sb.WriteString(`<w:vAlign w:val="bottom"/>`)
	}
	sb.WriteString("</w:tcPr>")
	// A cell must contain at least one paragraph.
	if len(cell.Blocks) == 0 {
		sb.WriteString("<w:p/>")
	}
	for _, b := range cell.Blocks {
		if err := w.blockXML(sb, b); err != nil {
			return err
		}
	}
	sb.WriteString("</w:tc>")
	return nil
}

func borderOut(sb *strings.Builder, side string, b model.Border) {
	style := b.Style
	if style == "" || b.Width == 0 {
		style = "none"
	}
	if style == "none" {
		fmt.Fprintf(sb, `<w:%s w:val="none" w:sz="0" w:space="0"/>`, side)
		return
	}
	fmt.Fprintf(sb, `<w:%s w:val="%s" w:sz="%d" w:space="0" w:color="000000"/>`, side, style, ptToEighths(b.Width))
}

// figureXML emits an inline drawing, registering the image as a media
// part. The natural pixel size fixes the aspect ratio; WidthCm overrides
// the display width.
func (w *writer) figureXML(sb *strings.Builder, b *model.Block) error {
	fig := b.Figure
	widthCm, heightCm, err := figureSize(fig)
	if err != nil {
		return err
	}
	relID := fmt.Sprintf("rIdImg%d", len(w.media)+1)
	name := fmt.Sprintf("image%d%s", len(w.media)+1, filepath.Ext(fig.Path))
	w.media = append(w.media, mediaRef{relID: relID, name: name, source: fig.Path})
	w.nextID++

	cx, cy := cmToEMU(widthCm), cmToEMU(heightCm)
	format := b.Format
	if format.Alignment == model.AlignUnset {
		format.Alignment = model.AlignCenter
	}
	sb.WriteString("<w:p>")
	paragraphPropsOut(sb, format)
	fmt.Fprintf(sb, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/>`+
		`<wp:docPr id="%d" name="%s" descr="%s"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, w.nextID, escape(name), escape(fig.AltText), w.nextID, escape(name), relID, cx, cy)
	return nil
}

// figureSize determines the display size in cm from the image's pixel
// dimensions at 96 DPI, scaled to WidthCm when set.
func figureSize(fig *model.Figure) (widthCm, heightCm float64, err error) {
	f, err := os.Open(fig.Path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening figure %s: %w", fig.Path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("reading figure dimensions %s: %w", fig.Path, err)
	}
	const cmPerPx = 2.54 / 96
	widthCm = float64(cfg.Width) * cmPerPx
	heightCm = float64(cfg.Height) * cmPerPx
	if fig.WidthCm > 0 && widthCm > 0 {
		heightCm *= fig.WidthCm / widthCm
		widthCm = fig.WidthCm
	}
	return widthCm, heightCm, nil
}

// sectPrXML emits the section properties: page size, margins, and the
// running header reference.
func (w *writer) sectPrXML(sb *strings.Builder) {
	l := w.doc.Layout
	sb.WriteString("<w:sectPr>")
	if w.hasHeader() {
		sb.WriteString(`<w:headerReference w:type="default" r:id="rIdHdr1"/>`)
	}
	if l.PageWidth > 0 && l.PageHeight > 0 {
		fmt.Fprintf(sb, `<w:pgSz w:w="%d" w:h="%d"/>`, cmToTwips(l.PageWidth), cmToTwips(l.PageHeight))
	}
	fmt.Fprintf(sb, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`,
		cmToTwips(l.MarginTop), cmToTwips(l.MarginRight), cmToTwips(l.MarginBottom), cmToTwips(l.MarginLeft))
	sb.WriteString("</w:sectPr>")
}

// headerXML builds word/header1.xml: the header text on the left and an
// automatic page number flush right at the content edge.
func (w *writer) headerXML() string {
	l := w.doc.Layout
	contentWidth := cmToTwips(l.PageWidth - l.MarginLeft - l.MarginRight)
	if contentWidth <= 0 {
		contentWidth = 9360 // Letter default content width
	}
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<w:hdr xmlns:w="` + nsW + `">`)
	sb.WriteString("<w:p><w:pPr>")
	fmt.Fprintf(&sb, `<w:tabs><w:tab w:val="right" w:pos="%d"/></w:tabs>`, contentWidth)
	sb.WriteString("</w:pPr>")
	if l.HeaderText != "" {
		sb.WriteString(`<w:r><w:t xml:space="preserve">`)
		sb.WriteString(escape(l.HeaderText))
		sb.WriteString("</w:t></w:r>")
	}
	if l.HeaderPageField {
		sb.WriteString("<w:r><w:tab/></w:r>")
		sb.WriteString(`<w:r><w:fldChar w:fldCharType="begin"/></w:r>`)
		sb.WriteString(`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>`)
		sb.WriteString(`<w:r><w:fldChar w:fldCharType="end"/></w:r>`)
	}
	sb.WriteString("</w:p></w:hdr>")
	return sb.String()
}

func (w *writer) contentTypesXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	sb.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	sb.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	sb.WriteString(`<Default Extension="png" ContentType="image/png"/>`)
	sb.WriteString(`<Default Extension="jpg" ContentType="image/jpeg"/>`)
	sb.WriteString(`<Default Extension="jpeg" ContentType="image/jpeg"/>`)
	sb.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	sb.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if w.hasHeader() {
		sb.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	}
	sb.WriteString("</Types>")
	return sb.String()
}

func (w *writer) documentRelsXML() string {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	sb.WriteString(`<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if w.hasHeader() {
		sb.WriteString(`<Relationship Id="rIdHdr1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>`)
	}
	for _, m := range w.media {
		fmt.Fprintf(&sb, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/%s"/>`, m.relID, m.name)
	}
	sb.WriteString("</Relationships>")
	return sb.String()
}

const rootRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const stylesXML = xml.Header + `<w:styles xmlns:w="` + nsW + `"><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman"/><w:sz w:val="24"/></w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`

// escape makes a string safe for XML text and attribute content.
func escape(s string) string {
	return xmlEscaper.Replace(s)
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)
