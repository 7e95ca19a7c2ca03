package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tsawler/texword/model"
)

// Read opens a DOCX file and builds a document tree from it. Media
// referenced by the document is extracted into mediaDir so figure blocks
// carry usable file paths; an empty mediaDir skips extraction and leaves
// archive-relative paths.
func Read(filename, mediaDir string) (*model.Document, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX archive: %w", err)
	}
	defer zr.Close()

	r := &reader{archive: &zr.Reader, mediaDir: mediaDir}
	return r.document()
}

// reader holds parse state for one archive.
type reader struct {
	archive  *zip.Reader
	mediaDir string
	rels     map[string]string // relationship ID -> target
	media    map[string]string // archive path -> extracted path
}

func (r *reader) document() (*model.Document, error) {
	data, err := r.fileContent("word/document.xml")
	if err != nil {
		return nil, fmt.Errorf("missing word/document.xml: %w", err)
	}

	if err := r.parseRelationships(); err != nil {
		return nil, fmt.Errorf("parsing relationships: %w", err)
	}
	r.media = make(map[string]string)

	doc := model.NewDocument()
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing document.xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "body" {
			continue
		}
		if err := r.parseBody(dec, doc); err != nil {
			return nil, err
		}
	}

	cleanArtifacts(doc)
	return doc, nil
}

// parseBody walks the children of <w:body>, preserving the order of
// paragraphs and tables.
func (r *reader) parseBody(dec *xml.Decoder, doc *model.Document) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parsing body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				block, err := r.parseParagraph(dec, t)
				if err != nil {
					return err
				}
				if block != nil {
					doc.AddBlock(block)
				}
			case "tbl":
				table, err := r.parseTable(dec, t)
				if err != nil {
					return err
				}
				doc.AddBlock(&model.Block{Kind: model.KindTable, Table: table})
			case "sectPr":
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				return nil
			}
		}
	}
}

// parseParagraph decodes a <w:p> element into a block. The paragraph's
// children are walked in order so inline math keeps its position between
// text runs.
func (r *reader) parseParagraph(dec *xml.Decoder, start xml.StartElement) (*model.Block, error) {
	var p paragraphXML
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing paragraph: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				if err := dec.DecodeElement(&p.Properties, &t); err != nil {
					return nil, err
				}
			case "r":
				var run runXML
				if err := dec.DecodeElement(&run, &t); err != nil {
					return nil, err
				}
				p.Content = append(p.Content, paragraphChild{Run: &run})
			case "hyperlink":
				runs, err := r.parseHyperlink(dec)
				if err != nil {
					return nil, err
				}
				for i := range runs {
					p.Content = append(p.Content, paragraphChild{Run: &runs[i]})
				}
			case "oMathPara":
				var inner innerXML
				if err := dec.DecodeElement(&inner, &t); err != nil {
					return nil, err
				}
				p.Content = append(p.Content, paragraphChild{Math: &mathXML{Display: true, Inner: inner.Inner}})
			case "oMath":
				var inner innerXML
				if err := dec.DecodeElement(&inner, &t); err != nil {
					return nil, err
				}
				p.Content = append(p.Content, paragraphChild{Math: &mathXML{Inner: inner.Inner}})
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return r.blockFromParagraph(p)
			}
		}
	}
}

// parseHyperlink collects the runs inside a <w:hyperlink>; the link
// target itself is not retained.
func (r *reader) parseHyperlink(dec *xml.Decoder) ([]runXML, error) {
	var runs []runXML
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing hyperlink: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "r" {
				var run runXML
				if err := dec.DecodeElement(&run, &t); err != nil {
					return nil, err
				}
				runs = append(runs, run)
			} else if err := dec.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "hyperlink" {
				return runs, nil
			}
		}
	}
}

// blockFromParagraph converts a decoded paragraph into a model block.
func (r *reader) blockFromParagraph(p paragraphXML) (*model.Block, error) {
	block := &model.Block{Kind: model.KindParagraph, Style: p.Properties.Style.Val}

	if level, ok := headingLevel(block.Style); ok {
		block.Kind = model.KindHeading
		block.Level = level
	}
	block.Format = blockFormat(p.Properties)

	onlyMath := true
	var displayMath *mathXML
	for _, child := range p.Content {
		switch {
		case child.Math != nil:
			if child.Math.Display {
				displayMath = child.Math
				continue
			}
			block.Runs = append(block.Runs, &model.Run{Math: child.Math.Inner})
		case child.Run != nil:
			run := child.Run
			for _, d := range run.Drawing {
				fig, err := r.figureFromDrawing(d)
				if err != nil {
					return nil, err
				}
				if fig != nil {
					block.Kind = model.KindFigure
					block.Figure = fig
				}
			}
			text := runText(*run)
			if text != "" {
				onlyMath = false
				block.Runs = append(block.Runs, &model.Run{
					Text:   text,
					Format: runFormat(run.Properties),
				})
			}
		}
	}

	// A paragraph holding nothing but display math becomes an equation
	// block so the native object survives styling untouched.
	if displayMath != nil {
		if onlyMath && len(block.Runs) == 0 {
			return &model.Block{
				Kind:     model.KindEquation,
				Style:    block.Style,
				Equation: &model.Equation{Math: displayMath.Inner},
			}, nil
		}
		block.Runs = append(block.Runs, &model.Run{Math: displayMath.Inner})
	}
	return block, nil
}

// parseTable decodes a <w:tbl> element, recursing into cell paragraphs.
func (r *reader) parseTable(dec *xml.Decoder, start xml.StartElement) (*model.Table, error) {
	table := &model.Table{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := r.parseRow(dec)
				if err != nil {
					return nil, err
				}
				table.Rows = append(table.Rows, row)
			} else if err := dec.Skip(); err != nil {
				return nil, err
			}
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return table, nil
			}
		}
	}
}

func (r *reader) parseRow(dec *xml.Decoder) (*model.Row, error) {
	row := &model.Row{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table row: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				var props rowPropsXML
				if err := dec.DecodeElement(&props, &t); err != nil {
					return nil, err
				}
				if props.Header != nil && !isOff(props.Header.Val) {
					row.Header = model.TriOn
				}
			case "tc":
				cell, err := r.parseCell(dec)
				if err != nil {
					return nil, err
				}
				row.Cells = append(row.Cells, cell)
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

func (r *reader) parseCell(dec *xml.Decoder) (*model.Cell, error) {
	cell := &model.Cell{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing table cell: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				var props cellPropsXML
				if err := dec.DecodeElement(&props, &t); err != nil {
					return nil, err
				}
				switch props.VAlign.Val {
				case "center":
					cell.VAlign = model.VAlignMiddle
				case "bottom":
					cell.VAlign = model.VAlignBottom
				}
			case "p":
				block, err := r.parseParagraph(dec, t)
				if err != nil {
					return nil, err
				}
				if block != nil {
					cell.Blocks = append(cell.Blocks, block)
				}
			default:
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return cell, nil
			}
		}
	}
}

// figureFromDrawing resolves a drawing's image relationship and extracts
// the media file.
func (r *reader) figureFromDrawing(d drawingXML) (*model.Figure, error) {
	placement := d.Inline
	if placement == nil {
		placement = d.Anchor
	}
	if placement == nil || placement.Blip == nil {
		return nil, nil
	}

	target, ok := r.rels[placement.Blip.Embed]
	if !ok {
		return nil, nil
	}
	archivePath := "word/" + strings.TrimPrefix(target, "/")

	path := archivePath
	if r.mediaDir != "" {
		extracted, err := r.extractMedia(archivePath)
		if err != nil {
			return nil, err
		}
		path = extracted
	}

	fig := &model.Figure{Path: path, AltText: placement.DocPr.Descr}
	if cx, err := strconv.ParseInt(placement.Extent.CX, 10, 64); err == nil {
		fig.WidthCm = float64(cx) / 360000.0 // EMU per cm
	}
	return fig, nil
}

// extractMedia copies one archive member into the media directory.
func (r *reader) extractMedia(archivePath string) (string, error) {
	if path, ok := r.media[archivePath]; ok {
		return path, nil
	}
	data, err := r.fileContent(archivePath)
	if err != nil {
		return "", fmt.Errorf("extracting %s: %w", archivePath, err)
	}
	dst := filepath.Join(r.mediaDir, filepath.Base(archivePath))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	r.media[archivePath] = dst
	return dst, nil
}

func (r *reader) parseRelationships() error {
	r.rels = make(map[string]string)
	data, err := r.fileContent("word/_rels/document.xml.rels")
	if err != nil {
		// Relationships are optional.
		return nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return err
	}
	for _, rel := range rels.Relationships {
		r.rels[rel.ID] = rel.Target
	}
	return nil
}

// fileContent reads the content of a file from the ZIP archive.
func (r *reader) fileContent(name string) ([]byte, error) {
	for _, f := range r.archive.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// runText extracts text from a run element.
func runText(run runXML) string {
	var parts []string
	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}
	for range run.Tabs {
		parts = append(parts, "\t")
	}
	for range run.Breaks {
		parts = append(parts, "\n")
	}
	return strings.Join(parts, "")
}

// runFormat maps run properties to the model's tri-state formatting.
// Absent toggles stay unset so deliberate author emphasis is
// distinguishable from converter defaults.
func runFormat(props runPropsXML) model.RunFormat {
	f := model.RunFormat{FontFamily: props.Font.ASCII}
	if props.Bold != nil {
		f.Bold = triFromToggle(props.Bold.Val)
	}
	if props.Italic != nil {
		f.Italic = triFromToggle(props.Italic.Val)
	}
	if props.Under != nil && props.Under.Val != "none" {
		f.Underline = model.TriOn
	}
	if hp, err := strconv.ParseFloat(props.FontSize.Val, 64); err == nil {
		f.FontSize = hp / 2.0
	}
	return f
}

func triFromToggle(val string) model.Tri {
	if isOff(val) {
		return model.TriOff
	}
	return model.TriOn
}

func isOff(val string) bool {
	return val == "false" || val == "0" || val == "off" || val == "none"
}

// blockFormat maps paragraph properties to the model.
func blockFormat(props paragraphPropsXML) model.BlockFormat {
	f := model.BlockFormat{}
	switch props.Justification.Val {
	case "left":
		f.Alignment = model.AlignLeft
	case "center":
		f.Alignment = model.AlignCenter
	case "right":
		f.Alignment = model.AlignRight
	case "both":
		f.Alignment = model.AlignJustify
	}
	if tw, err := strconv.ParseFloat(props.Spacing.Before, 64); err == nil {
		f.SpaceBefore = tw / 20.0
	}
	if tw, err := strconv.ParseFloat(props.Spacing.After, 64); err == nil {
		f.SpaceAfter = tw / 20.0
	}
	if line, err := strconv.ParseFloat(props.Spacing.Line, 64); err == nil {
		f.LineSpacing = line / 240.0
	}
	if tw, err := strconv.ParseFloat(props.Indent.Left, 64); err == nil {
		f.LeftIndent = twipsToCm(tw)
	}
	if tw, err := strconv.ParseFloat(props.Indent.Right, 64); err == nil {
		f.RightIndent = twipsToCm(tw)
	}
	if tw, err := strconv.ParseFloat(props.Indent.FirstLine, 64); err == nil {
		f.FirstLineIndent = twipsToCm(tw)
	}
	if tw, err := strconv.ParseFloat(props.Indent.Hanging, 64); err == nil {
		f.FirstLineIndent = -twipsToCm(tw)
	}
	return f
}

// headingLevel reports whether a style ID is a heading and at what level.
func headingLevel(styleID string) (int, bool) {
	s := strings.ToLower(styleID)
	if !strings.HasPrefix(s, "heading") {
		return 0, false
	}
	level, err := strconv.Atoi(strings.TrimPrefix(s, "heading"))
	if err != nil || level < 1 || level > 9 {
		return 0, false
	}
	return level, true
}

// cleanArtifacts removes converter residue: stray counter paragraphs left
// behind by thebibliography environments, and runs of consecutive empty
// paragraphs (a single empty paragraph is kept as a separator).
func cleanArtifacts(doc *model.Document) {
	out := doc.Blocks[:0]
	prevEmpty := false
	for _, b := range doc.Blocks {
		text := strings.TrimSpace(b.Text())
		if b.Kind == model.KindParagraph && len(b.Runs) <= 1 && (text == "99" || text == "100") {
			continue
		}
		empty := b.IsEmpty()
		if empty && prevEmpty {
			continue
		}
		prevEmpty = empty
		out = append(out, b)
	}
	doc.Blocks = out
}
