package docx

import (
	"archive/zip"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/texword/model"
)

// ============================================================================
// Helpers
// ============================================================================

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
}

func archiveEntry(t *testing.T, path, name string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("opening %s: %v", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("reading %s: %v", name, err)
			}
			return string(data)
		}
	}
	t.Fatalf("archive entry %s not found", name)
	return ""
}

// ============================================================================
// Unit conversions
// ============================================================================

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"2.54cm to twips", cmToTwips(2.54), 1440},
		{"12pt to twips", ptToTwips(12), 240},
		{"12pt to half points", ptToHalfPoints(12), 24},
		{"1.5pt border to eighths", ptToEighths(1.5), 12},
		{"0.5pt border to eighths", ptToEighths(0.5), 4},
		{"double spacing to line", lineSpacingToTwips(2.0), 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := []struct {
		style string
		level int
		ok    bool
	}{
		{"Heading1", 1, true},
		{"Heading3", 3, true},
		{"heading2", 2, true},
		{"Heading10", 0, false},
		{"BodyText", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		level, ok := headingLevel(tt.style)
		if level != tt.level || ok != tt.ok {
			t.Errorf("headingLevel(%q) = %d, %v; want %d, %v", tt.style, level, ok, tt.level, tt.ok)
		}
	}
}

// ============================================================================
// Round trip
// ============================================================================

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.docx")

	doc := model.NewDocument()
	doc.Layout = model.PageLayout{
		PageWidth: 21.59, PageHeight: 27.94,
		MarginTop: 2.54, MarginBottom: 2.54, MarginLeft: 2.54, MarginRight: 2.54,
		HeaderText:      "RUNNING HEAD",
		HeaderPageField: true,
	}
	title := model.NewParagraph("A Study of Things")
	title.Format.Alignment = model.AlignCenter
	title.Runs[0].Format = model.RunFormat{FontSize: 16, Bold: model.TriOn}
	doc.AddBlock(title)

	body := model.NewParagraph("First sentence. ")
	body.Runs = append(body.Runs, &model.Run{Text: "emphasis", Format: model.RunFormat{Italic: model.TriOn}})
	body.Format.LineSpacing = 2.0
	body.Format.FirstLineIndent = 1.27
	body.Format.WidowOrphan = true
	doc.AddBlock(body)

	ref := model.NewParagraph("Smith, J. (2020). On widgets.")
	ref.Format.LeftIndent = 1.27
	ref.Format.FirstLineIndent = -1.27
	doc.AddBlock(ref)

	table := model.NewTable(2, 2)
	table.SetCellText(0, 0, "Name")
	table.SetCellText(0, 1, "Value")
	table.SetCellText(1, 0, "alpha")
	table.SetCellText(1, 1, "0.05")
	table.Rows[0].Header = model.TriOn
	table.Borders = model.BorderSet{
		Top:     model.Border{Style: "single", Width: 1.5},
		Bottom:  model.Border{Style: "single", Width: 1.5},
		Left:    model.BorderNone,
		Right:   model.BorderNone,
		InsideH: model.BorderNone,
		InsideV: model.BorderNone,
	}
	table.HeaderSep = model.Border{Style: "single", Width: 0.5}
	doc.AddBlock(&model.Block{Kind: model.KindTable, Table: table})

	eq := &model.Block{
		Kind:     model.KindEquation,
		Equation: &model.Equation{Math: `<m:oMath><m:r><m:t>x</m:t></m:r></m:oMath>`},
	}
	doc.AddBlock(eq)

	if err := Write(doc, out); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(out, "")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.BlockCount() != 5 {
		t.Fatalf("expected 5 blocks, got %d", got.BlockCount())
	}
	if text := got.Blocks[0].Text(); text != "A Study of Things" {
		t.Errorf("title text = %q", text)
	}
	if got.Blocks[0].Runs[0].Format.Bold != model.TriOn {
		t.Error("title bold flag lost")
	}
	if got.Blocks[0].Runs[0].Format.FontSize != 16 {
		t.Errorf("title font size = %v, want 16", got.Blocks[0].Runs[0].Format.FontSize)
	}
	if got.Blocks[0].Format.Alignment != model.AlignCenter {
		t.Error("title alignment lost")
	}
	if got.Blocks[1].Runs[1].Format.Italic != model.TriOn {
		t.Error("author emphasis lost in round trip")
	}
	if got.Blocks[1].Format.LineSpacing != 2.0 {
		t.Errorf("line spacing = %v, want 2.0", got.Blocks[1].Format.LineSpacing)
	}
	if got.Blocks[1].Runs[0].Format.Bold != model.TriUnset {
		t.Error("absent bold toggle should stay unset")
	}
	if got.Blocks[2].Format.FirstLineIndent >= 0 {
		t.Errorf("hanging indent lost: %v", got.Blocks[2].Format.FirstLineIndent)
	}
	if got.Blocks[2].Format.LeftIndent < 1.26 || got.Blocks[2].Format.LeftIndent > 1.28 {
		t.Errorf("left indent = %v, want ~1.27", got.Blocks[2].Format.LeftIndent)
	}

	rt := got.Blocks[3]
	if rt.Kind != model.KindTable {
		t.Fatalf("block 3 kind = %v, want table", rt.Kind)
	}
	if rt.Table.RowCount() != 2 || rt.Table.ColCount() != 2 {
		t.Fatalf("table shape %dx%d", rt.Table.RowCount(), rt.Table.ColCount())
	}
	if rt.Table.Rows[0].Header != model.TriOn {
		t.Error("header row flag lost")
	}
	if text := rt.Table.Cell(1, 0).Text(); text != "alpha" {
		t.Errorf("cell text = %q", text)
	}

	if got.Blocks[4].Kind != model.KindEquation {
		t.Fatalf("block 4 kind = %v, want equation", got.Blocks[4].Kind)
	}
	if !strings.Contains(got.Blocks[4].Equation.Math, "<m:t>x</m:t>") {
		t.Errorf("math content lost: %q", got.Blocks[4].Equation.Math)
	}
}

func TestWriteFigure(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "fig.png")
	writePNG(t, imgPath, 192, 96)
	out := filepath.Join(dir, "fig.docx")

	doc := model.NewDocument()
	doc.AddBlock(&model.Block{
		Kind:   model.KindFigure,
		Figure: &model.Figure{Path: imgPath, WidthCm: 10, AltText: "a gray box"},
	})
	if err := Write(doc, out); err != nil {
		t.Fatalf("Write: %v", err)
	}

	body := archiveEntry(t, out, "word/document.xml")
	if !strings.Contains(body, `r:embed="rIdImg1"`) {
		t.Error("drawing does not reference the image relationship")
	}
	// 10 cm wide, 2:1 aspect -> 5 cm tall.
	if !strings.Contains(body, `cx="3600000"`) || !strings.Contains(body, `cy="1800000"`) {
		t.Errorf("unexpected extent in body: %s", body)
	}
	rels := archiveEntry(t, out, "word/_rels/document.xml.rels")
	if !strings.Contains(rels, `Target="media/image1.png"`) {
		t.Error("image relationship missing")
	}
	archiveEntry(t, out, "word/media/image1.png")

	// Round trip with media extraction.
	mediaDir := filepath.Join(dir, "media")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Read(out, mediaDir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.BlockCount() != 1 || got.Blocks[0].Kind != model.KindFigure {
		t.Fatalf("expected one figure block, got %+v", got.Blocks)
	}
	fig := got.Blocks[0].Figure
	if fig.WidthCm < 9.9 || fig.WidthCm > 10.1 {
		t.Errorf("figure width = %v, want ~10", fig.WidthCm)
	}
	if fig.AltText != "a gray box" {
		t.Errorf("alt text = %q", fig.AltText)
	}
	if _, err := os.Stat(fig.Path); err != nil {
		t.Errorf("extracted media missing: %v", err)
	}
}

func TestHeaderPart(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "hdr.docx")

	doc := model.NewDocument()
	doc.Layout = model.PageLayout{
		PageWidth: 21.59, PageHeight: 27.94,
		MarginLeft: 2.54, MarginRight: 2.54,
		HeaderText:      "SHORT TITLE",
		HeaderPageField: true,
	}
	doc.AddBlock(model.NewParagraph("body"))
	if err := Write(doc, out); err != nil {
		t.Fatalf("Write: %v", err)
	}

	hdr := archiveEntry(t, out, "word/header1.xml")
	if !strings.Contains(hdr, "SHORT TITLE") {
		t.Error("header text missing")
	}
	if !strings.Contains(hdr, `w:instrText xml:space="preserve"> PAGE `) {
		t.Error("page number field missing")
	}
	body := archiveEntry(t, out, "word/document.xml")
	if !strings.Contains(body, `w:headerReference w:type="default"`) {
		t.Error("section does not reference the header")
	}
	types := archiveEntry(t, out, "[Content_Types].xml")
	if !strings.Contains(types, "header1.xml") {
		t.Error("header missing from content types")
	}
}

func TestWriteNoHeader(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "plain.docx")
	doc := model.NewDocument()
	doc.AddBlock(model.NewParagraph("hello & <world>"))
	if err := Write(doc, out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	body := archiveEntry(t, out, "word/document.xml")
	if !strings.Contains(body, "hello &amp; &lt;world&gt;") {
		t.Error("text not escaped")
	}
	if strings.Contains(body, "headerReference") {
		t.Error("unexpected header reference")
	}
}

// ============================================================================
// Artifact cleanup
// ============================================================================

func TestCleanArtifacts(t *testing.T) {
	doc := model.NewDocument()
	doc.AddBlock(model.NewParagraph("intro"))
	doc.AddBlock(model.NewParagraph("99"))
	doc.AddBlock(model.NewParagraph(""))
	doc.AddBlock(model.NewParagraph(""))
	doc.AddBlock(model.NewParagraph(""))
	doc.AddBlock(model.NewParagraph("outro"))
	doc.AddBlock(model.NewParagraph("100"))

	cleanArtifacts(doc)

	var texts []string
	for _, b := range doc.Blocks {
		texts = append(texts, b.Text())
	}
	want := []string{"intro", "", "outro"}
	if len(texts) != len(want) {
		t.Fatalf("got %d blocks %q, want %q", len(texts), texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("block %d = %q, want %q", i, texts[i], want[i])
		}
	}
}
