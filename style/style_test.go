package style

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/texword/model"
)

// ============================================================================
// Config
// ============================================================================

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty font", func(c *Config) { c.FontFamily = "" }},
		{"tiny body size", func(c *Config) { c.BodySize = 2 }},
		{"huge title size", func(c *Config) { c.TitleSize = 200 }},
		{"sub-single spacing", func(c *Config) { c.LineSpacing = 0.5 }},
		{"margins eat page", func(c *Config) { c.MarginLeft = 11; c.MarginRight = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigSet(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("body_size", 11); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if cfg.BodySize != 11 {
		t.Errorf("body size = %v", cfg.BodySize)
	}
	if err := cfg.Set("margin", 3); err != nil {
		t.Fatalf("Set margin: %v", err)
	}
	if cfg.MarginTop != 3 || cfg.MarginBottom != 3 || cfg.MarginLeft != 3 || cfg.MarginRight != 3 {
		t.Error("margin shorthand did not set all four margins")
	}
	if err := cfg.Set("body_sze", 11); err == nil {
		t.Error("expected error for unknown option name")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("body_size: 11\nline_spacing: 1.5\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BodySize != 11 || cfg.LineSpacing != 1.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.TitleSize != 16 {
		t.Errorf("default lost: title size = %v", cfg.TitleSize)
	}
	if _, err := LoadConfig(strings.NewReader("body_sze: 11\n")); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := LoadConfig(strings.NewReader("line_spacing: 0.2\n")); err == nil {
		t.Error("expected validation error")
	}
}

// ============================================================================
// Rule set
// ============================================================================

func TestDefaultRulesTotal(t *testing.T) {
	if err := DefaultRules(DefaultConfig()).Validate(); err != nil {
		t.Fatalf("default rules not total: %v", err)
	}
}

func TestRuleSetValidateMissing(t *testing.T) {
	rules := DefaultRules(DefaultConfig())
	delete(rules, model.RoleCaption)
	err := rules.Validate()
	if err == nil {
		t.Fatal("expected error for missing role")
	}
	if !strings.Contains(err.Error(), "Caption") {
		t.Errorf("error does not name the missing role: %v", err)
	}
}

// ============================================================================
// Rule application
// ============================================================================

func classifiedDoc() *model.Document {
	doc := model.NewDocument()
	title := model.NewParagraph("A Title")
	title.Role = model.RoleTitle
	doc.AddBlock(title)

	h := model.NewHeading(1, "Introduction")
	h.Role = model.RoleHeading1
	doc.AddBlock(h)

	body := model.NewParagraph("Plain text ")
	body.Runs = append(body.Runs, &model.Run{Text: "emphasized", Format: model.RunFormat{Italic: model.TriOn}})
	body.Role = model.RoleBody
	doc.AddBlock(body)

	ref := model.NewParagraph("Smith, J. (2020). On widgets.")
	ref.Role = model.RoleReferenceEntry
	doc.AddBlock(ref)
	return doc
}

func newStyler(t *testing.T) *Styler {
	t.Helper()
	s, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestApplyRules(t *testing.T) {
	doc := classifiedDoc()
	s := newStyler(t)
	if err := s.Apply(doc); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	title := doc.Blocks[0]
	if title.Runs[0].Format.FontSize != 16 || title.Runs[0].Format.Bold != model.TriOn {
		t.Errorf("title run format = %+v", title.Runs[0].Format)
	}
	if title.Format.Alignment != model.AlignCenter {
		t.Error("title not centered")
	}

	h := doc.Blocks[1]
	if h.Runs[0].Format.FontSize != 14 || h.Runs[0].Format.Bold != model.TriOn {
		t.Errorf("heading run format = %+v", h.Runs[0].Format)
	}

	body := doc.Blocks[2]
	if body.Format.FirstLineIndent != 1.27 {
		t.Errorf("body first line indent = %v", body.Format.FirstLineIndent)
	}
	if body.Format.LineSpacing != 2.0 {
		t.Errorf("body line spacing = %v", body.Format.LineSpacing)
	}
	if !body.Format.WidowOrphan {
		t.Error("body widow control not set")
	}
	if body.Runs[0].Format.FontFamily != "Times New Roman" {
		t.Errorf("body font = %q", body.Runs[0].Format.FontFamily)
	}
}

func TestApplyPreservesEmphasis(t *testing.T) {
	doc := classifiedDoc()
	s := newStyler(t)
	if err := s.Apply(doc); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := doc.Blocks[2].Runs[1].Format.Italic; got != model.TriOn {
		t.Errorf("author italics = %v after styling, want TriOn", got)
	}

	// An explicitly unbolded run inside a heading stays unbolded.
	h := model.NewHeading(1, "")
	h.Role = model.RoleHeading1
	h.Runs = []*model.Run{{Text: "plain part", Format: model.RunFormat{Bold: model.TriOff}}}
	doc2 := model.NewDocument()
	doc2.AddBlock(h)
	if err := s.Apply(doc2); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := h.Runs[0].Format.Bold; got != model.TriOff {
		t.Errorf("explicit TriOff overwritten to %v", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	doc := classifiedDoc()
	s := newStyler(t)
	if err := s.Style(doc); err != nil {
		t.Fatalf("Style: %v", err)
	}
	var first []model.BlockFormat
	var firstRuns []model.RunFormat
	for _, b := range doc.Blocks {
		first = append(first, b.Format)
		for _, r := range b.Runs {
			firstRuns = append(firstRuns, r.Format)
		}
	}
	if err := s.Style(doc); err != nil {
		t.Fatalf("second Style: %v", err)
	}
	var second []model.BlockFormat
	var secondRuns []model.RunFormat
	for _, b := range doc.Blocks {
		second = append(second, b.Format)
		for _, r := range b.Runs {
			secondRuns = append(secondRuns, r.Format)
		}
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("block formats changed on second styling pass")
	}
	if !reflect.DeepEqual(firstRuns, secondRuns) {
		t.Error("run formats changed on second styling pass")
	}
}

func TestApplySkipsUnclassified(t *testing.T) {
	doc := model.NewDocument()
	p := model.NewParagraph("mystery block")
	p.Format.Alignment = model.AlignRight
	doc.AddBlock(p)
	s := newStyler(t)
	if err := s.Apply(doc); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Format.Alignment != model.AlignRight {
		t.Error("unclassified block was restyled")
	}
	if p.Runs[0].Format.FontFamily != "" {
		t.Error("unclassified run font overwritten")
	}
}

// ============================================================================
// Tables
// ============================================================================

func TestFormatTables(t *testing.T) {
	table := model.NewTable(2, 2)
	table.SetCellText(0, 0, "Name")
	table.SetCellText(1, 0, "alpha")
	table.Rows[0].Header = model.TriOn
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			cell.Blocks[0].Format.FirstLineIndent = 1.27
		}
	}
	doc := model.NewDocument()
	doc.AddBlock(&model.Block{Kind: model.KindTable, Table: table})

	s := newStyler(t)
	s.FormatTables(doc)

	if table.Borders.Top.Width != 1.5 || table.Borders.Bottom.Width != 1.5 {
		t.Errorf("outer borders = %+v", table.Borders)
	}
	if table.Borders.Left.Style != "none" || table.Borders.InsideV.Style != "none" {
		t.Error("vertical borders present in three-line style")
	}
	if table.Borders.InsideH.Style != "none" {
		t.Error("interior horizontal borders present")
	}
	if table.HeaderSep.Width != 0.5 {
		t.Errorf("header separator = %+v", table.HeaderSep)
	}
	for i, row := range table.Rows {
		for j, cell := range row.Cells {
			if cell.VAlign != model.VAlignMiddle {
				t.Errorf("cell (%d,%d) valign = %v", i, j, cell.VAlign)
			}
			if cell.Blocks[0].Format.FirstLineIndent != 0 {
				t.Errorf("cell (%d,%d) kept body indent", i, j)
			}
		}
	}
}

// ============================================================================
// References and layout
// ============================================================================

func TestFormatReferences(t *testing.T) {
	doc := classifiedDoc()
	s := newStyler(t)
	s.FormatReferences(doc)

	ref := doc.Blocks[3]
	if ref.Format.LeftIndent != 1.27 || ref.Format.FirstLineIndent != -1.27 {
		t.Errorf("hanging indent = left %v first %v", ref.Format.LeftIndent, ref.Format.FirstLineIndent)
	}
	if ref.Runs[0].Format.FontSize != 11 {
		t.Errorf("reference size = %v", ref.Runs[0].Format.FontSize)
	}
}

func TestLayoutPages(t *testing.T) {
	doc := classifiedDoc()
	s := newStyler(t)
	s.LayoutPages(doc)

	l := doc.Layout
	if l.PageWidth != 21.59 || l.PageHeight != 27.94 {
		t.Errorf("page size = %v x %v", l.PageWidth, l.PageHeight)
	}
	if l.MarginTop != 2.54 || l.MarginLeft != 2.54 {
		t.Errorf("margins = %+v", l)
	}
	if l.HeaderText != "A TITLE" {
		t.Errorf("header = %q", l.HeaderText)
	}
	if !l.HeaderPageField {
		t.Error("page number field not requested")
	}
}

func TestHeaderText(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"uppercased", "On Widgets", "ON WIDGETS"},
		{"trimmed", "  spaced  ", "SPACED"},
		{"empty", "", ""},
		{
			"truncated at limit",
			strings.Repeat("abcde ", 12), // 72 chars
			strings.ToUpper(strings.Repeat("abcde ", 12))[:57] + "...",
		},
		{
			"exactly at limit",
			strings.Repeat("x", 60),
			strings.ToUpper(strings.Repeat("x", 60)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := headerText(tt.title)
			if got != tt.want {
				t.Errorf("headerText(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if n := len([]rune(got)); n > 60 {
				t.Errorf("header length %d exceeds limit", n)
			}
		})
	}
}
