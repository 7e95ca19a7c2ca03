package style

import "github.com/tsawler/texword/model"

// FormatTables applies the three-line table style to every table: a rule
// above the header row, a thinner rule below it, and a rule closing the
// table, with no vertical or interior lines. Header cells center their
// content; all cells align middle vertically.
func (s *Styler) FormatTables(doc *model.Document) {
	for _, t := range doc.Tables() {
		s.formatTable(t)
	}
}

func (s *Styler) formatTable(t *model.Table) {
	outer := model.Border{Style: "single", Width: s.cfg.TableOuterBorder}
	t.Borders = model.BorderSet{
		Top:     outer,
		Bottom:  outer,
		Left:    model.BorderNone,
		Right:   model.BorderNone,
		InsideH: model.BorderNone,
		InsideV: model.BorderNone,
	}
	t.HeaderSep = model.Border{Style: "single", Width: s.cfg.TableHeaderBorder}
	t.Alignment = model.AlignCenter
	t.FontSize = s.cfg.TableSize

	for _, row := range t.Rows {
		for _, cell := range row.Cells {
			cell.VAlign = model.VAlignMiddle
			for _, b := range cell.Blocks {
				// Cell paragraphs never carry body indentation.
				b.Format.FirstLineIndent = 0
				b.Format.LeftIndent = 0
			}
		}
	}
}
