package model

import "strings"

// Table represents a table as ordered rows of cells. Each cell owns its
// own small block tree, so nested content keeps the normal block
// invariants.
type Table struct {
	Rows      []*Row
	Borders   BorderSet
	HeaderSep Border    // bottom border of the header row's cells
	Alignment Alignment // table alignment on the page
	FontSize  float64   // points; applied to cell text by styling
}

// Row is a single table row.
type Row struct {
	Cells []*Cell

	// Header is set when the upstream converter explicitly marked the row
	// as a header row (w:tblHeader or equivalent). Unset rows fall back to
	// the first-row-is-header default during classification.
	Header Tri
}

// Cell is a single table cell containing its own block sequence.
type Cell struct {
	Blocks []*Block
	Role   Role // RoleCellHeader or RoleCellBody after classification
	VAlign VerticalAlignment
}

// NewTable creates an empty table with the given dimensions, each cell
// holding one empty paragraph.
func NewTable(rows, cols int) *Table {
	t := &Table{Rows: make([]*Row, rows)}
	for i := 0; i < rows; i++ {
		row := &Row{Cells: make([]*Cell, cols)}
		for j := 0; j < cols; j++ {
			row.Cells[j] = &Cell{Blocks: []*Block{NewParagraph("")}}
		}
		t.Rows[i] = row
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColCount returns the number of columns in the first row.
func (t *Table) ColCount() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0].Cells)
}

// Cell returns the cell at the given row and column (0-indexed), or nil
// if out of bounds.
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r.Cells) {
		return nil
	}
	return r.Cells[col]
}

// SetCellText replaces the content of a cell with a single paragraph.
func (t *Table) SetCellText(row, col int, text string) {
	if c := t.Cell(row, col); c != nil {
		c.Blocks = []*Block{NewParagraph(text)}
	}
}

// Text returns the tab-separated cell text, one row per line.
func (t *Table) Text() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row.Cells {
			sb.WriteString(cell.Text())
			if j < len(row.Cells)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Text returns the concatenated text of the cell's blocks.
func (c *Cell) Text() string {
	var parts []string
	for _, b := range c.Blocks {
		parts = append(parts, b.Text())
	}
	return strings.Join(parts, " ")
}

// EachCell calls fn for every cell with its row index.
func (t *Table) EachCell(fn func(rowIdx int, cell *Cell)) {
	for i, row := range t.Rows {
		for _, cell := range row.Cells {
			fn(i, cell)
		}
	}
}
