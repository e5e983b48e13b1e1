package report

// Structural table operations. These rewrite the table's XML tree
// directly: rows and cells are slices of elements, merging is expressed
// with w:gridSpan and w:vMerge on cell properties.

// InsertRow inserts an empty row at the given position (0 inserts
// before the first row, len(rows) appends). The new row clones the
// column structure, cell widths and paragraph styles of the row before
// the insertion point, so an inserted row looks like its neighbors.
func InsertRow(t *Table, at int) (*TableRow, error) {
	if at < 0 || at > len(t.Rows) {
		return nil, NewTableError("insert row", at, -1, "position out of range")
	}
	if len(t.Rows) == 0 {
		return nil, NewTableError("insert row", at, -1, "table has no rows to clone the structure from")
	}

	modelIdx := at - 1
	if modelIdx < 0 {
		modelIdx = 0
	}
	model := t.Rows[modelIdx]

	row := TableRow{}
	for _, modelCell := range model.Cells {
		cell := TableCell{}
		if modelCell.Properties != nil && modelCell.Properties.Width != nil {
			width := *modelCell.Properties.Width
			cell.Properties = &TableCellProperties{Width: &width}
		}
		style := ""
		if len(modelCell.Paragraphs) > 0 {
			style = modelCell.Paragraphs[0].StyleName()
		}
		cell.Paragraphs = []Paragraph{*newTextParagraph("", style)}
		row.Cells = append(row.Cells, cell)
	}

	t.Rows = append(t.Rows, TableRow{})
	copy(t.Rows[at+1:], t.Rows[at:])
	t.Rows[at] = row

	return &t.Rows[at], nil
}

// InsertColumn inserts a column at the given position (0 inserts before
// the first column) and writes header into its first-row cell. Every
// row receives a new cell styled like its neighbor; the table grid gets
// a matching w:gridCol.
func InsertColumn(t *Table, at int, header string) error {
	cols := t.Columns()
	if at < 0 || at > cols {
		return NewTableError("insert column", -1, at, "position out of range")
	}

	for ri := range t.Rows {
		row := &t.Rows[ri]

		pos := at
		if pos > len(row.Cells) {
			// Rows shortened by merges keep the new cell at their end.
			pos = len(row.Cells)
		}

		neighborIdx := pos
		if neighborIdx >= len(row.Cells) {
			neighborIdx = len(row.Cells) - 1
		}

		cell := TableCell{}
		style := ""
		if neighborIdx >= 0 {
			neighbor := row.Cells[neighborIdx]
			if neighbor.Properties != nil && neighbor.Properties.Width != nil {
				width := *neighbor.Properties.Width
				cell.Properties = &TableCellProperties{Width: &width}
			}
			if len(neighbor.Paragraphs) > 0 {
				style = neighbor.Paragraphs[0].StyleName()
			}
		}
		text := ""
		if ri == 0 {
			text = header
		}
		cell.Paragraphs = []Paragraph{*newTextParagraph(text, style)}

		row.Cells = append(row.Cells, TableCell{})
		copy(row.Cells[pos+1:], row.Cells[pos:])
		row.Cells[pos] = cell
	}

	if t.Grid != nil && len(t.Grid.Columns) > 0 {
		neighborIdx := at
		if neighborIdx >= len(t.Grid.Columns) {
			neighborIdx = len(t.Grid.Columns) - 1
		}
		width := t.Grid.Columns[neighborIdx].Width

		t.Grid.Columns = append(t.Grid.Columns, GridColumn{})
		copy(t.Grid.Columns[at+1:], t.Grid.Columns[at:])
		t.Grid.Columns[at] = GridColumn{Width: width}
	}

	return nil
}

// MergeCells merges the rectangular cell range into a single cell.
// Horizontal spans drop the covered cells and set w:gridSpan on the
// survivor; vertical spans mark the top cell with w:vMerge restart and
// the cells below as continuations. Text of merged-away cells moves to
// the top-left cell.
func MergeCells(t *Table, startRow, startCol, endRow, endCol int) error {
	cols := t.Columns()

	if startRow < 0 || endRow >= len(t.Rows) || startRow > endRow {
		return NewTableError("merge cells", startRow, startCol, "row range out of range")
	}
	if startCol < 0 || endCol >= cols || startCol > endCol {
		return NewTableError("merge cells", startRow, startCol, "column range out of range")
	}
	for ri := startRow; ri <= endRow; ri++ {
		if endCol >= len(t.Rows[ri].Cells) {
			return NewTableError("merge cells", ri, endCol, "row has already been merged past this column")
		}
	}

	if startRow == endRow && startCol == endCol {
		return nil
	}

	span := endCol - startCol + 1

	// Text of vacated cells is preserved on the surviving cell.
	var moved []Paragraph
	for ri := startRow; ri <= endRow; ri++ {
		for ci := startCol; ci <= endCol; ci++ {
			if ri == startRow && ci == startCol {
				continue
			}
			for _, p := range t.Rows[ri].Cells[ci].Paragraphs {
				if p.GetText() != "" {
					moved = append(moved, p)
				}
			}
		}
	}

	for ri := startRow; ri <= endRow; ri++ {
		row := &t.Rows[ri]
		target := &row.Cells[startCol]
		if target.Properties == nil {
			target.Properties = &TableCellProperties{}
		}

		if span > 1 {
			target.Properties.GridSpan = &GridSpan{Val: span}

			// The surviving cell takes over the width of the covered cells.
			total, haveAll := 0, true
			for ci := startCol; ci <= endCol; ci++ {
				props := row.Cells[ci].Properties
				if props == nil || props.Width == nil {
					haveAll = false
					break
				}
				total += props.Width.Val
			}
			if haveAll {
				target.Properties.Width = &TableWidth{Type: "dxa", Val: total}
			}
		}

		if endRow > startRow {
			if ri == startRow {
				target.Properties.VMerge = &VMerge{Val: "restart"}
			} else {
				target.Properties.VMerge = &VMerge{}
				style := ""
				if len(target.Paragraphs) > 0 {
					style = target.Paragraphs[0].StyleName()
				}
				target.Paragraphs = []Paragraph{*newTextParagraph("", style)}
			}
		}

		if span > 1 {
			row.Cells = append(row.Cells[:startCol+1], row.Cells[endCol+1:]...)
		}
	}

	if len(moved) > 0 {
		top := &t.Rows[startRow].Cells[startCol]
		top.Paragraphs = append(top.Paragraphs, moved...)
	}

	return nil
}
