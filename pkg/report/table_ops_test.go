package report

import (
	"testing"
)

func buildTestTable(t *testing.T, rows, cols int) *Table {
	t.Helper()
	table := newEmptyTable(rows, cols, "")
	for ri := 0; ri < rows; ri++ {
		for ci := 0; ci < cols; ci++ {
			setCellTextAt(table, ri*cols+ci, cellLabel(ri, ci))
		}
	}
	return table
}

func cellLabel(row, col int) string {
	return string(rune('A'+col)) + string(rune('0'+row))
}

func TestInsertRow(t *testing.T) {
	table := buildTestTable(t, 2, 2)
	if err := SetTableColumnWidths(table, 4.0, 4.0); err != nil {
		t.Fatal(err)
	}

	row, err := InsertRow(table, 1)
	if err != nil {
		t.Fatalf("InsertRow() error = %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("table has %d rows, want 3", len(table.Rows))
	}
	if len(row.Cells) != 2 {
		t.Fatalf("inserted row has %d cells, want 2", len(row.Cells))
	}
	if row.Cells[0].GetText() != "" {
		t.Errorf("inserted cell text = %q, want empty", row.Cells[0].GetText())
	}

	// Existing rows keep their content around the insertion point.
	if got := table.Rows[0].Cells[0].GetText(); got != "A0" {
		t.Errorf("row 0 = %q, want A0", got)
	}
	if got := table.Rows[2].Cells[0].GetText(); got != "A1" {
		t.Errorf("row 2 = %q, want shifted A1", got)
	}

	// The new row clones the width of the model row.
	if row.Cells[0].Properties == nil || row.Cells[0].Properties.Width == nil {
		t.Fatalf("inserted cell has no width")
	}
	if row.Cells[0].Properties.Width.Val != cmToTwips(4.0) {
		t.Errorf("inserted cell width = %d, want %d",
			row.Cells[0].Properties.Width.Val, cmToTwips(4.0))
	}
}

func TestInsertRowAppend(t *testing.T) {
	table := buildTestTable(t, 2, 2)

	if _, err := InsertRow(table, 2); err != nil {
		t.Fatalf("InsertRow() at end error = %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("table has %d rows, want 3", len(table.Rows))
	}
	if got := table.Rows[1].Cells[1].GetText(); got != "B1" {
		t.Errorf("existing row moved: %q", got)
	}
}

func TestInsertRowOutOfRange(t *testing.T) {
	table := buildTestTable(t, 2, 2)

	for _, at := range []int{-1, 3} {
		if _, err := InsertRow(table, at); err == nil {
			t.Errorf("InsertRow(%d) succeeded, want error", at)
		}
	}
}

func TestInsertColumn(t *testing.T) {
	table := buildTestTable(t, 2, 2)

	if err := InsertColumn(table, 1, "Inserted"); err != nil {
		t.Fatalf("InsertColumn() error = %v", err)
	}

	if table.Columns() != 3 {
		t.Fatalf("table has %d columns, want 3", table.Columns())
	}
	if got := table.Rows[0].Cells[1].GetText(); got != "Inserted" {
		t.Errorf("header of new column = %q, want Inserted", got)
	}
	if got := table.Rows[1].Cells[1].GetText(); got != "" {
		t.Errorf("body of new column = %q, want empty", got)
	}
	if got := table.Rows[0].Cells[2].GetText(); got != "B0" {
		t.Errorf("shifted column = %q, want B0", got)
	}
	if len(table.Grid.Columns) != 3 {
		t.Errorf("grid has %d columns, want 3", len(table.Grid.Columns))
	}
}

func TestInsertColumnAtEnd(t *testing.T) {
	table := buildTestTable(t, 1, 2)

	if err := InsertColumn(table, 2, "Last"); err != nil {
		t.Fatalf("InsertColumn() at end error = %v", err)
	}
	if got := table.Rows[0].Cells[2].GetText(); got != "Last" {
		t.Errorf("appended column header = %q, want Last", got)
	}
}

func TestInsertColumnOutOfRange(t *testing.T) {
	table := buildTestTable(t, 1, 2)

	for _, at := range []int{-1, 3} {
		if err := InsertColumn(table, at, "x"); err == nil {
			t.Errorf("InsertColumn(%d) succeeded, want error", at)
		}
	}
}

func TestMergeCellsHorizontal(t *testing.T) {
	table := buildTestTable(t, 2, 3)
	if err := SetTableColumnWidths(table, 2.0, 2.0, 2.0); err != nil {
		t.Fatal(err)
	}

	if err := MergeCells(table, 0, 0, 0, 2); err != nil {
		t.Fatalf("MergeCells() error = %v", err)
	}

	row := table.Rows[0]
	if len(row.Cells) != 1 {
		t.Fatalf("merged row has %d cells, want 1", len(row.Cells))
	}

	cell := row.Cells[0]
	if cell.Properties.GridSpan == nil || cell.Properties.GridSpan.Val != 3 {
		t.Errorf("gridSpan not set to 3")
	}
	if cell.Properties.Width == nil || cell.Properties.Width.Val != 3*cmToTwips(2.0) {
		t.Errorf("merged cell width not summed")
	}
	if got := cell.GetText(); got != "A0\nB0\nC0" {
		t.Errorf("merged cell text = %q, want all contents", got)
	}

	// Other rows keep their full cell count.
	if len(table.Rows[1].Cells) != 3 {
		t.Errorf("unmerged row has %d cells, want 3", len(table.Rows[1].Cells))
	}
}

func TestMergeCellsVertical(t *testing.T) {
	table := buildTestTable(t, 3, 2)

	if err := MergeCells(table, 0, 0, 2, 0); err != nil {
		t.Fatalf("MergeCells() error = %v", err)
	}

	top := table.Rows[0].Cells[0]
	if top.Properties.VMerge == nil || top.Properties.VMerge.Val != "restart" {
		t.Errorf("top cell not marked as merge restart")
	}
	if got := top.GetText(); got != "A0\nA1\nA2" {
		t.Errorf("top cell text = %q, want all contents", got)
	}

	for ri := 1; ri <= 2; ri++ {
		cont := table.Rows[ri].Cells[0]
		if cont.Properties == nil || cont.Properties.VMerge == nil {
			t.Fatalf("row %d cell not marked as merge continuation", ri)
		}
		if cont.Properties.VMerge.Val != "" {
			t.Errorf("row %d continuation has val %q, want empty", ri, cont.Properties.VMerge.Val)
		}
		if cont.GetText() != "" {
			t.Errorf("row %d continuation still has text %q", ri, cont.GetText())
		}
	}

	// No horizontal merging, every row keeps both cells.
	for ri := range table.Rows {
		if len(table.Rows[ri].Cells) != 2 {
			t.Errorf("row %d has %d cells, want 2", ri, len(table.Rows[ri].Cells))
		}
	}
}

func TestMergeCellsBlock(t *testing.T) {
	table := buildTestTable(t, 3, 3)

	if err := MergeCells(table, 1, 1, 2, 2); err != nil {
		t.Fatalf("MergeCells() error = %v", err)
	}

	if len(table.Rows[0].Cells) != 3 {
		t.Errorf("untouched row changed")
	}
	if len(table.Rows[1].Cells) != 2 {
		t.Errorf("merged row has %d cells, want 2", len(table.Rows[1].Cells))
	}

	top := table.Rows[1].Cells[1]
	if top.Properties.GridSpan == nil || top.Properties.GridSpan.Val != 2 {
		t.Errorf("gridSpan not set on top-left cell")
	}
	if top.Properties.VMerge == nil || top.Properties.VMerge.Val != "restart" {
		t.Errorf("vMerge restart not set on top-left cell")
	}
	if got := top.GetText(); got != "B1\nC1\nB2\nC2" {
		t.Errorf("top-left text = %q, want all merged contents", got)
	}

	cont := table.Rows[2].Cells[1]
	if cont.Properties.GridSpan == nil || cont.Properties.GridSpan.Val != 2 {
		t.Errorf("gridSpan not set on continuation cell")
	}
	if cont.GetText() != "" {
		t.Errorf("continuation cell text = %q, want empty", cont.GetText())
	}
}

func TestMergeCellsSingleCellNoop(t *testing.T) {
	table := buildTestTable(t, 2, 2)

	if err := MergeCells(table, 0, 0, 0, 0); err != nil {
		t.Fatalf("single-cell merge error = %v", err)
	}
	if table.Rows[0].Cells[0].Properties != nil &&
		table.Rows[0].Cells[0].Properties.GridSpan != nil {
		t.Errorf("single-cell merge set a gridSpan")
	}
}

func TestMergeCellsInvalidRange(t *testing.T) {
	table := buildTestTable(t, 2, 2)

	tests := []struct {
		name                               string
		startRow, startCol, endRow, endCol int
	}{
		{"negative row", -1, 0, 0, 0},
		{"row past end", 0, 0, 2, 0},
		{"inverted rows", 1, 0, 0, 0},
		{"negative col", 0, -1, 0, 0},
		{"col past end", 0, 0, 0, 2},
		{"inverted cols", 0, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MergeCells(table, tt.startRow, tt.startCol, tt.endRow, tt.endCol)
			if err == nil {
				t.Fatalf("MergeCells() succeeded, want error")
			}
			if !IsTableError(err) {
				t.Errorf("error = %T, want *TableError", err)
			}
		})
	}
}

func TestMergeCellsTwiceRejected(t *testing.T) {
	table := buildTestTable(t, 2, 3)

	if err := MergeCells(table, 0, 1, 0, 2); err != nil {
		t.Fatalf("first merge error = %v", err)
	}
	// The first row now has fewer cells than the grid, merging into the
	// removed region must fail instead of corrupting the row.
	if err := MergeCells(table, 0, 1, 0, 2); err == nil {
		t.Errorf("second overlapping merge succeeded")
	}
}
