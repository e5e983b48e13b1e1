package report

import (
	"strings"
	"testing"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	config := DefaultConfig()
	config.LogLevel = "off"
	r, err := New(WithConfig(config))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

// bodyParagraphTexts returns the text of every body paragraph, in order.
func bodyParagraphTexts(r *Report) []string {
	var texts []string
	for _, elem := range r.doc.Body.Elements {
		if p, ok := elem.(*Paragraph); ok {
			texts = append(texts, p.GetText())
		}
	}
	return texts
}

func firstTable(t *testing.T, r *Report) *Table {
	t.Helper()
	for _, elem := range r.doc.Body.Elements {
		if tbl, ok := elem.(*Table); ok {
			return tbl
		}
	}
	t.Fatalf("document has no table")
	return nil
}

func TestAddTable(t *testing.T) {
	r := newTestReport(t)

	data := TableData{
		Columns: []string{"Parameter", "Value"},
		Records: [][]any{
			{"Voltage", 12.03},
			{"Current", 1.57},
		},
	}

	table, err := r.AddTable(data, WithTitle("Measurements"))
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	if len(table.Rows) != 3 {
		t.Fatalf("table has %d rows, want 3 (header + 2 records)", len(table.Rows))
	}
	if table.Columns() != 2 {
		t.Fatalf("table has %d columns, want 2", table.Columns())
	}

	if got := table.Rows[0].Cells[0].GetText(); got != "Parameter" {
		t.Errorf("header cell = %q, want Parameter", got)
	}
	if got := table.Rows[1].Cells[1].GetText(); got != "12.03" {
		t.Errorf("data cell = %q, want 12.03", got)
	}
	if got := table.Rows[2].Cells[0].GetText(); got != "Current" {
		t.Errorf("data cell = %q, want Current", got)
	}

	texts := bodyParagraphTexts(r)
	if len(texts) != 2 {
		t.Fatalf("document has %d paragraphs, want caption and note", len(texts))
	}
	if texts[0] != "Table — Measurements" {
		t.Errorf("caption = %q, want %q", texts[0], "Table — Measurements")
	}
	if texts[1] != "" {
		t.Errorf("note paragraph = %q, want empty", texts[1])
	}
}

func TestAddTableHeaderRowStyled(t *testing.T) {
	r := newTestReport(t)

	data := TableData{
		Columns: []string{"A", "B"},
		Records: [][]any{{"x", "y"}},
	}
	table, err := r.AddTable(data)
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	if got := table.Rows[0].Cells[0].Paragraphs[0].StyleName(); got != "TableHeader" {
		t.Errorf("header paragraph style = %q, want TableHeader", got)
	}
	if got := table.Rows[1].Cells[0].Paragraphs[0].StyleName(); got != "TableText" {
		t.Errorf("body paragraph style = %q, want TableText", got)
	}
	if table.Properties == nil || table.Properties.Style == nil || table.Properties.Style.Val != "TableGrid" {
		t.Errorf("table style not applied")
	}
}

func TestAddTableWithRowNames(t *testing.T) {
	r := newTestReport(t)

	data := TableData{
		Columns: []string{"Min", "Max"},
		Records: [][]any{
			{1, 10},
			{2, 20},
		},
	}

	table, err := r.AddTable(data, WithRowNames("Voltage", "Current"))
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	if table.Columns() != 3 {
		t.Fatalf("table has %d columns, want 3 with row-name column", table.Columns())
	}
	if got := table.Rows[0].Cells[0].GetText(); got != "Parameter" {
		t.Errorf("row-name header = %q, want Parameter", got)
	}
	if got := table.Rows[0].Cells[1].GetText(); got != "Min" {
		t.Errorf("shifted header = %q, want Min", got)
	}
	if got := table.Rows[1].Cells[0].GetText(); got != "Voltage" {
		t.Errorf("row name = %q, want Voltage", got)
	}
	if got := table.Rows[2].Cells[2].GetText(); got != "20" {
		t.Errorf("shifted data cell = %q, want 20", got)
	}
}

func TestAddTableColumnFormats(t *testing.T) {
	r := newTestReport(t)

	data := TableData{
		Columns: []string{"Name", "Value"},
		Records: [][]any{
			{"pi", 3.14159},
			{"n/a", "missing"},
		},
	}

	table, err := r.AddTable(data, WithColumnFormats("%s", "%.2f"))
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	if got := table.Rows[1].Cells[1].GetText(); got != "3.14" {
		t.Errorf("formatted cell = %q, want 3.14", got)
	}
	// Formats only apply to numbers, strings pass through.
	if got := table.Rows[2].Cells[1].GetText(); got != "missing" {
		t.Errorf("string cell = %q, want missing", got)
	}
	if got := table.Rows[1].Cells[0].GetText(); got != "pi" {
		t.Errorf("string cell = %q, want pi", got)
	}
}

func TestAddTableOptionsOverride(t *testing.T) {
	r := newTestReport(t)

	data := TableData{
		Columns: []string{"a"},
		Records: [][]any{{"1"}},
	}

	table, err := r.AddTable(data,
		WithColumnNames("Renamed"),
		WithFooter("source: bench 3"),
		WithTableStyle("MyTable"),
		WithTextStyle("MyText"),
		WithHeaderRowStyle("MyHeader"),
	)
	if err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	if got := table.Rows[0].Cells[0].GetText(); got != "Renamed" {
		t.Errorf("header = %q, want Renamed", got)
	}
	if got := table.Properties.Style.Val; got != "MyTable" {
		t.Errorf("table style = %q, want MyTable", got)
	}
	if got := table.Rows[0].Cells[0].Paragraphs[0].StyleName(); got != "MyHeader" {
		t.Errorf("header style = %q, want MyHeader", got)
	}
	if got := table.Rows[1].Cells[0].Paragraphs[0].StyleName(); got != "MyText" {
		t.Errorf("text style = %q, want MyText", got)
	}

	texts := bodyParagraphTexts(r)
	if texts[len(texts)-1] != "source: bench 3" {
		t.Errorf("note = %q, want footer text", texts[len(texts)-1])
	}
}

func TestAddTableValidation(t *testing.T) {
	r := newTestReport(t)

	tests := []struct {
		name string
		data TableData
		opts []TableOption
	}{
		{
			name: "no columns",
			data: TableData{},
		},
		{
			name: "ragged records",
			data: TableData{
				Columns: []string{"a", "b"},
				Records: [][]any{{"only one"}},
			},
		},
		{
			name: "column name count mismatch",
			data: TableData{Columns: []string{"a", "b"}},
			opts: []TableOption{WithColumnNames("just one")},
		},
		{
			name: "format count mismatch",
			data: TableData{Columns: []string{"a", "b"}},
			opts: []TableOption{WithColumnFormats("%s")},
		},
		{
			name: "row name count mismatch",
			data: TableData{
				Columns: []string{"a"},
				Records: [][]any{{"1"}, {"2"}},
			},
			opts: []TableOption{WithRowNames("only one")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.AddTable(tt.data, tt.opts...)
			if err == nil {
				t.Fatalf("AddTable() succeeded, want validation error")
			}
			if !IsValidationError(err) {
				t.Errorf("AddTable() error = %T, want *ValidationError", err)
			}
		})
	}
}

func TestSetTableColumnWidths(t *testing.T) {
	table := newEmptyTable(2, 3, "")

	if err := SetTableColumnWidths(table, 2.0, 4.0, 4.0); err != nil {
		t.Fatalf("SetTableColumnWidths() error = %v", err)
	}

	wantFirst := cmToTwips(2.0)
	cell := table.Rows[0].Cells[0]
	if cell.Properties == nil || cell.Properties.Width == nil {
		t.Fatalf("cell width not set")
	}
	if cell.Properties.Width.Val != wantFirst {
		t.Errorf("cell width = %d, want %d", cell.Properties.Width.Val, wantFirst)
	}
	if cell.Properties.Width.Type != "dxa" {
		t.Errorf("cell width type = %q, want dxa", cell.Properties.Width.Type)
	}

	if len(table.Grid.Columns) != 3 {
		t.Fatalf("grid has %d columns, want 3", len(table.Grid.Columns))
	}
	if table.Grid.Columns[1].Width != cmToTwips(4.0) {
		t.Errorf("grid width = %d, want %d", table.Grid.Columns[1].Width, cmToTwips(4.0))
	}
}

func TestSetTableColumnWidthsRepeatsLast(t *testing.T) {
	table := newEmptyTable(1, 4, "")

	if err := SetTableColumnWidths(table, 3.0, 5.0); err != nil {
		t.Fatalf("SetTableColumnWidths() error = %v", err)
	}

	want := cmToTwips(5.0)
	for col := 1; col < 4; col++ {
		cell := table.Rows[0].Cells[col]
		if cell.Properties.Width.Val != want {
			t.Errorf("column %d width = %d, want repeated last width %d",
				col, cell.Properties.Width.Val, want)
		}
	}
	if table.Rows[0].Cells[0].Properties.Width.Val != cmToTwips(3.0) {
		t.Errorf("first column lost its explicit width")
	}
}

func TestSetTableColumnWidthsNoWidths(t *testing.T) {
	table := newEmptyTable(1, 1, "")
	err := SetTableColumnWidths(table)
	if err == nil {
		t.Fatalf("SetTableColumnWidths() with no widths succeeded")
	}
	if !IsTableError(err) {
		t.Errorf("error = %T, want *TableError", err)
	}
}

func TestSetCellText(t *testing.T) {
	table := newEmptyTable(2, 2, "")
	SetTableStyle(table, "TableText", "")

	if err := SetCellText(table, 1, 1, "updated"); err != nil {
		t.Fatalf("SetCellText() error = %v", err)
	}

	got, err := CellText(table, 1, 1)
	if err != nil {
		t.Fatalf("CellText() error = %v", err)
	}
	if got != "updated" {
		t.Errorf("CellText() = %q, want updated", got)
	}

	// The cell keeps the paragraph style it had.
	if style := table.Rows[1].Cells[1].Paragraphs[0].StyleName(); style != "TableText" {
		t.Errorf("cell style = %q, want TableText", style)
	}
}

func TestSetCellTextOutOfRange(t *testing.T) {
	table := newEmptyTable(2, 2, "")

	for _, pos := range [][2]int{{-1, 0}, {2, 0}, {0, -1}, {0, 2}} {
		err := SetCellText(table, pos[0], pos[1], "x")
		if err == nil {
			t.Errorf("SetCellText(%d, %d) succeeded, want error", pos[0], pos[1])
			continue
		}
		if !IsTableError(err) {
			t.Errorf("SetCellText(%d, %d) error = %T, want *TableError", pos[0], pos[1], err)
		}
	}
}

func TestSetTableRowsStyle(t *testing.T) {
	table := newEmptyTable(3, 2, "")

	if err := SetTableRowsStyle(table, []int{0, 2}, "Highlight"); err != nil {
		t.Fatalf("SetTableRowsStyle() error = %v", err)
	}

	if got := table.Rows[0].Cells[0].Paragraphs[0].StyleName(); got != "Highlight" {
		t.Errorf("row 0 style = %q, want Highlight", got)
	}
	if got := table.Rows[1].Cells[0].Paragraphs[0].StyleName(); got != "" {
		t.Errorf("row 1 style = %q, want unchanged", got)
	}
	if got := table.Rows[2].Cells[1].Paragraphs[0].StyleName(); got != "Highlight" {
		t.Errorf("row 2 style = %q, want Highlight", got)
	}

	if err := SetTableRowsStyle(table, []int{5}, "Highlight"); err == nil {
		t.Errorf("SetTableRowsStyle() with bad row succeeded")
	}
}

func TestFormatCellValue(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"text", "text"},
		{42, "42"},
		{12.03, "12.03"},
		{float64(1000000), "1e+06"},
		{true, "true"},
	}

	for _, tt := range tests {
		if got := formatCellValue(tt.value); got != tt.want {
			t.Errorf("formatCellValue(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	if !isNumeric(3) || !isNumeric(3.5) || !isNumeric(uint8(1)) {
		t.Errorf("numeric values not recognized")
	}
	if isNumeric("3") || isNumeric(nil) || isNumeric(true) {
		t.Errorf("non-numeric values recognized as numeric")
	}
}

func TestTableCaptionUsesCustomLabels(t *testing.T) {
	styles := DefaultStyleSet()
	styles.TableLabel = "Tabelle"

	config := DefaultConfig()
	config.LogLevel = "off"
	r, err := New(WithConfig(config), WithStyles(styles))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	data := TableData{Columns: []string{"a"}}
	if _, err := r.AddTable(data, WithTitle("Messwerte")); err != nil {
		t.Fatalf("AddTable() error = %v", err)
	}

	texts := bodyParagraphTexts(r)
	if len(texts) == 0 || !strings.HasPrefix(texts[0], "Tabelle — ") {
		t.Errorf("caption = %v, want Tabelle — prefix", texts)
	}
}
