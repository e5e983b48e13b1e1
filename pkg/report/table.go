package report

import (
	"fmt"
	"strconv"
)

// twipsPerCm converts centimeters to twentieths of a point, the unit
// table and cell widths are expressed in.
const twipsPerCm = 567

// defaultTableWidthTwips is the grid width tables start from before any
// explicit column widths are set (16 cm of usable A4 page).
const defaultTableWidthTwips = 9072

func cmToTwips(cm float64) int {
	return int(cm*twipsPerCm + 0.5)
}

// TableData is the tabular input AddTable renders: ordered column names
// and one record per table row. Cell values may be any type; numbers
// can be formatted per column with WithColumnFormats.
type TableData struct {
	Columns []string
	Records [][]any
}

// Validate checks the data is rectangular and non-empty.
func (d TableData) Validate() error {
	if len(d.Columns) == 0 {
		return NewValidationError("columns", "table data has no columns")
	}

	var issues []ValidationIssue
	for i, record := range d.Records {
		if len(record) != len(d.Columns) {
			issues = append(issues, ValidationIssue{
				Field:   fmt.Sprintf("records[%d]", i),
				Message: fmt.Sprintf("has %d values, want %d", len(record), len(d.Columns)),
			})
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

type tableConfig struct {
	title       string
	footer      string
	colNames    []string
	colWidths   []float64
	colFormats  []string
	tableStyle  string
	textStyle   string
	headerStyle string
	rowNames    []string
}

// TableOption configures AddTable.
type TableOption func(*tableConfig)

// WithTitle adds a caption paragraph ("Table — <title>") before the table.
func WithTitle(title string) TableOption {
	return func(c *tableConfig) { c.title = title }
}

// WithFooter sets the text of the note paragraph written after the table.
func WithFooter(text string) TableOption {
	return func(c *tableConfig) { c.footer = text }
}

// WithColumnNames overrides the header row; by default the headers are
// the column names of the data.
func WithColumnNames(names ...string) TableOption {
	return func(c *tableConfig) { c.colNames = names }
}

// WithColumnWidths sets column widths in centimeters, in order.
func WithColumnWidths(widthsCm ...float64) TableOption {
	return func(c *tableConfig) { c.colWidths = widthsCm }
}

// WithColumnFormats sets a fmt verb per column (e.g. "%g", "%.2f")
// applied to numeric cell values.
func WithColumnFormats(formats ...string) TableOption {
	return func(c *tableConfig) { c.colFormats = formats }
}

// WithTableStyle overrides the table style.
func WithTableStyle(style string) TableOption {
	return func(c *tableConfig) { c.tableStyle = style }
}

// WithTextStyle overrides the paragraph style of body cells.
func WithTextStyle(style string) TableOption {
	return func(c *tableConfig) { c.textStyle = style }
}

// WithHeaderRowStyle overrides the paragraph style of the header row.
func WithHeaderRowStyle(style string) TableOption {
	return func(c *tableConfig) { c.headerStyle = style }
}

// WithRowNames prepends a row-name column headed by the parameter label.
func WithRowNames(names ...string) TableOption {
	return func(c *tableConfig) { c.rowNames = names }
}

// AddTable renders tabular data as a formatted table: a header row from
// the column names, one row per record, optional caption before and a
// note paragraph after. The returned table can be manipulated further
// with the table helper functions.
func (r *Report) AddTable(data TableData, opts ...TableOption) (*Table, error) {
	cfg := tableConfig{
		tableStyle:  r.styles.Table,
		textStyle:   r.styles.TableText,
		headerStyle: r.styles.TableHeader,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := data.Validate(); err != nil {
		return nil, err
	}
	if cfg.colNames != nil && len(cfg.colNames) != len(data.Columns) {
		return nil, NewValidationError("column names",
			fmt.Sprintf("%d names given for %d columns", len(cfg.colNames), len(data.Columns)))
	}
	if cfg.colFormats != nil && len(cfg.colFormats) != len(data.Columns) {
		return nil, NewValidationError("column formats",
			fmt.Sprintf("%d formats given for %d columns", len(cfg.colFormats), len(data.Columns)))
	}
	if cfg.rowNames != nil && len(cfg.rowNames) != len(data.Records) {
		return nil, NewValidationError("row names",
			fmt.Sprintf("%d names given for %d records", len(cfg.rowNames), len(data.Records)))
	}

	if cfg.title != "" {
		r.AddParagraph(fmt.Sprintf("%s — %s", r.styles.TableLabel, cfg.title), r.styles.TableCaption)
	}

	columns := len(data.Columns)
	offset := 0
	if cfg.rowNames != nil {
		columns++
		offset = 1
	}

	table := newEmptyTable(len(data.Records)+1, columns, cfg.tableStyle)

	// All cell writes below address cells by flat index, row-major.
	for ci, name := range data.Columns {
		header := name
		if cfg.colNames != nil {
			header = cfg.colNames[ci]
		}
		setCellTextAt(table, ci+offset, header)
	}

	if cfg.rowNames != nil {
		setCellTextAt(table, 0, r.styles.ParameterLabel)
		for ri, name := range cfg.rowNames {
			setCellTextAt(table, (ri+1)*columns, name)
		}
	}

	for ri, record := range data.Records {
		for ci, value := range record {
			cellIdx := (ri+1)*columns + ci + offset
			if cfg.colFormats != nil && isNumeric(value) {
				setCellTextAt(table, cellIdx, fmt.Sprintf(cfg.colFormats[ci], value))
			} else {
				setCellTextAt(table, cellIdx, formatCellValue(value))
			}
		}
	}

	if cfg.colWidths != nil {
		if err := SetTableColumnWidths(table, cfg.colWidths...); err != nil {
			return nil, err
		}
	}

	SetTableStyle(table, cfg.textStyle, cfg.headerStyle)

	r.appendElement(table)

	// A note paragraph always follows a table, even when empty.
	r.AddParagraph(cfg.footer, r.styles.TableNote)

	return table, nil
}

// newEmptyTable builds a rows x cols table with an even grid.
func newEmptyTable(rows, cols int, style string) *Table {
	table := &Table{
		Properties: &TableProperties{
			Width: &TableWidth{Type: "auto", Val: 0},
		},
	}
	if style != "" {
		table.Properties.Style = &Style{Val: style}
	}

	colWidth := defaultTableWidthTwips / cols
	grid := &TableGrid{}
	for c := 0; c < cols; c++ {
		grid.Columns = append(grid.Columns, GridColumn{Width: colWidth})
	}
	table.Grid = grid

	for ri := 0; ri < rows; ri++ {
		row := TableRow{}
		for ci := 0; ci < cols; ci++ {
			row.Cells = append(row.Cells, TableCell{
				Paragraphs: []Paragraph{{}},
			})
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// Columns returns the number of columns in the table grid, falling back
// to the first row when the grid is absent.
func (t *Table) Columns() int {
	if t.Grid != nil && len(t.Grid.Columns) > 0 {
		return len(t.Grid.Columns)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0].Cells)
	}
	return 0
}

// cellAt returns the cell at the given flat index, row-major, or nil
// when the index is out of range.
func cellAt(t *Table, idx int) *TableCell {
	cols := t.Columns()
	if cols == 0 || idx < 0 {
		return nil
	}
	row, col := idx/cols, idx%cols
	if row >= len(t.Rows) || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}

// setCellTextAt writes text into the cell at the given flat index,
// replacing the cell content with a single run.
func setCellTextAt(t *Table, idx int, text string) {
	cell := cellAt(t, idx)
	if cell == nil {
		return
	}
	style := ""
	if len(cell.Paragraphs) > 0 {
		style = cell.Paragraphs[0].StyleName()
	}
	cell.Paragraphs = []Paragraph{*newTextParagraph(text, style)}
}

// SetCellText writes text into the cell at (row, col), preserving the
// paragraph style the cell had.
func SetCellText(t *Table, row, col int, text string) error {
	if row < 0 || row >= len(t.Rows) {
		return NewTableError("set cell text", row, col, "row out of range")
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return NewTableError("set cell text", row, col, "column out of range")
	}
	setCellTextAt(t, row*t.Columns()+col, text)
	return nil
}

// CellText returns the text of the cell at (row, col).
func CellText(t *Table, row, col int) (string, error) {
	if row < 0 || row >= len(t.Rows) {
		return "", NewTableError("get cell text", row, col, "row out of range")
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return "", NewTableError("get cell text", row, col, "column out of range")
	}
	return t.Rows[row].Cells[col].GetText(), nil
}

// SetTableColumnWidths sets column widths in centimeters, walking every
// cell of the table by flat index. When fewer widths than columns are
// given the last width repeats; a count mismatch is logged.
func SetTableColumnWidths(t *Table, widthsCm ...float64) error {
	if len(widthsCm) == 0 {
		return NewTableError("set column widths", -1, -1, "no widths given")
	}

	columns := t.Columns()
	rows := len(t.Rows)

	if columns != len(widthsCm) {
		Warn("table has %d columns but %d widths were given", columns, len(widthsCm))
	}

	widthFor := func(col int) int {
		if col >= len(widthsCm) {
			col = len(widthsCm) - 1
		}
		return cmToTwips(widthsCm[col])
	}

	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		for colIdx := 0; colIdx < columns; colIdx++ {
			cell := cellAt(t, colIdx+rowIdx*columns)
			if cell == nil {
				continue
			}
			if cell.Properties == nil {
				cell.Properties = &TableCellProperties{}
			}
			cell.Properties.Width = &TableWidth{Type: "dxa", Val: widthFor(colIdx)}
		}
	}

	grid := &TableGrid{}
	for colIdx := 0; colIdx < columns; colIdx++ {
		grid.Columns = append(grid.Columns, GridColumn{Width: widthFor(colIdx)})
	}
	t.Grid = grid

	if t.Properties == nil {
		t.Properties = &TableProperties{}
	}
	t.Properties.Width = &TableWidth{Type: "auto", Val: 0}

	return nil
}

// SetTableStyle applies a paragraph style to every cell of the table,
// with an optional distinct style for the first (header) row.
func SetTableStyle(t *Table, style, firstRowStyle string) {
	columns := t.Columns()
	rows := len(t.Rows)

	for rowIdx := 0; rowIdx < rows; rowIdx++ {
		rowStyle := style
		if rowIdx == 0 && firstRowStyle != "" {
			rowStyle = firstRowStyle
		}
		for colIdx := 0; colIdx < columns; colIdx++ {
			styleCellParagraphs(cellAt(t, colIdx+rowIdx*columns), rowStyle)
		}
	}
}

// SetTableRowsStyle applies a paragraph style to the cells of the given rows.
func SetTableRowsStyle(t *Table, rows []int, style string) error {
	columns := t.Columns()

	for _, rowIdx := range rows {
		if rowIdx < 0 || rowIdx >= len(t.Rows) {
			return NewTableError("set rows style", rowIdx, -1, "row out of range")
		}
		for colIdx := 0; colIdx < columns; colIdx++ {
			styleCellParagraphs(cellAt(t, colIdx+rowIdx*columns), style)
		}
	}
	return nil
}

func styleCellParagraphs(cell *TableCell, style string) {
	if cell == nil || style == "" {
		return
	}
	if len(cell.Paragraphs) == 0 {
		cell.Paragraphs = []Paragraph{{}}
	}
	for i := range cell.Paragraphs {
		cell.Paragraphs[i].SetStyle(style)
	}
}

// formatCellValue renders a cell value without an explicit format.
func formatCellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isNumeric reports whether v is an integer or floating point value.
func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
