package report

import (
	"github.com/xuri/excelize/v2"
)

// SheetCount returns the number of worksheets in the Excel workbook at
// path. Reports built from measurement campaigns use this to size the
// per-sheet iteration before any data is read.
func SheetCount(path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, NewDocumentError("open", path, err)
	}
	defer f.Close()

	return f.SheetCount, nil
}

// SheetNames returns the worksheet names of the workbook at path, in
// workbook order.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
