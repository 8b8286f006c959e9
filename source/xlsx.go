package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// OpenXLSX reads every sheet of an Excel workbook. Cells are read as
// displayed; the first row of each sheet is its header.
func OpenXLSX(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var sheets []*Sheet
	for _, name := range f.GetSheetList() {
		table, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q of %s: %w", name, path, err)
		}
		sheets = append(sheets, newSheet(name, table))
	}
	return NewWorkbook(sheets...), nil
}
