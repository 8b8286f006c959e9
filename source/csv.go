package source

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// OpenCSVDir reads every *.csv file in dir as one sheet named after the file.
// Sheets are ordered by file name.
func OpenCSVDir(dir string) (*Workbook, error) {
	paths, err := doublestar.FilepathGlob(filepath.Join(dir, "*.{csv,CSV}"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no csv files in %s", ErrUnsupportedFormat, dir)
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	sheets := make([]*Sheet, 0, len(paths))
	for _, p := range paths {
		s, err := readCSVFile(p)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	return NewWorkbook(sheets...), nil
}

func readCSVFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(table) > 0 && len(table[0]) > 0 {
		table[0][0] = strings.TrimPrefix(table[0][0], "\ufeff")
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return newSheet(name, table), nil
}
