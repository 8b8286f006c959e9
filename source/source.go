// Package source loads spreadsheets: the mapping workbook whose sheets hold
// rules and the data workbook whose sheets hold the catalog rows.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twinfer/ricograph/mapping"
)

var (
	// ErrUnsupportedFormat is returned for paths that are neither a workbook
	// nor a directory of CSV files.
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
	// ErrMissingColumns is returned by ReadRules for sheets without the
	// mapping columns.
	ErrMissingColumns = errors.New("missing mapping columns")
)

// Sheet is a table: a header row followed by records.
type Sheet struct {
	Name    string
	Header  []string
	Records [][]string
}

// Rows returns the records as mapping rows with normalized column names.
func (s *Sheet) Rows() []mapping.Row {
	rows := make([]mapping.Row, 0, len(s.Records))
	for _, rec := range s.Records {
		rows = append(rows, mapping.NewRow(s.Header, rec))
	}
	return rows
}

// Workbook is an ordered set of sheets. Lookups by name ignore case and
// surrounding whitespace. A Workbook serves both as mapping.RuleBook and
// mapping.DataBook.
type Workbook struct {
	sheets []*Sheet
	byName map[string]*Sheet
}

var (
	_ mapping.RuleBook = (*Workbook)(nil)
	_ mapping.DataBook = (*Workbook)(nil)
)

// NewWorkbook returns a workbook over sheets, in order. For duplicate
// normalized names the first sheet wins lookups.
func NewWorkbook(sheets ...*Sheet) *Workbook {
	w := &Workbook{byName: make(map[string]*Sheet, len(sheets))}
	for _, s := range sheets {
		w.sheets = append(w.sheets, s)
		key := sheetKey(s.Name)
		if _, ok := w.byName[key]; !ok {
			w.byName[key] = s
		}
	}
	return w
}

func sheetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Sheets returns the sheets in workbook order.
func (w *Workbook) Sheets() []*Sheet { return w.sheets }

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet looks a sheet up by name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	s, ok := w.byName[sheetKey(name)]
	return s, ok
}

// Rows implements mapping.DataBook.
func (w *Workbook) Rows(name string) ([]mapping.Row, bool) {
	s, ok := w.Sheet(name)
	if !ok {
		return nil, false
	}
	return s.Rows(), true
}

// Rules implements mapping.RuleBook.
func (w *Workbook) Rules(name string) ([]mapping.Rule, error) {
	s, ok := w.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return ReadRules(s)
}

// Open loads a workbook from an .xlsx file, a single .csv file or a
// directory of .csv files.
func Open(path string) (*Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if info.IsDir() {
		return OpenCSVDir(path)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenXLSX(path)
	case ".csv":
		s, err := readCSVFile(path)
		if err != nil {
			return nil, err
		}
		return NewWorkbook(s), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// newSheet splits a raw table into header and records, dropping blank
// records.
func newSheet(name string, table [][]string) *Sheet {
	s := &Sheet{Name: name}
	if len(table) == 0 {
		return s
	}
	s.Header = table[0]
	for _, rec := range table[1:] {
		if !isBlank(rec) {
			s.Records = append(s.Records, rec)
		}
	}
	return s
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
