// Package mapping turns tabular archival descriptions into RiC-O statements.
//
// An Engine walks mapping rules sheet by sheet. For every rule and every
// data row it resolves the subject and object cells, classifies the rule's
// predicate, lets the matching entity builder mint or reuse side entities,
// and writes the main statement unless the builder consumed it. Once every
// sheet is done, Propagate copies senders recorded on containers down to
// their children.
package mapping

import (
	"strings"
)

// Rule is one row of a mapping sheet. A rule yields at most one main
// statement per data row, plus whatever side statements its builder writes.
type Rule struct {
	// SubjectColumn names the data column holding the subject identifier.
	SubjectColumn string
	// Predicate is a "prefix:local" term or an absolute IRI.
	Predicate string
	// ObjectColumn names the data column holding the object. When empty,
	// StaticObject is used for every row.
	ObjectColumn string
	StaticObject string
}

// objectValue returns the rule's object for row.
func (r Rule) objectValue(row Row) (string, bool) {
	if col := strings.TrimSpace(r.ObjectColumn); col != "" {
		return row.Get(normalizeColumn(col))
	}
	v := strings.TrimSpace(r.StaticObject)
	return v, v != ""
}

// Row is one data row: an ordered mapping from normalized column name to
// cell value. Blank cells are absent.
type Row struct {
	columns []string
	values  map[string]string
}

// NewRow pairs column names with values. Column names are normalized
// (trimmed, lower-cased); the first occurrence of a duplicated column wins.
// Values beyond the last column are ignored and missing values are absent.
func NewRow(columns, values []string) Row {
	r := Row{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string]string, len(columns)),
	}
	for i, col := range columns {
		col = normalizeColumn(col)
		if _, dup := r.values[col]; dup {
			continue
		}
		r.columns = append(r.columns, col)
		if i < len(values) {
			r.values[col] = values[i]
		} else {
			r.values[col] = ""
		}
	}
	return r
}

// Columns returns the normalized column names in source order.
func (r Row) Columns() []string {
	return r.columns
}

// Get returns the trimmed value of column. Blank and missing cells report
// false.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}

// SheetKind is the archival level a data sheet describes.
type SheetKind uint8

const (
	SheetOther SheetKind = iota
	SheetSeries
	SheetSubSeries
	SheetFolder
	SheetDocument
)

var sheetKindNames = map[string]SheetKind{
	"serie":      SheetSeries,
	"sottoserie": SheetSubSeries,
	"fascicolo":  SheetFolder,
	"fascicoli":  SheetFolder,
	"documento":  SheetDocument,
	"documenti":  SheetDocument,
}

// ParseSheetKind classifies a sheet by name, ignoring case and surrounding
// whitespace.
func ParseSheetKind(name string) SheetKind {
	return sheetKindNames[strings.ToLower(strings.TrimSpace(name))]
}

func (k SheetKind) String() string {
	switch k {
	case SheetSeries:
		return "series"
	case SheetSubSeries:
		return "sub-series"
	case SheetFolder:
		return "folder"
	case SheetDocument:
		return "document"
	default:
		return "other"
	}
}
