package source

import (
	"fmt"
	"strings"

	"github.com/twinfer/ricograph/mapping"
)

// Mapping sheet columns. Names are matched after trimming, case included.
const (
	ColumnSubject       = "Subject"
	ColumnPredicate     = "Predicate"
	ColumnObject        = "Object"
	ColumnSubjectColumn = "Column Subject"
	ColumnObjectColumn  = "Column Object"
)

var ruleColumns = []string{ColumnSubject, ColumnPredicate, ColumnObject, ColumnSubjectColumn, ColumnObjectColumn}

// ReadRules turns a mapping sheet into rules, one per record. It returns
// ErrMissingColumns when any mapping column is absent.
func ReadRules(s *Sheet) ([]mapping.Rule, error) {
	index := make(map[string]int, len(s.Header))
	for i, h := range s.Header {
		h = strings.TrimSpace(h)
		if _, ok := index[h]; !ok {
			index[h] = i
		}
	}
	var missing []string
	for _, c := range ruleColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: sheet %q lacks %s", ErrMissingColumns, s.Name, strings.Join(missing, ", "))
	}

	cell := func(rec []string, col string) string {
		i := index[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	rules := make([]mapping.Rule, 0, len(s.Records))
	for _, rec := range s.Records {
		rules = append(rules, mapping.Rule{
			SubjectColumn: cell(rec, ColumnSubjectColumn),
			Predicate:     cell(rec, ColumnPredicate),
			ObjectColumn:  cell(rec, ColumnObjectColumn),
			StaticObject:  cell(rec, ColumnObject),
		})
	}
	return rules, nil
}
