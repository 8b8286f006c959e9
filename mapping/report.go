package mapping

import (
	"log/slog"
	"maps"
	"slices"
)

// SkipReason says why a sheet or row was not converted.
type SkipReason string

// Sheet level reasons.
const (
	SkipIgnoredSheet   SkipReason = "ignored_sheet"
	SkipNoData         SkipReason = "no_data"
	SkipMissingColumns SkipReason = "missing_columns"
)

// Row level reasons.
const (
	SkipMissingValue SkipReason = "missing_value"
	SkipDate         SkipReason = "date_not_applicable"
	SkipUnmatchedBox SkipReason = "unmatched_box"
)

// Report summarizes a conversion run.
type Report struct {
	SheetsProcessed int
	SheetsSkipped   map[SkipReason]int
	// RulesSkipped counts rules without a subject column or predicate, and
	// rdf:type rules.
	RulesSkipped int
	RowsSkipped  map[SkipReason]int
	// Dropped counts main statements rejected by the output guards.
	Dropped           int
	SenderLinks       int
	SendersPropagated int
	Statements        int
}

func newReport() Report {
	return Report{
		SheetsSkipped: make(map[SkipReason]int),
		RowsSkipped:   make(map[SkipReason]int),
	}
}

func (r *Report) skipSheet(reason SkipReason) { r.SheetsSkipped[reason]++ }

func (r *Report) skipRow(reason SkipReason) { r.RowsSkipped[reason]++ }

func (r Report) clone() Report {
	r.SheetsSkipped = maps.Clone(r.SheetsSkipped)
	r.RowsSkipped = maps.Clone(r.RowsSkipped)
	return r
}

// TotalSheetsSkipped sums SheetsSkipped.
func (r Report) TotalSheetsSkipped() int { return sum(r.SheetsSkipped) }

// TotalRowsSkipped sums RowsSkipped.
func (r Report) TotalRowsSkipped() int { return sum(r.RowsSkipped) }

func sum(m map[SkipReason]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sheets_processed", r.SheetsProcessed),
		slog.Int("sheets_skipped_total", r.TotalSheetsSkipped()),
		slog.Any("sheets_skipped", reasonGroup(r.SheetsSkipped)),
		slog.Int("rules_skipped", r.RulesSkipped),
		slog.Int("rows_skipped_total", r.TotalRowsSkipped()),
		slog.Any("rows_skipped", reasonGroup(r.RowsSkipped)),
		slog.Int("dropped", r.Dropped),
		slog.Int("sender_links", r.SenderLinks),
		slog.Int("senders_propagated", r.SendersPropagated),
		slog.Int("statements", r.Statements),
	)
}

func reasonGroup(m map[SkipReason]int) slog.Value {
	attrs := make([]slog.Attr, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		attrs = append(attrs, slog.Int(string(k), m[k]))
	}
	return slog.GroupValue(attrs...)
}
