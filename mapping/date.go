package mapping

import (
	"regexp"
	"strings"
	"time"

	"github.com/twinfer/ricograph"
)

var (
	dayRangePattern  = regexp.MustCompile(`^\d{8}-\d{8}$`)
	yearRangePattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
	dayPattern       = regexp.MustCompile(`^\d{8}$`)
	yearPattern      = regexp.MustCompile(`^\d{4}$`)
)

// ParseDateRange splits a normalized date cell. Accepted shapes are
// YYYYMMDD-YYYYMMDD, YYYY-YYYY, YYYYMMDD and YYYY; single dates have no end.
// Anything else reports ok == false.
func ParseDateRange(s string) (start, end string, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case dayRangePattern.MatchString(s), yearRangePattern.MatchString(s):
		start, end, _ = strings.Cut(s, "-")
		return start, end, true
	case dayPattern.MatchString(s), yearPattern.MatchString(s):
		return s, "", true
	}
	return "", "", false
}

// FormatDate turns a date label into a typed literal: eight digits become an
// xsd:date when they name a real calendar day, four digits an xsd:gYear.
func FormatDate(label string) (ricograph.Term, bool) {
	switch {
	case dayPattern.MatchString(label):
		t, err := time.Parse("20060102", label)
		if err != nil {
			return ricograph.Term{}, false
		}
		return ricograph.Literal(t.Format(time.DateOnly), ricograph.XSDDate), true
	case yearPattern.MatchString(label):
		return ricograph.Literal(label, ricograph.XSDGYear), true
	}
	return ricograph.Term{}, false
}
