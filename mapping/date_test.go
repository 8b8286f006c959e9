package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/twinfer/ricograph"
)

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		in         string
		start, end string
		ok         bool
	}{
		{"20230401-20230630", "20230401", "20230630", true},
		{"2023-2024", "2023", "2024", true},
		{"20230401", "20230401", "", true},
		{"2023", "2023", "", true},
		{"  1920 ", "1920", "", true},
		{"April 2023", "", "", false},
		{"2023-04-01", "", "", false},
		{"20230401-2023", "", "", false},
		{"202304", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			start, end, ok := ParseDateRange(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want ricograph.Term
		ok   bool
	}{
		{"20200101", ricograph.Literal("2020-01-01", ricograph.XSDDate), true},
		{"19240229", ricograph.Literal("1924-02-29", ricograph.XSDDate), true},
		{"2023", ricograph.Literal("2023", ricograph.XSDGYear), true},
		{"20231332", ricograph.Term{}, false},
		{"19230229", ricograph.Term{}, false},
		{"April 2023", ricograph.Term{}, false},
		{"12ab", ricograph.Term{}, false},
		{"", ricograph.Term{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := FormatDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
