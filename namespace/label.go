package namespace

import (
	"strings"
	"unicode"
)

// SafeLabel derives a path-safe local name from an arbitrary cell value.
// Surrounding whitespace is trimmed, every rune other than a letter, digit,
// underscore, hyphen or whitespace is dropped, and each whitespace run
// becomes a single underscore.
//
// Distinct values can collapse to the same label ("Roma." and "Roma");
// entities minted from them are the same entity.
func SafeLabel(value string) string {
	value = strings.TrimSpace(value)

	var b strings.Builder
	b.Grow(len(value))
	inSpace := false
	for _, r := range value {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
				inSpace = true
			}
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_', r == '-':
			b.WriteRune(r)
			inSpace = false
		}
		// Any other rune is dropped and does not end a whitespace run,
		// so "a ! b" becomes "a_b".
	}
	return b.String()
}
