package rdf

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/twinfer/ricograph"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// TurtleWriter writes statements in Turtle format, grouped by subject and
// abbreviated with the registered prefixes.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer using the given prefix table.
// Prefixes that are not valid Turtle prefix names are ignored.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	w := &TurtleWriter{prefixes: make(map[string]string, len(prefixes))}
	for k, v := range prefixes {
		w.SetPrefix(k, v)
	}
	return w
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	if !isPrefixName(prefix) {
		return
	}
	w.prefixes[prefix] = iri
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, escapeIRI(w.prefixes[prefix]))
	}
	w.sb.WriteString("\n")
}

// WriteStatements writes statements, which must be sorted by subject, as
// one block per subject.
func (w *TurtleWriter) WriteStatements(statements []ricograph.Statement) {
	for i, st := range statements {
		first := i == 0 || statements[i-1].Subject != st.Subject
		last := i == len(statements)-1 || statements[i+1].Subject != st.Subject

		if first {
			w.sb.WriteString(w.iri(st.Subject))
			w.sb.WriteString("\n")
		}
		predicate := "a"
		if st.Predicate != rdfType {
			predicate = w.iri(st.Predicate)
		}
		terminator := " ;"
		if last {
			terminator = " ."
		}
		fmt.Fprintf(&w.sb, "    %s %s%s\n", predicate, w.term(st.Object), terminator)
		if last {
			w.sb.WriteString("\n")
		}
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// iri renders an IRI as a prefixed name when a prefix covers it and the
// local part is a safe Turtle local name, else as <iri>.
func (w *TurtleWriter) iri(iri string) string {
	best, bestNS := "", ""
	for prefix, ns := range w.prefixes {
		if len(ns) > len(bestNS) && strings.HasPrefix(iri, ns) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS != "" {
		if local := iri[len(bestNS):]; isLocalName(local) {
			return best + ":" + local
		}
	}
	return "<" + escapeIRI(iri) + ">"
}

func (w *TurtleWriter) term(t ricograph.Term) string {
	if t.IsIRI() {
		return w.iri(t.Value)
	}
	lexical := `"` + escapeString(t.Value) + `"`
	if t.Datatype == "" || t.Datatype == ricograph.XSDString {
		return lexical
	}
	return lexical + "^^" + w.iri(t.Datatype)
}

// isLocalName reports whether s can be written after a prefix without
// escapes. It is stricter than the Turtle grammar.
func isLocalName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

func isPrefixName(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_' || r == '-'):
		default:
			return false
		}
	}
	return s != ""
}

func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeIRI percent-encodes characters not allowed inside an IRIREF.
func escapeIRI(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x20 || c == 0x7F || strings.IndexByte("<>\"{}|^`\\", c) >= 0 {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
