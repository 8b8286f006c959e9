package ricograph

import (
	"fmt"
	"strings"
)

// XML Schema datatypes used for literal objects.
const (
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
	XSDString    = XSDNamespace + "string"
	XSDDate      = XSDNamespace + "date"
	XSDGYear     = XSDNamespace + "gYear"
	XSDDecimal   = XSDNamespace + "decimal"
)

// TermKind distinguishes identifier objects from literal objects.
type TermKind uint8

const (
	// IRIKind marks a term that names a resource.
	IRIKind TermKind = iota + 1
	// LiteralKind marks a typed literal value.
	LiteralKind
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case IRIKind:
		return "iri"
	case LiteralKind:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is the object position of a Statement: either an IRI or a typed literal.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
}

// IRI returns an identifier term.
func IRI(iri string) Term {
	return Term{Kind: IRIKind, Value: iri}
}

// Literal returns a literal term with the given datatype.
// An empty datatype defaults to xsd:string.
func Literal(value, datatype string) Term {
	if datatype == "" {
		datatype = XSDString
	}
	return Term{Kind: LiteralKind, Value: value, Datatype: datatype}
}

// StringLiteral returns an xsd:string literal.
func StringLiteral(value string) Term {
	return Literal(value, XSDString)
}

// IsIRI reports whether t names a resource.
func (t Term) IsIRI() bool { return t.Kind == IRIKind }

// IsLiteral reports whether t is a literal value.
func (t Term) IsLiteral() bool { return t.Kind == LiteralKind }

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t.Kind == 0 }

// String renders the term in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case IRIKind:
		return "<" + t.Value + ">"
	case LiteralKind:
		return fmt.Sprintf("%q^^<%s>", t.Value, t.Datatype)
	default:
		return ""
	}
}

// Statement is a single (subject, predicate, object) triple.
type Statement struct {
	Subject   string
	Predicate string
	Object    Term
}

// String renders the statement as an N-Triples line without the trailing newline.
func (s Statement) String() string {
	return fmt.Sprintf("<%s> <%s> %s .", s.Subject, s.Predicate, s.Object)
}

// CompareStatements orders statements by subject, predicate, object kind,
// object value and datatype.
func CompareStatements(a, b Statement) int {
	if c := strings.Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := strings.Compare(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	if a.Object.Kind != b.Object.Kind {
		if a.Object.Kind < b.Object.Kind {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Object.Value, b.Object.Value); c != 0 {
		return c
	}
	return strings.Compare(a.Object.Datatype, b.Object.Datatype)
}
