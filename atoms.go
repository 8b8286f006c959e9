package ricograph

import (
	"fmt"

	"github.com/google/mangle/ast"
)

// Statements are stored as Mangle atoms over string constants:
//
//	rel(Subject, Predicate, ObjectIRI)
//	lit(Subject, Predicate, LexicalValue, Datatype)
var (
	relPredicate = ast.PredicateSym{Symbol: "rel", Arity: 3}
	litPredicate = ast.PredicateSym{Symbol: "lit", Arity: 4}
)

// statementToAtom encodes a ground statement.
func statementToAtom(st Statement) (ast.Atom, error) {
	switch st.Object.Kind {
	case IRIKind:
		return ast.Atom{
			Predicate: relPredicate,
			Args: []ast.BaseTerm{
				ast.String(st.Subject),
				ast.String(st.Predicate),
				ast.String(st.Object.Value),
			},
		}, nil
	case LiteralKind:
		return ast.Atom{
			Predicate: litPredicate,
			Args: []ast.BaseTerm{
				ast.String(st.Subject),
				ast.String(st.Predicate),
				ast.String(st.Object.Value),
				ast.String(st.Object.Datatype),
			},
		}, nil
	default:
		return ast.Atom{}, fmt.Errorf("statement %s %s has no object", st.Subject, st.Predicate)
	}
}

// atomToStatement decodes an atom produced by statementToAtom.
func atomToStatement(a ast.Atom) (Statement, error) {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		c, ok := arg.(ast.Constant)
		if !ok {
			return Statement{}, fmt.Errorf("argument %d of %v is not a constant", i, a)
		}
		s, err := c.StringValue()
		if err != nil {
			return Statement{}, fmt.Errorf("argument %d of %v: %w", i, a, err)
		}
		args[i] = s
	}

	switch a.Predicate {
	case relPredicate:
		return Statement{Subject: args[0], Predicate: args[1], Object: IRI(args[2])}, nil
	case litPredicate:
		return Statement{Subject: args[0], Predicate: args[1], Object: Literal(args[2], args[3])}, nil
	default:
		return Statement{}, fmt.Errorf("unexpected predicate %v", a.Predicate)
	}
}

// Pattern selects statements. Empty fields are wildcards.
type Pattern struct {
	Subject   string
	Predicate string
	// Object, when non-zero, must match exactly, datatype included.
	Object Term
	// ObjectKind restricts matches to IRI or literal objects when Object is zero.
	ObjectKind TermKind
}

// patternAtoms returns the query atoms covering p, one per object kind.
func patternAtoms(p Pattern) []ast.Atom {
	slot := func(value, variable string) ast.BaseTerm {
		if value == "" {
			return ast.Variable{Symbol: variable}
		}
		return ast.String(value)
	}

	kind := p.ObjectKind
	if !p.Object.IsZero() {
		kind = p.Object.Kind
	}

	var atoms []ast.Atom
	if kind == 0 || kind == IRIKind {
		atoms = append(atoms, ast.Atom{
			Predicate: relPredicate,
			Args: []ast.BaseTerm{
				slot(p.Subject, "S"),
				slot(p.Predicate, "P"),
				slot(p.Object.Value, "O"),
			},
		})
	}
	if kind == 0 || kind == LiteralKind {
		atoms = append(atoms, ast.Atom{
			Predicate: litPredicate,
			Args: []ast.BaseTerm{
				slot(p.Subject, "S"),
				slot(p.Predicate, "P"),
				slot(p.Object.Value, "V"),
				slot(p.Object.Datatype, "D"),
			},
		})
	}
	return atoms
}
