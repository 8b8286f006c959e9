package ricograph

import (
	"fmt"
	"testing"

	"bitbucket.org/creachadair/stringset"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/functional"
	"github.com/google/mangle/parse"
)

// atom parses a string into an ast.Atom using Mangle's parser
func atom(s string) ast.Atom {
	term, err := parse.Term(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse %q: %v", s, err))
	}
	return term.(ast.Atom)
}

// evalAtom parses and evaluates a string into an ast.Atom
func evalAtom(s string) ast.Atom {
	term, err := parse.Term(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse %q: %v", s, err))
	}
	eval, err := functional.EvalAtom(term.(ast.Atom), nil)
	if err != nil {
		panic(fmt.Sprintf("failed to eval %q: %v", s, err))
	}
	return eval
}

// atomSet renders atoms the way GetFacts results are rendered.
func atomSet(atoms ...string) stringset.Set {
	set := stringset.New()
	for _, a := range atoms {
		set.Add(atom(a).String())
	}
	return set
}

const (
	rec1   = "http://example.org/RecordSet/S1"
	rec2   = "http://example.org/RecordSet/S2"
	incl   = "https://www.ica.org/standards/RiC/ontology#includes"
	title  = "https://www.ica.org/standards/RiC/ontology#title"
	rdfTyp = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// runAddContainsTest tests add/contains on statement-shaped atoms.
func runAddContainsTest(t *testing.T, store factstore.FactStoreWithRemove) {
	tests := []ast.Atom{
		atom(`rel("http://example.org/a", "http://example.org/p", "http://example.org/b")`),
		atom(`rel("http://example.org/a", "http://example.org/p", "http://example.org/c")`),
		atom(`lit("http://example.org/a", "http://example.org/p", "hello", "http://www.w3.org/2001/XMLSchema#string")`),
		atom(`lit("http://example.org/a", "http://example.org/p", "2020-01-01", "http://www.w3.org/2001/XMLSchema#date")`),
		// Unicode and separators survive the JSON args column.
		atom(`lit("http://example.org/a", "http://example.org/p", "Città di Castello", "http://www.w3.org/2001/XMLSchema#string")`),
		atom(`lit("http://example.org/a", "http://example.org/p", "a'b,c]", "http://www.w3.org/2001/XMLSchema#string")`),
	}

	for _, testAtom := range tests {
		t.Run(testAtom.String(), func(t *testing.T) {
			if got := store.Add(testAtom); !got {
				t.Errorf("Add(%v)=%v want %v", testAtom, got, true)
			}
			if !store.Contains(testAtom) {
				t.Errorf("Contains(%v)=false want true", testAtom)
			}
			if got := store.Add(testAtom); got {
				t.Errorf("Add(%v)=%v want %v (second add)", testAtom, got, false)
			}
		})
	}

	if got, want := store.EstimateFactCount(), len(tests); got != want {
		t.Errorf("EstimateFactCount() = %d want %d", got, want)
	}
}

// runArgumentBoundaryTest checks that argument boundaries are part of the
// identity of a fact.
func runArgumentBoundaryTest(t *testing.T, store factstore.FactStoreWithRemove) {
	a := atom(`rel("ab", "c", "d")`)
	b := atom(`rel("a", "bc", "d")`)
	if !store.Add(a) {
		t.Fatalf("Add(%v) should return true", a)
	}
	if !store.Add(b) {
		t.Errorf("Add(%v) should return true for a distinct fact", b)
	}
	if store.Contains(atom(`rel("abc", "", "d")`)) {
		t.Error("Contains should be false for a fact never added")
	}
	if got := store.EstimateFactCount(); got != 2 {
		t.Errorf("EstimateFactCount() = %d want 2", got)
	}
}

// runGetFactsPatternMatchingTest tests pattern matching with variables.
func runGetFactsPatternMatchingTest(t *testing.T, store factstore.FactStoreWithRemove) {
	testFacts := []string{
		`rel("s1", "includes", "f1")`,
		`rel("s1", "includes", "f2")`,
		`rel("s2", "includes", "f3")`,
		`rel("f1", "type", "RecordSet")`,
		`lit("s1", "label", "Serie 1", "string")`,
		`lit("s2", "label", "Serie 2", "string")`,
		`lit("s2", "date", "2020", "gYear")`,
	}
	for _, f := range testFacts {
		store.Add(atom(f))
	}

	tests := []struct {
		pattern string
		want    stringset.Set
	}{
		{
			pattern: `rel("s1", "includes", "f1")`,
			want:    atomSet(`rel("s1", "includes", "f1")`),
		},
		{
			pattern: `rel("s1", "includes", "f9")`,
			want:    stringset.New(),
		},
		{
			pattern: `rel("s1", P, O)`,
			want:    atomSet(`rel("s1", "includes", "f1")`, `rel("s1", "includes", "f2")`),
		},
		{
			pattern: `rel(S, "includes", O)`,
			want:    atomSet(`rel("s1", "includes", "f1")`, `rel("s1", "includes", "f2")`, `rel("s2", "includes", "f3")`),
		},
		{
			pattern: `rel(S, P, "f3")`,
			want:    atomSet(`rel("s2", "includes", "f3")`),
		},
		{
			pattern: `lit(S, "label", V, D)`,
			want:    atomSet(`lit("s1", "label", "Serie 1", "string")`, `lit("s2", "label", "Serie 2", "string")`),
		},
		{
			pattern: `lit(S, P, V, "gYear")`,
			want:    atomSet(`lit("s2", "date", "2020", "gYear")`),
		},
		{
			pattern: `nope(S, P, O)`,
			want:    stringset.New(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := stringset.New()
			err := store.GetFacts(atom(tt.pattern), func(fact ast.Atom) error {
				got.Add(fact.String())
				return nil
			})
			if err != nil {
				t.Fatalf("GetFacts(%q) error: %v", tt.pattern, err)
			}
			if !got.Equals(tt.want) {
				t.Errorf("GetFacts(%q) = %v want %v", tt.pattern, got, tt.want)
			}
		})
	}
}

// runListPredicatesTest tests predicate listing.
func runListPredicatesTest(t *testing.T, store factstore.FactStoreWithRemove) {
	if predicates := store.ListPredicates(); len(predicates) != 0 {
		t.Errorf("Expected 0 predicates, got %d", len(predicates))
	}

	store.Add(atom(`rel("a", "p", "b")`))
	store.Add(atom(`rel("a", "p", "c")`))
	store.Add(atom(`lit("a", "p", "v", "d")`))

	predicates := store.ListPredicates()
	predSet := stringset.New()
	for _, p := range predicates {
		predSet.Add(p.String())
	}
	want := stringset.New(relPredicate.String(), litPredicate.String())
	if !predSet.Equals(want) {
		t.Errorf("ListPredicates() = %v want %v", predSet, want)
	}
}

// runMergeTest tests merging two stores.
func runMergeTest(t *testing.T, newStore func() (factstore.FactStoreWithRemove, error)) {
	store1, err := newStore()
	if err != nil {
		t.Fatalf("Failed to create store1: %v", err)
	}
	defer closeStore(store1)

	store2, err := newStore()
	if err != nil {
		t.Fatalf("Failed to create store2: %v", err)
	}
	defer closeStore(store2)

	store1.Add(atom(`rel("a", "p", "b")`))
	store1.Add(atom(`rel("a", "p", "existing")`))

	store2.Add(atom(`rel("a", "p", "b")`))
	store2.Add(atom(`rel("a", "p", "new")`))
	store2.Add(atom(`lit("a", "label", "other", "string")`))

	store1.Merge(store2)

	for _, fact := range []string{
		`rel("a", "p", "b")`,
		`rel("a", "p", "existing")`,
		`rel("a", "p", "new")`,
		`lit("a", "label", "other", "string")`,
	} {
		if !store1.Contains(atom(fact)) {
			t.Errorf("After merge, store1 should contain %v", fact)
		}
	}
	if got := store1.EstimateFactCount(); got != 4 {
		t.Errorf("EstimateFactCount() = %d want 4", got)
	}
}

// runRemoveTest tests the Remove method.
func runRemoveTest(t *testing.T, store factstore.FactStoreWithRemove) {
	tests := []struct {
		name string
		atom ast.Atom
	}{
		{"rel", atom(`rel("a", "p", "b")`)},
		{"lit", atom(`lit("a", "p", "v", "d")`)},
		{"special-chars", atom(`lit("a", "p", "line\nbreak\ttab", "d")`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !store.Add(tt.atom) {
				t.Errorf("Failed to add %v", tt.atom)
			}
			if !store.Remove(tt.atom) {
				t.Errorf("Remove(%v) should return true (fact exists)", tt.atom)
			}
			if store.Contains(tt.atom) {
				t.Errorf("Store should not contain %v after Remove", tt.atom)
			}
			if store.Remove(tt.atom) {
				t.Errorf("Remove(%v) should return false (fact already removed)", tt.atom)
			}
		})
	}
}

// runUnsupportedAtomsTest checks that the SQL store rejects atoms it cannot
// represent instead of storing them lossily.
func runUnsupportedAtomsTest(t *testing.T, store factstore.FactStoreWithRemove) {
	tests := []ast.Atom{
		atom(`rel(X, "p", "o")`),
		evalAtom(`num("a", 42)`),
		atom(`foo(/bar)`),
	}
	for _, testAtom := range tests {
		t.Run(testAtom.String(), func(t *testing.T) {
			if store.Add(testAtom) {
				t.Errorf("Add(%v)=true want false", testAtom)
			}
			if store.Contains(testAtom) {
				t.Errorf("Contains(%v)=true want false", testAtom)
			}
		})
	}
}

func closeStore(store factstore.FactStoreWithRemove) {
	if c, ok := store.(interface{ Close() error }); ok {
		c.Close()
	}
}

// runSuite runs all shared fact store tests for a given implementation.
func runSuite(t *testing.T, newStore func() (factstore.FactStoreWithRemove, error)) {
	cases := []struct {
		name string
		run  func(*testing.T, factstore.FactStoreWithRemove)
	}{
		{"AddContains", runAddContainsTest},
		{"ArgumentBoundary", runArgumentBoundaryTest},
		{"GetFactsPatternMatching", runGetFactsPatternMatchingTest},
		{"ListPredicates", runListPredicatesTest},
		{"Remove", runRemoveTest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := newStore()
			if err != nil {
				t.Fatalf("Failed to create store: %v", err)
			}
			t.Cleanup(func() { closeStore(store) })
			tc.run(t, store)
		})
	}

	t.Run("Merge", func(t *testing.T) {
		runMergeTest(t, newStore)
	})
}

// runStatementSuite exercises Store on top of a fact store backend.
func runStatementSuite(t *testing.T, newStore func() (*Store, error)) {
	open := func(t *testing.T) *Store {
		t.Helper()
		s, err := newStore()
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}
		t.Cleanup(func() { s.Close() })
		return s
	}

	t.Run("AddIsIdempotent", func(t *testing.T) {
		s := open(t)
		st := Statement{Subject: rec1, Predicate: incl, Object: IRI(rec2)}
		if !s.Add(st) {
			t.Fatalf("Add(%v) = false, want true", st)
		}
		if s.Add(st) {
			t.Errorf("Add(%v) twice = true, want false", st)
		}
		if got := s.Len(); got != 1 {
			t.Errorf("Len() = %d, want 1", got)
		}
		if !s.Contains(st) {
			t.Errorf("Contains(%v) = false", st)
		}
	})

	t.Run("LiteralAndIRIAreDistinct", func(t *testing.T) {
		s := open(t)
		s.Add(Statement{Subject: rec1, Predicate: title, Object: IRI(rec2)})
		s.Add(Statement{Subject: rec1, Predicate: title, Object: StringLiteral(rec2)})
		s.Add(Statement{Subject: rec1, Predicate: title, Object: Literal(rec2, XSDDate)})
		if got := s.Len(); got != 3 {
			t.Errorf("Len() = %d, want 3", got)
		}
		iris, err := s.Collect(Pattern{Subject: rec1, ObjectKind: IRIKind})
		if err != nil {
			t.Fatal(err)
		}
		if len(iris) != 1 || !iris[0].Object.IsIRI() {
			t.Errorf("Collect(IRI objects) = %v", iris)
		}
		lits, err := s.Collect(Pattern{Subject: rec1, Object: StringLiteral(rec2)})
		if err != nil {
			t.Fatal(err)
		}
		if len(lits) != 1 || lits[0].Object.Datatype != XSDString {
			t.Errorf("Collect(string literal) = %v", lits)
		}
	})

	t.Run("PatternQueries", func(t *testing.T) {
		s := open(t)
		s.Add(Statement{Subject: rec1, Predicate: incl, Object: IRI("http://example.org/Record/A")})
		s.Add(Statement{Subject: rec1, Predicate: incl, Object: IRI("http://example.org/Record/B")})
		s.Add(Statement{Subject: rec2, Predicate: incl, Object: IRI("http://example.org/Record/C")})
		s.Add(Statement{Subject: rec1, Predicate: rdfTyp, Object: IRI("https://www.ica.org/standards/RiC/ontology#RecordSet")})

		got, err := s.Collect(Pattern{Subject: rec1, Predicate: incl})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 || got[0].Object.Value != "http://example.org/Record/A" || got[1].Object.Value != "http://example.org/Record/B" {
			t.Errorf("Collect(rec1 includes ?) = %v", got)
		}

		got, err = s.Collect(Pattern{Predicate: incl, Object: IRI("http://example.org/Record/C")})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].Subject != rec2 {
			t.Errorf("Collect(? includes C) = %v", got)
		}

		if _, ok := s.Value(rec2, rdfTyp); ok {
			t.Error("Value(rec2, rdf:type) found a type")
		}

		v, ok := s.Value(rec1, incl)
		if !ok || v.Value != "http://example.org/Record/A" {
			t.Errorf("Value(rec1, includes) = %v, %v", v, ok)
		}
		if _, ok := s.Value(rec2, title); ok {
			t.Error("Value(rec2, title) found a value")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		s := open(t)
		st := Statement{Subject: rec1, Predicate: title, Object: StringLiteral("Serie")}
		s.Add(st)
		if !s.Remove(st) {
			t.Fatalf("Remove(%v) = false", st)
		}
		if s.Contains(st) || s.Len() != 0 {
			t.Errorf("statement still present after Remove")
		}
		if s.Remove(st) {
			t.Errorf("second Remove(%v) = true", st)
		}
	})

	t.Run("StatementsSorted", func(t *testing.T) {
		s := open(t)
		s.Add(Statement{Subject: rec2, Predicate: title, Object: StringLiteral("b")})
		s.Add(Statement{Subject: rec1, Predicate: title, Object: StringLiteral("a")})
		s.Add(Statement{Subject: rec1, Predicate: incl, Object: IRI(rec2)})
		all, err := s.Statements()
		if err != nil {
			t.Fatal(err)
		}
		if len(all) != 3 {
			t.Fatalf("Statements() returned %d statements, want 3", len(all))
		}
		want := []string{rec1 + "|" + incl, rec1 + "|" + title, rec2 + "|" + title}
		for i, st := range all {
			if got := st.Subject + "|" + st.Predicate; got != want[i] {
				t.Errorf("Statements()[%d] = %s, want %s", i, got, want[i])
			}
		}
	})

	t.Run("RejectsZeroObject", func(t *testing.T) {
		s := open(t)
		if s.Add(Statement{Subject: rec1, Predicate: title}) {
			t.Error("Add with zero object = true")
		}
	})
}
