package ricograph

import (
	"fmt"
	"log"
	"slices"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
)

// Store is an append-only, deduplicating set of statements backed by a
// Mangle fact store. Inserting an existing statement is a no-op.
//
// Store is not safe for concurrent use; the conversion pipeline has a single
// writer.
type Store struct {
	facts factstore.FactStoreWithRemove
}

// NewStore wraps an existing fact store. Use NewMemoryStore for the default
// in-memory backend or NewFactStoreSQLite / NewFactStorePostgreSQL for a
// persistent one.
func NewStore(facts factstore.FactStoreWithRemove) *Store {
	return &Store{facts: facts}
}

// NewMemoryStore returns a Store backed by Mangle's in-memory fact store.
func NewMemoryStore() *Store {
	base := factstore.NewSimpleInMemoryStore()
	return &Store{facts: &base}
}

// Add inserts st and reports whether it was not present before.
func (s *Store) Add(st Statement) bool {
	a, err := statementToAtom(st)
	if err != nil {
		log.Printf("ricograph: refusing to add statement: %v", err)
		return false
	}
	return s.facts.Add(a)
}

// Contains reports whether st is in the store.
func (s *Store) Contains(st Statement) bool {
	a, err := statementToAtom(st)
	if err != nil {
		return false
	}
	return s.facts.Contains(a)
}

// Remove deletes st and reports whether it was present.
func (s *Store) Remove(st Statement) bool {
	a, err := statementToAtom(st)
	if err != nil {
		return false
	}
	return s.facts.Remove(a)
}

// Match calls fn for every statement matching p. Returning an error from fn
// stops the walk and that error is returned.
func (s *Store) Match(p Pattern, fn func(Statement) error) error {
	for _, query := range patternAtoms(p) {
		err := s.facts.GetFacts(query, func(a ast.Atom) error {
			st, err := atomToStatement(a)
			if err != nil {
				return err
			}
			return fn(st)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Collect returns all statements matching p in sorted order.
func (s *Store) Collect(p Pattern) ([]Statement, error) {
	var out []Statement
	if err := s.Match(p, func(st Statement) error {
		out = append(out, st)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to collect %+v: %w", p, err)
	}
	slices.SortFunc(out, CompareStatements)
	return out, nil
}

// Value returns one object of (subject, predicate), preferring the smallest
// in statement order so repeated calls are stable.
func (s *Store) Value(subject, predicate string) (Term, bool) {
	matches, err := s.Collect(Pattern{Subject: subject, Predicate: predicate})
	if err != nil || len(matches) == 0 {
		return Term{}, false
	}
	return matches[0].Object, true
}

// Len returns the number of statements in the store.
func (s *Store) Len() int {
	return s.facts.EstimateFactCount()
}

// Statements returns every statement in deterministic order.
func (s *Store) Statements() ([]Statement, error) {
	return s.Collect(Pattern{})
}

// Close releases the backend when it holds resources.
func (s *Store) Close() error {
	if c, ok := s.facts.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
