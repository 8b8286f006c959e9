package ricograph

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"
)

// Counter for generating unique in-memory database names
var inMemoryDBCounter atomic.Uint64

// FactStoreDB implements the Mangle FactStore interface on top of a SQL
// database. Only atoms whose arguments are all string constants can be
// stored, which is exactly what Store produces. The first argument (the
// statement subject) gets its own indexed column since entity builders look
// up statements by subject far more often than by anything else.
type FactStoreDB struct {
	db *sql.DB
	// ownsDB is false when the connection was handed in by the caller.
	ownsDB bool
	// dialect handles SQL syntax differences between databases.
	dialect dialect
	// Prepared statements for performance
	addStmt      *sql.Stmt
	removeStmt   *sql.Stmt
	containsStmt *sql.Stmt
}

// Verify that FactStoreDB implements the FactStoreWithRemove interface
var _ factstore.FactStoreWithRemove = (*FactStoreDB)(nil)

// Add adds a fact to the store and returns true if it didn't exist before.
func (s *FactStoreDB) Add(atom ast.Atom) bool {
	r, err := atomToRow(atom)
	if err != nil {
		// Variables and non-string constants are never stored.
		return false
	}

	// INSERT ... ON CONFLICT DO NOTHING; the primary key on atom_hash
	// deduplicates.
	res, err := s.addStmt.Exec(r.predicate, r.hash, r.subject, r.args)
	if err != nil {
		log.Printf("FactStoreDB failed to execute add statement: %v", err)
		return false
	}

	// rowsAffected=0 means already existed
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return rowsAffected > 0
}

// Contains returns true if given atom is already present in store.
func (s *FactStoreDB) Contains(atom ast.Atom) bool {
	r, err := atomToRow(atom)
	if err != nil {
		return false
	}

	var count int
	if err := s.containsStmt.QueryRow(r.hash).Scan(&count); err != nil {
		log.Printf("FactStoreDB failed to execute contains statement: %v", err)
		return false
	}
	return count > 0
}

// Remove removes a fact from the store and returns true if that fact was present.
func (s *FactStoreDB) Remove(atom ast.Atom) bool {
	r, err := atomToRow(atom)
	if err != nil {
		return false
	}

	result, err := s.removeStmt.Exec(r.hash)
	if err != nil {
		log.Printf("FactStoreDB failed to execute remove statement: %v", err)
		return false
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("FactStoreDB failed to get rows affected after remove: %v", err)
		return false
	}
	return rowsAffected > 0
}

// GetFacts streams the facts matching pattern. Variables in the pattern are
// wildcards; string constants filter on the corresponding argument.
func (s *FactStoreDB) GetFacts(pattern ast.Atom, callback func(ast.Atom) error) error {
	var queryBuf strings.Builder
	var params []any

	queryBuf.WriteString(s.dialect.getFactsBaseSQL())
	params = append(params, predicateToKey(pattern.Predicate))

	for i, arg := range pattern.Args {
		constant, ok := arg.(ast.Constant)
		if !ok {
			continue
		}
		value, err := constant.StringValue()
		if err != nil {
			// A non-string constant can never match a stored fact.
			return nil
		}
		if i == 0 {
			queryBuf.WriteString(s.dialect.subjectFragment(&params))
			params = append(params, value)
			continue
		}
		queryBuf.WriteString(s.dialect.argFragment(i, &params))
		params = append(params, value)
	}

	rows, err := s.db.Query(queryBuf.String(), params...)
	if err != nil {
		return fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var argsJSON string
		if err := rows.Scan(&argsJSON); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		atom, err := rowToAtom(pattern.Predicate, argsJSON)
		if err != nil {
			return fmt.Errorf("failed to decode fact: %w", err)
		}
		if err := callback(atom); err != nil {
			return err
		}
	}
	return rows.Err()
}

// ListPredicates lists predicates available in this store.
func (s *FactStoreDB) ListPredicates() []ast.PredicateSym {
	rows, err := s.db.Query(`SELECT DISTINCT predicate FROM facts`)
	if err != nil {
		log.Printf("FactStoreDB failed to query for predicates: %v", err)
		return nil
	}
	defer rows.Close()

	var predicates []ast.PredicateSym
	for rows.Next() {
		var predicateKey string
		if err := rows.Scan(&predicateKey); err != nil {
			log.Printf("FactStoreDB failed to scan predicate row: %v", err)
			continue
		}
		pred, err := keyToPredicate(predicateKey)
		if err != nil {
			log.Printf("FactStoreDB %v", err)
			continue
		}
		predicates = append(predicates, pred)
	}
	if err := rows.Err(); err != nil {
		log.Printf("FactStoreDB error iterating predicate rows: %v", err)
	}
	return predicates
}

// EstimateFactCount returns the number of facts in the store.
func (s *FactStoreDB) EstimateFactCount() int {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM facts").Scan(&count); err != nil {
		log.Printf("FactStoreDB failed to estimate fact count: %v", err)
		return 0
	}
	return count
}

// Reset deletes every stored fact. The converter calls it right after
// opening a persistent backend so each run starts from an empty graph.
func (s *FactStoreDB) Reset() error {
	if _, err := s.db.Exec("DELETE FROM facts"); err != nil {
		return fmt.Errorf("failed to reset facts: %w", err)
	}
	return nil
}

// Merge merges contents of given store into this store using multi-row
// inserts inside one transaction.
func (s *FactStoreDB) Merge(other factstore.ReadOnlyFactStore) {
	var facts []ast.Atom
	for _, predicate := range other.ListPredicates() {
		_ = other.GetFacts(ast.NewQuery(predicate), func(atom ast.Atom) error {
			facts = append(facts, atom)
			return nil
		})
	}
	if len(facts) == 0 {
		return
	}
	if err := s.batchInsertFacts(facts); err != nil {
		log.Printf("FactStoreDB failed to batch insert facts: %v", err)
	}
}

// batchInsertFacts inserts facts with multi-row INSERT statements.
func (s *FactStoreDB) batchInsertFacts(facts []ast.Atom) error {
	const batchSize = 500

	rows := make([]factRow, 0, len(facts))
	for _, fact := range facts {
		r, err := atomToRow(fact)
		if err != nil {
			continue
		}
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op after Commit

	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		batch := rows[i:end]

		params := make([]any, 0, len(batch)*4)
		for _, r := range batch {
			params = append(params, r.predicate, r.hash, r.subject, r.args)
		}
		if _, err := tx.Exec(s.dialect.batchInsertSQL(len(batch)), params...); err != nil {
			return fmt.Errorf("failed to execute batch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the prepared statements and, when the store owns it, the
// database connection.
func (s *FactStoreDB) Close() error {
	for _, stmt := range []*sql.Stmt{s.addStmt, s.removeStmt, s.containsStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

// initSchemaAndStatements creates the table, indexes, and prepared statements.
func (s *FactStoreDB) initSchemaAndStatements() error {
	if _, err := s.db.Exec(s.dialect.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create facts table: %w", err)
	}
	for _, stmt := range s.dialect.createIndexSQL() {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	var err error
	if s.addStmt, err = s.db.Prepare(s.dialect.addSQL()); err != nil {
		return fmt.Errorf("failed to prepare add statement: %w", err)
	}
	if s.removeStmt, err = s.db.Prepare(s.dialect.removeSQL()); err != nil {
		return fmt.Errorf("failed to prepare remove statement: %w", err)
	}
	if s.containsStmt, err = s.db.Prepare(s.dialect.containsSQL()); err != nil {
		return fmt.Errorf("failed to prepare contains statement: %w", err)
	}
	return nil
}
