package ricograph

import (
	"fmt"
	"strings"
)

// dialect defines an interface for generating database-specific SQL.
type dialect interface {
	// createTableSQL returns the SQL for creating the 'facts' table.
	createTableSQL() string
	// createIndexSQL returns the index definitions, applied in order.
	createIndexSQL() []string
	// addSQL returns the SQL for inserting a fact with conflict handling.
	addSQL() string
	// removeSQL returns the SQL for deleting a fact by its hash.
	removeSQL() string
	// containsSQL returns the SQL for checking if a fact exists by its hash.
	containsSQL() string
	// getFactsBaseSQL returns the initial SELECT statement for GetFacts.
	getFactsBaseSQL() string
	// batchInsertSQL builds a multi-row INSERT statement for a given number of rows.
	batchInsertSQL(numRows int) string
	// subjectFragment filters on the indexed subject column.
	subjectFragment(params *[]any) string
	// argFragment filters on the string argument at index.
	argFragment(index int, params *[]any) string
}

// --- SQLite Dialect ---

type sqliteDialect struct{}

func (d sqliteDialect) createTableSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS facts (
			predicate TEXT NOT NULL,
			atom_hash BIGINT NOT NULL,
			subject TEXT NOT NULL,
			args BLOB NOT NULL,
			PRIMARY KEY(atom_hash)
		) WITHOUT ROWID;
	`
}

func (d sqliteDialect) createIndexSQL() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_facts_predicate ON facts(predicate);`,
		`CREATE INDEX IF NOT EXISTS idx_facts_subject ON facts(predicate, subject);`,
	}
}

func (d sqliteDialect) addSQL() string {
	// jsonb() stores the args array in SQLite's binary JSON format.
	return `
		INSERT INTO facts (predicate, atom_hash, subject, args)
		VALUES (?, ?, ?, jsonb(?))
		ON CONFLICT DO NOTHING
	`
}

func (d sqliteDialect) removeSQL() string {
	return `DELETE FROM facts WHERE atom_hash = ?`
}

func (d sqliteDialect) containsSQL() string {
	return `SELECT COUNT(*) FROM facts WHERE atom_hash = ?`
}

func (d sqliteDialect) getFactsBaseSQL() string {
	return `SELECT json(args) FROM facts WHERE predicate = ?`
}

func (d sqliteDialect) batchInsertSQL(numRows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO facts (predicate, atom_hash, subject, args) VALUES ")
	for i := 0; i < numRows; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,?,jsonb(?))")
	}
	sb.WriteString(" ON CONFLICT DO NOTHING")
	return sb.String()
}

func (d sqliteDialect) subjectFragment(params *[]any) string {
	return " AND subject = ?"
}

func (d sqliteDialect) argFragment(index int, params *[]any) string {
	// Arguments are always JSON strings, so json_extract yields TEXT that
	// compares directly with the bound parameter.
	return fmt.Sprintf(" AND json_extract(args, '$[%d]') = ?", index)
}

// --- PostgreSQL Dialect ---

type postgresDialect struct{}

func (d postgresDialect) createTableSQL() string {
	return `
		CREATE TABLE IF NOT EXISTS facts (
			predicate TEXT NOT NULL,
			atom_hash BIGINT NOT NULL,
			subject TEXT NOT NULL,
			args JSONB NOT NULL,
			PRIMARY KEY(atom_hash)
		);
	`
}

func (d postgresDialect) createIndexSQL() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_facts_predicate ON facts(predicate);`,
		`CREATE INDEX IF NOT EXISTS idx_facts_subject ON facts(predicate, subject);`,
	}
}

func (d postgresDialect) addSQL() string {
	return `
		INSERT INTO facts (predicate, atom_hash, subject, args)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (atom_hash) DO NOTHING
	`
}

func (d postgresDialect) removeSQL() string {
	return `DELETE FROM facts WHERE atom_hash = $1`
}

func (d postgresDialect) containsSQL() string {
	return `SELECT COUNT(*) FROM facts WHERE atom_hash = $1`
}

func (d postgresDialect) getFactsBaseSQL() string {
	return `SELECT args::text FROM facts WHERE predicate = $1`
}

func (d postgresDialect) batchInsertSQL(numRows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO facts (predicate, atom_hash, subject, args) VALUES ")
	paramIndex := 1
	for i := 0; i < numRows; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf("($%d, $%d, $%d, $%d::jsonb)", paramIndex, paramIndex+1, paramIndex+2, paramIndex+3))
		paramIndex += 4
	}
	sb.WriteString(" ON CONFLICT (atom_hash) DO NOTHING")
	return sb.String()
}

func (d postgresDialect) subjectFragment(params *[]any) string {
	return fmt.Sprintf(" AND subject = $%d", len(*params)+1)
}

func (d postgresDialect) argFragment(index int, params *[]any) string {
	// ->> extracts the array element as text.
	return fmt.Sprintf(" AND (args ->> %d) = $%d", index, len(*params)+1)
}
