package ricograph

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// NewFactStorePostgreSQL creates a PostgreSQL-backed fact store from a
// standard connection string. Existing rows are kept; call Reset to start a
// conversion from an empty graph.
func NewFactStorePostgreSQL(connStr string) (*FactStoreDB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	store, err := NewFactStorePostgreSQLFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	return store, nil
}

// NewFactStorePostgreSQLFromDB creates a PostgreSQL-backed fact store from an
// existing connection. The caller retains ownership of db.
func NewFactStorePostgreSQLFromDB(db *sql.DB) (*FactStoreDB, error) {
	store := &FactStoreDB{
		db:      db,
		ownsDB:  false,
		dialect: postgresDialect{},
	}
	if err := store.initSchemaAndStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema for PostgreSQL: %w", err)
	}
	return store, nil
}
