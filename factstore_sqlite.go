package ricograph

import (
	"database/sql"
	"fmt"
	"sort"

	_ "modernc.org/sqlite" // SQLite driver
)

// config holds configuration options for the SQLite-backed store.
type config struct {
	pragmas map[string]string
}

// StoreOption is a function that configures a FactStoreDB.
type StoreOption func(*config)

// WithPragma sets a specific SQLite PRAGMA statement.
// For example: WithPragma("synchronous", "NORMAL").
// This will override any default value for the given PRAGMA key.
func WithPragma(key, value string) StoreOption {
	return func(c *config) {
		if c.pragmas == nil {
			c.pragmas = make(map[string]string)
		}
		c.pragmas[key] = value
	}
}

// defaultConfig tunes SQLite for a single bulk writer: a conversion run
// rebuilds the graph from scratch, so durability is traded for speed.
func defaultConfig() *config {
	return &config{
		pragmas: map[string]string{
			"journal_mode": "WAL",
			"synchronous":  "OFF",
			"cache_size":   "-64000",
			"temp_store":   "MEMORY",
			"busy_timeout": "5000",
		},
	}
}

// NewFactStoreSQLite opens (or creates) a SQLite-backed fact store.
// Pass ":memory:" for dbPath to create an in-memory database.
func NewFactStoreSQLite(dbPath string, opts ...StoreOption) (*FactStoreDB, error) {
	// Each in-memory store gets its own shared-cache database so connections
	// from the pool see the same data while stores stay isolated.
	if dbPath == ":memory:" {
		id := inMemoryDBCounter.Add(1)
		dbPath = fmt.Sprintf("file:ricograph_%d?mode=memory&cache=shared", id)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Sorted keys give a deterministic execution order.
	keys := make([]string, 0, len(cfg.pragmas))
	for k := range cfg.pragmas {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		pragmaSQL := fmt.Sprintf("PRAGMA %s=%s", key, cfg.pragmas[key])
		if _, err := db.Exec(pragmaSQL); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragmaSQL, err)
		}
	}

	store, err := NewFactStoreSQLiteFromDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	store.ownsDB = true
	return store, nil
}

// NewFactStoreSQLiteFromDB creates a fact store on an existing SQLite
// connection. The caller keeps ownership of db and must close it.
func NewFactStoreSQLiteFromDB(db *sql.DB) (*FactStoreDB, error) {
	store := &FactStoreDB{
		db:      db,
		ownsDB:  false,
		dialect: sqliteDialect{},
	}
	if err := store.initSchemaAndStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}
