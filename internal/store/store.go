package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fcrepo4-labs/fcrepo-transform/internal/transform"
)

//go:embed schema.sql
var schemaSQL string

// ConfigFolder is the repository path the builtin program set lives under.
const ConfigFolder = "/fedora:system/fedora:transform"

// programFile is the leaf holding a program body.
const programFile = "ldpath_program.txt"

// ProgramSource is one stored program: the text of a transform plus the
// media type that selects its interpreter.
type ProgramSource struct {
	Name      string
	Path      string
	MediaType string
	Body      string
}

// Store provides durable storage for named transform programs.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db    *sql.DB
	seeds []ProgramSource

	bootstrapMu sync.Mutex
	seeded      bool
}

// Open creates or opens a SQLite database at the given path and loads
// the embedded seed manifest. The builtin programs are not written until
// the first resolve; opening only validates them.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, transform.NewStoreError("open database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, transform.NewStoreError("connect to database", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, transform.NewStoreError("apply pragmas", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, transform.NewStoreError("apply schema", err)
	}

	seeds, err := loadSeeds()
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seeds: seeds}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}

	return nil
}

// programPath builds the repository path a named program is stored under.
func programPath(name string) string {
	return ConfigFolder + "/" + name + "/" + programFile
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
