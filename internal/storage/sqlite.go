// Package storage provides the record store adapter for newsbrief.
//
// Articles live in caller-named collections (one table per collection) with
// the columns ID, URL and Summary. SQLite is the default engine; PostgreSQL
// is supported through the same query builder with $n placeholders.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"  // PostgreSQL driver.
	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options controls how a Store selects and writes records.
type Options struct {
	// Driver is DriverSQLite or DriverPostgres. It selects the placeholder
	// format and the DDL dialect.
	Driver string

	// PendingOnly restricts FetchPending to records without a summary.
	PendingOnly bool
}

// Store wraps a SQL database connection and provides typed query methods
// over article collections.
type Store struct {
	db   *sql.DB
	sb   sq.StatementBuilderType
	opts Options
}

// NewStore creates a Store backed by the given database connection.
func NewStore(db *sql.DB, opts Options) *Store {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if opts.Driver == DriverPostgres {
		sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &Store{db: db, sb: sb, opts: opts}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced use cases.
func (s *Store) DB() *sql.DB {
	return s.db
}

// OpenDatabase opens the store at location using the named driver.
//
// For SQLite, location is a file path (or ":memory:"); parent directories
// are created if missing and the connection uses WAL journal mode with a
// 5-second busy timeout. For PostgreSQL, location is a lib/pq connection
// string.
//
// The pool is limited to a single connection: the pipeline uses the store
// one record at a time, and SQLite supports only one concurrent writer.
func OpenDatabase(driver, location string) (*sql.DB, error) {
	var dsn string
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		// For in-memory databases, skip directory creation.
		if location != ":memory:" {
			dir := filepath.Dir(location)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %q: %w", dir, err)
			}
		}
		dsn = location + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	case DriverPostgres:
		dsn = location
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", location, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	// Verify the connection is usable.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %q: %w", location, err)
	}

	slog.Info("opened database", "driver", driver, "location", redactLocation(driver, location))
	return db, nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// tableName validates a collection name for use as an SQL identifier. The
// name is interpolated into statements, so anything but a plain identifier
// is rejected.
func tableName(collection string) (string, error) {
	if !identifierPattern.MatchString(collection) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}
	return collection, nil
}

// redactLocation hides credentials in PostgreSQL connection strings before
// they reach the logs.
func redactLocation(driver, location string) string {
	if driver != DriverPostgres {
		return location
	}
	location = urlPasswordPattern.ReplaceAllString(location, "${1}****@")
	return kvPasswordPattern.ReplaceAllString(location, "password=****")
}

var (
	urlPasswordPattern = regexp.MustCompile(`(://[^:/@]+:)[^@]*@`)
	kvPasswordPattern  = regexp.MustCompile(`password=\S+`)
)
