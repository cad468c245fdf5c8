// Package sqlite persists the task collection in an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/colonyops/matrix/internal/core/task"
	_ "modernc.org/sqlite"
)

//go:embed schema/schema.sql
var schemaSQL string

// FileName is the database file created inside the data directory.
const FileName = "matrix.db"

const (
	maxRetries  = 5
	initialWait = 100 * time.Millisecond
)

// tableName restricts storage keys to plain identifiers since the key is
// interpolated into DDL.
var tableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// OpenOptions configures the connection pool.
type OpenOptions struct {
	// Key is the storage key; it names the tasks table.
	Key          string
	MaxOpenConns int
	MaxIdleConns int
	// BusyTimeout in milliseconds.
	BusyTimeout int
}

// DefaultOpenOptions returns the options used by the CLI.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		Key:          task.DefaultStorageKey,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5000,
	}
}

// DB wraps a SQL database connection with retry logic.
type DB struct {
	conn  *sql.DB
	path  string
	table string
}

// ValidKey reports whether key can be used as a table name.
func ValidKey(key string) bool {
	return tableName.MatchString(key)
}

// Open creates the database in dataDir and ensures the schema exists.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	if opts.Key == "" {
		opts.Key = task.DefaultStorageKey
	}
	if !ValidKey(opts.Key) {
		return nil, fmt.Errorf("invalid storage key %q: must match %s", opts.Key, tableName)
	}

	dbPath := filepath.Join(dataDir, FileName)

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)", dbPath, opts.BusyTimeout)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)
	conn.SetConnMaxLifetime(0)

	db := &DB{
		conn:  conn,
		path:  dbPath,
		table: opts.Key,
	}

	if err := db.pingWithRetry(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.initSchema(context.Background()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// WithTx executes fn within a transaction, rolling back when fn fails.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// pingWithRetry pings the database, backing off exponentially while it is
// locked by another process. Other errors are returned immediately.
func (db *DB) pingWithRetry(ctx context.Context) error {
	wait := initialWait
	var err error
	for i := range maxRetries {
		err = db.conn.PingContext(ctx)
		if err == nil || !IsBusyError(err) {
			return err
		}

		if i < maxRetries-1 {
			time.Sleep(wait)
			wait *= 2
		}
	}

	return fmt.Errorf("database still busy after %d retries: %w", maxRetries, err)
}

func (db *DB) initSchema(ctx context.Context) error {
	ddl := strings.ReplaceAll(schemaSQL, "{{table}}", db.table)
	if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}
