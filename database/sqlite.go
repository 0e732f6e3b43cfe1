package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"nfl-dynasty-go/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds SQLite connection configuration
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DB wraps the SQLite handle used by all repositories. The engine is a
// single-writer system; WAL mode keeps readers unblocked during the
// per-day write transaction.
type DB struct {
	*sql.DB
	path   string
	logger *logging.Logger
}

// NewSQLiteConnection opens (and creates if needed) the dynasty database
// with WAL journaling, NORMAL synchronous, and foreign keys enforced.
func NewSQLiteConnection(config Config) (*DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = 5 * time.Second
	}

	logger := logging.WithPrefix("sqlite")

	dsn := fmt.Sprintf("file:%s?%s", config.Path, url.Values{
		"_journal_mode": {"WAL"},
		"_synchronous":  {"NORMAL"},
		"_foreign_keys": {"on"},
		"_busy_timeout": {fmt.Sprintf("%d", config.BusyTimeout.Milliseconds())},
	}.Encode())

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Path, err)
	}

	// One writer at a time; extra pooled connections only serve reads.
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", config.Path, err)
	}

	logger.Infof("Connected to SQLite database at %s", config.Path)

	return &DB{DB: sqlDB, path: config.Path, logger: logger}, nil
}

// Path returns the filesystem path of the database
func (db *DB) Path() string {
	return db.path
}

// TestConnection verifies the database responds to a trivial query
func (db *DB) TestConnection() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var one int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("database test query failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (db *DB) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}
