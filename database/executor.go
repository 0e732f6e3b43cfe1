package database

import (
	"context"
	"database/sql"
)

// Executor abstracts over *sql.DB, *sql.Conn, and *TxContext so every
// repository method can participate in a caller-owned transaction. A nil
// Executor passed to a repository means "use the repository's own pool".
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	_ Executor = (*sql.DB)(nil)
	_ Executor = (*sql.Conn)(nil)
)
