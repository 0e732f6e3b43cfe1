package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"nfl-dynasty-go/logging"

	"github.com/google/uuid"
)

// TxMode selects the SQLite transaction locking behavior
type TxMode string

const (
	// TxDeferred takes no lock until the first read or write; the
	// read-heavy default.
	TxDeferred TxMode = "DEFERRED"
	// TxImmediate takes the write lock up front; the default for
	// write-heavy work such as the per-day simulation commit.
	TxImmediate TxMode = "IMMEDIATE"
	// TxExclusive blocks all other connections; reserved for destructive
	// operations such as playoff reset.
	TxExclusive TxMode = "EXCLUSIVE"
)

// IsValid reports whether the mode is one of the three SQLite modes
func (m TxMode) IsValid() bool {
	switch m {
	case TxDeferred, TxImmediate, TxExclusive:
		return true
	}
	return false
}

type txState int

const (
	txInactive txState = iota
	txActive
	txCommitted
	txRolledBack
)

func (s txState) String() string {
	switch s {
	case txInactive:
		return "INACTIVE"
	case txActive:
		return "ACTIVE"
	case txCommitted:
		return "COMMITTED"
	case txRolledBack:
		return "ROLLED_BACK"
	default:
		return "UNKNOWN"
	}
}

// Transaction context errors
var (
	ErrInvalidTxMode = errors.New("invalid transaction mode")
	ErrNilConnection = errors.New("transaction requires a connection")
	ErrTxNotActive   = errors.New("transaction is not active")
)

// rootRegistry tracks the active root transaction per connection so a
// second scope opened on the same connection nests as a savepoint.
var (
	rootMu    sync.Mutex
	rootByConn = make(map[*sql.Conn]*TxContext)
)

// TxContext is a scoped multi-statement transaction. Lifecycle:
// INACTIVE -> ACTIVE -> (COMMITTED | ROLLED_BACK). When a transaction is
// already open on the connection, Begin creates a uniquely named
// savepoint instead of a second BEGIN.
type TxContext struct {
	conn      *sql.Conn
	mode      TxMode
	state     txState
	savepoint string // non-empty when nested
	logger    *logging.Logger
}

// NewTxContext creates an inactive transaction context
func NewTxContext(conn *sql.Conn, mode TxMode) (*TxContext, error) {
	if conn == nil {
		return nil, ErrNilConnection
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTxMode, mode)
	}
	return &TxContext{
		conn:   conn,
		mode:   mode,
		logger: logging.WithPrefix("tx"),
	}, nil
}

// Begin opens the transaction, or a savepoint when one is already open
// on the connection
func (t *TxContext) Begin(ctx context.Context) error {
	if t.state != txInactive {
		return fmt.Errorf("%w: cannot begin from state %s", ErrTxNotActive, t.state)
	}

	rootMu.Lock()
	root, nested := rootByConn[t.conn]
	if nested && root.state != txActive {
		nested = false
	}
	if !nested {
		rootByConn[t.conn] = t
	}
	rootMu.Unlock()

	if nested {
		t.savepoint = "sp_" + strings.ReplaceAll(uuid.NewString(), "-", "")
		if _, err := t.conn.ExecContext(ctx, "SAVEPOINT "+t.savepoint); err != nil {
			return fmt.Errorf("failed to create savepoint %s: %w", t.savepoint, err)
		}
		t.logger.Debugf("Created savepoint %s", t.savepoint)
	} else {
		if _, err := t.conn.ExecContext(ctx, "BEGIN "+string(t.mode)); err != nil {
			t.unregister()
			return fmt.Errorf("failed to begin %s transaction: %w", t.mode, err)
		}
		t.logger.Debugf("Began %s transaction", t.mode)
	}

	t.state = txActive
	return nil
}

// IsActive reports whether the transaction can still accept statements
func (t *TxContext) IsActive() bool {
	return t.state == txActive
}

// IsNested reports whether this context is a savepoint inside an outer
// transaction
func (t *TxContext) IsNested() bool {
	return t.savepoint != ""
}

// Commit makes the transaction's writes durable. Calling Commit on an
// already committed context is a no-op.
func (t *TxContext) Commit(ctx context.Context) error {
	switch t.state {
	case txCommitted:
		return nil
	case txRolledBack:
		return fmt.Errorf("%w: already rolled back", ErrTxNotActive)
	case txInactive:
		return fmt.Errorf("%w: never began", ErrTxNotActive)
	}

	var err error
	if t.IsNested() {
		_, err = t.conn.ExecContext(ctx, "RELEASE SAVEPOINT "+t.savepoint)
	} else {
		_, err = t.conn.ExecContext(ctx, "COMMIT")
	}
	if err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}

	t.state = txCommitted
	t.unregister()
	return nil
}

// Rollback discards the transaction's writes. Calling Rollback on an
// already rolled-back context is a no-op.
func (t *TxContext) Rollback(ctx context.Context) error {
	switch t.state {
	case txRolledBack:
		return nil
	case txCommitted:
		return fmt.Errorf("%w: already committed", ErrTxNotActive)
	case txInactive:
		return fmt.Errorf("%w: never began", ErrTxNotActive)
	}

	var err error
	if t.IsNested() {
		_, err = t.conn.ExecContext(ctx,
			fmt.Sprintf("ROLLBACK TO SAVEPOINT %s; RELEASE SAVEPOINT %s", t.savepoint, t.savepoint))
	} else {
		_, err = t.conn.ExecContext(ctx, "ROLLBACK")
	}
	if err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	t.state = txRolledBack
	t.unregister()
	return nil
}

func (t *TxContext) unregister() {
	if t.IsNested() {
		return
	}
	rootMu.Lock()
	if rootByConn[t.conn] == t {
		delete(rootByConn, t.conn)
	}
	rootMu.Unlock()
}

// ExecContext runs a statement inside the transaction
func (t *TxContext) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if t.state != txActive {
		return nil, fmt.Errorf("%w: state is %s", ErrTxNotActive, t.state)
	}
	return t.conn.ExecContext(ctx, query, args...)
}

// QueryContext runs a query inside the transaction
func (t *TxContext) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	if t.state != txActive {
		return nil, fmt.Errorf("%w: state is %s", ErrTxNotActive, t.state)
	}
	return t.conn.QueryContext(ctx, query, args...)
}

// QueryRowContext runs a single-row query inside the transaction
func (t *TxContext) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return t.conn.QueryRowContext(ctx, query, args...)
}

var _ Executor = (*TxContext)(nil)

// WithTransaction runs fn inside a scoped transaction. On a nil error
// from fn the transaction is committed if still active (fn may have
// committed or rolled back explicitly); on an error it is rolled back and
// the original error is returned. A rollback failure after a commit
// failure is logged, not returned.
func WithTransaction(ctx context.Context, conn *sql.Conn, mode TxMode, fn func(tx *TxContext) error) error {
	tx, err := NewTxContext(conn, mode)
	if err != nil {
		return err
	}
	if err := tx.Begin(ctx); err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if tx.IsActive() {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				tx.logger.Errorf("Rollback after error failed: %v (original error: %v)", rbErr, err)
			}
		}
		return err
	}

	if !tx.IsActive() {
		return nil
	}
	if err := tx.Commit(ctx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			tx.logger.Errorf("Rollback after failed commit also failed: %v", rbErr)
		}
		return err
	}
	return nil
}
