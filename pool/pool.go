package pool

import (
	"context"
	"database/sql"
	"time"
)

// Pool is the connection seam between the gateway and database/sql. The
// migrator never opens connections itself; everything goes through here.
type Pool interface {
	Close() error
	SetMaxOpenConns(n int)
	SetMaxIdleConns(n int)
	SetConnMaxLifetime(d time.Duration)
	Ping() error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StdPool implements Pool on the standard library's *sql.DB.
type StdPool struct {
	*sql.DB
}

// NewStdPool wraps an already-opened *sql.DB.
func NewStdPool(db *sql.DB) *StdPool {
	return &StdPool{db}
}
