package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/okulov/accrete/dialect"
	"github.com/okulov/accrete/logger"
	"github.com/okulov/accrete/pool"
	"github.com/okulov/accrete/schema"
)

// Options defines the configuration for the DB connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Gateway is the single database capability the migrator consumes: execute
// a statement, get rows back when it produces any. *DB is the production
// implementation; tests may supply their own.
type Gateway interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Dialect() dialect.Dialect
}

// DB is the connection gateway. It owns the pool, the dialect matching the
// driver, and a logger recording every issued statement.
type DB struct {
	pool    pool.Pool
	dialect dialect.Dialect
	logger  logger.Logger
}

// Open initializes a new DB instance with the given driver and DSN.
func Open(driver, dsn string, opts *Options) (*DB, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %s", driver)
	}

	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	p := pool.NewStdPool(sqlDB)

	if opts != nil {
		if opts.MaxOpenConns > 0 {
			p.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			p.SetMaxIdleConns(opts.MaxIdleConns)
		}
		if opts.ConnMaxLifetime > 0 {
			p.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	if err := p.Ping(); err != nil {
		return nil, err
	}

	return &DB{
		pool:    p,
		dialect: d,
		logger:  logger.NewStdLogger(),
	}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.pool.Close()
}

// SetLogger sets a custom logger for the DB.
func (db *DB) SetLogger(l logger.Logger) {
	db.logger = l
}

// Dialect returns the dialect matching the driver the DB was opened with.
func (db *DB) Dialect() dialect.Dialect {
	return db.dialect
}

func (db *DB) logSQL(sql string, duration time.Duration, args ...any) {
	if db.logger != nil {
		db.logger.SQL(sql, duration, args...)
	}
}

// ExecContext executes a statement without returning rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := db.pool.ExecContext(ctx, query, args...)
	db.logSQL(query, time.Since(start), args...)
	return res, err
}

// QueryContext executes a statement returning rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.pool.QueryContext(ctx, query, args...)
	db.logSQL(query, time.Since(start), args...)
	return rows, err
}

// Exec executes a raw SQL statement without returning any rows.
func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.ExecContext(context.Background(), query, args...)
}

// Query executes a raw SQL statement returning rows.
func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(context.Background(), query, args...)
}

// AutoMigrate converges the live tables with the given schemas.
func (db *DB) AutoMigrate(schemas ...*schema.Schema) error {
	return NewMigrator(db).Apply(context.Background(), schemas...)
}

// Insert writes one record. The auto-increment primary key and nil values
// are omitted so column defaults apply. This is the one write path the
// gateway offers; everything richer is out of scope.
func (db *DB) Insert(r *schema.Record) (sql.Result, error) {
	var columns []string
	var args []any
	for _, f := range r.Schema.Fields {
		if f.PrimaryKey {
			continue
		}
		v := r.Get(f.Name)
		if v == nil {
			continue
		}
		columns = append(columns, f.Name)
		args = append(args, v)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s: record has no values to insert", r.Schema.Table)
	}
	query, _ := db.dialect.InsertSQL(r.Schema.Table, columns)
	res, err := db.Exec(query, args...)
	if err != nil {
		return nil, &ExecutionError{Table: r.Schema.Table, Statement: query, Err: err}
	}
	return res, nil
}
