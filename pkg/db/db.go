// Package db executes compiled query ASTs against database/sql
// backends. It owns the one assembly step the compiler leaves to its
// caller: prefixing the main statement with the WITH clause built from
// the registered CTE definitions.
package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/querykit/pkg/compile"
	"github.com/leapstack-labs/querykit/pkg/dialect"
)

// DB pairs a database handle with the dialect used to compile for it.
type DB struct {
	sqlDB   *sql.DB
	dialect *dialect.Dialect
	logger  *slog.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the statement logger.
func WithLogger(l *slog.Logger) Option {
	return func(db *DB) {
		db.logger = l
	}
}

// Open opens a database/sql handle for the given driver and DSN.
// Registered driver names: "duckdb", "sqlite", "pgx".
func Open(driver, dsn string, d *dialect.Dialect, opts ...Option) (*DB, error) {
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	handle, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return Wrap(handle, d, opts...), nil
}

// Wrap adopts an existing handle, e.g. a mock in tests.
func Wrap(handle *sql.DB, d *dialect.Dialect, opts ...Option) *DB {
	db := &DB{
		sqlDB:   handle,
		dialect: d,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Dialect returns the dialect statements are compiled for.
func (db *DB) Dialect() *dialect.Dialect {
	return db.dialect
}

// Close closes the underlying handle.
func (db *DB) Close() error {
	return db.sqlDB.Close()
}

// Compile compiles a node to its final executable statement, WITH
// prefix included. It returns compile.ErrSkip when the statement
// should not be executed.
func (db *DB) Compile(node any) (string, error) {
	c := compile.New(db.dialect)
	main, err := c.Compile(node)
	if err != nil {
		return "", err
	}
	return AssembleWith(main, c.Subqueries()), nil
}

// AssembleWith prefixes a compiled statement with its CTE definitions.
func AssembleWith(main string, ctes []compile.CTE) string {
	if len(ctes) == 0 {
		return main
	}
	var sb strings.Builder
	sb.WriteString("WITH ")
	for i, cte := range ctes {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(cte.Name)
		sb.WriteString(" AS (")
		sb.WriteString(cte.SQL)
		sb.WriteString(")")
	}
	sb.WriteString(" ")
	sb.WriteString(main)
	return sb.String()
}

// QueryContext compiles and runs a query node, returning its rows.
func (db *DB) QueryContext(ctx context.Context, node any) (*sql.Rows, error) {
	stmt, err := db.Compile(node)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("querying", "dialect", db.dialect.Name, "sql", stmt)
	return db.sqlDB.QueryContext(ctx, stmt)
}

// ExecContext compiles and runs a statement node. Statements that
// compile to a skip succeed without touching the database.
func (db *DB) ExecContext(ctx context.Context, node any) error {
	stmt, err := db.Compile(node)
	if errors.Is(err, compile.ErrSkip) {
		db.logger.Debug("skipping statement", "dialect", db.dialect.Name)
		return nil
	}
	if err != nil {
		return err
	}
	db.logger.Debug("executing", "dialect", db.dialect.Name, "sql", stmt)
	_, err = db.sqlDB.ExecContext(ctx, stmt)
	return err
}
