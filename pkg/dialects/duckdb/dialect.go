// Package duckdb provides the DuckDB SQL dialect definition.
// This package is pure Go with no database driver dependencies,
// making it usable by tools that need dialect information without
// the overhead of database connections.
package duckdb

import (
	"github.com/leapstack-labs/querykit/pkg/dialect"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB is the DuckDB dialect. DuckDB runs in autocommit mode unless a
// transaction is opened explicitly, so COMMIT compiles to a skip.
var DuckDB = dialect.New("duckdb").
	Identifiers(`"`, `"`, `""`, dialect.NormLowercase).
	Autocommit().
	TypeNames(map[string]string{
		"int":       "INTEGER",
		"bigint":    "BIGINT",
		"float":     "DOUBLE",
		"text":      "VARCHAR",
		"bool":      "BOOLEAN",
		"timestamp": "TIMESTAMP",
		"date":      "DATE",
		"json":      "JSON",
	}).
	Build()
