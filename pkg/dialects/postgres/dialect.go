// Package postgres provides the PostgreSQL SQL dialect definition.
package postgres

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/dialect"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect. Sessions are transactional, so
// COMMIT compiles to a real statement.
var Postgres = dialect.New("postgres").
	Identifiers(`"`, `"`, `""`, dialect.NormLowercase).
	ToString(func(expr string) string {
		return fmt.Sprintf("(%s)::varchar", expr)
	}).
	TypeNames(map[string]string{
		"int":       "INTEGER",
		"bigint":    "BIGINT",
		"float":     "DOUBLE PRECISION",
		"text":      "TEXT",
		"bool":      "BOOLEAN",
		"timestamp": "TIMESTAMP",
		"date":      "DATE",
		"json":      "JSONB",
	}).
	Build()
