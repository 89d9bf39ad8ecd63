// Package mysql provides the MySQL SQL dialect definition.
package mysql

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/dialect"
)

func init() {
	dialect.Register(MySQL)
}

// MySQL is the MySQL dialect. MySQL has no IS DISTINCT FROM; the null-safe
// equality operator <=> is negated instead. Identifier case is preserved
// because table names are case-sensitive on most MySQL deployments.
var MySQL = dialect.New("mysql").
	Identifiers("`", "`", "``", dialect.NormCaseSensitive).
	Autocommit().
	ToString(func(expr string) string {
		return fmt.Sprintf("CAST(%s AS char)", expr)
	}).
	IsDistinctFrom(func(a, b string) string {
		return fmt.Sprintf("NOT (%s <=> %s)", a, b)
	}).
	Random(func() string {
		return "rand()"
	}).
	TypeNames(map[string]string{
		"int":       "INT",
		"bigint":    "BIGINT",
		"float":     "DOUBLE",
		"text":      "TEXT",
		"bool":      "BOOLEAN",
		"timestamp": "DATETIME",
		"date":      "DATE",
		"json":      "JSON",
	}).
	Build()
