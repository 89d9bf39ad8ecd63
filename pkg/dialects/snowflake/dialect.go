// Package snowflake provides the Snowflake SQL dialect definition.
package snowflake

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/dialect"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake is the Snowflake dialect. Unquoted identifiers normalize to
// uppercase; sessions autocommit by default.
var Snowflake = dialect.New("snowflake").
	Identifiers(`"`, `"`, `""`, dialect.NormUppercase).
	Autocommit().
	ToString(func(expr string) string {
		return fmt.Sprintf("(%s)::varchar", expr)
	}).
	TypeNames(map[string]string{
		"int":       "INTEGER",
		"bigint":    "BIGINT",
		"float":     "FLOAT",
		"text":      "VARCHAR",
		"bool":      "BOOLEAN",
		"timestamp": "TIMESTAMP_NTZ",
		"date":      "DATE",
		"json":      "VARIANT",
	}).
	Build()
