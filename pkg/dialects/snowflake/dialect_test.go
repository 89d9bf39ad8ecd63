package snowflake

import (
	"testing"

	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := Snowflake

	require.NotNil(t, d)
	assert.Equal(t, "snowflake", d.Name)
	assert.Equal(t, `"`, d.Identifiers.Quote)
	assert.True(t, d.Autocommit)
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("snowflake")
	require.True(t, ok, "snowflake dialect should be registered")
	require.NotNil(t, d)
}

func TestNormalization(t *testing.T) {
	d := Snowflake

	// Snowflake normalizes unquoted identifiers to uppercase.
	assert.Equal(t, "MY_TABLE", d.NormalizeName("my_table"))
}

func TestTypeNames(t *testing.T) {
	d := Snowflake

	assert.Equal(t, "TIMESTAMP_NTZ", d.TypeRepr("timestamp"))
	assert.Equal(t, "VARIANT", d.TypeRepr("json"))
}
