package postgres

import (
	"testing"

	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	d := Postgres

	require.NotNil(t, d)
	assert.Equal(t, "postgres", d.Name)
	assert.Equal(t, `"`, d.Identifiers.Quote)
	// Postgres sessions are transactional.
	assert.False(t, d.Autocommit)
}

func TestDialectRegistration(t *testing.T) {
	d, ok := dialect.Get("postgres")
	require.True(t, ok, "postgres dialect should be registered")
	require.NotNil(t, d)
}

func TestDialectHooks(t *testing.T) {
	d := Postgres

	assert.Equal(t, "(x)::varchar", d.ToString("x"))
	assert.Equal(t, "a IS DISTINCT FROM b", d.IsDistinctFrom("a", "b"))
	assert.Equal(t, "DOUBLE PRECISION", d.TypeRepr("float"))
	assert.Equal(t, "JSONB", d.TypeRepr("json"))
}
