package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaOrderAndLookup(t *testing.T) {
	s := NewSchema(
		ColumnDef{Name: "ID", Type: TBigInt},
		ColumnDef{Name: "Name", Type: TText},
		ColumnDef{Name: "age", Type: TInt},
	)

	assert.Equal(t, 3, s.Len())

	// Declaration order is preserved.
	cols := s.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "ID", cols[0].Name)
	assert.Equal(t, "Name", cols[1].Name)
	assert.Equal(t, "age", cols[2].Name)

	// Lookups are case-insensitive and return the stored spelling.
	key, ok := s.Key("id")
	require.True(t, ok)
	assert.Equal(t, "ID", key)

	typ, ok := s.Type("NAME")
	require.True(t, ok)
	assert.Equal(t, TText, typ)

	_, ok = s.Key("missing")
	assert.False(t, ok)
}

func TestCaseSensitiveSchema(t *testing.T) {
	s := NewCaseSensitiveSchema(ColumnDef{Name: "ID", Type: TInt})

	_, ok := s.Key("id")
	assert.False(t, ok)

	key, ok := s.Key("ID")
	require.True(t, ok)
	assert.Equal(t, "ID", key)
}

func TestNilSchema(t *testing.T) {
	var s *Schema
	assert.Equal(t, 0, s.Len())
	_, ok := s.Key("x")
	assert.False(t, ok)
	assert.Nil(t, s.Columns())
}

func TestColumnTypeFromSchema(t *testing.T) {
	users := NewSchemaTable(NewSchema(
		ColumnDef{Name: "ID", Type: TBigInt},
		ColumnDef{Name: "name", Type: TText},
	), "users")

	// Case-insensitive column access canonicalizes the name.
	col := users.Col("id")
	assert.Equal(t, "ID", col.Name)

	typ, err := col.Type()
	require.NoError(t, err)
	assert.Equal(t, TBigInt, typ)
}

func TestColumnTypeWithoutSchema(t *testing.T) {
	users := NewTablePath("users")
	col := users.Col("id")
	assert.Equal(t, "id", col.Name)

	_, err := col.Type()
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
