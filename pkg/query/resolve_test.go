package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceholderResolution(t *testing.T) {
	users := NewSchemaTable(NewSchema(
		ColumnDef{Name: "Age", Type: TInt},
	), "users")

	placeholder := This("age")
	filtered := users.Where(placeholder.Gt(18))
	require.NoError(t, filtered.(*Select).Err())

	resolved := placeholder.Resolved()
	require.NotNil(t, resolved)
	col, ok := resolved.(*Column)
	require.True(t, ok)
	// Canonicalized through the schema.
	assert.Equal(t, "Age", col.Name)
	assert.Same(t, Table(users), col.Source)
}

func TestThisCols(t *testing.T) {
	exprs := ThisCols("a", "b")
	require.Len(t, exprs, 2)
	assert.Equal(t, "a", exprs[0].(*ResolveColumn).Name)
	assert.Equal(t, "b", exprs[1].(*ResolveColumn).Name)
}

func TestResolutionDescendsParameters(t *testing.T) {
	users := NewTablePath("users")

	// The placeholder is nested under an alias, a case branch and an
	// operator; DFS must reach it.
	nested := As(NewCaseWhenElse("n", When{Cond: This("flag").Eq(true), Then: Value("y")}), "tag")
	users.Select(nested)

	rc := nested.Expr.(*CaseWhen).Cases[0].Cond.(*BinBoolOp).Args[0].(*ResolveColumn)
	require.NotNil(t, rc.Resolved())
}

func TestResolutionDoesNotCrossSourceTables(t *testing.T) {
	users := NewTablePath("users")
	orders := NewTablePath("orders")

	// A column of another table keeps its own placeholder untouched:
	// resolution never descends into a column's source table.
	foreign := This("total")
	// Bypass the builder so the placeholder inside orders stays unresolved.
	ordersProjected := NewSelect(orders, foreign)

	cond := NewColumn(ordersProjected, "total").Gt(0)
	users.Where(cond)

	assert.Nil(t, foreign.Resolved())

	// The column kept its original source.
	col := cond.Args[0].(*Column)
	assert.Same(t, Table(ordersProjected), col.Source)
}

func TestDoubleResolveFails(t *testing.T) {
	users := NewTablePath("users")
	rc := This("a")
	require.NoError(t, rc.Resolve(users.Col("a")))

	err := rc.Resolve(users.Col("a"))
	var already *AlreadyResolvedError
	require.ErrorAs(t, err, &already)
}

func TestResolvedPlaceholderIsLeftAlone(t *testing.T) {
	users := NewTablePath("users")
	orders := NewTablePath("orders")

	rc := This("age")
	users.Where(rc.Gt(18))
	first := rc.Resolved()
	require.NotNil(t, first)

	// Reusing the expression against another table must not rebind.
	orders.Where(rc.Gt(18))
	assert.Same(t, first, rc.Resolved())
}
