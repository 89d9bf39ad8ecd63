package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhereBuildsSelect(t *testing.T) {
	users := NewTablePath("db", "users")
	filtered := users.Where(This("age").Gt(18))

	s, ok := filtered.(*Select)
	require.True(t, ok)
	assert.Same(t, users, s.From.(*TablePath))
	require.Len(t, s.WhereExprs, 1)
	assert.Nil(t, s.Columns)
}

func TestWhereConcatenates(t *testing.T) {
	users := NewTablePath("users")
	e1 := This("a").Gt(1)
	e2 := This("b").Gt(2)

	chained := users.Where(e1).Where(e2)
	combined := users.Where(e1, e2)

	sc, ok := chained.(*Select)
	require.True(t, ok)
	sb, ok := combined.(*Select)
	require.True(t, ok)
	require.Len(t, sc.WhereExprs, 2)
	require.Len(t, sb.WhereExprs, 2)
}

func TestWhereSkipIsNoOp(t *testing.T) {
	users := NewTablePath("users")
	assert.Same(t, Table(users), users.Where(Skip))
	assert.Same(t, Table(users), users.Where())
}

func TestLimitSkipIsNoOp(t *testing.T) {
	users := NewTablePath("users")
	assert.Same(t, Table(users), users.Limit(Skip))
}

func TestSelectFiltersSkips(t *testing.T) {
	users := NewTablePath("users")
	s, ok := users.Select(Skip, This("name"), Skip).(*Select)
	require.True(t, ok)
	require.Len(t, s.Columns, 1)
}

func TestSecondSelectConflicts(t *testing.T) {
	users := NewTablePath("users")
	twice := users.Select(This("a")).Select(This("b"))

	var conflict *MergeConflictError
	require.ErrorAs(t, twice.Err(), &conflict)
	assert.Equal(t, "columns", conflict.Attr)
}

func TestSecondLimitConflicts(t *testing.T) {
	users := NewTablePath("users")
	twice := users.Limit(10).Limit(20)

	var conflict *MergeConflictError
	require.ErrorAs(t, twice.Err(), &conflict)
	assert.Equal(t, "limit", conflict.Attr)
}

func TestMakeSelectFillsUnsetClauses(t *testing.T) {
	users := NewTablePath("users")
	base, err := MakeSelect(users, Patch{WhereExprs: []Expr{This("a").Gt(1)}})
	require.NoError(t, err)

	// Unset attribute: plain overwrite.
	withCols, err := MakeSelect(base, Patch{Columns: []Expr{NewColumn(users, "a")}})
	require.NoError(t, err)
	assert.Len(t, withCols.Columns, 1)
	assert.Len(t, withCols.WhereExprs, 1)

	// Set attribute without Concat: conflict.
	_, err = MakeSelect(base, Patch{WhereExprs: []Expr{This("b").Gt(2)}})
	var conflict *MergeConflictError
	require.ErrorAs(t, err, &conflict)

	// Set attribute with Concat: append.
	appended, err := MakeSelect(base, Patch{WhereExprs: []Expr{This("b").Gt(2)}, Concat: true})
	require.NoError(t, err)
	assert.Len(t, appended.WhereExprs, 2)
}

func TestMakeSelectDoesNotMutate(t *testing.T) {
	users := NewTablePath("users")
	base, err := MakeSelect(users, Patch{WhereExprs: []Expr{This("a").Gt(1)}})
	require.NoError(t, err)

	_, err = MakeSelect(base, Patch{WhereExprs: []Expr{This("b").Gt(2)}, Concat: true})
	require.NoError(t, err)
	assert.Len(t, base.WhereExprs, 1)
}

func TestOrderByConflicts(t *testing.T) {
	users := NewTablePath("users")
	twice := users.OrderBy(This("a")).OrderBy(This("b"))

	var conflict *MergeConflictError
	require.ErrorAs(t, twice.Err(), &conflict)
}

func TestCountRows(t *testing.T) {
	users := NewTablePath("users")
	s := users.CountRows()
	require.Len(t, s.Columns, 1)
	_, ok := s.Columns[0].(*Count)
	assert.True(t, ok)
}

func TestJoinOnAppends(t *testing.T) {
	users := NewTablePath("users")
	orders := NewTablePath("orders")

	j := users.Join(orders)
	require.Len(t, j.Sources, 2)

	j2 := j.On(users.Col("id").Eq(orders.Col("user_id")))
	assert.Empty(t, j.OnExprs, "On returns a new join")
	require.Len(t, j2.OnExprs, 1)

	j3 := j2.On(users.Col("active").Eq(true))
	require.Len(t, j3.OnExprs, 2)

	assert.Same(t, j2, j2.On(Skip))
}

func TestJoinSelectRecordsProjection(t *testing.T) {
	users := NewTablePath("users")
	orders := NewTablePath("orders")

	j := users.Join(orders)
	projected := j.Select(users.Col("name"))

	pj, ok := projected.(*Join)
	require.True(t, ok)
	require.Len(t, pj.Columns, 1)

	// A second select falls through to the generic path and builds a
	// Select over the join.
	outer := pj.Select(users.Col("name"))
	_, ok = outer.(*Select)
	assert.True(t, ok)
}

func TestJoinDerivedSchemaRequiresNames(t *testing.T) {
	users := NewSchemaTable(NewSchema(ColumnDef{Name: "id", Type: TBigInt}), "users")
	orders := NewTablePath("orders")

	named := users.Join(orders).Select(users.Col("id")).(*Join)
	s, err := named.DerivedSchema()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	bare := users.Join(orders).Select(users.Col("id").Add(1)).(*Join)
	_, err = bare.DerivedSchema()
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
}

func TestUnionWidthInvariant(t *testing.T) {
	a := NewSchemaTable(NewSchema(
		ColumnDef{Name: "id", Type: TBigInt},
		ColumnDef{Name: "name", Type: TText},
	), "a")
	b := NewSchemaTable(NewSchema(ColumnDef{Name: "id", Type: TBigInt}), "b")
	c := NewSchemaTable(NewSchema(
		ColumnDef{Name: "uid", Type: TBigInt},
		ColumnDef{Name: "label", Type: TText},
	), "c")

	bad := a.Union(b)
	var schemaErr *SchemaError
	require.ErrorAs(t, bad.Err(), &schemaErr)

	good := a.Union(c)
	require.NoError(t, good.Err())
	// The union's schema is the left schema.
	key, ok := good.SchemaOf().Key("name")
	require.True(t, ok)
	assert.Equal(t, "name", key)
}

func TestReservedSurfaces(t *testing.T) {
	users := NewTablePath("users")

	for _, tbl := range []Table{
		users.GroupBy(This("a")),
		users.At(This("v")),
		users.WithSchema(),
	} {
		var notImpl *NotImplementedError
		require.ErrorAs(t, tbl.Err(), &notImpl)
	}

	// At with nothing to apply is a no-op, like the other verbs.
	assert.Same(t, Table(users), users.At(Skip))

	var notImpl *NotImplementedError
	stmt := users.InsertValues([]any{1, "x"})
	f, ok := stmt.(interface{ Err() error })
	require.True(t, ok)
	require.ErrorAs(t, f.Err(), &notImpl)
}

func TestSourceTableIdentity(t *testing.T) {
	users := NewTablePath("users")
	s := users.Where(This("a").Gt(1)).(*Select)
	j := users.Join(NewTablePath("orders"))
	u := users.Union(NewTablePath("archived"))
	alias := NewTableAlias(users, "u")
	cte := NewCte(s)

	assert.Same(t, Table(users), users.SourceTable())
	assert.Same(t, Table(s), s.SourceTable())
	assert.Same(t, Table(j), j.SourceTable())
	assert.Same(t, Table(u), u.SourceTable())
	assert.Same(t, Table(users), alias.SourceTable())
	assert.Same(t, Table(s), cte.SourceTable())
}

func TestSelectSchemaDerivation(t *testing.T) {
	users := NewSchemaTable(NewSchema(
		ColumnDef{Name: "id", Type: TBigInt},
		ColumnDef{Name: "name", Type: TText},
	), "users")

	// SELECT * keeps the source schema.
	all := users.Where(This("id").Gt(0)).(*Select)
	assert.Equal(t, 2, all.SchemaOf().Len())

	// A named projection narrows it.
	named := users.Select(users.Col("name")).(*Select)
	require.Equal(t, 1, named.SchemaOf().Len())
	typ, ok := named.SchemaOf().Type("name")
	require.True(t, ok)
	assert.Equal(t, TText, typ)
}
