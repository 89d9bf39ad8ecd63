package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorSurface(t *testing.T) {
	col := NewColumn(NewTablePath("t"), "x")

	add := col.Add(1)
	assert.Equal(t, "+", add.Op)
	require.Len(t, add.Args, 2)

	gt := col.Gt(5)
	assert.Equal(t, ">", gt.Op)

	or := gt.Or(col.Lt(0))
	assert.Equal(t, "OR", or.Op)

	sum := col.Sum()
	assert.Equal(t, "SUM", sum.Name)

	cast := col.CastTo(TText)
	assert.Equal(t, TText, cast.To)
}

func TestEqAgainstNullEmitsIs(t *testing.T) {
	col := NewColumn(NewTablePath("t"), "x")

	isNull := col.Eq(nil)
	assert.Equal(t, "IS", isNull.Op)

	eq := col.Eq(0)
	assert.Equal(t, "=", eq.Op)
}

func TestBinOpArityInvariant(t *testing.T) {
	bad := NewBinOp("+", Value(1))
	var exprErr *ExprError
	require.ErrorAs(t, bad.Err(), &exprErr)

	good := NewBinOp("+", Value(1), Value(2))
	require.NoError(t, good.Err())
}

func TestValueNormalization(t *testing.T) {
	assert.IsType(t, &Literal{}, Value("s"))
	assert.IsType(t, &Literal{}, Value(42))
	assert.IsType(t, &Literal{}, Value(true))
	assert.IsType(t, &Literal{}, Value(nil))
	assert.IsType(t, &Literal{}, Value(time.Now()))

	// Expressions pass through untouched.
	col := NewColumn(NewTablePath("t"), "x")
	assert.Same(t, Expr(col), Value(col))

	lit := Value(int32(7)).(*Literal)
	assert.Equal(t, int64(7), lit.Val)

	bad := NewLiteral(struct{}{})
	var exprErr *ExprError
	require.ErrorAs(t, bad.Err(), &exprErr)
}

func TestCaseWhenTypeInvariant(t *testing.T) {
	col := NewColumn(NewTablePath("t"), "x")

	uniform := NewCaseWhenElse("neg",
		When{Cond: col.Gt(0), Then: Value("pos")},
		When{Cond: col.Eq(0), Then: Value("zero")},
	)
	typ, err := uniform.Type()
	require.NoError(t, err)
	assert.Equal(t, TText, typ)

	mixed := NewCaseWhen(
		When{Cond: col.Gt(0), Then: Value("pos")},
		When{Cond: col.Eq(0), Then: Value(0)},
	)
	_, err = mixed.Type()
	var typeErr *TypeError
	require.ErrorAs(t, err, &typeErr)

	mixedElse := NewCaseWhenElse(0,
		When{Cond: col.Gt(0), Then: Value("pos")},
	)
	_, err = mixedElse.Type()
	require.ErrorAs(t, err, &typeErr)

	empty := NewCaseWhen()
	require.ErrorAs(t, empty.Err(), new(*ExprError))
}

func TestTypeOfPropagation(t *testing.T) {
	users := NewSchemaTable(NewSchema(ColumnDef{Name: "age", Type: TInt}), "users")
	col := users.Col("age")

	typ, err := TypeOf(col)
	require.NoError(t, err)
	assert.Equal(t, TInt, typ)

	typ, err = TypeOf(As(col, "years"))
	require.NoError(t, err)
	assert.Equal(t, TInt, typ)

	typ, err = TypeOf(col.Gt(1))
	require.NoError(t, err)
	assert.Equal(t, TBool, typ)

	typ, err = TypeOf(col.IsDistinctFrom(2))
	require.NoError(t, err)
	assert.Equal(t, TBool, typ)

	typ, err = TypeOf(col.CastTo(TText))
	require.NoError(t, err)
	assert.Equal(t, TText, typ)

	// Unresolved placeholders have no type yet.
	_, err = TypeOf(This("age"))
	require.Error(t, err)
}

func TestSkipIdentity(t *testing.T) {
	assert.True(t, IsSkip(Skip))
	assert.False(t, IsSkip(Value("SKIP")))
	assert.False(t, IsSkip(nil))
}
