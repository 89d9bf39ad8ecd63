package query

import (
	"fmt"
	"time"
)

// ---------- Literals ----------

// Literal is a constant value: string, bool, integer, float, time, or
// NULL when Val is nil.
type Literal struct {
	lazyOps
	Val any
}

func (*Literal) exprNode() {}

// NewLiteral builds a literal node from a raw Go value.
func NewLiteral(v any) *Literal {
	l := &Literal{Val: normalizeLiteral(v)}
	l.bindExpr(l)
	if !literalSupported(l.Val) {
		l.err = &ExprError{Message: fmt.Sprintf("unsupported literal type %T", v)}
	}
	return l
}

// Null is a NULL literal.
func Null() *Literal {
	return NewLiteral(nil)
}

// Value normalizes v into an expression: expressions pass through,
// anything else becomes a literal.
func Value(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return NewLiteral(v)
}

func normalizeLiteral(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case uint:
		return int64(x)
	case uint32:
		return int64(x)
	case float32:
		return float64(x)
	}
	return v
}

func literalSupported(v any) bool {
	switch v.(type) {
	case nil, string, bool, int64, uint64, float64, time.Time:
		return true
	}
	return false
}

// ---------- Columns and aliases ----------

// Column is a concrete column of a table. Source identifies the owning
// relation; the compiler uses it to decide qualification.
type Column struct {
	lazyOps
	Source Table
	Name   string
}

func (*Column) exprNode() {}

// NewColumn builds a column of the given table.
func NewColumn(source Table, name string) *Column {
	c := &Column{Source: source, Name: name}
	c.bindExpr(c)
	return c
}

// Type returns the declared column type. It fails when the owning
// table's schema is unknown.
func (c *Column) Type() (ColType, error) {
	schema := c.Source.SchemaOf()
	if schema == nil {
		return "", &SchemaError{Message: fmt.Sprintf("schema required to type column %q", c.Name)}
	}
	t, ok := schema.Type(c.Name)
	if !ok {
		return "", &SchemaError{Message: fmt.Sprintf("unknown column %q", c.Name)}
	}
	return t, nil
}

// Alias names an expression: expr AS name.
type Alias struct {
	lazyOps
	Expr Expr
	Name string
}

func (*Alias) exprNode() {}

// As wraps an expression under a projection name.
func As(e any, name string) *Alias {
	a := &Alias{Expr: Value(e), Name: name}
	a.bindExpr(a)
	return a
}

// ---------- Operators ----------

// BinOp is a binary operator application. It always has exactly two
// arguments; constructing it with any other arity records an error that
// surfaces at compile time.
type BinOp struct {
	lazyOps
	Op   string
	Args []Expr
}

func (*BinOp) exprNode() {}

// NewBinOp builds op over exactly two operands.
func NewBinOp(op string, args ...Expr) *BinOp {
	b := &BinOp{Op: op, Args: args}
	b.bindExpr(b)
	if len(args) != 2 {
		b.err = &ExprError{Message: fmt.Sprintf("binary operator %q requires 2 arguments, got %d", op, len(args))}
	}
	return b
}

// BinBoolOp is a binary operator producing a boolean: comparisons, OR, IS.
type BinBoolOp struct {
	BinOp
}

// NewBinBoolOp builds a boolean-valued binary operator.
func NewBinBoolOp(op string, a, b Expr) *BinBoolOp {
	n := &BinBoolOp{BinOp: BinOp{Op: op, Args: []Expr{a, b}}}
	n.bindExpr(n)
	return n
}

// IsDistinctFrom is the null-safe inequality a IS DISTINCT FROM b.
// Rendering is delegated to the dialect.
type IsDistinctFrom struct {
	lazyOps
	A Expr
	B Expr
}

func (*IsDistinctFrom) exprNode() {}

// NewIsDistinctFrom builds the null-safe inequality of two expressions.
func NewIsDistinctFrom(a, b Expr) *IsDistinctFrom {
	n := &IsDistinctFrom{A: a, B: b}
	n.bindExpr(n)
	return n
}

// ---------- CASE ----------

// When is one WHEN cond THEN result branch.
type When struct {
	Cond Expr
	Then Expr
}

// CaseWhen is a searched CASE expression. It requires at least one
// branch, and all branch results (including ELSE, when present) must
// share one type.
type CaseWhen struct {
	lazyOps
	Cases []When
	Else  Expr
}

func (*CaseWhen) exprNode() {}

// NewCaseWhen builds a CASE expression without an ELSE branch.
func NewCaseWhen(cases ...When) *CaseWhen {
	c := &CaseWhen{Cases: cases}
	c.bindExpr(c)
	if len(cases) == 0 {
		c.err = &ExprError{Message: "CASE requires at least one WHEN branch"}
	}
	return c
}

// NewCaseWhenElse builds a CASE expression with an ELSE branch.
func NewCaseWhenElse(elseVal any, cases ...When) *CaseWhen {
	c := NewCaseWhen(cases...)
	c.Else = Value(elseVal)
	return c
}

// Type returns the unique type of the branch results.
func (c *CaseWhen) Type() (ColType, error) {
	seen := map[ColType]bool{}
	branches := make([]Expr, 0, len(c.Cases)+1)
	for _, w := range c.Cases {
		branches = append(branches, w.Then)
	}
	if c.Else != nil {
		branches = append(branches, c.Else)
	}
	var result ColType
	for _, b := range branches {
		t, err := TypeOf(b)
		if err != nil {
			return "", err
		}
		if !seen[t] {
			seen[t] = true
			result = t
		}
	}
	if len(seen) > 1 {
		return "", &TypeError{Message: fmt.Sprintf("non-matching types in CASE branches: %v", keysOf(seen))}
	}
	return result, nil
}

func keysOf(m map[ColType]bool) []ColType {
	ts := make([]ColType, 0, len(m))
	for t := range m {
		ts = append(ts, t)
	}
	return ts
}

// ---------- Functions ----------

// FuncExpr is a function application, name(args...).
type FuncExpr struct {
	lazyOps
	Name string
	Args []Expr
}

func (*FuncExpr) exprNode() {}

// Fn builds a function application. Bare Go values are normalized to
// literals.
func Fn(name string, args ...any) *FuncExpr {
	exprs := make([]Expr, len(args))
	for i, a := range args {
		exprs[i] = Value(a)
	}
	f := &FuncExpr{Name: name, Args: exprs}
	f.bindExpr(f)
	return f
}

// Count is count(expr). A nil Expr counts rows: count(*).
type Count struct {
	lazyOps
	Expr     Expr
	Distinct bool
}

func (*Count) exprNode() {}

// NewCount builds count(*).
func NewCount() *Count {
	c := &Count{}
	c.bindExpr(c)
	return c
}

// NewCountOf builds count(expr) or count(distinct expr).
func NewCountOf(e Expr, distinct bool) *Count {
	c := &Count{Expr: e, Distinct: distinct}
	c.bindExpr(c)
	return c
}

// Concat joins stringified expressions. Each argument is coalesced to
// '<null>' first because on some backends (e.g. MySQL) concatenation
// with NULL is NULL. A single item passes through without a separator.
type Concat struct {
	lazyOps
	Exprs []Expr
	Sep   string
}

func (*Concat) exprNode() {}

// NewConcat builds a concatenation of the given expressions.
func NewConcat(sep string, exprs ...Expr) *Concat {
	c := &Concat{Exprs: exprs, Sep: sep}
	c.bindExpr(c)
	if len(exprs) == 0 {
		c.err = &ExprError{Message: "concat requires at least one expression"}
	}
	return c
}

// InExpr is the membership test (expr IN (list...)).
type InExpr struct {
	lazyOps
	Expr Expr
	List []Expr
}

func (*InExpr) exprNode() {}

// NewIn builds a membership test.
func NewIn(e Expr, list ...Expr) *InExpr {
	n := &InExpr{Expr: e, List: list}
	n.bindExpr(n)
	return n
}

// Cast converts an expression to a column type; the dialect renders the
// target type.
type Cast struct {
	lazyOps
	Expr Expr
	To   ColType
}

func (*Cast) exprNode() {}

// NewCast builds a cast expression.
func NewCast(e Expr, to ColType) *Cast {
	c := &Cast{Expr: e, To: to}
	c.bindExpr(c)
	return c
}

// Random is the backend's random number expression.
type Random struct {
	lazyOps
}

func (*Random) exprNode() {}

// NewRandom builds a random expression.
func NewRandom() *Random {
	r := &Random{}
	r.bindExpr(r)
	return r
}

// ---------- Type propagation ----------

// TypeOf returns the declared type of an expression, propagating through
// aliases, casts, and resolved placeholders. Expressions with no
// declared type return the empty tag without error.
func TypeOf(e Expr) (ColType, error) {
	switch n := e.(type) {
	case *Literal:
		return literalType(n.Val), nil
	case *Column:
		return n.Type()
	case *Alias:
		return TypeOf(n.Expr)
	case *BinBoolOp:
		return TBool, nil
	case *IsDistinctFrom:
		return TBool, nil
	case *CaseWhen:
		return n.Type()
	case *Cast:
		return n.To, nil
	case *Count:
		return TBigInt, nil
	case *ResolveColumn:
		if n.resolved == nil {
			return "", &SchemaError{Message: "column not resolved: " + n.Name}
		}
		return TypeOf(n.resolved)
	case *Concat:
		return TText, nil
	case *Random:
		return TFloat, nil
	}
	return "", nil
}

func literalType(v any) ColType {
	switch v.(type) {
	case string:
		return TText
	case bool:
		return TBool
	case int64, uint64:
		return TInt
	case float64:
		return TFloat
	case time.Time:
		return TTimestamp
	}
	return ""
}
