package query

// Operand is the lazy operator surface carried by expression nodes.
// None of the methods evaluate anything; each constructs a further
// node over the receiver.
type Operand interface {
	Expr
	Add(other any) *BinOp
	Sub(other any) *BinOp
	Gt(other any) *BinBoolOp
	Ge(other any) *BinBoolOp
	Lt(other any) *BinBoolOp
	Le(other any) *BinBoolOp
	Eq(other any) *BinBoolOp
	Or(other any) *BinBoolOp
	IsDistinctFrom(other any) *IsDistinctFrom
	Sum() *FuncExpr
	CastTo(t ColType) *Cast
	In(items ...any) *InExpr
}

// lazyOps is the operator surface shared by expression nodes. The methods
// do not evaluate anything; each constructs a further node over the
// receiver. Bare Go values in operand position are normalized to
// literals via Value.
//
// The self reference is bound by each node's constructor, which is why
// expression nodes are built through constructors rather than struct
// literals.
type lazyOps struct {
	self Expr
	err  error
}

func (l *lazyOps) bindExpr(self Expr) {
	l.self = self
}

// Err reports a deferred builder error recorded on this expression.
func (l *lazyOps) Err() error {
	return l.err
}

// Add builds self + other.
func (l *lazyOps) Add(other any) *BinOp {
	return NewBinOp("+", l.self, Value(other))
}

// Sub builds self - other.
func (l *lazyOps) Sub(other any) *BinOp {
	return NewBinOp("-", l.self, Value(other))
}

// Gt builds self > other.
func (l *lazyOps) Gt(other any) *BinBoolOp {
	return NewBinBoolOp(">", l.self, Value(other))
}

// Ge builds self >= other.
func (l *lazyOps) Ge(other any) *BinBoolOp {
	return NewBinBoolOp(">=", l.self, Value(other))
}

// Lt builds self < other.
func (l *lazyOps) Lt(other any) *BinBoolOp {
	return NewBinBoolOp("<", l.self, Value(other))
}

// Le builds self <= other.
func (l *lazyOps) Le(other any) *BinBoolOp {
	return NewBinBoolOp("<=", l.self, Value(other))
}

// Eq builds self = other, or self IS NULL when other is a null literal.
func (l *lazyOps) Eq(other any) *BinBoolOp {
	rhs := Value(other)
	if isNullLiteral(rhs) {
		return NewBinBoolOp("IS", l.self, rhs)
	}
	return NewBinBoolOp("=", l.self, rhs)
}

// Or builds self OR other.
func (l *lazyOps) Or(other any) *BinBoolOp {
	return NewBinBoolOp("OR", l.self, Value(other))
}

// IsDistinctFrom builds the null-safe inequality self IS DISTINCT FROM other.
func (l *lazyOps) IsDistinctFrom(other any) *IsDistinctFrom {
	return NewIsDistinctFrom(l.self, Value(other))
}

// Sum builds SUM(self).
func (l *lazyOps) Sum() *FuncExpr {
	return Fn("SUM", l.self)
}

// CastTo builds a cast of self to the given column type.
func (l *lazyOps) CastTo(t ColType) *Cast {
	return NewCast(l.self, t)
}

// In builds (self IN (items...)).
func (l *lazyOps) In(items ...any) *InExpr {
	exprs := make([]Expr, len(items))
	for i, it := range items {
		exprs[i] = Value(it)
	}
	return NewIn(l.self, exprs...)
}

func isNullLiteral(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Val == nil
}
