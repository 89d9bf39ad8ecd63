// Package query provides a composable SQL query builder.
//
// Queries are assembled as an immutable tree of nodes: expressions
// (columns, literals, operators, functions) and tables (paths, selects,
// joins, unions, CTEs). Builder verbs combine nodes into new nodes;
// structural replacement produces updated copies instead of mutating.
// The tree is turned into SQL text by pkg/compile against a dialect
// from pkg/dialect.
package query

// Expr represents a scalar-valued expression node.
type Expr interface {
	exprNode()
}

// Table is implemented by relation-valued nodes. It exposes the builder
// verbs plus the two capabilities the compiler and resolver rely on:
// the owning relation (SourceTable) and the column schema, when known.
type Table interface {
	Expr

	// SourceTable identifies which relation owns this table's columns.
	// Select, Join and Union report themselves; TableAlias and Cte report
	// the table they wrap. The identity is compared by pointer during
	// alias lookup.
	SourceTable() Table

	// SchemaOf returns the ordered column schema, or nil when unknown.
	SchemaOf() *Schema

	// Col returns a column of this table by name. When a schema is
	// present the name is canonicalized through it.
	Col(name string) *Column

	Select(exprs ...Expr) Table
	Where(exprs ...Expr) Table
	OrderBy(exprs ...Expr) Table
	Limit(n any) Table
	Join(other Table) *Join
	Union(other Table) *Union
	CountRows() *Select

	// Reserved surfaces. Calling any of these yields a table whose
	// compilation fails with a NotImplementedError, except At with no
	// arguments other than Skip, which returns the receiver unchanged.
	GroupBy(exprs ...Expr) Table
	At(exprs ...Expr) Table
	WithSchema() Table

	// Err reports a deferred builder error recorded on this node, if any.
	Err() error
}

// Statement is implemented by top-level non-query statements.
type Statement interface {
	stmtNode()
}

// Skip is a singleton marker meaning "omit this argument". Builder verbs
// filter it from their inputs; Limit(Skip) is a no-op, and compiling
// COMMIT under an autocommitting dialect reports the same omission
// through compile.ErrSkip.
var Skip Expr = skipType{}

type skipType struct{}

func (skipType) exprNode() {}

// IsSkip reports whether v is the Skip sentinel.
func IsSkip(v any) bool {
	e, ok := v.(Expr)
	return ok && e == Skip
}

func dropSkips(exprs []Expr) []Expr {
	kept := make([]Expr, 0, len(exprs))
	for _, e := range exprs {
		if e == nil || e == Skip {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
