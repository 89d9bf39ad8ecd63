// Package compile turns query ASTs into dialect-specific SQL text.
//
// A Compiler is an immutable context: every nested relation is compiled
// under a derived copy carrying the scope flags and table aliases for
// that nesting level, while the CTE registry and the unique-name
// counter are shared across all derived copies of one compilation.
// Compilations are single-threaded; a Compiler must not be shared
// across goroutines.
package compile

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/leapstack-labs/querykit/pkg/query"
)

// ErrSkip is returned when a statement compiles to nothing and should
// not be executed, e.g. COMMIT under an autocommitting dialect.
var ErrSkip = errors.New("statement skipped")

// Error is a structural failure detected during emission.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "compile error: " + e.Message
}

func errf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// CTE is one registered subquery definition. Name may carry a
// parameter list, e.g. "top_users(min_total)".
type CTE struct {
	Name string
	SQL  string
}

// state is the per-compilation scratch area shared by all derived
// contexts: the ordered CTE registry and the unique-name counter.
type state struct {
	subqueries []CTE
	n          int
}

// Compiler compiles AST nodes against a dialect.
type Compiler struct {
	dialect      *dialect.Dialect
	tableContext []query.Table
	inSelect     bool
	inJoin       bool
	st           *state
}

// New creates a compiler for the given dialect.
func New(d *dialect.Dialect) *Compiler {
	return &Compiler{dialect: d, st: &state{}}
}

// Dialect returns the dialect this compiler emits for.
func (c Compiler) Dialect() *dialect.Dialect {
	return c.dialect
}

// Compile emits SQL for an expression, table, or statement node.
// Registered CTE definitions accumulate across calls and are retrieved
// with Subqueries.
func (c *Compiler) Compile(node any) (string, error) {
	return c.compileAny(node)
}

// Subqueries returns the CTE definitions registered so far, in
// depth-first encounter order.
func (c *Compiler) Subqueries() []CTE {
	return append([]CTE(nil), c.st.subqueries...)
}

// NewUniqueName returns a fresh identifier, stable and monotonic within
// one compilation: tmp1, tmp2, ...
func (c Compiler) NewUniqueName() string {
	c.st.n++
	return fmt.Sprintf("tmp%d", c.st.n)
}

// withTables derives a context with additional tables in scope.
func (c Compiler) withTables(tables ...query.Table) Compiler {
	ctx := make([]query.Table, 0, len(c.tableContext)+len(tables))
	ctx = append(ctx, c.tableContext...)
	ctx = append(ctx, tables...)
	c.tableContext = ctx
	return c
}

// wrapRelation applies the parent-dependent wrapping for a compiled
// relation: a fresh alias inside a projection, bare parentheses inside
// a join, as-is otherwise.
func (c Compiler) wrapRelation(sql string) string {
	if c.inSelect {
		return "(" + sql + ") " + c.NewUniqueName()
	}
	if c.inJoin {
		return "(" + sql + ")"
	}
	return sql
}

func (c Compiler) compileAny(node any) (string, error) {
	if node == nil {
		return "", errf("cannot compile nil node")
	}
	if query.IsSkip(node) {
		return "", errf("cannot compile the Skip sentinel")
	}
	if f, ok := node.(interface{ Err() error }); ok {
		if err := f.Err(); err != nil {
			return "", err
		}
	}

	switch n := node.(type) {
	// Tables.
	case *query.TablePath:
		return c.dialect.QuotePath(n.Path...), nil
	case *query.TableAlias:
		return c.compileTableAlias(n)
	case *query.Select:
		return c.compileSelect(n)
	case *query.Join:
		return c.compileJoin(n)
	case *query.Union:
		return c.compileUnion(n)
	case *query.Cte:
		return c.compileCte(n)

	// Expressions.
	case *query.Column:
		return c.compileColumn(n)
	case *query.Alias:
		return c.compileAlias(n)
	case *query.Literal:
		return c.compileLiteral(n)
	case *query.BinBoolOp:
		return c.compileBinOp(&n.BinOp)
	case *query.BinOp:
		return c.compileBinOp(n)
	case *query.IsDistinctFrom:
		return c.compileIsDistinctFrom(n)
	case *query.CaseWhen:
		return c.compileCaseWhen(n)
	case *query.FuncExpr:
		return c.compileFunc(n)
	case *query.Count:
		return c.compileCount(n)
	case *query.Concat:
		return c.compileConcat(n)
	case *query.InExpr:
		return c.compileIn(n)
	case *query.Cast:
		return c.compileCast(n)
	case *query.Random:
		return c.dialect.Random(), nil
	case *query.ResolveColumn:
		return c.compileResolveColumn(n)

	// Statements.
	case *query.CreateTable:
		return c.compileCreateTable(n)
	case *query.DropTable:
		return c.compileDropTable(n)
	case *query.InsertToTable:
		return c.compileInsert(n)
	case *query.Commit:
		return c.compileCommit()
	case *query.Explain:
		return c.compileExplain(n)

	case query.Expr, query.Statement:
		return "", errf("no emission rule for node type %T", node)
	}

	// Raw Go values are a convenience: normalize to a literal.
	return c.compileAny(query.Value(node))
}

func (c Compiler) compileList(exprs []query.Expr, sep string) (string, error) {
	out := ""
	for i, e := range exprs {
		sql, err := c.compileAny(e)
		if err != nil {
			return "", err
		}
		if i > 0 {
			out += sep
		}
		out += sql
	}
	return out, nil
}
