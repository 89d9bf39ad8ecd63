package compile

import (
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/querykit/pkg/query"
)

func (c Compiler) compileLiteral(l *query.Literal) (string, error) {
	switch v := l.Val.(type) {
	case nil:
		return "NULL", nil
	case string:
		return quoteString(v), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return quoteString(v.Format("2006-01-02 15:04:05")), nil
	}
	return "", errf("unsupported literal type %T", l.Val)
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// compileColumn qualifies the column when exactly one alias in scope
// wraps its owning table. With no match the bare name is understood
// from context; several matches are ambiguous.
func (c Compiler) compileColumn(col *query.Column) (string, error) {
	quoted := c.dialect.QuoteIdentifier(col.Name)
	if len(c.tableContext) <= 1 {
		return quoted, nil
	}
	var match *query.TableAlias
	matches := 0
	for _, t := range c.tableContext {
		if ta, ok := t.(*query.TableAlias); ok && ta.Source == col.Source {
			matches++
			match = ta
		}
	}
	switch {
	case matches == 0:
		return quoted, nil
	case matches > 1:
		return "", errf("too many aliases for column %s", col.Name)
	}
	return c.dialect.QuoteIdentifier(match.Name) + "." + quoted, nil
}

func (c Compiler) compileAlias(a *query.Alias) (string, error) {
	sql, err := c.compileAny(a.Expr)
	if err != nil {
		return "", err
	}
	return sql + " AS " + c.dialect.QuoteIdentifier(a.Name), nil
}

func (c Compiler) compileBinOp(b *query.BinOp) (string, error) {
	if len(b.Args) != 2 {
		return "", errf("binary operator %q with %d arguments", b.Op, len(b.Args))
	}
	left, err := c.compileAny(b.Args[0])
	if err != nil {
		return "", err
	}
	right, err := c.compileAny(b.Args[1])
	if err != nil {
		return "", err
	}
	return "(" + left + " " + b.Op + " " + right + ")", nil
}

func (c Compiler) compileIsDistinctFrom(n *query.IsDistinctFrom) (string, error) {
	a, err := c.compileAny(n.A)
	if err != nil {
		return "", err
	}
	b, err := c.compileAny(n.B)
	if err != nil {
		return "", err
	}
	return c.dialect.IsDistinctFrom(a, b), nil
}

func (c Compiler) compileCaseWhen(n *query.CaseWhen) (string, error) {
	if len(n.Cases) == 0 {
		return "", errf("CASE requires at least one WHEN branch")
	}
	var sb strings.Builder
	sb.WriteString("CASE")
	for _, w := range n.Cases {
		cond, err := c.compileAny(w.Cond)
		if err != nil {
			return "", err
		}
		then, err := c.compileAny(w.Then)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHEN ")
		sb.WriteString(cond)
		sb.WriteString(" THEN ")
		sb.WriteString(then)
	}
	if n.Else != nil {
		elseSQL, err := c.compileAny(n.Else)
		if err != nil {
			return "", err
		}
		sb.WriteString(" ELSE ")
		sb.WriteString(elseSQL)
	}
	sb.WriteString(" END")
	return sb.String(), nil
}

func (c Compiler) compileFunc(f *query.FuncExpr) (string, error) {
	args, err := c.compileList(f.Args, ", ")
	if err != nil {
		return "", err
	}
	return f.Name + "(" + args + ")", nil
}

func (c Compiler) compileCount(n *query.Count) (string, error) {
	expr := "*"
	if n.Expr != nil {
		var err error
		if expr, err = c.compileAny(n.Expr); err != nil {
			return "", err
		}
	}
	if n.Distinct {
		return "count(distinct " + expr + ")", nil
	}
	return "count(" + expr + ")", nil
}

func (c Compiler) compileConcat(n *query.Concat) (string, error) {
	if len(n.Exprs) == 0 {
		return "", errf("concat of no expressions")
	}
	items := make([]string, 0, len(n.Exprs)*2)
	for _, e := range n.Exprs {
		sql, err := c.compileAny(e)
		if err != nil {
			return "", err
		}
		items = append(items, "coalesce("+c.dialect.ToString(sql)+", '<null>')")
	}
	if len(items) == 1 {
		return items[0], nil
	}
	if n.Sep != "" {
		sep := quoteString(n.Sep)
		interleaved := make([]string, 0, len(items)*2-1)
		for i, it := range items {
			if i > 0 {
				interleaved = append(interleaved, sep)
			}
			interleaved = append(interleaved, it)
		}
		items = interleaved
	}
	return c.dialect.Concat(items), nil
}

func (c Compiler) compileIn(n *query.InExpr) (string, error) {
	expr, err := c.compileAny(n.Expr)
	if err != nil {
		return "", err
	}
	elems, err := c.compileList(n.List, ", ")
	if err != nil {
		return "", err
	}
	return "(" + expr + " IN (" + elems + "))", nil
}

func (c Compiler) compileCast(n *query.Cast) (string, error) {
	expr, err := c.compileAny(n.Expr)
	if err != nil {
		return "", err
	}
	return "cast(" + expr + " as " + c.dialect.TypeRepr(string(n.To)) + ")", nil
}

func (c Compiler) compileResolveColumn(n *query.ResolveColumn) (string, error) {
	resolved := n.Resolved()
	if resolved == nil {
		return "", errf("column not resolved: %s", n.Name)
	}
	return c.compileAny(resolved)
}
