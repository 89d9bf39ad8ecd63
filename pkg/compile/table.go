package compile

import (
	"strings"

	"github.com/leapstack-labs/querykit/pkg/query"
)

func (c Compiler) compileTableAlias(t *query.TableAlias) (string, error) {
	source, err := c.compileAny(t.Source)
	if err != nil {
		return "", err
	}
	return source + " " + c.dialect.QuoteIdentifier(t.Name), nil
}

func (c Compiler) compileSelect(s *query.Select) (string, error) {
	sub := c
	sub.inSelect = true

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(s.Columns) == 0 {
		sb.WriteString("*")
	} else {
		cols, err := sub.compileList(s.Columns, ", ")
		if err != nil {
			return "", err
		}
		sb.WriteString(cols)
	}

	if s.From != nil {
		from, err := sub.compileAny(s.From)
		if err != nil {
			return "", err
		}
		sb.WriteString(" FROM ")
		sb.WriteString(from)
	}

	if len(s.WhereExprs) > 0 {
		where, err := sub.compileList(s.WhereExprs, " AND ")
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}

	if len(s.GroupByExprs) > 0 {
		group, err := sub.compileList(s.GroupByExprs, ", ")
		if err != nil {
			return "", err
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(group)
	}

	if len(s.OrderByExprs) > 0 {
		order, err := sub.compileList(s.OrderByExprs, ", ")
		if err != nil {
			return "", err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(order)
	}

	if s.LimitExpr != nil {
		limit, err := sub.compileAny(s.LimitExpr)
		if err != nil {
			return "", err
		}
		if clause := c.dialect.OffsetLimit(0, limit); clause != "" {
			sb.WriteString(" ")
			sb.WriteString(clause)
		}
	}

	return c.wrapRelation(sb.String()), nil
}

func (c Compiler) compileJoin(j *query.Join) (string, error) {
	if len(j.Sources) < 2 {
		return "", errf("join requires at least two source tables")
	}

	// Wrap un-aliased sources in freshly named aliases so columns can
	// qualify against them.
	tables := make([]query.Table, len(j.Sources))
	for i, t := range j.Sources {
		if ta, ok := t.(*query.TableAlias); ok {
			tables[i] = ta
		} else {
			tables[i] = query.NewTableAlias(t, c.NewUniqueName())
		}
	}

	sub := c.withTables(tables...)
	sub.inJoin = true
	sub.inSelect = false

	op := " JOIN "
	if j.Op != "" {
		op = " " + j.Op + " JOIN "
	}
	parts := make([]string, len(tables))
	for i, t := range tables {
		sql, err := sub.compileAny(t)
		if err != nil {
			return "", err
		}
		parts[i] = sql
	}
	joined := strings.Join(parts, op)

	if len(j.OnExprs) > 0 {
		on, err := sub.compileList(j.OnExprs, " AND ")
		if err != nil {
			return "", err
		}
		joined += " ON " + on
	}

	columns := "*"
	if j.Columns != nil {
		var err error
		if columns, err = sub.compileList(j.Columns, ", "); err != nil {
			return "", err
		}
	}

	return c.wrapRelation("SELECT " + columns + " FROM " + joined), nil
}

func (c Compiler) compileUnion(u *query.Union) (string, error) {
	sub := c
	sub.inSelect = false

	left, err := sub.compileAny(u.Left)
	if err != nil {
		return "", err
	}
	right, err := sub.compileAny(u.Right)
	if err != nil {
		return "", err
	}
	return c.wrapRelation(left + " UNION " + right), nil
}

// compileCte compiles the wrapped table in a fresh scope, registers the
// definition, and emits only the CTE's name.
func (c Compiler) compileCte(n *query.Cte) (string, error) {
	sub := c
	sub.tableContext = nil
	sub.inSelect = false

	compiled, err := sub.compileAny(n.Source)
	if err != nil {
		return "", err
	}

	name := n.Name
	if name == "" {
		name = c.NewUniqueName()
	}
	registered := name
	if len(n.Params) > 0 {
		registered = name + "(" + strings.Join(n.Params, ", ") + ")"
	}
	c.st.subqueries = append(c.st.subqueries, CTE{Name: registered, SQL: compiled})

	return name, nil
}
