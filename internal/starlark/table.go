package starlark

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/query"
	"go.starlark.net/starlark"
)

// TableValue wraps a table node as a Starlark value carrying the fluent
// builder verbs. Indexing with a string produces a column: t["name"].
type TableValue struct {
	Table query.Table
}

var (
	_ starlark.Value    = TableValue{}
	_ starlark.HasAttrs = TableValue{}
	_ starlark.Mapping  = TableValue{}
)

// String implements starlark.Value.
func (v TableValue) String() string {
	return fmt.Sprintf("<table %T>", v.Table)
}

// Type implements starlark.Value.
func (v TableValue) Type() string { return "table" }

// Freeze implements starlark.Value.
func (v TableValue) Freeze() {}

// Truth implements starlark.Value.
func (v TableValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (v TableValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: table")
}

// Get implements starlark.Mapping: t["name"] is the name column.
// Non-string keys fail.
func (v TableValue) Get(key starlark.Value) (starlark.Value, bool, error) {
	name, ok := starlark.AsString(key)
	if !ok {
		return nil, false, fmt.Errorf("table index must be a string, got %s", key.Type())
	}
	return ExprValue{Expr: v.Table.Col(name)}, true, nil
}

// Attr implements starlark.HasAttrs: the builder verbs.
func (v TableValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "select":
		return v.exprsVerb(name, func(exprs []query.Expr) starlark.Value {
			return TableValue{Table: v.Table.Select(exprs...)}
		}), nil
	case "where":
		return v.exprsVerb(name, func(exprs []query.Expr) starlark.Value {
			return TableValue{Table: v.Table.Where(exprs...)}
		}), nil
	case "order_by":
		return v.exprsVerb(name, func(exprs []query.Expr) starlark.Value {
			return TableValue{Table: v.Table.OrderBy(exprs...)}
		}), nil
	case "group_by":
		return v.exprsVerb(name, func(exprs []query.Expr) starlark.Value {
			return TableValue{Table: v.Table.GroupBy(exprs...)}
		}), nil
	case "limit":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var n starlark.Value
			if err := starlark.UnpackArgs(name, args, kwargs, "n", &n); err != nil {
				return nil, err
			}
			limit, err := toGoValue(n)
			if err != nil {
				return nil, err
			}
			return TableValue{Table: v.Table.Limit(limit)}, nil
		}), nil
	case "join":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var other TableValue
			var op string
			if err := starlark.UnpackArgs(name, args, kwargs, "other", &other, "op?", &op); err != nil {
				return nil, err
			}
			j := v.Table.Join(other.Table)
			if op != "" {
				j = j.WithOp(op)
			}
			return TableValue{Table: j}, nil
		}), nil
	case "on":
		j, ok := v.Table.(*query.Join)
		if !ok {
			return nil, nil
		}
		return v.exprsVerb(name, func(exprs []query.Expr) starlark.Value {
			return TableValue{Table: j.On(exprs...)}
		}), nil
	case "union":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var other TableValue
			if err := starlark.UnpackArgs(name, args, kwargs, "other", &other); err != nil {
				return nil, err
			}
			return TableValue{Table: v.Table.Union(other.Table)}, nil
		}), nil
	case "count":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(name, args, kwargs); err != nil {
				return nil, err
			}
			return TableValue{Table: v.Table.CountRows()}, nil
		}), nil
	case "col":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var col string
			if err := starlark.UnpackArgs(name, args, kwargs, "name", &col); err != nil {
				return nil, err
			}
			return ExprValue{Expr: v.Table.Col(col)}, nil
		}), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (v TableValue) AttrNames() []string {
	return []string{"col", "count", "group_by", "join", "limit", "on", "order_by", "select", "union", "where"}
}

// exprsVerb adapts a []Expr verb: positional arguments become
// expressions, keyword arguments become aliased expressions.
func (v TableValue) exprsVerb(name string, apply func([]query.Expr) starlark.Value) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		exprs := make([]query.Expr, 0, len(args)+len(kwargs))
		for _, a := range args {
			e, err := toExpr(a)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			exprs = append(exprs, e)
		}
		for _, kv := range kwargs {
			alias, _ := starlark.AsString(kv[0])
			e, err := toExpr(kv[1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if query.IsSkip(e) {
				continue
			}
			exprs = append(exprs, query.As(e, alias))
		}
		return apply(exprs), nil
	})
}
