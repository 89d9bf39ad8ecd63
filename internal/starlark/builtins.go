package starlark

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/query"
	"go.starlark.net/starlark"
)

// Predeclared returns the global environment scripts are evaluated in.
func Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"this":      ThisValue{},
		"skip":      ExprValue{Expr: query.Skip},
		"table":     starlark.NewBuiltin("table", builtinTable),
		"value":     starlark.NewBuiltin("value", builtinValue),
		"case_when": starlark.NewBuiltin("case_when", builtinCaseWhen),
		"count_of":  starlark.NewBuiltin("count_of", builtinCountOf),
		"concat":    starlark.NewBuiltin("concat", builtinConcat),
		"fn":        starlark.NewBuiltin("fn", builtinFn),
		"in_":       starlark.NewBuiltin("in_", builtinIn),
		"random":    starlark.NewBuiltin("random", builtinRandom),
		"cte":       starlark.NewBuiltin("cte", builtinCte),
		"commit":    starlark.NewBuiltin("commit", builtinCommit),
		"explain":   starlark.NewBuiltin("explain", builtinExplain),
	}
}

// builtinTable builds a table reference:
// table("db", "users", schema={"id": "int"}).
func builtinTable(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	path := make([]string, 0, len(args))
	for _, a := range args {
		seg, ok := starlark.AsString(a)
		if !ok {
			return nil, fmt.Errorf("table: path segments must be strings, got %s", a.Type())
		}
		path = append(path, seg)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("table: at least one path segment required")
	}

	var schema *query.Schema
	for _, kv := range kwargs {
		key, _ := starlark.AsString(kv[0])
		if key != "schema" {
			return nil, fmt.Errorf("table: unexpected keyword %q", key)
		}
		dict, ok := kv[1].(*starlark.Dict)
		if !ok {
			return nil, fmt.Errorf("table: schema must be a dict, got %s", kv[1].Type())
		}
		cols := make([]query.ColumnDef, 0, dict.Len())
		for _, item := range dict.Items() {
			name, ok := starlark.AsString(item[0])
			if !ok {
				return nil, fmt.Errorf("table: schema keys must be strings")
			}
			typ, ok := starlark.AsString(item[1])
			if !ok {
				return nil, fmt.Errorf("table: schema values must be type strings")
			}
			cols = append(cols, query.ColumnDef{Name: name, Type: query.ColType(typ)})
		}
		schema = query.NewSchema(cols...)
	}

	if schema != nil {
		return TableValue{Table: query.NewSchemaTable(schema, path...)}, nil
	}
	return TableValue{Table: query.NewTablePath(path...)}, nil
}

func builtinValue(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackArgs("value", args, kwargs, "v", &v); err != nil {
		return nil, err
	}
	e, err := toExpr(v)
	if err != nil {
		return nil, err
	}
	return ExprValue{Expr: e}, nil
}

// builtinCaseWhen builds a searched CASE:
// case_when([(cond, then), ...], else_=x).
func builtinCaseWhen(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cases *starlark.List
	var elseVal starlark.Value
	if err := starlark.UnpackArgs("case_when", args, kwargs, "cases", &cases, "else_?", &elseVal); err != nil {
		return nil, err
	}
	whens := make([]query.When, 0, cases.Len())
	for i := 0; i < cases.Len(); i++ {
		pair, ok := cases.Index(i).(starlark.Tuple)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("case_when: cases must be (condition, result) pairs")
		}
		cond, err := toExpr(pair[0])
		if err != nil {
			return nil, err
		}
		then, err := toExpr(pair[1])
		if err != nil {
			return nil, err
		}
		whens = append(whens, query.When{Cond: cond, Then: then})
	}
	if elseVal == nil {
		return ExprValue{Expr: query.NewCaseWhen(whens...)}, nil
	}
	e, err := toGoValue(elseVal)
	if err != nil {
		return nil, err
	}
	return ExprValue{Expr: query.NewCaseWhenElse(e, whens...)}, nil
}

func builtinCountOf(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var expr starlark.Value
	var distinct bool
	if err := starlark.UnpackArgs("count_of", args, kwargs, "expr?", &expr, "distinct?", &distinct); err != nil {
		return nil, err
	}
	if expr == nil {
		return ExprValue{Expr: query.NewCount()}, nil
	}
	e, err := toExpr(expr)
	if err != nil {
		return nil, err
	}
	return ExprValue{Expr: query.NewCountOf(e, distinct)}, nil
}

func builtinConcat(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	sep := ""
	for _, kv := range kwargs {
		key, _ := starlark.AsString(kv[0])
		if key != "sep" {
			return nil, fmt.Errorf("concat: unexpected keyword %q", key)
		}
		s, ok := starlark.AsString(kv[1])
		if !ok {
			return nil, fmt.Errorf("concat: sep must be a string")
		}
		sep = s
	}
	exprs := make([]query.Expr, 0, len(args))
	for _, a := range args {
		e, err := toExpr(a)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return ExprValue{Expr: query.NewConcat(sep, exprs...)}, nil
}

func builtinFn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("fn: function name required")
	}
	name, ok := starlark.AsString(args[0])
	if !ok {
		return nil, fmt.Errorf("fn: function name must be a string")
	}
	fnArgs := make([]any, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := toGoValue(a)
		if err != nil {
			return nil, err
		}
		fnArgs = append(fnArgs, v)
	}
	return ExprValue{Expr: query.Fn(name, fnArgs...)}, nil
}

func builtinIn(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("in_: expression and at least one candidate required")
	}
	expr, err := toExpr(args[0])
	if err != nil {
		return nil, err
	}
	list := make([]query.Expr, 0, len(args)-1)
	for _, a := range args[1:] {
		e, err := toExpr(a)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return ExprValue{Expr: query.NewIn(expr, list...)}, nil
}

func builtinRandom(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("random", args, kwargs); err != nil {
		return nil, err
	}
	return ExprValue{Expr: query.NewRandom()}, nil
}

func builtinCte(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var t TableValue
	var name string
	if err := starlark.UnpackArgs("cte", args, kwargs, "source", &t, "name?", &name); err != nil {
		return nil, err
	}
	if name != "" {
		return TableValue{Table: query.NewNamedCte(t.Table, name)}, nil
	}
	return TableValue{Table: query.NewCte(t.Table)}, nil
}

func builtinCommit(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs("commit", args, kwargs); err != nil {
		return nil, err
	}
	return StmtValue{Stmt: &query.Commit{}}, nil
}

func builtinExplain(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var t TableValue
	if err := starlark.UnpackArgs("explain", args, kwargs, "target", &t); err != nil {
		return nil, err
	}
	return StmtValue{Stmt: &query.Explain{Target: t.Table}}, nil
}
