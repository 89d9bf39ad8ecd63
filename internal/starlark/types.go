// Package starlark exposes the query builder to Starlark scripts.
//
// A script builds a query with the predeclared builtins (table, this,
// value, ...) and assigns the root node to a global named "query"; Eval
// returns that node for compilation.
package starlark

import (
	"fmt"

	"github.com/leapstack-labs/querykit/pkg/query"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// ExprValue wraps an expression node as a Starlark value. The +, - and |
// operators build further nodes; comparisons must use the gt/ge/lt/le/
// eq methods because Starlark requires comparison operators to return
// booleans.
type ExprValue struct {
	Expr query.Expr
}

var (
	_ starlark.Value     = ExprValue{}
	_ starlark.HasAttrs  = ExprValue{}
	_ starlark.HasBinary = ExprValue{}
)

// String implements starlark.Value.
func (v ExprValue) String() string {
	return fmt.Sprintf("<expr %T>", v.Expr)
}

// Type implements starlark.Value.
func (v ExprValue) Type() string { return "expr" }

// Freeze implements starlark.Value. Nodes are already immutable.
func (v ExprValue) Freeze() {}

// Truth implements starlark.Value.
func (v ExprValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (v ExprValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: expr")
}

// Binary implements starlark.HasBinary for +, - and |.
func (v ExprValue) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	if side == starlark.Right {
		return nil, nil
	}
	operand, ok := v.Expr.(query.Operand)
	if !ok {
		return nil, fmt.Errorf("expression %s does not support operators", v.String())
	}
	other, err := toGoValue(y)
	if err != nil {
		return nil, err
	}
	switch op {
	case syntax.PLUS:
		return ExprValue{Expr: operand.Add(other)}, nil
	case syntax.MINUS:
		return ExprValue{Expr: operand.Sub(other)}, nil
	case syntax.PIPE:
		return ExprValue{Expr: operand.Or(other)}, nil
	}
	return nil, nil
}

// Attr implements starlark.HasAttrs: the lazy operator surface.
func (v ExprValue) Attr(name string) (starlark.Value, error) {
	operand, ok := v.Expr.(query.Operand)
	if !ok {
		return nil, nil
	}
	unary := map[string]func() query.Expr{
		"sum": func() query.Expr { return operand.Sum() },
	}
	if fn, ok := unary[name]; ok {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := starlark.UnpackArgs(name, args, kwargs); err != nil {
				return nil, err
			}
			return ExprValue{Expr: fn()}, nil
		}), nil
	}

	binary := map[string]func(any) query.Expr{
		"gt":               func(o any) query.Expr { return operand.Gt(o) },
		"ge":               func(o any) query.Expr { return operand.Ge(o) },
		"lt":               func(o any) query.Expr { return operand.Lt(o) },
		"le":               func(o any) query.Expr { return operand.Le(o) },
		"eq":               func(o any) query.Expr { return operand.Eq(o) },
		"or_":              func(o any) query.Expr { return operand.Or(o) },
		"add":              func(o any) query.Expr { return operand.Add(o) },
		"is_distinct_from": func(o any) query.Expr { return operand.IsDistinctFrom(o) },
	}
	if fn, ok := binary[name]; ok {
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var other starlark.Value
			if err := starlark.UnpackArgs(name, args, kwargs, "other", &other); err != nil {
				return nil, err
			}
			o, err := toGoValue(other)
			if err != nil {
				return nil, err
			}
			return ExprValue{Expr: fn(o)}, nil
		}), nil
	}

	switch name {
	case "cast_to":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var t string
			if err := starlark.UnpackArgs(name, args, kwargs, "type", &t); err != nil {
				return nil, err
			}
			return ExprValue{Expr: operand.CastTo(query.ColType(t))}, nil
		}), nil
	case "as_":
		return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var alias string
			if err := starlark.UnpackArgs(name, args, kwargs, "name", &alias); err != nil {
				return nil, err
			}
			return ExprValue{Expr: query.As(v.Expr, alias)}, nil
		}), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (v ExprValue) AttrNames() []string {
	return []string{"add", "as_", "cast_to", "eq", "ge", "gt", "is_distinct_from", "le", "lt", "or_", "sum"}
}

// ThisValue is the "this" global: attribute access produces column
// placeholders resolved when the expression is attached to a table.
type ThisValue struct{}

var (
	_ starlark.Value    = ThisValue{}
	_ starlark.HasAttrs = ThisValue{}
)

// String implements starlark.Value.
func (ThisValue) String() string { return "<this>" }

// Type implements starlark.Value.
func (ThisValue) Type() string { return "this" }

// Freeze implements starlark.Value.
func (ThisValue) Freeze() {}

// Truth implements starlark.Value.
func (ThisValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (ThisValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: this") }

// Attr implements starlark.HasAttrs: this.age is a placeholder for the
// age column of the enclosing table.
func (ThisValue) Attr(name string) (starlark.Value, error) {
	return ExprValue{Expr: query.This(name)}, nil
}

// AttrNames implements starlark.HasAttrs.
func (ThisValue) AttrNames() []string { return nil }

// toGoValue lowers a Starlark value into a builder operand.
func toGoValue(v starlark.Value) (any, error) {
	switch x := v.(type) {
	case ExprValue:
		return x.Expr, nil
	case TableValue:
		return x.Table, nil
	case starlark.NoneType:
		return nil, nil
	case starlark.String:
		return string(x), nil
	case starlark.Bool:
		return bool(x), nil
	case starlark.Int:
		i, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("integer out of range: %s", x.String())
		}
		return i, nil
	case starlark.Float:
		return float64(x), nil
	}
	return nil, fmt.Errorf("cannot use %s as a query operand", v.Type())
}

func toExpr(v starlark.Value) (query.Expr, error) {
	g, err := toGoValue(v)
	if err != nil {
		return nil, err
	}
	return query.Value(g), nil
}
