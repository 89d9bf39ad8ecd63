package starlark

import (
	"fmt"
	"log/slog"

	"go.starlark.net/starlark"
)

// StmtValue wraps a statement node (commit, explain) as a Starlark value.
type StmtValue struct {
	Stmt any
}

var _ starlark.Value = StmtValue{}

// String implements starlark.Value.
func (v StmtValue) String() string { return fmt.Sprintf("<statement %T>", v.Stmt) }

// Type implements starlark.Value.
func (v StmtValue) Type() string { return "statement" }

// Freeze implements starlark.Value.
func (v StmtValue) Freeze() {}

// Truth implements starlark.Value.
func (v StmtValue) Truth() starlark.Bool { return starlark.True }

// Hash implements starlark.Value.
func (v StmtValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: statement")
}

// queryGlobal is the global a script must assign its root node to.
const queryGlobal = "query"

// Eval executes a script and returns the query node assigned to the
// "query" global. src may be nil to read from filename, or a string /
// byte slice of source text.
func Eval(filename string, src any, logger *slog.Logger) (any, error) {
	if logger == nil {
		logger = slog.Default()
	}
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Info("script output", "script", filename, "msg", msg)
		},
	}
	globals, err := starlark.ExecFile(thread, filename, src, Predeclared())
	if err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", filename, err)
	}
	root, ok := globals[queryGlobal]
	if !ok {
		return nil, fmt.Errorf("script %s did not assign the %q global", filename, queryGlobal)
	}
	switch v := root.(type) {
	case TableValue:
		return v.Table, nil
	case ExprValue:
		return v.Expr, nil
	case StmtValue:
		return v.Stmt, nil
	}
	return nil, fmt.Errorf("global %q is a %s, want a table, expression, or statement", queryGlobal, root.Type())
}
