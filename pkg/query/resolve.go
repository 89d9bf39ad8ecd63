package query

// ResolveColumn is a symbolic column reference created before the
// surrounding table is known. The builder binds it to a concrete column
// when the expression is attached to a table; the binding happens at
// most once.
type ResolveColumn struct {
	lazyOps
	Name     string
	resolved Expr
}

func (*ResolveColumn) exprNode() {}

// This produces a placeholder for a column of the enclosing table,
// bound at assembly time: This("age") inside users.Where(...) becomes
// the age column of users.
func This(name string) *ResolveColumn {
	r := &ResolveColumn{Name: name}
	r.bindExpr(r)
	return r
}

// ThisCols produces placeholders for several columns at once.
func ThisCols(names ...string) []Expr {
	exprs := make([]Expr, len(names))
	for i, n := range names {
		exprs[i] = This(n)
	}
	return exprs
}

// Resolve binds the placeholder to a concrete expression. Binding twice
// fails.
func (r *ResolveColumn) Resolve(e Expr) error {
	if r.resolved != nil {
		return &AlreadyResolvedError{Name: r.Name}
	}
	r.resolved = e
	return nil
}

// Resolved returns the bound expression, or nil before resolution.
func (r *ResolveColumn) Resolved() Expr {
	return r.resolved
}

// resolveNames walks the given parameter expressions depth-first and
// binds every unresolved placeholder to a column of source. Fields that
// reference a data source (a column's table, an alias's or CTE's
// wrapped table) are not descended into: resolution binds parameters,
// it never crosses into the tables those parameters reference.
func resolveNames(source Table, exprs []Expr) error {
	for _, e := range exprs {
		if err := resolveExpr(source, e); err != nil {
			return err
		}
	}
	return nil
}

func resolveExpr(source Table, e Expr) error {
	if e == nil {
		return nil
	}
	if rc, ok := e.(*ResolveColumn); ok && rc.resolved == nil {
		if err := rc.Resolve(source.Col(rc.Name)); err != nil {
			return err
		}
	}
	for _, child := range children(e) {
		if err := resolveExpr(source, child); err != nil {
			return err
		}
	}
	return nil
}

// children enumerates the parameter sub-expressions of a node. The
// source-table back-references of Column, TableAlias and Cte are
// deliberately absent.
func children(e Expr) []Expr {
	switch n := e.(type) {
	case *Alias:
		return []Expr{n.Expr}
	case *BinBoolOp:
		return n.Args
	case *BinOp:
		return n.Args
	case *IsDistinctFrom:
		return []Expr{n.A, n.B}
	case *CaseWhen:
		out := make([]Expr, 0, len(n.Cases)*2+1)
		for _, w := range n.Cases {
			out = append(out, w.Cond, w.Then)
		}
		if n.Else != nil {
			out = append(out, n.Else)
		}
		return out
	case *FuncExpr:
		return n.Args
	case *Count:
		if n.Expr != nil {
			return []Expr{n.Expr}
		}
		return nil
	case *Concat:
		return n.Exprs
	case *InExpr:
		return append([]Expr{n.Expr}, n.List...)
	case *Cast:
		return []Expr{n.Expr}
	case *ResolveColumn:
		if n.resolved != nil {
			return []Expr{n.resolved}
		}
		return nil
	case *Select:
		out := make([]Expr, 0, 8)
		if n.From != nil {
			out = append(out, n.From)
		}
		out = append(out, n.Columns...)
		out = append(out, n.WhereExprs...)
		out = append(out, n.GroupByExprs...)
		out = append(out, n.OrderByExprs...)
		if n.LimitExpr != nil {
			out = append(out, n.LimitExpr)
		}
		return out
	case *Join:
		out := make([]Expr, 0, len(n.Sources)+len(n.OnExprs)+len(n.Columns))
		for _, s := range n.Sources {
			out = append(out, s)
		}
		out = append(out, n.OnExprs...)
		out = append(out, n.Columns...)
		return out
	case *Union:
		return []Expr{n.Left, n.Right}
	}
	// Column, TableAlias, Cte, TablePath, Literal, Random, Skip: no
	// parameter children.
	return nil
}
