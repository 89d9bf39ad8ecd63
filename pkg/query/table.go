package query

import "fmt"

// tableOps carries the fluent builder verbs shared by every table node.
// The self reference is bound by each node's constructor; a deferred
// builder error recorded here surfaces when the node is compiled.
type tableOps struct {
	self Table
	err  error
}

func (o *tableOps) bind(self Table) {
	o.self = self
}

// Err reports a deferred builder error recorded on this table.
func (o *tableOps) Err() error {
	return o.err
}

// SourceTable returns the node itself. TableAlias and Cte override this
// to report the table they wrap.
func (o *tableOps) SourceTable() Table {
	return o.self
}

// Col returns a column of this table. When a schema is present the name
// is canonicalized through it, which handles case-insensitive matching.
func (o *tableOps) Col(name string) *Column {
	actual := name
	if s := o.self.SchemaOf(); s != nil {
		if key, ok := s.Key(name); ok {
			actual = key
		}
	}
	return NewColumn(o.self, actual)
}

// Select projects the given expressions, merging into an existing Select
// when the projection is not yet set. Use As to name an item.
func (o *tableOps) Select(exprs ...Expr) Table {
	if o.err != nil {
		return o.self
	}
	items := dropSkips(exprs)
	if err := resolveNames(o.self.SourceTable(), items); err != nil {
		return o.failed(err)
	}
	s, err := MakeSelect(o.self, Patch{Columns: items})
	if err != nil {
		return o.failed(err)
	}
	return s
}

// Where filters by the given predicates. Successive calls append; all
// predicates are joined with AND.
func (o *tableOps) Where(exprs ...Expr) Table {
	if o.err != nil {
		return o.self
	}
	items := dropSkips(exprs)
	if len(items) == 0 {
		return o.self
	}
	if err := resolveNames(o.self.SourceTable(), items); err != nil {
		return o.failed(err)
	}
	s, err := MakeSelect(o.self, Patch{WhereExprs: items, Concat: true})
	if err != nil {
		return o.failed(err)
	}
	return s
}

// OrderBy sorts by the given expressions.
func (o *tableOps) OrderBy(exprs ...Expr) Table {
	if o.err != nil {
		return o.self
	}
	items := dropSkips(exprs)
	if len(items) == 0 {
		return o.self
	}
	if err := resolveNames(o.self.SourceTable(), items); err != nil {
		return o.failed(err)
	}
	s, err := MakeSelect(o.self, Patch{OrderByExprs: items})
	if err != nil {
		return o.failed(err)
	}
	return s
}

// Limit caps the row count. Limit(Skip) is a no-op.
func (o *tableOps) Limit(n any) Table {
	if o.err != nil {
		return o.self
	}
	if n == nil || IsSkip(n) {
		return o.self
	}
	s, err := MakeSelect(o.self, Patch{LimitExpr: Value(n)})
	if err != nil {
		return o.failed(err)
	}
	return s
}

// Join pairs this table with another; conditions are attached with On.
func (o *tableOps) Join(other Table) *Join {
	return NewJoin(o.self, other)
}

// Union combines this table with another. Both schemas, when known,
// must have the same column count.
func (o *tableOps) Union(other Table) *Union {
	return NewUnion(o.self, other)
}

// CountRows builds SELECT count(*) over this table directly, without
// merging into an existing projection.
func (o *tableOps) CountRows() *Select {
	s := newSelect(o.self)
	s.Columns = []Expr{NewCount()}
	return s
}

// GroupBy is a reserved surface.
func (o *tableOps) GroupBy(exprs ...Expr) Table {
	return o.failed(&NotImplementedError{Op: "GroupBy"})
}

// At is a reserved surface for time-travel queries.
func (o *tableOps) At(exprs ...Expr) Table {
	if len(dropSkips(exprs)) == 0 {
		return o.self
	}
	return o.failed(&NotImplementedError{Op: "At"})
}

// WithSchema is a reserved surface for schema introspection.
func (o *tableOps) WithSchema() Table {
	return o.failed(&NotImplementedError{Op: "WithSchema"})
}

func (o *tableOps) failed(err error) Table {
	s := newSelect(o.self)
	s.err = err
	return s
}

// ---------- TablePath ----------

// TablePath is a (possibly dotted) physical table reference, optionally
// carrying a known schema.
type TablePath struct {
	tableOps
	Path   []string
	Schema *Schema
}

func (*TablePath) exprNode() {}

// NewTablePath builds a table reference from path segments,
// e.g. NewTablePath("db", "users").
func NewTablePath(path ...string) *TablePath {
	t := &TablePath{Path: path}
	t.bind(t)
	return t
}

// NewSchemaTable builds a table reference with a known schema.
func NewSchemaTable(schema *Schema, path ...string) *TablePath {
	t := NewTablePath(path...)
	t.Schema = schema
	return t
}

// SchemaOf returns the attached schema, or nil.
func (t *TablePath) SchemaOf() *Schema {
	return t.Schema
}

// Create builds a CREATE TABLE statement from the attached schema.
func (t *TablePath) Create(ifNotExists bool) *CreateTable {
	return &CreateTable{Path: t, IfNotExists: ifNotExists}
}

// Drop builds a DROP TABLE statement.
func (t *TablePath) Drop(ifExists bool) *DropTable {
	return &DropTable{Path: t, IfExists: ifExists}
}

// InsertExpr builds INSERT INTO this table from a relational expression.
func (t *TablePath) InsertExpr(e Expr) *InsertToTable {
	return &InsertToTable{Path: t, Expr: e}
}

// InsertValues is a reserved surface.
func (t *TablePath) InsertValues(rows ...[]any) Statement {
	return &invalidStmt{err: &NotImplementedError{Op: "InsertValues"}}
}

// ---------- TableAlias ----------

// TableAlias names a table: <table> <name>.
type TableAlias struct {
	tableOps
	Source Table
	Name   string
}

func (*TableAlias) exprNode() {}

// NewTableAlias wraps a table under an alias.
func NewTableAlias(source Table, name string) *TableAlias {
	t := &TableAlias{Source: source, Name: name}
	t.bind(t)
	return t
}

// SourceTable returns the wrapped table.
func (t *TableAlias) SourceTable() Table {
	return t.Source
}

// SchemaOf returns the wrapped table's schema.
func (t *TableAlias) SchemaOf() *Schema {
	return t.Source.SchemaOf()
}

// ---------- Select ----------

// Select is a SELECT statement over an optional source table.
type Select struct {
	tableOps
	From         Table
	Columns      []Expr
	WhereExprs   []Expr
	OrderByExprs []Expr
	GroupByExprs []Expr
	LimitExpr    Expr
}

func (*Select) exprNode() {}

func newSelect(from Table) *Select {
	s := &Select{From: from}
	s.bind(s)
	return s
}

// NewSelect builds a SELECT with an explicit projection. A nil or empty
// projection compiles to SELECT *.
func NewSelect(from Table, columns ...Expr) *Select {
	s := newSelect(from)
	s.Columns = columns
	return s
}

// SchemaOf returns the projected schema when it can be derived: the
// source schema for SELECT *, otherwise a schema built from named
// projection items.
func (s *Select) SchemaOf() *Schema {
	var base *Schema
	if s.From != nil {
		base = s.From.SchemaOf()
	}
	if base == nil || s.Columns == nil {
		return base
	}
	derived, err := deriveSchema(base, s.Columns)
	if err != nil {
		return nil
	}
	return derived
}

func (s *Select) clone() *Select {
	ns := &Select{
		From:         s.From,
		Columns:      append([]Expr(nil), s.Columns...),
		WhereExprs:   append([]Expr(nil), s.WhereExprs...),
		OrderByExprs: append([]Expr(nil), s.OrderByExprs...),
		GroupByExprs: append([]Expr(nil), s.GroupByExprs...),
		LimitExpr:    s.LimitExpr,
	}
	ns.bind(ns)
	ns.err = s.err
	return ns
}

// Patch is a set of clause updates for MakeSelect. A nil slice leaves
// the clause untouched; a non-nil (possibly empty) slice participates.
type Patch struct {
	Columns      []Expr
	WhereExprs   []Expr
	OrderByExprs []Expr
	GroupByExprs []Expr
	LimitExpr    Expr

	// Concat appends to already-set list clauses instead of failing.
	Concat bool
}

// MakeSelect applies a patch to a table. A non-Select table is wrapped
// in a fresh Select. For an existing Select, unset clauses are filled
// in; set clauses are appended to only under Concat, and conflict
// otherwise.
func MakeSelect(t Table, p Patch) (*Select, error) {
	if err := t.Err(); err != nil {
		return nil, err
	}
	s, ok := t.(*Select)
	if !ok {
		ns := newSelect(t)
		ns.Columns = p.Columns
		ns.WhereExprs = p.WhereExprs
		ns.OrderByExprs = p.OrderByExprs
		ns.GroupByExprs = p.GroupByExprs
		ns.LimitExpr = p.LimitExpr
		return ns, nil
	}

	ns := s.clone()
	var err error
	if p.Columns != nil {
		if ns.Columns, err = mergeClause("columns", ns.Columns, p.Columns, p.Concat); err != nil {
			return nil, err
		}
	}
	if p.WhereExprs != nil {
		if ns.WhereExprs, err = mergeClause("where", ns.WhereExprs, p.WhereExprs, p.Concat); err != nil {
			return nil, err
		}
	}
	if p.OrderByExprs != nil {
		if ns.OrderByExprs, err = mergeClause("order by", ns.OrderByExprs, p.OrderByExprs, p.Concat); err != nil {
			return nil, err
		}
	}
	if p.GroupByExprs != nil {
		if ns.GroupByExprs, err = mergeClause("group by", ns.GroupByExprs, p.GroupByExprs, p.Concat); err != nil {
			return nil, err
		}
	}
	if p.LimitExpr != nil {
		if ns.LimitExpr != nil {
			return nil, &MergeConflictError{Attr: "limit"}
		}
		ns.LimitExpr = p.LimitExpr
	}
	return ns, nil
}

func mergeClause(attr string, existing, incoming []Expr, concat bool) ([]Expr, error) {
	if existing == nil {
		return incoming, nil
	}
	if !concat {
		return nil, &MergeConflictError{Attr: attr}
	}
	merged := make([]Expr, 0, len(existing)+len(incoming))
	merged = append(merged, existing...)
	merged = append(merged, incoming...)
	return merged, nil
}

// ---------- Join ----------

// Join combines source tables. An empty Op emits a plain JOIN; "LEFT",
// "RIGHT", "FULL OUTER" etc. prefix the keyword.
type Join struct {
	tableOps
	Sources []Table
	Op      string
	OnExprs []Expr
	Columns []Expr
}

func (*Join) exprNode() {}

// NewJoin pairs two tables.
func NewJoin(left, right Table) *Join {
	j := &Join{Sources: []Table{left, right}}
	j.bind(j)
	return j
}

func (j *Join) clone() *Join {
	nj := &Join{
		Sources: append([]Table(nil), j.Sources...),
		Op:      j.Op,
		OnExprs: append([]Expr(nil), j.OnExprs...),
		Columns: append([]Expr(nil), j.Columns...),
	}
	nj.bind(nj)
	nj.err = j.err
	return nj
}

// WithOp sets the join operator keyword prefix, e.g. "LEFT".
func (j *Join) WithOp(op string) *Join {
	nj := j.clone()
	nj.Op = op
	return nj
}

// On appends join conditions; they are joined with AND.
func (j *Join) On(exprs ...Expr) *Join {
	items := dropSkips(exprs)
	if len(items) == 0 {
		return j
	}
	nj := j.clone()
	nj.OnExprs = append(nj.OnExprs, items...)
	return nj
}

// Select records the projection on the join itself when none is set
// yet. Once a projection exists, it falls through to the generic path
// and builds a Select over the join.
func (j *Join) Select(exprs ...Expr) Table {
	if j.Columns != nil {
		return j.tableOps.Select(exprs...)
	}
	nj := j.clone()
	nj.Columns = dropSkips(exprs)
	return nj
}

// SchemaOf derives a schema from the join projection; it is nil until a
// projection of named items is set.
func (j *Join) SchemaOf() *Schema {
	s, err := j.DerivedSchema()
	if err != nil {
		return nil
	}
	return s
}

// DerivedSchema derives the join's schema from its projection, failing
// when the projection is unset or contains unnamed expressions.
func (j *Join) DerivedSchema() (*Schema, error) {
	if j.Columns == nil {
		return nil, &SchemaError{Message: "join has no projection"}
	}
	var base *Schema
	if len(j.Sources) > 0 {
		base = j.Sources[0].SchemaOf()
	}
	return deriveSchema(base, j.Columns)
}

// ---------- Union ----------

// Union is the set union of two tables. Its schema is the left schema;
// both schemas, when known, must have the same column count.
type Union struct {
	tableOps
	Left  Table
	Right Table
}

func (*Union) exprNode() {}

// NewUnion combines two tables.
func NewUnion(left, right Table) *Union {
	u := &Union{Left: left, Right: right}
	u.bind(u)
	ls, rs := left.SchemaOf(), right.SchemaOf()
	if ls != nil && rs != nil && ls.Len() != rs.Len() {
		u.err = &SchemaError{Message: fmt.Sprintf("union of unequal widths: %d vs %d columns", ls.Len(), rs.Len())}
	}
	return u
}

// SchemaOf returns the left branch's schema.
func (u *Union) SchemaOf() *Schema {
	return u.Left.SchemaOf()
}

// ---------- Cte ----------

// Cte wraps a table as a common table expression. Compiling it
// registers the definition in the compiler's subquery registry and
// emits only the name (auto-generated when empty).
type Cte struct {
	tableOps
	Source Table
	Name   string
	Params []string
}

func (*Cte) exprNode() {}

// NewCte wraps a table as an anonymous CTE.
func NewCte(source Table) *Cte {
	c := &Cte{Source: source}
	c.bind(c)
	return c
}

// NewNamedCte wraps a table as a named, optionally parameterized CTE.
func NewNamedCte(source Table, name string, params ...string) *Cte {
	c := NewCte(source)
	c.Name = name
	c.Params = params
	return c
}

// SourceTable returns the wrapped table.
func (c *Cte) SourceTable() Table {
	return c.Source
}

// SchemaOf returns the wrapped table's schema.
func (c *Cte) SchemaOf() *Schema {
	return c.Source.SchemaOf()
}
