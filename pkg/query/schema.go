package query

import "strings"

// ColType is an abstract column type tag. Dialects map tags to concrete
// database types via TypeRepr; unmapped tags pass through to DDL uppercased.
type ColType string

// Built-in column type tags.
const (
	TInt       ColType = "int"
	TBigInt    ColType = "bigint"
	TFloat     ColType = "float"
	TText      ColType = "text"
	TBool      ColType = "bool"
	TTimestamp ColType = "timestamp"
	TDate      ColType = "date"
	TJSON      ColType = "json"
)

// ColumnDef is one named, typed column in a schema.
type ColumnDef struct {
	Name string
	Type ColType
}

// Schema is an ordered, case-aware mapping from column name to type.
// Lookups are case-insensitive by default while the stored spelling of
// each name is preserved; NewCaseSensitiveSchema switches to exact
// matching.
type Schema struct {
	cols          []ColumnDef
	index         map[string]int
	caseSensitive bool
}

// NewSchema builds a schema with case-insensitive name lookup.
func NewSchema(cols ...ColumnDef) *Schema {
	return newSchema(cols, false)
}

// NewCaseSensitiveSchema builds a schema with exact name lookup.
func NewCaseSensitiveSchema(cols ...ColumnDef) *Schema {
	return newSchema(cols, true)
}

func newSchema(cols []ColumnDef, caseSensitive bool) *Schema {
	s := &Schema{
		cols:          append([]ColumnDef(nil), cols...),
		index:         make(map[string]int, len(cols)),
		caseSensitive: caseSensitive,
	}
	for i, c := range s.cols {
		s.index[s.fold(c.Name)] = i
	}
	return s
}

func (s *Schema) fold(name string) string {
	if s.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// Len returns the number of columns. A nil schema has length zero.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cols)
}

// Key returns the canonical stored spelling for name.
func (s *Schema) Key(name string) (string, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[s.fold(name)]
	if !ok {
		return "", false
	}
	return s.cols[i].Name, true
}

// Type returns the declared type for name.
func (s *Schema) Type(name string) (ColType, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[s.fold(name)]
	if !ok {
		return "", false
	}
	return s.cols[i].Type, true
}

// Columns returns the column definitions in declaration order.
func (s *Schema) Columns() []ColumnDef {
	if s == nil {
		return nil
	}
	return append([]ColumnDef(nil), s.cols...)
}

// deriveSchema builds a schema from a projection list. Every item must
// carry a name (a Column or an Alias); bare expressions fail.
func deriveSchema(base *Schema, cols []Expr) (*Schema, error) {
	defs := make([]ColumnDef, 0, len(cols))
	for _, e := range cols {
		name, err := exprName(e)
		if err != nil {
			return nil, err
		}
		t, _ := TypeOf(e)
		defs = append(defs, ColumnDef{Name: name, Type: t})
	}
	if base != nil && base.caseSensitive {
		return NewCaseSensitiveSchema(defs...), nil
	}
	return NewSchema(defs...), nil
}

// exprName returns the projected name of an expression, failing for
// bare expressions that carry none.
func exprName(e Expr) (string, error) {
	switch n := e.(type) {
	case *Alias:
		return n.Name, nil
	case *Column:
		return n.Name, nil
	case *ResolveColumn:
		if n.resolved == nil {
			return "", &SchemaError{Message: "column not resolved: " + n.Name}
		}
		return exprName(n.resolved)
	}
	return "", &SchemaError{Message: "projection item has no name; wrap it in an Alias"}
}
