// Package dialect provides SQL dialect configuration for the query compiler.
//
// This package contains the public contract the compiler delegates to for
// everything backend-specific: identifier quoting, string conversion and
// concatenation, null-safe comparison, paging clauses, random expressions,
// and column type rendering for DDL. Concrete dialect implementations are
// registered from pkg/dialects/* packages.
package dialect

import (
	"fmt"
	"strings"
)

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
)

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// Dialect represents a SQL dialect configuration.
//
// The zero hooks fall back to ANSI defaults, so a dialect only overrides
// what its backend actually deviates on.
type Dialect struct {
	Name        string
	Identifiers IdentifierConfig

	// Autocommit reports whether the backend commits implicitly. The
	// compiler renders COMMIT as a skip under an autocommitting dialect.
	Autocommit bool

	toString       func(expr string) string
	concat         func(items []string) string
	isDistinctFrom func(a, b string) string
	offsetLimit    func(offset int, limit string) string
	random         func() string
	typeNames      map[string]string
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case NormUppercase:
		return strings.ToUpper(name)
	case NormLowercase:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// QuotePath quotes a dotted object path, e.g. ["db","users"] -> "db"."users".
func (d *Dialect) QuotePath(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = d.QuoteIdentifier(p)
	}
	return strings.Join(quoted, ".")
}

// ToString renders a SQL expression cast to the backend's string type.
func (d *Dialect) ToString(expr string) string {
	if d.toString != nil {
		return d.toString(expr)
	}
	return fmt.Sprintf("CAST(%s AS VARCHAR)", expr)
}

// Concat renders dialect-specific string concatenation over pre-compiled items.
func (d *Dialect) Concat(items []string) string {
	if d.concat != nil {
		return d.concat(items)
	}
	return "concat(" + strings.Join(items, ", ") + ")"
}

// IsDistinctFrom renders a null-safe inequality between two compiled expressions.
func (d *Dialect) IsDistinctFrom(a, b string) string {
	if d.isDistinctFrom != nil {
		return d.isDistinctFrom(a, b)
	}
	return fmt.Sprintf("%s IS DISTINCT FROM %s", a, b)
}

// OffsetLimit renders the paging clause. The limit operand is already
// compiled SQL; an empty limit with a zero offset renders nothing.
func (d *Dialect) OffsetLimit(offset int, limit string) string {
	if d.offsetLimit != nil {
		return d.offsetLimit(offset, limit)
	}
	if limit == "" {
		if offset == 0 {
			return ""
		}
		return fmt.Sprintf("OFFSET %d", offset)
	}
	if offset == 0 {
		return fmt.Sprintf("LIMIT %s", limit)
	}
	return fmt.Sprintf("LIMIT %s OFFSET %d", limit, offset)
}

// Random renders the backend's random number expression.
func (d *Dialect) Random() string {
	if d.random != nil {
		return d.random()
	}
	return "random()"
}

// TypeRepr renders an abstract column type tag for DDL.
// Unmapped tags pass through uppercased so ad-hoc types keep working.
func (d *Dialect) TypeRepr(t string) string {
	if repr, ok := d.typeNames[strings.ToLower(t)]; ok {
		return repr
	}
	return strings.ToUpper(t)
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// New creates a new dialect builder with the given name.
func New(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: NormLowercase,
			},
		},
	}
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm NormalizationStrategy) *Builder {
	b.dialect.Identifiers = IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// Autocommit marks the dialect as implicitly committing.
func (b *Builder) Autocommit() *Builder {
	b.dialect.Autocommit = true
	return b
}

// ToString overrides the string-cast rendering.
func (b *Builder) ToString(fn func(expr string) string) *Builder {
	b.dialect.toString = fn
	return b
}

// Concat overrides string concatenation rendering.
func (b *Builder) Concat(fn func(items []string) string) *Builder {
	b.dialect.concat = fn
	return b
}

// IsDistinctFrom overrides null-safe inequality rendering.
func (b *Builder) IsDistinctFrom(fn func(a, b string) string) *Builder {
	b.dialect.isDistinctFrom = fn
	return b
}

// OffsetLimit overrides paging clause rendering.
func (b *Builder) OffsetLimit(fn func(offset int, limit string) string) *Builder {
	b.dialect.offsetLimit = fn
	return b
}

// Random overrides the random expression rendering.
func (b *Builder) Random(fn func() string) *Builder {
	b.dialect.random = fn
	return b
}

// TypeNames registers DDL renderings for abstract column type tags.
// Keys are matched case-insensitively.
func (b *Builder) TypeNames(names map[string]string) *Builder {
	if b.dialect.typeNames == nil {
		b.dialect.typeNames = make(map[string]string, len(names))
	}
	for tag, repr := range names {
		b.dialect.typeNames[strings.ToLower(tag)] = repr
	}
	return b
}

// Build returns the constructed dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
