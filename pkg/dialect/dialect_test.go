package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	d := New("ansi").Build()

	assert.Equal(t, `"name"`, d.QuoteIdentifier("name"))
	assert.Equal(t, `"db"."users"`, d.QuotePath("db", "users"))
	assert.Equal(t, "CAST(x AS VARCHAR)", d.ToString("x"))
	assert.Equal(t, "concat(a, b)", d.Concat([]string{"a", "b"}))
	assert.Equal(t, "a IS DISTINCT FROM b", d.IsDistinctFrom("a", "b"))
	assert.Equal(t, "LIMIT 10", d.OffsetLimit(0, "10"))
	assert.Equal(t, "LIMIT 10 OFFSET 5", d.OffsetLimit(5, "10"))
	assert.Equal(t, "", d.OffsetLimit(0, ""))
	assert.Equal(t, "random()", d.Random())
	assert.False(t, d.Autocommit)
}

func TestQuoteEscaping(t *testing.T) {
	d := New("ansi").Build()
	assert.Equal(t, `"a""b"`, d.QuoteIdentifier(`a"b`))

	bracket := New("mssql").Identifiers("[", "]", "]]", NormCaseSensitive).Build()
	assert.Equal(t, "[a]]b]", bracket.QuoteIdentifier("a]b"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "abc", New("x").Build().NormalizeName("ABC"))
	assert.Equal(t, "ABC", New("x").Identifiers(`"`, `"`, `""`, NormUppercase).Build().NormalizeName("abc"))
	assert.Equal(t, "AbC", New("x").Identifiers(`"`, `"`, `""`, NormCaseSensitive).Build().NormalizeName("AbC"))
}

func TestTypeRepr(t *testing.T) {
	d := New("x").TypeNames(map[string]string{"text": "VARCHAR(65535)"}).Build()
	assert.Equal(t, "VARCHAR(65535)", d.TypeRepr("text"))
	assert.Equal(t, "VARCHAR(65535)", d.TypeRepr("TEXT"))
	// Unmapped tags pass through uppercased.
	assert.Equal(t, "UUID", d.TypeRepr("uuid"))
}

func TestBuilderOverrides(t *testing.T) {
	d := New("custom").
		Autocommit().
		ToString(func(e string) string { return "str(" + e + ")" }).
		Concat(func(items []string) string { return "cc" }).
		IsDistinctFrom(func(a, b string) string { return a + " <> " + b }).
		OffsetLimit(func(o int, l string) string { return "TOP " + l }).
		Random(func() string { return "rnd()" }).
		Build()

	assert.True(t, d.Autocommit)
	assert.Equal(t, "str(x)", d.ToString("x"))
	assert.Equal(t, "cc", d.Concat(nil))
	assert.Equal(t, "a <> b", d.IsDistinctFrom("a", "b"))
	assert.Equal(t, "TOP 5", d.OffsetLimit(0, "5"))
	assert.Equal(t, "rnd()", d.Random())
}

func TestRegistry(t *testing.T) {
	d := New("testonly").Build()
	Register(d)

	got, ok := Get("TESTONLY")
	require.True(t, ok)
	assert.Same(t, d, got)

	assert.Contains(t, List(), "testonly")

	_, err := MustGet("")
	assert.ErrorIs(t, err, ErrDialectRequired)

	_, err = MustGet("no-such-dialect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-dialect")
}
