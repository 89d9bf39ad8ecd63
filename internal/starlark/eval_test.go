package starlark

import (
	"testing"

	"github.com/leapstack-labs/querykit/internal/testutil"
	"github.com/leapstack-labs/querykit/pkg/compile"
	"github.com/leapstack-labs/querykit/pkg/dialect"
	"github.com/leapstack-labs/querykit/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backtick = dialect.New("backtick-star").
	Identifiers("`", "`", "``", dialect.NormCaseSensitive).
	Build()

func evalAndCompile(t *testing.T, src string) string {
	t.Helper()
	node, err := Eval("test.star", src, testutil.NewTestLogger(t))
	require.NoError(t, err)
	sql, err := compile.New(backtick).Compile(node)
	require.NoError(t, err)
	return sql
}

func TestScriptBuildsSelect(t *testing.T) {
	sql := evalAndCompile(t, `
users = table("db", "users")
query = users.where(this.age.gt(18)).select(this.name, this.age).limit(10)
`)
	assert.Equal(t,
		"SELECT `name`, `age` FROM `db`.`users` WHERE (`age` > 18) LIMIT 10",
		sql)
}

func TestScriptJoin(t *testing.T) {
	sql := evalAndCompile(t, `
users = table("db", "users")
orders = table("orders")
query = users.join(orders).on(users.col("id").eq(orders.col("user_id"))).select(users.col("name"), orders.col("total"))
`)
	assert.Equal(t,
		"SELECT `tmp1`.`name`, `tmp2`.`total` FROM `db`.`users` `tmp1` JOIN `orders` `tmp2` ON (`tmp1`.`id` = `tmp2`.`user_id`)",
		sql)
}

func TestScriptNamedSelectItems(t *testing.T) {
	sql := evalAndCompile(t, `
users = table("users")
query = users.select(n=this.name)
`)
	assert.Equal(t, "SELECT `name` AS `n` FROM `users`", sql)
}

func TestScriptOperators(t *testing.T) {
	sql := evalAndCompile(t, `
t = table("t")
query = t.where(t["a"].gt(0).or_(t["b"].eq(None)))
`)
	assert.Equal(t,
		"SELECT * FROM `t` WHERE ((`a` > 0) OR (`b` IS NULL))",
		sql)
}

func TestScriptPlusOperator(t *testing.T) {
	sql := evalAndCompile(t, `
t = table("t")
query = t.select(total=t["a"] + t["b"])
`)
	assert.Equal(t, "SELECT (`a` + `b`) AS `total` FROM `t`", sql)
}

func TestScriptSchemaLookup(t *testing.T) {
	node, err := Eval("test.star", `
users = table("users", schema={"ID": "bigint", "name": "text"})
query = users.select(users.col("id"))
`, testutil.NewTestLogger(t))
	require.NoError(t, err)

	s, ok := node.(*query.Select)
	require.True(t, ok)
	col, ok := s.Columns[0].(*query.Column)
	require.True(t, ok)
	// Canonicalized through the schema.
	assert.Equal(t, "ID", col.Name)
}

func TestScriptCommit(t *testing.T) {
	node, err := Eval("test.star", `query = commit()`, testutil.NewTestLogger(t))
	require.NoError(t, err)
	_, ok := node.(*query.Commit)
	assert.True(t, ok)
}

func TestScriptMissingGlobal(t *testing.T) {
	_, err := Eval("test.star", `x = 1`, testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"query"`)
}

func TestScriptNonStringIndexFails(t *testing.T) {
	_, err := Eval("test.star", `
t = table("t")
query = t.where(t[1].gt(0))
`, testutil.NewTestLogger(t))
	require.Error(t, err)
}

func TestScriptCaseWhenAndCount(t *testing.T) {
	sql := evalAndCompile(t, `
t = table("t")
col = t["x"]
query = t.select(
    tag=case_when([(col.gt(0), "pos")], else_="neg"),
    n=count_of(col, distinct=True),
)
`)
	assert.Equal(t,
		"SELECT CASE WHEN (`x` > 0) THEN 'pos' ELSE 'neg' END AS `tag`, count(distinct `x`) AS `n` FROM `t`",
		sql)
}
