package compile

import (
	"strings"

	"github.com/leapstack-labs/querykit/pkg/query"
)

func (c Compiler) compileCreateTable(n *query.CreateTable) (string, error) {
	schema := n.Path.SchemaOf()
	if schema == nil {
		return "", errf("schema required to create table %s", strings.Join(n.Path.Path, "."))
	}
	path, err := c.compileAny(n.Path)
	if err != nil {
		return "", err
	}
	defs := make([]string, 0, schema.Len())
	for _, col := range schema.Columns() {
		defs = append(defs, col.Name+" "+c.dialect.TypeRepr(string(col.Type)))
	}
	ne := ""
	if n.IfNotExists {
		ne = "IF NOT EXISTS "
	}
	return "CREATE TABLE " + ne + path + "(" + strings.Join(defs, ", ") + ")", nil
}

func (c Compiler) compileDropTable(n *query.DropTable) (string, error) {
	path, err := c.compileAny(n.Path)
	if err != nil {
		return "", err
	}
	ie := ""
	if n.IfExists {
		ie = "IF EXISTS "
	}
	return "DROP TABLE " + ie + path, nil
}

func (c Compiler) compileInsert(n *query.InsertToTable) (string, error) {
	path, err := c.compileAny(n.Path)
	if err != nil {
		return "", err
	}
	expr, err := c.compileAny(n.Expr)
	if err != nil {
		return "", err
	}
	return "INSERT INTO " + path + " " + expr, nil
}

func (c Compiler) compileCommit() (string, error) {
	if c.dialect.Autocommit {
		return "", ErrSkip
	}
	return "COMMIT", nil
}

func (c Compiler) compileExplain(n *query.Explain) (string, error) {
	inner, err := c.compileAny(n.Target)
	if err != nil {
		return "", err
	}
	return "EXPLAIN " + inner, nil
}
