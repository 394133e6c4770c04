package dataset

import (
	_ "embed"
	"strings"
)

//go:embed schema.sql
var schema string

// SchemaStatements returns the DDL for the local mirror tables, one statement
// per element. The DDL is valid for both SQLite and PostgreSQL.
func SchemaStatements() []string {
	var out []string
	for _, part := range strings.Split(schema, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
