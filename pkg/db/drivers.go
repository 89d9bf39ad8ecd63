package db

// Driver registrations for the supported backends. Importing this
// package makes "duckdb", "sqlite" and "pgx" available to Open.
import (
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb"
	_ "modernc.org/sqlite"
)
