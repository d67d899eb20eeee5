// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ddl

import (
	"fmt"
	"strings"
)

// Dialect renders portable column types and identifiers for one SQL engine.
type Dialect interface {
	// Name is the engine name ("postgres", "sqlite").
	Name() string
	// QuoteIdent returns a quoted identifier.
	QuoteIdent(name string) string
	// ColumnType returns the engine type of a column.
	ColumnType(column Column) string
	// AutoIncrementType returns the type of a single-column integer primary key.
	AutoIncrementType(column Column) string
}

var (
	// Postgres is the PostgreSQL dialect.
	Postgres Dialect = postgresDialect{}
	// SQLite is the SQLite 3 dialect.
	SQLite Dialect = sqliteDialect{}
)

// DialectFromURL picks a dialect from the scheme of a database URL.
func DialectFromURL(databaseURL string) (Dialect, error) {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return nil, fmt.Errorf("ddl: database url has no scheme")
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql", "pgx", "pgx5":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("ddl: unsupported database scheme %q", scheme)
	}
}

// # PostgreSQL

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (postgresDialect) ColumnType(column Column) string {
	switch column.Type {
	case Integer:
		return "INTEGER"
	case BigInteger:
		return "BIGINT"
	case String:
		return fmt.Sprintf("VARCHAR(%d)", column.Length)
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	case Timestamp:
		return "TIMESTAMP WITHOUT TIME ZONE"
	default:
		return "TEXT"
	}
}

func (dialect postgresDialect) AutoIncrementType(column Column) string {
	switch column.Type {
	case Integer:
		return "SERIAL"
	case BigInteger:
		return "BIGSERIAL"
	default:
		return dialect.ColumnType(column)
	}
}

// # SQLite

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) ColumnType(column Column) string {
	switch column.Type {
	case Integer, BigInteger:
		return "INTEGER"
	case String:
		return fmt.Sprintf("VARCHAR(%d)", column.Length)
	case Text:
		return "TEXT"
	case Boolean:
		return "BOOLEAN"
	case Timestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

// AutoIncrementType keeps INTEGER so a single-column primary key aliases the rowid.
func (dialect sqliteDialect) AutoIncrementType(column Column) string {
	return dialect.ColumnType(column)
}
