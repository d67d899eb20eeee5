// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ddl describes schema changes as data and renders them to SQL.

Revisions never carry raw SQL strings. They hold a list of [Operation] values
which are rendered for the connected engine by a [Dialect] at execution time.

Architecture:

  - Operations: CreateTable, DropTable, CreateIndex, DropIndex.
  - Dialects: Postgres and SQLite, chosen from a database URL scheme.
  - Determinism: columns and constraints render in declaration order.
*/
package ddl

import (
	"fmt"
	"strings"
)

// # Column Types

// Type is the portable column type of a [Column].
type Type int

const (
	// Integer is a 32-bit signed integer.
	Integer Type = iota + 1
	// BigInteger is a 64-bit signed integer.
	BigInteger
	// String is a bounded character column; Length sets the bound.
	String
	// Text is an unbounded character column.
	Text
	// Boolean is a true/false column.
	Boolean
	// Timestamp is a date-time without time zone.
	Timestamp
)

// String returns the lower-case type name.
func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case BigInteger:
		return "biginteger"
	case String:
		return "string"
	case Text:
		return "text"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// # Table Elements

// Column describes one column of a table.
type Column struct {
	Name     string
	Type     Type
	Length   int
	Nullable bool
}

// ForeignKey binds Columns to RefColumns of RefTable.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// Unique is a table-level uniqueness constraint.
type Unique struct {
	Columns []string
}

// # Operations

// Operation is a single schema change.
type Operation interface {
	// SQL renders the operation as one statement for the dialect.
	SQL(dialect Dialect) string
	// Describe returns a short human summary, e.g. "create table followers".
	Describe() string
}

// CreateTable creates a table. It never renders IF NOT EXISTS.
type CreateTable struct {
	Name        string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	Uniques     []Unique
}

// SQL implements [Operation].
func (op CreateTable) SQL(dialect Dialect) string {
	primary := make(map[string]bool, len(op.PrimaryKey))
	for _, name := range op.PrimaryKey {
		primary[name] = true
	}

	lines := make([]string, 0, len(op.Columns)+len(op.ForeignKeys)+len(op.Uniques)+1)
	for _, column := range op.Columns {
		lines = append(lines, renderColumn(dialect, column, primary[column.Name] && len(op.PrimaryKey) == 1))
	}

	if len(op.PrimaryKey) > 0 {
		lines = append(lines, fmt.Sprintf("PRIMARY KEY (%s)", quoteList(dialect, op.PrimaryKey)))
	}

	for _, unique := range op.Uniques {
		lines = append(lines, fmt.Sprintf("UNIQUE (%s)", quoteList(dialect, unique.Columns)))
	}

	for _, fk := range op.ForeignKeys {
		lines = append(lines, fmt.Sprintf("FOREIGN KEY(%s) REFERENCES %s (%s)",
			quoteList(dialect, fk.Columns),
			dialect.QuoteIdent(fk.RefTable),
			quoteList(dialect, fk.RefColumns),
		))
	}

	return fmt.Sprintf("CREATE TABLE %s (\n\t%s\n)", dialect.QuoteIdent(op.Name), strings.Join(lines, ",\n\t"))
}

// Describe implements [Operation].
func (op CreateTable) Describe() string { return "create table " + op.Name }

// DropTable drops a table. It never renders IF EXISTS.
type DropTable struct {
	Name string
}

// SQL implements [Operation].
func (op DropTable) SQL(dialect Dialect) string {
	return "DROP TABLE " + dialect.QuoteIdent(op.Name)
}

// Describe implements [Operation].
func (op DropTable) Describe() string { return "drop table " + op.Name }

// CreateIndex creates a (possibly unique) index.
type CreateIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// SQL implements [Operation].
func (op CreateIndex) SQL(dialect Dialect) string {
	keyword := "CREATE INDEX"
	if op.Unique {
		keyword = "CREATE UNIQUE INDEX"
	}
	return fmt.Sprintf("%s %s ON %s (%s)", keyword,
		dialect.QuoteIdent(op.Name), dialect.QuoteIdent(op.Table), quoteList(dialect, op.Columns))
}

// Describe implements [Operation].
func (op CreateIndex) Describe() string { return "create index " + op.Name }

// DropIndex drops an index. Table is informational; neither dialect needs it.
type DropIndex struct {
	Name  string
	Table string
}

// SQL implements [Operation].
func (op DropIndex) SQL(dialect Dialect) string {
	return "DROP INDEX " + dialect.QuoteIdent(op.Name)
}

// Describe implements [Operation].
func (op DropIndex) Describe() string { return "drop index " + op.Name }

// # Rendering

// Script renders a list of operations as a single script, one statement per line group.
func Script(dialect Dialect, operations []Operation) string {
	statements := make([]string, 0, len(operations))
	for _, op := range operations {
		statements = append(statements, op.SQL(dialect)+";")
	}
	return strings.Join(statements, "\n\n")
}

func renderColumn(dialect Dialect, column Column, soloPrimaryKey bool) string {
	var builder strings.Builder
	builder.WriteString(dialect.QuoteIdent(column.Name))
	builder.WriteByte(' ')

	if soloPrimaryKey {
		builder.WriteString(dialect.AutoIncrementType(column))
	} else {
		builder.WriteString(dialect.ColumnType(column))
	}

	if !column.Nullable {
		builder.WriteString(" NOT NULL")
	}
	return builder.String()
}

func quoteList(dialect Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = dialect.QuoteIdent(name)
	}
	return strings.Join(quoted, ", ")
}
