// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies raw storage-engine errors for logs and reports.
//
// Classification never replaces the error: revisions surface the engine error
// verbatim and callers use [Classify] only to decide what to say about it.
package dberr

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Kind is the storage-level category of an error.
type Kind string

const (
	Unknown               Kind = "unknown"
	NotFound              Kind = "not_found"
	DuplicateTable        Kind = "duplicate_table"
	DuplicateObject       Kind = "duplicate_object"
	UndefinedTable        Kind = "undefined_table"
	UndefinedObject       Kind = "undefined_object"
	InsufficientPrivilege Kind = "insufficient_privilege"
	DependentObjects      Kind = "dependent_objects"
	ForeignKeyViolation   Kind = "foreign_key_violation"
	UniqueViolation       Kind = "unique_violation"
	NotNullViolation      Kind = "not_null_violation"
	LockTimeout           Kind = "lock_timeout"
)

var pgKinds = map[string]Kind{
	pgerrcode.DuplicateTable:             DuplicateTable,
	pgerrcode.DuplicateObject:            DuplicateObject,
	pgerrcode.UndefinedTable:             UndefinedTable,
	pgerrcode.UndefinedObject:            UndefinedObject,
	pgerrcode.InsufficientPrivilege:      InsufficientPrivilege,
	pgerrcode.DependentObjectsStillExist: DependentObjects,
	pgerrcode.ForeignKeyViolation:        ForeignKeyViolation,
	pgerrcode.UniqueViolation:            UniqueViolation,
	pgerrcode.NotNullViolation:           NotNullViolation,
	pgerrcode.LockNotAvailable:           LockTimeout,
	pgerrcode.InvalidForeignKey:          UndefinedObject,
	pgerrcode.InvalidSchemaDefinition:    UndefinedObject,
}

// sqliteKinds maps SQLite message fragments; the driver exposes no SQLSTATE.
var sqliteKinds = []struct {
	fragment string
	kind     Kind
}{
	{"already exists", DuplicateTable},
	{"no such table", UndefinedTable},
	{"no such index", UndefinedObject},
	{"FOREIGN KEY constraint failed", ForeignKeyViolation},
	{"UNIQUE constraint failed", UniqueViolation},
	{"NOT NULL constraint failed", NotNullViolation},
}

// Classify returns the [Kind] of err, walking its wrap chain.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if kind, ok := pgKinds[pgErr.Code]; ok {
			return kind
		}
		return Unknown
	}

	message := err.Error()
	for _, candidate := range sqliteKinds {
		if strings.Contains(message, candidate.fragment) {
			return candidate.kind
		}
	}
	return Unknown
}

// Code returns the SQLSTATE of a PostgreSQL error, or "" for anything else.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
