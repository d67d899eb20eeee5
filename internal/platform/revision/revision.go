// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package revision models versioned, reversible schema changes and the graph
that orders them.

A [Revision] is one node: an opaque ID, a parent pointer and two lists of
[ddl.Operation] (upgrade and downgrade). Revisions do not reach for an ambient
connection; the caller hands them a [Conn] explicitly.

# Failures

Storage errors are never translated. They are wrapped in a [*Failure] that
matches [ErrApply] or [ErrRevert] with errors.Is and unwraps to the raw error.
*/
package revision

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/microblog/internal/platform/ddl"
)

// # Connection Contract

// Conn is the schema-modification context a revision runs against.
type Conn interface {
	// Dialect is the SQL dialect of the connected engine.
	Dialect() ddl.Dialect
	// Exec runs a single DDL statement.
	Exec(ctx context.Context, statement string) error
}

// SQLExecer is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type SQLExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// SQLConn adapts a database/sql handle to [Conn].
func SQLConn(execer SQLExecer, dialect ddl.Dialect) Conn {
	return sqlConn{execer: execer, dialect: dialect}
}

type sqlConn struct {
	execer  SQLExecer
	dialect ddl.Dialect
}

func (c sqlConn) Dialect() ddl.Dialect { return c.dialect }

func (c sqlConn) Exec(ctx context.Context, statement string) error {
	_, err := c.execer.ExecContext(ctx, statement)
	return err
}

// # Direction

// Direction tells which list of operations runs.
type Direction int

const (
	// Up applies a revision.
	Up Direction = iota + 1
	// Down reverts a revision.
	Down
)

// String returns "upgrade" or "downgrade".
func (d Direction) String() string {
	if d == Down {
		return "downgrade"
	}
	return "upgrade"
}

// # Failures

var (
	// ErrApply matches every failure raised while applying a revision.
	ErrApply = errors.New("revision: apply failed")
	// ErrRevert matches every failure raised while reverting a revision.
	ErrRevert = errors.New("revision: revert failed")
)

// Failure carries the raw storage error of a failed operation.
type Failure struct {
	Revision  string
	Direction Direction
	Operation string
	Err       error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("revision %s: %s (%s): %v", f.Revision, f.Direction, f.Operation, f.Err)
}

// Unwrap exposes the storage error.
func (f *Failure) Unwrap() error { return f.Err }

// Is matches [ErrApply] or [ErrRevert] according to the direction.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrApply:
		return f.Direction == Up
	case ErrRevert:
		return f.Direction == Down
	}
	return false
}

// # Revision

// Revision is one node of the migration chain. It is never mutated after registration.
type Revision struct {
	// ID is the opaque unique token of this revision.
	ID string
	// Parent is the revision this one is layered on; empty for a root.
	Parent string
	// BranchLabels name the branch this revision starts, if any.
	BranchLabels []string
	// DependsOn lists extra revisions that must be applied first.
	DependsOn []string
	// Message is a short human label.
	Message string
	// CreatedAt is the authoring time.
	CreatedAt time.Time
	// Upgrade runs in order on apply.
	Upgrade []ddl.Operation
	// Downgrade runs in order on revert.
	Downgrade []ddl.Operation
}

// IsRoot reports whether the revision has no parent.
func (r *Revision) IsRoot() bool { return r.Parent == "" }

// Operations returns the operation list for a direction.
func (r *Revision) Operations(direction Direction) []ddl.Operation {
	if direction == Down {
		return r.Downgrade
	}
	return r.Upgrade
}

// Script renders the operations of a direction for a dialect.
func (r *Revision) Script(dialect ddl.Dialect, direction Direction) string {
	return ddl.Script(dialect, r.Operations(direction))
}

// Apply runs the upgrade operations. The first storage error stops it.
func (r *Revision) Apply(ctx context.Context, conn Conn) error {
	return r.run(ctx, conn, Up)
}

// Revert runs the downgrade operations. The first storage error stops it.
func (r *Revision) Revert(ctx context.Context, conn Conn) error {
	return r.run(ctx, conn, Down)
}

func (r *Revision) run(ctx context.Context, conn Conn, direction Direction) error {
	for _, op := range r.Operations(direction) {
		if err := conn.Exec(ctx, op.SQL(conn.Dialect())); err != nil {
			return &Failure{Revision: r.ID, Direction: direction, Operation: op.Describe(), Err: err}
		}
	}
	return nil
}

// String returns "<parent> -> <id>, <message>" in the style of migration history listings.
func (r *Revision) String() string {
	parent := "<base>"
	if r.Parent != "" {
		parent = r.Parent
	}
	return fmt.Sprintf("%s -> %s, %s", parent, r.ID, r.Message)
}
