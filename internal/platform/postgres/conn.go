// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// SchemaConn adapts a pgx handle to [revision.Conn].
//
// Pass a pgx.Tx to make a revision atomic; the caller owns commit and rollback.
func SchemaConn(execer Execer) revision.Conn {
	return schemaConn{execer: execer}
}

type schemaConn struct {
	execer Execer
}

func (schemaConn) Dialect() ddl.Dialect { return ddl.Postgres }

func (c schemaConn) Exec(ctx context.Context, statement string) error {
	_, err := c.execer.Exec(ctx, statement)
	return err
}
