// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revisions

import (
	"context"

	"github.com/taibuivan/microblog/internal/platform/migration"
)

// Store reads the applied state of the database.
//
// [*migration.Runner] satisfies it.
type Store interface {
	History(ctx context.Context) ([]migration.Entry, error)
	Status(ctx context.Context) (migration.Status, error)
}

var _ Store = (*migration.Runner)(nil)
