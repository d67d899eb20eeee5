// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import "context"

// Locker serializes migration runs. Lock blocks until the lock is held or ctx
// ends, and returns the function that releases it.
type Locker interface {
	Lock(ctx context.Context) (unlock func(context.Context) error, err error)
}

// NopLocker is used when runs are serialized some other way (a single deploy job).
type NopLocker struct{}

// Lock implements [Locker].
func (NopLocker) Lock(ctx context.Context) (func(context.Context) error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return func(context.Context) error { return nil }, nil
}
