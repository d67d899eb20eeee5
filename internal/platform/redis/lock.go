// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/microblog/internal/platform/constants"
)

// ErrLockLost is returned by unlock when the lock expired and was taken by someone else.
var ErrLockLost = errors.New("redis: lock expired before release")

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript extends the lease only if the key still holds our token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Lock is a single-holder lease stored under one key.
//
// While held, the lease is extended every third of its TTL, so the TTL only
// bounds how long a crashed holder blocks other runners. It satisfies
// migration.Locker.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// NewLock builds a lock. Zero key/ttl fall back to the platform defaults.
func NewLock(client *redis.Client, key string, ttl time.Duration, logger *slog.Logger) *Lock {
	if key == "" {
		key = constants.DefaultLockKey
	}
	if ttl <= 0 {
		ttl = constants.DefaultLockTTL
	}
	return &Lock{
		client: client,
		key:    key,
		ttl:    ttl,
		retry:  constants.LockRetryInterval,
		logger: logger,
	}
}

// Lock polls SET NX until the key is ours or the context ends.
func (l *Lock) Lock(context stdctx.Context) (func(stdctx.Context) error, error) {
	token := uuid.NewString()
	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	waiting := false
	for {
		acquired, err := l.client.SetNX(context, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("redis: lock %s: %w", l.key, err)
		}
		if acquired {
			l.logger.Info("migration_lock_acquired", slog.String("key", l.key), slog.Duration("ttl", l.ttl))
			stop, done := make(chan struct{}), make(chan struct{})
			go l.keepAlive(stdctx.WithoutCancel(context), token, stop, done)
			return l.release(token, stop, done), nil
		}

		if !waiting {
			l.logger.Info("migration_lock_waiting", slog.String("key", l.key))
			waiting = true
		}

		select {
		case <-context.Done():
			return nil, fmt.Errorf("redis: lock %s: %w", l.key, context.Err())
		case <-ticker.C:
		}
	}
}

// keepAlive renews the lease until stop is closed or the lease is gone.
func (l *Lock) keepAlive(context stdctx.Context, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		renewCtx, cancel := stdctx.WithTimeout(context, interval)
		renewed, err := renewScript.Run(renewCtx, l.client, []string{l.key}, token, l.ttl.Milliseconds()).Int()
		cancel()

		switch {
		case err != nil:
			l.logger.Warn("migration_lock_renew_failed", slog.String("key", l.key), slog.Any("error", err))
		case renewed == 0:
			l.logger.Error("migration_lock_lost", slog.String("key", l.key))
			return
		}
	}
}

func (l *Lock) release(token string, stop chan<- struct{}, done <-chan struct{}) func(stdctx.Context) error {
	var once sync.Once
	return func(context stdctx.Context) error {
		once.Do(func() { close(stop) })
		<-done

		deleted, err := releaseScript.Run(context, l.client, []string{l.key}, token).Int()
		if err != nil {
			return fmt.Errorf("redis: unlock %s: %w", l.key, err)
		}
		if deleted == 0 {
			return ErrLockLost
		}
		l.logger.Info("migration_lock_released", slog.String("key", l.key))
		return nil
	}
}
