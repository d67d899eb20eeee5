// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the migration tooling.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the status HTTP server.
  - Database Timing: statement and lock timeouts applied to every connection.
  - Migration: lock defaults and symbolic revision targets.
  - Rate Limiting: per-IP token bucket for the status API.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "microblog-migrate"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 15 * time.Second
)

// # Database Timing

const (
	// StatementTimeout bounds a single DDL statement.
	StatementTimeout = 5 * time.Minute

	// LockWaitTimeout bounds how long DDL waits for a table lock held by live traffic.
	LockWaitTimeout = 30 * time.Second

	// StartupTimeout bounds connecting to every dependency at process start.
	StartupTimeout = 30 * time.Second
)

// # Migration

const (
	// DefaultLockKey is the Redis key guarding concurrent migration runs.
	DefaultLockKey = "migrate:lock"

	// DefaultLockTTL is how long a crashed runner can hold the lock. A live
	// holder renews the lease every third of the TTL, so runs may outlast it.
	DefaultLockTTL = 5 * time.Minute

	// LockRetryInterval is the polling interval while waiting for the lock.
	LockRetryInterval = 250 * time.Millisecond

	// SourceName is the golang-migrate source name of the revision graph.
	SourceName = "revisions"
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
	HeaderContentType   = "Content-Type"
)
