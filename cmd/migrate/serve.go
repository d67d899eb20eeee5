// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taibuivan/microblog/internal/api"
	"github.com/taibuivan/microblog/internal/platform/constants"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/migration"
	pgstore "github.com/taibuivan/microblog/internal/platform/postgres"
	redisstore "github.com/taibuivan/microblog/internal/platform/redis"
	"github.com/taibuivan/microblog/internal/revisions"
)

// serve runs the read-only status API until ctx is cancelled.
func (a *app) serve(ctx context.Context) error {
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}
	log := a.log

	dialect, err := ddl.DialectFromURL(a.cfg.DatabaseURL)
	if err != nil {
		return err
	}

	runner, err := migration.NewRunner(a.graph, a.cfg.DatabaseURL, log)
	if err != nil {
		return err
	}

	startupCtx, startupCancel := context.WithTimeout(ctx, constants.StartupTimeout)
	defer startupCancel()

	var deps api.HealthDependencies

	// ── PostgreSQL ────────────────────────────────────────────────────────
	if dialect == ddl.Postgres {
		pool, err := pgstore.NewPool(startupCtx, a.cfg.DatabaseURL, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()
		deps.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
	} else {
		deps.CheckDatabase = func(ctx context.Context) error {
			_, _, err := runner.Current(ctx)
			return err
		}
	}

	// ── Redis ─────────────────────────────────────────────────────────────
	if a.cfg.HasRedis() {
		rdb, err := redisstore.NewClient(startupCtx, a.cfg.RedisURL, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		deps.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}

	// ── Schema ────────────────────────────────────────────────────────────
	deps.CheckSchema = func(ctx context.Context) error {
		status, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		if status.IsDirty {
			return migration.ErrDirty
		}
		if len(status.Pending) > 0 {
			return fmt.Errorf("%d revision(s) pending", len(status.Pending))
		}
		return nil
	}

	// ── HTTP Server ───────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(deps, log)
	service := revisions.NewService(runner, a.graph, dialect, log)
	server := api.NewServer(ctx, a.cfg, log, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Revisions: revisions.NewHandler(service),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("shutdown_signal_received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	log.Info("server_stopped_cleanly")
	return nil
}
