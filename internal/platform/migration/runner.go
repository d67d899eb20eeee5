// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration runs the revision graph against a database with
// golang-migrate.
//
// # Architecture
//
// This package belongs to the Infrastructure layer. The revision graph is
// handed to golang-migrate as a [Source]; golang-migrate owns version
// bookkeeping (schema_migrations), statement execution and dirty-state
// detection. The runner adds symbolic targets, a cross-process [Locker] and
// structured logging.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	// pgx5 driver registers "pgx5" scheme for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// sqlite3 driver registers "sqlite3" scheme for local databases.
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"

	"github.com/taibuivan/microblog/internal/platform/constants"
	"github.com/taibuivan/microblog/internal/platform/ctxutil"
	"github.com/taibuivan/microblog/internal/platform/dberr"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/pkg/slice"
)

var (
	// ErrDirty is returned when a previous run failed half-way.
	ErrDirty = errors.New("migration: database is in a dirty state (manual intervention required)")
	// ErrWrongDirection is returned when a target lies on the other side of the current revision.
	ErrWrongDirection = errors.New("migration: target is in the other direction")
	// ErrUnknownVersion is returned when the database is at a version the chain does not know.
	ErrUnknownVersion = errors.New("migration: database version is not part of the revision chain")
)

// Runner applies and reverts revisions of one graph against one database.
type Runner struct {
	graph       *revision.Graph
	source      *Source
	databaseURL string
	locker      Locker
	logger      *slog.Logger
}

// Option customizes a [Runner].
type Option func(*Runner)

// WithLocker serializes runs across processes.
func WithLocker(locker Locker) Option {
	return func(r *Runner) { r.locker = locker }
}

// NewRunner prepares a runner. No connection is opened until an operation runs.
//
// # Parameters
//   - graph: The validated revision graph; it must be linear.
//   - databaseURL: A postgres://, pgx5:// or sqlite3:// URL.
//   - logger: Structured logger for migration events.
func NewRunner(graph *revision.Graph, databaseURL string, logger *slog.Logger, options ...Option) (*Runner, error) {
	dialect, err := ddl.DialectFromURL(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}

	src, err := NewSource(graph, dialect)
	if err != nil {
		return nil, err
	}

	runner := &Runner{
		graph:       graph,
		source:      src,
		databaseURL: convertToPgx5DSN(databaseURL),
		locker:      NopLocker{},
		logger:      logger,
	}
	for _, option := range options {
		option(runner)
	}
	return runner, nil
}

// Graph returns the revision graph the runner was built from.
func (r *Runner) Graph() *revision.Graph { return r.graph }

// Source returns the linearized chain.
func (r *Runner) Source() *Source { return r.source }

// Current returns the applied revision ID ("" when nothing is applied) and the dirty flag.
func (r *Runner) Current(ctx context.Context) (string, bool, error) {
	migrator, err := r.open()
	if err != nil {
		return "", false, err
	}
	defer r.close(migrator)

	version, isDirty, err := r.version(migrator)
	if err != nil {
		return "", false, err
	}
	id, err := r.revisionAt(version)
	return id, isDirty, err
}

// Upgrade applies revisions up to target ("head", an ID, prefix or branch label).
func (r *Runner) Upgrade(ctx context.Context, target string) error {
	return r.move(ctx, target, revision.Up)
}

// Downgrade reverts revisions down to target ("base", an ID, prefix or branch label).
func (r *Runner) Downgrade(ctx context.Context, target string) error {
	return r.move(ctx, target, revision.Down)
}

// Stamp records target as the current revision without running any DDL.
// It is the way out of a dirty state once the schema was repaired by hand.
func (r *Runner) Stamp(ctx context.Context, target string) error {
	targetID, err := r.graph.Resolve(target)
	if err != nil {
		return err
	}
	version, _ := r.source.Version(targetID)

	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("migration: acquire lock: %w", err)
	}
	defer r.unlock(unlock)

	migrator, err := r.open()
	if err != nil {
		return err
	}
	defer r.close(migrator)

	forced := int(version)
	if version == 0 {
		forced = database.NilVersion
	}
	if err := migrator.Force(forced); err != nil {
		return fmt.Errorf("migration: stamp failed: %w", err)
	}

	r.logger.Warn("migration_stamped", slog.String("revision", displayID(targetID)))
	return nil
}

func (r *Runner) move(ctx context.Context, target string, direction revision.Direction) error {
	targetID, err := r.graph.Resolve(target)
	if err != nil {
		return err
	}
	targetVersion, _ := r.source.Version(targetID)

	unlock, err := r.locker.Lock(ctx)
	if err != nil {
		return fmt.Errorf("migration: acquire lock: %w", err)
	}
	defer r.unlock(unlock)

	migrator, err := r.open()
	if err != nil {
		return err
	}
	defer r.close(migrator)

	currentVersion, isDirty, err := r.version(migrator)
	if err != nil {
		return err
	}
	if isDirty {
		return fmt.Errorf("%w at version %d", ErrDirty, currentVersion)
	}

	currentID, err := r.revisionAt(currentVersion)
	if err != nil {
		return err
	}

	if targetVersion == currentVersion {
		r.logger.Info("migration_already_up_to_date", slog.String("revision", displayID(currentID)))
		return nil
	}
	if (direction == revision.Up) != (targetVersion > currentVersion) {
		return fmt.Errorf("%w: %s from %s to %s", ErrWrongDirection, direction, displayID(currentID), displayID(targetID))
	}

	steps, _, err := r.graph.Path(currentID, targetID)
	if err != nil {
		return err
	}

	r.logger.Info("migration_started",
		slog.String("direction", direction.String()),
		slog.String("from", displayID(currentID)),
		slog.String("to", displayID(targetID)),
		slog.Int("steps", len(steps)),
	)
	logCtx := ctxutil.WithLogger(ctx, r.logger)
	for _, step := range steps {
		stepCtx := ctxutil.WithRevision(logCtx, step.ID)
		ctxutil.GetLogger(stepCtx).DebugContext(stepCtx, "migration_step_planned", slog.String("message", step.Message))
	}

	stop := watchContext(ctx, migrator)
	if targetVersion == 0 {
		err = migrator.Down()
	} else {
		err = migrator.Migrate(targetVersion)
	}
	stop()

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration: %s failed: %w", direction, r.failure(logCtx, migrator, direction, err))
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("migration: %s interrupted: %w", direction, ctxErr)
	}

	r.logger.Info("migration_successful",
		slog.String("direction", direction.String()),
		slog.String("from", displayID(currentID)),
		slog.String("to", displayID(targetID)),
	)
	return nil
}

// failure turns a statement error reported by golang-migrate into a
// [revision.Failure] naming the revision that failed, and logs it.
// Errors that did not come from running a statement are returned as is.
func (r *Runner) failure(ctx context.Context, migrator *migrate.Migrate, direction revision.Direction, err error) error {
	var dbError *database.Error
	if !errors.As(err, &dbError) || dbError.OrigErr == nil {
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "migration_failed",
			slog.String("direction", direction.String()),
			slog.Any("error", err),
		)
		return err
	}

	failed := &revision.Failure{Direction: direction, Err: dbError.OrigErr}

	// golang-migrate marks the target version of the failing step dirty:
	// the revision itself going up, its parent going down.
	if version, _, versionErr := r.version(migrator); versionErr == nil {
		if direction == revision.Down {
			version++
		}
		if rev, ok := r.source.Revision(version); ok {
			failed.Revision = rev.ID
			failed.Operation = strings.Join(slice.Map(rev.Operations(direction), ddl.Operation.Describe), ", ")
			ctx = ctxutil.WithRevision(ctx, rev.ID)
		}
	}

	ctxutil.GetLogger(ctx).ErrorContext(ctx, "migration_failed",
		slog.String("direction", direction.String()),
		slog.String("kind", string(dberr.Classify(failed.Err))),
		slog.String("sqlstate", dberr.Code(failed.Err)),
		slog.String("query", string(dbError.Query)),
		slog.Any("error", failed.Err),
	)
	return failed
}

func (r *Runner) open() (*migrate.Migrate, error) {
	migrator, err := migrate.NewWithSourceInstance(constants.SourceName, r.source, r.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = &migrateLogger{logger: r.logger, verbose: r.logger.Enabled(context.Background(), slog.LevelDebug)}
	return migrator, nil
}

func (r *Runner) close(migrator *migrate.Migrate) {
	sourceError, dbError := migrator.Close()
	if sourceError != nil {
		r.logger.Error("migration_source_close_failed", slog.Any("error", sourceError))
	}
	if dbError != nil {
		r.logger.Error("migration_db_close_failed", slog.Any("error", dbError))
	}
}

func (r *Runner) unlock(unlock func(context.Context) error) {
	if err := unlock(context.Background()); err != nil {
		r.logger.Error("migration_lock_release_failed", slog.Any("error", err))
	}
}

func (r *Runner) version(migrator *migrate.Migrate) (uint, bool, error) {
	version, isDirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration: failed to get current version: %w", err)
	}
	return version, isDirty, nil
}

func (r *Runner) revisionAt(version uint) (string, error) {
	if version == 0 {
		return "", nil
	}
	rev, ok := r.source.Revision(version)
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	return rev.ID, nil
}

// watchContext asks golang-migrate to stop after the running migration once ctx ends.
func watchContext(ctx context.Context, migrator *migrate.Migrate) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			select {
			case migrator.GracefulStop <- true:
			default:
			}
		case <-done:
		}
	}()
	return func() { close(done) }
}

func displayID(id string) string {
	if id == "" {
		return revision.Base
	}
	return id
}

// convertToPgx5DSN ensures the DSN uses the pgx5:// scheme required by golang-migrate/v4.
func convertToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, prefix) {
			return "pgx5://" + strings.TrimPrefix(dsn, prefix)
		}
	}
	return dsn
}

// migrateLogger adapts golang-migrate's logger interface to slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

// Printf implements migrate.Logger.
func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Verbose implements migrate.Logger.
func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
