// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/taibuivan/microblog/internal/platform/config"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/migration"
	redisstore "github.com/taibuivan/microblog/internal/platform/redis"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/internal/platform/validate"
	"github.com/taibuivan/microblog/pkg/slice"
)

// maxMessageLength bounds "migrate new -m".
const maxMessageLength = 200

// app holds what every sub-command needs.
type app struct {
	cfg    *config.Config
	graph  *revision.Graph
	log    *slog.Logger
	stdout io.Writer
}

// # Database Commands

func (a *app) upgrade(ctx context.Context, args []string) error {
	target, err := a.target(args, revision.Head, "upgrade")
	if err != nil {
		return err
	}
	return a.withRunner(ctx, func(runner *migration.Runner) error {
		return runner.Upgrade(ctx, target)
	})
}

func (a *app) downgrade(ctx context.Context, args []string) error {
	target, err := a.target(args, "", "downgrade")
	if err != nil {
		return err
	}
	return a.withRunner(ctx, func(runner *migration.Runner) error {
		return runner.Downgrade(ctx, target)
	})
}

func (a *app) stamp(ctx context.Context, args []string) error {
	target, err := a.target(args, "", "stamp")
	if err != nil {
		return err
	}
	return a.withRunner(ctx, func(runner *migration.Runner) error {
		return runner.Stamp(ctx, target)
	})
}

func (a *app) current(ctx context.Context) error {
	return a.withRunner(ctx, func(runner *migration.Runner) error {
		id, isDirty, err := runner.Current(ctx)
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Fprintln(a.stdout, revision.Base)
			return nil
		}

		line := id
		if rev, ok := a.graph.Get(id); ok && rev.Message != "" {
			line += " (" + rev.Message + ")"
		}
		for _, head := range a.graph.Heads() {
			if head.ID == id {
				line += " (head)"
			}
		}
		if isDirty {
			line += " (dirty)"
		}
		fmt.Fprintln(a.stdout, line)
		return nil
	})
}

func (a *app) history(ctx context.Context) error {
	if a.cfg.RequireDatabase() != nil {
		chain, err := a.graph.Linear()
		if err != nil {
			return err
		}
		for _, rev := range slice.Reversed(chain) {
			fmt.Fprintln(a.stdout, rev.String())
		}
		return nil
	}

	return a.withRunner(ctx, func(runner *migration.Runner) error {
		entries, err := runner.History(ctx)
		if err != nil {
			return err
		}
		for _, entry := range slice.Reversed(entries) {
			marker := " "
			if entry.IsApplied {
				marker = "*"
			}
			line := fmt.Sprintf("%s %s", marker, entry.Revision.String())
			if entry.IsHead {
				line += " (head)"
			}
			if entry.IsCurrent {
				line += " (current)"
			}
			fmt.Fprintln(a.stdout, line)
		}
		return nil
	})
}

// withRunner builds a runner for DATABASE_URL, locked through Redis when configured.
func (a *app) withRunner(ctx context.Context, fn func(*migration.Runner) error) error {
	if err := a.cfg.RequireDatabase(); err != nil {
		return err
	}

	var options []migration.Option
	if a.cfg.HasRedis() {
		startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := redisstore.NewClient(startupCtx, a.cfg.RedisURL, a.log)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				a.log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()
		options = append(options, migration.WithLocker(redisstore.NewLock(client, a.cfg.LockKey, a.cfg.LockTTL, a.log)))
	}

	runner, err := migration.NewRunner(a.graph, a.cfg.DatabaseURL, a.log, options...)
	if err != nil {
		return err
	}
	return fn(runner)
}

// target reads the single optional positional target of a command.
func (a *app) target(args []string, def, command string) (string, error) {
	set := flag.NewFlagSet(command, flag.ContinueOnError)
	if err := parseFlags(set, args, a.stdout); err != nil {
		return "", err
	}

	target := def
	switch set.NArg() {
	case 0:
	case 1:
		target = set.Arg(0)
	default:
		fmt.Fprintf(a.stdout, "%s takes at most one target\n", command)
		return "", errUsage
	}

	if target == "" {
		fmt.Fprintf(a.stdout, "%s requires a target\n", command)
		return "", errUsage
	}

	validator := &validate.Validator{}
	validator.RevisionRef("target", target)
	return target, validator.Err()
}

// # Graph Commands

func (a *app) heads() error {
	heads := a.graph.Heads()
	for _, head := range heads {
		fmt.Fprintf(a.stdout, "%s (head)\n", head.String())
	}
	return nil
}

func (a *app) show(args []string) error {
	set := flag.NewFlagSet("show", flag.ContinueOnError)
	dialectName := set.String("dialect", "", "SQL dialect: postgres or sqlite (default: from DATABASE_URL)")
	if err := parseFlags(set, args, a.stdout); err != nil {
		return err
	}
	if set.NArg() != 1 {
		fmt.Fprintln(a.stdout, "show requires exactly one revision")
		return errUsage
	}

	if *dialectName != "" {
		validator := &validate.Validator{}
		validator.OneOf("dialect", *dialectName, ddl.Postgres.Name(), ddl.SQLite.Name())
		if err := validator.Err(); err != nil {
			return err
		}
	}

	dialect, err := a.dialect(*dialectName)
	if err != nil {
		return err
	}

	id, err := a.graph.Resolve(set.Arg(0))
	if err != nil {
		return err
	}
	rev, ok := a.graph.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", revision.ErrNotFound, set.Arg(0))
	}

	fmt.Fprintf(a.stdout, "Rev: %s\n", rev.ID)
	fmt.Fprintf(a.stdout, "Parent: %s\n", displayParent(rev))
	if len(rev.BranchLabels) > 0 {
		fmt.Fprintf(a.stdout, "Branch labels: %s\n", strings.Join(rev.BranchLabels, ", "))
	}
	if len(rev.DependsOn) > 0 {
		fmt.Fprintf(a.stdout, "Depends on: %s\n", strings.Join(rev.DependsOn, ", "))
	}
	fmt.Fprintf(a.stdout, "Create Date: %s\n", rev.CreatedAt.Format(revision.CreatedAtLayout))
	fmt.Fprintf(a.stdout, "\n    %s\n", rev.Message)
	fmt.Fprintf(a.stdout, "\n-- upgrade (%s)\n%s\n", dialect.Name(), rev.Script(dialect, revision.Up))
	fmt.Fprintf(a.stdout, "\n-- downgrade (%s)\n%s\n", dialect.Name(), rev.Script(dialect, revision.Down))
	return nil
}

func (a *app) newRevision(args []string) error {
	set := flag.NewFlagSet("new", flag.ContinueOnError)
	message := set.String("m", "", "message describing the revision")
	if err := parseFlags(set, args, a.stdout); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required("message", *message).
		MaxLen("message", *message, maxMessageLength).
		Custom("message", strings.ContainsFunc(*message, unicode.IsControl), "Must be a single line without control characters")
	if err := validator.Err(); err != nil {
		return err
	}

	parent, err := a.graph.Resolve(revision.Head)
	if err != nil {
		return err
	}

	scaffold := revision.Scaffold{
		Package:   filepath.Base(filepath.Clean(a.cfg.VersionsDir)),
		ID:        revision.NewID(),
		Parent:    parent,
		Message:   *message,
		CreatedAt: time.Now(),
	}
	path, err := scaffold.WriteTo(a.cfg.VersionsDir)
	if err != nil {
		return err
	}

	a.log.Info("revision_generated", slog.String("revision", scaffold.ID), slog.String("path", path))
	fmt.Fprintf(a.stdout, "Generating %s ... done\n", path)
	return nil
}

// dialect picks the explicit dialect, then DATABASE_URL's, then PostgreSQL.
func (a *app) dialect(name string) (ddl.Dialect, error) {
	switch {
	case name != "":
		return ddl.DialectFromURL(name + "://")
	case a.cfg.DatabaseURL != "":
		return ddl.DialectFromURL(a.cfg.DatabaseURL)
	default:
		return ddl.Postgres, nil
	}
}

func displayParent(rev *revision.Revision) string {
	if rev.IsRoot() {
		return "<base>"
	}
	return rev.Parent
}
