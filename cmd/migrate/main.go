// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command migrate manages the microblog database schema.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Load and validate the revision graph.
//  4. Dispatch the sub-command (upgrade, downgrade, stamp, current, heads,
//     history, show, new, serve).
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/microblog/internal/migrations"
	"github.com/taibuivan/microblog/internal/platform/config"
	"github.com/taibuivan/microblog/internal/platform/logger"
)

const usage = `usage: migrate <command> [arguments]

commands:
  upgrade [target]     apply revisions up to target (default head)
  downgrade <target>   revert revisions down to target (base reverts all)
  stamp <target>       record target as current without running DDL
  current              print the revision the database is at
  heads                print the head revisions
  history              print the chain from base to head
  show <revision>      print a revision and its SQL
  new -m <message>     write a new empty revision file
  serve                run the read-only status API
`

// errUsage signals a command line mistake; the usage text has been printed.
var errUsage = errors.New("invalid usage")

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := logger.New(os.Stderr, logger.FormatText, false)
	slog.SetDefault(log)

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	log = logger.New(os.Stderr, cfg.LogFormat, cfg.Debug)
	slog.SetDefault(log)
	log.Debug("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("versions_dir", cfg.VersionsDir),
	)

	// ── 3. Revision graph ─────────────────────────────────────────────────
	graph, err := migrations.Graph()
	must(log, err, "load revision graph")

	// ── 4. Command ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	app := &app{cfg: cfg, graph: graph, log: log, stdout: os.Stdout}
	if err := app.run(ctx, os.Args[1:]); err != nil {
		stop()
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Error("command_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// run dispatches one sub-command.
func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stdout, usage)
		return errUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "upgrade":
		return a.upgrade(ctx, rest)
	case "downgrade":
		return a.downgrade(ctx, rest)
	case "stamp":
		return a.stamp(ctx, rest)
	case "current":
		return a.current(ctx)
	case "heads":
		return a.heads()
	case "history":
		return a.history(ctx)
	case "show":
		return a.show(rest)
	case "new":
		return a.newRevision(rest)
	case "serve":
		return a.serve(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		fmt.Fprintf(a.stdout, "unknown command %q\n\n%s", command, usage)
		return errUsage
	}
}

// parseFlags parses a sub-command's flags, printing errors to the command output.
func parseFlags(set *flag.FlagSet, args []string, out io.Writer) error {
	set.SetOutput(out)
	if err := set.Parse(args); err != nil {
		return errUsage
	}
	return nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
