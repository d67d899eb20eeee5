// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/microblog/internal/migrations"
	"github.com/taibuivan/microblog/internal/platform/apperr"
	"github.com/taibuivan/microblog/internal/platform/config"
	"github.com/taibuivan/microblog/internal/platform/logger"
	"github.com/taibuivan/microblog/internal/platform/migration"
)

func newTestApp(t *testing.T, cfg *config.Config) (*app, *bytes.Buffer) {
	t.Helper()

	graph, err := migrations.Graph()
	require.NoError(t, err)

	if cfg.VersionsDir == "" {
		cfg.VersionsDir = filepath.Join(t.TempDir(), "migrations")
	}

	var out bytes.Buffer
	return &app{cfg: cfg, graph: graph, log: logger.Discard(), stdout: &out}, &out
}

func sqliteURL(t *testing.T) string {
	return "sqlite3://" + filepath.Join(t.TempDir(), "microblog.db") + "?_foreign_keys=on"
}

/*
TestRun_Usage rejects missing and unknown commands.
*/
func TestRun_Usage(t *testing.T) {
	a, out := newTestApp(t, &config.Config{})

	assert.ErrorIs(t, a.run(context.Background(), nil), errUsage)
	assert.Contains(t, out.String(), "usage: migrate")

	assert.ErrorIs(t, a.run(context.Background(), []string{"rebase"}), errUsage)
	assert.Contains(t, out.String(), `unknown command "rebase"`)

	assert.ErrorIs(t, a.run(context.Background(), []string{"downgrade"}), errUsage)
}

/*
TestRun_Heads prints the followers revision as the single head.
*/
func TestRun_Heads(t *testing.T) {
	a, out := newTestApp(t, &config.Config{})

	require.NoError(t, a.run(context.Background(), []string{"heads"}))
	assert.Equal(t, "ad809610edff -> 84ac4c380789, followers (head)\n", out.String())
}

/*
TestRun_Show renders the followers DDL for the requested dialect.
*/
func TestRun_Show(t *testing.T) {
	a, out := newTestApp(t, &config.Config{})

	require.NoError(t, a.run(context.Background(), []string{"show", "-dialect", "sqlite", "84ac"}))

	text := out.String()
	assert.Contains(t, text, "Rev: 84ac4c380789")
	assert.Contains(t, text, "Parent: ad809610edff")
	assert.Contains(t, text, "Create Date: 2018-05-30 11:44:20.668429")
	assert.Contains(t, text, `CREATE TABLE "followers"`)
	assert.Contains(t, text, `DROP TABLE "followers";`)
	assert.NotContains(t, text, "Branch labels")

	assert.ErrorIs(t, a.run(context.Background(), []string{"show"}), errUsage)

	// Only known dialects are accepted
	err := a.run(context.Background(), []string{"show", "-dialect", "mysql", "84ac"})
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, "dialect", apperr.As(err).Details[0].Field)
}

/*
TestRun_New writes a revision file on top of the current head.
*/
func TestRun_New(t *testing.T) {
	a, out := newTestApp(t, &config.Config{})

	require.NoError(t, a.run(context.Background(), []string{"new", "-m", "Add posts table"}))
	assert.Contains(t, out.String(), "Generating")

	entries, err := os.ReadDir(a.cfg.VersionsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), "_add_posts_table.go"))

	body, err := os.ReadFile(filepath.Join(a.cfg.VersionsDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(body), "package migrations")
	assert.Contains(t, string(body), `Parent:    "84ac4c380789"`)

	// A message is mandatory
	err = a.run(context.Background(), []string{"new"})
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	// A message spanning lines would escape the generated comment
	err = a.run(context.Background(), []string{"new", "-m", "posts\nfunc init() { panic(1) }"})
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	assert.Equal(t, "message", apperr.As(err).Details[0].Field)

	entries, err = os.ReadDir(a.cfg.VersionsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

/*
TestRun_UpgradeDowngrade drives the real chain against a SQLite file.
*/
func TestRun_UpgradeDowngrade(t *testing.T) {
	ctx := context.Background()
	a, out := newTestApp(t, &config.Config{DatabaseURL: sqliteURL(t)})

	// 1. Fresh database
	require.NoError(t, a.run(ctx, []string{"current"}))
	assert.Equal(t, "base\n", out.String())

	// 2. Upgrade to head
	require.NoError(t, a.run(ctx, []string{"upgrade"}))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"current"}))
	assert.Equal(t, "84ac4c380789 (followers) (head)\n", out.String())

	// 3. History marks both as applied
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"history"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "* ad809610edff -> 84ac4c380789, followers (head) (current)", lines[0])
	assert.Equal(t, "* <base> -> ad809610edff, user table", lines[1])

	// 4. Downgrade one step, then to base
	require.NoError(t, a.run(ctx, []string{"downgrade", "ad809610edff"}))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"current"}))
	assert.Equal(t, "ad809610edff (user table)\n", out.String())

	err := a.run(ctx, []string{"upgrade", "base"})
	assert.ErrorIs(t, err, migration.ErrWrongDirection)

	require.NoError(t, a.run(ctx, []string{"downgrade", "base"}))
	out.Reset()
	require.NoError(t, a.run(ctx, []string{"current"}))
	assert.Equal(t, "base\n", out.String())
}

/*
TestRun_RequiresDatabase fails database commands without DATABASE_URL.
*/
func TestRun_RequiresDatabase(t *testing.T) {
	a, out := newTestApp(t, &config.Config{})

	for _, command := range []string{"upgrade", "current", "serve"} {
		assert.ErrorIs(t, a.run(context.Background(), []string{command}), config.ErrNoDatabase, command)
	}

	// history falls back to the graph alone
	require.NoError(t, a.run(context.Background(), []string{"history"}))
	assert.Contains(t, out.String(), "ad809610edff -> 84ac4c380789, followers")
}
