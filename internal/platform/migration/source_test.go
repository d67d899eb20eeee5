// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"io"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/migration"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

// testGraph is a two-step chain: an authors table and a join table referencing it.
func testGraph(t *testing.T) *revision.Graph {
	t.Helper()
	graph, err := revision.NewGraph(
		&revision.Revision{
			ID:      "aaaaaaaaaaaa",
			Message: "authors",
			Upgrade: []ddl.Operation{ddl.CreateTable{
				Name:       "authors",
				Columns:    []ddl.Column{{Name: "id", Type: ddl.Integer}},
				PrimaryKey: []string{"id"},
			}},
			Downgrade: []ddl.Operation{ddl.DropTable{Name: "authors"}},
		},
		&revision.Revision{
			ID:      "bbbbbbbbbbbb",
			Parent:  "aaaaaaaaaaaa",
			Message: "author links",
			Upgrade: []ddl.Operation{ddl.CreateTable{
				Name: "author_links",
				Columns: []ddl.Column{
					{Name: "from_id", Type: ddl.Integer, Nullable: true},
					{Name: "to_id", Type: ddl.Integer, Nullable: true},
				},
				ForeignKeys: []ddl.ForeignKey{
					{Columns: []string{"from_id"}, RefTable: "authors", RefColumns: []string{"id"}},
					{Columns: []string{"to_id"}, RefTable: "authors", RefColumns: []string{"id"}},
				},
			}},
			Downgrade: []ddl.Operation{ddl.DropTable{Name: "author_links"}},
		},
	)
	require.NoError(t, err)
	return graph
}

/*
TestSource_Navigation walks the chain the way golang-migrate does.
*/
func TestSource_Navigation(t *testing.T) {
	src, err := migration.NewSource(testGraph(t), ddl.SQLite)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	_, err = src.Next(2)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	prev, err := src.Prev(2)
	require.NoError(t, err)
	assert.Equal(t, uint(1), prev)

	_, err = src.Prev(1)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = src.Open("revisions://")
	assert.Error(t, err)
	assert.NoError(t, src.Close())
}

/*
TestSource_Read renders bodies and identifiers per direction.
*/
func TestSource_Read(t *testing.T) {
	src, err := migration.NewSource(testGraph(t), ddl.SQLite)
	require.NoError(t, err)

	reader, identifier, err := src.ReadUp(2)
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbbbbbb_author_links", identifier)
	assert.Contains(t, string(body), `CREATE TABLE "author_links"`)

	reader, _, err = src.ReadDown(1)
	require.NoError(t, err)
	body, err = io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE "authors";`, string(body))

	_, _, err = src.ReadUp(3)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

/*
TestSource_VersionMapping converts between revision IDs and versions.
*/
func TestSource_VersionMapping(t *testing.T) {
	src, err := migration.NewSource(testGraph(t), ddl.Postgres)
	require.NoError(t, err)

	version, ok := src.Version("bbbbbbbbbbbb")
	assert.True(t, ok)
	assert.Equal(t, uint(2), version)

	version, ok = src.Version("")
	assert.True(t, ok)
	assert.Zero(t, version)

	_, ok = src.Version("cccccccccccc")
	assert.False(t, ok)

	rev, ok := src.Revision(1)
	require.True(t, ok)
	assert.Equal(t, "aaaaaaaaaaaa", rev.ID)

	_, ok = src.Revision(0)
	assert.False(t, ok)
}

/*
TestSource_Branched refuses a graph with two heads.
*/
func TestSource_Branched(t *testing.T) {
	graph, err := revision.NewGraph(
		&revision.Revision{ID: "root"},
		&revision.Revision{ID: "left", Parent: "root"},
		&revision.Revision{ID: "right", Parent: "root"},
	)
	require.NoError(t, err)

	_, err = migration.NewSource(graph, ddl.Postgres)
	assert.ErrorIs(t, err, revision.ErrMultipleHeads)
}
