// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revisions_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/microblog/internal/migrations"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/migration"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/internal/revisions"
)

// fakeStore reports the database as sitting on the user table revision.
type fakeStore struct {
	graph   *revision.Graph
	isDirty bool
	err     error
}

func (s *fakeStore) History(context.Context) ([]migration.Entry, error) {
	if s.err != nil {
		return nil, s.err
	}
	chain, err := s.graph.Linear()
	if err != nil {
		return nil, err
	}
	entries := make([]migration.Entry, len(chain))
	for i, rev := range chain {
		entries[i] = migration.Entry{
			Revision:  rev,
			Version:   uint(i + 1),
			IsApplied: i == 0,
			IsCurrent: i == 0,
			IsHead:    i == len(chain)-1,
		}
	}
	return entries, nil
}

func (s *fakeStore) Status(context.Context) (migration.Status, error) {
	if s.err != nil {
		return migration.Status{}, s.err
	}
	followers, _ := s.graph.Get("84ac4c380789")
	return migration.Status{
		Current: "ad809610edff",
		Head:    "84ac4c380789",
		IsDirty: s.isDirty,
		Pending: []*revision.Revision{followers},
	}, nil
}

func newRouter(t *testing.T, store *fakeStore) http.Handler {
	t.Helper()

	graph, err := migrations.Graph()
	require.NoError(t, err)
	store.graph = graph

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := revisions.NewHandler(revisions.NewService(store, graph, ddl.Postgres, logger))

	router := chi.NewRouter()
	router.Mount("/api/v1/revisions", handler.Routes())
	return router
}

func get(t *testing.T, router http.Handler, path string, out any) int {
	t.Helper()
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), out))
	}
	return recorder.Code
}

/*
TestHandler_List returns the chain flagged against the database.
*/
func TestHandler_List(t *testing.T) {
	router := newRouter(t, &fakeStore{})

	var body struct {
		Data []revisions.View `json:"data"`
		Meta struct {
			Count int `json:"count"`
		} `json:"meta"`
	}
	require.Equal(t, http.StatusOK, get(t, router, "/api/v1/revisions", &body))

	require.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.Count)
	assert.Equal(t, "ad809610edff", body.Data[0].ID)
	assert.True(t, body.Data[0].IsCurrent)
	assert.Equal(t, "84ac4c380789", body.Data[1].ID)
	assert.Equal(t, "ad809610edff", body.Data[1].Parent)
	assert.False(t, body.Data[1].IsApplied)
	assert.True(t, body.Data[1].IsHead)
}

/*
TestHandler_Current reports pending revisions.
*/
func TestHandler_Current(t *testing.T) {
	router := newRouter(t, &fakeStore{})

	var body struct {
		Data revisions.StatusView `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, router, "/api/v1/revisions/current", &body))

	assert.Equal(t, "ad809610edff", body.Data.Current)
	assert.Equal(t, "84ac4c380789", body.Data.Head)
	assert.False(t, body.Data.IsUpToDate)
	assert.Equal(t, []string{"84ac4c380789"}, body.Data.Pending)
}

/*
TestHandler_Heads lists the single head.
*/
func TestHandler_Heads(t *testing.T) {
	router := newRouter(t, &fakeStore{})

	var body struct {
		Data []revisions.View `json:"data"`
	}
	require.Equal(t, http.StatusOK, get(t, router, "/api/v1/revisions/heads", &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "84ac4c380789", body.Data[0].ID)
}

/*
TestHandler_Get renders the DDL of a revision resolved by ID, prefix or symbol.
*/
func TestHandler_Get(t *testing.T) {
	router := newRouter(t, &fakeStore{})

	for _, ref := range []string{"84ac4c380789", "84ac", "head"} {
		t.Run(ref, func(t *testing.T) {
			var body struct {
				Data revisions.Detail `json:"data"`
			}
			require.Equal(t, http.StatusOK, get(t, router, "/api/v1/revisions/"+ref, &body))

			assert.Equal(t, "84ac4c380789", body.Data.ID)
			assert.Equal(t, "postgres", body.Data.Dialect)
			assert.True(t, body.Data.IsHead)
			assert.Equal(t, []string{"create table followers"}, body.Data.Upgrade)
			assert.Equal(t, []string{"drop table followers"}, body.Data.Downgrade)
			assert.Contains(t, body.Data.UpgradeSQL, `CREATE TABLE "followers"`)
			assert.Contains(t, body.Data.UpgradeSQL, `FOREIGN KEY("follower_id") REFERENCES "user" ("id")`)
			assert.NotContains(t, body.Data.UpgradeSQL, "UNIQUE")
			assert.NotContains(t, body.Data.UpgradeSQL, "PRIMARY KEY")
			assert.Equal(t, `DROP TABLE "followers";`, body.Data.DowngradeSQL)
		})
	}
}

/*
TestHandler_Errors maps graph and store errors onto status codes.
*/
func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name   string
		store  *fakeStore
		path   string
		status int
		code   string
	}{
		{"unknown_revision", &fakeStore{}, "/api/v1/revisions/ffffffffffff", http.StatusNotFound, "NOT_FOUND"},
		{"base_is_not_a_revision", &fakeStore{}, "/api/v1/revisions/base", http.StatusNotFound, "NOT_FOUND"},
		{"invalid_reference", &fakeStore{}, "/api/v1/revisions/84ac%3Bdrop", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"dirty_database", &fakeStore{err: fmt.Errorf("%w at version 2", migration.ErrDirty)}, "/api/v1/revisions/current", http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"store_down", &fakeStore{err: errors.New("dial tcp: refused")}, "/api/v1/revisions", http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(t, tt.store)

			var body struct {
				Code string `json:"code"`
			}
			assert.Equal(t, tt.status, get(t, router, tt.path, &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}
