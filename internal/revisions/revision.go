// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package revisions exposes the revision graph and the database's position in
it over a read-only HTTP API.

Architecture:

  - Store: where the applied state comes from (the migration runner).
  - Service: resolves references against the graph and renders DDL.
  - Handler: chi routes mounted under /api/v1/revisions.

Nothing here applies or reverts revisions; that stays on the command line.
*/
package revisions

import (
	"time"

	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/migration"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/pkg/slice"
)

// View is the public shape of one revision.
type View struct {
	ID           string    `json:"id"`
	Parent       string    `json:"parent,omitempty"`
	Message      string    `json:"message"`
	BranchLabels []string  `json:"branch_labels,omitempty"`
	DependsOn    []string  `json:"depends_on,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	Version      uint      `json:"version,omitempty"`
	IsApplied    bool      `json:"is_applied"`
	IsCurrent    bool      `json:"is_current"`
	IsHead       bool      `json:"is_head"`
}

// Detail is a revision with the operations and SQL it runs.
type Detail struct {
	View
	Dialect      string   `json:"dialect"`
	Upgrade      []string `json:"upgrade"`
	Downgrade    []string `json:"downgrade"`
	UpgradeSQL   string   `json:"upgrade_sql"`
	DowngradeSQL string   `json:"downgrade_sql"`
}

// StatusView reports the database position in the chain.
type StatusView struct {
	Current    string   `json:"current"`
	Head       string   `json:"head"`
	IsDirty    bool     `json:"is_dirty"`
	IsUpToDate bool     `json:"is_up_to_date"`
	Pending    []string `json:"pending"`
}

func newView(rev *revision.Revision) View {
	return View{
		ID:           rev.ID,
		Parent:       rev.Parent,
		Message:      rev.Message,
		BranchLabels: rev.BranchLabels,
		DependsOn:    rev.DependsOn,
		CreatedAt:    rev.CreatedAt,
	}
}

func newEntryView(entry migration.Entry) View {
	view := newView(entry.Revision)
	view.Version = entry.Version
	view.IsApplied = entry.IsApplied
	view.IsCurrent = entry.IsCurrent
	view.IsHead = entry.IsHead
	return view
}

func newDetail(rev *revision.Revision, dialect ddl.Dialect) Detail {
	return Detail{
		View:         newView(rev),
		Dialect:      dialect.Name(),
		Upgrade:      describe(rev.Operations(revision.Up)),
		Downgrade:    describe(rev.Operations(revision.Down)),
		UpgradeSQL:   rev.Script(dialect, revision.Up),
		DowngradeSQL: rev.Script(dialect, revision.Down),
	}
}

func describe(operations []ddl.Operation) []string {
	return slice.Map(operations, ddl.Operation.Describe)
}
