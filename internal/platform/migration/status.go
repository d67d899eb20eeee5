// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"context"

	"github.com/taibuivan/microblog/internal/platform/revision"
)

// Entry is one line of the migration history.
type Entry struct {
	Revision  *revision.Revision
	Version   uint
	IsApplied bool
	IsCurrent bool
	IsHead    bool
}

// Status summarizes where the database sits in the chain.
type Status struct {
	Current string
	Head    string
	IsDirty bool
	Pending []*revision.Revision
}

// History lists the chain from base to head, flagged against the database.
func (r *Runner) History(ctx context.Context) ([]Entry, error) {
	currentID, _, err := r.Current(ctx)
	if err != nil {
		return nil, err
	}
	currentVersion, _ := r.source.Version(currentID)

	chain := r.source.Chain()
	entries := make([]Entry, 0, len(chain))
	for i, rev := range chain {
		version := uint(i + 1)
		entries = append(entries, Entry{
			Revision:  rev,
			Version:   version,
			IsApplied: version <= currentVersion,
			IsCurrent: version == currentVersion,
			IsHead:    i == len(chain)-1,
		})
	}
	return entries, nil
}

// Status reports the current revision, the head and the revisions still to apply.
func (r *Runner) Status(ctx context.Context) (Status, error) {
	currentID, isDirty, err := r.Current(ctx)
	if err != nil {
		return Status{}, err
	}

	headID, err := r.graph.Resolve(revision.Head)
	if err != nil {
		return Status{}, err
	}

	pending, _, err := r.graph.Path(currentID, headID)
	if err != nil {
		return Status{}, err
	}

	return Status{Current: currentID, Head: headID, IsDirty: isDirty, Pending: pending}, nil
}
