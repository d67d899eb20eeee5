// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migrations holds the microblog revision chain.

Each file registers exactly one [revision.Revision] from its init function and
is named "<revision id>_<message>.go". New files are scaffolded with
"migrate new -m <message>".
*/
package migrations

import (
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/microblog/internal/platform/revision"
)

var (
	registry []*revision.Revision

	graphOnce sync.Once
	graph     *revision.Graph
	graphErr  error
)

// register adds a revision to the package registry. Only init functions call it.
func register(rev *revision.Revision) {
	registry = append(registry, rev)
}

// created parses an authoring timestamp written by the scaffold.
func created(value string) time.Time {
	parsed, err := time.Parse(revision.CreatedAtLayout, value)
	if err != nil {
		panic(fmt.Sprintf("migrations: bad created timestamp %q: %v", value, err))
	}
	return parsed
}

// Graph returns the validated revision graph of all registered revisions.
func Graph() (*revision.Graph, error) {
	graphOnce.Do(func() {
		graph, graphErr = revision.NewGraph(registry...)
		if graphErr != nil {
			graphErr = fmt.Errorf("migrations: %w", graphErr)
		}
	})
	return graph, graphErr
}

// All returns the registered revisions in registration order.
func All() []*revision.Revision {
	out := make([]*revision.Revision, len(registry))
	copy(out, registry)
	return out
}
