// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/microblog/internal/platform/revision"
)

func ids(revisions []*revision.Revision) []string {
	out := make([]string, len(revisions))
	for i, rev := range revisions {
		out[i] = rev.ID
	}
	return out
}

func chain(t *testing.T) *revision.Graph {
	t.Helper()
	graph, err := revision.NewGraph(
		&revision.Revision{ID: "84ac4c380789", Parent: "ad809610edff", Message: "followers"},
		&revision.Revision{ID: "ad809610edff", Message: "user table", BranchLabels: []string{"users"}},
		&revision.Revision{ID: "c1a2b3d4e5f6", Parent: "84ac4c380789", Message: "posts"},
	)
	require.NoError(t, err)
	return graph
}

/*
TestGraph_HeadsAndBases checks the ends of a linear chain.
*/
func TestGraph_HeadsAndBases(t *testing.T) {
	graph := chain(t)

	assert.Equal(t, 3, graph.Len())
	assert.Equal(t, []string{"c1a2b3d4e5f6"}, ids(graph.Heads()))
	assert.Equal(t, []string{"ad809610edff"}, ids(graph.Bases()))

	linear, err := graph.Linear()
	require.NoError(t, err)
	assert.Equal(t, []string{"ad809610edff", "84ac4c380789", "c1a2b3d4e5f6"}, ids(linear))
}

/*
TestGraph_Validation rejects malformed graphs.
*/
func TestGraph_Validation(t *testing.T) {
	tests := []struct {
		name      string
		revisions []*revision.Revision
		target    error
	}{
		{
			"missing_parent",
			[]*revision.Revision{{ID: "84ac4c380789", Parent: "ad809610edff"}},
			revision.ErrNotFound,
		},
		{
			"missing_dependency",
			[]*revision.Revision{{ID: "aaa"}, {ID: "bbb", Parent: "aaa", DependsOn: []string{"zzz"}}},
			revision.ErrNotFound,
		},
		{
			"cycle",
			[]*revision.Revision{{ID: "aaa", Parent: "bbb"}, {ID: "bbb", Parent: "aaa"}},
			revision.ErrCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := revision.NewGraph(tt.revisions...)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		_, err := revision.NewGraph(&revision.Revision{ID: "aaa"}, &revision.Revision{ID: "aaa"})
		assert.ErrorContains(t, err, "duplicate")
	})

	t.Run("empty_id", func(t *testing.T) {
		_, err := revision.NewGraph(&revision.Revision{ID: " "})
		assert.Error(t, err)
	})

	t.Run("reserved_symbol", func(t *testing.T) {
		_, err := revision.NewGraph(&revision.Revision{ID: "head"})
		assert.Error(t, err)
	})
}

/*
TestGraph_Resolve covers symbols, labels and prefixes.
*/
func TestGraph_Resolve(t *testing.T) {
	graph := chain(t)

	tests := []struct {
		symbol   string
		expected string
		target   error
	}{
		{"head", "c1a2b3d4e5f6", nil},
		{"base", "", nil},
		{"", "", nil},
		{"84ac4c380789", "84ac4c380789", nil},
		{"84ac", "84ac4c380789", nil},
		{"users", "ad809610edff", nil},
		{"ffff", "", revision.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			id, err := graph.Resolve(tt.symbol)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}

/*
TestGraph_ResolveAmbiguous rejects prefixes that match several revisions.
*/
func TestGraph_ResolveAmbiguous(t *testing.T) {
	graph, err := revision.NewGraph(
		&revision.Revision{ID: "abc111"},
		&revision.Revision{ID: "abc222", Parent: "abc111"},
	)
	require.NoError(t, err)

	_, err = graph.Resolve("abc")
	assert.ErrorIs(t, err, revision.ErrAmbiguous)
}

/*
TestGraph_Path computes upgrade and downgrade sequences.
*/
func TestGraph_Path(t *testing.T) {
	graph := chain(t)

	tests := []struct {
		name      string
		from      string
		to        string
		steps     []string
		direction revision.Direction
	}{
		{"base_to_head", "", "c1a2b3d4e5f6", []string{"ad809610edff", "84ac4c380789", "c1a2b3d4e5f6"}, revision.Up},
		{"single_step_up", "ad809610edff", "84ac4c380789", []string{"84ac4c380789"}, revision.Up},
		{"head_to_base", "c1a2b3d4e5f6", "", []string{"c1a2b3d4e5f6", "84ac4c380789", "ad809610edff"}, revision.Down},
		{"single_step_down", "84ac4c380789", "ad809610edff", []string{"84ac4c380789"}, revision.Down},
		{"no_op", "84ac4c380789", "84ac4c380789", []string{}, revision.Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, direction, err := graph.Path(tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.direction, direction)
			assert.Equal(t, tt.steps, ids(steps))
		})
	}

	_, _, err := graph.Path("", "nope")
	assert.ErrorIs(t, err, revision.ErrNotFound)
}

/*
TestGraph_Branches refuses a linear walk over a branched graph.
*/
func TestGraph_Branches(t *testing.T) {
	graph, err := revision.NewGraph(
		&revision.Revision{ID: "root"},
		&revision.Revision{ID: "left", Parent: "root"},
		&revision.Revision{ID: "right", Parent: "root"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"left", "right"}, ids(graph.Heads()))

	_, err = graph.Linear()
	assert.ErrorIs(t, err, revision.ErrMultipleHeads)

	_, err = graph.Resolve("head")
	assert.ErrorIs(t, err, revision.ErrMultipleHeads)

	_, _, err = graph.Path("left", "right")
	assert.Error(t, err)

	// Merge revision joins both heads through DependsOn
	require.NoError(t, graph.Add(&revision.Revision{ID: "merge", Parent: "left", DependsOn: []string{"right"}}))
	require.NoError(t, graph.Validate())
	assert.Equal(t, []string{"merge"}, ids(graph.Heads()))

	steps, direction, err := graph.Path("", "merge")
	require.NoError(t, err)
	assert.Equal(t, revision.Up, direction)
	assert.Equal(t, []string{"root", "left", "right", "merge"}, ids(steps))
}

/*
TestGraph_MultipleBases refuses a linear walk over two roots.
*/
func TestGraph_MultipleBases(t *testing.T) {
	graph, err := revision.NewGraph(
		&revision.Revision{ID: "one"},
		&revision.Revision{ID: "two"},
		&revision.Revision{ID: "joined", Parent: "one", DependsOn: []string{"two"}},
	)
	require.NoError(t, err)

	_, err = graph.Linear()
	assert.ErrorIs(t, err, revision.ErrMultipleBases)
}
