// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Symbolic targets accepted by [Graph.Resolve].
const (
	Head = "head"
	Base = "base"
)

var (
	// ErrNotFound is returned when a revision symbol resolves to nothing.
	ErrNotFound = errors.New("revision: not found")
	// ErrAmbiguous is returned when an ID prefix matches several revisions.
	ErrAmbiguous = errors.New("revision: ambiguous identifier")
	// ErrMultipleHeads is returned when a linear walk is asked of a branched graph.
	ErrMultipleHeads = errors.New("revision: multiple heads")
	// ErrMultipleBases is returned when the graph has more than one root.
	ErrMultipleBases = errors.New("revision: multiple bases")
	// ErrCycle is returned when parent pointers loop.
	ErrCycle = errors.New("revision: cycle detected")
)

// Graph owns the set of revisions. Nodes are revisions; edges point from a
// revision to its parent and to each of its DependsOn entries.
type Graph struct {
	nodes map[string]*Revision
	order []string
}

// NewGraph builds and validates a graph from revisions.
func NewGraph(revisions ...*Revision) (*Graph, error) {
	graph := &Graph{nodes: make(map[string]*Revision, len(revisions))}
	for _, rev := range revisions {
		if err := graph.Add(rev); err != nil {
			return nil, err
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}
	return graph, nil
}

// Add registers a revision. IDs must be non-empty and unique.
func (g *Graph) Add(rev *Revision) error {
	if rev == nil || strings.TrimSpace(rev.ID) == "" {
		return fmt.Errorf("revision: empty revision id")
	}
	if rev.ID == Head || rev.ID == Base {
		return fmt.Errorf("revision: %q is a reserved symbol", rev.ID)
	}
	if _, exists := g.nodes[rev.ID]; exists {
		return fmt.Errorf("revision: duplicate revision %s", rev.ID)
	}

	g.nodes[rev.ID] = rev
	g.order = append(g.order, rev.ID)
	return nil
}

// Validate checks that every edge points at a known revision and that no cycle exists.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		rev := g.nodes[id]
		for _, target := range g.edges(rev) {
			if _, ok := g.nodes[target]; !ok {
				return fmt.Errorf("revision %s references unknown revision %s: %w", id, target, ErrNotFound)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.nodes))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("%w at %s", ErrCycle, id)
		case done:
			return nil
		}
		state[id] = visiting
		for _, target := range g.edges(g.nodes[id]) {
			if err := visit(target); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of revisions.
func (g *Graph) Len() int { return len(g.nodes) }

// Get returns a revision by exact ID.
func (g *Graph) Get(id string) (*Revision, bool) {
	rev, ok := g.nodes[id]
	return rev, ok
}

// Heads returns revisions no other revision points at, sorted by ID.
func (g *Graph) Heads() []*Revision {
	referenced := make(map[string]bool, len(g.nodes))
	for _, rev := range g.nodes {
		for _, target := range g.edges(rev) {
			referenced[target] = true
		}
	}

	heads := make([]*Revision, 0, 1)
	for _, id := range g.order {
		if !referenced[id] {
			heads = append(heads, g.nodes[id])
		}
	}
	sortByID(heads)
	return heads
}

// Bases returns revisions without a parent, sorted by ID.
func (g *Graph) Bases() []*Revision {
	bases := make([]*Revision, 0, 1)
	for _, id := range g.order {
		if g.nodes[id].IsRoot() {
			bases = append(bases, g.nodes[id])
		}
	}
	sortByID(bases)
	return bases
}

// Resolve turns a symbol into a revision ID.
//
// Accepted symbols: "head", "base" (resolves to ""), an exact ID, a branch
// label, or a unique ID prefix.
func (g *Graph) Resolve(symbol string) (string, error) {
	switch symbol {
	case "", Base:
		return "", nil
	case Head:
		heads := g.Heads()
		switch len(heads) {
		case 0:
			return "", nil
		case 1:
			return heads[0].ID, nil
		default:
			return "", fmt.Errorf("%w: %s", ErrMultipleHeads, joinIDs(heads))
		}
	}

	if _, ok := g.nodes[symbol]; ok {
		return symbol, nil
	}

	for _, id := range g.order {
		for _, label := range g.nodes[id].BranchLabels {
			if label == symbol {
				return id, nil
			}
		}
	}

	var matches []string
	for _, id := range g.order {
		if strings.HasPrefix(id, symbol) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, symbol)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: %s matches %s", ErrAmbiguous, symbol, strings.Join(matches, ", "))
	}
}

// Linear returns the chain from base to head.
//
// It fails when the graph has several heads or bases: a branched graph has no
// single order and must be merged first.
func (g *Graph) Linear() ([]*Revision, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}
	heads := g.Heads()
	switch {
	case len(heads) == 0:
		return nil, ErrCycle
	case len(heads) > 1:
		return nil, fmt.Errorf("%w: %s", ErrMultipleHeads, joinIDs(heads))
	}
	if bases := g.Bases(); len(bases) > 1 {
		return nil, fmt.Errorf("%w: %s", ErrMultipleBases, joinIDs(bases))
	}

	chain := make([]*Revision, 0, len(g.nodes))
	for id := heads[0].ID; id != ""; id = g.nodes[id].Parent {
		rev, ok := g.nodes[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if len(chain) == len(g.nodes) {
			return nil, ErrCycle
		}
		chain = append(chain, rev)
	}
	if len(chain) != len(g.nodes) {
		return nil, fmt.Errorf("%w: %d revisions are off the main chain", ErrMultipleHeads, len(g.nodes)-len(chain))
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Ancestors returns the revision and everything it transitively depends on,
// ordered so that dependencies come first.
func (g *Graph) Ancestors(id string) ([]*Revision, error) {
	if id == "" {
		return nil, nil
	}
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	seen := make(map[string]bool)
	var ordered []*Revision
	var visit func(string)
	visit = func(current string) {
		if seen[current] {
			return
		}
		seen[current] = true
		for _, target := range g.edges(g.nodes[current]) {
			visit(target)
		}
		ordered = append(ordered, g.nodes[current])
	}
	visit(id)
	return ordered, nil
}

// Path returns the revisions to run to move from one revision to another.
//
// When "to" descends from "from" the direction is [Up] and revisions are in
// apply order. Otherwise the direction is [Down] and revisions are in revert
// order. An empty ID stands for the base (nothing applied).
func (g *Graph) Path(from, to string) ([]*Revision, Direction, error) {
	fromSet, err := g.Ancestors(from)
	if err != nil {
		return nil, Up, err
	}
	toSet, err := g.Ancestors(to)
	if err != nil {
		return nil, Up, err
	}

	applied := make(map[string]bool, len(fromSet))
	for _, rev := range fromSet {
		applied[rev.ID] = true
	}
	wanted := make(map[string]bool, len(toSet))
	for _, rev := range toSet {
		wanted[rev.ID] = true
	}

	if isSubset(applied, wanted) {
		steps := make([]*Revision, 0, len(toSet))
		for _, rev := range toSet {
			if !applied[rev.ID] {
				steps = append(steps, rev)
			}
		}
		return steps, Up, nil
	}

	if isSubset(wanted, applied) {
		steps := make([]*Revision, 0, len(fromSet))
		for i := len(fromSet) - 1; i >= 0; i-- {
			if !wanted[fromSet[i].ID] {
				steps = append(steps, fromSet[i])
			}
		}
		return steps, Down, nil
	}

	return nil, Up, fmt.Errorf("revision: %s and %s are on different branches", from, to)
}

func (g *Graph) edges(rev *Revision) []string {
	targets := make([]string, 0, 1+len(rev.DependsOn))
	if rev.Parent != "" {
		targets = append(targets, rev.Parent)
	}
	return append(targets, rev.DependsOn...)
}

func isSubset(small, large map[string]bool) bool {
	for id := range small {
		if !large[id] {
			return false
		}
	}
	return true
}

func sortByID(revisions []*Revision) {
	sort.Slice(revisions, func(i, j int) bool { return revisions[i].ID < revisions[j].ID })
}

func joinIDs(revisions []*Revision) string {
	ids := make([]string, len(revisions))
	for i, rev := range revisions {
		ids[i] = rev.ID
	}
	return strings.Join(ids, ", ")
}
