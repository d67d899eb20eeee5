// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4/source"

	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/pkg/slug"
)

// Source exposes a linear revision chain as a golang-migrate [source.Driver].
//
// Version N is the N-th revision counted from the base (1-based). Bodies are
// the rendered DDL of the revision for the configured dialect.
type Source struct {
	chain    []*revision.Revision
	dialect  ddl.Dialect
	versions map[string]uint
}

var _ source.Driver = (*Source)(nil)

// NewSource linearizes the graph for golang-migrate.
func NewSource(graph *revision.Graph, dialect ddl.Dialect) (*Source, error) {
	chain, err := graph.Linear()
	if err != nil {
		return nil, fmt.Errorf("migration: %w", err)
	}

	versions := make(map[string]uint, len(chain))
	for i, rev := range chain {
		versions[rev.ID] = uint(i + 1)
	}
	return &Source{chain: chain, dialect: dialect, versions: versions}, nil
}

// Open implements [source.Driver]. The source is only usable as an instance.
func (s *Source) Open(url string) (source.Driver, error) {
	return nil, errors.New("migration: revision source cannot be opened from a URL")
}

// Close implements [source.Driver].
func (s *Source) Close() error { return nil }

// First implements [source.Driver].
func (s *Source) First() (uint, error) {
	if len(s.chain) == 0 {
		return 0, s.notExist("first", 0)
	}
	return 1, nil
}

// Prev implements [source.Driver].
func (s *Source) Prev(version uint) (uint, error) {
	if version <= 1 || version > uint(len(s.chain)) {
		return 0, s.notExist("prev", version)
	}
	return version - 1, nil
}

// Next implements [source.Driver].
func (s *Source) Next(version uint) (uint, error) {
	if version == 0 || version >= uint(len(s.chain)) {
		return 0, s.notExist("next", version)
	}
	return version + 1, nil
}

// ReadUp implements [source.Driver].
func (s *Source) ReadUp(version uint) (io.ReadCloser, string, error) {
	return s.read(version, revision.Up)
}

// ReadDown implements [source.Driver].
func (s *Source) ReadDown(version uint) (io.ReadCloser, string, error) {
	return s.read(version, revision.Down)
}

// Len returns the number of revisions in the chain.
func (s *Source) Len() int { return len(s.chain) }

// Version maps a revision ID to its golang-migrate version. "" maps to 0.
func (s *Source) Version(id string) (uint, bool) {
	if id == "" {
		return 0, true
	}
	version, ok := s.versions[id]
	return version, ok
}

// Revision maps a golang-migrate version back to its revision.
func (s *Source) Revision(version uint) (*revision.Revision, bool) {
	if version == 0 || version > uint(len(s.chain)) {
		return nil, false
	}
	return s.chain[version-1], true
}

// Chain returns the revisions from base to head.
func (s *Source) Chain() []*revision.Revision {
	out := make([]*revision.Revision, len(s.chain))
	copy(out, s.chain)
	return out
}

func (s *Source) read(version uint, direction revision.Direction) (io.ReadCloser, string, error) {
	rev, ok := s.Revision(version)
	if !ok {
		return nil, "", s.notExist("read", version)
	}

	identifier := rev.ID
	if name := slug.Snake(rev.Message, slug.DefaultMaxLength); name != "" {
		identifier += "_" + name
	}

	body := rev.Script(s.dialect, direction)
	return io.NopCloser(strings.NewReader(body)), identifier, nil
}

func (s *Source) notExist(op string, version uint) error {
	return &fs.PathError{Op: op, Path: strconv.FormatUint(uint64(version), 10), Err: fs.ErrNotExist}
}
