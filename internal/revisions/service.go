// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revisions

import (
	"context"
	"log/slog"

	"github.com/taibuivan/microblog/internal/platform/apperr"
	"github.com/taibuivan/microblog/internal/platform/ddl"
	"github.com/taibuivan/microblog/internal/platform/revision"
	"github.com/taibuivan/microblog/internal/platform/validate"
	"github.com/taibuivan/microblog/pkg/slice"
)

// Service answers questions about the revision graph.
type Service struct {
	store   Store
	graph   *revision.Graph
	dialect ddl.Dialect
	logger  *slog.Logger
}

// NewService wires a service. dialect selects the SQL rendered by [Service.Get].
func NewService(store Store, graph *revision.Graph, dialect ddl.Dialect, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		graph:   graph,
		dialect: dialect,
		logger:  logger,
	}
}

// List returns the chain from base to head flagged against the database.
func (service *Service) List(ctx context.Context) ([]View, error) {
	entries, err := service.store.History(ctx)
	if err != nil {
		return nil, err
	}

	return slice.Map(entries, newEntryView), nil
}

// Status reports the current revision and what is still pending.
func (service *Service) Status(ctx context.Context) (StatusView, error) {
	status, err := service.store.Status(ctx)
	if err != nil {
		return StatusView{}, err
	}

	pending := slice.Map(status.Pending, func(rev *revision.Revision) string { return rev.ID })

	if status.IsDirty {
		service.logger.WarnContext(ctx, "migration_state_dirty", slog.String("revision", status.Current))
	}

	return StatusView{
		Current:    status.Current,
		Head:       status.Head,
		IsDirty:    status.IsDirty,
		IsUpToDate: !status.IsDirty && len(pending) == 0,
		Pending:    pending,
	}, nil
}

// Heads returns the revisions nothing builds on.
func (service *Service) Heads(_ context.Context) []View {
	return slice.Map(service.graph.Heads(), func(rev *revision.Revision) View {
		view := newView(rev)
		view.IsHead = true
		return view
	})
}

// Get resolves ref (ID, prefix, branch label or "head") and renders its DDL.
func (service *Service) Get(_ context.Context, ref string) (Detail, error) {
	validator := &validate.Validator{}
	validator.RevisionRef("id", ref)
	if err := validator.Err(); err != nil {
		return Detail{}, err
	}

	id, err := service.graph.Resolve(ref)
	if err != nil {
		return Detail{}, err
	}
	if id == "" {
		return Detail{}, apperr.NotFound("Revision")
	}

	rev, _ := service.graph.Get(id)
	detail := newDetail(rev, service.dialect)
	for _, head := range service.graph.Heads() {
		if head.ID == id {
			detail.IsHead = true
		}
	}
	return detail, nil
}
