// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revisions

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/microblog/internal/platform/apperr"
	requestutil "github.com/taibuivan/microblog/internal/platform/request"
	"github.com/taibuivan/microblog/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the read-only revision routes.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.listRevisions)
	router.Get("/current", handler.currentRevision)
	router.Get("/heads", handler.listHeads)
	router.Get("/{id}", handler.getRevision)
	return router
}

func (handler *Handler) listRevisions(writer http.ResponseWriter, request *http.Request) {
	views, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, apperr.FromMigration(err))
		return
	}
	respond.List(writer, views)
}

func (handler *Handler) currentRevision(writer http.ResponseWriter, request *http.Request) {
	status, err := handler.service.Status(request.Context())
	if err != nil {
		respond.Error(writer, request, apperr.FromMigration(err))
		return
	}
	respond.OK(writer, status)
}

func (handler *Handler) listHeads(writer http.ResponseWriter, request *http.Request) {
	respond.List(writer, handler.service.Heads(request.Context()))
}

func (handler *Handler) getRevision(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Get(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, apperr.FromMigration(err))
		return
	}
	respond.OK(writer, detail)
}
