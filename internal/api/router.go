package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/mdview/internal/docservice"
)

// NewRouter creates a chi router with all API routes mounted. It is meant
// to be mounted under /api.
func NewRouter(svc *docservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()

	// Trees.
	r.Get("/files", h.Files)
	r.Get("/folder-structure", h.FolderStructure)
	r.Get("/directory-details", h.DirectoryDetails)

	// Documents.
	r.Get("/content/*", h.Content)
	r.Get("/file", h.File)
	r.Get("/documents/*", h.Document)
	r.Get("/home", h.Home)

	return r
}

// NewHealthRouter serves liveness and readiness probes.
func NewHealthRouter(svc *docservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/live", h.Live)
	r.Get("/ready", h.Ready)
	return r
}
