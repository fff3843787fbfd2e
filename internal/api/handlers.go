package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/checksum"
	"github.com/starford/mdview/internal/docservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *docservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *docservice.Service) *Handler {
	return &Handler{svc: svc}
}

// docPath extracts the document path from the URL wildcard.
// Supports encoded slashes (e.g. guide%2Fintro.md). chi routes on RawPath
// when it is set, so only then is the wildcard still escaped.
func docPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" || r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// fail maps a service error onto a response.
func fail(w http.ResponseWriter, op, path string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrInvalidPath):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid path"))
	default:
		slog.Error(op+" failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// Files handles GET /api/files.
//
//	@Summary		Document tree of the content root
//	@Tags			tree
//	@Produce		json
//	@Param			detailed	query		bool	false	"Include size, item count and modification time"
//	@Success		200			{array}		Entry
//	@Failure		500			{object}	errResponse
//	@Router			/files [get]
func (h *Handler) Files(w http.ResponseWriter, r *http.Request) {
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	build := h.svc.Tree
	if detailed {
		build = h.svc.DetailedTree
	}
	entries, err := build(r.Context())
	if err != nil {
		fail(w, "build tree", "", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// FolderStructure handles GET /api/folder-structure.
//
//	@Summary		Document tree wrapped in a nodes object
//	@Tags			tree
//	@Produce		json
//	@Success		200	{object}	FolderStructureResponse
//	@Failure		500	{object}	errResponse
//	@Router			/folder-structure [get]
func (h *Handler) FolderStructure(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Tree(r.Context())
	if err != nil {
		fail(w, "build tree", "", err)
		return
	}
	writeJSON(w, http.StatusOK, FolderStructureResponse{Nodes: entries})
}

// DirectoryDetails handles GET /api/directory-details.
//
//	@Summary		Detailed view of one directory
//	@Tags			tree
//	@Produce		json
//	@Param			path	query		string	false	"Directory path, root when empty"
//	@Param			depth	query		int		false	"Levels of children to include, 0 for unlimited"	default(1)
//	@Success		200		{object}	Entry
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/directory-details [get]
func (h *Handler) DirectoryDetails(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")

	depth := 1
	if raw := q.Get("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("depth must be a non-negative integer"))
			return
		}
		depth = d
	}

	entry, err := h.svc.Details(r.Context(), path, depth)
	if err != nil {
		fail(w, "directory details", path, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// Content handles GET /api/content/*.
//
//	@Summary		Raw document text
//	@Tags			documents
//	@Produce		plain
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{string}	string
//	@Success		304
//	@Failure		404		{object}	errResponse
//	@Router			/content/{path} [get]
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	data, err := h.svc.Raw(r.Context(), path)
	if err != nil {
		fail(w, "read content", path, err)
		return
	}
	if notModified(w, r, checksum.ETag(data)) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// File handles GET /api/file.
//
//	@Summary		Raw document text wrapped in JSON
//	@Tags			documents
//	@Produce		json
//	@Param			path	query		string	true	"Document path"
//	@Success		200		{object}	FileContentResponse
//	@Failure		404		{object}	errResponse
//	@Router			/file [get]
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	data, err := h.svc.Raw(r.Context(), path)
	if err != nil {
		fail(w, "read file", path, err)
		return
	}
	writeJSON(w, http.StatusOK, FileContentResponse{Content: string(data)})
}

// Document handles GET /api/documents/*.
//
//	@Summary		Document with front matter split off
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Success		200		{object}	Document
//	@Success		304
//	@Failure		404		{object}	errResponse
//	@Router			/documents/{path} [get]
func (h *Handler) Document(w http.ResponseWriter, r *http.Request) {
	path := docPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	doc, err := h.svc.Document(r.Context(), path)
	if err != nil {
		fail(w, "load document", path, err)
		return
	}
	if notModified(w, r, `"`+doc.Checksum+`"`) {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Home handles GET /api/home.
//
//	@Summary		First readme or index document of the tree
//	@Tags			documents
//	@Produce		json
//	@Success		200	{object}	Document
//	@Failure		404	{object}	errResponse
//	@Router			/home [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Home(r.Context())
	if err != nil {
		fail(w, "load home", "", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Live handles GET /health/live.
func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /health/ready.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		slog.Warn("readiness check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
