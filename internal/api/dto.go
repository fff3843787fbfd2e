package api

import "github.com/starford/mdview/pkg/models"

// Entry is a tree node (aliased from the domain layer).
type Entry = models.Entry

// Document is a loaded document (aliased from the domain layer).
type Document = models.Document

// FolderStructureResponse wraps the plain tree.
type FolderStructureResponse struct {
	Nodes []Entry `json:"nodes" validate:"required"`
}

// FileContentResponse carries the raw text of a document.
type FileContentResponse struct {
	Content string `json:"content" example:"---\ntitle: Hello\n---\n# Hello" validate:"required"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status string `json:"status" example:"ok" validate:"required"`
}
