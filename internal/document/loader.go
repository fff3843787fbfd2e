// Package document loads markdown documents from storage.
package document

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/checksum"
	"github.com/starford/mdview/internal/parser"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/pkg/models"
)

// Loader reads documents by relative path. A leading slash is optional.
type Loader struct {
	store  storage.Provider
	logger *slog.Logger
}

// NewLoader creates a Loader over store. A nil logger uses slog.Default.
func NewLoader(store storage.Provider, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, logger: logger}
}

// Load reads the document at path and splits off its front matter. Front
// matter that fails to decode is logged and the document is returned with
// its full text as body and nil metadata.
func (l *Loader) Load(ctx context.Context, path string) (*models.Document, error) {
	rel := storage.NormalizePath(path)
	data, err := l.Raw(ctx, rel)
	if err != nil {
		return nil, err
	}

	res := parser.Parse(data)
	if res.Err != nil {
		l.logger.Debug("document: front matter ignored",
			slog.String("path", rel),
			slog.String("error", res.Err.Error()))
	}

	return &models.Document{
		Path:     rel,
		Body:     res.Body,
		Metadata: res.Frontmatter,
		Title:    res.Title,
		Headings: res.Headings,
		Checksum: checksum.Sum(data),
	}, nil
}

// Raw returns the unparsed bytes of the document at path.
func (l *Loader) Raw(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel := storage.NormalizePath(path)
	if rel == "" {
		return nil, fmt.Errorf("document: %w: empty path", apperr.ErrInvalidPath)
	}
	data, err := l.store.Read(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("document: %w: %q", apperr.ErrNotFound, rel)
		}
		return nil, fmt.Errorf("document: read %q: %w", rel, err)
	}
	return data, nil
}
