// Package docservice coordinates tree building and document loading for the
// transport layers.
package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/document"
	"github.com/starford/mdview/internal/metrics"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/internal/tree"
	"github.com/starford/mdview/pkg/models"
)

// Service answers tree and document queries against one content root.
// Every call reads storage afresh; nothing is cached between requests.
type Service struct {
	store  storage.Provider
	tree   *tree.Builder
	loader *document.Loader
}

// NewService creates a service over store. Tree options set the document
// extension and child ordering.
func NewService(store storage.Provider, logger *slog.Logger, opts ...tree.Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	opts = append([]tree.Option{tree.WithLogger(logger)}, opts...)
	return &Service{
		store:  store,
		tree:   tree.NewBuilder(store, opts...),
		loader: document.NewLoader(store, logger),
	}
}

// Tree returns the plain document tree of the whole root.
func (s *Service) Tree(ctx context.Context) ([]models.Entry, error) {
	start := time.Now()
	entries, err := s.tree.Build(ctx, "")
	metrics.RecordTreeBuild("plain", time.Since(start), err)
	return entries, err
}

// DetailedTree returns the whole root with size, item count and
// modification time on every node.
func (s *Service) DetailedTree(ctx context.Context) ([]models.Entry, error) {
	start := time.Now()
	entries, err := s.tree.BuildDetailed(ctx, "", 0)
	metrics.RecordTreeBuild("detailed", time.Since(start), err)
	return entries, err
}

// Details returns the directory at path with detailed children down to
// depth levels.
func (s *Service) Details(ctx context.Context, path string, depth int) (*models.Entry, error) {
	start := time.Now()
	entry, err := s.tree.Details(ctx, path, depth)
	metrics.RecordTreeBuild("details", time.Since(start), err)
	return entry, err
}

// Document loads and parses one document.
func (s *Service) Document(ctx context.Context, path string) (*models.Document, error) {
	doc, err := s.loader.Load(ctx, path)
	size := 0
	if doc != nil {
		size = len(doc.Body)
	}
	metrics.RecordDocument(size, err)
	return doc, err
}

// Raw returns a document's bytes without parsing.
func (s *Service) Raw(ctx context.Context, path string) ([]byte, error) {
	data, err := s.loader.Raw(ctx, path)
	metrics.RecordDocument(len(data), err)
	return data, err
}

// Home loads the first readme or index document of the tree.
func (s *Service) Home(ctx context.Context) (*models.Document, error) {
	entries, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	home, ok := s.tree.FindHome(entries)
	if !ok {
		return nil, fmt.Errorf("docservice: %w: no home document", apperr.ErrNotFound)
	}
	return s.Document(ctx, home.Path)
}

// Ready reports whether the content root can be listed.
func (s *Service) Ready(_ context.Context) error {
	if _, err := s.store.ReadDir(""); err != nil {
		return fmt.Errorf("docservice: content root unavailable: %w", err)
	}
	return nil
}
