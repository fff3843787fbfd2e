// Package tree builds the document tree of a content directory.
package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/pkg/models"
)

// SortMode controls the order of children within a directory.
type SortMode string

const (
	// SortListing keeps the order returned by the storage provider.
	SortListing SortMode = "listing"
	// SortDirsFirst puts directories before files, each alphabetical.
	SortDirsFirst SortMode = "dirs-first"
)

// DefaultExtension is the document extension used when none is configured.
const DefaultExtension = ".md"

// Option configures a Builder.
type Option func(*Builder)

// WithExtension sets the document extension, including the leading dot.
func WithExtension(ext string) Option {
	return func(b *Builder) {
		if ext != "" {
			b.ext = ext
		}
	}
}

// WithSort sets the child ordering.
func WithSort(mode SortMode) Option {
	return func(b *Builder) {
		if mode != "" {
			b.sort = mode
		}
	}
}

// WithLogger sets the logger used to report skipped subtrees.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// Builder walks a storage.Provider and produces document trees. It holds no
// mutable state and is safe for concurrent use.
type Builder struct {
	store  storage.Provider
	ext    string
	sort   SortMode
	logger *slog.Logger
}

// NewBuilder creates a Builder over store.
func NewBuilder(store storage.Provider, opts ...Option) *Builder {
	b := &Builder{
		store:  store,
		ext:    DefaultExtension,
		sort:   SortListing,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Extension returns the configured document extension.
func (b *Builder) Extension() string {
	return b.ext
}

// Build returns the directories and documents below prefix. Failing to list
// prefix itself is an error; a descendant directory that cannot be listed is
// logged and left out.
func (b *Builder) Build(ctx context.Context, prefix string) ([]models.Entry, error) {
	prefix = storage.NormalizePath(prefix)
	entries, err := b.list(prefix)
	if err != nil {
		return nil, err
	}
	return b.walk(ctx, prefix, entries)
}

func (b *Builder) walk(ctx context.Context, dir string, entries []fs.DirEntry) ([]models.Entry, error) {
	out := []models.Entry{}
	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := storage.Join(dir, d.Name())

		if d.IsDir() {
			sub, err := b.store.ReadDir(rel)
			if err != nil {
				b.skip(rel, err)
				continue
			}
			children, err := b.walk(ctx, rel, sub)
			if err != nil {
				return nil, err
			}
			out = append(out, models.NewDirectory(d.Name(), rel, children))
			continue
		}

		if d.Type()&fs.ModeSymlink != 0 && !b.linksToFile(rel) {
			continue
		}
		if b.matches(d.Name()) {
			out = append(out, models.NewFile(d.Name(), rel, b.extName()))
		}
	}
	b.order(out)
	return out, nil
}

// linksToFile reports whether the symlink at rel resolves, inside the root,
// to a regular file. Links to directories are not followed.
func (b *Builder) linksToFile(rel string) bool {
	info, err := b.store.Stat(rel)
	if err != nil {
		b.logger.Warn("tree: skipping unresolvable link",
			slog.String("path", rel),
			slog.String("error", err.Error()))
		return false
	}
	if !info.Mode().IsRegular() {
		b.logger.Debug("tree: not following link",
			slog.String("path", rel),
			slog.String("mode", info.Mode().String()))
		return false
	}
	return true
}

// list reads a top-level directory, mapping absence to apperr.ErrNotFound.
func (b *Builder) list(dir string) ([]fs.DirEntry, error) {
	entries, err := b.store.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("tree: %w: %q", apperr.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("tree: list %q: %w", dir, err)
	}
	return entries, nil
}

func (b *Builder) skip(rel string, err error) {
	b.logger.Warn("tree: skipping unreadable directory",
		slog.String("path", rel),
		slog.String("error", err.Error()))
}

func (b *Builder) matches(name string) bool {
	return strings.HasSuffix(name, b.ext)
}

func (b *Builder) extName() string {
	return strings.TrimPrefix(b.ext, ".")
}

func (b *Builder) order(entries []models.Entry) {
	if b.sort != SortDirsFirst {
		return
	}
	slices.SortStableFunc(entries, func(x, y models.Entry) int {
		if x.IsDir() != y.IsDir() {
			if x.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	})
}

// FindHome returns the first readme or index document in depth-first order.
func (b *Builder) FindHome(entries []models.Entry) (models.Entry, bool) {
	readme := strings.ToLower("readme" + b.ext)
	index := strings.ToLower("index" + b.ext)
	for _, e := range entries {
		if e.IsDir() {
			if home, ok := b.FindHome(e.Children); ok {
				return home, true
			}
			continue
		}
		name := strings.ToLower(e.Name)
		if name == readme || name == index {
			return e, true
		}
	}
	return models.Entry{}, false
}

// baseName is the display name of a directory path; the root is "root".
func baseName(p string) string {
	if p == "" {
		return "root"
	}
	return path.Base(p)
}
