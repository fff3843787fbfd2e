package tree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/pkg/models"
)

// subtree is the result of walking one directory. A walk that fails returns
// an error instead of an empty subtree, so callers can tell the two apart.
type subtree struct {
	children []models.Entry
	size     int64 // every regular file below the directory, any extension
	count    int   // every entry below the directory, at any depth
}

// BuildDetailed is Build with size, item count and modification time on
// every node. Directory sizes and counts cover the whole subtree, including
// files that are not documents. depth limits how many directory levels carry
// children; depth <= 0 means unlimited. Directories below the limit still
// carry their aggregate metadata.
func (b *Builder) BuildDetailed(ctx context.Context, prefix string, depth int) ([]models.Entry, error) {
	prefix = storage.NormalizePath(prefix)
	entries, err := b.list(prefix)
	if err != nil {
		return nil, err
	}
	st, err := b.walkDetailed(ctx, prefix, entries, depth, 1)
	if err != nil {
		return nil, err
	}
	return st.children, nil
}

// Details returns the directory at prefix as a single detailed entry named
// after the directory ("root" at the top). A missing prefix, or one naming a
// file, is apperr.ErrNotFound.
func (b *Builder) Details(ctx context.Context, prefix string, depth int) (*models.Entry, error) {
	prefix = storage.NormalizePath(prefix)
	info, err := b.store.Stat(prefix)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("tree: %w: %q", apperr.ErrNotFound, prefix)
		}
		return nil, fmt.Errorf("tree: stat %q: %w", prefix, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("tree: %w: %q is not a directory", apperr.ErrNotFound, prefix)
	}

	entries, err := b.list(prefix)
	if err != nil {
		return nil, err
	}
	st, err := b.walkDetailed(ctx, prefix, entries, depth, 1)
	if err != nil {
		return nil, err
	}

	dir := models.NewDirectory(baseName(prefix), prefix, st.children)
	dir.Size = &st.size
	dir.ItemCount = &st.count
	dir.LastModified = modTime(info)
	return &dir, nil
}

// walkDetailed walks dir, whose entries sit at the given level (1 for the
// top of the request).
func (b *Builder) walkDetailed(ctx context.Context, dir string, entries []fs.DirEntry, depth, level int) (*subtree, error) {
	st := &subtree{children: []models.Entry{}, count: len(entries)}

	for _, d := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := storage.Join(dir, d.Name())

		if d.IsDir() {
			sub, err := b.detailedSubtree(ctx, rel, depth, level+1)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				b.skip(rel, err)
				continue
			}
			st.size += sub.size
			st.count += sub.count

			node := models.Entry{
				Name:      d.Name(),
				Path:      rel,
				Type:      models.TypeDirectory,
				Size:      &sub.size,
				ItemCount: &sub.count,
			}
			if info, err := d.Info(); err == nil {
				node.LastModified = modTime(info)
			}
			if depth <= 0 || level < depth {
				node.Children = sub.children
			}
			st.children = append(st.children, node)
			continue
		}

		info, err := b.fileInfo(rel, d)
		if err != nil {
			b.logger.Warn("tree: skipping unreadable file",
				slog.String("path", rel),
				slog.String("error", err.Error()))
			continue
		}
		if !info.Mode().IsRegular() {
			// Symlinked directories are counted but not followed.
			b.logger.Debug("tree: not following link",
				slog.String("path", rel),
				slog.String("mode", info.Mode().String()))
			continue
		}
		size := info.Size()
		st.size += size

		if b.matches(d.Name()) {
			file := models.NewFile(d.Name(), rel, b.extName())
			file.Size = &size
			file.LastModified = modTime(info)
			st.children = append(st.children, file)
		}
	}

	b.order(st.children)
	return st, nil
}

func (b *Builder) detailedSubtree(ctx context.Context, dir string, depth, level int) (*subtree, error) {
	entries, err := b.store.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	return b.walkDetailed(ctx, dir, entries, depth, level)
}

// fileInfo follows symlinks so links report their target's size.
func (b *Builder) fileInfo(rel string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		return b.store.Stat(rel)
	}
	return d.Info()
}

func modTime(info fs.FileInfo) *time.Time {
	t := info.ModTime().UTC()
	if t.IsZero() {
		return nil
	}
	return &t
}
