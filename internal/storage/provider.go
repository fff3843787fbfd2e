// Package storage defines the read-only content file-system abstraction.
package storage

import "io/fs"

// Provider is the interface for content directory reads. All paths are
// slash-separated and relative to the content root; "" is the root itself.
type Provider interface {
	// ReadDir lists dir in listing order.
	ReadDir(dir string) ([]fs.DirEntry, error)
	// Stat returns file info for path, following symlinks.
	Stat(path string) (fs.FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
}
