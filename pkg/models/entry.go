// Package models defines the domain types for mdview.
package models

import (
	"encoding/json"
	"time"
)

// EntryType tags an Entry as a file or a directory.
type EntryType string

const (
	TypeFile      EntryType = "file"
	TypeDirectory EntryType = "directory"
)

// Entry is a node of the document tree. Files and directories share one
// struct; Type decides which fields are meaningful.
//
// Size is the file size for files and the aggregate size of every descendant
// file for directories. ItemCount is only set on directories. Size,
// LastModified and ItemCount are only populated by detailed builds.
type Entry struct {
	Name         string     `json:"name"`
	Path         string     `json:"path"`
	Type         EntryType  `json:"type"`
	Extension    string     `json:"extension,omitempty"`
	Size         *int64     `json:"size,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	ItemCount    *int       `json:"itemCount,omitempty"`
	Children     []Entry    `json:"children,omitempty"`
}

// IsDir reports whether e is a directory node.
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// MarshalJSON always emits "children" for walked directories, even when
// empty. A nil Children slice marks a directory that was not descended into.
func (e Entry) MarshalJSON() ([]byte, error) {
	type plain Entry
	if e.IsDir() && e.Children != nil {
		return json.Marshal(struct {
			plain
			Children []Entry `json:"children"`
		}{plain: plain(e), Children: e.Children})
	}
	return json.Marshal(plain(e))
}

// NewFile returns a file entry.
func NewFile(name, path, ext string) Entry {
	return Entry{Name: name, Path: path, Type: TypeFile, Extension: ext}
}

// NewDirectory returns a directory entry owning children.
func NewDirectory(name, path string, children []Entry) Entry {
	if children == nil {
		children = []Entry{}
	}
	return Entry{Name: name, Path: path, Type: TypeDirectory, Children: children}
}
