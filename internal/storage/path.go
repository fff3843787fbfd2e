package storage

import (
	"path"
	"strings"
)

// NormalizePath converts p into the canonical relative form used in tree
// entries and lookups: forward slashes, no leading slash, cleaned. The root
// is "". Parent references that climb above the root are kept so callers
// can reject them.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// Join joins a normalized prefix and an entry name.
func Join(prefix, name string) string {
	prefix = NormalizePath(prefix)
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
