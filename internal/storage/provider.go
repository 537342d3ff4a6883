// Package storage defines the output-directory abstraction the site is
// written through.
package storage

import (
	"io/fs"
	"time"
)

// File describes one file in the output tree.
type File struct {
	Path     string
	Checksum string
	ModTime  time.Time
}

// SkipFunc reports whether a source entry (slash-separated path relative to
// the copy root) is left out of a copy. Skipping a directory skips its tree.
type SkipFunc func(rel string, d fs.DirEntry) bool

// Provider is the interface for site output operations.
type Provider interface {
	// List returns every file under dir (relative to the output root).
	List(dir string) ([]File, error)
	// Read returns the raw bytes of the file at path (relative to the output root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the output root).
	Write(path string, content []byte) error
	// Clean removes every top-level entry whose name matches none of keep.
	Clean(keep []string) error
	// CopyTree copies the files under src into the output root.
	CopyTree(src string, skip SkipFunc) error
}
