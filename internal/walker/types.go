// Package walker discovers evidence files under one or more root
// directories.
package walker

import (
	"path/filepath"
	"strings"
	"time"
)

// File is one regular file discovered under a root.
type File struct {
	Root    string    // Absolute root the file was found under
	AbsPath string    // Absolute path
	RelPath string    // Root-relative path with forward slashes
	Name    string    // Base name
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// Ext returns the file's extension, see ExtOf.
func (f File) Ext() string {
	return ExtOf(f.Name)
}

// Options configures traversal.
type Options struct {
	// Exclude holds gitignore-style patterns matched against the
	// slash-separated path relative to each root. A root's .evidexignore
	// file adds to them.
	Exclude []string

	// Prune lists absolute directories never descended into, such as the
	// output directory when it lives under a root.
	Prune []string

	// Skip lists absolute file paths never reported. It covers the run's
	// own artifacts when the output directory is a root itself.
	Skip []string
}

// Result is sent on the Scan channel.
type Result struct {
	File  *File
	Error error
}

// ExtOf returns the lowercase extension of name without its dot, or "file"
// when there is none. Dot-files such as ".notes" have no extension.
func ExtOf(name string) string {
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "file"
	}
	return ext
}
