// Package document provides page-oriented text access to the supported
// document formats. Each format engine exposes per-page positioned text
// fragments; rendering and parsing internals stay inside the underlying
// libraries.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Box is an axis-aligned bounding box in page coordinate space.
type Box struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Fragment is a raw positioned text run as reported by a format engine.
// Text is non-empty and trimmed; Box is nil for formats without layout
// information.
type Fragment struct {
	Text string
	Page int // 1-based page number
	Box  *Box
}

// OutlineEntry is a navigation point into a document.
type OutlineEntry struct {
	Title string
	Page  int
	Level int
}

// Document is an open document handle.
type Document interface {
	// PageCount returns the number of pages (always >= 1 for an open document).
	PageCount() int
	// PageFragments returns the fragments of the given 1-based page in the
	// order the underlying parser emits them.
	PageFragments(page int) ([]Fragment, error)
	// Outline returns navigation entries, or nil if the format has none.
	Outline() []OutlineEntry
	Close() error
}

// Format defines a file format engine.
type Format interface {
	Name() string
	Extensions() []string
	Open(filename string) (Document, error)
}

var registry []Format

// Register adds a format engine to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

func formatFor(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				return f
			}
		}
	}
	return nil
}

// Supported reports whether a registered engine handles the file's extension.
// Plain text is always accepted as the fallback.
func Supported(filename string) bool {
	if formatFor(filename) != nil {
		return true
	}
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".txt" || ext == ".text"
}

// Open opens a document using the registered engine for its extension, or
// the plain-text fallback for .txt files.
func Open(filename string) (Document, error) {
	if f := formatFor(filename); f != nil {
		return f.Open(filename)
	}
	if !Supported(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return newTextDocument(string(data)), nil
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	out := []string{"Text (.txt)"}
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// SupportedExtensions returns every extension Open accepts.
func SupportedExtensions() []string {
	out := []string{".txt", ".text"}
	for _, f := range registry {
		out = append(out, f.Extensions()...)
	}
	return out
}
