// Package storage provides the object storage backends that hold uploaded
// media files and their encoded streams.
package storage

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
)

// Common storage errors
var (
	ErrNotFound = errors.New("object not found")
)

// Backend is the object storage contract. Save never overwrites an
// existing object: when the requested name is taken a derived free name
// is chosen and returned.
type Backend interface {
	// Save stores the content under name (or a derived free name) and
	// returns the name the object was stored under. size may be -1 when
	// unknown.
	Save(ctx context.Context, name string, r io.Reader, size int64) (string, error)
	// Open returns a reader for the stored object.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Delete removes the stored object.
	Delete(ctx context.Context, name string) error
	// Exists reports whether an object is stored under name.
	Exists(ctx context.Context, name string) (bool, error)
	// URL returns a URL under which the object can be fetched.
	URL(name string) (string, error)
}

// contentType infers a MIME type from the object name extension.
func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
