package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Filesystem stores objects as plain files under a root directory.
// Object names use forward slashes regardless of platform.
type Filesystem struct {
	root    string
	baseURL string
}

// NewFilesystem creates a filesystem backend rooted at root. Served
// object URLs are baseURL + object name.
func NewFilesystem(root, baseURL string) (*Filesystem, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root must not be empty")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Filesystem{root: root, baseURL: baseURL}, nil
}

// Save implements Backend
func (fs *Filesystem) Save(ctx context.Context, name string, r io.Reader, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := fs.availableName(name)
	if err != nil {
		return "", err
	}

	dst := fs.path(name)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return name, nil
}

// Open implements Backend
func (fs *Filesystem) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return f, nil
}

// Delete implements Backend
func (fs *Filesystem) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(fs.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists implements Backend
func (fs *Filesystem) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object: %w", err)
	}
	return true, nil
}

// URL implements Backend
func (fs *Filesystem) URL(name string) (string, error) {
	return fs.baseURL + name, nil
}

// path maps an object name to a filesystem path under the root
func (fs *Filesystem) path(name string) string {
	return filepath.Join(fs.root, filepath.FromSlash(name))
}

// availableName returns name if it is free, otherwise the first
// "stem-N.ext" variant that is.
func (fs *Filesystem) availableName(name string) (string, error) {
	candidate := name
	for i := 1; ; i++ {
		if _, err := os.Stat(fs.path(candidate)); err != nil {
			if os.IsNotExist(err) {
				return candidate, nil
			}
			return "", fmt.Errorf("failed to stat object: %w", err)
		}
		ext := path.Ext(name)
		candidate = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
}
