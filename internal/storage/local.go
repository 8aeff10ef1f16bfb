package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores blobs as plain files under a single directory.
type Local struct {
	dir string
}

func NewLocal(dir string) *Local {
	return &Local{dir: dir}
}

func (l *Local) Kind() string {
	return "local"
}

func (l *Local) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path, err := l.path(key)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return key, nil
}

func (l *Local) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	path, err := l.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, ref string) error {
	path, err := l.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// path resolves a ref inside the upload directory, rejecting anything
// that would escape it.
func (l *Local) path(ref string) (string, error) {
	clean := filepath.Clean(ref)
	if clean != filepath.Base(clean) || strings.HasPrefix(clean, ".") {
		return "", fmt.Errorf("invalid storage ref: %q", ref)
	}
	return filepath.Join(l.dir, clean), nil
}
