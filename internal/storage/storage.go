package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nemanja/arhiva-api/internal/config"
)

// Storage is the blob store behind document uploads. Implementations
// exist for local disk and S3-compatible services.
type Storage interface {
	// Kind identifies the backend ("local" or "s3").
	Kind() string

	// Upload stores the blob under key and returns the backend
	// reference to persist with the document record.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)

	// Open returns the blob for streaming to a client.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the blob.
	Delete(ctx context.Context, ref string) error
}

// Factory builds a Storage value per request. Callers may supply
// their own storage credentials with the request; the client built
// from them lives only for that request, so concurrent requests with
// different tokens cannot interfere with each other.
type Factory struct {
	cfg config.StorageConfig
}

func NewFactory(cfg config.StorageConfig) *Factory {
	return &Factory{cfg: cfg}
}

// ForRequest returns the storage client for one request. The token is
// the caller-supplied credential for the external backend; when empty
// the server-configured credentials are used. The local backend
// ignores it.
func (f *Factory) ForRequest(ctx context.Context, token string) (Storage, error) {
	switch f.cfg.Backend {
	case "s3":
		return NewS3(ctx, f.cfg.S3, token)
	case "local", "":
		return NewLocal(f.cfg.UploadDir), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", f.cfg.Backend)
	}
}

// StoredName generates a unique on-disk/object name for an upload,
// keeping the original extension so content type survives.
func StoredName(originalName string) string {
	return uuid.New().String() + filepath.Ext(originalName)
}
