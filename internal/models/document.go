package models

import (
	"time"

	"github.com/google/uuid"
)

// Storage backends a document blob can live in.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

// Owner is a snapshot of the uploader taken at upload time. It is not
// a foreign key: later profile changes do not rewrite history.
type Owner struct {
	IdentityKey string `json:"identity_key"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

type Document struct {
	ID           uuid.UUID `json:"id"`
	OriginalName string    `json:"original_name"`
	StoredName   string    `json:"stored_name"`
	Owner        Owner     `json:"owner"`
	Version      int       `json:"version"`
	IsPrivate    bool      `json:"is_private"`
	Tags         []string  `json:"tags"`
	Storage      string    `json:"storage"`
	StorageRef   string    `json:"storage_ref"`
	SizeBytes    int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
