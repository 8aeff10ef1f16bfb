package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentOwner struct {
	IdentityKey string `json:"identity_key"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

type DocumentResponse struct {
	ID           uuid.UUID     `json:"id"`
	OriginalName string        `json:"original_name"`
	StoredName   string        `json:"stored_name"`
	Owner        DocumentOwner `json:"owner"`
	Version      int           `json:"version"`
	IsPrivate    bool          `json:"is_private"`
	Tags         []string      `json:"tags"`
	Storage      string        `json:"storage"`
	SizeBytes    int64         `json:"size_bytes"`
	ContentType  string        `json:"content_type"`
	UploadedAt   time.Time     `json:"uploaded_at"`
}

type UploadResponse struct {
	Message  string           `json:"message"`
	Document DocumentResponse `json:"document"`
}

type DeleteDocumentRequest struct {
	ExternalAuthToken string `json:"external_auth_token,omitempty"`
}
