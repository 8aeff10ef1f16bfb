package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/nemanja/arhiva-api/internal/storage"
)

// UserServiceInterface defines the methods used by handlers from UserService
type UserServiceInterface interface {
	Login(ctx context.Context, in services.LoginInput) (*models.User, error)
	GrantStoragePermission(ctx context.Context, identityKey string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentityKey(ctx context.Context, identityKey string) (*models.User, error)
}

// DocumentServiceInterface defines the methods used by handlers from DocumentService
type DocumentServiceInterface interface {
	Create(ctx context.Context, in services.CreateDocumentInput) (*models.Document, error)
	ListVisible(ctx context.Context, role models.Role, identityKey string) ([]models.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// StorageProvider builds the per-request storage client.
type StorageProvider interface {
	ForRequest(ctx context.Context, token string) (storage.Storage, error)
}
