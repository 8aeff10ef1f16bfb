package testutil

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/nemanja/arhiva-api/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockUserService mocks the UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Login(ctx context.Context, in services.LoginInput) (*models.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GrantStoragePermission(ctx context.Context, identityKey string) (*models.User, error) {
	args := m.Called(ctx, identityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByIdentityKey(ctx context.Context, identityKey string) (*models.User, error) {
	args := m.Called(ctx, identityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockDocumentService mocks the DocumentService
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Create(ctx context.Context, in services.CreateDocumentInput) (*models.Document, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) ListVisible(ctx context.Context, role models.Role, identityKey string) ([]models.Document, error) {
	args := m.Called(ctx, role, identityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStorage mocks a storage backend
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Kind() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockStorage) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// MockStorageProvider mocks the per-request storage factory
type MockStorageProvider struct {
	mock.Mock
}

func (m *MockStorageProvider) ForRequest(ctx context.Context, token string) (storage.Storage, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(storage.Storage), args.Error(1)
}
