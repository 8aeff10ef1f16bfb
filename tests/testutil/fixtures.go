package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/models"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates a test user with default values
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		IdentityKey: fmt.Sprintf("identity-%d", f.counter),
		Email:       fmt.Sprintf("user%d@example.com", f.counter),
		Name:        fmt.Sprintf("Test User %d", f.counter),
		Role:        models.RoleGuest,
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	var role string
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (identity_key, email, name, photo_url, role, has_storage_permission, permission_granted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, identity_key, email, name, photo_url, role,
			has_storage_permission, permission_granted_at, created_at, updated_at
	`, user.IdentityKey, user.Email, user.Name, user.PhotoURL, string(user.Role),
		user.HasStoragePermission, user.PermissionGrantedAt).Scan(
		&user.ID, &user.IdentityKey, &user.Email, &user.Name, &user.PhotoURL,
		&role, &user.HasStoragePermission, &user.PermissionGrantedAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	user.Role = models.ParseRole(role)

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithRole sets the user's role
func WithRole(role models.Role) UserOption {
	return func(u *models.User) {
		u.Role = role
	}
}

// WithIdentityKey sets the user's identity key
func WithIdentityKey(key string) UserOption {
	return func(u *models.User) {
		u.IdentityKey = key
	}
}

// WithStoragePermission marks the user as having granted storage access
func WithStoragePermission() UserOption {
	return func(u *models.User) {
		u.HasStoragePermission = true
	}
}

// CreateDocument creates a test document owned by the given user. The
// version is assigned the same way the service assigns it.
func (f *Fixtures) CreateDocument(t *testing.T, owner *models.User, opts ...DocumentOption) *models.Document {
	t.Helper()
	f.counter++

	doc := &models.Document{
		OriginalName: fmt.Sprintf("document-%d.pdf", f.counter),
		StoredName:   fmt.Sprintf("stored-%d.pdf", f.counter),
		Owner: models.Owner{
			IdentityKey: owner.IdentityKey,
			Email:       owner.Email,
			Name:        owner.Name,
		},
		Tags:        []string{},
		Storage:     models.StorageLocal,
		StorageRef:  fmt.Sprintf("stored-%d.pdf", f.counter),
		SizeBytes:   1024,
		ContentType: "application/pdf",
	}

	for _, opt := range opts {
		opt(doc)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO documents (original_name, stored_name, owner_identity_key, owner_email,
			owner_name, version, is_private, tags, storage, storage_ref, size_bytes, content_type)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM documents
				WHERE original_name = $1 AND owner_identity_key = $3),
			$6, $7, $8, $9, $10, $11)
		RETURNING id, version, uploaded_at
	`, doc.OriginalName, doc.StoredName, doc.Owner.IdentityKey, doc.Owner.Email, doc.Owner.Name,
		doc.IsPrivate, doc.Tags, doc.Storage, doc.StorageRef, doc.SizeBytes, doc.ContentType).Scan(
		&doc.ID, &doc.Version, &doc.UploadedAt,
	)
	if err != nil {
		t.Fatalf("failed to create document: %v", err)
	}

	return doc
}

// DocumentOption configures a test document
type DocumentOption func(*models.Document)

// WithOriginalName sets the document's original filename
func WithOriginalName(name string) DocumentOption {
	return func(d *models.Document) {
		d.OriginalName = name
	}
}

// Private marks the document as private
func Private() DocumentOption {
	return func(d *models.Document) {
		d.IsPrivate = true
	}
}

// WithTags sets the document's tags
func WithTags(tags ...string) DocumentOption {
	return func(d *models.Document) {
		d.Tags = tags
	}
}
