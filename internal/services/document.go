package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/models"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrVersionConflict  = errors.New("version conflict: concurrent upload of the same document")
)

const documentColumns = `id, original_name, stored_name, owner_identity_key, owner_email,
	owner_name, version, is_private, tags, storage, storage_ref, size_bytes, content_type, uploaded_at`

type DocumentService struct {
	db *database.DB
}

func NewDocumentService(db *database.DB) *DocumentService {
	return &DocumentService{db: db}
}

type CreateDocumentInput struct {
	OriginalName string
	StoredName   string
	Owner        models.Owner
	IsPrivate    bool
	Tags         []string
	Storage      string
	StorageRef   string
	SizeBytes    int64
	ContentType  string
}

// Create inserts a document record, assigning the next version number
// for the (original name, owner) pair in the same statement. The
// unique index on (original_name, owner_identity_key, version) makes
// the losing side of a concurrent upload fail with ErrVersionConflict
// instead of silently duplicating a version.
func (s *DocumentService) Create(ctx context.Context, in CreateDocumentInput) (*models.Document, error) {
	if in.Tags == nil {
		in.Tags = []string{}
	}

	doc, err := scanDocument(s.db.Pool.QueryRow(ctx, `
		INSERT INTO documents (original_name, stored_name, owner_identity_key, owner_email,
			owner_name, version, is_private, tags, storage, storage_ref, size_bytes, content_type)
		VALUES ($1, $2, $3, $4, $5,
			(SELECT COALESCE(MAX(version), 0) + 1 FROM documents
				WHERE original_name = $1 AND owner_identity_key = $3),
			$6, $7, $8, $9, $10, $11)
		RETURNING `+documentColumns+`
	`, in.OriginalName, in.StoredName, in.Owner.IdentityKey, in.Owner.Email, in.Owner.Name,
		in.IsPrivate, in.Tags, in.Storage, in.StorageRef, in.SizeBytes, in.ContentType))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// ListVisible returns the documents the given role may see, newest
// first. Admins see everything, users public documents plus their own,
// guests public documents only.
func (s *DocumentService) ListVisible(ctx context.Context, role models.Role, identityKey string) ([]models.Document, error) {
	var rows pgx.Rows
	var err error

	switch role {
	case models.RoleAdmin:
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents
			ORDER BY uploaded_at DESC
		`)
	case models.RoleUser:
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents
			WHERE is_private = FALSE OR owner_identity_key = $1
			ORDER BY uploaded_at DESC
		`, identityKey)
	default:
		rows, err = s.db.Pool.Query(ctx, `
			SELECT `+documentColumns+`
			FROM documents
			WHERE is_private = FALSE
			ORDER BY uploaded_at DESC
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		documents = append(documents, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return documents, nil
}

func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	doc, err := scanDocument(s.db.Pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes the database record. The blob in external storage is
// the caller's concern: the record is the authoritative existence
// marker and its deletion must not depend on the storage backend.
func (s *DocumentService) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID, &doc.OriginalName, &doc.StoredName,
		&doc.Owner.IdentityKey, &doc.Owner.Email, &doc.Owner.Name,
		&doc.Version, &doc.IsPrivate, &doc.Tags,
		&doc.Storage, &doc.StorageRef, &doc.SizeBytes, &doc.ContentType,
		&doc.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
