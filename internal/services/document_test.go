package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nemanja/arhiva-api/internal/database"
	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentRows = []string{
	"id", "original_name", "stored_name", "owner_identity_key", "owner_email",
	"owner_name", "version", "is_private", "tags", "storage", "storage_ref",
	"size_bytes", "content_type", "uploaded_at",
}

func setupDocumentService(t *testing.T) (*DocumentService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	return NewDocumentService(db), mock
}

func TestDocumentService_Create(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	in := CreateDocumentInput{
		OriginalName: "report.pdf",
		StoredName:   "b1946ac9.pdf",
		Owner: models.Owner{
			IdentityKey: "identity-1",
			Email:       "owner@example.com",
			Name:        "Owner",
		},
		Tags:        []string{"finance", "q3"},
		Storage:     models.StorageLocal,
		StorageRef:  "b1946ac9.pdf",
		SizeBytes:   2048,
		ContentType: "application/pdf",
	}
	docID := uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows(documentRows).
		AddRow(docID, in.OriginalName, in.StoredName, in.Owner.IdentityKey, in.Owner.Email,
			in.Owner.Name, 1, false, in.Tags, in.Storage, in.StorageRef,
			in.SizeBytes, in.ContentType, now)

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(in.OriginalName, in.StoredName, in.Owner.IdentityKey, in.Owner.Email, in.Owner.Name,
			in.IsPrivate, in.Tags, in.Storage, in.StorageRef, in.SizeBytes, in.ContentType).
		WillReturnRows(rows)

	doc, err := svc.Create(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, docID, doc.ID)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, in.Owner.IdentityKey, doc.Owner.IdentityKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Create_NilTagsBecomeEmpty(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	in := CreateDocumentInput{
		OriginalName: "notes.txt",
		StoredName:   "a1b2c3.txt",
		Owner:        models.Owner{IdentityKey: "identity-1"},
		Storage:      models.StorageLocal,
		StorageRef:   "a1b2c3.txt",
		SizeBytes:    16,
		ContentType:  "text/plain",
	}
	now := time.Now()

	rows := pgxmock.NewRows(documentRows).
		AddRow(uuid.New(), in.OriginalName, in.StoredName, in.Owner.IdentityKey, "",
			"", 1, false, []string{}, in.Storage, in.StorageRef,
			in.SizeBytes, in.ContentType, now)

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(in.OriginalName, in.StoredName, in.Owner.IdentityKey, "", "",
			false, []string{}, in.Storage, in.StorageRef, in.SizeBytes, in.ContentType).
		WillReturnRows(rows)

	doc, err := svc.Create(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Create_VersionConflict(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	in := CreateDocumentInput{
		OriginalName: "report.pdf",
		StoredName:   "dup.pdf",
		Owner:        models.Owner{IdentityKey: "identity-1"},
		Tags:         []string{},
		Storage:      models.StorageLocal,
		StorageRef:   "dup.pdf",
		SizeBytes:    2048,
		ContentType:  "application/pdf",
	}

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(in.OriginalName, in.StoredName, in.Owner.IdentityKey, "", "",
			false, in.Tags, in.Storage, in.StorageRef, in.SizeBytes, in.ContentType).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_documents_name_owner_version"})

	_, err := svc.Create(ctx, in)

	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_ListVisible_Admin(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows(documentRows).
		AddRow(uuid.New(), "secret.pdf", "s.pdf", "other", "o@example.com",
			"Other", 1, true, []string{}, models.StorageLocal, "s.pdf",
			int64(10), "application/pdf", now).
		AddRow(uuid.New(), "public.pdf", "p.pdf", "other", "o@example.com",
			"Other", 1, false, []string{}, models.StorageLocal, "p.pdf",
			int64(10), "application/pdf", now)

	mock.ExpectQuery(`SELECT .+ FROM documents\s+ORDER BY uploaded_at DESC`).
		WillReturnRows(rows)

	docs, err := svc.ListVisible(ctx, models.RoleAdmin, "admin-identity")

	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_ListVisible_User(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	now := time.Now()

	rows := pgxmock.NewRows(documentRows).
		AddRow(uuid.New(), "mine.pdf", "m.pdf", "identity-1", "me@example.com",
			"Me", 2, true, []string{"tag"}, models.StorageS3, "m.pdf",
			int64(10), "application/pdf", now)

	mock.ExpectQuery(`WHERE is_private = FALSE OR owner_identity_key`).
		WithArgs("identity-1").
		WillReturnRows(rows)

	docs, err := svc.ListVisible(ctx, models.RoleUser, "identity-1")

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "mine.pdf", docs[0].OriginalName)
	assert.Equal(t, 2, docs[0].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_ListVisible_GuestPublicOnly(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()

	rows := pgxmock.NewRows(documentRows)

	mock.ExpectQuery(`WHERE is_private = FALSE\s+ORDER BY uploaded_at DESC`).
		WillReturnRows(rows)

	docs, err := svc.ListVisible(ctx, models.RoleGuest, "identity-1")

	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	docID := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM documents WHERE id`).
		WithArgs(docID).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(ctx, docID)

	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Delete(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	docID := uuid.New()

	mock.ExpectExec(`DELETE FROM documents WHERE id`).
		WithArgs(docID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := svc.Delete(ctx, docID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	svc, mock := setupDocumentService(t)
	ctx := context.Background()
	docID := uuid.New()

	mock.ExpectExec(`DELETE FROM documents WHERE id`).
		WithArgs(docID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := svc.Delete(ctx, docID)

	assert.ErrorIs(t, err, ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
