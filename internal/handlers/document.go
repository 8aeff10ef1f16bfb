package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nemanja/arhiva-api/internal/middleware"
	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/nemanja/arhiva-api/internal/storage"
	"github.com/nemanja/arhiva-api/pkg/dto"
)

type DocumentHandler struct {
	documentService DocumentServiceInterface
	userService     UserServiceInterface
	storage         StorageProvider
	maxUploadSize   int64
}

func NewDocumentHandler(
	documentService DocumentServiceInterface,
	userService UserServiceInterface,
	storageProvider StorageProvider,
	maxUploadSize int64,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		userService:     userService,
		storage:         storageProvider,
		maxUploadSize:   maxUploadSize,
	}
}

// currentUser resolves the authenticated caller to the persisted user
// record. Role and identity always come from here, never from request
// parameters.
func (h *DocumentHandler) currentUser(c *drift.Context) *models.User {
	identityKey := middleware.GetIdentityKey(c)
	if identityKey == "" {
		c.Unauthorized("not authenticated")
		return nil
	}

	user, err := h.userService.GetByIdentityKey(c.Request.Context(), identityKey)
	if err != nil {
		c.Unauthorized("unknown user")
		return nil
	}
	return user
}

func (h *DocumentHandler) Upload(c *drift.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	if !user.Role.CanUpload() {
		c.Forbidden("role does not allow uploads")
		return
	}

	if err := c.Request.ParseMultipartForm(h.maxUploadSize); err != nil {
		c.BadRequest("invalid multipart form")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.BadRequest("file is required")
		return
	}
	defer file.Close()

	isPrivate := c.Request.FormValue("is_private") == "true"
	tags := parseTags(c.Request.FormValue("tags"))
	token := c.Request.FormValue("external_auth_token")

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ctx := c.Request.Context()

	store, err := h.storage.ForRequest(ctx, token)
	if err != nil {
		log.Printf("storage client init failed: %v", err)
		c.InternalServerError("upload requires external storage and failed")
		return
	}

	storedName := storage.StoredName(header.Filename)
	ref, err := store.Upload(ctx, storedName, file, header.Size, contentType)
	if err != nil {
		// No document record is written for a failed upload.
		log.Printf("storage upload failed: %v", err)
		c.InternalServerError("upload requires external storage and failed")
		return
	}

	doc, err := h.documentService.Create(ctx, services.CreateDocumentInput{
		OriginalName: header.Filename,
		StoredName:   storedName,
		Owner: models.Owner{
			IdentityKey: user.IdentityKey,
			Email:       user.Email,
			Name:        user.Name,
		},
		IsPrivate:   isPrivate,
		Tags:        tags,
		Storage:     store.Kind(),
		StorageRef:  ref,
		SizeBytes:   header.Size,
		ContentType: contentType,
	})
	if errors.Is(err, services.ErrVersionConflict) {
		_ = c.JSON(409, map[string]string{"error": "concurrent upload of the same document, retry"})
		return
	}
	if err != nil {
		c.InternalServerError("failed to save document")
		return
	}

	_ = c.JSON(201, dto.UploadResponse{
		Message:  "new version uploaded",
		Document: documentResponse(doc),
	})
}

func (h *DocumentHandler) List(c *drift.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	docs, err := h.documentService.ListVisible(c.Request.Context(), user.Role, user.IdentityKey)
	if err != nil {
		c.InternalServerError("failed to fetch documents")
		return
	}

	response := make([]dto.DocumentResponse, len(docs))
	for i := range docs {
		response[i] = documentResponse(&docs[i])
	}

	_ = c.JSON(200, response)
}

func (h *DocumentHandler) Download(c *drift.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	ctx := c.Request.Context()

	doc, err := h.documentService.GetByID(ctx, id)
	if errors.Is(err, services.ErrDocumentNotFound) || (err == nil && !user.Role.CanView(doc, user.IdentityKey)) {
		c.NotFound("document not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to fetch document")
		return
	}

	store, err := h.storage.ForRequest(ctx, c.QueryParam("external_auth_token"))
	if err != nil {
		c.InternalServerError("failed to reach storage")
		return
	}

	blob, err := store.Open(ctx, doc.StorageRef)
	if err != nil {
		log.Printf("storage open failed for document %s: %v", doc.ID, err)
		c.InternalServerError("failed to fetch document from storage")
		return
	}
	defer blob.Close()

	c.Response.Header().Set("Content-Type", doc.ContentType)
	c.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalName))
	c.Response.WriteHeader(200)
	_, _ = io.Copy(c.Response, blob)
	c.Abort()
}

func (h *DocumentHandler) Delete(c *drift.Context) {
	user := h.currentUser(c)
	if user == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.BadRequest("invalid document id")
		return
	}

	ctx := c.Request.Context()

	doc, err := h.documentService.GetByID(ctx, id)
	if errors.Is(err, services.ErrDocumentNotFound) {
		c.NotFound("document not found")
		return
	}
	if err != nil {
		c.InternalServerError("failed to fetch document")
		return
	}

	if !user.Role.CanDelete(doc, user.IdentityKey) {
		c.Forbidden("cannot delete this document")
		return
	}

	var req dto.DeleteDocumentRequest
	_ = c.BindJSON(&req)

	// Storage delete is best-effort: the database record is the
	// authoritative existence marker, so its deletion proceeds even
	// when the remote blob cannot be removed.
	if store, serr := h.storage.ForRequest(ctx, req.ExternalAuthToken); serr == nil {
		if derr := store.Delete(ctx, doc.StorageRef); derr != nil {
			log.Printf("storage delete failed for document %s: %v", doc.ID, derr)
		}
	} else {
		log.Printf("storage client init failed for document %s: %v", doc.ID, serr)
	}

	if err := h.documentService.Delete(ctx, doc.ID); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			c.NotFound("document not found")
			return
		}
		c.InternalServerError("failed to delete document")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "document deleted"})
}

func documentResponse(doc *models.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		ID:           doc.ID,
		OriginalName: doc.OriginalName,
		StoredName:   doc.StoredName,
		Owner: dto.DocumentOwner{
			IdentityKey: doc.Owner.IdentityKey,
			Email:       doc.Owner.Email,
			Name:        doc.Owner.Name,
		},
		Version:     doc.Version,
		IsPrivate:   doc.IsPrivate,
		Tags:        doc.Tags,
		Storage:     doc.Storage,
		SizeBytes:   doc.SizeBytes,
		ContentType: doc.ContentType,
		UploadedAt:  doc.UploadedAt,
	}
}

func parseTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
