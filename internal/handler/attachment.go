package handler

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
)

// maxAttachmentBytes caps a single upload at 10 MiB.
const maxAttachmentBytes = 10 << 20

// AttachmentHandler stores case attachments: metadata rows in the database,
// bytes on disk under the uploads directory keyed by UUID.
type AttachmentHandler struct {
	Attachments *repository.AttachmentRepo
	Cases       *repository.CaseRepo
	UploadDir   string
}

func NewAttachmentHandler(attachments *repository.AttachmentRepo, cases *repository.CaseRepo, uploadDir string) *AttachmentHandler {
	return &AttachmentHandler{Attachments: attachments, Cases: cases, UploadDir: uploadDir}
}

// Upload handles POST /cases/:id/attachments with a multipart "file" part.
// Field agents may attach only to cases assigned to them.
func (h *AttachmentHandler) Upload(c echo.Context) error {
	caseID, err := pathID(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, caseID)
	if err != nil {
		return repoError(err, "case not found")
	}
	if middleware.UserRole(c) == model.RoleField && cs.AssignedTo != middleware.UserID(c) {
		return apierror.Forbidden()
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return apierror.Validation("file part is required")
	}
	if fh.Size <= 0 || fh.Size > maxAttachmentBytes {
		return apierror.Validation("file must be between 1 byte and 10 MiB")
	}

	src, err := fh.Open()
	if err != nil {
		return apierror.Validation("unreadable file part")
	}
	defer src.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return err
	}
	key := uuid.NewString()
	dstPath := filepath.Join(h.UploadDir, key)
	dst, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	written, err := io.Copy(dst, io.LimitReader(src, maxAttachmentBytes))
	closeErr := dst.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(dstPath)
		return apierror.Internal()
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	a := &model.Attachment{
		CaseID:      caseID,
		FileName:    filepath.Base(fh.Filename),
		ContentType: contentType,
		SizeBytes:   written,
		StorageKey:  key,
		UploadedBy:  middleware.UserID(c),
	}
	if err := h.Attachments.Create(ctx, a); err != nil {
		_ = os.Remove(dstPath)
		return err
	}
	return response.JSON(c, 201, a)
}

// ListByCase returns attachment metadata for a case.
func (h *AttachmentHandler) ListByCase(c echo.Context) error {
	caseID, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	cs, err := h.Cases.GetByID(ctx, caseID)
	if err != nil {
		return repoError(err, "case not found")
	}
	if middleware.UserRole(c) == model.RoleField && cs.AssignedTo != middleware.UserID(c) {
		return apierror.Forbidden()
	}
	attachments, err := h.Attachments.ListByCase(ctx, caseID)
	if err != nil {
		return err
	}
	return response.JSON(c, 200, echo.Map{"items": attachments})
}

// Download streams the stored bytes with the original filename.
func (h *AttachmentHandler) Download(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	a, err := h.Attachments.GetByID(ctx, id)
	if err != nil {
		return repoError(err, "attachment not found")
	}
	if middleware.UserRole(c) == model.RoleField {
		cs, err := h.Cases.GetByID(ctx, a.CaseID)
		if err != nil {
			return repoError(err, "case not found")
		}
		if cs.AssignedTo != middleware.UserID(c) {
			return apierror.Forbidden()
		}
	}
	path := filepath.Join(h.UploadDir, a.StorageKey)
	if _, err := os.Stat(path); err != nil {
		return apierror.NotFound("attachment bytes missing")
	}
	return c.Attachment(path, a.FileName)
}
