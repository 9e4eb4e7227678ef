package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

const attachmentColumns = "id,case_id,file_name,content_type,size_bytes,storage_key,uploaded_by,created_at"

// AttachmentRepo persists attachment metadata; bytes live on disk under the
// storage key.
type AttachmentRepo struct{ DB *sql.DB }

func NewAttachmentRepo(db *sql.DB) *AttachmentRepo { return &AttachmentRepo{DB: db} }

// Create inserts an attachment row.
func (r *AttachmentRepo) Create(ctx context.Context, a *model.Attachment) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO attachments (case_id, file_name, content_type, size_bytes, storage_key, uploaded_by) VALUES (?,?,?,?,?,?)",
		a.CaseID, a.FileName, a.ContentType, a.SizeBytes, a.StorageKey, a.UploadedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID fetches attachment metadata by primary key.
func (r *AttachmentRepo) GetByID(ctx context.Context, id uint64) (model.Attachment, error) {
	var a model.Attachment
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE id=? LIMIT 1", id).
		Scan(&a.ID, &a.CaseID, &a.FileName, &a.ContentType, &a.SizeBytes,
			&a.StorageKey, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Attachment{}, ErrNotFound
	}
	return a, err
}

// ListByCase returns a case's attachments oldest first.
func (r *AttachmentRepo) ListByCase(ctx context.Context, caseID uint64) ([]model.Attachment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+attachmentColumns+" FROM attachments WHERE case_id=? ORDER BY id", caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := []model.Attachment{}
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.CaseID, &a.FileName, &a.ContentType, &a.SizeBytes,
			&a.StorageKey, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}
