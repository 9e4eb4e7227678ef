package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/veriflow/field-verification-api/internal/model"
)

// AuditRepo appends rows to the immutable `audit_log` table. There is no
// update or delete path here: request handling only ever inserts, and the
// admin listing endpoint only reads.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Insert appends one entry. The id is generated here so callers can log it
// before the row is durable. Details marshal to a JSON column; a nil map
// stores SQL NULL.
func (r *AuditRepo) Insert(ctx context.Context, e *model.AuditEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	var details any
	if len(e.Details) > 0 {
		b, err := json.Marshal(e.Details)
		if err != nil {
			return err
		}
		details = string(b)
	}
	var actor any
	if e.ActorUserID != 0 {
		actor = e.ActorUserID
	}
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_log (id, actor_user_id, action, details) VALUES (?,?,?,?)",
		e.ID, actor, string(e.Action), details)
	return err
}

// List returns entries newest first for the admin audit view.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]model.AuditEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, actor_user_id, action, details, created_at FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.AuditEntry{}
	for rows.Next() {
		var e model.AuditEntry
		var actor sql.NullInt64
		var action string
		var details sql.NullString
		var created time.Time
		if err := rows.Scan(&e.ID, &actor, &action, &details, &created); err != nil {
			return nil, err
		}
		if actor.Valid {
			e.ActorUserID = uint64(actor.Int64)
		}
		e.Action = model.AuditAction(action)
		if details.Valid && details.String != "" {
			// Details were written by Insert, so unmarshal failures only
			// happen on hand-edited rows; surface them as empty details.
			_ = json.Unmarshal([]byte(details.String), &e.Details)
		}
		e.CreatedAt = created
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
