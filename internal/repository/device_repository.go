package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veriflow/field-verification-api/internal/model"
)

// DeviceRepo persists mobile device registrations keyed by the
// client-generated device_id.
type DeviceRepo struct{ DB *sql.DB }

func NewDeviceRepo(db *sql.DB) *DeviceRepo { return &DeviceRepo{DB: db} }

// Upsert registers a device in a single atomic statement. The unique index
// on device_id makes re-registration overwrite the mutable fields and bump
// updated_at instead of inserting a second row; two concurrent calls for
// the same device cannot race into duplicates. Ownership follows the last
// writer: a later registration with a different user takes the device over.
func (r *DeviceRepo) Upsert(ctx context.Context, d *model.Device) error {
	var owner any
	if d.UserID != 0 {
		owner = d.UserID
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO devices (device_id, platform, model, os_version, app_version, user_id)
		 VALUES (?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		   platform=VALUES(platform), model=VALUES(model),
		   os_version=VALUES(os_version), app_version=VALUES(app_version),
		   user_id=COALESCE(VALUES(user_id), user_id),
		   updated_at=NOW()`,
		d.DeviceID, string(d.Platform), d.Model, d.OSVersion, d.AppVersion, owner)
	if err != nil {
		return err
	}
	fresh, err := r.GetByDeviceID(ctx, d.DeviceID)
	if err != nil {
		return err
	}
	*d = fresh
	return nil
}

// GetByDeviceID fetches a device registration by its client-generated id.
func (r *DeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (model.Device, error) {
	var d model.Device
	var platform string
	var userID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, device_id, platform, model, os_version, app_version, user_id, created_at, updated_at FROM devices WHERE device_id=? LIMIT 1",
		deviceID).Scan(&d.ID, &d.DeviceID, &platform, &d.Model, &d.OSVersion, &d.AppVersion,
		&userID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Device{}, ErrNotFound
	}
	if err != nil {
		return model.Device{}, err
	}
	d.Platform = model.Platform(platform)
	if userID.Valid {
		d.UserID = uint64(userID.Int64)
	}
	return d, nil
}
