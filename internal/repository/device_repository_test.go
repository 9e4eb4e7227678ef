package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/model"
)

func deviceRows(d model.Device) *sqlmock.Rows {
	var owner any
	if d.UserID != 0 {
		owner = d.UserID
	}
	return sqlmock.NewRows([]string{
		"id", "device_id", "platform", "model", "os_version", "app_version",
		"user_id", "created_at", "updated_at",
	}).AddRow(d.ID, d.DeviceID, string(d.Platform), d.Model, d.OSVersion,
		d.AppVersion, owner, d.CreatedAt, d.UpdatedAt)
}

func TestDeviceRepoUpsertFillsStoredRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepo(db)

	now := time.Now()
	stored := model.Device{
		ID: 3, DeviceID: "a1b2c3", Platform: model.PlatformAndroid,
		Model: "Pixel 8", OSVersion: "14", AppVersion: "2.1.0",
		UserID: 7, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO devices").
		WithArgs("a1b2c3", "ANDROID", "Pixel 8", "14", "2.1.0", uint64(7)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery("SELECT id, device_id, platform").
		WithArgs("a1b2c3").
		WillReturnRows(deviceRows(stored))

	d := model.Device{
		DeviceID: "a1b2c3", Platform: model.PlatformAndroid,
		Model: "Pixel 8", OSVersion: "14", AppVersion: "2.1.0", UserID: 7,
	}
	require.NoError(t, repo.Upsert(context.Background(), &d))
	assert.Equal(t, uint64(3), d.ID)
	assert.Equal(t, now, d.CreatedAt)
}

func TestDeviceRepoUpsertAnonymousKeepsOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepo(db)

	now := time.Now()
	stored := model.Device{
		ID: 3, DeviceID: "a1b2c3", Platform: model.PlatformIOS,
		Model: "iPhone 15", OSVersion: "17.4", AppVersion: "2.2.0",
		UserID: 7, CreatedAt: now, UpdatedAt: now,
	}

	// A registration without a logged-in user sends NULL so COALESCE keeps
	// the existing owner.
	mock.ExpectExec("INSERT INTO devices").
		WithArgs("a1b2c3", "IOS", "iPhone 15", "17.4", "2.2.0", nil).
		WillReturnResult(sqlmock.NewResult(3, 2))
	mock.ExpectQuery("SELECT id, device_id, platform").
		WithArgs("a1b2c3").
		WillReturnRows(deviceRows(stored))

	d := model.Device{
		DeviceID: "a1b2c3", Platform: model.PlatformIOS,
		Model: "iPhone 15", OSVersion: "17.4", AppVersion: "2.2.0",
	}
	require.NoError(t, repo.Upsert(context.Background(), &d))
	assert.Equal(t, uint64(7), d.UserID)
}

func TestDeviceRepoGetByDeviceIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceRepo(db)

	mock.ExpectQuery("SELECT id, device_id, platform").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByDeviceID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
