package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/model"
)

func TestAuditRepoInsertMarshalsDetails(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepo(db)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), uint64(7), "LOGIN", `{"ip":"10.0.0.1"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := model.AuditEntry{
		ActorUserID: 7,
		Action:      model.AuditLogin,
		Details:     map[string]any{"ip": "10.0.0.1"},
	}
	require.NoError(t, repo.Insert(context.Background(), &e))
	assert.NotEmpty(t, e.ID, "insert assigns a uuid")
}

func TestAuditRepoInsertAnonymousActor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepo(db)

	mock.ExpectExec("INSERT INTO audit_log").
		WithArgs(sqlmock.AnyArg(), nil, "DEVICE_REGISTER", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := model.AuditEntry{Action: model.AuditDeviceRegister}
	require.NoError(t, repo.Insert(context.Background(), &e))
}

func TestAuditRepoListNewestFirst(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepo(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id, actor_user_id, action, details, created_at FROM audit_log").
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_user_id", "action", "details", "created_at"}).
			AddRow("b7e2", uint64(7), "LOGOUT", nil, now).
			AddRow("a1c9", nil, "LOGIN", `{"ip":"10.0.0.1"}`, now.Add(-time.Minute)))

	entries, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditLogout, entries[0].Action)
	assert.Equal(t, uint64(7), entries[0].ActorUserID)
	assert.Zero(t, entries[1].ActorUserID)
	assert.Equal(t, "10.0.0.1", entries[1].Details["ip"])
}
