package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/model"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func userRows(u model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "username", "full_name", "email", "password_hash", "role",
		"employee_id", "designation", "department", "photo_url",
		"is_active", "created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.FullName, u.Email, u.PasswordHash, string(u.Role),
		u.EmployeeID, u.Designation, u.Department, u.PhotoURL,
		u.IsActive, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepoGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	now := time.Now()
	want := model.User{
		ID: 5, Username: "ravi.kumar", FullName: "Ravi Kumar",
		Email: "ravi@example.com", PasswordHash: "$2a$12$hash",
		Role: model.RoleField, EmployeeID: "EMP-017", IsActive: true,
		CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+userColumns+" FROM users WHERE username=? AND is_active=1 LIMIT 1")).
		WithArgs("ravi.kumar").
		WillReturnRows(userRows(want))

	got, err := repo.GetByUsername(context.Background(), "  ravi.kumar  ")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, model.RoleField, got.Role)
	assert.Equal(t, "$2a$12$hash", got.PasswordHash)
}

func TestUserRepoGetByUsernameMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+userColumns+" FROM users WHERE username=? AND is_active=1 LIMIT 1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepoCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errDuplicateKey{})

	_, err := repo.Create(context.Background(), &model.User{
		Username: "ravi.kumar", Role: model.RoleField,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string {
	return "Error 1062 (23000): Duplicate entry 'ravi.kumar' for key 'users.username'"
}

func TestUserRepoGetActiveByRoleWrongRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT "+userColumns+" FROM users WHERE id=? AND role=? AND is_active=1 LIMIT 1")).
		WithArgs(uint64(9), "FIELD").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetActiveByRole(context.Background(), 9, model.RoleField)
	assert.ErrorIs(t, err, ErrNotFound)
}
