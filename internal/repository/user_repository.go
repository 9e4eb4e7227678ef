package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/veriflow/field-verification-api/internal/model"
)

const userColumns = "id,username,full_name,email,password_hash,role,employee_id,designation,department,photo_url,is_active,created_at,updated_at"

// UserRepo is the credential store: user records keyed by username.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password arrives already
// hashed; this layer never sees plaintext.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, full_name, email, password_hash, role, employee_id, designation, department, photo_url) VALUES (?,?,?,?,?,?,?,?,?)",
		u.Username, u.FullName, u.Email, u.PasswordHash, string(u.Role),
		u.EmployeeID, u.Designation, u.Department, u.PhotoURL)
	if err != nil {
		if mysqlDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches an active user by exact username. Usernames are
// case-sensitive; a soft-disabled account behaves like a missing one.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? AND is_active=1 LIMIT 1",
		strings.TrimSpace(username))
}

// GetByID fetches a user by id regardless of active state.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.getOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// GetActiveByRole fetches an active user by id constrained to a role. Used
// when assigning cases to confirm the assignee is a live FIELD account.
func (r *UserRepo) GetActiveByRole(ctx context.Context, id uint64, role model.Role) (model.User, error) {
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND role=? AND is_active=1 LIMIT 1",
		id, string(role))
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (model.User, error) {
	var u model.User
	var role string
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Username, &u.FullName, &u.Email, &u.PasswordHash, &role,
		&u.EmployeeID, &u.Designation, &u.Department, &u.PhotoURL,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}
