// Package repository contains the data access layer: thin structs around a
// *sql.DB injected at startup. This file defines sentinel errors reused
// across repositories so handlers can translate failures into the API error
// taxonomy without string matching.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a lookup matches no row. Handlers translate
// it into HTTP 404, or into INVALID_CREDENTIALS on the login path where a
// miss must be indistinguishable from a bad password.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as reusing a username or client name. Handlers translate it into
// HTTP 409.
var ErrDuplicate = errors.New("duplicate")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as a field agent updating a case assigned
// to someone else. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a guarded update matches no row because the
// row's state moved between the caller's read and the write, such as two
// agents racing a case status change. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// mysqlDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func mysqlDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
