package model

import "strings"

// Role is the closed set of user roles understood by the API. Authorization
// decisions compare against these constants only; free-form role strings are
// rejected at parse time so route gates stay a single source of truth.
type Role string

const (
	RoleAdmin   Role = "ADMIN"   // full administrative access
	RoleManager Role = "MANAGER" // back-office operations
	RoleField   Role = "FIELD"   // field verification agents (mobile app)
	RoleBank    Role = "BANK"    // client-bank viewers
)

// ParseRole normalizes raw input to a Role. The boolean is false when the
// value is not one of the known roles.
func ParseRole(raw string) (Role, bool) {
	switch Role(trimUpper(raw)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleField:
		return RoleField, true
	case RoleBank:
		return RoleBank, true
	}
	return "", false
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }

func trimUpper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
