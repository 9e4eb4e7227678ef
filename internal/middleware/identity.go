package middleware

// identity.go defines helpers for reading the authenticated identity back
// out of the Echo context. Handlers use these instead of repeating type
// assertions on the raw context values.

import (
	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/model"
)

// UserID returns the authenticated user's id, or 0 when the request is
// unauthenticated (public routes, pre-login device registration).
func UserID(c echo.Context) uint64 {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return v
	}
	return 0
}

// UserRole returns the authenticated role, or "" when unauthenticated.
func UserRole(c echo.Context) model.Role {
	if v, ok := c.Get(CtxRole).(model.Role); ok {
		return v
	}
	return ""
}

// Username returns the authenticated username, or "" when unauthenticated.
func Username(c echo.Context) string {
	if v, ok := c.Get(CtxUsername).(string); ok {
		return v
	}
	return ""
}

// DeviceID returns the device id bound into the access token, if any.
func DeviceID(c echo.Context) string {
	if v, ok := c.Get(CtxDeviceID).(string); ok {
		return v
	}
	return ""
}
