package middleware // middleware provides shared request processing for handlers

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/utils"
)

// Context keys set by JWTAuth and read by handlers and downstream
// middleware.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
	CtxDeviceID = "device_id"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the verified identity into the request context. A missing
// header, a bad signature and an elapsed expiry each map to their own error
// code so clients can tell when to refresh versus re-authenticate. The
// middleware never touches the database: authorization is a pure function
// of the token payload.
func JWTAuth(accessSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apierror.Unauthorized()
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			ident, err := utils.VerifyAccessToken(accessSecret, raw)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return apierror.TokenExpired()
				}
				return apierror.InvalidToken()
			}

			c.Set(CtxUserID, ident.UserID)
			c.Set(CtxUsername, ident.Username)
			c.Set(CtxRole, ident.Role)
			c.Set(CtxDeviceID, ident.DeviceID)
			return next(c)
		}
	}
}
