package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/model"
)

// RequireRole returns a middleware that rejects requests whose
// authenticated role is outside the allowed set. It is the single role gate
// for the whole API: routes declare their allowed roles here instead of
// comparing strings in handlers. JWTAuth must run first to place the role
// in context.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || !allowed[role] {
				return apierror.Forbidden()
			}
			return next(c)
		}
	}
}
