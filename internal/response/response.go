// Package response emits the fixed success envelope shared by every
// endpoint: {"success":true,"data":...}. Error envelopes are produced by
// the central handler in apierror.
package response

import "github.com/labstack/echo/v4"

type body struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// JSON writes data inside the success envelope with the given status.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, body{Success: true, Data: data})
}

// OK is shorthand for a 200 response with no payload.
func OK(c echo.Context) error {
	return c.JSON(200, body{Success: true})
}
