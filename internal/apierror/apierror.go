// Package apierror defines the typed failures handlers raise and the single
// Echo error handler that converts them into the JSON error envelope. Any
// error that is not an *Error reaches the client as INTERNAL_ERROR with its
// message suppressed.
package apierror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Error codes returned to clients. The set is closed; handlers never invent
// ad-hoc code strings.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

// Error is a client-visible API failure. It implements error so handlers
// can return it directly from an echo.HandlerFunc.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// New builds an *Error with an explicit status, code and message.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, CodeValidation, message)
}

// InvalidCredentials is shared by the unknown-user and wrong-password paths
// so the two are indistinguishable to the caller.
func InvalidCredentials() *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, "invalid credentials")
}

func Unauthorized() *Error {
	return New(http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
}

func InvalidToken() *Error {
	return New(http.StatusUnauthorized, CodeInvalidToken, "invalid token")
}

func TokenExpired() *Error {
	return New(http.StatusUnauthorized, CodeTokenExpired, "token expired")
}

func Forbidden() *Error {
	return New(http.StatusForbidden, CodeForbidden, "forbidden")
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, CodeConflict, message)
}

func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternal, "internal error")
}

// envelope is the fixed error response shape.
type envelope struct {
	Success bool   `json:"success"`
	Error   *Error `json:"error"`
}

// NewHTTPErrorHandler returns the central Echo error handler. Typed *Error
// values render as-is; echo.HTTPError (404 route miss, oversized body, ...)
// is mapped onto the taxonomy; everything else is logged with the request
// path and reported as a bare INTERNAL_ERROR.
func NewHTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				switch he.Code {
				case http.StatusNotFound:
					apiErr = NotFound("resource not found")
				case http.StatusMethodNotAllowed:
					apiErr = NotFound("resource not found")
				case http.StatusUnauthorized:
					apiErr = Unauthorized()
				case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
					apiErr = Validation(http.StatusText(he.Code))
				default:
					apiErr = Internal()
				}
			} else {
				apiErr = Internal()
			}
			if apiErr.Code == CodeInternal {
				logger.Error().Err(err).
					Str("method", c.Request().Method).
					Str("path", c.Request().URL.Path).
					Msg("unhandled error")
			}
		}

		if err := c.JSON(apiErr.Status, envelope{Success: false, Error: apiErr}); err != nil {
			logger.Error().Err(err).Msg("write error response")
		}
	}
}
