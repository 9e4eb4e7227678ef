package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func render(t *testing.T, err error) (int, errBody) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body errBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestTypedErrorsRenderTheirCode(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
		code   string
	}{
		{Validation("bad input"), http.StatusBadRequest, CodeValidation},
		{InvalidCredentials(), http.StatusUnauthorized, CodeInvalidCredentials},
		{Unauthorized(), http.StatusUnauthorized, CodeUnauthorized},
		{InvalidToken(), http.StatusUnauthorized, CodeInvalidToken},
		{TokenExpired(), http.StatusUnauthorized, CodeTokenExpired},
		{Forbidden(), http.StatusForbidden, CodeForbidden},
		{NotFound("case not found"), http.StatusNotFound, CodeNotFound},
		{Conflict("already exists"), http.StatusConflict, CodeConflict},
	}
	for _, tc := range cases {
		status, body := render(t, tc.err)
		assert.Equal(t, tc.status, status, tc.code)
		assert.False(t, body.Success)
		assert.Equal(t, tc.code, body.Error.Code)
	}
}

func TestUnexpectedErrorIsSuppressed(t *testing.T) {
	status, body := render(t, errors.New("pq: connection reset by peer"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection reset")
}

func TestEchoHTTPErrorIsMapped(t *testing.T) {
	status, body := render(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, body.Error.Code)
}
