package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/utils"
)

const testSecret = "unit-test-access-secret"

func protectedEcho(secret string) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"userId":   c.Get(CtxUserID),
			"username": c.Get(CtxUsername),
			"role":     c.Get(CtxRole),
		})
	}, JWTAuth(secret))
	return e
}

func doGet(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTAuthMissingHeader(t *testing.T) {
	rec := doGet(protectedEcho(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierror.CodeUnauthorized, errorCode(t, rec))
}

func TestJWTAuthNonBearerScheme(t *testing.T) {
	rec := doGet(protectedEcho(testSecret), "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierror.CodeUnauthorized, errorCode(t, rec))
}

func TestJWTAuthGarbageToken(t *testing.T) {
	rec := doGet(protectedEcho(testSecret), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierror.CodeInvalidToken, errorCode(t, rec))
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", model.User{
		ID: 7, Username: "ravi.kumar", Role: model.RoleField,
	}, "", 1)
	require.NoError(t, err)

	rec := doGet(protectedEcho(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierror.CodeInvalidToken, errorCode(t, rec))
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, model.User{
		ID: 7, Username: "ravi.kumar", Role: model.RoleField,
	}, "", -1)
	require.NoError(t, err)

	rec := doGet(protectedEcho(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apierror.CodeTokenExpired, errorCode(t, rec))
}

func TestJWTAuthValidTokenSetsIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, model.User{
		ID: 7, Username: "ravi.kumar", Role: model.RoleField,
	}, "dev-123", 1)
	require.NoError(t, err)

	rec := doGet(protectedEcho(testSecret), "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UserID   float64 `json:"userId"`
		Username string  `json:"username"`
		Role     string  `json:"role"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body.UserID)
	assert.Equal(t, "ravi.kumar", body.Username)
	assert.Equal(t, "FIELD", body.Role)
}

func TestRequireRoleRejectsOutsideSet(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret), RequireRole(model.RoleAdmin, model.RoleManager))

	tok, err := utils.NewAccessToken(testSecret, model.User{
		ID: 7, Username: "ravi.kumar", Role: model.RoleField,
	}, "", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apierror.CodeForbidden, errorCode(t, rec))
}

func TestRequireRoleAllowsMember(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, JWTAuth(testSecret), RequireRole(model.RoleAdmin, model.RoleManager))

	tok, err := utils.NewAccessToken(testSecret, model.User{
		ID: 1, Username: "ops.manager", Role: model.RoleManager,
	}, "", 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleWithoutAuthContext(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apierror.NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/admin", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
