package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow/field-verification-api/internal/model"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func testUser() model.User {
	return model.User{ID: 42, Username: "ravi.kumar", Role: model.RoleField}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, testUser(), "dev-123", 24)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	ident, err := VerifyAccessToken(testAccessSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), ident.UserID)
	assert.Equal(t, "ravi.kumar", ident.Username)
	assert.Equal(t, model.RoleField, ident.Role)
	assert.Equal(t, "dev-123", ident.DeviceID)
}

func TestAccessTokenWithoutDevice(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, testUser(), "", 24)
	require.NoError(t, err)

	ident, err := VerifyAccessToken(testAccessSecret, tok.Token)
	require.NoError(t, err)
	assert.Empty(t, ident.DeviceID)
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, testUser(), "", -1)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testAccessSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testAccessSecret, testUser(), "", 24)
	require.NoError(t, err)

	_, err = VerifyAccessToken("some-other-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := VerifyAccessToken(testAccessSecret, raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, raw)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	tok, err := NewRefreshToken(testRefreshSecret, 42, "dev-123", 7)
	require.NoError(t, err)

	uid, deviceID, err := VerifyRefreshToken(testRefreshSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "dev-123", deviceID)
}

func TestRefreshTokenExpired(t *testing.T) {
	tok, err := NewRefreshToken(testRefreshSecret, 42, "", -1)
	require.NoError(t, err)

	_, _, err = VerifyRefreshToken(testRefreshSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// The two token families are signed with distinct secrets: neither may
// verify as the other.
func TestTokenFamiliesAreDistinct(t *testing.T) {
	access, err := NewAccessToken(testAccessSecret, testUser(), "", 24)
	require.NoError(t, err)
	refresh, err := NewRefreshToken(testRefreshSecret, 42, "", 7)
	require.NoError(t, err)

	_, _, err = VerifyRefreshToken(testRefreshSecret, access.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = VerifyAccessToken(testAccessSecret, refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

// A refresh token carries no role claim, so even with the right secret it
// can never pass the access verifier.
func TestRefreshTokenLacksRoleClaim(t *testing.T) {
	refresh, err := NewRefreshToken(testAccessSecret, 42, "", 7)
	require.NoError(t, err)

	_, err = VerifyAccessToken(testAccessSecret, refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
