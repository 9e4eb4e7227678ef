package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/veriflow/field-verification-api/internal/model"
)

// Sentinel errors returned by the verifiers. Middleware maps these onto the
// TOKEN_EXPIRED and INVALID_TOKEN response codes.
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// SignedToken is a serialized HS256 JWT together with its expiry. Tokens
// are stateless: nothing is persisted server-side and there is no
// revocation before expiry.
type SignedToken struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expires"`
}

// Identity is the verified payload of an access token. It is attached to
// the request context by the auth middleware; role checks downstream are
// pure functions of this value and never re-query the database.
type Identity struct {
	UserID   uint64
	Username string
	Role     model.Role
	DeviceID string
}

// NewAccessToken builds and signs an HS256 access token for a user. The
// claims carry the subject (sub), username, role and, when the login came
// from a registered device, the device id. Expiry defaults to 24 hours.
func NewAccessToken(secret string, u model.User, deviceID string, ttlHours int) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":      u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	}
	if deviceID != "" {
		claims["device_id"] = deviceID
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh token. Refresh tokens
// carry only the subject and optional device id and live for ttlDays. They
// are signed with a secret distinct from the access secret, so one cannot
// stand in for the other.
func NewRefreshToken(secret string, userID uint64, deviceID string, ttlDays int) (SignedToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}
	if deviceID != "" {
		claims["device_id"] = deviceID
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken checks signature and expiry against the access secret
// and extracts the caller's identity from the claims.
func VerifyAccessToken(secret, raw string) (Identity, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return Identity{}, err
	}
	uid, ok := claimUint64(claims, "sub")
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	username, _ := claims["username"].(string)
	roleRaw, _ := claims["role"].(string)
	role, ok := model.ParseRole(roleRaw)
	if !ok {
		return Identity{}, ErrTokenInvalid
	}
	deviceID, _ := claims["device_id"].(string)
	return Identity{UserID: uid, Username: username, Role: role, DeviceID: deviceID}, nil
}

// VerifyRefreshToken checks signature and expiry against the refresh secret
// and returns the subject user id and optional device id.
func VerifyRefreshToken(secret, raw string) (uint64, string, error) {
	claims, err := parseHS256(secret, raw)
	if err != nil {
		return 0, "", err
	}
	uid, ok := claimUint64(claims, "sub")
	if !ok {
		return 0, "", ErrTokenInvalid
	}
	deviceID, _ := claims["device_id"].(string)
	return uid, deviceID, nil
}

// parseHS256 parses and validates a token, rejecting any signing method
// other than HMAC. Expiry failures are distinguished from every other
// validation failure.
func parseHS256(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// claimUint64 reads a numeric claim. JSON numbers decode as float64; some
// clients send numeric strings.
func claimUint64(claims jwt.MapClaims, key string) (uint64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return uint64(v), true
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}
