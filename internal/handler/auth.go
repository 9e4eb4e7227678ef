package handler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/veriflow/field-verification-api/internal/apierror"
	"github.com/veriflow/field-verification-api/internal/audit"
	"github.com/veriflow/field-verification-api/internal/config"
	"github.com/veriflow/field-verification-api/internal/middleware"
	"github.com/veriflow/field-verification-api/internal/model"
	"github.com/veriflow/field-verification-api/internal/repository"
	"github.com/veriflow/field-verification-api/internal/response"
	"github.com/veriflow/field-verification-api/internal/utils"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the auth endpoints: login, logout,
// refresh, device registration and the identity probe.
type AuthHandler struct {
	Cfg     config.Config
	Users   *repository.UserRepo
	Devices *repository.DeviceRepo
	Audit   *audit.Recorder
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, devices *repository.DeviceRepo, rec *audit.Recorder) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Devices: devices, Audit: rec}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	DeviceID string `json:"deviceId"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type registerDeviceReq struct {
	DeviceID   string `json:"deviceId"`
	Platform   string `json:"platform"`
	Model      string `json:"model"`
	OSVersion  string `json:"osVersion"`
	AppVersion string `json:"appVersion"`
}

type tokenPair struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type sessionResp struct {
	User   model.User `json:"user"`
	Tokens tokenPair  `json:"tokens"`
}

// issueSession signs an access/refresh pair for the user, optionally bound
// to a device.
func (h *AuthHandler) issueSession(u model.User, deviceID string) (tokenPair, error) {
	access, err := utils.NewAccessToken(h.Cfg.AccessSecret, u, deviceID, h.Cfg.AccessTTLHours)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshSecret, u.ID, deviceID, h.Cfg.RefreshTTLDays)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{
		AccessToken:      access.Token,
		AccessExpiresAt:  access.Exp,
		RefreshToken:     refresh.Token,
		RefreshExpiresAt: refresh.Exp,
	}, nil
}

// Login verifies credentials and returns the user profile with a fresh
// token pair. An unknown username and a wrong password produce the same
// INVALID_CREDENTIALS response so usernames cannot be enumerated.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	req.Username = strings.TrimSpace(req.Username)
	if n := len(req.Username); n < 3 || n > 50 {
		return apierror.Validation("username must be 3-50 characters")
	}
	if len(req.Password) < 6 {
		return apierror.Validation("password must be at least 6 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.InvalidCredentials()
		}
		return apierror.Internal()
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apierror.InvalidCredentials()
	}

	tokens, err := h.issueSession(u, strings.TrimSpace(req.DeviceID))
	if err != nil {
		return apierror.Internal()
	}

	h.Audit.Record(u.ID, model.AuditLogin, map[string]any{
		"ip":         c.RealIP(),
		"user_agent": c.Request().UserAgent(),
		"device_id":  strings.TrimSpace(req.DeviceID),
	})

	return response.JSON(c, 200, sessionResp{User: u, Tokens: tokens})
}

// Logout records the LOGOUT audit entry for the authenticated user. Tokens
// are stateless and stay valid until expiry; logout is an audit/UX signal,
// not a revocation.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Audit.Record(middleware.UserID(c), model.AuditLogout, map[string]any{
		"ip":         c.RealIP(),
		"user_agent": c.Request().UserAgent(),
		"device_id":  middleware.DeviceID(c),
	})
	return response.OK(c)
}

// Refresh exchanges a valid refresh token for a new session pair. The
// refresh token is verified against its own secret; an access token can
// never pass here.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return apierror.Validation("refreshToken required")
	}

	userID, deviceID, err := utils.VerifyRefreshToken(h.Cfg.RefreshSecret, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return apierror.TokenExpired()
		}
		return apierror.InvalidToken()
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.InvalidToken()
		}
		return apierror.Internal()
	}
	if !u.IsActive {
		// Soft-disabled accounts keep their history but cannot mint new
		// sessions.
		return apierror.InvalidToken()
	}

	tokens, err := h.issueSession(u, deviceID)
	if err != nil {
		return apierror.Internal()
	}
	return response.JSON(c, 200, sessionResp{User: u, Tokens: tokens})
}

// RegisterDevice upserts a device registration. The route is reachable
// before login; when a valid bearer token is present the device is
// associated with that user, otherwise it is stored unowned. Registering
// the same deviceId again overwrites the mutable fields (last writer wins,
// including across users).
func (h *AuthHandler) RegisterDevice(c echo.Context) error {
	var req registerDeviceReq
	if err := c.Bind(&req); err != nil {
		return apierror.Validation("invalid request body")
	}
	req.DeviceID = strings.TrimSpace(req.DeviceID)
	req.Model = strings.TrimSpace(req.Model)
	req.OSVersion = strings.TrimSpace(req.OSVersion)
	req.AppVersion = strings.TrimSpace(req.AppVersion)
	if req.DeviceID == "" || req.Model == "" || req.OSVersion == "" || req.AppVersion == "" {
		return apierror.Validation("deviceId, platform, model, osVersion and appVersion are required")
	}
	platform, ok := model.ParsePlatform(req.Platform)
	if !ok {
		return apierror.Validation("platform must be IOS or ANDROID")
	}

	// Optional identity: the route is public, so the bearer is parsed here
	// rather than by middleware and simply ignored when absent or invalid.
	var actorID uint64
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if ident, err := utils.VerifyAccessToken(h.Cfg.AccessSecret, strings.TrimPrefix(auth, "Bearer ")); err == nil {
			actorID = ident.UserID
		}
	}

	d := &model.Device{
		DeviceID:   req.DeviceID,
		Platform:   platform,
		Model:      req.Model,
		OSVersion:  req.OSVersion,
		AppVersion: req.AppVersion,
		UserID:     actorID,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Devices.Upsert(ctx, d); err != nil {
		return apierror.Internal()
	}

	h.Audit.Record(actorID, model.AuditDeviceRegister, map[string]any{
		"ip":        c.RealIP(),
		"device_id": d.DeviceID,
		"platform":  string(d.Platform),
	})

	return response.JSON(c, 200, echo.Map{
		"deviceId":     d.DeviceID,
		"registeredAt": d.CreatedAt,
	})
}

// Me returns the identity carried by the access token.
func (h *AuthHandler) Me(c echo.Context) error {
	return response.JSON(c, 200, echo.Map{
		"id":       middleware.UserID(c),
		"username": middleware.Username(c),
		"role":     middleware.UserRole(c),
		"deviceId": middleware.DeviceID(c),
	})
}
