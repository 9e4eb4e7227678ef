package model

import "time"

// Platform is the closed set of mobile platforms a device can report.
type Platform string

const (
	PlatformIOS     Platform = "IOS"
	PlatformAndroid Platform = "ANDROID"
)

// ParsePlatform normalizes raw input to a Platform. The boolean is false
// when the value is not IOS or ANDROID.
func ParsePlatform(raw string) (Platform, bool) {
	switch Platform(trimUpper(raw)) {
	case PlatformIOS:
		return PlatformIOS, true
	case PlatformAndroid:
		return PlatformAndroid, true
	}
	return "", false
}

// Device mirrors the `devices` table. The DeviceID is client-generated and
// globally unique; re-registration with the same DeviceID overwrites the
// mutable fields and bumps UpdatedAt but never creates a second row.
// UserID is zero when the device registered before any login.
type Device struct {
	ID         uint64    `json:"-"`
	DeviceID   string    `json:"deviceId"`
	Platform   Platform  `json:"platform"`
	Model      string    `json:"model"`
	OSVersion  string    `json:"osVersion"`
	AppVersion string    `json:"appVersion"`
	UserID     uint64    `json:"userId,omitempty"`
	CreatedAt  time.Time `json:"registeredAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
