package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"ADMIN":   RoleAdmin,
		"admin":   RoleAdmin,
		" field ": RoleField,
		"Manager": RoleManager,
		"bank":    RoleBank,
	} {
		role, ok := ParseRole(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, role)
	}

	for _, raw := range []string{"", "root", "ADMINISTRATOR", "customer"} {
		_, ok := ParseRole(raw)
		assert.False(t, ok, raw)
	}
}

func TestParsePlatform(t *testing.T) {
	p, ok := ParsePlatform("ios")
	assert.True(t, ok)
	assert.Equal(t, PlatformIOS, p)

	p, ok = ParsePlatform(" ANDROID ")
	assert.True(t, ok)
	assert.Equal(t, PlatformAndroid, p)

	_, ok = ParsePlatform("windows")
	assert.False(t, ok)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(CaseAssigned, CaseInProgress))
	assert.True(t, CanTransition(CaseAssigned, CaseRejected))
	assert.True(t, CanTransition(CaseInProgress, CaseCompleted))
	assert.True(t, CanTransition(CaseInProgress, CaseRejected))

	// PENDING leaves only via assignment, and terminal states stay put.
	assert.False(t, CanTransition(CasePending, CaseInProgress))
	assert.False(t, CanTransition(CasePending, CaseAssigned))
	assert.False(t, CanTransition(CaseCompleted, CaseInProgress))
	assert.False(t, CanTransition(CaseRejected, CaseAssigned))
	assert.False(t, CanTransition(CaseAssigned, CaseAssigned))
}
