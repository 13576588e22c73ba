package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name     string
		role     model.Role
		required model.Role
		allowed  bool
	}{
		{"user meets user", model.RoleUser, model.RoleUser, true},
		{"admin meets user", model.RoleAdmin, model.RoleUser, true},
		{"admin meets admin", model.RoleAdmin, model.RoleAdmin, true},
		{"user denied admin", model.RoleUser, model.RoleAdmin, false},
		{"unknown role denied", model.Role("guest"), model.RoleUser, false},
		{"empty role denied", model.Role(""), model.RoleUser, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Authorize(tt.role, tt.required)
			assert.Equal(t, tt.allowed, d.Allowed)
			if tt.allowed {
				assert.Empty(t, d.Reason)
			} else {
				assert.Equal(t, ReasonInsufficientRole, d.Reason)
			}
		})
	}
}

func TestIsLockedAndRetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, IsLocked(model.User{}, now), "no lock set")

	past := now.Add(-time.Minute)
	assert.False(t, IsLocked(model.User{LockedUntil: &past}, now), "elapsed lock")
	assert.Zero(t, RetryAfter(model.User{LockedUntil: &past}, now))

	future := now.Add(10 * time.Minute)
	locked := model.User{LockedUntil: &future}
	assert.True(t, IsLocked(locked, now))
	assert.Equal(t, 10*time.Minute, RetryAfter(locked, now))
}
