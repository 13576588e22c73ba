package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

func newUser(t *testing.T, s *UserStore, email string) model.User {
	t.Helper()
	u, err := s.Create(CreateUserInput{
		Email:        email,
		PasswordHash: "$2a$12$fakehash",
		Name:         "Test User",
	})
	require.NoError(t, err)
	return u
}

func TestUserStore_CreateDefaults(t *testing.T) {
	s := NewUserStore()

	u := newUser(t, s, "  Alice@Example.COM ")

	assert.Equal(t, uint64(1), u.ID)
	assert.Equal(t, "alice@example.com", u.Email, "email is case-normalized")
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, u.IsActive)
	assert.Zero(t, u.LoginAttempts)
	assert.Nil(t, u.LockedUntil)
	assert.Nil(t, u.LastLoginAt)
}

func TestUserStore_CreateDuplicateEmailCaseInsensitive(t *testing.T) {
	s := NewUserStore()
	newUser(t, s, "alice@example.com")

	_, err := s.Create(CreateUserInput{
		Email:        "ALICE@example.com",
		PasswordHash: "hash",
		Name:         "Other",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUserStore_CreateValidation(t *testing.T) {
	s := NewUserStore()

	longName := make([]byte, 101)
	for i := range longName {
		longName[i] = 'a'
	}

	tests := []struct {
		name string
		in   CreateUserInput
		want string
	}{
		{"missing email", CreateUserInput{PasswordHash: "h", Name: "n"}, "email is required"},
		{"missing hash", CreateUserInput{Email: "a@b.co", Name: "n"}, "password hash is required"},
		{"missing name", CreateUserInput{Email: "a@b.co", PasswordHash: "h"}, "name is required"},
		{"name too long", CreateUserInput{Email: "a@b.co", PasswordHash: "h", Name: string(longName)}, "name must be at most 100 characters"},
		{"bad role", CreateUserInput{Email: "a@b.co", PasswordHash: "h", Name: "n", Role: "root"}, "role must be user or admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.in)
			ve, ok := AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Contains(t, ve.Messages, tt.want)
		})
	}
}

func TestUserStore_GetByEmailNormalizes(t *testing.T) {
	s := NewUserStore()
	created := newUser(t, s, "bob@example.com")

	got, ok := s.GetByEmail(" BOB@Example.com ")
	require.True(t, ok)
	assert.Equal(t, created.ID, got.ID)

	_, ok = s.GetByEmail("nobody@example.com")
	assert.False(t, ok)
}

func TestUserStore_RegisterFailureLocksAtThreshold(t *testing.T) {
	s := NewUserStore()
	u := newUser(t, s, "carol@example.com")

	for i := 1; i < 5; i++ {
		updated, locked, err := s.RegisterFailure(u.ID, 5, 30*time.Minute)
		require.NoError(t, err)
		assert.False(t, locked, "attempt %d must not lock", i)
		assert.Equal(t, i, updated.LoginAttempts)
		assert.Nil(t, updated.LockedUntil)
	}

	updated, locked, err := s.RegisterFailure(u.ID, 5, 30*time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
	require.NotNil(t, updated.LockedUntil)
	assert.True(t, updated.LockedUntil.After(time.Now().UTC().Add(29*time.Minute)))
	assert.Zero(t, updated.LoginAttempts, "counter resets when the lock engages")
}

func TestUserStore_RegisterFailureUnknownUser(t *testing.T) {
	s := NewUserStore()
	_, _, err := s.RegisterFailure(99, 5, time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_ResetAttempts(t *testing.T) {
	s := NewUserStore()
	u := newUser(t, s, "dave@example.com")

	for i := 0; i < 5; i++ {
		_, _, err := s.RegisterFailure(u.ID, 5, 30*time.Minute)
		require.NoError(t, err)
	}

	loginAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	updated, err := s.ResetAttempts(u.ID, loginAt)
	require.NoError(t, err)

	assert.Zero(t, updated.LoginAttempts)
	assert.Nil(t, updated.LockedUntil)
	require.NotNil(t, updated.LastLoginAt)
	assert.Equal(t, loginAt, *updated.LastLoginAt)
}
