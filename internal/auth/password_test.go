package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Mypassword123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Mypassword123", hash)

	assert.True(t, VerifyPassword(hash, "Mypassword123"))
	assert.False(t, VerifyPassword(hash, "mypassword123"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "Mypassword123"))
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("Mypassword123", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("Mypassword123", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
		errs     []string
	}{
		{
			name:     "valid password",
			password: "Mypassword123",
			valid:    true,
		},
		{
			name:     "all lowercase",
			password: "password",
			errs: []string{
				"password must contain at least one uppercase letter",
				"password must contain at least one digit",
			},
		},
		{
			name:     "too short reports every violation",
			password: "ab1",
			errs: []string{
				"password must be at least 8 characters",
				"password must contain at least one uppercase letter",
			},
		},
		{
			name:     "no lowercase",
			password: "PASSWORD1",
			errs:     []string{"password must contain at least one lowercase letter"},
		},
		{
			name:     "empty",
			password: "",
			errs: []string{
				"password must be at least 8 characters",
				"password must contain at least one uppercase letter",
				"password must contain at least one lowercase letter",
				"password must contain at least one digit",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckStrength(tt.password)
			assert.Equal(t, tt.valid, got.Valid)
			for _, e := range tt.errs {
				assert.Contains(t, got.Errors, e)
			}
			if tt.valid {
				assert.Empty(t, got.Errors)
			}
		})
	}
}
