package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

func testTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", "todo-api", "todo-app", 15*time.Minute, 7*24*time.Hour)
}

func testUser(id uint64) model.User {
	return model.User{ID: id, Email: "user@example.com", Role: model.RoleUser, IsActive: true}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := testTokenService()
	u := testUser(7)

	token, exp, err := svc.IssueAccess(u)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "todo-api", claims.Issuer)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	svc := testTokenService()

	refresh, _, err := svc.IssueRefresh(testUser(1))
	require.NoError(t, err)

	// Different signing secret, so the access verifier must refuse it.
	_, err = svc.VerifyAccess(refresh)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyAccessExpired(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", "todo-api", "todo-app", -time.Minute, time.Hour)

	token, _, err := svc.IssueAccess(testUser(1))
	require.NoError(t, err)

	_, err = svc.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyAccessMalformed(t *testing.T) {
	svc := testTokenService()
	_, err := svc.VerifyAccess("not.a.token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyAccessWrongIssuer(t *testing.T) {
	other := NewTokenService("access-secret", "refresh-secret", "other-api", "todo-app", time.Hour, time.Hour)
	token, _, err := other.IssueAccess(testUser(1))
	require.NoError(t, err)

	svc := testTokenService()
	_, err = svc.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyRefreshChecksRegistryFirst(t *testing.T) {
	svc := testTokenService()
	u := testUser(1)

	token, _, err := svc.IssueRefresh(u)
	require.NoError(t, err)
	assert.True(t, svc.Registry().Contains(token))

	claims, err := svc.VerifyRefresh(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	require.True(t, svc.Revoke(token))
	_, err = svc.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrTokenRevoked, "a valid signature does not resurrect a revoked token")
}

func TestRefreshIssuesNewAccessOnly(t *testing.T) {
	svc := testTokenService()
	u := testUser(3)

	refresh, _, err := svc.IssueRefresh(u)
	require.NoError(t, err)

	lookup := func(id uint64) (model.User, bool) {
		if id == u.ID {
			return u, true
		}
		return model.User{}, false
	}

	access, _, err := svc.Refresh(refresh, lookup)
	require.NoError(t, err)

	claims, err := svc.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	// No rotation: the same refresh token keeps working.
	_, _, err = svc.Refresh(refresh, lookup)
	assert.NoError(t, err)
	assert.Equal(t, 1, svc.Registry().Len())
}

func TestRefreshDropsTokenForMissingOrInactiveUser(t *testing.T) {
	svc := testTokenService()

	gone, _, err := svc.IssueRefresh(testUser(1))
	require.NoError(t, err)

	_, _, err = svc.Refresh(gone, func(uint64) (model.User, bool) { return model.User{}, false })
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.False(t, svc.Registry().Contains(gone))

	inactiveUser := testUser(2)
	inactive, _, err := svc.IssueRefresh(inactiveUser)
	require.NoError(t, err)
	inactiveUser.IsActive = false

	_, _, err = svc.Refresh(inactive, func(uint64) (model.User, bool) { return inactiveUser, true })
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.False(t, svc.Registry().Contains(inactive))
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc := testTokenService()

	token, _, err := svc.IssueRefresh(testUser(1))
	require.NoError(t, err)

	assert.True(t, svc.Revoke(token))
	assert.False(t, svc.Revoke(token))
	assert.False(t, svc.Revoke("never-issued"))
}

func TestRevokeAll(t *testing.T) {
	svc := testTokenService()
	alice := testUser(1)
	bob := testUser(2)
	bob.Email = "bob@example.com"

	// Claims carry second-precision timestamps, so tokens minted in the
	// same instant would be byte-identical. Vary the email to model three
	// distinct sessions.
	for _, email := range []string{"alice@example.com", "alice@phone.example.com", "alice@tablet.example.com"} {
		session := alice
		session.Email = email
		_, _, err := svc.IssueRefresh(session)
		require.NoError(t, err)
	}
	bobToken, _, err := svc.IssueRefresh(bob)
	require.NoError(t, err)

	// A registry entry that no longer decodes is purged but not counted.
	svc.Registry().Add("garbage-entry")

	assert.Equal(t, 3, svc.RevokeAll(alice.ID))

	assert.Equal(t, 1, svc.Registry().Len())
	assert.True(t, svc.Registry().Contains(bobToken), "other users' tokens survive")
	assert.False(t, svc.Registry().Contains("garbage-entry"))

	assert.Zero(t, svc.RevokeAll(alice.ID), "second pass finds nothing")
}
