package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// Token verification failures are categorized so handlers can produce
// precise messages. None of them is fatal to the process.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenRevoked   = errors.New("token revoked")
)

// Claims is the payload carried by both token classes: the user's identity
// plus the standard registered claims.
type Claims struct {
	UserID uint64     `json:"user_id"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues, verifies, refreshes and revokes the two token
// classes. Access tokens are short-lived and verified purely
// cryptographically; refresh tokens are longer-lived, signed with a
// distinct secret and additionally tracked in the revocable registry.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	audience      string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	registry      *Registry
}

// NewTokenService builds a service with its own empty registry.
func NewTokenService(accessSecret, refreshSecret, issuer, audience string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		audience:      audience,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		registry:      NewRegistry(),
	}
}

// Registry exposes the refresh-token registry, mainly for tests.
func (s *TokenService) Registry() *Registry {
	return s.registry
}

func (s *TokenService) sign(u model.User, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueAccess signs a short-lived access token for the user.
func (s *TokenService) IssueAccess(u model.User) (string, time.Time, error) {
	return s.sign(u, s.accessSecret, s.accessTTL)
}

// IssueRefresh signs a refresh token and registers it so it can later be
// revoked server-side.
func (s *TokenService) IssueRefresh(u model.User) (string, time.Time, error) {
	token, exp, err := s.sign(u, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return "", time.Time{}, err
	}
	s.registry.Add(token)
	return token, exp, nil
}

func (s *TokenService) parse(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	return claims, nil
}

// VerifyAccess validates an access token's signature, issuer, audience and
// expiry, returning the decoded claims or a typed failure.
func (s *TokenService) VerifyAccess(token string) (*Claims, error) {
	return s.parse(token, s.accessSecret)
}

// VerifyRefresh validates a refresh token. Registry membership is checked
// first: a cryptographically valid but unregistered token has been revoked
// and is rejected.
func (s *TokenService) VerifyRefresh(token string) (*Claims, error) {
	if !s.registry.Contains(token) {
		return nil, ErrTokenRevoked
	}
	return s.parse(token, s.refreshSecret)
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
func (s *TokenService) Refresh(refreshToken string, lookup func(userID uint64) (model.User, bool)) (string, time.Time, error) {
	claims, err := s.VerifyRefresh(refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	u, ok := lookup(claims.UserID)
	if !ok || !u.IsActive {
		// The account disappeared or was deactivated; drop the token.
		s.registry.Remove(refreshToken)
		return "", time.Time{}, ErrTokenRevoked
	}
	return s.IssueAccess(u)
}

// Revoke removes a single refresh token from the registry. It is
// idempotent: revoking an absent token reports false rather than erroring.
func (s *TokenService) Revoke(refreshToken string) bool {
	return s.registry.Remove(refreshToken)
}

// RevokeAll scans the registry, decodes each token to discover ownership
// and removes every token belonging to userID. Tokens that no longer
// decode are purged as garbage but not counted. Returns the number of the
// user's tokens removed.
func (s *TokenService) RevokeAll(userID uint64) int {
	revoked := 0
	for _, token := range s.registry.Snapshot() {
		claims, err := s.parse(token, s.refreshSecret)
		if err != nil {
			s.registry.Remove(token)
			continue
		}
		if claims.UserID == userID && s.registry.Remove(token) {
			revoked++
		}
	}
	return revoked
}
