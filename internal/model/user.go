package model

import "time"

// Role is the authorization level of a user. The hierarchy is strictly
// two-level: RoleAdmin satisfies any requirement, RoleUser satisfies only
// RoleUser. No other roles exist.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an application account.
//
// Fields:
//  ID            – sequential identifier assigned by the store, never reused.
//  Email         – unique, stored lower-cased and trimmed.
//  PasswordHash  – bcrypt hash; the plaintext never persists past hashing.
//  Name          – display name, 1..100 characters.
//  Role          – user or admin.
//  IsActive      – inactive accounts cannot authenticate.
//  LoginAttempts – consecutive failed logins since the last success.
//  LockedUntil   – while set and in the future, authentication is refused
//                  regardless of password correctness.
//  CreatedAt     – set once at creation.
//  LastLoginAt   – updated on every successful login.
type User struct {
	ID            uint64     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Role          Role       `json:"role"`
	IsActive      bool       `json:"is_active"`
	LoginAttempts int        `json:"-"`
	LockedUntil   *time.Time `json:"-"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}
