package auth

import (
	"time"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// LockoutPolicy configures account lockout: after MaxAttempts consecutive
// failed logins the account is locked for LockDuration. A locked account's
// attempts are refused outright and do not advance the counter.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// IsLocked reports whether the account is currently locked. A LockedUntil
// in the past means the lock window has elapsed and the account is usable
// again; the field is cleared on the next successful login.
func IsLocked(u model.User, now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// RetryAfter returns how long until the lock elapses, or zero when the
// account is not locked. Used to build the retry hint on refusals.
func RetryAfter(u model.User, now time.Time) time.Duration {
	if !IsLocked(u, now) {
		return 0
	}
	return u.LockedUntil.Sub(now)
}
