// Package auth implements the credential, token and authorization services:
// bcrypt password handling, HS256 access/refresh token issuance and
// verification, the revocable refresh-token registry, account lockout
// bookkeeping and the role gate.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns a bcrypt hash using the given cost. The salt is
// generated internally, so hashing the same password twice yields
// different hashes.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
// A mismatch is reported as false, never as an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// StrengthResult reports the outcome of CheckStrength. Errors lists every
// unmet rule in check order so a client can display all violations at once.
type StrengthResult struct {
	Valid  bool
	Errors []string
}

// CheckStrength evaluates the password policy: at least 8 characters, one
// uppercase letter, one lowercase letter and one digit. Every rule runs;
// the checks are not short-circuited.
func CheckStrength(password string) StrengthResult {
	var errs []string
	if len(password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one digit")
	}
	return StrengthResult{Valid: len(errs) == 0, Errors: errs}
}
