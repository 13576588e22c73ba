package auth

import "github.com/ksuzuki/todo-auth-api/internal/model"

// ReasonInsufficientRole is the denial reason produced by Authorize.
const ReasonInsufficientRole = "insufficient-role"

// Decision is the outcome of an authorization check. Reason is set only
// on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

// Authorize maps a verified token's role onto permission for a required
// role. Admin satisfies any requirement; user satisfies only user. Every
// protected route goes through this single check instead of comparing
// role strings ad hoc.
func Authorize(role, required model.Role) Decision {
	if role == model.RoleAdmin || role == required {
		return Decision{Allowed: true}
	}
	return Decision{Allowed: false, Reason: ReasonInsufficientRole}
}
