// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// Audit actions published by the auth handlers. Failed events double as
// security signals, so the consumer flags them in the log.
const (
	ActionRegister      = "AUTH_REGISTER"
	ActionLoginSuccess  = "AUTH_LOGIN"
	ActionLoginFailed   = "AUTH_LOGIN_FAILED"
	ActionAccountLocked = "AUTH_ACCOUNT_LOCKED"
	ActionTokenRefresh  = "AUTH_TOKEN_REFRESH"
	ActionLogout        = "AUTH_LOGOUT"
	ActionLogoutAll     = "AUTH_LOGOUT_ALL"
)

// AuditEvent is published to the auth.audit queue for every security
// relevant operation. It carries enough context for downstream consumers
// to log or alert without querying the API's stores.
type AuditEvent struct {
	Action    string `json:"action"`
	UserID    uint64 `json:"user_id,omitempty"`
	Email     string `json:"email,omitempty"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
	Success   bool   `json:"success"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp"`
}
