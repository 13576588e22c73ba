package handler

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ksuzuki/todo-auth-api/internal/auth"
	"github.com/ksuzuki/todo-auth-api/internal/config"
	"github.com/ksuzuki/todo-auth-api/internal/middleware"
	"github.com/ksuzuki/todo-auth-api/internal/model"
	"github.com/ksuzuki/todo-auth-api/internal/queue"
	audit_publisher "github.com/ksuzuki/todo-auth-api/internal/service"
	"github.com/ksuzuki/todo-auth-api/internal/store"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *store.UserStore
	Tokens *auth.TokenService

	// Audit receives a security audit event for every auth operation.
	// Nil disables auditing (used in tests); the default implementation
	// publishes to the auth.audit queue off the request goroutine.
	Audit func(ev queue.AuditEvent)
}

func NewAuthHandler(cfg config.Config, users *store.UserStore, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{
		Cfg:    cfg,
		Users:  users,
		Tokens: tokens,
		Audit: func(ev queue.AuditEvent) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = audit_publisher.PublishAuditEvent(ctx, ev)
			}()
		},
	}
}

func (h *AuthHandler) audit(c echo.Context, action string, userID uint64, email string, success bool, details string) {
	if h.Audit == nil {
		return
	}
	h.Audit(queue.AuditEvent{
		Action:    action,
		UserID:    userID,
		Email:     email,
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Success:   success,
		Details:   details,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
type authResp struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
	Tokens  tokenPair  `json:"tokens"`
}

func (h *AuthHandler) issuePair(u model.User) (tokenPair, error) {
	access, _, err := h.Tokens.IssueAccess(u)
	if err != nil {
		return tokenPair{}, err
	}
	refresh, _, err := h.Tokens.IssueRefresh(u)
	if err != nil {
		return tokenPair{}, err
	}
	return tokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Register creates an account and returns tokens immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = store.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email, password and name are required"})
	}
	if !emailPattern.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email address is required"})
	}
	if len(req.Password) > 128 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at most 128 characters"})
	}
	if strength := auth.CheckStrength(req.Password); !strength.Valid {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "password does not meet the requirements",
			"details": strength.Errors,
		})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		c.Logger().Errorf("register: hash failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
	}

	u, err := h.Users.Create(store.CreateUserInput{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleUser,
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		if ve, ok := store.AsValidation(err); ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "details": ve.Messages})
		}
		c.Logger().Errorf("register: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
	}

	pair, err := h.issuePair(u)
	if err != nil {
		c.Logger().Errorf("register: issue tokens failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
	}

	h.audit(c, queue.ActionRegister, u.ID, u.Email, true, "")
	return c.JSON(http.StatusCreated, authResp{
		Message: "user registered successfully",
		User:    u,
		Tokens:  pair,
	})
}

// Login verifies credentials, maintains the lockout counters and returns a
// fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Email = store.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	u, ok := h.Users.GetByEmail(req.Email)
	if !ok || !u.IsActive {
		h.audit(c, queue.ActionLoginFailed, 0, req.Email, false, "unknown or inactive account")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	now := time.Now().UTC()
	if auth.IsLocked(u, now) {
		// Locked accounts are refused outright, even with the correct
		// password, and the attempt counter does not advance.
		secs := int(auth.RetryAfter(u, now).Seconds())
		h.audit(c, queue.ActionLoginFailed, u.ID, u.Email, false, "account locked")
		return c.JSON(http.StatusForbidden, echo.Map{
			"error":       "account is locked due to repeated failed logins",
			"retry_after": secs,
		})
	}

	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		updated, lockedNow, err := h.Users.RegisterFailure(u.ID, h.Cfg.MaxLoginAttempts, h.Cfg.LockDuration)
		if err != nil {
			c.Logger().Errorf("login: register failure failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
		}
		if lockedNow {
			secs := int(auth.RetryAfter(updated, now).Seconds())
			h.audit(c, queue.ActionAccountLocked, u.ID, u.Email, false, "lockout threshold reached")
			return c.JSON(http.StatusForbidden, echo.Map{
				"error":       "account is locked due to repeated failed logins",
				"retry_after": secs,
			})
		}
		h.audit(c, queue.ActionLoginFailed, u.ID, u.Email, false, "wrong password")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}

	u, err := h.Users.ResetAttempts(u.ID, now)
	if err != nil {
		c.Logger().Errorf("login: reset attempts failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
	}

	pair, err := h.issuePair(u)
	if err != nil {
		c.Logger().Errorf("login: issue tokens failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error occurred"})
	}

	h.audit(c, queue.ActionLoginSuccess, u.ID, u.Email, true, "")
	return c.JSON(http.StatusOK, authResp{
		Message: "login successful",
		User:    u,
		Tokens:  pair,
	})
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh token is required"})
	}
	raw := strings.TrimSpace(req.RefreshToken)

	access, _, err := h.Tokens.Refresh(raw, h.Users.GetByID)
	if err != nil {
		h.audit(c, queue.ActionTokenRefresh, 0, "", false, err.Error())
		if errors.Is(err, auth.ErrTokenExpired) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token expired"})
		}
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid refresh token"})
	}

	h.audit(c, queue.ActionTokenRefresh, 0, "", true, "")
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

// Logout revokes the refresh token supplied in the body. Revoking an
// already-revoked token is a no-op, so logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		h.Tokens.Revoke(raw)
	}
	userID, _ := c.Get(middleware.CtxUserID).(uint64)
	email, _ := c.Get(middleware.CtxEmail).(string)
	h.audit(c, queue.ActionLogout, userID, email, true, "")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// LogoutAll revokes every refresh token belonging to the caller and
// reports how many were revoked.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	revoked := h.Tokens.RevokeAll(userID)
	email, _ := c.Get(middleware.CtxEmail).(string)
	h.audit(c, queue.ActionLogoutAll, userID, email, true, "")
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "logged out from all devices",
		"revokedTokens": revoked,
	})
}

// Profile returns the caller's account record.
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserID).(uint64)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	u, ok := h.Users.GetByID(userID)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// UserInfo echoes the verified token identity back to the caller. The
// route is gated on the user role.
func (h *AuthHandler) UserInfo(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserID).(uint64)
	email, _ := c.Get(middleware.CtxEmail).(string)
	role, _ := c.Get(middleware.CtxRole).(model.Role)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "user endpoint accessed",
		"user": echo.Map{
			"userId": userID,
			"email":  email,
			"role":   role,
		},
	})
}
