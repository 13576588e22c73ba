package store

import (
	"strings"
	"sync"
	"time"

	"github.com/ksuzuki/todo-auth-api/internal/model"
)

// CreateUserInput carries the fields for a new account. PasswordHash must
// already be hashed; the store never sees a plaintext password.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         model.Role
}

// UserStore keeps accounts in process memory. Emails are unique after
// case-normalization and ids are never reused. The login-attempt mutators
// run under the store lock so concurrent failures cannot lose updates.
type UserStore struct {
	mu     sync.RWMutex
	users  []model.User
	nextID uint64
}

// NewUserStore returns an empty store whose first id will be 1.
func NewUserStore() *UserStore {
	return &UserStore{nextID: 1}
}

// NormalizeEmail lower-cases and trims an email the way the store indexes it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create validates required fields, enforces email uniqueness and appends
// the account. New accounts start active with zero failed attempts.
func (s *UserStore) Create(in CreateUserInput) (model.User, error) {
	var msgs []string
	in.Email = NormalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if in.Email == "" {
		msgs = append(msgs, "email is required")
	}
	if in.PasswordHash == "" {
		msgs = append(msgs, "password hash is required")
	}
	if in.Name == "" {
		msgs = append(msgs, "name is required")
	} else if len(in.Name) > 100 {
		msgs = append(msgs, "name must be at most 100 characters")
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		msgs = append(msgs, "role must be user or admin")
	}
	if len(msgs) > 0 {
		return model.User{}, &ValidationError{Messages: msgs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == in.Email {
			return model.User{}, ErrEmailExists
		}
	}
	u := model.User{
		ID:           s.nextID,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.users = append(s.users, u)
	return u, nil
}

// GetByEmail fetches an account by normalized email.
func (s *UserStore) GetByEmail(email string) (model.User, bool) {
	email = NormalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

// GetByID fetches an account by id.
func (s *UserStore) GetByID(id uint64) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// List returns a copy of every account in insertion order.
func (s *UserStore) List() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// RegisterFailure increments the account's failed-login counter. When the
// counter reaches threshold the account is locked until now+lockFor and the
// counter resets to zero. It returns the updated record and whether this
// failure triggered the lock.
func (s *UserStore) RegisterFailure(id uint64, threshold int, lockFor time.Duration) (model.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		u := &s.users[i]
		u.LoginAttempts++
		if u.LoginAttempts >= threshold {
			until := time.Now().UTC().Add(lockFor)
			u.LockedUntil = &until
			u.LoginAttempts = 0
			return *u, true, nil
		}
		return *u, false, nil
	}
	return model.User{}, false, ErrNotFound
}

// ResetAttempts clears the failed-login counter and any lock, and records
// the successful login time.
func (s *UserStore) ResetAttempts(id uint64, loginAt time.Time) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID != id {
			continue
		}
		u := &s.users[i]
		u.LoginAttempts = 0
		u.LockedUntil = nil
		at := loginAt.UTC()
		u.LastLoginAt = &at
		return *u, nil
	}
	return model.User{}, ErrNotFound
}
