// Package store provides the application's record storage. The primary
// implementations are in-memory, mutex-guarded collections constructed
// once per process and passed by handle to every handler; a SQLite-backed
// todo store can be swapped in behind the same interface. Sentinel errors
// defined here let handlers map failures onto HTTP statuses without
// inspecting error strings.
package store

import (
	"errors"
	"strings"
)

// ErrNotFound is returned by update/delete when no record has the given id.
// Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that is already
// taken. Handlers should translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ValidationError reports one or more invalid input fields. Every failed
// check contributes a message so the client sees all violations at once.
// Handlers should translate this into an HTTP 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
