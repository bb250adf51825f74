package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when registering an email that already
	// has an account. Email comparison is an exact, case-sensitive match.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidSession is returned when a request carries a session token
	// the store does not recognize.
	ErrInvalidSession = errors.New("invalid session")

	// ErrQuotaRequiresAuth is returned when a guest session has exhausted
	// its ceiling; registering or logging in unlocks the larger quota.
	ErrQuotaRequiresAuth = errors.New("guest analysis limit reached, sign in to continue")

	// ErrQuotaExhausted is returned when an authenticated session has used
	// all of its analyses. There is no further ceiling to unlock.
	ErrQuotaExhausted = errors.New("analysis limit reached")

	// ErrUnauthenticated is returned for operations that require a user
	// attached to the session.
	ErrUnauthenticated = errors.New("not logged in")

	// ErrInterpreterUnavailable is returned when the AI provider yields no
	// usable output. The request can simply be retried by the user.
	ErrInterpreterUnavailable = errors.New("dream interpreter unavailable")
)

// ValidationError reports the first violated input rule. The message is
// safe to surface to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

