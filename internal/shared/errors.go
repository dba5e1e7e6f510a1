package shared

import (
	"errors"
	"fmt"
)

// Error taxonomy for the front office. Validation errors are caught before
// any network call and always recoverable; fetch errors leave the form in its
// last good state; submission errors block with the server message; side
// effect errors downgrade an otherwise successful save.
var (
	// ErrValidation indicates locally rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrFetch indicates a non-fatal lookup failure against the remote API.
	ErrFetch = errors.New("lookup failed")
	// ErrSubmission indicates the remote API rejected or failed a save.
	ErrSubmission = errors.New("submission failed")
	// ErrSideEffect indicates a dependent best-effort call failed after a
	// successful primary save.
	ErrSideEffect = errors.New("side effect failed")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates a missing or expired login.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the permission gate denied access.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict indicates a concurrent duplicate operation.
	ErrConflict = errors.New("conflict")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// Validationf wraps ErrValidation with a user-facing message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// UserSafeMessage returns a message safe to show to the end user. Taxonomy
// errors carry their own text; anything else is replaced with a generic line
// so internal details never leak into responses.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range []error{ErrValidation, ErrFetch, ErrSubmission, ErrSideEffect, ErrNotFound, ErrUnauthorized, ErrForbidden, ErrConflict} {
		if errors.Is(err, sentinel) {
			return err.Error()
		}
	}
	return "something went wrong, please try again"
}
