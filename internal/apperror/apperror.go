// Package apperror defines the application's error taxonomy.
//
// Every failure the core can produce is one of a small set of sentinel
// errors, wrapped in an AppError that carries the human-readable message
// shown to the end user. Handlers map sentinels to HTTP status codes with
// errors.Is; services never import net/http.
//
// All five domain errors (auth failed, password mismatch, duplicate
// username, invalid image, not authenticated) are EXPECTED outcomes — a
// user typed something wrong and can retry. None of them should ever
// terminate the process or be silently swallowed.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthFailed is returned when credentials match no stored record.
	// Deliberately undifferentiated: callers cannot tell "unknown username"
	// from "wrong password", so login attempts leak no account existence.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrPasswordMismatch is returned when a registration's password and
	// confirmation differ. Reported before any database access.
	ErrPasswordMismatch = errors.New("password mismatch")

	// ErrDuplicateUsername is returned when a registration collides with an
	// existing username. Detection comes from the store's UNIQUE constraint,
	// never from a separate existence check.
	ErrDuplicateUsername = errors.New("duplicate username")

	// ErrInvalidImage is returned when an uploaded file's extension is not
	// on the allow-list.
	ErrInvalidImage = errors.New("invalid image")

	// ErrNotAuthenticated is returned when an operation that requires a
	// session is attempted without one.
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// AppError pairs a sentinel with the message the caller surfaces to the
// end user. The messages for the domain errors are fixed strings the site
// has always shown; don't reword them casually — they appear in flash
// banners and are asserted in tests.
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable, shown to the user
	Field   string // optional: input field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// AuthFailed returns the single undifferentiated login failure.
func AuthFailed() *AppError {
	return &AppError{
		Err:     ErrAuthFailed,
		Message: "Credentials do not match.",
	}
}

// PasswordMismatch reports a registration whose two password fields differ.
func PasswordMismatch() *AppError {
	return &AppError{
		Err:     ErrPasswordMismatch,
		Message: "Passwords must match.",
		Field:   "confirm_password",
	}
}

// DuplicateUsername reports a registration that lost the uniqueness race.
func DuplicateUsername(username string) *AppError {
	return &AppError{
		Err:     ErrDuplicateUsername,
		Message: "Username already exists. Please try another one.",
		Field:   "username",
	}
}

// InvalidImage reports an upload whose extension is not allowed.
func InvalidImage(filename string) *AppError {
	return &AppError{
		Err:     ErrInvalidImage,
		Message: fmt.Sprintf("File %q is not an allowed image type.", filename),
		Field:   "image",
	}
}

// NotAuthenticated reports a content submission without a valid session.
func NotAuthenticated() *AppError {
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: "You must be logged in to do that.",
	}
}

// NotFound reports a missing record. Used by repositories for lookups by ID.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a bad input field caught at the boundary.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}
