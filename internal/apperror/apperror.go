// Package apperror holds the error kinds shared by every domain package.
package apperror

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrValidation      = errors.New("validation error")
)

// Error is a domain error tagged with one of the kinds above.
// Reason is a stable machine-readable code returned to clients.
type Error struct {
	Kind    error
	Reason  string
	Message string
}

func New(kind error, reason, message string) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// ReasonOf returns the reason code carried by err, or "" if there is none.
func ReasonOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Reason
	}
	return ""
}
