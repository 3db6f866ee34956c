package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
)

// Error is a typed failure carrying the offending resource and identifier.
// Kind is one of the sentinels above, so errors.Is works on it.
type Error struct {
	Kind     error
	Resource string
	ID       string
	Message  string
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.ID != "":
		return fmt.Sprintf("%s %s: %s", e.Resource, e.ID, e.Message)
	case e.Message != "":
		return e.Message
	case e.ID != "":
		return fmt.Sprintf("%s %s %s", e.Resource, e.ID, e.Kind)
	default:
		return fmt.Sprintf("%s %s", e.Resource, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound reports a missing resource, e.g. NotFound("product", id).
func NotFound(resource, id string) error {
	return &Error{Kind: ErrNotFound, Resource: resource, ID: id}
}

func InvalidInput(format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func PreconditionFailed(format string, args ...any) error {
	return &Error{Kind: ErrPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) error {
	return &Error{Kind: ErrForbidden, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...any) error {
	return &Error{Kind: ErrUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFound for any resource.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
