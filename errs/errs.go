package errs

import (
	"errors"
	"fmt"
)

// Error kinds checked with errors.Is. Handlers translate them to HTTP
// status codes in a single place; services never touch status codes.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration error")
)

func Unauthorized(format string, args ...any) error {
	return wrap(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return wrap(ErrForbidden, format, args...)
}

func NotFound(format string, args ...any) error {
	return wrap(ErrNotFound, format, args...)
}

func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

func Conflict(format string, args ...any) error {
	return wrap(ErrConflict, format, args...)
}

func Configuration(format string, args ...any) error {
	return wrap(ErrConfiguration, format, args...)
}

func wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s%w", fmt.Sprintf(format+": ", args...), kind)
}

// Message strips the kind suffix appended by wrap, leaving the
// human-readable part for API responses.
func Message(err error) string {
	for _, kind := range []error{ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation, ErrConflict, ErrConfiguration} {
		if errors.Is(err, kind) {
			msg := err.Error()
			suffix := ": " + kind.Error()
			if len(msg) > len(suffix) && msg[len(msg)-len(suffix):] == suffix {
				return msg[:len(msg)-len(suffix)]
			}
		}
	}
	return err.Error()
}
