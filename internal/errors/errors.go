// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

// Sentinel errors for the service layer. Handlers never branch on raw
// gorm or redis errors; everything crosses the service boundary as one
// of these (possibly wrapped) or as an opaque internal error.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username or email already registered")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
)

// InvalidArgumentError carries a client-facing validation message.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string { return e.Msg }

// InvalidArgument creates a validation error safe to surface verbatim.
func InvalidArgument(format string, args ...any) error {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps service/infra errors onto HTTP status codes.
// Centralized so handlers stay uniform, mirroring the usual pattern of
// a single status mapper in front of the transport.
func HTTPStatus(err error) int {
	var invalid *InvalidArgumentError

	switch {
	case err == nil:
		return http.StatusOK

	case errors.As(err, &invalid):
		return http.StatusBadRequest

	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrUsernameTaken), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing message for an error. Internal
// errors are flattened to a generic message so details stay in logs.
func Message(err error) string {
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound.Error()
	}
	return err.Error()
}
