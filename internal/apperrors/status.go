package apperrors

import (
	"errors"
	"net/http"
)

// Status maps a sentinel error to the HTTP status the transport should
// return. Unrecognized errors map to 500; services are expected to wrap,
// not replace, the sentinels.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrDuplicateEmail),
		errors.Is(err, ErrOtpExpired), errors.Is(err, ErrOtpMismatch):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenRevoked), errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrAccountUnverified), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOtpNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

var sentinels = []error{
	ErrInvalidInput, ErrInvalidCredentials, ErrAccountUnverified,
	ErrForbidden, ErrNotFound, ErrDuplicateEmail,
	ErrTokenExpired, ErrTokenRevoked, ErrTokenInvalid,
	ErrOtpNotFound, ErrOtpExpired, ErrOtpMismatch,
}

// Message returns the text a handler may show to the client. Known
// sentinels surface their own message; anything else collapses to a
// generic one so store and driver detail stays out of responses.
func Message(err error) string {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}
