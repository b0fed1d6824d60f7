// Package apperrors defines the sentinel errors shared by the account,
// auth, admin and token services. Handlers match them with errors.Is and
// translate them to HTTP status codes; services never format user-facing
// messages themselves.
package apperrors

import "errors"

var (
	// ErrInvalidInput covers malformed or missing request fields caught
	// before any store lookup (bad email shape, empty OTP code).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials is returned for both unknown accounts and
	// wrong passwords so callers cannot discover which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountUnverified rejects logins for users that matched their
	// password but have not completed email verification.
	ErrAccountUnverified = errors.New("account not verified")

	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")

	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")
	ErrTokenInvalid = errors.New("token invalid")

	ErrOtpNotFound = errors.New("verification code not found")
	ErrOtpExpired  = errors.New("verification code expired")
	ErrOtpMismatch = errors.New("verification code mismatch")

	// ErrDelivery marks notification failures. It is logged and swallowed
	// by callers; it must never abort the operation that triggered it.
	ErrDelivery = errors.New("notification delivery failed")
)
