package otp

import (
	"fmt"
	"time"
)

// Purpose is the closed set of reasons a challenge may be issued.
// Keeping it an enum prevents typos from creating challenges nothing
// ever looks up.
type Purpose string

const (
	// PurposeAdminVerification verifies accounts created by an admin.
	PurposeAdminVerification Purpose = "admin_verification"
)

// ParsePurpose validates a purpose tag read from storage or a request.
func ParsePurpose(s string) (Purpose, error) {
	switch Purpose(s) {
	case PurposeAdminVerification:
		return PurposeAdminVerification, nil
	}
	return "", fmt.Errorf("unknown otp purpose %q", s)
}

// Challenge is one issued verification code. At most one unused,
// unexpired challenge per (email, purpose) is treated as valid; lookups
// always take the most recently created match.
type Challenge struct {
	ID        string
	Email     string
	Code      string
	Purpose   Purpose
	Used      bool
	CreatedAt time.Time
	ExpiresAt time.Time
}
