// Package otp generates and stores one-time email verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"time"
)

// DefaultLength is the number of digits in a generated code.
const DefaultLength = 6

// Generator produces random numeric codes and their expiry timestamps.
// Now is injectable for tests and defaults to the UTC wall clock.
type Generator struct {
	Now func() time.Time
}

// NewGenerator builds a Generator on the real clock.
func NewGenerator() *Generator {
	return &Generator{Now: func() time.Time { return time.Now().UTC() }}
}

// Code returns a decimal string of the given length, each digit drawn
// independently and uniformly from a cryptographically secure source.
func (g *Generator) Code(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}
	digits := make([]byte, length)
	buf := make([]byte, 1)
	for i := 0; i < length; {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		// Reject values above the largest multiple of 10 to keep the
		// distribution uniform.
		if buf[0] >= 250 {
			continue
		}
		digits[i] = '0' + buf[0]%10
		i++
	}
	return string(digits), nil
}

// Expiry returns the expiry timestamp for a code issued now.
func (g *Generator) Expiry(ttl time.Duration) time.Time {
	return g.Now().Add(ttl)
}
