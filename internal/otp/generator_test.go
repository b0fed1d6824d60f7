package otp

import (
	"testing"
	"time"
)

func TestCodeLengthAndAlphabet(t *testing.T) {
	gen := NewGenerator()
	for i := 0; i < 50; i++ {
		code, err := gen.Code(DefaultLength)
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if len(code) != DefaultLength {
			t.Fatalf("expected %d digits, got %q", DefaultLength, code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit %q in code %q", r, code)
			}
		}
	}
}

func TestCodeDefaultsLength(t *testing.T) {
	gen := NewGenerator()
	code, err := gen.Code(0)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}
	if len(code) != DefaultLength {
		t.Fatalf("expected default length %d, got %d", DefaultLength, len(code))
	}
}

func TestExpiryUsesInjectedClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	gen := &Generator{Now: func() time.Time { return now }}

	expiry := gen.Expiry(30 * time.Minute)
	if !expiry.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(30*time.Minute), expiry)
	}
}
